// Command streamstat computes line statistics over files with streamkit
// async streams.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/kbukum/streamkit/logger"
	"github.com/kbukum/streamkit/observability"
	"github.com/kbukum/streamkit/stream"
	"github.com/kbukum/streamkit/version"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app is the state shared by subcommands once configuration is loaded.
type app struct {
	cfg      *Config
	log      *logger.Logger
	observer stream.Observer
	shutdown observability.ShutdownFunc
}

func (a *app) streamOptions(name string) []stream.Option {
	opts := []stream.Option{stream.WithName(name), stream.WithLogger(a.log)}
	if a.observer != nil {
		opts = append(opts, stream.WithObserver(a.observer))
	}
	return opts
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := loadConfig(path)
	if err != nil {
		return err
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.Logging.Level = "debug"
	}

	a.cfg = cfg
	logger.Init(cfg.Logging)
	a.log = logger.New(&cfg.Logging, cfg.Name).WithComponent("streamstat")
	logger.Register("streamstat", a.log)

	shutdown, err := observability.Setup(cmd.Context(), cfg.ServiceConfig)
	if err != nil {
		return err
	}
	a.shutdown = shutdown
	if cfg.Telemetry.Enabled {
		obs, err := observability.NewStreamObserver(otel.GetTracerProvider(), otel.GetMeterProvider())
		if err != nil {
			return err
		}
		a.observer = obs
	}

	a.log.Debug("configuration loaded", logger.Fields(
		"environment", cfg.Environment,
		"telemetry", cfg.Telemetry.Enabled,
	))
	return nil
}

func (a *app) teardown(cmd *cobra.Command, _ []string) error {
	if a.shutdown == nil {
		return nil
	}
	return a.shutdown(cmd.Context())
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "streamstat",
		Short: "Line statistics over files and standard input",
		Long: `streamstat reads text one line at a time and reports statistics:
the most frequent lines (top) or the sum of numeric lines (sum).

Configuration is read from config.yml (see --config) and environment
variables such as LOGGING_LEVEL or TOP_N.`,
		Version:            version.Get().Short(),
		SilenceUsage:       true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.teardown,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.PersistentFlags().String("config", "", "path to config.yml")
	root.PersistentFlags().Bool("debug", false, "log at debug level")

	root.AddCommand(newTopCmd(a), newSumCmd(a), newVersionCmd())
	return root
}
