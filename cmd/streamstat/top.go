package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kbukum/streamkit/stream"
	"github.com/kbukum/streamkit/validation"
)

func newTopCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "top <file>",
		Short: "Print the most frequent lines of a file",
		Long: `top counts how often each line occurs and prints the most frequent ones,
highest count first. Lines are trimmed and may be lowercased before
counting; "-" reads standard input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := a.cfg.Top
			flags := cmd.Flags()
			if flags.Changed("n") {
				opts.N, _ = flags.GetInt("n")
			}
			if flags.Changed("skip-header") {
				opts.SkipHeader, _ = flags.GetInt("skip-header")
			}
			if flags.Changed("min-length") {
				opts.MinLength, _ = flags.GetInt("min-length")
			}
			if flags.Changed("lowercase") {
				opts.Lowercase, _ = flags.GetBool("lowercase")
			}
			if err := validation.New().
				Required("file", args[0]).
				Min("n", opts.N, 0).
				Min("skip-header", opts.SkipHeader, 0).
				Min("min-length", opts.MinLength, 0).
				Validate(); err != nil {
				return err
			}

			in, err := openInput(args[0])
			if err != nil {
				return err
			}
			defer in.Close()

			top, err := topLines(cmd.Context(), scanLines(in, a.streamOptions("top")...), opts)
			if err != nil {
				return err
			}
			printTop(cmd.OutOrStdout(), top)
			return nil
		},
	}
	cmd.Flags().IntP("n", "n", defaultTopN, "number of lines to print (0 for all)")
	cmd.Flags().Int("skip-header", 0, "leading lines to ignore")
	cmd.Flags().Int("min-length", defaultMinLength, "ignore lines shorter than this after trimming")
	cmd.Flags().Bool("lowercase", false, "count lines case-insensitively")
	return cmd
}

// topLines counts normalized lines and returns the opts.N most common.
func topLines(ctx context.Context, lines *stream.AsyncStream[string], opts TopConfig) ([]stream.Pair[string, int], error) {
	normalized := lines.
		Skip(opts.SkipHeader).
		Map(strings.TrimSpace)
	if opts.Lowercase {
		normalized = normalized.Map(strings.ToLower)
	}
	normalized = normalized.Filter(func(s string) bool { return len(s) >= opts.MinLength && s != "" })

	counts, err := stream.IntoAsync(ctx, normalized, stream.ToCounter[string]())
	if err != nil {
		return nil, err
	}
	return counts.MostCommon(opts.N), nil
}

func printTop(w io.Writer, top []stream.Pair[string, int]) {
	width := 0
	for _, p := range top {
		width = max(width, len(fmt.Sprint(p.Value)))
	}
	for _, p := range top {
		fmt.Fprintf(w, "%*d  %s\n", width, p.Value, p.Key)
	}
}
