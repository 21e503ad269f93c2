package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kbukum/streamkit/errors"
	"github.com/kbukum/streamkit/logger"
	"github.com/kbukum/streamkit/stream"
)

func newSumCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sum <file>",
		Short: "Add up the numbers in a file, one per line",
		Long: `sum parses every non-blank line that does not start with '#' as a number
and prints the total. Lines that are not numbers are skipped and counted,
or fail the command with --strict.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			strict := a.cfg.Sum.Strict
			if cmd.Flags().Changed("strict") {
				strict, _ = cmd.Flags().GetBool("strict")
			}

			in, err := openInput(args[0])
			if err != nil {
				return err
			}
			defer in.Close()

			res, err := sumLines(cmd.Context(), scanLines(in, a.streamOptions("sum")...), strict)
			if err != nil {
				return err
			}
			if res.Skipped > 0 {
				a.log.Warn("lines skipped", logger.Fields("skipped", res.Skipped, "file", args[0]))
			}
			fmt.Fprintln(cmd.OutOrStdout(), strconv.FormatFloat(res.Total, 'f', -1, 64))
			return nil
		},
	}
	cmd.Flags().Bool("strict", false, "fail on the first line that is not a number")
	return cmd
}

// number is a parsed input line.
type number struct {
	line  int
	text  string
	value float64
	err   error
}

// sumResult is the total and the count of lines that were not numbers.
type sumResult struct {
	Total   float64
	Count   int
	Skipped int
}

// sumBuilder accumulates parsed numbers. In strict mode the first bad line
// stops the stream.
type sumBuilder struct {
	strict bool
	res    sumResult
}

func (b *sumBuilder) Add(n number) error {
	if n.err != nil {
		if b.strict {
			return errors.InvalidInput(fmt.Sprintf("line %d", n.line), fmt.Sprintf("line %d: %q is not a number", n.line, n.text)).WithCause(n.err)
		}
		b.res.Skipped++
		return nil
	}
	b.res.Total += n.value
	b.res.Count++
	return nil
}

func (b *sumBuilder) Build() (sumResult, error) { return b.res, nil }

func sumLines(ctx context.Context, lines *stream.AsyncStream[string], strict bool) (sumResult, error) {
	lineNo := 0
	numbered := stream.MapToAsync(lines, func(s string) number {
		lineNo++
		return number{line: lineNo, text: strings.TrimSpace(s)}
	})
	parsed := numbered.
		Filter(func(n number) bool { return n.text != "" && !strings.HasPrefix(n.text, "#") }).
		Map(func(n number) number {
			n.value, n.err = strconv.ParseFloat(n.text, 64)
			return n
		})

	collector := stream.Collector[number, sumResult](func() stream.Builder[number, sumResult] {
		return &sumBuilder{strict: strict}
	})
	return stream.IntoAsync(ctx, parsed, collector)
}
