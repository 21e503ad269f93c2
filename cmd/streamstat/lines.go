package main

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/kbukum/streamkit/errors"
	"github.com/kbukum/streamkit/stream"
)

// scanLines streams the lines of r. The scanner only advances when the
// stream asks for the next line.
func scanLines(r io.Reader, opts ...stream.Option) *stream.AsyncStream[string] {
	return stream.Generate(func(_ context.Context, yield func(string) error) error {
		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for sc.Scan() {
			if err := yield(sc.Text()); err != nil {
				return err
			}
		}
		return sc.Err()
	}).With(opts...)
}

// openInput opens path, or stdin for "-".
func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.SourceUnavailable(path, err)
	}
	return f, nil
}
