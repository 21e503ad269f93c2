package storage

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/kbukum/streamkit/errors"
	"github.com/kbukum/streamkit/stream"
)

// maxLineSize bounds a single line; longer lines fail the stream.
const maxLineSize = 1 << 20

// LineSource is a stream.Iterator over the lines of one object. The object
// is opened on the first Next, with that call's context.
type LineSource struct {
	store   Storage
	path    string
	body    io.ReadCloser
	scanner *bufio.Scanner
	done    bool
}

var _ stream.Iterator[string] = (*LineSource)(nil)

// NewLineSource creates a LineSource for path.
func NewLineSource(store Storage, path string) *LineSource {
	return &LineSource{store: store, path: path}
}

// NewLineStream streams the lines of the object at path, without line
// terminators.
func NewLineStream(store Storage, path string, opts ...stream.Option) *stream.AsyncStream[string] {
	return stream.FromIterator[string](NewLineSource(store, path)).With(opts...)
}

// Next returns the next line.
func (s *LineSource) Next(ctx context.Context) (string, bool, error) {
	if s.done {
		return "", false, nil
	}
	if s.scanner == nil {
		if err := s.open(ctx); err != nil {
			s.done = true
			return "", false, err
		}
	}
	if s.scanner.Scan() {
		return s.scanner.Text(), true, nil
	}
	s.done = true
	if err := s.scanner.Err(); err != nil {
		return "", false, errors.SourceFailed("storage "+s.path, err)
	}
	return "", false, nil
}

func (s *LineSource) open(ctx context.Context) error {
	body, err := s.store.Open(ctx, s.path)
	if err != nil {
		return err
	}
	s.body = body

	var r io.Reader = body
	if strings.HasSuffix(s.path, ".gz") {
		zr, err := gzip.NewReader(body)
		if err != nil {
			return errors.InvalidInput(s.path, "not a gzip stream").WithCause(err)
		}
		r = zr
	}
	s.scanner = bufio.NewScanner(r)
	s.scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return nil
}

// Close closes the object body.
func (s *LineSource) Close() error {
	s.done = true
	if s.body == nil {
		return nil
	}
	body := s.body
	s.body = nil
	return body.Close()
}

// NewObjectStream streams the objects under prefix. The listing runs on the
// first pull.
func NewObjectStream(store Storage, prefix string, opts ...stream.Option) *stream.AsyncStream[ObjectInfo] {
	var (
		objects []ObjectInfo
		listed  bool
		i       int
	)
	return stream.FromFunc(func(ctx context.Context) (ObjectInfo, bool, error) {
		if !listed {
			var err error
			if objects, err = store.List(ctx, prefix); err != nil {
				return ObjectInfo{}, false, err
			}
			listed = true
		}
		if i >= len(objects) {
			return ObjectInfo{}, false, nil
		}
		i++
		return objects[i-1], true, nil
	}).With(opts...)
}
