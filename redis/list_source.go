package redis

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kbukum/streamkit/errors"
	"github.com/kbukum/streamkit/logger"
	"github.com/kbukum/streamkit/resilience"
	"github.com/kbukum/streamkit/stream"
)

// ListSource is a stream.Iterator that pops elements from a Redis list with
// BLPOP. Each Next issues one BLPOP; the sequence ends on idle timeout, on
// the end marker or after MaxItems elements. A failed BLPOP may be retried
// with another Next.
type ListSource struct {
	client *Client
	cfg    ListConfig
	popped int
	done   bool
}

var _ stream.Iterator[string] = (*ListSource)(nil)

// NewListSource creates a ListSource. An invalid config yields a source
// whose first Next reports the error.
func NewListSource(client *Client, cfg ListConfig) *ListSource {
	cfg.ApplyDefaults()
	return &ListSource{client: client, cfg: cfg}
}

// NewListStream wraps a ListSource in an async stream, retrying failed pops
// when cfg.Retry allows more than one attempt.
func NewListStream(client *Client, cfg ListConfig, opts ...stream.Option) *stream.AsyncStream[string] {
	return stream.FromIterator(withRetry[string](NewListSource(client, cfg), client, cfg)).With(opts...)
}

func withRetry[T any](src stream.Iterator[T], client *Client, cfg ListConfig) stream.Iterator[T] {
	if cfg.Retry.MaxAttempts <= 1 {
		return src
	}
	rc := cfg.Retry
	if rc.OnRetry == nil {
		rc.OnRetry = func(attempt int, err error, backoff time.Duration) {
			client.log.Warn("redis pop failed, retrying", logger.Fields(
				logger.FieldSource, cfg.Key,
				"attempt", attempt,
				"backoff", backoff.String(),
				logger.FieldError, err.Error(),
			))
		}
	}
	return resilience.RetryIterator(src, rc)
}

// Next pops the next element.
func (s *ListSource) Next(ctx context.Context) (string, bool, error) {
	if s.done {
		return "", false, nil
	}
	if err := s.cfg.Validate(); err != nil {
		s.done = true
		return "", false, err
	}
	if s.cfg.MaxItems > 0 && s.popped >= s.cfg.MaxItems {
		s.done = true
		return "", false, nil
	}

	res, err := s.client.rdb.BLPop(ctx, s.cfg.IdleTimeout, s.cfg.Key).Result()
	switch {
	case stderrors.Is(err, goredis.Nil):
		s.done = true
		s.client.log.Debug("redis list idle", logger.Fields(
			logger.FieldSource, s.cfg.Key,
			logger.FieldPulled, s.popped,
		))
		return "", false, nil
	case err != nil:
		return "", false, errors.SourceFailed("redis blpop "+s.cfg.Key, err)
	}

	// BLPOP replies with [key, value].
	v := res[1]
	if s.cfg.EndMarker != "" && v == s.cfg.EndMarker {
		s.done = true
		return "", false, nil
	}
	s.popped++
	return v, true, nil
}

// Close marks the source exhausted. The client stays open.
func (s *ListSource) Close() error {
	s.done = true
	return nil
}

// JSONListSource decodes each popped element as JSON into T.
type JSONListSource[T any] struct {
	list *ListSource
}

var _ stream.Iterator[struct{}] = (*JSONListSource[struct{}])(nil)

// NewJSONListStream streams JSON-encoded list elements decoded into T. An
// element that does not decode fails the stream with INVALID_INPUT.
func NewJSONListStream[T any](client *Client, cfg ListConfig, opts ...stream.Option) *stream.AsyncStream[T] {
	src := &JSONListSource[T]{list: NewListSource(client, cfg)}
	return stream.FromIterator(withRetry[T](src, client, cfg)).With(opts...)
}

// Next pops and decodes the next element.
func (s *JSONListSource[T]) Next(ctx context.Context) (T, bool, error) {
	var v T
	raw, ok, err := s.list.Next(ctx)
	if err != nil || !ok {
		return v, ok, err
	}
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		s.list.done = true
		return v, false, errors.InvalidInput(s.list.cfg.Key, "element is not valid JSON").WithCause(err)
	}
	return v, true, nil
}

// Close closes the underlying list source.
func (s *JSONListSource[T]) Close() error { return s.list.Close() }
