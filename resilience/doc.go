// Package resilience retries transient failures with exponential backoff.
//
// Retry runs a single operation; RetryIterator wraps a stream source so a
// failed pull is retried before the error reaches the terminal call:
//
//	src := resilience.RetryIterator[string](redis.NewListSource(client, cfg), resilience.RetryConfig{
//	    MaxAttempts:    5,
//	    InitialBackoff: 200 * time.Millisecond,
//	})
//	lines := stream.FromIterator[string](src)
//
// By default only errors marked retryable (SOURCE_FAILED, SOURCE_UNAVAILABLE)
// are retried; context cancellation never is.
package resilience
