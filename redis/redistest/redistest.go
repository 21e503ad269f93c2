// Package redistest starts an in-memory Redis for tests.
package redistest

import (
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/kbukum/streamkit/logger"
	"github.com/kbukum/streamkit/redis"
)

// Start runs miniredis and returns a client connected to it. Both are closed
// when the test ends.
func Start(t testing.TB) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mini, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mini.Close)

	client, err := redis.New(redis.Config{Addr: mini.Addr()}, logger.Nop())
	if err != nil {
		t.Fatalf("create redis client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client, mini
}
