package kafka

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	apperrors "github.com/kbukum/streamkit/errors"
	"github.com/kbukum/streamkit/logger"
	"github.com/kbukum/streamkit/stream"
)

// fakeReader serves queued messages, then blocks until the read context
// ends, like a reader on a quiet topic.
type fakeReader struct {
	msgs   []kafkago.Message
	err    error
	reads  int
	closed int
}

func (r *fakeReader) ReadMessage(ctx context.Context) (kafkago.Message, error) {
	r.reads++
	if len(r.msgs) > 0 {
		m := r.msgs[0]
		r.msgs = r.msgs[1:]
		return m, nil
	}
	if r.err != nil {
		return kafkago.Message{}, r.err
	}
	<-ctx.Done()
	return kafkago.Message{}, ctx.Err()
}

func (r *fakeReader) Close() error {
	r.closed++
	return nil
}

func msgs(keys ...string) []kafkago.Message {
	out := make([]kafkago.Message, len(keys))
	for i, k := range keys {
		out[i] = kafkago.Message{Topic: "orders", Offset: int64(i), Key: []byte(k), Value: []byte("v" + k)}
	}
	return out
}

func TestTopicSource_MaxMessages(t *testing.T) {
	r := &fakeReader{msgs: msgs("a", "b", "c", "d")}
	src := NewTopicSource(r, Config{Topic: "orders", MaxMessages: 3}, logger.Nop())

	keys, err := stream.MapToAsync(stream.FromIterator[Message](src), KeyOf).Collect(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(keys, []string{"a", "b", "c"}) {
		t.Errorf("keys = %v", keys)
	}
	if r.reads != 3 {
		t.Errorf("reads = %d, want 3", r.reads)
	}
	if r.closed != 1 {
		t.Errorf("reader closed %d times, want 1", r.closed)
	}
}

func TestTopicSource_IdleTimeout(t *testing.T) {
	r := &fakeReader{msgs: msgs("a", "b", "a")}
	src := NewTopicSource(r, Config{Topic: "orders", IdleTimeout: 20 * time.Millisecond}, logger.Nop())

	counts, err := stream.IntoAsync(context.Background(),
		stream.MapToAsync(stream.FromIterator[Message](src), KeyOf),
		stream.ToCounter[string]())
	if err != nil {
		t.Fatal(err)
	}
	if counts.Count("a") != 2 || counts.Count("b") != 1 {
		t.Errorf("counts = %v", counts.Map())
	}
}

func TestTopicSource_CallerCancel(t *testing.T) {
	r := &fakeReader{}
	src := NewTopicSource(r, Config{Topic: "orders", IdleTimeout: time.Minute}, logger.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := stream.FromIterator[Message](src).Count(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("caller deadline must surface as an error, got %v", err)
	}
}

func TestTopicSource_ReadErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code apperrors.ErrorCode
	}{
		{"connection", errors.New("dial tcp 10.0.0.1:9092: connection refused"), apperrors.ErrCodeSourceUnavailable},
		{"unknown topic", errors.New("[3] Unknown Topic Or Partition"), apperrors.ErrCodeInvalidConfig},
		{"other", errors.New("corrupt message"), apperrors.ErrCodeSourceFailed},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := &fakeReader{msgs: msgs("a"), err: tc.err}
			src := NewTopicSource(r, Config{Topic: "orders"}, logger.Nop())

			_, err := stream.FromIterator[Message](src).Collect(context.Background())
			if !apperrors.HasCode(err, tc.code) {
				t.Errorf("expected %s, got %v", tc.code, err)
			}
			if !errors.Is(err, tc.err) {
				t.Errorf("cause lost: %v", err)
			}
		})
	}
}

func TestFromKafka(t *testing.T) {
	ts := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	m := fromKafka(kafkago.Message{
		Topic:     "orders",
		Partition: 2,
		Offset:    41,
		Key:       []byte("k"),
		Value:     []byte(`{"id":1}`),
		Headers:   []kafkago.Header{{Key: "content-type", Value: []byte("application/json")}},
		Time:      ts,
	})
	if m.Key != "k" || ValueOf(m) != `{"id":1}` || m.Partition != 2 || m.Offset != 41 || !m.Time.Equal(ts) {
		t.Errorf("message = %+v", m)
	}
	if m.Headers["content-type"] != "application/json" {
		t.Errorf("headers = %v", m.Headers)
	}
	if fromKafka(kafkago.Message{}).Headers != nil {
		t.Error("no headers should give a nil map")
	}
}

func TestConfig(t *testing.T) {
	cfg := Config{Topic: "orders"}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if cfg.StartOffset != OffsetFirst || cfg.MinBytes != 1 || cfg.MaxBytes != 10e6 {
		t.Errorf("defaults = %+v", cfg)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no topic", func(c *Config) { c.Topic = "" }},
		{"no brokers", func(c *Config) { c.Brokers = nil }},
		{"bad offset", func(c *Config) { c.StartOffset = "middle" }},
		{"negative max", func(c *Config) { c.MaxMessages = -1 }},
		{"sasl without user", func(c *Config) { c.EnableSASL = true; c.SASLMechanism = "PLAIN" }},
		{"bad sasl", func(c *Config) { c.EnableSASL = true; c.SASLMechanism = "GSSAPI"; c.Username = "u" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := cfg
			tc.mutate(&c)
			if err := c.Validate(); !apperrors.HasCode(err, apperrors.ErrCodeInvalidConfig) {
				t.Errorf("expected INVALID_CONFIG, got %v", err)
			}
		})
	}
}

func TestNewDialer(t *testing.T) {
	cfg := Config{Topic: "orders", EnableSASL: true, SASLMechanism: "SCRAM-SHA-512", Username: "u", Password: "p"}
	cfg.ApplyDefaults()
	d, err := NewDialer(&cfg)
	if err != nil {
		t.Fatal(err)
	}
	if d.SASLMechanism == nil || d.SASLMechanism.Name() != "SCRAM-SHA-512" {
		t.Errorf("mechanism = %v", d.SASLMechanism)
	}
	if d.Timeout != 10*time.Second {
		t.Errorf("timeout = %v", d.Timeout)
	}

	cfg.EnableTLS = true
	cfg.TLSCAFile = "/nonexistent/ca.pem"
	if _, err := NewDialer(&cfg); !apperrors.HasCode(err, apperrors.ErrCodeInvalidConfig) {
		t.Errorf("expected INVALID_CONFIG for missing CA, got %v", err)
	}
}

func TestNewTopicStream_InvalidConfig(t *testing.T) {
	if _, err := NewTopicStream(Config{}, logger.Nop()); !apperrors.HasCode(err, apperrors.ErrCodeInvalidConfig) {
		t.Errorf("expected INVALID_CONFIG, got %v", err)
	}
}

func TestNewReader(t *testing.T) {
	r, err := NewReader(Config{Topic: "orders", StartOffset: OffsetLast}, logger.Nop())
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	if got := r.Config().Topic; got != "orders" {
		t.Errorf("topic = %q", got)
	}
	if r.Config().StartOffset != kafkago.LastOffset {
		t.Errorf("start offset = %d", r.Config().StartOffset)
	}
}
