package kafka

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/kbukum/streamkit/errors"
	"github.com/kbukum/streamkit/logger"
	"github.com/kbukum/streamkit/stream"
)

// Message is a read-only copy of a Kafka record.
type Message struct {
	Topic     string
	Partition int
	Offset    int64
	Key       string
	Value     []byte
	Headers   map[string]string
	Time      time.Time
}

func fromKafka(m kafkago.Message) Message {
	var headers map[string]string
	if len(m.Headers) > 0 {
		headers = make(map[string]string, len(m.Headers))
		for _, h := range m.Headers {
			headers[h.Key] = string(h.Value)
		}
	}
	return Message{
		Topic:     m.Topic,
		Partition: m.Partition,
		Offset:    m.Offset,
		Key:       string(m.Key),
		Value:     m.Value,
		Headers:   headers,
		Time:      m.Time,
	}
}

// KeyOf returns the message key; handy with stream.MapToAsync.
func KeyOf(m Message) string { return m.Key }

// ValueOf returns the message value as a string.
func ValueOf(m Message) string { return string(m.Value) }

// MessageReader is the part of *kafkago.Reader a TopicSource uses.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafkago.Message, error)
	Close() error
}

var _ MessageReader = (*kafkago.Reader)(nil)

// TopicSource is a stream.Iterator over a Kafka topic.
type TopicSource struct {
	reader MessageReader
	cfg    Config
	log    *logger.Logger
	read   int
	done   bool
}

var _ stream.Iterator[Message] = (*TopicSource)(nil)

// NewTopicSource reads from reader. cfg supplies the topic name and the
// MaxMessages and IdleTimeout limits.
func NewTopicSource(reader MessageReader, cfg Config, log *logger.Logger) *TopicSource {
	if log == nil {
		log = logger.Get("kafka")
	}
	return &TopicSource{reader: reader, cfg: cfg, log: log}
}

// NewReader builds a kafka-go reader for cfg.
func NewReader(cfg Config, log *logger.Logger) (*kafkago.Reader, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	dialer, err := NewDialer(&cfg)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Get("kafka")
	}

	start := kafkago.FirstOffset
	if cfg.StartOffset == OffsetLast {
		start = kafkago.LastOffset
	}

	return kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:           cfg.Brokers,
		Topic:             cfg.Topic,
		GroupID:           cfg.GroupID,
		Dialer:            dialer,
		StartOffset:       start,
		MinBytes:          cfg.MinBytes,
		MaxBytes:          cfg.MaxBytes,
		SessionTimeout:    cfg.SessionTimeout,
		HeartbeatInterval: cfg.HeartbeatInterval,
		ErrorLogger: kafkago.LoggerFunc(func(msg string, args ...interface{}) {
			log.Error("kafka reader: "+fmt.Sprintf(msg, args...), logger.Fields(
				logger.FieldSource, cfg.Topic,
				"group_id", cfg.GroupID,
			))
		}),
	}), nil
}

// NewTopicStream opens a reader for cfg and wraps it in an async stream. The
// reader is closed when the stream's terminal call returns.
func NewTopicStream(cfg Config, log *logger.Logger, opts ...stream.Option) (*stream.AsyncStream[Message], error) {
	reader, err := NewReader(cfg, log)
	if err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	src := NewTopicSource(reader, cfg, log)
	return stream.FromIterator[Message](src).With(opts...), nil
}

// Next reads the next message.
func (s *TopicSource) Next(ctx context.Context) (Message, bool, error) {
	if s.done {
		return Message{}, false, nil
	}
	if s.cfg.MaxMessages > 0 && s.read >= s.cfg.MaxMessages {
		s.done = true
		return Message{}, false, nil
	}

	readCtx := ctx
	if s.cfg.IdleTimeout > 0 {
		var cancel context.CancelFunc
		readCtx, cancel = context.WithTimeout(ctx, s.cfg.IdleTimeout)
		defer cancel()
	}

	m, err := s.reader.ReadMessage(readCtx)
	if err != nil {
		s.done = true
		if ctx.Err() == nil && stderrors.Is(err, context.DeadlineExceeded) && readCtx.Err() != nil {
			s.log.Debug("kafka topic idle", logger.Fields(
				logger.FieldSource, s.cfg.Topic,
				logger.FieldPulled, s.read,
			))
			return Message{}, false, nil
		}
		if ctx.Err() != nil {
			return Message{}, false, ctx.Err()
		}
		return Message{}, false, translate(err, s.cfg.Topic)
	}

	s.read++
	return fromKafka(m), true, nil
}

// Close closes the reader. Calling it more than once is safe.
func (s *TopicSource) Close() error {
	s.done = true
	if s.reader == nil {
		return nil
	}
	r := s.reader
	s.reader = nil
	if err := r.Close(); err != nil {
		return errors.SourceFailed("kafka topic "+s.cfg.Topic, err)
	}
	return nil
}
