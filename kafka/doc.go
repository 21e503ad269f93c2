// Package kafka feeds Kafka topics into streamkit async streams.
//
// TopicSource reads one message per pull from a kafka-go Reader. The
// sequence ends after MaxMessages messages, or when no message arrives
// within IdleTimeout, so a stream over a topic can terminate:
//
//	orders, err := kafka.NewTopicStream(kafka.Config{
//	    Brokers:     []string{"localhost:9092"},
//	    Topic:       "orders",
//	    GroupID:     "order-stats",
//	    IdleTimeout: 10 * time.Second,
//	}, log)
//	counts, err := stream.IntoAsync(ctx, stream.MapToAsync(orders, kafka.KeyOf), stream.ToCounter[string]())
package kafka
