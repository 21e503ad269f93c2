// Package redis feeds Redis lists into streamkit async streams.
//
// ListSource pops list elements with BLPOP, one element per pull, so a
// stream consumes a work queue at its own pace:
//
//	client, err := redis.New(redis.Config{Addr: "localhost:6379"}, log)
//	events := redis.NewListStream(client, redis.ListConfig{
//	    Key:         "events",
//	    IdleTimeout: 5 * time.Second,
//	    EndMarker:   "EOF",
//	})
//	n, err := events.Filter(notEmpty).Count(ctx)
//
// JSONListSource decodes each element into a typed value; Push and PushJSON
// are the producer side.
package redis
