// Package stream provides fluent, single-use pipelines over synchronous and
// asynchronous sequences.
//
// A stream records Map, Filter and Skip operations without running them.
// The first terminal call composes the recorded operations in registration
// order into one lazy sequence, drains it element by element into a value
// or a container, and closes the stream. Every later call on the same stream
// fails with ErrConsumed; chaining calls record that error in Err.
//
// # Synchronous streams
//
//	out, err := stream.Of(1, 2, 3).
//	    Map(func(x int) int { return x + 1 }).
//	    Filter(func(x int) bool { return x > 2 }).
//	    Collect() // [3 4]
//
// # Asynchronous streams
//
// AsyncStream pulls from an Iterator one element at a time. Sources include
// channels, pull functions and generator-style producers:
//
//	s := stream.Generate(func(ctx context.Context, yield func(int) error) error {
//	    for i := range 10 {
//	        if err := yield(i); err != nil {
//	            return err
//	        }
//	    }
//	    return nil
//	})
//	out, err := s.Skip(3).Map(func(x int) int { return x + 1 }).Collect(ctx)
//
// # Containers
//
// Into and IntoAsync build containers through a Collector: ToSlice, ToTuple,
// ToSet, ToMap, ToOrderedMap, ToMapOf, ToCounter, or CollectorFunc for
// caller-defined types.
package stream
