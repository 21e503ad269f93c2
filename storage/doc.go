// Package storage streams the contents of stored objects line by line.
//
// Backends register themselves by provider name: import
// github.com/kbukum/streamkit/storage/local or .../storage/s3 and call New.
//
//	store, err := storage.New(ctx, storage.Config{Provider: "s3", Bucket: "logs"}, log)
//	if err != nil {
//	    return err
//	}
//	errorsPerDay, err := stream.IntoAsync(ctx,
//	    storage.NewLineStream(store, "2026/10/19/app.log.gz").
//	        Filter(func(l string) bool { return strings.Contains(l, "level=error") }),
//	    stream.ToCounter[string]())
//
// Objects whose path ends in ".gz" are decompressed on the fly.
package storage
