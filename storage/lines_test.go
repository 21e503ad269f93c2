package storage_test

import (
	"bytes"
	"context"
	stderrors "errors"
	"slices"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"

	apperrors "github.com/kbukum/streamkit/errors"
	"github.com/kbukum/streamkit/logger"
	"github.com/kbukum/streamkit/storage"
	"github.com/kbukum/streamkit/storage/local"
	"github.com/kbukum/streamkit/stream"
)

func newLocal(t *testing.T) storage.Storage {
	t.Helper()
	store, err := storage.New(context.Background(), storage.Config{BasePath: t.TempDir()}, logger.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return store
}

func upload(t *testing.T, store storage.Storage, path string, data []byte) {
	t.Helper()
	if err := store.Upload(context.Background(), path, bytes.NewReader(data)); err != nil {
		t.Fatalf("Upload %s: %v", path, err)
	}
}

func gzipped(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(s)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestLineStream(t *testing.T) {
	store := newLocal(t)
	ctx := context.Background()
	upload(t, store, "logs/app.log", []byte("level=info a\nlevel=error b\nlevel=error c\n"))
	upload(t, store, "logs/app.log.gz", gzipped(t, "x\ny\n"))

	errs, err := storage.NewLineStream(store, "logs/app.log").
		Filter(func(l string) bool { return strings.Contains(l, "level=error") }).
		Count(ctx)
	if err != nil || errs != 2 {
		t.Fatalf("Count = %d, %v", errs, err)
	}

	lines, err := storage.NewLineStream(store, "logs/app.log.gz").Collect(ctx)
	if err != nil {
		t.Fatalf("Collect gz: %v", err)
	}
	if !slices.Equal(lines, []string{"x", "y"}) {
		t.Errorf("gz lines = %v", lines)
	}
}

func TestLineStream_Errors(t *testing.T) {
	store := newLocal(t)
	ctx := context.Background()
	upload(t, store, "plain.gz", []byte("not gzip\n"))

	_, err := storage.NewLineStream(store, "missing.txt").Collect(ctx)
	if !stderrors.Is(err, storage.ErrNotFound) {
		t.Errorf("missing: %v", err)
	}
	if appErr, ok := apperrors.AsAppError(err); !ok || appErr.Retryable {
		t.Errorf("missing object should be a non-retryable AppError: %v", err)
	}

	_, err = storage.NewLineStream(store, "plain.gz").Collect(ctx)
	if !apperrors.HasCode(err, apperrors.ErrCodeInvalidInput) {
		t.Errorf("bad gzip: %v", err)
	}

	_, err = storage.NewLineStream(store, "../outside.txt").Collect(ctx)
	if !apperrors.HasCode(err, apperrors.ErrCodeInvalidInput) {
		t.Errorf("escape: %v", err)
	}
}

func TestObjectStream(t *testing.T) {
	store := newLocal(t)
	ctx := context.Background()
	upload(t, store, "logs/b.log", []byte("1\n2\n"))
	upload(t, store, "logs/a.log", []byte("1\n"))
	upload(t, store, "other/c.log", []byte("1\n"))

	paths, err := stream.MapToAsync(storage.NewObjectStream(store, "logs/"),
		func(o storage.ObjectInfo) string { return o.Path }).Collect(ctx)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if !slices.Equal(paths, []string{"logs/a.log", "logs/b.log"}) {
		t.Errorf("paths = %v", paths)
	}

	// Total line count across every object under the prefix.
	total := 0
	err = storage.NewObjectStream(store, "logs/").ForEach(ctx, func(o storage.ObjectInfo) {
		n, err := storage.NewLineStream(store, o.Path).Count(ctx)
		if err != nil {
			t.Errorf("Count %s: %v", o.Path, err)
		}
		total += n
	})
	if err != nil || total != 3 {
		t.Errorf("total = %d, %v", total, err)
	}
}

func TestNew(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		cfg  storage.Config
	}{
		{"unknown provider", storage.Config{Provider: "ftp"}},
		{"s3 without bucket", storage.Config{Provider: storage.ProviderS3}},
		{"half credentials", storage.Config{Provider: storage.ProviderS3, Bucket: "b", AccessKey: "k"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := storage.New(ctx, tt.cfg, logger.Nop()); !apperrors.HasCode(err, apperrors.ErrCodeInvalidConfig) {
				t.Errorf("err = %v, want INVALID_CONFIG", err)
			}
		})
	}

	// s3 is not imported here, so its factory is not registered.
	_, err := storage.New(ctx, storage.Config{Provider: storage.ProviderS3, Bucket: "b"}, logger.Nop())
	if !apperrors.HasCode(err, apperrors.ErrCodeInvalidConfig) || !strings.Contains(err.Error(), "not registered") {
		t.Errorf("unregistered: %v", err)
	}

	if _, err := local.New(t.TempDir()); err != nil {
		t.Errorf("local.New: %v", err)
	}
}
