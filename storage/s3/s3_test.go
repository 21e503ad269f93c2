package s3_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	apperrors "github.com/kbukum/streamkit/errors"
	"github.com/kbukum/streamkit/logger"
	"github.com/kbukum/streamkit/storage"
	"github.com/kbukum/streamkit/storage/s3"
	"github.com/kbukum/streamkit/stream"
)

// fakeS3 answers path-style GetObject and ListObjectsV2 for one bucket.
func fakeS3(t *testing.T, bucket string, objects map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/")
		name, key, _ := strings.Cut(path, "/")
		if name != bucket {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchBucket</Code><Message>no bucket</Message></Error>`)
			return
		}
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		if key == "" && r.URL.Query().Get("list-type") == "2" {
			prefix := r.URL.Query().Get("prefix")
			var keys []string
			for k := range objects {
				if strings.HasPrefix(k, prefix) {
					keys = append(keys, k)
				}
			}
			slices.Sort(keys)
			w.Header().Set("Content-Type", "application/xml")
			fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?><ListBucketResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/"><Name>%s</Name><Prefix>%s</Prefix><KeyCount>%d</KeyCount><MaxKeys>1000</MaxKeys><IsTruncated>false</IsTruncated>`, bucket, prefix, len(keys))
			for _, k := range keys {
				fmt.Fprintf(w, `<Contents><Key>%s</Key><Size>%d</Size><LastModified>2026-10-19T08:00:00.000Z</LastModified></Contents>`, k, len(objects[k]))
			}
			fmt.Fprint(w, `</ListBucketResult>`)
			return
		}

		body, ok := objects[key]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`)
			return
		}
		w.Header().Set("Content-Length", fmt.Sprint(len(body)))
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newStore(t *testing.T, endpoint, bucket string) *s3.Storage {
	t.Helper()
	t.Setenv("AWS_CONFIG_FILE", "/nonexistent")
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", "/nonexistent")
	t.Setenv("AWS_EC2_METADATA_DISABLED", "true")

	store, err := s3.New(context.Background(), storage.Config{
		Provider:  storage.ProviderS3,
		Bucket:    bucket,
		Endpoint:  endpoint,
		AccessKey: "test",
		SecretKey: "test",
	}, logger.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return store
}

func TestLineStreamFromS3(t *testing.T) {
	srv := fakeS3(t, "logs", map[string]string{
		"2026/10/19/app.log": "GET /a\nGET /b\nPOST /a\nGET /a\n",
		"2026/10/19/db.log":  "slow\n",
		"2026/10/18/app.log": "old\n",
	})
	store := newStore(t, srv.URL, "logs")
	ctx := context.Background()

	counts, err := stream.IntoAsync(ctx,
		stream.MapToAsync(storage.NewLineStream(store, "2026/10/19/app.log"), func(l string) string {
			_, path, _ := strings.Cut(l, " ")
			return path
		}),
		stream.ToCounter[string]())
	if err != nil {
		t.Fatalf("IntoAsync: %v", err)
	}
	if counts.Count("/a") != 3 || counts.Count("/b") != 1 {
		t.Errorf("counts = %v", counts.Map())
	}

	objects, err := storage.NewObjectStream(store, "2026/10/19/").Collect(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(objects) != 2 || objects[0].Path != "2026/10/19/app.log" || objects[1].Size != 5 {
		t.Errorf("objects = %+v", objects)
	}
}

func TestS3Errors(t *testing.T) {
	srv := fakeS3(t, "logs", map[string]string{})
	ctx := context.Background()

	_, err := storage.NewLineStream(newStore(t, srv.URL, "logs"), "missing.log").Collect(ctx)
	if !apperrors.HasCode(err, apperrors.ErrCodeSourceUnavailable) {
		t.Errorf("missing key: %v", err)
	}

	_, err = newStore(t, srv.URL, "other").List(ctx, "")
	if !apperrors.HasCode(err, apperrors.ErrCodeInvalidConfig) {
		t.Errorf("missing bucket: %v", err)
	}

	if _, err := s3.New(ctx, storage.Config{}, logger.Nop()); !apperrors.HasCode(err, apperrors.ErrCodeInvalidConfig) {
		t.Errorf("empty config: %v", err)
	}
}
