package database_test

import (
	"context"
	stderrors "errors"
	"path/filepath"
	"slices"
	"testing"
	"testing/fstest"

	"gorm.io/gorm"

	"github.com/kbukum/streamkit/database"
	apperrors "github.com/kbukum/streamkit/errors"
	"github.com/kbukum/streamkit/logger"
	"github.com/kbukum/streamkit/stream"
)

type city struct {
	ID         int
	Name       string
	Country    string
	Population int
}

var migrations = fstest.MapFS{
	"migrations/1_cities.up.sql": {Data: []byte(`
CREATE TABLE cities (id INTEGER PRIMARY KEY, name TEXT NOT NULL, country TEXT NOT NULL, population INTEGER NOT NULL);
INSERT INTO cities (id, name, country, population) VALUES
  (1, 'Paris', 'FR', 2100),
  (2, 'London', 'GB', 8900),
  (3, 'Lyon', 'FR', 520),
  (4, 'Stockholm', 'SE', 980);
`)},
	"migrations/1_cities.down.sql": {Data: []byte(`DROP TABLE cities;`)},
}

func openDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.Open(context.Background(), database.Config{
		DSN:      filepath.Join(t.TempDir(), "test.db"),
		LogLevel: "silent",
	}, logger.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := db.MigrateUp(migrations, "migrations"); err != nil {
		t.Fatalf("MigrateUp: %v", err)
	}
	return db
}

func allCities(tx *gorm.DB) *gorm.DB { return tx.Table("cities").Order("id") }

func TestRowStream(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()

	french := database.NewRowStream[city](db, allCities).
		Filter(func(c city) bool { return c.Country == "FR" })
	names, err := stream.MapToAsync(french, func(c city) string { return c.Name }).Collect(ctx)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if !slices.Equal(names, []string{"Paris", "Lyon"}) {
		t.Errorf("names = %v", names)
	}

	total, err := stream.FoldAsync(ctx, database.NewRowStream[city](db, allCities), 0,
		func(sum int, c city) int { return sum + c.Population })
	if err != nil {
		t.Fatalf("FoldAsync: %v", err)
	}
	if total != 12500 {
		t.Errorf("total = %d, want 12500", total)
	}
}

func TestRowStream_EarlyStop(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()

	errStop := stderrors.New("stop")
	seen := 0
	if err := database.NewRowStream[city](db, allCities).ForEach(ctx, func(city) { seen++ }); err != nil || seen != 4 {
		t.Fatalf("ForEach = %v, seen %d", err, seen)
	}

	// A failing collector stops the pull; the pool must still serve queries.
	failing := stream.Collector[city, int](func() stream.Builder[city, int] { return &failAfter{n: 1, err: errStop} })
	if _, err := stream.IntoAsync(ctx, database.NewRowStream[city](db, allCities), failing); !stderrors.Is(err, errStop) {
		t.Fatalf("err = %v, want stop", err)
	}
	n, err := database.NewRowStream[city](db, allCities).Count(ctx)
	if err != nil || n != 4 {
		t.Errorf("Count = %d, %v", n, err)
	}
}

type failAfter struct {
	n, seen int
	err     error
}

func (f *failAfter) Add(city) error {
	f.seen++
	if f.seen > f.n {
		return f.err
	}
	return nil
}

func (f *failAfter) Build() (int, error) { return f.seen, nil }

func TestRowStream_QueryError(t *testing.T) {
	db := openDB(t)

	_, err := database.NewRowStream[city](db, func(tx *gorm.DB) *gorm.DB {
		return tx.Table("towns")
	}).Collect(context.Background())
	if !apperrors.HasCode(err, apperrors.ErrCodeSourceFailed) {
		t.Fatalf("err = %v, want SOURCE_FAILED", err)
	}
}

func TestMigrations(t *testing.T) {
	db := openDB(t)

	version, dirty, err := db.MigrationVersion(migrations, "migrations")
	if err != nil || version != 1 || dirty {
		t.Fatalf("MigrationVersion = %d, %v, %v", version, dirty, err)
	}
	if err := db.MigrateUp(migrations, "migrations"); err != nil {
		t.Errorf("second MigrateUp: %v", err)
	}

	if err := db.MigrateDown(migrations, "migrations"); err != nil {
		t.Fatalf("MigrateDown: %v", err)
	}
	version, _, err = db.MigrationVersion(migrations, "migrations")
	if err != nil || version != 0 {
		t.Errorf("after down: version %d, %v", version, err)
	}
	if _, err := database.NewRowStream[city](db, allCities).Count(context.Background()); err == nil {
		t.Error("expected query error after rollback")
	}

	if err := db.MigrateUp(migrations, "missing"); !apperrors.HasCode(err, apperrors.ErrCodeInvalidConfig) {
		t.Errorf("missing dir: %v", err)
	}
}

func TestMigrations_Failure(t *testing.T) {
	db, err := database.Open(context.Background(), database.Config{
		DSN:      filepath.Join(t.TempDir(), "broken.db"),
		LogLevel: "silent",
	}, logger.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	broken := fstest.MapFS{
		"broken/1_towns.up.sql":   {Data: []byte(`CREATE TABLE towns (`)},
		"broken/1_towns.down.sql": {Data: []byte(`DROP TABLE towns;`)},
	}

	err = db.MigrateUp(broken, "broken")
	appErr, ok := apperrors.AsAppError(err)
	if !ok || appErr.Code != apperrors.ErrCodeInternal {
		t.Fatalf("err = %v, want INTERNAL_ERROR", err)
	}
	if appErr.Details["migrations"] != "broken" || appErr.Details["direction"] != "up" {
		t.Errorf("details = %v", appErr.Details)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		cfg  database.Config
		code apperrors.ErrorCode
	}{
		{"no dsn", database.Config{}, apperrors.ErrCodeInvalidConfig},
		{"bad log level", database.Config{DSN: "x.db", LogLevel: "loud"}, apperrors.ErrCodeInvalidConfig},
		{"idle above open", database.Config{DSN: "x.db", MaxOpenConns: 1, MaxIdleConns: 2}, apperrors.ErrCodeInvalidConfig},
		{"unreachable", database.Config{DSN: filepath.Join(t.TempDir(), "no", "such", "dir", "x.db")}, apperrors.ErrCodeSourceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := database.Open(ctx, tt.cfg, logger.Nop())
			if !apperrors.HasCode(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}

	db := openDB(t)
	if err := db.Ping(ctx); err != nil {
		t.Errorf("Ping: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{stderrors.New("dial tcp: connection refused"), true},
		{stderrors.New("database is locked"), true},
		{stderrors.New("no such table: towns"), false},
	}
	for _, tt := range tests {
		if got := database.IsConnectionError(tt.err); got != tt.want {
			t.Errorf("IsConnectionError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
