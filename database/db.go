package database

import (
	"context"
	"sync"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kbukum/streamkit/errors"
	"github.com/kbukum/streamkit/logger"
	"github.com/kbukum/streamkit/resilience"
)

// DB wraps a GORM connection.
type DB struct {
	gorm   *gorm.DB
	log    *logger.Logger
	mu     sync.Mutex
	closed bool
}

// Open connects to the SQLite database at cfg.DSN and pings it, retrying
// according to cfg.Connect.
func Open(ctx context.Context, cfg Config, log *logger.Logger) (*DB, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Get("database")
	}

	gormCfg := &gorm.Config{
		Logger: newGormLogger(log, cfg.SlowQueryThreshold, parseLogLevel(cfg.LogLevel)),
	}
	db, err := resilience.Retry(ctx, connectRetry(cfg.Connect, log), func() (*gorm.DB, error) {
		db, err := gorm.Open(sqlite.Open(cfg.DSN), gormCfg)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
		return db, nil
	})
	if err != nil {
		return nil, errors.SourceUnavailable("database "+cfg.DSN, err)
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	log.Debug("database connected", logger.Fields(logger.FieldSource, cfg.DSN))
	return &DB{gorm: db, log: log}, nil
}

func connectRetry(cfg resilience.RetryConfig, log *logger.Logger) resilience.RetryConfig {
	cfg.RetryIf = IsConnectionError
	cfg.OnRetry = func(attempt int, err error, backoff time.Duration) {
		log.Warn("database connect failed, retrying", logger.Fields(
			"attempt", attempt,
			"backoff", backoff.String(),
			logger.FieldError, err.Error(),
		))
	}
	return cfg
}

// Gorm returns the underlying GORM handle.
func (d *DB) Gorm() *gorm.DB { return d.gorm }

// WithContext returns a GORM session bound to ctx.
func (d *DB) WithContext(ctx context.Context) *gorm.DB { return d.gorm.WithContext(ctx) }

// Ping checks the connection.
func (d *DB) Ping(ctx context.Context) error {
	sqlDB, err := d.gorm.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		return errors.SourceUnavailable("database", err)
	}
	return nil
}

// Close closes the connection pool. Calling it more than once is safe.
func (d *DB) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	sqlDB, err := d.gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
