package database

import (
	stderrors "errors"
	"io/fs"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/kbukum/streamkit/errors"
	"github.com/kbukum/streamkit/logger"
)

// MigrateUp applies every pending migration found under dir in fsys. Files
// follow golang-migrate naming: VERSION_name.up.sql and VERSION_name.down.sql.
func (d *DB) MigrateUp(fsys fs.FS, dir string) error {
	m, err := d.migrator(fsys, dir)
	if err != nil {
		return err
	}
	start := time.Now()
	if err := m.Up(); err != nil && !stderrors.Is(err, migrate.ErrNoChange) {
		return migrationFailed(err, dir, "up")
	}
	version, _, _ := m.Version()
	fields := logger.DurationFields("migrate_up", time.Since(start))
	fields["dir"] = dir
	fields["version"] = version
	d.log.Info("migrations applied", fields)
	return nil
}

// MigrateDown rolls back every applied migration.
func (d *DB) MigrateDown(fsys fs.FS, dir string) error {
	m, err := d.migrator(fsys, dir)
	if err != nil {
		return err
	}
	start := time.Now()
	if err := m.Down(); err != nil && !stderrors.Is(err, migrate.ErrNoChange) {
		return migrationFailed(err, dir, "down")
	}
	fields := logger.DurationFields("migrate_down", time.Since(start))
	fields["dir"] = dir
	d.log.Info("migrations rolled back", fields)
	return nil
}

func migrationFailed(err error, dir, direction string) error {
	return errors.Internal(err).WithDetails(map[string]any{
		"migrations": dir,
		"direction":  direction,
	})
}

// MigrationVersion returns the applied version and whether the last
// migration failed halfway. Version 0 means none applied.
func (d *DB) MigrationVersion(fsys fs.FS, dir string) (uint, bool, error) {
	m, err := d.migrator(fsys, dir)
	if err != nil {
		return 0, false, err
	}
	version, dirty, err := m.Version()
	if stderrors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, errors.Internal(err)
	}
	return version, dirty, nil
}

// migrator builds a golang-migrate instance on the shared pool. It is never
// closed: closing it would close the pool.
func (d *DB) migrator(fsys fs.FS, dir string) (*migrate.Migrate, error) {
	sqlDB, err := d.gorm.DB()
	if err != nil {
		return nil, errors.SourceUnavailable("database", err)
	}
	driver, err := sqlite3.WithInstance(sqlDB, &sqlite3.Config{})
	if err != nil {
		return nil, errors.SourceUnavailable("database", err)
	}
	src, err := iofs.New(fsys, dir)
	if err != nil {
		return nil, errors.InvalidConfig("cannot read migrations in " + dir).WithCause(err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return nil, errors.Internal(err)
	}
	return m, nil
}
