package database

import (
	"context"
	"database/sql"

	"gorm.io/gorm"

	"github.com/kbukum/streamkit/errors"
	"github.com/kbukum/streamkit/logger"
	"github.com/kbukum/streamkit/stream"
)

// Query narrows a GORM session to the rows to stream, e.g.
// tx.Table("events").Where("kind = ?", k).Order("id").
type Query func(tx *gorm.DB) *gorm.DB

// RowSource is a stream.Iterator over the rows of a query, each scanned
// into T. The query runs on the first Next, with that call's context.
type RowSource[T any] struct {
	db      *DB
	query   Query
	rows    *sql.Rows
	scanned int
	done    bool
}

var _ stream.Iterator[struct{}] = (*RowSource[struct{}])(nil)

// NewRowSource creates a RowSource.
func NewRowSource[T any](db *DB, query Query) *RowSource[T] {
	return &RowSource[T]{db: db, query: query}
}

// NewRowStream streams the rows of query scanned into T.
func NewRowStream[T any](db *DB, query Query, opts ...stream.Option) *stream.AsyncStream[T] {
	return stream.FromIterator[T](NewRowSource[T](db, query)).With(opts...)
}

// Next scans the next row.
func (s *RowSource[T]) Next(ctx context.Context) (T, bool, error) {
	var v T
	if s.done {
		return v, false, nil
	}
	if s.rows == nil {
		rows, err := s.query(s.db.WithContext(ctx)).Rows()
		if err != nil {
			s.done = true
			return v, false, errors.SourceFailed("database query", err)
		}
		s.rows = rows
	}

	if !s.rows.Next() {
		s.done = true
		err := s.rows.Err()
		if cerr := s.rows.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return v, false, errors.SourceFailed("database rows", err)
		}
		s.db.log.Debug("database rows drained", logger.Fields(logger.FieldPulled, s.scanned))
		return v, false, nil
	}
	if err := s.db.gorm.ScanRows(s.rows, &v); err != nil {
		s.done = true
		return v, false, errors.SourceFailed("database scan", err)
	}
	s.scanned++
	return v, true, nil
}

// Close releases the result set.
func (s *RowSource[T]) Close() error {
	s.done = true
	if s.rows == nil {
		return nil
	}
	rows := s.rows
	s.rows = nil
	return rows.Close()
}
