// Package local stores objects as files under a base directory.
package local

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/kbukum/streamkit/errors"
	"github.com/kbukum/streamkit/logger"
	"github.com/kbukum/streamkit/storage"
)

func init() {
	storage.RegisterFactory(storage.ProviderLocal, func(_ context.Context, cfg storage.Config, _ *logger.Logger) (storage.Storage, error) {
		return New(cfg.BasePath)
	})
}

// Storage is a storage.Storage on the local filesystem. Object paths use
// forward slashes and are relative to the base directory.
type Storage struct {
	basePath string
}

var _ storage.Storage = (*Storage)(nil)

// New creates the base directory if needed.
func New(basePath string) (*Storage, error) {
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, errors.InvalidConfig("storage base_path " + basePath + " is invalid").WithCause(err)
	}
	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, errors.SourceUnavailable("storage "+abs, err)
	}
	return &Storage{basePath: abs}, nil
}

// resolve maps an object path into the base directory. Paths that would
// escape it are rejected.
func (s *Storage) resolve(path string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(path))
	if clean == "." || !filepath.IsLocal(clean) {
		return "", errors.InvalidInput("path", path+" is outside the storage root")
	}
	return filepath.Join(s.basePath, clean), nil
}

// Upload writes reader to the file at path, creating parent directories.
func (s *Storage) Upload(_ context.Context, path string, reader io.Reader) error {
	full, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
		return errors.SourceUnavailable("storage "+path, err)
	}
	f, err := os.Create(full)
	if err != nil {
		return errors.SourceUnavailable("storage "+path, err)
	}
	if _, err := io.Copy(f, reader); err != nil {
		_ = f.Close()
		return errors.SourceFailed("storage "+path, err)
	}
	if err := f.Close(); err != nil {
		return errors.SourceFailed("storage "+path, err)
	}
	return nil
}

// Open opens the file at path.
func (s *Storage) Open(_ context.Context, path string) (io.ReadCloser, error) {
	full, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if os.IsNotExist(err) {
		return nil, storage.NotFound(path)
	}
	if err != nil {
		return nil, errors.SourceUnavailable("storage "+path, err)
	}
	return f, nil
}

// List walks the base directory for files whose path starts with prefix.
func (s *Storage) List(_ context.Context, prefix string) ([]storage.ObjectInfo, error) {
	var out []storage.ObjectInfo
	err := filepath.WalkDir(s.basePath, func(full string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.basePath, full)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if !strings.HasPrefix(rel, prefix) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		out = append(out, storage.ObjectInfo{Path: rel, Size: info.Size(), LastModified: info.ModTime()})
		return nil
	})
	if err != nil {
		return nil, errors.SourceFailed("storage list "+prefix, err)
	}
	slices.SortFunc(out, func(a, b storage.ObjectInfo) int { return strings.Compare(a.Path, b.Path) })
	return out, nil
}
