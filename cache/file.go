package cache

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/poiesic/enrichit/core"
	"github.com/poiesic/enrichit/enrich"
)

// DefaultPath is the cache file used when none is configured.
const DefaultPath = "industries.cached"

// FileSource serves attributes from a cache file.
type FileSource struct {
	Path   string
	Logger *slog.Logger
}

// NewFileSource creates a FileSource reading path.
func NewFileSource(path string) *FileSource {
	if path == "" {
		path = DefaultPath
	}
	return &FileSource{
		Path:   path,
		Logger: slog.Default().With("component", "cache-file"),
	}
}

// Enrich returns the cached attributes. The file is not checked against keys;
// a length difference is only logged.
func (f *FileSource) Enrich(ctx context.Context, keys []core.Domain) enrich.Result {
	result := enrich.Result{Requested: len(keys)}

	file, err := os.Open(f.Path)
	if err != nil {
		result.Err = fmt.Errorf("%w: open cache: %w", enrich.ErrSourceUnavailable, err)
		return result
	}
	defer file.Close()

	attrs, err := Read(file)
	if err != nil {
		result.Err = fmt.Errorf("%w: %w", enrich.ErrSourceUnavailable, err)
		return result
	}

	if len(attrs) != len(keys) {
		f.logger().Warn("cache length differs from customer count", "path", f.Path, "cached", len(attrs), "customers", len(keys))
	}
	f.logger().Info("industries loaded from cache", "path", f.Path, "count", len(attrs))

	// Never hand back more positions than were requested.
	if len(attrs) > len(keys) {
		attrs = attrs[:len(keys)]
	}
	result.Attributes = attrs
	return result
}

func (f *FileSource) logger() *slog.Logger {
	if f.Logger == nil {
		return slog.Default()
	}
	return f.Logger
}

// SaveFile writes attrs to path atomically.
func SaveFile(path string, attrs []core.Attribute) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp cache: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Write(tmp, attrs); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace cache: %w", err)
	}
	return nil
}
