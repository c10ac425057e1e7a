// Package cachefile persists built region tables as one compressed gob
// blob per region. File presence is the sole witness of validity: there is
// no checksum and no timestamp comparison against the source archives. The
// design assumes a single process owns the cache folder; concurrent
// writers are undefined behavior.
package cachefile

import (
	"encoding/gob"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"

	"github.com/couchcryptid/accident-data-etl/internal/domain"
)

// Store reads and writes per-region cache files under a folder, named by a
// fmt template with one %s region placeholder.
type Store struct {
	dir      string
	template string
	logger   *slog.Logger
}

// NewStore creates a Store. The folder is created on the first Save.
func NewStore(dir, template string, logger *slog.Logger) *Store {
	return &Store{dir: dir, template: template, logger: logger}
}

// Path returns the cache file path for a region.
func (s *Store) Path(region string) string {
	return filepath.Join(s.dir, fmt.Sprintf(s.template, region))
}

// Exists reports whether a cache file is present for the region.
func (s *Store) Exists(region string) bool {
	_, err := os.Stat(s.Path(region))
	return err == nil
}

// Load deserializes the region's cache file into a table and checks the
// shape invariant before returning it.
func (s *Store) Load(region string) (*domain.Table, error) {
	path := s.Path(region)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open cache %s: %w", path, err)
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("read cache %s: %w", path, err)
	}
	defer zr.Close()

	var table domain.Table
	if err := gob.NewDecoder(zr).Decode(&table); err != nil {
		return nil, fmt.Errorf("decode cache %s: %w", path, err)
	}
	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("cache %s: %w", path, err)
	}

	s.logger.Debug("cache loaded", "region", region, "rows", table.Rows())
	return &table, nil
}

// Save writes the table as a compressed gob blob, overwriting any previous
// file for the region.
func (s *Store) Save(region string, table *domain.Table) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create cache folder %s: %w", s.dir, err)
	}

	path := s.Path(region)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create cache %s: %w", path, err)
	}
	defer f.Close()

	zw := gzip.NewWriter(f)
	if err := gob.NewEncoder(zw).Encode(table); err != nil {
		return fmt.Errorf("encode cache %s: %w", path, err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("flush cache %s: %w", path, err)
	}

	s.logger.Debug("cache saved", "region", region, "path", path, "rows", table.Rows())
	return nil
}
