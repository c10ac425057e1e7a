package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/couchcryptid/accident-data-etl/internal/domain"
	"github.com/couchcryptid/accident-data-etl/internal/observability"
)

// TableCache persists built region tables between runs.
type TableCache interface {
	Exists(region string) bool
	Load(region string) (*domain.Table, error)
	Save(region string, table *domain.Table) error
}

// RowExporter publishes a freshly built region table downstream.
type RowExporter interface {
	ExportTable(ctx context.Context, region string, table *domain.Table) error
}

// Store resolves region tables through three layers: an in-process memo,
// the file cache, and the builder. It owns the region → table mapping
// explicitly; there is no process-wide singleton. Not safe for concurrent
// use: the pipeline is single-threaded by design.
type Store struct {
	builder  *Builder
	cache    TableCache
	exporter RowExporter // nil disables the export
	memo     map[string]*domain.Table
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewStore creates a Store. exporter may be nil.
func NewStore(builder *Builder, cache TableCache, exporter RowExporter, logger *slog.Logger, metrics *observability.Metrics) *Store {
	return &Store{
		builder:  builder,
		cache:    cache,
		exporter: exporter,
		memo:     make(map[string]*domain.Table),
		logger:   logger,
		metrics:  metrics,
	}
}

// Get returns the region's table from the memo, then the file cache, then
// a full build. A build result is persisted to the cache and, when an
// exporter is configured, published downstream.
func (s *Store) Get(ctx context.Context, region string) (*domain.Table, error) {
	if !domain.SupportedRegion(region) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownRegion, region)
	}
	if table, ok := s.memo[region]; ok {
		s.metrics.CacheHits.Inc()
		return table, nil
	}

	if s.cache.Exists(region) {
		table, err := s.cache.Load(region)
		if err != nil {
			return nil, err
		}
		s.metrics.CacheHits.Inc()
		s.memo[region] = table
		return table, nil
	}

	s.metrics.CacheMisses.Inc()
	s.logger.Info("cache miss, building region", "region", region)

	table, err := s.builder.Build(ctx, region)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Save(region, table); err != nil {
		return nil, err
	}
	if s.exporter != nil {
		if err := s.exporter.ExportTable(ctx, region, table); err != nil {
			return nil, fmt.Errorf("export region %s: %w", region, err)
		}
	}

	s.memo[region] = table
	return table, nil
}

// GetList unions the requested regions' tables into one combined table,
// resolving each through Get in request order so every region's rows stay
// contiguous. A nil or empty request means all 14 regions in declaration
// order. Unknown codes fail fast, before any I/O, with every offender
// listed.
func (s *Store) GetList(ctx context.Context, regions []string) (*domain.Table, error) {
	if len(regions) == 0 {
		regions = domain.Regions()
	} else if unknown := unknownRegions(regions); len(unknown) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownRegion, strings.Join(unknown, ", "))
	}

	combined := domain.NewTable()
	for _, region := range regions {
		table, err := s.Get(ctx, region)
		if err != nil {
			return nil, err
		}
		if err := combined.Concat(table); err != nil {
			return nil, fmt.Errorf("combine region %s: %w", region, err)
		}
	}

	s.logger.Info("combined table ready", "regions", len(regions), "rows", combined.Rows())
	return combined, nil
}

func unknownRegions(regions []string) []string {
	var unknown []string
	for _, r := range regions {
		if !domain.SupportedRegion(r) {
			unknown = append(unknown, r)
		}
	}
	return unknown
}
