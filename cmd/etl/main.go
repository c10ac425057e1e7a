// Command etl downloads the Czech traffic-accident archives, builds the
// typed per-region tables, caches them, and reports the combined dataset.
//
// Usage:
//
//	go run ./cmd/etl -regions STC,MSK,PAK
//
// An empty -regions flag processes all 14 regions. Configuration comes
// from environment variables; see internal/config.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/couchcryptid/accident-data-etl/internal/adapter/cachefile"
	httpadapter "github.com/couchcryptid/accident-data-etl/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/accident-data-etl/internal/adapter/kafka"
	"github.com/couchcryptid/accident-data-etl/internal/adapter/web"
	"github.com/couchcryptid/accident-data-etl/internal/config"
	"github.com/couchcryptid/accident-data-etl/internal/observability"
	"github.com/couchcryptid/accident-data-etl/internal/pipeline"
)

func main() {
	regionsFlag := flag.String("regions", "", "comma-separated region codes (empty = all)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Serve /metrics and /healthz while the run is in flight (HTTP_ADDR
	// empty disables it).
	var srv *httpadapter.Server
	if cfg.HTTPAddr != "" {
		srv = httpadapter.NewServer(cfg.HTTPAddr, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()
	}

	fetcher := web.NewFetcher(cfg.DataURL, cfg.DataDir, cfg.HTTPTimeout, logger, metrics)
	builder := pipeline.NewBuilder(cfg.DataDir, cfg.FirstYear, fetcher, logger, metrics)
	cache := cachefile.NewStore(cfg.DataDir, cfg.CacheFilename, logger)

	var exporter pipeline.RowExporter
	if cfg.ExportEnabled {
		writer := kafkaadapter.NewWriter(cfg, logger, metrics)
		defer func() {
			if err := writer.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		exporter = writer
		logger.Info("row export enabled", "topic", cfg.KafkaSinkTopic)
	}

	store := pipeline.NewStore(builder, cache, exporter, logger, metrics)

	table, err := store.GetList(ctx, parseRegions(*regionsFlag))
	if err != nil {
		logger.Error("dataset build failed", "error", err)
		os.Exit(1)
	}

	logger.Info("dataset ready", "rows", table.Rows(), "columns", len(table.Columns))
	for i := range table.Columns {
		col := &table.Columns[i]
		var first any
		if col.Len() > 0 {
			first = col.Value(0)
		}
		logger.Debug("column", "index", i, "name", col.Name,
			"type", col.Type.String(), "first", fmt.Sprint(first))
	}

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}
	}
}

func parseRegions(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	regions := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			regions = append(regions, strings.ToUpper(p))
		}
	}
	return regions
}
