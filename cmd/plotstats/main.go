// Command plotstats renders a grouped bar chart of accident counts per
// region and year from the combined table, resolving regions through the
// same cache-backed store as the ETL run.
//
// Usage:
//
//	go run ./cmd/plotstats -regions STC,MSK -out accidents.png
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/couchcryptid/accident-data-etl/internal/adapter/cachefile"
	"github.com/couchcryptid/accident-data-etl/internal/adapter/web"
	"github.com/couchcryptid/accident-data-etl/internal/config"
	"github.com/couchcryptid/accident-data-etl/internal/domain"
	"github.com/couchcryptid/accident-data-etl/internal/observability"
	"github.com/couchcryptid/accident-data-etl/internal/pipeline"
)

func main() {
	regionsFlag := flag.String("regions", "", "comma-separated region codes (empty = all)")
	out := flag.String("out", "accidents.png", "output image path")
	flag.Parse()

	if err := run(*regionsFlag, *out); err != nil {
		slog.Error("plotstats failed", "error", err)
		os.Exit(1)
	}
}

func run(regionsFlag, out string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetricsForTesting()

	fetcher := web.NewFetcher(cfg.DataURL, cfg.DataDir, cfg.HTTPTimeout, logger, metrics)
	builder := pipeline.NewBuilder(cfg.DataDir, cfg.FirstYear, fetcher, logger, metrics)
	cache := cachefile.NewStore(cfg.DataDir, cfg.CacheFilename, logger)
	store := pipeline.NewStore(builder, cache, nil, logger, metrics)

	var regions []string
	if regionsFlag != "" {
		for _, r := range strings.Split(regionsFlag, ",") {
			if r = strings.TrimSpace(r); r != "" {
				regions = append(regions, strings.ToUpper(r))
			}
		}
	}

	table, err := store.GetList(context.Background(), regions)
	if err != nil {
		return err
	}
	if len(regions) == 0 {
		regions = domain.Regions()
	}

	counts, years := countByRegionYear(table)
	if err := renderBarChart(counts, years, regions, out); err != nil {
		return err
	}

	logger.Info("chart written", "path", out, "regions", len(regions), "years", len(years))
	return nil
}

// countByRegionYear tallies rows per region per calendar year and returns
// the sorted list of years present.
func countByRegionYear(table *domain.Table) (map[string]map[int]int, []int) {
	regionCol := table.Columns[0].Strings
	dateCol := table.Columns[4].Dates

	counts := make(map[string]map[int]int)
	yearSet := make(map[int]struct{})
	for i := range regionCol {
		year := dateCol[i].Year()
		yearSet[year] = struct{}{}
		if counts[regionCol[i]] == nil {
			counts[regionCol[i]] = make(map[int]int)
		}
		counts[regionCol[i]][year]++
	}

	years := make([]int, 0, len(yearSet))
	for y := range yearSet {
		years = append(years, y)
	}
	sort.Ints(years)
	return counts, years
}

// renderBarChart draws one bar group per year with one bar per region.
func renderBarChart(counts map[string]map[int]int, years []int, regions []string, out string) error {
	p := plot.New()
	p.Title.Text = "Accidents per region and year"
	p.Y.Label.Text = "Accidents"

	width := vg.Points(float64(40) / float64(len(regions)))

	for ri, region := range regions {
		values := make(plotter.Values, len(years))
		for yi, year := range years {
			values[yi] = float64(counts[region][year])
		}

		bars, err := plotter.NewBarChart(values, width)
		if err != nil {
			return fmt.Errorf("bar chart for %s: %w", region, err)
		}
		bars.LineStyle.Width = 0
		bars.Color = plotutil.Color(ri)
		bars.Offset = width * vg.Length(ri-len(regions)/2)

		p.Add(bars)
		p.Legend.Add(region, bars)
	}

	labels := make([]string, len(years))
	for i, y := range years {
		labels[i] = fmt.Sprint(y)
	}
	p.NominalX(labels...)
	p.Legend.Top = true

	if err := p.Save(10*vg.Inch, 5*vg.Inch, out); err != nil {
		return fmt.Errorf("save chart %s: %w", out, err)
	}
	return nil
}
