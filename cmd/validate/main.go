// Command validate performs integrity checks over the per-region cache
// files: canonical shape, equal column lengths, a uniform region column,
// parseable clock times, and dates within the dataset's range.
//
// Usage:
//
//	go run ./cmd/validate -folder data -template data_%s.gob.gz
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"github.com/couchcryptid/accident-data-etl/internal/adapter/cachefile"
	"github.com/couchcryptid/accident-data-etl/internal/domain"
)

// phase tracks pass/fail for one validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

var clockTimeRe = regexp.MustCompile(`^(\d{2}:\d{2}|\d{2}|-1)$`)

func main() {
	folder := flag.String("folder", "data", "cache folder")
	template := flag.String("template", "data_%s.gob.gz", "cache filename template")
	regionsFlag := flag.String("regions", "", "comma-separated region codes (empty = all)")
	firstYear := flag.Int("first-year", 2016, "first dataset year")
	flag.Parse()

	regions := domain.Regions()
	if *regionsFlag != "" {
		regions = strings.Split(strings.ToUpper(*regionsFlag), ",")
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	store := cachefile.NewStore(*folder, *template, logger)

	failed := false
	for _, region := range regions {
		p := validateRegion(store, region, *firstYear)
		if p.passed() {
			fmt.Printf("PASS %s\n", p.name)
			continue
		}
		failed = true
		fmt.Printf("FAIL %s\n", p.name)
		for _, e := range p.errors {
			fmt.Printf("  - %s\n", e)
		}
	}
	if failed {
		os.Exit(1)
	}
}

func validateRegion(store *cachefile.Store, region string, firstYear int) *phase {
	p := &phase{name: region}

	if !domain.SupportedRegion(region) {
		p.errorf("unknown region code")
		return p
	}
	if !store.Exists(region) {
		p.errorf("cache file missing: %s", store.Path(region))
		return p
	}

	table, err := store.Load(region)
	if err != nil {
		p.errorf("load failed: %v", err)
		return p
	}

	if err := table.Validate(); err != nil {
		p.errorf("shape invariant: %v", err)
		return p
	}
	if table.Rows() == 0 {
		p.errorf("empty table")
	}

	for i, got := range table.Columns[0].Strings {
		if got != region {
			p.errorf("row %d: region column holds %q", i, got)
			break
		}
	}

	for i, ct := range table.Columns[6].Strings {
		if !clockTimeRe.MatchString(ct) {
			p.errorf("row %d: malformed clock time %q", i, ct)
			break
		}
	}

	for i, d := range table.Columns[4].Dates {
		if d.Year() < firstYear || d.Year() > domain.Clock().Now().Year() {
			p.errorf("row %d: date %s outside dataset range", i, d.Format("2006-01-02"))
			break
		}
	}

	return p
}
