// Command genmock generates mock accident archives so the full pipeline
// can run locally without the statistics portal. It writes one ZIP per
// dataset year containing a Windows-1250 encoded CSV member per region,
// in the exact raw format the builder parses: semicolon delimiters,
// quoted values, comma decimals, fixed-width times.
//
// Usage:
//
//	go run ./cmd/genmock -out data -years 3 -rows 50
package main

import (
	"archive/zip"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"github.com/couchcryptid/accident-data-etl/internal/domain"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "data", "output folder for mock archives")
	years := flag.Int("years", 3, "number of dataset years starting at -first-year")
	firstYear := flag.Int("first-year", 2016, "first dataset year")
	rows := flag.Int("rows", 50, "rows per region per archive")
	seed := flag.Int64("seed", 1, "random seed for reproducible fixtures")
	flag.Parse()

	if *years < 1 || *rows < 1 {
		flag.Usage()
		return fmt.Errorf("-years and -rows must be positive")
	}

	if err := os.MkdirAll(*out, 0o755); err != nil {
		return fmt.Errorf("create output folder: %w", err)
	}

	rng := rand.New(rand.NewSource(*seed))
	for y := 0; y < *years; y++ {
		year := *firstYear + y
		path := filepath.Join(*out, fmt.Sprintf("datagis%d.zip", year))
		if err := writeArchive(path, year, *rows, rng); err != nil {
			return err
		}
		log.Printf("wrote %s (%d regions × %d rows)", path, len(domain.Regions()), *rows)
	}
	return nil
}

// writeArchive creates one mock yearly archive with a member per region.
func writeArchive(path string, year, rows int, rng *rand.Rand) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create archive %s: %w", path, err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	enc := charmap.Windows1250.NewEncoder()

	for _, region := range domain.Regions() {
		member, _ := domain.RegionFile(region)
		w, err := zw.Create(member)
		if err != nil {
			return fmt.Errorf("create member %s: %w", member, err)
		}

		var b strings.Builder
		for i := 0; i < rows; i++ {
			b.WriteString(mockRow(year, i, rng))
			b.WriteString("\r\n")
		}
		encoded, err := enc.String(b.String())
		if err != nil {
			return fmt.Errorf("encode member %s: %w", member, err)
		}
		if _, err := w.Write([]byte(encoded)); err != nil {
			return fmt.Errorf("write member %s: %w", member, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalize archive %s: %w", path, err)
	}
	return nil
}

// streets feed the free-text columns with realistic diacritics.
var streets = []string{"Žižkova", "Dlouhá", "Nádražní", "U Průhonu", "Výstaviště"}

// mockRow renders one raw 64-field data row. A few cells are left
// deliberately malformed to exercise the sentinel policy downstream.
func mockRow(year, seq int, rng *rand.Rand) string {
	fields := make([]string, domain.NumColumns-1)
	for i := range fields {
		fields[i] = fmt.Sprint(rng.Intn(9))
	}

	fields[0] = fmt.Sprintf("%q", fmt.Sprintf("X%04d%06d", year, seq))
	fields[3] = fmt.Sprintf("%d-%02d-%02d", year, 1+rng.Intn(12), 1+rng.Intn(28))
	fields[5] = fmt.Sprintf("%q", fmt.Sprintf("%02d%02d", rng.Intn(24), rng.Intn(60)))
	for i := 45; i <= 50; i++ {
		fields[i] = fmt.Sprintf("%d,%02d", rng.Intn(1000), rng.Intn(100))
	}
	for i := 51; i <= 62; i++ {
		fields[i] = fmt.Sprintf("%q", streets[rng.Intn(len(streets))])
	}

	// One malformed integer and one out-of-range time per dozen rows.
	if seq%12 == 0 {
		fields[12] = "XX"
		fields[5] = `"2590"`
	}
	return strings.Join(fields, ";")
}
