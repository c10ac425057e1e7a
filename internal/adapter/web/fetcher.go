// Package web scrapes the statistics portal index page and downloads the
// accident archives it links to.
package web

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/couchcryptid/accident-data-etl/internal/domain"
	"github.com/couchcryptid/accident-data-etl/internal/observability"
)

var (
	// annualArchiveRe matches the per-year rollup archives ("datagis-rok-2016.zip").
	annualArchiveRe = regexp.MustCompile(`datagis-rok-.{5}zip`)
	// datedArchiveRe matches the generic dated archives ("datagis2016.zip").
	datedArchiveRe = regexp.MustCompile(`datagis.{5}zip`)
)

// browserHeaders mimics a desktop browser; the portal rejects bare clients.
var browserHeaders = map[string]string{
	"accept":          "*/*",
	"accept-language": "en-GB,en;q=0.9,en-US;q=0.8",
	"cache-control":   "no-cache",
	"dnt":             "1",
	"pragma":          "no-cache",
	"sec-fetch-mode":  "no-cors",
	"sec-fetch-site":  "cross-site",
	"user-agent": "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_1) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/78.0.3904.108 Safari/537.36",
}

// Fetcher downloads every archive the index page links to. It implements
// pipeline.ArchiveFetcher.
type Fetcher struct {
	indexURL string
	dir      string
	client   *http.Client
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewFetcher creates a Fetcher that stores archives under dir.
func NewFetcher(indexURL, dir string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Fetcher {
	return &Fetcher{
		indexURL: indexURL,
		dir:      dir,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
		metrics:  metrics,
	}
}

// Fetch deletes any archives already present in the destination folder,
// scrapes the index page, and downloads every link matching the annual
// rollup pattern, the dated archive pattern, or the most recently completed
// month. Individual download failures are skipped; an index fetch failure
// is fatal.
func (f *Fetcher) Fetch(ctx context.Context) error {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("create data folder %s: %w", f.dir, err)
	}
	if err := f.removeStaleArchives(); err != nil {
		return err
	}

	hrefs, err := f.scrapeIndex(ctx)
	if err != nil {
		return err
	}

	monthRe := f.monthPattern(hrefs)
	downloaded := 0
	for _, href := range hrefs {
		if !annualArchiveRe.MatchString(href) &&
			!datedArchiveRe.MatchString(href) &&
			!monthRe.MatchString(href) {
			continue
		}
		if f.download(ctx, href) {
			downloaded++
		}
	}

	f.logger.Info("archive fetch finished", "url", f.indexURL, "downloaded", downloaded)
	return nil
}

// removeStaleArchives clears out previously downloaded ZIPs so a fetch
// always reflects the current index page.
func (f *Fetcher) removeStaleArchives() error {
	stale, err := filepath.Glob(filepath.Join(f.dir, "*.zip"))
	if err != nil {
		return fmt.Errorf("list archives: %w", err)
	}
	for _, p := range stale {
		f.logger.Debug("deleting stale archive", "path", p)
		if err := os.Remove(p); err != nil {
			return fmt.Errorf("delete stale archive %s: %w", p, err)
		}
	}
	return nil
}

// scrapeIndex fetches the index page and returns every anchor href on it.
func (f *Fetcher) scrapeIndex(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.indexURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create index request: %w", err)
	}
	for k, v := range browserHeaders {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch index %s: %w", f.indexURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch index %s: status %d", f.indexURL, resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse index page: %w", err)
	}
	return anchorHrefs(doc), nil
}

// anchorHrefs walks the parsed document collecting <a href> targets.
func anchorHrefs(doc *html.Node) []string {
	var hrefs []string
	for n := range doc.Descendants() {
		if n.Type != html.ElementNode || n.Data != "a" {
			continue
		}
		for _, attr := range n.Attr {
			if attr.Key == "href" && attr.Val != "" {
				hrefs = append(hrefs, attr.Val)
			}
		}
	}
	return hrefs
}

// monthPattern returns the link pattern for the most recently completed
// month: the current month if the index already publishes it, otherwise the
// previous month (December of the previous year when run in January).
func (f *Fetcher) monthPattern(hrefs []string) *regexp.Regexp {
	now := domain.Clock().Now()
	cur := monthRe(int(now.Month()), now.Year())
	for _, href := range hrefs {
		if cur.MatchString(href) {
			f.logger.Info("latest monthly archive", "month", int(now.Month()), "year", now.Year())
			return cur
		}
	}

	month, year := int(now.Month())-1, now.Year()
	if month == 0 {
		month, year = 12, year-1
	}
	f.logger.Info("latest monthly archive", "month", month, "year", year)
	return monthRe(month, year)
}

func monthRe(month, year int) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(`%d-%d\.zip`, month, year))
}

// download fetches one archive link into the destination folder. Reports
// whether the file was written; failures are logged and skipped.
func (f *Fetcher) download(ctx context.Context, href string) bool {
	zipURL := strings.TrimSuffix(f.indexURL, "/") + "/" + strings.TrimPrefix(href, "/")
	dest := filepath.Join(f.dir, path.Base(href))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, zipURL, nil)
	if err != nil {
		f.logger.Warn("skipping archive", "url", zipURL, "error", err)
		f.metrics.DownloadSkips.Inc()
		return false
	}
	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Warn("skipping archive", "url", zipURL, "error", err)
		f.metrics.DownloadSkips.Inc()
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		f.logger.Warn("skipping archive", "url", zipURL, "status", resp.StatusCode)
		f.metrics.DownloadSkips.Inc()
		return false
	}

	out, err := os.Create(dest)
	if err != nil {
		f.logger.Warn("skipping archive", "url", zipURL, "error", err)
		f.metrics.DownloadSkips.Inc()
		return false
	}
	defer out.Close()

	n, err := io.Copy(out, resp.Body)
	if err != nil {
		f.logger.Warn("partial download removed", "path", dest, "error", err)
		f.metrics.DownloadSkips.Inc()
		os.Remove(dest)
		return false
	}

	f.logger.Info("downloaded archive", "url", zipURL, "path", dest, "bytes", n)
	f.metrics.ArchivesDownloaded.Inc()
	return true
}
