package web

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/accident-data-etl/internal/domain"
	"github.com/couchcryptid/accident-data-etl/internal/observability"
)

const indexPage = `<html><body>
<a href="datagis2016.zip">2016</a>
<a href="datagis-rok-2017.zip">2017 rollup</a>
<a href="9-2020.zip">september</a>
<a href="readme.txt">readme</a>
<a href="broken-9-2020.zip.bak">backup</a>
</body></html>`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(indexPage))
	})
	mux.HandleFunc("/datagis2016.zip", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("zip-2016"))
	})
	mux.HandleFunc("/datagis-rok-2017.zip", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("zip-2017"))
	})
	// The monthly archive link 404s, which must be skipped silently.
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newFetcher(t *testing.T, url, dir string) *Fetcher {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	return NewFetcher(url, dir, 5*time.Second, logger, observability.NewMetricsForTesting())
}

func freezeClock(t *testing.T, at time.Time) {
	t.Helper()
	domain.SetClock(clockwork.NewFakeClockAt(at))
	t.Cleanup(func() { domain.SetClock(nil) })
}

func TestFetch_DownloadsMatchingArchives(t *testing.T) {
	freezeClock(t, time.Date(2020, time.October, 15, 12, 0, 0, 0, time.UTC))
	srv := newTestServer(t)
	dir := t.TempDir()

	// A stale archive from a previous run must be removed first.
	stale := filepath.Join(dir, "datagis2015.zip")
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0o644))

	f := newFetcher(t, srv.URL+"/", dir)
	require.NoError(t, f.Fetch(context.Background()))

	assert.NoFileExists(t, stale)
	assert.FileExists(t, filepath.Join(dir, "datagis2016.zip"))
	assert.FileExists(t, filepath.Join(dir, "datagis-rok-2017.zip"))
	// readme.txt matches no pattern; 9-2020.zip matched but 404ed.
	assert.NoFileExists(t, filepath.Join(dir, "readme.txt"))
	assert.NoFileExists(t, filepath.Join(dir, "9-2020.zip"))

	got, err := os.ReadFile(filepath.Join(dir, "datagis2016.zip"))
	require.NoError(t, err)
	assert.Equal(t, "zip-2016", string(got))
}

func TestFetch_IndexFailureIsFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	t.Cleanup(srv.Close)

	f := newFetcher(t, srv.URL+"/", t.TempDir())
	err := f.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
}

func TestMonthPattern_PrefersPublishedCurrentMonth(t *testing.T) {
	freezeClock(t, time.Date(2020, time.September, 30, 0, 0, 0, 0, time.UTC))
	f := newFetcher(t, "http://example.invalid/", t.TempDir())

	re := f.monthPattern([]string{"9-2020.zip"})
	assert.True(t, re.MatchString("9-2020.zip"))

	re = f.monthPattern([]string{"8-2020.zip"})
	assert.False(t, re.MatchString("9-2020.zip"))
	assert.True(t, re.MatchString("8-2020.zip"))
}

func TestMonthPattern_JanuaryRollsToDecember(t *testing.T) {
	freezeClock(t, time.Date(2021, time.January, 5, 0, 0, 0, 0, time.UTC))
	f := newFetcher(t, "http://example.invalid/", t.TempDir())

	re := f.monthPattern(nil)
	assert.True(t, re.MatchString("12-2020.zip"))
}
