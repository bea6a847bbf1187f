package scrapers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/recipegraph-backend/internal/platform/logger"
)

func TestManifestScraperDropsEntriesWithoutSource(t *testing.T) {
	t.Parallel()
	s := NewManifestScraper(logger.NewForTest(t), filepath.Join("testdata", "manifest.yaml"), 0)
	got, err := s.Scrape(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "Onion Soup", got[0].Title)
	assert.Equal(t, "Jane Doe", got[0].Author)
	assert.Equal(t, []string{"2 cups chopped yellow onions", "1 quart beef broth"}, got[0].Ingredients)
	assert.Equal(t, []string{"french"}, got[0].Cuisines)
	assert.Equal(t, "https://www.example.com/recipes/toast", got[1].Source)
}

func TestManifestScraperLimit(t *testing.T) {
	t.Parallel()
	s := NewManifestScraper(logger.NewForTest(t), filepath.Join("testdata", "manifest.yaml"), 1)
	got, err := s.Scrape(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Onion Soup", got[0].Title)
}

func TestSavedPagesScraper(t *testing.T) {
	t.Parallel()
	s := NewSavedPagesScraper(logger.NewForTest(t), filepath.Join("testdata", "pages"), 0)
	got, err := s.Scrape(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	b := got[0]
	assert.Equal(t, "https://cooking.example.com/recipes/1017-borscht", b.Source)
	assert.Equal(t, "Classic Borscht", b.Title)
	assert.Equal(t, "Jane Doe", b.Author)
	assert.Equal(t, []string{"eastern european"}, b.Cuisines)
	assert.Equal(t, []string{"medium beets, peeled", "large yellow onion", "pound beef chuck"}, b.Ingredients)
	assert.Equal(t, []string{"Brown the beef.", "Add beets and simmer."}, b.Directions)

	salad := got[1]
	assert.Equal(t, "https://cooking.example.com/recipes/2002-salad", salad.Source)
	assert.Equal(t, "", salad.Author)
	assert.Equal(t, []string{"lettuce"}, salad.Ingredients)
}

func TestSavedPagesScraperLimit(t *testing.T) {
	t.Parallel()
	s := NewSavedPagesScraper(logger.NewForTest(t), filepath.Join("testdata", "pages"), 1)
	got, err := s.Scrape(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestParseJSONLDPage(t *testing.T) {
	t.Parallel()
	b, err := os.ReadFile(filepath.Join("testdata", "jsonld_graph.html"))
	require.NoError(t, err)

	rec, ok, err := parseJSONLDPage(b)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Chicken & Rice", rec.Title)
	assert.Equal(t, "Sam Cook, Alex Chef", rec.Author)
	assert.Equal(t, []string{"1 lb chicken thighs", "2 cups rice"}, rec.Ingredients)
	assert.Equal(t, []string{"Spanish", "Mexican"}, rec.Cuisines)
	assert.Equal(t, []string{"Season the chicken.", "Cook the rice.", "Serve."}, rec.Directions)
}

func TestParseJSONLDPageWithoutRecipe(t *testing.T) {
	t.Parallel()
	b, err := os.ReadFile(filepath.Join("testdata", "jsonld_none.html"))
	require.NoError(t, err)
	_, ok, err := parseJSONLDPage(b)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestJSONLDScraperFetchesAndSkips(t *testing.T) {
	t.Parallel()
	graph, err := os.ReadFile(filepath.Join("testdata", "jsonld_graph.html"))
	require.NoError(t, err)
	none, err := os.ReadFile(filepath.Join("testdata", "jsonld_none.html"))
	require.NoError(t, err)

	var flaky int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/recipe":
			w.Write(graph)
		case "/flaky":
			if atomic.AddInt32(&flaky, 1) == 1 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.Write(graph)
		case "/article":
			w.Write(none)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	urls := filepath.Join(t.TempDir(), "urls.txt")
	list := "# borschts\n" + srv.URL + "/recipe\n\n" + srv.URL + "/article\n" + srv.URL + "/missing\n" + srv.URL + "/flaky\n"
	require.NoError(t, os.WriteFile(urls, []byte(list), 0o644))

	s := NewJSONLDScraper(logger.NewForTest(t), urls, 0, srv.Client())
	got, err := s.Scrape(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, srv.URL+"/recipe", got[0].Source)
	assert.Equal(t, srv.URL+"/flaky", got[1].Source)
	assert.Equal(t, int32(2), atomic.LoadInt32(&flaky))
}

func TestNewRejectsUnknownKind(t *testing.T) {
	t.Parallel()
	_, err := New(logger.NewForTest(t), Config{Kind: "carrier-pigeon"}, nil)
	require.Error(t, err)

	_, err = New(logger.NewForTest(t), Config{Kind: KindManifest}, nil)
	require.Error(t, err)

	s, err := New(logger.NewForTest(t), Config{Kind: "Saved-Pages", HTMLDir: "testdata/pages"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &SavedPagesScraper{}, s)
}
