package scrapers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/net/html"

	domain "github.com/yungbote/recipegraph-backend/internal/domain"
	"github.com/yungbote/recipegraph-backend/internal/lexicon"
	"github.com/yungbote/recipegraph-backend/internal/pkg/httpx"
	"github.com/yungbote/recipegraph-backend/internal/platform/logger"
)

const (
	jsonldMaxAttempts = 3
	jsonldMaxBody     = 8 << 20
)

type fetchStatusError struct {
	URL    string
	Status int
}

func (e *fetchStatusError) Error() string {
	return fmt.Sprintf("GET %s: status %d", e.URL, e.Status)
}

func (e *fetchStatusError) HTTPStatusCode() int { return e.Status }

// JSONLDScraper fetches each URL from a list file and reads the schema.org
// Recipe object embedded as JSON-LD. Pages without one are skipped.
type JSONLDScraper struct {
	log      *logger.Logger
	urlsFile string
	limit    int
	hc       *http.Client
}

func NewJSONLDScraper(log *logger.Logger, urlsFile string, limit int, hc *http.Client) *JSONLDScraper {
	return &JSONLDScraper{log: log.With("scraper", KindJSONLD), urlsFile: urlsFile, limit: limit, hc: hc}
}

func (s *JSONLDScraper) Scrape(ctx context.Context) ([]domain.RawRecipe, error) {
	f, err := os.Open(s.urlsFile)
	if err != nil {
		return nil, fmt.Errorf("open urls file: %w", err)
	}
	urls, err := lexicon.ReadLines(f)
	f.Close()
	if err != nil {
		return nil, fmt.Errorf("read urls file: %w", err)
	}

	var out []domain.RawRecipe
	for _, u := range urls {
		if s.limit > 0 && len(out) >= s.limit {
			break
		}
		if err := ctx.Err(); err != nil {
			return out, err
		}
		body, err := s.fetch(ctx, u)
		if err != nil {
			if ctx.Err() != nil {
				return out, ctx.Err()
			}
			s.log.Warn("fetch failed", "url", u, "error", err)
			continue
		}
		rec, ok, err := parseJSONLDPage(body)
		if err != nil || !ok {
			s.log.Warn("no recipe schema", "url", u, "error", err)
			continue
		}
		rec.Source = u
		out = append(out, rec)
	}
	s.log.Info("json-ld pages loaded", "urls", len(urls), "recipes", len(out))
	return out, nil
}

func (s *JSONLDScraper) fetch(ctx context.Context, u string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < jsonldMaxAttempts; attempt++ {
		if attempt > 0 {
			if err := httpx.Sleep(ctx, httpx.Backoff(attempt-1, 500*time.Millisecond, 5*time.Second)); err != nil {
				return nil, err
			}
		}
		body, err := s.fetchOnce(ctx, u)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !httpx.IsRetryableError(err) {
			break
		}
	}
	return nil, lastErr
}

func (s *JSONLDScraper) fetchOnce(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("User-Agent", "recipegraph/1.0")
	resp, err := s.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, &fetchStatusError{URL: u, Status: resp.StatusCode}
	}
	return io.ReadAll(io.LimitReader(resp.Body, jsonldMaxBody))
}

// parseJSONLDPage returns ok=false when the page carries no Recipe object.
func parseJSONLDPage(b []byte) (domain.RawRecipe, bool, error) {
	root, err := html.Parse(bytes.NewReader(b))
	if err != nil {
		return domain.RawRecipe{}, false, fmt.Errorf("parse html: %w", err)
	}
	scripts := findAll(root, func(n *html.Node) bool {
		return n.Data == "script" && strings.EqualFold(strings.TrimSpace(attr(n, "type")), "application/ld+json")
	})
	for _, sc := range scripts {
		var raw strings.Builder
		for c := sc.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				raw.WriteString(c.Data)
			}
		}
		var v any
		if err := json.Unmarshal([]byte(raw.String()), &v); err != nil {
			continue
		}
		if obj := findRecipeObject(v); obj != nil {
			return recipeFromJSONLD(obj), true, nil
		}
	}
	return domain.RawRecipe{}, false, nil
}

func findRecipeObject(v any) map[string]any {
	switch t := v.(type) {
	case []any:
		for _, it := range t {
			if obj := findRecipeObject(it); obj != nil {
				return obj
			}
		}
	case map[string]any:
		if isType(t["@type"], "Recipe") {
			return t
		}
		if g, ok := t["@graph"]; ok {
			return findRecipeObject(g)
		}
	}
	return nil
}

func isType(v any, want string) bool {
	switch t := v.(type) {
	case string:
		return t == want
	case []any:
		for _, it := range t {
			if s, ok := it.(string); ok && s == want {
				return true
			}
		}
	}
	return false
}

func recipeFromJSONLD(obj map[string]any) domain.RawRecipe {
	rec := domain.RawRecipe{
		Title:       cleanText(stringOf(obj["name"])),
		Author:      strings.Join(names(obj["author"]), ", "),
		Ingredients: stringList(obj["recipeIngredient"]),
		Cuisines:    stringList(obj["recipeCuisine"]),
	}
	if len(rec.Ingredients) == 0 {
		rec.Ingredients = stringList(obj["ingredients"])
	}
	rec.Directions = instructions(obj["recipeInstructions"])
	return rec
}

func stringOf(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(html.UnescapeString(s)), " ")
}

func stringList(v any) []string {
	var out []string
	switch t := v.(type) {
	case string:
		for _, part := range strings.Split(t, ",") {
			if s := cleanText(part); s != "" {
				out = append(out, s)
			}
		}
	case []any:
		for _, it := range t {
			if s := cleanText(stringOf(it)); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// names reads a schema.org author: a string, a Person/Organization object or
// a list of either.
func names(v any) []string {
	switch t := v.(type) {
	case string:
		if s := cleanText(t); s != "" {
			return []string{s}
		}
	case map[string]any:
		if s := cleanText(stringOf(t["name"])); s != "" {
			return []string{s}
		}
	case []any:
		var out []string
		for _, it := range t {
			out = append(out, names(it)...)
		}
		return out
	}
	return nil
}

// instructions flattens HowToStep and HowToSection trees into step text.
func instructions(v any) []string {
	switch t := v.(type) {
	case string:
		var out []string
		for _, line := range strings.Split(t, "\n") {
			if s := cleanText(line); s != "" {
				out = append(out, s)
			}
		}
		return out
	case map[string]any:
		if isType(t["@type"], "HowToSection") {
			return instructions(t["itemListElement"])
		}
		if s := cleanText(stringOf(t["text"])); s != "" {
			return []string{s}
		}
		if s := cleanText(stringOf(t["name"])); s != "" {
			return []string{s}
		}
	case []any:
		var out []string
		for _, it := range t {
			out = append(out, instructions(it)...)
		}
		return out
	}
	return nil
}
