package scrapers

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/net/html"

	domain "github.com/yungbote/recipegraph-backend/internal/domain"
	"github.com/yungbote/recipegraph-backend/internal/platform/logger"
)

// SavedPagesScraper reads a directory of recipe pages saved from a news-site
// cooking section. Files are visited in name order.
type SavedPagesScraper struct {
	log   *logger.Logger
	dir   string
	limit int
}

func NewSavedPagesScraper(log *logger.Logger, dir string, limit int) *SavedPagesScraper {
	return &SavedPagesScraper{log: log.With("scraper", KindSavedPages), dir: dir, limit: limit}
}

func (s *SavedPagesScraper) Scrape(ctx context.Context) ([]domain.RawRecipe, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read html dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".html" || ext == ".htm" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var out []domain.RawRecipe
	for _, name := range names {
		if s.limit > 0 && len(out) >= s.limit {
			break
		}
		if err := ctx.Err(); err != nil {
			return out, err
		}
		b, err := os.ReadFile(filepath.Join(s.dir, name))
		if err != nil {
			return out, fmt.Errorf("read %s: %w", name, err)
		}
		rec, err := parseSavedPage(b)
		if err != nil {
			s.log.Warn("saved page skipped", "file", name, "error", err)
			continue
		}
		out = append(out, rec)
	}
	s.log.Info("saved pages loaded", "dir", s.dir, "files", len(names), "recipes", len(out))
	return out, nil
}

func parseSavedPage(b []byte) (domain.RawRecipe, error) {
	root, err := html.Parse(bytes.NewReader(b))
	if err != nil {
		return domain.RawRecipe{}, fmt.Errorf("parse html: %w", err)
	}

	var rec domain.RawRecipe
	if n := findFirst(root, metaWith("property", "og:url")); n != nil {
		rec.Source = strings.TrimSpace(attr(n, "content"))
	}
	if rec.Source == "" {
		canonical := findFirst(root, func(n *html.Node) bool {
			return n.Data == "link" && strings.EqualFold(attr(n, "rel"), "canonical")
		})
		if canonical != nil {
			rec.Source = strings.TrimSpace(attr(canonical, "href"))
		}
	}
	if rec.Source == "" {
		return domain.RawRecipe{}, fmt.Errorf("no og:url or canonical link")
	}

	for _, n := range findAll(root, metaWith("itemprop", "recipeCuisine")) {
		v := strings.TrimSpace(attr(n, "value"))
		if v == "" {
			v = strings.TrimSpace(attr(n, "content"))
		}
		if v != "" {
			rec.Cuisines = append(rec.Cuisines, v)
		}
	}
	if n := findFirst(root, tagWithClass("", "recipe-title")); n != nil {
		rec.Title = nodeText(n)
	}
	if n := findFirst(root, tagWithClass("span", "byline-name")); n != nil {
		rec.Author = nodeText(n)
	}
	rec.Ingredients = texts(findAll(root, tagWithClass("span", "ingredient-name")))
	for _, ol := range findAll(root, tagWithClass("ol", "recipe-steps")) {
		rec.Directions = append(rec.Directions, texts(childrenByTag(ol, "li"))...)
	}
	return rec, nil
}
