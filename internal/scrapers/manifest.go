package scrapers

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	domain "github.com/yungbote/recipegraph-backend/internal/domain"
	"github.com/yungbote/recipegraph-backend/internal/platform/logger"
)

type manifestFile struct {
	Recipes []domain.RawRecipe `yaml:"recipes"`
}

// ManifestScraper reads recipes from a YAML file of the form
//
//	recipes:
//	  - title: Borscht
//	    source: https://example.com/borscht
//	    ingredients: [...]
type ManifestScraper struct {
	log   *logger.Logger
	path  string
	limit int
}

func NewManifestScraper(log *logger.Logger, path string, limit int) *ManifestScraper {
	return &ManifestScraper{log: log.With("scraper", KindManifest), path: path, limit: limit}
}

func (s *ManifestScraper) Scrape(ctx context.Context) ([]domain.RawRecipe, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return s.parse(b)
}

func (s *ManifestScraper) parse(b []byte) ([]domain.RawRecipe, error) {
	var mf manifestFile
	if err := yaml.Unmarshal(b, &mf); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	out := make([]domain.RawRecipe, 0, len(mf.Recipes))
	for i, r := range mf.Recipes {
		r.Source = strings.TrimSpace(r.Source)
		if r.Source == "" {
			s.log.Warn("manifest entry without source dropped", "index", i, "title", r.Title)
			continue
		}
		r.Title = strings.TrimSpace(r.Title)
		r.Author = strings.TrimSpace(r.Author)
		out = append(out, r)
	}
	s.log.Info("manifest loaded", "path", s.path, "recipes", len(out))
	return applyLimit(out, s.limit), nil
}
