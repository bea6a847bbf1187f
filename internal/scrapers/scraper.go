package scrapers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	domain "github.com/yungbote/recipegraph-backend/internal/domain"
	"github.com/yungbote/recipegraph-backend/internal/platform/logger"
)

// Scraper produces raw recipe records for one ingestion run.
type Scraper interface {
	Scrape(ctx context.Context) ([]domain.RawRecipe, error)
}

const (
	KindManifest   = "manifest"
	KindSavedPages = "saved-pages"
	KindJSONLD     = "jsonld"
)

type Config struct {
	Kind         string
	ManifestPath string
	HTMLDir      string
	URLsFile     string
	// Limit caps how many records a scraper emits. Zero means no cap.
	Limit       int
	HTTPTimeout time.Duration
}

func New(log *logger.Logger, cfg Config, hc *http.Client) (Scraper, error) {
	if log == nil {
		log = logger.Nop()
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Kind)) {
	case KindManifest:
		if strings.TrimSpace(cfg.ManifestPath) == "" {
			return nil, fmt.Errorf("scraper %q: manifest path required", cfg.Kind)
		}
		return NewManifestScraper(log, cfg.ManifestPath, cfg.Limit), nil
	case KindSavedPages:
		if strings.TrimSpace(cfg.HTMLDir) == "" {
			return nil, fmt.Errorf("scraper %q: html dir required", cfg.Kind)
		}
		return NewSavedPagesScraper(log, cfg.HTMLDir, cfg.Limit), nil
	case KindJSONLD:
		if strings.TrimSpace(cfg.URLsFile) == "" {
			return nil, fmt.Errorf("scraper %q: urls file required", cfg.Kind)
		}
		if hc == nil {
			timeout := cfg.HTTPTimeout
			if timeout <= 0 {
				timeout = 20 * time.Second
			}
			hc = &http.Client{Timeout: timeout}
		}
		return NewJSONLDScraper(log, cfg.URLsFile, cfg.Limit, hc), nil
	default:
		return nil, fmt.Errorf("unknown scraper kind %q", cfg.Kind)
	}
}

func applyLimit(out []domain.RawRecipe, limit int) []domain.RawRecipe {
	if limit > 0 && len(out) > limit {
		return out[:limit]
	}
	return out
}
