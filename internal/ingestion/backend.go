package ingestion

import (
	"context"
	"net/url"
	"strings"

	types "github.com/yungbote/recipegraph-backend/internal/domain"
)

// Resolver maps a canonical phrase to at most one ontology concept. A nil
// concept with a nil error means the ontology has no candidate.
type Resolver interface {
	Resolve(ctx context.Context, phrase string) (*types.ResolvedConcept, error)
}

type Normalizer interface {
	Normalize(raw string) (string, error)
}

type Classifier interface {
	ContainsMeat(label string) bool
}

// RecipeRef identifies a stored recipe inside one backend.
type RecipeRef struct {
	ID      string
	Source  string
	Created bool
}

type IngredientLink struct {
	Concept      types.ResolvedConcept
	ContainsMeat bool
}

// Backend persists the recipe graph. Entities are looked up by key and
// created only when absent; every Link call adds a new relationship, even
// when an identical one already exists.
type Backend interface {
	Name() string
	UpsertRecipe(ctx context.Context, rec types.RawRecipe) (RecipeRef, error)
	LinkIngredient(ctx context.Context, ref RecipeRef, link IngredientLink) (created bool, err error)
	LinkCuisine(ctx context.Context, ref RecipeRef, name string) (created bool, err error)
}

// Resetter is implemented by backends that are rebuilt from scratch on
// every run.
type Resetter interface {
	Reset(ctx context.Context) error
}

// RootDomain returns scheme://host for an http(s) source URL, lower-cased,
// or "" when source is not one.
func RootDomain(source string) string {
	u, err := url.Parse(strings.TrimSpace(source))
	if err != nil || u.Host == "" {
		return ""
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return ""
	}
	return scheme + "://" + strings.ToLower(u.Host)
}
