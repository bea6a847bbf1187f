// Package meili resolves ingredient phrases against a Meilisearch index of
// ontology terms, for running without the public lookup service.
package meili

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/meilisearch/meilisearch-go"

	"github.com/yungbote/recipegraph-backend/internal/domain/recipes"
	pkgerrors "github.com/yungbote/recipegraph-backend/internal/pkg/errors"
	"github.com/yungbote/recipegraph-backend/internal/platform/logger"
)

const DefaultIndex = "foodon"

type Config struct {
	URL    string
	APIKey string
	Index  string
}

// ConceptDoc is the stored document shape. Description mirrors the lookup
// service's array form.
type ConceptDoc struct {
	ID          string   `json:"id"`
	Label       string   `json:"label"`
	IRI         string   `json:"iri"`
	Description []string `json:"description,omitempty"`
}

type Resolver struct {
	log   *logger.Logger
	index meilisearch.IndexManager
	name  string
}

func NewResolver(log *logger.Logger, cfg Config) (*Resolver, error) {
	if log == nil {
		return nil, fmt.Errorf("meili: logger required")
	}
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, fmt.Errorf("meili: url required: %w", pkgerrors.ErrInvalidArgument)
	}
	name := strings.TrimSpace(cfg.Index)
	if name == "" {
		name = DefaultIndex
	}
	client := meilisearch.New(cfg.URL, meilisearch.WithAPIKey(cfg.APIKey))
	return &Resolver{
		log:   log.With("client", "Meilisearch", "index", name),
		index: client.Index(name),
		name:  name,
	}, nil
}

func (r *Resolver) Resolve(ctx context.Context, phrase string) (*recipes.ResolvedConcept, error) {
	phrase = strings.TrimSpace(phrase)
	if phrase == "" {
		return nil, fmt.Errorf("meili resolve: empty phrase: %w", pkgerrors.ErrInvalidArgument)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res, err := r.index.Search(phrase, &meilisearch.SearchRequest{Limit: 1})
	if err != nil {
		return nil, fmt.Errorf("meili search %q: %w", r.name, err)
	}
	raw, err := json.Marshal(res.Hits)
	if err != nil {
		return nil, fmt.Errorf("meili search %q: encode hits: %w", r.name, err)
	}
	var docs []ConceptDoc
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("meili search %q: decode hits: %w", r.name, err)
	}
	if len(docs) == 0 {
		return nil, nil
	}
	first := docs[0]
	if strings.TrimSpace(first.Label) == "" || strings.TrimSpace(first.IRI) == "" {
		return nil, fmt.Errorf("meili search %q: hit lacks label or iri: %w", r.name, pkgerrors.ErrSchemaMismatch)
	}
	concept := &recipes.ResolvedConcept{Label: first.Label, ExternalID: first.IRI}
	if len(first.Description) > 0 {
		d := first.Description[0]
		concept.Description = &d
	}
	return concept, nil
}

// Load adds concepts to the index. Documents are keyed by a name-based UUID
// of the IRI, so reloading the same term replaces it.
func (r *Resolver) Load(concepts []recipes.ResolvedConcept) (int, error) {
	docs := make([]ConceptDoc, 0, len(concepts))
	for _, c := range concepts {
		if strings.TrimSpace(c.Label) == "" || strings.TrimSpace(c.ExternalID) == "" {
			continue
		}
		doc := ConceptDoc{
			ID:    uuid.NewSHA1(uuid.NameSpaceURL, []byte(c.ExternalID)).String(),
			Label: c.Label,
			IRI:   c.ExternalID,
		}
		if c.Description != nil {
			doc.Description = []string{*c.Description}
		}
		docs = append(docs, doc)
	}
	if len(docs) == 0 {
		return 0, nil
	}
	if _, err := r.index.UpdateSettings(&meilisearch.Settings{
		SearchableAttributes: []string{"label", "description"},
	}); err != nil {
		r.log.Warn("meili settings update failed", "error", err)
	}
	if _, err := r.index.AddDocuments(docs, nil); err != nil {
		return 0, fmt.Errorf("meili load %q: %w", r.name, err)
	}
	r.log.Info("meili concepts queued", "count", len(docs))
	return len(docs), nil
}
