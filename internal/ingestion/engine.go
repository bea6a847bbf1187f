// Package ingestion turns scraped recipes into graph entities: each
// ingredient line is normalized, resolved against a food ontology, and
// linked to its recipe in the configured backend.
package ingestion

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	types "github.com/yungbote/recipegraph-backend/internal/domain"
	"github.com/yungbote/recipegraph-backend/internal/observability"
	"github.com/yungbote/recipegraph-backend/internal/platform/logger"
)

type Engine struct {
	log        *logger.Logger
	normalizer Normalizer
	resolver   Resolver
	classifier Classifier
	backend    Backend
	tracer     trace.Tracer
}

type EngineDeps struct {
	Normalizer Normalizer
	Resolver   Resolver
	Classifier Classifier
	Backend    Backend
}

func NewEngine(log *logger.Logger, deps EngineDeps) (*Engine, error) {
	switch {
	case log == nil:
		return nil, fmt.Errorf("ingestion: logger required")
	case deps.Normalizer == nil:
		return nil, fmt.Errorf("ingestion: normalizer required")
	case deps.Resolver == nil:
		return nil, fmt.Errorf("ingestion: resolver required")
	case deps.Classifier == nil:
		return nil, fmt.Errorf("ingestion: classifier required")
	case deps.Backend == nil:
		return nil, fmt.Errorf("ingestion: backend required")
	}
	return &Engine{
		log:        log.With("service", "IngestionEngine", "backend", deps.Backend.Name()),
		normalizer: deps.Normalizer,
		resolver:   deps.Resolver,
		classifier: deps.Classifier,
		backend:    deps.Backend,
		tracer:     observability.Tracer("ingestion"),
	}, nil
}

// Report describes what one Ingest call did.
type Report struct {
	Source        string
	RecipeID      string
	RecipeCreated bool

	IngredientsLinked   int
	IngredientsCreated  int
	NoMatch             int
	SkippedEmpty        int
	NormalizeFailures   int
	ResolverFailures    int
	PersistenceFailures int
	CuisinesLinked      int

	// Failures holds one error per abandoned ingredient or cuisine.
	Failures []error
}

// Ingest stores one recipe. The recipe/author/source unit must succeed for
// anything else to happen, and its failure is the only returned error.
// Ingredient and cuisine units fail independently and are recorded in the
// report.
func (e *Engine) Ingest(ctx context.Context, rec types.RawRecipe) (Report, error) {
	rep := Report{Source: strings.TrimSpace(rec.Source)}
	ctx, span := e.tracer.Start(ctx, "ingest.recipe", trace.WithAttributes(
		attribute.String("recipe.source", rep.Source),
		attribute.Int("recipe.ingredients", len(rec.Ingredients)),
	))
	defer span.End()

	if rep.Source == "" {
		span.SetStatus(codes.Error, ErrMissingSource.Error())
		return rep, ErrMissingSource
	}
	rec.Source = rep.Source

	ref, err := e.backend.UpsertRecipe(ctx, rec)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "recipe upsert failed")
		return rep, &PersistenceError{Backend: e.backend.Name(), Entity: types.LabelRecipe, Key: rep.Source, Op: "upsert", Cause: err}
	}
	rep.RecipeID = ref.ID
	rep.RecipeCreated = ref.Created
	log := e.log.With("recipe", rep.Source)
	log.Debug("recipe upserted", "recipe_id", ref.ID, "created", ref.Created)

	for i, line := range rec.Ingredients {
		e.ingestIngredient(ctx, log, ref, i, line, &rep)
	}
	for _, name := range rec.Cuisines {
		e.ingestCuisine(ctx, log, ref, name, &rep)
	}

	span.SetAttributes(
		attribute.Int("recipe.ingredients_linked", rep.IngredientsLinked),
		attribute.Int("recipe.failures", len(rep.Failures)),
	)
	return rep, nil
}

func (e *Engine) ingestIngredient(ctx context.Context, log *logger.Logger, ref RecipeRef, idx int, line string, rep *Report) {
	ctx, span := e.tracer.Start(ctx, "ingest.ingredient", trace.WithAttributes(attribute.Int("ingredient.index", idx)))
	defer span.End()

	phrase, err := e.normalizer.Normalize(line)
	if err != nil {
		nerr := &NormalizeError{Line: line, Cause: err}
		rep.NormalizeFailures++
		rep.Failures = append(rep.Failures, nerr)
		span.RecordError(nerr)
		span.SetStatus(codes.Error, "normalize failed")
		log.Warn("ingredient normalize failed (continuing)", "line", line, "error", err)
		return
	}
	phrase = strings.TrimSpace(phrase)
	if phrase == "" {
		rep.SkippedEmpty++
		log.Debug("ingredient has no resolvable phrase", "line", line)
		return
	}
	span.SetAttributes(attribute.String("ingredient.phrase", phrase))

	concept, err := e.resolver.Resolve(ctx, phrase)
	if err != nil {
		rerr := &ResolveError{Phrase: phrase, Cause: err}
		rep.ResolverFailures++
		rep.Failures = append(rep.Failures, rerr)
		span.RecordError(rerr)
		span.SetStatus(codes.Error, "resolve failed")
		log.Warn("ingredient resolve failed (continuing)", "phrase", phrase, "error", err)
		return
	}
	if concept == nil {
		rep.NoMatch++
		log.Debug("ingredient has no ontology match", "phrase", phrase)
		return
	}

	link := IngredientLink{Concept: *concept, ContainsMeat: e.classifier.ContainsMeat(concept.Label)}
	created, err := e.backend.LinkIngredient(ctx, ref, link)
	if err != nil {
		perr := &PersistenceError{Backend: e.backend.Name(), Entity: types.LabelIngredient, Key: concept.Label, Op: "link", Cause: err}
		rep.PersistenceFailures++
		rep.Failures = append(rep.Failures, perr)
		span.RecordError(perr)
		span.SetStatus(codes.Error, "ingredient link failed")
		log.Error("ingredient link failed (continuing)", "label", concept.Label, "error", err)
		return
	}
	rep.IngredientsLinked++
	if created {
		rep.IngredientsCreated++
	}
	log.Debug("ingredient linked", "phrase", phrase, "label", concept.Label, "contains_meat", link.ContainsMeat, "created", created)
}

func (e *Engine) ingestCuisine(ctx context.Context, log *logger.Logger, ref RecipeRef, name string, rep *Report) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	if _, err := e.backend.LinkCuisine(ctx, ref, name); err != nil {
		perr := &PersistenceError{Backend: e.backend.Name(), Entity: types.LabelCuisine, Key: name, Op: "link", Cause: err}
		rep.PersistenceFailures++
		rep.Failures = append(rep.Failures, perr)
		log.Error("cuisine link failed (continuing)", "cuisine", name, "error", err)
		return
	}
	rep.CuisinesLinked++
}

// RunSummary aggregates the reports of one run.
type RunSummary struct {
	RunID    string
	Duration time.Duration

	Recipes        int
	RecipesCreated int
	RecipesFailed  int

	IngredientsLinked   int
	IngredientsCreated  int
	NoMatch             int
	SkippedEmpty        int
	NormalizeFailures   int
	ResolverFailures    int
	PersistenceFailures int
	CuisinesLinked      int

	// Interrupted is set when ctx ended before every recipe was processed.
	Interrupted bool
}

func (s *RunSummary) add(rep Report) {
	if rep.RecipeCreated {
		s.RecipesCreated++
	}
	s.IngredientsLinked += rep.IngredientsLinked
	s.IngredientsCreated += rep.IngredientsCreated
	s.NoMatch += rep.NoMatch
	s.SkippedEmpty += rep.SkippedEmpty
	s.NormalizeFailures += rep.NormalizeFailures
	s.ResolverFailures += rep.ResolverFailures
	s.PersistenceFailures += rep.PersistenceFailures
	s.CuisinesLinked += rep.CuisinesLinked
}

// Run ingests recipes one after another. A failed recipe is logged and
// skipped; cancellation stops the loop between recipes.
func (e *Engine) Run(ctx context.Context, recipes []types.RawRecipe) RunSummary {
	start := time.Now()
	sum := RunSummary{RunID: uuid.NewString()}
	log := e.log.With("run_id", sum.RunID)
	log.Info("ingestion run started", "recipes", len(recipes))

	for i, rec := range recipes {
		if ctx.Err() != nil {
			sum.Interrupted = true
			log.Warn("ingestion run interrupted", "processed", i, "remaining", len(recipes)-i)
			break
		}
		sum.Recipes++
		rep, err := e.Ingest(ctx, rec)
		if err != nil {
			sum.RecipesFailed++
			if errors.Is(err, ErrMissingSource) {
				log.Warn("recipe dropped", "index", i, "title", rec.Title, "error", err)
			} else {
				log.Error("recipe ingest failed (continuing)", "index", i, "source", rec.Source, "error", err)
			}
			continue
		}
		sum.add(rep)
		log.Info("recipe ingested",
			"index", i,
			"source", rep.Source,
			"created", rep.RecipeCreated,
			"linked", rep.IngredientsLinked,
			"no_match", rep.NoMatch,
			"failures", len(rep.Failures),
		)
	}

	sum.Duration = time.Since(start)
	log.Info("ingestion run finished",
		"recipes", sum.Recipes,
		"recipes_failed", sum.RecipesFailed,
		"ingredients_linked", sum.IngredientsLinked,
		"ingredients_created", sum.IngredientsCreated,
		"no_match", sum.NoMatch,
		"skipped_empty", sum.SkippedEmpty,
		"normalize_failures", sum.NormalizeFailures,
		"resolver_failures", sum.ResolverFailures,
		"persistence_failures", sum.PersistenceFailures,
		"duration", sum.Duration,
	)
	return sum
}

// ResetIfSupported clears backends that implement Resetter.
func ResetIfSupported(ctx context.Context, b Backend) (bool, error) {
	r, ok := b.(Resetter)
	if !ok {
		return false, nil
	}
	if err := r.Reset(ctx); err != nil {
		return true, fmt.Errorf("reset %s: %w", b.Name(), err)
	}
	return true, nil
}
