package ingestion

import (
	"context"
	"encoding/json"
	"fmt"

	recipesrepo "github.com/yungbote/recipegraph-backend/internal/data/repos/recipes"
	types "github.com/yungbote/recipegraph-backend/internal/domain"
	"github.com/yungbote/recipegraph-backend/internal/platform/logger"
)

// Syncer replays the relational store into another backend, typically the
// graph. Link rows are replayed one for one, duplicates included.
type Syncer struct {
	repos      *recipesrepo.Set
	target     Backend
	classifier Classifier
	log        *logger.Logger
	pageSize   int
}

func NewSyncer(repos *recipesrepo.Set, target Backend, classifier Classifier, log *logger.Logger) *Syncer {
	return &Syncer{
		repos:      repos,
		target:     target,
		classifier: classifier,
		log:        log.With("service", "GraphSync", "target", target.Name()),
		pageSize:   200,
	}
}

type SyncSummary struct {
	Recipes         int
	RecipesFailed   int
	IngredientLinks int
	CuisineLinks    int
	LinkFailures    int
}

func (s *Syncer) Sync(ctx context.Context) (SyncSummary, error) {
	var sum SyncSummary
	var after uint
	for {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		page, err := s.repos.Recipe.ListAfter(ctx, nil, after, s.pageSize)
		if err != nil {
			return sum, fmt.Errorf("list recipes after %d: %w", after, err)
		}
		if len(page) == 0 {
			break
		}
		if err := s.syncPage(ctx, page, &sum); err != nil {
			return sum, err
		}
		after = page[len(page)-1].ID
	}
	s.log.Info("graph sync finished",
		"recipes", sum.Recipes,
		"recipes_failed", sum.RecipesFailed,
		"ingredient_links", sum.IngredientLinks,
		"cuisine_links", sum.CuisineLinks,
		"link_failures", sum.LinkFailures,
	)
	return sum, nil
}

func (s *Syncer) syncPage(ctx context.Context, page []*types.Recipe, sum *SyncSummary) error {
	ids := make([]uint, 0, len(page))
	for _, r := range page {
		ids = append(ids, r.ID)
	}

	ingLinks, err := s.repos.RecipeIngredient.GetByRecipeIDs(ctx, nil, ids)
	if err != nil {
		return fmt.Errorf("load ingredient links: %w", err)
	}
	cuiLinks, err := s.repos.RecipeCuisine.GetByRecipeIDs(ctx, nil, ids)
	if err != nil {
		return fmt.Errorf("load cuisine links: %w", err)
	}

	ingredients, err := s.loadIngredients(ctx, ingLinks)
	if err != nil {
		return err
	}
	cuisines, err := s.loadCuisines(ctx, cuiLinks)
	if err != nil {
		return err
	}

	ingByRecipe := map[uint][]uint{}
	for _, l := range ingLinks {
		ingByRecipe[l.SourceRecipeID] = append(ingByRecipe[l.SourceRecipeID], l.TargetIngredientID)
	}
	cuiByRecipe := map[uint][]uint{}
	for _, l := range cuiLinks {
		cuiByRecipe[l.SourceRecipeID] = append(cuiByRecipe[l.SourceRecipeID], l.TargetCuisineID)
	}

	for _, r := range page {
		sum.Recipes++
		var directions []string
		if len(r.Directions) > 0 {
			if err := json.Unmarshal(r.Directions, &directions); err != nil {
				s.log.Warn("sync recipe directions unreadable (syncing without them)", "recipe_id", r.ID, "source", r.Source, "error", err)
				directions = nil
			}
		}
		ref, err := s.target.UpsertRecipe(ctx, types.RawRecipe{
			Title:      r.Name,
			Author:     r.Author,
			Source:     r.Source,
			Directions: directions,
		})
		if err != nil {
			sum.RecipesFailed++
			s.log.Error("sync recipe failed (continuing)", "source", r.Source, "error", err)
			continue
		}
		for _, ingID := range ingByRecipe[r.ID] {
			ing := ingredients[ingID]
			if ing == nil {
				continue
			}
			concept := types.ResolvedConcept{Label: ing.Name, ExternalID: ing.ExternalID, Description: ing.Description}
			link := IngredientLink{Concept: concept, ContainsMeat: s.classifier.ContainsMeat(ing.Name)}
			if _, err := s.target.LinkIngredient(ctx, ref, link); err != nil {
				sum.LinkFailures++
				s.log.Error("sync ingredient link failed (continuing)", "source", r.Source, "label", ing.Name, "error", err)
				continue
			}
			sum.IngredientLinks++
		}
		for _, cID := range cuiByRecipe[r.ID] {
			c := cuisines[cID]
			if c == nil {
				continue
			}
			if _, err := s.target.LinkCuisine(ctx, ref, c.Name); err != nil {
				sum.LinkFailures++
				s.log.Error("sync cuisine link failed (continuing)", "source", r.Source, "cuisine", c.Name, "error", err)
				continue
			}
			sum.CuisineLinks++
		}
	}
	return nil
}

func (s *Syncer) loadIngredients(ctx context.Context, links []*types.RecipeIngredient) (map[uint]*types.Ingredient, error) {
	ids := make([]uint, 0, len(links))
	seen := map[uint]bool{}
	for _, l := range links {
		if !seen[l.TargetIngredientID] {
			seen[l.TargetIngredientID] = true
			ids = append(ids, l.TargetIngredientID)
		}
	}
	rows, err := s.repos.Ingredient.GetByIDs(ctx, nil, ids)
	if err != nil {
		return nil, fmt.Errorf("load ingredients: %w", err)
	}
	out := make(map[uint]*types.Ingredient, len(rows))
	for _, r := range rows {
		out[r.ID] = r
	}
	return out, nil
}

func (s *Syncer) loadCuisines(ctx context.Context, links []*types.RecipeCuisine) (map[uint]*types.Cuisine, error) {
	ids := make([]uint, 0, len(links))
	seen := map[uint]bool{}
	for _, l := range links {
		if !seen[l.TargetCuisineID] {
			seen[l.TargetCuisineID] = true
			ids = append(ids, l.TargetCuisineID)
		}
	}
	rows, err := s.repos.Cuisine.GetByIDs(ctx, nil, ids)
	if err != nil {
		return nil, fmt.Errorf("load cuisines: %w", err)
	}
	out := make(map[uint]*types.Cuisine, len(rows))
	for _, r := range rows {
		out[r.ID] = r
	}
	return out, nil
}
