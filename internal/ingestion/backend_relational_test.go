package ingestion

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	recipesrepo "github.com/yungbote/recipegraph-backend/internal/data/repos/recipes"
	"github.com/yungbote/recipegraph-backend/internal/data/repos/testutil"
	types "github.com/yungbote/recipegraph-backend/internal/domain"
	"github.com/yungbote/recipegraph-backend/internal/normalization"
)

func newRelational(t *testing.T) (*RelationalBackend, *recipesrepo.Set) {
	t.Helper()
	db := testutil.DB(t)
	set := recipesrepo.NewSet(db, testutil.Logger(t))
	return NewRelationalBackend(set, testutil.Logger(t)), set
}

func TestRelationalIngestAndReingest(t *testing.T) {
	b, set := newRelational(t)
	e := newTestEngine(t, &stubResolver{concepts: concepts()}, b)
	ctx := context.Background()

	first, err := e.Ingest(ctx, soup())
	require.NoError(t, err)
	second, err := e.Ingest(ctx, soup())
	require.NoError(t, err)
	assert.Equal(t, first.RecipeID, second.RecipeID)
	assert.False(t, second.RecipeCreated)

	n, err := set.Recipe.Count(ctx, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	n, err = set.Ingredient.Count(ctx, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	row, err := set.Recipe.GetBySource(ctx, nil, soup().Source)
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "Onion Soup", row.Name)
	assert.Equal(t, "Jane Cook", row.Author)
	var directions []string
	require.NoError(t, json.Unmarshal(row.Directions, &directions))
	assert.Equal(t, []string{"Cook onions.", "Serve."}, directions)

	links, err := set.RecipeIngredient.GetByRecipeIDs(ctx, nil, []uint{row.ID})
	require.NoError(t, err)
	assert.Len(t, links, 4, "join rows append on every ingest")

	bacon, err := set.Ingredient.GetByName(ctx, nil, "bacon")
	require.NoError(t, err)
	require.NotNil(t, bacon)
	assert.True(t, bacon.ContainsMeat)

	onion, err := set.Ingredient.GetByName(ctx, nil, "onion")
	require.NoError(t, err)
	require.NotNil(t, onion)
	assert.False(t, onion.ContainsMeat)
	require.NotNil(t, onion.Description)
	assert.Equal(t, "An edible bulb.", *onion.Description)

	cuisineLinks, err := set.RecipeCuisine.GetByRecipeIDs(ctx, nil, []uint{row.ID})
	require.NoError(t, err)
	assert.Len(t, cuisineLinks, 2)
}

func TestRelationalLinkUnknownRecipeFails(t *testing.T) {
	b, _ := newRelational(t)
	ctx := context.Background()

	_, err := b.LinkIngredient(ctx, RecipeRef{ID: "999"}, IngredientLink{Concept: types.ResolvedConcept{Label: "salt", ExternalID: "x:salt"}})
	require.Error(t, err, "foreign key must reject a link to a missing recipe")

	_, err = b.LinkIngredient(ctx, RecipeRef{ID: "abc"}, IngredientLink{})
	require.Error(t, err)
}

func TestRelationalFailedLinkRollsBackIngredient(t *testing.T) {
	b, set := newRelational(t)
	ctx := context.Background()

	_, err := b.LinkIngredient(ctx, RecipeRef{ID: "999"}, IngredientLink{Concept: types.ResolvedConcept{Label: "salt", ExternalID: "x:salt"}})
	require.Error(t, err)

	got, err := set.Ingredient.GetByName(ctx, nil, "salt")
	require.NoError(t, err)
	assert.Nil(t, got, "ingredient and link commit together or not at all")
}

func TestSyncReplaysRelationalIntoGraph(t *testing.T) {
	b, set := newRelational(t)
	e := newTestEngine(t, &stubResolver{concepts: concepts()}, b)
	ctx := context.Background()

	_, err := e.Ingest(ctx, soup())
	require.NoError(t, err)
	_, err = e.Ingest(ctx, soup())
	require.NoError(t, err)
	_, err = e.Ingest(ctx, fiveIngredients())
	require.NoError(t, err)

	mem := NewMemoryBackend()
	s := NewSyncer(set, mem, e.classifier, testutil.Logger(t))
	s.pageSize = 1

	sum, err := s.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Recipes)
	assert.Equal(t, 0, sum.RecipesFailed)
	assert.Equal(t, 9, sum.IngredientLinks)
	assert.Equal(t, 2, sum.CuisineLinks)

	assert.Equal(t, 2, mem.CountNodes(types.LabelRecipe))
	assert.Equal(t,
		[]string{"onion", "bacon", "onion", "bacon"},
		mem.EdgeTargets(soup().Source, types.RelHasIngredient))
	assert.Equal(t, []string{"Jane Cook"}, mem.EdgeTargets(soup().Source, types.RelHasAuthor))

	bacon, ok := mem.Node(types.LabelIngredient, "bacon")
	require.True(t, ok)
	assert.Equal(t, true, bacon.Props["containsMeat"])
}

func TestEmptyTitleStoredEmptyRelationallyAndNullInGraph(t *testing.T) {
	b, set := newRelational(t)
	ctx := context.Background()
	rec := types.RawRecipe{Source: "https://cook.example.com/untitled", Author: "Jane Cook"}

	_, err := b.UpsertRecipe(ctx, rec)
	require.NoError(t, err)
	row, err := set.Recipe.GetBySource(ctx, nil, rec.Source)
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "", row.Name)

	mem := NewMemoryBackend()
	s := NewSyncer(set, mem, normalization.NewMeatClassifier(nil), testutil.Logger(t))
	_, err = s.Sync(ctx)
	require.NoError(t, err)

	node, ok := mem.Node(types.LabelRecipe, rec.Source)
	require.True(t, ok)
	assert.Nil(t, node.Props["name"])
}

func TestSyncSkipsUnreadableDirections(t *testing.T) {
	_, set := newRelational(t)
	ctx := context.Background()

	row := &types.Recipe{Name: "Broken", Author: "Jane Cook", Source: "https://cook.example.com/broken", Directions: datatypes.JSON(`{"step":1}`)}
	_, _, err := set.Recipe.FirstOrCreateBySource(ctx, nil, row)
	require.NoError(t, err)

	mem := NewMemoryBackend()
	s := NewSyncer(set, mem, normalization.NewMeatClassifier(nil), testutil.Logger(t))
	sum, err := s.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Recipes)
	assert.Equal(t, 0, sum.RecipesFailed)

	node, ok := mem.Node(types.LabelRecipe, row.Source)
	require.True(t, ok)
	assert.Equal(t, "Broken", node.Props["name"])
	assert.Empty(t, node.Props["directions"])
}
