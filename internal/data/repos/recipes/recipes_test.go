package recipes

import (
	"context"
	"testing"

	"github.com/yungbote/recipegraph-backend/internal/data/repos/testutil"
	types "github.com/yungbote/recipegraph-backend/internal/domain"
)

func TestRecipeFirstOrCreateBySource(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewRecipeRepo(db, testutil.Logger(t))

	first, created, err := repo.FirstOrCreateBySource(ctx, nil, &types.Recipe{Name: "Soup", Author: "A", Source: "https://x.com/soup"})
	if err != nil || !created {
		t.Fatalf("first create: created=%v err=%v", created, err)
	}
	again, created, err := repo.FirstOrCreateBySource(ctx, nil, &types.Recipe{Name: "Renamed", Author: "B", Source: "https://x.com/soup"})
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if created || again.ID != first.ID || again.Name != "Soup" {
		t.Fatalf("expected existing row untouched, got created=%v row=%+v", created, again)
	}
	n, err := repo.Count(ctx, nil)
	if err != nil || n != 1 {
		t.Fatalf("count: n=%d err=%v", n, err)
	}
}

func TestRecipeGetBySourceMissing(t *testing.T) {
	db := testutil.DB(t)
	repo := NewRecipeRepo(db, testutil.Logger(t))
	got, err := repo.GetBySource(context.Background(), nil, "https://nope")
	if err != nil || got != nil {
		t.Fatalf("want nil,nil got=%v err=%v", got, err)
	}
}

func TestRecipeListAfterPages(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	for _, s := range []string{"a", "b", "c"} {
		testutil.SeedRecipe(t, ctx, db, "https://x.com/"+s)
	}
	repo := NewRecipeRepo(db, testutil.Logger(t))

	page, err := repo.ListAfter(ctx, nil, 0, 2)
	if err != nil || len(page) != 2 {
		t.Fatalf("page1: len=%d err=%v", len(page), err)
	}
	rest, err := repo.ListAfter(ctx, nil, page[1].ID, 2)
	if err != nil || len(rest) != 1 || rest[0].Source != "https://x.com/c" {
		t.Fatalf("page2: %+v err=%v", rest, err)
	}
}

func TestIngredientDedupIsCaseSensitive(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewIngredientRepo(db, testutil.Logger(t))

	a, created, err := repo.FirstOrCreateByName(ctx, nil, &types.Ingredient{Name: "onion", ExternalID: "x:1"})
	if err != nil || !created {
		t.Fatalf("create onion: %v", err)
	}
	b, created, err := repo.FirstOrCreateByName(ctx, nil, &types.Ingredient{Name: "onion", ExternalID: "x:other"})
	if err != nil || created || b.ID != a.ID || b.ExternalID != "x:1" {
		t.Fatalf("expected reuse: created=%v row=%+v err=%v", created, b, err)
	}
	_, created, err = repo.FirstOrCreateByName(ctx, nil, &types.Ingredient{Name: "Onion", ExternalID: "x:2"})
	if err != nil || !created {
		t.Fatalf("differently cased label must be a new row: created=%v err=%v", created, err)
	}
	n, _ := repo.Count(ctx, nil)
	if n != 2 {
		t.Fatalf("count: want=2 got=%d", n)
	}
}

func TestJoinRowsAppend(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	log := testutil.Logger(t)
	r := testutil.SeedRecipe(t, ctx, db, "https://x.com/stew")
	i := testutil.SeedIngredient(t, ctx, db, "beef")
	links := NewRecipeIngredientRepo(db, log)

	for n := 0; n < 2; n++ {
		if _, err := links.Create(ctx, nil, []*types.RecipeIngredient{{SourceRecipeID: r.ID, TargetIngredientID: i.ID}}); err != nil {
			t.Fatalf("create link: %v", err)
		}
	}
	rows, err := links.GetByRecipeIDs(ctx, nil, []uint{r.ID})
	if err != nil || len(rows) != 2 {
		t.Fatalf("want 2 link rows, got=%d err=%v", len(rows), err)
	}
}

func TestCuisineFirstOrCreateAndLinks(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	log := testutil.Logger(t)
	set := NewSet(db, log)
	r := testutil.SeedRecipe(t, ctx, db, "https://x.com/taco")

	c1, created, err := set.Cuisine.FirstOrCreateByName(ctx, nil, "Mexican")
	if err != nil || !created {
		t.Fatalf("create cuisine: %v", err)
	}
	c2, created, err := set.Cuisine.FirstOrCreateByName(ctx, nil, "Mexican")
	if err != nil || created || c2.ID != c1.ID {
		t.Fatalf("expected reuse: %+v %v", c2, err)
	}
	if _, err := set.RecipeCuisine.Create(ctx, nil, []*types.RecipeCuisine{{SourceRecipeID: r.ID, TargetCuisineID: c1.ID}}); err != nil {
		t.Fatalf("link: %v", err)
	}
	rows, err := set.RecipeCuisine.GetByRecipeIDs(ctx, nil, []uint{r.ID})
	if err != nil || len(rows) != 1 {
		t.Fatalf("links: %d %v", len(rows), err)
	}
}

func TestTxRollbackHidesWrites(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewIngredientRepo(db, testutil.Logger(t))

	tx := db.Begin()
	if _, _, err := repo.FirstOrCreateByName(ctx, tx, &types.Ingredient{Name: "salt", ExternalID: "x:salt"}); err != nil {
		t.Fatalf("create in tx: %v", err)
	}
	tx.Rollback()

	got, err := repo.GetByName(ctx, nil, "salt")
	if err != nil || got != nil {
		t.Fatalf("rolled back row visible: %+v %v", got, err)
	}
}

func TestIngredientListAfter(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	for _, n := range []string{"onion", "garlic", "leek"} {
		testutil.SeedIngredient(t, ctx, db, n)
	}
	repo := NewIngredientRepo(db, testutil.Logger(t))

	page, err := repo.ListAfter(ctx, nil, 0, 2)
	if err != nil || len(page) != 2 || page[0].Name != "onion" {
		t.Fatalf("page1: %+v err=%v", page, err)
	}
	rest, err := repo.ListAfter(ctx, nil, page[1].ID, 10)
	if err != nil || len(rest) != 1 || rest[0].Name != "leek" {
		t.Fatalf("page2: %+v err=%v", rest, err)
	}
}
