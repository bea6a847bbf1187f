package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	types "github.com/yungbote/recipegraph-backend/internal/domain"
	"github.com/yungbote/recipegraph-backend/internal/platform/logger"
	"github.com/yungbote/recipegraph-backend/internal/platform/neo4jdb"
)

type RecipeNode struct {
	Source     string
	Title      string
	Author     string
	Webpage    string
	Directions []string
}

type IngredientNode struct {
	Label        string
	ExternalID   string
	Description  *string
	ContainsMeat bool
}

var recipeGraphSchema = []string{
	`CREATE CONSTRAINT recipe_source_unique IF NOT EXISTS FOR (r:Recipe) REQUIRE r.wasDerivedFromURL IS UNIQUE`,
	`CREATE CONSTRAINT recipe_id_unique IF NOT EXISTS FOR (r:Recipe) REQUIRE r.id IS UNIQUE`,
	`CREATE CONSTRAINT ingredient_label_unique IF NOT EXISTS FOR (i:Ingredient) REQUIRE i.label IS UNIQUE`,
	`CREATE CONSTRAINT author_name_unique IF NOT EXISTS FOR (a:Author) REQUIRE a.name IS UNIQUE`,
	`CREATE CONSTRAINT cuisine_name_unique IF NOT EXISTS FOR (c:Cuisine) REQUIRE c.name IS UNIQUE`,
	`CREATE CONSTRAINT webpage_url_unique IF NOT EXISTS FOR (w:Webpage) REQUIRE w.url IS UNIQUE`,
}

// EnsureRecipeGraphSchema is best-effort; restricted users may not be
// allowed to create constraints.
func EnsureRecipeGraphSchema(ctx context.Context, client *neo4jdb.Client, log *logger.Logger) {
	if client == nil || client.Driver == nil {
		return
	}
	session := client.WriteSession(ctx)
	defer session.Close(ctx)
	for _, stmt := range recipeGraphSchema {
		res, err := session.Run(ctx, stmt, nil)
		if err != nil {
			if log != nil {
				log.Warn("neo4j schema init failed (continuing)", "error", err)
			}
			continue
		}
		_, _ = res.Consume(ctx)
	}
}

// UpsertRecipeAuthorSource finds or creates the Recipe for in.Source plus its
// Author and Webpage, then adds fresh hasAuthor/hasSource edges. Everything
// happens in one transaction. It returns the recipe's id property.
func UpsertRecipeAuthorSource(ctx context.Context, client *neo4jdb.Client, in RecipeNode) (string, bool, error) {
	if client == nil || client.Driver == nil {
		return "", false, fmt.Errorf("neo4j recipe upsert: no client")
	}
	if in.Source == "" {
		return "", false, fmt.Errorf("neo4j recipe upsert: missing source")
	}
	params := map[string]any{
		"source":     in.Source,
		"id":         uuid.NewString(),
		"name":       nullable(in.Title),
		"directions": in.Directions,
		"author":     in.Author,
		"author_id":  uuid.NewString(),
		"webpage":    in.Webpage,
		"webpage_id": uuid.NewString(),
		"now":        time.Now().UTC().Format(time.RFC3339Nano),
	}
	cypher := fmt.Sprintf(`
MERGE (r:%[1]s {wasDerivedFromURL: $source})
ON CREATE SET r.id = $id, r.name = $name, r.directions = $directions, r.created_at = $now
WITH r, r.id = $id AS created
FOREACH (_ IN CASE WHEN $author = '' THEN [] ELSE [1] END |
  MERGE (a:%[2]s {name: $author})
  ON CREATE SET a.id = $author_id, a.created_at = $now
  CREATE (r)-[:%[4]s]->(a)
)
FOREACH (_ IN CASE WHEN $webpage = '' THEN [] ELSE [1] END |
  MERGE (w:%[3]s {url: $webpage})
  ON CREATE SET w.id = $webpage_id, w.created_at = $now
  CREATE (r)-[:%[5]s]->(w)
)
RETURN r.id AS id, created
`, types.LabelRecipe, types.LabelAuthor, types.LabelWebpage, types.RelHasAuthor, types.RelHasSource)

	session := client.WriteSession(ctx)
	defer session.Close(ctx)
	out, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}
		rec, err := res.Single(ctx)
		if err != nil {
			return nil, err
		}
		id, _, err := neo4j.GetRecordValue[string](rec, "id")
		if err != nil {
			return nil, err
		}
		created, _, err := neo4j.GetRecordValue[bool](rec, "created")
		if err != nil {
			return nil, err
		}
		return upsertResult{id: id, created: created}, nil
	})
	if err != nil {
		return "", false, fmt.Errorf("neo4j recipe upsert %q: %w", in.Source, err)
	}
	r := out.(upsertResult)
	return r.id, r.created, nil
}

// LinkRecipeIngredient finds or creates the Ingredient by label and appends
// one hasIngredient edge from the recipe.
func LinkRecipeIngredient(ctx context.Context, client *neo4jdb.Client, recipeID string, in IngredientNode) (bool, error) {
	if client == nil || client.Driver == nil {
		return false, fmt.Errorf("neo4j ingredient link: no client")
	}
	params := map[string]any{
		"recipe_id":     recipeID,
		"id":            uuid.NewString(),
		"label":         in.Label,
		"external_id":   in.ExternalID,
		"description":   derefOrNil(in.Description),
		"contains_meat": in.ContainsMeat,
		"now":           time.Now().UTC().Format(time.RFC3339Nano),
	}
	cypher := fmt.Sprintf(`
MATCH (r:%[1]s {id: $recipe_id})
MERGE (i:%[2]s {label: $label})
ON CREATE SET i.id = $id, i.externalId = $external_id, i.description = $description,
              i.containsMeat = $contains_meat, i.created_at = $now
CREATE (r)-[:%[3]s]->(i)
RETURN i.id = $id AS created
`, types.LabelRecipe, types.LabelIngredient, types.RelHasIngredient)
	return runLink(ctx, client, cypher, params, "ingredient "+in.Label)
}

// LinkRecipeCuisine finds or creates the Cuisine by name and appends one
// hasAssociatedCuisine edge from the recipe.
func LinkRecipeCuisine(ctx context.Context, client *neo4jdb.Client, recipeID, name string) (bool, error) {
	if client == nil || client.Driver == nil {
		return false, fmt.Errorf("neo4j cuisine link: no client")
	}
	params := map[string]any{
		"recipe_id": recipeID,
		"id":        uuid.NewString(),
		"name":      name,
		"now":       time.Now().UTC().Format(time.RFC3339Nano),
	}
	cypher := fmt.Sprintf(`
MATCH (r:%[1]s {id: $recipe_id})
MERGE (c:%[2]s {name: $name})
ON CREATE SET c.id = $id, c.created_at = $now
CREATE (r)-[:%[3]s]->(c)
RETURN c.id = $id AS created
`, types.LabelRecipe, types.LabelCuisine, types.RelHasAssociatedCuisine)
	return runLink(ctx, client, cypher, params, "cuisine "+name)
}

func runLink(ctx context.Context, client *neo4jdb.Client, cypher string, params map[string]any, what string) (bool, error) {
	session := client.WriteSession(ctx)
	defer session.Close(ctx)
	out, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}
		rec, err := res.Single(ctx)
		if err != nil {
			// Zero records means the MATCH on the recipe found nothing.
			return nil, fmt.Errorf("recipe %v not found: %w", params["recipe_id"], err)
		}
		created, _, err := neo4j.GetRecordValue[bool](rec, "created")
		return created, err
	})
	if err != nil {
		return false, fmt.Errorf("neo4j link %s: %w", what, err)
	}
	return out.(bool), nil
}

// CountNodes returns how many nodes carry label.
func CountNodes(ctx context.Context, client *neo4jdb.Client, label string) (int64, error) {
	return countQuery(ctx, client, fmt.Sprintf(`MATCH (n:%s) RETURN count(n) AS n`, label), nil)
}

// CountRecipeEdges returns how many rel edges leave the recipe for source.
func CountRecipeEdges(ctx context.Context, client *neo4jdb.Client, source, rel string) (int64, error) {
	return countQuery(ctx, client,
		fmt.Sprintf(`MATCH (:%s {wasDerivedFromURL: $source})-[e:%s]->() RETURN count(e) AS n`, types.LabelRecipe, rel),
		map[string]any{"source": source})
}

func countQuery(ctx context.Context, client *neo4jdb.Client, cypher string, params map[string]any) (int64, error) {
	if client == nil || client.Driver == nil {
		return 0, fmt.Errorf("neo4j count: no client")
	}
	session := client.ReadSession(ctx)
	defer session.Close(ctx)
	out, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}
		rec, err := res.Single(ctx)
		if err != nil {
			return nil, err
		}
		n, _, err := neo4j.GetRecordValue[int64](rec, "n")
		return n, err
	})
	if err != nil {
		return 0, err
	}
	return out.(int64), nil
}

type upsertResult struct {
	id      string
	created bool
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func derefOrNil(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
