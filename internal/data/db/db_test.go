package db

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	types "github.com/yungbote/recipegraph-backend/internal/domain"
	"github.com/yungbote/recipegraph-backend/internal/platform/logger"
)

func TestSQLiteDSN(t *testing.T) {
	cases := map[string]string{
		"":                       "recipegraph.sqlite?_foreign_keys=1",
		"data/r.db":              "data/r.db?_foreign_keys=1",
		"file:x?mode=memory":     "file:x?mode=memory&_foreign_keys=1",
		"file:y?_foreign_keys=0": "file:y?_foreign_keys=0",
	}
	for in, want := range cases {
		if got := SQLiteDSN(in); got != want {
			t.Fatalf("SQLiteDSN(%q): want=%q got=%q", in, want, got)
		}
	}
}

func TestPostgresDSNEscapesPassword(t *testing.T) {
	dsn := PostgresDSN(Config{PostgresUser: "app", PostgresPassword: "p@ss/word", PostgresHost: "db"})
	if !strings.HasPrefix(dsn, "postgres://app:p%40ss%2Fword@db:5432/recipegraph") {
		t.Fatalf("unexpected dsn: %s", dsn)
	}
	if !strings.Contains(dsn, "sslmode=disable") {
		t.Fatalf("missing sslmode: %s", dsn)
	}
}

func TestOpenSQLiteMigratesAndEnforcesForeignKeys(t *testing.T) {
	svc, err := Open(logger.NewForTest(t), Config{
		Driver:     DriverSQLite,
		SQLitePath: "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = svc.Close() })

	if err := svc.AutoMigrateAll(); err != nil {
		t.Fatalf("AutoMigrateAll: %v", err)
	}
	for _, table := range []string{"recipe", "ingredient", "recipe_ingredient", "cuisine", "recipe_cuisine"} {
		if !svc.DB().Migrator().HasTable(table) {
			t.Fatalf("missing table %s", table)
		}
	}

	orphan := &types.RecipeIngredient{SourceRecipeID: 999, TargetIngredientID: 999}
	if err := svc.DB().Create(orphan).Error; err == nil {
		t.Fatalf("expected foreign key violation for orphan join row")
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open(logger.NewForTest(t), Config{Driver: "oracle"}); err == nil {
		t.Fatalf("expected error")
	}
}
