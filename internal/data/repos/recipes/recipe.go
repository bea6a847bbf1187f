package recipes

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/recipegraph-backend/internal/domain"
	"github.com/yungbote/recipegraph-backend/internal/platform/logger"
)

type RecipeRepo interface {
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uint) ([]*types.Recipe, error)
	GetBySource(ctx context.Context, tx *gorm.DB, source string) (*types.Recipe, error)
	// FirstOrCreateBySource returns the stored recipe for row.Source, creating
	// it from row when absent. An existing row is never modified.
	FirstOrCreateBySource(ctx context.Context, tx *gorm.DB, row *types.Recipe) (*types.Recipe, bool, error)
	ListAfter(ctx context.Context, tx *gorm.DB, afterID uint, limit int) ([]*types.Recipe, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type recipeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRecipeRepo(db *gorm.DB, baseLog *logger.Logger) RecipeRepo {
	return &recipeRepo{db: db, log: baseLog.With("repo", "RecipeRepo")}
}

func (r *recipeRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uint) ([]*types.Recipe, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Recipe
	if len(ids) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *recipeRepo) GetBySource(ctx context.Context, tx *gorm.DB, source string) (*types.Recipe, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, nil
	}
	var out []*types.Recipe
	if err := t.WithContext(ctx).Where("source = ?", source).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *recipeRepo) FirstOrCreateBySource(ctx context.Context, tx *gorm.DB, row *types.Recipe) (*types.Recipe, bool, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	existing, err := r.GetBySource(ctx, t, row.Source)
	if err != nil || existing != nil {
		return existing, false, err
	}
	res := t.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "source"}}, DoNothing: true}).
		Create(row)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 0 {
		existing, err = r.GetBySource(ctx, t, row.Source)
		return existing, false, err
	}
	return row, true, nil
}

func (r *recipeRepo) ListAfter(ctx context.Context, tx *gorm.DB, afterID uint, limit int) ([]*types.Recipe, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if limit <= 0 {
		limit = 100
	}
	var out []*types.Recipe
	if err := t.WithContext(ctx).Where("id > ?", afterID).Order("id ASC").Limit(limit).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *recipeRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var n int64
	err := t.WithContext(ctx).Model(&types.Recipe{}).Count(&n).Error
	return n, err
}
