package recipes

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/recipegraph-backend/internal/domain"
	"github.com/yungbote/recipegraph-backend/internal/platform/logger"
)

type IngredientRepo interface {
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uint) ([]*types.Ingredient, error)
	// GetByName matches the label exactly, case included.
	GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.Ingredient, error)
	FirstOrCreateByName(ctx context.Context, tx *gorm.DB, row *types.Ingredient) (*types.Ingredient, bool, error)
	ListAfter(ctx context.Context, tx *gorm.DB, afterID uint, limit int) ([]*types.Ingredient, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type ingredientRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewIngredientRepo(db *gorm.DB, baseLog *logger.Logger) IngredientRepo {
	return &ingredientRepo{db: db, log: baseLog.With("repo", "IngredientRepo")}
}

func (r *ingredientRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uint) ([]*types.Ingredient, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Ingredient
	if len(ids) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ingredientRepo) GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.Ingredient, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if name == "" {
		return nil, nil
	}
	var out []*types.Ingredient
	if err := t.WithContext(ctx).Where("name = ?", name).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *ingredientRepo) FirstOrCreateByName(ctx context.Context, tx *gorm.DB, row *types.Ingredient) (*types.Ingredient, bool, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	existing, err := r.GetByName(ctx, t, row.Name)
	if err != nil || existing != nil {
		return existing, false, err
	}
	res := t.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(row)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 0 {
		existing, err = r.GetByName(ctx, t, row.Name)
		return existing, false, err
	}
	return row, true, nil
}

func (r *ingredientRepo) ListAfter(ctx context.Context, tx *gorm.DB, afterID uint, limit int) ([]*types.Ingredient, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if limit <= 0 {
		limit = 100
	}
	var out []*types.Ingredient
	if err := t.WithContext(ctx).Where("id > ?", afterID).Order("id ASC").Limit(limit).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ingredientRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var n int64
	err := t.WithContext(ctx).Model(&types.Ingredient{}).Count(&n).Error
	return n, err
}
