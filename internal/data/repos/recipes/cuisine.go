package recipes

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/recipegraph-backend/internal/domain"
	"github.com/yungbote/recipegraph-backend/internal/platform/logger"
)

type CuisineRepo interface {
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uint) ([]*types.Cuisine, error)
	GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.Cuisine, error)
	FirstOrCreateByName(ctx context.Context, tx *gorm.DB, name string) (*types.Cuisine, bool, error)
}

type cuisineRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCuisineRepo(db *gorm.DB, baseLog *logger.Logger) CuisineRepo {
	return &cuisineRepo{db: db, log: baseLog.With("repo", "CuisineRepo")}
}

func (r *cuisineRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uint) ([]*types.Cuisine, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Cuisine
	if len(ids) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *cuisineRepo) GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.Cuisine, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if name == "" {
		return nil, nil
	}
	var out []*types.Cuisine
	if err := t.WithContext(ctx).Where("name = ?", name).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *cuisineRepo) FirstOrCreateByName(ctx context.Context, tx *gorm.DB, name string) (*types.Cuisine, bool, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	existing, err := r.GetByName(ctx, t, name)
	if err != nil || existing != nil {
		return existing, false, err
	}
	row := &types.Cuisine{Name: name}
	res := t.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(row)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 0 {
		existing, err = r.GetByName(ctx, t, name)
		return existing, false, err
	}
	return row, true, nil
}
