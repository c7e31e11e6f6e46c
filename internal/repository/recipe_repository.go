package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/d60-Lab/recipe-graph/internal/model"
)

var ErrRecipeNotFound = errors.New("recipe not found")

type RecipeRepository interface {
	// FindByOwnerField 按指定的遗留作者列做等值查询，field 必须在 model.OwnerFields 内
	FindByOwnerField(ctx context.Context, field, value string) ([]*model.Recipe, error)
	// ScanByAuthorName 兜底：按落库的作者展示名做有界 LIKE 扫描。
	// 大小写敏感性随方言走，调用方需自行复核。
	ScanByAuthorName(ctx context.Context, name string, limit int) ([]*model.Recipe, error)
	GetByID(ctx context.Context, id string) (*model.Recipe, error)
	GetByIDs(ctx context.Context, ids []string) ([]*model.Recipe, error)
	Update(ctx context.Context, recipe *model.Recipe) error
	Delete(ctx context.Context, id string) error
}

type recipeRepository struct{ db *gorm.DB }

func NewRecipeRepository(db *gorm.DB) RecipeRepository { return &recipeRepository{db: db} }

func (r *recipeRepository) FindByOwnerField(ctx context.Context, field, value string) ([]*model.Recipe, error) {
	valid := false
	for _, f := range model.OwnerFields {
		if f == field {
			valid = true
			break
		}
	}
	if !valid {
		return nil, fmt.Errorf("unknown owner field: %s", field)
	}
	var res []*model.Recipe
	err := r.db.WithContext(ctx).
		Where(fmt.Sprintf("%s = ?", field), value).
		Find(&res).Error
	return res, err
}

func (r *recipeRepository) ScanByAuthorName(ctx context.Context, name string, limit int) ([]*model.Recipe, error) {
	if limit <= 0 {
		limit = 100
	}
	var res []*model.Recipe
	err := r.db.WithContext(ctx).
		Where("author_name LIKE ?", "%"+name+"%").
		Limit(limit).
		Find(&res).Error
	return res, err
}

func (r *recipeRepository) GetByID(ctx context.Context, id string) (*model.Recipe, error) {
	var recipe model.Recipe
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&recipe).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecipeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) GetByIDs(ctx context.Context, ids []string) ([]*model.Recipe, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var res []*model.Recipe
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&res).Error
	return res, err
}

func (r *recipeRepository) Update(ctx context.Context, recipe *model.Recipe) error {
	recipe.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(recipe).Error
}

func (r *recipeRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Recipe{}).Error
}
