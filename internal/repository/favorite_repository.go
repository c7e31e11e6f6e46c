package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/recipe-graph/internal/model"
)

type FavoriteRepository interface {
	Create(ctx context.Context, userID, recipeID string) error
	Delete(ctx context.Context, userID, recipeID string) error
	Exists(ctx context.Context, userID, recipeID string) (bool, error)
	// Set 返回某用户全部收藏 id 的集合，喂给 ranker 的 IsFavorite 判定
	Set(ctx context.Context, userID string) (map[string]bool, error)
}

type favoriteRepository struct{ db *gorm.DB }

func NewFavoriteRepository(db *gorm.DB) FavoriteRepository { return &favoriteRepository{db: db} }

func (r *favoriteRepository) Create(ctx context.Context, userID, recipeID string) error {
	f := &model.Favorite{ID: uuid.New().String(), UserID: userID, RecipeID: recipeID}
	// 幂等：重复收藏不报错
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(f).Error
}

func (r *favoriteRepository) Delete(ctx context.Context, userID, recipeID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&model.Favorite{}).Error
}

func (r *favoriteRepository) Exists(ctx context.Context, userID, recipeID string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.Favorite{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *favoriteRepository) Set(ctx context.Context, userID string) (map[string]bool, error) {
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&model.Favorite{}).
		Select("recipe_id").
		Where("user_id = ?", userID).
		Scan(&ids).Error; err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}
