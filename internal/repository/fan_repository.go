package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/recipe-graph/internal/model"
)

type FanRepository interface {
	Exists(ctx context.Context, userID, fanID string) (bool, error)
	ListFans(ctx context.Context, userID string, offset, limit int) ([]*model.Fan, error)
	ListFanIDs(ctx context.Context, userID string) ([]string, error)
	CountFans(ctx context.Context, userID string) (int64, error)
}

type fanRepository struct{ db *gorm.DB }

func NewFanRepository(db *gorm.DB) FanRepository { return &fanRepository{db: db} }

func (r *fanRepository) Exists(ctx context.Context, userID, fanID string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.Fan{}).
		Where("user_id = ? AND fan_id = ?", userID, fanID).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *fanRepository) ListFans(ctx context.Context, userID string, offset, limit int) ([]*model.Fan, error) {
	var res []*model.Fan
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&res).Error
	return res, err
}

func (r *fanRepository) ListFanIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.Fan{}).
		Select("fan_id").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Scan(&ids).Error
	return ids, err
}

func (r *fanRepository) CountFans(ctx context.Context, userID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&model.Fan{}).
		Where("user_id = ?", userID).
		Count(&cnt).Error
	return cnt, err
}
