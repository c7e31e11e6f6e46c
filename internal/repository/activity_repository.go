package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/recipe-graph/internal/model"
)

// ActivityRepository 每用户一行的最近浏览列表，JSON 数组按旧到新排列
type ActivityRepository interface {
	// Append 追加一条浏览记录：已存在则不动（幂等），超过 cap 从头部淘汰。
	// 读改写在事务内完成，避免并发丢更新。
	Append(ctx context.Context, viewerID, recipeID string, cap int) error
	// IDs 返回旧到新的浏览 id 列表，没有记录时返回空切片
	IDs(ctx context.Context, viewerID string) ([]string, error)
}

type activityRepository struct{ db *gorm.DB }

func NewActivityRepository(db *gorm.DB) ActivityRepository { return &activityRepository{db: db} }

func (r *activityRepository) Append(ctx context.Context, viewerID, recipeID string, cap int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row model.RecentView
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("viewer_id = ?", viewerID).
			First(&row).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			row = model.RecentView{ViewerID: viewerID, CreatedAt: time.Now()}
		case err != nil:
			return err
		}

		var ids []string
		if len(row.RecipeIDs) > 0 {
			if err := json.Unmarshal(row.RecipeIDs, &ids); err != nil {
				// 列表损坏则重建，不让一条脏数据卡死后续浏览
				ids = nil
			}
		}
		for _, id := range ids {
			if id == recipeID {
				return nil // 幂等
			}
		}
		ids = append(ids, recipeID)
		if cap > 0 && len(ids) > cap {
			ids = ids[len(ids)-cap:]
		}

		payload, err := json.Marshal(ids)
		if err != nil {
			return err
		}
		row.RecipeIDs = datatypes.JSON(payload)
		row.UpdatedAt = time.Now()
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "viewer_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"recipe_ids", "updated_at"}),
		}).Create(&row).Error
	})
}

func (r *activityRepository) IDs(ctx context.Context, viewerID string) ([]string, error) {
	var row model.RecentView
	err := r.db.WithContext(ctx).Where("viewer_id = ?", viewerID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	var ids []string
	if len(row.RecipeIDs) > 0 {
		if err := json.Unmarshal(row.RecipeIDs, &ids); err != nil {
			return []string{}, nil
		}
	}
	return ids, nil
}
