package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/recipe-graph/internal/model"
)

type InboxRepository interface {
	// ListByUser 按 score 从新到旧返回某用户的时间线项
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]*model.Inbox, error)
}

type inboxRepository struct{ db *gorm.DB }

func NewInboxRepository(db *gorm.DB) InboxRepository { return &inboxRepository{db: db} }

func (r *inboxRepository) ListByUser(ctx context.Context, userID string, offset, limit int) ([]*model.Inbox, error) {
	var res []*model.Inbox
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("score DESC").
		Offset(offset).Limit(limit).
		Find(&res).Error
	return res, err
}
