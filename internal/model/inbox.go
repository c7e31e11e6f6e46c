package model

import "time"

// Inbox 首页时间线项（按 user_id 切分），由 fanout worker 写入
type Inbox struct {
	ID       string `gorm:"primaryKey;type:varchar(36)"`
	UserID   string `gorm:"type:varchar(64);index:idx_inbox_user;uniqueIndex:ux_inbox_user_recipe"`
	RecipeID string `gorm:"type:varchar(36);index:idx_inbox_recipe;uniqueIndex:ux_inbox_user_recipe"`
	// 复合唯一键，避免重复 (user, recipe)
	// ux_inbox_user_recipe = (user_id, recipe_id)
	Score     int64     `gorm:"index:idx_inbox_user_score"`
	CreatedAt time.Time `gorm:"index:idx_inbox_user_score"`
}

func (Inbox) TableName() string { return "inbox" }
