package model

import (
	"time"

	"gorm.io/datatypes"
)

// RecentView 每个用户一行的最近浏览记录
// RecipeIDs 是 JSON 字符串数组，旧到新排列；去重、超上限时从头部淘汰。
// 沿用来源系统"单文档追加"的形态，没有逐条浏览事件。
type RecentView struct {
	ViewerID  string `gorm:"primaryKey;type:varchar(64)"`
	RecipeIDs datatypes.JSON
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (RecentView) TableName() string { return "recent_views" }
