package model

import "time"

// Favorite 收藏
type Favorite struct {
	ID       string `gorm:"primaryKey;type:varchar(36)"`
	UserID   string `gorm:"type:varchar(64);index:idx_fav_user;index:idx_fav_pair,unique;not null"`
	RecipeID string `gorm:"type:varchar(36);not null;index:idx_fav_pair,unique"`
	CreatedAt time.Time
}

func (Favorite) TableName() string { return "favorites" }
