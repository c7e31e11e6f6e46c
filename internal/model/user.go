package model

import "time"

// User 用户资料
// ID 是历史遗留的用户标识：可能带 @ 前缀、大小写不统一，查询时经 identity.Variants 兼容
type User struct {
	ID          string `gorm:"primaryKey;type:varchar(64)"`
	Username    string `gorm:"type:varchar(64);uniqueIndex;not null"`
	DisplayName string `gorm:"type:varchar(128)"`
	Email       string `gorm:"type:varchar(128);uniqueIndex"`
	Password    string `gorm:"type:varchar(128)" json:"-"`
	AvatarURL   string `gorm:"type:varchar(512)"`
	Address     string `gorm:"type:varchar(256)"`
	Bio         string `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (User) TableName() string { return "users" }
