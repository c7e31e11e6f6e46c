package model

import "time"

// Outbox 菜谱发布事件外发盒，发布事务内落地，worker 异步扇出到粉丝 inbox
type Outbox struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)"`
	RecipeID    string    `gorm:"type:varchar(36);uniqueIndex"`
	AuthorID    string    `gorm:"type:varchar(64);index:idx_outbox_author"`
	CreatedAt   time.Time `gorm:"index"`
	Status      string    `gorm:"type:varchar(16);index"` // pending, processing, done
	ProcessedAt *time.Time
	FanoutCount int64
}

func (Outbox) TableName() string { return "outbox" }
