package model

import "time"

// Fan 粉丝关系（B 的粉丝是 A）镜像自 Follow
// 与 Follow 必须在同一事务内成对写入/删除，单边存在即为数据不一致（见 repair）
type Fan struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	UserID    string `gorm:"type:varchar(64);index:idx_fan_user;index:idx_fan_pair,unique;not null"`
	FanID     string `gorm:"type:varchar(64);not null;index:idx_fan_pair,unique"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Fan) TableName() string { return "fans" }
