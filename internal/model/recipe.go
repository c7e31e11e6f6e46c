package model

import (
	"time"

	"gorm.io/datatypes"
)

// OwnerFields 历史数据里存放作者 ID 的四种字段名，按常见程度排序。
// 老客户端写 user_id，更老的写 creator_id / creator / user，查询时需要全部兼容。
var OwnerFields = []string{"user_id", "creator_id", "creator", "user"}

// Ingredient 配料
type Ingredient struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity,omitempty"`
}

// Step 步骤，可带配图
type Step struct {
	Text     string `json:"text"`
	ImageRef string `json:"imageRef,omitempty"`
}

// Recipe 菜谱主体
// 作者 ID 冗余在四个遗留列上，正常只有其中一个非空；AuthorName 是写入时落库的展示名快照，
// 兜底模糊匹配用（见 resolver）。
type Recipe struct {
	ID              string `gorm:"primaryKey;type:varchar(36)"`
	UserID          string `gorm:"column:user_id;type:varchar(64);index:idx_recipe_user"`
	CreatorID       string `gorm:"column:creator_id;type:varchar(64);index:idx_recipe_creator_id"`
	Creator         string `gorm:"column:creator;type:varchar(64);index:idx_recipe_creator"`
	User            string `gorm:"column:user;type:varchar(64);index:idx_recipe_user_legacy"`
	AuthorName      string `gorm:"type:varchar(128)"`
	Title           string `gorm:"type:varchar(256);not null"`
	Ingredients     datatypes.JSON
	Steps           datatypes.JSON
	MainImageRef    string `gorm:"type:varchar(512)"`
	Servings        int
	CookingDuration int    // 分钟
	MeaningText     string `gorm:"type:text"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (Recipe) TableName() string { return "recipes" }

// OwnerID 取第一个非空的遗留作者列
func (r *Recipe) OwnerID() string {
	for _, v := range []string{r.UserID, r.CreatorID, r.Creator, r.User} {
		if v != "" {
			return v
		}
	}
	return ""
}
