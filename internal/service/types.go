package service

import (
	"time"

	"github.com/d60-Lab/recipe-graph/internal/model"
)

// AuthorProfile 作者展示信息，查不到作者时整体为 nil
type AuthorProfile struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
	Address     string `json:"address"`
}

// EnrichedContent 菜谱 + 作者展示信息 + feed 派生字段
type EnrichedContent struct {
	Recipe *model.Recipe  `json:"recipe"`
	Author *AuthorProfile `json:"author,omitempty"`
	// ViewRank 最近浏览里的合成序号，0 = 最新；非浏览 feed 恒为 0。
	// 底层只存 id 列表没有逐条浏览时间，序号按追加位置重建，不是墙钟时间。
	ViewRank int `json:"view_rank"`
	// IsFavorite 相对请求方的收藏标记
	IsFavorite bool `json:"is_favorite"`
	// LowConfidence 兜底模糊匹配的结果，仅供展示，不能作为写操作依据
	LowConfidence bool `json:"low_confidence,omitempty"`
}

// Counts 展示计数，任何一路解析失败都回退为 0
type Counts struct {
	RecipeCount    int `json:"recipe_count"`
	FollowerCount  int `json:"follower_count"`
	FollowingCount int `json:"following_count"`
}

// ProfileBundle 个人页一次取齐的数据
type ProfileBundle struct {
	Profile   *AuthorProfile    `json:"profile"`
	Counts    Counts            `json:"counts"`
	Recipes   []EnrichedContent `json:"recipes"`
	Followers []string          `json:"followers"`
	Following []string          `json:"following"`
}

func toAuthorProfile(u *model.User) *AuthorProfile {
	if u == nil {
		return nil
	}
	return &AuthorProfile{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
		Address:     u.Address,
	}
}

// recencyOf 排序用的时间信号：优先 UpdatedAt，退回 CreatedAt
func recencyOf(r *model.Recipe) time.Time {
	if r == nil {
		return time.Time{}
	}
	if !r.UpdatedAt.IsZero() {
		return r.UpdatedAt
	}
	return r.CreatedAt
}
