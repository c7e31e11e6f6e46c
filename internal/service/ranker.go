package service

import (
	"sort"
	"strings"
)

// Filter feed 过滤条件。屏幕端一次只激活一个 tab，但这里按交集（AND）组合，
// 多个条件同时给出时全部生效。
type Filter struct {
	Query         string `form:"query" json:"query"`
	OnlyFavorites bool   `form:"only_favorites" json:"only_favorites"`
	MostRecent    int    `form:"most_recent" json:"most_recent"`
}

// ApplyFilter 对已解析的内容集合做过滤/排序，纯函数，不改输入切片。
// Query 对标题做大小写不敏感的子串匹配；MostRecent 按更新/创建时间降序取前 N，
// 时间相同用 id 降序决胜。
func ApplyFilter(items []EnrichedContent, f Filter) []EnrichedContent {
	out := make([]EnrichedContent, 0, len(items))
	query := strings.ToLower(f.Query)
	for _, it := range items {
		if it.Recipe == nil {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(it.Recipe.Title), query) {
			continue
		}
		if f.OnlyFavorites && !it.IsFavorite {
			continue
		}
		out = append(out, it)
	}

	if f.MostRecent > 0 {
		sort.SliceStable(out, func(i, j int) bool {
			ti, tj := recencyOf(out[i].Recipe), recencyOf(out[j].Recipe)
			if !ti.Equal(tj) {
				return ti.After(tj)
			}
			return out[i].Recipe.ID > out[j].Recipe.ID
		})
		if len(out) > f.MostRecent {
			out = out[:f.MostRecent]
		}
	}
	return out
}
