// Package identity 处理历史遗留的用户标识格式漂移：
// 同一个用户的 key 可能带/不带 @ 前缀，大小写也不统一。
package identity

import "strings"

// Sigil 用户标识的历史前缀
const Sigil = "@"

// Variants 生成一个标识的等价变体集合：原样、去/加 @ 前缀、全小写、全大写。
// 实现上取裸 key 大小写轨道的四个形态 {lower, UPPER, @lower, @UPPER} 并保留原样输入，
// 去重后顺序稳定。纯函数；对集合内任一元素再求 Variants 得到同一集合（闭包性质），
// 混合大小写的输入是例外（它自身会多占一个名额）。
func Variants(id string) []string {
	bare := strings.TrimPrefix(id, Sigil)
	lower := strings.ToLower(bare)
	upper := strings.ToUpper(bare)

	candidates := []string{id, lower, upper, Sigil + lower, Sigil + upper}

	seen := make(map[string]struct{}, len(candidates))
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c == "" || c == Sigil {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// Equal 原样比较两个标识（不做变体归一）。
// 自关注检查沿用来源系统的裸比较语义。
func Equal(a, b string) bool { return a == b }
