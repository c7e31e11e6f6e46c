package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVariants(t *testing.T) {
	vs := Variants("@cook_1")
	assert.ElementsMatch(t, []string{"@cook_1", "cook_1", "COOK_1", "@COOK_1"}, vs)

	vs = Variants("cook_1")
	assert.ElementsMatch(t, []string{"cook_1", "COOK_1", "@cook_1", "@COOK_1"}, vs)
}

func TestVariantsDeduplicated(t *testing.T) {
	for _, id := range []string{"@cook_1", "COOK_1", "abc", "@ABC"} {
		vs := Variants(id)
		seen := map[string]bool{}
		for _, v := range vs {
			assert.False(t, seen[v], "duplicate variant %q for %q", v, id)
			seen[v] = true
		}
		assert.LessOrEqual(t, len(vs), 4)
		assert.Contains(t, vs, id)
	}
}

// 闭包性质：集合内任一变体再求 Variants，得到同一集合
func TestVariantsClosed(t *testing.T) {
	for _, id := range []string{"@cook_1", "cook_1", "COOK_1", "@phobo"} {
		base := Variants(id)
		for _, v := range base {
			assert.ElementsMatch(t, base, Variants(v), "variants(%q) from id %q", v, id)
		}
	}
}

// 混合大小写输入自身多占一个名额（5 个形态）；
// 它派生出的四个规范形态自成稳定闭包
func TestVariantsMixedCase(t *testing.T) {
	vs := Variants("Cook_1")
	assert.ElementsMatch(t, []string{"Cook_1", "cook_1", "COOK_1", "@cook_1", "@COOK_1"}, vs)

	orbit := Variants("cook_1")
	for _, v := range orbit {
		assert.ElementsMatch(t, orbit, Variants(v))
	}
}

func TestVariantsEmpty(t *testing.T) {
	assert.Empty(t, Variants(""))
	// 只有 @ 的退化输入不产生空 key
	assert.NotContains(t, Variants("@"), "")
	assert.NotContains(t, Variants("@"), "@")
}

func TestEqualIsRaw(t *testing.T) {
	assert.True(t, Equal("a", "a"))
	// 不做变体归一：带不带 @ 视为不同
	assert.False(t, Equal("@a", "a"))
	assert.False(t, Equal("A", "a"))
}
