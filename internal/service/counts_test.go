package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountsDerivedFromGraphAndContent(t *testing.T) {
	f := newFixture(t)
	ctx := ctxT(t)

	f.seedRecipe(t, "r1", "Phở bò", withOwnerField("user_id", "@cook_1"))
	f.seedRecipe(t, "r2", "Bún chả", withOwnerField("creator", "cook_1"))
	require.NoError(t, f.rel.Follow(ctx, "@fan_1", "@cook_1"))
	require.NoError(t, f.rel.Follow(ctx, "@fan_2", "@cook_1"))
	require.NoError(t, f.rel.Follow(ctx, "@cook_1", "@fan_1"))

	c := f.counts.Counts(ctx, "@cook_1")
	assert.Equal(t, 2, c.RecipeCount)
	assert.Equal(t, 2, c.FollowerCount)
	assert.Equal(t, 1, c.FollowingCount)
}

func TestCountsUnknownUserAllZero(t *testing.T) {
	f := newFixture(t)

	c := f.counts.Counts(ctxT(t), "@nobody")
	assert.Zero(t, c.RecipeCount)
	assert.Zero(t, c.FollowerCount)
	assert.Zero(t, c.FollowingCount)
}
