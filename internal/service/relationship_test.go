package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/recipe-graph/internal/model"
)

func TestFollowCreatesMirroredEdges(t *testing.T) {
	f := newFixture(t)
	ctx := ctxT(t)

	require.NoError(t, f.rel.Follow(ctx, "@cook_1", "@cook_2"))

	following, err := f.rel.IsFollowing(ctx, "@cook_1", "@cook_2")
	require.NoError(t, err)
	assert.True(t, following)

	followers, err := f.rel.Followers(ctx, "@cook_2")
	require.NoError(t, err)
	assert.Contains(t, followers, "@cook_1")

	followees, err := f.rel.Following(ctx, "@cook_1")
	require.NoError(t, err)
	assert.Contains(t, followees, "@cook_2")
}

func TestFollowCounts(t *testing.T) {
	f := newFixture(t)
	ctx := ctxT(t)

	fc, fg, err := f.rel.Counts(ctx, "@cook_2")
	require.NoError(t, err)
	assert.Zero(t, fc)
	assert.Zero(t, fg)

	require.NoError(t, f.rel.Follow(ctx, "@cook_1", "@cook_2"))

	fc, fg, err = f.rel.Counts(ctx, "@cook_2")
	require.NoError(t, err)
	assert.EqualValues(t, 1, fc)
	assert.EqualValues(t, 0, fg)

	fc, fg, err = f.rel.Counts(ctx, "@cook_1")
	require.NoError(t, err)
	assert.EqualValues(t, 0, fc)
	assert.EqualValues(t, 1, fg)
}

func TestUnfollowRestoresPreState(t *testing.T) {
	f := newFixture(t)
	ctx := ctxT(t)

	require.NoError(t, f.rel.Follow(ctx, "@cook_1", "@cook_2"))
	require.NoError(t, f.rel.Unfollow(ctx, "@cook_1", "@cook_2"))

	following, err := f.rel.IsFollowing(ctx, "@cook_1", "@cook_2")
	require.NoError(t, err)
	assert.False(t, following)

	followers, err := f.rel.Followers(ctx, "@cook_2")
	require.NoError(t, err)
	assert.NotContains(t, followers, "@cook_1")

	followees, err := f.rel.Following(ctx, "@cook_1")
	require.NoError(t, err)
	assert.NotContains(t, followees, "@cook_2")
}

// 删除不存在的边按幂等成功处理
func TestUnfollowMissingEdgeIsNoop(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.rel.Unfollow(ctxT(t), "@cook_1", "@cook_2"))
}

func TestFollowSelfRejected(t *testing.T) {
	f := newFixture(t)
	ctx := ctxT(t)

	err := f.rel.Follow(ctx, "@cook_1", "@cook_1")
	assert.ErrorIs(t, err, ErrInvalidRelationship)

	fc, fg, err := f.rel.Counts(ctx, "@cook_1")
	require.NoError(t, err)
	assert.Zero(t, fc)
	assert.Zero(t, fg)
}

// 自关注检查是裸比较：@a 和 a 不视为同一人（沿用来源语义）
func TestFollowSelfCheckIsRawEquality(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.rel.Follow(ctxT(t), "@cook_1", "cook_1"))
}

func TestFollowIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := ctxT(t)

	require.NoError(t, f.rel.Follow(ctx, "@cook_1", "@cook_2"))
	require.NoError(t, f.rel.Follow(ctx, "@cook_1", "@cook_2"))

	fc, _, err := f.rel.Counts(ctx, "@cook_2")
	require.NoError(t, err)
	assert.EqualValues(t, 1, fc)
}

func TestToggleFollow(t *testing.T) {
	f := newFixture(t)
	ctx := ctxT(t)

	on, err := f.rel.ToggleFollow(ctx, "@cook_1", "@cook_2")
	require.NoError(t, err)
	assert.True(t, on)

	off, err := f.rel.ToggleFollow(ctx, "@cook_1", "@cook_2")
	require.NoError(t, err)
	assert.False(t, off)
}

func TestCheckEdgeDetectsDanglingSide(t *testing.T) {
	f := newFixture(t)
	ctx := ctxT(t)

	// 正常成对的边没问题
	require.NoError(t, f.rel.Follow(ctx, "@a", "@b"))
	require.NoError(t, f.rel.CheckEdge(ctx, "@a", "@b"))
	require.NoError(t, f.rel.CheckEdge(ctx, "@x", "@y")) // 双边缺失也一致

	// 手工塞一条只有 follow 侧的悬空边
	now := time.Now()
	require.NoError(t, f.db.Create(&model.Follow{
		ID: uuid.New().String(), FollowerID: "@c", FolloweeID: "@d", CreatedAt: now, UpdatedAt: now,
	}).Error)

	err := f.rel.CheckEdge(ctx, "@c", "@d")
	assert.ErrorIs(t, err, ErrInconsistentEdge)
}

func TestRepairEdgeDeletesDanglingOnly(t *testing.T) {
	f := newFixture(t)
	ctx := ctxT(t)

	now := time.Now()
	// follow 侧悬空
	require.NoError(t, f.db.Create(&model.Follow{
		ID: uuid.New().String(), FollowerID: "@c", FolloweeID: "@d", CreatedAt: now, UpdatedAt: now,
	}).Error)
	require.NoError(t, f.rel.RepairEdge(ctx, "@c", "@d"))
	require.NoError(t, f.rel.CheckEdge(ctx, "@c", "@d"))
	following, err := f.rel.IsFollowing(ctx, "@c", "@d")
	require.NoError(t, err)
	assert.False(t, following, "repair must delete the dangling side, never rebuild the mirror")

	// fan 侧悬空
	require.NoError(t, f.db.Create(&model.Fan{
		ID: uuid.New().String(), UserID: "@f", FanID: "@e", CreatedAt: now, UpdatedAt: now,
	}).Error)
	require.NoError(t, f.rel.RepairEdge(ctx, "@e", "@f"))
	require.NoError(t, f.rel.CheckEdge(ctx, "@e", "@f"))

	// 一致的边不受影响
	require.NoError(t, f.rel.Follow(ctx, "@a", "@b"))
	require.NoError(t, f.rel.RepairEdge(ctx, "@a", "@b"))
	following, err = f.rel.IsFollowing(ctx, "@a", "@b")
	require.NoError(t, err)
	assert.True(t, following)
}
