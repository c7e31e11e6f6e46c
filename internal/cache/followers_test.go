package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/d60-Lab/recipe-graph/internal/model"
)

func setup(t *testing.T) (*gorm.DB, *miniredis.Miniredis, *FollowerCache) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Fan{}))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return db, mr, NewFollowerCache(db, rdb, time.Minute)
}

func seedFans(t *testing.T, db *gorm.DB, userID string, n int) []string {
	t.Helper()
	ids := make([]string, 0, n)
	base := time.Now().Add(-time.Duration(n) * time.Second)
	for i := 0; i < n; i++ {
		fanID := fmt.Sprintf("@fan_%03d", i)
		ids = append(ids, fanID)
		require.NoError(t, db.Create(&model.User{
			ID:          fanID,
			Username:    fmt.Sprintf("fan_%03d", i),
			DisplayName: fmt.Sprintf("Fan %03d", i),
			Email:       fmt.Sprintf("fan%03d@example.com", i),
			Password:    "p",
		}).Error)
		// created_at 递增，最新的粉丝排最前
		at := base.Add(time.Duration(i) * time.Second)
		require.NoError(t, db.Create(&model.Fan{
			ID: uuid.New().String(), UserID: userID, FanID: fanID, CreatedAt: at, UpdatedAt: at,
		}).Error)
	}
	return ids
}

func TestFetchColdCacheLoadsFromDB(t *testing.T) {
	db, mr, fc := setup(t)
	ctx := context.Background()

	seedFans(t, db, "@cook_1", 5)

	page, err := fc.Fetch(ctx, "@cook_1", 1, 3)
	require.NoError(t, err)
	require.Len(t, page, 3)
	// 最新的粉丝在前
	assert.Equal(t, "@fan_004", page[0].ID)
	assert.Equal(t, "@fan_003", page[1].ID)
	assert.Equal(t, "@fan_002", page[2].ID)
	assert.Equal(t, "Fan 004", page[0].DisplayName)

	// 回填后 redis 里有 id 索引
	assert.True(t, mr.Exists("followers:index:@cook_1"))
}

func TestFetchWarmCacheSkipsDB(t *testing.T) {
	db, _, fc := setup(t)
	ctx := context.Background()

	seedFans(t, db, "@cook_1", 4)
	_, err := fc.Fetch(ctx, "@cook_1", 1, 10)
	require.NoError(t, err)

	// 底层多出一个粉丝，但索引没失效前读的还是缓存页
	at := time.Now().Add(time.Hour)
	require.NoError(t, db.Create(&model.Fan{
		ID: uuid.New().String(), UserID: "@cook_1", FanID: "@fan_004", CreatedAt: at, UpdatedAt: at,
	}).Error)

	page, err := fc.Fetch(ctx, "@cook_1", 1, 10)
	require.NoError(t, err)
	assert.Len(t, page, 4)
}

func TestInvalidateDropsIndex(t *testing.T) {
	db, mr, fc := setup(t)
	ctx := context.Background()

	seedFans(t, db, "@cook_1", 2)
	_, err := fc.Fetch(ctx, "@cook_1", 1, 10)
	require.NoError(t, err)
	require.True(t, mr.Exists("followers:index:@cook_1"))

	fc.Invalidate(ctx, "@cook_1")
	assert.False(t, mr.Exists("followers:index:@cook_1"))

	// 失效后重新读库，新粉丝可见
	at := time.Now().Add(time.Hour)
	require.NoError(t, db.Create(&model.User{ID: "@fan_new", Username: "fan_new", Email: "new@example.com", Password: "p"}).Error)
	require.NoError(t, db.Create(&model.Fan{
		ID: uuid.New().String(), UserID: "@cook_1", FanID: "@fan_new", CreatedAt: at, UpdatedAt: at,
	}).Error)
	page, err := fc.Fetch(ctx, "@cook_1", 1, 10)
	require.NoError(t, err)
	require.Len(t, page, 3)
	assert.Equal(t, "@fan_new", page[0].ID)
}

func TestFetchPaging(t *testing.T) {
	db, _, fc := setup(t)
	ctx := context.Background()

	seedFans(t, db, "@cook_1", 7)

	p1, err := fc.Fetch(ctx, "@cook_1", 1, 3)
	require.NoError(t, err)
	p2, err := fc.Fetch(ctx, "@cook_1", 2, 3)
	require.NoError(t, err)
	p3, err := fc.Fetch(ctx, "@cook_1", 3, 3)
	require.NoError(t, err)
	p4, err := fc.Fetch(ctx, "@cook_1", 4, 3)
	require.NoError(t, err)

	assert.Len(t, p1, 3)
	assert.Len(t, p2, 3)
	assert.Len(t, p3, 1)
	assert.Empty(t, p4)

	seen := map[string]bool{}
	for _, p := range append(append(append(p1, p2...), p3...), p4...) {
		assert.False(t, seen[p.ID], "duplicate %s across pages", p.ID)
		seen[p.ID] = true
	}
	assert.Len(t, seen, 7)
}

func TestFetchNoFollowers(t *testing.T) {
	_, _, fc := setup(t)

	page, err := fc.Fetch(context.Background(), "@nobody", 1, 10)
	require.NoError(t, err)
	assert.Empty(t, page)
}
