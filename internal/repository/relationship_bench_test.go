package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/d60-Lab/recipe-graph/internal/model"
)

func setupRelBenchDB(b *testing.B) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		b.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&model.User{}, &model.Follow{}, &model.Fan{}); err != nil {
		b.Fatalf("migrate: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		b.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	return db
}

// 构造：u0 有 N 个粉丝，同时 u0 也关注 N 个用户（镜像双写）
func seedRelGraph(b *testing.B, db *gorm.DB, n int) {
	now := time.Now()
	follows := make([]model.Follow, 0, 2*n)
	fans := make([]model.Fan, 0, 2*n)
	for i := 1; i <= n; i++ {
		uid := fmt.Sprintf("@u%05d", i)
		follows = append(follows,
			model.Follow{ID: uuid.New().String(), FollowerID: uid, FolloweeID: "@u0", CreatedAt: now, UpdatedAt: now},
			model.Follow{ID: uuid.New().String(), FollowerID: "@u0", FolloweeID: uid, CreatedAt: now, UpdatedAt: now},
		)
		fans = append(fans,
			model.Fan{ID: uuid.New().String(), UserID: "@u0", FanID: uid, CreatedAt: now, UpdatedAt: now},
			model.Fan{ID: uuid.New().String(), UserID: uid, FanID: "@u0", CreatedAt: now, UpdatedAt: now},
		)
	}
	if err := db.CreateInBatches(&follows, 500).Error; err != nil {
		b.Fatalf("seed follows: %v", err)
	}
	if err := db.CreateInBatches(&fans, 500).Error; err != nil {
		b.Fatalf("seed fans: %v", err)
	}
}

func BenchmarkRelationshipReads(b *testing.B) {
	db := setupRelBenchDB(b)
	followRepo := NewFollowRepository(db)
	fanRepo := NewFanRepository(db)
	ctx := context.Background()

	const N = 5000
	seedRelGraph(b, db, N)

	b.ResetTimer()
	b.Run("ListFans", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = fanRepo.ListFans(ctx, "@u0", 0, 50)
		}
	})
	b.Run("ListFollowings", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = followRepo.ListFollowings(ctx, "@u0", 0, 50)
		}
	})
	b.Run("CountFans", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = fanRepo.CountFans(ctx, "@u0")
		}
	})
	b.Run("Exists", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = followRepo.Exists(ctx, "@u00001", "@u0")
		}
	})
}
