package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/d60-Lab/recipe-graph/config"
	"github.com/d60-Lab/recipe-graph/internal/model"
	"github.com/d60-Lab/recipe-graph/internal/repository"
	"github.com/d60-Lab/recipe-graph/internal/service"
	"github.com/d60-Lab/recipe-graph/pkg/database"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// 读路径基准：作者 id 打散在四个遗留列上，测 resolver 叉积扇出 + 最近浏览 feed
func main() {
	cfg := must(config.Load())
	db := must(database.InitDB(cfg))

	userRepo := repository.NewUserRepository(db)
	recipeRepo := repository.NewRecipeRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	favRepo := repository.NewFavoriteRepository(db)
	resolver := service.NewResolver(recipeRepo, userRepo, cfg.Resolver.QueryTimeout, cfg.Resolver.ScanLimit)
	activity := service.NewActivityService(activityRepo, recipeRepo, userRepo, favRepo, cfg.Activity.RetentionCap)

	ctx := context.Background()
	const authors = 100
	const perAuthor = 50

	ids := make([]string, 0, authors)
	ing := must(json.Marshal([]model.Ingredient{{Name: "salt"}}))
	for a := 0; a < authors; a++ {
		uid := fmt.Sprintf("@author_%03d", a)
		ids = append(ids, uid)
		_ = db.Where("id = ?", uid).FirstOrCreate(&model.User{ID: uid, Username: fmt.Sprintf("author_%03d", a), DisplayName: fmt.Sprintf("Author %03d", a), Email: fmt.Sprintf("a%03d@example.com", a), Password: "p"}).Error
		for r := 0; r < perAuthor; r++ {
			recipe := model.Recipe{
				ID:          uuid.New().String(),
				Title:       fmt.Sprintf("dish %d-%d", a, r),
				Ingredients: datatypes.JSON(ing),
				CreatedAt:   time.Now(),
			}
			// 模拟历史数据：作者 id 随机落在四个遗留列之一，格式随机漂移
			owner := uid
			if r%2 == 0 {
				owner = owner[1:] // 去掉 @
			}
			switch r % 4 {
			case 0:
				recipe.UserID = owner
			case 1:
				recipe.CreatorID = owner
			case 2:
				recipe.Creator = owner
			case 3:
				recipe.User = owner
			}
			_ = db.Create(&recipe).Error
		}
	}

	// resolver 扇出
	recs := make([]time.Duration, 0, 1000)
	t0 := time.Now()
	for i := 0; i < 1000; i++ {
		uid := ids[rand.Intn(len(ids))]
		st := time.Now()
		res := must(resolver.FindByOwner(ctx, uid))
		recs = append(recs, time.Since(st))
		if len(res.Recipes) != perAuthor {
			fmt.Printf("WARN %s resolved %d/%d\n", uid, len(res.Recipes), perAuthor)
		}
	}
	report("resolver.FindByOwner", recs, time.Since(t0))

	// 最近浏览 feed
	viewer := ids[0]
	var all []model.Recipe
	_ = db.Limit(200).Find(&all).Error
	for _, r := range all {
		_ = activity.RecordView(ctx, viewer, r.ID)
	}
	recs = recs[:0]
	t0 = time.Now()
	for i := 0; i < 1000; i++ {
		st := time.Now()
		_ = must(activity.Feed(ctx, viewer))
		recs = append(recs, time.Since(st))
	}
	report("activity.Feed", recs, time.Since(t0))
}

func report(name string, recs []time.Duration, elapsed time.Duration) {
	sort.Slice(recs, func(i, j int) bool { return recs[i] < recs[j] })
	p := func(q float64) time.Duration {
		if len(recs) == 0 {
			return 0
		}
		return recs[int(float64(len(recs)-1)*q)]
	}
	fmt.Printf("%s x%d total=%v qps=%.0f p50=%v p95=%v p99=%v\n",
		name, len(recs), elapsed, float64(len(recs))/elapsed.Seconds(), p(0.50), p(0.95), p(0.99))
}
