package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

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

func envInt(name string, def int) int {
	if s := os.Getenv(name); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}

// 关系链写入基准：N 个用户关注同一个“名厨”账号，测事务成对写的吞吐与延迟分布
func main() {
	cfg := must(config.Load())
	db := must(database.InitDB(cfg))

	followRepo := repository.NewFollowRepository(db)
	fanRepo := repository.NewFanRepository(db)
	relSvc := service.NewRelationshipService(db, followRepo, fanRepo, nil, nil)

	ctx := context.Background()
	N := envInt("N", 10000)
	CONC := envInt("CONC", 8)

	// seed: u0 是名厨，其他人都关注 u0
	celeb := model.User{ID: "@chef_0", Username: "chef_0", DisplayName: "chef 0", Email: "chef0@example.com", Password: "p"}
	_ = db.Where("id = ?", celeb.ID).FirstOrCreate(&celeb).Error
	users := make([]model.User, N)
	batch := 1000
	for i := 0; i < N; i++ {
		id := uuid.New().String()
		users[i] = model.User{ID: "@" + id[:8], Username: "u" + id[:8], Email: id[:8] + "@example.com", Password: "p"}
		if (i+1)%batch == 0 {
			sub := users[i+1-batch : i+1]
			_ = db.Create(&sub).Error
		}
	}
	if N%batch != 0 {
		sub := users[N-N%batch:]
		_ = db.Create(&sub).Error
	}

	recs := make([]time.Duration, 0, N)
	recCh := make(chan time.Duration, N)
	feed := make(chan int, N)
	for i := 0; i < N; i++ {
		feed <- i
	}
	close(feed)

	workers := CONC
	if workers > N {
		workers = N
	}
	t0 := time.Now()
	done := make(chan struct{}, workers)
	for w := 0; w < workers; w++ {
		go func() {
			for i := range feed {
				st := time.Now()
				_ = relSvc.Follow(ctx, users[i].ID, celeb.ID)
				recCh <- time.Since(st)
			}
			done <- struct{}{}
		}()
	}
	for w := 0; w < workers; w++ {
		<-done
	}
	elapsed := time.Since(t0)
	close(recCh)
	for d := range recCh {
		recs = append(recs, d)
	}

	sort.Slice(recs, func(i, j int) bool { return recs[i] < recs[j] })
	p := func(q float64) time.Duration {
		if len(recs) == 0 {
			return 0
		}
		idx := int(float64(len(recs)-1) * q)
		return recs[idx]
	}
	fmt.Printf("follow x%d conc=%d total=%v qps=%.0f\n", N, CONC, elapsed, float64(N)/elapsed.Seconds())
	fmt.Printf("latency p50=%v p95=%v p99=%v max=%v\n", p(0.50), p(0.95), p(0.99), p(1.0))

	followers, following, _ := relSvc.Counts(ctx, celeb.ID)
	fmt.Printf("celeb counts: followers=%d following=%d\n", followers, following)
}
