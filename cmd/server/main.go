package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/recipe-graph/config"
	_ "github.com/d60-Lab/recipe-graph/docs"
	"github.com/d60-Lab/recipe-graph/internal/api/handler"
	"github.com/d60-Lab/recipe-graph/internal/api/router"
	"github.com/d60-Lab/recipe-graph/internal/cache"
	"github.com/d60-Lab/recipe-graph/internal/repository"
	"github.com/d60-Lab/recipe-graph/internal/service"
	"github.com/d60-Lab/recipe-graph/pkg/database"
	"github.com/d60-Lab/recipe-graph/pkg/logger"
	"github.com/d60-Lab/recipe-graph/pkg/tracing"
)

// @title recipe-graph API
// @version 1.0
// @description 菜谱社交聚合服务：关系链、个人页聚合、最近浏览、首页时间线
// @BasePath /api/v1
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := logger.Init(cfg.Log.Level); err != nil {
		panic(err)
	}
	defer logger.Sync()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN}); err != nil {
			logger.Warn("sentry init failed", zap.Error(err))
		}
		defer sentry.Flush(2 * time.Second)
	}

	ctx := context.Background()
	shutdownTracing, err := tracing.Init(ctx, "recipe-graph", cfg.Trace.Endpoint)
	if err != nil {
		logger.Warn("tracing init failed", zap.Error(err))
	} else {
		defer func() { _ = shutdownTracing(ctx) }()
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Error("database init failed", zap.Error(err))
		os.Exit(1)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// repositories
	userRepo := repository.NewUserRepository(db)
	recipeRepo := repository.NewRecipeRepository(db)
	followRepo := repository.NewFollowRepository(db)
	fanRepo := repository.NewFanRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)
	inboxRepo := repository.NewInboxRepository(db)

	// services
	watcher := service.NewProfileWatcher(rdb)
	repairer := service.NewEdgeRepairer(1024)
	relSvc := service.NewRelationshipService(db, followRepo, fanRepo, repairer, watcher)
	repairer.Bind(relSvc)
	stopRepairer := repairer.Start(2)

	resolver := service.NewResolver(recipeRepo, userRepo, cfg.Resolver.QueryTimeout, cfg.Resolver.ScanLimit)
	activitySvc := service.NewActivityService(activityRepo, recipeRepo, userRepo, favoriteRepo, cfg.Activity.RetentionCap)
	countSvc := service.NewCountService(resolver, relSvc)
	recipeSvc := service.NewRecipeService(db, recipeRepo, userRepo, watcher)
	profileSvc := service.NewProfileService(resolver, relSvc, activitySvc, countSvc, userRepo, favoriteRepo, inboxRepo, recipeRepo, watcher)
	authSvc := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expire)
	followerCache := cache.NewFollowerCache(db, rdb, 5*time.Minute)

	fanout := service.NewFanoutWorker(db, fanRepo, 2, 500, 64, 200*time.Millisecond)
	stopFanout := fanout.Start()

	h := handler.New(relSvc, profileSvc, recipeSvc, countSvc, authSvc, followerCache)
	r := router.Setup(cfg, h, authSvc)

	srv := &http.Server{Addr: ":" + cfg.Server.Port, Handler: r}
	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	_ = stopFanout(shutdownCtx)
	_ = stopRepairer(shutdownCtx)
	_ = rdb.Close()
}
