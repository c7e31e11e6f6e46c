package router

import (
	"strings"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/time/rate"

	"github.com/d60-Lab/recipe-graph/config"
	"github.com/d60-Lab/recipe-graph/internal/api/handler"
	"github.com/d60-Lab/recipe-graph/internal/service"
	"github.com/d60-Lab/recipe-graph/pkg/middleware"
)

// Setup 组装路由与中间件
func Setup(cfg *config.Config, h *handler.Handler, auth *service.AuthService) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	registerValidators()
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(otelgin.Middleware("recipe-graph"))
	if cfg.Sentry.DSN != "" {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	r.Use(middleware.RateLimit(rate.Limit(100), 200))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })

	v1 := r.Group("/api/v1")
	{
		v1.POST("/auth/register", h.Register)
		v1.POST("/auth/login", h.Login)

		v1.GET("/users/:user_id/profile", h.GetProfileBundle)
		v1.GET("/users/:user_id/counts", h.GetCounts)
		v1.GET("/users/:user_id/recipes", h.SearchOwnedContent)
		v1.GET("/users/:user_id/recent", h.GetRecentFeed)
		v1.GET("/users/:user_id/home", h.HomeFeed)
		v1.GET("/users/:user_id/watch", h.WatchProfile)

		v1.GET("/relations/:user_id/followers", h.ListFollowers)
		v1.GET("/relations/:user_id/following", h.ListFollowing)

		v1.GET("/recipes/:id", h.GetRecipe)

		authed := v1.Group("", middleware.JWTAuth(auth))
		{
			authed.POST("/relations/follow", h.Follow)
			authed.POST("/relations/unfollow", h.Unfollow)
			authed.POST("/relations/toggle", h.ToggleFollow)
			authed.POST("/relations/repair", h.RepairEdge)
			authed.POST("/activity/view", h.RecordView)
			authed.POST("/favorites/toggle", h.ToggleFavorite)
			authed.POST("/recipes", h.CreateRecipe)
			authed.PUT("/recipes/:id", h.UpdateRecipe)
			authed.DELETE("/recipes/:id", h.DeleteRecipe)
		}
	}
	return r
}

// registerValidators 注册 userid 校验：非空且不含空白字符（@ 前缀合法）
func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("userid", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return s != "" && !strings.ContainsAny(s, " \t\n")
		})
	}
}
