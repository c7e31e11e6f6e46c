package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/d60-Lab/recipe-graph/internal/model"
	"github.com/d60-Lab/recipe-graph/internal/repository"
	"github.com/d60-Lab/recipe-graph/pkg/database"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	// :memory: 下多个连接各是一个库，收紧到单连接
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	return db
}

type fixture struct {
	db       *gorm.DB
	users    repository.UserRepository
	recipes  repository.RecipeRepository
	follows  repository.FollowRepository
	fans     repository.FanRepository
	activity repository.ActivityRepository
	favs     repository.FavoriteRepository
	inbox    repository.InboxRepository

	resolver    *Resolver
	rel         RelationshipService
	activitySvc *ActivityService
	counts      *CountService
	recipeSvc   *RecipeService
	profile     *ProfileService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := setupDB(t)
	f := &fixture{
		db:       db,
		users:    repository.NewUserRepository(db),
		recipes:  repository.NewRecipeRepository(db),
		follows:  repository.NewFollowRepository(db),
		fans:     repository.NewFanRepository(db),
		activity: repository.NewActivityRepository(db),
		favs:     repository.NewFavoriteRepository(db),
		inbox:    repository.NewInboxRepository(db),
	}
	f.rel = NewRelationshipService(db, f.follows, f.fans, nil, nil)
	f.resolver = NewResolver(f.recipes, f.users, time.Second, 100)
	f.activitySvc = NewActivityService(f.activity, f.recipes, f.users, f.favs, 200)
	f.counts = NewCountService(f.resolver, f.rel)
	f.recipeSvc = NewRecipeService(db, f.recipes, f.users, nil)
	f.profile = NewProfileService(f.resolver, f.rel, f.activitySvc, f.counts, f.users, f.favs, f.inbox, f.recipes, nil)
	return f
}

func (f *fixture) seedUser(t *testing.T, id, displayName string) {
	t.Helper()
	bare := id
	if len(bare) > 0 && bare[0] == '@' {
		bare = bare[1:]
	}
	require.NoError(t, f.db.Create(&model.User{
		ID:          id,
		Username:    bare,
		DisplayName: displayName,
		Email:       bare + "@example.com",
		Password:    "p",
	}).Error)
}

type recipeOpt func(*model.Recipe)

func withOwnerField(field, value string) recipeOpt {
	return func(r *model.Recipe) {
		switch field {
		case "user_id":
			r.UserID = value
		case "creator_id":
			r.CreatorID = value
		case "creator":
			r.Creator = value
		case "user":
			r.User = value
		}
	}
}

func withAuthorName(name string) recipeOpt {
	return func(r *model.Recipe) { r.AuthorName = name }
}

func withTimes(created, updated time.Time) recipeOpt {
	return func(r *model.Recipe) {
		r.CreatedAt = created
		r.UpdatedAt = updated
	}
}

func (f *fixture) seedRecipe(t *testing.T, id, title string, opts ...recipeOpt) {
	t.Helper()
	ing, err := json.Marshal([]model.Ingredient{{Name: "salt", Quantity: "1 tsp"}})
	require.NoError(t, err)
	r := &model.Recipe{
		ID:          id,
		Title:       title,
		Ingredients: datatypes.JSON(ing),
		CreatedAt:   time.Now(),
	}
	for _, opt := range opts {
		opt(r)
	}
	require.NoError(t, f.db.Create(r).Error)
}

func ctxT(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}
