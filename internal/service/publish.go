package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/d60-Lab/recipe-graph/internal/model"
	"github.com/d60-Lab/recipe-graph/internal/repository"
)

// RecipeInput 创建/更新菜谱的入参
type RecipeInput struct {
	Title           string             `json:"title" binding:"required"`
	Ingredients     []model.Ingredient `json:"ingredients"`
	Steps           []model.Step       `json:"steps"`
	MainImageRef    string             `json:"main_image_ref"`
	Servings        int                `json:"servings"`
	CookingDuration int                `json:"cooking_duration"`
	MeaningText     string             `json:"meaning_text"`
}

// RecipeService 菜谱写路径。创建在一个事务内落地 recipes + outbox，
// 首页时间线由 FanoutWorker 异步扇出；聚合核心只读 Recipe。
type RecipeService struct {
	db      *gorm.DB
	recipes repository.RecipeRepository
	users   repository.UserRepository
	watcher *ProfileWatcher
}

func NewRecipeService(db *gorm.DB, recipes repository.RecipeRepository, users repository.UserRepository, watcher *ProfileWatcher) *RecipeService {
	return &RecipeService{db: db, recipes: recipes, users: users, watcher: watcher}
}

// Publish 在一个事务内落地 Recipe 与 Outbox 事件，返回新菜谱 id。
// 新数据统一写 user_id 列，遗留列只在读侧兼容。
func (s *RecipeService) Publish(ctx context.Context, authorID string, in RecipeInput) (string, error) {
	recipeID := uuid.New().String()
	now := time.Now()

	authorName := ""
	if u, err := s.users.GetByID(ctx, authorID); err == nil {
		authorName = u.DisplayName
	}

	ingredients, err := json.Marshal(in.Ingredients)
	if err != nil {
		return "", err
	}
	steps, err := json.Marshal(in.Steps)
	if err != nil {
		return "", err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recipe := &model.Recipe{
			ID:              recipeID,
			UserID:          authorID,
			AuthorName:      authorName,
			Title:           in.Title,
			Ingredients:     datatypes.JSON(ingredients),
			Steps:           datatypes.JSON(steps),
			MainImageRef:    in.MainImageRef,
			Servings:        in.Servings,
			CookingDuration: in.CookingDuration,
			MeaningText:     in.MeaningText,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := tx.Create(recipe).Error; err != nil {
			return err
		}
		out := &model.Outbox{ID: uuid.New().String(), RecipeID: recipeID, AuthorID: authorID, CreatedAt: now, Status: "pending"}
		return tx.Create(out).Error
	})
	if err != nil {
		return "", storeErr("publish", authorID, err)
	}
	s.watcher.PublishUpdate(ctx, authorID)
	return recipeID, nil
}

// Get 取单个菜谱
func (s *RecipeService) Get(ctx context.Context, id string) (*model.Recipe, error) {
	recipe, err := s.recipes.GetByID(ctx, id)
	if err == repository.ErrRecipeNotFound {
		return nil, fmt.Errorf("%w: recipe %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, storeErr("getRecipe", id, err)
	}
	return recipe, nil
}

// Update 仅限作者本人
func (s *RecipeService) Update(ctx context.Context, callerID, recipeID string, in RecipeInput) error {
	recipe, err := s.Get(ctx, recipeID)
	if err != nil {
		return err
	}
	if recipe.OwnerID() != callerID {
		return fmt.Errorf("%w: not the owner of %s", ErrForbidden, recipeID)
	}
	ingredients, err := json.Marshal(in.Ingredients)
	if err != nil {
		return err
	}
	steps, err := json.Marshal(in.Steps)
	if err != nil {
		return err
	}
	recipe.Title = in.Title
	recipe.Ingredients = datatypes.JSON(ingredients)
	recipe.Steps = datatypes.JSON(steps)
	recipe.MainImageRef = in.MainImageRef
	recipe.Servings = in.Servings
	recipe.CookingDuration = in.CookingDuration
	recipe.MeaningText = in.MeaningText
	if err := s.recipes.Update(ctx, recipe); err != nil {
		return storeErr("updateRecipe", recipeID, err)
	}
	s.watcher.PublishUpdate(ctx, callerID)
	return nil
}

// Delete 仅限作者本人
func (s *RecipeService) Delete(ctx context.Context, callerID, recipeID string) error {
	recipe, err := s.Get(ctx, recipeID)
	if err != nil {
		return err
	}
	if recipe.OwnerID() != callerID {
		return fmt.Errorf("%w: not the owner of %s", ErrForbidden, recipeID)
	}
	if err := s.recipes.Delete(ctx, recipeID); err != nil {
		return storeErr("deleteRecipe", recipeID, err)
	}
	s.watcher.PublishUpdate(ctx, callerID)
	return nil
}
