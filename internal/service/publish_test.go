package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/recipe-graph/internal/model"
)

func TestPublishWritesRecipeAndOutbox(t *testing.T) {
	f := newFixture(t)
	ctx := ctxT(t)

	f.seedUser(t, "@cook_1", "Chị Hoa")
	id, err := f.recipeSvc.Publish(ctx, "@cook_1", RecipeInput{
		Title:       "Phở bò",
		Ingredients: []model.Ingredient{{Name: "bánh phở", Quantity: "200g"}},
		Steps:       []model.Step{{Text: "Ninh xương"}},
		Servings:    2,
	})
	require.NoError(t, err)

	recipe, err := f.recipeSvc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "@cook_1", recipe.OwnerID())
	assert.Equal(t, "Chị Hoa", recipe.AuthorName)
	assert.Equal(t, 2, recipe.Servings)

	var out model.Outbox
	require.NoError(t, f.db.Where("recipe_id = ?", id).First(&out).Error)
	assert.Equal(t, "pending", out.Status)
	assert.Equal(t, "@cook_1", out.AuthorID)
}

func TestGetRecipeNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.recipeSvc.Get(ctxT(t), uuid.New().String())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateRecipeOwnerOnly(t *testing.T) {
	f := newFixture(t)
	ctx := ctxT(t)

	f.seedUser(t, "@cook_1", "Chị Hoa")
	id, err := f.recipeSvc.Publish(ctx, "@cook_1", RecipeInput{Title: "Phở bò"})
	require.NoError(t, err)

	err = f.recipeSvc.Update(ctx, "@cook_2", id, RecipeInput{Title: "Hijacked"})
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, f.recipeSvc.Update(ctx, "@cook_1", id, RecipeInput{Title: "Phở bò tái"}))
	recipe, err := f.recipeSvc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Phở bò tái", recipe.Title)
	assert.False(t, recipe.UpdatedAt.IsZero())
}

func TestDeleteRecipeOwnerOnly(t *testing.T) {
	f := newFixture(t)
	ctx := ctxT(t)

	f.seedUser(t, "@cook_1", "Chị Hoa")
	id, err := f.recipeSvc.Publish(ctx, "@cook_1", RecipeInput{Title: "Phở bò"})
	require.NoError(t, err)

	assert.ErrorIs(t, f.recipeSvc.Delete(ctx, "@cook_2", id), ErrForbidden)
	require.NoError(t, f.recipeSvc.Delete(ctx, "@cook_1", id))

	_, err = f.recipeSvc.Get(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

// 遗留列里的 owner 也能通过本人校验
func TestUpdateRecipeLegacyOwnerColumn(t *testing.T) {
	f := newFixture(t)
	ctx := ctxT(t)

	f.seedRecipe(t, "r1", "Cơm tấm", withOwnerField("creator", "@cook_1"))
	require.NoError(t, f.recipeSvc.Update(ctx, "@cook_1", "r1", RecipeInput{Title: "Cơm tấm sườn"}))
}

func TestEdgeRepairerDrainsQueue(t *testing.T) {
	f := newFixture(t)
	ctx := ctxT(t)

	now := time.Now()
	require.NoError(t, f.db.Create(&model.Follow{
		ID: uuid.New().String(), FollowerID: "@c", FolloweeID: "@d", CreatedAt: now, UpdatedAt: now,
	}).Error)

	rep := NewEdgeRepairer(8)
	rep.Bind(f.rel)
	stop := rep.Start(1)
	rep.Enqueue("@c", "@d")

	require.Eventually(t, func() bool {
		return f.rel.CheckEdge(ctx, "@c", "@d") == nil
	}, 3*time.Second, 20*time.Millisecond)
	require.NoError(t, stop(ctx))
}
