package api

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ocipe/internal/auth"
	"ocipe/internal/logger"
	"ocipe/internal/recipe"
)

// ListRecipes returns the user's recipes newest first. With an
// `ingredients` query parameter the list is instead ranked by ingredient
// match and each entry carries an accuracy score; that field exists only in
// this mode.
func (h *Handler) ListRecipes(c *gin.Context) {
	ctx, cancel := dbContext(c)
	defer cancel()

	recipes, err := h.Recipes.List(ctx, auth.UserID(c))
	if err != nil {
		c.String(http.StatusInternalServerError, fmt.Sprintf("database error: %s", err.Error()))
		return
	}

	if raw := c.Query("ingredients"); raw != "" {
		names := recipe.ParseIngredientQuery(raw)
		c.JSON(http.StatusOK, recipe.Rank(recipes, names))
		return
	}

	c.JSON(http.StatusOK, recipes)
}

// CreateRecipe stores a new recipe, lazily creating catalog ingredients.
func (h *Handler) CreateRecipe(c *gin.Context) {
	var in recipe.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if in.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	ctx, cancel := dbContext(c)
	defer cancel()

	r, err := h.Recipes.Create(ctx, auth.UserID(c), in)
	if err != nil {
		c.String(http.StatusInternalServerError, fmt.Sprintf("database error: %s", err.Error()))
		return
	}
	c.JSON(http.StatusCreated, r)
}

// BulkCreateRecipes stores several recipes in one request.
func (h *Handler) BulkCreateRecipes(c *gin.Context) {
	var body struct {
		List []recipe.Input `json:"list"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || len(body.List) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing list in request body"})
		return
	}

	ctx, cancel := dbContext(c)
	defer cancel()

	recipes, err := h.Recipes.CreateBulk(ctx, auth.UserID(c), body.List)
	if err != nil {
		c.String(http.StatusInternalServerError, fmt.Sprintf("database error: %s", err.Error()))
		return
	}
	c.JSON(http.StatusCreated, recipes)
}

// GetRecipe returns one recipe. A foreign or unknown id does not resolve.
func (h *Handler) GetRecipe(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		c.String(http.StatusNotFound, "Recipe not found")
		return
	}

	ctx, cancel := dbContext(c)
	defer cancel()

	r, err := h.Recipes.Get(ctx, auth.UserID(c), id)
	if err != nil {
		c.String(http.StatusInternalServerError, fmt.Sprintf("database error: %s", err.Error()))
		return
	}
	if r == nil {
		c.String(http.StatusNotFound, "Recipe not found")
		return
	}
	c.JSON(http.StatusOK, r)
}

// UpdateRecipe replaces one recipe and its ingredient lines.
func (h *Handler) UpdateRecipe(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		c.String(http.StatusNotFound, "Recipe not found")
		return
	}

	var in recipe.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := dbContext(c)
	defer cancel()

	r, err := h.Recipes.Update(ctx, auth.UserID(c), id, in)
	if err != nil {
		c.String(http.StatusInternalServerError, fmt.Sprintf("database error: %s", err.Error()))
		return
	}
	if r == nil {
		c.String(http.StatusNotFound, "Recipe not found")
		return
	}
	c.JSON(http.StatusOK, r)
}

// DeleteRecipe removes one recipe.
func (h *Handler) DeleteRecipe(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		c.String(http.StatusNotFound, "Recipe not found")
		return
	}

	ctx, cancel := dbContext(c)
	defer cancel()

	deleted, err := h.Recipes.Delete(ctx, auth.UserID(c), id)
	if err != nil {
		c.String(http.StatusInternalServerError, fmt.Sprintf("database error: %s", err.Error()))
		return
	}
	if !deleted {
		c.String(http.StatusNotFound, "Recipe not found")
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteAllRecipes removes every recipe of the user.
func (h *Handler) DeleteAllRecipes(c *gin.Context) {
	ctx, cancel := dbContext(c)
	defer cancel()

	if err := h.Recipes.DeleteAll(ctx, auth.UserID(c)); err != nil {
		c.String(http.StatusInternalServerError, fmt.Sprintf("database error: %s", err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

// RandomRecipe picks one of the user's active recipes at random.
func (h *Handler) RandomRecipe(c *gin.Context) {
	ctx, cancel := dbContext(c)
	defer cancel()

	recipes, err := h.Recipes.List(ctx, auth.UserID(c))
	if err != nil {
		c.String(http.StatusInternalServerError, fmt.Sprintf("database error: %s", err.Error()))
		return
	}

	active := make([]recipe.Recipe, 0, len(recipes))
	for _, r := range recipes {
		if r.State == recipe.StateActive {
			active = append(active, r)
		}
	}
	if len(active) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"detail": "No active recipes found."})
		return
	}
	c.JSON(http.StatusOK, active[rand.Intn(len(active))])
}

// RecipeStats returns per-meat-type and per-frequency recipe counts.
func (h *Handler) RecipeStats(c *gin.Context) {
	ctx, cancel := dbContext(c)
	defer cancel()

	meat, freq, err := h.Recipes.Stats(ctx, auth.UserID(c))
	if err != nil {
		c.String(http.StatusInternalServerError, fmt.Sprintf("database error: %s", err.Error()))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"meat_type_stats": meat,
		"frequency_stats": freq,
	})
}

// ExtractRecipe asks the generative collaborator for the recipe behind a
// URL. Failures surface as a client error with a generic message.
func (h *Handler) ExtractRecipe(c *gin.Context) {
	var body struct {
		URL string `json:"url"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.URL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing url in request body"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), extractTimeout)
	defer cancel()

	in, err := h.Extractor.ExtractRecipeFromURL(ctx, body.URL)
	if err != nil {
		logger.Warn("recipe extraction failed", zap.String("url", body.URL), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not extract a recipe from that URL"})
		return
	}
	c.JSON(http.StatusOK, in)
}

// RefreshRecipes resets all of the user's recipes back to active.
func (h *Handler) RefreshRecipes(c *gin.Context) {
	ctx, cancel := dbContext(c)
	defer cancel()

	updated, err := h.Recipes.RefreshAll(ctx, auth.UserID(c))
	if err != nil {
		c.String(http.StatusInternalServerError, fmt.Sprintf("database error: %s", err.Error()))
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated_count": updated})
}
