package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ocipe/internal/auth"
)

// Reconcile turns a list of chosen recipe ids (repeats scale quantities)
// into what to buy versus what the fridge already covers.
func (h *Handler) Reconcile(c *gin.Context) {
	var body struct {
		RecipeIDs []int64 `json:"recipe_ids"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || len(body.RecipeIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "recipe_ids must be a non-empty list."})
		return
	}

	ctx, cancel := dbContext(c)
	defer cancel()

	result, err := h.Grocery.Reconcile(ctx, auth.UserID(c), body.RecipeIDs)
	if err != nil {
		c.String(http.StatusInternalServerError, fmt.Sprintf("database error: %s", err.Error()))
		return
	}
	c.JSON(http.StatusOK, result)
}

// History lists past reconciliations, newest first.
func (h *Handler) History(c *gin.Context) {
	ctx, cancel := dbContext(c)
	defer cancel()

	entries, err := h.Grocery.ListHistory(ctx, auth.UserID(c), 0)
	if err != nil {
		c.String(http.StatusInternalServerError, fmt.Sprintf("database error: %s", err.Error()))
		return
	}
	c.JSON(http.StatusOK, entries)
}

// RecentHistory returns at most the single most recent reconciliation.
func (h *Handler) RecentHistory(c *gin.Context) {
	ctx, cancel := dbContext(c)
	defer cancel()

	entries, err := h.Grocery.ListHistory(ctx, auth.UserID(c), 1)
	if err != nil {
		c.String(http.StatusInternalServerError, fmt.Sprintf("database error: %s", err.Error()))
		return
	}
	c.JSON(http.StatusOK, entries)
}

// ClearHistory deletes all history entries.
func (h *Handler) ClearHistory(c *gin.Context) {
	ctx, cancel := dbContext(c)
	defer cancel()

	if err := h.Grocery.DeleteHistory(ctx, auth.UserID(c)); err != nil {
		c.String(http.StatusInternalServerError, fmt.Sprintf("database error: %s", err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

// GroceryItems returns the manual checklist.
func (h *Handler) GroceryItems(c *gin.Context) {
	ctx, cancel := dbContext(c)
	defer cancel()

	items, err := h.Grocery.ListItems(ctx, auth.UserID(c))
	if err != nil {
		c.String(http.StatusInternalServerError, fmt.Sprintf("database error: %s", err.Error()))
		return
	}
	c.JSON(http.StatusOK, items)
}

// AddGroceryItems appends checklist lines from a newline-separated block.
func (h *Handler) AddGroceryItems(c *gin.Context) {
	var body struct {
		Items string `json:"items"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.Items) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No items provided"})
		return
	}

	var names []string
	for _, line := range strings.Split(body.Items, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			names = append(names, line)
		}
	}

	ctx, cancel := dbContext(c)
	defer cancel()

	if err := h.Grocery.AddItems(ctx, auth.UserID(c), names); err != nil {
		c.String(http.StatusInternalServerError, fmt.Sprintf("database error: %s", err.Error()))
		return
	}
	c.Status(http.StatusCreated)
}

// UpdateGroceryItem patches a checklist line's text and/or checked flag.
func (h *Handler) UpdateGroceryItem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		c.String(http.StatusNotFound, "Grocery item not found")
		return
	}

	var body struct {
		Item      *string `json:"item"`
		IsChecked *bool   `json:"isChecked"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || (body.Item == nil && body.IsChecked == nil) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
		return
	}

	ctx, cancel := dbContext(c)
	defer cancel()

	updated, err := h.Grocery.UpdateItem(ctx, auth.UserID(c), id, body.Item, body.IsChecked)
	if err != nil {
		c.String(http.StatusInternalServerError, fmt.Sprintf("database error: %s", err.Error()))
		return
	}
	if !updated {
		c.String(http.StatusNotFound, "Grocery item not found")
		return
	}
	c.Status(http.StatusOK)
}

// DeleteGroceryItem removes one checklist line.
func (h *Handler) DeleteGroceryItem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		c.String(http.StatusNotFound, "Grocery item not found")
		return
	}

	ctx, cancel := dbContext(c)
	defer cancel()

	deleted, err := h.Grocery.DeleteItem(ctx, auth.UserID(c), id)
	if err != nil {
		c.String(http.StatusInternalServerError, fmt.Sprintf("database error: %s", err.Error()))
		return
	}
	if !deleted {
		c.String(http.StatusNotFound, "Grocery item not found")
		return
	}
	c.Status(http.StatusNoContent)
}

// ClearGroceryList drops the whole checklist.
func (h *Handler) ClearGroceryList(c *gin.Context) {
	ctx, cancel := dbContext(c)
	defer cancel()

	if err := h.Grocery.Clear(ctx, auth.UserID(c)); err != nil {
		c.String(http.StatusInternalServerError, fmt.Sprintf("database error: %s", err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
