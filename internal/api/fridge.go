package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"ocipe/internal/auth"
	"ocipe/internal/fridge"
)

type fridgeIngredientInput struct {
	Name  string `json:"name"`
	Group string `json:"group"`
}

// GetFridge returns the fridge contents grouped by label, groups in
// descending lexicographic order and items in insertion order.
func (h *Handler) GetFridge(c *gin.Context) {
	ctx, cancel := dbContext(c)
	defer cancel()

	rows, err := h.Fridge.List(ctx, auth.UserID(c))
	if err != nil {
		c.String(http.StatusInternalServerError, fmt.Sprintf("database error: %s", err.Error()))
		return
	}
	c.JSON(http.StatusOK, gin.H{"ingredient_list": fridge.GroupRows(rows)})
}

// AddFridgeIngredient stocks one ingredient under a group label. The name is
// write-only; the response carries the entry id and group.
func (h *Handler) AddFridgeIngredient(c *gin.Context) {
	var in fridgeIngredientInput
	if err := c.ShouldBindJSON(&in); err != nil || in.Name == "" || in.Group == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and group are required"})
		return
	}

	ctx, cancel := dbContext(c)
	defer cancel()

	id, err := h.Fridge.Add(ctx, auth.UserID(c), in.Name, in.Group)
	if err != nil {
		c.String(http.StatusInternalServerError, fmt.Sprintf("database error: %s", err.Error()))
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id, "group": in.Group})
}

// UpdateFridgeIngredient changes an entry's name and/or group by id.
func (h *Handler) UpdateFridgeIngredient(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		c.String(http.StatusNotFound, "Fridge ingredient not found")
		return
	}

	var in fridgeIngredientInput
	if err := c.ShouldBindJSON(&in); err != nil || in.Name == "" || in.Group == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and group are required"})
		return
	}

	ctx, cancel := dbContext(c)
	defer cancel()

	updated, err := h.Fridge.Update(ctx, auth.UserID(c), id, in.Name, in.Group)
	if err != nil {
		c.String(http.StatusInternalServerError, fmt.Sprintf("database error: %s", err.Error()))
		return
	}
	if !updated {
		c.String(http.StatusNotFound, "Fridge ingredient not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "group": in.Group})
}

// DeleteFridgeIngredient removes one entry by id.
func (h *Handler) DeleteFridgeIngredient(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		c.String(http.StatusNotFound, "Fridge ingredient not found")
		return
	}

	ctx, cancel := dbContext(c)
	defer cancel()

	deleted, err := h.Fridge.Delete(ctx, auth.UserID(c), id)
	if err != nil {
		c.String(http.StatusInternalServerError, fmt.Sprintf("database error: %s", err.Error()))
		return
	}
	if !deleted {
		c.String(http.StatusNotFound, "Fridge ingredient not found")
		return
	}
	c.Status(http.StatusNoContent)
}

// RenameFridgeGroup moves every entry of the named group to a new label.
func (h *Handler) RenameFridgeGroup(c *gin.Context) {
	var body struct {
		NewGroup string `json:"new_group"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.NewGroup == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "new_group is required"})
		return
	}

	ctx, cancel := dbContext(c)
	defer cancel()

	moved, err := h.Fridge.RenameGroup(ctx, auth.UserID(c), c.Param("group_name"), body.NewGroup)
	if err != nil {
		c.String(http.StatusInternalServerError, fmt.Sprintf("database error: %s", err.Error()))
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated_count": moved})
}

// DeleteFridgeGroup removes every entry of the named group.
func (h *Handler) DeleteFridgeGroup(c *gin.Context) {
	ctx, cancel := dbContext(c)
	defer cancel()

	if _, err := h.Fridge.DeleteGroup(ctx, auth.UserID(c), c.Param("group_name")); err != nil {
		c.String(http.StatusInternalServerError, fmt.Sprintf("database error: %s", err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
