package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health reports process liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// DBPing checks database reachability.
func (h *Handler) DBPing(c *gin.Context) {
	ctx, cancel := dbContext(c)
	defer cancel()

	if err := h.DB.PingContext(ctx); err != nil {
		c.String(http.StatusInternalServerError, fmt.Sprintf("database error: %s", err.Error()))
		return
	}
	c.JSON(http.StatusOK, gin.H{"db": 1})
}
