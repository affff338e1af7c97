package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ocipe/internal/auth"
	"ocipe/internal/logger"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register creates an account and provisions its singleton fridge.
func (h *Handler) Register(c *gin.Context) {
	var creds credentials
	if err := c.ShouldBindJSON(&creds); err != nil || creds.Username == "" || creds.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	ctx, cancel := dbContext(c)
	defer cancel()

	userID, err := h.Users.CreateUser(ctx, creds.Username, creds.Password)
	if err != nil {
		if errors.Is(err, auth.ErrUsernameTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username already taken"})
			return
		}
		c.String(http.StatusInternalServerError, fmt.Sprintf("database error: %s", err.Error()))
		return
	}

	// Each user is provided with one fridge.
	if err := h.Fridge.CreateFridge(ctx, userID); err != nil {
		c.String(http.StatusInternalServerError, fmt.Sprintf("database error: %s", err.Error()))
		return
	}

	logger.Info("user registered", zap.Int64("user_id", userID))
	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully"})
}

// Token exchanges credentials for an access/refresh token pair. The refresh
// token is also set as an httpOnly cookie.
func (h *Handler) Token(c *gin.Context) {
	var creds credentials
	if err := c.ShouldBindJSON(&creds); err != nil || creds.Username == "" || creds.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	ctx, cancel := dbContext(c)
	defer cancel()

	userID, err := h.Users.Authenticate(ctx, creds.Username, creds.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
			return
		}
		c.String(http.StatusInternalServerError, fmt.Sprintf("database error: %s", err.Error()))
		return
	}

	access, err := h.Tokens.GenerateToken(userID)
	if err != nil {
		c.String(http.StatusInternalServerError, fmt.Sprintf("failed to sign token: %s", err.Error()))
		return
	}
	refresh, err := h.Users.CreateRefreshToken(ctx, userID, refreshTokenTTL)
	if err != nil {
		c.String(http.StatusInternalServerError, fmt.Sprintf("database error: %s", err.Error()))
		return
	}

	c.SetCookie(refreshTokenName, refresh, int(refreshTokenTTL.Seconds()), "/api/user", "", secureCookie(c), true)
	c.JSON(http.StatusOK, gin.H{"access": access, "refresh": refresh})
}

// TokenRefresh trades a refresh token (cookie or body) for a new access
// token.
func (h *Handler) TokenRefresh(c *gin.Context) {
	var body struct {
		Refresh string `json:"refresh"`
	}
	_ = c.ShouldBindJSON(&body)
	token := body.Refresh
	if cookie, err := c.Cookie(refreshTokenName); err == nil && cookie != "" {
		token = cookie
	}
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing refresh token"})
		return
	}

	ctx, cancel := dbContext(c)
	defer cancel()

	userID, err := h.Users.ValidateRefreshToken(ctx, token)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired refresh token"})
			return
		}
		c.String(http.StatusInternalServerError, fmt.Sprintf("database error: %s", err.Error()))
		return
	}

	access, err := h.Tokens.GenerateToken(userID)
	if err != nil {
		c.String(http.StatusInternalServerError, fmt.Sprintf("failed to sign token: %s", err.Error()))
		return
	}
	c.JSON(http.StatusOK, gin.H{"access": access})
}

// Logout revokes the refresh token and clears its cookie.
func (h *Handler) Logout(c *gin.Context) {
	var body struct {
		Refresh string `json:"refresh"`
	}
	_ = c.ShouldBindJSON(&body)
	token := body.Refresh
	if cookie, err := c.Cookie(refreshTokenName); err == nil && cookie != "" {
		token = cookie
	}

	if token != "" {
		ctx, cancel := dbContext(c)
		defer cancel()
		if err := h.Users.DeleteRefreshToken(ctx, token); err != nil {
			c.String(http.StatusInternalServerError, fmt.Sprintf("database error: %s", err.Error()))
			return
		}
	}

	c.SetCookie(refreshTokenName, "", -1, "/api/user", "", secureCookie(c), true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// secureCookie reports whether the request arrived over HTTPS, either
// directly or through a TLS-terminating proxy.
func secureCookie(c *gin.Context) bool {
	return c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https"
}
