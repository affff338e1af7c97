package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"ocipe/internal/api"
	"ocipe/internal/auth"
	"ocipe/internal/fridge"
	"ocipe/internal/grocery"
	"ocipe/internal/logger"
	"ocipe/internal/platform/gemini"
	"ocipe/internal/recipe"
)

// Config represents the application configuration.
type Config struct {
	GeminiAPIKey   string   `json:"gemini_api_key"`
	DatabaseURL    string   `json:"DATABASE_URL"`
	JWTSecret      string   `json:"jwt_secret"`
	AllowedOrigins []string `json:"allowed_origins"`
	Port           string   `json:"port"`
}

func main() {
	ctx := context.Background()

	logger.Init()
	defer logger.Sync()

	// Read configuration from config.json
	configData, err := os.ReadFile("config.json")
	if err != nil {
		panic(fmt.Errorf("failed to read config.json: %w", err))
	}

	var config Config
	if err := json.Unmarshal(configData, &config); err != nil {
		panic(fmt.Errorf("failed to unmarshal config.json: %w", err))
	}
	if len(config.AllowedOrigins) == 0 {
		config.AllowedOrigins = []string{"http://localhost:5173"}
	}
	if config.Port == "" {
		config.Port = "8080"
	}

	db, err := sqlx.Connect("postgres", config.DatabaseURL)
	if err != nil {
		panic(fmt.Errorf("failed to connect to database: %w", err))
	}

	// Store construction order follows foreign-key dependencies.
	userStore, err := auth.NewPostgresStore(db)
	if err != nil {
		panic(fmt.Errorf("error creating user store: %w", err))
	}
	recipeStore, err := recipe.NewPostgresStore(db)
	if err != nil {
		panic(fmt.Errorf("error creating recipe store: %w", err))
	}
	fridgeStore, err := fridge.NewPostgresStore(db)
	if err != nil {
		panic(fmt.Errorf("error creating fridge store: %w", err))
	}
	groceryStore, err := grocery.NewPostgresStore(db)
	if err != nil {
		panic(fmt.Errorf("error creating grocery store: %w", err))
	}

	geminiClient, err := gemini.NewClient(ctx, config.GeminiAPIKey)
	if err != nil {
		panic(fmt.Errorf("error creating gemini client: %w", err))
	}

	jwtConfig := auth.NewJWTConfig(config.JWTSecret)
	handler := api.NewHandler(userStore, recipeStore, fridgeStore, groceryStore, geminiClient, jwtConfig, db)

	r := gin.Default()

	// Configure CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     config.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	registerRoutes(r, handler, jwtConfig)
	r.Run(":" + config.Port)
}

// registerRoutes wires the full HTTP surface. Everything outside /api/user
// and /api/monitoring requires a Bearer access token.
func registerRoutes(r *gin.Engine, h *api.Handler, jwtConfig *auth.JWTConfig) {
	user := r.Group("/api/user")
	user.POST("/register/", h.Register)
	user.POST("/token/", h.Token)
	user.POST("/token/refresh/", h.TokenRefresh)
	user.POST("/logout/", h.Logout)

	monitoring := r.Group("/api/monitoring")
	monitoring.GET("/health/", h.Health)
	monitoring.GET("/db/", h.DBPing)

	authed := r.Group("/api", auth.RequireAuth(jwtConfig))

	authed.GET("/recipes/", h.ListRecipes)
	authed.POST("/recipes/", h.CreateRecipe)
	authed.DELETE("/recipes/", h.DeleteAllRecipes)
	authed.POST("/recipes/bulk/", h.BulkCreateRecipes)
	authed.GET("/recipes/random/", h.RandomRecipe)
	authed.GET("/recipes/stats/", h.RecipeStats)
	authed.POST("/recipes/genai/", h.ExtractRecipe)
	authed.POST("/recipes/refresh/", h.RefreshRecipes)
	authed.GET("/recipes/:id/", h.GetRecipe)
	authed.PUT("/recipes/:id/", h.UpdateRecipe)
	authed.DELETE("/recipes/:id/", h.DeleteRecipe)

	authed.GET("/fridge/", h.GetFridge)
	authed.POST("/fridge/ingredient/", h.AddFridgeIngredient)
	authed.PUT("/fridge/ingredient/:id/", h.UpdateFridgeIngredient)
	authed.DELETE("/fridge/ingredient/:id/", h.DeleteFridgeIngredient)
	authed.PUT("/fridge/group/:group_name/", h.RenameFridgeGroup)
	authed.DELETE("/fridge/group/:group_name/", h.DeleteFridgeGroup)

	authed.POST("/grocery/", h.Reconcile)
	authed.GET("/grocery/history/", h.History)
	authed.GET("/grocery/history/recent/", h.RecentHistory)
	authed.DELETE("/grocery/history/", h.ClearHistory)
	authed.GET("/grocery/list/", h.GroceryItems)
	authed.POST("/grocery/list/", h.AddGroceryItems)
	authed.DELETE("/grocery/list/", h.ClearGroceryList)
	authed.PATCH("/grocery/list/:id/", h.UpdateGroceryItem)
	authed.DELETE("/grocery/list/:id/", h.DeleteGroceryItem)
}
