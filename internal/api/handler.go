package api

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"ocipe/internal/fridge"
	"ocipe/internal/grocery"
	"ocipe/internal/recipe"
)

// UserStore defines the account operations the handlers depend on.
type UserStore interface {
	CreateUser(ctx context.Context, username, password string) (int64, error)
	Authenticate(ctx context.Context, username, password string) (int64, error)
	CreateRefreshToken(ctx context.Context, userID int64, ttl time.Duration) (string, error)
	ValidateRefreshToken(ctx context.Context, token string) (int64, error)
	DeleteRefreshToken(ctx context.Context, token string) error
}

// RecipeStore defines the recipe data operations the handlers depend on.
// Every operation is scoped to an explicit owner id.
type RecipeStore interface {
	Create(ctx context.Context, userID int64, in recipe.Input) (*recipe.Recipe, error)
	CreateBulk(ctx context.Context, userID int64, ins []recipe.Input) ([]*recipe.Recipe, error)
	List(ctx context.Context, userID int64) ([]recipe.Recipe, error)
	Get(ctx context.Context, userID, id int64) (*recipe.Recipe, error)
	Update(ctx context.Context, userID, id int64, in recipe.Input) (*recipe.Recipe, error)
	Delete(ctx context.Context, userID, id int64) (bool, error)
	DeleteAll(ctx context.Context, userID int64) error
	RefreshAll(ctx context.Context, userID int64) (int64, error)
	Stats(ctx context.Context, userID int64) ([]recipe.MeatStat, []recipe.FrequencyStat, error)
}

// FridgeStore defines the fridge inventory operations the handlers depend on.
type FridgeStore interface {
	CreateFridge(ctx context.Context, userID int64) error
	List(ctx context.Context, userID int64) ([]fridge.Row, error)
	Add(ctx context.Context, userID int64, name, group string) (int64, error)
	Update(ctx context.Context, userID, id int64, name, group string) (bool, error)
	Delete(ctx context.Context, userID, id int64) (bool, error)
	RenameGroup(ctx context.Context, userID int64, from, to string) (int64, error)
	DeleteGroup(ctx context.Context, userID int64, group string) (int64, error)
}

// GroceryStore defines the reconciliation, history and checklist operations
// the handlers depend on.
type GroceryStore interface {
	Reconcile(ctx context.Context, userID int64, recipeIDs []int64) (*grocery.Result, error)
	ListHistory(ctx context.Context, userID int64, limit int) ([]grocery.HistoryEntry, error)
	DeleteHistory(ctx context.Context, userID int64) error
	ListItems(ctx context.Context, userID int64) ([]grocery.ChecklistItem, error)
	AddItems(ctx context.Context, userID int64, names []string) error
	UpdateItem(ctx context.Context, userID, id int64, item *string, isChecked *bool) (bool, error)
	DeleteItem(ctx context.Context, userID, id int64) (bool, error)
	Clear(ctx context.Context, userID int64) error
}

// RecipeExtractor defines the generative extraction collaborator.
type RecipeExtractor interface {
	ExtractRecipeFromURL(ctx context.Context, url string) (*recipe.Input, error)
}

// DBPinger is satisfied by *sqlx.DB; used by the monitoring endpoints.
type DBPinger interface {
	PingContext(ctx context.Context) error
}

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	GenerateToken(userID int64) (string, error)
}

// Handler handles HTTP requests.
type Handler struct {
	Users     UserStore
	Recipes   RecipeStore
	Fridge    FridgeStore
	Grocery   GroceryStore
	Extractor RecipeExtractor
	Tokens    TokenIssuer
	DB        DBPinger
}

// NewHandler creates a new Handler.
func NewHandler(users UserStore, recipes RecipeStore, fridgeStore FridgeStore, groceryStore GroceryStore, extractor RecipeExtractor, tokens TokenIssuer, db DBPinger) *Handler {
	return &Handler{
		Users:     users,
		Recipes:   recipes,
		Fridge:    fridgeStore,
		Grocery:   groceryStore,
		Extractor: extractor,
		Tokens:    tokens,
		DB:        db,
	}
}

const (
	dbTimeout        = 5 * time.Second
	extractTimeout   = 45 * time.Second
	refreshTokenTTL  = 7 * 24 * time.Hour
	refreshTokenName = "refresh_token"
)

// dbContext derives the per-request database deadline.
func dbContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), dbTimeout)
}

// pathID parses a numeric path parameter. Reports false on malformed input,
// which handlers treat as not-found.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
