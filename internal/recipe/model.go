package recipe

import (
	"strings"
	"time"
)

// Recipe lifecycle states.
const (
	StateActive = "active"
	StateUsed   = "used"
)

// Recipe is a stored recipe with its ingredient lines.
type Recipe struct {
	ID             int64            `json:"id" db:"id"`
	Name           string           `json:"name" db:"name"`
	MeatType       string           `json:"meat_type" db:"meat_type"`
	Longevity      int              `json:"longevity" db:"longevity"`
	Frequency      string           `json:"frequency" db:"frequency"`
	Note           string           `json:"note" db:"note"`
	State          string           `json:"state" db:"state"`
	AddedDate      time.Time        `json:"added_date" db:"added_date"`
	IngredientList []IngredientLine `json:"ingredient_list"`
}

// IngredientLine is one (ingredient, quantity) entry of a recipe. Quantity
// is free text; units are never normalized.
type IngredientLine struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
}

// Input is the write representation of a recipe.
type Input struct {
	Name        string           `json:"name"`
	MeatType    string           `json:"meat_type"`
	Longevity   int              `json:"longevity"`
	Frequency   string           `json:"frequency"`
	Note        string           `json:"note"`
	State       string           `json:"state"`
	Ingredients []IngredientLine `json:"ingredients"`
}

// Ranked is a recipe with its ingredient-match score. The accuracy field
// only appears in ingredient-filtered listings.
type Ranked struct {
	Recipe
	Accuracy int `json:"accuracy"`
}

// MeatStat aggregates recipe counts per meat type.
type MeatStat struct {
	MeatType string `json:"meat_type" db:"meat_type"`
	Total    int    `json:"total" db:"total"`
	Active   int    `json:"active" db:"active"`
}

// FrequencyStat aggregates recipe counts per frequency.
type FrequencyStat struct {
	Frequency string `json:"frequency" db:"frequency"`
	Total     int    `json:"total" db:"total"`
	Active    int    `json:"active" db:"active"`
}

// NormalizeName is the single normalization policy for ingredient names:
// trimmed and lower-cased. Applied at the catalog boundary and to matcher
// input so identity comparisons stay consistent.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
