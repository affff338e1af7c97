package grocery

import (
	"reflect"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx/reflectx"
	"github.com/stretchr/testify/assert"
)

// The history snapshot is scanned straight from the recipes table, so every
// selected column needs a destination field under sqlx's default mapper.
func TestHistoryRecipeColumnMapping(t *testing.T) {
	mapper := reflectx.NewMapperFunc("db", strings.ToLower)
	columns := []string{"id", "name", "meat_type"}

	traversals := mapper.TraversalsByName(reflect.TypeOf(HistoryRecipe{}), columns)
	assert.Len(t, traversals, len(columns))
	for i, traversal := range traversals {
		assert.NotEmptyf(t, traversal, "column %q has no destination field", columns[i])
	}
}

func TestChecklistItemColumnMapping(t *testing.T) {
	mapper := reflectx.NewMapperFunc("db", strings.ToLower)
	columns := []string{"id", "item", "is_checked"}

	traversals := mapper.TraversalsByName(reflect.TypeOf(ChecklistItem{}), columns)
	assert.Len(t, traversals, len(columns))
	for i, traversal := range traversals {
		assert.NotEmptyf(t, traversal, "column %q has no destination field", columns[i])
	}
}
