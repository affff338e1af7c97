package grocery

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountIDs(t *testing.T) {
	counts := CountIDs([]int64{1, 1, 2})
	assert.Equal(t, map[int64]int{1: 2, 2: 1}, counts)
	assert.Empty(t, CountIDs(nil))
}

func TestAggregateScalesByMultiplicity(t *testing.T) {
	// R1={chicken:"200g"}, R2={chicken:"100g", egg:"1"}, R1 chosen twice.
	lines := []Line{
		{RecipeID: 1, Name: "chicken", Quantity: "200g"},
		{RecipeID: 2, Name: "chicken", Quantity: "100g"},
		{RecipeID: 2, Name: "egg", Quantity: "1"},
	}
	items := Aggregate(lines, CountIDs([]int64{1, 1, 2}))

	assert.Equal(t, []Item{
		{Name: "chicken", Quantity: "200g + 200g + 100g"},
		{Name: "egg", Quantity: "1"},
	}, items)
}

func TestAggregateSegmentCount(t *testing.T) {
	lines := []Line{
		{RecipeID: 1, Name: "rice", Quantity: "1 cup"},
		{RecipeID: 2, Name: "rice", Quantity: "2 cups"},
		{RecipeID: 3, Name: "rice", Quantity: "300g"},
	}
	items := Aggregate(lines, CountIDs([]int64{1, 2, 3}))
	assert.Len(t, items, 1)
	// k contributing lines yield exactly k " + "-joined segments.
	assert.Len(t, strings.Split(items[0].Quantity, " + "), 3)
}

func TestAggregateOmitsEmptyQuantities(t *testing.T) {
	lines := []Line{
		{RecipeID: 1, Name: "salt", Quantity: "1 tsp"},
		{RecipeID: 2, Name: "salt", Quantity: ""},
	}
	items := Aggregate(lines, CountIDs([]int64{1, 2}))
	assert.Equal(t, "1 tsp", items[0].Quantity)

	// An empty first occurrence stays empty until a non-empty line arrives.
	lines = []Line{
		{RecipeID: 1, Name: "pepper", Quantity: ""},
		{RecipeID: 2, Name: "pepper", Quantity: "a pinch"},
	}
	items = Aggregate(lines, CountIDs([]int64{1, 2}))
	assert.Equal(t, " + a pinch", items[0].Quantity[len(items[0].Quantity)-len(" + a pinch"):])
}

func TestAggregateIgnoresUnchosenRecipes(t *testing.T) {
	lines := []Line{
		{RecipeID: 1, Name: "egg", Quantity: "1"},
		{RecipeID: 7, Name: "egg", Quantity: "99"},
	}
	items := Aggregate(lines, CountIDs([]int64{1}))
	assert.Equal(t, []Item{{Name: "egg", Quantity: "1"}}, items)
}

func TestPartitionSplitsByFridgeMembership(t *testing.T) {
	items := []Item{
		{Name: "chicken", Quantity: "200g + 200g + 100g"},
		{Name: "egg", Quantity: "1"},
	}
	result := Partition(items, map[string]bool{"egg": true})

	assert.Equal(t, []Item{{Name: "chicken", Quantity: "200g + 200g + 100g"}}, result.GroceryList)
	assert.Equal(t, []Item{{Name: "egg", Quantity: "1"}}, result.Others)
}

func TestPartitionCoversAllItemsDisjointly(t *testing.T) {
	items := []Item{{Name: "a"}, {Name: "b"}, {Name: "c"}}
	result := Partition(items, map[string]bool{"b": true})

	seen := make(map[string]int)
	for _, item := range result.GroceryList {
		seen[item.Name]++
	}
	for _, item := range result.Others {
		seen[item.Name]++
	}
	assert.Equal(t, map[string]int{"a": 1, "b": 1, "c": 1}, seen)
}

func TestPartitionEmptyFridge(t *testing.T) {
	items := []Item{{Name: "a", Quantity: "1"}}
	result := Partition(items, nil)
	assert.Equal(t, items, result.GroceryList)
	assert.Empty(t, result.Others)
}
