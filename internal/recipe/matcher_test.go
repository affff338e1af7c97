package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testRecipes() []Recipe {
	return []Recipe{
		{
			ID:   1,
			Name: "Trung duc thit",
			IngredientList: []IngredientLine{
				{Name: "minced pork", Quantity: "200g"},
				{Name: "egg", Quantity: "4"},
				{Name: "spring onions", Quantity: "1"},
				{Name: "bot canh", Quantity: "2tbsp"},
			},
		},
		{
			ID:   2,
			Name: "Soy Chicken",
			IngredientList: []IngredientLine{
				{Name: "chicken thighs", Quantity: "200g"},
				{Name: "soy sauce", Quantity: "4tbsp"},
			},
		},
		{
			ID:   3,
			Name: "Oyakodon",
			IngredientList: []IngredientLine{
				{Name: "chicken thighs", Quantity: "200g"},
				{Name: "egg", Quantity: "1"},
				{Name: "spring onions", Quantity: "1"},
				{Name: "dashi powder", Quantity: "1 tbsp"},
				{Name: "soy sauce", Quantity: "2 tbsp"},
				{Name: "mirin", Quantity: "2 tbsp"},
				{Name: "sugar", Quantity: "2 tbsp"},
			},
		},
	}
}

func TestParseIngredientQuery(t *testing.T) {
	names := ParseIngredientQuery("Chicken Thighs, soy sauce , ,EGG")
	assert.Equal(t, []string{"chicken thighs", "soy sauce", "egg"}, names)

	assert.Nil(t, ParseIngredientQuery(""))
	assert.Nil(t, ParseIngredientQuery(" , ,"))
}

func TestRankOrdersByScoreDescending(t *testing.T) {
	ranked := Rank(testRecipes(), []string{"chicken thighs", "soy sauce"})

	// Soy Chicken matches 2/2, Oyakodon 2/7, Trung duc thit 0/4.
	assert.Len(t, ranked, 2)
	assert.Equal(t, "Soy Chicken", ranked[0].Name)
	assert.Equal(t, 100, ranked[0].Accuracy)
	assert.Equal(t, "Oyakodon", ranked[1].Name)
	assert.Equal(t, 2*100/7, ranked[1].Accuracy)
}

func TestRankExcludesZeroScores(t *testing.T) {
	ranked := Rank(testRecipes(), []string{"tofu"})
	assert.Empty(t, ranked)

	ranked = Rank(testRecipes(), []string{"egg"})
	for _, r := range ranked {
		assert.Greater(t, r.Accuracy, 0)
		assert.LessOrEqual(t, r.Accuracy, 100)
	}
}

func TestRankExcludesRecipesWithoutIngredients(t *testing.T) {
	recipes := append(testRecipes(), Recipe{ID: 4, Name: "Empty", IngredientList: nil})
	ranked := Rank(recipes, []string{"egg", "chicken thighs"})
	for _, r := range ranked {
		assert.NotEqual(t, "Empty", r.Name)
	}
}

func TestRankEmptyInput(t *testing.T) {
	assert.Empty(t, Rank(testRecipes(), nil))
	assert.Empty(t, Rank(testRecipes(), []string{}))
}

func TestRankTieBreakAscendingID(t *testing.T) {
	recipes := []Recipe{
		{ID: 9, Name: "B", IngredientList: []IngredientLine{{Name: "egg"}, {Name: "milk"}}},
		{ID: 3, Name: "A", IngredientList: []IngredientLine{{Name: "egg"}, {Name: "flour"}}},
	}
	ranked := Rank(recipes, []string{"egg"})
	assert.Len(t, ranked, 2)
	assert.Equal(t, int64(3), ranked[0].ID)
	assert.Equal(t, int64(9), ranked[1].ID)
}

func TestRankCountsDistinctIngredients(t *testing.T) {
	// A duplicated line must not inflate matched or total counts.
	recipes := []Recipe{
		{ID: 1, Name: "Dup", IngredientList: []IngredientLine{
			{Name: "egg", Quantity: "1"},
			{Name: "egg", Quantity: "2"},
			{Name: "flour", Quantity: "100g"},
		}},
	}
	ranked := Rank(recipes, []string{"egg"})
	assert.Len(t, ranked, 1)
	assert.Equal(t, 50, ranked[0].Accuracy)
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "chicken thighs", NormalizeName("  Chicken Thighs "))
	assert.Equal(t, "", NormalizeName("   "))
}
