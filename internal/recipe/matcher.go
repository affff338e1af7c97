package recipe

import (
	"sort"
	"strings"
)

// ParseIngredientQuery splits a comma-separated ingredient filter into
// normalized names, dropping empty tokens.
func ParseIngredientQuery(raw string) []string {
	var names []string
	for _, token := range strings.Split(raw, ",") {
		if name := NormalizeName(token); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// Rank scores recipes by the percentage of their distinct ingredients found
// in the query set. The score is an integer percentage (matched * 100 /
// total). Zero-score recipes and recipes without ingredients are excluded.
// Results are ordered by score descending, ties broken by ascending id.
func Rank(recipes []Recipe, names []string) []Ranked {
	query := make(map[string]bool, len(names))
	for _, name := range names {
		query[name] = true
	}

	ranked := make([]Ranked, 0)
	if len(query) == 0 {
		return ranked
	}

	for _, r := range recipes {
		distinct := make(map[string]bool, len(r.IngredientList))
		for _, line := range r.IngredientList {
			distinct[line.Name] = true
		}
		if len(distinct) == 0 {
			continue
		}

		matched := 0
		for name := range distinct {
			if query[name] {
				matched++
			}
		}
		score := matched * 100 / len(distinct)
		if score == 0 {
			continue
		}
		ranked = append(ranked, Ranked{Recipe: r, Accuracy: score})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Accuracy != ranked[j].Accuracy {
			return ranked[i].Accuracy > ranked[j].Accuracy
		}
		return ranked[i].ID < ranked[j].ID
	})
	return ranked
}
