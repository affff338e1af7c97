package grocery

// Line is one required ingredient occurrence contributed by a chosen recipe.
type Line struct {
	RecipeID int64
	Name     string
	Quantity string
}

// CountIDs tallies how many times each recipe id was requested. A repeated
// id means the recipe is cooked that many times this cycle.
func CountIDs(ids []int64) map[int64]int {
	counts := make(map[int64]int, len(ids))
	for _, id := range ids {
		counts[id]++
	}
	return counts
}

// Aggregate folds ingredient lines into per-name quantity strings, scaling
// each line by its recipe's multiplicity. The first occurrence keeps its
// quantity text as-is; later non-empty quantities are appended joined by
// " + ". Quantities are opaque strings, so textual concatenation is the
// whole of the arithmetic. Output preserves first-seen order.
func Aggregate(lines []Line, counts map[int64]int) []Item {
	items := make([]Item, 0)
	index := make(map[string]int)

	for _, line := range lines {
		for i := 0; i < counts[line.RecipeID]; i++ {
			at, seen := index[line.Name]
			if !seen {
				index[line.Name] = len(items)
				items = append(items, Item{Name: line.Name, Quantity: line.Quantity})
				continue
			}
			if line.Quantity != "" {
				items[at].Quantity += " + " + line.Quantity
			}
		}
	}
	return items
}

// Partition splits aggregated items by fridge membership: items whose name
// is not stocked go to the grocery list, the rest are already covered.
func Partition(items []Item, fridge map[string]bool) Result {
	result := Result{
		GroceryList: make([]Item, 0, len(items)),
		Others:      make([]Item, 0),
	}
	for _, item := range items {
		if fridge[item.Name] {
			result.Others = append(result.Others, item)
		} else {
			result.GroceryList = append(result.GroceryList, item)
		}
	}
	return result
}
