package grocery

import "time"

// Item is one aggregated ingredient requirement.
type Item struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
}

// Result partitions the aggregated requirements into what must be bought and
// what the fridge already covers.
type Result struct {
	GroceryList []Item `json:"grocery_list"`
	Others      []Item `json:"others"`
}

// historyVersion tags the snapshot schema so its shape can evolve without
// another untyped blob.
const historyVersion = 1

// HistoryRecipe is the display-label snapshot of one reconciled recipe. The
// db tags back the snapshot query in Reconcile.
type HistoryRecipe struct {
	ID       int64  `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	MeatType string `json:"meat_type" db:"meat_type"`
}

// HistorySnapshot is the versioned record stored per reconciliation.
type HistorySnapshot struct {
	Version int             `json:"version"`
	Recipes []HistoryRecipe `json:"recipes"`
}

// HistoryEntry is one past reconciliation. Entries are immutable.
type HistoryEntry struct {
	Recipes   HistorySnapshot `json:"recipes"`
	CreatedAt time.Time       `json:"created_at"`
}

// ChecklistItem is one line of the manual grocery checklist.
type ChecklistItem struct {
	ID        int64  `json:"id" db:"id"`
	Item      string `json:"item" db:"item"`
	IsChecked bool   `json:"isChecked" db:"is_checked"`
}
