package grocery

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"ocipe/internal/recipe"
)

// PostgresStore persists reconciliation history and the manual checklist,
// and runs the reconciler against the recipe and fridge tables.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore creates the grocery tables if needed.
func NewPostgresStore(db *sqlx.DB) (*PostgresStore, error) {
	schema := `
	CREATE TABLE IF NOT EXISTS grocery_lists (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS grocery_list_items (
		id BIGSERIAL PRIMARY KEY,
		grocery_id BIGINT NOT NULL REFERENCES grocery_lists(id) ON DELETE CASCADE,
		item TEXT NOT NULL,
		is_checked BOOLEAN NOT NULL DEFAULT FALSE
	);

	CREATE TABLE IF NOT EXISTS history (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		recipes JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create grocery tables: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// Reconcile aggregates the ingredient requirements of the chosen recipes
// (with multiplicity), partitions them against the fridge snapshot, records
// a history entry and marks the recipes used. The writes share one
// transaction so a history entry exists iff its recipes were marked used.
// Recipe ids that do not resolve within the user's scope contribute nothing.
func (s *PostgresStore) Reconcile(ctx context.Context, userID int64, recipeIDs []int64) (*Result, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Ownership is enforced by scoping the join to the user's ingredients.
	rows, err := tx.QueryxContext(ctx,
		`SELECT ri.recipe_id, i.name, ri.quantity
		 FROM recipe_ingredients ri
		 JOIN ingredients i ON i.id = ri.ingredient_id
		 WHERE ri.recipe_id = ANY($1) AND i.user_id = $2
		 ORDER BY ri.id`,
		pq.Array(recipeIDs), userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe ingredients: %w", err)
	}
	lines := make([]Line, 0)
	for rows.Next() {
		var line Line
		if err := rows.Scan(&line.RecipeID, &line.Name, &line.Quantity); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan recipe ingredient row: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("rows error: %w", err)
	}
	rows.Close()

	var fridgeNames []string
	err = tx.SelectContext(ctx, &fridgeNames,
		`SELECT i.name
		 FROM fridge_ingredients fi
		 JOIN fridges f ON f.id = fi.fridge_id
		 JOIN ingredients i ON i.id = fi.ingredient_id
		 WHERE f.user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load fridge snapshot: %w", err)
	}
	fridgeSet := make(map[string]bool, len(fridgeNames))
	for _, name := range fridgeNames {
		fridgeSet[name] = true
	}

	result := Partition(Aggregate(lines, CountIDs(recipeIDs)), fridgeSet)

	snapshot := HistorySnapshot{Version: historyVersion, Recipes: make([]HistoryRecipe, 0)}
	err = tx.SelectContext(ctx, &snapshot.Recipes,
		`SELECT id, name, meat_type FROM recipes
		 WHERE id = ANY($1) AND user_id = $2
		 ORDER BY id`,
		pq.Array(recipeIDs), userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot recipes: %w", err)
	}

	blob, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal history snapshot: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO history (user_id, recipes) VALUES ($1, $2)", userID, blob); err != nil {
		return nil, fmt.Errorf("failed to record history: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE recipes SET state = $1 WHERE id = ANY($2) AND user_id = $3",
		recipe.StateUsed, pq.Array(recipeIDs), userID); err != nil {
		return nil, fmt.Errorf("failed to mark recipes used: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return &result, nil
}

// ListHistory returns past reconciliations newest first. A positive limit
// caps the result.
func (s *PostgresStore) ListHistory(ctx context.Context, userID int64, limit int) ([]HistoryEntry, error) {
	query := `SELECT recipes, created_at FROM history
	          WHERE user_id = $1 ORDER BY created_at DESC, id DESC`
	args := []interface{}{userID}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	entries := make([]HistoryEntry, 0)
	for rows.Next() {
		var blob []byte
		var entry HistoryEntry
		if err := rows.Scan(&blob, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		if err := json.Unmarshal(blob, &entry.Recipes); err != nil {
			return nil, fmt.Errorf("failed to unmarshal history snapshot: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return entries, nil
}

// DeleteHistory removes all of a user's history entries.
func (s *PostgresStore) DeleteHistory(ctx context.Context, userID int64) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM history WHERE user_id = $1", userID); err != nil {
		return fmt.Errorf("failed to delete history: %w", err)
	}
	return nil
}

// listID resolves the user's checklist, creating it on first use.
func (s *PostgresStore) listID(ctx context.Context, userID int64) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		"SELECT id FROM grocery_lists WHERE user_id = $1", userID).Scan(&id)
	if err == nil {
		return id, nil
	}
	err = s.db.QueryRowContext(ctx,
		"INSERT INTO grocery_lists (user_id) VALUES ($1) RETURNING id", userID).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create grocery list: %w", err)
	}
	return id, nil
}

// ListItems returns the manual checklist in insertion order.
func (s *PostgresStore) ListItems(ctx context.Context, userID int64) ([]ChecklistItem, error) {
	listID, err := s.listID(ctx, userID)
	if err != nil {
		return nil, err
	}
	items := make([]ChecklistItem, 0)
	err = s.db.SelectContext(ctx, &items,
		"SELECT id, item, is_checked FROM grocery_list_items WHERE grocery_id = $1 ORDER BY id", listID)
	if err != nil {
		return nil, fmt.Errorf("failed to list grocery items: %w", err)
	}
	return items, nil
}

// AddItems appends checklist lines.
func (s *PostgresStore) AddItems(ctx context.Context, userID int64, names []string) error {
	listID, err := s.listID(ctx, userID)
	if err != nil {
		return err
	}
	for _, name := range names {
		if _, err := s.db.ExecContext(ctx,
			"INSERT INTO grocery_list_items (grocery_id, item) VALUES ($1, $2)", listID, name); err != nil {
			return fmt.Errorf("failed to add grocery item: %w", err)
		}
	}
	return nil
}

// UpdateItem patches a checklist line's text and/or checked flag. Nil fields
// are left untouched. Reports whether the id resolved within the user's
// scope.
func (s *PostgresStore) UpdateItem(ctx context.Context, userID, id int64, item *string, isChecked *bool) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE grocery_list_items gi
		 SET item = COALESCE($1, gi.item), is_checked = COALESCE($2, gi.is_checked)
		 FROM grocery_lists g
		 WHERE gi.id = $3 AND gi.grocery_id = g.id AND g.user_id = $4`,
		item, isChecked, id, userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update grocery item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n > 0, nil
}

// DeleteItem removes one checklist line. Reports whether the id resolved
// within the user's scope.
func (s *PostgresStore) DeleteItem(ctx context.Context, userID, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM grocery_list_items gi
		 USING grocery_lists g
		 WHERE gi.id = $1 AND gi.grocery_id = g.id AND g.user_id = $2`,
		id, userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete grocery item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n > 0, nil
}

// Clear drops the user's checklist entirely; items cascade.
func (s *PostgresStore) Clear(ctx context.Context, userID int64) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM grocery_lists WHERE user_id = $1", userID); err != nil {
		return fmt.Errorf("failed to clear grocery list: %w", err)
	}
	return nil
}
