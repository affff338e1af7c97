package fridge

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"ocipe/internal/recipe"
)

// PostgresStore persists each user's singleton fridge inventory.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore creates the fridge tables if needed.
func NewPostgresStore(db *sqlx.DB) (*PostgresStore, error) {
	schema := `
	CREATE TABLE IF NOT EXISTS fridges (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS fridge_ingredients (
		id BIGSERIAL PRIMARY KEY,
		fridge_id BIGINT NOT NULL REFERENCES fridges(id) ON DELETE CASCADE,
		ingredient_id BIGINT NOT NULL REFERENCES ingredients(id) ON DELETE CASCADE,
		group_label TEXT NOT NULL
	);
	`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create fridge tables: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// CreateFridge provisions the user's fridge. Each user owns exactly one;
// called at registration, idempotent.
func (s *PostgresStore) CreateFridge(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO fridges (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING", userID)
	if err != nil {
		return fmt.Errorf("failed to create fridge: %w", err)
	}
	return nil
}

// fridgeID resolves the user's fridge, creating it for accounts that predate
// fridge provisioning.
func (s *PostgresStore) fridgeID(ctx context.Context, userID int64) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO fridges (user_id) VALUES ($1)
		 ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		 RETURNING id`,
		userID,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve fridge: %w", err)
	}
	return id, nil
}

// List returns the user's fridge rows in ascending insertion order.
func (s *PostgresStore) List(ctx context.Context, userID int64) ([]Row, error) {
	rows := make([]Row, 0)
	err := s.db.SelectContext(ctx, &rows,
		`SELECT fi.id, i.name, fi.group_label
		 FROM fridge_ingredients fi
		 JOIN fridges f ON f.id = fi.fridge_id
		 JOIN ingredients i ON i.id = fi.ingredient_id
		 WHERE f.user_id = $1
		 ORDER BY fi.id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list fridge ingredients: %w", err)
	}
	return rows, nil
}

// Add stocks one ingredient under a group label, lazily creating the catalog
// ingredient, and returns the new entry id.
func (s *PostgresStore) Add(ctx context.Context, userID int64, name, group string) (int64, error) {
	fridgeID, err := s.fridgeID(ctx, userID)
	if err != nil {
		return 0, err
	}

	var ingredientID int64
	err = s.db.QueryRowContext(ctx,
		`INSERT INTO ingredients (user_id, name) VALUES ($1, $2)
		 ON CONFLICT (user_id, name) DO UPDATE SET name = EXCLUDED.name
		 RETURNING id`,
		userID, recipe.NormalizeName(name),
	).Scan(&ingredientID)
	if err != nil {
		return 0, fmt.Errorf("failed to get or create ingredient: %w", err)
	}

	var id int64
	err = s.db.QueryRowContext(ctx,
		"INSERT INTO fridge_ingredients (fridge_id, ingredient_id, group_label) VALUES ($1, $2, $3) RETURNING id",
		fridgeID, ingredientID, group,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to add fridge ingredient: %w", err)
	}
	return id, nil
}

// Update changes an entry's ingredient name and group. The name is
// re-resolved against the catalog. Reports whether the id resolved within
// the user's scope.
func (s *PostgresStore) Update(ctx context.Context, userID, id int64, name, group string) (bool, error) {
	var ingredientID int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO ingredients (user_id, name) VALUES ($1, $2)
		 ON CONFLICT (user_id, name) DO UPDATE SET name = EXCLUDED.name
		 RETURNING id`,
		userID, recipe.NormalizeName(name),
	).Scan(&ingredientID)
	if err != nil {
		return false, fmt.Errorf("failed to get or create ingredient: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE fridge_ingredients fi SET ingredient_id = $1, group_label = $2
		 FROM fridges f
		 WHERE fi.id = $3 AND fi.fridge_id = f.id AND f.user_id = $4`,
		ingredientID, group, id, userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update fridge ingredient: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n > 0, nil
}

// Delete removes one entry. Reports whether the id resolved within the
// user's scope.
func (s *PostgresStore) Delete(ctx context.Context, userID, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM fridge_ingredients fi
		 USING fridges f
		 WHERE fi.id = $1 AND fi.fridge_id = f.id AND f.user_id = $2`,
		id, userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete fridge ingredient: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n > 0, nil
}

// RenameGroup moves every entry of a group to a new label in one statement
// and returns the number of entries moved.
func (s *PostgresStore) RenameGroup(ctx context.Context, userID int64, from, to string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE fridge_ingredients fi SET group_label = $1
		 FROM fridges f
		 WHERE fi.fridge_id = f.id AND f.user_id = $2 AND fi.group_label = $3`,
		to, userID, from,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to rename fridge group: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n, nil
}

// DeleteGroup removes every entry of a group and returns the number removed.
func (s *PostgresStore) DeleteGroup(ctx context.Context, userID int64, group string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM fridge_ingredients fi
		 USING fridges f
		 WHERE fi.fridge_id = f.id AND f.user_id = $1 AND fi.group_label = $2`,
		userID, group,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete fridge group: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n, nil
}
