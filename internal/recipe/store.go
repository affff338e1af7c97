package recipe

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// PostgresStore persists recipes and the per-user ingredient catalog.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore creates the recipe tables if needed. The (user_id, name)
// uniqueness constraint on ingredients backs the get-or-create upsert.
func NewPostgresStore(db *sqlx.DB) (*PostgresStore, error) {
	schema := `
	CREATE TABLE IF NOT EXISTS ingredients (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		UNIQUE (user_id, name)
	);

	CREATE TABLE IF NOT EXISTS recipes (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		meat_type TEXT NOT NULL DEFAULT '',
		longevity INT NOT NULL DEFAULT 0,
		frequency TEXT NOT NULL DEFAULT '',
		note TEXT NOT NULL DEFAULT '',
		state TEXT NOT NULL DEFAULT 'active',
		added_date TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS recipe_ingredients (
		id BIGSERIAL PRIMARY KEY,
		recipe_id BIGINT NOT NULL REFERENCES recipes(id) ON DELETE CASCADE,
		ingredient_id BIGINT NOT NULL REFERENCES ingredients(id) ON DELETE CASCADE,
		quantity TEXT NOT NULL DEFAULT ''
	);
	`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create recipe tables: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// getOrCreateIngredient resolves a normalized ingredient name to its catalog
// id, creating the row on first sight. Idempotent under the (user_id, name)
// constraint.
func getOrCreateIngredient(ctx context.Context, q sqlx.ExtContext, userID int64, name string) (int64, error) {
	var id int64
	err := sqlx.GetContext(ctx, q, &id,
		`INSERT INTO ingredients (user_id, name) VALUES ($1, $2)
		 ON CONFLICT (user_id, name) DO UPDATE SET name = EXCLUDED.name
		 RETURNING id`,
		userID, NormalizeName(name),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to get or create ingredient: %w", err)
	}
	return id, nil
}

func insertLines(ctx context.Context, tx *sqlx.Tx, userID, recipeID int64, lines []IngredientLine) error {
	for _, line := range lines {
		ingredientID, err := getOrCreateIngredient(ctx, tx, userID, line.Name)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO recipe_ingredients (recipe_id, ingredient_id, quantity) VALUES ($1, $2, $3)",
			recipeID, ingredientID, line.Quantity,
		)
		if err != nil {
			return fmt.Errorf("failed to insert recipe ingredient: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) createTx(ctx context.Context, tx *sqlx.Tx, userID int64, in Input) (*Recipe, error) {
	state := in.State
	if state == "" {
		state = StateActive
	}

	r := Recipe{
		Name:      in.Name,
		MeatType:  in.MeatType,
		Longevity: in.Longevity,
		Frequency: in.Frequency,
		Note:      in.Note,
		State:     state,
	}
	err := tx.QueryRowContext(ctx,
		`INSERT INTO recipes (user_id, name, meat_type, longevity, frequency, note, state)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, added_date`,
		userID, in.Name, in.MeatType, in.Longevity, in.Frequency, in.Note, state,
	).Scan(&r.ID, &r.AddedDate)
	if err != nil {
		return nil, fmt.Errorf("failed to insert recipe: %w", err)
	}

	if err := insertLines(ctx, tx, userID, r.ID, in.Ingredients); err != nil {
		return nil, err
	}

	r.IngredientList = make([]IngredientLine, 0, len(in.Ingredients))
	for _, line := range in.Ingredients {
		r.IngredientList = append(r.IngredientList, IngredientLine{Name: NormalizeName(line.Name), Quantity: line.Quantity})
	}
	return &r, nil
}

// Create stores a new recipe with its ingredient lines.
func (s *PostgresStore) Create(ctx context.Context, userID int64, in Input) (*Recipe, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	r, err := s.createTx(ctx, tx, userID, in)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return r, nil
}

// CreateBulk stores several recipes in one transaction.
func (s *PostgresStore) CreateBulk(ctx context.Context, userID int64, ins []Input) ([]*Recipe, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	recipes := make([]*Recipe, 0, len(ins))
	for _, in := range ins {
		r, err := s.createTx(ctx, tx, userID, in)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, r)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return recipes, nil
}

// List returns all of a user's recipes, newest first, with ingredient lines
// attached.
func (s *PostgresStore) List(ctx context.Context, userID int64) ([]Recipe, error) {
	var recipes []Recipe
	err := s.db.SelectContext(ctx, &recipes,
		`SELECT id, name, meat_type, longevity, frequency, note, state, added_date
		 FROM recipes WHERE user_id = $1
		 ORDER BY added_date DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}

	lines, err := s.linesByRecipe(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range recipes {
		recipes[i].IngredientList = lines[recipes[i].ID]
		if recipes[i].IngredientList == nil {
			recipes[i].IngredientList = make([]IngredientLine, 0)
		}
	}
	return recipes, nil
}

// linesByRecipe loads every ingredient line of a user's recipes keyed by
// recipe id, in insertion order.
func (s *PostgresStore) linesByRecipe(ctx context.Context, userID int64) (map[int64][]IngredientLine, error) {
	rows, err := s.db.QueryxContext(ctx,
		`SELECT ri.recipe_id, i.name, ri.quantity
		 FROM recipe_ingredients ri
		 JOIN ingredients i ON i.id = ri.ingredient_id
		 JOIN recipes r ON r.id = ri.recipe_id
		 WHERE r.user_id = $1
		 ORDER BY ri.id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe ingredients: %w", err)
	}
	defer rows.Close()

	lines := make(map[int64][]IngredientLine)
	for rows.Next() {
		var recipeID int64
		var line IngredientLine
		if err := rows.Scan(&recipeID, &line.Name, &line.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan recipe ingredient row: %w", err)
		}
		lines[recipeID] = append(lines[recipeID], line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return lines, nil
}

// Get retrieves one recipe scoped to its owner. Returns nil when the id does
// not resolve within the user's scope.
func (s *PostgresStore) Get(ctx context.Context, userID, id int64) (*Recipe, error) {
	var r Recipe
	err := s.db.GetContext(ctx, &r,
		`SELECT id, name, meat_type, longevity, frequency, note, state, added_date
		 FROM recipes WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}

	r.IngredientList = make([]IngredientLine, 0)
	rows, err := s.db.QueryxContext(ctx,
		`SELECT i.name, ri.quantity
		 FROM recipe_ingredients ri
		 JOIN ingredients i ON i.id = ri.ingredient_id
		 WHERE ri.recipe_id = $1
		 ORDER BY ri.id`,
		r.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe ingredients: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var line IngredientLine
		if err := rows.Scan(&line.Name, &line.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan recipe ingredient row: %w", err)
		}
		r.IngredientList = append(r.IngredientList, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return &r, nil
}

// Update replaces a recipe and its ingredient lines. Returns nil when the id
// does not resolve within the user's scope.
func (s *PostgresStore) Update(ctx context.Context, userID, id int64, in Input) (*Recipe, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	r := Recipe{
		ID:        id,
		Name:      in.Name,
		MeatType:  in.MeatType,
		Longevity: in.Longevity,
		Frequency: in.Frequency,
		Note:      in.Note,
		State:     in.State,
	}
	err = tx.QueryRowContext(ctx,
		`UPDATE recipes SET name = $1, meat_type = $2, longevity = $3, frequency = $4, note = $5, state = $6
		 WHERE id = $7 AND user_id = $8
		 RETURNING added_date`,
		in.Name, in.MeatType, in.Longevity, in.Frequency, in.Note, in.State, id, userID,
	).Scan(&r.AddedDate)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update recipe: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM recipe_ingredients WHERE recipe_id = $1", id); err != nil {
		return nil, fmt.Errorf("failed to clear recipe ingredients: %w", err)
	}
	if err := insertLines(ctx, tx, userID, id, in.Ingredients); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.IngredientList = make([]IngredientLine, 0, len(in.Ingredients))
	for _, line := range in.Ingredients {
		r.IngredientList = append(r.IngredientList, IngredientLine{Name: NormalizeName(line.Name), Quantity: line.Quantity})
	}
	return &r, nil
}

// Delete removes one recipe. Reports whether a row was deleted.
func (s *PostgresStore) Delete(ctx context.Context, userID, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM recipes WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete recipe: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n > 0, nil
}

// DeleteAll removes every recipe of a user.
func (s *PostgresStore) DeleteAll(ctx context.Context, userID int64) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM recipes WHERE user_id = $1", userID); err != nil {
		return fmt.Errorf("failed to delete recipes: %w", err)
	}
	return nil
}

// RefreshAll resets every recipe of a user back to the active state and
// returns the number of rows touched.
func (s *PostgresStore) RefreshAll(ctx context.Context, userID int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, "UPDATE recipes SET state = $1 WHERE user_id = $2", StateActive, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to refresh recipes: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n, nil
}

// Stats aggregates recipe counts per meat type and per frequency.
func (s *PostgresStore) Stats(ctx context.Context, userID int64) ([]MeatStat, []FrequencyStat, error) {
	var meat []MeatStat
	err := s.db.SelectContext(ctx, &meat,
		`SELECT meat_type, COUNT(*) AS total,
		        COUNT(*) FILTER (WHERE state = 'active') AS active
		 FROM recipes WHERE user_id = $1
		 GROUP BY meat_type ORDER BY meat_type`,
		userID,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to aggregate meat stats: %w", err)
	}

	var freq []FrequencyStat
	err = s.db.SelectContext(ctx, &freq,
		`SELECT frequency, COUNT(*) AS total,
		        COUNT(*) FILTER (WHERE state = 'active') AS active
		 FROM recipes WHERE user_id = $1
		 GROUP BY frequency ORDER BY frequency`,
		userID,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to aggregate frequency stats: %w", err)
	}
	return meat, freq, nil
}
