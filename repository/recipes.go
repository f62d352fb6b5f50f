package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"recipe-service/models"

	"github.com/jmoiron/sqlx"
)

// RecipeRepository stores recipes. Callers must pass an owner already
// resolved by the auth gate.
type RecipeRepository struct {
	db *sqlx.DB
}

// NewRecipeRepository creates a recipe repository
func NewRecipeRepository(db *sqlx.DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

type recipeRow struct {
	ID                int64          `db:"id"`
	Title             string         `db:"title"`
	Instructions      string         `db:"instructions"`
	MinutesToComplete int            `db:"minutes_to_complete"`
	UserID            int64          `db:"user_id"`
	CreatedAt         time.Time      `db:"created_at"`
	Username          string         `db:"username"`
	ImageURL          sql.NullString `db:"image_url"`
	Bio               sql.NullString `db:"bio"`
}

func (row recipeRow) recipe() models.Recipe {
	return models.Recipe{
		ID:                row.ID,
		Title:             row.Title,
		Instructions:      row.Instructions,
		MinutesToComplete: row.MinutesToComplete,
		UserID:            row.UserID,
		CreatedAt:         row.CreatedAt,
		Owner: models.Profile{
			ID:       row.UserID,
			Username: row.Username,
			ImageURL: nullable(row.ImageURL),
			Bio:      nullable(row.Bio),
		},
	}
}

func nullable(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

// ValidateNewRecipe checks the required fields of a recipe.
func ValidateNewRecipe(in models.NewRecipe) error {
	switch {
	case strings.TrimSpace(in.Title) == "":
		return models.NewValidationError("title", "is required")
	case strings.TrimSpace(in.Instructions) == "":
		return models.NewValidationError("instructions", "is required")
	case in.MinutesToComplete == nil:
		return models.NewValidationError("minutes_to_complete", "is required")
	case *in.MinutesToComplete < 0:
		return models.NewValidationError("minutes_to_complete", "must not be negative")
	}
	return nil
}

// Create inserts a recipe owned by owner in one transaction.
func (r *RecipeRepository) Create(ctx context.Context, owner *models.User, in models.NewRecipe) (*models.Recipe, error) {
	if owner == nil {
		return nil, models.ErrUnauthenticated
	}
	if err := ValidateNewRecipe(in); err != nil {
		return nil, err
	}

	recipe := &models.Recipe{
		Title:             in.Title,
		Instructions:      in.Instructions,
		MinutesToComplete: *in.MinutesToComplete,
		UserID:            owner.ID,
		Owner:             owner.Profile(),
		CreatedAt:         time.Now().UTC(),
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, models.NewPersistenceError("begin create recipe", err)
	}
	defer tx.Rollback()

	err = tx.GetContext(ctx, &recipe.ID, tx.Rebind(
		"INSERT INTO recipes (title, instructions, minutes_to_complete, user_id, created_at) VALUES (?, ?, ?, ?, ?) RETURNING id"),
		recipe.Title, recipe.Instructions, recipe.MinutesToComplete, recipe.UserID, recipe.CreatedAt)
	if err != nil {
		return nil, models.NewPersistenceError("create recipe", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, models.NewPersistenceError("commit recipe", err)
	}
	return recipe, nil
}

// Version identifies the current contents of the recipe table. Recipes are
// never updated or deleted, so the row count moves on every committed create.
func (r *RecipeRepository) Version(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM recipes"); err != nil {
		return 0, models.NewPersistenceError("recipe version", err)
	}
	return n, nil
}

// ListAll returns every recipe with its owner's profile, in insertion order.
func (r *RecipeRepository) ListAll(ctx context.Context) ([]models.Recipe, error) {
	var rows []recipeRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT r.id, r.title, r.instructions, r.minutes_to_complete, r.user_id, r.created_at,
		       u.username, u.image_url, u.bio
		FROM recipes r
		JOIN users u ON u.id = r.user_id
		ORDER BY r.id`)
	if err != nil {
		return nil, models.NewPersistenceError("list recipes", err)
	}

	recipes := make([]models.Recipe, 0, len(rows))
	for _, row := range rows {
		recipes = append(recipes, row.recipe())
	}
	return recipes, nil
}
