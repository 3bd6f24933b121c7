package repository

import (
	"database/sql"
	"fmt"
	"time"

	"hearthside/internal/database"
	"hearthside/internal/models"
)

// RecipeRepository handles database operations for recipes
type RecipeRepository struct {
	db *database.DB
}

// NewRecipeRepository creates a new recipe repository
func NewRecipeRepository(db *database.DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

// CreateRecipe creates a new recipe
func (r *RecipeRepository) CreateRecipe(ownerID int64, title, ingredients, instructions, visibility string) (*models.Recipe, error) {
	query := "INSERT INTO recipes (owner_id, title, ingredients, instructions, visibility) VALUES (?, ?, ?, ?, ?)"
	id, err := r.db.ExecReturningID(query, ownerID, title, ingredients, instructions, visibility)
	if err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}

	return &models.Recipe{
		ID:           id,
		OwnerID:      ownerID,
		Title:        title,
		Ingredients:  ingredients,
		Instructions: instructions,
		Visibility:   visibility,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}, nil
}

// GetRecipeByID retrieves a recipe by id. Returns nil when unknown
func (r *RecipeRepository) GetRecipeByID(id int64) (*models.Recipe, error) {
	query := `
		SELECT id, owner_id, title, ingredients, instructions, visibility, created_at, updated_at
		FROM recipes WHERE id = ?
	`
	recipe := &models.Recipe{}
	err := r.db.QueryRow(query, id).Scan(
		&recipe.ID, &recipe.OwnerID, &recipe.Title, &recipe.Ingredients,
		&recipe.Instructions, &recipe.Visibility, &recipe.CreatedAt, &recipe.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}

	return recipe, nil
}

// GetRecipesByOwner retrieves all recipes owned by a person
func (r *RecipeRepository) GetRecipesByOwner(ownerID int64) ([]models.Recipe, error) {
	query := `
		SELECT id, owner_id, title, ingredients, instructions, visibility, created_at, updated_at
		FROM recipes WHERE owner_id = ? ORDER BY updated_at DESC
	`
	return r.queryRecipes(query, ownerID)
}

// GetPublicRecipes retrieves all public recipes
func (r *RecipeRepository) GetPublicRecipes() ([]models.Recipe, error) {
	query := `
		SELECT id, owner_id, title, ingredients, instructions, visibility, created_at, updated_at
		FROM recipes WHERE visibility = 'public' ORDER BY updated_at DESC
	`
	return r.queryRecipes(query)
}

func (r *RecipeRepository) queryRecipes(query string, args ...interface{}) ([]models.Recipe, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query recipes: %w", err)
	}
	defer rows.Close()

	var recipes []models.Recipe
	for rows.Next() {
		var recipe models.Recipe
		if err := rows.Scan(
			&recipe.ID, &recipe.OwnerID, &recipe.Title, &recipe.Ingredients,
			&recipe.Instructions, &recipe.Visibility, &recipe.CreatedAt, &recipe.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		recipes = append(recipes, recipe)
	}

	return recipes, rows.Err()
}

// UpdateRecipe updates a recipe's content and visibility
func (r *RecipeRepository) UpdateRecipe(id int64, title, ingredients, instructions, visibility string) error {
	query := `
		UPDATE recipes SET title = ?, ingredients = ?, instructions = ?, visibility = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	_, err := r.db.Exec(query, title, ingredients, instructions, visibility, id)
	if err != nil {
		return fmt.Errorf("failed to update recipe: %w", err)
	}
	return nil
}

// DeleteRecipe deletes a recipe
func (r *RecipeRepository) DeleteRecipe(id int64) error {
	query := "DELETE FROM recipes WHERE id = ?"
	_, err := r.db.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	return nil
}
