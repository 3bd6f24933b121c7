package service

import (
	"fmt"

	"hearthside/internal/models"
	"hearthside/internal/repository"
	"hearthside/internal/validation"
)

// RecipeService handles recipe business logic
type RecipeService struct {
	recipeRepo *repository.RecipeRepository
	graph      *GraphService
}

// NewRecipeService creates a new recipe service
func NewRecipeService(recipeRepo *repository.RecipeRepository, graph *GraphService) *RecipeService {
	return &RecipeService{
		recipeRepo: recipeRepo,
		graph:      graph,
	}
}

// CreateRecipe creates a recipe for its owner
func (s *RecipeService) CreateRecipe(ownerID int64, title, ingredients, instructions, visibility string) (*models.Recipe, error) {
	if err := validation.ValidateTitle(title); err != nil {
		return nil, err
	}
	if err := validation.ValidateVisibility(visibility); err != nil {
		return nil, err
	}

	recipe, err := s.recipeRepo.CreateRecipe(ownerID, title, ingredients, instructions, visibility)
	if err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}
	return recipe, nil
}

// GetRecipe retrieves a recipe the viewer is allowed to see
func (s *RecipeService) GetRecipe(viewerID, recipeID int64) (*models.Recipe, error) {
	recipe, err := s.recipeRepo.GetRecipeByID(recipeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	if recipe == nil {
		return nil, ErrNotFound
	}

	visible, err := visibleTo(s.graph, recipe.Visibility, recipe.OwnerID, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to check visibility: %w", err)
	}
	if !visible {
		return nil, ErrNotFound
	}

	return recipe, nil
}

// GetOwnRecipes retrieves all of a person's own recipes
func (s *RecipeService) GetOwnRecipes(ownerID int64) ([]models.Recipe, error) {
	recipes, err := s.recipeRepo.GetRecipesByOwner(ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get recipes: %w", err)
	}
	return recipes, nil
}

// GetRecipesOf retrieves another person's recipes, filtered to what the
// viewer may see
func (s *RecipeService) GetRecipesOf(viewerID, ownerID int64) ([]models.Recipe, error) {
	recipes, err := s.recipeRepo.GetRecipesByOwner(ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get recipes: %w", err)
	}

	visible := make([]models.Recipe, 0, len(recipes))
	for _, recipe := range recipes {
		ok, err := visibleTo(s.graph, recipe.Visibility, recipe.OwnerID, viewerID)
		if err != nil {
			return nil, fmt.Errorf("failed to check visibility: %w", err)
		}
		if ok {
			visible = append(visible, recipe)
		}
	}
	return visible, nil
}

// GetPublicRecipes retrieves all public recipes
func (s *RecipeService) GetPublicRecipes() ([]models.Recipe, error) {
	recipes, err := s.recipeRepo.GetPublicRecipes()
	if err != nil {
		return nil, fmt.Errorf("failed to get recipes: %w", err)
	}
	return recipes, nil
}

// UpdateRecipe updates a recipe; only the owner may
func (s *RecipeService) UpdateRecipe(ownerID, recipeID int64, title, ingredients, instructions, visibility string) (*models.Recipe, error) {
	if err := validation.ValidateTitle(title); err != nil {
		return nil, err
	}
	if err := validation.ValidateVisibility(visibility); err != nil {
		return nil, err
	}

	recipe, err := s.recipeRepo.GetRecipeByID(recipeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	if recipe == nil {
		return nil, ErrNotFound
	}
	if recipe.OwnerID != ownerID {
		return nil, ErrNotOwner
	}

	if err := s.recipeRepo.UpdateRecipe(recipeID, title, ingredients, instructions, visibility); err != nil {
		return nil, fmt.Errorf("failed to update recipe: %w", err)
	}

	recipe.Title = title
	recipe.Ingredients = ingredients
	recipe.Instructions = instructions
	recipe.Visibility = visibility
	return recipe, nil
}

// DeleteRecipe deletes a recipe; only the owner may
func (s *RecipeService) DeleteRecipe(ownerID, recipeID int64) error {
	recipe, err := s.recipeRepo.GetRecipeByID(recipeID)
	if err != nil {
		return fmt.Errorf("failed to get recipe: %w", err)
	}
	if recipe == nil {
		return ErrNotFound
	}
	if recipe.OwnerID != ownerID {
		return ErrNotOwner
	}

	if err := s.recipeRepo.DeleteRecipe(recipeID); err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	return nil
}
