package handlers

import (
	"encoding/json"
	"net/http"

	"hearthside/internal/service"
)

// RecipeHandler handles recipe HTTP requests
type RecipeHandler struct {
	recipeService *service.RecipeService
}

// NewRecipeHandler creates a new recipe handler
func NewRecipeHandler(recipeService *service.RecipeService) *RecipeHandler {
	return &RecipeHandler{recipeService: recipeService}
}

type recipeRequest struct {
	Title        string `json:"title"`
	Ingredients  string `json:"ingredients"`
	Instructions string `json:"instructions"`
	Visibility   string `json:"visibility"`
}

// CreateRecipe creates a recipe for the authenticated user
func (h *RecipeHandler) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req recipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	recipe, err := h.recipeService.CreateRecipe(user.ID, req.Title, req.Ingredients, req.Instructions, req.Visibility)
	if err != nil {
		respondServiceError(w, "Failed to create recipe", err)
		return
	}

	respondJSON(w, http.StatusCreated, recipe)
}

// GetRecipe returns a single recipe, subject to visibility rules
func (h *RecipeHandler) GetRecipe(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	recipeID, err := parseID(r.PathValue("recipeID"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid recipe id", "", err)
		return
	}

	recipe, err := h.recipeService.GetRecipe(user.ID, recipeID)
	if err != nil {
		respondServiceError(w, "Failed to get recipe", err)
		return
	}

	respondJSON(w, http.StatusOK, recipe)
}

// GetOwnRecipes returns the authenticated user's recipes
func (h *RecipeHandler) GetOwnRecipes(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	recipes, err := h.recipeService.GetOwnRecipes(user.ID)
	if err != nil {
		respondServiceError(w, "Failed to get recipes", err)
		return
	}

	respondJSON(w, http.StatusOK, recipes)
}

// GetRecipesOf returns another person's recipes the viewer may see
func (h *RecipeHandler) GetRecipesOf(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	personID, err := parseID(r.PathValue("personID"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid person id", "", err)
		return
	}

	recipes, err := h.recipeService.GetRecipesOf(user.ID, personID)
	if err != nil {
		respondServiceError(w, "Failed to get recipes", err)
		return
	}

	respondJSON(w, http.StatusOK, recipes)
}

// GetPublicRecipes returns every public recipe
func (h *RecipeHandler) GetPublicRecipes(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.recipeService.GetPublicRecipes()
	if err != nil {
		respondServiceError(w, "Failed to get recipes", err)
		return
	}

	respondJSON(w, http.StatusOK, recipes)
}

// UpdateRecipe updates one of the authenticated user's recipes
func (h *RecipeHandler) UpdateRecipe(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	recipeID, err := parseID(r.PathValue("recipeID"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid recipe id", "", err)
		return
	}

	var req recipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	recipe, err := h.recipeService.UpdateRecipe(user.ID, recipeID, req.Title, req.Ingredients, req.Instructions, req.Visibility)
	if err != nil {
		respondServiceError(w, "Failed to update recipe", err)
		return
	}

	respondJSON(w, http.StatusOK, recipe)
}

// DeleteRecipe deletes one of the authenticated user's recipes
func (h *RecipeHandler) DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	recipeID, err := parseID(r.PathValue("recipeID"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid recipe id", "", err)
		return
	}

	if err := h.recipeService.DeleteRecipe(user.ID, recipeID); err != nil {
		respondServiceError(w, "Failed to delete recipe", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
