package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"recipe-service/auth"
	"recipe-service/cache"
	"recipe-service/models"

	"github.com/umakantv/go-utils/errs"
	"go.uber.org/zap"
)

// RecipeStore is what the recipe handlers need from the recipe repository.
type RecipeStore interface {
	Create(ctx context.Context, owner *models.User, in models.NewRecipe) (*models.Recipe, error)
	ListAll(ctx context.Context) ([]models.Recipe, error)
	Version(ctx context.Context) (int64, error)
}

// RecipeHandler serves /recipes. Both methods run behind the auth gate.
type RecipeHandler struct {
	recipes RecipeStore
	cache   cache.RecipeListCache
}

// NewRecipeHandler creates a new recipe handler
func NewRecipeHandler(recipes RecipeStore, recipeCache cache.RecipeListCache) *RecipeHandler {
	if recipeCache == nil {
		recipeCache = cache.NopCache{}
	}
	return &RecipeHandler{
		recipes: recipes,
		cache:   recipeCache,
	}
}

// GetRecipes handles GET /recipes - list every recipe with its owner.
func (h *RecipeHandler) GetRecipes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logRequest(r, "info", "Listing recipes")

	// Read before ListAll so a list is never filed under a version newer
	// than its contents.
	version, versionErr := h.recipes.Version(ctx)
	if versionErr != nil {
		logRequest(r, "error", "Recipe version lookup failed, bypassing cache", zap.Error(versionErr))
	} else {
		cached, err := h.cache.Lookup(ctx, version)
		if err != nil {
			logRequest(r, "error", "Recipe cache lookup failed", zap.Error(err))
		} else if cached != nil {
			logRequest(r, "debug", "Serving recipes from cache", zap.Int64("version", version))
			writeRaw(w, http.StatusOK, cached)
			return
		}
	}

	recipes, err := h.recipes.ListAll(ctx)
	if err != nil {
		writeError(w, r, err, http.StatusInternalServerError)
		return
	}

	response, err := json.Marshal(recipes)
	if err != nil {
		logRequest(r, "error", "Failed to encode recipes", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errs.NewInternalServerError("Failed to encode recipes"))
		return
	}

	if versionErr == nil {
		if err := h.cache.Store(ctx, version, response); err != nil {
			logRequest(r, "error", "Recipe cache store failed", zap.Error(err))
		}
	}

	logRequest(r, "info", "Recipes retrieved successfully", zap.Int("count", len(recipes)))
	writeRaw(w, http.StatusOK, response)
}

// CreateRecipe handles POST /recipes - create a recipe owned by the caller.
func (h *RecipeHandler) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, ok := auth.ActorFromContext(ctx)
	if !ok {
		writeUnauthenticated(w, r)
		return
	}

	var req models.CreateRecipeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	logRequest(r, "info", "Creating recipe", zap.String("title", req.Title))

	recipe, err := h.recipes.Create(ctx, actor, models.NewRecipe{
		Title:             req.Title,
		Instructions:      req.Instructions,
		MinutesToComplete: req.MinutesToComplete,
	})
	if err != nil {
		writeError(w, r, err, http.StatusUnprocessableEntity)
		return
	}

	logRequest(r, "info", "Recipe created successfully", zap.Int64("recipe_id", recipe.ID))
	writeJSON(w, http.StatusCreated, recipe)
}
