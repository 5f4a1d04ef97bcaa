package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tanvirhm/recipe-vault/backend/internal/auth"
	"github.com/tanvirhm/recipe-vault/backend/internal/middleware"
	"github.com/tanvirhm/recipe-vault/backend/internal/models"
	"github.com/tanvirhm/recipe-vault/backend/internal/repositories"
	"github.com/tanvirhm/recipe-vault/backend/internal/services"
)

// RecipeHandler handles recipe search and saved-list HTTP requests
type RecipeHandler struct {
	reconciler   *services.Reconciler
	searchClient *services.SearchClient
}

// NewRecipeHandler creates a new RecipeHandler
func NewRecipeHandler(reconciler *services.Reconciler, searchClient *services.SearchClient) *RecipeHandler {
	return &RecipeHandler{
		reconciler:   reconciler,
		searchClient: searchClient,
	}
}

// RegisterPublicRoutes registers recipe routes that need no session
func (h *RecipeHandler) RegisterPublicRoutes(g *echo.Group) {
	g.GET("/search", h.Search)
}

// RegisterProtectedRoutes registers recipe routes behind the JWT middleware
func (h *RecipeHandler) RegisterProtectedRoutes(g *echo.Group) {
	g.GET("/all-recipes", h.ListSaved)
	g.POST("/save-recipe", h.SaveRecipe)
	g.DELETE("/delete-recipe/:recipeId", h.DeleteRecipe)
}

// Search forwards a keyword query to the external recipe provider
func (h *RecipeHandler) Search(c echo.Context) error {
	results, err := h.searchClient.Search(c.Request().Context(), c.QueryParam("query"))
	if err != nil {
		if errors.Is(err, services.ErrEmptyQuery) {
			return echo.NewHTTPError(http.StatusBadRequest, "Search query is required")
		}
		return echo.NewHTTPError(http.StatusBadGateway, "Recipe search is currently unavailable")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    results,
	})
}

// ListSaved returns the current user's saved recipes
func (h *RecipeHandler) ListSaved(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	recipes, err := h.reconciler.List(c.Request().Context(), currentUserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not exist")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load saved recipes")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    recipes,
	})
}

// SaveRecipe saves a recipe to the current user's list
func (h *RecipeHandler) SaveRecipe(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.SaveRecipeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "recipeId, title and image are required")
	}

	summary, err := h.reconciler.Save(c.Request().Context(), currentUserID, req.RecipeID, req.Title, req.Image)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidInput):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, repositories.ErrAlreadySaved):
			return echo.NewHTTPError(http.StatusConflict, "Recipe already saved")
		case errors.Is(err, repositories.ErrUserNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "User not exist")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to save recipe")
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Recipe saved successfully",
		"data":    summary,
	})
}

// DeleteRecipe removes a recipe from the current user's list
func (h *RecipeHandler) DeleteRecipe(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	recipeID := c.Param("recipeId")
	if recipeID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Recipe ID is required")
	}

	if err := h.reconciler.Unsave(c.Request().Context(), currentUserID, recipeID); err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotSaved):
			return echo.NewHTTPError(http.StatusNotFound, "Recipe not found in saved list")
		case errors.Is(err, repositories.ErrUserNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "User not exist")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete recipe")
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Recipe deleted successfully",
	})
}

// getUserIDFromContext extracts the authenticated user id set by the JWT middleware
func getUserIDFromContext(c echo.Context) string {
	claims, ok := c.Get(middleware.ClaimsContextKey).(*auth.Claims)
	if !ok {
		return ""
	}
	return claims.UserID
}
