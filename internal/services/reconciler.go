package services

import (
	"context"
	"errors"
	"log"

	"github.com/tanvirhm/recipe-vault/backend/internal/models"
	"github.com/tanvirhm/recipe-vault/backend/internal/repositories"
)

// ErrInvalidInput signals a missing recipe id or display field.
var ErrInvalidInput = errors.New("recipeId, title and image are required")

// Reconciler maintains the invariant between each user's saved-id list and
// the shared recipe cache: a cache entry exists exactly while at least one
// user references it. Per (user, recipe) pair the states are Unsaved and
// Saved, nothing else.
type Reconciler struct {
	userRepository   repositories.UserRepository
	recipeRepository repositories.RecipeRepository
}

// NewReconciler creates a new Reconciler
func NewReconciler(userRepo repositories.UserRepository, recipeRepo repositories.RecipeRepository) *Reconciler {
	return &Reconciler{
		userRepository:   userRepo,
		recipeRepository: recipeRepo,
	}
}

// Save adds the recipe to the user's saved list and ensures a cache entry
// exists for it. A repeat save of the same recipe is rejected with
// repositories.ErrAlreadySaved rather than silently succeeding.
//
// The list append runs first and carries the duplicate guard, so a rejected
// save never touches the cache entry's reference count. The append and the
// cache write are separate single-document updates; a crash between them can
// leave a dangling list entry, which List tolerates by omitting it.
func (s *Reconciler) Save(ctx context.Context, userID, apiID, title, image string) (*models.RecipeSummary, error) {
	if apiID == "" || title == "" || image == "" {
		return nil, ErrInvalidInput
	}

	if err := s.userRepository.AddSavedRecipe(ctx, userID, apiID); err != nil {
		return nil, err
	}

	if err := s.recipeRepository.AcquireRef(ctx, apiID, title, image); err != nil {
		return nil, err
	}

	return &models.RecipeSummary{APIID: apiID, Title: title, Image: image}, nil
}

// List returns the user's saved recipes in insertion order. Ids with no cache
// entry (drift from an interrupted save or a lost unsave race) are omitted.
func (s *Reconciler) List(ctx context.Context, userID string) ([]models.RecipeSummary, error) {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	recipes, err := s.recipeRepository.GetByAPIIDs(ctx, user.SavedRecipeIDs)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.RecipeSummary, 0, len(user.SavedRecipeIDs))
	for _, apiID := range user.SavedRecipeIDs {
		recipe, ok := recipes[apiID]
		if !ok {
			continue
		}
		summaries = append(summaries, models.RecipeSummary{
			APIID: recipe.APIID,
			Title: recipe.Title,
			Image: recipe.Image,
		})
	}
	return summaries, nil
}

// Unsave removes the recipe from the user's saved list and releases its cache
// reference, garbage-collecting the entry when this was the last reference.
// Cleanup is best-effort: once the list removal succeeded the unsave is a
// success even if the release fails.
func (s *Reconciler) Unsave(ctx context.Context, userID, apiID string) error {
	if apiID == "" {
		return ErrInvalidInput
	}

	if err := s.userRepository.RemoveSavedRecipe(ctx, userID, apiID); err != nil {
		return err
	}

	if err := s.recipeRepository.ReleaseRef(ctx, apiID); err != nil {
		log.Printf("Failed to release recipe cache entry %s: %v", apiID, err)
	}
	return nil
}
