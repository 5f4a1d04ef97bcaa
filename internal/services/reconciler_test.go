package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanvirhm/recipe-vault/backend/internal/models"
	"github.com/tanvirhm/recipe-vault/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeUserRepo is an in-memory UserRepository with the same sentinel-error
// semantics as the Mongo implementation.
type fakeUserRepo struct {
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (r *fakeUserRepo) addUser(name, email string) string {
	user := &models.User{
		ID:             primitive.NewObjectID(),
		Name:           name,
		Email:          email,
		SavedRecipeIDs: []string{},
	}
	r.users[user.ID.Hex()] = user
	return user.ID.Hex()
}

func (r *fakeUserRepo) CreateUser(ctx context.Context, user *models.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return repositories.ErrDuplicateEmail
		}
	}
	user.ID = primitive.NewObjectID()
	r.users[user.ID.Hex()] = user
	return nil
}

func (r *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) AddSavedRecipe(ctx context.Context, userID, apiID string) error {
	u, ok := r.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	for _, id := range u.SavedRecipeIDs {
		if id == apiID {
			return repositories.ErrAlreadySaved
		}
	}
	u.SavedRecipeIDs = append(u.SavedRecipeIDs, apiID)
	return nil
}

func (r *fakeUserRepo) RemoveSavedRecipe(ctx context.Context, userID, apiID string) error {
	u, ok := r.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	for i, id := range u.SavedRecipeIDs {
		if id == apiID {
			u.SavedRecipeIDs = append(u.SavedRecipeIDs[:i], u.SavedRecipeIDs[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotSaved
}

// fakeRecipeRepo is an in-memory RecipeRepository with reference counting.
type fakeRecipeRepo struct {
	recipes map[string]*models.Recipe
}

func newFakeRecipeRepo() *fakeRecipeRepo {
	return &fakeRecipeRepo{recipes: make(map[string]*models.Recipe)}
}

func (r *fakeRecipeRepo) GetByAPIID(ctx context.Context, apiID string) (*models.Recipe, error) {
	recipe, ok := r.recipes[apiID]
	if !ok {
		return nil, repositories.ErrRecipeNotFound
	}
	return recipe, nil
}

func (r *fakeRecipeRepo) GetByAPIIDs(ctx context.Context, apiIDs []string) (map[string]models.Recipe, error) {
	result := make(map[string]models.Recipe)
	for _, id := range apiIDs {
		if recipe, ok := r.recipes[id]; ok {
			result[id] = *recipe
		}
	}
	return result, nil
}

func (r *fakeRecipeRepo) AcquireRef(ctx context.Context, apiID, title, image string) error {
	if recipe, ok := r.recipes[apiID]; ok {
		recipe.Refs++
		return nil
	}
	r.recipes[apiID] = &models.Recipe{APIID: apiID, Title: title, Image: image, Refs: 1}
	return nil
}

func (r *fakeRecipeRepo) ReleaseRef(ctx context.Context, apiID string) error {
	recipe, ok := r.recipes[apiID]
	if !ok {
		return repositories.ErrRecipeNotFound
	}
	recipe.Refs--
	if recipe.Refs <= 0 {
		delete(r.recipes, apiID)
	}
	return nil
}

func newTestReconciler() (*Reconciler, *fakeUserRepo, *fakeRecipeRepo) {
	users := newFakeUserRepo()
	recipes := newFakeRecipeRepo()
	return NewReconciler(users, recipes), users, recipes
}

func TestSaveThenListIncludesRecipeOnce(t *testing.T) {
	svc, users, _ := newTestReconciler()
	userID := users.addUser("Alice", "alice@example.com")

	summary, err := svc.Save(context.Background(), userID, "716429", "Pasta", "x.jpg")
	require.NoError(t, err)
	assert.Equal(t, "716429", summary.APIID)

	list, err := svc.List(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.RecipeSummary{APIID: "716429", Title: "Pasta", Image: "x.jpg"}, list[0])
}

func TestSaveDuplicateIsConflict(t *testing.T) {
	svc, users, _ := newTestReconciler()
	userID := users.addUser("Alice", "alice@example.com")

	_, err := svc.Save(context.Background(), userID, "716429", "Pasta", "x.jpg")
	require.NoError(t, err)

	_, err = svc.Save(context.Background(), userID, "716429", "Pasta", "x.jpg")
	require.ErrorIs(t, err, repositories.ErrAlreadySaved)

	list, err := svc.List(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, list, 1, "rejected duplicate save must not duplicate the entry")
}

func TestSaveMissingFields(t *testing.T) {
	svc, users, _ := newTestReconciler()
	userID := users.addUser("Alice", "alice@example.com")

	for _, tc := range []struct{ apiID, title, image string }{
		{"", "Pasta", "x.jpg"},
		{"716429", "", "x.jpg"},
		{"716429", "Pasta", ""},
	} {
		_, err := svc.Save(context.Background(), userID, tc.apiID, tc.title, tc.image)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
}

func TestUnsaveNeverSavedIsNotFound(t *testing.T) {
	svc, users, recipes := newTestReconciler()
	userID := users.addUser("Alice", "alice@example.com")

	err := svc.Unsave(context.Background(), userID, "716429")
	require.ErrorIs(t, err, repositories.ErrNotSaved)

	assert.Empty(t, users.users[userID].SavedRecipeIDs)
	assert.Empty(t, recipes.recipes)
}

func TestUnsaveLastReferenceRemovesCacheEntry(t *testing.T) {
	svc, users, recipes := newTestReconciler()
	userID := users.addUser("Alice", "alice@example.com")

	_, err := svc.Save(context.Background(), userID, "716429", "Pasta", "x.jpg")
	require.NoError(t, err)

	err = svc.Unsave(context.Background(), userID, "716429")
	require.NoError(t, err)

	list, err := svc.List(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = recipes.GetByAPIID(context.Background(), "716429")
	assert.ErrorIs(t, err, repositories.ErrRecipeNotFound, "last unsave must garbage-collect the cache entry")

	// An independent save by another user recreates the entry.
	otherID := users.addUser("Bob", "bob@example.com")
	_, err = svc.Save(context.Background(), otherID, "716429", "Pasta", "x.jpg")
	require.NoError(t, err)

	recipe, err := recipes.GetByAPIID(context.Background(), "716429")
	require.NoError(t, err)
	assert.Equal(t, int64(1), recipe.Refs)
}

func TestTwoUsersSaveSameRecipe(t *testing.T) {
	svc, users, recipes := newTestReconciler()
	aliceID := users.addUser("Alice", "alice@example.com")
	bobID := users.addUser("Bob", "bob@example.com")

	_, err := svc.Save(context.Background(), aliceID, "716429", "Pasta", "x.jpg")
	require.NoError(t, err)
	_, err = svc.Save(context.Background(), bobID, "716429", "Pasta", "x.jpg")
	require.NoError(t, err)

	require.Len(t, recipes.recipes, 1, "both saves must share a single cache entry")
	assert.Equal(t, int64(2), recipes.recipes["716429"].Refs)

	for _, userID := range []string{aliceID, bobID} {
		list, err := svc.List(context.Background(), userID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "716429", list[0].APIID)
	}

	// One user unsaving must not evict the entry for the other.
	err = svc.Unsave(context.Background(), aliceID, "716429")
	require.NoError(t, err)

	recipe, err := recipes.GetByAPIID(context.Background(), "716429")
	require.NoError(t, err)
	assert.Equal(t, int64(1), recipe.Refs)
}

func TestListPreservesInsertionOrderAndOmitsDanglingIds(t *testing.T) {
	svc, users, recipes := newTestReconciler()
	userID := users.addUser("Alice", "alice@example.com")

	for _, r := range []struct{ id, title string }{
		{"1", "First"}, {"2", "Second"}, {"3", "Third"},
	} {
		_, err := svc.Save(context.Background(), userID, r.id, r.title, r.title+".jpg")
		require.NoError(t, err)
	}

	// Simulate drift: the middle cache entry vanished while the user's list
	// still references it.
	delete(recipes.recipes, "2")

	list, err := svc.List(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "1", list[0].APIID)
	assert.Equal(t, "3", list[1].APIID)
}

func TestUnsaveSucceedsWhenCacheEntryAlreadyGone(t *testing.T) {
	svc, users, recipes := newTestReconciler()
	userID := users.addUser("Alice", "alice@example.com")

	_, err := svc.Save(context.Background(), userID, "716429", "Pasta", "x.jpg")
	require.NoError(t, err)

	// Cache entry lost out of band; cleanup is best-effort and must not fail
	// the unsave.
	delete(recipes.recipes, "716429")

	err = svc.Unsave(context.Background(), userID, "716429")
	require.NoError(t, err)
	assert.Empty(t, users.users[userID].SavedRecipeIDs)
}

func TestListUnknownUser(t *testing.T) {
	svc, _, _ := newTestReconciler()

	_, err := svc.List(context.Background(), primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, repositories.ErrUserNotFound)
}
