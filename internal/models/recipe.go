package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Recipe is a cached copy of a recipe fetched from the external search
// provider, shared across all users that saved it. Display fields are written
// once on first save and never updated; Refs counts the users currently
// referencing the entry and the document is removed when it reaches zero.
type Recipe struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	APIID     string             `json:"apiId" bson:"apiId"` // unique index, join key to User.SavedRecipeIDs
	Title     string             `json:"title" bson:"title"`
	Image     string             `json:"image" bson:"image"`
	Refs      int64              `json:"-" bson:"refs"`
	CreatedAt time.Time          `json:"created_at" bson:"createdAt"`
}

// RecipeSummary is the display shape returned by search and saved-list endpoints.
type RecipeSummary struct {
	APIID string `json:"apiId"`
	Title string `json:"title"`
	Image string `json:"image"`
}

type SaveRecipeRequest struct {
	RecipeID string `json:"recipeId" validate:"required"`
	Title    string `json:"title" validate:"required"`
	Image    string `json:"image" validate:"required"`
}
