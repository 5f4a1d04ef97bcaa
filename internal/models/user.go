package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name           string             `json:"name" bson:"name"`
	Email          string             `json:"email" bson:"email"` // unique index, stored lowercase
	Password       string             `json:"-" bson:"password"`  // bcrypt hash, ignore for JSON serialization
	SavedRecipeIDs []string           `json:"saved_recipe_ids" bson:"savedRecipeIds"`
	CreatedAt      time.Time          `json:"created_at" bson:"createdAt"`
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
