package repositories

import "errors"

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already registered")
	ErrAlreadySaved   = errors.New("recipe already saved")
	ErrNotSaved       = errors.New("recipe not in saved list")
	ErrRecipeNotFound = errors.New("recipe not found")
)
