// Package usecase implements the business logic for the favorites feature.
package usecase

import "errors"

var (
	// ErrAlreadyFavorited is returned when the user already has a favorite for the country code.
	ErrAlreadyFavorited = errors.New("country already in favorites")

	// ErrFavoriteNotFound is returned when no favorite exists for the user and country code.
	ErrFavoriteNotFound = errors.New("favorite not found")

	// ErrMissingFields is returned when code, name or flag is empty after trimming.
	ErrMissingFields = errors.New("missing country fields")
)
