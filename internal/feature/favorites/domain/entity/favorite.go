// Package entity defines the domain entities for the favorites feature.
package entity

import "time"

// Country is the snapshot of a country saved with a favorite.
// Code is the key; Name and Flag are stored as given at creation time.
type Country struct {
	Code string
	Name string
	Flag string
}

// Favorite is a user's saved reference to a country.
// At most one Favorite exists per (UserID, Country.Code).
type Favorite struct {
	ID        string
	UserID    string
	Country   Country
	CreatedAt time.Time
}
