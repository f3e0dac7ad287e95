// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// User represents a registered account.
type User struct {
	// ID is a UUIDv7 assigned by the usecase at registration.
	ID string

	// Username is unique across all users.
	Username string

	// Email is stored trimmed and lowercased. It is unique across all users.
	Email string

	// PasswordHash is the bcrypt hash of the password. Plaintext is never stored.
	PasswordHash string

	CreatedAt time.Time
}
