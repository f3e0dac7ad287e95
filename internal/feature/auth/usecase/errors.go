// Package usecase implements the business logic for the auth feature.
package usecase

import "errors"

var (
	// ErrUserNotFound is returned when a user cannot be found by email, username or ID.
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists is returned when the username or email is already registered.
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrInvalidCredentials is returned for any login failure.
	// Unknown users and wrong passwords are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrWeakPassword is returned when the password is shorter than the minimum length.
	ErrWeakPassword = errors.New("password too short")

	// ErrPasswordTooLong is returned when the password exceeds MaxPasswordBytes.
	ErrPasswordTooLong = errors.New("password too long")

	// ErrInvalidUsername is returned when the trimmed username is out of range or contains "@".
	ErrInvalidUsername = errors.New("invalid username")
)
