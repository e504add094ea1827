// Package domain holds errors shared by adapters and usecases of every feature.
package domain

import "heartlink/internal/shared/apperr"

var (
	// ErrUserNotFound is returned by user stores when no user matches.
	ErrUserNotFound = apperr.New(apperr.NotFound, "User not found")

	// ErrEmailAlreadyExists is returned when a user with the same email exists.
	ErrEmailAlreadyExists = apperr.New(apperr.Conflict, "User already exists")

	// ErrMatchNotFound is returned when a match is absent or the caller is not allowed to see it.
	// Foreign and non-mutual matches are reported with the same error.
	ErrMatchNotFound = apperr.New(apperr.NotFound, "Match not found or you are not part of this match")
)
