package usecase

import "heartlink/internal/shared/apperr"

var (
	ErrInvalidTarget   = apperr.New(apperr.InvalidArgument, "Invalid user ID")
	ErrInvalidDecision = apperr.New(apperr.InvalidArgument, `Action must be either "like" or "pass"`)
	ErrSelfDecision    = apperr.New(apperr.InvalidArgument, "You cannot like or pass yourself")
)
