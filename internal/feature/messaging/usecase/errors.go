package usecase

import "heartlink/internal/shared/apperr"

var (
	ErrContentRequired = apperr.New(apperr.InvalidArgument, "Match ID and message content are required")
	ErrContentTooLong  = apperr.New(apperr.InvalidArgument, "Message must be at most 1000 characters")
)
