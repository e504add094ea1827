package usecase

import "heartlink/internal/shared/apperr"

var (
	ErrProfileExists  = apperr.New(apperr.Conflict, "Profile already exists. Use update endpoint.")
	ErrProfileMissing = apperr.New(apperr.InvalidArgument, "Profile does not exist. Use create endpoint first.")
	ErrNameAgeMissing = apperr.New(apperr.InvalidArgument, "Name and age are required")

	ErrInvalidName      = apperr.New(apperr.InvalidArgument, "Name must be between 1 and 100 characters")
	ErrInvalidAge       = apperr.New(apperr.InvalidArgument, "Age must be between 18 and 100")
	ErrInvalidGender    = apperr.New(apperr.InvalidArgument, "Gender must be one of male, female, other")
	ErrBioTooLong       = apperr.New(apperr.InvalidArgument, "Bio must be at most 500 characters")
	ErrInvalidInterests = apperr.New(apperr.InvalidArgument, "Invalid interests provided")
	ErrInvalidLocation  = apperr.New(apperr.InvalidArgument, "Invalid location coordinates")
	ErrMinAgePreference = apperr.New(apperr.InvalidArgument, "Minimum age preference must be at least 18")
	ErrMaxAgePreference = apperr.New(apperr.InvalidArgument, "Maximum age preference must be greater than minimum age")
	ErrInvalidDistance  = apperr.New(apperr.InvalidArgument, "Maximum distance must be positive")
	ErrInvalidGenders   = apperr.New(apperr.InvalidArgument, "Invalid gender preference provided")

	ErrNoPicture       = apperr.New(apperr.InvalidArgument, "No file uploaded")
	ErrNotAnImage      = apperr.New(apperr.InvalidArgument, "Only image files are allowed")
	ErrPictureTooLarge = apperr.New(apperr.InvalidArgument, "File too large (max 5MB)")
	// ErrPictureRejected is returned by moderators for unsafe images.
	ErrPictureRejected = apperr.New(apperr.InvalidArgument, "Image rejected by content moderation")
	ErrUploadsDisabled = apperr.New(apperr.Internal, "picture storage is not configured")
)
