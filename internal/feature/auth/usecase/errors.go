package usecase

import "heartlink/internal/shared/apperr"

var (
	// ErrInvalidCredentials is returned for an unknown email or a wrong password.
	ErrInvalidCredentials = apperr.New(apperr.Unauthenticated, "Invalid credentials")

	// ErrEmailNotVerified is returned when the password is correct but the email was never verified.
	ErrEmailNotVerified = apperr.New(apperr.Unauthenticated, "Please verify your email first")

	// ErrInvalidVerificationToken is returned when no user holds the verification token.
	ErrInvalidVerificationToken = apperr.New(apperr.InvalidArgument, "Invalid verification token")

	// ErrInvalidResetToken is returned when the reset token is unknown or expired.
	ErrInvalidResetToken = apperr.New(apperr.InvalidArgument, "Invalid or expired reset token")

	// ErrWeakPassword is returned when the password is shorter than minPasswordLength.
	ErrWeakPassword = apperr.New(apperr.InvalidArgument, "Password must be at least 8 characters long")

	// ErrPasswordTooLong is returned when the password exceeds maxPasswordLength bytes.
	ErrPasswordTooLong = apperr.New(apperr.InvalidArgument, "Password must be at most 72 bytes long")
)
