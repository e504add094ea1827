// Package usecase implements signup, login, email verification and password reset.
package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"heartlink/internal/domain"
	"heartlink/internal/domain/entity"
	notification "heartlink/internal/feature/notification/domain"
)

const (
	minPasswordLength = 8
	// bcrypt rejects longer inputs
	maxPasswordLength = 72
	resetTokenTTL     = time.Hour
	tokenBytes        = 32

	// dummyHash keeps Login timing identical for unknown emails.
	dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"
)

// UserRepository is the credential store as seen by auth.
type UserRepository interface {
	// Create inserts u and assigns its ID. Returns domain.ErrEmailAlreadyExists on duplicates.
	Create(ctx context.Context, u *entity.User) error
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByVerificationToken(ctx context.Context, token string) (*entity.User, error)
	// FindByResetToken only matches tokens whose expiry is after now.
	FindByResetToken(ctx context.Context, token string, now time.Time) (*entity.User, error)
	// MarkEmailVerified sets the verified flag and clears the verification token.
	MarkEmailVerified(ctx context.Context, id string) error
	SetResetToken(ctx context.Context, id, token string, expires time.Time) error
	// UpdatePassword stores hash and clears the reset token and its expiry.
	UpdatePassword(ctx context.Context, id, hash string) error
}

// TokenGenerator issues session tokens.
type TokenGenerator interface {
	GenerateToken(userID, email string) (string, error)
}

// Notifier hands emails to the notification dispatcher.
type Notifier interface {
	Notify(ctx context.Context, n notification.Notification)
}

type authUsecase struct {
	users    UserRepository
	tokens   TokenGenerator
	notifier Notifier

	now         func() time.Time
	randomToken func() (string, error)
	hashCost    int
}

// NewAuthUsecase creates the auth usecase.
func NewAuthUsecase(users UserRepository, tokens TokenGenerator, notifier Notifier) *authUsecase {
	return &authUsecase{
		users:       users,
		tokens:      tokens,
		notifier:    notifier,
		now:         time.Now,
		randomToken: randomHex,
		hashCost:    bcrypt.DefaultCost,
	}
}

func randomHex() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// NormalizeEmail lowercases and trims email so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return ErrWeakPassword
	}
	if len(password) > maxPasswordLength {
		return ErrPasswordTooLong
	}
	return nil
}

// Signup creates an unverified user, emails the verification link and returns a session token.
func (u *authUsecase) Signup(ctx context.Context, email, password string) (string, error) {
	if err := validatePassword(password); err != nil {
		return "", err
	}
	email = NormalizeEmail(email)

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), u.hashCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	verification, err := u.randomToken()
	if err != nil {
		return "", err
	}

	user := &entity.User{
		Email:             email,
		Password:          string(hashed),
		VerificationToken: verification,
		Preferences:       entity.DefaultPreferences(),
	}
	if err := u.users.Create(ctx, user); err != nil {
		return "", err
	}

	u.notifier.Notify(ctx, notification.Notification{
		Kind:  notification.KindVerification,
		To:    user.Email,
		Token: verification,
	})

	token, err := u.tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}

// Login verifies credentials and returns a session token.
// bcrypt runs even for unknown emails so response time does not reveal registered addresses.
func (u *authUsecase) Login(ctx context.Context, email, password string) (string, error) {
	user, err := u.users.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return "", err
	}

	passwordHash := dummyHash
	if err == nil {
		passwordHash = user.Password
	}
	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))
	if err != nil || compareErr != nil {
		return "", ErrInvalidCredentials
	}
	if !user.IsEmailVerified {
		return "", ErrEmailNotVerified
	}

	token, err := u.tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}

// VerifyEmail consumes a verification token.
func (u *authUsecase) VerifyEmail(ctx context.Context, token string) error {
	if token == "" {
		return ErrInvalidVerificationToken
	}
	user, err := u.users.FindByVerificationToken(ctx, token)
	if errors.Is(err, domain.ErrUserNotFound) {
		return ErrInvalidVerificationToken
	}
	if err != nil {
		return err
	}
	return u.users.MarkEmailVerified(ctx, user.ID)
}

// ForgotPassword issues a one-hour reset token and emails the reset link.
func (u *authUsecase) ForgotPassword(ctx context.Context, email string) error {
	user, err := u.users.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return err
	}

	token, err := u.randomToken()
	if err != nil {
		return err
	}
	if err := u.users.SetResetToken(ctx, user.ID, token, u.now().Add(resetTokenTTL)); err != nil {
		return err
	}

	u.notifier.Notify(ctx, notification.Notification{
		Kind:  notification.KindPasswordReset,
		To:    user.Email,
		Token: token,
	})
	return nil
}

// ResetPassword consumes a reset token and replaces the password.
func (u *authUsecase) ResetPassword(ctx context.Context, token, password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	if token == "" {
		return ErrInvalidResetToken
	}
	user, err := u.users.FindByResetToken(ctx, token, u.now())
	if errors.Is(err, domain.ErrUserNotFound) {
		return ErrInvalidResetToken
	}
	if err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), u.hashCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return u.users.UpdatePassword(ctx, user.ID, string(hashed))
}
