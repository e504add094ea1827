// Package handler provides HTTP handlers for the auth feature.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"heartlink/internal/api"
	"heartlink/internal/feature/auth/transport/http/dto"
)

// AuthUsecase is the auth behaviour the handler depends on.
type AuthUsecase interface {
	Signup(ctx context.Context, email, password string) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	VerifyEmail(ctx context.Context, token string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password string) error
}

// AuthHandler serves /api/auth.
type AuthHandler struct {
	auth AuthUsecase
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// RegisterRoutes mounts the public auth routes on rg.
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/signup", h.Signup)
	rg.POST("/login", h.Login)
	rg.GET("/verify-email/:token", h.VerifyEmail)
	rg.POST("/forgot-password", h.ForgotPassword)
	rg.POST("/reset-password/:token", h.ResetPassword)
}

// Signup handles POST /signup and returns 201 with a session token.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondBindError(c, "signup", err)
		return
	}
	token, err := h.auth.Signup(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		api.RespondError(c, "signup", err)
		return
	}
	slog.Info("user signup successful", "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, api.TokenResponse{
		Message: "User created. Please verify your email.",
		Token:   token,
	})
}

// Login handles POST /login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondBindError(c, "login", err)
		return
	}
	token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		api.RespondError(c, "login", err)
		return
	}
	slog.Info("user login successful", "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, api.TokenResponse{Token: token})
}

// VerifyEmail handles GET /verify-email/:token.
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	if err := h.auth.VerifyEmail(c.Request.Context(), c.Param("token")); err != nil {
		api.RespondError(c, "verify email", err)
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: "Email verified successfully"})
}

// ForgotPassword handles POST /forgot-password.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req dto.ForgotPasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondBindError(c, "forgot password", err)
		return
	}
	if err := h.auth.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		api.RespondError(c, "forgot password", err)
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: "Password reset email sent"})
}

// ResetPassword handles POST /reset-password/:token.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondBindError(c, "reset password", err)
		return
	}
	if err := h.auth.ResetPassword(c.Request.Context(), c.Param("token"), req.Password); err != nil {
		api.RespondError(c, "reset password", err)
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: "Password reset successful"})
}
