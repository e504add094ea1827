package dto

// ForgotPasswordReq is the body of POST /api/auth/forgot-password.
type ForgotPasswordReq struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordReq is the body of POST /api/auth/reset-password/:token.
type ResetPasswordReq struct {
	Password string `json:"password" binding:"required,min=8,max=72"`
}
