// Package dto defines request bodies for the auth feature's HTTP transport layer.
package dto

// SignupReq is the body of POST /api/auth/signup.
type SignupReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}
