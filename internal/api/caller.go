package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	jwtmw "heartlink/internal/platform/jwt"
	"heartlink/internal/shared/apperr"
)

// Caller returns the authenticated user id, or writes a 401 and returns false
// when the route was mounted without jwtmw.AuthRequired.
func Caller(c *gin.Context) (string, bool) {
	id, ok := jwtmw.UserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
			Message: "Authentication required",
			Code:    apperr.Unauthenticated.String(),
		})
	}
	return id, ok
}
