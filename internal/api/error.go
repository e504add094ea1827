package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"heartlink/internal/shared/apperr"
)

// StatusOf maps an error kind to an HTTP status.
func StatusOf(kind apperr.Kind) int {
	switch kind {
	case apperr.InvalidArgument:
		return http.StatusBadRequest
	case apperr.NotFound:
		return http.StatusNotFound
	case apperr.Conflict:
		return http.StatusConflict
	case apperr.Unauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes err as an ErrorResponse. Internal errors are logged
// at error level and replaced by a generic message; the rest at warn.
func RespondError(c *gin.Context, op string, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.Internal {
		slog.Error(op+" failed", "error", err, "path", c.FullPath(), "remote_addr", c.ClientIP())
	} else {
		slog.Warn(op+" rejected", "error", err, "path", c.FullPath(), "remote_addr", c.ClientIP())
	}
	c.JSON(StatusOf(kind), ErrorResponse{
		Message: apperr.MessageOf(err, "Server error"),
		Code:    kind.String(),
	})
}

// RespondBindError writes a 400 for a request that failed binding or validation.
func RespondBindError(c *gin.Context, op string, err error) {
	slog.Warn(op+" validation failed", "error", err, "remote_addr", c.ClientIP())
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Message: ValidationMessage(err),
		Code:    apperr.InvalidArgument.String(),
	})
}
