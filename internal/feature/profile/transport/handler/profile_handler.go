// Package handler provides HTTP handlers for the profile feature.
package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"heartlink/internal/api"
	"heartlink/internal/domain/entity"
	"heartlink/internal/feature/profile/transport/http/dto"
	"heartlink/internal/feature/profile/usecase"
)

// multipart headers and boundaries on top of the picture itself
const formOverhead = 1 << 20

type ProfileUsecase interface {
	GetProfile(ctx context.Context, userID string) (*entity.User, error)
	CreateProfile(ctx context.Context, userID string, in entity.ProfileUpdate) (*entity.User, error)
	UpdateProfile(ctx context.Context, userID string, in entity.ProfileUpdate) (*entity.User, error)
	UploadPicture(ctx context.Context, userID, contentType string, data []byte) (string, error)
}

// ProfileHandler serves /api/profile.
type ProfileHandler struct {
	profiles ProfileUsecase
}

func NewProfileHandler(profiles ProfileUsecase) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// RegisterRoutes mounts the profile routes on rg, which must require authentication.
func (h *ProfileHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", h.Get)
	rg.POST("/me", h.Create)
	rg.PATCH("/me", h.Update)
	rg.POST("/me/picture", h.UploadPicture)
}

// Get handles GET /me.
func (h *ProfileHandler) Get(c *gin.Context) {
	userID, ok := api.Caller(c)
	if !ok {
		return
	}
	u, err := h.profiles.GetProfile(c.Request.Context(), userID)
	if err != nil {
		api.RespondError(c, "get profile", err)
		return
	}
	c.JSON(http.StatusOK, api.NewOwnProfile(u))
}

// Create handles POST /me.
func (h *ProfileHandler) Create(c *gin.Context) {
	h.write(c, "create profile", http.StatusCreated, h.profiles.CreateProfile)
}

// Update handles PATCH /me.
func (h *ProfileHandler) Update(c *gin.Context) {
	h.write(c, "update profile", http.StatusOK, h.profiles.UpdateProfile)
}

func (h *ProfileHandler) write(c *gin.Context, op string, status int,
	fn func(ctx context.Context, userID string, in entity.ProfileUpdate) (*entity.User, error)) {
	userID, ok := api.Caller(c)
	if !ok {
		return
	}
	var req dto.ProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondBindError(c, op, err)
		return
	}
	u, err := fn(c.Request.Context(), userID, req.ToUpdate())
	if err != nil {
		api.RespondError(c, op, err)
		return
	}
	c.JSON(status, api.NewOwnProfile(u))
}

// UploadPicture handles POST /me/picture with a multipart "picture" field.
func (h *ProfileHandler) UploadPicture(c *gin.Context) {
	userID, ok := api.Caller(c)
	if !ok {
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, usecase.MaxPictureSize+formOverhead)

	fh, err := c.FormFile("picture")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			api.RespondError(c, "upload picture", usecase.ErrPictureTooLarge)
			return
		}
		api.RespondError(c, "upload picture", usecase.ErrNoPicture)
		return
	}
	if fh.Size > usecase.MaxPictureSize {
		api.RespondError(c, "upload picture", usecase.ErrPictureTooLarge)
		return
	}
	f, err := fh.Open()
	if err != nil {
		api.RespondError(c, "upload picture", err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, usecase.MaxPictureSize+1))
	if err != nil {
		api.RespondError(c, "upload picture", err)
		return
	}

	url, err := h.profiles.UploadPicture(c.Request.Context(), userID, http.DetectContentType(data), data)
	if err != nil {
		api.RespondError(c, "upload picture", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profilePicture": url})
}
