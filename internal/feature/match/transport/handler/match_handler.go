// Package handler provides HTTP handlers for the match feature.
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"heartlink/internal/api"
	"heartlink/internal/domain/entity"
	"heartlink/internal/feature/match/transport/http/dto"
	"heartlink/internal/feature/match/usecase"
)

type MatchUsecase interface {
	GetCandidates(ctx context.Context, userID string) ([]*entity.User, error)
	RecordDecision(ctx context.Context, actorID, targetID, action string) (*usecase.DecisionResult, error)
	ListMutualMatches(ctx context.Context, userID string) ([]usecase.MutualMatch, error)
}

// MatchHandler serves /api/match.
type MatchHandler struct {
	matches MatchUsecase
}

func NewMatchHandler(matches MatchUsecase) *MatchHandler {
	return &MatchHandler{matches: matches}
}

// RegisterRoutes mounts the match routes on rg, which must require authentication.
func (h *MatchHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/potential", h.Candidates)
	rg.POST("/action", h.Decide)
	rg.GET("/email-action", h.EmailAction)
	rg.GET("", h.List)
}

// Candidates handles GET /potential.
func (h *MatchHandler) Candidates(c *gin.Context) {
	userID, ok := api.Caller(c)
	if !ok {
		return
	}
	users, err := h.matches.GetCandidates(c.Request.Context(), userID)
	if err != nil {
		api.RespondError(c, "get candidates", err)
		return
	}
	out := make(dto.CandidatesRes, 0, len(users))
	for _, u := range users {
		out = append(out, api.NewPublicProfile(u))
	}
	c.JSON(http.StatusOK, out)
}

// Decide handles POST /action.
func (h *MatchHandler) Decide(c *gin.Context) {
	userID, ok := api.Caller(c)
	if !ok {
		return
	}
	var req dto.DecisionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondBindError(c, "match action", err)
		return
	}
	h.decide(c, userID, req.TargetUserID, req.Action)
}

// EmailAction handles GET /email-action?action=like&userId=<id>, the link sent in like emails.
func (h *MatchHandler) EmailAction(c *gin.Context) {
	userID, ok := api.Caller(c)
	if !ok {
		return
	}
	var q dto.EmailActionQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		api.RespondBindError(c, "match email action", err)
		return
	}
	h.decide(c, userID, q.UserID, q.Action)
}

func (h *MatchHandler) decide(c *gin.Context, userID, targetID, action string) {
	res, err := h.matches.RecordDecision(c.Request.Context(), userID, targetID, action)
	if err != nil {
		api.RespondError(c, "match action", err)
		return
	}
	msg := "User passed"
	if res.Decision == entity.DecisionLike {
		msg = "User liked"
	}
	c.JSON(http.StatusOK, dto.DecisionRes{Message: msg, IsMatch: res.IsMatch})
}

// List handles GET / and returns the caller's mutual matches.
func (h *MatchHandler) List(c *gin.Context) {
	userID, ok := api.Caller(c)
	if !ok {
		return
	}
	matches, err := h.matches.ListMutualMatches(c.Request.Context(), userID)
	if err != nil {
		api.RespondError(c, "list matches", err)
		return
	}
	out := make([]dto.MatchRes, 0, len(matches))
	for _, m := range matches {
		res := dto.MatchRes{MatchID: m.MatchID, CreatedAt: m.CreatedAt}
		if m.User != nil {
			res.User = &dto.MatchUser{ID: m.User.ID, Name: m.User.Name, ProfilePicture: m.User.ProfilePicture}
		}
		out = append(out, res)
	}
	c.JSON(http.StatusOK, out)
}
