// Package dto defines request and response bodies for the match feature's HTTP transport layer.
package dto

import (
	"time"

	"heartlink/internal/api"
)

// DecisionReq is the body of POST /api/match/action.
// Values are checked by the usecase so that malformed ids and actions get specific messages.
type DecisionReq struct {
	TargetUserID string `json:"targetUserId"`
	Action       string `json:"action"`
}

// EmailActionQuery carries the like/pass link embedded in like notification emails.
type EmailActionQuery struct {
	Action string `form:"action"`
	UserID string `form:"userId"`
}

type DecisionRes struct {
	Message string `json:"message"`
	IsMatch bool   `json:"isMatch"`
}

// MatchUser is the counterpart card shown in the match list.
type MatchUser struct {
	ID             string `json:"_id"`
	Name           string `json:"name"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}

type MatchRes struct {
	MatchID   string     `json:"matchId"`
	User      *MatchUser `json:"user"`
	CreatedAt time.Time  `json:"createdAt"`
}

// CandidatesRes is the candidate list.
type CandidatesRes []api.PublicProfile
