// Package usecase implements candidate discovery, like/pass decisions and the mutual match list.
package usecase

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"heartlink/internal/domain/entity"
	notification "heartlink/internal/feature/notification/domain"
)

// CandidatePageSize is the number of candidates returned per request.
const CandidatePageSize = 20

// UserRepository is the credential store as seen by matching.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*entity.User, error)
	FindByIDs(ctx context.Context, ids []string) (map[string]*entity.User, error)
	ListCandidates(ctx context.Context, excludeID string, limit int) ([]*entity.User, error)
}

// MatchRepository is the match ledger.
type MatchRepository interface {
	// RecordDecision sets actorID's decision on the pair in one atomic step,
	// creating the entry when absent, and returns the entry after the write.
	// IsMatched is recomputed as IsMatched || both liked.
	RecordDecision(ctx context.Context, actorID, targetID string, like bool) (*entity.Match, error)
	// ListMutual returns the matched entries that userID belongs to.
	ListMutual(ctx context.Context, userID string) ([]*entity.Match, error)
}

// Notifier hands emails to the notification dispatcher.
type Notifier interface {
	Notify(ctx context.Context, n notification.Notification)
}

// DecisionResult is the outcome of a like or pass.
type DecisionResult struct {
	Decision entity.Decision
	IsMatch  bool
}

// MutualMatch is a matched pair seen from one member.
type MutualMatch struct {
	MatchID   string
	User      *entity.User
	CreatedAt time.Time
}

type matchUsecase struct {
	users    UserRepository
	matches  MatchRepository
	notifier Notifier
}

// NewMatchUsecase creates the match usecase.
func NewMatchUsecase(users UserRepository, matches MatchRepository, notifier Notifier) *matchUsecase {
	return &matchUsecase{users: users, matches: matches, notifier: notifier}
}

// GetCandidates returns up to CandidatePageSize users other than userID.
func (u *matchUsecase) GetCandidates(ctx context.Context, userID string) ([]*entity.User, error) {
	return u.users.ListCandidates(ctx, userID, CandidatePageSize)
}

// RecordDecision stores actorID's like or pass on targetID.
// A like on someone who has not liked back yet emails them.
func (u *matchUsecase) RecordDecision(ctx context.Context, actorID, targetID, action string) (*DecisionResult, error) {
	if !entity.IsValidID(targetID) {
		return nil, ErrInvalidTarget
	}
	decision, ok := entity.ParseDecision(action)
	if !ok {
		return nil, ErrInvalidDecision
	}
	if targetID == actorID {
		return nil, ErrSelfDecision
	}
	target, err := u.users.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	like := decision == entity.DecisionLike
	m, err := u.matches.RecordDecision(ctx, actorID, targetID, like)
	if err != nil {
		return nil, err
	}
	slog.Info("match decision recorded", "user_id", actorID, "target_id", targetID, "decision", decision, "is_match", m.IsMatched)

	if like && !m.Liked(targetID) {
		u.notifyLike(ctx, actorID, target)
	}
	return &DecisionResult{Decision: decision, IsMatch: m.IsMatched}, nil
}

func (u *matchUsecase) notifyLike(ctx context.Context, actorID string, target *entity.User) {
	if target.Email == "" {
		return
	}
	actor, err := u.users.FindByID(ctx, actorID)
	if err != nil {
		slog.Warn("like notification skipped", "user_id", actorID, "error", err)
		return
	}
	u.notifier.Notify(ctx, notification.Notification{
		Kind:   notification.KindLike,
		To:     target.Email,
		Sender: notification.SenderFrom(actor),
	})
}

// ListMutualMatches returns userID's matches, newest first, each with the other member.
// A match whose counterpart no longer resolves is returned with a nil User.
func (u *matchUsecase) ListMutualMatches(ctx context.Context, userID string) ([]MutualMatch, error) {
	matches, err := u.matches.ListMutual(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		if other, ok := m.Counterpart(userID); ok {
			ids = append(ids, other)
		}
	}
	users, err := u.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]MutualMatch, 0, len(matches))
	for _, m := range matches {
		other, _ := m.Counterpart(userID)
		out = append(out, MutualMatch{MatchID: m.ID, User: users[other], CreatedAt: m.CreatedAt})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].MatchID < out[j].MatchID
	})
	return out, nil
}
