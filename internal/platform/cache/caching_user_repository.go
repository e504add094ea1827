// Package cache provides caching decorators for the user store.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"heartlink/internal/domain/entity"
	authusecase "heartlink/internal/feature/auth/usecase"
	matchusecase "heartlink/internal/feature/match/usecase"
	profileusecase "heartlink/internal/feature/profile/usecase"
)

const (
	DefaultCandidateTTL = time.Minute
	candidateNamespace  = "candidates"
)

// UserStore is the full user store as wired into every feature.
type UserStore interface {
	authusecase.UserRepository
	profileusecase.UserRepository
	matchusecase.UserRepository
}

// CachingUserRepository caches candidate lists in Redis. Any write that can change
// what another user sees as a candidate drops every cached list.
type CachingUserRepository struct {
	UserStore
	rdb redis.Cmdable
	ttl time.Duration
}

var _ UserStore = (*CachingUserRepository)(nil)

// NewCachingUserRepository decorates inner. A nil rdb disables caching; ttl <= 0 uses DefaultCandidateTTL.
func NewCachingUserRepository(rdb redis.Cmdable, ttl time.Duration, inner UserStore) *CachingUserRepository {
	if ttl <= 0 {
		ttl = DefaultCandidateTTL
	}
	return &CachingUserRepository{UserStore: inner, rdb: rdb, ttl: ttl}
}

// cachedCandidate is the part of a user a candidate list may expose.
// Contact details and credentials never reach Redis.
type cachedCandidate struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	Age            int                `json:"age"`
	Gender         entity.Gender      `json:"gender"`
	Bio            string             `json:"bio"`
	Interests      []string           `json:"interests"`
	Location       entity.GeoPoint    `json:"location"`
	ProfilePicture string             `json:"profilePicture"`
	Preferences    entity.Preferences `json:"preferences"`
	CreatedAt      time.Time          `json:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt"`
}

func toCached(users []*entity.User) []cachedCandidate {
	out := make([]cachedCandidate, 0, len(users))
	for _, u := range users {
		out = append(out, cachedCandidate{
			ID:             u.ID,
			Name:           u.Name,
			Age:            u.Age,
			Gender:         u.Gender,
			Bio:            u.Bio,
			Interests:      u.Interests,
			Location:       u.Location,
			ProfilePicture: u.ProfilePicture,
			Preferences:    u.Preferences,
			CreatedAt:      u.CreatedAt,
			UpdatedAt:      u.UpdatedAt,
		})
	}
	return out
}

func fromCached(cached []cachedCandidate) []*entity.User {
	out := make([]*entity.User, 0, len(cached))
	for _, c := range cached {
		out = append(out, &entity.User{
			ID:             c.ID,
			Name:           c.Name,
			Age:            c.Age,
			Gender:         c.Gender,
			Bio:            c.Bio,
			Interests:      c.Interests,
			Location:       c.Location,
			ProfilePicture: c.ProfilePicture,
			Preferences:    c.Preferences,
			CreatedAt:      c.CreatedAt,
			UpdatedAt:      c.UpdatedAt,
		})
	}
	return out
}

func candidatesKey(userID string, limit int) string {
	return fmt.Sprintf("%s:%s:%d", candidateNamespace, safe(userID), limit)
}

// ListCandidates serves from cache, falling back to the store on a miss or a Redis error.
func (c *CachingUserRepository) ListCandidates(ctx context.Context, excludeID string, limit int) ([]*entity.User, error) {
	if c.rdb == nil {
		return c.UserStore.ListCandidates(ctx, excludeID, limit)
	}
	key := candidatesKey(excludeID, limit)

	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var cached []cachedCandidate
		if err := json.Unmarshal(b, &cached); err == nil {
			return fromCached(cached), nil
		}
		_ = c.rdb.Del(ctx, key).Err()
	} else if err != nil && !errors.Is(err, redis.Nil) {
		slog.Warn("candidate cache read failed", "user_id", excludeID, "error", err)
	}

	out, err := c.UserStore.ListCandidates(ctx, excludeID, limit)
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(toCached(out)); err == nil {
		if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
			slog.Warn("candidate cache write failed", "user_id", excludeID, "error", err)
		}
	}
	return out, nil
}

func (c *CachingUserRepository) invalidate(ctx context.Context, userID string) {
	if c.rdb == nil {
		return
	}
	if err := deleteByPattern(ctx, c.rdb, candidateNamespace+":*"); err != nil {
		slog.Warn("candidate cache invalidation failed", "user_id", userID, "error", err)
	}
}

func (c *CachingUserRepository) Create(ctx context.Context, u *entity.User) error {
	if err := c.UserStore.Create(ctx, u); err != nil {
		return err
	}
	c.invalidate(ctx, u.ID)
	return nil
}

func (c *CachingUserRepository) UpdateProfile(ctx context.Context, u *entity.User) error {
	if err := c.UserStore.UpdateProfile(ctx, u); err != nil {
		return err
	}
	c.invalidate(ctx, u.ID)
	return nil
}

func (c *CachingUserRepository) SetProfilePicture(ctx context.Context, id, url string) error {
	if err := c.UserStore.SetProfilePicture(ctx, id, url); err != nil {
		return err
	}
	c.invalidate(ctx, id)
	return nil
}
