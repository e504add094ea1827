package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"heartlink/internal/domain"
	"heartlink/internal/domain/entity"
	matchusecase "heartlink/internal/feature/match/usecase"
)

type matchGorm struct {
	db  *gorm.DB
	now func() time.Time
}

var _ matchusecase.MatchRepository = (*matchGorm)(nil)

// NewMatchGorm creates a SQL match ledger.
func NewMatchGorm(db *gorm.DB) *matchGorm {
	return &matchGorm{db: db, now: time.Now}
}

// RecordDecision inserts the pair row if missing, then sets the actor's column and
// the match flag in a single UPDATE so that concurrent likes cannot lose the match.
func (r *matchGorm) RecordDecision(ctx context.Context, actorID, targetID string, like bool) (*entity.Match, error) {
	pair := entity.PairOf(actorID, targetID)
	own, other := "decision_a", "decision_b"
	if actorID == pair[1] {
		own, other = other, own
	}

	var m MatchModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := r.now().UTC()
		seed := MatchModel{ID: entity.NewID(), UserA: pair[0], UserB: pair[1], CreatedAt: now, UpdatedAt: now}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_a"}, {Name: "user_b"}},
			DoNothing: true,
		}).Create(&seed).Error; err != nil {
			return err
		}

		err := tx.Model(&MatchModel{}).
			Where("user_a = ? AND user_b = ?", pair[0], pair[1]).
			Updates(map[string]any{
				own:          like,
				"is_matched": gorm.Expr("is_matched OR (? AND COALESCE("+other+", FALSE))", like),
				"updated_at": now,
			}).Error
		if err != nil {
			return err
		}
		return tx.Where("user_a = ? AND user_b = ?", pair[0], pair[1]).Take(&m).Error
	})
	if err != nil {
		return nil, err
	}
	return m.ToEntity(), nil
}

// FindForMember returns the match only when userID belongs to it.
func (r *matchGorm) FindForMember(ctx context.Context, matchID, userID string) (*entity.Match, error) {
	var m MatchModel
	err := r.db.WithContext(ctx).
		Where("id = ? AND (user_a = ? OR user_b = ?)", matchID, userID, userID).
		Take(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMatchNotFound
		}
		return nil, err
	}
	return m.ToEntity(), nil
}

func (r *matchGorm) ListMutual(ctx context.Context, userID string) ([]*entity.Match, error) {
	var rows []MatchModel
	err := r.db.WithContext(ctx).
		Where("(user_a = ? OR user_b = ?) AND is_matched = ?", userID, userID, true).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Match, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToEntity())
	}
	return out, nil
}
