package adapters

import (
	"time"

	"heartlink/internal/domain/entity"
)

// MatchModel is one row per unordered pair, with UserA < UserB.
type MatchModel struct {
	ID        string `gorm:"primaryKey;size:24"`
	UserA     string `gorm:"size:24;not null;uniqueIndex:idx_matches_pair,priority:1"`
	UserB     string `gorm:"size:24;not null;uniqueIndex:idx_matches_pair,priority:2;index"`
	DecisionA *bool
	DecisionB *bool
	IsMatched bool `gorm:"not null;default:false;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (MatchModel) TableName() string { return "matches" }

func (m *MatchModel) ToEntity() *entity.Match {
	out := &entity.Match{
		ID:        m.ID,
		Users:     [2]string{m.UserA, m.UserB},
		Decisions: make(map[string]bool, 2),
		IsMatched: m.IsMatched,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.DecisionA != nil {
		out.Decisions[m.UserA] = *m.DecisionA
	}
	if m.DecisionB != nil {
		out.Decisions[m.UserB] = *m.DecisionB
	}
	return out
}
