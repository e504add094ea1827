package adapters

import (
	"context"
	"time"

	"gorm.io/gorm"

	"heartlink/internal/domain/entity"
	messagingusecase "heartlink/internal/feature/messaging/usecase"
)

type messageGorm struct {
	db  *gorm.DB
	now func() time.Time
}

var _ messagingusecase.MessageRepository = (*messageGorm)(nil)

// NewMessageGorm creates a SQL message log.
func NewMessageGorm(db *gorm.DB) *messageGorm {
	return &messageGorm{db: db, now: time.Now}
}

func (r *messageGorm) Create(ctx context.Context, m *entity.Message) error {
	now := r.now().UTC()
	row := MessageModel{
		ID:         entity.NewID(),
		MatchID:    m.MatchID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Content:    m.Content,
		IsRead:     m.IsRead,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return err
	}
	m.ID, m.CreatedAt = row.ID, row.CreatedAt
	return nil
}

func toEntities(rows []MessageModel) []*entity.Message {
	out := make([]*entity.Message, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToEntity())
	}
	return out
}

func (r *messageGorm) ListByMatch(ctx context.Context, matchID string) ([]*entity.Message, error) {
	var rows []MessageModel
	err := r.db.WithContext(ctx).
		Where("match_id = ?", matchID).
		Order("created_at ASC").Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toEntities(rows), nil
}

func (r *messageGorm) MarkRead(ctx context.Context, matchID, receiverID string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&MessageModel{}).
		Where("match_id = ? AND receiver_id = ? AND is_read = ?", matchID, receiverID, false).
		Updates(map[string]any{"is_read": true, "updated_at": r.now().UTC()})
	return res.RowsAffected, res.Error
}

func (r *messageGorm) CountUnread(ctx context.Context, receiverID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&MessageModel{}).
		Where("receiver_id = ? AND is_read = ?", receiverID, false).
		Count(&n).Error
	return n, err
}

// LatestByMatch picks, per thread, the row with no later sibling.
func (r *messageGorm) LatestByMatch(ctx context.Context, matchIDs []string) (map[string]*entity.Message, error) {
	out := make(map[string]*entity.Message, len(matchIDs))
	if len(matchIDs) == 0 {
		return out, nil
	}
	var rows []MessageModel
	err := r.db.WithContext(ctx).
		Where("match_id IN ?", matchIDs).
		Where(`NOT EXISTS (SELECT 1 FROM messages later WHERE later.match_id = messages.match_id
			AND (later.created_at > messages.created_at OR (later.created_at = messages.created_at AND later.id > messages.id)))`).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for i := range rows {
		out[rows[i].MatchID] = rows[i].ToEntity()
	}
	return out, nil
}

func (r *messageGorm) UnreadByMatch(ctx context.Context, matchIDs []string, receiverID string) (map[string]int64, error) {
	out := make(map[string]int64, len(matchIDs))
	if len(matchIDs) == 0 {
		return out, nil
	}
	var counts []struct {
		MatchID string
		N       int64
	}
	err := r.db.WithContext(ctx).Model(&MessageModel{}).
		Select("match_id, COUNT(*) AS n").
		Where("match_id IN ? AND receiver_id = ? AND is_read = ?", matchIDs, receiverID, false).
		Group("match_id").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	for _, c := range counts {
		out[c.MatchID] = c.N
	}
	return out, nil
}
