package adapters

import (
	"time"

	"heartlink/internal/domain/entity"
)

type MessageModel struct {
	ID         string    `gorm:"primaryKey;size:24"`
	MatchID    string    `gorm:"size:24;not null;index:idx_messages_match_created,priority:1"`
	SenderID   string    `gorm:"size:24;not null;index"`
	ReceiverID string    `gorm:"size:24;not null;index:idx_messages_receiver_read,priority:1"`
	Content    string    `gorm:"size:1000;not null"`
	IsRead     bool      `gorm:"not null;default:false;index:idx_messages_receiver_read,priority:2"`
	CreatedAt  time.Time `gorm:"index:idx_messages_match_created,priority:2"`
	UpdatedAt  time.Time
}

func (MessageModel) TableName() string { return "messages" }

func (m *MessageModel) ToEntity() *entity.Message {
	return &entity.Message{
		ID:         m.ID,
		MatchID:    m.MatchID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Content:    m.Content,
		IsRead:     m.IsRead,
		CreatedAt:  m.CreatedAt,
	}
}
