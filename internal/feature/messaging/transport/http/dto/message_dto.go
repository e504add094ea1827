// Package dto defines request and response bodies for the messaging feature's HTTP transport layer.
package dto

import (
	"time"

	"heartlink/internal/domain/entity"
)

// SendMessageReq is the body of POST /api/messages/send.
type SendMessageReq struct {
	MatchID string `json:"matchId"`
	Content string `json:"content"`
}

type SentMessage struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

type SendMessageRes struct {
	Message string      `json:"message"`
	Data    SentMessage `json:"data"`
}

type UnreadRes struct {
	UnreadCount int64 `json:"unreadCount"`
}

// UserCard is the minimal public view of a thread participant.
type UserCard struct {
	ID             string `json:"_id"`
	Name           string `json:"name"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}

func NewUserCard(u *entity.User) *UserCard {
	if u == nil {
		return nil
	}
	return &UserCard{ID: u.ID, Name: u.Name, ProfilePicture: u.ProfilePicture}
}

type MessageRes struct {
	ID        string    `json:"_id"`
	MatchID   string    `json:"matchId"`
	Sender    any       `json:"sender"`
	Receiver  string    `json:"receiver"`
	Content   string    `json:"content"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewMessageRes renders m. The sender is expanded to a card when known, otherwise left as its id.
func NewMessageRes(m *entity.Message, sender *entity.User) MessageRes {
	res := MessageRes{
		ID:        m.ID,
		MatchID:   m.MatchID,
		Sender:    m.SenderID,
		Receiver:  m.ReceiverID,
		Content:   m.Content,
		IsRead:    m.IsRead,
		CreatedAt: m.CreatedAt,
	}
	if sender != nil {
		res.Sender = NewUserCard(sender)
	}
	return res
}

type ConversationRes struct {
	MatchID       string      `json:"matchId"`
	User          *UserCard   `json:"user"`
	LatestMessage *MessageRes `json:"latestMessage"`
	UnreadCount   int64       `json:"unreadCount"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}
