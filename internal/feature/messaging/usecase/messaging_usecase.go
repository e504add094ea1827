// Package usecase implements messaging between mutually matched users.
package usecase

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"heartlink/internal/domain"
	"heartlink/internal/domain/entity"
	notification "heartlink/internal/feature/notification/domain"
)

// MessageRepository is the message log.
type MessageRepository interface {
	// Create appends m and assigns its ID and CreatedAt.
	Create(ctx context.Context, m *entity.Message) error
	// ListByMatch returns the thread oldest first.
	ListByMatch(ctx context.Context, matchID string) ([]*entity.Message, error)
	// MarkRead flags every unread message of the thread addressed to receiverID.
	MarkRead(ctx context.Context, matchID, receiverID string) (int64, error)
	CountUnread(ctx context.Context, receiverID string) (int64, error)
	// LatestByMatch returns the newest message of each thread that has one.
	LatestByMatch(ctx context.Context, matchIDs []string) (map[string]*entity.Message, error)
	// UnreadByMatch returns per-thread unread counts for receiverID; threads without unread messages are absent.
	UnreadByMatch(ctx context.Context, matchIDs []string, receiverID string) (map[string]int64, error)
}

// MatchReader is the match ledger as seen by messaging.
type MatchReader interface {
	// FindForMember returns domain.ErrMatchNotFound unless userID belongs to the match.
	FindForMember(ctx context.Context, matchID, userID string) (*entity.Match, error)
	ListMutual(ctx context.Context, userID string) ([]*entity.Match, error)
}

type UserRepository interface {
	FindByID(ctx context.Context, id string) (*entity.User, error)
	FindByIDs(ctx context.Context, ids []string) (map[string]*entity.User, error)
}

// Notifier hands emails to the notification dispatcher.
type Notifier interface {
	Notify(ctx context.Context, n notification.Notification)
}

// ThreadMessage is a message with its resolved sender. Sender is nil when the account is gone.
type ThreadMessage struct {
	*entity.Message
	Sender *entity.User
}

// Conversation summarizes one mutual match for the inbox.
type Conversation struct {
	MatchID       string
	User          *entity.User
	LatestMessage *entity.Message
	UnreadCount   int64
	// UpdatedAt is the latest message time, or the match creation time for an empty thread.
	UpdatedAt time.Time
}

type messagingUsecase struct {
	messages MessageRepository
	matches  MatchReader
	users    UserRepository
	notifier Notifier
}

// NewMessagingUsecase creates the messaging usecase.
func NewMessagingUsecase(messages MessageRepository, matches MatchReader, users UserRepository, notifier Notifier) *messagingUsecase {
	return &messagingUsecase{messages: messages, matches: matches, users: users, notifier: notifier}
}

// SendMessage appends content to a mutual match's thread and emails the receiver.
func (u *messagingUsecase) SendMessage(ctx context.Context, senderID, matchID, content string) (*entity.Message, error) {
	content = strings.TrimSpace(content)
	if matchID == "" || content == "" {
		return nil, ErrContentRequired
	}
	if utf8.RuneCountInString(content) > entity.MaxMessageLength {
		return nil, ErrContentTooLong
	}

	m, err := u.matches.FindForMember(ctx, matchID, senderID)
	if err != nil {
		return nil, err
	}
	if !m.IsMatched {
		return nil, domain.ErrMatchNotFound
	}
	receiverID, _ := m.Counterpart(senderID)

	msg := &entity.Message{
		MatchID:    m.ID,
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
	}
	if err := u.messages.Create(ctx, msg); err != nil {
		return nil, err
	}

	u.notifyMessage(ctx, senderID, receiverID)
	return msg, nil
}

func (u *messagingUsecase) notifyMessage(ctx context.Context, senderID, receiverID string) {
	users, err := u.users.FindByIDs(ctx, []string{senderID, receiverID})
	if err != nil {
		slog.Warn("message notification skipped", "user_id", senderID, "error", err)
		return
	}
	sender, receiver := users[senderID], users[receiverID]
	if sender == nil || receiver == nil || receiver.Email == "" {
		return
	}
	u.notifier.Notify(ctx, notification.Notification{
		Kind:   notification.KindMessage,
		To:     receiver.Email,
		Sender: notification.SenderFrom(sender),
	})
}

// FetchThread returns the match's messages oldest first and marks the caller's incoming ones read.
// The returned messages carry the read state from before this call.
func (u *messagingUsecase) FetchThread(ctx context.Context, userID, matchID string) ([]ThreadMessage, error) {
	m, err := u.matches.FindForMember(ctx, matchID, userID)
	if err != nil {
		return nil, err
	}
	msgs, err := u.messages.ListByMatch(ctx, m.ID)
	if err != nil {
		return nil, err
	}
	senders, err := u.users.FindByIDs(ctx, m.Users[:])
	if err != nil {
		return nil, err
	}
	if _, err := u.messages.MarkRead(ctx, m.ID, userID); err != nil {
		return nil, err
	}

	out := make([]ThreadMessage, 0, len(msgs))
	for _, msg := range msgs {
		out = append(out, ThreadMessage{Message: msg, Sender: senders[msg.SenderID]})
	}
	return out, nil
}

// UnreadCount counts the caller's unread messages across all matches.
func (u *messagingUsecase) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return u.messages.CountUnread(ctx, userID)
}

// ListConversations summarizes every mutual match of userID, most recently active first.
func (u *messagingUsecase) ListConversations(ctx context.Context, userID string) ([]Conversation, error) {
	matches, err := u.matches.ListMutual(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return []Conversation{}, nil
	}

	matchIDs := make([]string, 0, len(matches))
	others := make([]string, 0, len(matches))
	for _, m := range matches {
		matchIDs = append(matchIDs, m.ID)
		if other, ok := m.Counterpart(userID); ok {
			others = append(others, other)
		}
	}

	latest, err := u.messages.LatestByMatch(ctx, matchIDs)
	if err != nil {
		return nil, err
	}
	unread, err := u.messages.UnreadByMatch(ctx, matchIDs, userID)
	if err != nil {
		return nil, err
	}
	users, err := u.users.FindByIDs(ctx, others)
	if err != nil {
		return nil, err
	}

	out := make([]Conversation, 0, len(matches))
	for _, m := range matches {
		other, _ := m.Counterpart(userID)
		c := Conversation{
			MatchID:       m.ID,
			User:          users[other],
			LatestMessage: latest[m.ID],
			UnreadCount:   unread[m.ID],
			UpdatedAt:     m.CreatedAt,
		}
		if c.LatestMessage != nil {
			c.UpdatedAt = c.LatestMessage.CreatedAt
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].MatchID < out[j].MatchID
	})
	return out, nil
}
