// Package handler provides HTTP handlers for the messaging feature.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"heartlink/internal/api"
	"heartlink/internal/domain/entity"
	"heartlink/internal/feature/messaging/transport/http/dto"
	"heartlink/internal/feature/messaging/usecase"
)

type MessagingUsecase interface {
	SendMessage(ctx context.Context, senderID, matchID, content string) (*entity.Message, error)
	FetchThread(ctx context.Context, userID, matchID string) ([]usecase.ThreadMessage, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
	ListConversations(ctx context.Context, userID string) ([]usecase.Conversation, error)
}

// MessagingHandler serves /api/messages.
type MessagingHandler struct {
	messages MessagingUsecase
}

func NewMessagingHandler(messages MessagingUsecase) *MessagingHandler {
	return &MessagingHandler{messages: messages}
}

// RegisterRoutes mounts the messaging routes on rg, which must require authentication.
func (h *MessagingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/send", h.Send)
	rg.GET("/match/:matchId", h.Thread)
	rg.GET("/unread", h.Unread)
	rg.GET("/conversations", h.Conversations)
}

// Send handles POST /send.
func (h *MessagingHandler) Send(c *gin.Context) {
	userID, ok := api.Caller(c)
	if !ok {
		return
	}
	var req dto.SendMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondBindError(c, "send message", err)
		return
	}
	msg, err := h.messages.SendMessage(c.Request.Context(), userID, req.MatchID, req.Content)
	if err != nil {
		api.RespondError(c, "send message", err)
		return
	}
	slog.Info("message sent", "user_id", userID, "match_id", msg.MatchID)
	c.JSON(http.StatusCreated, dto.SendMessageRes{
		Message: "Message sent successfully",
		Data:    dto.SentMessage{ID: msg.ID, Content: msg.Content, CreatedAt: msg.CreatedAt},
	})
}

// Thread handles GET /match/:matchId.
func (h *MessagingHandler) Thread(c *gin.Context) {
	userID, ok := api.Caller(c)
	if !ok {
		return
	}
	thread, err := h.messages.FetchThread(c.Request.Context(), userID, c.Param("matchId"))
	if err != nil {
		api.RespondError(c, "fetch messages", err)
		return
	}
	out := make([]dto.MessageRes, 0, len(thread))
	for _, m := range thread {
		out = append(out, dto.NewMessageRes(m.Message, m.Sender))
	}
	c.JSON(http.StatusOK, out)
}

// Unread handles GET /unread.
func (h *MessagingHandler) Unread(c *gin.Context) {
	userID, ok := api.Caller(c)
	if !ok {
		return
	}
	n, err := h.messages.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		api.RespondError(c, "unread count", err)
		return
	}
	c.JSON(http.StatusOK, dto.UnreadRes{UnreadCount: n})
}

// Conversations handles GET /conversations.
func (h *MessagingHandler) Conversations(c *gin.Context) {
	userID, ok := api.Caller(c)
	if !ok {
		return
	}
	convs, err := h.messages.ListConversations(c.Request.Context(), userID)
	if err != nil {
		api.RespondError(c, "list conversations", err)
		return
	}
	out := make([]dto.ConversationRes, 0, len(convs))
	for _, conv := range convs {
		res := dto.ConversationRes{
			MatchID:     conv.MatchID,
			User:        dto.NewUserCard(conv.User),
			UnreadCount: conv.UnreadCount,
			UpdatedAt:   conv.UpdatedAt,
		}
		if conv.LatestMessage != nil {
			latest := dto.NewMessageRes(conv.LatestMessage, nil)
			res.LatestMessage = &latest
		}
		out = append(out, res)
	}
	c.JSON(http.StatusOK, out)
}
