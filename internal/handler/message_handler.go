package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Anay7520/ChatSphere/internal/domain"
	"github.com/Anay7520/ChatSphere/internal/middleware"
	"github.com/Anay7520/ChatSphere/internal/realtime"
	"github.com/Anay7520/ChatSphere/internal/repository"
	"github.com/Anay7520/ChatSphere/internal/service"
	"github.com/Anay7520/ChatSphere/pkg/response"
)

const (
	defaultPageSize = 50
	maxPageSize     = 100
)

// MessageHandler serves message history and lifecycle endpoints.
// Mutations are broadcast to the chat room so REST-originated changes
// reach live sessions too.
type MessageHandler struct {
	messages   service.MessageService
	membership *service.Membership
	hub        *realtime.Hub
}

// NewMessageHandler creates the message handler.
func NewMessageHandler(messages service.MessageService, membership *service.Membership, hub *realtime.Hub) *MessageHandler {
	return &MessageHandler{messages: messages, membership: membership, hub: hub}
}

func (h *MessageHandler) List(c *gin.Context) {
	chatID := c.Param("id")
	userID := middleware.UserID(c)

	if _, err := h.membership.RequireParticipant(c.Request.Context(), chatID, userID); err != nil {
		messageError(c, err, "failed to list messages")
		return
	}

	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)), 10, 64)
	if limit <= 0 || limit > maxPageSize {
		limit = defaultPageSize
	}
	before, ok := parseTimeQuery(c, "before")
	if !ok {
		return
	}
	after, ok := parseTimeQuery(c, "after")
	if !ok {
		return
	}

	// Probe one past the page to learn whether more remain.
	msgs, err := h.messages.List(c.Request.Context(), chatID, limit+1, before, after)
	if err != nil {
		messageError(c, err, "failed to list messages")
		return
	}

	hasMore := int64(len(msgs)) > limit
	if hasMore {
		msgs = msgs[:limit]
	}

	// Backward pages arrive newest-first from storage; present every
	// page chronologically.
	if before != nil || after == nil {
		for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
			msgs[i], msgs[j] = msgs[j], msgs[i]
		}
	}

	response.Success(c, domain.MessageListResponse{
		Messages: msgs,
		Count:    len(msgs),
		HasMore:  hasMore,
	})
}

func (h *MessageHandler) Send(c *gin.Context) {
	chatID := c.Param("id")
	userID := middleware.UserID(c)

	var req domain.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if _, err := h.membership.RequireParticipant(c.Request.Context(), chatID, userID); err != nil {
		messageError(c, err, "failed to send message")
		return
	}

	msg, err := h.messages.Send(c.Request.Context(), chatID, userID, &req)
	if err != nil {
		messageError(c, err, "failed to send message")
		return
	}

	h.hub.EmitToChat(chatID, &domain.NewMessageEvent{Type: domain.EventNewMessage, Message: *msg})
	response.Created(c, msg)
}

func (h *MessageHandler) Edit(c *gin.Context) {
	var req domain.EditMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	msg, err := h.messages.Edit(c.Request.Context(), c.Param("message_id"), middleware.UserID(c), req.Content)
	if err != nil {
		messageError(c, err, "failed to edit message")
		return
	}

	h.hub.EmitToChat(msg.ChatID, &domain.MessageUpdatedEvent{Type: domain.EventMessageUpdated, Message: *msg})
	response.Success(c, msg)
}

func (h *MessageHandler) Delete(c *gin.Context) {
	msg, err := h.messages.Delete(c.Request.Context(), c.Param("message_id"), middleware.UserID(c))
	if err != nil {
		messageError(c, err, "failed to delete message")
		return
	}

	h.hub.EmitToChat(msg.ChatID, &domain.MessageDeletedEvent{
		Type:      domain.EventMessageDeleted,
		ChatID:    msg.ChatID,
		MessageID: msg.ID,
	})
	response.Success(c, gin.H{"deleted": true})
}

func (h *MessageHandler) React(c *gin.Context) {
	var req domain.ReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	h.reaction(c, req.Emoji, true)
}

// Unreact takes the emoji from the path so removal needs no body.
func (h *MessageHandler) Unreact(c *gin.Context) {
	emoji := c.Param("emoji")
	if emoji == "" {
		response.BadRequest(c, "emoji is required")
		return
	}
	h.reaction(c, emoji, false)
}

func (h *MessageHandler) reaction(c *gin.Context, emoji string, add bool) {
	messageID := c.Param("message_id")
	userID := middleware.UserID(c)

	existing, err := h.messages.Get(c.Request.Context(), messageID)
	if err != nil {
		messageError(c, err, "failed to react")
		return
	}
	if _, err := h.membership.RequireParticipant(c.Request.Context(), existing.ChatID, userID); err != nil {
		messageError(c, err, "failed to react")
		return
	}

	var (
		msg       *domain.Message
		eventType string
	)
	if add {
		msg, err = h.messages.React(c.Request.Context(), messageID, userID, emoji)
		eventType = domain.EventReactionAdded
	} else {
		msg, err = h.messages.Unreact(c.Request.Context(), messageID, userID, emoji)
		eventType = domain.EventReactionRemoved
	}
	if err != nil {
		messageError(c, err, "failed to react")
		return
	}

	h.hub.EmitToChat(msg.ChatID, &domain.ReactionEvent{
		Type:      eventType,
		MessageID: msg.ID,
		UserID:    userID,
		Emoji:     emoji,
	})
	response.Success(c, msg)
}

func (h *MessageHandler) MarkRead(c *gin.Context) {
	chatID := c.Param("id")
	userID := middleware.UserID(c)

	// The body is optional; absent or malformed means an unbounded
	// mark-read.
	var req domain.MarkReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		req = domain.MarkReadRequest{}
	}

	if _, err := h.membership.RequireParticipant(c.Request.Context(), chatID, userID); err != nil {
		messageError(c, err, "failed to mark messages read")
		return
	}

	count, err := h.messages.MarkRead(c.Request.Context(), chatID, userID, req.Before)
	if err != nil {
		messageError(c, err, "failed to mark messages read")
		return
	}

	h.hub.EmitToChat(chatID, &domain.MessagesReadEvent{
		Type:   domain.EventMessagesRead,
		ChatID: chatID,
		UserID: userID,
		Count:  count,
	})
	response.Success(c, domain.MarkReadResponse{Count: count})
}

// parseTimeQuery reads an optional RFC3339 query parameter. On a bad
// value it writes the error response and reports ok=false.
func parseTimeQuery(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		response.BadRequest(c, name+" must be RFC3339")
		return nil, false
	}
	return &t, true
}

// messageError maps message/membership errors to HTTP responses.
func messageError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, repository.ErrMessageNotFound):
		response.NotFound(c, "message not found")
	case errors.Is(err, repository.ErrChatNotFound):
		response.NotFound(c, "chat not found")
	case errors.Is(err, service.ErrNotParticipant):
		response.Forbidden(c, "not a participant in this chat")
	case errors.Is(err, service.ErrNotSender):
		response.Forbidden(c, "only the sender may modify a message")
	default:
		response.InternalError(c, fallback)
	}
}
