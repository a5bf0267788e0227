package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Anay7520/ChatSphere/internal/domain"
	"github.com/Anay7520/ChatSphere/internal/middleware"
	"github.com/Anay7520/ChatSphere/internal/realtime"
	"github.com/Anay7520/ChatSphere/internal/repository"
	"github.com/Anay7520/ChatSphere/internal/service"
	"github.com/Anay7520/ChatSphere/pkg/response"
)

// ChatHandler serves chat CRUD and membership endpoints.
type ChatHandler struct {
	chats service.ChatService
	hub   *realtime.Hub
}

// NewChatHandler creates the chat handler.
func NewChatHandler(chats service.ChatService, hub *realtime.Hub) *ChatHandler {
	return &ChatHandler{chats: chats, hub: hub}
}

func (h *ChatHandler) List(c *gin.Context) {
	includeArchived := c.Query("include_archived") == "true"

	result, err := h.chats.List(c.Request.Context(), middleware.UserID(c), includeArchived)
	if err != nil {
		response.InternalError(c, "failed to list chats")
		return
	}
	response.Success(c, result)
}

func (h *ChatHandler) Create(c *gin.Context) {
	var req domain.CreateChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	chat, err := h.chats.Create(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDirectChatSize):
			response.BadRequest(c, "direct chat requires exactly one other participant")
		case errors.Is(err, service.ErrGroupNameRequired):
			response.BadRequest(c, "group chat requires a name")
		default:
			response.InternalError(c, "failed to create chat")
		}
		return
	}
	response.Created(c, chat)
}

func (h *ChatHandler) Get(c *gin.Context) {
	detail, err := h.chats.Get(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		chatError(c, err, "failed to load chat")
		return
	}
	response.Success(c, detail)
}

func (h *ChatHandler) Update(c *gin.Context) {
	var req domain.UpdateChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	chat, err := h.chats.Update(c.Request.Context(), c.Param("id"), middleware.UserID(c), &req)
	if err != nil {
		chatError(c, err, "failed to update chat")
		return
	}
	response.Success(c, chat)
}

func (h *ChatHandler) Archive(c *gin.Context) {
	if err := h.chats.Archive(c.Request.Context(), c.Param("id"), middleware.UserID(c)); err != nil {
		chatError(c, err, "failed to archive chat")
		return
	}
	response.Success(c, gin.H{"archived": true})
}

func (h *ChatHandler) AddParticipant(c *gin.Context) {
	var req domain.AddParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	chatID := c.Param("id")
	chat, err := h.chats.AddParticipant(c.Request.Context(), chatID, middleware.UserID(c), req.UserID)
	if err != nil {
		chatError(c, err, "failed to add participant")
		return
	}

	h.hub.EmitToChat(chatID, &domain.UserJoinedEvent{
		Type:   domain.EventUserJoined,
		ChatID: chatID,
		UserID: req.UserID,
	})
	response.Success(c, chat)
}

func (h *ChatHandler) RemoveParticipant(c *gin.Context) {
	chat, err := h.chats.RemoveParticipant(c.Request.Context(), c.Param("id"), middleware.UserID(c), c.Param("user_id"))
	if err != nil {
		chatError(c, err, "failed to remove participant")
		return
	}
	response.Success(c, chat)
}

// chatError maps chat/membership errors to HTTP responses.
func chatError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, repository.ErrChatNotFound):
		response.NotFound(c, "chat not found")
	case errors.Is(err, service.ErrNotParticipant):
		response.Forbidden(c, "not a participant in this chat")
	case errors.Is(err, service.ErrNotAdmin):
		response.Forbidden(c, "admin privileges required")
	case errors.Is(err, service.ErrDirectChatMembers):
		response.BadRequest(c, "cannot modify participants of a direct chat")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, "user not found")
	default:
		response.InternalError(c, fallback)
	}
}
