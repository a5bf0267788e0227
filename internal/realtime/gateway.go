package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Anay7520/ChatSphere/internal/cache"
	"github.com/Anay7520/ChatSphere/internal/config"
	"github.com/Anay7520/ChatSphere/internal/domain"
	"github.com/Anay7520/ChatSphere/internal/repository"
	"github.com/Anay7520/ChatSphere/internal/service"
	"github.com/Anay7520/ChatSphere/pkg/log"
	"github.com/Anay7520/ChatSphere/pkg/token"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Gateway owns the WebSocket endpoint: authentication at upgrade,
// per-event dispatch, and cleanup on disconnect. A handler failure is
// answered with a scoped error frame on the offending connection; it
// never tears the session down.
type Gateway struct {
	hub        *Hub
	presence   *PresenceTracker
	membership *service.Membership
	messages   service.MessageService
	store      cache.PresenceStore
	tokens     *token.Manager
	cfg        config.WebSocketConfig
}

// NewGateway creates the realtime gateway.
func NewGateway(hub *Hub, presence *PresenceTracker, membership *service.Membership, messages service.MessageService, store cache.PresenceStore, tokens *token.Manager, cfg config.WebSocketConfig) *Gateway {
	return &Gateway{
		hub:        hub,
		presence:   presence,
		membership: membership,
		messages:   messages,
		store:      store,
		tokens:     tokens,
		cfg:        cfg,
	}
}

// HandleWS authenticates and upgrades a connection. The token comes
// from the "token" query parameter or a bearer Authorization header;
// validation happens before any connection state is created.
func (g *Gateway) HandleWS(c *gin.Context) {
	tokenString := c.Query("token")
	if tokenString == "" {
		if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
			tokenString = strings.TrimPrefix(auth, "Bearer ")
		}
	}
	claims, err := g.tokens.Validate(tokenString, token.TypeAccess)
	if err != nil {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger := log.L()
		logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := NewClient(uuid.New().String(), claims.UserID, g.hub, conn, g.cfg)
	g.hub.Register(client)

	ctx := log.WithLogger(context.Background(), log.L().With().
		Str(log.FieldConnID, client.ID).
		Str(log.FieldUserID, client.UserID).
		Logger())

	g.presence.Connected(ctx, client.ID, client.UserID)
	g.hub.Join(client, UserRoom(client.UserID))
	client.SendEvent(&domain.ConnectedEvent{Type: domain.EventConnected, UserID: client.UserID})

	go client.WritePump()
	go func() {
		client.ReadPump(g.dispatch)
		g.hub.Unregister(client)
		g.presence.Disconnected(ctx, client.ID)
	}()
}

func (g *Gateway) dispatch(client *Client, raw []byte) {
	var base domain.BaseEvent
	if err := json.Unmarshal(raw, &base); err != nil {
		client.SendEvent(domain.NewErrorEvent("invalid event format"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), g.cfg.OpTimeout)
	defer cancel()
	ctx = log.WithLogger(ctx, log.L().With().
		Str(log.FieldConnID, client.ID).
		Str(log.FieldUserID, client.UserID).
		Str(log.FieldEvent, base.Type).
		Logger())

	switch base.Type {
	case domain.EventJoinChat:
		g.handleJoinChat(ctx, client, raw)
	case domain.EventLeaveChat:
		g.handleLeaveChat(ctx, client, raw)
	case domain.EventSendMessage:
		g.handleSendMessage(ctx, client, raw)
	case domain.EventTypingStart:
		g.handleTyping(ctx, client, raw, true)
	case domain.EventTypingStop:
		g.handleTyping(ctx, client, raw, false)
	case domain.EventMessageRead:
		g.handleMessageRead(ctx, client, raw)
	default:
		client.SendEvent(domain.NewErrorEvent("unknown event type: " + base.Type))
	}
}

func (g *Gateway) handleJoinChat(ctx context.Context, client *Client, raw []byte) {
	var ev domain.JoinChatEvent
	if err := json.Unmarshal(raw, &ev); err != nil || ev.ChatID == "" {
		client.SendEvent(domain.NewErrorEvent("invalid join_chat event"))
		return
	}

	if _, err := g.membership.RequireParticipant(ctx, ev.ChatID, client.UserID); err != nil {
		client.SendEvent(domain.NewErrorEvent(gatewayErrorMessage(err)))
		return
	}

	g.hub.Join(client, ChatRoom(ev.ChatID))
	g.hub.Emit(ChatRoom(ev.ChatID), &domain.UserJoinedEvent{
		Type:   domain.EventUserJoined,
		ChatID: ev.ChatID,
		UserID: client.UserID,
	}, client.ID)

	logger := log.Ctx(ctx)
	logger.Debug().Str(log.FieldChatID, ev.ChatID).Msg("joined chat room")
}

func (g *Gateway) handleLeaveChat(ctx context.Context, client *Client, raw []byte) {
	var ev domain.LeaveChatEvent
	if err := json.Unmarshal(raw, &ev); err != nil || ev.ChatID == "" {
		client.SendEvent(domain.NewErrorEvent("invalid leave_chat event"))
		return
	}

	g.hub.Leave(client, ChatRoom(ev.ChatID))
	logger := log.Ctx(ctx)
	logger.Debug().Str(log.FieldChatID, ev.ChatID).Msg("left chat room")
}

func (g *Gateway) handleSendMessage(ctx context.Context, client *Client, raw []byte) {
	var ev domain.SendMessageEvent
	if err := json.Unmarshal(raw, &ev); err != nil || ev.ChatID == "" || ev.Content == "" {
		client.SendEvent(domain.NewErrorEvent("invalid send_message event"))
		return
	}

	if _, err := g.membership.RequireParticipant(ctx, ev.ChatID, client.UserID); err != nil {
		client.SendEvent(domain.NewErrorEvent(gatewayErrorMessage(err)))
		return
	}

	msg, err := g.messages.Send(ctx, ev.ChatID, client.UserID, &domain.SendMessageRequest{
		Content:     ev.Content,
		MessageType: ev.MessageType,
		ReplyTo:     ev.ReplyTo,
		Metadata:    ev.Metadata,
	})
	if err != nil {
		logger := log.Ctx(ctx)
		logger.Error().Err(err).Str(log.FieldChatID, ev.ChatID).Msg("failed to send message")
		client.SendEvent(domain.NewErrorEvent("failed to send message"))
		return
	}

	g.hub.EmitToChat(ev.ChatID, &domain.NewMessageEvent{Type: domain.EventNewMessage, Message: *msg})
}

func (g *Gateway) handleTyping(ctx context.Context, client *Client, raw []byte, typing bool) {
	var ev domain.TypingEvent
	if err := json.Unmarshal(raw, &ev); err != nil || ev.ChatID == "" {
		client.SendEvent(domain.NewErrorEvent("invalid typing event"))
		return
	}

	// Typing is ephemeral best effort; a stale mirror entry expires on
	// its own.
	if err := g.store.SetTyping(ctx, ev.ChatID, client.UserID, typing); err != nil {
		logger := log.Ctx(ctx)
		logger.Warn().Err(err).Str(log.FieldChatID, ev.ChatID).Msg("failed to mirror typing state")
	}

	g.hub.Emit(ChatRoom(ev.ChatID), &domain.UserTypingEvent{
		Type:     domain.EventUserTyping,
		ChatID:   ev.ChatID,
		UserID:   client.UserID,
		IsTyping: typing,
	}, client.ID)
}

func (g *Gateway) handleMessageRead(ctx context.Context, client *Client, raw []byte) {
	var ev domain.MessageReadEvent
	if err := json.Unmarshal(raw, &ev); err != nil || ev.ChatID == "" {
		client.SendEvent(domain.NewErrorEvent("invalid message_read event"))
		return
	}

	if _, err := g.membership.RequireParticipant(ctx, ev.ChatID, client.UserID); err != nil {
		client.SendEvent(domain.NewErrorEvent(gatewayErrorMessage(err)))
		return
	}

	count, err := g.messages.MarkRead(ctx, ev.ChatID, client.UserID, nil)
	if err != nil {
		logger := log.Ctx(ctx)
		logger.Error().Err(err).Str(log.FieldChatID, ev.ChatID).Msg("failed to mark messages read")
		client.SendEvent(domain.NewErrorEvent("failed to mark messages read"))
		return
	}

	g.hub.EmitToChat(ev.ChatID, &domain.MessagesReadEvent{
		Type:   domain.EventMessagesRead,
		ChatID: ev.ChatID,
		UserID: client.UserID,
		Count:  count,
	})
}

// gatewayErrorMessage maps known errors to client-safe text.
func gatewayErrorMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrNotParticipant):
		return "not a participant in this chat"
	case errors.Is(err, repository.ErrChatNotFound):
		return "chat not found"
	default:
		return "internal error"
	}
}
