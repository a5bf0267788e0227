package service

import (
	"context"
	"errors"
	"time"

	"github.com/Anay7520/ChatSphere/internal/domain"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountInactive    = errors.New("account is not active")
	ErrWeakPassword       = errors.New("password is too weak")
	ErrUserNotFound       = errors.New("user not found")

	ErrNotParticipant = errors.New("not a participant in this chat")
	ErrNotAdmin       = errors.New("admin privileges required")
	ErrNotSender      = errors.New("not the sender of this message")

	ErrDirectChatSize    = errors.New("direct chat must have exactly two participants")
	ErrGroupNameRequired = errors.New("group chat name is required")
	ErrDirectChatMembers = errors.New("cannot modify participants of a direct chat")
)

// UserService handles registration, authentication and profiles.
type UserService interface {
	Register(ctx context.Context, req *domain.RegisterRequest) (*domain.AuthResponse, error)
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.AuthResponse, error)
	Get(ctx context.Context, userID string) (*domain.UserResponse, error)
	Update(ctx context.Context, userID string, req *domain.UpdateUserRequest) (*domain.UserResponse, error)
	Search(ctx context.Context, query string, limit int64, excludeID string) (*domain.SearchResponse, error)
	Deactivate(ctx context.Context, userID string) error
}

// ChatService handles chat CRUD and membership mutation.
type ChatService interface {
	Create(ctx context.Context, creatorID string, req *domain.CreateChatRequest) (*domain.Chat, error)
	Get(ctx context.Context, chatID, userID string) (*domain.ChatDetailResponse, error)
	List(ctx context.Context, userID string, includeArchived bool) (*domain.ChatListResponse, error)
	Update(ctx context.Context, chatID, userID string, req *domain.UpdateChatRequest) (*domain.Chat, error)
	AddParticipant(ctx context.Context, chatID, actorID, targetID string) (*domain.Chat, error)
	RemoveParticipant(ctx context.Context, chatID, actorID, targetID string) (*domain.Chat, error)
	Archive(ctx context.Context, chatID, userID string) error
}

// MessageService owns the message lifecycle state machine:
// created -> edited* -> deleted, with status and reactions evolving
// independently.
type MessageService interface {
	// Send persists a message and then updates the chat's denormalized
	// preview. The caller must already have confirmed the sender is a
	// participant. The two writes are not jointly atomic; the preview
	// is best effort.
	Send(ctx context.Context, chatID, senderID string, req *domain.SendMessageRequest) (*domain.Message, error)
	Edit(ctx context.Context, messageID, actingID, content string) (*domain.Message, error)
	// Delete tombstones the message; the record stays. Irreversible.
	Delete(ctx context.Context, messageID, actingID string) (*domain.Message, error)
	Get(ctx context.Context, messageID string) (*domain.Message, error)
	React(ctx context.Context, messageID, actingID, emoji string) (*domain.Message, error)
	Unreact(ctx context.Context, messageID, actingID, emoji string) (*domain.Message, error)
	// MarkRead transitions every unread message not sent by actingID,
	// optionally bounded by timestamp, and returns the count moved.
	MarkRead(ctx context.Context, chatID, actingID string, before *time.Time) (int64, error)
	// List excludes soft-deleted messages. Trimming to the requested
	// limit and the has-more probe belong to the caller.
	List(ctx context.Context, chatID string, limit int64, before, after *time.Time) ([]domain.Message, error)
}
