package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Anay7520/ChatSphere/internal/domain"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailExists     = errors.New("email already exists")
	ErrUsernameExists  = errors.New("username already exists")
	ErrChatNotFound    = errors.New("chat not found")
	ErrMessageNotFound = errors.New("message not found")
)

// UserRepository provides access to user documents.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	// SetOnline mutates the presence flag; lastSeen is recorded only on
	// the offline transition.
	SetOnline(ctx context.Context, id string, online bool, lastSeen *time.Time) error
	Search(ctx context.Context, query string, limit int64, excludeID string) ([]domain.User, error)
	Deactivate(ctx context.Context, id string) error
}

// ChatRepository provides access to chat documents.
type ChatRepository interface {
	Create(ctx context.Context, chat *domain.Chat) error
	GetByID(ctx context.Context, id string) (*domain.Chat, error)
	// FindDirect looks up an existing direct chat for a sorted
	// participant pair. Returns ErrChatNotFound when absent.
	FindDirect(ctx context.Context, participants []string) (*domain.Chat, error)
	ListForUser(ctx context.Context, userID string, includeArchived bool) ([]domain.Chat, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) (*domain.Chat, error)
	AddParticipant(ctx context.Context, chatID, userID string) (*domain.Chat, error)
	// RemoveParticipant strips the user from both the participant and
	// admin sets.
	RemoveParticipant(ctx context.Context, chatID, userID string) (*domain.Chat, error)
	Archive(ctx context.Context, chatID string) error
	// SetLastMessage updates the denormalized preview. Best effort,
	// never authoritative.
	SetLastMessage(ctx context.Context, chatID, preview string, at time.Time) error
}

// MessageRepository provides access to message documents.
type MessageRepository interface {
	Insert(ctx context.Context, msg *domain.Message) error
	// GetByID returns tombstoned records too, unlike ListByChat.
	GetByID(ctx context.Context, id string) (*domain.Message, error)
	// ListByChat excludes soft-deleted messages. With before set (or no
	// bound) results are newest-first; with after set they are
	// chronological.
	ListByChat(ctx context.Context, chatID string, limit int64, before, after *time.Time) ([]domain.Message, error)
	Edit(ctx context.Context, id, content string, at time.Time) (*domain.Message, error)
	SoftDelete(ctx context.Context, id string, at time.Time) (*domain.Message, error)
	AddReaction(ctx context.Context, id, userID, emoji string) (*domain.Message, error)
	RemoveReaction(ctx context.Context, id, userID, emoji string) (*domain.Message, error)
	// MarkRead bulk-transitions unread messages not sent by readerID
	// and returns the count actually transitioned.
	MarkRead(ctx context.Context, chatID, readerID string, before *time.Time) (int64, error)
	CountUnread(ctx context.Context, chatID, userID string) (int64, error)
}
