package cache

import (
	"context"
	"time"
)

// PresenceStore mirrors derived presence state (online set, last-seen,
// typing sets) for other consumers. It never owns the online/offline
// transition itself; that is computed from session counts.
type PresenceStore interface {
	SetOnline(ctx context.Context, userID string) error
	SetOffline(ctx context.Context, userID string, lastSeen time.Time) error
	OnlineUsers(ctx context.Context) ([]string, error)

	SetTyping(ctx context.Context, chatID, userID string, typing bool) error
	TypingUsers(ctx context.Context, chatID string) ([]string, error)

	Close() error
}
