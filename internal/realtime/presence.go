package realtime

import (
	"context"
	"time"

	"github.com/Anay7520/ChatSphere/internal/cache"
	"github.com/Anay7520/ChatSphere/internal/repository"
	"github.com/Anay7520/ChatSphere/pkg/log"
)

// PresenceTracker derives a user's online flag from session counts:
// only the 0->1 edge marks online and only the 1->0 edge marks offline
// with a last-seen timestamp. Intermediate sessions never touch
// persistence.
type PresenceTracker struct {
	registry *SessionRegistry
	users    repository.UserRepository
	store    cache.PresenceStore
	now      func() time.Time
}

// NewPresenceTracker creates a tracker over the given registry.
func NewPresenceTracker(registry *SessionRegistry, users repository.UserRepository, store cache.PresenceStore) *PresenceTracker {
	return &PresenceTracker{
		registry: registry,
		users:    users,
		store:    store,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Connected records a new session. Presence write failures are logged
// and swallowed; the session itself stays up.
func (p *PresenceTracker) Connected(ctx context.Context, connID, userID string) {
	first := p.registry.Register(connID, userID)
	if !first {
		return
	}

	logger := log.Ctx(ctx)
	if err := p.users.SetOnline(ctx, userID, true, nil); err != nil {
		logger.Warn().Err(err).Str(log.FieldUserID, userID).Msg("failed to persist online flag")
	}
	if err := p.store.SetOnline(ctx, userID); err != nil {
		logger.Warn().Err(err).Str(log.FieldUserID, userID).Msg("failed to mirror online state")
	}
	logger.Info().Str(log.FieldUserID, userID).Msg("user online")
}

// Disconnected records a dropped session. Only the last session flips
// the user offline and stamps last-seen.
func (p *PresenceTracker) Disconnected(ctx context.Context, connID string) {
	userID, last, ok := p.registry.Unregister(connID)
	if !ok || !last {
		return
	}

	logger := log.Ctx(ctx)
	lastSeen := p.now()
	if err := p.users.SetOnline(ctx, userID, false, &lastSeen); err != nil {
		logger.Warn().Err(err).Str(log.FieldUserID, userID).Msg("failed to persist offline flag")
	}
	if err := p.store.SetOffline(ctx, userID, lastSeen); err != nil {
		logger.Warn().Err(err).Str(log.FieldUserID, userID).Msg("failed to mirror offline state")
	}
	logger.Info().Str(log.FieldUserID, userID).Msg("user offline")
}
