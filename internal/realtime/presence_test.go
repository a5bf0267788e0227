package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/Anay7520/ChatSphere/internal/domain"
)

type onlineCall struct {
	online   bool
	lastSeen *time.Time
}

// fakePresenceUsers records SetOnline calls; the rest of the user
// repository is unused by presence.
type fakePresenceUsers struct {
	calls map[string][]onlineCall
}

func newFakePresenceUsers() *fakePresenceUsers {
	return &fakePresenceUsers{calls: make(map[string][]onlineCall)}
}

func (f *fakePresenceUsers) SetOnline(_ context.Context, id string, online bool, lastSeen *time.Time) error {
	f.calls[id] = append(f.calls[id], onlineCall{online: online, lastSeen: lastSeen})
	return nil
}

func (f *fakePresenceUsers) Create(context.Context, *domain.User) error { return nil }
func (f *fakePresenceUsers) GetByID(context.Context, string) (*domain.User, error) {
	return nil, nil
}
func (f *fakePresenceUsers) GetByEmail(context.Context, string) (*domain.User, error) {
	return nil, nil
}
func (f *fakePresenceUsers) GetByUsername(context.Context, string) (*domain.User, error) {
	return nil, nil
}
func (f *fakePresenceUsers) GetByIDs(context.Context, []string) ([]domain.User, error) {
	return nil, nil
}
func (f *fakePresenceUsers) Update(context.Context, *domain.User) error { return nil }
func (f *fakePresenceUsers) Search(context.Context, string, int64, string) ([]domain.User, error) {
	return nil, nil
}
func (f *fakePresenceUsers) Deactivate(context.Context, string) error { return nil }

// fakePresenceStore records the mirrored online set.
type fakePresenceStore struct {
	online  map[string]bool
	offline map[string]time.Time
	typing  map[string]map[string]bool
}

func newFakePresenceStore() *fakePresenceStore {
	return &fakePresenceStore{
		online:  make(map[string]bool),
		offline: make(map[string]time.Time),
		typing:  make(map[string]map[string]bool),
	}
}

func (f *fakePresenceStore) SetOnline(_ context.Context, userID string) error {
	f.online[userID] = true
	return nil
}

func (f *fakePresenceStore) SetOffline(_ context.Context, userID string, lastSeen time.Time) error {
	delete(f.online, userID)
	f.offline[userID] = lastSeen
	return nil
}

func (f *fakePresenceStore) OnlineUsers(context.Context) ([]string, error) {
	var out []string
	for id := range f.online {
		out = append(out, id)
	}
	return out, nil
}

func (f *fakePresenceStore) SetTyping(_ context.Context, chatID, userID string, typing bool) error {
	if f.typing[chatID] == nil {
		f.typing[chatID] = make(map[string]bool)
	}
	if typing {
		f.typing[chatID][userID] = true
	} else {
		delete(f.typing[chatID], userID)
	}
	return nil
}

func (f *fakePresenceStore) TypingUsers(_ context.Context, chatID string) ([]string, error) {
	var out []string
	for id := range f.typing[chatID] {
		out = append(out, id)
	}
	return out, nil
}

func (f *fakePresenceStore) Close() error { return nil }

func TestPresenceOnlyEdgesTouchPersistence(t *testing.T) {
	users := newFakePresenceUsers()
	store := newFakePresenceStore()
	p := NewPresenceTracker(NewSessionRegistry(), users, store)
	ctx := context.Background()

	// Three sessions: only the first flips the flag.
	p.Connected(ctx, "c1", "alice")
	p.Connected(ctx, "c2", "alice")
	p.Connected(ctx, "c3", "alice")

	if got := len(users.calls["alice"]); got != 1 {
		t.Fatalf("SetOnline calls = %d, want 1", got)
	}
	if call := users.calls["alice"][0]; !call.online || call.lastSeen != nil {
		t.Errorf("online edge = %+v, want online with nil lastSeen", call)
	}
	if !store.online["alice"] {
		t.Error("mirror should show alice online")
	}

	// Dropping two sessions keeps her online.
	p.Disconnected(ctx, "c1")
	p.Disconnected(ctx, "c2")
	if got := len(users.calls["alice"]); got != 1 {
		t.Fatalf("intermediate disconnects must not write, calls = %d", got)
	}

	// The last session flips her offline with a last-seen stamp.
	p.Disconnected(ctx, "c3")
	if got := len(users.calls["alice"]); got != 2 {
		t.Fatalf("SetOnline calls = %d, want 2", got)
	}
	if call := users.calls["alice"][1]; call.online || call.lastSeen == nil {
		t.Errorf("offline edge = %+v, want offline with lastSeen", call)
	}
	if store.online["alice"] {
		t.Error("mirror should show alice offline")
	}
	if _, ok := store.offline["alice"]; !ok {
		t.Error("mirror should record last seen")
	}
}

func TestPresenceFixedLastSeenClock(t *testing.T) {
	users := newFakePresenceUsers()
	store := newFakePresenceStore()
	p := NewPresenceTracker(NewSessionRegistry(), users, store)
	want := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	p.now = func() time.Time { return want }
	ctx := context.Background()

	p.Connected(ctx, "c1", "alice")
	p.Disconnected(ctx, "c1")

	if got := store.offline["alice"]; !got.Equal(want) {
		t.Errorf("last seen = %v, want %v", got, want)
	}
	if got := users.calls["alice"][1].lastSeen; got == nil || !got.Equal(want) {
		t.Errorf("persisted last seen = %v, want %v", got, want)
	}
}

func TestPresenceDuplicateDisconnect(t *testing.T) {
	users := newFakePresenceUsers()
	p := NewPresenceTracker(NewSessionRegistry(), users, newFakePresenceStore())
	ctx := context.Background()

	p.Connected(ctx, "c1", "alice")
	p.Disconnected(ctx, "c1")
	p.Disconnected(ctx, "c1")

	if got := len(users.calls["alice"]); got != 2 {
		t.Errorf("duplicate disconnect must not write again, calls = %d", got)
	}
}
