package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Anay7520/ChatSphere/internal/domain"
	"github.com/Anay7520/ChatSphere/internal/repository"
)

func seedChat(t *testing.T, chats *fakeChatRepo, chatType domain.ChatType, participants, admins []string) string {
	t.Helper()
	chat := &domain.Chat{
		Type:         chatType,
		Participants: participants,
		Admins:       admins,
	}
	if err := chats.Create(context.Background(), chat); err != nil {
		t.Fatalf("seed chat: %v", err)
	}
	return chat.ID
}

func TestRequireParticipant(t *testing.T) {
	chats := newFakeChatRepo()
	m := NewMembership(chats)
	ctx := context.Background()
	chatID := seedChat(t, chats, domain.ChatTypeDirect, []string{"alice", "bob"}, nil)

	if _, err := m.RequireParticipant(ctx, chatID, "alice"); err != nil {
		t.Errorf("participant rejected: %v", err)
	}
	if _, err := m.RequireParticipant(ctx, chatID, "eve"); !errors.Is(err, ErrNotParticipant) {
		t.Errorf("expected ErrNotParticipant, got %v", err)
	}
	if _, err := m.RequireParticipant(ctx, "missing", "alice"); !errors.Is(err, repository.ErrChatNotFound) {
		t.Errorf("expected ErrChatNotFound, got %v", err)
	}
}

func TestRequireCanUpdate(t *testing.T) {
	chats := newFakeChatRepo()
	m := NewMembership(chats)
	ctx := context.Background()

	group := seedChat(t, chats, domain.ChatTypeGroup, []string{"alice", "bob"}, []string{"alice"})
	if _, err := m.RequireCanUpdate(ctx, group, "alice"); err != nil {
		t.Errorf("admin rejected: %v", err)
	}
	if _, err := m.RequireCanUpdate(ctx, group, "bob"); !errors.Is(err, ErrNotAdmin) {
		t.Errorf("expected ErrNotAdmin, got %v", err)
	}

	// Direct chats have no admins; any participant may update.
	direct := seedChat(t, chats, domain.ChatTypeDirect, []string{"alice", "bob"}, nil)
	if _, err := m.RequireCanUpdate(ctx, direct, "bob"); err != nil {
		t.Errorf("direct participant rejected: %v", err)
	}
}

func TestRequireCanRemove(t *testing.T) {
	chats := newFakeChatRepo()
	m := NewMembership(chats)
	ctx := context.Background()
	group := seedChat(t, chats, domain.ChatTypeGroup, []string{"alice", "bob", "carol"}, []string{"alice"})

	// Self-removal never needs privileges.
	if _, err := m.RequireCanRemove(ctx, group, "bob", "bob"); err != nil {
		t.Errorf("self removal rejected: %v", err)
	}
	if _, err := m.RequireCanRemove(ctx, group, "alice", "carol"); err != nil {
		t.Errorf("admin removal rejected: %v", err)
	}
	if _, err := m.RequireCanRemove(ctx, group, "bob", "carol"); !errors.Is(err, ErrNotAdmin) {
		t.Errorf("expected ErrNotAdmin, got %v", err)
	}
	if _, err := m.RequireCanRemove(ctx, group, "eve", "eve"); !errors.Is(err, ErrNotParticipant) {
		t.Errorf("expected ErrNotParticipant, got %v", err)
	}
}
