package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Anay7520/ChatSphere/internal/domain"
	"github.com/Anay7520/ChatSphere/internal/repository"
)

func newMessageFixture(t *testing.T) (MessageService, *fakeChatRepo, *fakeMessageRepo, string) {
	t.Helper()
	chats := newFakeChatRepo()
	messages := newFakeMessageRepo()
	svc := NewMessageService(messages, chats)

	chat := &domain.Chat{
		Type:         domain.ChatTypeDirect,
		Participants: []string{"alice", "bob"},
	}
	if err := chats.Create(context.Background(), chat); err != nil {
		t.Fatalf("seed chat: %v", err)
	}
	return svc, chats, messages, chat.ID
}

func TestSendUpdatesPreview(t *testing.T) {
	svc, chats, _, chatID := newMessageFixture(t)
	ctx := context.Background()

	msg, err := svc.Send(ctx, chatID, "alice", &domain.SendMessageRequest{Content: "hello bob"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if msg.ID == "" || msg.Status != domain.MessageStatusSent {
		t.Errorf("unexpected message %+v", msg)
	}

	chat, err := chats.GetByID(ctx, chatID)
	if err != nil {
		t.Fatalf("get chat: %v", err)
	}
	if chat.LastMessagePreview != "hello bob" {
		t.Errorf("preview = %q, want %q", chat.LastMessagePreview, "hello bob")
	}
	if chat.LastMessageAt == nil || !chat.LastMessageAt.Equal(msg.CreatedAt) {
		t.Error("last_message_at should track the message timestamp")
	}
}

func TestSendTruncatesPreview(t *testing.T) {
	svc, chats, _, chatID := newMessageFixture(t)
	ctx := context.Background()

	long := strings.Repeat("héllo", 30) // 150 runes
	if _, err := svc.Send(ctx, chatID, "alice", &domain.SendMessageRequest{Content: long}); err != nil {
		t.Fatalf("send: %v", err)
	}

	chat, err := chats.GetByID(ctx, chatID)
	if err != nil {
		t.Fatalf("get chat: %v", err)
	}
	if got := len([]rune(chat.LastMessagePreview)); got != domain.PreviewMaxLen {
		t.Errorf("preview length = %d runes, want %d", got, domain.PreviewMaxLen)
	}
	if !strings.HasPrefix(long, chat.LastMessagePreview) {
		t.Error("preview must be a prefix of the content")
	}
}

func TestEditRequiresSender(t *testing.T) {
	svc, _, _, chatID := newMessageFixture(t)
	ctx := context.Background()

	msg, err := svc.Send(ctx, chatID, "alice", &domain.SendMessageRequest{Content: "original"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	if _, err := svc.Edit(ctx, msg.ID, "bob", "hijacked"); !errors.Is(err, ErrNotSender) {
		t.Errorf("expected ErrNotSender, got %v", err)
	}

	edited, err := svc.Edit(ctx, msg.ID, "alice", "fixed")
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if edited.Content != "fixed" || !edited.IsEdited || edited.EditedAt == nil {
		t.Errorf("edit flags not set: %+v", edited)
	}
}

func TestDeleteTombstones(t *testing.T) {
	svc, _, _, chatID := newMessageFixture(t)
	ctx := context.Background()

	msg, err := svc.Send(ctx, chatID, "alice", &domain.SendMessageRequest{Content: "secret"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	if _, err := svc.Delete(ctx, msg.ID, "bob"); !errors.Is(err, ErrNotSender) {
		t.Errorf("expected ErrNotSender, got %v", err)
	}

	deleted, err := svc.Delete(ctx, msg.ID, "alice")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !deleted.IsDeleted || deleted.Content != domain.DeletedPlaceholder {
		t.Errorf("expected tombstone, got %+v", deleted)
	}

	// The record survives and a repeat delete is a no-op.
	again, err := svc.Delete(ctx, msg.ID, "alice")
	if err != nil {
		t.Fatalf("repeat delete: %v", err)
	}
	if !again.IsDeleted {
		t.Error("repeat delete should stay tombstoned")
	}
	if _, err := svc.Get(ctx, msg.ID); err != nil {
		t.Errorf("tombstoned message should remain fetchable: %v", err)
	}
}

func TestEditAfterDeleteKeepsTombstone(t *testing.T) {
	svc, _, _, chatID := newMessageFixture(t)
	ctx := context.Background()

	msg, err := svc.Send(ctx, chatID, "alice", &domain.SendMessageRequest{Content: "oops"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, err := svc.Delete(ctx, msg.ID, "alice"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	// Editing a tombstoned message is permitted but never resurrects it.
	edited, err := svc.Edit(ctx, msg.ID, "alice", "revised")
	if err != nil {
		t.Fatalf("edit after delete: %v", err)
	}
	if !edited.IsDeleted {
		t.Error("edit must not clear the deleted flag")
	}
	if edited.DeletedAt == nil {
		t.Error("edit must not clear the deletion timestamp")
	}

	got, err := svc.List(ctx, chatID, 10, nil, nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("edited tombstone must stay hidden from listings, got %d", len(got))
	}
}

func TestReactionsIdempotent(t *testing.T) {
	svc, _, _, chatID := newMessageFixture(t)
	ctx := context.Background()

	msg, err := svc.Send(ctx, chatID, "alice", &domain.SendMessageRequest{Content: "react to me"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := svc.React(ctx, msg.ID, "bob", "👍"); err != nil {
			t.Fatalf("react: %v", err)
		}
	}
	got, err := svc.Get(ctx, msg.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Reactions["👍"]) != 1 {
		t.Errorf("repeated reactions should collapse, got %v", got.Reactions)
	}

	// Removing an absent reaction is a no-op, not an error.
	if _, err := svc.Unreact(ctx, msg.ID, "carol", "👍"); err != nil {
		t.Fatalf("unreact absent: %v", err)
	}
	if _, err := svc.Unreact(ctx, msg.ID, "bob", "👍"); err != nil {
		t.Fatalf("unreact: %v", err)
	}
	got, _ = svc.Get(ctx, msg.ID)
	if len(got.Reactions["👍"]) != 0 {
		t.Errorf("reaction should be removed, got %v", got.Reactions)
	}
}

func TestMarkReadSkipsOwnAndRead(t *testing.T) {
	svc, _, messages, chatID := newMessageFixture(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	insert := func(sender string, offset time.Duration) {
		t.Helper()
		if err := messages.Insert(ctx, &domain.Message{
			ChatID:    chatID,
			SenderID:  sender,
			Content:   "m",
			CreatedAt: base.Add(offset),
		}); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	insert("bob", 0)
	insert("bob", time.Minute)
	insert("alice", 2*time.Minute) // reader's own
	insert("bob", time.Hour)       // outside the bound

	bound := base.Add(30 * time.Minute)
	count, err := svc.MarkRead(ctx, chatID, "alice", &bound)
	if err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}

	// Second pass finds only the message beyond the previous bound.
	count, err = svc.MarkRead(ctx, chatID, "alice", nil)
	if err != nil {
		t.Fatalf("mark read again: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestListOrderingAndBounds(t *testing.T) {
	svc, _, messages, chatID := newMessageFixture(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 1; i <= 10; i++ {
		if err := messages.Insert(ctx, &domain.Message{
			ChatID:    chatID,
			SenderID:  "alice",
			Content:   "m",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	// Unbounded pages read newest-first.
	got, err := svc.List(ctx, chatID, 3, nil, nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 || !got[0].CreatedAt.Equal(base.Add(10*time.Minute)) {
		t.Errorf("expected newest-first page, got %d starting %v", len(got), got[0].CreatedAt)
	}

	// Forward pages read chronologically and the bound is exclusive.
	after := base.Add(7 * time.Minute)
	got, err = svc.List(ctx, chatID, 10, nil, &after)
	if err != nil {
		t.Fatalf("list after: %v", err)
	}
	if len(got) != 3 || !got[0].CreatedAt.Equal(base.Add(8*time.Minute)) {
		t.Errorf("expected messages 8..10 chronologically, got %d", len(got))
	}

	before := base.Add(3 * time.Minute)
	got, err = svc.List(ctx, chatID, 10, &before, nil)
	if err != nil {
		t.Fatalf("list before: %v", err)
	}
	if len(got) != 2 || !got[0].CreatedAt.Equal(base.Add(2*time.Minute)) {
		t.Errorf("expected messages 2,1 newest-first, got %d", len(got))
	}
}

func TestListExcludesDeleted(t *testing.T) {
	svc, _, _, chatID := newMessageFixture(t)
	ctx := context.Background()

	keep, err := svc.Send(ctx, chatID, "alice", &domain.SendMessageRequest{Content: "keep"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	gone, err := svc.Send(ctx, chatID, "alice", &domain.SendMessageRequest{Content: "gone"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, err := svc.Delete(ctx, gone.ID, "alice"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	got, err := svc.List(ctx, chatID, 10, nil, nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].ID != keep.ID {
		t.Errorf("deleted messages must not appear in listings, got %d", len(got))
	}
}

func TestMessageNotFound(t *testing.T) {
	svc, _, _, _ := newMessageFixture(t)
	ctx := context.Background()

	if _, err := svc.Edit(ctx, "missing", "alice", "x"); !errors.Is(err, repository.ErrMessageNotFound) {
		t.Errorf("expected ErrMessageNotFound, got %v", err)
	}
	if _, err := svc.Delete(ctx, "missing", "alice"); !errors.Is(err, repository.ErrMessageNotFound) {
		t.Errorf("expected ErrMessageNotFound, got %v", err)
	}
}
