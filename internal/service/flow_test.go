package service

import (
	"context"
	"testing"
	"time"

	"github.com/Anay7520/ChatSphere/internal/domain"
	"github.com/Anay7520/ChatSphere/pkg/token"
)

// Exercises the full happy path across the three services sharing one
// set of stores: signup, login, direct chat, message, read receipt,
// and the listing that ties them together.
func TestDirectConversationFlow(t *testing.T) {
	ctx := context.Background()
	userRepo := newFakeUserRepo()
	chatRepo := newFakeChatRepo()
	messageRepo := newFakeMessageRepo()
	tokens := token.NewManager("test-secret", 15*time.Minute, time.Hour, "test")
	membership := NewMembership(chatRepo)

	users := NewUserService(userRepo, tokens)
	chats := NewChatService(chatRepo, userRepo, messageRepo, membership)
	messages := NewMessageService(messageRepo, chatRepo)

	aliceAuth, err := users.Register(ctx, &domain.RegisterRequest{
		Email: "alice@example.com", Username: "alice", Password: "Sup3rSecret",
	})
	if err != nil {
		t.Fatalf("register alice: %v", err)
	}
	bobAuth, err := users.Register(ctx, &domain.RegisterRequest{
		Email: "bob@example.com", Username: "bob", Password: "Sup3rSecret",
	})
	if err != nil {
		t.Fatalf("register bob: %v", err)
	}
	alice, bob := aliceAuth.User.ID, bobAuth.User.ID

	if _, err := users.Login(ctx, &domain.LoginRequest{Username: "bob", Password: "Sup3rSecret"}); err != nil {
		t.Fatalf("login bob: %v", err)
	}

	chat, err := chats.Create(ctx, alice, &domain.CreateChatRequest{
		ChatType:       domain.ChatTypeDirect,
		ParticipantIDs: []string{bob},
	})
	if err != nil {
		t.Fatalf("create chat: %v", err)
	}

	if _, err := membership.RequireParticipant(ctx, chat.ID, alice); err != nil {
		t.Fatalf("alice should be a participant: %v", err)
	}
	msg, err := messages.Send(ctx, chat.ID, alice, &domain.SendMessageRequest{Content: "hi"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	// Bob's listing shows the preview and one unread message.
	list, err := chats.List(ctx, bob, false)
	if err != nil {
		t.Fatalf("list for bob: %v", err)
	}
	if list.Total != 1 {
		t.Fatalf("bob's chats = %d, want 1", list.Total)
	}
	if list.Chats[0].LastMessagePreview != "hi" {
		t.Errorf("preview = %q, want hi", list.Chats[0].LastMessagePreview)
	}
	if list.Chats[0].UnreadCount != 1 {
		t.Errorf("unread = %d, want 1", list.Chats[0].UnreadCount)
	}

	count, err := messages.MarkRead(ctx, chat.ID, bob, nil)
	if err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if count != 1 {
		t.Errorf("mark read count = %d, want 1", count)
	}

	got, err := messages.Get(ctx, msg.ID)
	if err != nil {
		t.Fatalf("get message: %v", err)
	}
	if got.Status != domain.MessageStatusRead {
		t.Errorf("status = %q, want read", got.Status)
	}

	list, err = chats.List(ctx, bob, false)
	if err != nil {
		t.Fatalf("list after read: %v", err)
	}
	if list.Chats[0].UnreadCount != 0 {
		t.Errorf("unread after read = %d, want 0", list.Chats[0].UnreadCount)
	}

	// The sender's own listing never counted the message as unread.
	list, err = chats.List(ctx, alice, false)
	if err != nil {
		t.Fatalf("list for alice: %v", err)
	}
	if list.Chats[0].UnreadCount != 0 {
		t.Errorf("alice's unread = %d, want 0", list.Chats[0].UnreadCount)
	}
}
