package service

import (
	"context"

	"github.com/Anay7520/ChatSphere/internal/domain"
	"github.com/Anay7520/ChatSphere/internal/repository"
)

// Membership is the single authority for chat access decisions. Both
// the REST handlers and the realtime gateway consult it; neither layer
// re-implements the rules.
type Membership struct {
	chats repository.ChatRepository
}

// NewMembership creates the membership authority.
func NewMembership(chats repository.ChatRepository) *Membership {
	return &Membership{chats: chats}
}

// RequireParticipant loads the chat and fails with ErrNotParticipant
// unless the user belongs to it.
func (m *Membership) RequireParticipant(ctx context.Context, chatID, userID string) (*domain.Chat, error) {
	chat, err := m.chats.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.IsParticipant(userID) {
		return nil, ErrNotParticipant
	}
	return chat, nil
}

// RequireCanUpdate gates metadata updates: group chats require admin,
// direct chats require participant.
func (m *Membership) RequireCanUpdate(ctx context.Context, chatID, userID string) (*domain.Chat, error) {
	chat, err := m.RequireParticipant(ctx, chatID, userID)
	if err != nil {
		return nil, err
	}
	if chat.Type == domain.ChatTypeGroup && !chat.IsAdmin(userID) {
		return nil, ErrNotAdmin
	}
	return chat, nil
}

// RequireCanRemove gates participant removal: any participant may
// remove themselves; removing someone else requires admin.
func (m *Membership) RequireCanRemove(ctx context.Context, chatID, actorID, targetID string) (*domain.Chat, error) {
	chat, err := m.RequireParticipant(ctx, chatID, actorID)
	if err != nil {
		return nil, err
	}
	if actorID != targetID && !chat.IsAdmin(actorID) {
		return nil, ErrNotAdmin
	}
	return chat, nil
}
