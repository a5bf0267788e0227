package service

import (
	"context"
	"errors"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/Anay7520/ChatSphere/internal/domain"
	"github.com/Anay7520/ChatSphere/internal/repository"
	"github.com/Anay7520/ChatSphere/pkg/log"
)

type chatService struct {
	chats      repository.ChatRepository
	users      repository.UserRepository
	messages   repository.MessageRepository
	membership *Membership
}

// NewChatService creates the chat service.
func NewChatService(chats repository.ChatRepository, users repository.UserRepository, messages repository.MessageRepository, membership *Membership) ChatService {
	return &chatService{chats: chats, users: users, messages: messages, membership: membership}
}

func (s *chatService) Create(ctx context.Context, creatorID string, req *domain.CreateChatRequest) (*domain.Chat, error) {
	participants := dedupeWith(req.ParticipantIDs, creatorID)

	switch req.ChatType {
	case domain.ChatTypeDirect:
		return s.createDirect(ctx, creatorID, participants)
	case domain.ChatTypeGroup:
		return s.createGroup(ctx, creatorID, participants, req)
	default:
		return nil, ErrDirectChatSize
	}
}

func (s *chatService) createDirect(ctx context.Context, creatorID string, participants []string) (*domain.Chat, error) {
	if len(participants) != 2 {
		return nil, ErrDirectChatSize
	}
	sort.Strings(participants)

	// Direct chats are unique per unordered pair; reuse the existing
	// one instead of creating a duplicate.
	existing, err := s.chats.FindDirect(ctx, participants)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrChatNotFound) {
		return nil, err
	}

	chat := &domain.Chat{
		Type:         domain.ChatTypeDirect,
		Participants: participants,
		Admins:       []string{},
		CreatedBy:    creatorID,
	}
	if err := s.chats.Create(ctx, chat); err != nil {
		return nil, err
	}

	logger := log.Ctx(ctx)
	logger.Info().
		Str(log.FieldChatID, chat.ID).
		Str(log.FieldUserID, creatorID).
		Msg("direct chat created")
	return chat, nil
}

func (s *chatService) createGroup(ctx context.Context, creatorID string, participants []string, req *domain.CreateChatRequest) (*domain.Chat, error) {
	if req.Name == "" {
		return nil, ErrGroupNameRequired
	}

	chat := &domain.Chat{
		Name:         req.Name,
		Description:  req.Description,
		Type:         domain.ChatTypeGroup,
		Avatar:       req.Avatar,
		Participants: participants,
		Admins:       []string{creatorID},
		CreatedBy:    creatorID,
	}
	if err := s.chats.Create(ctx, chat); err != nil {
		return nil, err
	}

	logger := log.Ctx(ctx)
	logger.Info().
		Str(log.FieldChatID, chat.ID).
		Str(log.FieldUserID, creatorID).
		Int("participants", len(participants)).
		Msg("group chat created")
	return chat, nil
}

func (s *chatService) Get(ctx context.Context, chatID, userID string) (*domain.ChatDetailResponse, error) {
	chat, err := s.membership.RequireParticipant(ctx, chatID, userID)
	if err != nil {
		return nil, err
	}

	users, err := s.users.GetByIDs(ctx, chat.Participants)
	if err != nil {
		return nil, err
	}
	details := make([]domain.UserSummary, 0, len(users))
	for i := range users {
		details = append(details, users[i].ToSummary())
	}

	return &domain.ChatDetailResponse{Chat: *chat, ParticipantDetails: details}, nil
}

func (s *chatService) List(ctx context.Context, userID string, includeArchived bool) (*domain.ChatListResponse, error) {
	chats, err := s.chats.ListForUser(ctx, userID, includeArchived)
	if err != nil {
		return nil, err
	}

	summaries := make([]domain.ChatSummary, len(chats))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i := range chats {
		i := i
		g.Go(func() error {
			unread, err := s.messages.CountUnread(gctx, chats[i].ID, userID)
			if err != nil {
				return err
			}
			summaries[i] = chats[i].ToSummary(unread)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &domain.ChatListResponse{Chats: summaries, Total: len(summaries)}, nil
}

func (s *chatService) Update(ctx context.Context, chatID, userID string, req *domain.UpdateChatRequest) (*domain.Chat, error) {
	if _, err := s.membership.RequireCanUpdate(ctx, chatID, userID); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Avatar != nil {
		fields["avatar"] = *req.Avatar
	}
	return s.chats.Update(ctx, chatID, fields)
}

func (s *chatService) AddParticipant(ctx context.Context, chatID, actorID, targetID string) (*domain.Chat, error) {
	chat, err := s.membership.RequireParticipant(ctx, chatID, actorID)
	if err != nil {
		return nil, err
	}
	if chat.Type != domain.ChatTypeGroup {
		return nil, ErrDirectChatMembers
	}
	if !chat.IsAdmin(actorID) {
		return nil, ErrNotAdmin
	}
	if _, err := s.users.GetByID(ctx, targetID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	updated, err := s.chats.AddParticipant(ctx, chatID, targetID)
	if err != nil {
		return nil, err
	}
	logger := log.Ctx(ctx)
	logger.Info().
		Str(log.FieldChatID, chatID).
		Str("target_id", targetID).
		Msg("participant added")
	return updated, nil
}

func (s *chatService) RemoveParticipant(ctx context.Context, chatID, actorID, targetID string) (*domain.Chat, error) {
	chat, err := s.membership.RequireCanRemove(ctx, chatID, actorID, targetID)
	if err != nil {
		return nil, err
	}
	if chat.Type != domain.ChatTypeGroup {
		return nil, ErrDirectChatMembers
	}
	if !chat.IsParticipant(targetID) {
		return nil, ErrNotParticipant
	}

	updated, err := s.chats.RemoveParticipant(ctx, chatID, targetID)
	if err != nil {
		return nil, err
	}
	logger := log.Ctx(ctx)
	logger.Info().
		Str(log.FieldChatID, chatID).
		Str("target_id", targetID).
		Msg("participant removed")
	return updated, nil
}

func (s *chatService) Archive(ctx context.Context, chatID, userID string) error {
	if _, err := s.membership.RequireParticipant(ctx, chatID, userID); err != nil {
		return err
	}
	return s.chats.Archive(ctx, chatID)
}

// dedupeWith returns ids plus extra, order-preserving, without
// duplicates.
func dedupeWith(ids []string, extra string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(ids)+1)
	for _, id := range append([]string{extra}, ids...) {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
