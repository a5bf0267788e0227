package service

import (
	"context"
	"time"

	"github.com/Anay7520/ChatSphere/internal/domain"
	"github.com/Anay7520/ChatSphere/internal/repository"
	"github.com/Anay7520/ChatSphere/pkg/log"
)

type messageService struct {
	messages repository.MessageRepository
	chats    repository.ChatRepository
}

// NewMessageService creates the message service.
func NewMessageService(messages repository.MessageRepository, chats repository.ChatRepository) MessageService {
	return &messageService{messages: messages, chats: chats}
}

func (s *messageService) Send(ctx context.Context, chatID, senderID string, req *domain.SendMessageRequest) (*domain.Message, error) {
	msg := &domain.Message{
		ChatID:   chatID,
		SenderID: senderID,
		Content:  req.Content,
		Type:     req.MessageType,
		ReplyTo:  req.ReplyTo,
		Metadata: req.Metadata,
	}
	if err := s.messages.Insert(ctx, msg); err != nil {
		return nil, err
	}

	// The preview write is deliberately decoupled: a failure here must
	// not undo a persisted message.
	preview := domain.TruncatePreview(msg.Content)
	if err := s.chats.SetLastMessage(ctx, chatID, preview, msg.CreatedAt); err != nil {
		logger := log.Ctx(ctx)
		logger.Warn().Err(err).
			Str(log.FieldChatID, chatID).
			Msg("failed to update chat preview")
	}

	return msg, nil
}

func (s *messageService) Edit(ctx context.Context, messageID, actingID, content string) (*domain.Message, error) {
	msg, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if msg.SenderID != actingID {
		return nil, ErrNotSender
	}
	return s.messages.Edit(ctx, messageID, content, time.Now().UTC())
}

func (s *messageService) Delete(ctx context.Context, messageID, actingID string) (*domain.Message, error) {
	msg, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if msg.SenderID != actingID {
		return nil, ErrNotSender
	}
	if msg.IsDeleted {
		// Tombstoning is idempotent.
		return msg, nil
	}
	return s.messages.SoftDelete(ctx, messageID, time.Now().UTC())
}

func (s *messageService) Get(ctx context.Context, messageID string) (*domain.Message, error) {
	return s.messages.GetByID(ctx, messageID)
}

func (s *messageService) React(ctx context.Context, messageID, actingID, emoji string) (*domain.Message, error) {
	// $addToSet makes repeats no-ops; no read-before-write needed.
	return s.messages.AddReaction(ctx, messageID, actingID, emoji)
}

func (s *messageService) Unreact(ctx context.Context, messageID, actingID, emoji string) (*domain.Message, error) {
	return s.messages.RemoveReaction(ctx, messageID, actingID, emoji)
}

func (s *messageService) MarkRead(ctx context.Context, chatID, actingID string, before *time.Time) (int64, error) {
	count, err := s.messages.MarkRead(ctx, chatID, actingID, before)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		logger := log.Ctx(ctx)
		logger.Debug().
			Str(log.FieldChatID, chatID).
			Str(log.FieldUserID, actingID).
			Int64("count", count).
			Msg("messages marked read")
	}
	return count, nil
}

func (s *messageService) List(ctx context.Context, chatID string, limit int64, before, after *time.Time) ([]domain.Message, error) {
	return s.messages.ListByChat(ctx, chatID, limit, before, after)
}
