package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Anay7520/ChatSphere/internal/domain"
	"github.com/Anay7520/ChatSphere/internal/repository"
)

// In-memory repositories mirroring the Mongo implementations closely
// enough to exercise service semantics.

type fakeUserRepo struct {
	users map[string]*domain.User
	seq   int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return repository.ErrEmailExists
		}
		if u.Username == user.Username {
			return repository.ErrUsernameExists
		}
	}
	r.seq++
	user.ID = fmt.Sprintf("user-%d", r.seq)
	user.IsActive = true
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) GetByIDs(_ context.Context, ids []string) ([]domain.User, error) {
	var out []domain.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) SetOnline(_ context.Context, id string, online bool, lastSeen *time.Time) error {
	u, ok := r.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.IsOnline = online
	if lastSeen != nil {
		u.LastSeenAt = lastSeen
	}
	return nil
}

func (r *fakeUserRepo) Search(_ context.Context, query string, limit int64, excludeID string) ([]domain.User, error) {
	var out []domain.User
	for _, u := range r.users {
		if u.ID == excludeID {
			continue
		}
		if strings.Contains(strings.ToLower(u.Username), strings.ToLower(query)) ||
			strings.Contains(strings.ToLower(u.Email), strings.ToLower(query)) {
			out = append(out, *u)
		}
		if int64(len(out)) >= limit {
			break
		}
	}
	return out, nil
}

func (r *fakeUserRepo) Deactivate(_ context.Context, id string) error {
	u, ok := r.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.IsActive = false
	return nil
}

type fakeChatRepo struct {
	chats map[string]*domain.Chat
	seq   int
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{chats: make(map[string]*domain.Chat)}
}

func (r *fakeChatRepo) Create(_ context.Context, chat *domain.Chat) error {
	r.seq++
	chat.ID = fmt.Sprintf("chat-%d", r.seq)
	chat.CreatedAt = time.Now().UTC()
	chat.UpdatedAt = chat.CreatedAt
	cp := *chat
	r.chats[chat.ID] = &cp
	return nil
}

func (r *fakeChatRepo) GetByID(_ context.Context, id string) (*domain.Chat, error) {
	c, ok := r.chats[id]
	if !ok {
		return nil, repository.ErrChatNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeChatRepo) FindDirect(_ context.Context, participants []string) (*domain.Chat, error) {
	want := append([]string(nil), participants...)
	sort.Strings(want)
	for _, c := range r.chats {
		if c.Type != domain.ChatTypeDirect || len(c.Participants) != len(want) {
			continue
		}
		got := append([]string(nil), c.Participants...)
		sort.Strings(got)
		match := true
		for i := range got {
			if got[i] != want[i] {
				match = false
				break
			}
		}
		if match {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repository.ErrChatNotFound
}

func (r *fakeChatRepo) ListForUser(_ context.Context, userID string, includeArchived bool) ([]domain.Chat, error) {
	var out []domain.Chat
	for _, c := range r.chats {
		if !c.IsParticipant(userID) {
			continue
		}
		if c.IsArchived && !includeArchived {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (r *fakeChatRepo) Update(_ context.Context, id string, fields map[string]interface{}) (*domain.Chat, error) {
	c, ok := r.chats[id]
	if !ok {
		return nil, repository.ErrChatNotFound
	}
	if v, ok := fields["name"].(string); ok {
		c.Name = v
	}
	if v, ok := fields["description"].(string); ok {
		c.Description = v
	}
	if v, ok := fields["avatar"].(string); ok {
		c.Avatar = v
	}
	c.UpdatedAt = time.Now().UTC()
	cp := *c
	return &cp, nil
}

func (r *fakeChatRepo) AddParticipant(_ context.Context, chatID, userID string) (*domain.Chat, error) {
	c, ok := r.chats[chatID]
	if !ok {
		return nil, repository.ErrChatNotFound
	}
	if !c.IsParticipant(userID) {
		c.Participants = append(c.Participants, userID)
	}
	cp := *c
	return &cp, nil
}

func (r *fakeChatRepo) RemoveParticipant(_ context.Context, chatID, userID string) (*domain.Chat, error) {
	c, ok := r.chats[chatID]
	if !ok {
		return nil, repository.ErrChatNotFound
	}
	c.Participants = remove(c.Participants, userID)
	c.Admins = remove(c.Admins, userID)
	cp := *c
	return &cp, nil
}

func (r *fakeChatRepo) Archive(_ context.Context, chatID string) error {
	c, ok := r.chats[chatID]
	if !ok {
		return repository.ErrChatNotFound
	}
	c.IsArchived = true
	return nil
}

func (r *fakeChatRepo) SetLastMessage(_ context.Context, chatID, preview string, at time.Time) error {
	c, ok := r.chats[chatID]
	if !ok {
		return repository.ErrChatNotFound
	}
	c.LastMessagePreview = preview
	c.LastMessageAt = &at
	return nil
}

func remove(s []string, v string) []string {
	out := s[:0]
	for _, x := range s {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}

type fakeMessageRepo struct {
	messages map[string]*domain.Message
	order    []string
	seq      int
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{messages: make(map[string]*domain.Message)}
}

func (r *fakeMessageRepo) Insert(_ context.Context, msg *domain.Message) error {
	r.seq++
	msg.ID = fmt.Sprintf("msg-%d", r.seq)
	msg.Status = domain.MessageStatusSent
	if msg.Type == "" {
		msg.Type = domain.MessageTypeText
	}
	if msg.Reactions == nil {
		msg.Reactions = map[string][]string{}
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	msg.UpdatedAt = msg.CreatedAt
	cp := *msg
	r.messages[msg.ID] = &cp
	r.order = append(r.order, msg.ID)
	return nil
}

func (r *fakeMessageRepo) GetByID(_ context.Context, id string) (*domain.Message, error) {
	m, ok := r.messages[id]
	if !ok {
		return nil, repository.ErrMessageNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMessageRepo) ListByChat(_ context.Context, chatID string, limit int64, before, after *time.Time) ([]domain.Message, error) {
	var out []domain.Message
	for _, id := range r.order {
		m := r.messages[id]
		if m.ChatID != chatID || m.IsDeleted {
			continue
		}
		if before != nil && !m.CreatedAt.Before(*before) {
			continue
		}
		if after != nil && !m.CreatedAt.After(*after) {
			continue
		}
		out = append(out, *m)
	}

	newestFirst := !(after != nil && before == nil)
	sort.Slice(out, func(i, j int) bool {
		if newestFirst {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeMessageRepo) Edit(_ context.Context, id, content string, at time.Time) (*domain.Message, error) {
	m, ok := r.messages[id]
	if !ok {
		return nil, repository.ErrMessageNotFound
	}
	m.Content = content
	m.IsEdited = true
	m.EditedAt = &at
	m.UpdatedAt = at
	cp := *m
	return &cp, nil
}

func (r *fakeMessageRepo) SoftDelete(_ context.Context, id string, at time.Time) (*domain.Message, error) {
	m, ok := r.messages[id]
	if !ok {
		return nil, repository.ErrMessageNotFound
	}
	m.IsDeleted = true
	m.DeletedAt = &at
	m.Content = domain.DeletedPlaceholder
	m.UpdatedAt = at
	cp := *m
	return &cp, nil
}

func (r *fakeMessageRepo) AddReaction(_ context.Context, id, userID, emoji string) (*domain.Message, error) {
	m, ok := r.messages[id]
	if !ok {
		return nil, repository.ErrMessageNotFound
	}
	for _, u := range m.Reactions[emoji] {
		if u == userID {
			cp := *m
			return &cp, nil
		}
	}
	m.Reactions[emoji] = append(m.Reactions[emoji], userID)
	cp := *m
	return &cp, nil
}

func (r *fakeMessageRepo) RemoveReaction(_ context.Context, id, userID, emoji string) (*domain.Message, error) {
	m, ok := r.messages[id]
	if !ok {
		return nil, repository.ErrMessageNotFound
	}
	m.Reactions[emoji] = remove(m.Reactions[emoji], userID)
	if len(m.Reactions[emoji]) == 0 {
		delete(m.Reactions, emoji)
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMessageRepo) MarkRead(_ context.Context, chatID, readerID string, before *time.Time) (int64, error) {
	var count int64
	for _, m := range r.messages {
		if m.ChatID != chatID || m.SenderID == readerID || m.Status == domain.MessageStatusRead {
			continue
		}
		if before != nil && m.CreatedAt.After(*before) {
			continue
		}
		m.Status = domain.MessageStatusRead
		count++
	}
	return count, nil
}

func (r *fakeMessageRepo) CountUnread(_ context.Context, chatID, userID string) (int64, error) {
	var count int64
	for _, m := range r.messages {
		if m.ChatID == chatID && m.SenderID != userID && m.Status != domain.MessageStatusRead && !m.IsDeleted {
			count++
		}
	}
	return count, nil
}
