package domain

import "time"

// ChatType distinguishes two-party chats from named groups.
type ChatType string

const (
	ChatTypeDirect ChatType = "direct"
	ChatTypeGroup  ChatType = "group"
)

// PreviewMaxLen is the truncation bound for the denormalized
// last-message preview stored on a chat.
const PreviewMaxLen = 100

// Chat represents a conversation. Direct chats hold exactly two
// participants and are deduplicated by the unordered pair; group chats
// have a non-empty name and the creator in the admin set.
type Chat struct {
	ID                 string     `json:"id" bson:"_id"`
	Name               string     `json:"name,omitempty" bson:"name,omitempty"`
	Description        string     `json:"description,omitempty" bson:"description,omitempty"`
	Type               ChatType   `json:"chat_type" bson:"chat_type"`
	Avatar             string     `json:"avatar,omitempty" bson:"avatar,omitempty"`
	Participants       []string   `json:"participants" bson:"participants"`
	Admins             []string   `json:"admins" bson:"admins"`
	CreatedBy          string     `json:"created_by" bson:"created_by"`
	LastMessageAt      *time.Time `json:"last_message_at,omitempty" bson:"last_message_at,omitempty"`
	LastMessagePreview string     `json:"last_message_preview,omitempty" bson:"last_message_preview,omitempty"`
	IsArchived         bool       `json:"is_archived" bson:"is_archived"`
	CreatedAt          time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at" bson:"updated_at"`
}

// IsParticipant reports whether the user belongs to the chat.
func (c *Chat) IsParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the user is in the chat's admin set.
func (c *Chat) IsAdmin(userID string) bool {
	for _, a := range c.Admins {
		if a == userID {
			return true
		}
	}
	return false
}

// CreateChatRequest represents a chat creation request.
type CreateChatRequest struct {
	ChatType       ChatType `json:"chat_type" binding:"required,oneof=direct group"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Avatar         string   `json:"avatar"`
	ParticipantIDs []string `json:"participant_ids" binding:"required,min=1"`
}

// UpdateChatRequest represents a chat metadata update.
type UpdateChatRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Avatar      *string `json:"avatar"`
}

// AddParticipantRequest adds a user to a group chat.
type AddParticipantRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// ChatSummary is the compact chat shape used in listings.
type ChatSummary struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name,omitempty"`
	Type               ChatType   `json:"chat_type"`
	Avatar             string     `json:"avatar,omitempty"`
	LastMessageAt      *time.Time `json:"last_message_at,omitempty"`
	LastMessagePreview string     `json:"last_message_preview,omitempty"`
	UnreadCount        int64      `json:"unread_count"`
}

// ChatListResponse is the response for the chat listing.
type ChatListResponse struct {
	Chats []ChatSummary `json:"chats"`
	Total int           `json:"total"`
}

// ChatDetailResponse is a chat with its participants hydrated.
type ChatDetailResponse struct {
	Chat
	ParticipantDetails []UserSummary `json:"participant_details"`
}

// ToSummary converts Chat to ChatSummary.
func (c *Chat) ToSummary(unread int64) ChatSummary {
	return ChatSummary{
		ID:                 c.ID,
		Name:               c.Name,
		Type:               c.Type,
		Avatar:             c.Avatar,
		LastMessageAt:      c.LastMessageAt,
		LastMessagePreview: c.LastMessagePreview,
		UnreadCount:        unread,
	}
}
