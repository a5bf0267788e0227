package domain

import "time"

// MessageStatus is a message's delivery status. It evolves
// independently of the edit/delete chain.
type MessageStatus string

const (
	MessageStatusSent      MessageStatus = "sent"
	MessageStatusDelivered MessageStatus = "delivered"
	MessageStatusRead      MessageStatus = "read"
)

// MessageType classifies message content.
type MessageType string

const (
	MessageTypeText   MessageType = "text"
	MessageTypeImage  MessageType = "image"
	MessageTypeVideo  MessageType = "video"
	MessageTypeFile   MessageType = "file"
	MessageTypeSystem MessageType = "system"
)

// DeletedPlaceholder replaces the content of a soft-deleted message.
// Deletion tombstones the record, it never removes it.
const DeletedPlaceholder = "[Message deleted]"

// Message belongs to exactly one chat. created_at is immutable and is
// the authoritative ordering, not transport arrival.
type Message struct {
	ID        string                 `json:"id" bson:"_id"`
	ChatID    string                 `json:"chat_id" bson:"chat_id"`
	SenderID  string                 `json:"sender_id" bson:"sender_id"`
	Content   string                 `json:"content" bson:"content"`
	Type      MessageType            `json:"message_type" bson:"message_type"`
	Status    MessageStatus          `json:"status" bson:"status"`
	ReplyTo   string                 `json:"reply_to,omitempty" bson:"reply_to,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty" bson:"metadata,omitempty"`
	Reactions map[string][]string    `json:"reactions" bson:"reactions"`
	IsEdited  bool                   `json:"is_edited" bson:"is_edited"`
	EditedAt  *time.Time             `json:"edited_at,omitempty" bson:"edited_at,omitempty"`
	IsDeleted bool                   `json:"is_deleted" bson:"is_deleted"`
	DeletedAt *time.Time             `json:"deleted_at,omitempty" bson:"deleted_at,omitempty"`
	CreatedAt time.Time              `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time              `json:"updated_at" bson:"updated_at"`
}

// SendMessageRequest represents a message creation request.
type SendMessageRequest struct {
	Content     string                 `json:"content" binding:"required,min=1,max=5000"`
	MessageType MessageType            `json:"message_type"`
	ReplyTo     string                 `json:"reply_to"`
	Metadata    map[string]interface{} `json:"metadata"`
}

// EditMessageRequest represents a message edit.
type EditMessageRequest struct {
	Content string `json:"content" binding:"required,min=1,max=5000"`
}

// ReactionRequest adds an emoji reaction to a message.
type ReactionRequest struct {
	Emoji string `json:"emoji" binding:"required,max=16"`
}

// MarkReadRequest optionally bounds a bulk read transition.
type MarkReadRequest struct {
	Before *time.Time `json:"before"`
}

// MessageListResponse is a page of messages. HasMore is computed by
// the caller from a limit+1 probe.
type MessageListResponse struct {
	Messages []Message `json:"messages"`
	Count    int       `json:"count"`
	HasMore  bool      `json:"has_more"`
}

// MarkReadResponse reports how many messages actually transitioned.
type MarkReadResponse struct {
	Count int64 `json:"count"`
}

// TruncatePreview bounds content for the denormalized chat preview.
func TruncatePreview(content string) string {
	runes := []rune(content)
	if len(runes) <= PreviewMaxLen {
		return content
	}
	return string(runes[:PreviewMaxLen])
}
