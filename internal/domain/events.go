package domain

// Client -> server event types.
const (
	EventJoinChat    = "join_chat"
	EventLeaveChat   = "leave_chat"
	EventSendMessage = "send_message"
	EventTypingStart = "typing_start"
	EventTypingStop  = "typing_stop"
	EventMessageRead = "message_read"
)

// Server -> client event types.
const (
	EventConnected       = "connected"
	EventNewMessage      = "new_message"
	EventMessageUpdated  = "message_updated"
	EventMessageDeleted  = "message_deleted"
	EventReactionAdded   = "reaction_added"
	EventReactionRemoved = "reaction_removed"
	EventMessagesRead    = "messages_read"
	EventUserJoined      = "user_joined"
	EventUserTyping      = "user_typing"
	EventError           = "error"
)

// BaseEvent is the envelope shared by all realtime frames; the type
// field selects the concrete shape.
type BaseEvent struct {
	Type string `json:"type"`
}

// Client -> server events.

type JoinChatEvent struct {
	Type   string `json:"type"`
	ChatID string `json:"chat_id"`
}

type LeaveChatEvent struct {
	Type   string `json:"type"`
	ChatID string `json:"chat_id"`
}

type SendMessageEvent struct {
	Type        string                 `json:"type"`
	ChatID      string                 `json:"chat_id"`
	Content     string                 `json:"content"`
	MessageType MessageType            `json:"message_type,omitempty"`
	ReplyTo     string                 `json:"reply_to,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

type TypingEvent struct {
	Type   string `json:"type"`
	ChatID string `json:"chat_id"`
}

type MessageReadEvent struct {
	Type   string `json:"type"`
	ChatID string `json:"chat_id"`
}

// Server -> client events.

type ConnectedEvent struct {
	Type   string `json:"type"`
	UserID string `json:"user_id"`
}

type NewMessageEvent struct {
	Type    string  `json:"type"`
	Message Message `json:"message"`
}

type MessageUpdatedEvent struct {
	Type    string  `json:"type"`
	Message Message `json:"message"`
}

type MessageDeletedEvent struct {
	Type      string `json:"type"`
	ChatID    string `json:"chat_id"`
	MessageID string `json:"message_id"`
}

type ReactionEvent struct {
	Type      string `json:"type"`
	MessageID string `json:"message_id"`
	UserID    string `json:"user_id"`
	Emoji     string `json:"emoji"`
}

type MessagesReadEvent struct {
	Type   string `json:"type"`
	ChatID string `json:"chat_id"`
	UserID string `json:"user_id"`
	Count  int64  `json:"count"`
}

type UserJoinedEvent struct {
	Type   string `json:"type"`
	ChatID string `json:"chat_id"`
	UserID string `json:"user_id"`
}

type UserTypingEvent struct {
	Type     string `json:"type"`
	ChatID   string `json:"chat_id"`
	UserID   string `json:"user_id"`
	IsTyping bool   `json:"is_typing"`
}

type ErrorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// NewErrorEvent creates a scoped error frame for one sender.
func NewErrorEvent(message string) *ErrorEvent {
	return &ErrorEvent{Type: EventError, Message: message}
}
