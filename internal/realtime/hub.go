package realtime

import (
	"encoding/json"
	"sync"

	"github.com/Anay7520/ChatSphere/pkg/log"
)

// Room naming. Every connection is auto-joined to its user room so
// user-directed events reach all of that user's sessions; chat rooms
// are joined explicitly.
func ChatRoom(chatID string) string { return "chat:" + chatID }
func UserRoom(userID string) string { return "user:" + userID }

// roomMessage is a fan-out request processed by the hub loop.
type roomMessage struct {
	room    string
	payload []byte
	exclude string // connection ID to skip, "" for none
}

// Hub fans events out to rooms of connected clients. All room state is
// owned by the hub; clients never touch it directly.
type Hub struct {
	clients    map[string]*Client            // connID -> client
	rooms      map[string]map[string]*Client // room -> connID -> client
	register   chan *Client
	unregister chan *Client
	broadcast  chan *roomMessage
	mu         sync.RWMutex
}

// NewHub creates a hub. Call Run in its own goroutine.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		rooms:      make(map[string]map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *roomMessage, 256),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()
			logger := log.L()
			logger.Debug().Str(log.FieldConnID, client.ID).Msg("client registered")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				for room, members := range h.rooms {
					delete(members, client.ID)
					if len(members) == 0 {
						delete(h.rooms, room)
					}
				}
				delete(h.clients, client.ID)
				client.closeSend()
			}
			h.mu.Unlock()
			logger := log.L()
			logger.Debug().Str(log.FieldConnID, client.ID).Msg("client unregistered")

		case msg := <-h.broadcast:
			h.mu.RLock()
			for connID, client := range h.rooms[msg.room] {
				if connID == msg.exclude {
					continue
				}
				select {
				case client.Send <- msg.payload:
				default:
					// Slow consumer; drop the connection rather than
					// block the fan-out loop.
					go h.Unregister(client)
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

func (h *Hub) Join(client *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.rooms[room]; !ok {
		h.rooms[room] = make(map[string]*Client)
	}
	h.rooms[room][client.ID] = client
}

func (h *Hub) Leave(client *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if members, ok := h.rooms[room]; ok {
		delete(members, client.ID)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

// Emit broadcasts an event to a room, optionally excluding one
// connection.
func (h *Hub) Emit(room string, event interface{}, exclude string) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	h.broadcast <- &roomMessage{room: room, payload: data, exclude: exclude}
	return nil
}

// EmitToChat sends an event to every session joined to the chat room.
func (h *Hub) EmitToChat(chatID string, event interface{}) error {
	return h.Emit(ChatRoom(chatID), event, "")
}

// EmitToUser sends an event to all of one user's sessions.
func (h *Hub) EmitToUser(userID string, event interface{}) error {
	return h.Emit(UserRoom(userID), event, "")
}

// RoomSize reports the number of connections joined to a room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
