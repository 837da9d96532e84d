package ws

import (
	"encoding/json"
	"liveexperience/internal/model"
	"sync"

	"github.com/rs/zerolog"
)

// MessageType defines the type of WebSocket message
type MessageType string

// MsgState carries a full session view; every other message type is a
// notification kind such as "answer_saved" or "follow_up_ready".
const MsgState MessageType = "state"

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	IsError bool            `json:"isError,omitempty"` // Render as a failure toast
	Payload json.RawMessage `json:"payload"`
}

// Hub fans wizard notifications out to the sockets of each session
type Hub struct {
	// sessionID -> connections; a session may be open in more than one tab
	conns map[string]map[*Connection]struct{}

	mu  sync.RWMutex
	log zerolog.Logger

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
	disconnect chan string
	done       chan struct{}
	stopOnce   sync.Once
}

// Connection represents a WebSocket connection
type Connection struct {
	SessionID string
	Send      chan []byte
	Hub       *Hub
}

// BroadcastMessage is a message for every socket of one session
type BroadcastMessage struct {
	SessionID string
	Message   *Message
}

// NewHub creates a new WebSocket hub
func NewHub(log zerolog.Logger) *Hub {
	h := &Hub{
		conns:      make(map[string]map[*Connection]struct{}),
		log:        log.With().Str("component", "ws").Logger(),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *BroadcastMessage, 256),
		disconnect: make(chan string, 16),
		done:       make(chan struct{}),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case <-h.done:
			h.mu.Lock()
			for id, set := range h.conns {
				for conn := range set {
					close(conn.Send)
				}
				delete(h.conns, id)
			}
			h.mu.Unlock()
			return

		case conn := <-h.register:
			h.mu.Lock()
			if h.conns[conn.SessionID] == nil {
				h.conns[conn.SessionID] = make(map[*Connection]struct{})
			}
			h.conns[conn.SessionID][conn] = struct{}{}
			h.mu.Unlock()
			h.log.Debug().Str("session", conn.SessionID).Msg("socket connected")

		case conn := <-h.unregister:
			h.mu.Lock()
			if set, ok := h.conns[conn.SessionID]; ok {
				if _, ok := set[conn]; ok {
					delete(set, conn)
					close(conn.Send)
					if len(set) == 0 {
						delete(h.conns, conn.SessionID)
					}
					h.log.Debug().Str("session", conn.SessionID).Msg("socket disconnected")
				}
			}
			h.mu.Unlock()

		case sessionID := <-h.disconnect:
			h.mu.Lock()
			for conn := range h.conns[sessionID] {
				close(conn.Send)
			}
			delete(h.conns, sessionID)
			h.mu.Unlock()

		case msg := <-h.broadcast:
			data, err := json.Marshal(msg.Message)
			if err != nil {
				h.log.Error().Err(err).Msg("failed to encode message")
				continue
			}
			h.mu.RLock()
			for conn := range h.conns[msg.SessionID] {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	select {
	case h.register <- conn:
	case <-h.done:
		close(conn.Send)
	}
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// Notify pushes a wizard notification to the session's sockets (implements service.Broadcaster)
func (h *Hub) Notify(sessionID string, n model.Notification) {
	h.send(sessionID, MessageType(n.Kind), n.IsError(), n)
}

// SendState pushes a full session view to the session's sockets
func (h *Hub) SendState(sessionID string, view *model.SessionView) {
	h.send(sessionID, MsgState, false, view)
}

// DisconnectSession closes every socket of an ended session (implements service.Broadcaster)
func (h *Hub) DisconnectSession(sessionID string) {
	select {
	case h.disconnect <- sessionID:
	case <-h.done:
	}
}

// Connections returns the number of open sockets for a session
func (h *Hub) Connections(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[sessionID])
}

// Stop closes all sockets and ends the hub loop
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

func (h *Hub) send(sessionID string, msgType MessageType, isError bool, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.log.Error().Err(err).Str("type", string(msgType)).Msg("failed to encode payload")
		return
	}
	select {
	case h.broadcast <- &BroadcastMessage{
		SessionID: sessionID,
		Message: &Message{
			Type:    msgType,
			IsError: isError,
			Payload: data,
		},
	}:
	case <-h.done:
	}
}
