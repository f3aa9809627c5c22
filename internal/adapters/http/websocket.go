package httpadapter

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/PabloGalante/organizer-agent/internal/app/conversation"
	"github.com/PabloGalante/organizer-agent/internal/domain"
	"github.com/PabloGalante/organizer-agent/internal/observability"
)

// wsMessage is the envelope for every websocket frame.
//
//	client → server: {"type":"message","session_id":"...","text":"..."}
//	server → client: {"type":"reply","session_id":"...","payload":{...}}
//	                 {"type":"reminder","payload":{...}}
//	                 {"type":"error","session_id":"...","error":"..."}
type wsMessage struct {
	Type      string          `json:"type"`
	SessionID string          `json:"session_id,omitempty"`
	Text      string          `json:"text,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Error     string          `json:"error,omitempty"`
}

type wsClient struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (c *wsClient) send(msg wsMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub serves the /ws endpoint. Clients send chat messages over it and
// receive fired reminders.
type Hub struct {
	conv     *conversation.Service
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*wsClient]struct{}
}

func NewHub(conv *conversation.Service) *Hub {
	return &Hub{
		conv: conv,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		clients: make(map[*wsClient]struct{}),
	}
}

// PublishReminder broadcasts a reminder to every connected client.
func (h *Hub) PublishReminder(r domain.Reminder) {
	payload, err := json.Marshal(r)
	if err != nil {
		return
	}
	msg := wsMessage{Type: "reminder", Payload: payload}

	h.mu.Lock()
	clients := make([]*wsClient, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		if err := c.send(msg); err != nil {
			observability.Logger().Warn("failed to publish reminder", "key", r.Key, "error", err)
		}
	}
}

// Clients reports the number of open connections.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := observability.LoggerFromContext(r.Context()).With("component", "websocket")

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	client := &wsClient{conn: conn}
	h.mu.Lock()
	h.clients[client] = struct{}{}
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		delete(h.clients, client)
		h.mu.Unlock()
	}()

	log.Info("websocket client connected", "remote", r.RemoteAddr)

	ctx, cancel := context.WithCancel(r.Context())
	var wg sync.WaitGroup
	defer func() {
		cancel()
		wg.Wait()
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("websocket read error", "error", err)
			}
			return
		}

		var msg wsMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			_ = client.send(wsMessage{Type: "error", Error: "invalid JSON"})
			continue
		}
		if msg.Type != "message" {
			_ = client.send(wsMessage{Type: "error", SessionID: msg.SessionID, Error: "unknown message type: " + msg.Type})
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			h.handleMessage(ctx, client, msg)
		}()
	}
}

func (h *Hub) handleMessage(ctx context.Context, client *wsClient, msg wsMessage) {
	out, err := h.conv.SendMessage(ctx, conversation.SendMessageInput{
		SessionID: domain.SessionID(msg.SessionID),
		Text:      msg.Text,
	})
	if err != nil {
		_ = client.send(wsMessage{Type: "error", SessionID: msg.SessionID, Error: err.Error()})
		return
	}

	payload, err := json.Marshal(sendMessageResponse{
		UserMessage:  toEntryResponse(out.UserEntry),
		AgentMessage: toEntryResponse(out.Reply),
		ToolResults:  toEntriesResponse(out.ToolResults),
		Faulted:      out.Faulted,
	})
	if err != nil {
		return
	}
	_ = client.send(wsMessage{Type: "reply", SessionID: msg.SessionID, Payload: payload})
}
