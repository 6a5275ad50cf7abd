package ws

import (
	"context"
	"encoding/json"
	"sync"

	"azellar-portal/internal/session"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type message struct {
	topics []string
	body   []byte
}

// Hub fans auth-state events out to the sockets of one session. Each
// session ID is a topic; bearer clients listen on their user topic instead.
type Hub struct {
	topics     map[string]map[*Client]struct{}
	publish    chan message
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	doneOnce   sync.Once
	mutex      sync.RWMutex
	logger     *zap.Logger
}

// UserTopic carries every event of one user, whatever the session.
func UserTopic(id uuid.UUID) string {
	return "user:" + id.String()
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		topics:     make(map[string]map[*Client]struct{}),
		publish:    make(chan message, 1024),
		register:   make(chan *Client, 128),
		unregister: make(chan *Client, 128),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run processes registrations and events until ctx is done, then closes
// every client. Registrations after that are ignored.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.doneOnce.Do(func() { close(h.done) })
			h.mutex.Lock()
			for topic, clients := range h.topics {
				for c := range clients {
					close(c.send)
				}
				delete(h.topics, topic)
			}
			h.mutex.Unlock()
			return

		case client := <-h.register:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			clients, ok := h.topics[client.topic]
			if !ok {
				clients = make(map[*Client]struct{})
				h.topics[client.topic] = clients
			}
			clients[client] = struct{}{}
			h.mutex.Unlock()
			h.logger.Debug("ws connected", zap.Int("total_clients", h.ClientCount()))

		case client := <-h.unregister:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			h.removeLocked(client)
			h.mutex.Unlock()
			h.logger.Debug("ws disconnected", zap.Int("total_clients", h.ClientCount()))

		case msg := <-h.publish:
			h.mutex.Lock()
			for _, topic := range msg.topics {
				for client := range h.topics[topic] {
					select {
					case client.send <- msg.body:
					default:
						h.removeLocked(client)
						h.logger.Warn("ws client dropped", zap.String("reason", "send_buffer_full"))
					}
				}
			}
			h.mutex.Unlock()
		}
	}
}

func (h *Hub) removeLocked(client *Client) {
	clients, ok := h.topics[client.topic]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.topics, client.topic)
	}
}

// Register after the hub stopped closes the client right away.
func (h *Hub) Register(client *Client) {
	if h == nil || client == nil {
		return
	}
	select {
	case <-h.done:
		close(client.send)
		return
	default:
	}
	select {
	case h.register <- client:
	case <-h.done:
		close(client.send)
	}
}

func (h *Hub) Unregister(client *Client) {
	if h == nil {
		return
	}
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Publish implements session.Publisher. Events nobody listens to are
// discarded.
func (h *Hub) Publish(evt session.Event) {
	if h == nil {
		return
	}
	var topics []string
	if evt.SessionID != "" {
		topics = append(topics, evt.SessionID)
	}
	if evt.UserID != uuid.Nil {
		topics = append(topics, UserTopic(evt.UserID))
	}
	if len(topics) == 0 {
		return
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}
	select {
	case h.publish <- message{topics: topics, body: b}:
	default:
		h.logger.Warn("ws event dropped", zap.String("type", string(evt.Type)), zap.String("reason", "buffer_full"))
	}
}

func (h *Hub) ClientCount() int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	n := 0
	for _, clients := range h.topics {
		n += len(clients)
	}
	return n
}

func (h *Hub) TopicCount(topic string) int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.topics[topic])
}
