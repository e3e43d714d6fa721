package websocket

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"time"

	"feedbackboard/internal/utils"

	"go.uber.org/zap"
)

const sendBuffer = 32

type Client struct {
	hub  *Hub
	conn ClientConn
	ID   string
	// BoardSlug is the board the client follows. It moves along with
	// board renames.
	BoardSlug string
	// IsOwner clients also receive events about unapproved feedback.
	IsOwner bool
	send    chan utils.Event
}

type ClientConn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteJSON(v interface{}) error
	Close() error
}

func generateClientID() string {
	bytes := make([]byte, 6)
	if _, err := rand.Read(bytes); err != nil {
		return "xxxxx"
	}
	return base64.URLEncoding.EncodeToString(bytes)
}

func NewClient(hub *Hub, conn ClientConn, boardSlug string, isOwner bool) *Client {
	return &Client{
		hub:       hub,
		conn:      conn,
		ID:        generateClientID(),
		BoardSlug: boardSlug,
		IsOwner:   isOwner,
		send:      make(chan utils.Event, sendBuffer),
	}
}

type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	boards     BoardAccess
	owners     OwnerCheck
	eventBus   *utils.EventBus
	logger     *zap.SugaredLogger
}

func NewHub(logger *zap.Logger, boards BoardAccess, owners OwnerCheck, eventBus *utils.EventBus) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		done:       make(chan struct{}),
		boards:     boards,
		owners:     owners,
		eventBus:   eventBus,
		logger:     logger.Sugar(),
	}
}

// Register reports false when the hub is no longer running.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Run owns the client set and fans bus events out until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	events, cancel := h.eventBus.Subscribe()
	defer cancel()
	defer close(h.done)
	h.logger.Info("WebSocket Hub started")

	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				h.drop(client)
			}
			h.logger.Info("WebSocket Hub stopped")
			return

		case client := <-h.register:
			h.clients[client] = true
			h.logger.Infow("Client connected",
				"client_id", client.ID,
				"board", client.BoardSlug,
				"clients_count", len(h.clients),
			)

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
				h.logger.Infow("Client disconnected",
					"client_id", client.ID,
					"clients_count", len(h.clients),
				)
			}

		case event, ok := <-events:
			if !ok {
				return
			}
			h.broadcast(event)
		}
	}
}

func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	close(client.send)
}

func (h *Hub) broadcast(event utils.Event) {
	for client := range h.clients {
		if client.BoardSlug != event.BoardSlug {
			continue
		}
		if event.OwnerOnly && !client.IsOwner {
			continue
		}
		select {
		case client.send <- event:
		default:
			h.logger.Warnw("Dropping slow client", "client_id", client.ID, "board", client.BoardSlug)
			h.drop(client)
		}
	}

	switch event.Event {
	case "board_updated":
		h.applyBoardUpdate(event)
	case "board_deleted":
		// the slug may be reused by another board
		for client := range h.clients {
			if client.BoardSlug == event.BoardSlug {
				h.drop(client)
			}
		}
	}
}

// applyBoardUpdate moves clients along with a slug rename and disconnects
// visitors once the board is no longer public. Dropped visitors still get
// the board_updated event queued above before their connection closes.
func (h *Hub) applyBoardUpdate(event utils.Event) {
	data, ok := event.Data.(map[string]interface{})
	if !ok {
		return
	}
	slug := event.BoardSlug
	prev, _ := data["previous_slug"].(string)
	next, _ := data["slug"].(string)
	if prev != "" && next != "" {
		for client := range h.clients {
			if client.BoardSlug == prev {
				client.BoardSlug = next
			}
		}
		slug = next
	}

	if public, ok := data["is_public"].(bool); ok && !public {
		for client := range h.clients {
			if client.BoardSlug == slug && !client.IsOwner {
				h.logger.Infow("Disconnecting visitor from private board", "client_id", client.ID, "board", slug)
				h.drop(client)
			}
		}
	}
}

// Check reports the hub as a health probe.
func (h *Hub) Check(ctx context.Context) utils.HealthStatus {
	st := utils.HealthStatus{Status: utils.StatusHealthy, Timestamp: time.Now().UTC()}
	svc := utils.ServiceStatus{Name: "Realtime", Status: "up"}
	select {
	case <-h.done:
		st.Status = utils.StatusDegraded
		svc = utils.ServiceStatus{Name: "Realtime", Status: "down", Message: "hub stopped"}
	default:
	}
	st.Services = []utils.ServiceStatus{svc}
	return st
}
