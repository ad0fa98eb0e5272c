package websocket

import "github.com/rs/zerolog/log"

// userMessage is a message addressed to every client of one user.
type userMessage struct {
	userID  string
	payload []byte
}

// Hub maintains the set of active clients and delivers note-change messages
// to the clients of the user they belong to. All map access happens on the
// Run goroutine.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Inbound messages for global broadcast.
	Broadcast chan []byte

	// Messages addressed to a single user's clients.
	direct chan userMessage

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	// A map of user IDs to the set of clients authenticated as that user.
	subscriptions map[string]map[*Client]bool
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		Broadcast:     make(chan []byte),
		direct:        make(chan userMessage, 64),
		Register:      make(chan *Client),
		Unregister:    make(chan *Client),
		clients:       make(map[*Client]bool),
		subscriptions: make(map[string]map[*Client]bool),
	}
}

// Run starts the Hub's message processing loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.clients[client] = true
			h.addSubscription(client)
			log.Info().Int("total_clients", len(h.clients)).Msg("Client connected")
		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				h.removeSubscription(client)
				log.Info().Int("total_clients", len(h.clients)).Msg("Client disconnected")
			}
		case message := <-h.Broadcast:
			for client := range h.clients {
				h.deliver(client, message)
			}
		case msg := <-h.direct:
			for client := range h.subscriptions[msg.userID] {
				h.deliver(client, msg.payload)
			}
		}
	}
}

// BroadcastToUser sends a message to all clients authenticated as the user.
// Safe to call from any goroutine; drops the message if the hub is saturated
// rather than blocking the caller.
func (h *Hub) BroadcastToUser(userID string, message []byte) {
	select {
	case h.direct <- userMessage{userID: userID, payload: message}:
	default:
		log.Warn().Str("user_id", userID).Msg("Hub saturated, dropping message")
	}
}

// deliver hands a message to one client, evicting clients whose send buffer
// is full.
func (h *Hub) deliver(client *Client, message []byte) {
	select {
	case client.Send <- message:
	default:
		close(client.Send)
		delete(h.clients, client)
		h.removeSubscription(client)
	}
}

func (h *Hub) addSubscription(client *Client) {
	if h.subscriptions[client.UserID] == nil {
		h.subscriptions[client.UserID] = make(map[*Client]bool)
	}
	h.subscriptions[client.UserID][client] = true
}

func (h *Hub) removeSubscription(client *Client) {
	if subs, ok := h.subscriptions[client.UserID]; ok {
		delete(subs, client)
		if len(subs) == 0 {
			delete(h.subscriptions, client.UserID)
		}
	}
}
