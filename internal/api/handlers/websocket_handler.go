package handlers

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/Ngassaki-chadrack-sidney/prise-de-note/internal/auth"
	ws "github.com/Ngassaki-chadrack-sidney/prise-de-note/internal/websocket"
)

// WebSocketHandler upgrades authenticated HTTP connections to WebSocket
// connections that receive the caller's note-change events.
type WebSocketHandler struct {
	hub    *ws.Hub
	tokens *auth.TokenManager
}

// NewWebSocketHandler creates a new WebSocketHandler.
func NewWebSocketHandler(hub *ws.Hub, tokens *auth.TokenManager) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, tokens: tokens}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Cookies carry the auth; cross-origin pages cannot read the
		// token, so origin checking is delegated to the CORS layer.
		return true
	},
}

// Serve authenticates the request, upgrades it, and registers the client
// with the hub. The identity is fixed at upgrade time; a client only ever
// receives messages for its own user.
func (h *WebSocketHandler) Serve(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie("token")
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Missing auth token")
		return
	}
	claims, err := h.tokens.Verify(cookie.Value)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid auth token")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade websocket connection")
		return
	}

	client := ws.NewClient(h.hub, conn, claims.UserID)
	h.hub.Register <- client

	go client.WritePump()
	go func() {
		// Inbound messages are ignored; the socket is push-only. Reading
		// still runs to service pings and detect disconnects.
		client.ReadPump(nil)
		h.hub.Unregister <- client
	}()
}
