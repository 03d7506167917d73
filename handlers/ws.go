package handlers

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/notekit/server/services"
)

// WSHandler upgrades connections for live update delivery.
type WSHandler struct {
	authService *services.AuthService
	hub         *services.Hub
}

func NewWSHandler(authService *services.AuthService, hub *services.Hub) *WSHandler {
	return &WSHandler{
		authService: authService,
		hub:         hub,
	}
}

// Handle upgrades the HTTP connection to a WebSocket and registers the
// client under its username. Browsers cannot set headers on WebSocket
// requests, so the session token arrives as a query parameter.
func (h *WSHandler) Handle(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		writeError(w, http.StatusUnauthorized, "missing token")
		return
	}
	if _, err := h.authService.VerifyToken(token); err != nil {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	user := username(r)
	if user == "" {
		writeError(w, http.StatusBadRequest, "username is required in request")
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true // Allow all origins in development
		},
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Error upgrading to WebSocket: %v", err)
		return
	}

	client := &services.Client{
		Hub:      h.hub,
		Conn:     conn,
		Send:     make(chan []byte, 256),
		Username: user,
	}

	h.hub.Register(client)
	log.Printf("WebSocket client registered: %s", user)

	go client.WritePump()
	go client.ReadPump()
}
