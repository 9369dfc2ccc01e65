package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/quadrahub/arena-system/live"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Cross-origin policy is enforced by the CORS middleware in front.
	CheckOrigin: func(r *http.Request) bool { return true },
}

var errMissingTournamentID = errors.New("tournament id is required")

type WebSocketHandler struct {
	hub    *live.Hub
	logger *slog.Logger
}

func NewWebSocketHandler(hub *live.Hub, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, logger: logger}
}

// Subscribe upgrades the connection and joins the tournament's room.
func (h *WebSocketHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	tournamentID := chi.URLParam(r, "tournamentID")
	if tournamentID == "" {
		badRequestResponse(w, r, errMissingTournamentID)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WarnContext(r.Context(), "websocket upgrade failed", slog.Any("error", err))
		return
	}

	client := &live.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
		Room: tournamentID,
	}
	h.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
