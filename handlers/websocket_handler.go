package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/Cienszki/automatic-tournament-sub001/brackets"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: restrict to the known frontend origins before exposing this
		// outside the admin network.
		return true
	},
}

type WebSocketHandler struct {
	hub *brackets.Hub
}

func NewWebSocketHandler(hub *brackets.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// ServeWs joins a spectator to the broadcast room of one playoff. Clients
// connect to /ws/playoffs/{playoffID} and receive the full aggregate on
// every mutation.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	playoffID := chi.URLParam(r, "playoffID")
	if playoffID == "" {
		http.Error(w, "missing playoffID", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("failed to upgrade websocket connection",
			slog.String("playoff_id", playoffID), slog.Any("error", err))
		return
	}

	client := &brackets.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
		Room: "playoff_" + playoffID,
	}
	client.Hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
