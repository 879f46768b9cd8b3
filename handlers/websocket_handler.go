package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/sportleague/league-system/live"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: ограничить список Origin доменом фронтенда перед выкаткой.
		return true
	},
}

type WebSocketHandler struct {
	hub    *live.Hub
	logger *slog.Logger
}

func NewWebSocketHandler(hub *live.Hub, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, logger: logger}
}

// ServeEventWs подписывает клиента на live-обновления матчей события:
// GET /ws/events/{eventID}.
func (h *WebSocketHandler) ServeEventWs(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// upgrader сам отвечает клиенту HTTP-ошибкой.
		h.logger.Warn("failed to upgrade websocket connection",
			slog.Int("event_id", eventID),
			slog.Any("error", err))
		return
	}

	room := fmt.Sprintf("event_%d", eventID)
	h.hub.Subscribe(conn, room)
}
