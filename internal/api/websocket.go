package api

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"banking-chatbot/internal/common/metrics"
)

const wsWriteWait = 10 * time.Second

// handleWebsocket runs one conversation per connection. Each text frame is
// answered with exactly one text frame.
func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	if s.responder == nil {
		http.Error(w, "Chatbot not initialized properly", http.StatusInternalServerError)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", map[string]interface{}{"error": err})
		return
	}
	defer conn.Close()

	sessionID := uuid.NewString()
	log := s.log.With(map[string]interface{}{"session_id": sessionID})
	log.Info("websocket connected", map[string]interface{}{"remote_addr": r.RemoteAddr})

	metrics.WebsocketConnections.Inc()
	defer metrics.WebsocketConnections.Dec()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-s.closing:
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(time.Second))
			_ = conn.Close()
		case <-ctx.Done():
		}
	}()

	defer func() {
		if err := s.responder.Store().Delete(context.Background(), sessionID); err != nil {
			log.Warn("failed to discard session", map[string]interface{}{"error": err})
		}
		log.Info("websocket disconnected", nil)
	}()

	conn.SetReadLimit(s.cfg.MaxMessageBytes)
	for {
		msgType, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("websocket closed unexpectedly", map[string]interface{}{"error": err})
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		reply := s.responder.GenerateResponse(ctx, string(message), sessionID)

		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := conn.WriteMessage(websocket.TextMessage, []byte(reply)); err != nil {
			log.Warn("websocket write failed", map[string]interface{}{"error": err})
			return
		}
	}
}
