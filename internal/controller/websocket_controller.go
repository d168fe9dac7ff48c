package controller

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/benbeisheim/chess-engine/internal/middleware"
	"github.com/benbeisheim/chess-engine/internal/service"
	"github.com/benbeisheim/chess-engine/internal/ws"
	"github.com/go-logr/logr"
	"github.com/gofiber/websocket/v2"
)

type WebSocketController struct {
	gameService *service.GameService
	log         logr.Logger
}

func NewWebSocketController(gameService *service.GameService, log logr.Logger) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
		log:         log.WithName("ws"),
	}
}

// lockedConn serializes writes; broadcasts for one session can come from any
// connection's read loop.
type lockedConn struct {
	*websocket.Conn
	mu sync.Mutex
}

func (c *lockedConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Conn.WriteJSON(v)
}

// HandleConnection is called when a new WebSocket connection is established
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	sessionID := c.Params("id")
	clientID, _ := c.Locals(middleware.ClientIDKey).(string)
	log := wsc.log.WithValues("session", sessionID, "client", clientID)
	conn := &lockedConn{Conn: c}

	// Register this connection with the session
	if err := wsc.gameService.RegisterConnection(sessionID, clientID, conn); err != nil {
		log.Error(err, "failed to register connection")
		wsc.sendError(conn, err.Error())
		c.Close()
		return
	}
	log.V(1).Info("connection established")

	// Start message handling loop
	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.V(1).Info("read loop ended", "reason", err.Error())
			break
		}

		if messageType != websocket.TextMessage {
			continue
		}
		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			log.V(1).Info("unparseable message", "error", err.Error())
			wsc.sendError(conn, "malformed message")
			continue
		}

		if err := wsc.handleMessage(sessionID, msg); err != nil {
			log.V(1).Info("message rejected", "type", msg.Type, "error", err.Error())
			wsc.sendError(conn, err.Error())
		}
	}

	// Clean up when connection closes
	wsc.gameService.UnregisterConnection(sessionID, clientID)
}

// Handle different types of incoming messages
func (wsc *WebSocketController) handleMessage(sessionID string, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeClick, ws.MessageTypeSelect, ws.MessageTypeMoveTo:
		var payload ws.SquarePayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return fmt.Errorf("bad %s payload: %w", msg.Type, err)
		}
		switch msg.Type {
		case ws.MessageTypeSelect:
			_, err := wsc.gameService.HandleSelect(sessionID, payload.Square)
			return err
		case ws.MessageTypeMoveTo:
			_, err := wsc.gameService.HandleMoveTo(sessionID, payload.Square)
			return err
		default:
			return wsc.gameService.HandleClick(sessionID, payload.Square)
		}

	case ws.MessageTypePromote:
		var payload ws.PromotePayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return fmt.Errorf("bad %s payload: %w", msg.Type, err)
		}
		return wsc.gameService.HandlePromotion(sessionID, payload.Piece)

	case ws.MessageTypeReset:
		return wsc.gameService.HandleReset(sessionID)

	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

// Helper method to send error messages
func (wsc *WebSocketController) sendError(c service.Conn, errorMsg string) {
	msg, err := ws.NewMessage(ws.MessageTypeError, ws.ErrorPayload{Error: errorMsg})
	if err != nil {
		return
	}
	if err := c.WriteJSON(msg); err != nil {
		wsc.log.V(1).Info("failed to send error", "error", err.Error())
	}
}
