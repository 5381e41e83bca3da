package handler

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/vibhutichou/UrbanMind/internal/model"
	"github.com/vibhutichou/UrbanMind/internal/service"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

const ingestTimeout = 10 * time.Second

type WSHandler struct {
	hub         *service.RoomRegistry
	chat        *service.ChatService
	auth        *service.AuthService
	sendBuffer  int
	readTimeout time.Duration
}

func NewWSHandler(hub *service.RoomRegistry, chat *service.ChatService, auth *service.AuthService, sendBuffer, readTimeoutSeconds int) *WSHandler {
	return &WSHandler{
		hub:         hub,
		chat:        chat,
		auth:        auth,
		sendBuffer:  sendBuffer,
		readTimeout: time.Duration(readTimeoutSeconds) * time.Second,
	}
}

// Upgrade gates the websocket handshake. The token and room id both
// come from query params; a connection that cannot name a valid room
// is rejected here instead of being kept open unroutable.
func (h *WSHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	token := c.Query("token")
	if token == "" {
		return c.Status(401).JSON(fiber.Map{"error": "token required"})
	}
	userID, _, err := h.auth.ValidateAccessToken(token)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "invalid token"})
	}

	roomID := int64(c.QueryInt("roomId"))
	if roomID <= 0 {
		return c.Status(400).JSON(fiber.Map{"error": "valid roomId required"})
	}

	c.Locals("user_id", userID)
	c.Locals("room_id", roomID)
	return websocket.New(h.handleConnection)(c)
}

func (h *WSHandler) handleConnection(c *websocket.Conn) {
	userID, _ := c.Locals("user_id").(int64)
	roomID, _ := c.Locals("room_id").(int64)

	client := service.NewChatClient(c, userID, roomID, h.sendBuffer)

	h.hub.Register(client)
	defer h.hub.Remove(client)

	// Writer goroutine: the only place that writes to the socket.
	go func() {
		defer c.Close()
		for msg := range client.Outbound() {
			if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
				break
			}
		}
	}()

	// Reader loop. One envelope at a time, in arrival order.
	c.SetReadDeadline(time.Now().Add(h.readTimeout))
	for {
		_, raw, err := c.ReadMessage()
		if err != nil {
			break
		}
		c.SetReadDeadline(time.Now().Add(h.readTimeout))

		h.handleEnvelope(client, raw)
	}
}

// handleEnvelope runs the ingest pipeline for one inbound payload.
// Every failure is reported to the originating connection only; the
// connection stays open and other rooms are unaffected.
func (h *WSHandler) handleEnvelope(client *service.ChatClient, raw []byte) {
	var env model.ChatSocketMessage
	if err := json.Unmarshal(raw, &env); err != nil {
		h.sendError(client, "malformed message payload")
		return
	}
	if env.Content == "" {
		h.sendError(client, "content is required")
		return
	}
	if env.RoomID != client.RoomID {
		h.sendError(client, "roomId does not match this connection")
		return
	}
	// The authenticated identity wins over whatever the payload claims.
	if env.SenderUserID != client.UserID {
		h.sendError(client, "senderUserId does not match authenticated user")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), ingestTimeout)
	defer cancel()

	if _, err := h.chat.SendMessage(ctx, client.RoomID, client.UserID, env.Content); err != nil {
		h.sendError(client, "message processing failed")
	}
}

func (h *WSHandler) sendError(client *service.ChatClient, msg string) {
	payload, err := json.Marshal(model.SocketError{Error: msg})
	if err != nil {
		return
	}
	// The client may already have been pruned mid-broadcast while its
	// reader loop is still draining; TrySend stays safe after close.
	if !client.TrySend(payload) {
		log.Printf("[WS] dropping error event for user %d: connection gone or buffer full", client.UserID)
	}
}
