package handler

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/vibhutichou/UrbanMind/internal/model"
	"github.com/vibhutichou/UrbanMind/internal/repository"
	"github.com/vibhutichou/UrbanMind/internal/service"

	"github.com/gofiber/fiber/v2"
)

// MessageReader serves room history pages. Satisfied by
// *repository.ChatRepository.
type MessageReader interface {
	GetHistory(ctx context.Context, roomID int64, page, size int) ([]model.ChatMessage, error)
}

// RoomStore is the room persistence surface. Satisfied by
// *repository.RoomRepository.
type RoomStore interface {
	GetRoom(ctx context.Context, roomID int64) (*model.ChatRoom, error)
	CreateRoom(ctx context.Context, req model.ChatRoomRequest) (*model.ChatRoom, error)
	ListRoomsForUser(ctx context.Context, userID int64) ([]model.ChatRoom, error)
}

type ChatHandler struct {
	chatSvc  *service.ChatService
	messages MessageReader
	rooms    RoomStore
}

func NewChatHandler(chatSvc *service.ChatService, messages MessageReader, rooms RoomStore) *ChatHandler {
	return &ChatHandler{chatSvc: chatSvc, messages: messages, rooms: rooms}
}

// CreateRoom creates a chat room; PRIVATE rooms are get-or-create per
// user pair.
// POST /api/v1/rooms
func (h *ChatHandler) CreateRoom(c *fiber.Ctx) error {
	var req model.ChatRoomRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}

	if req.RoomType == "" {
		req.RoomType = "PRIVATE"
	}
	if strings.EqualFold(req.RoomType, "PRIVATE") && (req.User1ID <= 0 || req.User2ID <= 0) {
		return c.Status(400).JSON(fiber.Map{"error": "user1Id and user2Id are required for private rooms"})
	}
	// The creator is always the authenticated principal, whatever the
	// body claims.
	req.CreatedByUserID, _ = c.Locals("user_id").(int64)

	room, err := h.rooms.CreateRoom(c.Context(), req)
	if err != nil {
		log.Printf("[Chat] CreateRoom DB error: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to create room"})
	}
	return c.Status(201).JSON(room)
}

// ListRooms returns the authenticated user's rooms, newest first.
// GET /api/v1/rooms
func (h *ChatHandler) ListRooms(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(int64)

	rooms, err := h.rooms.ListRoomsForUser(c.Context(), userID)
	if err != nil {
		log.Printf("[Chat] ListRooms DB error: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to list rooms"})
	}
	if rooms == nil {
		rooms = []model.ChatRoom{}
	}
	return c.JSON(fiber.Map{"rooms": rooms})
}

// GetRoom returns one room the authenticated user participates in.
// GET /api/v1/rooms/:id
func (h *ChatHandler) GetRoom(c *fiber.Ctx) error {
	roomID, err := c.ParamsInt("id")
	if err != nil || roomID <= 0 {
		return c.Status(400).JSON(fiber.Map{"error": "invalid room id"})
	}
	userID, _ := c.Locals("user_id").(int64)

	room, err := h.rooms.GetRoom(c.Context(), int64(roomID))
	if errors.Is(err, repository.ErrRoomNotFound) {
		return c.Status(404).JSON(fiber.Map{"error": "room not found"})
	}
	if err != nil {
		log.Printf("[Chat] GetRoom DB error: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to get room"})
	}
	if room.User1ID != userID && room.User2ID != userID {
		return c.Status(403).JSON(fiber.Map{"error": "access denied to this chat room"})
	}
	return c.JSON(room)
}

// PostMessage accepts a message over REST and runs it through the
// same pipeline as the websocket ingress, so live room members still
// get the fan-out and the counterpart still gets notified.
// POST /api/v1/rooms/:id/messages
func (h *ChatHandler) PostMessage(c *fiber.Ctx) error {
	roomID, err := c.ParamsInt("id")
	if err != nil || roomID <= 0 {
		return c.Status(400).JSON(fiber.Map{"error": "invalid room id"})
	}
	userID, _ := c.Locals("user_id").(int64)

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Content == "" {
		return c.Status(400).JSON(fiber.Map{"error": "content is required"})
	}

	saved, err := h.chatSvc.SendMessage(c.Context(), int64(roomID), userID, req.Content)
	if err != nil {
		log.Printf("[Chat] PostMessage persist error: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to store message"})
	}
	return c.Status(201).JSON(saved)
}

// GetMessages returns one page of a room's history, newest first.
// GET /api/v1/rooms/:id/messages?page=0&size=50
func (h *ChatHandler) GetMessages(c *fiber.Ctx) error {
	roomID, err := c.ParamsInt("id")
	if err != nil || roomID <= 0 {
		return c.Status(400).JSON(fiber.Map{"error": "invalid room id"})
	}
	page := c.QueryInt("page", 0)
	size := c.QueryInt("size", 50)

	msgs, err := h.messages.GetHistory(c.Context(), int64(roomID), page, size)
	if err != nil {
		log.Printf("[Chat] GetMessages DB error: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to get messages"})
	}
	if msgs == nil {
		msgs = []model.ChatMessage{}
	}
	return c.JSON(fiber.Map{"messages": msgs, "page": page, "size": size})
}

// MarkRead flags every counterpart message in the room as read by the
// authenticated user.
// POST /api/v1/rooms/:id/read
func (h *ChatHandler) MarkRead(c *fiber.Ctx) error {
	roomID, err := c.ParamsInt("id")
	if err != nil || roomID <= 0 {
		return c.Status(400).JSON(fiber.Map{"error": "invalid room id"})
	}
	userID, _ := c.Locals("user_id").(int64)

	updated, err := h.chatSvc.MarkRead(c.Context(), int64(roomID), userID)
	if err != nil {
		log.Printf("[Chat] MarkRead DB error: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to mark messages read"})
	}
	return c.JSON(fiber.Map{"updated": updated})
}
