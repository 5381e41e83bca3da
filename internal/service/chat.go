package service

import (
	"context"
	"encoding/json"
	"log"

	"github.com/vibhutichou/UrbanMind/internal/model"
)

// MessageStore is the durable store for messages and read state.
type MessageStore interface {
	InsertMessage(ctx context.Context, roomID, senderUserID int64, content string) (*model.ChatMessage, error)
	MarkRoomRead(ctx context.Context, roomID, readerUserID int64) (int64, error)
}

// RoomFinder resolves room participants for notification fan-out.
type RoomFinder interface {
	GetRoom(ctx context.Context, roomID int64) (*model.ChatRoom, error)
}

// Notifier emits a best-effort "new message" event for the message's
// counterpart. Implementations must never block on or propagate
// downstream failures.
type Notifier interface {
	NotifyNewMessage(room *model.ChatRoom, senderUserID int64)
}

// Broadcaster pushes a serialized payload to every live connection of
// a room. Satisfied by *RoomRegistry.
type Broadcaster interface {
	Broadcast(roomID int64, payload []byte) int
}

// ChatService is the ingest pipeline: one validated envelope in, one
// persisted and broadcast message out, plus a notification for the
// counterpart.
type ChatService struct {
	store    MessageStore
	rooms    RoomFinder
	hub      Broadcaster
	notifier Notifier
}

func NewChatService(store MessageStore, rooms RoomFinder, hub Broadcaster, notifier Notifier) *ChatService {
	return &ChatService{store: store, rooms: rooms, hub: hub, notifier: notifier}
}

// SendMessage persists one inbound message and fans it out to the
// room, sender echo included: clients replace their optimistic render
// with the server-stamped record. Serves both the websocket and the
// REST ingress. Nothing is broadcast unless the save succeeded; the
// returned error is for the sender only. Notification failures never
// surface.
func (s *ChatService) SendMessage(ctx context.Context, roomID, senderUserID int64, content string) (*model.ChatMessage, error) {
	saved, err := s.store.InsertMessage(ctx, roomID, senderUserID, content)
	if err != nil {
		log.Printf("[Chat] persist failed for room %d: %v", roomID, err)
		return nil, err
	}

	out := model.ChatSocketMessage{
		ID:           saved.ID,
		RoomID:       saved.RoomID,
		SenderUserID: saved.SenderUserID,
		Content:      saved.Content,
		CreatedAt:    &saved.CreatedAt,
	}
	payload, err := json.Marshal(out)
	if err != nil {
		// Marshal of a plain struct cannot realistically fail; the
		// message is already durable, so treat like a delivery error.
		log.Printf("[Chat] marshal failed for message %d: %v", saved.ID, err)
		return saved, nil
	}

	s.hub.Broadcast(saved.RoomID, payload)
	s.notifyCounterpart(ctx, saved.RoomID, senderUserID)

	return saved, nil
}

// MarkRead flags all counterpart messages in the room as read by
// readerUserID and reports how many were affected.
func (s *ChatService) MarkRead(ctx context.Context, roomID, readerUserID int64) (int64, error) {
	return s.store.MarkRoomRead(ctx, roomID, readerUserID)
}

// notifyCounterpart hands the room to the notifier. Best-effort: a
// failed room lookup is logged and dropped, never bubbled up — the
// broadcast already happened.
func (s *ChatService) notifyCounterpart(ctx context.Context, roomID, senderUserID int64) {
	room, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		log.Printf("[Chat] room %d lookup failed, skipping notification: %v", roomID, err)
		return
	}
	s.notifier.NotifyNewMessage(room, senderUserID)
}
