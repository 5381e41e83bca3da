package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vibhutichou/UrbanMind/internal/model"
	"github.com/vibhutichou/UrbanMind/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

type fakeRoomStore struct {
	created []model.ChatRoomRequest
}

func (f *fakeRoomStore) GetRoom(_ context.Context, roomID int64) (*model.ChatRoom, error) {
	return &model.ChatRoom{ID: roomID, RoomType: "PRIVATE", User1ID: 1, User2ID: 2}, nil
}

func (f *fakeRoomStore) CreateRoom(_ context.Context, req model.ChatRoomRequest) (*model.ChatRoom, error) {
	f.created = append(f.created, req)
	return &model.ChatRoom{
		ID:              int64(len(f.created)),
		RoomType:        req.RoomType,
		User1ID:         req.User1ID,
		User2ID:         req.User2ID,
		CreatedByUserID: req.CreatedByUserID,
	}, nil
}

func (f *fakeRoomStore) ListRoomsForUser(context.Context, int64) ([]model.ChatRoom, error) {
	return nil, nil
}

type fakeMessages struct{}

func (fakeMessages) GetHistory(context.Context, int64, int, int) ([]model.ChatMessage, error) {
	return nil, nil
}

func newChatTestApp(store *stubStore, notifier *stubNotifier, roomStore *fakeRoomStore, userID int64) (*fiber.App, *service.RoomRegistry) {
	reg := service.NewRoomRegistry()
	chatSvc := service.NewChatService(store, stubRooms{}, reg, notifier)
	h := NewChatHandler(chatSvc, fakeMessages{}, roomStore)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", userID)
		return c.Next()
	})
	app.Post("/api/v1/rooms", h.CreateRoom)
	app.Post("/api/v1/rooms/:id/messages", h.PostMessage)
	app.Post("/api/v1/rooms/:id/read", h.MarkRead)
	return app, reg
}

func TestCreateRoomStampsCreator(t *testing.T) {
	req := require.New(t)
	roomStore := &fakeRoomStore{}
	app, _ := newChatTestApp(&stubStore{}, &stubNotifier{}, roomStore, 7)

	// The body claims another creator; the principal wins.
	r := httptest.NewRequest("POST", "/api/v1/rooms",
		strings.NewReader(`{"roomType":"PRIVATE","user1Id":1,"user2Id":2,"createdByUserId":999}`))
	r.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(r)
	req.NoError(err)
	req.Equal(201, resp.StatusCode)
	req.Len(roomStore.created, 1)
	req.Equal(int64(7), roomStore.created[0].CreatedByUserID)
}

func TestPostMessageRunsPipeline(t *testing.T) {
	req := require.New(t)
	store := &stubStore{}
	notifier := &stubNotifier{}
	app, reg := newChatTestApp(store, notifier, &fakeRoomStore{}, 1)

	peer := service.NewChatClient(nil, 2, 42, 16)
	reg.Register(peer)

	r := httptest.NewRequest("POST", "/api/v1/rooms/42/messages", strings.NewReader(`{"content":"hi"}`))
	r.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(r)
	req.NoError(err)
	req.Equal(201, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	req.NoError(err)
	var saved model.ChatMessage
	req.NoError(json.Unmarshal(body, &saved))
	req.NotZero(saved.ID)
	req.Equal(int64(1), saved.SenderUserID, "sender is the authenticated user")
	req.Equal("hi", saved.Content)

	// REST-originated messages reach live websocket members too.
	var out model.ChatSocketMessage
	req.NoError(json.Unmarshal(<-peer.Outbound(), &out))
	req.Equal("hi", out.Content)
	req.Equal(1, notifier.calls)
}

func TestPostMessageValidation(t *testing.T) {
	req := require.New(t)
	app, _ := newChatTestApp(&stubStore{}, &stubNotifier{}, &fakeRoomStore{}, 1)

	r := httptest.NewRequest("POST", "/api/v1/rooms/42/messages", strings.NewReader(`{"content":""}`))
	r.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(r)
	req.NoError(err)
	req.Equal(400, resp.StatusCode)

	r = httptest.NewRequest("POST", "/api/v1/rooms/abc/messages", strings.NewReader(`{"content":"hi"}`))
	r.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(r)
	req.NoError(err)
	req.Equal(400, resp.StatusCode)
}
