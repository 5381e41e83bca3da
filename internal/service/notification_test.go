package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/vibhutichou/UrbanMind/internal/model"

	"github.com/stretchr/testify/require"
)

type notificationSink struct {
	mu       sync.Mutex
	received []model.NotificationRequest
}

func (s *notificationSink) handler(status int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req model.NotificationRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		s.mu.Lock()
		s.received = append(s.received, req)
		s.mu.Unlock()
		w.WriteHeader(status)
	}
}

func (s *notificationSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.received)
}

func (s *notificationSink) first() model.NotificationRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.received[0]
}

func TestNotifyNewMessageCounterpart(t *testing.T) {
	req := require.New(t)
	sink := &notificationSink{}
	srv := httptest.NewServer(sink.handler(http.StatusCreated))
	defer srv.Close()

	svc := NewNotificationService(srv.URL)
	svc.NotifyNewMessage(&model.ChatRoom{ID: 42, User1ID: 1, User2ID: 2}, 1)

	req.Eventually(func() bool { return sink.count() == 1 }, 2*time.Second, 10*time.Millisecond)

	got := sink.first()
	req.Equal(int64(2), got.UserID, "counterpart of sender 1 is user 2")
	req.Equal("New Message", got.Title)
	req.Equal("CHAT_MESSAGE", got.Type)
	req.Equal("IN_APP", got.Channel)
	req.Equal("CHAT_ROOM", got.ReferenceType)
	req.Equal(int64(42), got.ReferenceID)
}

func TestNotifyNewMessageReverseDirection(t *testing.T) {
	req := require.New(t)
	sink := &notificationSink{}
	srv := httptest.NewServer(sink.handler(http.StatusCreated))
	defer srv.Close()

	svc := NewNotificationService(srv.URL)
	svc.NotifyNewMessage(&model.ChatRoom{ID: 42, User1ID: 1, User2ID: 2}, 2)

	req.Eventually(func() bool { return sink.count() == 1 }, 2*time.Second, 10*time.Millisecond)
	req.Equal(int64(1), sink.first().UserID)
}

func TestNotifyNewMessageUnresolvableCounterpart(t *testing.T) {
	sink := &notificationSink{}
	srv := httptest.NewServer(sink.handler(http.StatusCreated))
	defer srv.Close()

	svc := NewNotificationService(srv.URL)
	// Sender 99 is neither stored participant: no call at all.
	svc.NotifyNewMessage(&model.ChatRoom{ID: 42, User1ID: 1, User2ID: 2}, 99)
	svc.NotifyNewMessage(nil, 1)

	time.Sleep(100 * time.Millisecond)
	require.Equal(t, 0, sink.count())
}

func TestNotifyNewMessageSwallowsServerErrors(t *testing.T) {
	sink := &notificationSink{}
	srv := httptest.NewServer(sink.handler(http.StatusInternalServerError))
	defer srv.Close()

	svc := NewNotificationService(srv.URL)
	// Must not panic or surface anything; failure is logged only.
	svc.NotifyNewMessage(&model.ChatRoom{ID: 42, User1ID: 1, User2ID: 2}, 1)

	require.Eventually(t, func() bool { return sink.count() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestNotifyNewMessageNoBaseURL(t *testing.T) {
	svc := NewNotificationService("")
	svc.NotifyNewMessage(&model.ChatRoom{ID: 42, User1ID: 1, User2ID: 2}, 1)
}
