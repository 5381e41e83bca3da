package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/vibhutichou/UrbanMind/internal/model"
)

// NotificationService posts "new message" events to the external
// notification service. Fire-and-forget across the service boundary:
// the response is logged, never awaited for correctness, and no
// failure here ever reaches a chat connection.
type NotificationService struct {
	baseURL string
	client  *http.Client
}

func NewNotificationService(baseURL string) *NotificationService {
	return &NotificationService{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// NotifyNewMessage resolves the counterpart of senderUserID in a
// two-participant room and emits a notification naming them. If the
// sender matches neither stored participant no counterpart exists and
// nothing is sent. The notification service decides in-app vs. push.
func (s *NotificationService) NotifyNewMessage(room *model.ChatRoom, senderUserID int64) {
	if room == nil {
		return
	}

	var recipientID int64
	switch senderUserID {
	case room.User1ID:
		recipientID = room.User2ID
	case room.User2ID:
		recipientID = room.User1ID
	default:
		return
	}
	if recipientID == 0 {
		return
	}

	s.post(model.NotificationRequest{
		UserID:        recipientID,
		Title:         "New Message",
		Message:       fmt.Sprintf("You have a new message from User %d", senderUserID),
		Type:          "CHAT_MESSAGE",
		Channel:       "IN_APP",
		ReferenceType: "CHAT_ROOM",
		ReferenceID:   room.ID,
	})
}

func (s *NotificationService) post(req model.NotificationRequest) {
	if s.baseURL == "" {
		return
	}
	go func() {
		body, err := json.Marshal(req)
		if err != nil {
			log.Printf("[Notify] marshal error: %v", err)
			return
		}
		resp, err := s.client.Post(s.baseURL+"/api/v1/notifications", "application/json", bytes.NewReader(body))
		if err != nil {
			log.Printf("[Notify] send error for user %d: %v", req.UserID, err)
			return
		}
		resp.Body.Close()
		if resp.StatusCode >= 300 {
			log.Printf("[Notify] service returned %d for user %d", resp.StatusCode, req.UserID)
		}
	}()
}
