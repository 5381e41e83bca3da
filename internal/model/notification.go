package model

// NotificationRequest is the body posted to the notification service
// when a message arrives for a user. Transient; never persisted here.
type NotificationRequest struct {
	UserID        int64  `json:"userId"`
	Title         string `json:"title"`
	Message       string `json:"message"`
	Type          string `json:"type"`
	Channel       string `json:"channel"`
	ReferenceType string `json:"referenceType"`
	ReferenceID   int64  `json:"referenceId"`
}
