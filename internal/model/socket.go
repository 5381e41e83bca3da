package model

import "time"

// ChatSocketMessage is the wire payload exchanged over a chat
// websocket. Inbound, only RoomID, SenderUserID and Content are
// honored; unknown fields are ignored by the decoder. Outbound, the
// server fills ID and CreatedAt from the persisted row — the client's
// view of time is never trusted.
type ChatSocketMessage struct {
	ID           int64      `json:"id,omitempty"`
	RoomID       int64      `json:"roomId"`
	SenderUserID int64      `json:"senderUserId"`
	Content      string     `json:"content"`
	CreatedAt    *time.Time `json:"createdAt,omitempty"`
}

// SocketError is sent only to the connection whose payload failed.
type SocketError struct {
	Error string `json:"error"`
}
