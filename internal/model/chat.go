package model

import "time"

// ChatRoom represents a stored chat room row. Direct (PRIVATE) rooms
// have exactly two participants; other room types keep an open roster
// and User1ID/User2ID may be zero.
type ChatRoom struct {
	ID              int64     `json:"id"`
	RoomType        string    `json:"roomType"`
	User1ID         int64     `json:"user1Id"`
	User2ID         int64     `json:"user2Id"`
	Name            string    `json:"name,omitempty"`
	ProblemID       int64     `json:"problemId,omitempty"`
	CreatedByUserID int64     `json:"createdByUserId"`
	CreatedAt       time.Time `json:"createdAt"`
}

// ChatMessage represents a stored chat message row.
type ChatMessage struct {
	ID           int64      `json:"id"`
	RoomID       int64      `json:"roomId"`
	SenderUserID int64      `json:"senderUserId"`
	Content      string     `json:"content"`
	IsRead       bool       `json:"isRead"`
	ReadAt       *time.Time `json:"readAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// ChatRoomRequest is the payload for creating a new chat room.
type ChatRoomRequest struct {
	RoomType        string `json:"roomType"`
	User1ID         int64  `json:"user1Id"`
	User2ID         int64  `json:"user2Id"`
	Name            string `json:"name"`
	ProblemID       int64  `json:"problemId"`
	CreatedByUserID int64  `json:"createdByUserId"`
}
