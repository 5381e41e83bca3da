package repository

import (
	"context"

	"github.com/vibhutichou/UrbanMind/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ChatRepository struct {
	pool *pgxpool.Pool
}

func NewChatRepository(pool *pgxpool.Pool) *ChatRepository {
	return &ChatRepository{pool: pool}
}

// InsertMessage stores a single chat message and returns the row with
// its server-assigned id and creation timestamp.
func (r *ChatRepository) InsertMessage(ctx context.Context, roomID, senderUserID int64, content string) (*model.ChatMessage, error) {
	msg := &model.ChatMessage{
		RoomID:       roomID,
		SenderUserID: senderUserID,
		Content:      content,
	}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO chat_messages (room_id, sender_user_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, roomID, senderUserID, content).Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// MarkRoomRead flags every unread message in the room that was NOT
// sent by readerUserID as read. Returns the number of rows updated.
func (r *ChatRepository) MarkRoomRead(ctx context.Context, roomID, readerUserID int64) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE chat_messages
		SET is_read = TRUE, read_at = NOW()
		WHERE room_id = $1
		  AND sender_user_id <> $2
		  AND is_read = FALSE
	`, roomID, readerUserID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// GetHistory retrieves one page of messages for a room, newest first.
func (r *ChatRepository) GetHistory(ctx context.Context, roomID int64, page, size int) ([]model.ChatMessage, error) {
	if size <= 0 || size > 200 {
		size = 50
	}
	if page < 0 {
		page = 0
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, room_id, sender_user_id, content, is_read, read_at, created_at
		FROM chat_messages
		WHERE room_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, roomID, size, page*size)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []model.ChatMessage
	for rows.Next() {
		var m model.ChatMessage
		if err := rows.Scan(&m.ID, &m.RoomID, &m.SenderUserID, &m.Content, &m.IsRead, &m.ReadAt, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}
