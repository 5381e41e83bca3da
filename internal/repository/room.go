package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/vibhutichou/UrbanMind/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrRoomNotFound = errors.New("chat room not found")

type RoomRepository struct {
	pool *pgxpool.Pool
}

func NewRoomRepository(pool *pgxpool.Pool) *RoomRepository {
	return &RoomRepository{pool: pool}
}

const roomColumns = `id, room_type, COALESCE(user1_id, 0), COALESCE(user2_id, 0),
	COALESCE(name, ''), COALESCE(problem_id, 0), COALESCE(created_by_user_id, 0), created_at`

// GetRoom loads a single room by id.
func (r *RoomRepository) GetRoom(ctx context.Context, roomID int64) (*model.ChatRoom, error) {
	var room model.ChatRoom
	err := r.pool.QueryRow(ctx, `
		SELECT `+roomColumns+`
		FROM chat_rooms
		WHERE id = $1
	`, roomID).Scan(&room.ID, &room.RoomType, &room.User1ID, &room.User2ID,
		&room.Name, &room.ProblemID, &room.CreatedByUserID, &room.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// CreateRoom inserts a new room. For PRIVATE rooms an existing room
// between the same pair of users is returned instead of a duplicate.
func (r *RoomRepository) CreateRoom(ctx context.Context, req model.ChatRoomRequest) (*model.ChatRoom, error) {
	if strings.EqualFold(req.RoomType, "PRIVATE") {
		existing, err := r.findPrivateRoom(ctx, req.User1ID, req.User2ID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return existing, nil
		}
	}

	room := &model.ChatRoom{
		RoomType:        req.RoomType,
		User1ID:         req.User1ID,
		User2ID:         req.User2ID,
		Name:            req.Name,
		ProblemID:       req.ProblemID,
		CreatedByUserID: req.CreatedByUserID,
	}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO chat_rooms (room_type, user1_id, user2_id, name, problem_id, created_by_user_id)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, 0), $6)
		RETURNING id, created_at
	`, req.RoomType, req.User1ID, req.User2ID, req.Name, req.ProblemID, req.CreatedByUserID).
		Scan(&room.ID, &room.CreatedAt)
	if err != nil {
		return nil, err
	}
	return room, nil
}

// ListRoomsForUser returns every room the user participates in,
// newest first.
func (r *RoomRepository) ListRoomsForUser(ctx context.Context, userID int64) ([]model.ChatRoom, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+roomColumns+`
		FROM chat_rooms
		WHERE user1_id = $1 OR user2_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []model.ChatRoom
	for rows.Next() {
		var room model.ChatRoom
		if err := rows.Scan(&room.ID, &room.RoomType, &room.User1ID, &room.User2ID,
			&room.Name, &room.ProblemID, &room.CreatedByUserID, &room.CreatedAt); err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}

func (r *RoomRepository) findPrivateRoom(ctx context.Context, user1ID, user2ID int64) (*model.ChatRoom, error) {
	var room model.ChatRoom
	err := r.pool.QueryRow(ctx, `
		SELECT `+roomColumns+`
		FROM chat_rooms
		WHERE room_type = 'PRIVATE'
		  AND ((user1_id = $1 AND user2_id = $2) OR (user1_id = $2 AND user2_id = $1))
		LIMIT 1
	`, user1ID, user2ID).Scan(&room.ID, &room.RoomType, &room.User1ID, &room.User2ID,
		&room.Name, &room.ProblemID, &room.CreatedByUserID, &room.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}
