package postgres

import (
	"context"
	"fmt"

	"github.com/cobsari123-dotcom/marcket-app2/pkg/database"
	apperrors "github.com/cobsari123-dotcom/marcket-app2/pkg/errors"
)

// The LEFT JOIN yields one row with a NULL user for an empty room, and no
// rows for a missing room.
const getParticipantsSQL = `
	SELECT p.user_id
	FROM chat_rooms r
	LEFT JOIN chat_room_participants p ON p.chat_room_id = r.id
	WHERE r.id = $1
	ORDER BY p.joined_at, p.user_id`

// ChatRoomRepository reads chat rooms from PostgreSQL.
type ChatRoomRepository struct {
	pool database.DBTX
}

// NewChatRoomRepository creates a new PostgreSQL-backed chat room repository.
func NewChatRoomRepository(pool database.DBTX) *ChatRoomRepository {
	return &ChatRoomRepository{pool: pool}
}

// GetParticipants returns the room's participants ordered by join time.
func (r *ChatRoomRepository) GetParticipants(ctx context.Context, roomID string) (_ []string, err error) {
	ctx, end := database.TraceQuery(ctx, "GetChatParticipants", getParticipantsSQL)
	defer func() { end(err) }()

	rows, err := r.pool.Query(ctx, getParticipantsSQL, roomID)
	if err != nil {
		return nil, fmt.Errorf("get participants of room %s: %w", roomID, err)
	}
	defer rows.Close()

	found := false
	participants := make([]string, 0, 2)
	for rows.Next() {
		found = true
		var userID *string
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		if userID != nil {
			participants = append(participants, *userID)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate participants: %w", err)
	}
	if !found {
		return nil, apperrors.NotFound("chat room", roomID)
	}

	return participants, nil
}
