package room

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

var ErrRoomNotFound = errors.New("room not found")

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, req CreateRoomRequest) (*Room, error) {
	query := `
		INSERT INTO rooms (name, room_type, capacity, location)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, room_type, capacity, location, created_at
	`

	var room Room
	err := r.db.GetContext(ctx, &room, query, req.Name, req.RoomType, req.Capacity, req.Location)
	if err != nil {
		return nil, err
	}

	return &room, nil
}

func (r *Repository) GetAll(ctx context.Context) ([]Room, error) {
	query := `
		SELECT id, name, room_type, capacity, location, created_at
		FROM rooms
		ORDER BY name ASC
	`

	var rooms []Room
	err := r.db.SelectContext(ctx, &rooms, query)
	if err != nil {
		return nil, err
	}

	return rooms, nil
}

func (r *Repository) GetByID(ctx context.Context, id int) (*Room, error) {
	query := `
		SELECT id, name, room_type, capacity, location, created_at
		FROM rooms
		WHERE id = $1
	`

	var room Room
	err := r.db.GetContext(ctx, &room, query, id)
	if err != nil {
		return nil, err
	}

	return &room, nil
}

// Update touches only the enumerated columns; unknown fields never reach
// the SQL text.
func (r *Repository) Update(ctx context.Context, id int, req UpdateRoomRequest) (*Room, error) {
	sets := []string{}
	args := []interface{}{}
	n := 1

	set := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, n))
		args = append(args, value)
		n++
	}

	if req.Name != nil {
		set("name", *req.Name)
	}
	if req.RoomType != nil {
		set("room_type", *req.RoomType)
	}
	if req.Capacity != nil {
		set("capacity", *req.Capacity)
	}
	if req.Location != nil {
		set("location", *req.Location)
	}

	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	query := fmt.Sprintf(`
		UPDATE rooms
		SET %s
		WHERE id = $%d
		RETURNING id, name, room_type, capacity, location, created_at
	`, strings.Join(sets, ", "), n)
	args = append(args, id)

	var room Room
	err := r.db.GetContext(ctx, &room, query, args...)
	if err != nil {
		return nil, err
	}

	return &room, nil
}

func (r *Repository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrRoomNotFound
	}

	return nil
}

func (r *Repository) GetSchedule(ctx context.Context, roomID int) ([]ScheduleEntry, error) {
	query := `
		SELECT c.id AS class_id, c.name AS class_name, u.name AS trainer_name,
		       c.start_time, c.end_time
		FROM classes c
		JOIN users u ON u.id = c.trainer_id
		WHERE c.room_id = $1 AND c.end_time > NOW()
		ORDER BY c.start_time ASC
	`

	var entries []ScheduleEntry
	err := r.db.SelectContext(ctx, &entries, query, roomID)
	if err != nil {
		return nil, err
	}

	return entries, nil
}
