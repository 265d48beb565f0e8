package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fitclub/internal/interval"

	"github.com/jmoiron/sqlx"
)

type ledger struct{}

func NewLedger() Ledger {
	return &ledger{}
}

// Conflict scans share one shape: a booked row for the resource whose
// interval intersects the candidate, half-open, so shared endpoints are
// not a conflict. Args are (resourceID, candidate.Start, candidate.End).
var conflictQueries = map[Kind]string{
	KindRoomClass: `
		SELECT id FROM classes
		WHERE room_id = $1 AND $2 < end_time AND $3 > start_time
	`,
	KindTrainerClass: `
		SELECT id FROM classes
		WHERE trainer_id = $1 AND $2 < end_time AND $3 > start_time
	`,
	KindTrainerAvailability: `
		SELECT id FROM trainer_availability
		WHERE trainer_id = $1 AND $2 < end_time AND $3 > start_time
	`,
	KindTrainerSession: `
		SELECT id FROM pt_sessions
		WHERE trainer_id = $1 AND status = 'scheduled' AND $2 < end_time AND $3 > start_time
	`,
}

func (l *ledger) FindConflict(ctx context.Context, q sqlx.ExtContext, kind Kind, resourceID int, iv interval.Interval, excludeID int) (int, bool, error) {
	query, ok := conflictQueries[kind]
	if !ok {
		return 0, false, fmt.Errorf("unknown booking kind %q", kind)
	}

	args := []interface{}{resourceID, iv.Start, iv.End}
	if excludeID > 0 {
		query += " AND id != $4"
		args = append(args, excludeID)
	}
	query += " LIMIT 1"

	var id int
	err := sqlx.GetContext(ctx, q, &id, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	return id, true, nil
}

func (l *ledger) FindOpenAvailability(ctx context.Context, q sqlx.ExtContext, trainerID int, iv interval.Interval) (int, bool, error) {
	// Containment compares the requested endpoints against the window
	// bounds directly; boundary equality counts as contained.
	query := `
		SELECT id FROM trainer_availability
		WHERE trainer_id = $1
		  AND $2 >= start_time
		  AND $3 <= end_time
		  AND is_booked = FALSE
		LIMIT 1
	`

	var id int
	err := sqlx.GetContext(ctx, q, &id, query, trainerID, iv.Start, iv.End)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	return id, true, nil
}

// LockRoom takes a row lock on the room so concurrent bookings against the
// same room serialize for the rest of the transaction.
func (l *ledger) LockRoom(ctx context.Context, q sqlx.ExtContext, roomID int) error {
	var id int
	err := sqlx.GetContext(ctx, q, &id, `SELECT id FROM rooms WHERE id = $1 FOR UPDATE`, roomID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrRoomNotFound
	}
	return err
}

func (l *ledger) LockTrainer(ctx context.Context, q sqlx.ExtContext, trainerID int) error {
	var id int
	err := sqlx.GetContext(ctx, q, &id, `SELECT user_id FROM trainers WHERE user_id = $1 FOR UPDATE`, trainerID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrTrainerNotFound
	}
	return err
}

func (l *ledger) InsertClass(ctx context.Context, q sqlx.ExtContext, c NewClass) (*Class, error) {
	query := `
		INSERT INTO classes (trainer_id, room_id, name, description, start_time, end_time, capacity)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, trainer_id, room_id, name, description, start_time, end_time, capacity, created_at
	`

	var class Class
	err := sqlx.GetContext(ctx, q, &class, query,
		c.TrainerID, c.RoomID, c.Name, c.Description, c.StartTime, c.EndTime, c.Capacity)
	if err != nil {
		return nil, err
	}

	return &class, nil
}

func (l *ledger) AssignClassRoom(ctx context.Context, q sqlx.ExtContext, classID, roomID int) error {
	result, err := q.ExecContext(ctx, `UPDATE classes SET room_id = $1 WHERE id = $2`, roomID, classID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrClassNotFound
	}

	return nil
}

func (l *ledger) InsertAvailability(ctx context.Context, q sqlx.ExtContext, trainerID int, iv interval.Interval) (*Availability, error) {
	query := `
		INSERT INTO trainer_availability (trainer_id, start_time, end_time, is_booked)
		VALUES ($1, $2, $3, FALSE)
		RETURNING id, trainer_id, start_time, end_time, is_booked, created_at
	`

	var avail Availability
	err := sqlx.GetContext(ctx, q, &avail, query, trainerID, iv.Start, iv.End)
	if err != nil {
		return nil, err
	}

	return &avail, nil
}

func (l *ledger) InsertSession(ctx context.Context, q sqlx.ExtContext, memberID, trainerID int, iv interval.Interval) (*Session, error) {
	query := `
		INSERT INTO pt_sessions (member_id, trainer_id, start_time, end_time, status)
		VALUES ($1, $2, $3, $4, 'scheduled')
		RETURNING id, member_id, trainer_id, start_time, end_time, status, created_at
	`

	var session Session
	err := sqlx.GetContext(ctx, q, &session, query, memberID, trainerID, iv.Start, iv.End)
	if err != nil {
		return nil, err
	}

	return &session, nil
}

func (l *ledger) SetAvailabilityBooked(ctx context.Context, q sqlx.ExtContext, availabilityID int, booked bool) error {
	result, err := q.ExecContext(ctx,
		`UPDATE trainer_availability SET is_booked = $1 WHERE id = $2`, booked, availabilityID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return fmt.Errorf("availability %d not found", availabilityID)
	}

	return nil
}

// ReopenAvailabilityFor flips back the consumed window covering the given
// interval, if one still exists.
func (l *ledger) ReopenAvailabilityFor(ctx context.Context, q sqlx.ExtContext, trainerID int, iv interval.Interval) error {
	query := `
		UPDATE trainer_availability
		SET is_booked = FALSE
		WHERE id = (
			SELECT id FROM trainer_availability
			WHERE trainer_id = $1
			  AND start_time <= $2
			  AND end_time >= $3
			  AND is_booked = TRUE
			LIMIT 1
		)
	`

	_, err := q.ExecContext(ctx, query, trainerID, iv.Start, iv.End)
	return err
}

func (l *ledger) GetSessionForUpdate(ctx context.Context, q sqlx.ExtContext, sessionID int) (*Session, error) {
	query := `
		SELECT id, member_id, trainer_id, start_time, end_time, status, created_at
		FROM pt_sessions
		WHERE id = $1
		FOR UPDATE
	`

	var session Session
	err := sqlx.GetContext(ctx, q, &session, query, sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	return &session, nil
}

func (l *ledger) UpdateSessionStatus(ctx context.Context, q sqlx.ExtContext, sessionID int, status string) error {
	result, err := q.ExecContext(ctx,
		`UPDATE pt_sessions SET status = $1 WHERE id = $2`, status, sessionID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrSessionNotFound
	}

	return nil
}
