package class

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrClassNotFound     = errors.New("class not found")
	ErrClassFull         = errors.New("class is at capacity")
	ErrAlreadyRegistered = errors.New("member is already registered for this class")
	ErrNotRegistered     = errors.New("member is not registered for this class")
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

const classColumns = `
	c.id, c.trainer_id, u.name AS trainer_name, c.room_id, r.name AS room_name,
	c.name, c.description, c.start_time, c.end_time, c.capacity,
	(SELECT COUNT(*) FROM class_registrations cr WHERE cr.class_id = c.id) AS registered
`

func (r *Repository) GetAll(ctx context.Context, onlyUpcoming bool) ([]ClassWithCounts, error) {
	query := `
		SELECT ` + classColumns + `
		FROM classes c
		JOIN users u ON u.id = c.trainer_id
		LEFT JOIN rooms r ON r.id = c.room_id
	`
	if onlyUpcoming {
		query += " WHERE c.start_time > NOW()"
	}
	query += " ORDER BY c.start_time ASC"

	var classes []ClassWithCounts
	err := r.db.SelectContext(ctx, &classes, query)
	if err != nil {
		return nil, err
	}

	return classes, nil
}

func (r *Repository) GetByID(ctx context.Context, id int) (*ClassWithCounts, error) {
	query := `
		SELECT ` + classColumns + `
		FROM classes c
		JOIN users u ON u.id = c.trainer_id
		LEFT JOIN rooms r ON r.id = c.room_id
		WHERE c.id = $1
	`

	var class ClassWithCounts
	err := r.db.GetContext(ctx, &class, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrClassNotFound
	}
	if err != nil {
		return nil, err
	}

	return &class, nil
}

func (r *Repository) Update(ctx context.Context, id int, req UpdateClassRequest) (*ClassWithCounts, error) {
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
	if req.Description != nil {
		set("description", *req.Description)
	}
	if req.Capacity != nil {
		set("capacity", *req.Capacity)
	}

	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	query := fmt.Sprintf(`UPDATE classes SET %s WHERE id = $%d`, strings.Join(sets, ", "), n)
	args = append(args, id)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rowsAffected == 0 {
		return nil, ErrClassNotFound
	}

	return r.GetByID(ctx, id)
}

func (r *Repository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM classes WHERE id = $1`, id)
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

// Register claims a spot. The class row is locked so a full class cannot
// be oversubscribed by two requests racing the capacity count.
func (r *Repository) Register(ctx context.Context, classID, memberID int) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var capacity int
	err = tx.GetContext(ctx, &capacity,
		`SELECT capacity FROM classes WHERE id = $1 FOR UPDATE`, classID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrClassNotFound
	}
	if err != nil {
		return err
	}

	var registered int
	err = tx.GetContext(ctx, &registered,
		`SELECT COUNT(*) FROM class_registrations WHERE class_id = $1`, classID)
	if err != nil {
		return err
	}
	if registered >= capacity {
		return ErrClassFull
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO class_registrations (class_id, member_id) VALUES ($1, $2)`,
		classID, memberID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return ErrAlreadyRegistered
		}
		return err
	}

	return tx.Commit()
}

func (r *Repository) Unregister(ctx context.Context, classID, memberID int) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM class_registrations WHERE class_id = $1 AND member_id = $2`,
		classID, memberID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotRegistered
	}

	return nil
}

func (r *Repository) GetAttendees(ctx context.Context, classID int) ([]Attendee, error) {
	query := `
		SELECT cr.member_id, u.name, u.email
		FROM class_registrations cr
		JOIN users u ON u.id = cr.member_id
		WHERE cr.class_id = $1
		ORDER BY u.name ASC
	`

	var attendees []Attendee
	err := r.db.SelectContext(ctx, &attendees, query, classID)
	if err != nil {
		return nil, err
	}

	return attendees, nil
}
