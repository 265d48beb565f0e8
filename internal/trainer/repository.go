package trainer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

var ErrTrainerNotFound = errors.New("trainer not found")

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Create sets up the account and the trainer profile in one transaction.
func (r *Repository) Create(ctx context.Context, name, email, passwordHash, specialty string, hourlyRate *float64) (*Trainer, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var userID int
	err = tx.GetContext(ctx, &userID, `
		INSERT INTO users (name, email, password_hash, role)
		VALUES ($1, $2, $3, 'trainer')
		RETURNING id
	`, name, email, passwordHash)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO trainers (user_id, specialty, hourly_rate)
		VALUES ($1, $2, $3)
	`, userID, specialty, hourlyRate)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return r.GetByID(ctx, userID)
}

const trainerColumns = `
	t.user_id, u.name, u.email, t.specialty, t.hourly_rate
`

func (r *Repository) GetAll(ctx context.Context) ([]Trainer, error) {
	query := `
		SELECT ` + trainerColumns + `
		FROM trainers t
		JOIN users u ON u.id = t.user_id
		ORDER BY u.name ASC
	`

	var trainers []Trainer
	err := r.db.SelectContext(ctx, &trainers, query)
	if err != nil {
		return nil, err
	}

	return trainers, nil
}

func (r *Repository) GetByID(ctx context.Context, userID int) (*Trainer, error) {
	query := `
		SELECT ` + trainerColumns + `
		FROM trainers t
		JOIN users u ON u.id = t.user_id
		WHERE t.user_id = $1
	`

	var trainer Trainer
	err := r.db.GetContext(ctx, &trainer, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTrainerNotFound
	}
	if err != nil {
		return nil, err
	}

	return &trainer, nil
}

func (r *Repository) Update(ctx context.Context, userID int, req UpdateTrainerRequest) (*Trainer, error) {
	sets := []string{}
	args := []interface{}{}
	n := 1

	set := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, n))
		args = append(args, value)
		n++
	}

	if req.Specialty != nil {
		set("specialty", *req.Specialty)
	}
	if req.HourlyRate != nil {
		set("hourly_rate", *req.HourlyRate)
	}

	if len(sets) == 0 {
		return r.GetByID(ctx, userID)
	}

	query := fmt.Sprintf(`UPDATE trainers SET %s WHERE user_id = $%d`, strings.Join(sets, ", "), n)
	args = append(args, userID)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rowsAffected == 0 {
		return nil, ErrTrainerNotFound
	}

	return r.GetByID(ctx, userID)
}

// GetSchedule merges the trainer's classes and scheduled sessions into one
// chronological view.
func (r *Repository) GetSchedule(ctx context.Context, trainerID int) ([]ScheduleItem, error) {
	query := `
		SELECT 'class' AS kind, c.id AS ref_id, c.name AS title, c.start_time, c.end_time
		FROM classes c
		WHERE c.trainer_id = $1 AND c.end_time > NOW()
		UNION ALL
		SELECT 'pt_session' AS kind, s.id AS ref_id, u.name AS title, s.start_time, s.end_time
		FROM pt_sessions s
		JOIN users u ON u.id = s.member_id
		WHERE s.trainer_id = $1 AND s.status = 'scheduled' AND s.end_time > NOW()
		ORDER BY start_time ASC
	`

	var items []ScheduleItem
	err := r.db.SelectContext(ctx, &items, query, trainerID)
	if err != nil {
		return nil, err
	}

	return items, nil
}

func (r *Repository) GetOpenAvailability(ctx context.Context, trainerID int) ([]AvailabilityWindow, error) {
	query := `
		SELECT id, trainer_id, start_time, end_time, is_booked
		FROM trainer_availability
		WHERE trainer_id = $1 AND is_booked = FALSE AND end_time > NOW()
		ORDER BY start_time ASC
	`

	var windows []AvailabilityWindow
	err := r.db.SelectContext(ctx, &windows, query, trainerID)
	if err != nil {
		return nil, err
	}

	return windows, nil
}

// FindMembersByName looks up clients by partial name, with their goal and
// most recent measurements.
func (r *Repository) FindMembersByName(ctx context.Context, name string) ([]MemberSummary, error) {
	query := `
		SELECT u.id AS user_id, u.name, u.email, m.fitness_goal,
		       hm.recorded_at AS last_recorded_at,
		       hm.weight_kg AS last_weight_kg,
		       hm.body_fat_pct AS last_body_fat_pct,
		       hm.resting_heart_rate AS last_resting_heart_rate
		FROM users u
		LEFT JOIN members m ON m.user_id = u.id
		LEFT JOIN LATERAL (
			SELECT recorded_at, weight_kg, body_fat_pct, resting_heart_rate
			FROM health_metrics
			WHERE member_id = u.id
			ORDER BY recorded_at DESC
			LIMIT 1
		) hm ON TRUE
		WHERE u.role = 'member' AND u.name ILIKE '%' || $1 || '%'
		ORDER BY u.name ASC
	`

	var members []MemberSummary
	err := r.db.SelectContext(ctx, &members, query, name)
	if err != nil {
		return nil, err
	}

	return members, nil
}
