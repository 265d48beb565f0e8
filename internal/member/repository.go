package member

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

var ErrProfileNotFound = errors.New("member profile not found")

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

const profileColumns = `
	m.user_id, u.name, u.email, m.date_of_birth, m.gender, m.phone,
	m.fitness_goal, m.created_at
`

func (r *Repository) GetProfile(ctx context.Context, userID int) (*Profile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM members m
		JOIN users u ON u.id = m.user_id
		WHERE m.user_id = $1
	`

	var profile Profile
	err := r.db.GetContext(ctx, &profile, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}

	return &profile, nil
}

// EnsureProfile creates the members row on first touch so profile updates
// work without a separate onboarding step.
func (r *Repository) EnsureProfile(ctx context.Context, userID int) error {
	query := `
		INSERT INTO members (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING
	`

	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}

func (r *Repository) UpdateProfile(ctx context.Context, userID int, req UpdateProfileRequest) (*Profile, error) {
	sets := []string{}
	args := []interface{}{}
	n := 1

	set := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, n))
		args = append(args, value)
		n++
	}

	if req.DateOfBirth != nil {
		dob, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			return nil, fmt.Errorf("invalid date_of_birth: %w", err)
		}
		set("date_of_birth", dob)
	}
	if req.Gender != nil {
		set("gender", *req.Gender)
	}
	if req.Phone != nil {
		set("phone", *req.Phone)
	}
	if req.FitnessGoal != nil {
		set("fitness_goal", *req.FitnessGoal)
	}

	if len(sets) == 0 {
		return r.GetProfile(ctx, userID)
	}

	query := fmt.Sprintf(`UPDATE members SET %s WHERE user_id = $%d`, strings.Join(sets, ", "), n)
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
		return nil, ErrProfileNotFound
	}

	return r.GetProfile(ctx, userID)
}

func (r *Repository) RecordMetric(ctx context.Context, memberID int, req RecordMetricRequest) (*HealthMetric, error) {
	query := `
		INSERT INTO health_metrics (member_id, weight_kg, body_fat_pct, resting_heart_rate, systolic_bp, diastolic_bp)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, member_id, recorded_at, weight_kg, body_fat_pct, resting_heart_rate, systolic_bp, diastolic_bp
	`

	var metric HealthMetric
	err := r.db.GetContext(ctx, &metric, query,
		memberID, req.WeightKg, req.BodyFatPct, req.RestingHeartRate, req.SystolicBP, req.DiastolicBP)
	if err != nil {
		return nil, err
	}

	return &metric, nil
}

func (r *Repository) GetMetrics(ctx context.Context, memberID, limit int) ([]HealthMetric, error) {
	query := `
		SELECT id, member_id, recorded_at, weight_kg, body_fat_pct, resting_heart_rate, systolic_bp, diastolic_bp
		FROM health_metrics
		WHERE member_id = $1
		ORDER BY recorded_at DESC
		LIMIT $2
	`

	var history []HealthMetric
	err := r.db.SelectContext(ctx, &history, query, memberID, limit)
	if err != nil {
		return nil, err
	}

	return history, nil
}

func (r *Repository) GetLatestMetric(ctx context.Context, memberID int) (*HealthMetric, error) {
	query := `
		SELECT id, member_id, recorded_at, weight_kg, body_fat_pct, resting_heart_rate, systolic_bp, diastolic_bp
		FROM health_metrics
		WHERE member_id = $1
		ORDER BY recorded_at DESC
		LIMIT 1
	`

	var metric HealthMetric
	err := r.db.GetContext(ctx, &metric, query, memberID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &metric, nil
}

func (r *Repository) GetUpcomingSessions(ctx context.Context, memberID int) ([]UpcomingSession, error) {
	query := `
		SELECT s.id, u.name AS trainer_name, s.start_time, s.end_time, s.status
		FROM pt_sessions s
		JOIN users u ON u.id = s.trainer_id
		WHERE s.member_id = $1 AND s.status = 'scheduled' AND s.end_time > NOW()
		ORDER BY s.start_time ASC
	`

	var sessions []UpcomingSession
	err := r.db.SelectContext(ctx, &sessions, query, memberID)
	if err != nil {
		return nil, err
	}

	return sessions, nil
}

func (r *Repository) GetUpcomingClasses(ctx context.Context, memberID int) ([]UpcomingClass, error) {
	query := `
		SELECT c.id, c.name, u.name AS trainer_name, c.start_time, c.end_time
		FROM class_registrations cr
		JOIN classes c ON c.id = cr.class_id
		JOIN users u ON u.id = c.trainer_id
		WHERE cr.member_id = $1 AND c.end_time > NOW()
		ORDER BY c.start_time ASC
	`

	var classes []UpcomingClass
	err := r.db.SelectContext(ctx, &classes, query, memberID)
	if err != nil {
		return nil, err
	}

	return classes, nil
}
