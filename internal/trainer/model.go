package trainer

import "time"

type Trainer struct {
	UserID     int      `db:"user_id" json:"user_id"`
	Name       string   `db:"name" json:"name"`
	Email      string   `db:"email" json:"email"`
	Specialty  *string  `db:"specialty" json:"specialty,omitempty"`
	HourlyRate *float64 `db:"hourly_rate" json:"hourly_rate,omitempty"`
}

type CreateTrainerRequest struct {
	Name       string   `json:"name" binding:"required"`
	Email      string   `json:"email" binding:"required,email"`
	Password   string   `json:"password" binding:"required,min=8"`
	Specialty  string   `json:"specialty"`
	HourlyRate *float64 `json:"hourly_rate" binding:"omitempty,gt=0"`
}

type UpdateTrainerRequest struct {
	Specialty  *string  `json:"specialty"`
	HourlyRate *float64 `json:"hourly_rate" binding:"omitempty,gt=0"`
}

// ScheduleItem is one commitment on a trainer's calendar, either a class
// or a personal training session.
type ScheduleItem struct {
	Kind      string    `db:"kind" json:"kind"`
	RefID     int       `db:"ref_id" json:"ref_id"`
	Title     string    `db:"title" json:"title"`
	StartTime time.Time `db:"start_time" json:"start_time"`
	EndTime   time.Time `db:"end_time" json:"end_time"`
}

type AvailabilityWindow struct {
	ID        int       `db:"id" json:"id"`
	TrainerID int       `db:"trainer_id" json:"trainer_id"`
	StartTime time.Time `db:"start_time" json:"start_time"`
	EndTime   time.Time `db:"end_time" json:"end_time"`
	IsBooked  bool      `db:"is_booked" json:"is_booked"`
}

// MemberSummary is what a trainer sees when looking up a client.
type MemberSummary struct {
	UserID         int        `db:"user_id" json:"user_id"`
	Name           string     `db:"name" json:"name"`
	Email          string     `db:"email" json:"email"`
	FitnessGoal    *string    `db:"fitness_goal" json:"fitness_goal,omitempty"`
	LastRecordedAt *time.Time `db:"last_recorded_at" json:"last_recorded_at,omitempty"`
	LastWeightKg   *float64   `db:"last_weight_kg" json:"last_weight_kg,omitempty"`
	LastBodyFatPct *float64   `db:"last_body_fat_pct" json:"last_body_fat_pct,omitempty"`
	LastRestingHR  *int       `db:"last_resting_heart_rate" json:"last_resting_heart_rate,omitempty"`
}
