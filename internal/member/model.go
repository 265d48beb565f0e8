package member

import "time"

type Profile struct {
	UserID      int        `db:"user_id" json:"user_id"`
	Name        string     `db:"name" json:"name"`
	Email       string     `db:"email" json:"email"`
	DateOfBirth *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Gender      *string    `db:"gender" json:"gender,omitempty"`
	Phone       *string    `db:"phone" json:"phone,omitempty"`
	FitnessGoal *string    `db:"fitness_goal" json:"fitness_goal,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

type HealthMetric struct {
	ID               int       `db:"id" json:"id"`
	MemberID         int       `db:"member_id" json:"member_id"`
	RecordedAt       time.Time `db:"recorded_at" json:"recorded_at"`
	WeightKg         *float64  `db:"weight_kg" json:"weight_kg,omitempty"`
	BodyFatPct       *float64  `db:"body_fat_pct" json:"body_fat_pct,omitempty"`
	RestingHeartRate *int      `db:"resting_heart_rate" json:"resting_heart_rate,omitempty"`
	SystolicBP       *int      `db:"systolic_bp" json:"systolic_bp,omitempty"`
	DiastolicBP      *int      `db:"diastolic_bp" json:"diastolic_bp,omitempty"`
}

// UpdateProfileRequest enumerates the columns a member may change.
type UpdateProfileRequest struct {
	DateOfBirth *string `json:"date_of_birth" binding:"omitempty,datetime=2006-01-02"`
	Gender      *string `json:"gender" binding:"omitempty,oneof=male female other"`
	Phone       *string `json:"phone"`
	FitnessGoal *string `json:"fitness_goal"`
}

type RecordMetricRequest struct {
	WeightKg         *float64 `json:"weight_kg" binding:"omitempty,gt=0"`
	BodyFatPct       *float64 `json:"body_fat_pct" binding:"omitempty,gte=0,lte=100"`
	RestingHeartRate *int     `json:"resting_heart_rate" binding:"omitempty,gt=0"`
	SystolicBP       *int     `json:"systolic_bp" binding:"omitempty,gt=0"`
	DiastolicBP      *int     `json:"diastolic_bp" binding:"omitempty,gt=0"`
}

// Dashboard bundles what the member landing page shows.
type Dashboard struct {
	Profile          *Profile          `json:"profile"`
	UpcomingSessions []UpcomingSession `json:"upcoming_sessions"`
	UpcomingClasses  []UpcomingClass   `json:"upcoming_classes"`
	LatestMetric     *HealthMetric     `json:"latest_metric,omitempty"`
}

type UpcomingSession struct {
	ID          int       `db:"id" json:"id"`
	TrainerName string    `db:"trainer_name" json:"trainer_name"`
	StartTime   time.Time `db:"start_time" json:"start_time"`
	EndTime     time.Time `db:"end_time" json:"end_time"`
	Status      string    `db:"status" json:"status"`
}

type UpcomingClass struct {
	ID          int       `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	TrainerName string    `db:"trainer_name" json:"trainer_name"`
	StartTime   time.Time `db:"start_time" json:"start_time"`
	EndTime     time.Time `db:"end_time" json:"end_time"`
}
