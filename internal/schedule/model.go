package schedule

import (
	"time"
)

// Kind selects which booking table and resource column a conflict scan
// runs against.
type Kind string

const (
	KindRoomClass           Kind = "room_class"
	KindTrainerClass        Kind = "trainer_class"
	KindTrainerAvailability Kind = "trainer_availability"
	KindTrainerSession      Kind = "trainer_session"
)

const (
	SessionScheduled = "scheduled"
	SessionCancelled = "cancelled"
	SessionCompleted = "completed"
)

type Class struct {
	ID          int       `db:"id" json:"id"`
	TrainerID   int       `db:"trainer_id" json:"trainer_id"`
	RoomID      *int      `db:"room_id" json:"room_id,omitempty"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	StartTime   time.Time `db:"start_time" json:"start_time"`
	EndTime     time.Time `db:"end_time" json:"end_time"`
	Capacity    int       `db:"capacity" json:"capacity"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type Availability struct {
	ID        int       `db:"id" json:"id"`
	TrainerID int       `db:"trainer_id" json:"trainer_id"`
	StartTime time.Time `db:"start_time" json:"start_time"`
	EndTime   time.Time `db:"end_time" json:"end_time"`
	IsBooked  bool      `db:"is_booked" json:"is_booked"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type Session struct {
	ID        int       `db:"id" json:"id"`
	MemberID  int       `db:"member_id" json:"member_id"`
	TrainerID int       `db:"trainer_id" json:"trainer_id"`
	StartTime time.Time `db:"start_time" json:"start_time"`
	EndTime   time.Time `db:"end_time" json:"end_time"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type NewClass struct {
	TrainerID   int
	RoomID      int
	Name        string
	Description string
	StartTime   time.Time
	EndTime     time.Time
	Capacity    int
}

type CreateClassRequest struct {
	TrainerID   int    `json:"trainer_id" binding:"required"`
	RoomID      int    `json:"room_id" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	StartTime   string `json:"start_time" binding:"required"`
	EndTime     string `json:"end_time" binding:"required"`
	Capacity    int    `json:"capacity" binding:"required,min=1"`
}

type AssignRoomRequest struct {
	RoomID    int    `json:"room_id" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

type SetAvailabilityRequest struct {
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

type ScheduleSessionRequest struct {
	TrainerID int    `json:"trainer_id" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}
