package class

import "time"

// ClassWithCounts is the listing shape: the class plus how many members
// hold a spot.
type ClassWithCounts struct {
	ID          int       `db:"id" json:"id"`
	TrainerID   int       `db:"trainer_id" json:"trainer_id"`
	TrainerName string    `db:"trainer_name" json:"trainer_name"`
	RoomID      *int      `db:"room_id" json:"room_id,omitempty"`
	RoomName    *string   `db:"room_name" json:"room_name,omitempty"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	StartTime   time.Time `db:"start_time" json:"start_time"`
	EndTime     time.Time `db:"end_time" json:"end_time"`
	Capacity    int       `db:"capacity" json:"capacity"`
	Registered  int       `db:"registered" json:"registered"`
}

type Attendee struct {
	MemberID int    `db:"member_id" json:"member_id"`
	Name     string `db:"name" json:"name"`
	Email    string `db:"email" json:"email"`
}

type UpdateClassRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Capacity    *int    `json:"capacity" binding:"omitempty,min=1"`
}
