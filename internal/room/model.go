package room

import "time"

type Room struct {
	ID        int       `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	RoomType  string    `db:"room_type" json:"room_type"`
	Capacity  int       `db:"capacity" json:"capacity"`
	Location  string    `db:"location" json:"location"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ScheduleEntry is one class occupying the room.
type ScheduleEntry struct {
	ClassID     int       `db:"class_id" json:"class_id"`
	ClassName   string    `db:"class_name" json:"class_name"`
	TrainerName string    `db:"trainer_name" json:"trainer_name"`
	StartTime   time.Time `db:"start_time" json:"start_time"`
	EndTime     time.Time `db:"end_time" json:"end_time"`
}

type CreateRoomRequest struct {
	Name     string `json:"name" binding:"required"`
	RoomType string `json:"room_type" binding:"required"`
	Capacity int    `json:"capacity" binding:"required,min=1"`
	Location string `json:"location"`
}

// UpdateRoomRequest carries the only fields an update may touch. Pointers
// distinguish "leave alone" from "set to zero value".
type UpdateRoomRequest struct {
	Name     *string `json:"name"`
	RoomType *string `json:"room_type"`
	Capacity *int    `json:"capacity" binding:"omitempty,min=1"`
	Location *string `json:"location"`
}
