package schedule

import (
	"errors"
	"fmt"

	"fitclub/internal/interval"
)

// ErrInvalidInterval is surfaced before any query runs.
var ErrInvalidInterval = interval.ErrInvalidInterval

var (
	ErrRoomConflict         = errors.New("room is already booked during this time")
	ErrTrainerConflict      = errors.New("trainer has a conflicting class during this time")
	ErrAvailabilityConflict = errors.New("availability overlaps an existing window")
	ErrSessionConflict      = errors.New("trainer already has a training session during this time")
	ErrClassConflict        = errors.New("trainer is teaching a class during this time")
	ErrNoAvailability       = errors.New("trainer is not available during this time window")

	ErrRoomNotFound        = errors.New("room not found")
	ErrTrainerNotFound     = errors.New("trainer not found")
	ErrClassNotFound       = errors.New("class not found")
	ErrSessionNotFound     = errors.New("training session not found")
	ErrNotSessionOwner     = errors.New("can only cancel own training sessions")
	ErrSessionNotScheduled = errors.New("training session is not in scheduled status")

	ErrPersistence = errors.New("persistence failure")
)

func persistence(err error) error {
	return fmt.Errorf("%w: %v", ErrPersistence, err)
}

// IsConflict reports whether err is one of the business-rule rejections
// (as opposed to bad input or a storage failure).
func IsConflict(err error) bool {
	switch {
	case errors.Is(err, ErrRoomConflict),
		errors.Is(err, ErrTrainerConflict),
		errors.Is(err, ErrAvailabilityConflict),
		errors.Is(err, ErrSessionConflict),
		errors.Is(err, ErrClassConflict),
		errors.Is(err, ErrNoAvailability):
		return true
	}
	return false
}
