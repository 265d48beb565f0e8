package schedule

import (
	"context"

	"fitclub/internal/interval"

	"github.com/jmoiron/sqlx"
)

// Ledger answers conflict queries and performs booking writes. Every method
// takes the queryer it should run against so the coordinator can hand in
// the transaction that scopes a whole booking operation.
type Ledger interface {
	LockRoom(ctx context.Context, q sqlx.ExtContext, roomID int) error
	LockTrainer(ctx context.Context, q sqlx.ExtContext, trainerID int) error

	FindConflict(ctx context.Context, q sqlx.ExtContext, kind Kind, resourceID int, iv interval.Interval, excludeID int) (int, bool, error)
	FindOpenAvailability(ctx context.Context, q sqlx.ExtContext, trainerID int, iv interval.Interval) (int, bool, error)

	InsertClass(ctx context.Context, q sqlx.ExtContext, c NewClass) (*Class, error)
	AssignClassRoom(ctx context.Context, q sqlx.ExtContext, classID, roomID int) error
	InsertAvailability(ctx context.Context, q sqlx.ExtContext, trainerID int, iv interval.Interval) (*Availability, error)
	InsertSession(ctx context.Context, q sqlx.ExtContext, memberID, trainerID int, iv interval.Interval) (*Session, error)
	SetAvailabilityBooked(ctx context.Context, q sqlx.ExtContext, availabilityID int, booked bool) error
	ReopenAvailabilityFor(ctx context.Context, q sqlx.ExtContext, trainerID int, iv interval.Interval) error
	GetSessionForUpdate(ctx context.Context, q sqlx.ExtContext, sessionID int) (*Session, error)
	UpdateSessionStatus(ctx context.Context, q sqlx.ExtContext, sessionID int, status string) error
}
