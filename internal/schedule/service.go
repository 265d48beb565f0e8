package schedule

import (
	"context"
	"errors"
	"time"

	"fitclub/internal/interval"

	"github.com/jmoiron/sqlx"
)

// Service coordinates booking operations. Every operation runs its conflict
// checks and its writes inside one transaction, with a row lock on the
// resource being checked, so two concurrent requests cannot both pass the
// same check and insert overlapping bookings.
type Service interface {
	AssignRoomToClass(ctx context.Context, roomID, classID int, start, end time.Time) error
	CreateClass(ctx context.Context, c NewClass) (*Class, error)
	SetTrainerAvailability(ctx context.Context, trainerID int, start, end time.Time) (*Availability, error)
	SchedulePTSession(ctx context.Context, memberID, trainerID int, start, end time.Time) (*Session, error)
	CancelPTSession(ctx context.Context, memberID, sessionID int) error
	CompletePTSession(ctx context.Context, trainerID, sessionID int) error
}

type service struct {
	db     *sqlx.DB
	ledger Ledger
}

func NewService(db *sqlx.DB, ledger Ledger) Service {
	return &service{db: db, ledger: ledger}
}

func (s *service) AssignRoomToClass(ctx context.Context, roomID, classID int, start, end time.Time) error {
	iv, err := interval.New(start, end)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return persistence(err)
	}
	defer tx.Rollback()

	if err := s.ledger.LockRoom(ctx, tx, roomID); err != nil {
		return lockErr(err)
	}

	// The class being moved is excluded so re-saving its current slot is
	// never a conflict with itself.
	_, found, err := s.ledger.FindConflict(ctx, tx, KindRoomClass, roomID, iv, classID)
	if err != nil {
		return persistence(err)
	}
	if found {
		return ErrRoomConflict
	}

	if err := s.ledger.AssignClassRoom(ctx, tx, classID, roomID); err != nil {
		if errors.Is(err, ErrClassNotFound) {
			return err
		}
		return persistence(err)
	}

	if err := tx.Commit(); err != nil {
		return persistence(err)
	}

	return nil
}

func (s *service) CreateClass(ctx context.Context, c NewClass) (*Class, error) {
	iv, err := interval.New(c.StartTime, c.EndTime)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, persistence(err)
	}
	defer tx.Rollback()

	if err := s.ledger.LockTrainer(ctx, tx, c.TrainerID); err != nil {
		return nil, lockErr(err)
	}
	if err := s.ledger.LockRoom(ctx, tx, c.RoomID); err != nil {
		return nil, lockErr(err)
	}

	// Trainer conflict is checked, and reported, before the room conflict.
	_, found, err := s.ledger.FindConflict(ctx, tx, KindTrainerClass, c.TrainerID, iv, 0)
	if err != nil {
		return nil, persistence(err)
	}
	if found {
		return nil, ErrTrainerConflict
	}

	_, found, err = s.ledger.FindConflict(ctx, tx, KindRoomClass, c.RoomID, iv, 0)
	if err != nil {
		return nil, persistence(err)
	}
	if found {
		return nil, ErrRoomConflict
	}

	class, err := s.ledger.InsertClass(ctx, tx, c)
	if err != nil {
		return nil, persistence(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, persistence(err)
	}

	return class, nil
}

func (s *service) SetTrainerAvailability(ctx context.Context, trainerID int, start, end time.Time) (*Availability, error) {
	iv, err := interval.New(start, end)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, persistence(err)
	}
	defer tx.Rollback()

	if err := s.ledger.LockTrainer(ctx, tx, trainerID); err != nil {
		return nil, lockErr(err)
	}

	_, found, err := s.ledger.FindConflict(ctx, tx, KindTrainerAvailability, trainerID, iv, 0)
	if err != nil {
		return nil, persistence(err)
	}
	if found {
		return nil, ErrAvailabilityConflict
	}

	avail, err := s.ledger.InsertAvailability(ctx, tx, trainerID, iv)
	if err != nil {
		return nil, persistence(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, persistence(err)
	}

	return avail, nil
}

func (s *service) SchedulePTSession(ctx context.Context, memberID, trainerID int, start, end time.Time) (*Session, error) {
	iv, err := interval.New(start, end)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, persistence(err)
	}
	defer tx.Rollback()

	if err := s.ledger.LockTrainer(ctx, tx, trainerID); err != nil {
		return nil, lockErr(err)
	}

	availabilityID, found, err := s.ledger.FindOpenAvailability(ctx, tx, trainerID, iv)
	if err != nil {
		return nil, persistence(err)
	}
	if !found {
		return nil, ErrNoAvailability
	}

	_, found, err = s.ledger.FindConflict(ctx, tx, KindTrainerSession, trainerID, iv, 0)
	if err != nil {
		return nil, persistence(err)
	}
	if found {
		return nil, ErrSessionConflict
	}

	_, found, err = s.ledger.FindConflict(ctx, tx, KindTrainerClass, trainerID, iv, 0)
	if err != nil {
		return nil, persistence(err)
	}
	if found {
		return nil, ErrClassConflict
	}

	// The session insert and the window consumption commit together or not
	// at all; a half-applied pair would break the containment invariant.
	session, err := s.ledger.InsertSession(ctx, tx, memberID, trainerID, iv)
	if err != nil {
		return nil, persistence(err)
	}

	if err := s.ledger.SetAvailabilityBooked(ctx, tx, availabilityID, true); err != nil {
		return nil, persistence(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, persistence(err)
	}

	return session, nil
}

func (s *service) CancelPTSession(ctx context.Context, memberID, sessionID int) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return persistence(err)
	}
	defer tx.Rollback()

	session, err := s.ledger.GetSessionForUpdate(ctx, tx, sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return err
		}
		return persistence(err)
	}

	if session.MemberID != memberID {
		return ErrNotSessionOwner
	}
	if session.Status != SessionScheduled {
		return ErrSessionNotScheduled
	}

	if err := s.ledger.UpdateSessionStatus(ctx, tx, sessionID, SessionCancelled); err != nil {
		return persistence(err)
	}

	iv := interval.Interval{Start: session.StartTime, End: session.EndTime}
	if err := s.ledger.ReopenAvailabilityFor(ctx, tx, session.TrainerID, iv); err != nil {
		return persistence(err)
	}

	if err := tx.Commit(); err != nil {
		return persistence(err)
	}

	return nil
}

func (s *service) CompletePTSession(ctx context.Context, trainerID, sessionID int) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return persistence(err)
	}
	defer tx.Rollback()

	session, err := s.ledger.GetSessionForUpdate(ctx, tx, sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return err
		}
		return persistence(err)
	}

	if session.TrainerID != trainerID {
		return ErrNotSessionOwner
	}
	if session.Status != SessionScheduled {
		return ErrSessionNotScheduled
	}

	if err := s.ledger.UpdateSessionStatus(ctx, tx, sessionID, SessionCompleted); err != nil {
		return persistence(err)
	}

	if err := tx.Commit(); err != nil {
		return persistence(err)
	}

	return nil
}

func lockErr(err error) error {
	if errors.Is(err, ErrRoomNotFound) || errors.Is(err, ErrTrainerNotFound) {
		return err
	}
	return persistence(err)
}
