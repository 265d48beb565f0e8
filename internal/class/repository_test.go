package class

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func setupClassMock(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func classRow() *sqlmock.Rows {
	start := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	roomID := 3
	roomName := "Studio A"
	return sqlmock.NewRows([]string{
		"id", "trainer_id", "trainer_name", "room_id", "room_name",
		"name", "description", "start_time", "end_time", "capacity", "registered",
	}).AddRow(7, 2, "Jordan", roomID, roomName, "Spin", "Cardio", start, start.Add(time.Hour), 20, 12)
}

func TestGetClassByID(t *testing.T) {
	repo, mock := setupClassMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE c.id = $1`)).
		WithArgs(7).
		WillReturnRows(classRow())

	class, err := repo.GetByID(context.Background(), 7)

	require.NoError(t, err)
	require.Equal(t, "Spin", class.Name)
	require.Equal(t, 12, class.Registered)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetClassByID_NotFound(t *testing.T) {
	repo, mock := setupClassMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE c.id = $1`)).
		WithArgs(404).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), 404)

	require.ErrorIs(t, err, ErrClassNotFound)
}

func TestRegister_Success(t *testing.T) {
	repo, mock := setupClassMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT capacity FROM classes WHERE id = $1 FOR UPDATE`)).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"capacity"}).AddRow(20))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM class_registrations WHERE class_id = $1`)).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO class_registrations (class_id, member_id) VALUES ($1, $2)`)).
		WithArgs(7, 10).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.Register(context.Background(), 7, 10)

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegister_Full(t *testing.T) {
	repo, mock := setupClassMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT capacity FROM classes WHERE id = $1 FOR UPDATE`)).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"capacity"}).AddRow(20))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM class_registrations WHERE class_id = $1`)).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(20))
	mock.ExpectRollback()

	err := repo.Register(context.Background(), 7, 10)

	require.ErrorIs(t, err, ErrClassFull)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegister_Duplicate(t *testing.T) {
	repo, mock := setupClassMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT capacity FROM classes WHERE id = $1 FOR UPDATE`)).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"capacity"}).AddRow(20))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM class_registrations WHERE class_id = $1`)).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO class_registrations (class_id, member_id) VALUES ($1, $2)`)).
		WithArgs(7, 10).
		WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectRollback()

	err := repo.Register(context.Background(), 7, 10)

	require.ErrorIs(t, err, ErrAlreadyRegistered)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUnregister_NotRegistered(t *testing.T) {
	repo, mock := setupClassMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM class_registrations WHERE class_id = $1 AND member_id = $2`)).
		WithArgs(7, 10).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Unregister(context.Background(), 7, 10)

	require.ErrorIs(t, err, ErrNotRegistered)
}

func TestUpdateClass_Capacity(t *testing.T) {
	repo, mock := setupClassMock(t)
	capacity := 25

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE classes SET capacity = $1 WHERE id = $2`)).
		WithArgs(25, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE c.id = $1`)).
		WithArgs(7).
		WillReturnRows(classRow())

	class, err := repo.Update(context.Background(), 7, UpdateClassRequest{Capacity: &capacity})

	require.NoError(t, err)
	require.Equal(t, 7, class.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
