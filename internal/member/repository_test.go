package member

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func setupMemberMock(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func profileRows() *sqlmock.Rows {
	now := time.Now()
	goal := "lose weight"
	return sqlmock.NewRows([]string{
		"user_id", "name", "email", "date_of_birth", "gender", "phone", "fitness_goal", "created_at",
	}).AddRow(10, "Alice", "a@example.com", nil, nil, nil, goal, now)
}

func TestGetProfile(t *testing.T) {
	repo, mock := setupMemberMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE m.user_id = $1`)).
		WithArgs(10).
		WillReturnRows(profileRows())

	profile, err := repo.GetProfile(context.Background(), 10)

	require.NoError(t, err)
	require.Equal(t, "Alice", profile.Name)
	require.NotNil(t, profile.FitnessGoal)
	require.Equal(t, "lose weight", *profile.FitnessGoal)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProfile_NotFound(t *testing.T) {
	repo, mock := setupMemberMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE m.user_id = $1`)).
		WithArgs(404).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

	_, err := repo.GetProfile(context.Background(), 404)

	require.ErrorIs(t, err, ErrProfileNotFound)
}

func TestUpdateProfile_FitnessGoalOnly(t *testing.T) {
	repo, mock := setupMemberMock(t)
	goal := "build muscle"

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE members SET fitness_goal = $1 WHERE user_id = $2`)).
		WithArgs("build muscle", 10).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE m.user_id = $1`)).
		WithArgs(10).
		WillReturnRows(profileRows())

	_, err := repo.UpdateProfile(context.Background(), 10, UpdateProfileRequest{FitnessGoal: &goal})

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProfile_BadDate(t *testing.T) {
	repo, _ := setupMemberMock(t)
	dob := "02-06-1990"

	_, err := repo.UpdateProfile(context.Background(), 10, UpdateProfileRequest{DateOfBirth: &dob})

	require.Error(t, err)
}

func TestRecordAndFetchMetrics(t *testing.T) {
	repo, mock := setupMemberMock(t)
	now := time.Now()
	weight := 82.5

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO health_metrics`)).
		WithArgs(10, &weight, nil, nil, nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "member_id", "recorded_at", "weight_kg", "body_fat_pct",
			"resting_heart_rate", "systolic_bp", "diastolic_bp",
		}).AddRow(1, 10, now, weight, nil, nil, nil, nil))

	metric, err := repo.RecordMetric(context.Background(), 10, RecordMetricRequest{WeightKg: &weight})

	require.NoError(t, err)
	require.NotNil(t, metric.WeightKg)
	require.Equal(t, 82.5, *metric.WeightKg)

	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY recorded_at DESC LIMIT $2`)).
		WithArgs(10, 30).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "member_id", "recorded_at", "weight_kg", "body_fat_pct",
			"resting_heart_rate", "systolic_bp", "diastolic_bp",
		}).AddRow(1, 10, now, weight, nil, nil, nil, nil))

	history, err := repo.GetMetrics(context.Background(), 10, 30)

	require.NoError(t, err)
	require.Len(t, history, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetLatestMetric_NoneIsNotAnError(t *testing.T) {
	repo, mock := setupMemberMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY recorded_at DESC LIMIT 1`)).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	metric, err := repo.GetLatestMetric(context.Background(), 10)

	require.NoError(t, err)
	require.Nil(t, metric)
}

func TestGetUpcomingSessions(t *testing.T) {
	repo, mock := setupMemberMock(t)
	start := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM pt_sessions s`)).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "trainer_name", "start_time", "end_time", "status"}).
			AddRow(8, "Jordan", start, start.Add(time.Hour), "scheduled"))

	sessions, err := repo.GetUpcomingSessions(context.Background(), 10)

	require.NoError(t, err)
	require.Len(t, sessions, 1)
	require.Equal(t, "Jordan", sessions[0].TrainerName)
}
