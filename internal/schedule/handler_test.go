package schedule

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockService struct{ mock.Mock }

func (m *MockService) AssignRoomToClass(ctx context.Context, roomID, classID int, start, end time.Time) error {
	return m.Called(ctx, roomID, classID, start, end).Error(0)
}

func (m *MockService) CreateClass(ctx context.Context, c NewClass) (*Class, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Class), args.Error(1)
}

func (m *MockService) SetTrainerAvailability(ctx context.Context, trainerID int, start, end time.Time) (*Availability, error) {
	args := m.Called(ctx, trainerID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Availability), args.Error(1)
}

func (m *MockService) SchedulePTSession(ctx context.Context, memberID, trainerID int, start, end time.Time) (*Session, error) {
	args := m.Called(ctx, memberID, trainerID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Session), args.Error(1)
}

func (m *MockService) CancelPTSession(ctx context.Context, memberID, sessionID int) error {
	return m.Called(ctx, memberID, sessionID).Error(0)
}

func (m *MockService) CompletePTSession(ctx context.Context, trainerID, sessionID int) error {
	return m.Called(ctx, trainerID, sessionID).Error(0)
}

func setupRouter(svc Service, userID int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(svc, nil)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	})

	router.POST("/admin/classes", h.CreateClass)
	router.POST("/admin/classes/:classID/room", h.AssignRoom)
	router.POST("/trainer/availability", h.SetAvailability)
	router.POST("/sessions", h.ScheduleSession)
	router.POST("/sessions/:sessionID/cancel", h.CancelSession)
	router.POST("/trainer/sessions/:sessionID/complete", h.CompleteSession)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest("POST", path, bytes.NewBuffer(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestScheduleSessionHandler_Created(t *testing.T) {
	svc := new(MockService)
	router := setupRouter(svc, 10)

	start := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	svc.On("SchedulePTSession", mock.Anything, 10, 2, start, end).
		Return(&Session{ID: 8, MemberID: 10, TrainerID: 2, StartTime: start, EndTime: end, Status: SessionScheduled}, nil)

	w := postJSON(t, router, "/sessions", ScheduleSessionRequest{
		TrainerID: 2,
		StartTime: start.Format(time.RFC3339),
		EndTime:   end.Format(time.RFC3339),
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	var session Session
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))
	assert.Equal(t, 8, session.ID)
	assert.Equal(t, SessionScheduled, session.Status)
	svc.AssertExpectations(t)
}

func TestScheduleSessionHandler_NoAvailability(t *testing.T) {
	svc := new(MockService)
	router := setupRouter(svc, 10)

	start := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	svc.On("SchedulePTSession", mock.Anything, 10, 2, start, end).
		Return(nil, ErrNoAvailability)

	w := postJSON(t, router, "/sessions", ScheduleSessionRequest{
		TrainerID: 2,
		StartTime: start.Format(time.RFC3339),
		EndTime:   end.Format(time.RFC3339),
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "availability")
}

func TestScheduleSessionHandler_BadTimestamp(t *testing.T) {
	svc := new(MockService)
	router := setupRouter(svc, 10)

	w := postJSON(t, router, "/sessions", ScheduleSessionRequest{
		TrainerID: 2,
		StartTime: "next tuesday",
		EndTime:   "2025-06-02T10:00:00Z",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "SchedulePTSession", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateClassHandler_TrainerConflict(t *testing.T) {
	svc := new(MockService)
	router := setupRouter(svc, 1)

	start := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	svc.On("CreateClass", mock.Anything, mock.Anything).Return(nil, ErrTrainerConflict)

	w := postJSON(t, router, "/admin/classes", CreateClassRequest{
		TrainerID: 2,
		RoomID:    3,
		Name:      "Spin",
		StartTime: start.Format(time.RFC3339),
		EndTime:   end.Format(time.RFC3339),
		Capacity:  20,
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "trainer")
}

func TestCreateClassHandler_InvalidInterval(t *testing.T) {
	svc := new(MockService)
	router := setupRouter(svc, 1)

	start := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

	svc.On("CreateClass", mock.Anything, mock.Anything).Return(nil, ErrInvalidInterval)

	w := postJSON(t, router, "/admin/classes", CreateClassRequest{
		TrainerID: 2,
		RoomID:    3,
		Name:      "Spin",
		StartTime: start.Format(time.RFC3339),
		EndTime:   start.Format(time.RFC3339),
		Capacity:  20,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAssignRoomHandler_NotFound(t *testing.T) {
	svc := new(MockService)
	router := setupRouter(svc, 1)

	start := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	svc.On("AssignRoomToClass", mock.Anything, 3, 7, start, end).Return(ErrClassNotFound)

	w := postJSON(t, router, "/admin/classes/7/room", AssignRoomRequest{
		RoomID:    3,
		StartTime: start.Format(time.RFC3339),
		EndTime:   end.Format(time.RFC3339),
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCancelSessionHandler_Forbidden(t *testing.T) {
	svc := new(MockService)
	router := setupRouter(svc, 10)

	svc.On("CancelPTSession", mock.Anything, 10, 8).Return(ErrNotSessionOwner)

	req, err := http.NewRequest("POST", "/sessions/8/cancel", nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCompleteSessionHandler_Success(t *testing.T) {
	svc := new(MockService)
	router := setupRouter(svc, 2)

	svc.On("CompletePTSession", mock.Anything, 2, 8).Return(nil)

	req, err := http.NewRequest("POST", "/trainer/sessions/8/complete", nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestSetAvailabilityHandler_Created(t *testing.T) {
	svc := new(MockService)
	router := setupRouter(svc, 2)

	start := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	end := start.Add(4 * time.Hour)

	svc.On("SetTrainerAvailability", mock.Anything, 2, start, end).
		Return(&Availability{ID: 5, TrainerID: 2, StartTime: start, EndTime: end}, nil)

	w := postJSON(t, router, "/trainer/availability", SetAvailabilityRequest{
		StartTime: start.Format(time.RFC3339),
		EndTime:   end.Format(time.RFC3339),
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)
}
