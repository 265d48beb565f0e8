package schedule

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"fitclub/internal/auth"
	"fitclub/internal/email"
	"fitclub/internal/metrics"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
	email   *email.Service
}

func NewHandler(service Service, emailService *email.Service) *Handler {
	return &Handler{service: service, email: emailService}
}

// CreateClass godoc
// @Summary      Create class
// @Description  Creates a group fitness class after trainer and room conflict checks. Admin only.
// @Tags         schedule
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateClassRequest  true  "Class details"
// @Success      201      {object}  Class
// @Failure      400      {object}  gin.H
// @Failure      404      {object}  gin.H
// @Failure      409      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /admin/classes [post]
func (h *Handler) CreateClass(c *gin.Context) {
	var req CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start, end, ok := parseWindow(c, req.StartTime, req.EndTime)
	if !ok {
		return
	}

	class, err := h.service.CreateClass(c.Request.Context(), NewClass{
		TrainerID:   req.TrainerID,
		RoomID:      req.RoomID,
		Name:        req.Name,
		Description: req.Description,
		StartTime:   start,
		EndTime:     end,
		Capacity:    req.Capacity,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	metrics.RecordBooking("class", "created")
	c.JSON(http.StatusCreated, class)
}

// AssignRoom godoc
// @Summary      Assign room to class
// @Description  Moves a class to the given room if the room is free for the class window. Admin only.
// @Tags         schedule
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        classID  path      int                true  "Class ID"
// @Param        request  body      AssignRoomRequest  true  "Room and class window"
// @Success      200      {object}  gin.H
// @Failure      400      {object}  gin.H
// @Failure      404      {object}  gin.H
// @Failure      409      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /admin/classes/{classID}/room [post]
func (h *Handler) AssignRoom(c *gin.Context) {
	classID, err := strconv.Atoi(c.Param("classID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid class ID"})
		return
	}

	var req AssignRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start, end, ok := parseWindow(c, req.StartTime, req.EndTime)
	if !ok {
		return
	}

	if err := h.service.AssignRoomToClass(c.Request.Context(), req.RoomID, classID, start, end); err != nil {
		h.respondError(c, err)
		return
	}

	metrics.RecordBooking("room_assignment", "updated")
	c.JSON(http.StatusOK, gin.H{"message": "Room assigned successfully"})
}

// SetAvailability godoc
// @Summary      Set trainer availability
// @Description  Declares an open availability window for the authenticated trainer.
// @Tags         schedule
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      SetAvailabilityRequest  true  "Availability window"
// @Success      201      {object}  Availability
// @Failure      400      {object}  gin.H
// @Failure      409      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /trainer/availability [post]
func (h *Handler) SetAvailability(c *gin.Context) {
	trainerID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req SetAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start, end, ok := parseWindow(c, req.StartTime, req.EndTime)
	if !ok {
		return
	}

	avail, err := h.service.SetTrainerAvailability(c.Request.Context(), trainerID, start, end)
	if err != nil {
		h.respondError(c, err)
		return
	}

	metrics.RecordBooking("availability", "created")
	c.JSON(http.StatusCreated, avail)
}

// ScheduleSession godoc
// @Summary      Schedule personal training session
// @Description  Books a PT session inside an open availability window of the trainer.
// @Tags         schedule
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      ScheduleSessionRequest  true  "Session details"
// @Success      201      {object}  Session
// @Failure      400      {object}  gin.H
// @Failure      409      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /sessions [post]
func (h *Handler) ScheduleSession(c *gin.Context) {
	memberID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req ScheduleSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start, end, ok := parseWindow(c, req.StartTime, req.EndTime)
	if !ok {
		return
	}

	session, err := h.service.SchedulePTSession(c.Request.Context(), memberID, req.TrainerID, start, end)
	if err != nil {
		h.respondError(c, err)
		return
	}

	metrics.RecordBooking("pt_session", "created")

	if h.email != nil {
		if userEmail, ok := c.Get("user_email"); ok {
			h.email.SendSessionConfirmation(
				c.Request.Context(),
				userEmail.(string),
				session.StartTime.Format("Jan 2, 2006 at 3:04 PM"),
			)
		}
	}

	c.JSON(http.StatusCreated, session)
}

// CancelSession godoc
// @Summary      Cancel personal training session
// @Description  Cancels an own scheduled session and reopens the consumed availability window.
// @Tags         schedule
// @Security     BearerAuth
// @Produce      json
// @Param        sessionID  path      int  true  "Session ID"
// @Success      200        {object}  gin.H
// @Failure      400        {object}  gin.H
// @Failure      403        {object}  gin.H
// @Failure      404        {object}  gin.H
// @Failure      500        {object}  gin.H
// @Router       /sessions/{sessionID}/cancel [post]
func (h *Handler) CancelSession(c *gin.Context) {
	memberID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	sessionID, err := strconv.Atoi(c.Param("sessionID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session ID"})
		return
	}

	if err := h.service.CancelPTSession(c.Request.Context(), memberID, sessionID); err != nil {
		h.respondError(c, err)
		return
	}

	metrics.RecordBooking("pt_session", "cancelled")
	c.JSON(http.StatusOK, gin.H{"message": "Session cancelled successfully"})
}

// CompleteSession godoc
// @Summary      Complete personal training session
// @Description  Marks an own scheduled session as completed. Trainer only.
// @Tags         schedule
// @Security     BearerAuth
// @Produce      json
// @Param        sessionID  path      int  true  "Session ID"
// @Success      200        {object}  gin.H
// @Failure      400        {object}  gin.H
// @Failure      403        {object}  gin.H
// @Failure      404        {object}  gin.H
// @Failure      500        {object}  gin.H
// @Router       /trainer/sessions/{sessionID}/complete [post]
func (h *Handler) CompleteSession(c *gin.Context) {
	trainerID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	sessionID, err := strconv.Atoi(c.Param("sessionID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session ID"})
		return
	}

	if err := h.service.CompletePTSession(c.Request.Context(), trainerID, sessionID); err != nil {
		h.respondError(c, err)
		return
	}

	metrics.RecordBooking("pt_session", "completed")
	c.JSON(http.StatusOK, gin.H{"message": "Session marked as completed"})
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidInterval):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case IsConflict(err):
		metrics.RecordBookingConflict(conflictReason(err))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, ErrNotSessionOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, ErrSessionNotScheduled):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ErrRoomNotFound),
		errors.Is(err, ErrTrainerNotFound),
		errors.Is(err, ErrClassNotFound),
		errors.Is(err, ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
	}
}

func conflictReason(err error) string {
	switch {
	case errors.Is(err, ErrRoomConflict):
		return "room_conflict"
	case errors.Is(err, ErrTrainerConflict):
		return "trainer_conflict"
	case errors.Is(err, ErrAvailabilityConflict):
		return "availability_conflict"
	case errors.Is(err, ErrSessionConflict):
		return "session_conflict"
	case errors.Is(err, ErrClassConflict):
		return "class_conflict"
	case errors.Is(err, ErrNoAvailability):
		return "no_availability"
	}
	return "unknown"
}

func parseWindow(c *gin.Context, startStr, endStr string) (time.Time, time.Time, bool) {
	start, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_time format, use RFC3339"})
		return time.Time{}, time.Time{}, false
	}

	end, err := time.Parse(time.RFC3339, endStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_time format, use RFC3339"})
		return time.Time{}, time.Time{}, false
	}

	return start, end, true
}
