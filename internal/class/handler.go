package class

import (
	"errors"
	"net/http"
	"strconv"

	"fitclub/internal/api"
	"fitclub/internal/auth"
	"fitclub/internal/email"
	"fitclub/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Handler struct {
	repo  *Repository
	email *email.Service
}

func NewHandler(db *sqlx.DB, emailService *email.Service) *Handler {
	return &Handler{repo: NewRepository(db), email: emailService}
}

// @Summary      List classes
// @Description  Classes with trainer, room and registration counts. ?upcoming=true limits to future classes.
// @Tags         classes
// @Produce      json
// @Security     BearerAuth
// @Param        upcoming query bool false "Only future classes"
// @Success      200 {array} class.ClassWithCounts
// @Failure      500 {object} api.ErrorResponse
// @Router       /classes [get]
func (h *Handler) ListClasses(c *gin.Context) {
	onlyUpcoming := c.Query("upcoming") == "true"

	classes, err := h.repo.GetAll(c.Request.Context(), onlyUpcoming)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch classes"})
		return
	}

	c.JSON(http.StatusOK, classes)
}

// @Summary      Get a class
// @Tags         classes
// @Produce      json
// @Security     BearerAuth
// @Param        classID path int true "Class ID"
// @Success      200 {object} class.ClassWithCounts
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /classes/{classID} [get]
func (h *Handler) GetClass(c *gin.Context) {
	classID, err := strconv.Atoi(c.Param("classID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid class ID"})
		return
	}

	class, err := h.repo.GetByID(c.Request.Context(), classID)
	if errors.Is(err, ErrClassNotFound) {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Class not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch class"})
		return
	}

	c.JSON(http.StatusOK, class)
}

// @Summary      Update a class
// @Description  Admin-only: update name, description or capacity. Times and rooms move through the booking endpoints.
// @Tags         admin,classes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        classID path int true "Class ID"
// @Param        request body class.UpdateClassRequest true "Fields to update"
// @Success      200 {object} class.ClassWithCounts
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/classes/{classID} [patch]
func (h *Handler) UpdateClass(c *gin.Context) {
	classID, err := strconv.Atoi(c.Param("classID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid class ID"})
		return
	}

	var req UpdateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	class, err := h.repo.Update(c.Request.Context(), classID, req)
	if errors.Is(err, ErrClassNotFound) {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Class not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to update class"})
		return
	}

	c.JSON(http.StatusOK, class)
}

// @Summary      Delete a class
// @Description  Admin-only: removes the class and its registrations.
// @Tags         admin,classes
// @Produce      json
// @Security     BearerAuth
// @Param        classID path int true "Class ID"
// @Success      200 {object} api.MessageResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/classes/{classID} [delete]
func (h *Handler) DeleteClass(c *gin.Context) {
	classID, err := strconv.Atoi(c.Param("classID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid class ID"})
		return
	}

	err = h.repo.Delete(c.Request.Context(), classID)
	if errors.Is(err, ErrClassNotFound) {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Class not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to delete class"})
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Class deleted"})
}

// @Summary      Register for a class
// @Tags         classes
// @Produce      json
// @Security     BearerAuth
// @Param        classID path int true "Class ID"
// @Success      201 {object} api.MessageResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /classes/{classID}/register [post]
func (h *Handler) Register(c *gin.Context) {
	memberID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	classID, err := strconv.Atoi(c.Param("classID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid class ID"})
		return
	}

	err = h.repo.Register(c.Request.Context(), classID, memberID)
	switch {
	case errors.Is(err, ErrClassNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Class not found"})
		return
	case errors.Is(err, ErrClassFull):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Class is full"})
		return
	case errors.Is(err, ErrAlreadyRegistered):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Already registered for this class"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to register"})
		return
	}

	metrics.RecordClassRegistration()

	if h.email != nil {
		if userEmail, ok := c.Get("user_email"); ok {
			if class, err := h.repo.GetByID(c.Request.Context(), classID); err == nil {
				h.email.SendClassConfirmation(
					c.Request.Context(),
					userEmail.(string),
					class.Name,
					class.StartTime.Format("Jan 2, 2006 at 3:04 PM"),
				)
			}
		}
	}

	c.JSON(http.StatusCreated, api.MessageResponse{Message: "Registered for class"})
}

// @Summary      Unregister from a class
// @Tags         classes
// @Produce      json
// @Security     BearerAuth
// @Param        classID path int true "Class ID"
// @Success      200 {object} api.MessageResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /classes/{classID}/register [delete]
func (h *Handler) Unregister(c *gin.Context) {
	memberID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	classID, err := strconv.Atoi(c.Param("classID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid class ID"})
		return
	}

	err = h.repo.Unregister(c.Request.Context(), classID, memberID)
	if errors.Is(err, ErrNotRegistered) {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Not registered for this class"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to unregister"})
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Unregistered from class"})
}

// @Summary      List class attendees
// @Description  Trainer or admin: the members registered for a class.
// @Tags         classes
// @Produce      json
// @Security     BearerAuth
// @Param        classID path int true "Class ID"
// @Success      200 {array} class.Attendee
// @Failure      400 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /classes/{classID}/attendees [get]
func (h *Handler) GetAttendees(c *gin.Context) {
	classID, err := strconv.Atoi(c.Param("classID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid class ID"})
		return
	}

	attendees, err := h.repo.GetAttendees(c.Request.Context(), classID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch attendees"})
		return
	}

	c.JSON(http.StatusOK, attendees)
}
