package trainer

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"fitclub/internal/api"
	"fitclub/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type Handler struct {
	repo *Repository
}

func NewHandler(db *sqlx.DB) *Handler {
	return &Handler{repo: NewRepository(db)}
}

// @Summary      Create a trainer
// @Description  Admin-only: creates the trainer account and profile.
// @Tags         admin,trainers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body trainer.CreateTrainerRequest true "Trainer payload"
// @Success      201 {object} trainer.Trainer
// @Failure      400 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/trainers [post]
func (h *Handler) CreateTrainer(c *gin.Context) {
	var req CreateTrainerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to hash password"})
		return
	}

	trainer, err := h.repo.Create(c.Request.Context(), req.Name, req.Email, passwordHash, req.Specialty, req.HourlyRate)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Email already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to create trainer"})
		return
	}

	c.JSON(http.StatusCreated, trainer)
}

// @Summary      List trainers
// @Tags         trainers
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} trainer.Trainer
// @Failure      500 {object} api.ErrorResponse
// @Router       /trainers [get]
func (h *Handler) ListTrainers(c *gin.Context) {
	trainers, err := h.repo.GetAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch trainers"})
		return
	}

	c.JSON(http.StatusOK, trainers)
}

// @Summary      Get a trainer
// @Tags         trainers
// @Produce      json
// @Security     BearerAuth
// @Param        trainerID path int true "Trainer ID"
// @Success      200 {object} trainer.Trainer
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /trainers/{trainerID} [get]
func (h *Handler) GetTrainer(c *gin.Context) {
	trainerID, err := strconv.Atoi(c.Param("trainerID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid trainer ID"})
		return
	}

	trainer, err := h.repo.GetByID(c.Request.Context(), trainerID)
	if errors.Is(err, ErrTrainerNotFound) {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Trainer not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch trainer"})
		return
	}

	c.JSON(http.StatusOK, trainer)
}

// @Summary      Update a trainer
// @Description  Admin-only: update specialty or hourly rate.
// @Tags         admin,trainers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        trainerID path int true "Trainer ID"
// @Param        request body trainer.UpdateTrainerRequest true "Fields to update"
// @Success      200 {object} trainer.Trainer
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/trainers/{trainerID} [patch]
func (h *Handler) UpdateTrainer(c *gin.Context) {
	trainerID, err := strconv.Atoi(c.Param("trainerID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid trainer ID"})
		return
	}

	var req UpdateTrainerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	trainer, err := h.repo.Update(c.Request.Context(), trainerID, req)
	if errors.Is(err, ErrTrainerNotFound) {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Trainer not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to update trainer"})
		return
	}

	c.JSON(http.StatusOK, trainer)
}

// @Summary      Own schedule
// @Description  The authenticated trainer's upcoming classes and sessions.
// @Tags         trainers
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} trainer.ScheduleItem
// @Failure      401 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /trainer/schedule [get]
func (h *Handler) GetOwnSchedule(c *gin.Context) {
	trainerID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	items, err := h.repo.GetSchedule(c.Request.Context(), trainerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch schedule"})
		return
	}

	c.JSON(http.StatusOK, items)
}

// @Summary      Trainer availability
// @Description  Open, unbooked windows members can book against.
// @Tags         trainers
// @Produce      json
// @Security     BearerAuth
// @Param        trainerID path int true "Trainer ID"
// @Success      200 {array} trainer.AvailabilityWindow
// @Failure      400 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /trainers/{trainerID}/availability [get]
func (h *Handler) GetAvailability(c *gin.Context) {
	trainerID, err := strconv.Atoi(c.Param("trainerID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid trainer ID"})
		return
	}

	windows, err := h.repo.GetOpenAvailability(c.Request.Context(), trainerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch availability"})
		return
	}

	c.JSON(http.StatusOK, windows)
}

// @Summary      Find members
// @Description  Trainer-only: look up clients by name with their latest measurements.
// @Tags         trainers
// @Produce      json
// @Security     BearerAuth
// @Param        name query string true "Partial name"
// @Success      200 {array} trainer.MemberSummary
// @Failure      400 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /trainer/members [get]
func (h *Handler) FindMembers(c *gin.Context) {
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "name query parameter is required"})
		return
	}

	members, err := h.repo.FindMembersByName(c.Request.Context(), name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to search members"})
		return
	}

	c.JSON(http.StatusOK, members)
}
