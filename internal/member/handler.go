package member

import (
	"errors"
	"net/http"
	"strconv"

	"fitclub/internal/api"
	"fitclub/internal/auth"
	"fitclub/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Handler struct {
	repo *Repository
}

func NewHandler(db *sqlx.DB) *Handler {
	return &Handler{repo: NewRepository(db)}
}

// @Summary      Get own profile
// @Tags         members
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} member.Profile
// @Failure      401 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /member/profile [get]
func (h *Handler) GetProfile(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	profile, err := h.repo.GetProfile(c.Request.Context(), userID)
	if errors.Is(err, ErrProfileNotFound) {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Profile not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch profile"})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// @Summary      Update own profile
// @Description  Only date of birth, gender, phone and fitness goal can change here.
// @Tags         members
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body member.UpdateProfileRequest true "Fields to update"
// @Success      200 {object} member.Profile
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /member/profile [patch]
func (h *Handler) UpdateProfile(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	ctx := c.Request.Context()

	if err := h.repo.EnsureProfile(ctx, userID); err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to update profile"})
		return
	}

	profile, err := h.repo.UpdateProfile(ctx, userID, req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// @Summary      Record health metrics
// @Tags         members
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body member.RecordMetricRequest true "Measurements"
// @Success      201 {object} member.HealthMetric
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /member/metrics [post]
func (h *Handler) RecordMetric(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req RecordMetricRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	metric, err := h.repo.RecordMetric(c.Request.Context(), userID, req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to record metrics"})
		return
	}

	metrics.RecordHealthMetric()
	c.JSON(http.StatusCreated, metric)
}

// @Summary      Health metric history
// @Tags         members
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Max entries (default 30)"
// @Success      200 {array} member.HealthMetric
// @Failure      401 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /member/metrics [get]
func (h *Handler) GetMetrics(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	limit := 30
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 500 {
			limit = parsed
		}
	}

	history, err := h.repo.GetMetrics(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch metrics"})
		return
	}

	c.JSON(http.StatusOK, history)
}

// @Summary      Member dashboard
// @Description  Profile, upcoming sessions and classes, latest health metrics.
// @Tags         members
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} member.Dashboard
// @Failure      401 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /member/dashboard [get]
func (h *Handler) GetDashboard(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	ctx := c.Request.Context()
	dashboard := Dashboard{}

	profile, err := h.repo.GetProfile(ctx, userID)
	if err != nil && !errors.Is(err, ErrProfileNotFound) {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to build dashboard"})
		return
	}
	dashboard.Profile = profile

	sessions, err := h.repo.GetUpcomingSessions(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to build dashboard"})
		return
	}
	dashboard.UpcomingSessions = sessions

	classes, err := h.repo.GetUpcomingClasses(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to build dashboard"})
		return
	}
	dashboard.UpcomingClasses = classes

	latest, err := h.repo.GetLatestMetric(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to build dashboard"})
		return
	}
	dashboard.LatestMetric = latest

	c.JSON(http.StatusOK, dashboard)
}
