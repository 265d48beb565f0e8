package room

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"fitclub/internal/api"

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

// @Summary      Create a room
// @Description  Admin-only: add a room to the catalog
// @Tags         admin,rooms
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body room.CreateRoomRequest true "Room payload"
// @Success      201 {object} room.Room
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/rooms [post]
func (h *Handler) CreateRoom(c *gin.Context) {
	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	room, err := h.repo.Create(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to create room"})
		return
	}

	c.JSON(http.StatusCreated, room)
}

// @Summary      List rooms
// @Tags         rooms
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} room.Room
// @Failure      401 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /rooms [get]
func (h *Handler) ListRooms(c *gin.Context) {
	rooms, err := h.repo.GetAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch rooms"})
		return
	}

	c.JSON(http.StatusOK, rooms)
}

// @Summary      Get a room
// @Tags         rooms
// @Produce      json
// @Security     BearerAuth
// @Param        roomID path int true "Room ID"
// @Success      200 {object} room.Room
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /rooms/{roomID} [get]
func (h *Handler) GetRoom(c *gin.Context) {
	roomID, err := strconv.Atoi(c.Param("roomID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid room ID"})
		return
	}

	room, err := h.repo.GetByID(c.Request.Context(), roomID)
	if errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Room not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch room"})
		return
	}

	c.JSON(http.StatusOK, room)
}

// @Summary      Update a room
// @Description  Admin-only: update name, type, capacity or location
// @Tags         admin,rooms
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        roomID path int true "Room ID"
// @Param        request body room.UpdateRoomRequest true "Fields to update"
// @Success      200 {object} room.Room
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/rooms/{roomID} [patch]
func (h *Handler) UpdateRoom(c *gin.Context) {
	roomID, err := strconv.Atoi(c.Param("roomID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid room ID"})
		return
	}

	var req UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	room, err := h.repo.Update(c.Request.Context(), roomID, req)
	if errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Room not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to update room"})
		return
	}

	c.JSON(http.StatusOK, room)
}

// @Summary      Delete a room
// @Description  Admin-only: remove a room. Fails if classes still reference it.
// @Tags         admin,rooms
// @Produce      json
// @Security     BearerAuth
// @Param        roomID path int true "Room ID"
// @Success      200 {object} api.MessageResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/rooms/{roomID} [delete]
func (h *Handler) DeleteRoom(c *gin.Context) {
	roomID, err := strconv.Atoi(c.Param("roomID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid room ID"})
		return
	}

	err = h.repo.Delete(c.Request.Context(), roomID)
	if errors.Is(err, ErrRoomNotFound) {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Room not found"})
		return
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Room still has scheduled classes"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to delete room"})
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Room deleted"})
}

// @Summary      Room schedule
// @Description  Upcoming classes booked into the room
// @Tags         rooms
// @Produce      json
// @Security     BearerAuth
// @Param        roomID path int true "Room ID"
// @Success      200 {array} room.ScheduleEntry
// @Failure      400 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /rooms/{roomID}/schedule [get]
func (h *Handler) GetRoomSchedule(c *gin.Context) {
	roomID, err := strconv.Atoi(c.Param("roomID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid room ID"})
		return
	}

	entries, err := h.repo.GetSchedule(c.Request.Context(), roomID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch room schedule"})
		return
	}

	c.JSON(http.StatusOK, entries)
}
