package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Yekna/dj-jukebox/internal/auth"
	"github.com/Yekna/dj-jukebox/internal/errs"
	"github.com/Yekna/dj-jukebox/internal/model"
	"github.com/Yekna/dj-jukebox/internal/service"
)

// RoomHandler handles the REST side of the room session API.
type RoomHandler struct {
	svc      *service.RoomService
	verifier *auth.Verifier
}

// NewRoomHandler creates the room REST handler.
func NewRoomHandler(svc *service.RoomService, verifier *auth.Verifier) *RoomHandler {
	return &RoomHandler{svc: svc, verifier: verifier}
}

// identity extracts and verifies the bearer token; replies 401 and returns
// nil when it cannot.
func (h *RoomHandler) identity(c *gin.Context) *auth.Identity {
	header := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "bearer token required"})
		return nil
	}
	id, err := h.verifier.Verify(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		return nil
	}
	return id
}

// CreateRoom godoc
// POST /rooms
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	id := h.identity(c)
	if id == nil {
		return
	}
	room, err := h.svc.CreateRoom(c.Request.Context(), id.ID, id.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create room"})
		return
	}
	c.JSON(http.StatusCreated, room)
}

// GetRoom godoc
// GET /rooms/:pin
func (h *RoomHandler) GetRoom(c *gin.Context) {
	room, err := h.svc.GetRoom(c.Request.Context(), c.Param("pin"))
	if err != nil {
		if errors.Is(err, errs.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get room"})
		return
	}
	c.JSON(http.StatusOK, room)
}

// CloseRoom godoc
// DELETE /rooms/:pin
func (h *RoomHandler) CloseRoom(c *gin.Context) {
	id := h.identity(c)
	if id == nil {
		return
	}
	pin := c.Param("pin")
	err := h.svc.CloseRoom(c.Request.Context(), pin, id.ID)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, model.CloseRoomResponse{Pin: pin, Closed: true})
	case errors.Is(err, errs.ErrRoomNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
	case errors.Is(err, errs.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "not the room owner"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to close room"})
	}
}

// ListSongs godoc
// GET /rooms/:pin/songs
func (h *RoomHandler) ListSongs(c *gin.Context) {
	songs, err := h.svc.ListSongs(c.Request.Context(), c.Param("pin"))
	if err != nil {
		if errors.Is(err, errs.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list songs"})
		return
	}
	if songs == nil {
		songs = []model.SongRequest{}
	}
	c.JSON(http.StatusOK, songs)
}

// RequestSong godoc
// POST /rooms/:pin/songs
func (h *RoomHandler) RequestSong(c *gin.Context) {
	var req model.SubmitSongRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "message": err.Error()})
		return
	}
	song, err := h.svc.RequestSong(c.Request.Context(), c.Param("pin"), req)
	if err != nil {
		if errors.Is(err, errs.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to submit song"})
		return
	}
	c.JSON(http.StatusCreated, song)
}

// Vote godoc
// POST /songs/:id/vote
func (h *RoomHandler) Vote(c *gin.Context) {
	var req model.VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "message": err.Error()})
		return
	}
	song, err := h.svc.Vote(c.Request.Context(), c.Param("id"), req.VoterID)
	if err != nil {
		if errors.Is(err, errs.ErrSongNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "song not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to vote"})
		return
	}
	c.JSON(http.StatusOK, song)
}

// SetStatus godoc
// PATCH /songs/:id/status
func (h *RoomHandler) SetStatus(c *gin.Context) {
	id := h.identity(c)
	if id == nil {
		return
	}
	var req model.SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "message": err.Error()})
		return
	}
	song, err := h.svc.SetStatus(c.Request.Context(), c.Param("id"), req.Status, id.ID)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, song)
	case errors.Is(err, errs.ErrSongNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "song not found"})
	case errors.Is(err, errs.ErrRoomNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
	case errors.Is(err, errs.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "not the room owner"})
	case errors.Is(err, errs.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to set status"})
	}
}
