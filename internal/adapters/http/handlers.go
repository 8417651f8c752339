// Package http is the REST surface: catalog search, the room
// directory, the activity log and offline downloads. These are peers
// of the relay, not dependencies of it.
package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"syncy/internal/cache"
	"syncy/internal/catalog"
	"syncy/internal/domain"
	"syncy/internal/store"
)

type Handlers struct {
	Store   *store.Store
	Catalog *catalog.Client
	Cache   *cache.Cache

	AdminSecret string
}

func NewHandlers(st *store.Store, cat *catalog.Client, ca *cache.Cache, adminSecret string) *Handlers {
	return &Handlers{Store: st, Catalog: cat, Cache: ca, AdminSecret: adminSecret}
}

func (h *Handlers) Search(c *gin.Context) {
	tracks := h.Catalog.Search(c.Request.Context(), c.Query("q"))
	if tracks == nil {
		tracks = []domain.Track{}
	}
	c.JSON(http.StatusOK, gin.H{"results": tracks})
}

func (h *Handlers) ListRooms(c *gin.Context) {
	rooms, err := h.Store.ListRooms(c.Request.Context(), 24)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("list rooms")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rooms": rooms})
}

type createRoomRequest struct {
	Name     string `json:"name" binding:"required"`
	HostID   string `json:"hostId" binding:"required"`
	Passcode string `json:"passcode"`
}

func (h *Handlers) CreateRoom(c *gin.Context) {
	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing name or hostId"})
		return
	}
	room, err := h.Store.CreateRoom(c.Request.Context(), req.Name, req.HostID, req.Passcode)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("create room")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage"})
		return
	}
	c.JSON(http.StatusCreated, room)
}

func (h *Handlers) GetRoom(c *gin.Context) {
	room, err := h.Store.GetRoom(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage"})
		return
	}
	members, err := h.Store.ListMembers(c.Request.Context(), room.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"room": room, "members": members})
}

type updateRoomRequest struct {
	Name   *string         `json:"name"`
	Status *string         `json:"status"`
	Queue  json.RawMessage `json:"queue"`
}

func (h *Handlers) UpdateRoom(c *gin.Context) {
	var req updateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad payload"})
		return
	}
	err := h.Store.UpdateRoom(c.Request.Context(), c.Param("id"), store.RoomUpdate{
		Name:   req.Name,
		Status: req.Status,
		Queue:  req.Queue,
	})
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage"})
		return
	}
	c.Status(http.StatusNoContent)
}

type joinRoomRequest struct {
	UserID   string `json:"userId" binding:"required"`
	Username string `json:"username"`
}

// JoinRoom and LeaveRoom are best effort, matching the lobby's
// fire-and-forget bookkeeping: failures are logged, the client still
// proceeds to the relay.
func (h *Handlers) JoinRoom(c *gin.Context) {
	var req joinRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing userId"})
		return
	}
	if err := h.Store.JoinRoom(c.Request.Context(), c.Param("id"), req.UserID, req.Username); err != nil {
		log.Warn().Err(err).Str("module", "adapters.http").Msg("join room bookkeeping")
	}
	c.Status(http.StatusNoContent)
}

func (h *Handlers) LeaveRoom(c *gin.Context) {
	if err := h.Store.LeaveRoom(c.Request.Context(), c.Param("id"), c.Param("user")); err != nil {
		log.Warn().Err(err).Str("module", "adapters.http").Msg("leave room bookkeeping")
	}
	c.Status(http.StatusNoContent)
}

type activityRequest struct {
	UserID string         `json:"userId" binding:"required"`
	Email  string         `json:"email"`
	Action string         `json:"action" binding:"required"`
	Detail map[string]any `json:"detail"`
}

func (h *Handlers) LogActivity(c *gin.Context) {
	var req activityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing userId or action"})
		return
	}
	h.Store.LogActivity(c.Request.Context(), req.UserID, req.Email, req.Action, req.Detail)
	c.Status(http.StatusNoContent)
}

type downloadRequest struct {
	URL string `json:"url" binding:"required"`
}

func (h *Handlers) AddDownload(c *gin.Context) {
	var req downloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing url"})
		return
	}
	if err := h.Cache.Fetch(c.Request.Context(), req.URL); err != nil {
		log.Warn().Err(err).Str("module", "adapters.http").Msg("download")
		c.JSON(http.StatusBadGateway, gin.H{"error": "fetch failed"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handlers) RemoveDownload(c *gin.Context) {
	url := c.Query("url")
	if url == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing url"})
		return
	}
	if err := h.Cache.Delete(url); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage"})
		return
	}
	c.Status(http.StatusNoContent)
}
