package http

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const sessionAdminKey = "admin"

// RequireAdmin gates the admin endpoints behind the session cookie
// set by AdminLogin.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)
		if v, ok := sess.Get(sessionAdminKey).(bool); !ok || !v {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "admin only"})
			return
		}
		c.Next()
	}
}

type adminLoginRequest struct {
	Secret string `json:"secret" binding:"required"`
}

func (h *Handlers) AdminLogin(c *gin.Context) {
	var req adminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Secret != h.AdminSecret {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "bad secret"})
		return
	}
	sess := sessions.Default(c)
	sess.Set(sessionAdminKey, true)
	if err := sess.Save(); err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("session save")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handlers) AdminActivity(c *gin.Context) {
	entries, err := h.Store.RecentActivity(c.Request.Context(), 200)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"activity": entries})
}

// AdminRooms lists the full directory, unbounded unlike the public
// listing.
func (h *Handlers) AdminRooms(c *gin.Context) {
	rooms, err := h.Store.ListRooms(c.Request.Context(), -1)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rooms": rooms})
}
