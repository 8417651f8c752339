package http

import (
	"context"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"syncy/internal/adapters/ws"
	"syncy/internal/config"
	"syncy/internal/metrics"
)

// ClientTokenMiddleware tags every browser with a stable random token
// so activity entries can be correlated without accounts.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("ct")
		if token == "" {
			token = uuid.NewString()
			c.SetCookie("ct", token, 3600*24*7, "/", "", false, true)
		}
		c.Set("client_token", token)
		c.Next()
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, wsc *ws.Controller, h *Handlers) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.AdminSecret))
	r.Use(sessions.Sessions("SyncySession", store))
	r.Use(ClientTokenMiddleware())

	r.Static("/static", cfg.StaticPath)
	r.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")

	r.GET("/ws/room", func(c *gin.Context) {
		wsc.HandleRoom(ctx, c)
	})

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")
	api.GET("/search", h.Search)

	api.GET("/rooms", h.ListRooms)
	api.POST("/rooms", h.CreateRoom)
	api.GET("/rooms/:id", h.GetRoom)
	api.PATCH("/rooms/:id", h.UpdateRoom)
	api.POST("/rooms/:id/members", h.JoinRoom)
	api.DELETE("/rooms/:id/members/:user", h.LeaveRoom)

	api.POST("/activity", h.LogActivity)

	api.POST("/downloads", h.AddDownload)
	api.DELETE("/downloads", h.RemoveDownload)

	admin := api.Group("/admin")
	admin.POST("/login", h.AdminLogin)
	admin.GET("/activity", RequireAdmin(), h.AdminActivity)
	admin.GET("/rooms", RequireAdmin(), h.AdminRooms)

	return r
}
