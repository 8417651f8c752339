// Package ws adapts websocket connections to the gate and relay.
package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"syncy/internal/app"
	"syncy/internal/core"
	"syncy/internal/metrics"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Controller struct {
	Gate  *app.Gate
	Relay *app.Relay

	ReadLimit  int64
	PingPeriod time.Duration
	SendBuffer int
}

func NewController(gate *app.Gate, relay *app.Relay, readLimit int64, pingPeriod time.Duration, sendBuffer int) *Controller {
	return &Controller{
		Gate:       gate,
		Relay:      relay,
		ReadLimit:  readLimit,
		PingPeriod: pingPeriod,
		SendBuffer: sendBuffer,
	}
}

// HandleRoom serves GET /ws/room?room=&user=&name=&host=. Missing room
// or user refuses the connection with a policy-violation close; no
// payload is ever exchanged with a rejected connection.
func (ctl *Controller) HandleRoom(ctx context.Context, c *gin.Context) {
	roomID := c.Query("room")
	userID := c.Query("user")
	username := c.Query("name")
	isHost := c.Query("host") == "1"

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "ws").Msg("upgrade")
		return
	}

	conn := newConn(ws, ctl.SendBuffer)
	member, err := ctl.Gate.Admit(conn, roomID, userID, username, isHost)
	if err != nil {
		metrics.AdmissionsRejected.Inc()
		msg := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "missing params")
		_ = ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		conn.Close()
		return
	}

	metrics.Connections.Inc()
	log.Info().Str("module", "ws").Str("room", roomID).Str("user", userID).Msg("connection admitted")

	ctx, cancel := context.WithCancel(ctx)
	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, cancel, member, conn)
}

func (ctl *Controller) writePump(ctx context.Context, c *Conn) {
	c.writePump(ctx, ctl.PingPeriod)
}

func (ctl *Controller) readPump(ctx context.Context, cancel context.CancelFunc, m *core.Member, c *Conn) {
	defer func() {
		cancel()
		ctl.Gate.Remove(m)
		metrics.Connections.Dec()
		log.Info().Str("module", "ws").Str("room", string(m.RoomID)).Str("user", m.Info.UserID).Msg("connection closed")
	}()

	if ctl.ReadLimit > 0 {
		c.ws.SetReadLimit(ctl.ReadLimit)
	}
	for {
		select {
		case <-ctx.Done():
			return
		default:
			_, data, err := c.ws.ReadMessage()
			if err != nil {
				return
			}
			ctl.Relay.Relay(m, data)
		}
	}
}
