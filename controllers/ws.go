package controllers

import (
	"Dilemma/middleware"
	"Dilemma/services/flows"
	socketio_handlers "Dilemma/services/socket_io/handlers"
	roomsync "Dilemma/sync"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// the stream token, not the origin, authorizes the stream
	CheckOrigin: func(r *http.Request) bool { return true },
}

// @Summary Live dashboard stream
// @Description Websocket that pushes a full room snapshot after every participant change
// @Tags dashboard
// @Param token query string true "stream_token from GET /api/dashboard"
// @Success 101
// @Failure 401 {object} object{error=string}
// @Router /ws/dashboard [get]
func DashboardStream(sm *roomsync.SyncManager, key []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := middleware.ParseStreamToken(key, c.Query("token"))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid stream token"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logrus.WithError(err).Warn("[WS] Upgrade failed")
			return
		}
		log := logrus.WithFields(logrus.Fields{"room_id": claims.RoomID, "room_code": claims.RoomCode})

		// holds at most the newest undelivered snapshot
		pending := make(chan *flows.Snapshot, 1)
		detach, err := sm.Attach(claims.RoomID, func(snapshot *flows.Snapshot) {
			for {
				select {
				case pending <- snapshot:
					return
				default:
				}
				select {
				case <-pending:
				default:
				}
			}
		})
		if err != nil {
			log.WithError(err).Error("[WS] Could not attach stream")
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "could not load the room"),
				time.Now().Add(writeWait))
			conn.Close()
			return
		}

		log.Info("[WS] Dashboard stream opened")
		done := make(chan struct{})
		go writePump(conn, pending, done, log)
		readPump(conn, log)
		close(done)
		detach()
		log.Info("[WS] Dashboard stream closed")
	}
}

// readPump only drains control frames; it returns when the peer goes away.
func readPump(conn *websocket.Conn, log *logrus.Entry) {
	defer conn.Close()
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.WithError(err).Debug("[WS] Unexpected close")
			}
			return
		}
	}
}

func writePump(conn *websocket.Conn, pending <-chan *flows.Snapshot, done <-chan struct{}, log *logrus.Entry) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case snapshot := <-pending:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(socketio_handlers.SnapshotPayload(snapshot)); err != nil {
				log.WithError(err).Debug("[WS] Write failed")
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
