package socket_io

import (
	"Dilemma/services/socket_io/handlers"
	socketio_types "Dilemma/services/socket_io/types"
	socketio_utils "Dilemma/services/socket_io/utils"
	roomsync "Dilemma/sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io/v2/socket"
)

type MySocketServer socketio_types.SocketServer

// Start mounts the socket.io endpoint on the router. A client connects with
// the stream token of a dashboard and receives snapshots of that room.
func (sio *MySocketServer) Start(router *gin.Engine, sm *roomsync.SyncManager, key []byte) {
	c := socket.DefaultServerOptions()
	c.SetServeClient(true)
	// NOTE: higher ping interval and timeout to 1) reduce network load and 2) support slower networks
	c.SetPingInterval(5 * time.Second)
	c.SetPingTimeout(3 * time.Second)
	c.SetMaxHttpBufferSize(1000000)
	c.SetConnectTimeout(10 * time.Second)
	c.SetTransports(types.NewSet("polling", "websocket"))
	c.SetCors(&types.Cors{
		Origin:      "*",
		Credentials: true,
	})

	server := (*socketio_types.SocketServer)(sio)
	sio.Sio_server = socket.NewServer(nil, nil)
	sio.Sio_server.On("connection", func(clients ...interface{}) {
		client := clients[0].(*socket.Socket)

		claims, ok := socketio_utils.VerifyStreamConnection(client, key)
		if !ok {
			client.Disconnect(true)
			return
		}

		log := logrus.WithFields(logrus.Fields{"room_id": claims.RoomID, "room_code": claims.RoomCode, "socket_id": client.Id()})
		client.On("disconnecting", handlers.HandleDisconnecting(client, claims.RoomID, server))

		if err := handlers.HandleStream(sm, client, claims.RoomID, server); err != nil {
			client.Disconnect(true)
			return
		}
		log.Info("[CONNECT] Dashboard stream opened")
	})

	router.POST("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))
	router.GET("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))

	logrus.Info("Socket server started")
}

// Close disconnects every client.
func (sio *MySocketServer) Close() {
	if sio.Sio_server != nil {
		sio.Sio_server.Close(nil)
	}
}
