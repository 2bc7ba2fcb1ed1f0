package handlers

import (
	room_constants "Dilemma/constants/room"
	"Dilemma/services/flows"
	socketio_types "Dilemma/services/socket_io/types"
	roomsync "Dilemma/sync"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/zishang520/socket.io/v2/socket"
)

// SnapshotPayload is what dashboards receive on every room change.
func SnapshotPayload(snapshot *flows.Snapshot) gin.H {
	return gin.H{
		"room_id":      snapshot.RoomID,
		"participants": snapshot.Participants,
		"stats":        snapshot.Stats,
	}
}

// HandleStream attaches the client to the room's snapshot stream. The
// client gets the current snapshot immediately and a new one after every
// change.
func HandleStream(sm *roomsync.SyncManager, client *socket.Socket, roomID string, sio *socketio_types.SocketServer) error {
	detach, err := sm.Attach(roomID, func(snapshot *flows.Snapshot) {
		client.Emit(room_constants.SNAPSHOT_EVENT, SnapshotPayload(snapshot))
	})
	if err != nil {
		logrus.WithError(err).WithField("room_id", roomID).Error("[CONNECT] Could not attach stream")
		client.Emit("error", gin.H{"error": "could not load the room, try again"})
		return err
	}
	sio.AddStream(client.Id(), detach)
	return nil
}

// HandleDisconnecting detaches the client's stream.
func HandleDisconnecting(client *socket.Socket, roomID string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		sio.RemoveStream(client.Id())
		logrus.WithFields(logrus.Fields{"room_id": roomID, "socket_id": client.Id()}).Info("[DISCONNECT] Dashboard stream closed")
	}
}
