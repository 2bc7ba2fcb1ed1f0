package socketio_types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zishang520/socket.io/v2/socket"
)

func TestStreamsDetachOnce(t *testing.T) {
	var s SocketServer
	detached := 0
	s.AddStream(socket.SocketId("abc"), func() { detached++ })
	assert.Equal(t, 1, s.Streams())

	s.RemoveStream(socket.SocketId("abc"))
	s.RemoveStream(socket.SocketId("abc"))
	assert.Equal(t, 1, detached)
	assert.Equal(t, 0, s.Streams())
}
