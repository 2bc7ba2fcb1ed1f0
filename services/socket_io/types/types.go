package socketio_types

import (
	"sync"

	"github.com/zishang520/socket.io/v2/socket"
)

// SocketServer is the socket.io server plus the dashboard stream of every
// connected client, keyed by socket id.
type SocketServer struct {
	Sio_server *socket.Server
	// socket id -> detach from the room's snapshot stream
	streams map[socket.SocketId]func()
	mutex   sync.Mutex
}

func NewSocketServer() *SocketServer {
	return &SocketServer{
		streams: make(map[socket.SocketId]func()),
	}
}

func (s *SocketServer) AddStream(id socket.SocketId, detach func()) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	// KEY: a zero SocketServer has no map yet
	if s.streams == nil {
		s.streams = make(map[socket.SocketId]func())
	}
	s.streams[id] = detach
}

// RemoveStream detaches and forgets the client's stream, if any.
func (s *SocketServer) RemoveStream(id socket.SocketId) {
	s.mutex.Lock()
	detach, exists := s.streams[id]
	delete(s.streams, id)
	s.mutex.Unlock()

	if exists {
		detach()
	}
}

func (s *SocketServer) Streams() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return len(s.streams)
}
