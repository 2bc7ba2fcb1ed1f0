// Package session is the per-browser identity store. It remembers which
// room the browser joined or runs, and nothing else; the store is the
// source of truth for choices and room state.
package session

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	KeySessionID       = "sessionId"
	KeyParticipantID   = "participantId"
	KeyParticipantName = "participantName"
	KeyRoomCode        = "roomCode"
	KeyRoomID          = "roomId"
	KeyAdminRoomID     = "adminRoomId"
	KeyAdminRoomCode   = "adminRoomCode"
	KeyIsRoomCreator   = "isRoomCreator"
)

// Context is the key/value store behind one browser. Absent keys read as "".
type Context interface {
	Get(key string) string
	Set(key, value string)
	Delete(keys ...string)
	Save() error
}

// CookieContext keeps the keys in the signed session cookie.
type CookieContext struct {
	s sessions.Session
}

func NewCookieContext(s sessions.Session) *CookieContext {
	return &CookieContext{s: s}
}

// FromGin returns the cookie session of the request. The sessions
// middleware must be installed on the engine.
func FromGin(c *gin.Context) *CookieContext {
	return NewCookieContext(sessions.Default(c))
}

func (c *CookieContext) Get(key string) string {
	value, _ := c.s.Get(key).(string)
	return value
}

func (c *CookieContext) Set(key, value string) {
	c.s.Set(key, value)
}

func (c *CookieContext) Delete(keys ...string) {
	for _, key := range keys {
		c.s.Delete(key)
	}
}

func (c *CookieContext) Save() error {
	return c.s.Save()
}

// MemoryContext is a Context held in a map, for tests and tools.
type MemoryContext struct {
	values map[string]string
	saves  int
}

func NewMemoryContext() *MemoryContext {
	return &MemoryContext{values: make(map[string]string)}
}

func (m *MemoryContext) Get(key string) string {
	return m.values[key]
}

func (m *MemoryContext) Set(key, value string) {
	m.values[key] = value
}

func (m *MemoryContext) Delete(keys ...string) {
	for _, key := range keys {
		delete(m.values, key)
	}
}

func (m *MemoryContext) Save() error {
	m.saves++
	return nil
}

// Saves counts calls to Save.
func (m *MemoryContext) Saves() int {
	return m.saves
}

// Keys returns a copy of every stored key.
func (m *MemoryContext) Keys() map[string]string {
	copied := make(map[string]string, len(m.values))
	for k, v := range m.values {
		copied[k] = v
	}
	return copied
}
