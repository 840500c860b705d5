package chat

import (
	"sync"

	"realtime-chat-be/internal/dto"
)

// nopLogger keeps test output quiet.
type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

// fakeConn records delivered events.
type fakeConn struct {
	identity string

	mu       sync.Mutex
	events   []dto.ServerEvent
	closed   bool
	rejected bool // when true, Deliver reports failure
}

func newFakeConn(identity string) *fakeConn {
	return &fakeConn{identity: identity}
}

func (c *fakeConn) Identity() string { return c.identity }

func (c *fakeConn) Deliver(event dto.ServerEvent) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rejected || c.closed {
		return false
	}
	c.events = append(c.events, event)
	return true
}

func (c *fakeConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *fakeConn) Events() []dto.ServerEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]dto.ServerEvent, len(c.events))
	copy(out, c.events)
	return out
}

func (c *fakeConn) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
