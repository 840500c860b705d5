package chat

import "realtime-chat-be/internal/dto"

// Conn is a live, identity-bound connection handle. The registry holds a
// non-owning reference; the hub owns the lifecycle.
type Conn interface {
	Identity() string

	// Deliver queues an event for the connection without blocking. It
	// reports false when the event was dropped (buffer full or connection
	// closed); a slow consumer never stalls the caller.
	Deliver(event dto.ServerEvent) bool

	// Close is idempotent and halts further delivery attempts.
	Close()
}
