package chat

import "sync"

// Registry is the single source of truth for who is online. One entry per
// identity: a new connection for an already-present identity replaces the
// old mapping. Entries are ephemeral and lost on restart.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]Conn
}

func NewRegistry() *Registry {
	return &Registry{
		conns: make(map[string]Conn),
	}
}

// Register inserts or replaces the mapping for the identity. When a prior
// connection existed it is returned so the caller can decide its fate.
func (r *Registry) Register(identity string, c Conn) (Conn, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	prior, replaced := r.conns[identity]
	r.conns[identity] = c
	return prior, replaced
}

// Unregister removes the mapping only if the stored handle is the supplied
// one. This guards against a stale disconnect evicting a newer reconnection:
// the old connection's teardown can fire after the same identity has already
// re-registered.
func (r *Registry) Unregister(identity string, c Conn) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if current, ok := r.conns[identity]; ok && current == c {
		delete(r.conns, identity)
		return true
	}
	return false
}

func (r *Registry) Lookup(identity string) (Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.conns[identity]
	return c, ok
}

// Identities returns a snapshot of all online identities.
func (r *Registry) Identities() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	identities := make([]string, 0, len(r.conns))
	for identity := range r.conns {
		identities = append(identities, identity)
	}
	return identities
}

// Conns returns a snapshot of all registered connections.
func (r *Registry) Conns() []Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conns := make([]Conn, 0, len(r.conns))
	for _, c := range r.conns {
		conns = append(conns, c)
	}
	return conns
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
