package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistryRegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	alice := newFakeConn("alice")

	prior, replaced := r.Register("alice", alice)
	assert.Nil(t, prior)
	assert.False(t, replaced)
	assert.Equal(t, 1, r.Len())

	got, ok := r.Lookup("alice")
	assert.True(t, ok)
	assert.Equal(t, alice, got)

	_, ok = r.Lookup("bob")
	assert.False(t, ok)
}

func TestRegistryReplaceOnReconnect(t *testing.T) {
	r := NewRegistry()
	first := newFakeConn("alice")
	second := newFakeConn("alice")

	r.Register("alice", first)
	prior, replaced := r.Register("alice", second)

	assert.True(t, replaced)
	assert.Equal(t, Conn(first), prior)
	assert.Equal(t, 1, r.Len())

	got, _ := r.Lookup("alice")
	assert.Equal(t, Conn(second), got)
}

func TestRegistryUnregisterGuardsStaleHandle(t *testing.T) {
	r := NewRegistry()
	first := newFakeConn("alice")
	second := newFakeConn("alice")

	r.Register("alice", first)
	r.Register("alice", second)

	// The old connection's teardown fires after the reconnect; it must not
	// evict the new mapping.
	removed := r.Unregister("alice", first)
	assert.False(t, removed)
	assert.Equal(t, 1, r.Len())

	removed = r.Unregister("alice", second)
	assert.True(t, removed)
	assert.Equal(t, 0, r.Len())
}

func TestRegistryIdentitiesSnapshot(t *testing.T) {
	r := NewRegistry()
	r.Register("alice", newFakeConn("alice"))
	r.Register("bob", newFakeConn("bob"))

	identities := r.Identities()
	assert.Len(t, identities, 2)
	assert.ElementsMatch(t, []string{"alice", "bob"}, identities)
	assert.Len(t, r.Conns(), 2)
}
