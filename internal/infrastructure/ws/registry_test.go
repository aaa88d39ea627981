package ws

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry_EnsureCreatesOnce(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()

	room := reg.Ensure("ab12cd34")
	require.NotNil(t, room)
	require.Same(t, room, reg.Ensure("ab12cd34"))

	got, ok := reg.Get("ab12cd34")
	require.True(t, ok)
	require.Same(t, room, got)
}

func TestRegistry_ConcurrentEnsureSingleRoom(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()

	const workers = 32
	results := make([]*Room, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = reg.Ensure("ab12cd34")
		}(i)
	}
	wg.Wait()

	for _, room := range results {
		require.Same(t, results[0], room)
	}
	require.Len(t, reg.Codes(), 1)
}

func TestRegistry_GetDoesNotCreate(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()

	_, ok := reg.Get("missing")
	require.False(t, ok)
	require.Empty(t, reg.Codes())
}

func TestRegistry_RemoveIsIdempotent(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Ensure("ab12cd34")

	reg.Remove("ab12cd34")
	reg.Remove("ab12cd34") // no-op

	_, ok := reg.Get("ab12cd34")
	require.False(t, ok)
}

func TestRegistry_EnsureReplacesClosedRoom(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()

	old := reg.Ensure("ab12cd34")
	old.mu.Lock()
	old.history = append(old.history, "stale")
	old.closed = true
	old.mu.Unlock()

	fresh := reg.Ensure("ab12cd34")
	require.NotSame(t, old, fresh)
	require.Empty(t, fresh.history)
}

func TestRegistry_RemoveIfIgnoresStalePointer(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()

	old := reg.Ensure("ab12cd34")
	old.mu.Lock()
	old.closed = true
	old.mu.Unlock()

	fresh := reg.Ensure("ab12cd34")

	// A leaver still holding the old room must not delete its successor.
	require.False(t, reg.removeIf("ab12cd34", old))
	got, ok := reg.Get("ab12cd34")
	require.True(t, ok)
	require.Same(t, fresh, got)

	require.True(t, reg.removeIf("ab12cd34", fresh))
	_, ok = reg.Get("ab12cd34")
	require.False(t, ok)
}

func TestRegistry_CodesSnapshot(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Ensure("room-one")
	reg.Ensure("room-two")

	codes := reg.Codes()
	require.ElementsMatch(t, []string{"room-one", "room-two"}, codes)

	// snapshot is detached from later mutation
	reg.Remove("room-one")
	require.Len(t, codes, 2)
}
