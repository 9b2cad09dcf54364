package status

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker_Lifecycle(t *testing.T) {
	tr := NewTracker()

	seq := tr.Begin("getServicesAsync")
	s, ok := tr.Get("getServicesAsync")
	require.True(t, ok)
	assert.Equal(t, Pending, s.Phase)
	assert.True(t, s.Loading())
	assert.Empty(t, s.Message)

	assert.True(t, tr.Succeed("getServicesAsync", seq, ""))
	s, _ = tr.Get("getServicesAsync")
	assert.Equal(t, Status{Phase: Fulfilled}, s)

	seq = tr.Begin("createServiceAsync")
	assert.True(t, tr.Fail("createServiceAsync", seq, "Error al crear servicio"))
	s, _ = tr.Get("createServiceAsync")
	assert.Equal(t, Status{Phase: Rejected, Message: "Error al crear servicio"}, s)
}

func TestTracker_StaleCompletionDiscarded(t *testing.T) {
	tr := NewTracker()

	first := tr.Begin("getNewsAsync")
	second := tr.Begin("getNewsAsync")
	require.Greater(t, second, first)

	// second completes first, then the slow first response arrives
	assert.True(t, tr.Succeed("getNewsAsync", second, "nuevo"))
	assert.False(t, tr.Fail("getNewsAsync", first, "viejo"))

	s, _ := tr.Get("getNewsAsync")
	assert.Equal(t, Status{Phase: Fulfilled, Message: "nuevo"}, s)
	assert.True(t, tr.IsLatest("getNewsAsync", second))
	assert.False(t, tr.IsLatest("getNewsAsync", first))
}

func TestTracker_NewerBeginWinsOverPendingCompletion(t *testing.T) {
	tr := NewTracker()
	old := tr.Begin("op")
	tr.Begin("op")
	assert.False(t, tr.Succeed("op", old, ""))
	s, _ := tr.Get("op")
	assert.Equal(t, Pending, s.Phase)
}

func TestTracker_Clear(t *testing.T) {
	tr := NewTracker()
	a := tr.Begin("a")
	tr.Begin("b")
	tr.Begin("c")

	tr.Clear("b")
	_, ok := tr.Get("b")
	assert.False(t, ok)
	assert.Equal(t, []Op{"a", "c"}, tr.Names())

	tr.Clear("missing")
	assert.Len(t, tr.Snapshot(), 2)

	tr.Clear()
	assert.Empty(t, tr.Snapshot())

	// a cleared op still honours its sequence
	assert.True(t, tr.Succeed("a", a, "ok"))
	s, ok := tr.Get("a")
	require.True(t, ok)
	assert.Equal(t, Fulfilled, s.Phase)
}

func TestTracker_SnapshotIsCopy(t *testing.T) {
	tr := NewTracker()
	tr.Begin("x")
	snap := tr.Snapshot()
	snap["x"] = Status{Phase: Rejected}
	s, _ := tr.Get("x")
	assert.Equal(t, Pending, s.Phase)
}

func TestTracker_ConcurrentBegin(t *testing.T) {
	tr := NewTracker()
	var wg sync.WaitGroup
	seqs := make([]uint64, 50)
	for i := range seqs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			seqs[i] = tr.Begin("op")
		}(i)
	}
	wg.Wait()

	seen := make(map[uint64]bool)
	for _, s := range seqs {
		assert.False(t, seen[s], "duplicate sequence %d", s)
		seen[s] = true
	}
	assert.True(t, tr.IsLatest("op", 50))
}

func TestStatus_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(Status{Phase: Pending})
	require.NoError(t, err)
	assert.JSONEq(t, `{"response":"pending","message":"","loading":true}`, string(b))

	b, err = json.Marshal(Status{Phase: Rejected, Message: "Error al obtener servicios"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"response":"rejected","message":"Error al obtener servicios","loading":false}`, string(b))
}
