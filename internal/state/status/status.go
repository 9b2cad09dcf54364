// Package status tracks the lifecycle of named asynchronous operations.
//
// Each operation name owns exactly one entry. Begin issues a sequence number that
// the completion must present; completions holding an older number are stale and
// are dropped, so a slow response can never overwrite the result of a newer call.
package status

import (
	"encoding/json"
	"sort"
	"sync"
)

// Phase is the lifecycle tag of an operation.
type Phase string

const (
	Pending   Phase = "pending"
	Fulfilled Phase = "fulfilled"
	Rejected  Phase = "rejected"
)

// Op names an operation, e.g. "getServicesAsync".
type Op string

// Status is the entry kept for one operation.
type Status struct {
	Phase   Phase  `json:"response"`
	Message string `json:"message"`
}

// Loading reports whether the operation is still in flight.
func (s Status) Loading() bool { return s.Phase == Pending }

// MarshalJSON adds the derived loading flag the pages read.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Response Phase  `json:"response"`
		Message  string `json:"message"`
		Loading  bool   `json:"loading"`
	}{s.Phase, s.Message, s.Loading()})
}

// Tracker is safe for concurrent use.
type Tracker struct {
	mu      sync.RWMutex
	entries map[Op]Status
	seq     map[Op]uint64
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		entries: make(map[Op]Status),
		seq:     make(map[Op]uint64),
	}
}

// Begin marks op as pending and returns the sequence number of this invocation.
func (t *Tracker) Begin(op Op) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seq[op]++
	t.entries[op] = Status{Phase: Pending}
	return t.seq[op]
}

// Succeed marks op fulfilled. It returns false and changes nothing when seq is stale.
func (t *Tracker) Succeed(op Op, seq uint64, message string) bool {
	return t.complete(op, seq, Status{Phase: Fulfilled, Message: message})
}

// Fail marks op rejected. It returns false and changes nothing when seq is stale.
func (t *Tracker) Fail(op Op, seq uint64, message string) bool {
	return t.complete(op, seq, Status{Phase: Rejected, Message: message})
}

func (t *Tracker) complete(op Op, seq uint64, s Status) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.seq[op] != seq {
		return false
	}
	t.entries[op] = s
	return true
}

// IsLatest reports whether seq is the most recent invocation of op.
func (t *Tracker) IsLatest(op Op, seq uint64) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.seq[op] == seq
}

// Clear removes the named entries, or every entry when no name is given.
// Sequence counters survive so completions of cleared operations stay ordered.
func (t *Tracker) Clear(ops ...Op) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(ops) == 0 {
		t.entries = make(map[Op]Status)
		return
	}
	for _, op := range ops {
		delete(t.entries, op)
	}
}

// Get returns the entry for op.
func (t *Tracker) Get(op Op) (Status, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.entries[op]
	return s, ok
}

// Snapshot returns a copy of every entry.
func (t *Tracker) Snapshot() map[Op]Status {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[Op]Status, len(t.entries))
	for k, v := range t.entries {
		out[k] = v
	}
	return out
}

// Names returns the tracked operation names in sorted order.
func (t *Tracker) Names() []Op {
	t.mu.RLock()
	defer t.mu.RUnlock()
	names := make([]Op, 0, len(t.entries))
	for k := range t.entries {
		names = append(names, k)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}
