// Package store holds normalized content collections.
//
// A Store keeps one table of records keyed by id, the ordered id list of the full
// collection, and one ordered id index per partition. Mutations are applied to the
// indexes incrementally; after Insert, Update or Remove every regular partition
// lists exactly the collection members its predicate accepts, in collection order.
// A singleton partition holds the record most recently inserted or updated into it.
package store

import (
	"sync"

	"municipal-portal/internal/domain/entity"
)

// Partition describes a named subset of the collection.
// A singleton partition holds at most one record, e.g. the intendente.
type Partition[T entity.Record] struct {
	Key       string
	Match     func(T) bool
	Singleton bool
}

// ByCategory returns a partition keyed and filtered by category.
func ByCategory[T entity.Record](c entity.Category) Partition[T] {
	return Partition[T]{
		Key:   string(c),
		Match: func(r T) bool { return r.PartitionKey() == string(c) },
	}
}

// SingletonByCategory is ByCategory holding only one record.
func SingletonByCategory[T entity.Record](c entity.Category) Partition[T] {
	p := ByCategory[T](c)
	p.Singleton = true
	return p
}

// Store is safe for concurrent use.
type Store[T entity.Record] struct {
	specs []Partition[T]
	index map[string]int // partition key -> position in specs

	mu      sync.RWMutex
	table   map[string]T
	order   []string
	parts   map[string][]string
	current *T
}

// New creates an empty store with the given partitions.
func New[T entity.Record](partitions ...Partition[T]) *Store[T] {
	s := &Store[T]{
		specs: partitions,
		index: make(map[string]int, len(partitions)),
	}
	for i, p := range partitions {
		s.index[p.Key] = i
	}
	s.reset()
	return s
}

func (s *Store[T]) reset() {
	s.table = make(map[string]T)
	s.order = nil
	s.parts = make(map[string][]string, len(s.specs))
	for _, p := range s.specs {
		s.parts[p.Key] = nil
	}
	s.current = nil
}

// Reset empties the store, partitions and current record included.
func (s *Store[T]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

// SetAll replaces the collection and recomputes every partition.
func (s *Store[T]) SetAll(items []T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.table = make(map[string]T, len(items))
	s.order = make([]string, 0, len(items))
	for _, it := range items {
		id := it.RecordID()
		if _, dup := s.table[id]; !dup {
			s.order = append(s.order, id)
		}
		s.table[id] = it
	}
	for _, p := range s.specs {
		var ids []string
		for _, id := range s.order {
			if p.Match(s.table[id]) {
				ids = append(ids, id)
				if p.Singleton {
					break
				}
			}
		}
		s.parts[p.Key] = ids
	}
	s.refreshCurrent()
}

// SetPartition replaces one partition with the result of a partial fetch.
// The collection order is left alone; the records are upserted into the table so
// lookups by id see them. Unknown keys are ignored.
func (s *Store[T]) SetPartition(key string, items []T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[key]
	if !ok {
		return
	}
	if s.specs[i].Singleton && len(items) > 1 {
		items = items[:1]
	}
	ids := make([]string, 0, len(items))
	for _, it := range items {
		s.table[it.RecordID()] = it
		ids = append(ids, it.RecordID())
	}
	s.parts[key] = ids
	s.refreshCurrent()
	s.gc()
}

// Insert appends item to the collection and to every partition accepting it.
// A singleton partition accepting item is taken over by it.
func (s *Store[T]) Insert(item T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := item.RecordID()
	if _, exists := s.table[id]; exists && s.inOrder(id) {
		s.update(item)
		return
	}
	s.table[id] = item
	s.order = append(s.order, id)
	for _, p := range s.specs {
		ids := s.parts[p.Key]
		// a record known only from a partial fetch may already sit in a partition
		if pos := indexOf(ids, id); pos >= 0 {
			ids = removeAt(ids, pos)
		}
		switch {
		case !p.Match(item):
		case p.Singleton:
			ids = []string{id}
		default:
			ids = s.placeOrdered(ids, id)
		}
		s.parts[p.Key] = ids
	}
}

// Update replaces the record with the same id everywhere it is referenced and
// moves it between partitions when its partition key changed. It reports whether
// the id was known. A current record with the same id is replaced too.
func (s *Store[T]) Update(item T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.update(item)
}

func (s *Store[T]) update(item T) bool {
	id := item.RecordID()
	if s.current != nil && (*s.current).RecordID() == id {
		cp := item
		s.current = &cp
	}
	if _, ok := s.table[id]; !ok {
		return false
	}
	s.table[id] = item
	for _, p := range s.specs {
		ids := s.parts[p.Key]
		pos := indexOf(ids, id)
		match := p.Match(item)
		switch {
		case pos >= 0 && !match:
			s.parts[p.Key] = removeAt(ids, pos)
		case pos < 0 && match && p.Singleton:
			s.parts[p.Key] = []string{id}
		case pos < 0 && match:
			s.parts[p.Key] = s.placeOrdered(ids, id)
		}
	}
	return true
}

// Remove deletes id from the collection and every partition. Singleton slots and
// the current record holding id are cleared. It reports whether anything changed.
func (s *Store[T]) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	if s.current != nil && (*s.current).RecordID() == id {
		s.current = nil
		changed = true
	}
	if pos := indexOf(s.order, id); pos >= 0 {
		s.order = removeAt(s.order, pos)
		changed = true
	}
	for key, ids := range s.parts {
		if pos := indexOf(ids, id); pos >= 0 {
			s.parts[key] = removeAt(ids, pos)
			changed = true
		}
	}
	delete(s.table, id)
	return changed
}

// SetCurrent selects a record; nil clears the slot.
func (s *Store[T]) SetCurrent(item *T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item == nil {
		s.current = nil
		return
	}
	cp := *item
	s.current = &cp
}

// ClearCurrent empties the selected-record slot.
func (s *Store[T]) ClearCurrent() {
	s.SetCurrent(nil)
}

// Current returns the selected record.
func (s *Store[T]) Current() (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		var zero T
		return zero, false
	}
	return *s.current, true
}

// Get returns the record with id if any index references it.
func (s *Store[T]) Get(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, ok := s.table[id]
	return it, ok
}

// All returns the collection in order.
func (s *Store[T]) All() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolve(s.order)
}

// Len returns the collection size.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Partition returns the members of key in order; nil for unknown keys.
func (s *Store[T]) Partition(key string) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolve(s.parts[key])
}

// Singleton returns the record held by a singleton partition.
func (s *Store[T]) Singleton(key string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var zero T
	ids := s.parts[key]
	if len(ids) == 0 {
		return zero, false
	}
	it, ok := s.table[ids[0]]
	return it, ok
}

// Partitions returns every non-singleton partition keyed by name.
func (s *Store[T]) Partitions() map[string][]T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string][]T, len(s.specs))
	for _, p := range s.specs {
		if !p.Singleton {
			out[p.Key] = s.resolve(s.parts[p.Key])
		}
	}
	return out
}

// Keys returns the partition keys in declaration order.
func (s *Store[T]) Keys() []string {
	keys := make([]string, len(s.specs))
	for i, p := range s.specs {
		keys[i] = p.Key
	}
	return keys
}

func (s *Store[T]) resolve(ids []string) []T {
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		if it, ok := s.table[id]; ok {
			out = append(out, it)
		}
	}
	return out
}

func (s *Store[T]) inOrder(id string) bool {
	return indexOf(s.order, id) >= 0
}

// placeOrdered inserts id into ids keeping collection order. Ids that are not in
// the collection (partial fetches) keep their relative place ahead of it.
func (s *Store[T]) placeOrdered(ids []string, id string) []string {
	pos := make(map[string]int, len(s.order))
	for i, oid := range s.order {
		pos[oid] = i
	}
	target, ok := pos[id]
	if !ok {
		return append(ids, id)
	}
	at := len(ids)
	for i, other := range ids {
		if p, ok := pos[other]; ok && p > target {
			at = i
			break
		}
	}
	out := make([]string, 0, len(ids)+1)
	out = append(out, ids[:at]...)
	out = append(out, id)
	return append(out, ids[at:]...)
}

// refreshCurrent re-points the current record at the freshly stored version.
func (s *Store[T]) refreshCurrent() {
	if s.current == nil {
		return
	}
	if it, ok := s.table[(*s.current).RecordID()]; ok {
		cp := it
		s.current = &cp
	}
}

// gc drops table rows no index references anymore.
func (s *Store[T]) gc() {
	live := make(map[string]struct{}, len(s.table))
	for _, id := range s.order {
		live[id] = struct{}{}
	}
	for _, ids := range s.parts {
		for _, id := range ids {
			live[id] = struct{}{}
		}
	}
	for id := range s.table {
		if _, ok := live[id]; !ok {
			delete(s.table, id)
		}
	}
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

func removeAt(ids []string, i int) []string {
	out := make([]string, 0, len(ids)-1)
	out = append(out, ids[:i]...)
	return append(out, ids[i+1:]...)
}
