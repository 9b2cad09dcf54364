package content

import (
	"context"
	"fmt"
	"sync"
	"time"

	"municipal-portal/internal/domain/entity"
	"municipal-portal/internal/repository"
)

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *manualClock {
	return &manualClock{now: time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// memRepo is an in-memory ContentRepository. The hooks override single calls.
type memRepo[T entity.Record] struct {
	mu      sync.Mutex
	items   []T
	seq     int
	withID  func(T, string) T
	slugOf  func(T) string
	matches func(T, repository.Filters) bool

	getHook func(ctx context.Context, id string) (*T, error)
	// afterList runs once the List snapshot is taken, before it is returned.
	afterList func()
	// beforeDelete runs before a Delete touches the records.
	beforeDelete func(id string)
	listErr      error
	calls   map[string]int
	queries []repository.ListQuery
}

func newMemRepo[T entity.Record](withID func(T, string) T, slugOf func(T) string, items ...T) *memRepo[T] {
	return &memRepo[T]{items: items, withID: withID, slugOf: slugOf, calls: make(map[string]int)}
}

func (r *memRepo[T]) count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[name]
}

func (r *memRepo[T]) lastQuery() repository.ListQuery {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.queries) == 0 {
		return repository.ListQuery{}
	}
	return r.queries[len(r.queries)-1]
}

func (r *memRepo[T]) List(_ context.Context, q repository.ListQuery) (repository.ListResult[T], error) {
	r.mu.Lock()
	r.calls["List"]++
	r.queries = append(r.queries, q)
	if r.listErr != nil {
		err := r.listErr
		r.mu.Unlock()
		return repository.ListResult[T]{}, err
	}
	var out []T
	for _, it := range r.items {
		if r.matches != nil && !r.matches(it, q.Filters) {
			continue
		}
		out = append(out, it)
	}
	hook := r.afterList
	r.mu.Unlock()

	if hook != nil {
		hook()
	}
	total := len(out)
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return repository.ListResult[T]{Items: out, Total: int64(total), TotalPages: 1}, nil
}

func (r *memRepo[T]) Get(ctx context.Context, id string) (*T, error) {
	r.mu.Lock()
	r.calls["Get"]++
	hook := r.getHook
	r.mu.Unlock()
	if hook != nil {
		return hook(ctx, id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, it := range r.items {
		if it.RecordID() == id {
			return &it, nil
		}
	}
	return nil, entity.ErrNotFound
}

func (r *memRepo[T]) GetBySlug(_ context.Context, slug string) (*T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["GetBySlug"]++
	if r.slugOf == nil {
		return nil, entity.ErrInvalidInput
	}
	for _, it := range r.items {
		if r.slugOf(it) == slug {
			return &it, nil
		}
	}
	return nil, entity.ErrNotFound
}

func (r *memRepo[T]) ListByCategory(_ context.Context, c entity.Category) ([]T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["ListByCategory"]++
	var out []T
	for _, it := range r.items {
		if it.PartitionKey() == string(c) {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r *memRepo[T]) Create(_ context.Context, item T) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["Create"]++
	r.seq++
	item = r.withID(item, fmt.Sprintf("new-%d", r.seq))
	r.items = append(r.items, item)
	return item, nil
}

func (r *memRepo[T]) Update(_ context.Context, id string, item T) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["Update"]++
	for i, it := range r.items {
		if it.RecordID() == id {
			item = r.withID(item, id)
			r.items[i] = item
			return item, nil
		}
	}
	var zero T
	return zero, entity.ErrNotFound
}

func (r *memRepo[T]) Delete(_ context.Context, id string) (string, error) {
	r.mu.Lock()
	hook := r.beforeDelete
	r.mu.Unlock()
	if hook != nil {
		hook(id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["Delete"]++
	for i, it := range r.items {
		if it.RecordID() == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return id, nil
		}
	}
	return "", entity.ErrNotFound
}

func service(id string, c entity.Category) entity.Service {
	return entity.Service{ID: id, Title: "Servicio " + id, Slug: "servicio-" + id, Description: "desc", Category: c, IsActive: true}
}

func newServiceRepo(items ...entity.Service) *memRepo[entity.Service] {
	return newMemRepo(
		func(s entity.Service, id string) entity.Service {
			s.ID = id
			return s
		},
		func(s entity.Service) string { return s.Slug },
		items...)
}

type memSettings struct {
	mu      sync.Mutex
	info    *entity.MunicipalityInfo
	gets    int
	updates int
}

func (m *memSettings) Get(context.Context) (*entity.MunicipalityInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	if m.info == nil {
		return nil, entity.ErrNotFound
	}
	info := *m.info
	return &info, nil
}

func (m *memSettings) Update(_ context.Context, info entity.MunicipalityInfo) (entity.MunicipalityInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates++
	if info.ID == "" {
		info.ID = "00000000-0000-0000-0000-000000000001"
	}
	m.info = &info
	return info, nil
}
