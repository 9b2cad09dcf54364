package content

import (
	"context"
	"strconv"
	"sync"

	"municipal-portal/internal/domain/entity"
	"municipal-portal/internal/repository"
)

// fakeRepo keeps records in memory. withID stamps the id on created records.
type fakeRepo[T entity.Record] struct {
	mu      sync.Mutex
	items   []T
	withID  func(T, string) T
	slugOf  func(T) string
	status  func(T) string
	lists   int
	queries []repository.ListQuery
	listErr error
}

func (r *fakeRepo[T]) List(_ context.Context, q repository.ListQuery) (repository.ListResult[T], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lists++
	r.queries = append(r.queries, q)
	if r.listErr != nil {
		return repository.ListResult[T]{}, r.listErr
	}
	var out []T
	for _, it := range r.items {
		if q.Filters.Category != "" && it.PartitionKey() != string(q.Filters.Category) {
			continue
		}
		if q.Filters.Status != "" && r.status != nil && r.status(it) != q.Filters.Status {
			continue
		}
		out = append(out, it)
	}
	total := int64(len(out))
	if q.Limit > 0 {
		start := min((q.Page-1)*q.Limit, len(out))
		out = out[start:min(start+q.Limit, len(out))]
	}
	pages := 0
	if q.Limit > 0 {
		pages = int((total + int64(q.Limit) - 1) / int64(q.Limit))
	}
	return repository.ListResult[T]{Items: out, Total: total, TotalPages: pages}, nil
}

func (r *fakeRepo[T]) Get(_ context.Context, id string) (*T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, it := range r.items {
		if it.RecordID() == id {
			return &it, nil
		}
	}
	return nil, entity.ErrNotFound
}

func (r *fakeRepo[T]) GetBySlug(_ context.Context, slug string) (*T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
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

func (r *fakeRepo[T]) ListByCategory(_ context.Context, c entity.Category) ([]T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []T
	for _, it := range r.items {
		if it.PartitionKey() == string(c) {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r *fakeRepo[T]) Create(_ context.Context, item T) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item = r.withID(item, "new-"+strconv.Itoa(len(r.items)+1))
	r.items = append(r.items, item)
	return item, nil
}

func (r *fakeRepo[T]) Update(_ context.Context, id string, item T) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
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

func (r *fakeRepo[T]) Delete(_ context.Context, id string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, it := range r.items {
		if it.RecordID() == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return id, nil
		}
	}
	return "", entity.ErrNotFound
}

func (r *fakeRepo[T]) listCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lists
}

func serviceRepo(items ...entity.Service) *fakeRepo[entity.Service] {
	return &fakeRepo[entity.Service]{
		items:  items,
		withID: func(s entity.Service, id string) entity.Service { s.ID = id; return s },
		slugOf: func(s entity.Service) string { return s.Slug },
	}
}

func newsRepo(items ...entity.News) *fakeRepo[entity.News] {
	return &fakeRepo[entity.News]{
		items:  items,
		withID: func(n entity.News, id string) entity.News { n.ID = id; return n },
		slugOf: func(n entity.News) string { return n.Slug },
		status: func(n entity.News) string { return string(n.Status) },
	}
}

type fakeSettings struct {
	mu   sync.Mutex
	info *entity.MunicipalityInfo
}

func (s *fakeSettings) Get(context.Context) (*entity.MunicipalityInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.info == nil {
		return nil, entity.ErrNotFound
	}
	info := *s.info
	return &info, nil
}

func (s *fakeSettings) Update(_ context.Context, info entity.MunicipalityInfo) (entity.MunicipalityInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	info.ID = "1"
	s.info = &info
	return info, nil
}
