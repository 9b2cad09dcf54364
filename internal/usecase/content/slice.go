package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"municipal-portal/internal/common/pagination"
	"municipal-portal/internal/domain/entity"
	"municipal-portal/internal/observability/metrics"
	"municipal-portal/internal/repository"
	"municipal-portal/internal/state/cachegate"
	"municipal-portal/internal/state/dispatch"
	"municipal-portal/internal/state/status"
	"municipal-portal/internal/state/store"
)

// ErrNoFeatured is returned by the featured operations of slices without a
// featured selection.
var ErrNoFeatured = errors.New("content type has no featured selection")

// Featured describes the home-page selection of a slice. The selection is
// kept apart from the paged collection so list fetches do not disturb it.
type Featured struct {
	Key     string // fetch record key
	Filters repository.Filters
	Limit   int
}

// Definition is everything that differs between content types.
type Definition[T entity.Record] struct {
	// Scope names the slice in logs and metrics and is the fetch-all cache key.
	Scope string
	// CategoryKey prefixes the per-category cache keys: "<CategoryKey>.<category>".
	CategoryKey string
	// StampOnFetch lists the keys a full fetch marks fresh. Defaults to Scope.
	StampOnFetch []string
	Partitions   []store.Partition[T]
	Featured     *Featured
	// Categories is the catalogue accepted by FetchByCategory callers.
	Categories []entity.CategoryOption
	// Filters are applied to Fetch until SetFilters replaces them.
	Filters  repository.Filters
	Ops      Ops
	Messages Messages
	// Limit is the default page size; 0 loads every record.
	Limit int
	// Prepare validates and normalizes a record before Create and Update.
	Prepare func(*T) error
}

// Options configures a Slice at construction.
type Options struct {
	Logger *slog.Logger
	Clock  cachegate.Clock
	// Limit overrides Definition.Limit when positive.
	Limit int
}

// View is a read-only snapshot of a slice.
type View[T any] struct {
	Items       []T                         `json:"items"`
	Partitions  map[string][]T              `json:"partitions,omitempty"`
	Singletons  map[string]*T               `json:"singletons,omitempty"`
	Current     *T                          `json:"current"`
	Featured    []T                         `json:"featured,omitempty"`
	Pagination  pagination.Metadata         `json:"pagination"`
	Filters     repository.Filters          `json:"filters"`
	Status      map[status.Op]status.Status `json:"status"`
	LastFetched map[string]int64            `json:"last_fetched"`
}

// Slice coordinates the cache and request status of one content type.
type Slice[T entity.Record] struct {
	def   Definition[T]
	repo  repository.ContentRepository[T]
	store *store.Store[T]
	// featured is nil unless the definition declares a featured selection.
	featured *store.Store[T]
	d        *dispatch.Dispatcher
	group    singleflight.Group

	mu    sync.RWMutex
	query repository.ListQuery
	meta  pagination.Metadata
}

// NewSlice builds an empty slice over repo.
func NewSlice[T entity.Record](def Definition[T], repo repository.ContentRepository[T], opts Options) *Slice[T] {
	if len(def.StampOnFetch) == 0 {
		def.StampOnFetch = []string{def.Scope}
	}
	if opts.Limit > 0 {
		def.Limit = opts.Limit
	}
	s := &Slice[T]{
		def:   def,
		repo:  repo,
		store: store.New(def.Partitions...),
		d:     dispatch.New(def.Scope, cachegate.New(opts.Clock), opts.Logger),
	}
	if def.Featured != nil {
		s.featured = store.New[T]()
	}
	s.query = s.initialQuery()
	return s
}

func (s *Slice[T]) initialQuery() repository.ListQuery {
	return repository.ListQuery{Page: 1, Limit: s.def.Limit, Filters: s.def.Filters}
}

// Scope returns the slice name.
func (s *Slice[T]) Scope() string { return s.def.Scope }

// Categories returns the category catalogue of the content type.
func (s *Slice[T]) Categories() []entity.CategoryOption { return s.def.Categories }

// Ops returns the status names of the slice's operations.
func (s *Slice[T]) Ops() Ops { return s.def.Ops }

// Messages returns the user texts of the slice's operations.
func (s *Slice[T]) Messages() Messages { return s.def.Messages }

// Status returns the tracker entry of op.
func (s *Slice[T]) Status(op status.Op) (status.Status, bool) { return s.d.Status.Get(op) }

// CategoryKey returns the cache key of one category.
func (s *Slice[T]) CategoryKey(c entity.Category) string {
	return s.def.CategoryKey + "." + string(c)
}

// View returns a snapshot of the slice.
func (s *Slice[T]) View() View[T] {
	v := View[T]{
		Items:       s.store.All(),
		Status:      s.d.Status.Snapshot(),
		LastFetched: s.d.Gate.Record(),
	}
	for _, p := range s.def.Partitions {
		if p.Singleton {
			if v.Singletons == nil {
				v.Singletons = make(map[string]*T)
			}
			if it, ok := s.store.Singleton(p.Key); ok {
				v.Singletons[p.Key] = &it
			} else {
				v.Singletons[p.Key] = nil
			}
			continue
		}
		if v.Partitions == nil {
			v.Partitions = make(map[string][]T)
		}
		v.Partitions[p.Key] = s.store.Partition(p.Key)
	}
	if cur, ok := s.store.Current(); ok {
		v.Current = &cur
	}
	if s.featured != nil {
		v.Featured = s.featured.All()
	}
	s.mu.RLock()
	v.Pagination = s.meta
	v.Filters = s.query.Filters
	s.mu.RUnlock()
	return v
}

// Items returns the loaded collection.
func (s *Slice[T]) Items() []T { return s.store.All() }

// Partition returns the records of one partition.
func (s *Slice[T]) Partition(key string) []T { return s.store.Partition(key) }

// Singleton returns the record of a singleton partition.
func (s *Slice[T]) Singleton(key string) (T, bool) { return s.store.Singleton(key) }

// Current returns the selected record.
func (s *Slice[T]) Current() (T, bool) { return s.store.Current() }

// FeaturedItems returns the featured selection, nil for slices without one.
func (s *Slice[T]) FeaturedItems() []T {
	if s.featured == nil {
		return nil
	}
	return s.featured.All()
}

// Query returns the page and filters the next Fetch will use.
func (s *Slice[T]) Query() repository.ListQuery {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query
}

func (s *Slice[T]) recordSize() {
	metrics.RecordStoreSize(s.def.Scope, s.store.Len())
}

// Fetch loads the current page with the current filters and replaces the
// collection. On success every StampOnFetch key is marked fresh.
func (s *Slice[T]) Fetch(ctx context.Context) (repository.ListResult[T], error) {
	return s.fetch(ctx, s.Query())
}

// List makes q the slice query and fetches it. The caller always gets the
// result of its own query, even when a newer fetch has replaced the collection.
func (s *Slice[T]) List(ctx context.Context, q repository.ListQuery) (repository.ListResult[T], error) {
	q.Page = max(q.Page, 1)
	q.Limit = max(q.Limit, 0)
	s.d.Write(func() {
		s.mu.Lock()
		s.query = q
		s.mu.Unlock()
	})
	return s.fetch(ctx, q)
}

// DefaultLimit returns the page size the slice starts with; 0 loads every record.
func (s *Slice[T]) DefaultLimit() int { return s.def.Limit }

func (s *Slice[T]) fetch(ctx context.Context, q repository.ListQuery) (repository.ListResult[T], error) {
	op := dispatch.Operation{
		Name:           s.def.Ops.FetchAll,
		Kind:           dispatch.Fetch,
		Keys:           s.def.StampOnFetch,
		FailureMessage: s.def.Messages.FetchAll,
	}
	return dispatch.Run(ctx, s.d, op,
		func(ctx context.Context) (repository.ListResult[T], error) {
			return s.repo.List(ctx, q)
		},
		func(res repository.ListResult[T]) {
			s.store.SetAll(res.Items)
			s.mu.Lock()
			s.meta = pagination.Metadata{
				Total:      res.Total,
				Page:       max(q.Page, 1),
				Limit:      q.Limit,
				TotalPages: res.TotalPages,
			}
			s.mu.Unlock()
			s.recordSize()
		})
}

// EnsureFresh fetches only when the collection is empty, was never fetched, or
// its last fetch is older than ttl. Concurrent callers share one fetch.
// It reports whether a fetch ran.
func (s *Slice[T]) EnsureFresh(ctx context.Context, ttl time.Duration) (bool, error) {
	return s.ensure(ctx, s.def.Scope, ttl, s.store.Len() > 0, func(ctx context.Context) error {
		_, err := s.Fetch(ctx)
		return err
	})
}

// EnsureCategoryFresh is EnsureFresh for one category.
func (s *Slice[T]) EnsureCategoryFresh(ctx context.Context, c entity.Category, ttl time.Duration) (bool, error) {
	key := s.CategoryKey(c)
	return s.ensure(ctx, key, ttl, len(s.store.Partition(string(c))) > 0, func(ctx context.Context) error {
		_, err := s.FetchByCategory(ctx, c)
		return err
	})
}

func (s *Slice[T]) ensure(ctx context.Context, key string, ttl time.Duration, hasData bool, fetch func(context.Context) error) (bool, error) {
	should := s.d.Gate.ShouldFetch(key, ttl, hasData)
	metrics.RecordGateDecision(s.def.Scope, should)
	if !should {
		return false, nil
	}
	_, err, _ := s.group.Do(key, func() (interface{}, error) {
		return nil, fetch(ctx)
	})
	return true, err
}

// FetchByCategory loads one category. When the slice declares a partition for
// it only that partition is replaced; otherwise the result becomes the collection.
func (s *Slice[T]) FetchByCategory(ctx context.Context, c entity.Category) ([]T, error) {
	op := dispatch.Operation{
		Name:           s.def.Ops.FetchByCategory,
		Kind:           dispatch.Fetch,
		Keys:           []string{s.CategoryKey(c)},
		FailureMessage: s.def.Messages.FetchByCategory,
	}
	return dispatch.Run(ctx, s.d, op,
		func(ctx context.Context) ([]T, error) {
			return s.repo.ListByCategory(ctx, c)
		},
		func(items []T) {
			if s.hasPartition(string(c)) {
				s.store.SetPartition(string(c), items)
			} else {
				s.store.SetAll(items)
			}
			s.recordSize()
		})
}

func (s *Slice[T]) hasPartition(key string) bool {
	for _, p := range s.def.Partitions {
		if p.Key == key {
			return true
		}
	}
	return false
}

// FetchFeatured loads the home-page selection into its partition.
func (s *Slice[T]) FetchFeatured(ctx context.Context) ([]T, error) {
	f := s.def.Featured
	if f == nil {
		return nil, fmt.Errorf("%s: %w", s.def.Scope, ErrNoFeatured)
	}
	op := dispatch.Operation{
		Name:           s.def.Ops.FetchFeatured,
		Kind:           dispatch.Fetch,
		Keys:           []string{f.Key},
		FailureMessage: s.def.Messages.FetchAll,
	}
	return dispatch.Run(ctx, s.d, op,
		func(ctx context.Context) ([]T, error) {
			res, err := s.repo.List(ctx, repository.ListQuery{Page: 1, Limit: f.Limit, Filters: f.Filters})
			return res.Items, err
		},
		func(items []T) {
			s.featured.SetAll(items)
		})
}

// EnsureFeaturedFresh is EnsureFresh for the featured selection.
func (s *Slice[T]) EnsureFeaturedFresh(ctx context.Context, ttl time.Duration) (bool, error) {
	f := s.def.Featured
	if f == nil {
		return false, fmt.Errorf("%s: %w", s.def.Scope, ErrNoFeatured)
	}
	return s.ensure(ctx, f.Key, ttl, s.featured.Len() > 0, func(ctx context.Context) error {
		_, err := s.FetchFeatured(ctx)
		return err
	})
}

// FetchByID loads one record and selects it as current.
func (s *Slice[T]) FetchByID(ctx context.Context, id string) (T, error) {
	op := dispatch.Operation{
		Name:            s.def.Ops.FetchByID,
		Kind:            dispatch.Fetch,
		FailureMessage:  s.def.Messages.FetchByID,
		NotFoundMessage: s.def.Messages.NotFound,
	}
	return dispatch.Run(ctx, s.d, op, func(ctx context.Context) (T, error) {
		p, err := s.repo.Get(ctx, id)
		return deref(p, err)
	}, s.selectCurrent)
}

// FetchBySlug loads one record by slug and selects it as current.
func (s *Slice[T]) FetchBySlug(ctx context.Context, slug string) (T, error) {
	op := dispatch.Operation{
		Name:            s.def.Ops.FetchBySlug,
		Kind:            dispatch.Fetch,
		FailureMessage:  s.def.Messages.NotFound,
		NotFoundMessage: s.def.Messages.NotFound,
	}
	return dispatch.Run(ctx, s.d, op, func(ctx context.Context) (T, error) {
		p, err := s.repo.GetBySlug(ctx, slug)
		return deref(p, err)
	}, s.selectCurrent)
}

func (s *Slice[T]) selectCurrent(item T) {
	s.store.SetCurrent(&item)
}

func deref[T any](p *T, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	if p == nil {
		return zero, entity.ErrNotFound
	}
	return *p, nil
}

// Create stores a new record and adds it to the collection and its partitions.
// Every fetch record of the slice is invalidated.
func (s *Slice[T]) Create(ctx context.Context, item T) (T, error) {
	op := dispatch.Operation{
		Name:           s.def.Ops.Create,
		Kind:           dispatch.Mutation,
		SuccessMessage: s.def.Messages.Created,
		FailureMessage: s.def.Messages.CreateFailed,
	}
	return dispatch.Run(ctx, s.d, op,
		func(ctx context.Context) (T, error) {
			if err := s.prepare(&item); err != nil {
				var zero T
				return zero, err
			}
			return s.repo.Create(ctx, item)
		},
		func(created T) {
			s.store.Insert(created)
			s.recordSize()
		})
}

// Update replaces the record with id. The record moves between partitions when
// its category changed, and replaces the current record when selected.
func (s *Slice[T]) Update(ctx context.Context, id string, item T) (T, error) {
	op := dispatch.Operation{
		Name:            s.def.Ops.Update,
		Kind:            dispatch.Mutation,
		SuccessMessage:  s.def.Messages.Updated,
		FailureMessage:  s.def.Messages.UpdateFailed,
		NotFoundMessage: s.def.Messages.NotFound,
	}
	return dispatch.Run(ctx, s.d, op,
		func(ctx context.Context) (T, error) {
			if err := s.prepare(&item); err != nil {
				var zero T
				return zero, err
			}
			return s.repo.Update(ctx, id, item)
		},
		func(updated T) {
			s.store.Update(updated)
			if s.featured != nil {
				s.featured.Update(updated)
			}
		})
}

// Delete removes the record with id from the backend and from every index.
// A current record with that id is cleared.
func (s *Slice[T]) Delete(ctx context.Context, id string) (string, error) {
	op := dispatch.Operation{
		Name:            s.def.Ops.Delete,
		Kind:            dispatch.Mutation,
		SuccessMessage:  s.def.Messages.Deleted,
		FailureMessage:  s.def.Messages.DeleteFailed,
		NotFoundMessage: s.def.Messages.NotFound,
	}
	return dispatch.Run(ctx, s.d, op,
		func(ctx context.Context) (string, error) {
			return s.repo.Delete(ctx, id)
		},
		func(deleted string) {
			s.store.Remove(deleted)
			if s.featured != nil {
				s.featured.Remove(deleted)
			}
			s.recordSize()
		})
}

func (s *Slice[T]) prepare(item *T) error {
	if s.def.Prepare == nil {
		return nil
	}
	return s.def.Prepare(item)
}

// SetFilters replaces the list filters and goes back to the first page.
func (s *Slice[T]) SetFilters(f repository.Filters) {
	s.d.Write(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.query.Filters = f
		s.query.Page = 1
	})
}

// SetPage selects the page the next Fetch loads. Pages below 1 select page 1.
func (s *Slice[T]) SetPage(page int) {
	s.d.Write(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.query.Page = max(page, 1)
	})
}

// SetLimit changes the page size; 0 loads every record.
func (s *Slice[T]) SetLimit(limit int) {
	s.d.Write(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.query.Limit = max(limit, 0)
	})
}

// SetCurrent selects item; nil clears the selection.
func (s *Slice[T]) SetCurrent(item *T) {
	s.d.Write(func() { s.store.SetCurrent(item) })
}

// ClearCurrent clears the selected record.
func (s *Slice[T]) ClearCurrent() {
	s.d.Write(s.store.ClearCurrent)
}

// ClearStatus removes the named status entries, or all of them without names.
func (s *Slice[T]) ClearStatus(ops ...status.Op) {
	s.d.Write(func() { s.d.Status.Clear(ops...) })
}

// Reset returns the slice to its initial state.
func (s *Slice[T]) Reset() {
	s.d.Write(func() {
		s.store.Reset()
		if s.featured != nil {
			s.featured.Reset()
		}
		s.d.Gate.Reset()
		s.d.Status.Clear()
		s.mu.Lock()
		s.query = s.initialQuery()
		s.meta = pagination.Metadata{}
		s.mu.Unlock()
		s.recordSize()
	})
}
