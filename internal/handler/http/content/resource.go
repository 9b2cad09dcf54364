// Package content exposes the portal content slices over HTTP.
//
// Every content type gets the same routes under its base path:
//
//	GET    {base}                       list (filters + page/limit)
//	GET    {base}/{id}                  one record
//	GET    {base}/slug/{slug}           one record by slug
//	GET    {base}/categoria/{category}  one category
//	GET    {base}/state                 cache and request status snapshot
//	POST   {base}                       create (admin)
//	PUT    {base}/{id}                  update (admin)
//	DELETE {base}/{id}                  delete (admin)
//	DELETE {base}/state/status[/{op}]   clear request status (admin)
//
// Write routes rely on the global auth middleware. Reads are public; records a
// Resource marks as hidden (e.g. unpublished news) are only shown to privileged
// readers.
package content

import (
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"municipal-portal/internal/common/pagination"
	"municipal-portal/internal/domain/entity"
	"municipal-portal/internal/repository"
	contentUC "municipal-portal/internal/usecase/content"
)

// Resource binds a content slice to its HTTP routes.
type Resource[T entity.Record] struct {
	Slice *contentUC.Slice[T]
	// Cached resources load their whole collection and answer lists from it
	// while it is younger than TTL. The others hit the backend per request.
	Cached bool
	TTL    time.Duration
	// Match reports whether item contains the normalized search term. Only
	// used by cached resources; nil disables search on them.
	Match      func(item T, term string) bool
	Defaults   repository.Filters
	Adjust     func(q url.Values, f repository.Filters) (repository.Filters, error)
	Pagination pagination.Config
	Logger     *slog.Logger

	// Visible reports whether anonymous readers may see item. Nil shows everything.
	Visible func(item T) bool
	// Privileged reports whether r may see hidden records and choose the status
	// filter. Nil treats every request as anonymous.
	Privileged func(r *http.Request) bool
}

func (res *Resource[T]) privileged(r *http.Request) bool {
	return res.Privileged != nil && res.Privileged(r)
}

// visibleTo drops the records r may not see.
func (res *Resource[T]) visibleTo(r *http.Request, items []T) []T {
	if res.Visible == nil || res.privileged(r) {
		return items
	}
	out := items[:0:0]
	for _, it := range items {
		if res.Visible(it) {
			out = append(out, it)
		}
	}
	return out
}

func (res *Resource[T]) canSee(r *http.Request, item T) bool {
	return res.Visible == nil || res.privileged(r) || res.Visible(item)
}

func (res *Resource[T]) logger() *slog.Logger {
	if res.Logger == nil {
		return slog.Default()
	}
	return res.Logger
}

// Register mounts the routes of res under base, e.g. "/api/servicios".
func Register[T entity.Record](mux *http.ServeMux, base string, res *Resource[T]) {
	mux.Handle("GET "+base, ListHandler[T]{res})
	mux.Handle("GET "+base+"/{id}", GetHandler[T]{res})
	mux.Handle("GET "+base+"/slug/{slug}", SlugHandler[T]{res})
	mux.Handle("GET "+base+"/categoria/{category}", CategoryHandler[T]{res})
	mux.Handle("GET "+base+"/state", StateHandler[T]{res})

	mux.Handle("POST "+base, CreateHandler[T]{res})
	mux.Handle("PUT "+base+"/{id}", UpdateHandler[T]{res})
	mux.Handle("DELETE "+base+"/{id}", DeleteHandler[T]{res})
	mux.Handle("DELETE "+base+"/state/status", ClearStatusHandler[T]{res})
	mux.Handle("DELETE "+base+"/state/status/{op}", ClearStatusHandler[T]{res})
}
