package content

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"municipal-portal/internal/domain/entity"
	"municipal-portal/pkg/ratelimit"
)

// SearchDelay is how long a search term must stay unchanged before it is sent.
const SearchDelay = 500 * time.Millisecond

// SearchBox turns keystrokes into list fetches. Only the settled term is
// searched; each settled term resets the slice to page 1.
type SearchBox[T entity.Record] struct {
	ctx    context.Context
	slice  *Slice[T]
	logger *slog.Logger
	deb    *ratelimit.Debouncer[string]
	done   func(error)
}

// NewSearchBox creates a search box for slice. Fetches run with ctx; done, when
// not nil, receives the outcome of every fetch.
func NewSearchBox[T entity.Record](ctx context.Context, slice *Slice[T], delay time.Duration, logger *slog.Logger, done func(error)) *SearchBox[T] {
	if delay <= 0 {
		delay = SearchDelay
	}
	if logger == nil {
		logger = slog.Default()
	}
	b := &SearchBox[T]{ctx: ctx, slice: slice, logger: logger, done: done}
	b.deb = ratelimit.NewDebouncer(delay, b.search)
	return b
}

// Type records the current input value.
func (b *SearchBox[T]) Type(term string) { b.deb.Push(term) }

// Submit searches the pending term right away.
func (b *SearchBox[T]) Submit() { b.deb.Flush() }

// Close drops any pending term.
func (b *SearchBox[T]) Close() { b.deb.Stop() }

func (b *SearchBox[T]) search(term string) {
	f := b.slice.Query().Filters
	f.Search = strings.TrimSpace(term)
	b.slice.SetFilters(f)
	_, err := b.slice.Fetch(b.ctx)
	if err != nil {
		b.logger.Warn("search failed",
			slog.String("scope", b.slice.Scope()),
			slog.String("term", f.Search),
			slog.Any("error", err))
	}
	if b.done != nil {
		b.done(err)
	}
}
