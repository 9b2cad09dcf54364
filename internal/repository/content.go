package repository

import (
	"context"

	"municipal-portal/internal/domain/entity"
)

// Filters narrows a content list. Zero values mean "no filter".
type Filters struct {
	Search   string          `json:"search,omitempty"`
	Category entity.Category `json:"category,omitempty"`
	Year     int             `json:"year,omitempty"`
	// Upcoming selects events that have not ended (true) or have ended (false).
	Upcoming *bool  `json:"upcoming,omitempty"`
	Status   string `json:"status,omitempty"`
	Featured *bool  `json:"featured,omitempty"`
}

// IsZero reports whether no filter is set.
func (f Filters) IsZero() bool {
	return f.Search == "" && f.Category == "" && f.Year == 0 &&
		f.Upcoming == nil && f.Status == "" && f.Featured == nil
}

// ListQuery selects one page of a content list. Limit 0 returns every match.
type ListQuery struct {
	Page    int
	Limit   int
	Filters Filters
}

// ListResult is one page of a content list.
type ListResult[T any] struct {
	Items      []T
	Total      int64
	TotalPages int
}

// ContentRepository is the backend for one content type.
//
// Get and GetBySlug return entity.ErrNotFound when no record matches.
// Create and Update return the stored record with server-assigned id and
// timestamps. Delete returns the id of the removed record.
type ContentRepository[T entity.Record] interface {
	List(ctx context.Context, q ListQuery) (ListResult[T], error)
	Get(ctx context.Context, id string) (*T, error)
	GetBySlug(ctx context.Context, slug string) (*T, error)
	ListByCategory(ctx context.Context, category entity.Category) ([]T, error)
	Create(ctx context.Context, item T) (T, error)
	Update(ctx context.Context, id string, item T) (T, error)
	Delete(ctx context.Context, id string) (string, error)
}
