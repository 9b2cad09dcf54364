package circuitbreaker

import (
	"context"

	"municipal-portal/internal/domain/entity"
	"municipal-portal/internal/repository"
)

// ContentRepository routes every call of the wrapped repository through a breaker.
type ContentRepository[T entity.Record] struct {
	cb   *CircuitBreaker
	next repository.ContentRepository[T]
}

// WrapContent returns next guarded by cb.
func WrapContent[T entity.Record](cb *CircuitBreaker, next repository.ContentRepository[T]) *ContentRepository[T] {
	return &ContentRepository[T]{cb: cb, next: next}
}

func (r *ContentRepository[T]) List(ctx context.Context, q repository.ListQuery) (repository.ListResult[T], error) {
	return Do(r.cb, func() (repository.ListResult[T], error) { return r.next.List(ctx, q) })
}

func (r *ContentRepository[T]) Get(ctx context.Context, id string) (*T, error) {
	return Do(r.cb, func() (*T, error) { return r.next.Get(ctx, id) })
}

func (r *ContentRepository[T]) GetBySlug(ctx context.Context, slug string) (*T, error) {
	return Do(r.cb, func() (*T, error) { return r.next.GetBySlug(ctx, slug) })
}

func (r *ContentRepository[T]) ListByCategory(ctx context.Context, category entity.Category) ([]T, error) {
	return Do(r.cb, func() ([]T, error) { return r.next.ListByCategory(ctx, category) })
}

func (r *ContentRepository[T]) Create(ctx context.Context, item T) (T, error) {
	return Do(r.cb, func() (T, error) { return r.next.Create(ctx, item) })
}

func (r *ContentRepository[T]) Update(ctx context.Context, id string, item T) (T, error) {
	return Do(r.cb, func() (T, error) { return r.next.Update(ctx, id, item) })
}

func (r *ContentRepository[T]) Delete(ctx context.Context, id string) (string, error) {
	return Do(r.cb, func() (string, error) { return r.next.Delete(ctx, id) })
}

// SettingsRepository is the breaker-guarded settings store.
type SettingsRepository struct {
	cb   *CircuitBreaker
	next repository.SettingsRepository
}

// WrapSettings returns next guarded by cb.
func WrapSettings(cb *CircuitBreaker, next repository.SettingsRepository) *SettingsRepository {
	return &SettingsRepository{cb: cb, next: next}
}

func (r *SettingsRepository) Get(ctx context.Context) (*entity.MunicipalityInfo, error) {
	return Do(r.cb, func() (*entity.MunicipalityInfo, error) { return r.next.Get(ctx) })
}

func (r *SettingsRepository) Update(ctx context.Context, info entity.MunicipalityInfo) (entity.MunicipalityInfo, error) {
	return Do(r.cb, func() (entity.MunicipalityInfo, error) { return r.next.Update(ctx, info) })
}
