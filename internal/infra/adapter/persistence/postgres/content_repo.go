package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"municipal-portal/internal/common/pagination"
	"municipal-portal/internal/domain/entity"
	"municipal-portal/internal/repository"
)

type scanner interface {
	Scan(dest ...any) error
}

// table describes how one content type is stored.
type table[T entity.Record] struct {
	name     string
	columns  []string // select list, id first
	writable []string // insert/update list, same order as values
	slug     string
	filters  filterColumns
	order    string
	// pastOrder replaces order when listing with Upcoming=false.
	pastOrder string
	scan      func(scanner) (T, error)
	values    func(T) ([]any, error)
}

// ContentRepo is a repository.ContentRepository over one table.
type ContentRepo[T entity.Record] struct {
	db *sql.DB
	t  table[T]
}

func newContentRepo[T entity.Record](db *sql.DB, t table[T]) *ContentRepo[T] {
	return &ContentRepo[T]{db: db, t: t}
}

func (repo *ContentRepo[T]) selectList() string {
	return strings.Join(repo.t.columns, ", ")
}

func (repo *ContentRepo[T]) List(ctx context.Context, q repository.ListQuery) (repository.ListResult[T], error) {
	where, args, next := whereClause(repo.t.filters, q.Filters)

	var total int64
	countQuery := "SELECT COUNT(*) FROM " + repo.t.name + " " + where
	if err := repo.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return repository.ListResult[T]{}, fmt.Errorf("List %s: count: %w", repo.t.name, err)
	}

	order := repo.t.order
	if q.Filters.Upcoming != nil && !*q.Filters.Upcoming && repo.t.pastOrder != "" {
		order = repo.t.pastOrder
	}
	query := "SELECT " + repo.selectList() + " FROM " + repo.t.name + " " + where + " ORDER BY " + order
	if q.Limit > 0 {
		page := q.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", next, next+1)
		args = append(args, q.Limit, pagination.CalculateOffset(page, q.Limit))
	}

	items, err := repo.query(ctx, query, args...)
	if err != nil {
		return repository.ListResult[T]{}, fmt.Errorf("List %s: %w", repo.t.name, err)
	}

	res := repository.ListResult[T]{Items: items, Total: total}
	if q.Limit > 0 {
		res.TotalPages = pagination.CalculateTotalPages(total, q.Limit)
	} else if total > 0 {
		res.TotalPages = 1
	}
	return res, nil
}

func (repo *ContentRepo[T]) query(ctx context.Context, query string, args ...any) ([]T, error) {
	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	items := make([]T, 0, 16)
	for rows.Next() {
		item, err := repo.t.scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (repo *ContentRepo[T]) getBy(ctx context.Context, op, column, value string) (*T, error) {
	query := "SELECT " + repo.selectList() + " FROM " + repo.t.name + " WHERE " + column + " = $1 LIMIT 1"
	item, err := repo.t.scan(repo.db.QueryRowContext(ctx, query, value))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", op, repo.t.name, err)
	}
	return &item, nil
}

func (repo *ContentRepo[T]) Get(ctx context.Context, id string) (*T, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, entity.ErrNotFound
	}
	return repo.getBy(ctx, "Get", "id", id)
}

func (repo *ContentRepo[T]) GetBySlug(ctx context.Context, slug string) (*T, error) {
	if repo.t.slug == "" {
		return nil, fmt.Errorf("GetBySlug %s: %w: records have no slug", repo.t.name, entity.ErrInvalidInput)
	}
	return repo.getBy(ctx, "GetBySlug", repo.t.slug, slug)
}

func (repo *ContentRepo[T]) ListByCategory(ctx context.Context, category entity.Category) ([]T, error) {
	res, err := repo.List(ctx, repository.ListQuery{Filters: repository.Filters{Category: category}})
	if err != nil {
		return nil, fmt.Errorf("ListByCategory: %w", err)
	}
	return res.Items, nil
}

func (repo *ContentRepo[T]) Create(ctx context.Context, item T) (T, error) {
	var zero T
	values, err := repo.t.values(item)
	if err != nil {
		return zero, fmt.Errorf("Create %s: %w", repo.t.name, err)
	}
	placeholders := make([]string, len(values))
	for i := range values {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	query := "INSERT INTO " + repo.t.name + " (" + strings.Join(repo.t.writable, ", ") + ")" +
		" VALUES (" + strings.Join(placeholders, ", ") + ")" +
		" RETURNING " + repo.selectList()

	created, err := repo.t.scan(repo.db.QueryRowContext(ctx, query, values...))
	if err != nil {
		return zero, fmt.Errorf("Create %s: %w", repo.t.name, err)
	}
	return created, nil
}

func (repo *ContentRepo[T]) Update(ctx context.Context, id string, item T) (T, error) {
	var zero T
	if _, err := uuid.Parse(id); err != nil {
		return zero, entity.ErrNotFound
	}
	values, err := repo.t.values(item)
	if err != nil {
		return zero, fmt.Errorf("Update %s: %w", repo.t.name, err)
	}
	sets := make([]string, len(repo.t.writable))
	for i, c := range repo.t.writable {
		sets[i] = fmt.Sprintf("%s = $%d", c, i+1)
	}
	query := "UPDATE " + repo.t.name + " SET " + strings.Join(sets, ", ") + ", updated_at = now()" +
		fmt.Sprintf(" WHERE id = $%d", len(values)+1) +
		" RETURNING " + repo.selectList()

	updated, err := repo.t.scan(repo.db.QueryRowContext(ctx, query, append(values, id)...))
	if errors.Is(err, sql.ErrNoRows) {
		return zero, entity.ErrNotFound
	}
	if err != nil {
		return zero, fmt.Errorf("Update %s: %w", repo.t.name, err)
	}
	return updated, nil
}

func (repo *ContentRepo[T]) Delete(ctx context.Context, id string) (string, error) {
	if _, err := uuid.Parse(id); err != nil {
		return "", entity.ErrNotFound
	}
	var deleted string
	err := repo.db.QueryRowContext(ctx, "DELETE FROM "+repo.t.name+" WHERE id = $1 RETURNING id", id).Scan(&deleted)
	if errors.Is(err, sql.ErrNoRows) {
		return "", entity.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("Delete %s: %w", repo.t.name, err)
	}
	return deleted, nil
}
