package content

import (
	"log/slog"
	"net/http"

	"municipal-portal/internal/common/pagination"
	"municipal-portal/internal/domain/entity"
	"municipal-portal/internal/handler/http/respond"
	"municipal-portal/internal/repository"
)

type ListHandler[T entity.Record] struct{ Res *Resource[T] }

// ServeHTTP lists records.
// @Summary      Listar contenido
// @Description  Lista paginada con filtros de búsqueda, categoría, año y estado
// @Tags         content
// @Produce      json
// @Param        search   query string false "Texto a buscar"
// @Param        category query string false "Categoría"
// @Param        year     query int    false "Año"
// @Param        upcoming query bool   false "Solo eventos próximos"
// @Param        status   query string false "Estado (all para todos), solo con sesión de administrador"
// @Param        page     query int    false "Página (1..)"
// @Param        limit    query int    false "Elementos por página"
// @Success      200 {object} pagination.Response[any]
// @Failure      400 {object} respond.ErrorBody
// @Failure      503 {object} respond.ErrorBody
// @Router       /api/{resource} [get]
func (h ListHandler[T]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	res := h.Res
	q := r.URL.Query()

	filters, err := parseFilters(q, res.Slice.Categories(), res.Defaults, res.privileged(r))
	if err == nil && res.Adjust != nil {
		filters, err = res.Adjust(q, filters)
	}
	if err != nil {
		respond.Failure(w, err)
		return
	}

	params, err := pagination.Parse(q, res.Pagination)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	if res.Cached {
		paged := q.Has("page") || q.Has("limit")
		h.serveCached(w, r, filters, params, paged)
		return
	}

	result, err := res.Slice.List(r.Context(), repository.ListQuery{
		Page:    params.Page,
		Limit:   params.Limit,
		Filters: filters,
	})
	if err != nil {
		respond.Failure(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, pagination.NewResponse(res.visibleTo(r, result.Items), pagination.Metadata{
		Total:      result.Total,
		Page:       params.Page,
		Limit:      params.Limit,
		TotalPages: result.TotalPages,
	}))
}

// serveCached answers from the loaded collection, fetching it first when it is
// older than the resource TTL. A failed refresh still serves what is loaded.
func (h ListHandler[T]) serveCached(w http.ResponseWriter, r *http.Request, f repository.Filters, p pagination.Params, paged bool) {
	res := h.Res
	ctx := r.Context()

	var (
		items []T
		err   error
	)
	if f.Category != "" {
		_, err = res.Slice.EnsureCategoryFresh(ctx, f.Category, res.TTL)
		items = res.Slice.Partition(string(f.Category))
	} else {
		_, err = res.Slice.EnsureFresh(ctx, res.TTL)
		items = res.Slice.Items()
	}
	if err != nil {
		if len(items) == 0 {
			respond.Failure(w, err)
			return
		}
		res.logger().WarnContext(ctx, "serving stale content after refresh failure",
			slog.String("scope", res.Slice.Scope()),
			slog.Any("error", err))
	}

	items = res.visibleTo(r, items)
	if f.Search != "" && res.Match != nil {
		term := entity.Slugify(f.Search)
		matched := items[:0:0]
		for _, it := range items {
			if res.Match(it, term) {
				matched = append(matched, it)
			}
		}
		items = matched
	}

	total := int64(len(items))
	if !paged {
		meta := pagination.Metadata{Total: total, Page: 1, Limit: len(items), TotalPages: min(len(items), 1)}
		respond.JSON(w, http.StatusOK, pagination.NewResponse(items, meta))
		return
	}
	start := min(p.Offset(), len(items))
	end := min(start+p.Limit, len(items))
	respond.JSON(w, http.StatusOK, pagination.NewResponse(items[start:end], pagination.NewMetadata(p, total)))
}
