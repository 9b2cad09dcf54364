package content

import (
	"log/slog"
	"net/http"

	"municipal-portal/internal/domain/entity"
	"municipal-portal/internal/handler/http/respond"
	"municipal-portal/internal/state/status"
	contentUC "municipal-portal/internal/usecase/content"
)

type GetHandler[T entity.Record] struct{ Res *Resource[T] }

// ServeHTTP returns one record by id and selects it as current.
// @Summary      Obtener por ID
// @Tags         content
// @Produce      json
// @Param        id path string true "ID"
// @Success      200 {object} any
// @Failure      404 {object} respond.ErrorBody
// @Router       /api/{resource}/{id} [get]
func (h GetHandler[T]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	item, err := h.Res.Slice.FetchByID(r.Context(), r.PathValue("id"))
	if err != nil {
		respond.Failure(w, err)
		return
	}
	if !h.Res.canSee(r, item) {
		h.Res.hidden(w, h.Res.Slice.Ops().FetchByID)
		return
	}
	respond.JSON(w, http.StatusOK, item)
}

type SlugHandler[T entity.Record] struct{ Res *Resource[T] }

// ServeHTTP returns one record by slug.
// @Summary      Obtener por slug
// @Tags         content
// @Produce      json
// @Param        slug path string true "Slug"
// @Success      200 {object} any
// @Failure      400 {object} respond.ErrorBody "El tipo no tiene slug"
// @Failure      404 {object} respond.ErrorBody
// @Router       /api/{resource}/slug/{slug} [get]
func (h SlugHandler[T]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	item, err := h.Res.Slice.FetchBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		respond.Failure(w, err)
		return
	}
	if !h.Res.canSee(r, item) {
		h.Res.hidden(w, h.Res.Slice.Ops().FetchBySlug)
		return
	}
	respond.JSON(w, http.StatusOK, item)
}

type CategoryHandler[T entity.Record] struct{ Res *Resource[T] }

// ServeHTTP returns the records of one category.
// @Summary      Listar por categoría
// @Tags         content
// @Produce      json
// @Param        category path string true "Categoría"
// @Success      200 {array} any
// @Failure      400 {object} respond.ErrorBody
// @Router       /api/{resource}/categoria/{category} [get]
func (h CategoryHandler[T]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	res := h.Res
	raw := r.PathValue("category")
	if !entity.IsValidCategory(res.Slice.Categories(), raw) {
		respond.JSON(w, http.StatusBadRequest, respond.ErrorBody{Error: "invalid category"})
		return
	}
	c := entity.Category(raw)

	if !res.Cached {
		items, err := res.Slice.FetchByCategory(r.Context(), c)
		if err != nil {
			respond.Failure(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, nonNil(res.visibleTo(r, items)))
		return
	}

	_, err := res.Slice.EnsureCategoryFresh(r.Context(), c, res.TTL)
	items := res.Slice.Partition(raw)
	if err != nil {
		if len(items) == 0 {
			respond.Failure(w, err)
			return
		}
		res.logger().WarnContext(r.Context(), "serving stale category after refresh failure",
			slog.String("scope", res.Slice.Scope()),
			slog.String("category", raw),
			slog.Any("error", err))
	}
	respond.JSON(w, http.StatusOK, nonNil(res.visibleTo(r, items)))
}

// hidden answers a record the reader may not see exactly like a missing one.
func (res *Resource[T]) hidden(w http.ResponseWriter, op status.Op) {
	respond.JSON(w, http.StatusNotFound, respond.ErrorBody{
		Error: res.Slice.Messages().NotFound,
		Op:    string(op),
	})
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

type StateHandler[T entity.Record] struct{ Res *Resource[T] }

// ServeHTTP returns the slice snapshot: loaded records, partitions, current
// record, pagination, filters, request status and fetch timestamps.
// @Summary      Estado del contenido
// @Tags         content
// @Produce      json
// @Success      200 {object} any
// @Router       /api/{resource}/state [get]
func (h StateHandler[T]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	v := h.Res.Slice.View()
	if h.Res.Visible != nil && !h.Res.privileged(r) {
		v = h.Res.publicView(r, v)
	}
	respond.JSON(w, http.StatusOK, v)
}

// publicView strips hidden records from a snapshot. Admin listings and
// mutations share the slice, so it may hold drafts.
func (res *Resource[T]) publicView(r *http.Request, v contentUC.View[T]) contentUC.View[T] {
	v.Items = res.visibleTo(r, v.Items)
	v.Featured = res.visibleTo(r, v.Featured)
	if v.Partitions != nil {
		parts := make(map[string][]T, len(v.Partitions))
		for k, items := range v.Partitions {
			parts[k] = res.visibleTo(r, items)
		}
		v.Partitions = parts
	}
	if v.Singletons != nil {
		singles := make(map[string]*T, len(v.Singletons))
		for k, it := range v.Singletons {
			if it != nil && res.Visible(*it) {
				singles[k] = it
			}
		}
		v.Singletons = singles
	}
	if v.Current != nil && !res.Visible(*v.Current) {
		v.Current = nil
	}
	return v
}
