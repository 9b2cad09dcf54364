package content

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"municipal-portal/internal/domain/entity"
	"municipal-portal/internal/handler/http/respond"
	"municipal-portal/internal/state/status"
)

// mutationResponse carries the record and the confirmation shown in the panel.
type mutationResponse[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message,omitempty" example:"Servicio creado correctamente"`
}

type deleteResponse struct {
	ID      string `json:"id" example:"4f1c2a9e-8d0b-4b8f-9a57-3c1e2d5f6a7b"`
	Message string `json:"message,omitempty" example:"Servicio eliminado correctamente"`
}

func decodeBody[T any](w http.ResponseWriter, r *http.Request) (T, bool) {
	var item T
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&item); err != nil {
		respond.JSON(w, http.StatusBadRequest, respond.ErrorBody{Error: "invalid request body"})
		return item, false
	}
	return item, true
}

type CreateHandler[T entity.Record] struct{ Res *Resource[T] }

// ServeHTTP creates a record.
// @Summary      Crear
// @Tags         content
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body object true "Registro"
// @Success      201 {object} any
// @Failure      400 {object} respond.ErrorBody
// @Failure      401 {object} respond.ErrorBody
// @Failure      403 {object} respond.ErrorBody
// @Router       /api/{resource} [post]
func (h CreateHandler[T]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	item, ok := decodeBody[T](w, r)
	if !ok {
		return
	}
	created, err := h.Res.Slice.Create(r.Context(), item)
	if err != nil {
		respond.Failure(w, err)
		return
	}
	h.Res.logger().InfoContext(r.Context(), "content created",
		slog.String("scope", h.Res.Slice.Scope()),
		slog.String("id", created.RecordID()))
	respond.JSON(w, http.StatusCreated, mutationResponse[T]{
		Data:    created,
		Message: h.Res.Slice.Messages().Created,
	})
}

type UpdateHandler[T entity.Record] struct{ Res *Resource[T] }

// ServeHTTP replaces a record.
// @Summary      Actualizar
// @Tags         content
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id      path string true "ID"
// @Param        request body object true "Registro"
// @Success      200 {object} any
// @Failure      400 {object} respond.ErrorBody
// @Failure      404 {object} respond.ErrorBody
// @Router       /api/{resource}/{id} [put]
func (h UpdateHandler[T]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	item, ok := decodeBody[T](w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")
	updated, err := h.Res.Slice.Update(r.Context(), id, item)
	if err != nil {
		respond.Failure(w, err)
		return
	}
	h.Res.logger().InfoContext(r.Context(), "content updated",
		slog.String("scope", h.Res.Slice.Scope()),
		slog.String("id", id))
	respond.JSON(w, http.StatusOK, mutationResponse[T]{
		Data:    updated,
		Message: h.Res.Slice.Messages().Updated,
	})
}

type DeleteHandler[T entity.Record] struct{ Res *Resource[T] }

// ServeHTTP deletes a record.
// @Summary      Eliminar
// @Tags         content
// @Security     BearerAuth
// @Produce      json
// @Param        id path string true "ID"
// @Success      200 {object} deleteResponse
// @Failure      404 {object} respond.ErrorBody
// @Router       /api/{resource}/{id} [delete]
func (h DeleteHandler[T]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := h.Res.Slice.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		respond.Failure(w, err)
		return
	}
	h.Res.logger().InfoContext(r.Context(), "content deleted",
		slog.String("scope", h.Res.Slice.Scope()),
		slog.String("id", id))
	respond.JSON(w, http.StatusOK, deleteResponse{
		ID:      id,
		Message: h.Res.Slice.Messages().Deleted,
	})
}

type ClearStatusHandler[T entity.Record] struct{ Res *Resource[T] }

// ServeHTTP clears one status entry, or all of them without {op}.
// @Summary      Limpiar estado
// @Tags         content
// @Security     BearerAuth
// @Param        op path string false "Operación, p. ej. getServicesAsync"
// @Success      204
// @Router       /api/{resource}/state/status/{op} [delete]
func (h ClearStatusHandler[T]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if op := r.PathValue("op"); op != "" {
		h.Res.Slice.ClearStatus(status.Op(op))
	} else {
		h.Res.Slice.ClearStatus()
	}
	w.WriteHeader(http.StatusNoContent)
}
