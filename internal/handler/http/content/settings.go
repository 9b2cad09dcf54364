package content

import (
	"log/slog"
	"net/http"
	"time"

	"municipal-portal/internal/domain/entity"
	"municipal-portal/internal/handler/http/respond"
	contentUC "municipal-portal/internal/usecase/content"
)

type settingsResponse struct {
	Data    entity.MunicipalityInfo `json:"data"`
	Message string                  `json:"message,omitempty" example:"Información municipal actualizada correctamente"`
}

// RegisterSettings mounts the municipality information routes under base.
func RegisterSettings(mux *http.ServeMux, base string, settings *contentUC.Settings, ttl time.Duration, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	mux.Handle("GET "+base, SettingsHandler{settings, ttl, logger})
	mux.Handle("PUT "+base, UpdateSettingsHandler{settings, logger})
	mux.Handle("GET "+base+"/state", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, http.StatusOK, settings.View())
	}))
	mux.Handle("DELETE "+base+"/state/status", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		settings.ClearStatus()
		w.WriteHeader(http.StatusNoContent)
	}))
}

type SettingsHandler struct {
	Settings *contentUC.Settings
	TTL      time.Duration
	Logger   *slog.Logger
}

// ServeHTTP returns the municipality information.
// @Summary      Información municipal
// @Tags         municipio
// @Produce      json
// @Success      200 {object} entity.MunicipalityInfo
// @Failure      404 {object} respond.ErrorBody
// @Router       /api/municipio [get]
func (h SettingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_, err := h.Settings.EnsureFresh(r.Context(), h.TTL)
	info, ok := h.Settings.Info()
	if err != nil {
		if !ok {
			respond.Failure(w, err)
			return
		}
		h.Logger.WarnContext(r.Context(), "serving stale municipality info", slog.Any("error", err))
	}
	if !ok {
		respond.JSON(w, http.StatusNotFound, respond.ErrorBody{
			Error: contentUC.MsgSettingsNotFound,
			Op:    string(contentUC.OpGetMunicipalityInfo),
		})
		return
	}
	respond.JSON(w, http.StatusOK, info)
}

type UpdateSettingsHandler struct {
	Settings *contentUC.Settings
	Logger   *slog.Logger
}

// ServeHTTP replaces the municipality information.
// @Summary      Actualizar información municipal
// @Tags         municipio
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body entity.MunicipalityInfo true "Información"
// @Success      200 {object} settingsResponse
// @Failure      400 {object} respond.ErrorBody
// @Router       /api/municipio [put]
func (h UpdateSettingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	info, ok := decodeBody[entity.MunicipalityInfo](w, r)
	if !ok {
		return
	}
	updated, err := h.Settings.Update(r.Context(), info)
	if err != nil {
		respond.Failure(w, err)
		return
	}
	h.Logger.InfoContext(r.Context(), "municipality info updated")
	respond.JSON(w, http.StatusOK, settingsResponse{Data: updated, Message: contentUC.MsgSettingsUpdated})
}
