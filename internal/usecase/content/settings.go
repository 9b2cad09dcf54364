package content

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"municipal-portal/internal/domain/entity"
	"municipal-portal/internal/repository"
	"municipal-portal/internal/state/cachegate"
	"municipal-portal/internal/state/dispatch"
	"municipal-portal/internal/state/status"
	"municipal-portal/internal/utils/text"
)

// Settings operations.
const (
	OpGetMunicipalityInfo    status.Op = "getMunicipalityInfoAsync"
	OpUpdateMunicipalityInfo status.Op = "updateMunicipalityInfoAsync"
)

// Settings messages.
const (
	MsgSettingsNotFound = "Información municipal no encontrada"
	MsgSettingsUpdated  = "Información municipal actualizada correctamente"
)

// SettingsView is a read-only snapshot of the settings slice.
type SettingsView struct {
	Info        *entity.MunicipalityInfo    `json:"info"`
	Status      map[status.Op]status.Status `json:"status"`
	LastFetched map[string]int64            `json:"last_fetched"`
}

// Settings holds the municipality information record.
type Settings struct {
	repo  repository.SettingsRepository
	d     *dispatch.Dispatcher
	group singleflight.Group

	mu   sync.RWMutex
	info *entity.MunicipalityInfo
}

// NewSettings builds an empty settings slice over repo.
func NewSettings(repo repository.SettingsRepository, logger *slog.Logger, clock cachegate.Clock) *Settings {
	return &Settings{
		repo: repo,
		d:    dispatch.New("settings", cachegate.New(clock), logger),
	}
}

// Info returns the loaded record.
func (s *Settings) Info() (entity.MunicipalityInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.info == nil {
		return entity.MunicipalityInfo{}, false
	}
	return *s.info, true
}

// Status returns the tracker entry of op.
func (s *Settings) Status(op status.Op) (status.Status, bool) { return s.d.Status.Get(op) }

// View returns a snapshot of the slice.
func (s *Settings) View() SettingsView {
	v := SettingsView{
		Status:      s.d.Status.Snapshot(),
		LastFetched: s.d.Gate.Record(),
	}
	if info, ok := s.Info(); ok {
		v.Info = &info
	}
	return v
}

// Fetch loads the record.
func (s *Settings) Fetch(ctx context.Context) (entity.MunicipalityInfo, error) {
	op := dispatch.Operation{
		Name:            OpGetMunicipalityInfo,
		Kind:            dispatch.Fetch,
		Keys:            []string{KeyMunicipalityInfo},
		FailureMessage:  "Error al obtener información municipal",
		NotFoundMessage: MsgSettingsNotFound,
	}
	return dispatch.Run(ctx, s.d, op,
		func(ctx context.Context) (entity.MunicipalityInfo, error) {
			p, err := s.repo.Get(ctx)
			return deref(p, err)
		},
		s.set)
}

// EnsureFresh fetches when the record is missing or older than ttl.
func (s *Settings) EnsureFresh(ctx context.Context, ttl time.Duration) (bool, error) {
	_, loaded := s.Info()
	if !s.d.Gate.ShouldFetch(KeyMunicipalityInfo, ttl, loaded) {
		return false, nil
	}
	_, err, _ := s.group.Do(KeyMunicipalityInfo, func() (interface{}, error) {
		return s.Fetch(ctx)
	})
	return true, err
}

// Update sanitizes and validates info, then replaces the stored record.
func (s *Settings) Update(ctx context.Context, info entity.MunicipalityInfo) (entity.MunicipalityInfo, error) {
	op := dispatch.Operation{
		Name:           OpUpdateMunicipalityInfo,
		Kind:           dispatch.Mutation,
		SuccessMessage: MsgSettingsUpdated,
		FailureMessage: "Error al actualizar información municipal",
	}
	return dispatch.Run(ctx, s.d, op,
		func(ctx context.Context) (entity.MunicipalityInfo, error) {
			if err := prepareSettings(&info); err != nil {
				return entity.MunicipalityInfo{}, err
			}
			return s.repo.Update(ctx, info)
		},
		s.set)
}

func prepareSettings(info *entity.MunicipalityInfo) error {
	for field, body := range map[string]*string{
		"historia": &info.Historia,
		"mision":   &info.Mision,
		"vision":   &info.Vision,
	} {
		clean, err := text.SanitizeHTML(*body)
		if err != nil {
			return &entity.ValidationError{Field: field, Message: "contenido HTML inválido"}
		}
		*body = clean
	}
	return info.Validate()
}

func (s *Settings) set(info entity.MunicipalityInfo) {
	s.mu.Lock()
	s.info = &info
	s.mu.Unlock()
}

// ClearStatus removes the named status entries, or all of them without names.
func (s *Settings) ClearStatus(ops ...status.Op) {
	s.d.Write(func() { s.d.Status.Clear(ops...) })
}

// Reset returns the slice to its initial state.
func (s *Settings) Reset() {
	s.d.Write(func() {
		s.mu.Lock()
		s.info = nil
		s.mu.Unlock()
		s.d.Gate.Reset()
		s.d.Status.Clear()
	})
}
