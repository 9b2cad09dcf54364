package repository

import (
	"context"

	"municipal-portal/internal/domain/entity"
)

// SettingsRepository stores the single municipality information record.
type SettingsRepository interface {
	// Get returns entity.ErrNotFound when the record was never created.
	Get(ctx context.Context) (*entity.MunicipalityInfo, error)
	Update(ctx context.Context, info entity.MunicipalityInfo) (entity.MunicipalityInfo, error)
}
