package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"municipal-portal/internal/domain/entity"
	"municipal-portal/internal/repository"
)

// SettingsRepo stores the municipality information row.
type SettingsRepo struct{ db *sql.DB }

func NewSettingsRepo(db *sql.DB) repository.SettingsRepository {
	return &SettingsRepo{db: db}
}

func scanSettings(s scanner) (entity.MunicipalityInfo, error) {
	var info entity.MunicipalityInfo
	var valores []byte
	if err := s.Scan(&info.ID, &info.Historia, &info.Mision, &info.Vision, &valores, &info.UpdatedAt); err != nil {
		return info, err
	}
	return info, unmarshalJSON(valores, &info.Valores, "valores")
}

func (repo *SettingsRepo) Get(ctx context.Context) (*entity.MunicipalityInfo, error) {
	const query = `
SELECT id, historia, mision, vision, valores, updated_at
FROM municipality_info
ORDER BY updated_at DESC
LIMIT 1`
	info, err := scanSettings(repo.db.QueryRowContext(ctx, query))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return &info, nil
}

// Update writes info over the existing row. When info has no id the current
// row is updated, or a new one is inserted if none exists.
func (repo *SettingsRepo) Update(ctx context.Context, info entity.MunicipalityInfo) (entity.MunicipalityInfo, error) {
	valores, err := marshalJSON(info.Valores, "[]")
	if err != nil {
		return entity.MunicipalityInfo{}, fmt.Errorf("Update: marshal valores: %w", err)
	}

	if info.ID == "" {
		current, err := repo.Get(ctx)
		switch {
		case errors.Is(err, entity.ErrNotFound):
			return repo.insert(ctx, info, valores)
		case err != nil:
			return entity.MunicipalityInfo{}, fmt.Errorf("Update: %w", err)
		}
		info.ID = current.ID
	}

	const query = `
UPDATE municipality_info SET
       historia   = $1,
       mision     = $2,
       vision     = $3,
       valores    = $4,
       updated_at = now()
WHERE id = $5
RETURNING id, historia, mision, vision, valores, updated_at`
	updated, err := scanSettings(repo.db.QueryRowContext(ctx, query,
		info.Historia, info.Mision, info.Vision, valores, info.ID))
	if errors.Is(err, sql.ErrNoRows) {
		return entity.MunicipalityInfo{}, entity.ErrNotFound
	}
	if err != nil {
		return entity.MunicipalityInfo{}, fmt.Errorf("Update: %w", err)
	}
	return updated, nil
}

func (repo *SettingsRepo) insert(ctx context.Context, info entity.MunicipalityInfo, valores []byte) (entity.MunicipalityInfo, error) {
	const query = `
INSERT INTO municipality_info (historia, mision, vision, valores)
VALUES ($1, $2, $3, $4)
RETURNING id, historia, mision, vision, valores, updated_at`
	created, err := scanSettings(repo.db.QueryRowContext(ctx, query,
		info.Historia, info.Mision, info.Vision, valores))
	if err != nil {
		return entity.MunicipalityInfo{}, fmt.Errorf("Update: insert: %w", err)
	}
	return created, nil
}
