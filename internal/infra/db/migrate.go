package db

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
)

//go:embed seeds/municipality.sql
var seedMunicipalitySQL string

// tables lists the portal schema in creation order.
var tables = []struct {
	name string
	ddl  string
}{
	{"news", `
CREATE TABLE IF NOT EXISTS news (
    id                 UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    title              TEXT NOT NULL,
    slug               TEXT NOT NULL UNIQUE,
    excerpt            TEXT NOT NULL DEFAULT '',
    content            TEXT NOT NULL,
    featured_image_url TEXT NOT NULL DEFAULT '',
    category           VARCHAR(40) NOT NULL DEFAULT '',
    is_featured        BOOLEAN NOT NULL DEFAULT FALSE,
    published_at       TIMESTAMPTZ,
    created_by         TEXT NOT NULL DEFAULT '',
    status             VARCHAR(20) NOT NULL DEFAULT 'draft',
    attachments        JSONB NOT NULL DEFAULT '[]'::jsonb,
    created_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at         TIMESTAMPTZ NOT NULL DEFAULT now()
)`},
	{"events", `
CREATE TABLE IF NOT EXISTS events (
    id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    title       TEXT NOT NULL,
    slug        TEXT NOT NULL UNIQUE,
    description TEXT NOT NULL,
    location    TEXT NOT NULL DEFAULT '',
    start_date  TIMESTAMPTZ NOT NULL,
    end_date    TIMESTAMPTZ,
    category    VARCHAR(40) NOT NULL DEFAULT '',
    image_url   TEXT NOT NULL DEFAULT '',
    is_featured BOOLEAN NOT NULL DEFAULT FALSE,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`},
	{"services", `
CREATE TABLE IF NOT EXISTS services (
    id             UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    title          TEXT NOT NULL,
    slug           TEXT NOT NULL UNIQUE,
    description    TEXT NOT NULL,
    category       VARCHAR(40) NOT NULL,
    icon           TEXT NOT NULL DEFAULT '',
    image_url      TEXT NOT NULL DEFAULT '',
    contact_info   JSONB,
    requirements   JSONB NOT NULL DEFAULT '[]'::jsonb,
    is_active      BOOLEAN NOT NULL DEFAULT TRUE,
    order_position INTEGER NOT NULL DEFAULT 0,
    created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
)`},
	{"authorities", `
CREATE TABLE IF NOT EXISTS authorities (
    id             UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    full_name      TEXT NOT NULL,
    position       TEXT NOT NULL,
    department     TEXT NOT NULL DEFAULT '',
    bio            TEXT NOT NULL DEFAULT '',
    photo_url      TEXT NOT NULL DEFAULT '',
    email          TEXT NOT NULL DEFAULT '',
    phone          TEXT NOT NULL DEFAULT '',
    order_position INTEGER NOT NULL DEFAULT 0,
    category       VARCHAR(40) NOT NULL,
    is_active      BOOLEAN NOT NULL DEFAULT TRUE,
    created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
)`},
	{"regulations", `
CREATE TABLE IF NOT EXISTS regulations (
    id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    title        TEXT NOT NULL,
    slug         TEXT NOT NULL UNIQUE,
    number       TEXT NOT NULL,
    year         INTEGER NOT NULL,
    category     VARCHAR(40) NOT NULL,
    description  TEXT NOT NULL DEFAULT '',
    file_url     TEXT NOT NULL DEFAULT '',
    published_at TIMESTAMPTZ,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
)`},
	{"contacts", `
CREATE TABLE IF NOT EXISTS contacts (
    id             UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    department     TEXT NOT NULL,
    description    TEXT NOT NULL DEFAULT '',
    phone          TEXT NOT NULL DEFAULT '',
    email          TEXT NOT NULL DEFAULT '',
    address        TEXT NOT NULL DEFAULT '',
    hours          TEXT NOT NULL DEFAULT '',
    category       VARCHAR(40) NOT NULL,
    order_position INTEGER NOT NULL DEFAULT 0,
    is_active      BOOLEAN NOT NULL DEFAULT TRUE,
    created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
)`},
	{"municipality_info", `
CREATE TABLE IF NOT EXISTS municipality_info (
    id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    historia   TEXT NOT NULL DEFAULT '',
    mision     TEXT NOT NULL DEFAULT '',
    vision     TEXT NOT NULL DEFAULT '',
    valores    JSONB NOT NULL DEFAULT '[]'::jsonb,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`},
}

var indexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_news_published_at ON news(published_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_news_category ON news(category)`,
	`CREATE INDEX IF NOT EXISTS idx_news_featured ON news(is_featured) WHERE is_featured = TRUE`,
	`CREATE INDEX IF NOT EXISTS idx_events_start_date ON events(start_date)`,
	`CREATE INDEX IF NOT EXISTS idx_services_category ON services(category, order_position)`,
	`CREATE INDEX IF NOT EXISTS idx_authorities_category ON authorities(category, order_position)`,
	`CREATE INDEX IF NOT EXISTS idx_regulations_year ON regulations(year DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_contacts_category ON contacts(category, order_position)`,
}

// searchIndexes need pg_trgm; failures are ignored when the extension is unavailable.
var searchIndexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_news_title_gin ON news USING gin(title gin_trgm_ops)`,
	`CREATE INDEX IF NOT EXISTS idx_regulations_title_gin ON regulations USING gin(title gin_trgm_ops)`,
}

// MigrateUp creates the portal schema and seeds the municipality record.
// Every statement is idempotent.
func MigrateUp(ctx context.Context, db *sql.DB) error {
	for _, t := range tables {
		if _, err := db.ExecContext(ctx, t.ddl); err != nil {
			return fmt.Errorf("create table %s: %w", t.name, err)
		}
	}

	for _, idx := range indexes {
		if _, err := db.ExecContext(ctx, idx); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}

	_, _ = db.ExecContext(ctx, `CREATE EXTENSION IF NOT EXISTS pg_trgm`)
	for _, idx := range searchIndexes {
		_, _ = db.ExecContext(ctx, idx)
	}

	if _, err := db.ExecContext(ctx, seedMunicipalitySQL); err != nil {
		return fmt.Errorf("seed municipality_info: %w", err)
	}
	return nil
}

// MigrateDown drops every portal table. All content is lost.
func MigrateDown(ctx context.Context, db *sql.DB) error {
	for i := len(tables) - 1; i >= 0; i-- {
		if _, err := db.ExecContext(ctx, "DROP TABLE IF EXISTS "+tables[i].name+" CASCADE"); err != nil {
			return fmt.Errorf("drop table %s: %w", tables[i].name, err)
		}
	}
	return nil
}
