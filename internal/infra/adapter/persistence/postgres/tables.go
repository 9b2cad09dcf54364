package postgres

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"municipal-portal/internal/domain/entity"
	"municipal-portal/internal/repository"
)

func marshalJSON(v any, empty string) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if string(b) == "null" {
		return []byte(empty), nil
	}
	return b, nil
}

func unmarshalJSON(raw []byte, out any, column string) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("unmarshal %s: %w", column, err)
	}
	return nil
}

// NewNewsRepo returns the repository of the "novedades" section.
func NewNewsRepo(db *sql.DB) repository.ContentRepository[entity.News] {
	return newContentRepo(db, newsTable)
}

var newsTable = table[entity.News]{
	name: "news",
	columns: []string{
		"id", "title", "slug", "excerpt", "content", "featured_image_url", "category",
		"is_featured", "published_at", "created_by", "status", "attachments", "created_at", "updated_at",
	},
	writable: []string{
		"title", "slug", "excerpt", "content", "featured_image_url", "category",
		"is_featured", "published_at", "created_by", "status", "attachments",
	},
	slug: "slug",
	filters: filterColumns{
		search:   []string{"title", "excerpt", "content"},
		yearFrom: "published_at",
		status:   "status",
		featured: "is_featured",
	},
	order: "published_at DESC NULLS LAST, created_at DESC",
	scan: func(s scanner) (entity.News, error) {
		var n entity.News
		var attachments []byte
		if err := s.Scan(
			&n.ID, &n.Title, &n.Slug, &n.Excerpt, &n.Content, &n.FeaturedImageURL, &n.Category,
			&n.IsFeatured, &n.PublishedAt, &n.CreatedBy, &n.Status, &attachments, &n.CreatedAt, &n.UpdatedAt,
		); err != nil {
			return n, err
		}
		return n, unmarshalJSON(attachments, &n.Attachments, "attachments")
	},
	values: func(n entity.News) ([]any, error) {
		attachments, err := marshalJSON(n.Attachments, "[]")
		if err != nil {
			return nil, fmt.Errorf("marshal attachments: %w", err)
		}
		return []any{
			n.Title, n.Slug, n.Excerpt, n.Content, n.FeaturedImageURL, string(n.Category),
			n.IsFeatured, n.PublishedAt, n.CreatedBy, string(n.Status), attachments,
		}, nil
	},
}

// NewEventRepo returns the repository of the agenda.
func NewEventRepo(db *sql.DB) repository.ContentRepository[entity.Event] {
	return newContentRepo(db, eventTable)
}

var eventTable = table[entity.Event]{
	name: "events",
	columns: []string{
		"id", "title", "slug", "description", "location", "start_date", "end_date",
		"category", "image_url", "is_featured", "created_at", "updated_at",
	},
	writable: []string{
		"title", "slug", "description", "location", "start_date", "end_date",
		"category", "image_url", "is_featured",
	},
	slug: "slug",
	filters: filterColumns{
		search:   []string{"title", "description", "location"},
		yearFrom: "start_date",
		starts:   "start_date",
		ends:     "end_date",
		featured: "is_featured",
	},
	order:     "start_date ASC",
	pastOrder: "start_date DESC",
	scan: func(s scanner) (entity.Event, error) {
		var e entity.Event
		err := s.Scan(
			&e.ID, &e.Title, &e.Slug, &e.Description, &e.Location, &e.StartDate, &e.EndDate,
			&e.Category, &e.ImageURL, &e.IsFeatured, &e.CreatedAt, &e.UpdatedAt,
		)
		return e, err
	},
	values: func(e entity.Event) ([]any, error) {
		return []any{
			e.Title, e.Slug, e.Description, e.Location, e.StartDate, e.EndDate,
			string(e.Category), e.ImageURL, e.IsFeatured,
		}, nil
	},
}

// NewServiceRepo returns the repository of municipal services.
func NewServiceRepo(db *sql.DB) repository.ContentRepository[entity.Service] {
	return newContentRepo(db, serviceTable)
}

var serviceTable = table[entity.Service]{
	name: "services",
	columns: []string{
		"id", "title", "slug", "description", "category", "icon", "image_url",
		"contact_info", "requirements", "is_active", "order_position", "created_at", "updated_at",
	},
	writable: []string{
		"title", "slug", "description", "category", "icon", "image_url",
		"contact_info", "requirements", "is_active", "order_position",
	},
	slug: "slug",
	filters: filterColumns{
		search: []string{"title", "description"},
	},
	order: "order_position ASC, title ASC",
	scan: func(s scanner) (entity.Service, error) {
		var svc entity.Service
		var contact, requirements []byte
		if err := s.Scan(
			&svc.ID, &svc.Title, &svc.Slug, &svc.Description, &svc.Category, &svc.Icon, &svc.ImageURL,
			&contact, &requirements, &svc.IsActive, &svc.OrderPosition, &svc.CreatedAt, &svc.UpdatedAt,
		); err != nil {
			return svc, err
		}
		if len(contact) > 0 && string(contact) != "null" {
			svc.ContactInfo = &entity.ServiceContactInfo{}
			if err := unmarshalJSON(contact, svc.ContactInfo, "contact_info"); err != nil {
				return svc, err
			}
		}
		return svc, unmarshalJSON(requirements, &svc.Requirements, "requirements")
	},
	values: func(svc entity.Service) ([]any, error) {
		var contact []byte
		if svc.ContactInfo != nil {
			b, err := json.Marshal(svc.ContactInfo)
			if err != nil {
				return nil, fmt.Errorf("marshal contact_info: %w", err)
			}
			contact = b
		}
		requirements, err := marshalJSON(svc.Requirements, "[]")
		if err != nil {
			return nil, fmt.Errorf("marshal requirements: %w", err)
		}
		return []any{
			svc.Title, svc.Slug, svc.Description, string(svc.Category), svc.Icon, svc.ImageURL,
			contact, requirements, svc.IsActive, svc.OrderPosition,
		}, nil
	},
}

// NewAuthorityRepo returns the repository of municipal authorities.
// Authorities have no slug; GetBySlug always fails with entity.ErrInvalidInput.
func NewAuthorityRepo(db *sql.DB) repository.ContentRepository[entity.Authority] {
	return newContentRepo(db, authorityTable)
}

var authorityTable = table[entity.Authority]{
	name: "authorities",
	columns: []string{
		"id", "full_name", "position", "department", "bio", "photo_url", "email", "phone",
		"order_position", "category", "is_active", "created_at", "updated_at",
	},
	writable: []string{
		"full_name", "position", "department", "bio", "photo_url", "email", "phone",
		"order_position", "category", "is_active",
	},
	filters: filterColumns{
		search: []string{"full_name", "position", "department"},
	},
	order: "order_position ASC, full_name ASC",
	scan: func(s scanner) (entity.Authority, error) {
		var a entity.Authority
		err := s.Scan(
			&a.ID, &a.FullName, &a.Position, &a.Department, &a.Bio, &a.PhotoURL, &a.Email, &a.Phone,
			&a.OrderPosition, &a.Category, &a.IsActive, &a.CreatedAt, &a.UpdatedAt,
		)
		return a, err
	},
	values: func(a entity.Authority) ([]any, error) {
		return []any{
			a.FullName, a.Position, a.Department, a.Bio, a.PhotoURL, a.Email, a.Phone,
			a.OrderPosition, string(a.Category), a.IsActive,
		}, nil
	},
}

// NewRegulationRepo returns the repository of the "normativa" section.
func NewRegulationRepo(db *sql.DB) repository.ContentRepository[entity.Regulation] {
	return newContentRepo(db, regulationTable)
}

var regulationTable = table[entity.Regulation]{
	name: "regulations",
	columns: []string{
		"id", "title", "slug", "number", "year", "category", "description",
		"file_url", "published_at", "created_at", "updated_at",
	},
	writable: []string{
		"title", "slug", "number", "year", "category", "description", "file_url", "published_at",
	},
	slug: "slug",
	filters: filterColumns{
		search: []string{"title", "number", "description"},
		year:   "year",
	},
	order: "year DESC, number DESC",
	scan: func(s scanner) (entity.Regulation, error) {
		var r entity.Regulation
		err := s.Scan(
			&r.ID, &r.Title, &r.Slug, &r.Number, &r.Year, &r.Category, &r.Description,
			&r.FileURL, &r.PublishedAt, &r.CreatedAt, &r.UpdatedAt,
		)
		return r, err
	},
	values: func(r entity.Regulation) ([]any, error) {
		return []any{
			r.Title, r.Slug, r.Number, r.Year, string(r.Category), r.Description, r.FileURL, r.PublishedAt,
		}, nil
	},
}

// NewContactRepo returns the repository of the contact directory.
// Contacts have no slug; GetBySlug always fails with entity.ErrInvalidInput.
func NewContactRepo(db *sql.DB) repository.ContentRepository[entity.Contact] {
	return newContentRepo(db, contactTable)
}

var contactTable = table[entity.Contact]{
	name: "contacts",
	columns: []string{
		"id", "department", "description", "phone", "email", "address", "hours",
		"category", "order_position", "is_active", "created_at", "updated_at",
	},
	writable: []string{
		"department", "description", "phone", "email", "address", "hours",
		"category", "order_position", "is_active",
	},
	filters: filterColumns{
		search: []string{"department", "description"},
	},
	order: "order_position ASC, department ASC",
	scan: func(s scanner) (entity.Contact, error) {
		var c entity.Contact
		err := s.Scan(
			&c.ID, &c.Department, &c.Description, &c.Phone, &c.Email, &c.Address, &c.Hours,
			&c.Category, &c.OrderPosition, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
		)
		return c, err
	},
	values: func(c entity.Contact) ([]any, error) {
		return []any{
			c.Department, c.Description, c.Phone, c.Email, c.Address, c.Hours,
			string(c.Category), c.OrderPosition, c.IsActive,
		}, nil
	},
}
