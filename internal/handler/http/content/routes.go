package content

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"municipal-portal/internal/common/pagination"
	"municipal-portal/internal/config"
	"municipal-portal/internal/domain/entity"
	"municipal-portal/internal/repository"
	contentUC "municipal-portal/internal/usecase/content"
)

// Base paths of the public API.
const (
	PathNews         = "/api/novedades"
	PathEvents       = "/api/agenda"
	PathServices     = "/api/servicios"
	PathAuthorities  = "/api/autoridades"
	PathRegulations  = "/api/normativa"
	PathContacts     = "/api/contactos"
	PathMunicipality = "/api/municipio"
)

// ListPaths are the public list and search routes, the ones worth rate limiting.
func ListPaths() []string {
	return []string{PathNews, PathEvents, PathServices, PathAuthorities, PathRegulations, PathContacts}
}

// Portal is the set of content slices served by the API.
type Portal struct {
	Services    *contentUC.Slice[entity.Service]
	Authorities *contentUC.Slice[entity.Authority]
	Contacts    *contentUC.Slice[entity.Contact]
	News        *contentUC.Slice[entity.News]
	Events      *contentUC.Slice[entity.Event]
	Regulations *contentUC.Slice[entity.Regulation]
	Settings    *contentUC.Settings
}

// RouteConfig carries the request-independent settings of the routes.
type RouteConfig struct {
	TTL        config.CacheTTL
	Pagination pagination.Config
	Feed       FeedInfo
	Logger     *slog.Logger
	// Privileged marks requests allowed to see unpublished records.
	Privileged func(r *http.Request) bool
}

// RegisterPortal mounts every content route on mux.
func RegisterPortal(mux *http.ServeMux, p Portal, cfg RouteConfig) {
	news := &Resource[entity.News]{
		Slice:      p.News,
		TTL:        cfg.TTL.FeaturedNews,
		Defaults:   repository.Filters{Status: string(entity.NewsPublished)},
		Pagination: cfg.Pagination,
		Logger:     cfg.Logger,
		Visible:    func(n entity.News) bool { return n.Status == entity.NewsPublished },
		Privileged: cfg.Privileged,
	}
	// Literal segments win over {id}, so these must not clash with record ids.
	mux.Handle("GET "+PathNews+"/destacadas", FeaturedHandler{news})
	mux.Handle("GET "+PathNews+"/rss", RSSHandler{Res: news, Feed: cfg.Feed})
	Register(mux, PathNews, news)

	Register(mux, PathEvents, &Resource[entity.Event]{
		Slice:      p.Events,
		Defaults:   repository.Filters{Upcoming: boolPtr(true)},
		Adjust:     agendaFilters,
		Pagination: cfg.Pagination,
		Logger:     cfg.Logger,
	})
	Register(mux, PathRegulations, &Resource[entity.Regulation]{
		Slice:      p.Regulations,
		Pagination: cfg.Pagination,
		Logger:     cfg.Logger,
	})

	Register(mux, PathServices, &Resource[entity.Service]{
		Slice:  p.Services,
		Cached: true,
		TTL:    cfg.TTL.Services,
		Match: func(s entity.Service, term string) bool {
			return containsTerm(term, s.Title, s.Description)
		},
		Pagination: cfg.Pagination,
		Logger:     cfg.Logger,
	})
	Register(mux, PathAuthorities, &Resource[entity.Authority]{
		Slice:  p.Authorities,
		Cached: true,
		TTL:    cfg.TTL.Authorities,
		Match: func(a entity.Authority, term string) bool {
			return containsTerm(term, a.FullName, a.Position, a.Department)
		},
		Pagination: cfg.Pagination,
		Logger:     cfg.Logger,
	})
	Register(mux, PathContacts, &Resource[entity.Contact]{
		Slice:  p.Contacts,
		Cached: true,
		TTL:    cfg.TTL.Contacts,
		Match: func(c entity.Contact, term string) bool {
			return containsTerm(term, c.Department, c.Description, c.Phone, c.Email)
		},
		Pagination: cfg.Pagination,
		Logger:     cfg.Logger,
	})

	RegisterSettings(mux, PathMunicipality, p.Settings, cfg.TTL.Settings, cfg.Logger)
}

// agendaFilters honours the "pasados" toggle of the agenda page.
func agendaFilters(q url.Values, f repository.Filters) (repository.Filters, error) {
	raw := q.Get("pasados")
	if raw == "" {
		return f, nil
	}
	showPast, err := strconv.ParseBool(raw)
	if err != nil {
		return f, fmt.Errorf("%w: pasados must be true or false", entity.ErrInvalidInput)
	}
	return contentUC.AgendaFilters(showPast, f), nil
}

// containsTerm reports whether any field contains the slugified term.
func containsTerm(term string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(entity.Slugify(f), term) {
			return true
		}
	}
	return false
}

func boolPtr(b bool) *bool { return &b }
