package content

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"municipal-portal/internal/domain/entity"
	"municipal-portal/internal/repository"
)

const (
	minYear = 1800
	maxYear = 3000
)

// statusAll disables the default status filter in the admin panel.
const statusAll = "all"

// parseFilters reads the list filters from the query string on top of defaults.
//
// Query parameters:
//   - search: free text
//   - category: one of the resource categories
//   - year: four-digit year
//   - upcoming, featured: booleans
//   - status: record status, "all" for every status; only honoured when
//     privileged, anonymous readers always get the default
func parseFilters(q url.Values, cats []entity.CategoryOption, defaults repository.Filters, privileged bool) (repository.Filters, error) {
	f := defaults
	f.Search = strings.TrimSpace(q.Get("search"))

	if c := q.Get("category"); c != "" {
		if !entity.IsValidCategory(cats, c) {
			return f, fmt.Errorf("%w: invalid category %q", entity.ErrInvalidInput, c)
		}
		f.Category = entity.Category(c)
	}
	if y := q.Get("year"); y != "" {
		year, err := strconv.Atoi(y)
		if err != nil || year < minYear || year > maxYear {
			return f, fmt.Errorf("%w: year must be between %d and %d", entity.ErrInvalidInput, minYear, maxYear)
		}
		f.Year = year
	}
	if s := q.Get("status"); s != "" && privileged {
		if s == statusAll {
			s = ""
		}
		f.Status = s
	}

	var err error
	if f.Upcoming, err = boolParam(q, "upcoming", f.Upcoming); err != nil {
		return f, err
	}
	if f.Featured, err = boolParam(q, "featured", f.Featured); err != nil {
		return f, err
	}
	return f, nil
}

func boolParam(q url.Values, name string, def *bool) (*bool, error) {
	raw := q.Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be true or false", entity.ErrInvalidInput, name)
	}
	return &v, nil
}
