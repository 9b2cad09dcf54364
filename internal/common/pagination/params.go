package pagination

import (
	"fmt"
	"net/url"
	"strconv"
)

// Params is a requested page. Page is 1-based.
type Params struct {
	Page  int
	Limit int
}

// ParamError reports an unusable page or limit value.
type ParamError struct {
	Param string
	Value string
	Max   int
}

func (e *ParamError) Error() string {
	if e.Max > 0 {
		return fmt.Sprintf("invalid query parameter: %s must be between 1 and %d", e.Param, e.Max)
	}
	return fmt.Sprintf("invalid query parameter: %s must be a positive integer", e.Param)
}

// Parse reads "page" and "limit" from q. Absent values take the config defaults;
// present but malformed values are a *ParamError, never silently corrected.
func Parse(q url.Values, config Config) (Params, error) {
	params := Params{Page: config.DefaultPage, Limit: config.DefaultLimit}

	if v := q.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			return params, &ParamError{Param: "page", Value: v}
		}
		params.Page = page
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 || (config.MaxLimit > 0 && limit > config.MaxLimit) {
			return params, &ParamError{Param: "limit", Value: v, Max: config.MaxLimit}
		}
		params.Limit = limit
	}
	return params, nil
}

// WithDefaults fills zero or out-of-range values from config.
func (p Params) WithDefaults(config Config) Params {
	if p.Page <= 0 {
		p.Page = config.DefaultPage
	}
	if p.Limit <= 0 {
		p.Limit = config.DefaultLimit
	}
	if config.MaxLimit > 0 && p.Limit > config.MaxLimit {
		p.Limit = config.MaxLimit
	}
	return p
}

// Offset returns the SQL OFFSET for p.
func (p Params) Offset() int {
	return CalculateOffset(p.Page, p.Limit)
}
