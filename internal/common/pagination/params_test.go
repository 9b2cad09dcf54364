package pagination_test

import (
	"errors"
	"net/url"
	"testing"

	"municipal-portal/internal/common/pagination"
)

func TestParse(t *testing.T) {
	t.Parallel()

	config := pagination.Config{
		DefaultPage:  1,
		DefaultLimit: 9,
		MaxLimit:     100,
	}

	tests := []struct {
		name      string
		query     string
		want      pagination.Params
		wantError bool
	}{
		{name: "valid parameters", query: "page=2&limit=30", want: pagination.Params{Page: 2, Limit: 30}},
		{name: "no parameters (use defaults)", query: "", want: pagination.Params{Page: 1, Limit: 9}},
		{name: "only page parameter", query: "page=3", want: pagination.Params{Page: 3, Limit: 9}},
		{name: "only limit parameter", query: "limit=4", want: pagination.Params{Page: 1, Limit: 4}},
		{name: "max limit", query: "limit=100", want: pagination.Params{Page: 1, Limit: 100}},
		{name: "page zero", query: "page=0", wantError: true},
		{name: "negative page", query: "page=-1", wantError: true},
		{name: "page not a number", query: "page=abc", wantError: true},
		{name: "limit zero", query: "limit=0", wantError: true},
		{name: "limit above max", query: "limit=101", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			q, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatal(err)
			}
			got, err := pagination.Parse(q, config)
			if tt.wantError {
				var pe *pagination.ParamError
				if !errors.As(err, &pe) {
					t.Errorf("Parse() error = %v, want *ParamError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse() unexpected error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Parse() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParams_WithDefaults(t *testing.T) {
	t.Parallel()

	config := pagination.DefaultConfig()
	tests := []struct {
		name string
		in   pagination.Params
		want pagination.Params
	}{
		{"zero values", pagination.Params{}, pagination.Params{Page: 1, Limit: 9}},
		{"keeps valid", pagination.Params{Page: 4, Limit: 4}, pagination.Params{Page: 4, Limit: 4}},
		{"caps limit", pagination.Params{Page: 2, Limit: 500}, pagination.Params{Page: 2, Limit: 100}},
		{"negative page", pagination.Params{Page: -3, Limit: 9}, pagination.Params{Page: 1, Limit: 9}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.in.WithDefaults(config); got != tt.want {
				t.Errorf("WithDefaults() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParamError_Message(t *testing.T) {
	t.Parallel()

	cases := map[string]*pagination.ParamError{
		"invalid query parameter: page must be a positive integer": {Param: "page", Value: "x"},
		"invalid query parameter: limit must be between 1 and 50":  {Param: "limit", Value: "90", Max: 50},
	}
	for want, e := range cases {
		if got := e.Error(); got != want {
			t.Errorf("Error() = %q, want %q", got, want)
		}
	}
}
