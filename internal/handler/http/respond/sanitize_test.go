package respond

import (
	"errors"
	"strings"
	"testing"
)

func TestSanitizeError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		want    string
		mustNot string
	}{
		{"nil", nil, "", ""},
		{"url dsn", errors.New("connect postgres://portal:s3cr3t@db:5432/portal failed"), "postgres://portal:****@db:5432/portal", "s3cr3t"},
		{"key value dsn", errors.New("host=db user=portal password=s3cr3t dbname=portal"), "password=****", "s3cr3t"},
		{"jwt", errors.New("bad token eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiJ4In0.c2ln"), "bad token ****", "eyJ"},
		{"plain", errors.New("timeout"), "timeout", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeError(tt.err)
			if !strings.Contains(got, tt.want) {
				t.Errorf("SanitizeError() = %q, want it to contain %q", got, tt.want)
			}
			if tt.mustNot != "" && strings.Contains(got, tt.mustNot) {
				t.Errorf("SanitizeError() = %q still contains %q", got, tt.mustNot)
			}
		})
	}
}
