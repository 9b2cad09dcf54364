package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"municipal-portal/pkg/config"
)

func TestLoadCORSConfig(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		want    []string
		wantErr bool
	}{
		{name: "unset disables CORS", env: nil, want: nil},
		{
			name: "origins",
			env:  map[string]string{"CORS_ALLOWED_ORIGINS": "https://municipio.gob.ar, http://localhost:5173"},
			want: []string{"https://municipio.gob.ar", "http://localhost:5173"},
		},
		{name: "path rejected", env: map[string]string{"CORS_ALLOWED_ORIGINS": "https://municipio.gob.ar/admin"}, wantErr: true},
		{name: "scheme rejected", env: map[string]string{"CORS_ALLOWED_ORIGINS": "ftp://municipio.gob.ar"}, wantErr: true},
		{name: "bad method", env: map[string]string{"CORS_ALLOWED_METHODS": "GET,FETCH"}, wantErr: true},
		{name: "negative max age", env: map[string]string{"CORS_MAX_AGE": "-1"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadCORSConfig(config.FromMap(tt.env))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.AllowedOrigins)
		})
	}
}

func TestCORS(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.AllowedOrigins = []string{"https://municipio.gob.ar"}
	called := 0
	h := CORS(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called++
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/servicios", nil)
		req.Header.Set("Origin", "https://municipio.gob.ar")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		assert.Equal(t, "https://municipio.gob.ar", rr.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("preflight", func(t *testing.T) {
		before := called
		req := httptest.NewRequest(http.MethodOptions, "/api/servicios", nil)
		req.Header.Set("Origin", "https://municipio.gob.ar")
		req.Header.Set("Access-Control-Request-Method", "POST")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Equal(t, "GET, POST, PUT, DELETE, OPTIONS", rr.Header().Get("Access-Control-Allow-Methods"))
		assert.Equal(t, "86400", rr.Header().Get("Access-Control-Max-Age"))
		assert.Equal(t, before, called, "preflight must not reach the handler")
	})

	t.Run("foreign origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/servicios", nil)
		req.Header.Set("Origin", "https://evil.example")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, http.StatusOK, rr.Code)
	})
}
