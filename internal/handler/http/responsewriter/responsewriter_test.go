package responsewriter

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestResponseWriter(t *testing.T) {
	tests := []struct {
		name       string
		handler    func(w http.ResponseWriter)
		wantStatus int
		wantBytes  int
	}{
		{
			name:       "implicit 200",
			handler:    func(w http.ResponseWriter) { _, _ = w.Write([]byte("hola")) },
			wantStatus: http.StatusOK,
			wantBytes:  4,
		},
		{
			name: "first status wins",
			handler: func(w http.ResponseWriter) {
				w.WriteHeader(http.StatusNotFound)
				w.WriteHeader(http.StatusInternalServerError)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name: "status then body",
			handler: func(w http.ResponseWriter) {
				w.WriteHeader(http.StatusCreated)
				_, _ = w.Write([]byte("{}"))
				_, _ = w.Write([]byte("\n"))
			},
			wantStatus: http.StatusCreated,
			wantBytes:  3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			w := Wrap(rec)
			tt.handler(w)

			if w.StatusCode() != tt.wantStatus {
				t.Errorf("StatusCode() = %d, want %d", w.StatusCode(), tt.wantStatus)
			}
			if rec.Code != tt.wantStatus {
				t.Errorf("recorded code = %d, want %d", rec.Code, tt.wantStatus)
			}
			if w.BytesWritten() != tt.wantBytes {
				t.Errorf("BytesWritten() = %d, want %d", w.BytesWritten(), tt.wantBytes)
			}
		})
	}
}

func TestWrap_Idempotent(t *testing.T) {
	w := Wrap(httptest.NewRecorder())
	if Wrap(w) != w {
		t.Error("wrapping twice must return the same writer")
	}
}

func TestUnwrap(t *testing.T) {
	rec := httptest.NewRecorder()
	if Wrap(rec).Unwrap() != rec {
		t.Error("Unwrap must return the original writer")
	}
}
