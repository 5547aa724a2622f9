package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name   string
		method string
		store  string
		want   string
	}{
		{name: "reports store backend", method: http.MethodGet, store: "redis", want: `{"status":"ok","store":"redis"}`},
		{name: "omits unknown backend", method: http.MethodGet, want: `{"status":"ok"}`},
		{name: "head has no body", method: http.MethodHead, store: "memory"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			healthHandler(tt.store)(rec, httptest.NewRequest(tt.method, "/healthz", nil))

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			if tt.want == "" {
				assert.Zero(t, rec.Body.Len())
				return
			}
			assert.JSONEq(t, tt.want, rec.Body.String())
		})
	}
}
