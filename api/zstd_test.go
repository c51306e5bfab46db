package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAcceptsZstd(t *testing.T) {
	t.Parallel()

	tests := []struct {
		header string
		want   bool
	}{
		{"", false},
		{"gzip, br", false},
		{"zstd", true},
		{"gzip, zstd", true},
		{"ZSTD", true},
		{"zstd;q=0.5", true},
		{"zstd; q=1.0", true},
		{"zstd;q=0", false},
		{"gzip, zstd;q=0.000", false},
		{"zstd;q=abc", false},
		{"*", true},
		{"*;q=0", false},
		{"*, zstd;q=0", false},
		{"zstd;q=0, *", false},
		{"xzstd", false},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, acceptsZstd(tt.header))
		})
	}
}

func TestZstdMiddlewareRefusedEncoding(t *testing.T) {
	t.Parallel()

	h, _ := newTestServer(t, true)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dates", nil)
	req.Header.Set("Accept-Encoding", "gzip, zstd;q=0")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Content-Encoding"))
	assert.Contains(t, rec.Header().Values("Vary"), "Accept-Encoding")
	assert.Contains(t, rec.Body.String(), "2023-09-01")
}
