package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gatelog/server/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestCORSAllowAllSetsWildcard(t *testing.T) {
	mw := CORS(config.CORSConfig{AllowAllOrigins: true}, zerolog.Nop())

	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/upload", nil)
	r.Header.Set("Origin", "http://device.local")

	mw(okHandler()).ServeHTTP(w, r)

	require.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	require.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
	require.Equal(t, http.StatusOK, w.Code)
}

func TestCORSAllowAllWithoutOriginHeader(t *testing.T) {
	mw := CORS(config.CORSConfig{AllowAllOrigins: true}, zerolog.Nop())

	w := httptest.NewRecorder()
	mw(okHandler()).ServeHTTP(w, httptest.NewRequest("GET", "/logs", nil))

	// Devices that never send Origin still get the permissive header.
	require.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSPreflight(t *testing.T) {
	mw := CORS(config.CORSConfig{AllowAllOrigins: true}, zerolog.Nop())

	w := httptest.NewRecorder()
	r := httptest.NewRequest("OPTIONS", "/upload", nil)
	r.Header.Set("Origin", "http://device.local")

	mw(okHandler()).ServeHTTP(w, r)

	require.Equal(t, http.StatusNoContent, w.Code)
}

func TestCORSWhitelistEchoesMatchedOrigin(t *testing.T) {
	cfg := config.CORSConfig{AllowedOrigins: []string{"https://admin.example.com"}}
	mw := CORS(cfg, zerolog.Nop())

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/api/v1/roster", nil)
	r.Header.Set("Origin", "https://ADMIN.example.com")

	mw(okHandler()).ServeHTTP(w, r)

	require.Equal(t, "https://ADMIN.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORSWhitelistRejectsUnknownOrigin(t *testing.T) {
	cfg := config.CORSConfig{AllowedOrigins: []string{"https://admin.example.com"}}
	mw := CORS(cfg, zerolog.Nop())

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/api/v1/roster", nil)
	r.Header.Set("Origin", "https://evil.example.com")

	mw(okHandler()).ServeHTTP(w, r)

	require.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	// The request itself still proceeds; CORS is enforced by the browser.
	require.Equal(t, http.StatusOK, w.Code)
}
