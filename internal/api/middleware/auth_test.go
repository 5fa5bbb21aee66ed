package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gatelog/server/internal/auth"
	"github.com/stretchr/testify/require"
)

func TestAdminAuthRejectsMissingKey(t *testing.T) {
	mw := AdminAuth(auth.NewAdminKeyVerifier("s3cret", ""), "test")

	w := httptest.NewRecorder()
	mw(okHandler()).ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/roster", nil))

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
	require.Contains(t, w.Header().Get("WWW-Authenticate"), "Bearer")
}

func TestAdminAuthAcceptsValidKey(t *testing.T) {
	mw := AdminAuth(auth.NewAdminKeyVerifier("s3cret", ""), "test")

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/api/v1/roster", nil)
	r.Header.Set("Authorization", "Bearer s3cret")
	mw(okHandler()).ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
}

func TestAdminAuthWithNoConfiguredKeyFailsClosed(t *testing.T) {
	mw := AdminAuth(auth.NewAdminKeyVerifier("", ""), "test")

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/api/v1/roster", nil)
	r.Header.Set("Authorization", "Bearer anything")
	mw(okHandler()).ServeHTTP(w, r)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}
