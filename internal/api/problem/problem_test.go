package problem

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteSetsContentTypeAndStatus(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/api/v1/roster", nil)

	Write(w, r, 404, "https://gatelog.example/problems/not-found", "Member not found", errors.New("no row"), "production")

	require.Equal(t, 404, w.Code)
	require.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))

	var p ProblemDetails
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	require.Equal(t, "Member not found", p.Title)
	require.Equal(t, 404, p.Status)
	require.Equal(t, "/api/v1/roster", p.Instance)
	// Production must not leak the raw error string.
	require.Equal(t, "Not Found", p.Detail)
}

func TestWriteExposesDetailInDevelopment(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/api/v1/roster", nil)

	Write(w, r, 500, "about:blank", "Internal error", errors.New("pool exhausted"), "development")

	var p ProblemDetails
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	require.Equal(t, "pool exhausted", p.Detail)
}

func TestWriteWithErrorsMap(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/api/v1/roster", nil)

	Write(w, r, 422, "about:blank", "Validation failed", nil, "production",
		WithErrors(map[string]interface{}{"uid": "required"}))

	var p ProblemDetails
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	require.Equal(t, "required", p.Errors["uid"])
}
