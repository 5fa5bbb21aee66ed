package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gatelog/server/internal/domain/access"
	"github.com/stretchr/testify/require"
)

type fakeAccessRepo struct {
	roster    map[string]string
	events    []access.EventCreateParams
	nextID    int64
	insertErr error
	logs      []access.LogEntry
	logsErr   error
}

func newFakeAccessRepo() *fakeAccessRepo {
	return &fakeAccessRepo{roster: make(map[string]string), nextID: 1}
}

func (f *fakeAccessRepo) LookupUsername(_ context.Context, uid string) (string, error) {
	if name, ok := f.roster[uid]; ok {
		return name, nil
	}
	return "", access.ErrNotFound
}

func (f *fakeAccessRepo) InsertEvent(_ context.Context, params access.EventCreateParams) (int64, error) {
	if f.insertErr != nil {
		return 0, f.insertErr
	}
	f.events = append(f.events, params)
	id := f.nextID
	f.nextID++
	return id, nil
}

func (f *fakeAccessRepo) RecentLogs(_ context.Context, limit int) ([]access.LogEntry, error) {
	if f.logsErr != nil {
		return nil, f.logsErr
	}
	if len(f.logs) > limit {
		return f.logs[:limit], nil
	}
	return f.logs, nil
}

func (f *fakeAccessRepo) StatsForDay(_ context.Context, _ time.Time) (access.DayStats, error) {
	return access.DayStats{}, nil
}

func (f *fakeAccessRepo) StatsForRange(_ context.Context, _, _ time.Time) ([]access.DayStats, error) {
	return nil, nil
}

func (f *fakeAccessRepo) DistinctUIDs(_ context.Context) ([]string, error) { return nil, nil }

func (f *fakeAccessRepo) DistinctUnauthorizedUIDs(_ context.Context) ([]string, error) {
	return nil, nil
}

func uploadBody(t *testing.T, uid, direction, device, timestamp string) *strings.Reader {
	t.Helper()
	payload, err := json.Marshal(map[string]string{
		"value1": uid,
		"value2": direction,
		"value3": device,
		"value4": timestamp,
	})
	require.NoError(t, err)
	return strings.NewReader(string(payload))
}

func TestUploadAuthorized(t *testing.T) {
	repo := newFakeAccessRepo()
	repo.roster["04AB"] = "Alice"
	h := NewAccessHandler(access.NewService(repo))

	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/upload", uploadBody(t, "04AB", "in", "door-1", "2024-01-05T08:30"))
	h.Upload(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success    bool   `json:"success"`
		Authorized bool   `json:"authorized"`
		User       string `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.True(t, resp.Authorized)
	require.Equal(t, "Alice", resp.User)

	require.Len(t, repo.events, 1)
	require.NotNil(t, repo.events[0].DeviceTime)
	require.Equal(t, 8, repo.events[0].DeviceTime.Hour())
}

func TestUploadUnknownUID(t *testing.T) {
	repo := newFakeAccessRepo()
	h := NewAccessHandler(access.NewService(repo))

	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/upload", uploadBody(t, "FFFF", "in", "door-1", ""))
	h.Upload(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success    bool   `json:"success"`
		Authorized bool   `json:"authorized"`
		User       string `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.False(t, resp.Authorized)
	require.Equal(t, "unknown", resp.User)

	// The unauthorized scan is still recorded.
	require.Len(t, repo.events, 1)
}

func TestUploadInsertFailureStays200(t *testing.T) {
	repo := newFakeAccessRepo()
	repo.insertErr = errors.New("connection reset")
	h := NewAccessHandler(access.NewService(repo))

	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/upload", uploadBody(t, "04AB", "in", "door-1", ""))
	h.Upload(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.False(t, resp.Success)
	require.Contains(t, resp.Error, "connection reset")
}

func TestUploadMalformedTimestampSucceeds(t *testing.T) {
	repo := newFakeAccessRepo()
	h := NewAccessHandler(access.NewService(repo))

	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/upload", uploadBody(t, "04AB", "in", "door-1", "not-a-timestamp"))
	h.Upload(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, repo.events, 1)
	require.Nil(t, repo.events[0].DeviceTime)

	var resp struct {
		Success bool `json:"success"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success)
}

func TestUploadMalformedBody(t *testing.T) {
	h := NewAccessHandler(access.NewService(newFakeAccessRepo()))

	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/upload", strings.NewReader("{not json"))
	h.Upload(w, r)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogsSerialization(t *testing.T) {
	alice := "Alice"
	eightThirty := time.Date(0, time.January, 1, 8, 30, 0, 0, time.UTC)

	repo := newFakeAccessRepo()
	repo.logs = []access.LogEntry{
		{ID: 2, UID: "DEAD", Direction: "in", DeviceName: "door-1", Authorized: false},
		{ID: 1, UID: "04AB", Direction: "in", DeviceName: "door-1", DeviceTime: &eightThirty, Authorized: true, Username: &alice},
	}
	h := NewAccessHandler(access.NewService(repo))

	w := httptest.NewRecorder()
	h.Logs(w, httptest.NewRequest("GET", "/logs", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	require.Len(t, rows, 2)

	require.Equal(t, float64(2), rows[0]["id"])
	require.Nil(t, rows[0]["deviceTime"])
	require.Nil(t, rows[0]["username"])
	require.Equal(t, false, rows[0]["authorized"])

	require.Equal(t, "08:30:00", rows[1]["deviceTime"])
	require.Equal(t, "Alice", rows[1]["username"])
	require.Equal(t, "door-1", rows[1]["deviceName"])
}

func TestLogsEmptyIsArray(t *testing.T) {
	h := NewAccessHandler(access.NewService(newFakeAccessRepo()))

	w := httptest.NewRecorder()
	h.Logs(w, httptest.NewRequest("GET", "/logs", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
}

func TestLogsFailureIs500WithRawText(t *testing.T) {
	repo := newFakeAccessRepo()
	repo.logsErr = errors.New("relation does not exist")
	h := NewAccessHandler(access.NewService(repo))

	w := httptest.NewRecorder()
	h.Logs(w, httptest.NewRequest("GET", "/logs", nil))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Contains(t, w.Body.String(), "relation does not exist")
}
