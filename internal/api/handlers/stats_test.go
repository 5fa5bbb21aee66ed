package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gatelog/server/internal/domain/access"
	"github.com/stretchr/testify/require"
)

type statsRepo struct {
	fakeAccessRepo
	byDay map[string]access.DayStats
	uids  []string
}

func (f *statsRepo) StatsForDay(_ context.Context, day time.Time) (access.DayStats, error) {
	key := day.Format("2006-01-02")
	if stats, ok := f.byDay[key]; ok {
		return stats, nil
	}
	return access.DayStats{Date: day}, nil
}

func (f *statsRepo) StatsForRange(_ context.Context, start, end time.Time) ([]access.DayStats, error) {
	var out []access.DayStats
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if stats, ok := f.byDay[day.Format("2006-01-02")]; ok {
			out = append(out, stats)
		}
	}
	return out, nil
}

func (f *statsRepo) DistinctUIDs(_ context.Context) ([]string, error) { return f.uids, nil }

func TestStatsSingleDay(t *testing.T) {
	day := time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)
	repo := &statsRepo{byDay: map[string]access.DayStats{
		"2024-01-05": {Date: day, In: 12, Out: 9},
	}}
	h := NewStatsHandler(access.NewService(repo), "test")

	w := httptest.NewRecorder()
	h.Stats(w, httptest.NewRequest("GET", "/api/v1/stats?date=2024-01-05", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var payload []dayStatsPayload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	require.Equal(t, []dayStatsPayload{{Date: "2024-01-05", In: 12, Out: 9}}, payload)
}

func TestStatsRange(t *testing.T) {
	repo := &statsRepo{byDay: map[string]access.DayStats{
		"2024-01-05": {Date: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), In: 12, Out: 9},
		"2024-01-06": {Date: time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC), In: 3, Out: 2},
	}}
	h := NewStatsHandler(access.NewService(repo), "test")

	w := httptest.NewRecorder()
	h.Stats(w, httptest.NewRequest("GET", "/api/v1/stats?start=2024-01-05&end=2024-01-06", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var payload []dayStatsPayload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	require.Len(t, payload, 2)
}

func TestStatsReversedRangeRejected(t *testing.T) {
	h := NewStatsHandler(access.NewService(&statsRepo{}), "test")

	w := httptest.NewRecorder()
	h.Stats(w, httptest.NewRequest("GET", "/api/v1/stats?start=2024-01-06&end=2024-01-05", nil))

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStatsInvalidDate(t *testing.T) {
	h := NewStatsHandler(access.NewService(&statsRepo{}), "test")

	w := httptest.NewRecorder()
	h.Stats(w, httptest.NewRequest("GET", "/api/v1/stats?date=yesterday", nil))

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUIDsEmptyIsArray(t *testing.T) {
	h := NewStatsHandler(access.NewService(&statsRepo{}), "test")

	w := httptest.NewRecorder()
	h.UIDs(w, httptest.NewRequest("GET", "/api/v1/uids", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var payload uidsPayload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	require.NotNil(t, payload.UIDs)
	require.Empty(t, payload.UIDs)
}
