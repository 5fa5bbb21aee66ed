package handlers

import (
	"net/http"
	"time"

	"github.com/gatelog/server/internal/api/problem"
	"github.com/gatelog/server/internal/domain/access"
)

const statsDateLayout = "2006-01-02"

// StatsHandler serves per-day traffic counts and the uid listings used by
// the admin dashboard.
type StatsHandler struct {
	service *access.Service
	env     string
}

func NewStatsHandler(service *access.Service, env string) *StatsHandler {
	return &StatsHandler{service: service, env: env}
}

type dayStatsPayload struct {
	Date string `json:"date"`
	In   int64  `json:"in"`
	Out  int64  `json:"out"`
}

// Stats answers either a single day (?date=YYYY-MM-DD, default today) or an
// inclusive range (?start=...&end=...). The response is always an array so
// dashboard code has one shape to deal with.
func (h *StatsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if start, end := q.Get("start"), q.Get("end"); start != "" || end != "" {
		startDay, err := time.Parse(statsDateLayout, start)
		if err != nil {
			problem.Write(w, r, http.StatusBadRequest, "about:blank", "Invalid start date", err, h.env)
			return
		}
		endDay, err := time.Parse(statsDateLayout, end)
		if err != nil {
			problem.Write(w, r, http.StatusBadRequest, "about:blank", "Invalid end date", err, h.env)
			return
		}

		stats, err := h.service.StatsForRange(r.Context(), startDay, endDay)
		if err != nil {
			problem.Write(w, r, http.StatusBadRequest, "about:blank", "Failed to compute stats", err, h.env)
			return
		}
		writeJSON(w, r, http.StatusOK, toDayStatsPayload(stats))
		return
	}

	day := time.Now()
	if raw := q.Get("date"); raw != "" {
		parsed, err := time.Parse(statsDateLayout, raw)
		if err != nil {
			problem.Write(w, r, http.StatusBadRequest, "about:blank", "Invalid date", err, h.env)
			return
		}
		day = parsed
	}

	stats, err := h.service.StatsForDay(r.Context(), day)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, "about:blank", "Failed to compute stats", err, h.env)
		return
	}
	writeJSON(w, r, http.StatusOK, toDayStatsPayload([]access.DayStats{stats}))
}

func toDayStatsPayload(stats []access.DayStats) []dayStatsPayload {
	payload := make([]dayStatsPayload, 0, len(stats))
	for _, s := range stats {
		payload = append(payload, dayStatsPayload{
			Date: s.Date.Format(statsDateLayout),
			In:   s.In,
			Out:  s.Out,
		})
	}
	return payload
}

type uidsPayload struct {
	UIDs []string `json:"uids"`
}

// UIDs lists every uid that ever produced an event.
func (h *StatsHandler) UIDs(w http.ResponseWriter, r *http.Request) {
	uids, err := h.service.DistinctUIDs(r.Context())
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, "about:blank", "Failed to list uids", err, h.env)
		return
	}
	if uids == nil {
		uids = []string{}
	}
	writeJSON(w, r, http.StatusOK, uidsPayload{UIDs: uids})
}

// UnauthorizedUIDs lists event uids with no current roster entry, the set an
// operator reviews before adding new badges.
func (h *StatsHandler) UnauthorizedUIDs(w http.ResponseWriter, r *http.Request) {
	uids, err := h.service.DistinctUnauthorizedUIDs(r.Context())
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, "about:blank", "Failed to list uids", err, h.env)
		return
	}
	if uids == nil {
		uids = []string{}
	}
	writeJSON(w, r, http.StatusOK, uidsPayload{UIDs: uids})
}
