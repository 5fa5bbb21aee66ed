package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gatelog/server/internal/domain/access"
	"github.com/gatelog/server/internal/metrics"
)

// AccessHandler serves the two device-facing endpoints. Their wire shapes are
// a compatibility contract with deployed readers and dashboards and must not
// change: field names, status codes, and the in-band error envelope on upload
// are all matched by existing clients.
type AccessHandler struct {
	service *access.Service
}

func NewAccessHandler(service *access.Service) *AccessHandler {
	return &AccessHandler{service: service}
}

// uploadRequest is the legacy device payload. The positional field names are
// what the reader firmware sends; value4 is optional.
type uploadRequest struct {
	UID             string `json:"value1"`
	Direction       string `json:"value2"`
	DeviceName      string `json:"value3"`
	DeviceTimestamp string `json:"value4"`
}

type uploadSuccess struct {
	Success    bool   `json:"success"`
	Authorized bool   `json:"authorized"`
	User       string `json:"user"`
}

type uploadFailure struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Upload ingests one scan and answers with the authorization decision.
// Persistence failures are reported in the payload with a 200 status:
// readers parse the body, not the transport status, to learn the outcome.
func (h *AccessHandler) Upload(w http.ResponseWriter, r *http.Request) {
	var req uploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.service.Ingest(r.Context(), access.EventInput{
		UID:             req.UID,
		Direction:       req.Direction,
		DeviceName:      req.DeviceName,
		DeviceTimestamp: req.DeviceTimestamp,
	})

	decision := "authorized"
	if !result.Authorized {
		decision = "unauthorized"
	}
	metrics.ScansTotal.WithLabelValues(req.Direction, decision).Inc()
	if !result.TimeParsed {
		metrics.DeviceTimeParseFailures.Inc()
	}

	if err != nil {
		metrics.ScanPersistFailures.Inc()
		writeJSON(w, r, http.StatusOK, uploadFailure{Success: false, Error: err.Error()})
		return
	}

	writeJSON(w, r, http.StatusOK, uploadSuccess{
		Success:    true,
		Authorized: result.Authorized,
		User:       result.Username,
	})
}

type logRow struct {
	ID         int64   `json:"id"`
	UID        string  `json:"uid"`
	Direction  string  `json:"direction"`
	DeviceName string  `json:"deviceName"`
	DeviceTime *string `json:"deviceTime"`
	Authorized bool    `json:"authorized"`
	Username   *string `json:"username"`
}

// Logs returns the 50 most recent events, newest first. Unlike upload, a
// data-access failure here is a real 500 carrying the raw error text.
func (h *AccessHandler) Logs(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.RecentLogs(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	rows := make([]logRow, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, logRow{
			ID:         entry.ID,
			UID:        entry.UID,
			Direction:  entry.Direction,
			DeviceName: entry.DeviceName,
			DeviceTime: access.FormatDeviceTime(entry.DeviceTime),
			Authorized: entry.Authorized,
			Username:   entry.Username,
		})
	}

	writeJSON(w, r, http.StatusOK, rows)
}
