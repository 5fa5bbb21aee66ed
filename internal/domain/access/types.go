package access

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Repository.LookupUsername when the uid has no
// roster entry. The ingest path treats it the same as a lookup failure.
var ErrNotFound = errors.New("uid not found")

// UnknownUser is the display name recorded for any scan that could not be
// resolved to a roster entry. It is a fixed sentinel, not a translatable
// string; devices and dashboards match on it.
const UnknownUser = "unknown"

// RecentLogLimit is the fixed page size of the recent-activity view. The
// /logs surface has no pagination or filtering on purpose.
const RecentLogLimit = 50

// EventInput is one scan as reported by an edge device.
type EventInput struct {
	UID             string
	Direction       string
	DeviceName      string
	DeviceTimestamp string
}

// EventCreateParams is the normalized record handed to the store. DeviceTime
// carries only a time-of-day; the date portion of the device timestamp is
// discarded at ingestion.
type EventCreateParams struct {
	UID        string
	Direction  string
	DeviceName string
	DeviceTime *time.Time
	Authorized bool
}

// LogEntry is one row of the recent-activity view: a stored event joined with
// the roster's current username. Username is nil for uids absent from the
// roster; Authorized is the value frozen at ingestion time and the two can
// legitimately disagree.
type LogEntry struct {
	ID         int64
	UID        string
	Direction  string
	DeviceName string
	DeviceTime *time.Time
	Authorized bool
	Username   *string
}

// DayStats counts authorized scans per direction for one day.
type DayStats struct {
	Date time.Time
	In   int64
	Out  int64
}

type Repository interface {
	// LookupUsername returns the roster username for uid, or ErrNotFound.
	LookupUsername(ctx context.Context, uid string) (string, error)
	// InsertEvent appends one event and returns its store-assigned id.
	InsertEvent(ctx context.Context, params EventCreateParams) (int64, error)
	// RecentLogs returns at most limit events joined with current roster
	// names, strictly descending by id.
	RecentLogs(ctx context.Context, limit int) ([]LogEntry, error)
	// StatsForDay counts authorized scans per direction on the given day.
	StatsForDay(ctx context.Context, day time.Time) (DayStats, error)
	// StatsForRange counts authorized scans per direction per day, inclusive.
	StatsForRange(ctx context.Context, start, end time.Time) ([]DayStats, error)
	// DistinctUIDs lists every uid that ever produced an event.
	DistinctUIDs(ctx context.Context) ([]string, error)
	// DistinctUnauthorizedUIDs lists event uids with no roster entry.
	DistinctUnauthorizedUIDs(ctx context.Context) ([]string, error)
}

// AlertNotifier receives unauthorized-scan notifications. Implementations
// must not block the ingest path; delivery is best effort.
type AlertNotifier interface {
	UnauthorizedScan(ctx context.Context, input EventInput) error
}
