package access

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Service implements event ingestion and the recent-activity view. Both
// operations share one repository backed by the process-wide connection pool;
// the lookup and the insert of a single ingest are independent acquire/release
// cycles and are deliberately not wrapped in a transaction (see IngestResult).
type Service struct {
	repo   Repository
	alerts AlertNotifier
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// NewServiceWithAlerts wires an alert notifier that is pinged for every
// unauthorized scan. Notifier failures are logged and swallowed.
func NewServiceWithAlerts(repo Repository, alerts AlertNotifier) *Service {
	return &Service{repo: repo, alerts: alerts}
}

// IngestResult is the authorization decision returned to the reporting
// device. Authorized and Username are snapshots taken at ingest time; the
// roster may change afterwards without rewriting history. TimeParsed reports
// whether the device timestamp survived normalization.
type IngestResult struct {
	EventID    int64
	Authorized bool
	Username   string
	TimeParsed bool
}

// Ingest resolves the authorization decision for one scan and appends it to
// the event log. The insert is attempted unconditionally, unauthorized scans
// included. A non-nil error means the insert itself failed; the decision in
// the result is still valid and callers report the failure in-band.
func (s *Service) Ingest(ctx context.Context, input EventInput) (IngestResult, error) {
	logger := zerolog.Ctx(ctx)

	username, err := s.repo.LookupUsername(ctx, input.UID)
	authorized := err == nil
	if err != nil {
		// A missing roster entry and a failed lookup collapse into the
		// same unauthorized outcome. Fail closed: when the roster cannot
		// be consulted the scan is recorded as unauthorized rather than
		// aborting the request.
		username = UnknownUser
		if !errors.Is(err, ErrNotFound) {
			logger.Warn().Err(err).Str("uid", input.UID).Msg("roster lookup failed, recording as unauthorized")
		}
	}

	deviceTime, parsed := ParseDeviceTime(input.DeviceTimestamp)
	if !parsed {
		logger.Debug().Str("device_timestamp", input.DeviceTimestamp).Msg("unparseable device timestamp, storing null time")
	}

	result := IngestResult{Authorized: authorized, Username: username, TimeParsed: parsed}

	id, err := s.repo.InsertEvent(ctx, EventCreateParams{
		UID:        input.UID,
		Direction:  input.Direction,
		DeviceName: input.DeviceName,
		DeviceTime: deviceTime,
		Authorized: authorized,
	})
	if err != nil {
		return result, fmt.Errorf("insert access event: %w", err)
	}
	result.EventID = id

	if !authorized && s.alerts != nil {
		if err := s.alerts.UnauthorizedScan(ctx, input); err != nil {
			logger.Warn().Err(err).Str("uid", input.UID).Msg("unauthorized-scan alert enqueue failed")
		}
	}

	return result, nil
}

// RecentLogs returns the RecentLogLimit most recent events, newest first,
// joined with the roster's current usernames.
func (s *Service) RecentLogs(ctx context.Context) ([]LogEntry, error) {
	return s.repo.RecentLogs(ctx, RecentLogLimit)
}

// StatsForDay counts authorized scans per direction for one day.
func (s *Service) StatsForDay(ctx context.Context, day time.Time) (DayStats, error) {
	return s.repo.StatsForDay(ctx, day)
}

// StatsForRange counts authorized scans per direction per day, inclusive.
func (s *Service) StatsForRange(ctx context.Context, start, end time.Time) ([]DayStats, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("stats range: end before start")
	}
	return s.repo.StatsForRange(ctx, start, end)
}

// DistinctUIDs lists every uid that ever produced an event.
func (s *Service) DistinctUIDs(ctx context.Context) ([]string, error) {
	return s.repo.DistinctUIDs(ctx)
}

// DistinctUnauthorizedUIDs lists uids seen on the door that have no roster
// entry right now.
func (s *Service) DistinctUnauthorizedUIDs(ctx context.Context) ([]string, error) {
	return s.repo.DistinctUnauthorizedUIDs(ctx)
}
