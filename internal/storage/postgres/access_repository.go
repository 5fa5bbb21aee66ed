package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gatelog/server/internal/domain/access"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AccessRepository struct {
	pool *pgxpool.Pool
}

func (r *AccessRepository) LookupUsername(ctx context.Context, uid string) (string, error) {
	row := r.pool.QueryRow(ctx, `SELECT username FROM authorized_uids WHERE uid = $1`, uid)

	var username string
	if err := row.Scan(&username); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", access.ErrNotFound
		}
		return "", fmt.Errorf("lookup username: %w", err)
	}
	return username, nil
}

func (r *AccessRepository) InsertEvent(ctx context.Context, params access.EventCreateParams) (int64, error) {
	row := r.pool.QueryRow(ctx, `
INSERT INTO access_logs (uid, direction, device_name, device_time, authorized)
VALUES ($1, $2, $3, $4, $5)
RETURNING id
`, params.UID, params.Direction, params.DeviceName, timeOfDay(params.DeviceTime), params.Authorized)

	var id int64
	if err := row.Scan(&id); err != nil {
		return 0, fmt.Errorf("insert access log: %w", err)
	}
	return id, nil
}

func (r *AccessRepository) RecentLogs(ctx context.Context, limit int) ([]access.LogEntry, error) {
	rows, err := r.pool.Query(ctx, `
SELECT a.id, a.uid, a.direction, a.device_name, a.device_time, a.authorized, u.username
  FROM access_logs a
  LEFT JOIN authorized_uids u ON a.uid = u.uid
 ORDER BY a.id DESC
 LIMIT $1
`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent logs: %w", err)
	}
	defer rows.Close()

	entries := make([]access.LogEntry, 0, limit)
	for rows.Next() {
		var (
			entry      access.LogEntry
			deviceTime pgtype.Time
		)
		if err := rows.Scan(
			&entry.ID,
			&entry.UID,
			&entry.Direction,
			&entry.DeviceName,
			&deviceTime,
			&entry.Authorized,
			&entry.Username,
		); err != nil {
			return nil, fmt.Errorf("scan log entry: %w", err)
		}
		entry.DeviceTime = fromTimeOfDay(deviceTime)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recent logs: %w", err)
	}
	return entries, nil
}

func (r *AccessRepository) StatsForDay(ctx context.Context, day time.Time) (access.DayStats, error) {
	rows, err := r.pool.Query(ctx, `
SELECT lower(direction), count(*)
  FROM access_logs
 WHERE created_at::date = $1::date
   AND authorized
 GROUP BY lower(direction)
`, day)
	if err != nil {
		return access.DayStats{}, fmt.Errorf("query day stats: %w", err)
	}
	defer rows.Close()

	stats := access.DayStats{Date: day}
	for rows.Next() {
		var (
			direction string
			count     int64
		)
		if err := rows.Scan(&direction, &count); err != nil {
			return access.DayStats{}, fmt.Errorf("scan day stats: %w", err)
		}
		switch direction {
		case "in":
			stats.In = count
		case "out":
			stats.Out = count
		}
	}
	if err := rows.Err(); err != nil {
		return access.DayStats{}, fmt.Errorf("iterate day stats: %w", err)
	}
	return stats, nil
}

func (r *AccessRepository) StatsForRange(ctx context.Context, start, end time.Time) ([]access.DayStats, error) {
	rows, err := r.pool.Query(ctx, `
SELECT created_at::date AS day, lower(direction), count(*)
  FROM access_logs
 WHERE created_at::date BETWEEN $1::date AND $2::date
   AND authorized
 GROUP BY day, lower(direction)
 ORDER BY day
`, start, end)
	if err != nil {
		return nil, fmt.Errorf("query range stats: %w", err)
	}
	defer rows.Close()

	var out []access.DayStats
	for rows.Next() {
		var (
			day       time.Time
			direction string
			count     int64
		)
		if err := rows.Scan(&day, &direction, &count); err != nil {
			return nil, fmt.Errorf("scan range stats: %w", err)
		}
		if len(out) == 0 || !out[len(out)-1].Date.Equal(day) {
			out = append(out, access.DayStats{Date: day})
		}
		entry := &out[len(out)-1]
		switch direction {
		case "in":
			entry.In = count
		case "out":
			entry.Out = count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate range stats: %w", err)
	}
	return out, nil
}

func (r *AccessRepository) DistinctUIDs(ctx context.Context) ([]string, error) {
	return r.queryUIDs(ctx, `SELECT DISTINCT uid FROM access_logs ORDER BY uid`)
}

func (r *AccessRepository) DistinctUnauthorizedUIDs(ctx context.Context) ([]string, error) {
	return r.queryUIDs(ctx, `
SELECT DISTINCT a.uid
  FROM access_logs a
  LEFT JOIN authorized_uids u ON a.uid = u.uid
 WHERE u.uid IS NULL
 ORDER BY a.uid
`)
}

func (r *AccessRepository) queryUIDs(ctx context.Context, query string) ([]string, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query uids: %w", err)
	}
	defer rows.Close()

	var uids []string
	for rows.Next() {
		var uid string
		if err := rows.Scan(&uid); err != nil {
			return nil, fmt.Errorf("scan uid: %w", err)
		}
		uids = append(uids, uid)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate uids: %w", err)
	}
	return uids, nil
}
