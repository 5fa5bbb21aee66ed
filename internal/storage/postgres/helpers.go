package postgres

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// timeOfDay converts an optional wall-clock time into a TIME column value.
func timeOfDay(t *time.Time) pgtype.Time {
	if t == nil {
		return pgtype.Time{}
	}
	micros := int64(t.Hour())*int64(time.Hour/time.Microsecond) +
		int64(t.Minute())*int64(time.Minute/time.Microsecond) +
		int64(t.Second())*int64(time.Second/time.Microsecond)
	return pgtype.Time{Microseconds: micros, Valid: true}
}

// fromTimeOfDay converts a TIME column value back into an optional wall-clock
// time anchored on the zero date.
func fromTimeOfDay(t pgtype.Time) *time.Time {
	if !t.Valid {
		return nil
	}
	total := time.Duration(t.Microseconds) * time.Microsecond
	hours := int(total / time.Hour)
	minutes := int((total % time.Hour) / time.Minute)
	seconds := int((total % time.Minute) / time.Second)
	out := time.Date(0, time.January, 1, hours, minutes, seconds, 0, time.UTC)
	return &out
}
