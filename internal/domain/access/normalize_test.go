package access

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseDeviceTimeKeepsOnlyClock(t *testing.T) {
	parsed, ok := ParseDeviceTime("2024-01-05T08:30")

	require.True(t, ok)
	require.NotNil(t, parsed)
	require.Equal(t, 8, parsed.Hour())
	require.Equal(t, 30, parsed.Minute())
	require.Equal(t, 0, parsed.Second())
}

func TestParseDeviceTimeDateIsDiscarded(t *testing.T) {
	a, ok := ParseDeviceTime("2024-01-05T08:30")
	require.True(t, ok)
	b, ok := ParseDeviceTime("1999-12-31T08:30")
	require.True(t, ok)

	require.Equal(t, *a, *b)
}

func TestParseDeviceTimeEmpty(t *testing.T) {
	parsed, ok := ParseDeviceTime("")

	require.True(t, ok)
	require.Nil(t, parsed)

	parsed, ok = ParseDeviceTime("   ")
	require.True(t, ok)
	require.Nil(t, parsed)
}

func TestParseDeviceTimeMalformed(t *testing.T) {
	for _, input := range []string{
		"not-a-timestamp",
		"2024-01-05",
		"08:30",
		"2024-01-05 08:30",
		"2024-13-40T99:99",
		"2024-01-05T08:30:00Z",
	} {
		parsed, ok := ParseDeviceTime(input)
		require.False(t, ok, "input %q should not parse", input)
		require.Nil(t, parsed, "input %q should yield nil time", input)
	}
}

func TestFormatDeviceTime(t *testing.T) {
	require.Nil(t, FormatDeviceTime(nil))

	when := time.Date(0, time.January, 1, 8, 30, 0, 0, time.UTC)
	formatted := FormatDeviceTime(&when)
	require.NotNil(t, formatted)
	require.Equal(t, "08:30:00", *formatted)
}
