package config

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerLevelFallback(t *testing.T) {
	logger := NewLogger(LoggingConfig{Level: "chatty", Format: "json"})
	require.Equal(t, zerolog.InfoLevel, logger.GetLevel())
}

func TestNewLoggerLevelParsed(t *testing.T) {
	logger := NewLogger(LoggingConfig{Level: "WARN", Format: "json"})
	require.Equal(t, zerolog.WarnLevel, logger.GetLevel())
}

func TestNewLoggerServiceField(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggingConfig{Level: "info", Format: "json"}).Output(&buf)

	logger.Info().Msg("ping")

	require.Contains(t, buf.String(), `"service":"gatelog"`)
}
