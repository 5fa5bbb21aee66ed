// Package email delivers operator notifications for unauthorized scans.
package email

import (
	"context"
	"fmt"
	"html/template"
	"net/mail"
	"strings"
	"time"

	"github.com/gatelog/server/internal/config"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

// Service sends alert email through the Resend API. With alerts disabled it
// logs what it would have sent and reports success, so the job pipeline
// behaves identically in development.
type Service struct {
	config       config.AlertsConfig
	resendClient *resend.Client
	logger       zerolog.Logger
}

func NewService(cfg config.AlertsConfig, logger zerolog.Logger) (*Service, error) {
	if cfg.Enabled {
		if err := validateEmailAddress(cfg.From); err != nil {
			return nil, fmt.Errorf("invalid sender email in config: %w", err)
		}
		if err := validateEmailAddress(cfg.To); err != nil {
			return nil, fmt.Errorf("invalid recipient email in config: %w", err)
		}
	}

	s := &Service{
		config: cfg,
		logger: logger.With().Str("component", "email").Logger(),
	}
	if cfg.Enabled {
		s.resendClient = resend.NewClient(cfg.ResendAPIKey)
	}
	return s, nil
}

var alertTemplate = template.Must(template.New("alert").Parse(`<p>An unrecognized badge was scanned at <strong>{{.Facility}}</strong>.</p>
<ul>
  <li>UID: <code>{{.UID}}</code></li>
  <li>Direction: {{.Direction}}</li>
  <li>Device: {{.DeviceName}}</li>
  <li>Observed: {{.ObservedAt}}</li>
</ul>
<p>If this badge should have access, add it to the roster.</p>`))

type alertData struct {
	Facility   string
	UID        string
	Direction  string
	DeviceName string
	ObservedAt string
}

// SendUnauthorizedScanAlert notifies the configured operator address about
// one unauthorized scan.
func (s *Service) SendUnauthorizedScanAlert(ctx context.Context, uid, direction, deviceName string, observedAt time.Time) error {
	if !s.config.Enabled {
		s.logger.Info().
			Str("uid", uid).
			Str("device", deviceName).
			Msg("alerts disabled, skipping unauthorized-scan email")
		return nil
	}

	facility := s.config.FacilityName
	if facility == "" {
		facility = "facility"
	}

	var body strings.Builder
	err := alertTemplate.Execute(&body, alertData{
		Facility:   facility,
		UID:        uid,
		Direction:  direction,
		DeviceName: deviceName,
		ObservedAt: observedAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("render alert template: %w", err)
	}

	subject := fmt.Sprintf("Unauthorized badge scan at %s", facility)
	return s.sendViaResend(ctx, s.config.To, subject, body.String())
}

func validateEmailAddress(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return fmt.Errorf("invalid email format: %w", err)
	}
	if strings.ContainsAny(addr.Address, "\r\n") {
		return fmt.Errorf("invalid email address: contains newline characters")
	}
	return nil
}
