package email

import (
	"context"
	"errors"
	"fmt"

	"github.com/resend/resend-go/v2"
)

// sendViaResend sends one email through the Resend API. Rate limit errors
// are surfaced with their reset window so the job retry policy can back off.
func (s *Service) sendViaResend(ctx context.Context, to, subject, htmlBody string) error {
	if s.resendClient == nil {
		return fmt.Errorf("resend client not initialized")
	}

	params := &resend.SendEmailRequest{
		From:    s.config.From,
		To:      []string{to},
		Subject: subject,
		Html:    htmlBody,
	}

	sent, err := s.resendClient.Emails.SendWithContext(ctx, params)
	if err != nil {
		var rateLimitErr *resend.RateLimitError
		if errors.As(err, &rateLimitErr) {
			s.logger.Warn().
				Str("limit", rateLimitErr.Limit).
				Str("remaining", rateLimitErr.Remaining).
				Str("reset", rateLimitErr.Reset).
				Msg("resend rate limited, alert delivery deferred")
			return fmt.Errorf("email rate limit exceeded (resets in %s seconds): %w",
				rateLimitErr.Reset, err)
		}
		return fmt.Errorf("resend send: %w", err)
	}

	s.logger.Info().
		Str("resend_id", sent.Id).
		Str("to", to).
		Msg("alert email delivered")
	return nil
}
