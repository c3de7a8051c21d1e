package mailer

import (
	"context"
	"time"

	"github.com/forgehack/platform/internal/clock"
	"github.com/forgehack/platform/internal/mailer/domain"
	"github.com/forgehack/platform/internal/observability/metrics"
	"go.uber.org/zap"
)

type service struct {
	provider domain.Provider
	policy   Policy
	attempts domain.AttemptLog
	clock    clock.Clock
	metrics  *metrics.Metrics
	log      *zap.Logger
}

// NewService builds the delivery service. The provider is constructed once
// at startup and injected; there is no lazy global client.
func NewService(
	provider domain.Provider,
	policy Policy,
	attempts domain.AttemptLog,
	clk clock.Clock,
	m *metrics.Metrics,
	log *zap.Logger,
) domain.Service {
	return &service{
		provider: provider,
		policy:   policy,
		attempts: attempts,
		clock:    clk,
		metrics:  m,
		log:      log.Named("mailer"),
	}
}

// Send delivers a single message with bounded retries. The returned result
// is the only thing the caller sees; attempt logging happens in the
// background and can never fail the send.
func (s *service) Send(ctx context.Context, msg *domain.EmailMessage) domain.SendResult {
	if v := ValidateAddress(msg.To); !v.Valid {
		s.attempts.Record(ctx, s.newRecord(msg, domain.AttemptFailed, 0, "", v.Reason))
		s.metrics.IncEmailFailed(ctx, string(msg.Type), s.provider.Name(), "validation")
		return domain.SendResult{Error: v.Reason}
	}

	var lastErr error
	attempts := 0
	for attempt := 1; attempt <= s.policy.MaxAttempts; attempt++ {
		attempts = attempt
		if attempt > 1 {
			s.metrics.IncEmailRetry(ctx, s.provider.Name())
		}

		id, err := s.provider.Send(ctx, msg)
		if err == nil {
			rec := s.newRecord(msg, domain.AttemptSent, attempt, id, "")
			now := s.clock.Now()
			rec.SentAt = &now
			s.attempts.Record(ctx, rec)
			s.metrics.IncEmailSent(ctx, string(msg.Type), s.provider.Name())
			return domain.SendResult{Success: true, MessageID: id}
		}

		lastErr = err
		if attempt == s.policy.MaxAttempts || Classify(err) != Retryable {
			break
		}
		if serr := sleepFor(ctx, s.policy.DelayFor(attempt)); serr != nil {
			lastErr = serr
			break
		}
	}

	s.attempts.Record(ctx, s.newRecord(msg, domain.AttemptFailed, attempts, "", lastErr.Error()))
	s.metrics.IncEmailFailed(ctx, string(msg.Type), s.provider.Name(), "provider")
	s.log.Warn("email delivery failed",
		zap.String("to", msg.To),
		zap.String("type", string(msg.Type)),
		zap.Int("attempts", attempts),
		zap.Error(lastErr),
	)
	return domain.SendResult{Error: lastErr.Error()}
}

func (s *service) newRecord(msg *domain.EmailMessage, status domain.AttemptStatus, attempts int, messageID, errMsg string) *domain.AttemptRecord {
	return &domain.AttemptRecord{
		To:          msg.To,
		From:        msg.From,
		Subject:     msg.Subject,
		Type:        msg.Type,
		Status:      status,
		Provider:    s.provider.Name(),
		MessageID:   messageID,
		Error:       errMsg,
		Attempts:    attempts,
		LastAttempt: s.clock.Now(),
	}
}

// sleepFor waits out a backoff delay, returning early when ctx is done.
func sleepFor(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
