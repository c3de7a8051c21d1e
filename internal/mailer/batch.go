package mailer

import (
	"context"
	"fmt"

	"github.com/forgehack/platform/internal/mailer/domain"
	"go.uber.org/zap"
)

// SendBatch delivers many messages through the provider batch call, chunking
// above the provider's batch ceiling and falling back to independent
// per-message sends when the batch path is exhausted. The result slice is
// always index-aligned with the input.
func (s *service) SendBatch(ctx context.Context, msgs []*domain.EmailMessage) []domain.SendResult {
	if len(msgs) == 0 {
		return nil
	}

	limit := s.provider.MaxBatchSize()
	if limit <= 0 {
		limit = 100
	}
	if len(msgs) > limit {
		results := make([]domain.SendResult, 0, len(msgs))
		for start := 0; start < len(msgs); start += limit {
			end := min(start+limit, len(msgs))
			results = append(results, s.SendBatch(ctx, msgs[start:end])...)
		}
		return results
	}

	results := make([]domain.SendResult, len(msgs))
	resolved := make([]bool, len(msgs))

	// Validate everything up front; invalid messages fail their slot
	// immediately and are bulk-logged in a single write.
	var invalid []*domain.AttemptRecord
	validIdx := make([]int, 0, len(msgs))
	for i, msg := range msgs {
		if v := ValidateAddress(msg.To); !v.Valid {
			results[i] = domain.SendResult{Error: v.Reason}
			resolved[i] = true
			invalid = append(invalid, s.newRecord(msg, domain.AttemptFailed, 0, "", v.Reason))
			s.metrics.IncEmailFailed(ctx, string(msg.Type), s.provider.Name(), "validation")
			continue
		}
		validIdx = append(validIdx, i)
	}
	if len(invalid) > 0 {
		s.attempts.RecordMany(ctx, invalid)
	}
	if len(validIdx) == 0 {
		return results
	}

	batch := make([]*domain.EmailMessage, len(validIdx))
	for j, idx := range validIdx {
		batch[j] = msgs[idx]
	}

	ids, attempts, err := s.sendBatchWithRetry(ctx, batch)
	if err == nil && len(ids) != len(batch) {
		err = fmt.Errorf("provider returned %d ids for %d messages", len(ids), len(batch))
	}
	if err == nil {
		sent := make([]*domain.AttemptRecord, len(batch))
		for j, idx := range validIdx {
			results[idx] = domain.SendResult{Success: true, MessageID: ids[j]}
			resolved[idx] = true

			rec := s.newRecord(batch[j], domain.AttemptSent, attempts, ids[j], "")
			now := s.clock.Now()
			rec.SentAt = &now
			sent[j] = rec
			s.metrics.IncEmailSent(ctx, string(batch[j].Type), s.provider.Name())
		}
		s.attempts.RecordMany(ctx, sent)
		return results
	}

	// Batch path exhausted: each remaining message now succeeds or fails on
	// its own, so a batch-level outage degrades to one-off reliability
	// instead of failing the whole set.
	s.metrics.IncBatchFallback(ctx, s.provider.Name())
	s.log.Warn("batch send failed, falling back to individual sends",
		zap.Int("messages", len(batch)),
		zap.Int("attempts", attempts),
		zap.Error(err),
	)
	for _, idx := range validIdx {
		if resolved[idx] {
			continue
		}
		results[idx] = s.Send(ctx, msgs[idx])
		resolved[idx] = true
	}

	for i := range results {
		if !resolved[i] {
			// Unreachable unless a path above forgot its slot; fail loudly
			// instead of returning a zero value.
			results[i] = domain.SendResult{Error: "internal: result slot left unresolved"}
			s.log.Error("unresolved batch result slot", zap.Int("index", i))
		}
	}
	return results
}

// sendBatchWithRetry retries the whole-batch provider call under the shared
// policy. Classification applies to the batch call itself.
func (s *service) sendBatchWithRetry(ctx context.Context, batch []*domain.EmailMessage) ([]string, int, error) {
	var lastErr error
	attempts := 0
	for attempt := 1; attempt <= s.policy.MaxAttempts; attempt++ {
		attempts = attempt
		if attempt > 1 {
			s.metrics.IncEmailRetry(ctx, s.provider.Name())
		}

		ids, err := s.provider.SendBatch(ctx, batch)
		if err == nil {
			return ids, attempts, nil
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
	return nil, attempts, lastErr
}
