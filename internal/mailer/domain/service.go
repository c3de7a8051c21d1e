package domain

import "context"

// Service is the delivery subsystem boundary. Only SendResult values cross
// it; callers never see raw provider errors.
type Service interface {
	Send(ctx context.Context, msg *EmailMessage) SendResult
	SendBatch(ctx context.Context, msgs []*EmailMessage) []SendResult
}

// Provider is the outbound mail-sending collaborator. SendBatch returns
// provider message ids positionally aligned with its input.
type Provider interface {
	Name() string
	Send(ctx context.Context, msg *EmailMessage) (string, error)
	SendBatch(ctx context.Context, msgs []*EmailMessage) ([]string, error)
	MaxBatchSize() int
}

// AttemptLog records delivery attempts. Both methods are fire-and-forget:
// implementations swallow their own failures so the audit trail can never
// change a delivery outcome.
type AttemptLog interface {
	Record(ctx context.Context, rec *AttemptRecord)
	RecordMany(ctx context.Context, recs []*AttemptRecord)
}
