package provider

import (
	"context"

	"github.com/forgehack/platform/internal/mailer/domain"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// Noop accepts every message without touching the network. It is the default
// provider for development and CI environments.
type Noop struct {
	log *zap.Logger
}

func NewNoop(log *zap.Logger) *Noop {
	return &Noop{log: log.Named("mail.noop")}
}

func (n *Noop) Name() string {
	return "noop"
}

func (n *Noop) MaxBatchSize() int {
	return resendBatchLimit
}

func (n *Noop) Send(_ context.Context, msg *domain.EmailMessage) (string, error) {
	id := ulid.Make().String()
	n.log.Debug("email accepted",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("message_id", id),
	)
	return id, nil
}

func (n *Noop) SendBatch(_ context.Context, msgs []*domain.EmailMessage) ([]string, error) {
	ids := make([]string, len(msgs))
	for i := range msgs {
		ids[i] = ulid.Make().String()
	}
	n.log.Debug("email batch accepted", zap.Int("messages", len(msgs)))
	return ids, nil
}
