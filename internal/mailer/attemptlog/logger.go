// Package attemptlog persists the email delivery audit trail. Writes are
// fire-and-forget: a storage failure is reported to the operational log and
// never reaches the sender, so delivery outcomes cannot depend on the audit
// trail being writable.
package attemptlog

import (
	"context"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/forgehack/platform/internal/mailer/domain"
	"github.com/forgehack/platform/pkg/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	queueSize    = 256
	writeTimeout = 5 * time.Second
)

// Logger implements domain.AttemptLog on top of a background worker with a
// bounded queue. Enqueueing never blocks the caller; when the queue is full
// the record is dropped and the drop is logged.
type Logger struct {
	store repository.Repository[domain.AttemptRecord]
	genID *snowflake.Node
	log   *zap.Logger

	mu     sync.RWMutex
	closed bool
	jobs   chan func(ctx context.Context)
	done   chan struct{}
}

func New(db *gorm.DB, genID *snowflake.Node, log *zap.Logger) *Logger {
	l := &Logger{
		store: repository.ProvideStore[domain.AttemptRecord](db),
		genID: genID,
		log:   log.Named("attemptlog"),
		jobs:  make(chan func(ctx context.Context), queueSize),
		done:  make(chan struct{}),
	}
	go l.run()
	return l
}

func (l *Logger) run() {
	defer close(l.done)
	for job := range l.jobs {
		l.execute(job)
	}
}

func (l *Logger) execute(job func(ctx context.Context)) {
	defer func() {
		if r := recover(); r != nil {
			l.log.Error("attempt log write panicked", zap.Any("panic", r))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	job(ctx)
}

// Record enqueues a single attempt record.
func (l *Logger) Record(_ context.Context, rec *domain.AttemptRecord) {
	if rec == nil {
		return
	}
	l.prepare(rec)
	l.enqueue(func(ctx context.Context) {
		if err := l.store.Create(ctx, rec); err != nil {
			l.log.Error("failed to write email attempt",
				zap.String("to", rec.To),
				zap.String("status", string(rec.Status)),
				zap.Error(err),
			)
		}
	})
}

// RecordMany enqueues a bulk insert: one storage write for the whole slice.
func (l *Logger) RecordMany(_ context.Context, recs []*domain.AttemptRecord) {
	if len(recs) == 0 {
		return
	}
	for _, rec := range recs {
		l.prepare(rec)
	}
	l.enqueue(func(ctx context.Context) {
		if err := l.store.BatchCreate(ctx, recs); err != nil {
			l.log.Error("failed to bulk-write email attempts",
				zap.Int("count", len(recs)),
				zap.Error(err),
			)
		}
	})
}

func (l *Logger) prepare(rec *domain.AttemptRecord) {
	if rec.ID == "" {
		rec.ID = l.genID.Generate().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if rec.LastAttempt.IsZero() {
		rec.LastAttempt = rec.CreatedAt
	}
}

func (l *Logger) enqueue(job func(ctx context.Context)) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		return
	}
	select {
	case l.jobs <- job:
	default:
		l.log.Warn("attempt log queue full, dropping record")
	}
}

// Flush blocks until every record enqueued before the call has been written.
// Intended for tests and shutdown; senders never wait on it.
func (l *Logger) Flush(ctx context.Context) error {
	marker := make(chan struct{})

	l.mu.RLock()
	if l.closed {
		l.mu.RUnlock()
		return nil
	}
	select {
	case l.jobs <- func(context.Context) { close(marker) }:
		l.mu.RUnlock()
	case <-ctx.Done():
		l.mu.RUnlock()
		return ctx.Err()
	}

	select {
	case <-marker:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close drains the queue and stops the worker. Records arriving after Close
// are discarded.
func (l *Logger) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	close(l.jobs)
	l.mu.Unlock()
	<-l.done
}
