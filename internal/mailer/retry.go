package mailer

import (
	"errors"
	"net/http"
	"time"

	"github.com/forgehack/platform/internal/config"
	"github.com/forgehack/platform/internal/mailer/domain"
)

// ErrorClass partitions provider failures for the retry loop.
type ErrorClass int

const (
	Retryable ErrorClass = iota
	Terminal
)

// fallbackDelay is used when the schedule is empty but another attempt is due.
const fallbackDelay = time.Second

// Policy is the shared, read-only retry configuration. MaxAttempts counts
// total provider calls, so maxRetries=2 yields up to 3 attempts.
type Policy struct {
	MaxAttempts int
	Delays      []time.Duration
}

// PolicyFromConfig builds the policy used by every executor.
func PolicyFromConfig(cfg config.MailConfig) Policy {
	retries := cfg.MaxRetries
	if retries < 0 {
		retries = 0
	}
	return Policy{
		MaxAttempts: retries + 1,
		Delays:      cfg.RetryDelays,
	}
}

// DelayFor returns the backoff delay after the given 1-based attempt. When
// the schedule is shorter than the attempt count the last entry is reused.
func (p Policy) DelayFor(attempt int) time.Duration {
	if len(p.Delays) == 0 {
		return fallbackDelay
	}
	if attempt < 1 {
		attempt = 1
	}
	if attempt > len(p.Delays) {
		return p.Delays[len(p.Delays)-1]
	}
	return p.Delays[attempt-1]
}

// Classify decides whether a provider failure is worth another attempt.
// Network-level failures carry no status code and are retryable, as are
// rate limits (429) and server errors (>=500). Every other 4xx is terminal.
func Classify(err error) ErrorClass {
	if err == nil {
		return Terminal
	}

	var perr *domain.ProviderError
	if !errors.As(err, &perr) {
		// Not a provider response at all: the request never completed.
		return Retryable
	}

	switch {
	case perr.StatusCode == 0:
		return Retryable
	case perr.StatusCode == http.StatusTooManyRequests:
		return Retryable
	case perr.StatusCode >= http.StatusInternalServerError:
		return Retryable
	default:
		return Terminal
	}
}
