package mailer

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/forgehack/platform/internal/config"
	"github.com/forgehack/platform/internal/mailer/domain"
)

func TestPolicyFromConfig(t *testing.T) {
	p := PolicyFromConfig(config.MailConfig{
		MaxRetries:  2,
		RetryDelays: []time.Duration{500 * time.Millisecond, 1500 * time.Millisecond},
	})
	if p.MaxAttempts != 3 {
		t.Fatalf("maxRetries=2 must yield 3 attempts, got %d", p.MaxAttempts)
	}

	p = PolicyFromConfig(config.MailConfig{MaxRetries: -5})
	if p.MaxAttempts != 1 {
		t.Fatalf("negative retries must clamp to a single attempt, got %d", p.MaxAttempts)
	}
}

func TestPolicyDelayFor(t *testing.T) {
	p := Policy{MaxAttempts: 5, Delays: []time.Duration{500 * time.Millisecond, 1500 * time.Millisecond}}

	if d := p.DelayFor(1); d != 500*time.Millisecond {
		t.Fatalf("DelayFor(1) = %v", d)
	}
	if d := p.DelayFor(2); d != 1500*time.Millisecond {
		t.Fatalf("DelayFor(2) = %v", d)
	}
	// Schedule exhausted: the last entry is reused.
	if d := p.DelayFor(4); d != 1500*time.Millisecond {
		t.Fatalf("DelayFor(4) = %v", d)
	}
	if d := p.DelayFor(0); d != 500*time.Millisecond {
		t.Fatalf("DelayFor(0) = %v", d)
	}

	empty := Policy{MaxAttempts: 3}
	if d := empty.DelayFor(1); d != fallbackDelay {
		t.Fatalf("empty schedule must fall back to %v, got %v", fallbackDelay, d)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorClass
	}{
		{"nil", nil, Terminal},
		{"plain error", errors.New("dial tcp: connection refused"), Retryable},
		{"no status code", &domain.ProviderError{Name: "network_error"}, Retryable},
		{"rate limited", &domain.ProviderError{StatusCode: http.StatusTooManyRequests}, Retryable},
		{"server error", &domain.ProviderError{StatusCode: http.StatusInternalServerError}, Retryable},
		{"bad gateway", &domain.ProviderError{StatusCode: http.StatusBadGateway}, Retryable},
		{"bad request", &domain.ProviderError{StatusCode: http.StatusBadRequest}, Terminal},
		{"unauthorized", &domain.ProviderError{StatusCode: http.StatusUnauthorized}, Terminal},
		{"unprocessable", &domain.ProviderError{StatusCode: http.StatusUnprocessableEntity}, Terminal},
		{"wrapped provider error", fmt.Errorf("send: %w", &domain.ProviderError{StatusCode: http.StatusNotFound}), Terminal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Fatalf("Classify(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
