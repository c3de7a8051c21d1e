package otp

import (
	"context"
	"testing"
	"time"

	"github.com/forgehack/platform/internal/config"
	"github.com/forgehack/platform/internal/mailer"
	maildomain "github.com/forgehack/platform/internal/mailer/domain"
	"github.com/forgehack/platform/internal/otp/domain"
	"github.com/forgehack/platform/internal/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memoryStore struct {
	hashes map[string]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{hashes: map[string]string{}}
}

func (m *memoryStore) Save(_ context.Context, email, hash string, _ time.Duration) error {
	m.hashes[email] = hash
	return nil
}

func (m *memoryStore) Get(_ context.Context, email string) (string, error) {
	hash, ok := m.hashes[email]
	if !ok {
		return "", domain.ErrCodeExpired
	}
	return hash, nil
}

func (m *memoryStore) Delete(_ context.Context, email string) error {
	delete(m.hashes, email)
	return nil
}

type stubLimiter struct {
	allowed bool
	err     error
	calls   int
}

func (s *stubLimiter) Allow(context.Context, string, float64, int) (*ratelimit.Result, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &ratelimit.Result{Allowed: s.allowed}, nil
}

type stubMailer struct {
	sent   []*maildomain.EmailMessage
	result maildomain.SendResult
}

func (s *stubMailer) Send(_ context.Context, msg *maildomain.EmailMessage) maildomain.SendResult {
	s.sent = append(s.sent, msg)
	return s.result
}

func (s *stubMailer) SendBatch(_ context.Context, msgs []*maildomain.EmailMessage) []maildomain.SendResult {
	out := make([]maildomain.SendResult, len(msgs))
	for i := range out {
		out[i] = s.result
	}
	s.sent = append(s.sent, msgs...)
	return out
}

func testConfig() config.Config {
	return config.Config{OTP: config.OTPConfig{
		ExpiryMinutes:  10,
		RequestsPerMin: 3,
		RequestBurst:   3,
	}}
}

func newTestService(store domain.Store, limiter ratelimit.Limiter, mail maildomain.Service) domain.Service {
	templates := mailer.NewTemplates("ForgeHack <no-reply@forgehack.dev>", 10)
	return NewService(store, limiter, mail, templates, testConfig(), nil, zap.NewNop())
}

// codeFromBody digs the 6-digit code out of the rendered OTP email.
func codeFromBody(t *testing.T, body string) string {
	t.Helper()
	for i := 0; i+6 <= len(body); i++ {
		candidate := body[i : i+6]
		digits := true
		for _, c := range candidate {
			if c < '0' || c > '9' {
				digits = false
				break
			}
		}
		if digits {
			return candidate
		}
	}
	t.Fatalf("no 6-digit code found in body: %s", body)
	return ""
}

func TestRequestThenVerify(t *testing.T) {
	store := newMemoryStore()
	mail := &stubMailer{result: maildomain.SendResult{Success: true, MessageID: "msg-1"}}
	svc := newTestService(store, &stubLimiter{allowed: true}, mail)

	require.NoError(t, svc.Request(context.Background(), "dev@example.com"))
	require.Len(t, mail.sent, 1)
	assert.Equal(t, maildomain.TypeOTP, mail.sent[0].Type)

	code := codeFromBody(t, mail.sent[0].Body)
	require.NoError(t, svc.Verify(context.Background(), "dev@example.com", code))

	// Single use: the second verify finds no live code.
	err := svc.Verify(context.Background(), "dev@example.com", code)
	assert.ErrorIs(t, err, domain.ErrCodeExpired)
}

func TestRequestRejectsInvalidAddress(t *testing.T) {
	limiter := &stubLimiter{allowed: true}
	svc := newTestService(newMemoryStore(), limiter, &stubMailer{})

	err := svc.Request(context.Background(), "dev@mailinator.com")
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)
	assert.Zero(t, limiter.calls, "invalid addresses must not consume rate-limit tokens")
}

func TestRequestRateLimited(t *testing.T) {
	mail := &stubMailer{result: maildomain.SendResult{Success: true}}
	svc := newTestService(newMemoryStore(), &stubLimiter{allowed: false}, mail)

	err := svc.Request(context.Background(), "dev@example.com")
	assert.ErrorIs(t, err, domain.ErrRateLimited)
	assert.Empty(t, mail.sent)
}

func TestRequestSurvivesLimiterOutage(t *testing.T) {
	mail := &stubMailer{result: maildomain.SendResult{Success: true}}
	svc := newTestService(newMemoryStore(), &stubLimiter{err: context.DeadlineExceeded}, mail)

	require.NoError(t, svc.Request(context.Background(), "dev@example.com"))
	assert.Len(t, mail.sent, 1)
}

func TestRequestDeliveryFailure(t *testing.T) {
	mail := &stubMailer{result: maildomain.SendResult{Error: "provider down"}}
	svc := newTestService(newMemoryStore(), &stubLimiter{allowed: true}, mail)

	err := svc.Request(context.Background(), "dev@example.com")
	assert.ErrorIs(t, err, domain.ErrDeliveryFailed)
}

func TestVerifyWrongCode(t *testing.T) {
	store := newMemoryStore()
	mail := &stubMailer{result: maildomain.SendResult{Success: true}}
	svc := newTestService(store, &stubLimiter{allowed: true}, mail)

	require.NoError(t, svc.Request(context.Background(), "dev@example.com"))

	err := svc.Verify(context.Background(), "dev@example.com", "000000")
	if err == nil {
		// One-in-a-million collision with the generated code.
		t.Skip("generated code happened to be 000000")
	}
	assert.ErrorIs(t, err, domain.ErrCodeMismatch)
}

func TestVerifyWithoutRequest(t *testing.T) {
	svc := newTestService(newMemoryStore(), &stubLimiter{allowed: true}, &stubMailer{})

	err := svc.Verify(context.Background(), "dev@example.com", "123456")
	assert.ErrorIs(t, err, domain.ErrCodeExpired)
}
