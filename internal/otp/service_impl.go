package otp

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/forgehack/platform/internal/config"
	"github.com/forgehack/platform/internal/mailer"
	maildomain "github.com/forgehack/platform/internal/mailer/domain"
	"github.com/forgehack/platform/internal/observability/metrics"
	"github.com/forgehack/platform/internal/otp/domain"
	"github.com/forgehack/platform/internal/ratelimit"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const requestKeyPrefix = "otp:req:"

type service struct {
	store     domain.Store
	limiter   ratelimit.Limiter
	mail      maildomain.Service
	templates *mailer.Templates
	cfg       config.OTPConfig
	metrics   *metrics.Metrics
	log       *zap.Logger
}

func NewService(
	store domain.Store,
	limiter ratelimit.Limiter,
	mail maildomain.Service,
	templates *mailer.Templates,
	cfg config.Config,
	m *metrics.Metrics,
	log *zap.Logger,
) domain.Service {
	return &service{
		store:     store,
		limiter:   limiter,
		mail:      mail,
		templates: templates,
		cfg:       cfg.OTP,
		metrics:   m,
		log:       log.Named("otp"),
	}
}

// Request issues a fresh code for the address, replacing any live one.
func (s *service) Request(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if v := mailer.ValidateAddress(email); !v.Valid {
		return domain.ErrInvalidEmail
	}

	res, err := s.limiter.Allow(ctx, requestKey(email), s.cfg.RequestsPerMin/60.0, s.cfg.RequestBurst)
	if err != nil {
		// A broken limiter must not take OTP issuance down with it.
		s.log.Error("otp rate limiter unavailable", zap.Error(err))
	} else if !res.Allowed {
		s.metrics.IncRateLimited(ctx, "otp_request")
		return domain.ErrRateLimited
	}

	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash code: %w", err)
	}

	ttl := time.Duration(s.cfg.ExpiryMinutes) * time.Minute
	if err := s.store.Save(ctx, email, string(hash), ttl); err != nil {
		return fmt.Errorf("store code: %w", err)
	}

	if result := s.mail.Send(ctx, s.templates.OTP(email, code)); !result.Success {
		s.log.Warn("otp email rejected", zap.String("email", email), zap.String("error", result.Error))
		return domain.ErrDeliveryFailed
	}

	s.metrics.IncOTPIssued(ctx)
	return nil
}

// Verify consumes the live code for the address. Codes are single use.
func (s *service) Verify(ctx context.Context, email, code string) error {
	email = strings.TrimSpace(email)
	hash, err := s.store.Get(ctx, email)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) != nil {
		return domain.ErrCodeMismatch
	}

	if err := s.store.Delete(ctx, email); err != nil {
		// The code already verified; a failed delete only risks reuse within
		// the TTL, which the log makes visible.
		s.log.Error("failed to consume otp code", zap.String("email", email), zap.Error(err))
	}
	return nil
}

func requestKey(email string) string {
	return requestKeyPrefix + strings.ToLower(email)
}

// generateCode draws a uniform 6-digit code from crypto/rand.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
