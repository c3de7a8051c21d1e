package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments. A nil *Metrics is a valid
// no-op receiver so tests can pass nil.
type Metrics struct {
	emailsSent     metric.Int64Counter
	emailsFailed   metric.Int64Counter
	emailRetries   metric.Int64Counter
	batchFallbacks metric.Int64Counter
	otpIssued      metric.Int64Counter
	rateLimited    metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	return provider, nil
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	ctx := context.Background()
	switch strings.ToLower(strings.TrimSpace(protocol)) {
	case "", "grpc":
		return otlpmetricgrpc.New(ctx,
			otlpmetricgrpc.WithEndpoint(endpoint),
			otlpmetricgrpc.WithInsecure(),
		)
	case "http", "http/protobuf":
		return otlpmetrichttp.New(ctx,
			otlpmetrichttp.WithEndpoint(endpoint),
			otlpmetrichttp.WithInsecure(),
		)
	default:
		return nil, fmt.Errorf("unsupported otlp protocol %q", protocol)
	}
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "forgehack"
	}
	meter := provider.Meter(name)

	emailsSent, err := meter.Int64Counter("forgehack_emails_sent_total")
	if err != nil {
		return nil, err
	}
	emailsFailed, err := meter.Int64Counter("forgehack_emails_failed_total")
	if err != nil {
		return nil, err
	}
	emailRetries, err := meter.Int64Counter("forgehack_email_retries_total")
	if err != nil {
		return nil, err
	}
	batchFallbacks, err := meter.Int64Counter("forgehack_email_batch_fallback_total")
	if err != nil {
		return nil, err
	}
	otpIssued, err := meter.Int64Counter("forgehack_otp_issued_total")
	if err != nil {
		return nil, err
	}
	rateLimited, err := meter.Int64Counter("forgehack_rate_limit_denied_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		emailsSent:     emailsSent,
		emailsFailed:   emailsFailed,
		emailRetries:   emailRetries,
		batchFallbacks: batchFallbacks,
		otpIssued:      otpIssued,
		rateLimited:    rateLimited,
	}, nil
}

func (m *Metrics) IncEmailSent(ctx context.Context, emailType, provider string) {
	if m == nil {
		return
	}
	m.emailsSent.Add(ctx, 1, metric.WithAttributes(
		attribute.String("type", emailType),
		attribute.String("provider", provider),
	))
}

func (m *Metrics) IncEmailFailed(ctx context.Context, emailType, provider, reason string) {
	if m == nil {
		return
	}
	m.emailsFailed.Add(ctx, 1, metric.WithAttributes(
		attribute.String("type", emailType),
		attribute.String("provider", provider),
		attribute.String("reason", reason),
	))
}

func (m *Metrics) IncEmailRetry(ctx context.Context, provider string) {
	if m == nil {
		return
	}
	m.emailRetries.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", provider),
	))
}

func (m *Metrics) IncBatchFallback(ctx context.Context, provider string) {
	if m == nil {
		return
	}
	m.batchFallbacks.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", provider),
	))
}

func (m *Metrics) IncOTPIssued(ctx context.Context) {
	if m == nil {
		return
	}
	m.otpIssued.Add(ctx, 1)
}

func (m *Metrics) IncRateLimited(ctx context.Context, scope string) {
	if m == nil {
		return
	}
	m.rateLimited.Add(ctx, 1, metric.WithAttributes(
		attribute.String("scope", scope),
	))
}
