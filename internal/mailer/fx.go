package mailer

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/forgehack/platform/internal/config"
	"github.com/forgehack/platform/internal/mailer/attemptlog"
	"github.com/forgehack/platform/internal/mailer/domain"
	"github.com/forgehack/platform/internal/mailer/provider"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("mailer",
	fx.Provide(
		providePolicy,
		provideProvider,
		provideAttemptLog,
		provideTemplates,
		NewService,
	),
)

func providePolicy(cfg config.Config) Policy {
	return PolicyFromConfig(cfg.Mail)
}

func provideTemplates(cfg config.Config) *Templates {
	return NewTemplates(cfg.Mail.From, cfg.OTP.ExpiryMinutes)
}

func provideProvider(cfg config.Config, log *zap.Logger) domain.Provider {
	switch cfg.Mail.Provider {
	case config.ProviderResend:
		return provider.NewResend(cfg.Mail.APIKey)
	default:
		return provider.NewNoop(log)
	}
}

func provideAttemptLog(lc fx.Lifecycle, db *gorm.DB, genID *snowflake.Node, log *zap.Logger) domain.AttemptLog {
	l := attemptlog.New(db, genID, log)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			_ = l.Flush(ctx)
			l.Close()
			return nil
		},
	})
	return l
}
