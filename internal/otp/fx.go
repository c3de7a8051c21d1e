package otp

import (
	"github.com/forgehack/platform/internal/otp/domain"
	"go.uber.org/fx"
)

var Module = fx.Module("otp",
	fx.Provide(
		fx.Annotate(NewRedisStore, fx.As(new(domain.Store))),
		NewService,
	),
)
