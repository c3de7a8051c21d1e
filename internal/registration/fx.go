package registration

import "go.uber.org/fx"

var Module = fx.Module("registration",
	fx.Provide(
		NewRepository,
		NewService,
	),
)
