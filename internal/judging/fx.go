package judging

import "go.uber.org/fx"

var Module = fx.Module("judging",
	fx.Provide(NewService),
)
