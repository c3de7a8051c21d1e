package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/forgehack/platform/internal/clock"
	"github.com/forgehack/platform/internal/config"
	"github.com/forgehack/platform/internal/judging"
	"github.com/forgehack/platform/internal/mailer"
	"github.com/forgehack/platform/internal/migration"
	"github.com/forgehack/platform/internal/observability"
	"github.com/forgehack/platform/internal/otp"
	"github.com/forgehack/platform/internal/ratelimit"
	"github.com/forgehack/platform/internal/registration"
	"github.com/forgehack/platform/internal/server"
	"github.com/forgehack/platform/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		ratelimit.Module,

		// Functional domains
		mailer.Module,
		registration.Module,
		judging.Module,
		otp.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
