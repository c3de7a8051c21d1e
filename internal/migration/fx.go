package migration

import (
	"github.com/forgehack/platform/internal/config"
	judgingdomain "github.com/forgehack/platform/internal/judging/domain"
	maildomain "github.com/forgehack/platform/internal/mailer/domain"
	regdomain "github.com/forgehack/platform/internal/registration/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType != "postgres" {
			return conn.AutoMigrate(
				&regdomain.Team{},
				&regdomain.TeamMember{},
				&judgingdomain.Score{},
				&maildomain.AttemptRecord{},
			)
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}),
)
