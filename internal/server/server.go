package server

import (
	"context"
	"net/http"
	"time"

	"github.com/forgehack/platform/internal/config"
	judgingdomain "github.com/forgehack/platform/internal/judging/domain"
	"github.com/forgehack/platform/internal/observability"
	obslogger "github.com/forgehack/platform/internal/observability/logger"
	obstracing "github.com/forgehack/platform/internal/observability/tracing"
	otpdomain "github.com/forgehack/platform/internal/otp/domain"
	regdomain "github.com/forgehack/platform/internal/registration/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

// NewEngine builds the gin engine with the shared middleware stack.
func NewEngine(obsCfg observability.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config) *gin.Engine {
	return NewEngine(obsCfg)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine  *gin.Engine
	cfg     config.Config
	teams   regdomain.Service
	judging judgingdomain.Service
	otp     otpdomain.Service
}

type ServerParams struct {
	fx.In

	Gin     *gin.Engine
	Cfg     config.Config
	Teams   regdomain.Service
	Judging judgingdomain.Service
	OTP     otpdomain.Service
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:  p.Gin,
		cfg:     p.Cfg,
		teams:   p.Teams,
		judging: p.Judging,
		otp:     p.OTP,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	v1 := s.engine.Group("/v1")

	v1.POST("/teams", s.registerTeam)
	v1.GET("/teams/:idOrSlug", s.getTeam)

	v1.POST("/otp/request", s.requestOTP)
	v1.POST("/otp/verify", s.verifyOTP)

	v1.GET("/leaderboard", s.leaderboard)

	admin := v1.Group("/admin", AdminAuth(s.cfg.AdminToken))
	admin.GET("/teams", s.listTeams)
	admin.PATCH("/teams/:id/status", s.setTeamStatus)
	admin.POST("/scores", s.submitScore)
	admin.GET("/teams/:id/scores", s.teamScores)
}
