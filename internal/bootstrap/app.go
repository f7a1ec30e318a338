package bootstrap

import (
	"time"

	"appdriver/internal/config"
	"appdriver/internal/console"
	"appdriver/internal/driver"
	"appdriver/internal/ports"
	"appdriver/internal/session"
	"appdriver/internal/usecase"

	"go.uber.org/fx"
)

func NewApp() *fx.App {
	return fx.New(
		fx.Provide(
			config.GetConfig,
			newLogger,
			newTraceProvider,

			fx.Annotate(driver.NewManager, fx.As(new(ports.AppManager))),

			session.NewSession,
			usecase.NewUsecase,

			console.NewInterface,
		),

		fx.Invoke(
			runConsole,
		),

		fx.StartTimeout(10*time.Second),
	)
}
