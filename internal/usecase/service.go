package usecase

import (
	"appdriver/internal/config"
	"appdriver/internal/ports"
	"appdriver/internal/session"
	"appdriver/internal/usecase/adapters"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Service struct {
	Driver  adapters.DriverService
	Session adapters.SessionService
	Codegen adapters.CodegenService
}

type Params struct {
	fx.In

	Logger  *zap.Logger
	Config  *config.Config
	Manager ports.AppManager
	Session *session.Session
}

func NewUsecase(params Params) *Service {
	factory := newServiceFactory(params)

	return &Service{
		Driver:  factory.CreateDriverService(),
		Session: factory.CreateSessionService(),
		Codegen: factory.CreateCodegenService(),
	}
}
