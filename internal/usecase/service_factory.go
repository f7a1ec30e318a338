package usecase

import (
	"appdriver/internal/usecase/adapters"
)

type serviceFactory struct {
	deps Params
}

func newServiceFactory(deps Params) *serviceFactory {
	return &serviceFactory{
		deps: deps,
	}
}

func (f *serviceFactory) CreateDriverService() adapters.DriverService {
	return f.deps.Manager
}

func (f *serviceFactory) CreateSessionService() adapters.SessionService {
	return f.deps.Session
}

func (f *serviceFactory) CreateCodegenService() adapters.CodegenService {
	return NewCodegenService(CodegenServiceParams{
		Config:  f.deps.Config,
		Logger:  f.deps.Logger,
		Session: f.deps.Session,
	})
}
