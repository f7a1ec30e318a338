package usecase

import (
	"context"

	"appdriver/internal/codegen"
	"appdriver/internal/config"
	"appdriver/internal/usecase/adapters"
	"appdriver/pkg/logg"
	"appdriver/pkg/tracing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	codegenServiceName = "CodegenService"
	codegenTracer      = "usecase.codegen"

	defaultTestName = "Recorded Session"
)

// CodegenService turns the session's recording into test source for one of
// the supported synthesis targets.
type CodegenService struct {
	config  *config.Config
	logger  *zap.Logger
	tracer  trace.Tracer
	session adapters.SessionService
}

type CodegenServiceParams struct {
	Config  *config.Config
	Logger  *zap.Logger
	Session adapters.SessionService
}

func NewCodegenService(params CodegenServiceParams) *CodegenService {
	return &CodegenService{
		config:  params.Config,
		logger:  params.Logger.With(zap.String(logg.Layer, codegenServiceName)),
		tracer:  otel.Tracer(codegenTracer),
		session: params.Session,
	}
}

func (s *CodegenService) SynthesizeTest(ctx context.Context, format, testName, appPath string) (src string, err error) {
	const op = "SynthesizeTest"
	logger := s.logger.With(zap.String(logg.Operation, op), zap.String(logg.Format, format))

	_, step := tracing.StartSpan(ctx, s.tracer, logger, op, attribute.String("format", format))
	defer func() {
		step.End(err)
	}()

	if testName == "" {
		testName = defaultTestName
	}

	if appPath == "" {
		appPath = s.config.DriverConfig.BinaryPath
	}

	log := s.session.RecordingLog()

	src, err = codegen.Synthesize(log, codegen.Format(format), testName, appPath)
	if err != nil {
		return "", err
	}

	logger.Info("Test source synthesized", zap.Int("actions", len(log)))

	return src, nil
}
