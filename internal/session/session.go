package session

import (
	"appdriver/internal/config"
	"appdriver/internal/entity"
	"appdriver/internal/ports"
	"appdriver/pkg/apperr"
	"appdriver/pkg/logg"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	sessionName   = "Session"
	sessionTracer = "session"
)

// Session owns all mutable per-session state: the current snapshot, the
// action recorder and the observation buffers. One session, one in-flight
// operation at a time; callers that add concurrency must serialize mutators
// themselves.
type Session struct {
	id       uuid.UUID
	config   *config.Config
	logger   *zap.Logger
	tracer   trace.Tracer
	manager  ports.AppManager
	snapshot *entity.Snapshot
	recorder *Recorder
	console  []entity.ConsoleLogEntry
	network  []entity.NetworkEntry
	mocks    []entity.MockResponse
}

type Params struct {
	fx.In

	Config  *config.Config
	Logger  *zap.Logger
	Manager ports.AppManager
}

func NewSession(params Params) *Session {
	id := uuid.New()

	return &Session{
		id:       id,
		config:   params.Config,
		logger:   params.Logger.With(zap.String(logg.Layer, sessionName), zap.String(logg.SessionID, id.String())),
		tracer:   otel.Tracer(sessionTracer),
		manager:  params.Manager,
		recorder: NewRecorder(),
	}
}

func (s *Session) ID() uuid.UUID {
	return s.id
}

// Snapshot returns the current snapshot, or nil before the first capture.
func (s *Session) Snapshot() *entity.Snapshot {
	return s.snapshot
}

// Reset discards the snapshot, the recording and every observation buffer.
// Called on session teardown.
func (s *Session) Reset() {
	s.snapshot = nil
	s.recorder.Clear()
	s.console = nil
	s.network = nil
	s.mocks = nil
}

func (s *Session) page(op string) (ports.Page, error) {
	if !s.manager.IsReady() {
		return nil, apperr.WrapErrorWithReason(op, apperr.CodeNotConnected, "no_active_session")
	}

	page, err := s.manager.Page()
	if err != nil {
		return nil, apperr.Wrap(op, apperr.CodeNotConnected, err, map[string]any{
			apperr.MetaReason: "page_unavailable",
		})
	}

	return page, nil
}

func (s *Session) ensureSnapshot(op string) (*entity.Snapshot, error) {
	if s.snapshot == nil {
		return nil, apperr.WrapErrorWithReason(op, apperr.CodeNotConnected, "no_snapshot_captured")
	}

	return s.snapshot, nil
}
