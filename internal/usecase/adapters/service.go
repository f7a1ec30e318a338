package adapters

import (
	"context"

	"appdriver/internal/entity"
	"appdriver/internal/ports"
)

type DriverService interface {
	Launch(ctx context.Context) error
	Close(ctx context.Context) error
	IsReady() bool
}

type SessionService interface {
	CaptureSnapshot(ctx context.Context) (*entity.Snapshot, error)
	Snapshot() *entity.Snapshot
	FormatSnapshotAsText() (string, error)
	ResolveRef(ctx context.Context, ref string) (ports.Element, error)
	ClickRef(ctx context.Context, ref string) error
	TypeRef(ctx context.Context, ref, text string, clear bool) error
	ValueOfRef(ctx context.Context, ref string) (string, error)
	CaptureScreen(ctx context.Context, filename string) ([]byte, error)
	RunScript(ctx context.Context, script string, args ...any) (any, error)
	GenerateLocator(description string) ([]entity.LocatorCandidate, error)
	StartRecording()
	StopRecording() []entity.RecordedAction
	ClearRecording()
	RecordingStatus() entity.RecordingStatus
	RecordingLog() []entity.RecordedAction
	RecordTool(tool string, params map[string]any)
	ExportRecording() ([]byte, error)
	ExportConsole() ([]byte, error)
	ExportNetwork() ([]byte, error)
	Reset()
}

type CodegenService interface {
	SynthesizeTest(ctx context.Context, format, testName, appPath string) (string, error)
}
