package session

import (
	"context"
	"strings"
	"testing"

	"appdriver/internal/entity"
	"appdriver/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestFormatSnapshotAsText(t *testing.T) {
	page := &fakePage{
		title: "Preferences",
		url:   "app://preferences",
		elements: []*fakeElement{
			{tag: "button", attrs: map[string]string{"aria-label": "Apply"}, text: "OK", visible: true, enabled: true},
			{tag: "button", text: "Revert all pending changes before the next synchronization run", visible: true, enabled: false},
			{tag: "input", attrs: map[string]string{"role": "textbox"}, visible: true, enabled: true},
			{tag: "select", visible: true, enabled: true},
		},
	}

	s := newTestSession(page)

	_, err := s.CaptureSnapshot(context.Background())
	require.NoError(t, err)

	text, err := s.FormatSnapshotAsText()
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	require.Len(t, lines, 6)

	assert.Equal(t, "Window: Preferences", lines[0])
	assert.Equal(t, "URL: app://preferences", lines[1])

	// aria-label wins over text.
	assert.Equal(t, "[e1] button: Apply", lines[2])

	// Long text labels are truncated and disabled elements flagged.
	assert.Equal(t, "[e2] button: Revert all pending changes before the next synchro [disabled]", lines[3])

	// No aria-label or text: role, then the bare tag.
	assert.Equal(t, "[e3] input: textbox", lines[4])
	assert.Equal(t, "[e4] select: select", lines[5])
}

func TestFormatSnapshotAsTextWithoutSnapshot(t *testing.T) {
	s := newTestSession(&fakePage{})

	_, err := s.FormatSnapshotAsText()
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotConnected, apperr.CodeOf(err))
}

func TestClickRefRecordsElementInfo(t *testing.T) {
	button := visibleButton("submit", "Submit")
	button.attrs["aria-label"] = "Submit form"
	page := &fakePage{elements: []*fakeElement{button}}
	s := newTestSession(page)

	_, err := s.CaptureSnapshot(context.Background())
	require.NoError(t, err)

	s.StartRecording()

	require.NoError(t, s.ClickRef(context.Background(), "e1"))
	assert.Equal(t, 1, button.clicks)

	log := s.StopRecording()
	require.Len(t, log, 1)

	assert.Equal(t, "click", log[0].Tool)
	assert.Equal(t, map[string]any{"ref": "e1"}, log[0].Params)

	require.NotNil(t, log[0].Element)
	assert.Equal(t, "e1", log[0].Element.Reference)
	assert.Equal(t, "button", log[0].Element.Tag)
	assert.Equal(t, "Submit", log[0].Element.Text)
	assert.Equal(t, "submit", log[0].Element.Attributes["id"])
	assert.Equal(t, "Submit form", log[0].Element.Attributes["aria-label"])
}

func TestClickRefWhileIdleLeavesLogEmpty(t *testing.T) {
	button := visibleButton("submit", "Submit")
	page := &fakePage{elements: []*fakeElement{button}}
	s := newTestSession(page)

	_, err := s.CaptureSnapshot(context.Background())
	require.NoError(t, err)

	require.NoError(t, s.ClickRef(context.Background(), "e1"))
	assert.Equal(t, 1, button.clicks)
	assert.Zero(t, s.RecordingStatus().Count)
}

func TestTypeRefClearReplacesValue(t *testing.T) {
	input := &fakeElement{tag: "input", attrs: map[string]string{"name": "email"}, visible: true, enabled: true, value: "old"}
	page := &fakePage{elements: []*fakeElement{input}}
	s := newTestSession(page)

	_, err := s.CaptureSnapshot(context.Background())
	require.NoError(t, err)

	s.StartRecording()

	require.NoError(t, s.TypeRef(context.Background(), "e1", "new@example.com", true))
	assert.Equal(t, "new@example.com", input.value)
	assert.Empty(t, input.typed, "clear must replace, not key-press")

	log := s.RecordingLog()
	require.Len(t, log, 1)
	assert.Equal(t, "type", log[0].Tool)
	assert.Equal(t, map[string]any{"ref": "e1", "text": "new@example.com", "clear": true}, log[0].Params)
}

func TestTypeRefAppendsWithoutClear(t *testing.T) {
	input := &fakeElement{tag: "input", attrs: map[string]string{"name": "email"}, visible: true, enabled: true, value: "user"}
	page := &fakePage{elements: []*fakeElement{input}}
	s := newTestSession(page)

	_, err := s.CaptureSnapshot(context.Background())
	require.NoError(t, err)

	require.NoError(t, s.TypeRef(context.Background(), "e1", "@example.com", false))
	assert.Equal(t, "user@example.com", input.value)
	assert.Equal(t, []string{"@example.com"}, input.typed)
}

func TestValueOfRef(t *testing.T) {
	input := &fakeElement{tag: "input", attrs: map[string]string{"name": "q"}, visible: true, enabled: true, value: "hello"}
	page := &fakePage{elements: []*fakeElement{input}}
	s := newTestSession(page)

	_, err := s.CaptureSnapshot(context.Background())
	require.NoError(t, err)

	value, err := s.ValueOfRef(context.Background(), "e1")
	require.NoError(t, err)
	assert.Equal(t, "hello", value)
}

func TestCaptureScreenRecordsFilename(t *testing.T) {
	s := newTestSession(&fakePage{})

	s.StartRecording()

	data, err := s.CaptureScreen(context.Background(), "login.png")
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	log := s.RecordingLog()
	require.Len(t, log, 1)
	assert.Equal(t, "screenshot", log[0].Tool)
	assert.Equal(t, map[string]any{"filename": "login.png"}, log[0].Params)
	assert.Nil(t, log[0].Element)
}

func TestRunScriptRecordsScript(t *testing.T) {
	page := &fakePage{}
	s := newTestSession(page)

	s.StartRecording()

	result, err := s.RunScript(context.Background(), "document.title")
	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, "document.title", page.script)

	log := s.RecordingLog()
	require.Len(t, log, 1)
	assert.Equal(t, "evaluate", log[0].Tool)
	assert.Equal(t, map[string]any{"script": "document.title"}, log[0].Params)
}

func TestObservationBuffersAreIndependent(t *testing.T) {
	s := newTestSession(&fakePage{})

	s.AddConsoleEntry("error", "boom")
	s.AddConsoleEntry("info", "started")
	s.AddNetworkEntry("GET", "https://api.example.com/users", 200)
	s.RegisterMock(entity.MockResponse{URLPattern: "/users", Status: 503, Body: `{"error":"down"}`})

	assert.Len(t, s.ConsoleEntries(), 2)
	assert.Len(t, s.NetworkEntries(), 1)

	mock, ok := s.MockFor("https://api.example.com/users?page=2")
	require.True(t, ok)
	assert.Equal(t, 503, mock.Status)

	_, ok = s.MockFor("https://api.example.com/orders")
	assert.False(t, ok)

	s.ClearConsole()
	assert.Empty(t, s.ConsoleEntries())
	assert.Len(t, s.NetworkEntries(), 1, "clearing one buffer must not touch the others")

	s.ClearNetwork()
	s.ClearMocks()
	assert.Empty(t, s.NetworkEntries())

	_, ok = s.MockFor("https://api.example.com/users")
	assert.False(t, ok)
}

func TestConsoleEntriesReturnsCopy(t *testing.T) {
	s := newTestSession(&fakePage{})

	s.AddConsoleEntry("warn", "original")

	entries := s.ConsoleEntries()
	entries[0].Message = "mutated"

	assert.Equal(t, "original", s.ConsoleEntries()[0].Message)
}

func TestExportRecording(t *testing.T) {
	button := visibleButton("save", "Save")
	page := &fakePage{elements: []*fakeElement{button}}
	s := newTestSession(page)

	_, err := s.CaptureSnapshot(context.Background())
	require.NoError(t, err)

	s.StartRecording()
	require.NoError(t, s.ClickRef(context.Background(), "e1"))

	data, err := s.ExportRecording()
	require.NoError(t, err)

	var decoded []entity.RecordedAction
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "click", decoded[0].Tool)
}

func TestRecordToolBookendsLifecycleActions(t *testing.T) {
	button := visibleButton("save", "Save")
	page := &fakePage{elements: []*fakeElement{button}}
	s := newTestSession(page)

	_, err := s.CaptureSnapshot(context.Background())
	require.NoError(t, err)

	// No-op while idle.
	s.RecordTool("launch", map[string]any{"appPath": "/opt/app"})
	assert.Zero(t, s.RecordingStatus().Count)

	s.StartRecording()
	s.RecordTool("launch", map[string]any{"appPath": "/opt/app"})
	require.NoError(t, s.ClickRef(context.Background(), "e1"))
	s.RecordTool("close", map[string]any{})

	log := s.StopRecording()
	require.Len(t, log, 3)

	assert.Equal(t, "launch", log[0].Tool)
	assert.Equal(t, map[string]any{"appPath": "/opt/app"}, log[0].Params)
	assert.Nil(t, log[0].Element)
	assert.Equal(t, "click", log[1].Tool)
	assert.Equal(t, "close", log[2].Tool)
}

func TestExportObservationBuffers(t *testing.T) {
	s := newTestSession(&fakePage{})

	data, err := s.ExportConsole()
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	s.AddConsoleEntry("error", "boom")
	s.AddNetworkEntry("GET", "https://api.example.com/users", 500)

	data, err = s.ExportConsole()
	require.NoError(t, err)

	var console []entity.ConsoleLogEntry
	require.NoError(t, json.Unmarshal(data, &console))
	require.Len(t, console, 1)
	assert.Equal(t, "boom", console[0].Message)

	data, err = s.ExportNetwork()
	require.NoError(t, err)

	var network []entity.NetworkEntry
	require.NoError(t, json.Unmarshal(data, &network))
	require.Len(t, network, 1)
	assert.Equal(t, 500, network[0].Status)
}

func TestResetDiscardsAllState(t *testing.T) {
	button := visibleButton("save", "Save")
	page := &fakePage{elements: []*fakeElement{button}}
	s := newTestSession(page)

	_, err := s.CaptureSnapshot(context.Background())
	require.NoError(t, err)

	s.StartRecording()
	require.NoError(t, s.ClickRef(context.Background(), "e1"))
	s.AddConsoleEntry("info", "x")
	s.AddNetworkEntry("GET", "/x", 200)
	s.RegisterMock(entity.MockResponse{URLPattern: "/x"})

	s.Reset()

	assert.Nil(t, s.Snapshot())
	assert.Zero(t, s.RecordingStatus().Count)
	assert.Empty(t, s.ConsoleEntries())
	assert.Empty(t, s.NetworkEntries())

	_, ok := s.MockFor("/x")
	assert.False(t, ok)
}
