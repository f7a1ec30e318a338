package session

import (
	"testing"

	"appdriver/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func action(tool string) entity.RecordedAction {
	return entity.RecordedAction{Tool: tool, Params: map[string]any{}}
}

func TestRecorderStateMachine(t *testing.T) {
	r := NewRecorder()

	// Idle: records are no-ops.
	r.Record(action("click"))
	assert.Equal(t, entity.RecordingStatus{Enabled: false, Count: 0}, r.Status())

	r.Start()
	r.Record(action("click"))
	r.Record(action("type"))
	r.Record(action("screenshot"))

	log := r.Stop()
	require.Len(t, log, 3)
	assert.Equal(t, "click", log[0].Tool)
	assert.Equal(t, "type", log[1].Tool)
	assert.Equal(t, "screenshot", log[2].Tool)

	// Stop keeps the log and disables further appends.
	r.Record(action("click"))
	assert.Equal(t, entity.RecordingStatus{Enabled: false, Count: 3}, r.Status())

	r.Clear()
	assert.Equal(t, entity.RecordingStatus{Enabled: false, Count: 0}, r.Status())
}

func TestRecorderStartClearsPreviousLog(t *testing.T) {
	r := NewRecorder()

	r.Start()
	r.Record(action("click"))
	r.Stop()

	r.Start()
	assert.Equal(t, entity.RecordingStatus{Enabled: true, Count: 0}, r.Status())
}

func TestRecorderClearKeepsRecordingState(t *testing.T) {
	r := NewRecorder()

	r.Start()
	r.Record(action("click"))
	r.Clear()

	status := r.Status()
	assert.True(t, status.Enabled)
	assert.Zero(t, status.Count)

	r.Record(action("type"))
	assert.Equal(t, 1, r.Status().Count)
}

func TestRecorderStampsMissingTimestamps(t *testing.T) {
	r := NewRecorder()

	r.Start()
	r.Record(action("click"))

	log := r.Log()
	require.Len(t, log, 1)
	assert.False(t, log[0].Timestamp.IsZero())
}

func TestRecorderLogReturnsCopy(t *testing.T) {
	r := NewRecorder()

	r.Start()
	r.Record(action("click"))

	log := r.Log()
	log[0].Tool = "mutated"

	assert.Equal(t, "click", r.Log()[0].Tool)
}
