package session

import (
	"time"

	"appdriver/internal/entity"
)

// Recorder is a two-state machine (Idle/Recording) around an append-only,
// causally ordered action log. Entries are never mutated or reordered after
// being appended.
type Recorder struct {
	enabled bool
	log     []entity.RecordedAction
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

// Start transitions to Recording and clears any previous log.
func (r *Recorder) Start() {
	r.log = nil
	r.enabled = true
}

// Stop transitions to Idle and returns the accumulated log without
// clearing it.
func (r *Recorder) Stop() []entity.RecordedAction {
	r.enabled = false

	return r.Log()
}

// Record appends an entry while Recording and is a no-op while Idle.
func (r *Recorder) Record(action entity.RecordedAction) {
	if !r.enabled {
		return
	}

	if action.Timestamp.IsZero() {
		action.Timestamp = time.Now()
	}

	r.log = append(r.log, action)
}

// Clear empties the log without changing state.
func (r *Recorder) Clear() {
	r.log = nil
}

func (r *Recorder) Status() entity.RecordingStatus {
	return entity.RecordingStatus{
		Enabled: r.enabled,
		Count:   len(r.log),
	}
}

// Log returns a copy of the accumulated entries in append order.
func (r *Recorder) Log() []entity.RecordedAction {
	out := make([]entity.RecordedAction, len(r.log))
	copy(out, r.log)

	return out
}
