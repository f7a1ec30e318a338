package entity

import (
	"time"
)

// ElementDescriptor is owned by the snapshot that created it and is
// immutable after creation. Reference is only valid until the next capture.
type ElementDescriptor struct {
	Reference   string            `json:"reference"`
	TagName     string            `json:"tagName"`
	Text        string            `json:"text"`
	AriaLabel   string            `json:"ariaLabel,omitempty"`
	Role        string            `json:"role,omitempty"`
	Attributes  map[string]string `json:"attributes"`
	BoundingBox *BoundingBox      `json:"boundingBox,omitempty"`
	Clickable   bool              `json:"isClickable"`
	Visible     bool              `json:"isVisible"`
	Enabled     bool              `json:"isEnabled"`
}

type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Snapshot maps references to descriptors in discovery order. It is
// replaced wholesale by the next capture; callers must never assume a stale
// snapshot still matches the live UI.
type Snapshot struct {
	Title     string                       `json:"title"`
	URL       string                       `json:"url"`
	Refs      []string                     `json:"refs"`
	Elements  map[string]ElementDescriptor `json:"elements"`
	Timestamp time.Time                    `json:"timestamp"`
}

// Descriptor returns the descriptor for ref and whether it exists.
func (s *Snapshot) Descriptor(ref string) (ElementDescriptor, bool) {
	desc, ok := s.Elements[ref]

	return desc, ok
}

// RecordedAction is an append-only log entry. ElementInfo is captured at
// record time so the log stays meaningful after references churn.
type RecordedAction struct {
	Tool      string           `json:"tool"`
	Params    map[string]any   `json:"params"`
	Timestamp time.Time        `json:"timestamp"`
	Element   *RecordedElement `json:"elementInfo,omitempty"`
}

type RecordedElement struct {
	Reference  string            `json:"reference"`
	Tag        string            `json:"tag"`
	Text       string            `json:"text"`
	Attributes map[string]string `json:"attributes"`
}

// LocatorCandidate is derived and ephemeral; Selectors is ordered
// most-preferred first and callers are expected to try them top-down.
type LocatorCandidate struct {
	Reference string   `json:"reference"`
	Score     int      `json:"score"`
	Selectors []string `json:"selectors"`
}

type RecordingStatus struct {
	Enabled bool `json:"enabled"`
	Count   int  `json:"count"`
}

type ConsoleLogEntry struct {
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type NetworkEntry struct {
	Method    string    `json:"method"`
	URL       string    `json:"url"`
	Status    int       `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type MockResponse struct {
	URLPattern string `json:"urlPattern"`
	Status     int    `json:"status"`
	Body       string `json:"body"`
}
