package session

import (
	"strings"
	"time"

	"appdriver/internal/entity"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Observation buffers are auxiliary session state: each is independently
// appended and independently clearable, and none of them feeds synthesis.

func (s *Session) AddConsoleEntry(level, message string) {
	s.console = append(s.console, entity.ConsoleLogEntry{
		Level:     level,
		Message:   message,
		Timestamp: time.Now(),
	})
}

func (s *Session) ConsoleEntries() []entity.ConsoleLogEntry {
	out := make([]entity.ConsoleLogEntry, len(s.console))
	copy(out, s.console)

	return out
}

func (s *Session) ClearConsole() {
	s.console = nil
}

func (s *Session) AddNetworkEntry(method, url string, status int) {
	s.network = append(s.network, entity.NetworkEntry{
		Method:    method,
		URL:       url,
		Status:    status,
		Timestamp: time.Now(),
	})
}

func (s *Session) NetworkEntries() []entity.NetworkEntry {
	out := make([]entity.NetworkEntry, len(s.network))
	copy(out, s.network)

	return out
}

func (s *Session) ClearNetwork() {
	s.network = nil
}

func (s *Session) RegisterMock(mock entity.MockResponse) {
	s.mocks = append(s.mocks, mock)
}

// MockFor returns the first registered mock whose pattern is contained in
// url, or false when none matches.
func (s *Session) MockFor(url string) (entity.MockResponse, bool) {
	for _, mock := range s.mocks {
		if mock.URLPattern != "" && strings.Contains(url, mock.URLPattern) {
			return mock, true
		}
	}

	return entity.MockResponse{}, false
}

func (s *Session) ClearMocks() {
	s.mocks = nil
}

// ExportRecording serializes the action log for persistence by the caller.
func (s *Session) ExportRecording() ([]byte, error) {
	return json.MarshalIndent(s.recorder.Log(), "", "  ")
}

// ExportConsole and ExportNetwork serialize the observation buffers. Empty
// buffers encode as [].
func (s *Session) ExportConsole() ([]byte, error) {
	return json.MarshalIndent(s.ConsoleEntries(), "", "  ")
}

func (s *Session) ExportNetwork() ([]byte, error) {
	return json.MarshalIndent(s.NetworkEntries(), "", "  ")
}
