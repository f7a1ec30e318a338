package session

import (
	"fmt"
	"strings"

	"appdriver/internal/entity"
)

// FormatSnapshotAsText renders a snapshot in the fixed line format consumed
// by external agents: a header with window title and URL, then one line per
// element in discovery order.
func (s *Session) FormatSnapshotAsText() (string, error) {
	const op = "FormatSnapshotAsText"

	snap, err := s.ensureSnapshot(op)
	if err != nil {
		return "", err
	}

	var b strings.Builder

	fmt.Fprintf(&b, "Window: %s\nURL: %s\n", snap.Title, snap.URL)

	for _, ref := range snap.Refs {
		desc := snap.Elements[ref]
		label := truncate(elementLabel(desc), s.config.SessionConfig.RenderLabelLimit)

		fmt.Fprintf(&b, "[%s] %s: %s", ref, desc.TagName, label)

		if !desc.Enabled {
			b.WriteString(" [disabled]")
		}

		b.WriteByte('\n')
	}

	return b.String(), nil
}

// elementLabel picks the first non-empty of aria-label, text, role, tag.
func elementLabel(desc entity.ElementDescriptor) string {
	for _, candidate := range []string{desc.AriaLabel, desc.Text, desc.Role} {
		if candidate != "" {
			return candidate
		}
	}

	return desc.TagName
}
