package session

import (
	"context"
	"strings"

	"appdriver/internal/entity"
	"appdriver/internal/ports"
)

var attributeAllowList = []string{
	"id",
	"name",
	"type",
	"href",
	"placeholder",
	"class",
	"data-testid",
}

var clickableTags = map[string]bool{
	"a":      true,
	"button": true,
	"input":  true,
}

var clickableRoles = map[string]bool{
	"button": true,
	"link":   true,
}

// extractElement turns a live handle into an immutable descriptor. Missing
// optional attributes are tolerated; an error on a required read aborts only
// this element's inclusion in the snapshot.
func (s *Session) extractElement(ctx context.Context, handle ports.Element, ref string) (*entity.ElementDescriptor, error) {
	tag, err := handle.TagName(ctx)
	if err != nil {
		return nil, err
	}

	tag = strings.ToLower(tag)

	text, err := handle.Text(ctx)
	if err != nil {
		return nil, err
	}

	text = truncate(strings.TrimSpace(text), s.config.SessionConfig.ExtractTextLimit)

	attrs := make(map[string]string, len(attributeAllowList))

	for _, name := range attributeAllowList {
		if value, err := handle.Attribute(ctx, name); err == nil && value != "" {
			attrs[name] = value
		}
	}

	ariaLabel, _ := handle.Attribute(ctx, "aria-label")
	role, _ := handle.Attribute(ctx, "role")

	enabled, err := handle.IsEnabled(ctx)
	if err != nil {
		return nil, err
	}

	// Best-effort: some elements report no box at all.
	box, err := handle.BoundingBox(ctx)
	if err != nil {
		box = nil
	}

	return &entity.ElementDescriptor{
		Reference:   ref,
		TagName:     tag,
		Text:        text,
		AriaLabel:   ariaLabel,
		Role:        role,
		Attributes:  attrs,
		BoundingBox: box,
		Clickable:   clickableTags[tag] || clickableRoles[role],
		Visible:     true,
		Enabled:     enabled,
	}, nil
}

func truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}

	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}

	return string(runes[:limit])
}
