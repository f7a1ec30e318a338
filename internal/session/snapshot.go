package session

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"appdriver/internal/entity"
	"appdriver/internal/ports"
	"appdriver/pkg/apperr"
	"appdriver/pkg/logg"
	"appdriver/pkg/tracing"

	"go.uber.org/zap"
)

// Fixed query set for interactive elements, issued as a single selector
// list. One query returns each element exactly once, in document order,
// no matter how many arms it matches; handles from separate queries never
// compare equal, so collection must not rely on handle identity.
var interactiveSelectors = []string{
	"button",
	"a",
	"input",
	"select",
	"textarea",
	`[role="button"]`,
	`[role="link"]`,
	`[role="checkbox"]`,
	`[role="radio"]`,
	`[role="menuitem"]`,
	`[role="tab"]`,
	"[onclick]",
	"[tabindex]",
}

var interactiveQuery = strings.Join(interactiveSelectors, ", ")

var interactiveTags = map[string]bool{
	"button":   true,
	"a":        true,
	"input":    true,
	"select":   true,
	"textarea": true,
}

var interactiveRoles = map[string]bool{
	"button":   true,
	"link":     true,
	"checkbox": true,
	"radio":    true,
	"menuitem": true,
	"tab":      true,
}

// CaptureSnapshot discovers the currently visible interactive elements,
// assigns e1..eN references in discovery order and replaces the session's
// snapshot. A reference is only valid until the next capture. Extraction
// failures are per-element: a candidate that goes stale mid-iteration is
// skipped, never propagated.
func (s *Session) CaptureSnapshot(ctx context.Context) (snap *entity.Snapshot, err error) {
	const op = "CaptureSnapshot"
	logger := s.logger.With(zap.String(logg.Operation, op))

	ctx, step := tracing.StartSpan(ctx, s.tracer, logger, op)
	defer func() {
		step.End(err)
	}()

	page, err := s.page(op)
	if err != nil {
		return nil, err
	}

	title, err := page.Title(ctx)
	if err != nil {
		logger.Warn("Failed to read window title", zap.Error(err))
	}

	url, err := page.URL(ctx)
	if err != nil {
		logger.Warn("Failed to read URL", zap.Error(err))
	}

	step.AddEvent("collecting candidates")

	candidates, err := s.collectCandidates(ctx, page)
	if err != nil {
		return nil, apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaReason: "candidate_query_failed",
			apperr.MetaStage:  apperr.StageSnapshot,
		})
	}

	snap = &entity.Snapshot{
		Title:     title,
		URL:       url,
		Refs:      make([]string, 0, len(candidates)),
		Elements:  make(map[string]entity.ElementDescriptor, len(candidates)),
		Timestamp: time.Now(),
	}

	for _, handle := range candidates {
		visible, err := handle.IsVisible(ctx)
		if err != nil || !visible {
			continue
		}

		ref := fmt.Sprintf("e%d", len(snap.Refs)+1)

		desc, err := s.extractElement(ctx, handle, ref)
		if err != nil {
			logger.Debug("Skipping element", zap.String(logg.Reference, ref), zap.Error(err))

			continue
		}

		snap.Refs = append(snap.Refs, ref)
		snap.Elements[ref] = *desc
	}

	step.AddEvent("snapshot built")
	logger.Info("Snapshot captured", zap.Int("elements", len(snap.Refs)))

	s.snapshot = snap

	return snap, nil
}

// collectCandidates runs the combined interactive query once and keeps the
// candidates that pass the Go-side interactivity check, capped at the
// configured maximum to bound snapshot cost.
func (s *Session) collectCandidates(ctx context.Context, page ports.Page) ([]ports.Element, error) {
	handles, err := page.QueryAll(ctx, interactiveQuery)
	if err != nil {
		return nil, err
	}

	maxElements := s.config.SessionConfig.MaxSnapshotElements
	candidates := make([]ports.Element, 0, maxElements)

	for _, handle := range handles {
		if len(candidates) >= maxElements {
			break
		}

		if !isInteractive(ctx, handle) {
			continue
		}

		candidates = append(candidates, handle)
	}

	return candidates, nil
}

// isInteractive re-checks a candidate against the query's intent. The
// [tabindex] arm of the selector list matches any explicit tabindex, but
// only a positive value makes an otherwise non-interactive element
// focusable. Read failures disqualify only this candidate.
func isInteractive(ctx context.Context, handle ports.Element) bool {
	tag, err := handle.TagName(ctx)
	if err != nil {
		return false
	}

	if interactiveTags[strings.ToLower(tag)] {
		return true
	}

	if role, err := handle.Attribute(ctx, "role"); err == nil && interactiveRoles[role] {
		return true
	}

	if onclick, err := handle.Attribute(ctx, "onclick"); err == nil && onclick != "" {
		return true
	}

	return hasPositiveTabIndex(ctx, handle)
}

func hasPositiveTabIndex(ctx context.Context, handle ports.Element) bool {
	raw, err := handle.Attribute(ctx, "tabindex")
	if err != nil || raw == "" {
		return false
	}

	idx, err := strconv.Atoi(raw)

	return err == nil && idx > 0
}
