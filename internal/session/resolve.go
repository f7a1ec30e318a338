package session

import (
	"context"
	"fmt"
	"math"
	"strings"

	"appdriver/internal/config"
	"appdriver/internal/entity"
	"appdriver/internal/ports"
	"appdriver/pkg/apperr"
	"appdriver/pkg/logg"
	"appdriver/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// A strategy re-locates the logical element a descriptor was minted from.
// Strategies are evaluated strictly in declaration order; the first live,
// currently visible match wins and the rest are never tried. Attribute
// lookups survive re-renders that preserve semantic identity, the positional
// fallback survives re-renders that preserve only layout.
type strategy struct {
	name    string
	applies func(desc entity.ElementDescriptor) bool
	locate  func(ctx context.Context, page ports.Page, desc entity.ElementDescriptor, cfg *config.SessionConfig) (ports.Element, error)
}

var resolveStrategies = []strategy{
	{
		name:    "id",
		applies: func(d entity.ElementDescriptor) bool { return d.Attributes["id"] != "" },
		locate: func(ctx context.Context, page ports.Page, d entity.ElementDescriptor, _ *config.SessionConfig) (ports.Element, error) {
			return firstVisible(ctx, page, fmt.Sprintf(`[id=%q]`, d.Attributes["id"]))
		},
	},
	{
		name:    "name",
		applies: func(d entity.ElementDescriptor) bool { return d.Attributes["name"] != "" },
		locate: func(ctx context.Context, page ports.Page, d entity.ElementDescriptor, _ *config.SessionConfig) (ports.Element, error) {
			return firstVisible(ctx, page, fmt.Sprintf(`[name=%q]`, d.Attributes["name"]))
		},
	},
	{
		name:    "aria-label",
		applies: func(d entity.ElementDescriptor) bool { return d.AriaLabel != "" },
		locate: func(ctx context.Context, page ports.Page, d entity.ElementDescriptor, _ *config.SessionConfig) (ports.Element, error) {
			return firstVisible(ctx, page, fmt.Sprintf(`[aria-label=%q]`, d.AriaLabel))
		},
	},
	{
		name: "text",
		applies: func(d entity.ElementDescriptor) bool {
			return (d.TagName == "a" || d.TagName == "button") && d.Text != ""
		},
		locate: func(ctx context.Context, page ports.Page, d entity.ElementDescriptor, cfg *config.SessionConfig) (ports.Element, error) {
			needle := truncate(d.Text, cfg.ResolveTextLimit)

			handles, err := page.QueryAll(ctx, d.TagName)
			if err != nil {
				return nil, err
			}

			for _, handle := range handles {
				if visible, err := handle.IsVisible(ctx); err != nil || !visible {
					continue
				}

				text, err := handle.Text(ctx)
				if err != nil {
					continue
				}

				if strings.Contains(text, needle) {
					return handle, nil
				}
			}

			return nil, nil
		},
	},
	{
		name:    "role",
		applies: func(d entity.ElementDescriptor) bool { return d.Role != "" },
		locate: func(ctx context.Context, page ports.Page, d entity.ElementDescriptor, _ *config.SessionConfig) (ports.Element, error) {
			return firstVisible(ctx, page, fmt.Sprintf(`[role=%q]`, d.Role))
		},
	},
	{
		name:    "position",
		applies: func(d entity.ElementDescriptor) bool { return d.BoundingBox != nil },
		locate: func(ctx context.Context, page ports.Page, d entity.ElementDescriptor, cfg *config.SessionConfig) (ports.Element, error) {
			handles, err := page.QueryAll(ctx, d.TagName)
			if err != nil {
				return nil, err
			}

			for _, handle := range handles {
				if visible, err := handle.IsVisible(ctx); err != nil || !visible {
					continue
				}

				box, err := handle.BoundingBox(ctx)
				if err != nil || box == nil {
					continue
				}

				if math.Abs(box.X-d.BoundingBox.X) <= cfg.PositionTolerance &&
					math.Abs(box.Y-d.BoundingBox.Y) <= cfg.PositionTolerance {
					return handle, nil
				}
			}

			return nil, nil
		},
	},
}

func firstVisible(ctx context.Context, page ports.Page, selector string) (ports.Element, error) {
	handles, err := page.QueryAll(ctx, selector)
	if err != nil {
		return nil, err
	}

	for _, handle := range handles {
		visible, err := handle.IsVisible(ctx)
		if err != nil {
			continue
		}

		if visible {
			return handle, nil
		}
	}

	return nil, nil
}

// ResolveRef re-locates the live element a reference points at. The
// reference must come from the current snapshot; the UI may have re-rendered
// since that snapshot was taken.
func (s *Session) ResolveRef(ctx context.Context, ref string) (el ports.Element, err error) {
	const op = "ResolveRef"
	logger := s.logger.With(zap.String(logg.Operation, op), zap.String(logg.Reference, ref))

	ctx, step := tracing.StartSpan(ctx, s.tracer, logger, op, attribute.String("reference", ref))
	defer func() {
		step.End(err)
	}()

	page, err := s.page(op)
	if err != nil {
		return nil, err
	}

	snap, err := s.ensureSnapshot(op)
	if err != nil {
		return nil, err
	}

	desc, ok := snap.Descriptor(ref)
	if !ok {
		return nil, apperr.Wrap(op, apperr.CodeReferenceNotFound,
			fmt.Errorf("reference %s not found in current snapshot; valid references: %s", ref, strings.Join(snap.Refs, ", ")),
			map[string]any{
				apperr.MetaReference: ref,
				apperr.MetaValidRefs: strings.Join(snap.Refs, ", "),
				apperr.MetaStage:     apperr.StageResolve,
			})
	}

	for _, strat := range resolveStrategies {
		if !strat.applies(desc) {
			continue
		}

		found, err := strat.locate(ctx, page, desc, s.config.SessionConfig)
		if err != nil {
			logger.Debug("Strategy failed", zap.String(logg.Strategy, strat.name), zap.Error(err))

			continue
		}

		if found != nil {
			step.AddEvent("resolved via " + strat.name)

			return found, nil
		}
	}

	return nil, apperr.Wrap(op, apperr.CodeElementNotLocatable,
		fmt.Errorf("element %s (%s) could not be located by any strategy", ref, desc.TagName),
		map[string]any{
			apperr.MetaReference: ref,
			apperr.MetaTag:       desc.TagName,
			apperr.MetaStage:     apperr.StageResolve,
		})
}
