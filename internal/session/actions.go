package session

import (
	"context"

	"appdriver/internal/entity"
	"appdriver/pkg/apperr"
	"appdriver/pkg/logg"
	"appdriver/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ClickRef resolves a reference and clicks the live element. The action is
// appended to the recording (with the descriptor captured at record time)
// when the recorder is enabled.
func (s *Session) ClickRef(ctx context.Context, ref string) (err error) {
	const op = "ClickRef"
	logger := s.logger.With(zap.String(logg.Operation, op), zap.String(logg.Reference, ref))

	ctx, step := tracing.StartSpan(ctx, s.tracer, logger, op, attribute.String("reference", ref))
	defer func() {
		step.End(err)
	}()

	el, err := s.ResolveRef(ctx, ref)
	if err != nil {
		return err
	}

	step.AddEvent("clicking element")

	if err := el.Click(ctx); err != nil {
		return apperr.Wrap(op, apperr.CodeActionFailed, err, map[string]any{
			apperr.MetaReason:    "click_failed",
			apperr.MetaStage:     apperr.StageInteraction,
			apperr.MetaReference: ref,
		})
	}

	s.recordAction("click", map[string]any{"ref": ref}, ref)

	return nil
}

// TypeRef resolves a reference and types text into it. With clear set the
// existing value is replaced, otherwise the text is appended.
func (s *Session) TypeRef(ctx context.Context, ref, text string, clear bool) (err error) {
	const op = "TypeRef"
	logger := s.logger.With(zap.String(logg.Operation, op), zap.String(logg.Reference, ref))

	ctx, step := tracing.StartSpan(ctx, s.tracer, logger, op,
		attribute.String("reference", ref),
		attribute.Bool("clear", clear))
	defer func() {
		step.End(err)
	}()

	el, err := s.ResolveRef(ctx, ref)
	if err != nil {
		return err
	}

	step.AddEvent("typing text")

	if clear {
		err = el.SetValue(ctx, text)
	} else {
		err = el.TypeText(ctx, text)
	}

	if err != nil {
		return apperr.Wrap(op, apperr.CodeActionFailed, err, map[string]any{
			apperr.MetaReason:    "type_failed",
			apperr.MetaStage:     apperr.StageInteraction,
			apperr.MetaReference: ref,
		})
	}

	s.recordAction("type", map[string]any{"ref": ref, "text": text, "clear": clear}, ref)

	return nil
}

// ValueOfRef resolves a reference and returns the element's current value.
func (s *Session) ValueOfRef(ctx context.Context, ref string) (value string, err error) {
	const op = "ValueOfRef"
	logger := s.logger.With(zap.String(logg.Operation, op), zap.String(logg.Reference, ref))

	ctx, step := tracing.StartSpan(ctx, s.tracer, logger, op, attribute.String("reference", ref))
	defer func() {
		step.End(err)
	}()

	el, err := s.ResolveRef(ctx, ref)
	if err != nil {
		return "", err
	}

	value, err = el.GetValue(ctx)
	if err != nil {
		return "", apperr.Wrap(op, apperr.CodeActionFailed, err, map[string]any{
			apperr.MetaReason:    "get_value_failed",
			apperr.MetaStage:     apperr.StageInteraction,
			apperr.MetaReference: ref,
		})
	}

	return value, nil
}

// CaptureScreen takes a screenshot through the collaborator and records the
// action with the target filename.
func (s *Session) CaptureScreen(ctx context.Context, filename string) (data []byte, err error) {
	const op = "CaptureScreen"
	logger := s.logger.With(zap.String(logg.Operation, op))

	ctx, step := tracing.StartSpan(ctx, s.tracer, logger, op)
	defer func() {
		step.End(err)
	}()

	page, err := s.page(op)
	if err != nil {
		return nil, err
	}

	data, err = page.Screenshot(ctx)
	if err != nil {
		return nil, apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaReason: "screenshot_failed",
			apperr.MetaStage:  apperr.StageScreenshot,
		})
	}

	params := map[string]any{}
	if filename != "" {
		params["filename"] = filename
	}

	s.recordAction("screenshot", params, "")

	return data, nil
}

// RunScript executes an arbitrary script in the live page. Recorded with the
// raw script so synthesis can surface it as a visible gap marker.
func (s *Session) RunScript(ctx context.Context, script string, args ...any) (result any, err error) {
	const op = "RunScript"
	logger := s.logger.With(zap.String(logg.Operation, op))

	ctx, step := tracing.StartSpan(ctx, s.tracer, logger, op)
	defer func() {
		step.End(err)
	}()

	page, err := s.page(op)
	if err != nil {
		return nil, err
	}

	result, err = page.ExecuteScript(ctx, script, args...)
	if err != nil {
		return nil, apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaReason: "script_failed",
		})
	}

	s.recordAction("evaluate", map[string]any{"script": script}, "")

	return result, nil
}

// StartRecording clears the log and enables the recorder.
func (s *Session) StartRecording() {
	s.recorder.Start()
}

// StopRecording disables the recorder and returns the accumulated log.
func (s *Session) StopRecording() []entity.RecordedAction {
	return s.recorder.Stop()
}

func (s *Session) ClearRecording() {
	s.recorder.Clear()
}

func (s *Session) RecordingStatus() entity.RecordingStatus {
	return s.recorder.Status()
}

func (s *Session) RecordingLog() []entity.RecordedAction {
	return s.recorder.Log()
}

// RecordTool appends an arbitrary action to the recording. The console
// bookends every recording with launch/close actions this way, so the
// synthesizer can render the full setup and teardown context.
func (s *Session) RecordTool(tool string, params map[string]any) {
	s.recordAction(tool, params, "")
}

func (s *Session) recordAction(tool string, params map[string]any, ref string) {
	action := entity.RecordedAction{
		Tool:   tool,
		Params: params,
	}

	if ref != "" && s.snapshot != nil {
		if desc, ok := s.snapshot.Descriptor(ref); ok {
			action.Element = &entity.RecordedElement{
				Reference:  desc.Reference,
				Tag:        desc.TagName,
				Text:       desc.Text,
				Attributes: cloneAttributes(desc),
			}
		}
	}

	s.recorder.Record(action)
}

// cloneAttributes copies the descriptor's attributes plus the derived
// aria-label/role fields so the log entry survives snapshot churn.
func cloneAttributes(desc entity.ElementDescriptor) map[string]string {
	attrs := make(map[string]string, len(desc.Attributes)+2)

	for k, v := range desc.Attributes {
		attrs[k] = v
	}

	if desc.AriaLabel != "" {
		attrs["aria-label"] = desc.AriaLabel
	}

	if desc.Role != "" {
		attrs["role"] = desc.Role
	}

	return attrs
}
