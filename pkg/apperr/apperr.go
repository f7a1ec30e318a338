package apperr

import (
	"errors"
	"fmt"
)

const (
	MetaReason    = "reason"
	MetaStage     = "stage"
	MetaField     = "field"
	MetaReference = "reference"
	MetaTag       = "tag"
	MetaSelector  = "selector"
	MetaFormat    = "format"
	MetaValidRefs = "valid_references"

	StagePreparation = "preparation"
	StageDriver      = "driver"
	StageSnapshot    = "snapshot"
	StageResolve     = "resolve"
	StageInteraction = "interaction"
	StageScreenshot  = "screenshot"
	StageSynthesis   = "synthesis"

	CodeInternal            = "internal"
	CodeInvalidArgument     = "invalid_argument"
	CodeNotConnected        = "not_connected"
	CodeReferenceNotFound   = "reference_not_found"
	CodeElementNotLocatable = "element_not_locatable"
	CodeUnsupportedFormat   = "unsupported_format"
	CodeAppNotReady         = "app_not_ready"
	CodeActionFailed        = "action_failed"
	CodeTimeout             = "timeout"
)

type Error struct {
	Op       string
	Code     string
	Err      error
	Metadata map[string]any
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}

	return e.Op
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Wrap(op, code string, err error, metadata map[string]any) error {
	if metadata == nil {
		metadata = make(map[string]any)
	}

	return &Error{
		Op:       op,
		Code:     code,
		Err:      err,
		Metadata: metadata,
	}
}

func WrapWithReason(op, code string, err error, reason string) error {
	return Wrap(op, code, err, map[string]any{
		MetaReason: reason,
	})
}

func WrapErrorWithReason(op, code, reason string) error {
	return Wrap(op, code, errors.New(reason), map[string]any{
		MetaReason: reason,
	})
}

func InvalidReqError(op, field string, err error) error {
	return Wrap(op, CodeInvalidArgument, err, map[string]any{
		MetaField:  field,
		MetaReason: "invalid_request",
	})
}

// CodeOf reports the code of the outermost *Error in err's chain,
// or an empty string when err carries no structured code.
func CodeOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}

	return ""
}
