package burn

import (
	"context"
	"errors"
	"fmt"

	"hardsub/internal/fonts"
	"hardsub/internal/render"
	"hardsub/internal/subtitle"
)

// Kind identifies why a submission was rejected or a job ended badly.
// Kinds are stable strings: they are persisted with terminal job states
// and surfaced through the API.
type Kind string

const (
	KindMalformedSubtitle   Kind = "malformed_subtitle"
	KindEmptyTrack          Kind = "empty_track"
	KindFontNotFound        Kind = "font_not_found"
	KindFontRender          Kind = "font_render"
	KindCorruptInput        Kind = "corrupt_input"
	KindUnsupportedFormat   Kind = "unsupported_format"
	KindSilentRenderFailure Kind = "silent_render_failure"
	KindUnknownRender       Kind = "unknown_render"
	KindTimedOut            Kind = "timed_out"
	KindOverloaded          Kind = "overloaded"
	KindNotReady            Kind = "not_ready"
	KindCancelled           Kind = "cancelled"
)

// ErrUnknownJob is returned for handles the scheduler has never issued.
var ErrUnknownJob = errors.New("unknown job")

// Error tags an underlying failure with its job-facing kind.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// wrapStageError converts stage-level sentinel errors into kinded errors.
func wrapStageError(err error) error {
	if err == nil {
		return nil
	}
	var kinded *Error
	if errors.As(err, &kinded) {
		return err
	}
	return &Error{Kind: classify(err), Err: err}
}

func classify(err error) Kind {
	switch {
	case errors.Is(err, subtitle.ErrMalformed):
		return KindMalformedSubtitle
	case errors.Is(err, subtitle.ErrEmptyTrack):
		return KindEmptyTrack
	case errors.Is(err, fonts.ErrNotFound):
		return KindFontNotFound
	case errors.Is(err, render.ErrFontRender):
		return KindFontRender
	case errors.Is(err, render.ErrCorruptInput):
		return KindCorruptInput
	case errors.Is(err, render.ErrUnsupportedFormat):
		return KindUnsupportedFormat
	case errors.Is(err, render.ErrSilentFailure):
		return KindSilentRenderFailure
	case errors.Is(err, render.ErrTimedOut):
		return KindTimedOut
	case errors.Is(err, context.Canceled):
		return KindCancelled
	default:
		return KindUnknownRender
	}
}

// KindOf extracts the kind from a scheduler error, or "" for plain errors.
func KindOf(err error) Kind {
	var kinded *Error
	if errors.As(err, &kinded) {
		return kinded.Kind
	}
	return ""
}
