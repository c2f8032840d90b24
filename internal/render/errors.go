package render

import "errors"

var (
	// ErrFontRender indicates the renderer could not shape or select glyphs
	// for the requested font.
	ErrFontRender = errors.New("font rendering failed")

	// ErrCorruptInput indicates the input container or streams are damaged
	// or unreadable.
	ErrCorruptInput = errors.New("corrupt input")

	// ErrUnsupportedFormat indicates the input uses a codec or container the
	// renderer cannot decode.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrSilentFailure indicates the renderer exited zero without producing
	// a usable output file. A zero exit from an external tool is not proof
	// of success.
	ErrSilentFailure = errors.New("renderer produced no output")

	// ErrTimedOut indicates the subprocess exceeded its wall-clock budget
	// and was killed.
	ErrTimedOut = errors.New("render timed out")

	// ErrUnknown covers nonzero exits with no recognized stderr signature.
	ErrUnknown = errors.New("render failed")
)
