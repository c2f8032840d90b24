package render

import "regexp"

// Stderr signatures for classifying renderer failures. Checked in order;
// the first match wins. Patterns follow observed ffmpeg diagnostics.
var (
	reFontIssue = regexp.MustCompile(
		`(?i)fontselect: .*not found|` +
			`cannot find a valid font|` +
			`fontconfig error|` +
			`glyph .* not found|` +
			`error loading font|` +
			`no usable fontconfig`)

	reUnsupportedFormat = regexp.MustCompile(
		`(?i)unknown decoder|` +
			`decoder not found|` +
			`no decoder (available|found)|` +
			`codec .* is not supported|` +
			`unsupported codec|` +
			`invalid data found when processing input: .*unsupported`)

	reCorruptInput = regexp.MustCompile(
		`(?i)invalid data found when processing input|` +
			`moov atom not found|` +
			`could not find codec parameters|` +
			`error while decoding|` +
			`corrupt.*(frame|packet|input)|` +
			`end of file|truncated`)
)

// classifyExit maps a nonzero-exit stderr tail to a failure sentinel.
func classifyExit(stderr string) error {
	switch {
	case reFontIssue.MatchString(stderr):
		return ErrFontRender
	case reUnsupportedFormat.MatchString(stderr):
		return ErrUnsupportedFormat
	case reCorruptInput.MatchString(stderr):
		return ErrCorruptInput
	default:
		return ErrUnknown
	}
}
