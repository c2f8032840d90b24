package subtitle

import "errors"

var (
	// ErrMalformed indicates the track could not be parsed as sequential
	// numbered cues with sane timings.
	ErrMalformed = errors.New("malformed subtitle")

	// ErrEmptyTrack indicates the track parsed but contains zero cues.
	ErrEmptyTrack = errors.New("subtitle track has no cues")
)
