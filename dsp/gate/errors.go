package gate

import "errors"

var (
	// ErrInvalidAudioInput is returned for non-finite samples, a non-positive
	// sample rate, a negative or non-finite smoothing time, or a non-finite
	// threshold.
	ErrInvalidAudioInput = errors.New("gate: invalid audio input")

	// ErrInvalidConfig is returned by [New] for unusable frame, hop or floor
	// settings.
	ErrInvalidConfig = errors.New("gate: invalid configuration")
)
