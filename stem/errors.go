package stem

import "errors"

var (
	// ErrChannelMismatch is returned when tracks that must line up have
	// different channel counts.
	ErrChannelMismatch = errors.New("stem: channel count mismatch")

	// ErrSampleRateMismatch is returned when mixed tracks differ in sample rate.
	ErrSampleRateMismatch = errors.New("stem: sample rate mismatch")

	// ErrInvalidTrack is returned for tracks without channels, with ragged
	// channels or with a non-positive sample rate.
	ErrInvalidTrack = errors.New("stem: invalid track")

	// ErrNoTracks is returned by Mix when called without tracks.
	ErrNoTracks = errors.New("stem: no tracks")

	// ErrUnknownStem is returned when a stem has no configured threshold.
	ErrUnknownStem = errors.New("stem: unknown stem")
)
