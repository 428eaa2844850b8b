package stem

import (
	"fmt"
	"time"

	"github.com/cwbudde/algo-stemgate/dsp/core"
)

// Track is one stem as deinterleaved channels sharing a sample rate.
type Track struct {
	SampleRate int
	Channels   [][]float64
}

// NumChannels returns the channel count.
func (t Track) NumChannels() int { return len(t.Channels) }

// Len returns the number of sample frames.
func (t Track) Len() int {
	if len(t.Channels) == 0 {
		return 0
	}
	return len(t.Channels[0])
}

// Duration returns the playing time of the track.
func (t Track) Duration() time.Duration {
	if t.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(t.Len()) / float64(t.SampleRate) * float64(time.Second))
}

// Validate checks that the track has channels of equal length and a positive
// sample rate.
func (t Track) Validate() error {
	if t.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrInvalidTrack, t.SampleRate)
	}
	if len(t.Channels) == 0 {
		return fmt.Errorf("%w: no channels", ErrInvalidTrack)
	}
	n := len(t.Channels[0])
	for ch, samples := range t.Channels[1:] {
		if len(samples) != n {
			return fmt.Errorf("%w: channel %d has %d samples, channel 0 has %d", ErrInvalidTrack, ch+1, len(samples), n)
		}
	}
	return nil
}

// Clone returns a deep copy of t.
func (t Track) Clone() Track {
	out := Track{SampleRate: t.SampleRate, Channels: make([][]float64, len(t.Channels))}
	for ch, samples := range t.Channels {
		out.Channels[ch] = core.Clone(samples)
	}
	return out
}
