package stem

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"
)

// Mix sums tracks sample by sample without normalisation. The result has the
// length of the first track: longer tracks are truncated and shorter ones
// contribute silence past their end. All tracks must share channel count and
// sample rate. Inputs are not modified.
func Mix(tracks ...Track) (Track, error) {
	if len(tracks) == 0 {
		return Track{}, ErrNoTracks
	}

	first := tracks[0]
	if err := first.Validate(); err != nil {
		return Track{}, err
	}
	out := first.Clone()
	n := out.Len()

	for i, t := range tracks[1:] {
		if err := t.Validate(); err != nil {
			return Track{}, fmt.Errorf("track %d: %w", i+1, err)
		}
		if t.NumChannels() != first.NumChannels() {
			return Track{}, fmt.Errorf("%w: track %d has %d channels, want %d", ErrChannelMismatch, i+1, t.NumChannels(), first.NumChannels())
		}
		if t.SampleRate != first.SampleRate {
			return Track{}, fmt.Errorf("%w: track %d at %d Hz, want %d Hz", ErrSampleRateMismatch, i+1, t.SampleRate, first.SampleRate)
		}

		m := min(n, t.Len())
		if m == 0 {
			continue
		}
		for ch := range out.Channels {
			vecmath.AddBlockInPlace(out.Channels[ch][:m], t.Channels[ch][:m])
		}
	}

	return out, nil
}
