package stem

import (
	timestats "github.com/cwbudde/algo-stemgate/stats/time"
)

// Report summarises what the gate did to one stem.
type Report struct {
	Name        string
	ThresholdDB float64
	Channels    int
	Frames      int
	SampleRate  int
	Before      timestats.Stats
	After       timestats.Stats
	// GatedFraction is the share of non-zero input samples that the gate
	// forced to zero.
	GatedFraction float64
}

// NewReport compares a stem before and after gating. Both tracks must have
// the same shape.
func NewReport(name string, thresholdDB float64, before, after Track) Report {
	r := Report{
		Name:        name,
		ThresholdDB: thresholdDB,
		Channels:    before.NumChannels(),
		Frames:      before.Len(),
		SampleRate:  before.SampleRate,
		Before:      trackStats(before),
		After:       trackStats(after),
	}

	var active, gated int
	for ch, in := range before.Channels {
		if ch >= len(after.Channels) {
			break
		}
		out := after.Channels[ch]
		for i, v := range in {
			if v == 0 || i >= len(out) {
				continue
			}
			active++
			if out[i] == 0 {
				gated++
			}
		}
	}
	if active > 0 {
		r.GatedFraction = float64(gated) / float64(active)
	}

	return r
}

// trackStats measures all channels as one signal.
func trackStats(t Track) timestats.Stats {
	flat := make([]float64, 0, t.Len()*t.NumChannels())
	for _, ch := range t.Channels {
		flat = append(flat, ch...)
	}
	return timestats.Calculate(flat)
}
