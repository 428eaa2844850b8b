package stem

import (
	"fmt"
	"slices"
)

// Stem names produced by four-stem separation and by the music mix.
const (
	Vocals = "vocals"
	Drums  = "drums"
	Bass   = "bass"
	Other  = "other"
	Music  = "music"
)

// Thresholds maps a stem name to its gate threshold in dB relative to the
// stem's loudest frame.
type Thresholds map[string]float64

// DefaultThresholds returns the stock table. Vocals and drums are gated
// harder because bleed in those stems is audible; the music bed keeps its
// quiet tails.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Vocals: -45,
		Drums:  -40,
		Music:  -60,
	}
}

// Lookup returns the threshold for name.
func (t Thresholds) Lookup(name string) (float64, error) {
	v, ok := t[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownStem, name)
	}
	return v, nil
}

// Names returns the configured stem names in sorted order.
func (t Thresholds) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Merge returns a copy of t with the entries of override applied on top.
func (t Thresholds) Merge(override Thresholds) Thresholds {
	out := make(Thresholds, len(t)+len(override))
	for k, v := range t {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}
