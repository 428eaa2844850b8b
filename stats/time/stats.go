package time

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Stats holds level statistics of one channel.
//
//nolint:revive
type Stats struct {
	Length      int
	RMS         float64
	RMS_dB      float64
	Peak        float64 // max |x|
	Peak_dB     float64
	CrestFactor float64 // peak / RMS (linear)
	Energy      float64 // sum of squares
	Zeros       int     // samples that are exactly zero
}

// ZeroFraction returns the share of samples that are exactly zero.
// Returns 0 for an empty signal.
func (s Stats) ZeroFraction() float64 {
	if s.Length == 0 {
		return 0
	}

	return float64(s.Zeros) / float64(s.Length)
}

// ampTodB converts an amplitude value to decibels: 20 * log10(|value|).
// Returns -Inf for zero values.
func ampTodB(value float64) float64 {
	a := math.Abs(value)
	if a == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(a)
}

// Calculate computes level statistics for signal.
func Calculate(signal []float64) Stats {
	n := len(signal)
	if n == 0 {
		return Stats{RMS_dB: math.Inf(-1), Peak_dB: math.Inf(-1)}
	}

	energy := Energy(signal)
	peak := Peak(signal)
	rms := math.Sqrt(energy / float64(n))

	var zeros int
	for _, x := range signal {
		if x == 0 {
			zeros++
		}
	}

	var crest float64
	if rms > 0 {
		crest = peak / rms
	}

	return Stats{
		Length:      n,
		RMS:         rms,
		RMS_dB:      ampTodB(rms),
		Peak:        peak,
		Peak_dB:     ampTodB(peak),
		CrestFactor: crest,
		Energy:      energy,
		Zeros:       zeros,
	}
}

// Energy returns the sum of squares of the signal.
func Energy(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	return vecmath.DotProduct(signal, signal)
}

// RMS returns the root-mean-square of the signal.
func RMS(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	return math.Sqrt(Energy(signal) / float64(len(signal)))
}

// Peak returns the peak absolute amplitude of the signal.
func Peak(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	return vecmath.MaxAbs(signal)
}
