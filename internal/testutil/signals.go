// Package testutil builds test clips and compares sample buffers.
package testutil

import (
	"math"
	"math/rand"
)

// Sine returns length samples of a sine at freqHz starting at phase 0.
func Sine(freqHz float64, sampleRate int, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / float64(sampleRate)
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// Noise returns uniform white noise in [-amplitude, amplitude) from a fixed
// seed.
func Noise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Silence returns length zero samples.
func Silence(length int) []float64 {
	return make([]float64, length)
}

// DC returns a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Concat joins clips end to end into a new slice.
func Concat(parts ...[]float64) []float64 {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]float64, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// Add returns the sample-wise sum of a and b, truncated to the shorter one.
func Add(a, b []float64) []float64 {
	out := make([]float64, min(len(a), len(b)))
	for i := range out {
		out[i] = a[i] + b[i]
	}
	return out
}

// DBFS converts a level in dB to a linear amplitude.
func DBFS(db float64) float64 {
	return math.Pow(10, db/20)
}

// Energy returns the sum of squares of x.
func Energy(x []float64) float64 {
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return sum
}
