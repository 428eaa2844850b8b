package gate

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-stemgate/dsp/conv"
	"github.com/cwbudde/algo-stemgate/dsp/core"
	"github.com/cwbudde/algo-stemgate/dsp/interp"
)

const (
	// maxConvKernel is the longest moving average run through convolution.
	// Longer averages use running sums.
	maxConvKernel = 1 << 16

	// maxKernelSpan caps the averaging length. Past 2^53 samples the window
	// bounds are no longer exact in float64 and the average has converged.
	maxKernelSpan = 1 << 53
)

// upsampleMask expands the frame mask to one value per sample by linear
// interpolation between frame centres.
func upsampleMask(n int, centres, mask []float64) ([]float64, error) {
	gain := make([]float64, n)
	if err := interp.Piecewise(gain, centres, mask); err != nil {
		return nil, fmt.Errorf("gate: upsample mask: %w", err)
	}
	return gain, nil
}

// kernelSpan returns the moving-average length in samples, capped at
// maxKernelSpan. It stays a float64 so huge smoothing times cannot overflow.
func kernelSpan(sampleRate int, smoothing float64) float64 {
	return min(math.Round(float64(sampleRate)*smoothing), maxKernelSpan)
}

// smooth runs a normalised moving average of span samples over gain. Spans
// of 0 or 1 leave the curve untouched.
func smooth(gain []float64, span float64, edge conv.Edge) ([]float64, error) {
	if span <= 1 || len(gain) == 0 {
		return gain, nil
	}
	if span > maxConvKernel || span > float64(len(gain)) {
		return boxAverage(gain, span, edge), nil
	}

	k := int(span)
	kernel := make([]float64, k)
	core.Fill(kernel, 1/float64(k))
	out, err := conv.ConvolveSame(gain, kernel, edge)
	if err != nil {
		return nil, fmt.Errorf("gate: smooth gain: %w", err)
	}
	return out, nil
}

// boxAverage computes the same output as conv.ConvolveSame with a boxcar of
// span taps, using prefix sums. Window positions outside x contribute zero
// or the nearest edge sample depending on edge.
func boxAverage(x []float64, span float64, edge conv.Edge) []float64 {
	n := len(x)
	prefix := make([]float64, n+1)
	for i, v := range x {
		prefix[i+1] = prefix[i] + v
	}

	// Same alignment as ConvolveSame: the window at i covers
	// [i-left, i+right] with right = floor((span-1)/2).
	right := math.Floor((span - 1) / 2)
	left := span - 1 - right
	first, last := x[0], x[n-1]

	out := make([]float64, n)
	for i := range out {
		lo := float64(i) - left
		hi := float64(i) + right

		qlo := int(max(lo, 0))
		qhi := int(min(hi, float64(n-1)))
		sum := prefix[qhi+1] - prefix[qlo]

		if edge == conv.EdgeReplicate {
			if lo < 0 {
				sum += -lo * first
			}
			if over := hi - float64(n-1); over > 0 {
				sum += over * last
			}
		}
		out[i] = sum / span
	}
	return out
}

// clampFloor limits gain to [0, 1] and zeroes values below floor.
func clampFloor(gain []float64, floor float64) {
	for i, g := range gain {
		g = core.Clamp(g, 0, 1)
		if g < floor {
			g = 0
		}
		gain[i] = g
	}
}
