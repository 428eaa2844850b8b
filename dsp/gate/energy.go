package gate

import timestats "github.com/cwbudde/algo-stemgate/stats/time"

// Peaks outside [minAnalysisPeak, maxAnalysisPeak] would overflow or
// underflow a frame's sum of squares.
const (
	maxAnalysisPeak = 1e150
	minAnalysisPeak = 1e-150
)

// analysisSignal returns samples scaled so that the frame energies stay
// representable. Levels are relative to the loudest frame, so the scale does
// not change the mask. Samples in range are returned as is.
func analysisSignal(samples []float64) []float64 {
	peak := timestats.Peak(samples)
	if peak == 0 || (peak <= maxAnalysisPeak && peak >= minAnalysisPeak) {
		return samples
	}
	// Divide rather than multiply by 1/peak, which overflows for subnormal
	// peaks.
	scaled := make([]float64, len(samples))
	for i, v := range samples {
		scaled[i] = v / peak
	}
	return scaled
}

// frameEnergy measures the RMS of each analysis frame and returns it along
// with the frame centre positions in samples.
//
// Frames start every hopSize samples. If the last regular frame stops short
// of the end of the clip, one more frame aligned to the final sample is
// added. A clip no longer than one frame is measured as a single frame.
func frameEnergy(samples []float64, frameSize, hopSize int) (rms, centres []float64) {
	n := len(samples)
	if n <= frameSize {
		return []float64{timestats.RMS(samples)}, []float64{float64(n-1) / 2}
	}

	span := n - frameSize
	count := 1 + span/hopSize
	if span%hopSize != 0 {
		count++
	}

	rms = make([]float64, count)
	centres = make([]float64, count)
	halfFrame := float64(frameSize-1) / 2

	for k := range count {
		start := min(k*hopSize, span)
		rms[k] = timestats.RMS(samples[start : start+frameSize])
		centres[k] = float64(start) + halfFrame
	}

	return rms, centres
}
