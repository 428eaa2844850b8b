package gate

import "github.com/cwbudde/algo-stemgate/dsp/core"

// maxLevel returns the largest frame RMS.
func maxLevel(rms []float64) float64 {
	var ref float64
	for _, v := range rms {
		ref = max(ref, v)
	}
	return ref
}

// thresholdMask marks frames whose level relative to ref exceeds
// thresholdDB. ref must be positive.
func thresholdMask(rms []float64, ref, thresholdDB float64) []float64 {
	mask := make([]float64, len(rms))
	for k, v := range rms {
		if core.RatioToDB(v, ref) > thresholdDB {
			mask[k] = 1
		}
	}
	return mask
}
