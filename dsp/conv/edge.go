package conv

// Edge selects how samples beyond either end of the signal are filled when
// computing a same-length convolution.
type Edge int

const (
	// EdgeZero treats samples outside the signal as zero. This matches
	// [ModeSame] and tapers the output towards the ends.
	EdgeZero Edge = iota

	// EdgeReplicate repeats the first and last sample outward, so a constant
	// signal convolved with a normalised kernel stays constant up to the edges.
	EdgeReplicate
)

// String returns the configuration name of the edge mode.
func (e Edge) String() string {
	switch e {
	case EdgeZero:
		return "zero"
	case EdgeReplicate:
		return "replicate"
	default:
		return "unknown"
	}
}

// ConvolveSame convolves x with kernel and returns len(x) samples aligned
// like [ModeSame]. The edge mode decides what the kernel sees past either
// end of x.
func ConvolveSame(x, kernel []float64, edge Edge) ([]float64, error) {
	if len(x) == 0 {
		return nil, ErrEmptyInput
	}
	if len(kernel) == 0 {
		return nil, ErrEmptyKernel
	}

	if edge != EdgeReplicate {
		return ConvolveMode(x, kernel, ModeSame)
	}

	m := len(kernel)
	start := (m - 1) / 2
	left := m - 1 - start

	padded := make([]float64, len(x)+m-1)
	for i := 0; i < left; i++ {
		padded[i] = x[0]
	}
	copy(padded[left:], x)
	last := x[len(x)-1]
	for i := left + len(x); i < len(padded); i++ {
		padded[i] = last
	}

	return ConvolveMode(padded, kernel, ModeValid)
}
