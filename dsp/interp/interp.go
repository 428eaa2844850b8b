package interp

import (
	"errors"
	"fmt"
)

// Errors returned by [Piecewise].
var (
	ErrNoPoints       = errors.New("interp: no breakpoints")
	ErrLengthMismatch = errors.New("interp: breakpoint slices differ in length")
	ErrNotIncreasing  = errors.New("interp: breakpoint positions must be strictly increasing")
)

// Linear2 interpolates linearly between x0 and x1 at frac in [0,1].
func Linear2(frac, x0, x1 float64) float64 {
	return x0 + frac*(x1-x0)
}

// Piecewise evaluates the piecewise-linear function through the breakpoints
// (xp[k], fp[k]) at every integer position 0..len(dst)-1 and writes the
// result to dst.
//
// Positions left of xp[0] take fp[0]; positions right of the last
// breakpoint take the last value. xp must be strictly increasing.
func Piecewise(dst, xp, fp []float64) error {
	if len(xp) == 0 {
		return ErrNoPoints
	}
	if len(xp) != len(fp) {
		return fmt.Errorf("%w: %d positions, %d values", ErrLengthMismatch, len(xp), len(fp))
	}
	for k := 1; k < len(xp); k++ {
		if xp[k] <= xp[k-1] {
			return fmt.Errorf("%w: xp[%d]=%v after %v", ErrNotIncreasing, k, xp[k], xp[k-1])
		}
	}

	last := len(xp) - 1
	k := 0

	for i := range dst {
		x := float64(i)

		switch {
		case x <= xp[0]:
			dst[i] = fp[0]
		case x >= xp[last]:
			dst[i] = fp[last]
		default:
			for xp[k+1] < x {
				k++
			}
			frac := (x - xp[k]) / (xp[k+1] - xp[k])
			dst[i] = Linear2(frac, fp[k], fp[k+1])
		}
	}

	return nil
}
