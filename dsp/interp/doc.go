// Package interp provides linear interpolation primitives.
//
// [Piecewise] upsamples a sparse, per-frame control curve to one value per
// sample, which is how frame-level gate decisions become a continuous gain
// envelope.
package interp
