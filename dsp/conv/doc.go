// Package conv provides linear convolution used for envelope smoothing.
//
// Two strategies are available:
//
//   - Direct convolution: O(N*M) time-domain convolution, best for short kernels (<= 64 samples)
//   - Overlap-add (OLA): FFT-based block convolution for long signals and long kernels
//
// [Convolve] picks between them by kernel length. [ConvolveMode] trims the
// result to full, same or valid length, and [ConvolveSame] adds explicit
// edge handling (zero or replicate padding) for same-length filtering:
//
//	smoothed, err := conv.ConvolveSame(envelope, kernel, conv.EdgeReplicate)
//
// For repeated convolution with the same kernel, pre-create an [OverlapAdd]
// to avoid repeated FFT plan creation.
package conv
