// Package time computes time-domain level statistics (RMS, peak, energy) of
// a single channel.
package time
