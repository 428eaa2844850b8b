// Package stem applies the adaptive gate to separated, multi-channel stems.
//
// A [Track] holds one stem as deinterleaved channels. [GateTrack] gates each
// channel independently with the threshold configured for that stem in a
// [Thresholds] table, and [Mix] sums stems that should be delivered as one
// (bass and other become music). Separation itself happens behind the
// [Separator] interface.
package stem
