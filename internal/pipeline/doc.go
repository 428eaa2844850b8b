// Package pipeline runs the end-to-end stem gating flow for one input file:
// optional conversion to WAV, source separation, merging bass and other into
// music, per-stem gating and writing the results to
// <output>/<input name>/<stem>.wav.
//
// A run holds an exclusive lock on its output directory so two invocations
// on the same song cannot interleave writes. Every run gets a run_id that is
// attached to all log records it emits.
package pipeline
