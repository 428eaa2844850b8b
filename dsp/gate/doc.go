// Package gate implements an offline, self-calibrating noise gate for one
// channel of a separated stem.
//
// The gate works on the whole clip at once:
//
//  1. RMS energy is measured over 2048-sample frames with a 512-sample hop.
//  2. Each frame's level is expressed in dB relative to the loudest frame of
//     the clip, so 0 dB always means "as loud as this clip gets".
//  3. Frames louder than the threshold are marked active (1), others 0.
//  4. The frame mask is linearly interpolated between frame centres to one
//     value per sample.
//  5. A moving average of smoothing seconds shapes attack and release.
//  6. The gain is clamped to [0, 1] and values below 0.01 are snapped to 0.
//  7. The input is multiplied by the gain.
//
// Because the reference level is the clip's own loudest frame, the same
// threshold behaves consistently on quiet and loud stems. A silent clip has
// no reference and yields silence.
//
// Basic usage:
//
//	out, err := gate.Apply(samples, 44100, -45, gate.DefaultSmoothing)
//
// A [Gate] built with [New] can be reused across channels and goroutines; it
// holds configuration only.
package gate
