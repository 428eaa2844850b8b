// Package separate wraps the external tools the pipeline shells out to: an
// ffmpeg converter that turns compressed input into WAV, and a command-line
// source separator that writes one WAV file per stem.
package separate
