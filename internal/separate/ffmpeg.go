package separate

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

var commandContext = exec.CommandContext

// FFmpeg converts audio files to PCM WAV.
type FFmpeg struct {
	binary     string
	sampleRate int
}

// FFmpegOption configures an FFmpeg converter.
type FFmpegOption func(*FFmpeg)

// WithFFmpegBinary overrides the ffmpeg executable.
func WithFFmpegBinary(binary string) FFmpegOption {
	return func(f *FFmpeg) {
		if binary != "" {
			f.binary = binary
		}
	}
}

// WithSampleRate resamples during conversion. Zero keeps the source rate.
func WithSampleRate(rate int) FFmpegOption {
	return func(f *FFmpeg) {
		if rate > 0 {
			f.sampleRate = rate
		}
	}
}

// NewFFmpeg constructs a converter using the ffmpeg binary on PATH.
func NewFFmpeg(opts ...FFmpegOption) *FFmpeg {
	f := &FFmpeg{binary: "ffmpeg"}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Binary returns the configured executable.
func (f *FFmpeg) Binary() string { return f.binary }

// NeedsConversion reports whether path must be converted before it can be
// read as WAV.
func NeedsConversion(path string) bool {
	return !strings.EqualFold(filepath.Ext(path), ".wav")
}

// ToWAV decodes src and writes 16-bit PCM WAV to dest, overwriting it.
func (f *FFmpeg) ToWAV(ctx context.Context, src, dest string) error {
	if strings.TrimSpace(src) == "" {
		return errors.New("source path required")
	}
	if strings.TrimSpace(dest) == "" {
		return errors.New("destination path required")
	}

	args := []string{"-y", "-hide_banner", "-loglevel", "error", "-i", src, "-vn", "-acodec", "pcm_s16le"}
	if f.sampleRate > 0 {
		args = append(args, "-ar", strconv.Itoa(f.sampleRate))
	}
	args = append(args, dest)

	cmd := commandContext(ctx, f.binary, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg convert %s: %w: %s", filepath.Base(src), err, strings.TrimSpace(string(output)))
	}
	return nil
}
