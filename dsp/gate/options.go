package gate

import (
	"fmt"

	"github.com/cwbudde/algo-stemgate/dsp/conv"
)

const (
	// DefaultFrameSize is the analysis frame length in samples.
	DefaultFrameSize = 2048
	// DefaultHopSize is the distance between frame starts in samples.
	DefaultHopSize = 512
	// DefaultSmoothing is the moving-average length in seconds.
	DefaultSmoothing = 0.05
	// DefaultFloor is the gain below which output is forced to exact zero.
	DefaultFloor = 0.01
)

// Config holds gate settings. The threshold is not part of it: it is passed
// per call because it depends on the stem being processed.
type Config struct {
	FrameSize int
	HopSize   int
	Smoothing float64 // seconds
	Floor     float64
	PadMode   PadMode
}

// PadMode selects how the smoothing filter treats the clip boundaries.
type PadMode int

const (
	// PadReplicate extends the mask with its first and last values, so a gate
	// that is open at the start or end of the clip stays fully open there.
	PadReplicate PadMode = iota
	// PadZero treats the mask as closed outside the clip, fading both ends.
	PadZero
)

// String returns the config name of the pad mode.
func (m PadMode) String() string {
	switch m {
	case PadReplicate:
		return "replicate"
	case PadZero:
		return "zero"
	default:
		return "unknown"
	}
}

// ParsePadMode maps "replicate" or "zero" to a PadMode.
func ParsePadMode(name string) (PadMode, error) {
	switch name {
	case "replicate", "":
		return PadReplicate, nil
	case "zero":
		return PadZero, nil
	default:
		return 0, fmt.Errorf("%w: unknown pad mode %q", ErrInvalidConfig, name)
	}
}

func (m PadMode) edge() conv.Edge {
	if m == PadZero {
		return conv.EdgeZero
	}
	return conv.EdgeReplicate
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the standard analysis settings.
func DefaultConfig() Config {
	return Config{
		FrameSize: DefaultFrameSize,
		HopSize:   DefaultHopSize,
		Smoothing: DefaultSmoothing,
		Floor:     DefaultFloor,
		PadMode:   PadReplicate,
	}
}

// WithFrameSize sets the analysis frame length in samples.
func WithFrameSize(n int) Option {
	return func(cfg *Config) { cfg.FrameSize = n }
}

// WithHopSize sets the frame advance in samples.
func WithHopSize(n int) Option {
	return func(cfg *Config) { cfg.HopSize = n }
}

// WithSmoothing sets the attack/release moving-average length in seconds.
// Zero disables smoothing.
func WithSmoothing(seconds float64) Option {
	return func(cfg *Config) { cfg.Smoothing = seconds }
}

// WithFloor sets the gain below which samples are zeroed. Zero disables the
// snap.
func WithFloor(floor float64) Option {
	return func(cfg *Config) { cfg.Floor = floor }
}

// WithPadMode selects the smoothing boundary treatment. The default is
// [PadReplicate].
func WithPadMode(mode PadMode) Option {
	return func(cfg *Config) { cfg.PadMode = mode }
}

func applyOptions(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
