package gate

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-stemgate/dsp/core"
)

// Gate is an adaptive noise gate. It is immutable after construction and
// safe for concurrent use.
type Gate struct {
	cfg Config
}

// New creates a gate from the default configuration and opts.
func New(opts ...Option) (*Gate, error) {
	cfg := applyOptions(opts...)

	if cfg.FrameSize <= 0 {
		return nil, fmt.Errorf("%w: frame size must be positive: %d", ErrInvalidConfig, cfg.FrameSize)
	}
	if cfg.HopSize <= 0 {
		return nil, fmt.Errorf("%w: hop size must be positive: %d", ErrInvalidConfig, cfg.HopSize)
	}
	if cfg.Floor < 0 || cfg.Floor >= 1 || math.IsNaN(cfg.Floor) {
		return nil, fmt.Errorf("%w: floor must be in [0, 1): %f", ErrInvalidConfig, cfg.Floor)
	}
	if cfg.PadMode != PadReplicate && cfg.PadMode != PadZero {
		return nil, fmt.Errorf("%w: unknown pad mode %d", ErrInvalidConfig, cfg.PadMode)
	}
	if cfg.Smoothing < 0 || !core.IsFinite(cfg.Smoothing) {
		return nil, fmt.Errorf("%w: smoothing must be non-negative and finite: %f", ErrInvalidAudioInput, cfg.Smoothing)
	}

	return &Gate{cfg: cfg}, nil
}

// Apply gates one channel with the default frame layout and the given
// smoothing time. It is shorthand for New(WithSmoothing(s)) followed by
// [Gate.Process].
func Apply(samples []float64, sampleRate int, thresholdDB, smoothingSeconds float64) ([]float64, error) {
	g, err := New(WithSmoothing(smoothingSeconds))
	if err != nil {
		return nil, err
	}
	return g.Process(samples, sampleRate, thresholdDB)
}

// Config returns the gate settings.
func (g *Gate) Config() Config { return g.cfg }

// Process returns a gated copy of samples. The input is not modified.
//
// thresholdDB is relative to the loudest frame of samples. An empty input
// returns an empty slice; an all-zero input returns zeros.
func (g *Gate) Process(samples []float64, sampleRate int, thresholdDB float64) ([]float64, error) {
	gain, err := g.GainCurve(samples, sampleRate, thresholdDB)
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(samples))
	if len(out) > 0 {
		vecmath.MulBlock(out, samples, gain)
	}
	return out, nil
}

// GainCurve returns the per-sample gain Process would apply. Every value is
// in [0, 1] and values below the configured floor are exactly 0.
func (g *Gate) GainCurve(samples []float64, sampleRate int, thresholdDB float64) ([]float64, error) {
	if err := validate(samples, sampleRate, thresholdDB); err != nil {
		return nil, err
	}

	n := len(samples)
	if n == 0 {
		return []float64{}, nil
	}

	rms, centres := frameEnergy(analysisSignal(samples), g.cfg.FrameSize, g.cfg.HopSize)

	ref := maxLevel(rms)
	if ref == 0 {
		return make([]float64, n), nil
	}

	gain, err := upsampleMask(n, centres, thresholdMask(rms, ref, thresholdDB))
	if err != nil {
		return nil, err
	}

	gain, err = smooth(gain, kernelSpan(sampleRate, g.cfg.Smoothing), g.cfg.PadMode.edge())
	if err != nil {
		return nil, err
	}

	clampFloor(gain, g.cfg.Floor)
	return gain, nil
}

func validate(samples []float64, sampleRate int, thresholdDB float64) error {
	if sampleRate <= 0 {
		return fmt.Errorf("%w: sample rate must be positive: %d", ErrInvalidAudioInput, sampleRate)
	}
	if !core.IsFinite(thresholdDB) {
		return fmt.Errorf("%w: threshold must be finite: %f", ErrInvalidAudioInput, thresholdDB)
	}
	if i := core.FirstNonFinite(samples); i >= 0 {
		return fmt.Errorf("%w: sample %d is %v", ErrInvalidAudioInput, i, samples[i])
	}
	return nil
}
