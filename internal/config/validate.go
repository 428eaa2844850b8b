package config

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/cwbudde/algo-stemgate/dsp/gate"
	"github.com/cwbudde/algo-stemgate/internal/separate"
	"github.com/cwbudde/algo-stemgate/stem"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateGate(); err != nil {
		return err
	}
	if err := c.validateThresholds(); err != nil {
		return err
	}
	if err := c.validateSeparator(); err != nil {
		return err
	}
	if err := c.validateOutput(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateGate() error {
	if c.Gate.Smoothing < 0 || math.IsNaN(c.Gate.Smoothing) || math.IsInf(c.Gate.Smoothing, 0) {
		return fmt.Errorf("gate.smoothing must be a non-negative number of seconds, got %v", c.Gate.Smoothing)
	}
	if c.Gate.FrameSize <= 0 {
		return fmt.Errorf("gate.frame_size must be positive, got %d", c.Gate.FrameSize)
	}
	if c.Gate.HopSize <= 0 {
		return fmt.Errorf("gate.hop_size must be positive, got %d", c.Gate.HopSize)
	}
	if c.Gate.Floor < 0 || c.Gate.Floor >= 1 || math.IsNaN(c.Gate.Floor) {
		return fmt.Errorf("gate.floor must be in [0, 1), got %v", c.Gate.Floor)
	}
	if _, err := gate.ParsePadMode(c.Gate.PadMode); err != nil {
		return fmt.Errorf("gate.pad_mode must be replicate or zero, got %q", c.Gate.PadMode)
	}
	return nil
}

func (c *Config) validateThresholds() error {
	for name, v := range c.Thresholds {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("thresholds.%s must be a finite dB value", name)
		}
	}
	for _, name := range []string{stem.Vocals, stem.Drums, stem.Music} {
		if _, ok := c.Thresholds[name]; !ok {
			return fmt.Errorf("thresholds.%s is required", name)
		}
	}
	return nil
}

func (c *Config) validateSeparator() error {
	if c.Separator.Binary == "" {
		return errors.New("separator.binary is required")
	}
	joined := strings.Join(c.Separator.Args, " ")
	for _, ph := range []string{separate.PlaceholderInput, separate.PlaceholderOutput} {
		if !strings.Contains(joined, ph) {
			return fmt.Errorf("separator.args must contain %s", ph)
		}
	}
	if len(c.Separator.Stems) == 0 {
		return errors.New("separator.stems must list at least one stem")
	}
	for _, name := range c.Separator.Stems {
		if name == stem.Bass || name == stem.Other {
			continue
		}
		if _, ok := c.Thresholds[name]; !ok {
			return fmt.Errorf("separator.stems: %q has no entry in [thresholds]", name)
		}
	}
	if c.FFmpeg.SampleRate < 0 {
		return fmt.Errorf("ffmpeg.sample_rate must be zero or positive, got %d", c.FFmpeg.SampleRate)
	}
	return nil
}

func (c *Config) validateOutput() error {
	if !slices.Contains([]int{16, 24, 32}, c.Output.BitDepth) {
		return fmt.Errorf("output.bit_depth must be 16, 24 or 32, got %d", c.Output.BitDepth)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "auto", "console", "json":
	default:
		return fmt.Errorf("logging.format must be auto, console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	return nil
}
