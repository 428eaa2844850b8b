package config

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-stemgate/stem"
)

func (c *Config) normalize() error {
	c.normalizeGate()
	c.normalizeThresholds()
	c.normalizeSeparator()
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeGate() {
	c.Gate.PadMode = strings.ToLower(strings.TrimSpace(c.Gate.PadMode))
	if c.Gate.PadMode == "" {
		c.Gate.PadMode = defaultPadModeName
	}
}

func (c *Config) normalizeThresholds() {
	override := make(stem.Thresholds, len(c.Thresholds))
	for name, v := range c.Thresholds {
		override[strings.ToLower(strings.TrimSpace(name))] = v
	}
	c.Thresholds = stem.DefaultThresholds().Merge(override)
}

func (c *Config) normalizeSeparator() {
	c.Separator.Binary = strings.TrimSpace(c.Separator.Binary)
	c.Separator.Model = strings.TrimSpace(c.Separator.Model)
	c.FFmpeg.Binary = strings.TrimSpace(c.FFmpeg.Binary)
	if c.FFmpeg.Binary == "" {
		c.FFmpeg.Binary = defaultFFmpegBin
	}

	stems := c.Separator.Stems[:0]
	for _, name := range c.Separator.Stems {
		if name = strings.ToLower(strings.TrimSpace(name)); name != "" {
			stems = append(stems, name)
		}
	}
	c.Separator.Stems = stems
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Output.Dir) == "" {
		c.Output.Dir = defaultOutputDir
	}
	if c.Output.Dir, err = expandPath(c.Output.Dir); err != nil {
		return fmt.Errorf("output.dir: %w", err)
	}
	if c.Separator.WorkDir, err = expandPath(strings.TrimSpace(c.Separator.WorkDir)); err != nil {
		return fmt.Errorf("separator.work_dir: %w", err)
	}
	if c.Metrics.Textfile, err = expandPath(strings.TrimSpace(c.Metrics.Textfile)); err != nil {
		return fmt.Errorf("metrics.textfile: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
