package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/cwbudde/algo-stemgate/dsp/gate"
	"github.com/cwbudde/algo-stemgate/stem"
)

//go:embed sample_config.toml
var sampleConfig string

// Gate contains the analysis and smoothing settings shared by all stems.
type Gate struct {
	Smoothing float64 `toml:"smoothing"`
	FrameSize int     `toml:"frame_size"`
	HopSize   int     `toml:"hop_size"`
	PadMode   string  `toml:"pad_mode"`
	Floor     float64 `toml:"floor"`
}

// Separator configures the external source separation command.
type Separator struct {
	Binary string   `toml:"binary"`
	Args   []string `toml:"args"`
	Model  string   `toml:"model"`
	Stems  []string `toml:"stems"`
	// WorkDir holds raw separator output. Empty means a temporary directory
	// per run.
	WorkDir string `toml:"work_dir"`
}

// FFmpeg configures input conversion.
type FFmpeg struct {
	Binary     string `toml:"binary"`
	SampleRate int    `toml:"sample_rate"`
}

// Output controls where and how gated stems are written.
type Output struct {
	Dir         string `toml:"dir"`
	BitDepth    int    `toml:"bit_depth"`
	KeepSources bool   `toml:"keep_sources"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Metrics configures the Prometheus textfile written after each run.
type Metrics struct {
	Textfile string `toml:"textfile"`
}

// Config encapsulates all configuration values for stemgate.
type Config struct {
	Gate       Gate               `toml:"gate"`
	Thresholds map[string]float64 `toml:"thresholds"`
	Separator  Separator          `toml:"separator"`
	FFmpeg     FFmpeg             `toml:"ffmpeg"`
	Output     Output             `toml:"output"`
	Logging    Logging            `toml:"logging"`
	Metrics    Metrics            `toml:"metrics"`
}

// DefaultConfigPath returns the absolute path of the per-user config file.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses and validates a configuration file. With an empty
// path it tries the per-user file and then stemgate.toml in the working
// directory. A missing file is not an error: defaults are used and exists is
// false.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		// Thresholds from the file are merged over the defaults in normalize.
		cfg.Thresholds = nil
		decoder := toml.NewDecoder(file).DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// GateOptions translates the [gate] section into gate options.
func (c *Config) GateOptions() ([]gate.Option, error) {
	mode, err := gate.ParsePadMode(c.Gate.PadMode)
	if err != nil {
		return nil, fmt.Errorf("gate.pad_mode: %w", err)
	}
	return []gate.Option{
		gate.WithSmoothing(c.Gate.Smoothing),
		gate.WithFrameSize(c.Gate.FrameSize),
		gate.WithHopSize(c.Gate.HopSize),
		gate.WithPadMode(mode),
		gate.WithFloor(c.Gate.Floor),
	}, nil
}

// StemThresholds returns the threshold table as a stem.Thresholds.
func (c *Config) StemThresholds() stem.Thresholds {
	return stem.Thresholds(c.Thresholds).Merge(nil)
}

// Encode renders the configuration as TOML.
func (c *Config) Encode() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// SampleConfig returns the annotated sample configuration.
func SampleConfig() string { return sampleConfig }

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
