package config

import (
	"github.com/cwbudde/algo-stemgate/dsp/gate"
	"github.com/cwbudde/algo-stemgate/internal/separate"
	"github.com/cwbudde/algo-stemgate/internal/wavio"
	"github.com/cwbudde/algo-stemgate/stem"
)

const (
	defaultConfigPath  = "~/.config/stemgate/config.toml"
	projectConfigName  = "stemgate.toml"
	defaultOutputDir   = "output"
	defaultLogFormat   = "auto"
	defaultLogLevel    = "info"
	defaultFFmpegBin   = "ffmpeg"
	defaultPadModeName = "replicate"
)

// Default returns a configuration populated with stock values.
func Default() Config {
	return Config{
		Gate: Gate{
			Smoothing: gate.DefaultSmoothing,
			FrameSize: gate.DefaultFrameSize,
			HopSize:   gate.DefaultHopSize,
			PadMode:   defaultPadModeName,
			Floor:     gate.DefaultFloor,
		},
		Thresholds: stem.DefaultThresholds(),
		Separator: Separator{
			Binary: separate.DefaultBinary,
			Args:   append([]string(nil), separate.DefaultArgs...),
			Model:  separate.DefaultModel,
			Stems:  append([]string(nil), separate.DefaultStems...),
		},
		FFmpeg: FFmpeg{
			Binary: defaultFFmpegBin,
		},
		Output: Output{
			Dir:      defaultOutputDir,
			BitDepth: wavio.DefaultBitDepth,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
