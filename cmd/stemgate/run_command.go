package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-stemgate/internal/config"
	"github.com/cwbudde/algo-stemgate/internal/metrics"
	"github.com/cwbudde/algo-stemgate/internal/pipeline"
	"github.com/cwbudde/algo-stemgate/internal/separate"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var outputDir, workDir, metricsFile string
	var keepSources, skipChecks bool

	cmd := &cobra.Command{
		Use:   "run <input>...",
		Short: "Separate and gate one or more songs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := applyRunOverrides(cfg, outputDir, workDir, metricsFile, keepSources, cmd.Flags().Changed("keep-sources")); err != nil {
				return err
			}

			if !skipChecks {
				if missing := separate.Missing(separate.CheckBinaries(requirements(cfg))); len(missing) > 0 {
					return fmt.Errorf("missing required tools: %s (see 'stemgate check')", strings.Join(missing, ", "))
				}
			}

			logger, err := ctx.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			rec := metrics.New()
			p, err := buildPipeline(cfg, pipeline.WithLogger(logger), pipeline.WithMetrics(rec))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			var failed []error
			for _, input := range args {
				res, err := p.Run(cmd.Context(), input)
				if err != nil {
					failed = append(failed, fmt.Errorf("%s: %w", input, err))
					if cmd.Context().Err() != nil {
						break
					}
					continue
				}

				fmt.Fprintf(out, "%s -> %s (%s audio in %s)\n", input, res.OutputDir, formatDuration(res.Audio), formatDuration(res.Elapsed))
				rows := make([][]string, 0, len(res.Reports))
				for _, rep := range res.Reports {
					rows = append(rows, reportRow(rep, res.Files[rep.Name]))
				}
				fmt.Fprintln(out, renderTable(reportHeaders, rows, reportAligns))
			}

			if err := rec.WriteTextfile(cfg.Metrics.Textfile); err != nil {
				failed = append(failed, err)
			}
			return errors.Join(failed...)
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Override output.dir")
	cmd.Flags().StringVar(&workDir, "work-dir", "", "Keep intermediate files under this directory")
	cmd.Flags().StringVar(&metricsFile, "metrics-textfile", "", "Write Prometheus metrics to this file")
	cmd.Flags().BoolVar(&keepSources, "keep-sources", false, "Also write the ungated bass and other stems")
	cmd.Flags().BoolVar(&skipChecks, "skip-checks", false, "Do not verify that ffmpeg and the separator are installed")
	return cmd
}

func applyRunOverrides(cfg *config.Config, outputDir, workDir, metricsFile string, keepSources, keepSet bool) error {
	var err error
	if outputDir != "" {
		if cfg.Output.Dir, err = config.ExpandPath(outputDir); err != nil {
			return err
		}
	}
	if workDir != "" {
		if cfg.Separator.WorkDir, err = config.ExpandPath(workDir); err != nil {
			return err
		}
	}
	if metricsFile != "" {
		if cfg.Metrics.Textfile, err = config.ExpandPath(metricsFile); err != nil {
			return err
		}
	}
	if keepSet {
		cfg.Output.KeepSources = keepSources
	}
	return nil
}

func buildPipeline(cfg *config.Config, opts ...pipeline.Option) (*pipeline.Pipeline, error) {
	gateOpts, err := cfg.GateOptions()
	if err != nil {
		return nil, err
	}

	sep := separate.NewCLI(
		separate.WithBinary(cfg.Separator.Binary),
		separate.WithArgs(cfg.Separator.Args),
		separate.WithModel(cfg.Separator.Model),
		separate.WithStems(cfg.Separator.Stems),
	)
	conv := separate.NewFFmpeg(
		separate.WithFFmpegBinary(cfg.FFmpeg.Binary),
		separate.WithSampleRate(cfg.FFmpeg.SampleRate),
	)

	return pipeline.New(pipeline.Config{
		OutputDir:   cfg.Output.Dir,
		WorkDir:     cfg.Separator.WorkDir,
		BitDepth:    cfg.Output.BitDepth,
		KeepSources: cfg.Output.KeepSources,
		Smoothing:   cfg.Gate.Smoothing,
		GateOptions: gateOpts,
		Thresholds:  cfg.StemThresholds(),
	}, sep, conv, opts...)
}

func requirements(cfg *config.Config) []separate.Requirement {
	return []separate.Requirement{
		{Name: "Separator", Command: cfg.Separator.Binary, Description: "Source separation (" + cfg.Separator.Model + ")"},
		{Name: "FFmpeg", Command: cfg.FFmpeg.Binary, Description: "Converts non-WAV input", Optional: true},
	}
}
