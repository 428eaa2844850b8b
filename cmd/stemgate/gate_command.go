package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-stemgate/dsp/gate"
	"github.com/cwbudde/algo-stemgate/internal/metrics"
	"github.com/cwbudde/algo-stemgate/internal/pipeline"
	"github.com/cwbudde/algo-stemgate/stem"
)

func newGateCommand(ctx *commandContext) *cobra.Command {
	var threshold, smoothing float64
	var stemName, padMode string
	var bitDepth int

	cmd := &cobra.Command{
		Use:   "gate <in.wav> <out.wav>",
		Short: "Gate a single WAV file",
		Long: "Gate a single WAV file. The threshold is given in dB relative to the\n" +
			"loudest frame of the file, or taken from the thresholds table with --stem.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			thr := threshold
			if !cmd.Flags().Changed("threshold") {
				if thr, err = cfg.StemThresholds().Lookup(stemName); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("smoothing") {
				cfg.Gate.Smoothing = smoothing
			}
			if padMode != "" {
				if _, err := gate.ParsePadMode(padMode); err != nil {
					return err
				}
				cfg.Gate.PadMode = padMode
			}
			cfg.Output.BitDepth = bitDepth

			logger, err := ctx.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			rec := metrics.New()
			p, err := buildPipeline(cfg, pipeline.WithLogger(logger), pipeline.WithMetrics(rec))
			if err != nil {
				return err
			}
			rep, err := p.GateFile(cmd.Context(), args[0], args[1], thr)
			var audio time.Duration
			if err == nil && rep.SampleRate > 0 {
				audio = time.Duration(rep.Frames) * time.Second / time.Duration(rep.SampleRate)
			}
			rec.RecordRun(audio, err)
			if werr := rec.WriteTextfile(cfg.Metrics.Textfile); werr != nil {
				return errors.Join(err, werr)
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(reportHeaders, [][]string{reportRow(rep, args[1])}, reportAligns))
			return nil
		},
	}

	cmd.Flags().Float64VarP(&threshold, "threshold", "t", 0, "Threshold in dB relative to the loudest frame")
	cmd.Flags().StringVar(&stemName, "stem", stem.Vocals, "Take the threshold for this stem from the thresholds table")
	cmd.Flags().Float64Var(&smoothing, "smoothing", gate.DefaultSmoothing, "Attack/release smoothing in seconds")
	cmd.Flags().StringVar(&padMode, "pad-mode", "", "Smoothing boundary mode (replicate, zero)")
	cmd.Flags().IntVar(&bitDepth, "bit-depth", 0, "Output bit depth (default: same as input)")
	return cmd
}
