package pipeline

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-stemgate/dsp/gate"
	"github.com/cwbudde/algo-stemgate/internal/metrics"
	"github.com/cwbudde/algo-stemgate/internal/separate"
	"github.com/cwbudde/algo-stemgate/internal/wavio"
	"github.com/cwbudde/algo-stemgate/stem"
)

// ErrBusy is returned when another run holds the output directory lock.
var ErrBusy = errors.New("pipeline: output directory is locked by another run")

const lockName = ".stemgate.lock"

// Converter turns non-WAV input into a WAV file.
type Converter interface {
	ToWAV(ctx context.Context, src, dest string) error
}

// Config holds the run settings.
type Config struct {
	OutputDir string
	// WorkDir holds intermediate files. Empty means a temporary directory
	// removed after the run.
	WorkDir     string
	BitDepth    int
	KeepSources bool
	Smoothing   float64
	GateOptions []gate.Option
	Thresholds  stem.Thresholds
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger. The default discards output.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithMetrics records stage timings and stem outcomes in rec.
func WithMetrics(rec *metrics.Recorder) Option {
	return func(p *Pipeline) { p.metrics = rec }
}

// Pipeline gates the stems of one input file per Run call.
type Pipeline struct {
	cfg       Config
	separator stem.Separator
	converter Converter
	logger    *slog.Logger
	metrics   *metrics.Recorder
}

// New constructs a pipeline. converter may be nil when only WAV input is
// expected.
func New(cfg Config, separator stem.Separator, converter Converter, opts ...Option) (*Pipeline, error) {
	if separator == nil {
		return nil, errors.New("pipeline: separator required")
	}
	if cfg.OutputDir == "" {
		return nil, errors.New("pipeline: output directory required")
	}
	if cfg.Thresholds == nil {
		cfg.Thresholds = stem.DefaultThresholds()
	}
	if _, err := gate.New(append([]gate.Option{gate.WithSmoothing(cfg.Smoothing)}, cfg.GateOptions...)...); err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	p := &Pipeline{
		cfg:       cfg,
		separator: separator,
		converter: converter,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Result describes a finished run.
type Result struct {
	RunID     string
	Input     string
	OutputDir string
	// Files maps stem name to the written WAV path.
	Files   map[string]string
	Reports []stem.Report
	Audio   time.Duration
	Elapsed time.Duration
}

// Run processes input and writes the gated stems.
func (p *Pipeline) Run(ctx context.Context, input string) (res *Result, err error) {
	started := time.Now()
	runID := uuid.NewString()
	base := separate.BaseName(input)
	logger := p.logger.With("run_id", runID, "input", filepath.Base(input))

	res = &Result{
		RunID:     runID,
		Input:     input,
		OutputDir: filepath.Join(p.cfg.OutputDir, base),
		Files:     make(map[string]string),
	}
	defer func() {
		res.Elapsed = time.Since(started)
		p.metrics.RecordRun(res.Audio, err)
		if err != nil {
			logger.Error("run failed", "error", err, "elapsed", res.Elapsed)
			return
		}
		logger.Info("run complete", "stems", len(res.Files), "elapsed", res.Elapsed)
	}()

	if _, err := os.Stat(input); err != nil {
		return res, fmt.Errorf("input: %w", err)
	}
	if err := os.MkdirAll(res.OutputDir, 0o755); err != nil {
		return res, fmt.Errorf("create output directory: %w", err)
	}

	lock := flock.New(filepath.Join(res.OutputDir, lockName))
	locked, err := lock.TryLock()
	if err != nil {
		return res, fmt.Errorf("lock output directory: %w", err)
	}
	if !locked {
		return res, fmt.Errorf("%w: %s", ErrBusy, res.OutputDir)
	}
	defer func() {
		_ = lock.Unlock()
		_ = os.Remove(lock.Path())
	}()

	workDir, cleanup, err := p.workDir(runID)
	if err != nil {
		return res, err
	}
	defer cleanup()

	logger.Info("run started", "output_dir", res.OutputDir)

	wavPath, err := p.convert(ctx, logger, input, filepath.Join(workDir, base+".wav"))
	if err != nil {
		return res, err
	}

	var paths map[string]string
	err = p.stage(logger, "separate", func() error {
		var serr error
		paths, serr = p.separator.Separate(ctx, wavPath, filepath.Join(workDir, "separated"))
		return serr
	})
	if err != nil {
		return res, err
	}

	var tracks map[string]stem.Track
	err = p.stage(logger, "load", func() error {
		var lerr error
		tracks, lerr = loadStems(paths)
		return lerr
	})
	if err != nil {
		return res, err
	}
	res.Audio = longest(tracks)

	sources := p.mergeMusic(logger, tracks)
	if p.cfg.KeepSources {
		for name, track := range sources {
			path := filepath.Join(res.OutputDir, name+".wav")
			if err := wavio.WriteFile(path, track, p.cfg.BitDepth); err != nil {
				return res, fmt.Errorf("write source %s: %w", name, err)
			}
			res.Files[name] = path
		}
	}

	var mu sync.Mutex
	err = p.stage(logger, "gate", func() error {
		eg, gctx := errgroup.WithContext(ctx)
		for name, track := range tracks {
			eg.Go(func() error {
				rep, path, gerr := p.gateStem(gctx, name, track, res.OutputDir)
				if gerr != nil {
					return gerr
				}
				logger.Info("stem gated",
					"stem", name,
					"threshold_db", rep.ThresholdDB,
					"gated_fraction", rep.GatedFraction,
					"peak_db_before", rep.Before.Peak_dB,
					"peak_db_after", rep.After.Peak_dB,
				)
				mu.Lock()
				res.Files[name] = path
				res.Reports = append(res.Reports, rep)
				mu.Unlock()
				return nil
			})
		}
		return eg.Wait()
	})
	if err != nil {
		return res, err
	}

	slices.SortFunc(res.Reports, func(a, b stem.Report) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return res, nil
}

func (p *Pipeline) workDir(runID string) (string, func(), error) {
	if p.cfg.WorkDir != "" {
		dir := filepath.Join(p.cfg.WorkDir, runID)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", nil, fmt.Errorf("create work directory: %w", err)
		}
		return dir, func() {}, nil
	}
	dir, err := os.MkdirTemp("", "stemgate-")
	if err != nil {
		return "", nil, fmt.Errorf("create work directory: %w", err)
	}
	return dir, func() { _ = os.RemoveAll(dir) }, nil
}

func (p *Pipeline) convert(ctx context.Context, logger *slog.Logger, input, dest string) (string, error) {
	if !separate.NeedsConversion(input) {
		return input, nil
	}
	if p.converter == nil {
		return "", fmt.Errorf("convert %s: no converter configured", filepath.Base(input))
	}
	err := p.stage(logger, "convert", func() error {
		return p.converter.ToWAV(ctx, input, dest)
	})
	if err != nil {
		return "", err
	}
	return dest, nil
}

// stage runs fn and records its duration and failure.
func (p *Pipeline) stage(logger *slog.Logger, name string, fn func() error) error {
	started := time.Now()
	logger.Debug("stage started", "stage", name)
	err := fn()
	elapsed := time.Since(started)
	p.metrics.ObserveStage(name, elapsed)
	if err != nil {
		p.metrics.StageFailed(name)
		return fmt.Errorf("%s: %w", name, err)
	}
	logger.Debug("stage finished", "stage", name, "elapsed", elapsed)
	return nil
}

// mergeMusic replaces bass and other with their sum under the music name.
// It returns the replaced source tracks. When the sources cannot be mixed
// they stay in tracks and are gated on their own.
func (p *Pipeline) mergeMusic(logger *slog.Logger, tracks map[string]stem.Track) map[string]stem.Track {
	bass, hasBass := tracks[stem.Bass]
	other, hasOther := tracks[stem.Other]
	if !hasBass || !hasOther {
		return nil
	}

	started := time.Now()
	music, err := stem.Mix(bass, other)
	p.metrics.ObserveStage("mix", time.Since(started))
	if err != nil {
		p.metrics.StageFailed("mix")
		logger.Warn("music mix failed, keeping bass and other", "error", err)
		return nil
	}

	delete(tracks, stem.Bass)
	delete(tracks, stem.Other)
	tracks[stem.Music] = music
	return map[string]stem.Track{stem.Bass: bass, stem.Other: other}
}

// threshold returns the threshold for name. Unmixed bass and other fall back
// to the music threshold.
func (p *Pipeline) threshold(name string) (float64, error) {
	if _, ok := p.cfg.Thresholds[name]; !ok && (name == stem.Bass || name == stem.Other) {
		name = stem.Music
	}
	return p.cfg.Thresholds.Lookup(name)
}

func (p *Pipeline) gateStem(ctx context.Context, name string, track stem.Track, outDir string) (stem.Report, string, error) {
	thr, err := p.threshold(name)
	if err != nil {
		return stem.Report{}, "", err
	}
	gated, err := stem.GateTrack(ctx, track, thr, p.cfg.Smoothing, p.cfg.GateOptions...)
	if err != nil {
		return stem.Report{}, "", fmt.Errorf("stem %s: %w", name, err)
	}
	path := filepath.Join(outDir, name+".wav")
	if err := wavio.WriteFile(path, gated, p.cfg.BitDepth); err != nil {
		return stem.Report{}, "", fmt.Errorf("stem %s: %w", name, err)
	}
	rep := stem.NewReport(name, thr, track, gated)
	p.metrics.RecordStem(rep)
	return rep, path, nil
}

// GateFile gates a single WAV file with thresholdDB and writes it to dest.
func (p *Pipeline) GateFile(ctx context.Context, src, dest string, thresholdDB float64) (stem.Report, error) {
	logger := p.logger.With("input", filepath.Base(src))

	track, format, err := wavio.ReadFile(src)
	if err != nil {
		return stem.Report{}, err
	}

	var gated stem.Track
	err = p.stage(logger, "gate", func() error {
		var gerr error
		gated, gerr = stem.GateTrack(ctx, track, thresholdDB, p.cfg.Smoothing, p.cfg.GateOptions...)
		return gerr
	})
	if err != nil {
		return stem.Report{}, err
	}

	bits := p.cfg.BitDepth
	if bits == 0 {
		bits = format.BitDepth
	}
	if err := wavio.WriteFile(dest, gated, bits); err != nil {
		return stem.Report{}, err
	}

	rep := stem.NewReport(separate.BaseName(src), thresholdDB, track, gated)
	p.metrics.RecordStem(rep)
	logger.Info("file gated",
		"output", dest,
		"threshold_db", thresholdDB,
		"bit_depth", bits,
		"gated_fraction", rep.GatedFraction,
	)
	return rep, nil
}

func loadStems(paths map[string]string) (map[string]stem.Track, error) {
	tracks := make(map[string]stem.Track, len(paths))
	for name, path := range paths {
		track, _, err := wavio.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("stem %s: %w", name, err)
		}
		tracks[name] = track
	}
	return tracks, nil
}

func longest(tracks map[string]stem.Track) time.Duration {
	var d time.Duration
	for _, t := range tracks {
		d = max(d, t.Duration())
	}
	return d
}
