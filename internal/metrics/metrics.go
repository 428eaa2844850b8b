// Package metrics records pipeline statistics in a Prometheus registry that
// can be exported as a node-exporter textfile after a run.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/cwbudde/algo-stemgate/stem"
)

// Recorder owns a registry and the stemgate collectors. A nil *Recorder is
// valid and records nothing.
type Recorder struct {
	reg *prometheus.Registry

	Runs          *prometheus.CounterVec
	StageDuration *prometheus.HistogramVec
	Errors        *prometheus.CounterVec
	StemsGated    *prometheus.CounterVec
	GatedFraction *prometheus.GaugeVec
	OutputPeakDB  *prometheus.GaugeVec
	AudioSeconds  prometheus.Counter
}

// New registers the stemgate collectors in a fresh registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Recorder{
		reg: reg,
		Runs: f.NewCounterVec(prometheus.CounterOpts{
			Name: "stemgate_runs_total",
			Help: "Pipeline runs by result",
		}, []string{"result"}),
		StageDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stemgate_stage_duration_seconds",
			Help:    "Per-stage wall time",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}, []string{"stage"}),
		Errors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "stemgate_errors_total",
			Help: "Error counts by stage",
		}, []string{"stage"}),
		StemsGated: f.NewCounterVec(prometheus.CounterOpts{
			Name: "stemgate_stems_gated_total",
			Help: "Stems written after gating",
		}, []string{"stem"}),
		GatedFraction: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "stemgate_gated_fraction",
			Help: "Share of non-silent samples zeroed by the gate in the last run",
		}, []string{"stem"}),
		OutputPeakDB: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "stemgate_output_peak_dbfs",
			Help: "Peak level of the gated stem in the last run",
		}, []string{"stem"}),
		AudioSeconds: f.NewCounter(prometheus.CounterOpts{
			Name: "stemgate_audio_seconds_total",
			Help: "Seconds of input audio processed",
		}),
	}
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.reg
}

// ObserveStage records how long a pipeline stage took.
func (r *Recorder) ObserveStage(stage string, d time.Duration) {
	if r == nil {
		return
	}
	r.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// StageFailed counts an error in stage.
func (r *Recorder) StageFailed(stage string) {
	if r == nil {
		return
	}
	r.Errors.WithLabelValues(stage).Inc()
}

// RecordStem records the outcome of gating one stem.
func (r *Recorder) RecordStem(rep stem.Report) {
	if r == nil {
		return
	}
	r.StemsGated.WithLabelValues(rep.Name).Inc()
	r.GatedFraction.WithLabelValues(rep.Name).Set(rep.GatedFraction)
	// -Inf would make the textfile unparsable for some collectors.
	peak := rep.After.Peak_dB
	if peak < -200 {
		peak = -200
	}
	r.OutputPeakDB.WithLabelValues(rep.Name).Set(peak)
}

// RecordRun counts a finished run and the audio it covered.
func (r *Recorder) RecordRun(audio time.Duration, err error) {
	if r == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failure"
	}
	r.Runs.WithLabelValues(result).Inc()
	if audio > 0 {
		r.AudioSeconds.Add(audio.Seconds())
	}
}

// WriteTextfile writes the registry in Prometheus text format. The file is
// replaced atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, r.reg); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
