package metrics

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	timestats "github.com/cwbudde/algo-stemgate/stats/time"
	"github.com/cwbudde/algo-stemgate/stem"
)

func TestRecordStem(t *testing.T) {
	r := New()
	r.RecordStem(stem.Report{Name: stem.Vocals, GatedFraction: 0.4, After: timestats.Stats{Peak_dB: -3}})
	r.RecordStem(stem.Report{Name: stem.Vocals, GatedFraction: 0.2, After: timestats.Stats{Peak_dB: math.Inf(-1)}})

	if got := testutil.ToFloat64(r.StemsGated.WithLabelValues(stem.Vocals)); got != 2 {
		t.Fatalf("stems gated = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.GatedFraction.WithLabelValues(stem.Vocals)); got != 0.2 {
		t.Fatalf("gated fraction = %v, want last value 0.2", got)
	}
	if got := testutil.ToFloat64(r.OutputPeakDB.WithLabelValues(stem.Vocals)); got != -200 {
		t.Fatalf("peak = %v, want -200 for silent output", got)
	}
}

func TestRecordRunAndStages(t *testing.T) {
	r := New()
	r.RecordRun(90*time.Second, nil)
	r.RecordRun(0, errors.New("boom"))
	r.ObserveStage("separate", 2*time.Second)
	r.StageFailed("separate")

	if got := testutil.ToFloat64(r.Runs.WithLabelValues("success")); got != 1 {
		t.Fatalf("successful runs = %v", got)
	}
	if got := testutil.ToFloat64(r.Runs.WithLabelValues("failure")); got != 1 {
		t.Fatalf("failed runs = %v", got)
	}
	if got := testutil.ToFloat64(r.AudioSeconds); got != 90 {
		t.Fatalf("audio seconds = %v, want 90", got)
	}
	if got := testutil.ToFloat64(r.Errors.WithLabelValues("separate")); got != 1 {
		t.Fatalf("errors = %v", got)
	}
	if n := testutil.CollectAndCount(r.StageDuration); n != 1 {
		t.Fatalf("stage histogram series = %d, want 1", n)
	}
}

func TestWriteTextfile(t *testing.T) {
	r := New()
	r.RecordRun(time.Second, nil)

	path := filepath.Join(t.TempDir(), "textfile", "stemgate.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `stemgate_runs_total{result="success"} 1`) {
		t.Fatalf("textfile missing run counter:\n%s", data)
	}
}

func TestNilRecorder(t *testing.T) {
	var r *Recorder
	r.RecordRun(time.Second, nil)
	r.RecordStem(stem.Report{Name: stem.Drums})
	r.ObserveStage("gate", time.Millisecond)
	r.StageFailed("gate")
	if err := r.WriteTextfile("/nonexistent/x.prom"); err != nil {
		t.Fatalf("nil recorder wrote: %v", err)
	}
	if r.Registry() != nil {
		t.Fatal("nil recorder has a registry")
	}
}
