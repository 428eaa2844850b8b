package stem

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-stemgate/dsp/gate"
	"github.com/cwbudde/algo-stemgate/internal/testutil"
)

const sr = 44100

func stereo(left, right []float64) Track {
	return Track{SampleRate: sr, Channels: [][]float64{left, right}}
}

func TestDefaultThresholds(t *testing.T) {
	th := DefaultThresholds()
	for name, want := range map[string]float64{Vocals: -45, Drums: -40, Music: -60} {
		got, err := th.Lookup(name)
		if err != nil {
			t.Fatalf("Lookup(%q): %v", name, err)
		}
		if got != want {
			t.Fatalf("Lookup(%q) = %v, want %v", name, got, want)
		}
	}
	if _, err := th.Lookup(Bass); !errors.Is(err, ErrUnknownStem) {
		t.Fatalf("Lookup(bass) err = %v, want ErrUnknownStem", err)
	}

	names := th.Names()
	want := []string{Drums, Music, Vocals}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("Names() = %v, want %v", names, want)
		}
	}
}

func TestThresholdsMerge(t *testing.T) {
	base := DefaultThresholds()
	merged := base.Merge(Thresholds{Vocals: -30, "piano": -50})

	if merged[Vocals] != -30 || merged["piano"] != -50 || merged[Drums] != -40 {
		t.Fatalf("merged = %v", merged)
	}
	if base[Vocals] != -45 {
		t.Fatal("Merge modified the receiver")
	}
}

func TestTrackValidate(t *testing.T) {
	tests := []struct {
		name  string
		track Track
		ok    bool
	}{
		{"stereo", stereo(make([]float64, 10), make([]float64, 10)), true},
		{"empty channels", Track{SampleRate: sr, Channels: [][]float64{{}}}, true},
		{"no channels", Track{SampleRate: sr}, false},
		{"zero rate", Track{Channels: [][]float64{{1}}}, false},
		{"ragged", stereo(make([]float64, 10), make([]float64, 9)), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.track.Validate()
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidTrack) {
				t.Fatalf("err = %v, want ErrInvalidTrack", err)
			}
		})
	}
}

func TestTrackDuration(t *testing.T) {
	tr := stereo(make([]float64, sr*3/2), make([]float64, sr*3/2))
	if got := tr.Duration().Seconds(); math.Abs(got-1.5) > 1e-9 {
		t.Fatalf("Duration = %vs, want 1.5s", got)
	}
}

func TestGateTrackChannelsIndependent(t *testing.T) {
	// Left is loud tone then silence; right is a quiet tone throughout. Each
	// channel is referenced to its own peak, so the quiet right channel
	// passes untouched.
	left := testutil.Concat(testutil.Sine(440, sr, 1, sr/2), testutil.Silence(sr/2))
	right := testutil.Sine(220, sr, testutil.DBFS(-50), sr)

	out, err := GateTrack(context.Background(), stereo(left, right), -40, gate.DefaultSmoothing)
	if err != nil {
		t.Fatal(err)
	}
	if out.NumChannels() != 2 || out.Len() != sr || out.SampleRate != sr {
		t.Fatalf("shape = %dch x %d @ %d", out.NumChannels(), out.Len(), out.SampleRate)
	}

	testutil.RequireSliceNearlyEqual(t, out.Channels[1], right, 1e-12)
	testutil.RequireAllZero(t, out.Channels[0][int(0.6*sr):])

	want, err := gate.Apply(left, sr, -40, gate.DefaultSmoothing)
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireSliceNearlyEqual(t, out.Channels[0], want, 0)
}

func TestGateTrackErrors(t *testing.T) {
	bad := []float64{0, math.NaN(), 0}
	_, err := GateTrack(context.Background(), stereo([]float64{0, 0, 0}, bad), -40, gate.DefaultSmoothing)
	if !errors.Is(err, gate.ErrInvalidAudioInput) {
		t.Fatalf("err = %v, want ErrInvalidAudioInput", err)
	}

	_, err = GateTrack(context.Background(), Track{SampleRate: sr}, -40, gate.DefaultSmoothing)
	if !errors.Is(err, ErrInvalidTrack) {
		t.Fatalf("err = %v, want ErrInvalidTrack", err)
	}

	_, err = GateTrack(context.Background(), stereo([]float64{1}, []float64{1}), -40, -1)
	if !errors.Is(err, gate.ErrInvalidAudioInput) {
		t.Fatalf("err = %v, want ErrInvalidAudioInput for negative smoothing", err)
	}
}

func TestGateTrackCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tr := stereo(testutil.Sine(440, sr, 1, 4096), testutil.Sine(440, sr, 1, 4096))
	if _, err := GateTrack(ctx, tr, -40, gate.DefaultSmoothing); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestGateNamed(t *testing.T) {
	tr := stereo(testutil.Sine(440, sr, 1, 4096), testutil.Sine(440, sr, 1, 4096))

	if _, err := GateNamed(context.Background(), Vocals, tr, DefaultThresholds(), gate.DefaultSmoothing); err != nil {
		t.Fatal(err)
	}
	if _, err := GateNamed(context.Background(), "piano", tr, DefaultThresholds(), gate.DefaultSmoothing); !errors.Is(err, ErrUnknownStem) {
		t.Fatalf("err = %v, want ErrUnknownStem", err)
	}
}

func TestMix(t *testing.T) {
	bass := stereo([]float64{1, 2, 3, 4}, []float64{-1, -2, -3, -4})
	other := stereo([]float64{0.5, 0.5}, []float64{1, 1})
	longer := stereo([]float64{10, 10, 10, 10, 10, 10}, []float64{0, 0, 0, 0, 0, 0})

	got, err := Mix(bass, other, longer)
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireSliceNearlyEqual(t, got.Channels[0], []float64{11.5, 12.5, 13, 14}, 0)
	testutil.RequireSliceNearlyEqual(t, got.Channels[1], []float64{0, -1, -3, -4}, 0)

	if bass.Channels[0][0] != 1 {
		t.Fatal("Mix modified its input")
	}
}

func TestMixErrors(t *testing.T) {
	mono := Track{SampleRate: sr, Channels: [][]float64{{1, 2}}}
	st := stereo([]float64{1, 2}, []float64{1, 2})
	other := Track{SampleRate: 48000, Channels: [][]float64{{1, 2}}}

	if _, err := Mix(); !errors.Is(err, ErrNoTracks) {
		t.Fatalf("err = %v, want ErrNoTracks", err)
	}
	if _, err := Mix(mono, st); !errors.Is(err, ErrChannelMismatch) {
		t.Fatalf("err = %v, want ErrChannelMismatch", err)
	}
	if _, err := Mix(mono, other); !errors.Is(err, ErrSampleRateMismatch) {
		t.Fatalf("err = %v, want ErrSampleRateMismatch", err)
	}
}

func TestNewReport(t *testing.T) {
	before := stereo([]float64{1, 0.5, 0, 0.25}, []float64{0, 0.5, 0.5, 0.5})
	after := stereo([]float64{1, 0.5, 0, 0}, []float64{0, 0, 0, 0.5})

	r := NewReport(Drums, -40, before, after)
	if r.Name != Drums || r.ThresholdDB != -40 || r.Channels != 2 || r.Frames != 4 {
		t.Fatalf("report header = %+v", r)
	}
	// Six non-zero input samples, three of them zeroed.
	if r.GatedFraction != 0.5 {
		t.Fatalf("GatedFraction = %v, want 0.5", r.GatedFraction)
	}
	if r.Before.Peak != 1 || r.After.Peak != 1 {
		t.Fatalf("peaks = %v, %v", r.Before.Peak, r.After.Peak)
	}
	if r.After.Energy >= r.Before.Energy {
		t.Fatalf("energy after %v >= before %v", r.After.Energy, r.Before.Energy)
	}
}

func TestNewReportSilent(t *testing.T) {
	tr := stereo(testutil.Silence(8), testutil.Silence(8))
	r := NewReport(Music, -60, tr, tr)
	if r.GatedFraction != 0 {
		t.Fatalf("GatedFraction = %v, want 0", r.GatedFraction)
	}
	if !math.IsInf(r.Before.RMS_dB, -1) {
		t.Fatalf("RMS_dB = %v, want -Inf", r.Before.RMS_dB)
	}
}
