package time

import (
	"math"
	"testing"
)

const tolerance = 1e-10

func almostEqual(a, b, tol float64) bool {
	if math.IsInf(a, -1) && math.IsInf(b, -1) {
		return true
	}
	return math.Abs(a-b) <= tol
}

// generateSine creates exactly numCycles full cycles of a sine wave.
func generateSine(amplitude, freq, sampleRate float64, numCycles int) []float64 {
	samplesPerCycle := int(sampleRate / freq)
	out := make([]float64, samplesPerCycle*numCycles)
	for i := range out {
		out[i] = amplitude * math.Sin(2*math.Pi*freq*float64(i)/sampleRate)
	}
	return out
}

func TestCalculateSine(t *testing.T) {
	s := Calculate(generateSine(1, 1000, 48000, 10))

	if !almostEqual(s.RMS, 1/math.Sqrt2, 1e-9) {
		t.Errorf("RMS = %v, want %v", s.RMS, 1/math.Sqrt2)
	}
	if !almostEqual(s.Peak, 1, 1e-9) {
		t.Errorf("Peak = %v, want 1", s.Peak)
	}
	if !almostEqual(s.CrestFactor, math.Sqrt2, 1e-6) {
		t.Errorf("CrestFactor = %v, want %v", s.CrestFactor, math.Sqrt2)
	}
	if !almostEqual(s.Peak_dB, 0, 1e-9) {
		t.Errorf("Peak_dB = %v, want 0", s.Peak_dB)
	}
}

func TestCalculateEmpty(t *testing.T) {
	s := Calculate(nil)
	if s.Length != 0 || s.Energy != 0 {
		t.Fatalf("unexpected stats for empty signal: %+v", s)
	}
	if !math.IsInf(s.RMS_dB, -1) || !math.IsInf(s.Peak_dB, -1) {
		t.Fatalf("expected -Inf dB fields, got %+v", s)
	}
	if s.ZeroFraction() != 0 {
		t.Fatalf("ZeroFraction() = %v, want 0", s.ZeroFraction())
	}
}

func TestCalculateSilence(t *testing.T) {
	s := Calculate(make([]float64, 64))
	if s.RMS != 0 || s.Peak != 0 || s.CrestFactor != 0 {
		t.Fatalf("unexpected stats for silence: %+v", s)
	}
	if s.Zeros != 64 || s.ZeroFraction() != 1 {
		t.Fatalf("Zeros = %d, ZeroFraction = %v", s.Zeros, s.ZeroFraction())
	}
}

func TestEnergyAndRMS(t *testing.T) {
	x := []float64{3, -4}
	if got := Energy(x); !almostEqual(got, 25, tolerance) {
		t.Errorf("Energy = %v, want 25", got)
	}
	if got := RMS(x); !almostEqual(got, math.Sqrt(12.5), tolerance) {
		t.Errorf("RMS = %v, want %v", got, math.Sqrt(12.5))
	}
	if RMS(nil) != 0 || Energy(nil) != 0 || Peak(nil) != 0 {
		t.Error("empty input should yield zero")
	}
}

func TestPeakNegative(t *testing.T) {
	if got := Peak([]float64{0.1, -0.9, 0.5}); !almostEqual(got, 0.9, tolerance) {
		t.Errorf("Peak = %v, want 0.9", got)
	}
}
