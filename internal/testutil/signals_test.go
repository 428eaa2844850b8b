package testutil

import (
	"math"
	"testing"
)

func TestSine(t *testing.T) {
	s := Sine(1000, 48000, 1.0, 48)
	if len(s) != 48 {
		t.Fatalf("len = %d, want 48", len(s))
	}
	if math.Abs(s[0]) > 1e-15 {
		t.Fatalf("s[0] = %v, want 0", s[0])
	}
	if math.Abs(s[12]-1) > 1e-12 {
		t.Fatalf("s[12] = %v, want 1 (quarter period)", s[12])
	}
}

func TestNoiseReproducible(t *testing.T) {
	a := Noise(42, 0.5, 64)
	b := Noise(42, 0.5, 64)
	c := Noise(43, 0.5, 64)
	same := true
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("noise not deterministic at index %d", i)
		}
		if a[i] < -0.5 || a[i] >= 0.5 {
			t.Fatalf("a[%d] = %v out of range", i, a[i])
		}
		if a[i] != c[i] {
			same = false
		}
	}
	if same {
		t.Fatal("different seeds produced identical noise")
	}
}

func TestConcat(t *testing.T) {
	got := Concat(DC(1, 2), Silence(3), []float64{7})
	want := []float64{1, 1, 0, 0, 0, 7}
	RequireSliceNearlyEqual(t, got, want, 0)
}

func TestAddTruncates(t *testing.T) {
	got := Add([]float64{1, 2, 3}, []float64{10, 20})
	RequireSliceNearlyEqual(t, got, []float64{11, 22}, 0)
}

func TestDBFS(t *testing.T) {
	if math.Abs(DBFS(-20)-0.1) > 1e-15 {
		t.Fatalf("DBFS(-20) = %v", DBFS(-20))
	}
	if Energy([]float64{3, 4}) != 25 {
		t.Fatal("Energy([3 4]) != 25")
	}
}
