package core

import "testing"

func TestEnsureLenReuse(t *testing.T) {
	buf := make([]float64, 4, 8)

	out := EnsureLen(buf, 6)
	if len(out) != 6 {
		t.Fatalf("len = %d, want 6", len(out))
	}

	if cap(out) != cap(buf) {
		t.Fatalf("cap = %d, want %d", cap(out), cap(buf))
	}
}

func TestEnsureLenGrow(t *testing.T) {
	out := EnsureLen(make([]float64, 2), 16)
	if len(out) != 16 {
		t.Fatalf("len = %d, want 16", len(out))
	}
}

func TestZeroAndFill(t *testing.T) {
	buf := []float64{1, 2, 3}
	Zero(buf)

	for i, v := range buf {
		if v != 0 {
			t.Fatalf("buf[%d] = %v, want 0", i, v)
		}
	}

	Fill(buf, 0.5)

	for i, v := range buf {
		if v != 0.5 {
			t.Fatalf("buf[%d] = %v, want 0.5", i, v)
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	src := []float64{1, 2, 3}
	dst := Clone(src)
	dst[0] = 9

	if src[0] != 1 {
		t.Fatalf("Clone shares storage with source")
	}

	if got := Clone(nil); got == nil || len(got) != 0 {
		t.Fatalf("Clone(nil) = %#v, want empty non-nil slice", got)
	}
}
