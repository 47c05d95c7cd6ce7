package vorbis

import "testing"

func TestClipClampsOutOfRangeSamples(t *testing.T) {
	var c Clipper
	samples := []float32{-2, -1, 0, 0.5, 1, 1.5}
	n := c.Clip(samples)
	if n != 2 {
		t.Fatalf("Clip returned %d, want 2", n)
	}
	want := []float32{-1, -1, 0, 0.5, 1, 1}
	for i, w := range want {
		if samples[i] != w {
			t.Fatalf("samples[%d] = %v, want %v", i, samples[i], w)
		}
	}
	if c.ClippedCount() != 2 {
		t.Fatalf("ClippedCount() = %d, want 2", c.ClippedCount())
	}
}

func TestClipIsIdempotent(t *testing.T) {
	var c Clipper
	samples := []float32{-3, 2, 0.25}
	first := c.Clip(samples)
	if first != 2 {
		t.Fatalf("first Clip returned %d, want 2", first)
	}
	snapshot := append([]float32{}, samples...)

	second := c.Clip(samples)
	if second != 0 {
		t.Fatalf("second Clip on an already-clamped buffer returned %d, want 0", second)
	}
	for i := range samples {
		if samples[i] != snapshot[i] {
			t.Fatalf("samples[%d] changed on a no-op clip: %v -> %v", i, snapshot[i], samples[i])
		}
	}
	if c.ClippedCount() != 2 {
		t.Fatalf("ClippedCount() = %d, want 2 (unchanged by the no-op clip)", c.ClippedCount())
	}
}
