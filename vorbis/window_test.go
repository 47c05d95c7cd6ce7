package vorbis

import (
	"math"
	"testing"
)

func TestWindowSumOfSquaresIsOne(t *testing.T) {
	for _, n := range []int{64, 256, 2048} {
		half := windowRisingHalf(n)
		// w[i]^2 + w[L-1-i]^2 == 1 for all i, where w is the rising half
		// windowRisingHalf(n) of length L = n/2: each sample paired with the
		// same half read in reverse.
		for i := 0; i < len(half); i++ {
			a := half[i]
			b := half[len(half)-1-i]
			sum := float64(a)*float64(a) + float64(b)*float64(b)
			if math.Abs(sum-1) > 1e-4 {
				t.Fatalf("n=%d i=%d: w^2+w'^2 = %v, want 1", n, i, sum)
			}
		}
	}
}

func TestApplyWindowSameSizeNeighborsNoZeroedRegion(t *testing.T) {
	n := 256
	data := make([]float32, n)
	for i := range data {
		data[i] = 1
	}
	ApplyWindow(data, n, n, n)

	// With left and right neighbors the same size as this block, the
	// window is the plain full-length sin^2 shape with no zeroed region.
	if data[0] == 0 && data[n-1] == 0 {
		t.Fatalf("expected a nonzero value somewhere in a same-size-neighbor window")
	}
}

func TestApplyWindowShorterNeighborZeroesEdges(t *testing.T) {
	n := 256
	data := make([]float32, n)
	for i := range data {
		data[i] = 1
	}
	ApplyWindow(data, n, 64, 64)

	if data[0] != 0 {
		t.Fatalf("expected zeroed head when left neighbor is much shorter, got %v", data[0])
	}
	if data[n-1] != 0 {
		t.Fatalf("expected zeroed tail when right neighbor is much shorter, got %v", data[n-1])
	}
}
