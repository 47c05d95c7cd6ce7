package vorbis

import (
	"math"
	"sync"
)

// windowCache lazily builds and caches the rising half of the Vorbis
// sin^2 window for a given block length, mirroring the teacher's
// lazily-cached sync.Mutex+map twiddle-table pattern (grounded on the
// now-superseded celt twiddle cache; reproduced here over window halves
// instead of FFT twiddles, since Vorbis needs at most two window shapes
// per decoder — one per configured block size — rather than one per
// transform stage).
var (
	windowCacheMu sync.Mutex
	windowCache   = map[int][]float32{}
)

// windowRisingHalf returns the first n/2 samples of the length-n Vorbis
// window w[i] = sin(pi/2 * sin^2(pi/2*(i+0.5)/(n/2))) (spec §4.8). The window
// is symmetric, so its rising half is all that is ever needed: the
// trailing taper of a block reuses the same values in reverse.
func windowRisingHalf(n int) []float32 {
	windowCacheMu.Lock()
	defer windowCacheMu.Unlock()

	if w, ok := windowCache[n]; ok {
		return w
	}
	half := n / 2
	w := make([]float32, half)
	for i := 0; i < half; i++ {
		inner := math.Sin(math.Pi / 2 * (float64(i) + 0.5) / float64(half))
		w[i] = float32(math.Sin(math.Pi / 2 * inner * inner))
	}
	windowCache[n] = w
	return w
}

// windowTaperBounds returns the four boundaries of a length-n block's
// taper regions given its left and right neighbor sizes (spec §4.8/§4.9):
// data[:leftBegin] and data[rightEnd:] are the zeroed regions,
// data[leftBegin:leftEnd] is the rising taper (where this block's own
// left-overlap with its predecessor's trailing taper belongs), and
// data[rightBegin:rightEnd] is the falling taper held back for the next
// block's combine. leftEnd <= n/2 <= rightBegin always holds, so the flat
// middle [leftEnd:rightBegin) never needs combining with a neighbor.
func windowTaperBounds(n, leftBlockSize, rightBlockSize int) (leftBegin, leftEnd, rightBegin, rightEnd int) {
	leftBegin = n/4 - leftBlockSize/4
	leftEnd = leftBegin + leftBlockSize/2
	rightBegin = n/2 + n/4 - rightBlockSize/4
	rightEnd = rightBegin + rightBlockSize/2
	return
}

// ApplyWindow shapes a decoded block of n samples in place for overlap-add,
// given the block sizes of its left and right neighbors (each either the
// decoder's block0 or block1). Outside the taper regions the block is
// zeroed on the side facing a smaller neighbor (that neighbor's own
// trailing taper already covers that span) and left untouched (multiplied
// by 1) in the flat middle (spec §4.8/§4.9).
func ApplyWindow(data []float32, n, leftBlockSize, rightBlockSize int) {
	leftHalf := windowRisingHalf(leftBlockSize)
	rightHalf := windowRisingHalf(rightBlockSize)

	leftBegin, leftEnd, rightBegin, rightEnd := windowTaperBounds(n, leftBlockSize, rightBlockSize)

	for i := 0; i < leftBegin; i++ {
		data[i] = 0
	}
	for i, p := leftBegin, 0; i < leftEnd; i, p = i+1, p+1 {
		data[i] *= leftHalf[p]
	}
	for i, p := rightBegin, len(rightHalf)-1; i < rightEnd; i, p = i+1, p-1 {
		data[i] *= rightHalf[p]
	}
	for i := rightEnd; i < n; i++ {
		data[i] = 0
	}
}
