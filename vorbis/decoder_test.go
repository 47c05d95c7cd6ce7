package vorbis

import "testing"

// newBareDecoder builds a StreamDecoder with just enough state for
// overlapAddEmit to run, bypassing Init's header parsing so the combine
// logic can be exercised with synthetic blocks instead of a full encoded
// bitstream. Clipping is disabled so the synthetic sample values, which
// exceed [-1, 1], reach the ring buffer unclamped.
func newBareDecoder(channels int) *StreamDecoder {
	return &StreamDecoder{ring: NewRingBuffer(channels), clipDisabled: true}
}

func readAll(d *StreamDecoder, channels int) [][]float32 {
	out := make([][]float32, channels)
	for {
		bufs := make([][]float32, channels)
		for ch := range bufs {
			bufs[ch] = make([]float32, d.Available())
		}
		n := d.ReadSamples(bufs)
		if n == 0 {
			break
		}
		for ch := range bufs {
			out[ch] = append(out[ch], bufs[ch][:n]...)
		}
	}
	return out
}

// TestOverlapAddCombinesIntoCurrentBlockSameSize drives three consecutive
// same-size blocks through overlapAddEmit and checks that the first
// (priming) call emits nothing, and each call after that combines the
// falling taper held back from the previous call into the new block's
// own rising taper, emits the combined result (not the stale uncombined
// one), and retains the new block's own falling taper for next time.
func TestOverlapAddCombinesIntoCurrentBlockSameSize(t *testing.T) {
	d := newBareDecoder(1)
	n := 16 // leftBegin=0, leftEnd=8, rightBegin=8, rightEnd=16

	block1 := make([]float32, n)
	for i := 0; i < 8; i++ {
		block1[i] = 1
	}
	for i := 8; i < 16; i++ {
		block1[i] = 2
	}
	if err := d.overlapAddEmit([][]float32{block1}, n, 16, 16); err != nil {
		t.Fatalf("call 1: %v", err)
	}
	if d.Available() != 0 {
		t.Fatalf("priming call emitted %d samples, want 0", d.Available())
	}

	block2 := make([]float32, n)
	for i := 0; i < 8; i++ {
		block2[i] = 10
	}
	for i := 8; i < 16; i++ {
		block2[i] = 20
	}
	if err := d.overlapAddEmit([][]float32{block2}, n, 16, 16); err != nil {
		t.Fatalf("call 2: %v", err)
	}

	block3 := make([]float32, n)
	for i := 0; i < 8; i++ {
		block3[i] = 100
	}
	for i := 8; i < 16; i++ {
		block3[i] = 200
	}
	if err := d.overlapAddEmit([][]float32{block3}, n, 16, 16); err != nil {
		t.Fatalf("call 3: %v", err)
	}

	d.Flush()

	got := readAll(d, 1)[0]
	want := []float32{}
	for i := 0; i < 8; i++ {
		want = append(want, 12) // block2's rising taper (10) + block1's falling taper (2)
	}
	for i := 0; i < 8; i++ {
		want = append(want, 120) // block3's rising taper (100) + block2's falling taper (20)
	}
	for i := 0; i < 8; i++ {
		want = append(want, 200) // block3's falling taper, flushed uncombined at end of stream
	}

	if len(got) != len(want) {
		t.Fatalf("got %d samples, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sample %d = %v, want %v (full: %v)", i, got[i], want[i], got)
		}
	}

	if d.CurrentPosition() != int64(len(want)) {
		t.Fatalf("CurrentPosition = %d, want %d", d.CurrentPosition(), len(want))
	}
}

// TestOverlapAddCombinesAcrossBlockSizeTransition exercises a long block
// (declaring a short right neighbor) followed by an actual short block,
// checking that the falling taper width held back from the long block
// lines up with the short block's rising taper width even though the two
// blocks have different total lengths.
func TestOverlapAddCombinesAcrossBlockSizeTransition(t *testing.T) {
	d := newBareDecoder(1)

	// n=16, leftBlockSize=16, rightBlockSize=8:
	// leftBegin=0, leftEnd=8, rightBegin=10, rightEnd=14.
	long := make([]float32, 16)
	for i := 0; i < 10; i++ {
		long[i] = 1
	}
	for i := 10; i < 14; i++ {
		long[i] = 2
	}
	if err := d.overlapAddEmit([][]float32{long}, 16, 16, 8); err != nil {
		t.Fatalf("long block: %v", err)
	}
	if d.prevTailLen != 4 {
		t.Fatalf("prevTailLen = %d, want 4", d.prevTailLen)
	}
	if d.Available() != 0 {
		t.Fatalf("priming call emitted %d samples, want 0", d.Available())
	}

	// n=8, leftBlockSize=rightBlockSize=8 (a short block always uses
	// block0 for both neighbors): leftBegin=0, leftEnd=4, rightBegin=4,
	// rightEnd=8.
	short := make([]float32, 8)
	for i := 0; i < 4; i++ {
		short[i] = 10
	}
	for i := 4; i < 8; i++ {
		short[i] = 20
	}
	if err := d.overlapAddEmit([][]float32{short}, 8, 8, 8); err != nil {
		t.Fatalf("short block: %v", err)
	}

	d.Flush()

	got := readAll(d, 1)[0]
	want := []float32{12, 12, 12, 12, 20, 20, 20, 20}
	if len(got) != len(want) {
		t.Fatalf("got %d samples, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sample %d = %v, want %v (full: %v)", i, got[i], want[i], got)
		}
	}
}

// TestOverlapAddMultiChannelKeepsChannelsInLockstep checks that each
// channel's taper is combined independently but the ring buffer's
// per-channel streams stay aligned.
func TestOverlapAddMultiChannelKeepsChannelsInLockstep(t *testing.T) {
	d := newBareDecoder(2)
	n := 16

	left1 := make([]float32, n)
	right1 := make([]float32, n)
	for i := 8; i < 16; i++ {
		left1[i] = 1
		right1[i] = -1
	}
	if err := d.overlapAddEmit([][]float32{left1, right1}, n, 16, 16); err != nil {
		t.Fatalf("call 1: %v", err)
	}
	if d.Available() != 0 {
		t.Fatalf("priming call emitted %d samples, want 0", d.Available())
	}

	left2 := make([]float32, n)
	right2 := make([]float32, n)
	for i := 0; i < 8; i++ {
		left2[i] = 5
		right2[i] = -5
	}
	if err := d.overlapAddEmit([][]float32{left2, right2}, n, 16, 16); err != nil {
		t.Fatalf("call 2: %v", err)
	}
	d.Flush()

	got := readAll(d, 2)
	// call 1 primes only (no output); call 2 emits the combined taper
	// (5+1=6, -5-1=-6); Flush appends call 2's own untouched falling
	// taper (left2/right2 are zero past index 8).
	want0 := []float32{6, 6, 6, 6, 6, 6, 6, 6, 0, 0, 0, 0, 0, 0, 0, 0}
	want1 := []float32{-6, -6, -6, -6, -6, -6, -6, -6, 0, 0, 0, 0, 0, 0, 0, 0}
	for i := range want0 {
		if got[0][i] != want0[i] {
			t.Fatalf("left[%d] = %v, want %v", i, got[0][i], want0[i])
		}
		if got[1][i] != want1[i] {
			t.Fatalf("right[%d] = %v, want %v", i, got[1][i], want1[i])
		}
	}
}
