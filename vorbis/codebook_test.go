package vorbis

import "testing"

// lsbBitWriter accumulates bits LSB-first into bytes, the same bit order
// BitReader expects, for constructing synthetic setup-header fixtures by
// hand.
type lsbBitWriter struct {
	bytes  []byte
	bitPos int // next bit to write, within bytes
}

func (w *lsbBitWriter) writeBits(value uint64, n int) {
	for i := 0; i < n; i++ {
		bit := (value >> i) & 1
		byteIdx := w.bitPos / 8
		for byteIdx >= len(w.bytes) {
			w.bytes = append(w.bytes, 0)
		}
		if bit != 0 {
			w.bytes[byteIdx] |= 1 << (w.bitPos % 8)
		}
		w.bitPos++
	}
}

func TestReadCodewordLengthsOrderedRejectsLengthOverflow(t *testing.T) {
	const entries = 40

	w := &lsbBitWriter{}
	w.writeBits(1, 1) // ordered = 1
	w.writeBits(0, 5) // initial length - 1 = 0, so currentLength starts at 1

	currentEntry := 0
	for g := 0; g < 33; g++ {
		remaining := entries - currentEntry
		numBits := ilog(uint32(remaining))
		w.writeBits(1, numBits) // count = 1
		currentEntry++
	}

	br := NewBitReader(w.bytes)
	_, err := readCodewordLengths(br, entries)
	if err != ErrBadCodebook {
		t.Fatalf("readCodewordLengths with an overflowing ordered length run: got %v, want ErrBadCodebook", err)
	}
}

func TestBuildDecodeTrieRoundTrip(t *testing.T) {
	lengths := []int{2, 2, 2, 2}
	trie, err := buildDecodeTrie(lengths)
	if err != nil {
		t.Fatalf("buildDecodeTrie: %v", err)
	}
	cb := &Codebook{Dimensions: 1, Entries: 4, codewordLengths: lengths, trie: trie}

	// Stream bits, in read order, for the four canonical 2-bit codewords
	// 00, 01, 10, 11 packed MSB-first per codeword: 0,0, 0,1, 1,0, 1,1.
	br := NewBitReader([]byte{0xD8})

	want := []int{0, 1, 2, 3}
	for i, w := range want {
		got, err := cb.DecodeScalar(br)
		if err != nil {
			t.Fatalf("DecodeScalar[%d]: %v", i, err)
		}
		if got != w {
			t.Fatalf("DecodeScalar[%d] = %d, want %d", i, got, w)
		}
	}
}

func TestBuildDecodeTrieUnusedEntriesSkipped(t *testing.T) {
	// entry 1 unused (length 0); canonical codes go to entries 0, 2, 3.
	lengths := []int{1, 0, 2, 2}
	trie, err := buildDecodeTrie(lengths)
	if err != nil {
		t.Fatalf("buildDecodeTrie: %v", err)
	}
	cb := &Codebook{Dimensions: 1, Entries: 4, codewordLengths: lengths, trie: trie}

	// entry0 code "0" (length 1); entry2 code "10"; entry3 code "11".
	// Stream bits in read order: 0, then 1,0, then 1,1.
	br := NewBitReader([]byte{0b01101_0})
	// bit0=0 (entry0), bit1=1,bit2=0 (entry2 "10"), bit3=1,bit4=1 (entry3 "11")
	got0, err := cb.DecodeScalar(br)
	if err != nil || got0 != 0 {
		t.Fatalf("entry0: got %d, err %v", got0, err)
	}
	got2, err := cb.DecodeScalar(br)
	if err != nil || got2 != 2 {
		t.Fatalf("entry2: got %d, err %v", got2, err)
	}
	got3, err := cb.DecodeScalar(br)
	if err != nil || got3 != 3 {
		t.Fatalf("entry3: got %d, err %v", got3, err)
	}
}

func TestBuildDecodeTrieRejectsOverlappingLengths(t *testing.T) {
	// Three single-bit codes for 3 entries is impossible with a valid
	// prefix-free assignment (only two 1-bit codewords exist).
	_, err := buildDecodeTrie([]int{1, 1, 1})
	if err == nil {
		t.Fatalf("expected an error for an over-subscribed code length set")
	}
}

func TestLookup1Values(t *testing.T) {
	cases := []struct {
		entries, dim, want int
	}{
		{256, 1, 256},
		{256, 2, 16},
		{100, 2, 10},
		{10, 1, 10},
	}
	for _, c := range cases {
		got := lookup1Values(c.entries, c.dim)
		if got != c.want {
			t.Fatalf("lookup1Values(%d,%d) = %d, want %d", c.entries, c.dim, got, c.want)
		}
	}
}
