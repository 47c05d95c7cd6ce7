package ogg

import (
	"bytes"
	"testing"
)

func TestBuildAndSplitSegmentTableRoundTrip(t *testing.T) {
	cases := []int{0, 1, 254, 255, 256, 509, 510, 765}
	for _, n := range cases {
		table := BuildSegmentTable(n)
		complete, trailing, continues := SplitSegmentTable(table)
		if continues {
			t.Fatalf("len %d: single-packet table should never continue", n)
		}
		if len(complete) != 1 || complete[0] != n {
			t.Fatalf("len %d: got complete=%v trailing=%d", n, complete, trailing)
		}
	}
}

func TestSplitSegmentTableTrailingContinuation(t *testing.T) {
	table := append(BuildSegmentTable(300), 255, 255)
	complete, trailing, continues := SplitSegmentTable(table)
	if !continues {
		t.Fatalf("expected trailing continuation")
	}
	if len(complete) != 1 || complete[0] != 300 {
		t.Fatalf("unexpected complete fragments: %v", complete)
	}
	if trailing != 510 {
		t.Fatalf("trailing = %d, want 510", trailing)
	}
}

func TestParsePageRoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte{0x42}, 130)
	p := &Page{
		Version:      0,
		Flags:        FlagBeginOfStream,
		StreamSerial: 7,
		GranulePos:   1000,
		SequenceNum:  1,
		SegmentTable: BuildSegmentTable(len(payload)),
		Payload:      payload,
	}
	encoded := p.encode()

	got, consumed, err := parsePage(encoded, 0)
	if err != nil {
		t.Fatalf("parsePage: %v", err)
	}
	if consumed != len(encoded) {
		t.Fatalf("consumed %d, want %d", consumed, len(encoded))
	}
	if got.StreamSerial != p.StreamSerial || got.GranulePos != p.GranulePos {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if !bytes.Equal(got.Payload, payload) {
		t.Fatalf("payload mismatch")
	}
}

func TestParsePageCRCMismatch(t *testing.T) {
	p := &Page{SegmentTable: BuildSegmentTable(4), Payload: []byte{1, 2, 3, 4}}
	encoded := p.encode()
	encoded[len(encoded)-1] ^= 0xFF

	_, _, err := parsePage(encoded, 0)
	if !IsCRCMismatch(err) {
		t.Fatalf("expected CRCError, got %v", err)
	}
}

func TestParsePageUnexpectedEOF(t *testing.T) {
	p := &Page{SegmentTable: BuildSegmentTable(100), Payload: bytes.Repeat([]byte{1}, 100)}
	encoded := p.encode()

	_, _, err := parsePage(encoded[:len(encoded)-10], 0)
	if err != ErrUnexpectedEOF {
		t.Fatalf("expected ErrUnexpectedEOF, got %v", err)
	}
}
