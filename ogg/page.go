package ogg

import "encoding/binary"

// Page header flag bits (spec §3 Page.flags).
const (
	// FlagContinuesPacket marks a page whose first segment continues a
	// packet fragment left incomplete by the previous page for this serial.
	FlagContinuesPacket = 0x01

	// FlagBeginOfStream marks the first page of a logical bitstream.
	FlagBeginOfStream = 0x02

	// FlagEndOfStream marks the last page of a logical bitstream.
	FlagEndOfStream = 0x04
)

const (
	// headerSize is the fixed portion of the page header, before the
	// segment table.
	headerSize = 27

	// syncPattern is the four-byte capture pattern identifying a page.
	syncPattern = "OggS"

	// maxSegments is the largest segment count a single-byte field can hold.
	maxSegments = 255
)

// Page is a parsed Ogg page (spec §3).
type Page struct {
	Version      byte
	Flags        byte
	StreamSerial int32
	GranulePos   int64
	SequenceNum  int32

	// SegmentTable holds the raw per-segment sizes (0-255 each).
	SegmentTable []byte

	// Payload is the concatenation of this page's packet fragments.
	Payload []byte

	// DataOffset is the absolute byte source offset of Payload[0].
	DataOffset uint64

	// IsResync is set when bytes were skipped to locate this page's sync
	// pattern (spec §4.3 find_next_page).
	IsResync bool
}

// ContinuesPacket reports whether the page's first fragment continues a
// packet begun on a previous page.
func (p *Page) ContinuesPacket() bool { return p.Flags&FlagContinuesPacket != 0 }

// BeginOfStream reports whether this page opens a logical bitstream.
func (p *Page) BeginOfStream() bool { return p.Flags&FlagBeginOfStream != 0 }

// EndOfStream reports whether this page closes a logical bitstream.
func (p *Page) EndOfStream() bool { return p.Flags&FlagEndOfStream != 0 }

// LastSegmentFull reports whether the page's final segment entry is 255,
// meaning its last packet fragment is continued into the next page (or, if
// the table is a single full segment, spec §4.3's
// "segment_count == 1 && last_segment_full" continuation case).
func (p *Page) LastSegmentFull() bool {
	return len(p.SegmentTable) > 0 && p.SegmentTable[len(p.SegmentTable)-1] == maxSegments
}

// BuildSegmentTable produces the segment table encoding a packet of the
// given length: full 255-byte segments followed by a terminating segment
// strictly less than 255 (a trailing zero-length segment when the packet
// length is an exact multiple of 255).
func BuildSegmentTable(packetLen int) []byte {
	full := packetLen / maxSegments
	rem := packetLen % maxSegments
	table := make([]byte, full+1)
	for i := 0; i < full; i++ {
		table[i] = maxSegments
	}
	table[full] = byte(rem)
	return table
}

// SplitSegmentTable splits a segment table into the lengths of packet
// fragments it terminates, plus the length of the trailing fragment (if
// any) that continues into the next page because it ends on a 255 segment.
func SplitSegmentTable(table []byte) (complete []int, trailing int, trailingContinues bool) {
	cur := 0
	for _, seg := range table {
		cur += int(seg)
		if seg < maxSegments {
			complete = append(complete, cur)
			cur = 0
		}
	}
	if len(table) > 0 && table[len(table)-1] == maxSegments {
		return complete, cur, true
	}
	return complete, 0, false
}

// encode serializes the page with a freshly computed CRC. Used by tests to
// synthesize fixtures; the core decoder never writes pages.
func (p *Page) encode() []byte {
	total := headerSize + len(p.SegmentTable) + len(p.Payload)
	data := make([]byte, total)

	copy(data[0:4], syncPattern)
	data[4] = p.Version
	data[5] = p.Flags
	binary.LittleEndian.PutUint64(data[6:14], uint64(p.GranulePos))
	binary.LittleEndian.PutUint32(data[14:18], uint32(p.StreamSerial))
	binary.LittleEndian.PutUint32(data[18:22], uint32(p.SequenceNum))
	data[26] = byte(len(p.SegmentTable))
	copy(data[27:], p.SegmentTable)
	copy(data[headerSize+len(p.SegmentTable):], p.Payload)

	crc := oggCRC(data)
	binary.LittleEndian.PutUint32(data[22:26], crc)
	return data
}

// parsePage parses one page from the front of data. It returns the page,
// the number of bytes consumed, and an error. A CRC mismatch returns
// *CRCError; any other malformation returns ErrInvalidPage; a truncated
// buffer (not enough bytes yet available) returns ErrUnexpectedEOF so the
// caller can decide whether to wait for more data or treat it as resync
// fodder.
func parsePage(data []byte, offset uint64) (*Page, int, error) {
	if len(data) < 4 || string(data[0:4]) != syncPattern {
		return nil, 0, ErrInvalidPage
	}
	if len(data) < headerSize {
		return nil, 0, ErrUnexpectedEOF
	}

	version := data[4]
	if version != 0 {
		return nil, 0, ErrInvalidPage
	}

	numSegments := int(data[26])
	total := headerSize + numSegments
	if len(data) < total {
		return nil, 0, ErrUnexpectedEOF
	}

	segTable := make([]byte, numSegments)
	copy(segTable, data[27:total])

	payloadSize := 0
	for _, seg := range segTable {
		payloadSize += int(seg)
	}
	total += payloadSize
	if len(data) < total {
		return nil, 0, ErrUnexpectedEOF
	}

	storedCRC := binary.LittleEndian.Uint32(data[22:26])

	crcBuf := make([]byte, total)
	copy(crcBuf, data[:total])
	crcBuf[22], crcBuf[23], crcBuf[24], crcBuf[25] = 0, 0, 0, 0
	computed := oggCRC(crcBuf)
	if computed != storedCRC {
		return nil, 0, &CRCError{Found: storedCRC, Expected: computed}
	}

	payload := make([]byte, payloadSize)
	copy(payload, data[headerSize+numSegments:total])

	p := &Page{
		Version:      version,
		Flags:        data[5],
		GranulePos:   int64(binary.LittleEndian.Uint64(data[6:14])),
		StreamSerial: int32(binary.LittleEndian.Uint32(data[14:18])),
		SequenceNum:  int32(binary.LittleEndian.Uint32(data[18:22])),
		SegmentTable: segTable,
		Payload:      payload,
		DataOffset:   offset + uint64(headerSize+numSegments),
	}
	return p, total, nil
}
