package vorbis

// BitReader extracts LSB-first bit fields from a Vorbis packet's byte
// content (spec §4.5). The first bit read is the least-significant bit of
// the first byte; a multi-bit field's first-read bit becomes the result's
// least-significant bit.
//
// Unlike the source this is grounded on, a BitReader here always sees a
// fully reassembled packet (ogg.Packet.Bytes() already concatenates any
// continuation fragments) — there is no lazy pull from the container mid
// read.
type BitReader struct {
	data   []byte
	bitPos int
	eop    bool
}

// NewBitReader wraps data for LSB-first bit extraction.
func NewBitReader(data []byte) *BitReader {
	return &BitReader{data: data}
}

func (r *BitReader) totalBits() int { return len(r.data) * 8 }

// remainingBytes returns an upper bound on how many more bytes this packet
// could possibly still hold, for sizing allocations driven by an
// attacker-controlled length field before it has been validated against
// the packet's actual size.
func (r *BitReader) remainingBytes() int {
	bits := r.totalBits() - r.bitPos
	if bits < 0 {
		bits = 0
	}
	return bits / 8
}

// EOP reports whether a read has gone past the end of the packet since the
// last Reset.
func (r *BitReader) EOP() bool { return r.eop }

// ReadBit reads a single bit.
func (r *BitReader) ReadBit() (uint32, error) {
	v, err := r.ReadBits(1)
	return uint32(v), err
}

// ReadBits reads n bits (1 ≤ n ≤ 64) and returns them right-aligned in the
// result, first-read bit as the LSB. Reading past the end of the packet
// returns zero-padded bits and sets EOP.
func (r *BitReader) ReadBits(n int) (uint64, error) {
	var result uint64
	got := 0
	total := r.totalBits()

	for got < n {
		if r.bitPos >= total {
			r.bitPos += n - got
			r.eop = true
			return result, errEndOfPacket
		}
		byteIdx := r.bitPos / 8
		bitIdx := r.bitPos % 8
		avail := 8 - bitIdx
		take := n - got
		if take > avail {
			take = avail
		}
		chunk := (uint64(r.data[byteIdx]) >> bitIdx) & ((uint64(1) << take) - 1)
		result |= chunk << got
		got += take
		r.bitPos += take
	}
	return result, nil
}

// ReadU32 reads 32 bits and reinterprets them as a uint32.
func (r *BitReader) ReadU32() (uint32, error) {
	v, err := r.ReadBits(32)
	return uint32(v), err
}

// TryPeekBits reads n bits without consuming them, also returning how many
// bits were actually available (≤ n at end of packet).
func (r *BitReader) TryPeekBits(n int) (value uint64, actuallyAvailable int) {
	savedPos, savedEOP := r.bitPos, r.eop
	v, err := r.ReadBits(n)
	avail := n
	if err != nil {
		avail = r.totalBits() - savedPos
		if avail < 0 {
			avail = 0
		}
	}
	r.bitPos, r.eop = savedPos, savedEOP
	return v, avail
}

// SkipBits advances (or, for negative n, rewinds) the read cursor by n bits
// without returning a value.
func (r *BitReader) SkipBits(n int) {
	r.bitPos += n
	if r.bitPos < 0 {
		r.bitPos = 0
	}
	r.eop = r.bitPos > r.totalBits()
}

// ResetBitReader rewinds the cursor to the start of the packet and clears
// the EOP flag.
func (r *BitReader) ResetBitReader() {
	r.bitPos = 0
	r.eop = false
}

// Done permits the caller to discard this reader; it has no effect on the
// underlying packet, whose bytes are released separately via
// ogg.PacketReader.ReleaseThrough.
func (r *BitReader) Done() {}

// BitsRead returns the number of bits consumed so far (used to compute
// per-packet decode cost and for the bit-reader identity property).
func (r *BitReader) BitsRead() int { return r.bitPos }

// ReadVorbisFloat32 decodes a 32-bit Vorbis-packed float: bit 31 is the
// sign, bits 30-21 (10 bits) are the exponent biased by 788, bits 20-0 (21
// bits) are the mantissa. This is the canonical Vorbis I float32 packing
// used for codebook VQ lookup min/delta values (spec §4.6); the result is
// (-1)^sign * mantissa * 2^(exponent-788).
func (r *BitReader) ReadVorbisFloat32() (float32, error) {
	raw, err := r.ReadU32()
	if err != nil && r.eop {
		return 0, err
	}

	mantissa := raw & 0x1fffff
	sign := raw & 0x80000000
	exponent := int((raw & 0x7fe00000) >> 21)

	val := float64(mantissa)
	if sign != 0 {
		val = -val
	}
	return float32(val * pow2(exponent-788)), nil
}

func pow2(e int) float64 {
	if e >= 0 {
		r := 1.0
		for i := 0; i < e; i++ {
			r *= 2
		}
		return r
	}
	r := 1.0
	for i := 0; i < -e; i++ {
		r /= 2
	}
	return r
}
