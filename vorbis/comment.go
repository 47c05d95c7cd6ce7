package vorbis

import "unicode/utf8"

// CommentHeader is the second Vorbis header packet: a free-form vendor
// string plus a list of "TAG=value" comment fields (spec §4.10). Decoding
// does not reject invalid UTF-8 outright — it is metadata, not audio —
// but a malformed field is surfaced via Truncated so callers can choose
// how strict to be.
type CommentHeader struct {
	Vendor     string
	Comments   []string
	Truncated  bool
}

func decodeCommentHeader(br *BitReader) (*CommentHeader, error) {
	if err := expectHeaderMagic(br, headerTypeComment); err != nil {
		return nil, err
	}

	vendor, truncated, err := readLengthPrefixedString(br)
	if err != nil {
		return nil, err
	}

	count, err := br.ReadU32()
	if err != nil {
		return nil, err
	}

	ch := &CommentHeader{Vendor: vendor, Truncated: truncated}
	// count is an attacker-controlled 32-bit field read straight off the
	// wire; a malformed header could declare billions of comments to force
	// a huge up-front allocation before any byte of the claimed strings is
	// even read. Each comment costs at least 4 bytes (its own length
	// prefix), so cap the preallocation at what the rest of the packet
	// could possibly hold; a genuinely malformed count still gets caught
	// below when ReadU32/ReadBits hits end-of-packet.
	capacity := count
	if maxCount := uint32(br.remainingBytes() / 4); capacity > maxCount {
		capacity = maxCount
	}
	ch.Comments = make([]string, 0, capacity)
	for i := uint32(0); i < count; i++ {
		s, trunc, err := readLengthPrefixedString(br)
		if err != nil {
			return nil, err
		}
		ch.Truncated = ch.Truncated || trunc
		ch.Comments = append(ch.Comments, s)
	}

	if err := expectFramingBit(br); err != nil {
		return nil, err
	}
	return ch, nil
}

func readLengthPrefixedString(br *BitReader) (string, bool, error) {
	length, err := br.ReadU32()
	if err != nil {
		return "", false, err
	}
	// Same attacker-controlled-length concern as the comment count above:
	// clamp the allocation to what could possibly still be in the packet.
	if maxLen := uint32(br.remainingBytes()); length > maxLen {
		length = maxLen
	}
	buf := make([]byte, length)
	for i := range buf {
		b, err := br.ReadBits(8)
		if err != nil {
			return "", false, err
		}
		buf[i] = byte(b)
	}
	return string(buf), !utf8.Valid(buf), nil
}
