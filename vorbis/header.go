package vorbis

const (
	headerTypeIdent   = 1
	headerTypeComment = 3
	headerTypeSetup   = 5
)

var headerMagic = [6]byte{'v', 'o', 'r', 'b', 'i', 's'}

// expectHeaderMagic reads and validates a header packet's leading
// packet-type byte and six-byte "vorbis" magic (spec §4.10).
func expectHeaderMagic(br *BitReader, packetType int) error {
	t, err := br.ReadBits(8)
	if err != nil {
		return err
	}
	if int(t) != packetType {
		return ErrBadMagic
	}
	for _, want := range headerMagic {
		b, err := br.ReadBits(8)
		if err != nil {
			return err
		}
		if byte(b) != want {
			return ErrBadMagic
		}
	}
	return nil
}

// expectFramingBit reads and validates the trailing framing bit every
// Vorbis header packet ends with.
func expectFramingBit(br *BitReader) error {
	bit, err := br.ReadBit()
	if err != nil {
		return err
	}
	if bit != 1 {
		return ErrBadFraming
	}
	return nil
}
