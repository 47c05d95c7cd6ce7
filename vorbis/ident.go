package vorbis

// IdentHeader is the first of the three Vorbis header packets (spec
// §4.10). It carries the stream's channel count, sample rate and the two
// block sizes used for mode selection.
type IdentHeader struct {
	Channels   int
	SampleRate uint32

	BitrateMax uint32
	BitrateNom uint32
	BitrateMin uint32

	Block0 int // blocksize_0, a power of two
	Block1 int // blocksize_1, a power of two, >= Block0
}

// decodeIdentHeader parses the identification header packet.
func decodeIdentHeader(br *BitReader) (*IdentHeader, error) {
	if err := expectHeaderMagic(br, headerTypeIdent); err != nil {
		return nil, err
	}

	version, err := br.ReadU32()
	if err != nil {
		return nil, err
	}
	if version != 0 {
		return nil, ErrBadVersion
	}

	channelsBits, err := br.ReadBits(8)
	if err != nil {
		return nil, err
	}
	channels := int(channelsBits)
	if channels <= 0 {
		return nil, ErrBadSetup
	}

	sampleRate, err := br.ReadU32()
	if err != nil {
		return nil, err
	}
	if sampleRate == 0 {
		return nil, ErrBadSetup
	}

	bitrateMax, err := br.ReadU32()
	if err != nil {
		return nil, err
	}
	bitrateNom, err := br.ReadU32()
	if err != nil {
		return nil, err
	}
	bitrateMin, err := br.ReadU32()
	if err != nil {
		return nil, err
	}

	b0Bits, err := br.ReadBits(4)
	if err != nil {
		return nil, err
	}
	b1Bits, err := br.ReadBits(4)
	if err != nil {
		return nil, err
	}
	block0 := 1 << uint(b0Bits)
	block1 := 1 << uint(b1Bits)
	if b0Bits < 6 || b1Bits < 6 || b0Bits > 13 || b1Bits > 13 || b0Bits > b1Bits {
		return nil, ErrBadBlockSize
	}

	if err := expectFramingBit(br); err != nil {
		return nil, err
	}

	return &IdentHeader{
		Channels:   channels,
		SampleRate: sampleRate,
		BitrateMax: bitrateMax,
		BitrateNom: bitrateNom,
		BitrateMin: bitrateMin,
		Block0:     block0,
		Block1:     block1,
	}, nil
}
