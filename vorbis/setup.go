package vorbis

// SetupHeader is the third Vorbis header packet: the full codec
// configuration for this logical stream — codebooks, floors, residues,
// mappings and modes (spec §4.10).
type SetupHeader struct {
	Codebooks []*Codebook
	Floors    []*Floor
	Residues  []*Residue
	Mappings  []*Mapping
	Modes     []*Mode
}

func decodeSetupHeader(br *BitReader, channels int) (*SetupHeader, error) {
	if err := expectHeaderMagic(br, headerTypeSetup); err != nil {
		return nil, err
	}

	s := &SetupHeader{}

	cbCountBits, err := br.ReadBits(8)
	if err != nil {
		return nil, err
	}
	cbCount := int(cbCountBits) + 1
	s.Codebooks = make([]*Codebook, cbCount)
	for i := range s.Codebooks {
		cb, err := DecodeCodebook(br)
		if err != nil {
			return nil, err
		}
		s.Codebooks[i] = cb
	}

	timeCountBits, err := br.ReadBits(6)
	if err != nil {
		return nil, err
	}
	timeCount := int(timeCountBits) + 1
	for i := 0; i < timeCount; i++ {
		placeholder, err := br.ReadBits(16)
		if err != nil {
			return nil, err
		}
		if placeholder != 0 {
			return nil, ErrBadSetup
		}
	}

	floorCountBits, err := br.ReadBits(6)
	if err != nil {
		return nil, err
	}
	floorCount := int(floorCountBits) + 1
	s.Floors = make([]*Floor, floorCount)
	for i := range s.Floors {
		f, err := decodeFloor(br)
		if err != nil {
			return nil, err
		}
		s.Floors[i] = f
	}

	residueCountBits, err := br.ReadBits(6)
	if err != nil {
		return nil, err
	}
	residueCount := int(residueCountBits) + 1
	s.Residues = make([]*Residue, residueCount)
	for i := range s.Residues {
		r, err := decodeResidue(br)
		if err != nil {
			return nil, err
		}
		s.Residues[i] = r
	}

	mappingCountBits, err := br.ReadBits(6)
	if err != nil {
		return nil, err
	}
	mappingCount := int(mappingCountBits) + 1
	s.Mappings = make([]*Mapping, mappingCount)
	for i := range s.Mappings {
		m, err := decodeMapping(br, channels, floorCount, residueCount)
		if err != nil {
			return nil, err
		}
		s.Mappings[i] = m
	}

	modeCountBits, err := br.ReadBits(6)
	if err != nil {
		return nil, err
	}
	modeCount := int(modeCountBits) + 1
	s.Modes = make([]*Mode, modeCount)
	for i := range s.Modes {
		m, err := decodeMode(br, mappingCount)
		if err != nil {
			return nil, err
		}
		s.Modes[i] = m
	}

	if err := expectFramingBit(br); err != nil {
		return nil, err
	}
	return s, nil
}
