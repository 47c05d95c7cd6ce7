package vorbis

// Mode selects, per audio packet, which block size and window shape to
// use and which mapping routes its channels to floors and residues (spec
// §4.7).
type Mode struct {
	BlockFlag bool // true = long block (block1), false = short block (block0)
	Mapping   int
}

func decodeMode(br *BitReader, mappingCount int) (*Mode, error) {
	blockFlag, err := br.ReadBit()
	if err != nil {
		return nil, err
	}
	windowType, err := br.ReadBits(16)
	if err != nil {
		return nil, err
	}
	if windowType != 0 {
		return nil, ErrBadSetup
	}
	transformType, err := br.ReadBits(16)
	if err != nil {
		return nil, err
	}
	if transformType != 0 {
		return nil, ErrBadSetup
	}
	mapping, err := br.ReadBits(8)
	if err != nil {
		return nil, err
	}
	if int(mapping) >= mappingCount {
		return nil, ErrBadSetup
	}
	return &Mode{BlockFlag: blockFlag != 0, Mapping: int(mapping)}, nil
}
