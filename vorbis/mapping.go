package vorbis

// Mapping is a decoded setup-header mapping (type 0 only — the only type
// Vorbis I defines, spec §4.7): it routes each audio channel to a floor
// and a residue through a submap, and lists the channel pairs that carry
// inverse M/A (magnitude/angle) coupling.
type Mapping struct {
	muxSubmap  []int // per channel, which submap it belongs to
	submapFloor   []int // per submap, floor index
	submapResidue []int // per submap, residue index

	CouplingAngle []int // per coupling step, angle channel index
	CouplingMag   []int // per coupling step, magnitude channel index
}

func decodeMapping(br *BitReader, channels, floorCount, residueCount int) (*Mapping, error) {
	t, err := br.ReadBits(16)
	if err != nil {
		return nil, err
	}
	if t != 0 {
		return nil, ErrBadSetup
	}

	m := &Mapping{}

	submapFlag, err := br.ReadBit()
	if err != nil {
		return nil, err
	}
	numSubmaps := 1
	if submapFlag != 0 {
		n, err := br.ReadBits(4)
		if err != nil {
			return nil, err
		}
		numSubmaps = int(n) + 1
	}

	couplingFlag, err := br.ReadBit()
	if err != nil {
		return nil, err
	}
	if couplingFlag != 0 {
		stepsBits, err := br.ReadBits(8)
		if err != nil {
			return nil, err
		}
		steps := int(stepsBits) + 1
		bits := ilog(uint32(channels - 1))
		m.CouplingMag = make([]int, steps)
		m.CouplingAngle = make([]int, steps)
		for i := 0; i < steps; i++ {
			mag, err := br.ReadBits(bits)
			if err != nil {
				return nil, err
			}
			ang, err := br.ReadBits(bits)
			if err != nil {
				return nil, err
			}
			m.CouplingMag[i] = int(mag)
			m.CouplingAngle[i] = int(ang)
		}
	}

	reserved, err := br.ReadBits(2)
	if err != nil {
		return nil, err
	}
	if reserved != 0 {
		return nil, ErrBadSetup
	}

	m.muxSubmap = make([]int, channels)
	if numSubmaps > 1 {
		for c := 0; c < channels; c++ {
			v, err := br.ReadBits(4)
			if err != nil {
				return nil, err
			}
			m.muxSubmap[c] = int(v)
		}
	}

	m.submapFloor = make([]int, numSubmaps)
	m.submapResidue = make([]int, numSubmaps)
	for s := 0; s < numSubmaps; s++ {
		if _, err := br.ReadBits(8); err != nil { // time config placeholder, unused
			return nil, err
		}
		floorIdx, err := br.ReadBits(8)
		if err != nil {
			return nil, err
		}
		if int(floorIdx) >= floorCount {
			return nil, ErrBadSetup
		}
		m.submapFloor[s] = int(floorIdx)

		residueIdx, err := br.ReadBits(8)
		if err != nil {
			return nil, err
		}
		if int(residueIdx) >= residueCount {
			return nil, ErrBadSetup
		}
		m.submapResidue[s] = int(residueIdx)
	}
	return m, nil
}

// ApplyCoupling reverses inverse M/A channel coupling in place across the
// spectral vectors, per spec §4.7: for each coupled (magnitude, angle)
// pair, the angle channel holds a signed offset and the magnitude channel
// holds the combined magnitude; the original per-channel values are
// recovered by redistributing magnitude based on the sign of angle's
// position relative to it.
func (m *Mapping) ApplyCoupling(vectors [][]float32) {
	for i := range m.CouplingAngle {
		mag := vectors[m.CouplingMag[i]]
		ang := vectors[m.CouplingAngle[i]]
		for j := range mag {
			mVal, aVal := mag[j], ang[j]
			var newM, newA float32
			if mVal > 0 {
				if aVal > 0 {
					newM, newA = mVal, mVal-aVal
				} else {
					newA, newM = mVal, mVal+aVal
				}
			} else {
				if aVal > 0 {
					newM, newA = mVal, mVal+aVal
				} else {
					newA, newM = mVal, mVal-aVal
				}
			}
			mag[j], ang[j] = newM, newA
		}
	}
}
