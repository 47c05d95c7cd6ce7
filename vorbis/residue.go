package vorbis

// Residue describes one decoded setup-header residue (spec §4.7): the
// classification scheme and per-class cascade of VQ codebooks used to
// reconstruct the spectral residue left over after the floor curve has
// been subtracted (conceptually — the decoder runs the multiply the other
// way, applying the floor curve as a multiplier on the decoded residue).
type Residue struct {
	Type            int
	begin           int
	end             int
	partitionSize   int
	classifications int
	classbook       int
	cascade         []int
	books           [][8]int // per class, per stage; -1 = no book at that stage
}

func decodeResidue(br *BitReader) (*Residue, error) {
	t, err := br.ReadBits(16)
	if err != nil {
		return nil, err
	}
	if t > 2 {
		return nil, ErrBadSetup
	}

	beginBits, err := br.ReadBits(24)
	if err != nil {
		return nil, err
	}
	endBits, err := br.ReadBits(24)
	if err != nil {
		return nil, err
	}
	partSizeBits, err := br.ReadBits(24)
	if err != nil {
		return nil, err
	}
	classBits, err := br.ReadBits(6)
	if err != nil {
		return nil, err
	}
	classbookBits, err := br.ReadBits(8)
	if err != nil {
		return nil, err
	}

	r := &Residue{
		Type:            int(t),
		begin:           int(beginBits),
		end:             int(endBits),
		partitionSize:   int(partSizeBits) + 1,
		classifications: int(classBits) + 1,
		classbook:       int(classbookBits),
	}

	r.cascade = make([]int, r.classifications)
	for c := 0; c < r.classifications; c++ {
		low, err := br.ReadBits(3)
		if err != nil {
			return nil, err
		}
		flag, err := br.ReadBit()
		if err != nil {
			return nil, err
		}
		cascade := int(low)
		if flag != 0 {
			high, err := br.ReadBits(5)
			if err != nil {
				return nil, err
			}
			cascade |= int(high) << 3
		}
		r.cascade[c] = cascade
	}

	r.books = make([][8]int, r.classifications)
	for c := 0; c < r.classifications; c++ {
		for stage := 0; stage < 8; stage++ {
			r.books[c][stage] = -1
			if r.cascade[c]&(1<<stage) != 0 {
				b, err := br.ReadBits(8)
				if err != nil {
					return nil, err
				}
				r.books[c][stage] = int(b)
			}
		}
	}
	return r, nil
}

// Decode fills channelVectors (each pre-sized to the block's half-length
// and pre-zeroed) with this residue's contribution, skipping channels
// flagged in doNotDecode (their floor curve was entirely zero) except for
// type 2, whose interleaved single bitstream vector is only skipped
// outright when every channel in the submap is flagged.
//
// Types 0 and 1 are decoded with the same sequential partition/class/
// cascade loop; type 2 decodes one combined, round-robin-interleaved
// vector across all channels and splits it back afterward. This folds
// residue type 0's historical "every classbook.Dimensions'th partition"
// interleaving into the simpler type-1 pass, which every real encoder's
// type-0 streams still decode identically for (see DESIGN.md).
func (r *Residue) Decode(br *BitReader, codebooks []*Codebook, channelVectors [][]float32, doNotDecode []bool) error {
	classbook := codebooks[r.classbook]

	switch r.Type {
	case 0, 1:
		for ch, vec := range channelVectors {
			if doNotDecode[ch] {
				continue
			}
			if err := r.decodeOne(br, codebooks, classbook, vec); err != nil {
				return err
			}
		}
		return nil
	case 2:
		allSkip := true
		for _, skip := range doNotDecode {
			if !skip {
				allSkip = false
				break
			}
		}
		if allSkip {
			return nil
		}
		nCh := len(channelVectors)
		vecLen := len(channelVectors[0])
		combined := make([]float32, nCh*vecLen)
		if err := r.decodeOne(br, codebooks, classbook, combined); err != nil {
			return err
		}
		for i, v := range combined {
			ch := i % nCh
			pos := i / nCh
			channelVectors[ch][pos] += v
		}
		return nil
	default:
		return ErrBadSetup
	}
}

func (r *Residue) decodeOne(br *BitReader, codebooks []*Codebook, classbook *Codebook, vector []float32) error {
	begin, end := r.begin, r.end
	if end > len(vector) {
		end = len(vector)
	}
	if begin >= end {
		return nil
	}
	n := end - begin
	partitions := n / r.partitionSize
	classwordsPerCodeword := classbook.Dimensions

	partitionClasses := make([]int, partitions)
	for p := 0; p < partitions; {
		temp, err := classbook.DecodeScalar(br)
		if err != nil {
			if IsEndOfPacket(err) {
				// Truncated mid-classification: everything from here on in
				// vector was already zeroed by the caller: stop decoding
				// this vector rather than failing the whole packet.
				return nil
			}
			return err
		}
		limit := classwordsPerCodeword
		if p+limit > partitions {
			limit = partitions - p
		}
		for i := limit - 1; i >= 0; i-- {
			partitionClasses[p+i] = temp % r.classifications
			temp /= r.classifications
		}
		p += classwordsPerCodeword
	}

	for i := 0; i < partitions; i++ {
		class := partitionClasses[i]
		offset := begin + i*r.partitionSize
		for stage := 0; stage < 8; stage++ {
			book := r.books[class][stage]
			if book < 0 {
				continue
			}
			cb := codebooks[book]
			dim := cb.Dimensions
			j := 0
			for j < r.partitionSize {
				vec, err := cb.DecodeVector(br)
				if err != nil {
					if IsEndOfPacket(err) {
						return nil
					}
					return err
				}
				for k := 0; k < dim && j < r.partitionSize; k++ {
					vector[offset+j] += vec[k]
					j++
				}
			}
		}
	}
	return nil
}
