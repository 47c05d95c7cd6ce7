package vorbis

// Codebook decode has no direct analogue in the teacher (Opus entropy-codes
// with a range coder, not Huffman+VQ tables), so the tree-building and VQ
// expansion here are built fresh directly from the Vorbis I codec's
// codebook algorithm (spec §4.6). The struct-of-fields shape, sentinel
// errors and scalar accessor-method style still follow the rest of this
// module.

const codebookSyncPattern = 0x564342 // "BCV", read LSB-first as 24 bits

// codebookNode is one node of the bit-by-bit Huffman decode trie. A leaf
// has entry >= 0; an internal node has children indices >= 0 into the
// trie's node slice, or -1 where a child is absent (a codeword of that
// length-and-prefix is never used).
type codebookNode struct {
	entry    int
	children [2]int
}

// Codebook is one fully decoded Vorbis setup-header codebook: its Huffman
// decode trie plus, for lookup types 1 and 2, the per-entry VQ vectors.
type Codebook struct {
	Dimensions int
	Entries    int

	codewordLengths []int // per entry; 0 means unused
	trie            []codebookNode

	LookupType int
	valueTable []float32 // Entries*Dimensions, only for LookupType 1/2
}

// DecodeCodebook reads one codebook definition from the setup header
// (spec §4.6).
func DecodeCodebook(br *BitReader) (*Codebook, error) {
	sync, err := br.ReadBits(24)
	if err != nil {
		return nil, err
	}
	if uint32(sync) != codebookSyncPattern {
		return nil, ErrBadCodebook
	}

	dimBits, err := br.ReadBits(16)
	if err != nil {
		return nil, err
	}
	entryBits, err := br.ReadBits(24)
	if err != nil {
		return nil, err
	}
	cb := &Codebook{
		Dimensions: int(dimBits),
		Entries:    int(entryBits),
	}
	if cb.Dimensions <= 0 || cb.Entries <= 0 {
		return nil, ErrBadCodebook
	}

	lengths, err := readCodewordLengths(br, cb.Entries)
	if err != nil {
		return nil, err
	}
	cb.codewordLengths = lengths

	trie, err := buildDecodeTrie(lengths)
	if err != nil {
		return nil, err
	}
	cb.trie = trie

	lookupTypeBits, err := br.ReadBits(4)
	if err != nil {
		return nil, err
	}
	cb.LookupType = int(lookupTypeBits)
	if cb.LookupType > 2 {
		return nil, ErrBadCodebook
	}
	if cb.LookupType != 0 {
		if err := cb.readLookupTable(br); err != nil {
			return nil, err
		}
	}
	return cb, nil
}

func readCodewordLengths(br *BitReader, entries int) ([]int, error) {
	ordered, err := br.ReadBit()
	if err != nil {
		return nil, err
	}
	lengths := make([]int, entries)

	if ordered == 0 {
		sparse, err := br.ReadBit()
		if err != nil {
			return nil, err
		}
		for i := 0; i < entries; i++ {
			if sparse != 0 {
				flag, err := br.ReadBit()
				if err != nil {
					return nil, err
				}
				if flag == 0 {
					lengths[i] = 0
					continue
				}
			}
			l, err := br.ReadBits(5)
			if err != nil {
				return nil, err
			}
			lengths[i] = int(l) + 1
		}
		return lengths, nil
	}

	currentEntry := 0
	lBits, err := br.ReadBits(5)
	if err != nil {
		return nil, err
	}
	currentLength := int(lBits) + 1
	for currentEntry < entries {
		remaining := entries - currentEntry
		numBits := ilog(uint32(remaining))
		n, err := br.ReadBits(numBits)
		if err != nil {
			return nil, err
		}
		count := int(n)
		if count < 0 || currentEntry+count > entries {
			return nil, ErrBadCodebook
		}
		for i := 0; i < count; i++ {
			lengths[currentEntry+i] = currentLength
		}
		currentEntry += count
		currentLength++
		if currentLength > 32 && currentEntry < entries {
			return nil, ErrBadCodebook
		}
	}
	return lengths, nil
}

// buildDecodeTrie assigns canonical Huffman codewords to the entries with
// nonzero length (lowest unused code at each length, in entry order) and
// inserts them into a bit trie for one-bit-at-a-time decode.
func buildDecodeTrie(lengths []int) ([]codebookNode, error) {
	maxLen := 0
	counts := map[int]int{}
	for _, l := range lengths {
		if l > maxLen {
			maxLen = l
		}
		if l > 0 {
			counts[l]++
		}
	}
	if maxLen == 0 {
		return nil, ErrBadCodebook
	}

	nextCode := make([]uint32, maxLen+1)
	code := uint32(0)
	for l := 1; l <= maxLen; l++ {
		code = (code + uint32(counts[l-1])) << 1
		nextCode[l] = code
	}

	trie := []codebookNode{{entry: -1, children: [2]int{-1, -1}}}

	for entry, l := range lengths {
		if l == 0 {
			continue
		}
		cw := nextCode[l]
		nextCode[l]++

		node := 0
		for bit := l - 1; bit >= 0; bit-- {
			b := int((cw >> uint(bit)) & 1)
			next := trie[node].children[b]
			if next < 0 {
				trie = append(trie, codebookNode{entry: -1, children: [2]int{-1, -1}})
				next = len(trie) - 1
				trie[node].children[b] = next
			}
			node = next
		}
		if trie[node].entry != -1 || trie[node].children[0] != -1 || trie[node].children[1] != -1 {
			return nil, ErrBadCodebook
		}
		trie[node].entry = entry
	}
	return trie, nil
}

// DecodeScalar reads one Huffman-coded entry index.
func (cb *Codebook) DecodeScalar(br *BitReader) (int, error) {
	node := 0
	for {
		n := cb.trie[node]
		if n.entry >= 0 {
			return n.entry, nil
		}
		bit, err := br.ReadBit()
		if err != nil {
			return 0, err
		}
		next := n.children[bit]
		if next < 0 {
			return 0, ErrBadCodebook
		}
		node = next
	}
}

// DecodeVector reads one Huffman-coded entry and returns its VQ vector
// (Dimensions values). Only valid for LookupType 1 or 2.
func (cb *Codebook) DecodeVector(br *BitReader) ([]float32, error) {
	if cb.LookupType == 0 {
		return nil, ErrBadCodebook
	}
	entry, err := cb.DecodeScalar(br)
	if err != nil {
		return nil, err
	}
	start := entry * cb.Dimensions
	return cb.valueTable[start : start+cb.Dimensions], nil
}

func (cb *Codebook) readLookupTable(br *BitReader) error {
	minValue, err := br.ReadVorbisFloat32()
	if err != nil {
		return err
	}
	deltaValue, err := br.ReadVorbisFloat32()
	if err != nil {
		return err
	}
	valueBitsField, err := br.ReadBits(4)
	if err != nil {
		return err
	}
	valueBits := int(valueBitsField) + 1
	sequenceP, err := br.ReadBit()
	if err != nil {
		return err
	}

	var quantVals int
	if cb.LookupType == 1 {
		quantVals = lookup1Values(cb.Entries, cb.Dimensions)
	} else {
		quantVals = cb.Entries * cb.Dimensions
	}

	multiplicands := make([]int, quantVals)
	for i := range multiplicands {
		v, err := br.ReadBits(valueBits)
		if err != nil {
			return err
		}
		multiplicands[i] = int(v)
	}

	cb.valueTable = make([]float32, cb.Entries*cb.Dimensions)
	for entry := 0; entry < cb.Entries; entry++ {
		last := float32(0)
		indexDivisor := 1
		for d := 0; d < cb.Dimensions; d++ {
			var mIdx int
			if cb.LookupType == 1 {
				mIdx = (entry / indexDivisor) % quantVals
				indexDivisor *= quantVals
			} else {
				mIdx = entry*cb.Dimensions + d
			}
			val := float32(multiplicands[mIdx])*deltaValue + minValue + last
			if sequenceP != 0 {
				last = val
			}
			cb.valueTable[entry*cb.Dimensions+d] = val
		}
	}
	return nil
}

// lookup1Values returns the largest integer v such that v^dim <= entries
// (spec §4.6, used to size the shared multiplicand table for lookup type 1).
func lookup1Values(entries, dim int) int {
	v := 1
	for {
		p := 1
		overflow := false
		for i := 0; i < dim; i++ {
			p *= v + 1
			if p > entries {
				overflow = true
				break
			}
		}
		if overflow {
			return v
		}
		v++
	}
}
