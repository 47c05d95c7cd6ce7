package vorbis

import "math"

// floor1Ranges maps a floor1 multiplier (1-4) to the number of distinct Y
// amplitudes addressable at that multiplier (spec §4.7).
var floor1Ranges = [4]int{256, 128, 64, 32}

// Floor describes one decoded setup-header floor curve generator, either
// type 0 (LPC-derived, legacy) or type 1 (the piecewise-linear curve used
// by virtually all real Vorbis content).
type Floor struct {
	Type int

	// Type 0 fields.
	order           int
	rate            uint32
	barkMapSize     uint32
	amplitudeBits   int
	amplitudeOffset int
	books0          []int

	// Type 1 fields.
	partitionClass  []int
	classDimensions []int
	classSubclasses []int
	classMasterbook []int
	subclassBooks   [][]int
	multiplier      int
	rangeBits       int
	xList           []int
	sortedIdx       []int
}

func decodeFloor(br *BitReader) (*Floor, error) {
	t, err := br.ReadBits(16)
	if err != nil {
		return nil, err
	}
	switch t {
	case 0:
		return decodeFloor0(br)
	case 1:
		return decodeFloor1(br)
	default:
		return nil, ErrBadSetup
	}
}

func decodeFloor0(br *BitReader) (*Floor, error) {
	orderBits, err := br.ReadBits(8)
	if err != nil {
		return nil, err
	}
	rate, err := br.ReadU32()
	if err != nil {
		return nil, err
	}
	barkMapSize, err := br.ReadU32()
	if err != nil {
		return nil, err
	}
	ampBits, err := br.ReadBits(6)
	if err != nil {
		return nil, err
	}
	ampOffsetBits, err := br.ReadBits(8)
	if err != nil {
		return nil, err
	}
	nBooksBits, err := br.ReadBits(4)
	if err != nil {
		return nil, err
	}
	nBooks := int(nBooksBits) + 1
	books := make([]int, nBooks)
	for i := range books {
		b, err := br.ReadBits(8)
		if err != nil {
			return nil, err
		}
		books[i] = int(b)
	}
	return &Floor{
		Type:            0,
		order:           int(orderBits),
		rate:            rate,
		barkMapSize:     barkMapSize,
		amplitudeBits:   int(ampBits),
		amplitudeOffset: int(ampOffsetBits),
		books0:          books,
	}, nil
}

func decodeFloor1(br *BitReader) (*Floor, error) {
	partitionsBits, err := br.ReadBits(5)
	if err != nil {
		return nil, err
	}
	partitions := int(partitionsBits)

	f := &Floor{Type: 1}
	f.partitionClass = make([]int, partitions)
	maxClass := -1
	for i := 0; i < partitions; i++ {
		c, err := br.ReadBits(4)
		if err != nil {
			return nil, err
		}
		f.partitionClass[i] = int(c)
		if int(c) > maxClass {
			maxClass = int(c)
		}
	}

	nClasses := maxClass + 1
	f.classDimensions = make([]int, nClasses)
	f.classSubclasses = make([]int, nClasses)
	f.classMasterbook = make([]int, nClasses)
	f.subclassBooks = make([][]int, nClasses)

	for c := 0; c < nClasses; c++ {
		dimBits, err := br.ReadBits(3)
		if err != nil {
			return nil, err
		}
		f.classDimensions[c] = int(dimBits) + 1

		subBits, err := br.ReadBits(2)
		if err != nil {
			return nil, err
		}
		f.classSubclasses[c] = int(subBits)

		f.classMasterbook[c] = -1
		if subBits != 0 {
			mb, err := br.ReadBits(8)
			if err != nil {
				return nil, err
			}
			f.classMasterbook[c] = int(mb)
		}

		n := 1 << subBits
		f.subclassBooks[c] = make([]int, n)
		for j := 0; j < n; j++ {
			b, err := br.ReadBits(8)
			if err != nil {
				return nil, err
			}
			f.subclassBooks[c][j] = int(b) - 1
		}
	}

	multBits, err := br.ReadBits(2)
	if err != nil {
		return nil, err
	}
	f.multiplier = int(multBits) + 1

	rangeBits, err := br.ReadBits(4)
	if err != nil {
		return nil, err
	}
	f.rangeBits = int(rangeBits)

	f.xList = []int{0, 1 << f.rangeBits}
	for i := 0; i < partitions; i++ {
		class := f.partitionClass[i]
		for j := 0; j < f.classDimensions[class]-1; j++ {
			v, err := br.ReadBits(f.rangeBits)
			if err != nil {
				return nil, err
			}
			f.xList = append(f.xList, int(v))
		}
	}

	f.sortedIdx = argsortInts(f.xList)
	return f, nil
}

// decode decodes one channel's floor1 curve for the current
// audio packet, returning the synthesized per-spectral-line amplitude
// multiplier curve of length n (half the current block size), or nil if
// the channel's floor was flagged entirely zero.
func (f *Floor1Decoder) decode(br *BitReader, codebooks []*Codebook, n int) ([]float32, error) {
	floor := f.floor
	nonzero, err := br.ReadBit()
	if err != nil {
		if IsEndOfPacket(err) {
			return nil, nil
		}
		return nil, err
	}
	if nonzero == 0 {
		return nil, nil
	}

	rangeN := floor1Ranges[floor.multiplier-1]
	bits := ilog(uint32(rangeN - 1))

	// A packet truncated partway through this curve stops filling y here
	// and synthesizes from whatever was decoded so far, per the same
	// zero-fill-the-remainder rule residue decode follows: y's unfilled
	// entries stay at their zero default rather than failing the packet.
	y := make([]int, len(floor.xList))
	v0, err := br.ReadBits(bits)
	if err != nil && !IsEndOfPacket(err) {
		return nil, err
	}
	y[0] = int(v0)
	if IsEndOfPacket(err) {
		finalY, step2 := unwrapFloor1(floor, y, rangeN)
		return synthesizeFloor1Curve(floor, finalY, step2, n), nil
	}
	v1, err := br.ReadBits(bits)
	if err != nil && !IsEndOfPacket(err) {
		return nil, err
	}
	y[1] = int(v1)
	if IsEndOfPacket(err) {
		finalY, step2 := unwrapFloor1(floor, y, rangeN)
		return synthesizeFloor1Curve(floor, finalY, step2, n), nil
	}

	offset := 2
partitionLoop:
	for _, class := range floor.partitionClass {
		dim := floor.classDimensions[class]
		book := -1
		subBits := floor.classSubclasses[class]
		if subBits != 0 {
			master := floor.classMasterbook[class]
			idx, err := codebooks[master].DecodeScalar(br)
			if err != nil {
				if IsEndOfPacket(err) {
					break partitionLoop
				}
				return nil, err
			}
			book = floor.subclassBooks[class][idx]
		} else {
			book = floor.subclassBooks[class][0]
		}
		for j := 0; j < dim-1; j++ {
			val := 0
			if book >= 0 {
				v, err := codebooks[book].DecodeScalar(br)
				if err != nil {
					if IsEndOfPacket(err) {
						break partitionLoop
					}
					return nil, err
				}
				val = v
			}
			y[offset] = val
			offset++
		}
	}

	finalY, step2 := unwrapFloor1(floor, y, rangeN)
	return synthesizeFloor1Curve(floor, finalY, step2, n), nil
}

// Floor1Decoder binds a *Floor (type 1) to the decode method above; kept
// distinct from Floor itself so a type-0 floor never exposes a decode
// method whose semantics do not apply to it.
type Floor1Decoder struct {
	floor *Floor
}

func unwrapFloor1(f *Floor, y []int, rangeN int) (finalY []int, step2 []bool) {
	n := len(f.xList)
	finalY = make([]int, n)
	step2 = make([]bool, n)

	finalY[f.sortedIdx[0]] = y[f.sortedIdx[0]]
	finalY[f.sortedIdx[1]] = y[f.sortedIdx[1]]
	step2[f.sortedIdx[0]] = true
	step2[f.sortedIdx[1]] = true

	for i := 2; i < n; i++ {
		idx := i
		lowIdx, highIdx := -1, -1
		lowX, highX := -1, 1<<30
		for j := 0; j < n; j++ {
			if !step2[j] {
				continue
			}
			x := f.xList[j]
			if x <= f.xList[idx] && x > lowX {
				lowX, lowIdx = x, j
			}
			if x >= f.xList[idx] && x < highX {
				highX, highIdx = x, j
			}
		}
		if lowIdx < 0 {
			lowIdx = f.sortedIdx[0]
		}
		if highIdx < 0 {
			highIdx = f.sortedIdx[1]
		}

		predicted := renderPointY(f.xList[lowIdx], finalY[lowIdx], f.xList[highIdx], finalY[highIdx], f.xList[idx])

		val := y[idx]
		highRoom := rangeN - predicted
		lowRoom := predicted
		room := 2 * lowRoom
		if highRoom < lowRoom {
			room = 2 * highRoom
		}

		if val != 0 {
			step2[idx] = true
			if val >= room {
				if highRoom > lowRoom {
					finalY[idx] = val - lowRoom + predicted
				} else {
					finalY[idx] = predicted - val + highRoom - 1
				}
			} else if val%2 == 1 {
				finalY[idx] = predicted - (val+1)/2
			} else {
				finalY[idx] = predicted + val/2
			}
		} else {
			step2[idx] = false
			finalY[idx] = predicted
		}
	}
	return finalY, step2
}

// renderPointY linearly interpolates the Y value at x between two known
// points, per the floor1 predicted-amplitude rule.
func renderPointY(x0, y0, x1, y1, x int) int {
	if x1 == x0 {
		return y0
	}
	dy := y1 - y0
	dx := x1 - x0
	adx := x - x0
	return y0 + dy*adx/dx
}

// synthesizeFloor1Curve draws the piecewise-linear floor curve through the
// finalized (x, finalY) points in ascending X order and converts each
// integer amplitude step to a linear multiplier.
func synthesizeFloor1Curve(f *Floor, finalY []int, step2 []bool, n int) []float32 {
	curve := make([]float32, n)

	pts := make([][2]int, 0, len(f.sortedIdx))
	for _, idx := range f.sortedIdx {
		pts = append(pts, [2]int{f.xList[idx], finalY[idx]})
	}

	for i := 0; i < len(pts)-1; i++ {
		x0, y0 := pts[i][0], pts[i][1]
		x1, y1 := pts[i+1][0], pts[i+1][1]
		if x0 >= n {
			break
		}
		end := x1
		if end > n {
			end = n
		}
		for x := x0; x < end; x++ {
			y := renderPointY(x0, y0, x1, y1, x)
			curve[x] = floor1AmplitudeToLinear(y)
		}
	}
	return curve
}

// floor1AmplitudeToLinear converts a quantized floor1 amplitude step to a
// linear multiplier, approximating the Vorbis dB lookup table with a
// closed-form dB-to-linear conversion rather than reproducing its 256
// literal entries (see DESIGN.md).
func floor1AmplitudeToLinear(y int) float32 {
	db := float64(y)*0.0625 - 20
	return float32(math.Pow(10, db/20))
}

func argsortInts(xs []int) []int {
	idx := make([]int, len(xs))
	for i := range idx {
		idx[i] = i
	}
	for i := 1; i < len(idx); i++ {
		for j := i; j > 0 && xs[idx[j-1]] > xs[idx[j]]; j-- {
			idx[j-1], idx[j] = idx[j], idx[j-1]
		}
	}
	return idx
}
