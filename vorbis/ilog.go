package vorbis

// ilog returns the position of the highest set bit in x, plus one — the
// number of bits required to represent x (the Vorbis spec's ilog(): 0 maps
// to 0, and ilog(n) for n>0 is 1+floor(log2(n))).
func ilog(x uint32) int {
	n := 0
	for x > 0 {
		n++
		x >>= 1
	}
	return n
}
