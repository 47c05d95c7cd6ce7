package vorbis

// Clipper clamps decoded PCM samples to [-1, 1] and sticky-flags whenever a
// sample actually needed clamping. Unlike the libopus soft-clip this might
// otherwise have been grounded on — a decay-memory nonlinearity meant to
// make clipping inaudible on encode — the decoder side only needs the
// plain hard clamp plus a flag a caller can surface as Stats.ClipCount;
// there is no perceptual shaping to preserve on decode.
type Clipper struct {
	clipped uint64
}

// Clip clamps samples in place and returns how many of them were out of
// range.
func (c *Clipper) Clip(samples []float32) int {
	n := 0
	for i, v := range samples {
		switch {
		case v > 1:
			samples[i] = 1
			n++
		case v < -1:
			samples[i] = -1
			n++
		}
	}
	c.clipped += uint64(n)
	return n
}

// ClippedCount returns the cumulative number of samples clamped so far.
func (c *Clipper) ClippedCount() uint64 { return c.clipped }
