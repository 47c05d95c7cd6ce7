package vorbis

// RingBuffer holds float32 PCM output per channel (not interleaved), accumulated
// across overlap-add steps and drained as the caller consumes decoded
// audio (spec §4.9). Each channel has its own backing slice and is kept in
// lockstep: every write advances all channels by the same amount.
type RingBuffer struct {
	channels int
	data     [][]float32 // per channel, logically infinite, physically a growable slice with a read cursor
	read     int
}

// NewRingBuffer creates an empty ring buffer for the given channel count.
func NewRingBuffer(channels int) *RingBuffer {
	return &RingBuffer{
		channels: channels,
		data:     make([][]float32, channels),
	}
}

// Available returns the number of unread samples (per channel).
func (rb *RingBuffer) Available() int {
	if len(rb.data) == 0 {
		return 0
	}
	return len(rb.data[0]) - rb.read
}

// Append adds block to the unread tail of channel. The decoder is
// responsible for having already overlap-added block against whatever
// samples preceded it — by the time samples reach the ring buffer they are
// finished, final PCM.
func (rb *RingBuffer) Append(channel int, block []float32) {
	rb.data[channel] = append(rb.data[channel], block...)
}

// CopyTo copies up to len(dst) unread samples of channel into dst without
// consuming them, returning the number copied.
func (rb *RingBuffer) CopyTo(channel int, dst []float32) int {
	ch := rb.data[channel][rb.read:]
	n := copy(dst, ch)
	return n
}

// RemoveItems discards n samples (per channel) from the front of the
// buffer, compacting storage once a channel's consumed prefix grows large.
func (rb *RingBuffer) RemoveItems(n int) {
	if n <= 0 {
		return
	}
	if n > rb.Available() {
		n = rb.Available()
	}
	rb.read += n
	if rb.read > 0 && rb.read*2 > rb.cap() {
		for c := range rb.data {
			rb.data[c] = append([]float32(nil), rb.data[c][rb.read:]...)
		}
		rb.read = 0
	}
}

func (rb *RingBuffer) cap() int {
	if len(rb.data) == 0 {
		return 0
	}
	return len(rb.data[0])
}

// Clear drops all buffered samples (used on seek and on parameter change).
func (rb *RingBuffer) Clear() {
	for c := range rb.data {
		rb.data[c] = rb.data[c][:0]
	}
	rb.read = 0
}
