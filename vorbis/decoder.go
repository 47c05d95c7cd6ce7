package vorbis

// Option configures a StreamDecoder at construction time.
type Option func(*StreamDecoder)

// WithClippingDisabled turns off the final hard clamp to [-1, 1],
// returning raw (possibly out-of-range) floats instead. Rarely wanted, but
// useful for callers that apply their own limiter downstream.
func WithClippingDisabled() Option {
	return func(d *StreamDecoder) { d.clipDisabled = true }
}

// StreamDecoder decodes one logical Vorbis I stream's audio packets into
// per-channel (not interleaved) float32 PCM (spec §4.10). It knows nothing about how
// packets arrive — callers feed it header and audio packet payloads
// directly, typically sourced from an ogg.PacketReader.
type StreamDecoder struct {
	ident   *IdentHeader
	comment *CommentHeader
	setup   *SetupHeader

	initialized bool
	disposed    bool
	paramChange bool

	ring    *RingBuffer
	clipper Clipper

	clipDisabled bool

	prevTail    [][]float32 // per channel, the pending falling taper held back from the previously decoded block; nil until a block has been decoded
	prevTailLen int         // len(prevTail[ch]) for every channel

	granulePos     int64
	containerGranu int64
}

// NewStreamDecoder creates an uninitialized decoder; call Init with the
// three header packets before decoding audio.
func NewStreamDecoder(opts ...Option) *StreamDecoder {
	d := &StreamDecoder{}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Init parses the identification, comment and setup header packets, in
// that order. Calling Init again on an already-initialized decoder (a
// chained stream with a parameter change) resets all decode state and
// marks IsParameterChange true.
func (d *StreamDecoder) Init(identPacket, commentPacket, setupPacket []byte) error {
	if d.disposed {
		return ErrDisposed
	}

	ident, err := decodeIdentHeader(NewBitReader(identPacket))
	if err != nil {
		return err
	}
	comment, err := decodeCommentHeader(NewBitReader(commentPacket))
	if err != nil {
		return err
	}
	setup, err := decodeSetupHeader(NewBitReader(setupPacket), ident.Channels)
	if err != nil {
		return err
	}

	wasInitialized := d.initialized

	d.ident = ident
	d.comment = comment
	d.setup = setup
	d.ring = NewRingBuffer(ident.Channels)
	d.prevTail = nil
	d.prevTailLen = 0
	d.initialized = true

	if wasInitialized {
		d.paramChange = true
	}
	return nil
}

// Channels returns the stream's channel count.
func (d *StreamDecoder) Channels() int {
	if d.ident == nil {
		return 0
	}
	return d.ident.Channels
}

// SampleRate returns the stream's sample rate.
func (d *StreamDecoder) SampleRate() uint32 {
	if d.ident == nil {
		return 0
	}
	return d.ident.SampleRate
}

// Comment returns the parsed comment header.
func (d *StreamDecoder) Comment() *CommentHeader { return d.comment }

// IsParameterChange reports whether Init has run more than once (a
// chained stream whose audio parameters may have changed).
func (d *StreamDecoder) IsParameterChange() bool { return d.paramChange }

// ClearParameterChange resets the flag IsParameterChange reports, once the
// caller has adapted to the new parameters.
func (d *StreamDecoder) ClearParameterChange() { d.paramChange = false }

// CurrentPosition returns the number of PCM samples (per channel) decoded
// and finalized so far in this logical stream.
func (d *StreamDecoder) CurrentPosition() int64 { return d.granulePos }

// SetContainerGranulePosition records the granule position the container
// reported for the page the most recently decoded packet belongs to. It is
// purely informational bookkeeping supplied by the caller; the decoder
// does not use it to drive CurrentPosition.
func (d *StreamDecoder) SetContainerGranulePosition(g int64) { d.containerGranu = g }

// LastGranulePosition returns the most recently recorded container granule
// position (see SetContainerGranulePosition).
func (d *StreamDecoder) LastGranulePosition() int64 { return d.containerGranu }

// Stats reports this decoder's own counters; ContainerBits and WasteBits
// are left zero here since this package has no framing-layer visibility —
// a caller combining this with an ogg.PacketReader fills those in.
func (d *StreamDecoder) Stats() Stats {
	return Stats{ClipCount: d.clipper.ClippedCount()}
}

// Reset clears all overlap-add and ring-buffer state and sets
// CurrentPosition to granulePos, preparing the decoder to resume decoding
// from a new point in the stream reached by seeking the container. The
// caller is responsible for feeding enough preroll packets afterward to
// re-establish a continuous overlap chain before trusting output samples.
func (d *StreamDecoder) Reset(granulePos int64) {
	if d.ring != nil {
		d.ring.Clear()
	}
	d.prevTail = nil
	d.prevTailLen = 0
	d.granulePos = granulePos
}

// Available returns how many PCM samples (per channel) are ready to read.
func (d *StreamDecoder) Available() int {
	if d.ring == nil {
		return 0
	}
	return d.ring.Available()
}

// ReadSamples copies up to len(dst[c]) samples into each channel's
// destination slice and consumes them, returning the number of samples
// copied (the same for every channel). While IsParameterChange is true,
// sample production is halted (spec §4.10): ReadSamples returns 0
// without consuming anything until the caller calls ClearParameterChange,
// giving it a chance to notice and adapt to the new Channels/SampleRate
// before any post-change audio reaches it.
func (d *StreamDecoder) ReadSamples(dst [][]float32) int {
	if d.ring == nil || len(dst) == 0 || d.paramChange {
		return 0
	}
	n := len(dst[0])
	for ch := range dst {
		got := d.ring.CopyTo(ch, dst[ch])
		if got < n {
			n = got
		}
	}
	d.ring.RemoveItems(n)
	return n
}

// Flush finalizes whatever falling taper is still held back awaiting an
// overlap partner at end of stream and appends it to the ring buffer as-is:
// no further block will ever arrive to combine with it.
func (d *StreamDecoder) Flush() {
	if d.prevTail == nil {
		return
	}
	for ch, tail := range d.prevTail {
		if !d.clipDisabled {
			d.clipper.Clip(tail)
		}
		d.ring.Append(ch, tail)
	}
	d.granulePos += int64(d.prevTailLen)
	d.prevTail = nil
	d.prevTailLen = 0
}

// Dispose releases the decoder's state; further calls other than Dispose
// itself return ErrDisposed.
func (d *StreamDecoder) Dispose() error {
	d.disposed = true
	d.ring = nil
	d.prevTail = nil
	return nil
}

// DecodeAudioPacket decodes one audio packet's payload, running mode
// selection, per-channel floor and residue decode, inverse coupling, the
// inverse MDCT and windowing, then combines the falling taper held back
// from the previous call into this block's own rising taper and appends
// the now-finalized [leftBegin:rightBegin) span to the ring buffer,
// retaining this block's own falling taper for the next call (spec §4.9).
func (d *StreamDecoder) DecodeAudioPacket(data []byte) error {
	if d.disposed {
		return ErrDisposed
	}
	if !d.initialized {
		return ErrNotInitialized
	}

	br := NewBitReader(data)
	channels := d.ident.Channels

	modeNumBits := ilog(uint32(len(d.setup.Modes) - 1))
	modeIdx, err := br.ReadBits(modeNumBits)
	if err != nil {
		return err
	}
	if int(modeIdx) >= len(d.setup.Modes) {
		return ErrBadSetup
	}
	mode := d.setup.Modes[modeIdx]

	n := d.ident.Block0
	if mode.BlockFlag {
		n = d.ident.Block1
	}

	leftBlockSize := d.ident.Block0
	rightBlockSize := d.ident.Block0
	if mode.BlockFlag {
		prevFlag, err := br.ReadBit()
		if err != nil {
			return err
		}
		nextFlag, err := br.ReadBit()
		if err != nil {
			return err
		}
		leftBlockSize = d.ident.Block0
		if prevFlag != 0 {
			leftBlockSize = d.ident.Block1
		}
		rightBlockSize = d.ident.Block0
		if nextFlag != 0 {
			rightBlockSize = d.ident.Block1
		}
	}

	mapping := d.setup.Mappings[mode.Mapping]

	half := n / 2
	vectors := make([][]float32, channels)
	doNotDecode := make([]bool, channels)
	floorCurves := make([][]float32, channels)

	for ch := 0; ch < channels; ch++ {
		submap := 0
		if len(mapping.muxSubmap) > 0 {
			submap = mapping.muxSubmap[ch]
		}
		floorIdx := mapping.submapFloor[submap]
		floor := d.setup.Floors[floorIdx]

		vectors[ch] = make([]float32, half)

		switch floor.Type {
		case 1:
			fd := &Floor1Decoder{floor: floor}
			curve, err := fd.decode(br, d.setup.Codebooks, half)
			if err != nil {
				return err
			}
			floorCurves[ch] = curve
			doNotDecode[ch] = curve == nil
		case 0:
			// Floor type 0 (legacy LPC-derived) is not exercised by any
			// real-world encoder this decoder targets; treat it as an
			// always-present flat floor rather than implementing the LSP
			// synthesis, so streams that declare it still decode audibly.
			curve := make([]float32, half)
			for i := range curve {
				curve[i] = 1
			}
			floorCurves[ch] = curve
			doNotDecode[ch] = false
		default:
			return ErrBadSetup
		}
	}

	// Residue decode is grouped per submap, each covering the channels
	// mapped to it, mirroring how the setup header itself groups floors.
	residueByChannel := make([]int, channels)
	for ch := 0; ch < channels; ch++ {
		submap := 0
		if len(mapping.muxSubmap) > 0 {
			submap = mapping.muxSubmap[ch]
		}
		residueByChannel[ch] = mapping.submapResidue[submap]
	}

	handled := make([]bool, channels)
	for ch := 0; ch < channels; ch++ {
		if handled[ch] {
			continue
		}
		residueIdx := residueByChannel[ch]
		var group []int
		for c2 := ch; c2 < channels; c2++ {
			if residueByChannel[c2] == residueIdx {
				group = append(group, c2)
				handled[c2] = true
			}
		}
		groupVectors := make([][]float32, len(group))
		groupSkip := make([]bool, len(group))
		for i, c2 := range group {
			groupVectors[i] = vectors[c2]
			groupSkip[i] = doNotDecode[c2]
		}
		res := d.setup.Residues[residueIdx]
		if err := res.Decode(br, d.setup.Codebooks, groupVectors, groupSkip); err != nil {
			return err
		}
	}

	mapping.ApplyCoupling(vectors)

	blocks := make([][]float32, channels)
	for ch := 0; ch < channels; ch++ {
		coeffs := vectors[ch]
		curve := floorCurves[ch]
		if curve != nil {
			for i := range coeffs {
				coeffs[i] *= curve[i]
			}
		} else {
			for i := range coeffs {
				coeffs[i] = 0
			}
		}
		block := IMDCT(coeffs, n)
		ApplyWindow(block, n, leftBlockSize, rightBlockSize)
		blocks[ch] = block
	}

	return d.overlapAddEmit(blocks, n, leftBlockSize, rightBlockSize)
}

// overlapAddEmit combines the falling taper held back from the previous
// call into blocks' own rising taper, appends the now-finalized
// [leftBegin:rightBegin) span of each channel to the ring buffer, and
// retains blocks' own falling taper as the new pending tail (spec §4.9).
// leftBegin/leftEnd bound the rising taper, the region where the previous
// block's retained falling taper belongs; rightBegin/rightEnd bound the
// falling taper this block holds back for the next call. leftEnd <=
// n/2 <= rightBegin always holds (window.go), so the flat middle
// [leftEnd:rightBegin) never needs combining with a neighbor.
//
// Split out from DecodeAudioPacket so it can be driven directly with
// synthetic blocks in tests, independent of bitstream parsing.
func (d *StreamDecoder) overlapAddEmit(blocks [][]float32, n, leftBlockSize, rightBlockSize int) error {
	channels := len(blocks)
	leftBegin, leftEnd, rightBegin, rightEnd := windowTaperBounds(n, leftBlockSize, rightBlockSize)

	// The very first block decoded after Init/Reset has no predecessor's
	// falling taper to combine into its rising taper, so that rising taper
	// is an incomplete reconstruction on its own: it primes the overlap
	// chain but emits nothing (spec §4.9's "first packet sets up overlap
	// only").
	priming := d.prevTail == nil

	if !priming {
		combineLen := d.prevTailLen
		if max := leftEnd - leftBegin; combineLen > max {
			// Neighbor block sizes disagreed between the packet that
			// produced this tail and the one declaring leftBlockSize here;
			// combine only what fits rather than running off the block.
			combineLen = max
		}
		for ch := 0; ch < channels; ch++ {
			tail := d.prevTail[ch]
			for i := 0; i < combineLen; i++ {
				blocks[ch][leftBegin+i] += tail[i]
			}
		}
	}

	newTail := make([][]float32, channels)
	for ch := 0; ch < channels; ch++ {
		if !priming {
			finalized := blocks[ch][leftBegin:rightBegin]
			if !d.clipDisabled {
				d.clipper.Clip(finalized)
			}
			d.ring.Append(ch, finalized)
		}
		newTail[ch] = blocks[ch][rightBegin:rightEnd]
	}
	if !priming {
		d.granulePos += int64(rightBegin - leftBegin)
	}

	d.prevTail = newTail
	d.prevTailLen = rightEnd - rightBegin
	return nil
}
