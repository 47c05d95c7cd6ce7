package ogg

import (
	"bytes"
	"io"
)

// PacketReader reassembles packets for one logical stream (serial) out of
// the fragments the PageReader dispatches to it, and provides the
// get_next_packet / seek_to / peek_next_packet / release_through operations
// of spec §4.4.
type PacketReader struct {
	pr     *PageReader
	serial int32

	head, tail *Packet // doubly linked retained list, oldest to newest
	unread     *Packet // next packet not yet handed out by GetNextPacket

	pending *Packet // dangling fragment awaiting a continuation

	lastReleased *Packet // frontier released through ReleaseThrough

	eos           bool
	containerBits uint64

	seekIndex []seekSample
}

type seekSample struct {
	pageOffset uint64
	granule    int64
}

func newPacketReader(pr *PageReader, serial int32) *PacketReader {
	return &PacketReader{pr: pr, serial: serial}
}

// Serial returns the stream serial number this reader demultiplexes.
func (s *PacketReader) Serial() int32 { return s.serial }

// ContainerBits returns the cumulative framing overhead, in bits, of pages
// dispatched to this stream so far.
func (s *PacketReader) ContainerBits() uint64 { return s.containerBits }

// EndOfStream reports whether this stream has delivered its final packet.
func (s *PacketReader) EndOfStream() bool { return s.eos && s.unread == nil }

func (s *PacketReader) appendFragment(head, frag *Packet) {
	last := head
	for last.mergedTail != nil {
		last = last.mergedTail
	}
	last.mergedTail = frag
}

// enqueue appends a completed packet to the retained list and, if nothing
// is waiting to be read yet, makes it the next packet GetNextPacket hands
// out.
func (s *PacketReader) enqueue(p *Packet) {
	p.prev = s.tail
	if s.tail != nil {
		s.tail.next = p
	}
	s.tail = p
	if s.head == nil {
		s.head = p
	}
	if s.unread == nil {
		s.unread = p
	}
	s.seekIndex = append(s.seekIndex, seekSample{
		pageOffset: p.StreamOffset,
		granule:    p.GranulePosition(),
	})
}

func (s *PacketReader) addContainerBits(bits uint64) { s.containerBits += bits }

// GetNextPacket returns the next unread packet, pumping the page reader for
// more pages until one is available or end-of-stream is reached (spec
// §4.4, §5 "the only operation that may do unbounded work").
func (s *PacketReader) GetNextPacket() (*Packet, error) {
	for s.unread == nil {
		if s.eos {
			return nil, io.EOF
		}
		if err := s.pr.GatherNextPage(); err != nil {
			if err == io.EOF {
				s.eos = true
				return nil, io.EOF
			}
			// Framing errors (bad CRC, truncated page) are absorbed by
			// GatherNextPage/findNextPage via resync; anything surfacing
			// here beyond that (e.g. the hard resync-scan limit) is
			// treated as end of stream for this reader, per spec §9's
			// "stop when no more pages arrive" policy.
			s.eos = true
			return nil, io.EOF
		}
	}
	p := s.unread
	s.unread = p.next
	return p, nil
}

// PeekNextPacket returns the next unread packet without consuming it.
func (s *PacketReader) PeekNextPacket() (*Packet, error) {
	for s.unread == nil {
		if s.eos {
			return nil, io.EOF
		}
		if err := s.pr.GatherNextPage(); err != nil {
			s.eos = true
			return nil, io.EOF
		}
	}
	return s.unread, nil
}

// ReleaseThrough permits the buffered reader to discard bytes up to and
// including packet p's byte range, and prunes the retained list down to
// one packet before p (enough to service a one-packet backward seek).
func (s *PacketReader) ReleaseThrough(p *Packet) {
	last := p
	for last.mergedTail != nil {
		last = last.mergedTail
	}
	through := last.StreamOffset + uint64(last.Length)
	s.pr.buf.DiscardThrough(int64(through))

	// Keep one packet of history before p.
	keepFrom := p.prev
	for n := s.head; n != nil && n != keepFrom; {
		nxt := n.next
		n.prev, n.next = nil, nil
		n = nxt
	}
	if keepFrom != nil {
		s.head = keepFrom
	} else {
		s.head = p
	}
	s.lastReleased = p
}

// SeekTo seeks this stream to the latest packet whose page granule is ≤
// target, then steps back preroll packets, per spec §4.4. Requires a
// seekable byte source. Preroll steps back no further than the first
// packet of the page the search lands on.
func (s *PacketReader) SeekTo(target int64, preroll int) error {
	if !s.pr.buf.CanSeek() {
		return ErrNotSeekable
	}

	length, err := s.pr.buf.Length()
	if err != nil {
		return err
	}

	offset, err := s.bisectPageOffset(0, uint64(length), target)
	if err != nil {
		return err
	}

	// Reset this stream's state and the page reader's scan cursor to the
	// found page, then decode forward collecting packets up to the last
	// one whose granule is ≤ target, so preroll can step back from there.
	s.head, s.tail, s.unread, s.pending = nil, nil, nil, nil
	s.eos = false
	s.pr.nextPageOffset = offset
	if err := s.pr.buf.Seek(int64(offset)); err != nil {
		return err
	}

	var collected []*Packet
	for {
		pkt, err := s.GetNextPacket()
		if err != nil {
			break
		}
		if pkt.GranulePosition() > target && len(collected) > 0 {
			break
		}
		collected = append(collected, pkt)
		if pkt.GranulePosition() >= target {
			break
		}
	}
	if len(collected) == 0 {
		return ErrOutOfRange
	}

	idx := len(collected) - 1
	idx -= preroll
	if idx < 0 {
		idx = 0
	}
	s.unread = collected[idx]
	return nil
}

// bisectPageOffset binary-searches the byte range [lo, hi) for the latest
// page belonging to this serial whose granule position is ≤ target,
// without dispatching any packets — it only reads page headers.
func (s *PacketReader) bisectPageOffset(lo, hi uint64, target int64) (uint64, error) {
	best := lo
	foundAny := false

	for lo < hi {
		mid := lo + (hi-lo)/2
		off, gran, serial, err := s.probeNextPage(mid, hi)
		if err != nil {
			hi = mid
			continue
		}
		if serial != s.serial {
			// Advance past a foreign page and keep narrowing toward our
			// own serial's pages.
			nlo := off + 1
			if nlo >= hi {
				hi = mid
				continue
			}
			lo = nlo
			continue
		}
		if gran <= target {
			best = off
			foundAny = true
			lo = off + 1
		} else {
			hi = mid
		}
	}
	if !foundAny {
		return 0, ErrOutOfRange
	}
	return best, nil
}

// probeNextPage scans forward from pos (bounded by limit) for the next
// parsable page and returns its offset, granule and serial without
// touching any PacketReader state.
func (s *PacketReader) probeNextPage(pos, limit uint64) (offset uint64, granule int64, serial int32, err error) {
	chunk := make([]byte, maxPageSize)
	for pos < limit {
		n, rerr := s.pr.buf.Read(int64(pos), chunk)
		if n < 4 {
			return 0, 0, 0, io.EOF
		}
		idx := bytes.Index(chunk[:n], []byte(syncPattern))
		if idx < 0 {
			pos += uint64(n)
			if rerr != nil {
				return 0, 0, 0, io.EOF
			}
			continue
		}
		page, _, perr := parsePage(chunk[idx:n], pos+uint64(idx))
		if perr != nil {
			pos += uint64(idx) + 1
			continue
		}
		return pos + uint64(idx), page.GranulePos, page.StreamSerial, nil
	}
	return 0, 0, 0, io.EOF
}
