package ogg

import (
	"bytes"
	"io"
)

// maxResyncScan is how far find_next_page searches for the next sync
// pattern before giving up (spec §4.3).
const maxResyncScan = 65536

// maxPageSize bounds a single page's encoded size (27-byte header + up to
// 255 segment bytes + up to 255*255 payload bytes).
const maxPageSize = headerSize + maxSegments + maxSegments*maxSegments

// PageReader scans an Ogg byte stream for pages, resynchronizing after
// corruption, and dispatches each page's packet fragments to the
// PacketReader registered for its serial (spec §4.3).
type PageReader struct {
	buf            *BufferedReader
	nextPageOffset uint64
	wasteBits      uint64

	streams map[int32]*PacketReader
	ignored map[int32]bool

	// OnNewStream is invoked the first time a serial is seen; returning
	// true tells the page reader to ignore that serial from now on.
	OnNewStream func(serial int32) (ignore bool)

	hardEOF bool
}

// NewPageReader creates a page reader over buf, starting at stream offset 0.
func NewPageReader(buf *BufferedReader) *PageReader {
	return &PageReader{
		buf:     buf,
		streams: make(map[int32]*PacketReader),
		ignored: make(map[int32]bool),
	}
}

// WasteBits returns the cumulative count of bits skipped while
// resynchronizing across the life of this reader.
func (pr *PageReader) WasteBits() uint64 { return pr.wasteBits }

// Stream returns (creating if necessary) the PacketReader for serial.
// Creating a PacketReader here is how a caller "subscribes" to a logical
// stream; pages for serials nobody has subscribed to and that were not
// flagged for ignoring are buffered in a PacketReader created lazily on
// first page.
func (pr *PageReader) Stream(serial int32) *PacketReader {
	if s, ok := pr.streams[serial]; ok {
		return s
	}
	s := newPacketReader(pr, serial)
	pr.streams[serial] = s
	return s
}

// DisposeStream discards the packet reader and all buffered packets for
// serial and marks it to be dropped on future pages (used both for an
// explicit new_stream "ignore" response and for a caller done with a
// chained stream segment).
func (pr *PageReader) DisposeStream(serial int32) {
	delete(pr.streams, serial)
	pr.ignored[serial] = true
}

// findNextPage implements spec §4.3 find_next_page: parse a page at
// nextPageOffset; on failure, scan forward up to maxResyncScan bytes for
// the next sync pattern, counting skipped bytes into wasteBits.
func (pr *PageReader) findNextPage() (*Page, error) {
	if pr.hardEOF {
		return nil, io.EOF
	}

	pos := pr.nextPageOffset
	skipped := uint64(0)
	chunk := make([]byte, maxPageSize)

	for {
		n, rerr := pr.buf.Read(int64(pos), chunk)
		if n >= 4 && bytes.Equal(chunk[:4], []byte(syncPattern)) {
			page, consumed, perr := parsePage(chunk[:n], pos)
			if perr == nil {
				page.IsResync = skipped > 0
				pr.wasteBits += skipped * 8
				pr.nextPageOffset = pos + uint64(consumed)
				return page, nil
			}
			if perr == ErrUnexpectedEOF {
				// Not enough bytes buffered yet for this page; not a
				// corruption, just short of data. Treat as end of scan.
				pr.hardEOF = true
				pr.wasteBits += skipped * 8
				return nil, io.EOF
			}
			// Bad version or bad CRC at this offset: fall through to
			// resync scanning from pos+1.
		}

		if n == 0 {
			pr.hardEOF = true
			pr.wasteBits += skipped * 8
			return nil, io.EOF
		}

		searchFrom := 1
		if n < 4 {
			searchFrom = n
		}
		idx := bytes.Index(chunk[searchFrom:n], []byte(syncPattern))
		var advance uint64
		if idx < 0 {
			advance = uint64(n)
		} else {
			advance = uint64(searchFrom + idx)
		}

		skipped += advance
		pos += advance
		if skipped > maxResyncScan {
			pr.wasteBits += skipped * 8
			return nil, ErrUnexpectedEOF
		}
		if rerr == io.EOF && idx < 0 {
			pr.hardEOF = true
			pr.wasteBits += skipped * 8
			return nil, io.EOF
		}
	}
}

// GatherNextPage reads and dispatches the next page in the stream. It is
// the only operation that calls findNextPage directly; packet readers call
// it indirectly via get_next_packet when they need more data.
func (pr *PageReader) GatherNextPage() error {
	if err := pr.buf.TakeLock(pr); err != nil {
		return err
	}
	defer pr.buf.ReleaseLock(pr)

	page, err := pr.findNextPage()
	if err != nil {
		return err
	}
	return pr.dispatch(page)
}

// dispatch applies the packet assembly policy of spec §4.3 to page,
// appending fragments to (or completing) the dangling packet for its
// serial and queuing newly completed packets on the matching PacketReader.
func (pr *PageReader) dispatch(page *Page) error {
	serial := page.StreamSerial
	if pr.ignored[serial] {
		return nil
	}

	stream, known := pr.streams[serial]
	if !known {
		ignore := false
		if pr.OnNewStream != nil {
			ignore = pr.OnNewStream(serial)
		}
		if ignore {
			pr.ignored[serial] = true
			return nil
		}
		stream = newPacketReader(pr, serial)
		pr.streams[serial] = stream
	}

	complete, trailingLen, trailingContinues := SplitSegmentTable(page.SegmentTable)

	offset := 0
	fragOffset := page.DataOffset
	firstFragment := true

	emit := func(length int, continued bool) *Packet {
		data := make([]byte, length)
		copy(data, page.Payload[offset:offset+length])
		p := &Packet{
			reader:          stream,
			StreamOffset:    fragOffset,
			Length:          uint32(length),
			PageGranulePos:  page.GranulePos,
			PageSequenceNum: page.SequenceNum,
			continued:       continued,
			data:            data,
		}
		if firstFragment {
			p.continuation = page.ContinuesPacket()
			p.resync = page.IsResync
		}
		offset += length
		fragOffset += uint64(length)
		firstFragment = false
		return p
	}

	for i, length := range complete {
		isLastOnPage := i == len(complete)-1 && !trailingContinues
		frag := emit(length, false)

		if frag.continuation {
			if stream.pending == nil {
				// No dangling packet to absorb into: spec leaves this as
				// an implicit drop of the (now unattachable) fragment.
				continue
			} else {
				merged := stream.pending
				stream.appendFragment(merged, frag)
				stream.pending = nil
				if isLastOnPage && page.EndOfStream() {
					merged.endOfStream = true
				}
				stream.enqueue(merged)
				continue
			}
		}

		if isLastOnPage && page.EndOfStream() {
			frag.endOfStream = true
		}
		stream.enqueue(frag)
	}

	if trailingContinues {
		frag := emit(trailingLen, true)
		if frag.continuation && stream.pending != nil {
			stream.appendFragment(stream.pending, frag)
		} else {
			stream.pending = frag
		}
	}

	stream.addContainerBits(uint64(headerSize+len(page.SegmentTable)) * 8)
	return nil
}
