// Package ogg implements the Ogg bitstream container (RFC 3533) framing
// layer used to carry Vorbis I logical streams.
//
// It provides:
//   - CRC-32 page integrity checking (polynomial 0x04C11DB7, the Ogg
//     variant, not the IEEE polynomial used by hash/crc32).
//   - A buffered reader over an arbitrary seekable or streaming byte
//     source, with a cooperative re-entrant lock.
//   - A page reader that scans for page sync, resynchronizes after
//     corruption, and dispatches pages to per-serial packet queues.
//   - A packet reader that reassembles packets split across page and
//     segment boundaries, and maintains a seek index.
//
// # Page structure
//
//	Bytes 0-3:   "OggS" capture pattern
//	Byte 4:      stream structure version (always 0)
//	Byte 5:      header type flags (continuation, BOS, EOS)
//	Bytes 6-13:  granule position (little-endian)
//	Bytes 14-17: bitstream serial number (little-endian)
//	Bytes 18-21: page sequence number (little-endian)
//	Bytes 22-25: CRC-32 checksum (computed with this field zeroed)
//	Byte 26:     segment count
//	Bytes 27+:   segment table (one byte per segment)
//	Remaining:   page payload data, split into packets by the segment table
//
// A segment value of 255 means the packet continues into the next segment
// (and, if it is the page's last segment, into the next page for that
// serial). A value less than 255 terminates a packet.
//
// This package has no knowledge of Vorbis packet contents; it hands raw
// packet byte ranges to the codec layer in package vorbis.
package ogg
