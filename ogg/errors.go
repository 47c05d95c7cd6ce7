package ogg

import (
	"errors"
	"fmt"
)

// Kind classifies an ogg error per the decoder's error taxonomy so callers
// can branch on recovery strategy without string matching.
type Kind int

const (
	// KindInvalidData covers malformed headers, bad magic, reserved values.
	KindInvalidData Kind = iota
	// KindCRCMismatch covers a page whose stored CRC does not match.
	KindCRCMismatch
	// KindUnexpectedEOF covers a truncated read.
	KindUnexpectedEOF
	// KindOutOfRange covers API misuse such as seeking past the end.
	KindOutOfRange
	// KindDisposed covers use of a reader after Dispose.
	KindDisposed
	// KindSynchronizationLock covers a lock violation (wrong holder).
	KindSynchronizationLock
)

func (k Kind) String() string {
	switch k {
	case KindInvalidData:
		return "invalid-data"
	case KindCRCMismatch:
		return "crc-mismatch"
	case KindUnexpectedEOF:
		return "unexpected-eof"
	case KindOutOfRange:
		return "out-of-range"
	case KindDisposed:
		return "disposed"
	case KindSynchronizationLock:
		return "synchronization-lock"
	default:
		return "unknown"
	}
}

// Error is a classified ogg-layer error.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return "ogg: " + e.Msg }

func newError(k Kind, msg string) *Error { return &Error{Kind: k, Msg: msg} }

// Package-level sentinels for common cases, matching the teacher's plain
// errors.New idiom for conditions that never need extra payload.
var (
	// ErrInvalidPage indicates the page structure is malformed: missing
	// "OggS" magic or bad version. A truncated page reports
	// ErrUnexpectedEOF instead.
	ErrInvalidPage = newError(KindInvalidData, "invalid page structure")

	// ErrUnexpectedEOF indicates the stream ended mid-page or mid-packet.
	ErrUnexpectedEOF = newError(KindUnexpectedEOF, "unexpected end of stream")

	// ErrOutOfRange indicates API misuse: bad stream index, seek past end.
	ErrOutOfRange = newError(KindOutOfRange, "out of range")

	// ErrDisposed indicates use of a reader after Dispose.
	ErrDisposed = newError(KindDisposed, "use after dispose")

	// ErrSynchronizationLock indicates the cooperative lock is held by a
	// different holder than the one attempting the operation.
	ErrSynchronizationLock = newError(KindSynchronizationLock, "lock held by a different holder")

	// ErrNotSeekable indicates seek_to was called on a non-seekable source.
	ErrNotSeekable = newError(KindOutOfRange, "byte source is not seekable")
)

// CRCError reports a page CRC mismatch with both the stored and computed
// values, matching the richer error shape other pack examples use for CRC
// failures (e.g. SaurusXI-ogg's ErrBadCrc) rather than a bare sentinel.
type CRCError struct {
	Found    uint32
	Expected uint32
}

func (e *CRCError) Error() string {
	return fmt.Sprintf("ogg: crc mismatch: got %#08x, expected %#08x", e.Found, e.Expected)
}

// Kind implements the same classification contract as *Error.
func (e *CRCError) Kind() Kind { return KindCRCMismatch }

// IsCRCMismatch reports whether err is a page CRC failure.
func IsCRCMismatch(err error) bool {
	var c *CRCError
	return errors.As(err, &c)
}
