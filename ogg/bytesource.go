package ogg

import "io"

// ByteSource is the external collaborator contract for the physical byte
// stream backing a logical Ogg/Vorbis decode (spec §6 "Operations the core
// consumes from collaborators"). Concrete implementations — a file, an
// in-memory buffer, a network stream — live outside this module; the core
// only ever depends on this interface.
//
// CanSeek, Seek and Length may be unsupported on a pure streaming source;
// Seek and Length should return an error in that case rather than panic,
// and CanSeek must report false.
type ByteSource interface {
	io.Reader
	io.ByteReader
	io.Seeker

	// Length reports the total size of the source, or an error if unknown
	// (e.g. an unbounded network stream).
	Length() (int64, error)

	// CanSeek reports whether Seek is meaningful on this source.
	CanSeek() bool

	// Dispose releases any resources held by the source. Calls after
	// Dispose must fail with ErrDisposed.
	Dispose() error

	// TakeLock and ReleaseLock implement the cooperative re-entrant lock
	// contract of spec §5: TakeLock acquires the lock for holder (or
	// increments the re-entrance count if holder already owns it);
	// ReleaseLock decrements the count and only actually releases at zero.
	// Calling ReleaseLock, or TakeLock for a second distinct holder while
	// the lock is held by another, must report ErrSynchronizationLock.
	TakeLock(holder any) error
	ReleaseLock(holder any) error
}
