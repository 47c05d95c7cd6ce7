package ogg

import "io"

// memSource is a trivial in-memory ByteSource used by this package's tests.
type memSource struct {
	data     []byte
	pos      int64
	disposed bool
}

func newMemSource(data []byte) *memSource { return &memSource{data: data} }

func (m *memSource) Read(p []byte) (int, error) {
	if m.pos >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n := copy(p, m.data[m.pos:])
	m.pos += int64(n)
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (m *memSource) ReadByte() (byte, error) {
	if m.pos >= int64(len(m.data)) {
		return 0, io.EOF
	}
	b := m.data[m.pos]
	m.pos++
	return b, nil
}

func (m *memSource) Seek(offset int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case io.SeekStart:
		base = 0
	case io.SeekCurrent:
		base = m.pos
	case io.SeekEnd:
		base = int64(len(m.data))
	}
	m.pos = base + offset
	return m.pos, nil
}

func (m *memSource) Length() (int64, error)     { return int64(len(m.data)), nil }
func (m *memSource) CanSeek() bool              { return true }
func (m *memSource) Dispose() error             { m.disposed = true; return nil }
func (m *memSource) TakeLock(holder any) error   { return nil }
func (m *memSource) ReleaseLock(holder any) error { return nil }
