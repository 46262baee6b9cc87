package filesystem

import (
	"errors"
	"fmt"
	"io"

	"github.com/vvka-141/pep263/pkg/pep263"
)

var errClosed = errors.New("stream is closed")

// MemoryStream is an in-memory File. The zero value is an empty, writable stream.
type MemoryStream struct {
	buf      *[]byte
	off      int64
	readOnly bool
	closed   bool
}

// NewMemoryStream creates a writable stream holding content, positioned at offset 0.
func NewMemoryStream(content string) *MemoryStream {
	b := []byte(content)
	return &MemoryStream{buf: &b}
}

func (s *MemoryStream) data() []byte {
	if s.buf == nil {
		var b []byte
		s.buf = &b
	}
	return *s.buf
}

func (s *MemoryStream) Read(p []byte) (int, error) {
	if s.closed {
		return 0, errClosed
	}
	d := s.data()
	if s.off >= int64(len(d)) {
		return 0, io.EOF
	}
	n := copy(p, d[s.off:])
	s.off += int64(n)
	return n, nil
}

func (s *MemoryStream) Write(p []byte) (int, error) {
	if s.closed {
		return 0, errClosed
	}
	if s.readOnly {
		return 0, fmt.Errorf("write: %w: stream is read-only", pep263.ErrPermissionDenied)
	}
	d := s.data()
	end := s.off + int64(len(p))
	if end > int64(len(d)) {
		grown := make([]byte, end)
		copy(grown, d)
		d = grown
	}
	copy(d[s.off:], p)
	*s.buf = d
	s.off = end
	return len(p), nil
}

func (s *MemoryStream) Seek(offset int64, whence int) (int64, error) {
	if s.closed {
		return 0, errClosed
	}
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = s.off + offset
	case io.SeekEnd:
		abs = int64(len(s.data())) + offset
	default:
		return 0, fmt.Errorf("seek: invalid whence %d", whence)
	}
	if abs < 0 {
		return 0, errors.New("seek: negative position")
	}
	s.off = abs
	return abs, nil
}

func (s *MemoryStream) Truncate(size int64) error {
	if s.closed {
		return errClosed
	}
	if s.readOnly {
		return fmt.Errorf("truncate: %w: stream is read-only", pep263.ErrPermissionDenied)
	}
	if size < 0 {
		return errors.New("truncate: negative size")
	}
	d := s.data()
	if size <= int64(len(d)) {
		*s.buf = d[:size]
		return nil
	}
	grown := make([]byte, size)
	copy(grown, d)
	*s.buf = grown
	return nil
}

// Close marks the stream closed. Further operations fail.
func (s *MemoryStream) Close() error {
	if s.closed {
		return errClosed
	}
	s.closed = true
	return nil
}

// Bytes returns the current content. It stays valid after Close.
func (s *MemoryStream) Bytes() []byte {
	return s.data()
}

// String returns the current content as a string.
func (s *MemoryStream) String() string {
	return string(s.data())
}

// Verify MemoryStream implements the interface at compile time
var _ File = (*MemoryStream)(nil)
