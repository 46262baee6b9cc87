package declaration

import (
	"errors"
	"fmt"
	"io"

	"github.com/vvka-141/pep263/internal/codec"
	"github.com/vvka-141/pep263/internal/files/filesystem"
	"github.com/vvka-141/pep263/pkg/pep263"
)

// Scanner detects encoding declarations. It is safe for concurrent use as
// long as each call is given its own stream.
type Scanner struct {
	registry *codec.Registry
}

// NewScanner creates a Scanner that validates names against registry.
// A nil registry means codec.Default.
func NewScanner(registry *codec.Registry) *Scanner {
	if registry == nil {
		registry = codec.Default
	}
	return &Scanner{registry: registry}
}

// Scan reads at most the first two lines of r, starting at its current
// position. A line ends at "\n", "\r\n" or a lone "\r". The reader is
// consumed one byte at a time, so on return it is positioned just past the
// last line examined and never beyond line 2. After a lone "\r" the byte
// read to look for "\n" is given back when r is an io.ByteScanner or an
// io.Seeker. The returned error is only for read failures.
func (s *Scanner) Scan(r io.Reader) (pep263.ScanOutcome, error) {
	lr := newLineReader(r)
	defer lr.release()
	for n := 1; n <= pep263.MaxDeclarationLine; n++ {
		line, err := lr.next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return pep263.ScanOutcome{}, fmt.Errorf("failed to read line %d: %w", n, err)
		}

		name, ok := codec.Match(line)
		if !ok {
			continue
		}

		decl := pep263.Declaration{Name: name, Line: n}
		c, found := s.registry.Lookup(name)
		if !found {
			return pep263.ScanOutcome{Kind: pep263.InvalidName, Declaration: decl}, nil
		}
		decl.Canonical = c.Canonical
		return pep263.ScanOutcome{Kind: pep263.Found, Declaration: decl}, nil
	}
	return pep263.ScanOutcome{Kind: pep263.NotDeclared}, nil
}

// ScanFile opens path read-only and scans it. Failures to open or read the
// file are reported through the report's Category and Err, never returned.
func (s *Scanner) ScanFile(fsys filesystem.FileSystemProvider, path string) pep263.FileReport {
	report := pep263.FileReport{Path: path}

	f, err := fsys.OpenFile(path, false)
	if err != nil {
		report.Category = pep263.CategoryForError(err)
		report.Err = err
		return report
	}
	defer f.Close()

	outcome, err := s.Scan(f)
	if err != nil {
		report.Category = pep263.CategoryForError(err)
		report.Err = err
		return report
	}

	report.Declaration = outcome.Declaration
	report.Err = outcome.Err()
	report.Category = pep263.CategoryForError(report.Err)
	return report
}

// lineReader splits a stream into lines without reading ahead, except for
// the one byte needed to tell a lone "\r" from "\r\n".
type lineReader struct {
	r       io.Reader
	br      io.ByteReader
	buf     [1]byte
	pending int
}

func newLineReader(r io.Reader) *lineReader {
	lr := &lineReader{r: r, pending: -1}
	if br, ok := r.(io.ByteReader); ok {
		lr.br = br
	}
	return lr
}

func (lr *lineReader) readByte() (byte, error) {
	if lr.pending >= 0 {
		b := byte(lr.pending)
		lr.pending = -1
		return b, nil
	}
	if lr.br != nil {
		return lr.br.ReadByte()
	}
	for {
		n, err := lr.r.Read(lr.buf[:])
		if n == 1 {
			return lr.buf[0], nil
		}
		if err != nil {
			return 0, err
		}
	}
}

// next returns the next line without its terminator. It returns io.EOF only
// when no bytes remain; a final unterminated line is returned normally.
func (lr *lineReader) next() ([]byte, error) {
	var line []byte
	for {
		b, err := lr.readByte()
		if err != nil {
			if errors.Is(err, io.EOF) && len(line) > 0 {
				return line, nil
			}
			return nil, err
		}
		switch b {
		case '\n':
			return line, nil
		case '\r':
			next, err := lr.readByte()
			if err == nil && next != '\n' {
				lr.pending = int(next)
			}
			return line, nil
		}
		line = append(line, b)
	}
}

// release hands a byte read past the last line back to the reader.
func (lr *lineReader) release() {
	if lr.pending < 0 {
		return
	}
	if bs, ok := lr.r.(io.ByteScanner); ok && bs.UnreadByte() == nil {
		lr.pending = -1
		return
	}
	if sk, ok := lr.r.(io.Seeker); ok {
		if _, err := sk.Seek(-1, io.SeekCurrent); err == nil {
			lr.pending = -1
		}
	}
}
