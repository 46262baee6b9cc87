package declaration

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/vvka-141/pep263/internal/codec"
	"github.com/vvka-141/pep263/internal/files/filesystem"
	"github.com/vvka-141/pep263/pkg/pep263"
)

// Writer inserts or replaces encoding declarations.
type Writer struct {
	registry *codec.Registry
	scanner  *Scanner
}

// NewWriter creates a Writer that validates names against registry.
// A nil registry means codec.Default.
func NewWriter(registry *codec.Registry) *Writer {
	if registry == nil {
		registry = codec.Default
	}
	return &Writer{
		registry: registry,
		scanner:  NewScanner(registry),
	}
}

// Write declares encodingName in stream.
//
// The name is validated first; an unknown name fails with
// *pep263.InvalidEncodingError before the stream is touched. When the first
// two lines already declare an encoding, valid or not, Write fails with
// *pep263.AlreadyDeclaredError unless replace is set, and the stream is left
// unchanged. Otherwise the declaration line is replaced in place, or a new
// line is inserted at line 1 (line 2 after a shebang). The whole stream is
// rewritten from offset 0 and truncated to its new length.
func (w *Writer) Write(stream pep263.Stream, encodingName string, replace bool) (pep263.WriteStatus, error) {
	if _, err := w.registry.Validate(encodingName); err != nil {
		return pep263.WriteFailed, err
	}

	if _, err := stream.Seek(0, io.SeekStart); err != nil {
		return pep263.WriteFailed, fmt.Errorf("failed to rewind stream: %w", err)
	}
	outcome, err := w.scanner.Scan(stream)
	if err != nil {
		return pep263.WriteFailed, err
	}

	existing := outcome.Kind != pep263.NotDeclared
	if existing && !replace {
		return pep263.WriteAlreadyDeclared, &pep263.AlreadyDeclaredError{
			Name: outcome.Declaration.Name,
			Line: outcome.Declaration.Line,
		}
	}

	if _, err := stream.Seek(0, io.SeekStart); err != nil {
		return pep263.WriteFailed, fmt.Errorf("failed to rewind stream: %w", err)
	}
	content, err := io.ReadAll(stream)
	if err != nil {
		return pep263.WriteFailed, fmt.Errorf("failed to read stream: %w", err)
	}

	decl := []byte(pep263.FormatDeclaration(encodingName))
	lines := splitLines(content)
	status := pep263.WriteInserted
	if existing {
		lines[outcome.Declaration.Line-1] = decl
		status = pep263.WriteReplaced
	} else {
		lines = insertDeclaration(lines, decl)
	}

	updated := bytes.Join(lines, nil)
	if _, err := stream.Seek(0, io.SeekStart); err != nil {
		return pep263.WriteFailed, fmt.Errorf("failed to rewind stream: %w", err)
	}
	if _, err := stream.Write(updated); err != nil {
		return pep263.WriteFailed, fmt.Errorf("failed to write stream: %w", err)
	}
	if err := stream.Truncate(int64(len(updated))); err != nil {
		return pep263.WriteFailed, fmt.Errorf("failed to truncate stream: %w", err)
	}
	return status, nil
}

// WriteFile opens path for writing and declares encodingName in it.
//
// Open, read and write failures, along with an existing declaration when
// replace is false, are recorded in the returned report and are not errors.
// An unknown encodingName is returned as an error so the caller decides
// whether to stop.
func (w *Writer) WriteFile(fsys filesystem.FileSystemProvider, path, encodingName string, replace bool) (pep263.WriteReport, error) {
	report := pep263.WriteReport{Path: path}

	f, err := fsys.OpenFile(path, true)
	if err != nil {
		report.Status = pep263.WriteFailed
		report.Category = pep263.CategoryForError(err)
		report.Err = err
		return report, nil
	}
	defer f.Close()

	status, err := w.Write(f, encodingName, replace)
	report.Status = status
	switch {
	case err == nil:
	case errors.Is(err, pep263.ErrInvalidEncoding):
		report.Category = pep263.CategoryInvalidName
		report.Err = err
		return report, err
	case errors.Is(err, pep263.ErrAlreadyDeclared):
		report.Err = err
	default:
		report.Category = pep263.CategoryForError(err)
		report.Err = err
	}
	return report, nil
}

// splitLines splits content after each "\n", "\r\n" or lone "\r", keeping
// terminators so that joining the result reproduces content exactly.
func splitLines(content []byte) [][]byte {
	var lines [][]byte
	start := 0
	for i := 0; i < len(content); i++ {
		switch content[i] {
		case '\n':
		case '\r':
			if i+1 < len(content) && content[i+1] == '\n' {
				i++
			}
		default:
			continue
		}
		lines = append(lines, content[start:i+1])
		start = i + 1
	}
	if start < len(content) {
		lines = append(lines, content[start:])
	}
	return lines
}

// insertDeclaration inserts decl at line 1, or at line 2 when line 1 is a
// shebang. An unterminated shebang line gets a newline first.
func insertDeclaration(lines [][]byte, decl []byte) [][]byte {
	at := 0
	if len(lines) > 0 && bytes.HasPrefix(lines[0], []byte(pep263.ShebangPrefix)) {
		at = 1
		if !bytes.HasSuffix(lines[0], []byte("\n")) && !bytes.HasSuffix(lines[0], []byte("\r")) {
			lines[0] = append(lines[0], '\n')
		}
	}

	out := make([][]byte, 0, len(lines)+1)
	out = append(out, lines[:at]...)
	out = append(out, decl)
	out = append(out, lines[at:]...)
	return out
}
