package pep263

import (
	"errors"
	"fmt"
	"io"
)

// Stream is a seekable, readable, writable text stream holding source text.
// *os.File satisfies it, as does filesystem.MemoryStream.
type Stream interface {
	io.Reader
	io.Writer
	io.Seeker

	// Truncate changes the size of the stream.
	Truncate(size int64) error
}

// FormatDeclaration returns the canonical declaration line for name,
// terminated by a single newline.
func FormatDeclaration(name string) string {
	return fmt.Sprintf(DeclarationFormat, name)
}

// Declaration is an encoding declared on line 1 or 2 of a source file.
type Declaration struct {
	// Name is the encoding identifier exactly as written in the file.
	Name string

	// Line is the 1-based line number (1 or 2).
	Line int

	// Canonical is the registry's preferred name for the encoding (e.g. "UTF-8").
	Canonical string
}

// OutcomeKind tags a ScanOutcome.
type OutcomeKind int

const (
	// NotDeclared means neither of the first two lines matches the declaration pattern.
	NotDeclared OutcomeKind = iota
	// Found means a declaration with a registered encoding name was found.
	Found
	// InvalidName means a declaration was found but its name is not a known encoding.
	InvalidName
)

func (k OutcomeKind) String() string {
	switch k {
	case NotDeclared:
		return "not declared"
	case Found:
		return "found"
	case InvalidName:
		return "invalid name"
	default:
		return fmt.Sprintf("OutcomeKind(%d)", int(k))
	}
}

// ScanOutcome is the result of scanning a stream for a declaration.
// Exactly one of the kinds applies; Declaration is meaningful for Found and
// InvalidName (in the latter case Canonical is empty).
type ScanOutcome struct {
	Kind        OutcomeKind
	Declaration Declaration
}

// Err converts the outcome to an error: nil for Found, ErrDeclarationNotFound
// for NotDeclared, and *InvalidEncodingError for InvalidName.
func (o ScanOutcome) Err() error {
	switch o.Kind {
	case Found:
		return nil
	case InvalidName:
		return &InvalidEncodingError{Name: o.Declaration.Name}
	default:
		return ErrDeclarationNotFound
	}
}

// CandidateFile is a regular file believed to hold source text.
type CandidateFile struct {
	// Name is the base name of the file.
	Name string
	// Path is the file path, rooted at the walk root as given by the caller.
	Path string
}

// SkippedPath records a subtree the walker could not descend into.
type SkippedPath struct {
	Path string
	Err  error
}

// Category classifies the per-file result reported to the presentation layer.
type Category int

const (
	CategoryOK Category = iota
	CategoryDeclarationNotFound
	CategoryPermissionDenied
	CategoryInvalidName
	CategoryFileMissing
	CategoryIsADirectory
)

func (c Category) String() string {
	switch c {
	case CategoryOK:
		return "ok"
	case CategoryDeclarationNotFound:
		return "not-found"
	case CategoryPermissionDenied:
		return "permission-denied"
	case CategoryInvalidName:
		return "invalid-name"
	case CategoryFileMissing:
		return "file-missing"
	case CategoryIsADirectory:
		return "is-a-directory"
	default:
		return fmt.Sprintf("Category(%d)", int(c))
	}
}

// CategoryForError maps an error to the category used in reports.
// Unrecognised errors are reported as permission problems, since the file
// could not be processed either way.
func CategoryForError(err error) Category {
	switch {
	case err == nil:
		return CategoryOK
	case errors.Is(err, ErrNotFound):
		return CategoryFileMissing
	case errors.Is(err, ErrIsADirectory):
		return CategoryIsADirectory
	case errors.Is(err, ErrInvalidEncoding):
		return CategoryInvalidName
	case errors.Is(err, ErrDeclarationNotFound):
		return CategoryDeclarationNotFound
	case errors.Is(err, ErrPermissionDenied):
		return CategoryPermissionDenied
	default:
		return CategoryPermissionDenied
	}
}

// WriteStatus describes what a write attempt did to a file.
type WriteStatus int

const (
	WriteNotAttempted WriteStatus = iota
	WriteInserted
	WriteReplaced
	WriteAlreadyDeclared
	WriteFailed
)

func (s WriteStatus) String() string {
	switch s {
	case WriteNotAttempted:
		return "not attempted"
	case WriteInserted:
		return "inserted"
	case WriteReplaced:
		return "replaced"
	case WriteAlreadyDeclared:
		return "already declared"
	case WriteFailed:
		return "failed"
	default:
		return fmt.Sprintf("WriteStatus(%d)", int(s))
	}
}

// WriteReport is the file-level result of a write. Category is CategoryOK unless
// the file could not be opened or rewritten.
type WriteReport struct {
	Path     string
	Status   WriteStatus
	Category Category
	Err      error
}

// FileReport is the file-level result of a scan, plus the write that preceded it.
type FileReport struct {
	Path        string
	Category    Category
	Declaration Declaration
	Write       WriteReport
	Err         error
}

// Status returns the text shown after the path in per-file output.
func (r FileReport) Status() string {
	switch r.Category {
	case CategoryOK:
		return r.Declaration.Name
	case CategoryInvalidName:
		return fmt.Sprintf("unknown encoding %s", r.Declaration.Name)
	case CategoryDeclarationNotFound:
		return ErrDeclarationNotFound.Error()
	case CategoryFileMissing:
		return ErrNotFound.Error()
	case CategoryIsADirectory:
		return ErrIsADirectory.Error()
	default:
		return ErrPermissionDenied.Error()
	}
}

// RunConfig contains all parameters for a batch run over a tree.
type RunConfig struct {
	// Root is the directory to walk.
	Root string

	// Append is the encoding to write into each file; empty means scan only.
	Append string

	// Force replaces existing declarations when Append is set.
	Force bool

	// Suffixes selects candidate files by name suffix. Defaults to DefaultSuffix.
	Suffixes []string

	// Exclude holds doublestar patterns, relative to Root, for paths to skip.
	Exclude []string

	// Jobs bounds the number of files processed concurrently. Values below 1 mean 1.
	Jobs int
}

// Validate checks if the RunConfig has all required fields and valid values.
func (c *RunConfig) Validate() error {
	var errs []error

	if c.Root == "" {
		errs = append(errs, fmt.Errorf("root path is required: %w", ErrInvalidConfig))
	}
	if c.Force && c.Append == "" {
		errs = append(errs, fmt.Errorf("force requires an encoding to append: %w", ErrInvalidConfig))
	}
	if c.Jobs < 0 {
		errs = append(errs, fmt.Errorf("jobs cannot be negative: %w", ErrInvalidConfig))
	}
	for _, s := range c.Suffixes {
		if s == "" {
			errs = append(errs, fmt.Errorf("empty file suffix: %w", ErrInvalidConfig))
			break
		}
	}

	return errors.Join(errs...)
}

// RunResult contains the outcome of a batch run.
type RunResult struct {
	Root    string
	Reports []FileReport
	Skipped []SkippedPath
}

// Counts returns the number of reports per category.
func (r RunResult) Counts() map[Category]int {
	counts := make(map[Category]int)
	for _, rep := range r.Reports {
		counts[rep.Category]++
	}
	return counts
}

// OK reports whether every file carries a valid declaration.
func (r RunResult) OK() bool {
	for _, rep := range r.Reports {
		if rep.Category != CategoryOK {
			return false
		}
	}
	return true
}
