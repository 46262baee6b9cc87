package walker

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/vvka-141/pep263/internal/files/filesystem"
	"github.com/vvka-141/pep263/pkg/pep263"
)

// Options selects which files a Walker reports.
type Options struct {
	// Suffixes are matched against file names. Empty means pep263.DefaultSuffix.
	Suffixes []string

	// Exclude holds doublestar patterns matched against slash-separated paths
	// relative to the walk root. A matching directory is not descended into.
	Exclude []string
}

// WalkResult is the outcome of a walk.
type WalkResult struct {
	Files   []pep263.CandidateFile
	Skipped []pep263.SkippedPath
}

// Walker discovers candidate files.
// Walker is safe for concurrent use by multiple goroutines as long as the
// provided fsProvider and logger are also thread-safe.
type Walker struct {
	fsProvider filesystem.FileSystemProvider
	logger     pep263.Logger
	suffixes   []string
	exclude    []string
}

// NewWalker creates a walker over the OS filesystem.
// Panics if logger is nil.
func NewWalker(logger pep263.Logger, opts Options) (*Walker, error) {
	return NewWalkerWithFS(logger, filesystem.NewOSFileSystem(), opts)
}

// NewWalkerWithFS creates a walker with a custom filesystem provider.
// Invalid exclusion patterns are reported as pep263.ErrInvalidConfig.
// Panics if logger or fsProvider is nil.
func NewWalkerWithFS(logger pep263.Logger, fsProvider filesystem.FileSystemProvider, opts Options) (*Walker, error) {
	if logger == nil {
		panic("logger cannot be nil")
	}
	if fsProvider == nil {
		panic("fsProvider cannot be nil")
	}

	suffixes := opts.Suffixes
	if len(suffixes) == 0 {
		suffixes = []string{pep263.DefaultSuffix}
	}
	for _, s := range suffixes {
		if s == "" {
			return nil, fmt.Errorf("empty file suffix: %w", pep263.ErrInvalidConfig)
		}
	}

	exclude := make([]string, 0, len(opts.Exclude))
	for _, pattern := range opts.Exclude {
		pattern = strings.TrimPrefix(filepath.ToSlash(pattern), "./")
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, pep263.ErrInvalidConfig)
		}
		exclude = append(exclude, pattern)
	}

	return &Walker{
		fsProvider: fsProvider,
		logger:     logger,
		suffixes:   suffixes,
		exclude:    exclude,
	}, nil
}

// Walk lists every candidate file under root.
//
// A missing root fails with pep263.ErrNotFound and a root that is not a
// directory fails with pep263.ErrNotADirectory; both return an empty result.
// Subdirectories that cannot be listed are logged, recorded in
// WalkResult.Skipped and otherwise ignored.
func (w *Walker) Walk(root string) (WalkResult, error) {
	info, err := w.fsProvider.Stat(root)
	if err != nil {
		return WalkResult{}, fmt.Errorf("failed to open root %s: %w", root, err)
	}
	if !info.IsDir() {
		return WalkResult{}, fmt.Errorf("failed to open root %s: %w", root, pep263.ErrNotADirectory)
	}

	entries, err := w.fsProvider.ReadDir(root)
	if err != nil {
		return WalkResult{}, fmt.Errorf("failed to list root %s: %w", root, err)
	}

	var result WalkResult
	w.walkEntries(root, "", entries, &result)
	return result, nil
}

func (w *Walker) walkDir(dir, rel string, result *WalkResult) {
	entries, err := w.fsProvider.ReadDir(dir)
	if err != nil {
		w.logger.Error("Skipping %s: %v", dir, err)
		result.Skipped = append(result.Skipped, pep263.SkippedPath{Path: dir, Err: err})
		return
	}
	w.walkEntries(dir, rel, entries, result)
}

func (w *Walker) walkEntries(dir, rel string, entries []filesystem.FileInfo, result *WalkResult) {
	for _, entry := range entries {
		name := entry.Name()
		entryPath := filepath.Join(dir, name)
		entryRel := path.Join(rel, name)

		if w.excluded(entryRel) {
			w.logger.Verbose("Excluded %s", entryPath)
			continue
		}

		mode := entry.Mode()
		switch {
		case mode.IsDir():
			w.walkDir(entryPath, entryRel, result)
		case mode.IsRegular():
			if w.hasSuffix(name) {
				result.Files = append(result.Files, pep263.CandidateFile{Name: name, Path: entryPath})
			}
		default:
			w.logger.Verbose("Ignoring %s (%s)", entryPath, mode.Type())
		}
	}
}

func (w *Walker) hasSuffix(name string) bool {
	for _, s := range w.suffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}

func (w *Walker) excluded(rel string) bool {
	for _, pattern := range w.exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}
