// Package files provides file-related functionality organized into sub-packages.
//
//   - filesystem: Filesystem abstraction interfaces and implementations (OS, in-memory and fs.FS)
//   - walker: Discovery of candidate source files under a root directory
//
// # Usage
//
//	import (
//	    "github.com/vvka-141/pep263/internal/files/filesystem"
//	    "github.com/vvka-141/pep263/internal/files/walker"
//	)
//
//	w, err := walker.NewWalker(logger, walker.Options{Suffixes: []string{".py"}})
//	result, err := w.Walk("./src")
//
// Each sub-package is focused on a specific concern:
//   - filesystem: Provides filesystem abstraction for testability
//   - walker: Selects files by suffix and exclusion globs, skipping unreadable subtrees
package files
