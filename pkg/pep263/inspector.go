package pep263

import "context"

// Inspector runs a batch over a source tree: it walks the tree, optionally
// declares an encoding in every candidate file, and reports each file's
// declaration.
type Inspector interface {
	Run(ctx context.Context, config RunConfig) (RunResult, error)
}

// ProgressFunc is called after each file is processed. done counts files
// finished so far out of total. It may be called from several goroutines.
type ProgressFunc func(done, total int)
