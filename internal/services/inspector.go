package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/vvka-141/pep263/internal/codec"
	"github.com/vvka-141/pep263/internal/declaration"
	"github.com/vvka-141/pep263/internal/files/filesystem"
	"github.com/vvka-141/pep263/internal/files/walker"
	"github.com/vvka-141/pep263/pkg/pep263"
)

// InspectionService implements the Inspector interface.
// Thread-Safety: safe for concurrent Run() calls as long as the injected
// collaborators are.
type InspectionService struct {
	fsProvider filesystem.FileSystemProvider
	approver   pep263.Approver
	logger     pep263.Logger
	registry   *codec.Registry
	scanner    *declaration.Scanner
	writer     *declaration.Writer
	progress   pep263.ProgressFunc
}

// NewInspectionService creates a new InspectionService with all dependencies injected.
// A nil registry means codec.Default. Panics on other nil dependencies.
func NewInspectionService(
	fsProvider filesystem.FileSystemProvider,
	approver pep263.Approver,
	logger pep263.Logger,
	registry *codec.Registry,
) *InspectionService {
	if fsProvider == nil {
		panic("fsProvider cannot be nil")
	}
	if approver == nil {
		panic("approver cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	if registry == nil {
		registry = codec.Default
	}

	return &InspectionService{
		fsProvider: fsProvider,
		approver:   approver,
		logger:     logger,
		registry:   registry,
		scanner:    declaration.NewScanner(registry),
		writer:     declaration.NewWriter(registry),
	}
}

// WithProgress sets a callback invoked after each file and returns s.
func (s *InspectionService) WithProgress(fn pep263.ProgressFunc) *InspectionService {
	s.progress = fn
	return s
}

// Run walks config.Root and reports on every candidate file.
//
// Configuration problems, an unknown encoding in config.Append, a denied
// approval and an unusable root abort the run before any file is touched.
// Per-file failures never abort it; they are recorded in the file's report.
// Reports keep the walk order regardless of config.Jobs.
func (s *InspectionService) Run(ctx context.Context, config pep263.RunConfig) (pep263.RunResult, error) {
	result := pep263.RunResult{Root: config.Root}

	if err := config.Validate(); err != nil {
		return result, err
	}

	if config.Append != "" {
		if _, err := s.registry.Validate(config.Append); err != nil {
			return result, err
		}
	}

	if config.Force {
		s.logger.Verbose("Requesting approval to replace declarations under %s with %s", config.Root, config.Append)
		approved, err := s.approver.RequestApproval(ctx, config.Root, config.Append)
		if err != nil {
			return result, fmt.Errorf("approval request failed: %w", err)
		}
		if !approved {
			return result, pep263.ErrApprovalDenied
		}
	}

	w, err := walker.NewWalkerWithFS(s.logger, s.fsProvider, walker.Options{
		Suffixes: config.Suffixes,
		Exclude:  config.Exclude,
	})
	if err != nil {
		return result, err
	}

	walked, err := w.Walk(config.Root)
	if err != nil {
		return result, err
	}
	result.Skipped = walked.Skipped
	s.logger.Verbose("Found %d candidate files under %s", len(walked.Files), config.Root)

	reports, err := s.processAll(ctx, config, walked.Files)
	if err != nil {
		return result, err
	}
	result.Reports = reports
	return result, nil
}

func (s *InspectionService) processAll(ctx context.Context, config pep263.RunConfig, files []pep263.CandidateFile) ([]pep263.FileReport, error) {
	jobs := config.Jobs
	if jobs < 1 {
		jobs = 1
	}

	reports := make([]pep263.FileReport, len(files))
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, file := range files {
		if gctx.Err() != nil {
			break
		}
		i, file := i, file
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			report, err := s.processFile(config, file)
			if err != nil {
				return err
			}
			reports[i] = report
			if s.progress != nil {
				s.progress(int(done.Add(1)), len(files))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("run cancelled: %w", err)
	}
	return reports, nil
}

// processFile writes the declaration when requested, then scans the file.
// The only error it returns is an unknown encoding name from the writer.
func (s *InspectionService) processFile(config pep263.RunConfig, file pep263.CandidateFile) (pep263.FileReport, error) {
	var write pep263.WriteReport
	if config.Append != "" {
		var err error
		write, err = s.writer.WriteFile(s.fsProvider, file.Path, config.Append, config.Force)
		if err != nil {
			return pep263.FileReport{}, err
		}
		switch {
		case write.Err == nil:
			s.logger.Verbose("%s: %s %s", file.Path, write.Status, config.Append)
		case errors.Is(write.Err, pep263.ErrAlreadyDeclared):
			s.logger.Verbose("%s: %v", file.Path, write.Err)
		default:
			s.logger.Error("%s: %v", file.Path, write.Err)
		}
	}

	report := s.scanner.ScanFile(s.fsProvider, file.Path)
	report.Write = write
	s.logger.Verbose("%s: %s", file.Path, report.Status())
	return report, nil
}

// Verify InspectionService implements the interface at compile time
var _ pep263.Inspector = (*InspectionService)(nil)
