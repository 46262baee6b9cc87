package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vvka-141/pep263/internal/config"
	"github.com/vvka-141/pep263/internal/files/filesystem"
	"github.com/vvka-141/pep263/internal/logging"
	"github.com/vvka-141/pep263/internal/services"
	"github.com/vvka-141/pep263/internal/tui"
	"github.com/vvka-141/pep263/internal/ui"
	"github.com/vvka-141/pep263/pkg/pep263"
)

// rootFlagValues holds the values bound to the root command's flags.
type rootFlagValues struct {
	appendName string
	force      bool
	yes        bool
	check      bool
	suffixes   []string
	exclude    []string
	jobs       int
	color      string
	verbose    bool
}

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	flags := &rootFlagValues{}

	cmd := &cobra.Command{
		Use:   "pep263 [path]",
		Short: "Check and declare PEP 263 source encodings",
		Long: `pep263 walks a source tree and reports the encoding declared on the first
two lines of every Python file, in the form PEP 263 defines:

  # -*- coding: utf-8 -*-

With --append it first writes a declaration into every file that lacks one,
after a leading #! line if there is one. Existing declarations are left alone
unless --force is given.

Settings are read from .pep263.yaml, the [tool.pep263] table of pyproject.toml
or the [pep263] section of setup.cfg in the scanned directory. Environment
variables (PEP263_SUFFIXES, PEP263_EXCLUDE, PEP263_JOBS) override the file
and flags override both.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration
  11 - Unknown encoding name
  12 - Path missing, unreadable or not a directory
  13 - User denied replacing declarations
  14 - --check found files without a valid declaration`,
		Example: `  # Report declarations under the current directory
  pep263

  # Declare UTF-8 wherever it is missing
  pep263 ./src --append utf-8

  # Replace every declaration without prompting
  pep263 ./src --append utf-8 --force --yes

  # Fail a CI job when a file has no valid declaration
  pep263 ./src --check`,
		Args:              OptionalExistingPath,
		SilenceUsage:      true,
		ValidArgsFunction: completeDirectories,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, args, flags)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.appendName, "append", "A", "", "Encoding to declare in files that lack one (e.g. utf-8)")
	f.BoolVarP(&flags.force, "force", "f", false, "Replace existing declarations (requires --append)")
	f.BoolVarP(&flags.yes, "yes", "y", false, "Skip the confirmation prompt for --force")
	f.BoolVar(&flags.check, "check", false, "Exit with code 14 if any file lacks a valid declaration")
	f.StringArrayVar(&flags.suffixes, "suffix", nil, "File name suffix to inspect (repeatable, default .py)")
	f.StringArrayVar(&flags.exclude, "exclude", nil, "Glob of paths to skip, relative to path (repeatable)")
	f.IntVarP(&flags.jobs, "jobs", "j", 1, "Number of files processed in parallel")
	f.StringVar(&flags.color, "color", string(tui.ColorAuto), "Colorize output: auto, always or never")
	f.BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose output")

	_ = cmd.RegisterFlagCompletionFunc("append", completeEncodings)
	_ = cmd.RegisterFlagCompletionFunc("color", completeColorModes)

	cmd.AddCommand(newVersionCmd())
	return cmd
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo(os.Stdout, os.Stderr)
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func runRoot(cmd *cobra.Command, args []string, flags *rootFlagValues) error {
	root := "."
	if len(args) == 1 {
		root = args[0]
	}

	colorMode, err := tui.ParseColorMode(flags.color)
	if err != nil {
		return err
	}

	runCfg, err := buildRunConfig(cmd, root, flags)
	if err != nil {
		return err
	}

	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()
	interactive := tui.IsInteractive()
	outStyles := tui.NewStyles(stdout, colorMode.Enabled(stdout))
	errColor := colorMode.Enabled(stderr)
	errStyles := tui.NewStyles(stderr, errColor)

	logger := newLogger(stderr, flags.verbose, errColor)
	approver := newApprover(cmd, interactive, flags.yes)
	svc := services.NewInspectionService(newFileSystem(runCfg), approver, logger, nil)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var result pep263.RunResult
	if interactive && !runCfg.Force && !flags.verbose {
		err = tui.RunWithSpinner(ctx, tui.SpinnerOptions{
			Message: fmt.Sprintf("Inspecting %s", root),
			Output:  stderr,
			Input:   cmd.InOrStdin(),
			Styles:  errStyles,
		}, func(ctx context.Context, update func(string)) error {
			svc.WithProgress(func(done, total int) {
				update(progressMessage(done, total))
			})
			var runErr error
			result, runErr = svc.Run(ctx, runCfg)
			return runErr
		})
	} else {
		result, err = svc.Run(ctx, runCfg)
	}
	if err != nil {
		return err
	}

	for _, report := range result.Reports {
		fmt.Fprintln(stdout, outStyles.FormatReport(report))
	}
	printSummary(stderr, errStyles, result, runCfg.Append != "")

	if flags.check && !result.OK() {
		return fmt.Errorf("%d of %d files without a valid declaration: %w",
			len(result.Reports)-result.Counts()[pep263.CategoryOK], len(result.Reports), pep263.ErrCheckFailed)
	}
	return nil
}

// buildRunConfig merges defaults, the project config file, the environment
// and explicitly set flags, in increasing order of precedence.
func buildRunConfig(cmd *cobra.Command, root string, flags *rootFlagValues) (pep263.RunConfig, error) {
	_ = godotenv.Load()

	projectCfg, err := config.Load(root)
	if err != nil {
		if !errors.Is(err, config.ErrConfigNotFound) {
			return pep263.RunConfig{}, err
		}
		projectCfg = &config.ProjectConfig{}
	}
	if err := config.ApplyEnv(projectCfg, os.LookupEnv); err != nil {
		return pep263.RunConfig{}, err
	}

	runCfg := pep263.RunConfig{
		Root:     root,
		Append:   projectCfg.Append,
		Force:    projectCfg.Force,
		Suffixes: projectCfg.Suffixes,
		Exclude:  projectCfg.Exclude,
		Jobs:     projectCfg.Jobs,
	}

	changed := cmd.Flags().Changed
	if changed("append") {
		runCfg.Append = flags.appendName
	}
	if changed("force") {
		runCfg.Force = flags.force
	}
	if changed("suffix") {
		runCfg.Suffixes = flags.suffixes
	}
	if changed("exclude") {
		runCfg.Exclude = flags.exclude
	}
	if changed("jobs") || runCfg.Jobs == 0 {
		runCfg.Jobs = flags.jobs
	}
	if len(runCfg.Suffixes) == 0 {
		runCfg.Suffixes = []string{pep263.DefaultSuffix}
	}
	return runCfg, nil
}

// newFileSystem serves runs that never write through a read-only provider.
func newFileSystem(cfg pep263.RunConfig) filesystem.FileSystemProvider {
	if cfg.Append == "" {
		return filesystem.NewDirFSProvider(cfg.Root)
	}
	return filesystem.NewOSFileSystem()
}

func newLogger(stderr io.Writer, verbose, color bool) pep263.Logger {
	switch {
	case !verbose:
		return logging.NewNullLogger()
	case color:
		return logging.NewStructuredLogger(stderr, true, false)
	default:
		return logging.NewConsoleLogger(stderr, true)
	}
}

// newApprover prompts for the encoding name when a human is at the terminal,
// and otherwise approves after a notice. The countdown only runs when
// someone can watch it.
func newApprover(cmd *cobra.Command, interactive, yes bool) pep263.Approver {
	stderr := cmd.ErrOrStderr()
	if interactive && !yes {
		return ui.NewInteractiveApprover(cmd.InOrStdin(), stderr)
	}
	countdown := pep263.DefaultForceApprovalCountdown
	if yes || !tui.IsTerminal(stderr) {
		countdown = 0
	}
	return ui.NewForcedApprover(stderr, countdown)
}
