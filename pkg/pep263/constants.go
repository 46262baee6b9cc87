package pep263

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess         = 0  // Every file processed
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitConfigError     = 10 // Invalid project configuration
	ExitInvalidEncoding = 11 // Unknown encoding name passed to --append
	ExitPathError       = 12 // Root path missing, unreadable or not a directory
	ExitApprovalDenied  = 13 // User denied replacing existing declarations
	ExitCheckFailed     = 14 // --check found files without a valid declaration
)

const (
	// DeclarationFormat is the canonical form written for a declaration.
	// The single verb is the encoding name.
	DeclarationFormat = "# -*- coding: %s -*-\n"

	// ShebangPrefix marks an interpreter line. When the first line starts with it,
	// the declaration is inserted on line 2 instead of line 1.
	ShebangPrefix = "#!"

	// MaxDeclarationLine is the last line on which a declaration is recognised.
	MaxDeclarationLine = 2

	// DefaultSuffix selects Python source files.
	DefaultSuffix = ".py"

	// DefaultForceApprovalCountdown is the countdown shown before a forced
	// replacement proceeds in a terminal.
	DefaultForceApprovalCountdown = 3 * time.Second
)
