package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// OptionalExistingPath accepts at most one path argument and requires it to exist.
// Whether it is a readable directory is left to the run, which reports it
// with a path error.
func OptionalExistingPath(cmd *cobra.Command, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("accepts at most 1 arg(s), received %d", len(args))
	}
	if len(args) == 0 {
		return nil
	}
	if args[0] == "" {
		return fmt.Errorf(`invalid argument "": path is empty

Usage: %s

Example:
  %s ./src`, cmd.UseLine(), cmd.CommandPath())
	}
	if _, err := os.Lstat(args[0]); os.IsNotExist(err) {
		return fmt.Errorf(`path does not exist: %s

Usage: %s

Example:
  %s ./src`, args[0], cmd.UseLine(), cmd.CommandPath())
	}
	return nil
}
