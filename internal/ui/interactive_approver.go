package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/vvka-141/pep263/pkg/pep263"
)

// InteractiveApprover implements the Approver interface for console-based
// interactive confirmation. It prompts the user to type the encoding name
// before existing declarations are overwritten.
type InteractiveApprover struct {
	input  io.Reader
	output io.Writer
}

// NewInteractiveApprover creates a new InteractiveApprover.
func NewInteractiveApprover(input io.Reader, output io.Writer) pep263.Approver {
	return &InteractiveApprover{input: input, output: output}
}

// RequestApproval prompts the user to type the encoding name to confirm.
func (a *InteractiveApprover) RequestApproval(ctx context.Context, root, encodingName string) (bool, error) {
	fmt.Fprintf(a.output, "\n⚠️  WARNING: every existing encoding declaration under '%s' will be replaced with '%s'.\n", root, encodingName)
	fmt.Fprintf(a.output, "\nTo confirm, type the encoding name '%s' and press Enter: ", encodingName)

	// Read user input with context cancellation support
	inputChan := make(chan string, 1)
	errChan := make(chan error, 1)

	go func() {
		reader := bufio.NewReader(a.input)
		input, err := reader.ReadString('\n')
		if err != nil && (err != io.EOF || input == "") {
			errChan <- err
			return
		}
		inputChan <- strings.TrimSpace(input)
	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case err := <-errChan:
		return false, fmt.Errorf("failed to read input: %w", err)
	case input := <-inputChan:
		if input == encodingName {
			fmt.Fprintln(a.output, "✓ Confirmed. Proceeding with replacement...")
			return true, nil
		}
		fmt.Fprintf(a.output, "✗ Input '%s' does not match '%s'. Operation cancelled.\n", input, encodingName)
		return false, nil
	}
}

// Verify InteractiveApprover implements the Approver interface at compile time
var _ pep263.Approver = (*InteractiveApprover)(nil)
