package ui

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/vvka-141/pep263/pkg/pep263"
)

// ForcedApprover implements the Approver interface for forced
// (non-interactive) approval. It prints a notice, counts down and approves.
// Used with --yes and whenever no terminal is available.
type ForcedApprover struct {
	output    io.Writer
	countdown time.Duration
	sleepFn   func(time.Duration)
}

// NewForcedApprover creates a ForcedApprover writing to output. A countdown
// of zero approves immediately.
func NewForcedApprover(output io.Writer, countdown time.Duration) pep263.Approver {
	return &ForcedApprover{
		output:    output,
		countdown: countdown,
		sleepFn:   time.Sleep,
	}
}

// RequestApproval displays a countdown and automatically approves after it.
func (a *ForcedApprover) RequestApproval(ctx context.Context, root, encodingName string) (bool, error) {
	fmt.Fprintf(a.output, "Existing encoding declarations under %s will be replaced with %s.\n", root, encodingName)

	for i := int(a.countdown.Seconds()); i > 0; i-- {
		select {
		case <-ctx.Done():
			fmt.Fprintln(a.output)
			return false, ctx.Err()
		default:
			fmt.Fprintf(a.output, "\rReplacing in: %d seconds... (Press Ctrl+C to cancel)", i)
			a.sleepFn(time.Second)
		}
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	if a.countdown > 0 {
		fmt.Fprint(a.output, "\r")
	}
	fmt.Fprintln(a.output, "✓ Proceeding with replacement...                              ")
	return true, nil
}

// Verify ForcedApprover implements the Approver interface at compile time
var _ pep263.Approver = (*ForcedApprover)(nil)
