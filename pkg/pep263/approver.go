package pep263

import "context"

// Approver handles user interaction before existing declarations are replaced.
//
// Implementations:
//   - ForcedApprover: Shows a notice, optionally counts down, and approves
//   - InteractiveApprover: Prompts the user to type the encoding name
type Approver interface {
	// RequestApproval asks whether declarations under root may be replaced
	// with encodingName.
	RequestApproval(ctx context.Context, root, encodingName string) (bool, error)
}
