// Package categorizer wraps the external classification service. The
// collaborator is untrusted: it returns best-effort structured text that is
// parsed defensively and validated against the closed category set and the
// known property list before anything reaches the ledger.
package categorizer

import "context"

// AIClient is the boundary to the external classification model. It
// returns the raw response text; extraction and validation happen on this
// side of the boundary.
type AIClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
