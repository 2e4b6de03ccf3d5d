package gitutil

import "fmt"

// Sentinel errors for the gitutil package. Callers match them with errors.Is.
var (
	// ErrNotGitRepo is returned when the working directory is outside a git repository.
	ErrNotGitRepo = fmt.Errorf("not a git repository (run pre-commit-vauxoo from inside a git repo)")

	// ErrTimeout is returned when a git query does not finish within its timeout.
	ErrTimeout = fmt.Errorf("git command timed out")
)
