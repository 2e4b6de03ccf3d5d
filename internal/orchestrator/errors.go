package orchestrator

import "fmt"

// ErrNoFiles is returned when a run is scoped to a sub-path that has no
// tracked files.
var ErrNoFiles = fmt.Errorf("no files detected in current path")
