package separate

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement names an external binary the pipeline needs.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports whether a requirement is available.
type Status struct {
	Requirement
	Available bool
	Detail    string
}

// CheckBinaries resolves each requirement on PATH.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		req.Command = strings.TrimSpace(req.Command)
		status := Status{Requirement: req}
		switch {
		case req.Command == "":
			status.Detail = "command not configured"
		default:
			if path, err := exec.LookPath(req.Command); err != nil {
				status.Detail = fmt.Sprintf("binary %q not found", req.Command)
			} else {
				status.Available = true
				status.Detail = path
			}
		}
		results = append(results, status)
	}
	return results
}

// Missing returns the names of required, unavailable binaries.
func Missing(statuses []Status) []string {
	var names []string
	for _, s := range statuses {
		if !s.Available && !s.Optional {
			names = append(names, s.Name)
		}
	}
	return names
}
