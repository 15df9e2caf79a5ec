// Package deps reports whether external executables are available on PATH
// and, when asked, which version they report.
package deps

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// versionTimeout bounds a version check so a hung tool cannot stall checks.
const versionTimeout = 5 * time.Second

// Requirement defines an external executable fontsieve may invoke.
type Requirement struct {
	Name    string
	Command string
	// VersionArgs, when set, are passed to the command to read its version
	// from the first line of output.
	VersionArgs []string
}

// Status reports the availability of a dependency.
type Status struct {
	Name      string
	Command   string
	Available bool
	Path      string
	Version   string
	Detail    string
}

// CheckBinaries evaluates the provided requirements in order.
func CheckBinaries(ctx context.Context, requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		results = append(results, Inspect(ctx, req))
	}
	return results
}

// Inspect resolves one requirement on PATH. A failing version check leaves
// Version empty and does not make the dependency unavailable.
func Inspect(ctx context.Context, req Requirement) Status {
	cmd := strings.TrimSpace(req.Command)
	status := Status{Name: req.Name, Command: cmd}
	if cmd == "" {
		status.Detail = "command not configured"
		return status
	}
	path, err := exec.LookPath(cmd)
	if err != nil {
		status.Detail = fmt.Sprintf("binary %q not found", cmd)
		return status
	}
	status.Available = true
	status.Path = path
	if len(req.VersionArgs) > 0 {
		status.Version = readVersion(ctx, path, req.VersionArgs)
	}
	return status
}

func readVersion(ctx context.Context, path string, args []string) string {
	ctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, path, args...).CombinedOutput()
	if err != nil {
		return ""
	}
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			return line
		}
	}
	return ""
}
