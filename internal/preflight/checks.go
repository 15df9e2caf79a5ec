package preflight

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"fontsieve/internal/catalog"
	"fontsieve/internal/config"
	"fontsieve/internal/deps"
	"fontsieve/internal/discovery"
	"fontsieve/internal/unirange"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	return checkDirectory(name, path, unix.R_OK|unix.W_OK|unix.X_OK, "read/write ok")
}

// CheckReadableDirectory verifies that the directory exists and can be listed.
func CheckReadableDirectory(name, path string) Result {
	return checkDirectory(name, path, unix.R_OK|unix.X_OK, "read ok")
}

func checkDirectory(name, path string, mode uint32, okDetail string) Result {
	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, mode); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", path, okDetail)}
}

const subsetterCheck = "Subsetting tool"

// CheckSubsetter verifies the external subsetting executable resolves on PATH.
func CheckSubsetter(binary string) Result {
	status := lookupSubsetter(binary)
	if !status.Available {
		return Result{Name: subsetterCheck, Detail: status.Detail}
	}
	return Result{Name: subsetterCheck, Passed: true, Detail: subsetterDetail(status)}
}

// CheckOptionalSubsetter reports on the external executable when the
// in-process backend is configured. A missing tool only warns, since
// --backend external is still available per run.
func CheckOptionalSubsetter(binary string) Result {
	status := lookupSubsetter(binary)
	if !status.Available {
		return Result{
			Name:    subsetterCheck,
			Passed:  true,
			Warning: true,
			Detail:  status.Detail + "; --backend external will fail",
		}
	}
	return Result{
		Name:          subsetterCheck,
		Passed:        true,
		Informational: true,
		Detail:        subsetterDetail(status) + "; unused by the inprocess backend",
	}
}

func lookupSubsetter(binary string) deps.Status {
	return deps.Inspect(context.Background(), deps.Requirement{
		Name:        subsetterCheck,
		Command:     binary,
		VersionArgs: []string{"--version"},
	})
}

func subsetterDetail(status deps.Status) string {
	if status.Version != "" {
		return fmt.Sprintf("%s (%s)", status.Path, status.Version)
	}
	return status.Path
}

// CheckInputFonts counts the font files a run would pick up. An empty input
// directory is not an error, but the run would have nothing to do.
func CheckInputFonts(dir string, exts []string) Result {
	const name = "Input fonts"
	inputs, err := discovery.Scan(dir, exts)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	if len(inputs) == 0 {
		return Result{Name: name, Passed: true, Warning: true, Detail: "no font files found"}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%d found", len(inputs))}
}

// CheckSystemFonts verifies every configured system font can be located.
func CheckSystemFonts(names []string) Result {
	const name = "System fonts"
	inputs, err := discovery.ResolveSystem(names)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%d found", len(inputs))}
}

// CheckSubsets verifies the configured default subsets resolve to codepoints.
func CheckSubsets(cfg *config.Config) Result {
	const name = "Default subsets"
	cat := catalog.New(cfg.Catalog.Custom)
	tokens := cat.Resolve(cfg.Subset.Subsets)
	unknown := cat.Unknown(cfg.Subset.Subsets)
	if len(tokens) == 0 {
		return Result{Name: name, Detail: fmt.Sprintf("unknown subsets: %s", strings.Join(unknown, ", "))}
	}
	sel, err := unirange.Parse(tokens)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	if sel.Empty() {
		return Result{Name: name, Detail: "selection is empty"}
	}
	if len(unknown) > 0 {
		return Result{
			Name:    name,
			Passed:  true,
			Warning: true,
			Detail:  fmt.Sprintf("%d codepoints; unknown subsets ignored: %s", sel.Len(), strings.Join(unknown, ", ")),
		}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d codepoints)", strings.Join(cfg.Subset.Subsets, ", "), sel.Len())}
}
