package preflight

import (
	"fontsieve/internal/config"
)

// Result reports the outcome of a single preflight check. A passing result
// may still carry a Warning, or be Informational when it concerns something
// the current configuration does not use.
type Result struct {
	Name          string
	Passed        bool
	Warning       bool
	Informational bool
	Detail        string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	input := CheckReadableDirectory("Input directory", cfg.Paths.InputDir)
	results := []Result{input}
	if input.Passed {
		results = append(results, CheckInputFonts(cfg.Paths.InputDir, cfg.Discovery.Extensions))
	}
	results = append(results, CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir))
	if cfg.History.Enabled {
		results = append(results, CheckDirectoryAccess("State directory", cfg.Paths.StateDir))
	}
	if cfg.Subset.Backend == config.BackendExternal {
		results = append(results, CheckSubsetter(cfg.ExternalBinary()))
	} else {
		results = append(results, CheckOptionalSubsetter(cfg.ExternalBinary()))
	}
	if len(cfg.Discovery.SystemFonts) > 0 {
		results = append(results, CheckSystemFonts(cfg.Discovery.SystemFonts))
	}
	if len(cfg.Subset.Subsets) > 0 {
		results = append(results, CheckSubsets(cfg))
	}
	return results
}

// Failed reports whether any result did not pass.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return true
		}
	}
	return false
}
