package config

import "strings"

// Overrides carries command-line values that take precedence over the
// configuration file. Zero values leave the loaded setting untouched.
type Overrides struct {
	InputDir  string
	OutputDir string
	Backend   string
	Flavor    string
	Subsets   []string
	Workers   int
	LogLevel  string
}

// ApplyOverrides merges o into the config, then normalizes and validates the
// result again.
func (c *Config) ApplyOverrides(o Overrides) error {
	if v := strings.TrimSpace(o.InputDir); v != "" {
		c.Paths.InputDir = v
	}
	if v := strings.TrimSpace(o.OutputDir); v != "" {
		c.Paths.OutputDir = v
	}
	if v := strings.TrimSpace(o.Backend); v != "" {
		c.Subset.Backend = v
	}
	if v := strings.TrimSpace(o.Flavor); v != "" {
		c.Subset.Flavor = v
	}
	if subsets := SplitList(o.Subsets); len(subsets) > 0 {
		c.Subset.Subsets = subsets
	}
	if o.Workers > 0 {
		c.Subset.Workers = o.Workers
	}
	if v := strings.TrimSpace(o.LogLevel); v != "" {
		c.Logging.Level = v
	}
	if err := c.normalize(); err != nil {
		return err
	}
	return c.Validate()
}
