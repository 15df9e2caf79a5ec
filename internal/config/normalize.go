package config

import (
	"fmt"
	"runtime"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSubset()
	c.normalizeExternal()
	c.normalizeDiscovery()
	if err := c.normalizeLogging(); err != nil {
		return err
	}
	c.normalizeCatalog()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.InputDir) == "" {
		c.Paths.InputDir = defaultInputDir
	}
	if c.Paths.InputDir, err = expandPath(c.Paths.InputDir); err != nil {
		return fmt.Errorf("paths.input_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeSubset() {
	c.Subset.Backend = strings.ToLower(strings.TrimSpace(c.Subset.Backend))
	if c.Subset.Backend == "" {
		c.Subset.Backend = defaultBackend
	}
	c.Subset.Flavor = strings.ToLower(strings.TrimSpace(c.Subset.Flavor))
	if c.Subset.Flavor == "" {
		c.Subset.Flavor = defaultFlavor
	}
	c.Subset.Subsets = SplitList(c.Subset.Subsets)
	if c.Subset.Workers <= 0 {
		c.Subset.Workers = runtime.NumCPU()
	}
}

func (c *Config) normalizeExternal() {
	c.External.Binary = strings.TrimSpace(c.External.Binary)
	if c.External.Binary == "" {
		c.External.Binary = defaultExternalBinary
	}
	if c.External.RetryBackoffMS <= 0 {
		c.External.RetryBackoffMS = defaultRetryBackoffMS
	}
}

func (c *Config) normalizeDiscovery() {
	exts := make([]string, 0, len(c.Discovery.Extensions))
	seen := make(map[string]struct{}, len(c.Discovery.Extensions))
	for _, ext := range c.Discovery.Extensions {
		normalized := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		exts = append(exts, normalized)
	}
	if len(exts) == 0 {
		exts = append(exts, defaultExtensions...)
	}
	c.Discovery.Extensions = exts

	fonts := c.Discovery.SystemFonts[:0]
	for _, name := range c.Discovery.SystemFonts {
		if name = strings.TrimSpace(name); name != "" {
			fonts = append(fonts, name)
		}
	}
	c.Discovery.SystemFonts = fonts
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if strings.TrimSpace(c.Logging.File) != "" {
		var err error
		if c.Logging.File, err = expandPath(strings.TrimSpace(c.Logging.File)); err != nil {
			return fmt.Errorf("logging.file: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeCatalog() {
	if len(c.Catalog.Custom) == 0 {
		return
	}
	custom := make(map[string][]string, len(c.Catalog.Custom))
	for name, tokens := range c.Catalog.Custom {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		cleaned := make([]string, 0, len(tokens))
		for _, token := range tokens {
			if token = strings.TrimSpace(token); token != "" {
				cleaned = append(cleaned, token)
			}
		}
		custom[name] = cleaned
	}
	c.Catalog.Custom = custom
}

// SplitList flattens comma-delimited entries into trimmed, non-empty values.
// Both "latin,greek" and ["latin", "greek"] produce the same result.
func SplitList(values []string) []string {
	var out []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
