package config

import (
	"errors"
	"fmt"
	"strings"

	"fontsieve/internal/catalog"
	"fontsieve/internal/faults"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateSubset(); err != nil {
		return err
	}
	if err := c.validateInProcess(); err != nil {
		return err
	}
	if err := c.validateExternal(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateCatalog(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.InputDir == "" {
		return configError("paths.input_dir must be set")
	}
	if c.Paths.OutputDir == "" {
		return configError("paths.output_dir must be set")
	}
	if c.Paths.InputDir == c.Paths.OutputDir {
		return configError("paths.output_dir must differ from paths.input_dir")
	}
	return nil
}

func (c *Config) validateSubset() error {
	switch c.Subset.Backend {
	case BackendInProcess, BackendExternal:
	default:
		return configError(fmt.Sprintf("subset.backend: unsupported value %q (want %s or %s)", c.Subset.Backend, BackendInProcess, BackendExternal))
	}
	switch c.Subset.Flavor {
	case FlavorWOFF, FlavorWOFF2:
	default:
		return configError(fmt.Sprintf("subset.flavor: unsupported value %q (want %s or %s)", c.Subset.Flavor, FlavorWOFF, FlavorWOFF2))
	}
	if c.Subset.Backend == BackendInProcess && c.Subset.Flavor != FlavorWOFF2 {
		return configError("subset.flavor can only be changed with the external backend; the in-process backend always writes woff2")
	}
	if c.Subset.Workers <= 0 {
		return configError("subset.workers must be positive")
	}
	return nil
}

func (c *Config) validateInProcess() error {
	if c.InProcess.CompressionQuality < 0 || c.InProcess.CompressionQuality > 11 {
		return configError("inprocess.compression_quality must be between 0 and 11")
	}
	return nil
}

func (c *Config) validateExternal() error {
	if strings.TrimSpace(c.External.Binary) == "" {
		return configError("external.binary must be set")
	}
	if c.External.TimeoutSeconds < 0 {
		return configError("external.timeout_seconds must be >= 0")
	}
	if c.External.Retries < 0 {
		return configError("external.retries must be >= 0")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return configError(fmt.Sprintf("logging.format: unsupported value %q", c.Logging.Format))
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return configError(fmt.Sprintf("logging.level: unsupported value %q", c.Logging.Level))
	}
	return nil
}

func (c *Config) validateCatalog() error {
	if len(c.Catalog.Custom) == 0 {
		return nil
	}
	if err := catalog.New(c.Catalog.Custom).Validate(); err != nil {
		return fmt.Errorf("catalog.custom: %w", err)
	}
	return nil
}

func configError(message string) error {
	return fmt.Errorf("%w: %w", faults.ErrConfiguration, errors.New(message))
}
