// Package config loads, normalizes, and validates fontsieve configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and folds comma-delimited subset lists into
// clean slices. The Config type centralizes every knob the CLI and the
// subsetting pipeline need, so input/output directories, backend selection
// and custom catalog entries are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// absolute paths, canonical backend and flavor names, and clear validation
// errors tagged as configuration errors.
package config
