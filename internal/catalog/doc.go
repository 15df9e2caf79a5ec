// Package catalog holds the named subsets (latin, cyrillic, vietnamese, ...)
// and resolves requested names into one flat list of range tokens.
//
// The built-in table is configuration rather than algorithm; deployments can
// add or override entries from the config file without touching resolution.
// Unknown names are skipped so a batch never aborts because a caller asked
// for a subset this build does not know about.
package catalog
