package catalog

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"fontsieve/internal/faults"
	"fontsieve/internal/unirange"
)

// Catalog maps subset names to ordered lists of range tokens. A Catalog is
// immutable once built and safe for concurrent use.
type Catalog struct {
	entries map[string][]string
	aliases map[string]string
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
)

// Default returns the built-in catalog.
func Default() *Catalog {
	defaultOnce.Do(func() {
		defaultCat = New(nil)
	})
	return defaultCat
}

// New returns the built-in catalog overlaid with custom entries. Custom
// entries replace built-in subsets and aliases of the same name.
func New(custom map[string][]string) *Catalog {
	c := &Catalog{
		entries: make(map[string][]string, len(builtin)+len(custom)),
		aliases: make(map[string]string, len(builtinAliases)),
	}
	for name, tokens := range builtin {
		c.entries[name] = append([]string(nil), tokens...)
	}
	for alias, target := range builtinAliases {
		c.aliases[alias] = target
	}
	for name, tokens := range custom {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		c.entries[name] = append([]string(nil), tokens...)
		delete(c.aliases, name)
	}
	return c
}

// Lookup returns the tokens for a single subset name. The name is trimmed
// before lookup; matching is case-sensitive.
func (c *Catalog) Lookup(name string) ([]string, bool) {
	name = strings.TrimSpace(name)
	if target, ok := c.aliases[name]; ok {
		name = target
	}
	tokens, ok := c.entries[name]
	if !ok {
		return nil, false
	}
	return append([]string(nil), tokens...), true
}

// Resolve flattens the tokens of every known name, in request order, without
// duplicates. Unknown names are skipped.
func (c *Catalog) Resolve(names []string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, name := range names {
		tokens, ok := c.Lookup(name)
		if !ok {
			continue
		}
		for _, token := range tokens {
			if _, dup := seen[token]; dup {
				continue
			}
			seen[token] = struct{}{}
			out = append(out, token)
		}
	}
	return out
}

// Unknown returns the requested names that the catalog cannot resolve,
// trimmed and in request order. Blank names are ignored.
func (c *Catalog) Unknown(names []string) []string {
	var out []string
	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			continue
		}
		if _, ok := c.Lookup(trimmed); !ok {
			out = append(out, trimmed)
		}
	}
	return out
}

// Names returns every subset name in sorted order, aliases excluded.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.entries))
	for name := range c.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Aliases returns the alternative names that resolve to name.
func (c *Catalog) Aliases(name string) []string {
	var out []string
	for alias, target := range c.aliases {
		if target == name {
			out = append(out, alias)
		}
	}
	sort.Strings(out)
	return out
}

// Validate parses every entry and reports the first malformed one.
func (c *Catalog) Validate() error {
	for _, name := range c.Names() {
		if _, err := unirange.Parse(c.entries[name]); err != nil {
			return fmt.Errorf("subset %q: %w", name, err)
		}
		if len(c.entries[name]) == 0 {
			return faults.Wrap(faults.ErrConfiguration, "catalog", fmt.Sprintf("subset %q", name), "no ranges", nil)
		}
	}
	return nil
}
