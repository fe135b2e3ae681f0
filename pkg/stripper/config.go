package stripper

import (
	"slices"
)

// Config defines the configuration options for a Stripper.
type Config struct {
	// ExtraPrefixes adds prefixes to the built-in table, keyed by category.
	// Entries for All are ignored: All always blanks class attributes.
	ExtraPrefixes map[Category][]string `json:"extra_prefixes" yaml:"extra_prefixes"`
}

// DefaultConfig returns a configuration that uses only the built-in table.
func DefaultConfig() *Config {
	return &Config{
		ExtraPrefixes: map[Category][]string{},
	}
}

// Merge merges another config into this one.
// Extra prefixes are appended and deduplicated, never replaced.
func (c *Config) Merge(other *Config) *Config {
	merged := &Config{
		ExtraPrefixes: make(map[Category][]string, len(c.ExtraPrefixes)),
	}
	for cat, prefixes := range c.ExtraPrefixes {
		merged.ExtraPrefixes[cat] = slices.Clone(prefixes)
	}

	if other == nil {
		return merged
	}

	for cat, prefixes := range other.ExtraPrefixes {
		seen := make(map[string]bool)
		for _, p := range merged.ExtraPrefixes[cat] {
			seen[p] = true
		}
		for _, p := range prefixes {
			if !seen[p] {
				merged.ExtraPrefixes[cat] = append(merged.ExtraPrefixes[cat], p)
				seen[p] = true
			}
		}
	}

	return merged
}

// prefixesFor returns the built-in prefixes for the category followed by any
// configured extras that are not already in the table.
func (c *Config) prefixesFor(cat Category) []string {
	prefixes := cat.Prefixes()
	if len(prefixes) == 0 {
		return nil
	}
	for _, p := range c.ExtraPrefixes[cat] {
		if p != "" && !slices.Contains(prefixes, p) {
			prefixes = append(prefixes, p)
		}
	}
	return prefixes
}
