// Package stripper removes CSS utility-framework class tokens from HTML-like markup.
//
// Tokens are grouped into categories (typography, layout, styling). Removing a
// category deletes every token of the form <prefix>-<suffix> for that
// category's prefixes. The All category blanks class attributes instead.
//
// The engine works on plain text and never parses the markup, so it can be
// applied to any fragment of a document (a selection, a template, JSX).
package stripper

import (
	"slices"
	"strings"
)

// Category identifies a group of utility-class prefixes.
type Category string

const (
	Typography Category = "typography"
	Layout     Category = "layout"
	Styling    Category = "styling"
	All        Category = "all"
)

// Categories lists the prefix-based categories in display order.
// All is not included since it has no prefixes.
var Categories = []Category{Typography, Layout, Styling}

// defaultPrefixes is the built-in rule table. It is never modified after init.
var defaultPrefixes = map[Category][]string{
	Typography: {
		"font", "text", "leading", "tracking", "whitespace", "break",
		"truncate", "indent", "align", "decoration", "underline", "list",
		"line-clamp", "hyphens",
	},
	Layout: {
		"p", "px", "py", "pt", "pr", "pb", "pl", "ps", "pe",
		"m", "mx", "my", "mt", "mr", "mb", "ml", "ms", "me",
		"w", "h", "min-w", "min-h", "max-w", "max-h", "size",
		"flex", "grid", "gap", "space", "col", "row", "order",
		"justify", "items", "self", "place", "content", "basis", "grow", "shrink",
		"inset", "top", "right", "bottom", "left", "z",
		"overflow", "display", "container", "columns", "aspect", "float", "clear", "object",
	},
	Styling: {
		"bg", "from", "via", "to",
		"border", "divide", "outline", "ring", "shadow", "opacity",
		"fill", "stroke", "accent", "caret", "rounded",
		"blur", "brightness", "contrast",
		"transition", "duration", "ease", "delay", "animate",
	},
}

// ParseCategory maps a category name to a Category. Matching is case-insensitive
// and ignores surrounding whitespace. Unknown names resolve to All so that the
// caller always gets a usable mode.
func ParseCategory(name string) Category {
	switch c := Category(strings.ToLower(strings.TrimSpace(name))); c {
	case Typography, Layout, Styling:
		return c
	default:
		return All
	}
}

// Prefixes returns a copy of the built-in prefixes for the category.
// All (and anything that is not a known category) has no prefixes.
func (c Category) Prefixes() []string {
	return slices.Clone(defaultPrefixes[c])
}

// IsPrefixBased reports whether the category removes tokens by prefix
// rather than blanking class attributes.
func (c Category) IsPrefixBased() bool {
	return len(defaultPrefixes[c]) > 0
}

// String returns the category name.
func (c Category) String() string {
	return string(c)
}
