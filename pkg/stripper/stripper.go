package stripper

import (
	"regexp"
	"strings"
	"time"
)

// classAttrPattern matches a double-quoted class attribute. Single-quoted and
// unquoted values, and differently named attributes such as className, are
// left alone.
var classAttrPattern = regexp.MustCompile(`class\s*=\s*"[^"]*"`)

const blankClassAttr = `class=""`

// defaultStripper backs the package-level helpers.
var defaultStripper = New(nil)

// Stripper removes class tokens using a fixed set of compiled patterns.
// It is immutable after New and safe for concurrent use.
type Stripper struct {
	prefixes map[Category][]string
	patterns map[Category]*regexp.Regexp
}

// New creates a Stripper from the given configuration.
// If config is nil, DefaultConfig() is used.
func New(config *Config) *Stripper {
	if config == nil {
		config = DefaultConfig()
	}

	s := &Stripper{
		prefixes: make(map[Category][]string, len(Categories)),
		patterns: make(map[Category]*regexp.Regexp, len(Categories)),
	}
	for _, cat := range Categories {
		prefixes := config.prefixesFor(cat)
		s.prefixes[cat] = prefixes
		s.patterns[cat] = compilePrefixPattern(prefixes)
	}
	return s
}

// Prefixes returns the prefixes this Stripper removes for the category,
// including configured extras. All has none.
func (s *Stripper) Prefixes(c Category) []string {
	return append([]string(nil), s.prefixes[c]...)
}

// RemoveClasses removes the class tokens of the given category from text.
// Prefix-based categories delete matching tokens; All and unknown categories
// blank every class attribute.
func (s *Stripper) RemoveClasses(text string, c Category) *Result {
	start := time.Now()
	stats := &Stats{
		Category:   c,
		InputBytes: len(text),
	}

	var out string
	if re, ok := s.patterns[c]; ok && re != nil {
		var n int
		out, n = deleteMatches(re, text)
		stats.TokensRemoved = n
	} else {
		stats.Category = All
		var n int
		out, n = blankClassAttributes(text)
		stats.AttributesBlanked = n
	}

	stats.OutputBytes = len(out)
	stats.Duration = time.Since(start)

	return &Result{
		Text:    out,
		Changed: out != text,
		Stats:   stats,
	}
}

// ForCategory returns a cleaner that strips the given category.
func (s *Stripper) ForCategory(c Category) *CategoryCleaner {
	return &CategoryCleaner{stripper: s, category: c}
}

// RemoveClasses removes the class tokens of the given category from text
// using the built-in rule table.
func RemoveClasses(text string, c Category) *Result {
	return defaultStripper.RemoveClasses(text, c)
}

// RemoveByPrefixes deletes every token of the form <prefix>-<suffix> that
// starts the text or follows whitespace. The preceding whitespace is removed
// with the token. Prefixes are matched literally.
func RemoveByPrefixes(text string, prefixes []string) string {
	re := compilePrefixPattern(prefixes)
	if re == nil {
		return text
	}
	out, _ := deleteMatches(re, text)
	return out
}

// BlankClassAttributes replaces every class="..." attribute with class="".
func BlankClassAttributes(text string) string {
	out, _ := blankClassAttributes(text)
	return out
}

// tokenBoundary is the separator a token must follow when it is not at the
// start of the text. Beyond ASCII \s it accepts vertical tab, NEL, Unicode
// space separators, line/paragraph separators and the BOM, and the separator
// is removed along with the token.
const tokenBoundary = `(?:^|[\s\v\x{85}\p{Zs}\x{2028}\x{2029}\x{FEFF}])`

// compilePrefixPattern builds the alternation pattern for the prefixes.
// It returns nil when there is nothing to match.
func compilePrefixPattern(prefixes []string) *regexp.Regexp {
	quoted := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		if p == "" {
			continue
		}
		quoted = append(quoted, regexp.QuoteMeta(p))
	}
	if len(quoted) == 0 {
		return nil
	}
	return regexp.MustCompile(tokenBoundary + `(?:` + strings.Join(quoted, "|") + `)-[\w-]+`)
}

// deleteMatches removes all non-overlapping matches of re from text and
// reports how many were removed.
func deleteMatches(re *regexp.Regexp, text string) (string, int) {
	matches := re.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return text, 0
	}

	var sb strings.Builder
	sb.Grow(len(text))
	last := 0
	for _, m := range matches {
		sb.WriteString(text[last:m[0]])
		last = m[1]
	}
	sb.WriteString(text[last:])
	return sb.String(), len(matches)
}

// blankClassAttributes empties every class attribute and reports how many
// attributes actually changed; an attribute already written as class="" is
// not counted.
func blankClassAttributes(text string) (string, int) {
	n := 0
	out := classAttrPattern.ReplaceAllStringFunc(text, func(attr string) string {
		if attr != blankClassAttr {
			n++
		}
		return blankClassAttr
	})
	if n == 0 {
		return text, 0
	}
	return out, n
}

// CategoryCleaner strips a single category. It satisfies cleaner.Cleaner.
type CategoryCleaner struct {
	stripper *Stripper
	category Category
}

// Clean removes the cleaner's category from the input.
func (c *CategoryCleaner) Clean(html string) (string, error) {
	return c.stripper.RemoveClasses(html, c.category).Text, nil
}

// Name returns the cleaner name for logging.
func (c *CategoryCleaner) Name() string {
	return "strip(" + string(c.category) + ")"
}

// Category returns the category this cleaner removes.
func (c *CategoryCleaner) Category() Category {
	return c.category
}
