package stripper

import (
	"fmt"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Other collects tokens that belong to no prefix-based category.
const Other Category = "other"

// Report summarises the class tokens found in a document.
type Report struct {
	Elements int `json:"elements" yaml:"elements"`
	Tokens   int `json:"tokens" yaml:"tokens"`

	// Categories maps each category (and Other) to token -> occurrences.
	Categories map[Category]map[string]int `json:"categories" yaml:"categories"`
}

// Count returns the number of token occurrences recorded for the category.
func (r *Report) Count(c Category) int {
	total := 0
	for _, n := range r.Categories[c] {
		total += n
	}
	return total
}

// Distinct returns the distinct tokens recorded for the category, sorted.
func (r *Report) Distinct(c Category) []string {
	tokens := make([]string, 0, len(r.Categories[c]))
	for tok := range r.Categories[c] {
		tokens = append(tokens, tok)
	}
	sort.Strings(tokens)
	return tokens
}

// Inspect reports the class tokens of every element with a class attribute.
// A token is counted under the first category in Categories whose prefixes
// match it. The document is not modified.
func (s *Stripper) Inspect(html string) (*Report, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing markup: %w", err)
	}

	report := &Report{
		Categories: make(map[Category]map[string]int),
	}

	doc.Find("[class]").Each(func(_ int, sel *goquery.Selection) {
		report.Elements++
		class, _ := sel.Attr("class")
		for _, tok := range strings.Fields(class) {
			cat := s.Classify(tok)
			if report.Categories[cat] == nil {
				report.Categories[cat] = make(map[string]int)
			}
			report.Categories[cat][tok]++
			report.Tokens++
		}
	})

	return report, nil
}

// Classify returns the category a single class token would be removed by,
// or Other when no prefix-based category matches it.
func (s *Stripper) Classify(token string) Category {
	for _, cat := range Categories {
		if re := s.patterns[cat]; re != nil && re.FindString(token) == token {
			return cat
		}
	}
	return Other
}
