package stripper

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Stats captures metrics about what a removal did.
type Stats struct {
	Category Category `json:"category" yaml:"category"`

	// Size metrics
	InputBytes  int `json:"input_bytes" yaml:"input_bytes"`
	OutputBytes int `json:"output_bytes" yaml:"output_bytes"`

	// TokensRemoved counts prefix matches deleted (prefix-based categories).
	TokensRemoved int `json:"tokens_removed" yaml:"tokens_removed"`

	// AttributesBlanked counts class attributes emptied (All).
	AttributesBlanked int `json:"attributes_blanked" yaml:"attributes_blanked"`

	Duration time.Duration `json:"duration_ns" yaml:"duration_ns"`
}

// ReductionPercent returns the percentage reduction in size.
func (s *Stats) ReductionPercent() float64 {
	if s.InputBytes == 0 {
		return 0
	}
	return float64(s.InputBytes-s.OutputBytes) / float64(s.InputBytes) * 100
}

// Add accumulates another Stats into s. The category is kept unless s has none.
func (s *Stats) Add(other *Stats) {
	if other == nil {
		return
	}
	if s.Category == "" {
		s.Category = other.Category
	}
	s.TokensRemoved += other.TokensRemoved
	s.AttributesBlanked += other.AttributesBlanked
	s.Duration += other.Duration
}

// String returns a human-readable summary of the stats.
func (s *Stats) String() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Category: %s\n", s.Category))
	sb.WriteString(fmt.Sprintf("Size: %s -> %s (%.1f%% reduction)\n",
		humanize.Bytes(uint64(s.InputBytes)),
		humanize.Bytes(uint64(s.OutputBytes)),
		s.ReductionPercent()))

	if s.TokensRemoved > 0 {
		sb.WriteString(fmt.Sprintf("Tokens removed: %s\n", humanize.Comma(int64(s.TokensRemoved))))
	}
	if s.AttributesBlanked > 0 {
		sb.WriteString(fmt.Sprintf("Attributes blanked: %s\n", humanize.Comma(int64(s.AttributesBlanked))))
	}

	sb.WriteString(fmt.Sprintf("Time: %v\n", s.Duration.Round(time.Microsecond)))

	return sb.String()
}

// Result contains the output of a removal.
type Result struct {
	// Text is the transformed input. It equals the input when nothing matched.
	Text string `json:"text" yaml:"text"`

	// Changed is true iff Text differs from the input.
	Changed bool `json:"changed" yaml:"changed"`

	Stats *Stats `json:"stats" yaml:"stats"`
}
