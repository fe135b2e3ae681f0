// Package selection cuts a line range out of a document so that only that
// part is transformed, then splices the result back in.
package selection

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidRange is returned for malformed or inverted line ranges.
var ErrInvalidRange = errors.New("invalid line range")

// Range is a 1-based inclusive line range. The zero value selects the whole
// document. End == 0 means "to the end of the document".
type Range struct {
	Start int
	End   int
}

// Whole reports whether the range selects the whole document.
func (r Range) Whole() bool {
	return r.Start <= 1 && r.End == 0
}

func (r Range) String() string {
	if r.Whole() {
		return "all"
	}
	if r.End == 0 {
		return fmt.Sprintf("%d:", r.Start)
	}
	return fmt.Sprintf("%d:%d", r.Start, r.End)
}

// Parse parses "a:b", "a:", ":b" or "a". The empty string selects everything.
func Parse(expr string) (Range, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return Range{}, nil
	}

	startStr, endStr, hasColon := strings.Cut(expr, ":")
	if !hasColon {
		endStr = startStr
	}

	var r Range
	var err error
	if startStr != "" {
		if r.Start, err = strconv.Atoi(startStr); err != nil || r.Start < 1 {
			return Range{}, fmt.Errorf("%w: start %q", ErrInvalidRange, startStr)
		}
	}
	if endStr != "" {
		if r.End, err = strconv.Atoi(endStr); err != nil || r.End < 1 {
			return Range{}, fmt.Errorf("%w: end %q", ErrInvalidRange, endStr)
		}
	}
	if r.End != 0 && r.Start > r.End {
		return Range{}, fmt.Errorf("%w: %d > %d", ErrInvalidRange, r.Start, r.End)
	}
	return r, nil
}

// Parts is a document split around a selection.
type Parts struct {
	Head     string
	Selected string
	Tail     string
}

// Join reassembles the document with the (possibly transformed) selection.
func (p Parts) Join(selected string) string {
	return p.Head + selected + p.Tail
}

// Split divides text around the line range. Line terminators stay with the
// line they end. Bounds past the end of the text are clamped.
func Split(text string, r Range) Parts {
	if r.Whole() {
		return Parts{Selected: text}
	}

	start := max(r.Start, 1)
	headEnd := lineOffset(text, start-1)
	tailStart := len(text)
	if r.End != 0 {
		tailStart = lineOffset(text, r.End)
	}

	return Parts{
		Head:     text[:headEnd],
		Selected: text[headEnd:tailStart],
		Tail:     text[tailStart:],
	}
}

// lineOffset returns the byte offset just after the first n lines,
// or len(text) if the text has fewer lines.
func lineOffset(text string, n int) int {
	off := 0
	for i := 0; i < n; i++ {
		idx := strings.IndexByte(text[off:], '\n')
		if idx < 0 {
			return len(text)
		}
		off += idx + 1
	}
	return off
}
