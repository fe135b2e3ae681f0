// Package output writes per-file reports (strip stats, inspection results)
// in the format chosen on the command line.
package output

import (
	"fmt"
	"io"
	"strings"
)

// Format represents output format types.
type Format string

const (
	FormatText  Format = "text"
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
	FormatYAML  Format = "yaml"
)

// ParseFormat validates a format name. The empty string selects text.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatJSONL, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", name)
	}
}

// Writer handles report serialization. Buffered formats only emit on Close.
type Writer interface {
	// Write outputs (or buffers) a single record.
	Write(record any) error

	// Close writes anything still buffered.
	Close() error
}

// NewWriter creates a writer for the specified format.
func NewWriter(w io.Writer, format Format) (Writer, error) {
	switch format {
	case FormatText, "":
		return NewTextWriter(w), nil
	case FormatJSON:
		return NewJSONWriter(w, "  "), nil
	case FormatJSONL:
		return NewJSONLWriter(w), nil
	case FormatYAML:
		return NewYAMLWriter(w), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// TextWriter writes records as text, one block per record. Records that
// implement fmt.Stringer control their own rendering.
type TextWriter struct {
	w io.Writer
}

// NewTextWriter creates a text writer.
func NewTextWriter(w io.Writer) *TextWriter {
	return &TextWriter{w: w}
}

// Write renders a single record.
func (t *TextWriter) Write(record any) error {
	var s string
	if str, ok := record.(fmt.Stringer); ok {
		s = str.String()
	} else {
		s = fmt.Sprintf("%+v", record)
	}
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	_, err := io.WriteString(t.w, s)
	return err
}

// Close is a no-op; text is written immediately.
func (t *TextWriter) Close() error {
	return nil
}
