package output

import (
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLWriter buffers records and writes them as one YAML document on Close.
type YAMLWriter struct {
	w     io.Writer
	items []any
}

// NewYAMLWriter creates a YAML writer.
func NewYAMLWriter(w io.Writer) *YAMLWriter {
	return &YAMLWriter{w: w}
}

// Write buffers a single record.
func (y *YAMLWriter) Write(record any) error {
	y.items = append(y.items, record)
	return nil
}

// Close encodes the buffered records.
func (y *YAMLWriter) Close() error {
	if len(y.items) == 0 {
		return nil
	}

	enc := yaml.NewEncoder(y.w)
	enc.SetIndent(2)

	var err error
	if len(y.items) == 1 {
		err = enc.Encode(y.items[0])
	} else {
		err = enc.Encode(y.items)
	}
	y.items = nil
	if err != nil {
		return err
	}
	return enc.Close()
}
