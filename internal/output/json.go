package output

import (
	"bufio"
	"encoding/json"
	"io"
)

// JSONWriter buffers records and writes them as one JSON document on Close.
// A single record is written as an object, several as an array.
type JSONWriter struct {
	w      io.Writer
	indent string
	items  []any
}

// NewJSONWriter creates a JSON writer. An empty indent produces compact output.
func NewJSONWriter(w io.Writer, indent string) *JSONWriter {
	return &JSONWriter{w: w, indent: indent}
}

// Write buffers a single record.
func (j *JSONWriter) Write(record any) error {
	j.items = append(j.items, record)
	return nil
}

// Close encodes the buffered records.
func (j *JSONWriter) Close() error {
	if len(j.items) == 0 {
		return nil
	}

	enc := json.NewEncoder(j.w)
	enc.SetIndent("", j.indent)

	var err error
	if len(j.items) == 1 {
		err = enc.Encode(j.items[0])
	} else {
		err = enc.Encode(j.items)
	}
	j.items = nil
	return err
}

// JSONLWriter writes newline-delimited JSON (JSONL), one record per line.
type JSONLWriter struct {
	w *bufio.Writer
}

// NewJSONLWriter creates a JSONL writer.
func NewJSONLWriter(w io.Writer) *JSONLWriter {
	return &JSONLWriter{w: bufio.NewWriter(w)}
}

// Write writes a single record as a JSON line.
func (j *JSONLWriter) Write(record any) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	if _, err := j.w.Write(data); err != nil {
		return err
	}
	if err := j.w.WriteByte('\n'); err != nil {
		return err
	}
	return j.w.Flush()
}

// Close flushes the writer.
func (j *JSONLWriter) Close() error {
	return j.w.Flush()
}
