package ast

import (
	"encoding/json"
	"fmt"
	"io"
)

// Decode reads a JSON-serialised File, the interchange format external
// parsers use to hand ASTs across a process boundary.
func Decode(r io.Reader) (*File, error) {
	var f File
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decoding ast: %w", err)
	}
	return &f, nil
}

// Encode writes a File as JSON.
func Encode(w io.Writer, f *File) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("encoding ast: %w", err)
	}
	return nil
}
