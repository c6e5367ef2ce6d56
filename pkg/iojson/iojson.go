// Package iojson reads and writes the JSON documents the CLI exchanges with
// scripts: --json output on stdout and JSON request bodies from a file or
// stdin.
package iojson

import (
	"encoding/json"
	"fmt"
	"io"
)

// WriteWith writes obj to w as indented JSON. Encoding failures are reported
// to ew as a JSON error object so scripts reading w never see partial output.
func WriteWith(w io.Writer, ew io.Writer, obj any) error {
	bits, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		msg, _ := json.Marshal(err.Error())
		_, werr := fmt.Fprintf(ew, `{"message":"encode output","data":{"json_error":%s}}`+"\n", msg)
		if werr != nil {
			return werr
		}
		return fmt.Errorf("encode output: %w", err)
	}

	_, err = fmt.Fprintln(w, string(bits))
	return err
}

// Decode reads a single JSON document from r into a T. Unknown fields are
// rejected so typos in hand-written input fail loudly.
func Decode[T any](r io.Reader) (T, error) {
	var out T

	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return out, fmt.Errorf("decode JSON: %w", err)
	}
	return out, nil
}
