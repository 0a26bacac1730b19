// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gbench reads the JSON output of the Google Benchmark
// library, as produced by --benchmark_format=json or
// --benchmark_out=<file>.
//
// A document consists of an optional "context" object describing the
// machine and binary that ran the benchmarks, and a "benchmarks"
// array with one object per benchmark run. The reader keeps each run
// as a generic Entry so that callers can decide which fields they
// care about; see package benchproc for a typed projection.
package gbench

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// A Document is a parsed Google Benchmark JSON file.
type Document struct {
	// Context describes the environment the benchmarks ran in.
	// It is the zero Context if the input had no "context" object.
	Context Context

	// Benchmarks are the entries of the "benchmarks" array, in
	// input order.
	Benchmarks []Entry
}

// A Context is the "context" object of a document.
//
// Only a few well-known keys are decoded into fields. All keys,
// including those, are available in Raw.
type Context struct {
	Date             string
	HostName         string
	Executable       string
	LibraryBuildType string
	NumCPUs          int
	MHzPerCPU        int

	Raw map[string]any
}

// A SyntaxError reports malformed input. Offset is the byte offset in
// the input at which the problem was detected, or -1 if unknown.
type SyntaxError struct {
	FileName string
	Offset   int64
	Msg      string
}

func (e *SyntaxError) Error() string {
	if e.Offset < 0 {
		return fmt.Sprintf("%s: %s", e.FileName, e.Msg)
	}
	return fmt.Sprintf("%s:#%d: %s", e.FileName, e.Offset, e.Msg)
}

// Load reads and parses the local file at path.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f, path)
}

// Read parses a whole Google Benchmark JSON document from r.
// fileName is used in error messages; it is purely diagnostic.
func Read(r io.Reader, fileName string) (*Document, error) {
	if fileName == "" {
		fileName = "<unknown>"
	}
	dec := json.NewDecoder(r)
	// Keep integers such as iterations exact.
	dec.UseNumber()

	var top any
	if err := dec.Decode(&top); err != nil {
		return nil, decodeError(fileName, dec, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, &SyntaxError{fileName, dec.InputOffset(), "unexpected data after top-level value"}
	}

	obj, ok := top.(map[string]any)
	if !ok {
		return nil, &SyntaxError{fileName, -1, fmt.Sprintf("top-level value is %s, want object", kind(top))}
	}

	doc := new(Document)
	if c, ok := obj["context"]; ok {
		m, ok := c.(map[string]any)
		if !ok {
			return nil, &SyntaxError{fileName, -1, fmt.Sprintf("context is %s, want object", kind(c))}
		}
		doc.Context = newContext(m)
	}

	b, ok := obj["benchmarks"]
	if !ok {
		return nil, &SyntaxError{fileName, -1, `missing "benchmarks" field`}
	}
	arr, ok := b.([]any)
	if !ok {
		return nil, &SyntaxError{fileName, -1, fmt.Sprintf("benchmarks is %s, want array", kind(b))}
	}
	doc.Benchmarks = make([]Entry, len(arr))
	for i, v := range arr {
		m, ok := v.(map[string]any)
		if !ok {
			return nil, &SyntaxError{fileName, -1, fmt.Sprintf("benchmarks[%d] is %s, want object", i, kind(v))}
		}
		doc.Benchmarks[i] = Entry(m)
	}
	return doc, nil
}

func decodeError(fileName string, dec *json.Decoder, err error) error {
	var se *json.SyntaxError
	switch {
	case errors.As(err, &se):
		return &SyntaxError{fileName, se.Offset, se.Error()}
	case err == io.EOF:
		return &SyntaxError{fileName, 0, "empty input"}
	case err == io.ErrUnexpectedEOF:
		return &SyntaxError{fileName, dec.InputOffset(), "unexpected end of input"}
	}
	// I/O error from the underlying reader.
	return err
}

func newContext(m map[string]any) Context {
	e := Entry(m)
	c := Context{Raw: m}
	c.Date, _ = e.String("date")
	c.HostName, _ = e.String("host_name")
	c.Executable, _ = e.String("executable")
	c.LibraryBuildType, _ = e.String("library_build_type")
	c.NumCPUs, _ = e.Int("num_cpus")
	c.MHzPerCPU, _ = e.Int("mhz_per_cpu")
	return c
}

// kind describes the JSON kind of a decoded value.
func kind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case json.Number, float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	return fmt.Sprintf("%T", v)
}

// String returns a short description of d, suitable for log output.
func (d *Document) String() string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%d benchmarks", len(d.Benchmarks))
	if d.Context.Executable != "" {
		fmt.Fprintf(&buf, " from %s", d.Context.Executable)
	}
	if d.Context.Date != "" {
		fmt.Fprintf(&buf, " (%s)", d.Context.Date)
	}
	return buf.String()
}
