// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchproc

import (
	"fmt"
	"strings"

	"golang.org/x/benchplot/gbench"
)

// Fields is the list of entry keys a Record is projected from.
var Fields = []string{
	"name",
	"family_index",
	"per_family_instance_index",
	"iterations",
	"real_time",
	"cpu_time",
	"time_unit",
}

// A Record is the projection of one benchmark run.
type Record struct {
	// Name is the base name of the benchmark: the entry name up to
	// the first "/". See ShortName.
	Name string

	// FamilyIndex identifies the benchmark family. All runs of one
	// BENCHMARK registration share a family.
	FamilyIndex int

	// Index is the position of the run within its family. It comes
	// from the entry's "per_family_instance_index".
	Index int

	Iterations int64
	RealTime   float64
	CPUTime    float64
	TimeUnit   string
}

// An EntryError reports a benchmark entry that could not be
// projected.
type EntryError struct {
	Entry int    // index in the input
	Name  string // entry name, if it has one
	Err   error  // typically a *gbench.FieldError
}

func (e *EntryError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("benchmark %d: %v", e.Entry, e.Err)
	}
	return fmt.Sprintf("benchmark %d (%s): %v", e.Entry, e.Name, e.Err)
}

func (e *EntryError) Unwrap() error {
	return e.Err
}

// ShortName returns the part of a benchmark name before the first
// "/", which strips the arguments of parameterized benchmarks. If
// name has no "/", it returns name.
func ShortName(name string) string {
	if i := strings.IndexByte(name, '/'); i >= 0 {
		return name[:i]
	}
	return name
}

// Project returns one Record for each entry, in the same order. It
// stops at the first entry that lacks one of Fields or has one of the
// wrong type, and returns an *EntryError.
func Project(entries []gbench.Entry) ([]Record, error) {
	recs := make([]Record, len(entries))
	for i, e := range entries {
		rec, err := project(e)
		if err != nil {
			return nil, &EntryError{i, e.Name(), err}
		}
		recs[i] = rec
	}
	return recs, nil
}

func project(e gbench.Entry) (rec Record, err error) {
	// Check fields in a fixed order so the first missing one is
	// reported deterministically.
	var name string
	if name, err = e.String("name"); err != nil {
		return
	}
	rec.Name = ShortName(name)
	if rec.FamilyIndex, err = e.Int("family_index"); err != nil {
		return
	}
	if rec.Index, err = e.Int("per_family_instance_index"); err != nil {
		return
	}
	if rec.Iterations, err = e.Int64("iterations"); err != nil {
		return
	}
	if rec.RealTime, err = e.Float("real_time"); err != nil {
		return
	}
	if rec.CPUTime, err = e.Float("cpu_time"); err != nil {
		return
	}
	rec.TimeUnit, err = e.String("time_unit")
	return
}

// Map returns r as a map keyed by the projected field names. The
// renamed field appears as "index".
func (r Record) Map() map[string]any {
	return map[string]any{
		"name":         r.Name,
		"family_index": r.FamilyIndex,
		"index":        r.Index,
		"iterations":   r.Iterations,
		"real_time":    r.RealTime,
		"cpu_time":     r.CPUTime,
		"time_unit":    r.TimeUnit,
	}
}
