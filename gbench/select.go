// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gbench

import "errors"

// A Filter reports whether an Entry should be kept.
type Filter func(Entry) bool

// Select returns the entries of d accepted by every filter, in input
// order. With no filters, it returns d.Benchmarks.
func (d *Document) Select(filters ...Filter) []Entry {
	if len(filters) == 0 {
		return d.Benchmarks
	}
	var out []Entry
next:
	for _, e := range d.Benchmarks {
		for _, f := range filters {
			if !f(e) {
				continue next
			}
		}
		out = append(out, e)
	}
	return out
}

// Iterations accepts individual runs and rejects the aggregate
// entries (mean, median, stddev, ...) written when a benchmark has
// repetitions. Entries without a "run_type" are from older library
// versions and are always individual runs.
func Iterations(e Entry) bool {
	rt, err := e.String("run_type")
	return errors.Is(err, ErrMissing) || rt == "iteration"
}

// Aggregate returns a Filter accepting only the aggregate entries
// named name, such as "mean" or "median".
func Aggregate(name string) Filter {
	return func(e Entry) bool {
		if rt, _ := e.String("run_type"); rt != "aggregate" {
			return false
		}
		an, _ := e.String("aggregate_name")
		return an == name
	}
}

// NoErrors rejects runs that were skipped with an error.
func NoErrors(e Entry) bool {
	failed, _ := e.Bool("error_occurred")
	return !failed
}
