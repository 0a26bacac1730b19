// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchunit converts and formats the time units used by
// Google Benchmark results ("ns", "us", "ms" and "s").
package benchunit

import (
	"fmt"
	"math"
	"strconv"
)

// factors gives the number of seconds in one of each unit.
var factors = map[string]float64{
	"s":  1,
	"ms": 1e-3,
	"us": 1e-6,
	"ns": 1e-9,
}

// Known reports whether unit is a Google Benchmark time unit.
func Known(unit string) bool {
	_, ok := factors[unit]
	return ok
}

// Tidy converts value in unit to seconds.
func Tidy(value float64, unit string) (float64, error) {
	f, ok := factors[unit]
	if !ok {
		return 0, fmt.Errorf("unknown time unit %q", unit)
	}
	return value * f, nil
}

// Convert converts value from unit from to unit to.
func Convert(value float64, from, to string) (float64, error) {
	if from == to {
		return value, nil
	}
	ff, ok := factors[from]
	if !ok {
		return 0, fmt.Errorf("unknown time unit %q", from)
	}
	tf, ok := factors[to]
	if !ok {
		return 0, fmt.Errorf("unknown time unit %q", to)
	}
	return value * ff / tf, nil
}

// A Scaler formats values of one unit in a possibly different,
// more readable unit.
type Scaler struct {
	Prec   int     // Digits after the decimal point
	Factor float64 // Multiplier from the input unit to Unit
	Unit   string  // Displayed unit ("ns", "µs", ...)
}

// Format formats val, given in the Scaler's input unit, followed by
// the display unit.
func (s Scaler) Format(val float64) string {
	buf := make([]byte, 0, 20)
	buf = strconv.AppendFloat(buf, val*s.Factor, 'f', s.Prec, 64)
	buf = append(buf, s.Unit...)
	return string(buf)
}

var display = []struct {
	unit string
	secs float64
}{
	{"s", 1},
	{"ms", 1e-3},
	{"µs", 1e-6},
	{"ns", 1e-9},
}

// CommonScale returns a Scaler that formats all of vals, given in
// unit, in the largest time unit in which the largest magnitude is at
// least 1. Precision is chosen so that that magnitude shows at least
// three significant digits.
func CommonScale(vals []float64, unit string) (Scaler, error) {
	f, ok := factors[unit]
	if !ok {
		return Scaler{}, fmt.Errorf("unknown time unit %q", unit)
	}
	max := 0.0
	for _, v := range vals {
		if a := math.Abs(v); a > max && !math.IsInf(a, 0) {
			max = a
		}
	}
	secs := max * f
	d := display[len(display)-1]
	for _, cand := range display {
		if secs >= cand.secs {
			d = cand
			break
		}
	}
	scaled := secs / d.secs
	prec := 0
	switch {
	case scaled == 0:
	case scaled < 10:
		prec = 2
	case scaled < 100:
		prec = 1
	}
	return Scaler{Prec: prec, Factor: f / d.secs, Unit: d.unit}, nil
}
