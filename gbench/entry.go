// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gbench

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// An Entry is one object from a document's "benchmarks" array.
//
// Numbers are held as json.Number. The typed accessors return a
// *FieldError if the key is absent or has the wrong type.
type Entry map[string]any

// ErrMissing is wrapped by a *FieldError when the key is absent.
var ErrMissing = errors.New("missing")

// A FieldError reports a problem with one field of an Entry.
type FieldError struct {
	Key string
	Err error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q: %v", e.Key, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Get returns the raw value of key and whether it is present.
func (e Entry) Get(key string) (any, bool) {
	v, ok := e[key]
	return v, ok
}

func (e Entry) lookup(key, want string) (any, error) {
	v, ok := e[key]
	if !ok {
		return nil, &FieldError{key, ErrMissing}
	}
	if v == nil {
		return nil, e.typeError(key, v, want)
	}
	return v, nil
}

func (e Entry) typeError(key string, v any, want string) error {
	return &FieldError{key, fmt.Errorf("is %s, want %s", kind(v), want)}
}

// String returns the string value of key.
func (e Entry) String(key string) (string, error) {
	v, err := e.lookup(key, "string")
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", e.typeError(key, v, "string")
	}
	return s, nil
}

// Int64 returns the integer value of key. Numbers written with a
// fraction or exponent are accepted if they are integral.
func (e Entry) Int64(key string) (int64, error) {
	v, err := e.lookup(key, "integer")
	if err != nil {
		return 0, err
	}
	n, ok := v.(json.Number)
	if !ok {
		return 0, e.typeError(key, v, "integer")
	}
	if i, err := n.Int64(); err == nil {
		return i, nil
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return 0, &FieldError{key, fmt.Errorf("%s is not an integer", n)}
	}
	return int64(f), nil
}

// Int is like Int64 but returns an int.
func (e Entry) Int(key string) (int, error) {
	i, err := e.Int64(key)
	if err != nil {
		return 0, err
	}
	if int64(int(i)) != i {
		return 0, &FieldError{key, fmt.Errorf("%d overflows int", i)}
	}
	return int(i), nil
}

// Float returns the numeric value of key.
func (e Entry) Float(key string) (float64, error) {
	v, err := e.lookup(key, "number")
	if err != nil {
		return 0, err
	}
	n, ok := v.(json.Number)
	if !ok {
		return 0, e.typeError(key, v, "number")
	}
	f, err := n.Float64()
	if err != nil {
		return 0, &FieldError{key, err}
	}
	return f, nil
}

// Bool returns the boolean value of key.
func (e Entry) Bool(key string) (bool, error) {
	v, err := e.lookup(key, "boolean")
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, e.typeError(key, v, "boolean")
	}
	return b, nil
}

// Name returns the entry's "name", or "" if it has none.
func (e Entry) Name() string {
	s, _ := e.String("name")
	return s
}
