// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchproc

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"golang.org/x/benchplot/gbench"
)

func mustRead(t *testing.T, input string) *gbench.Document {
	t.Helper()
	doc, err := gbench.Read(strings.NewReader(input), "test")
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

// threeRuns is a document with two families: A with two runs and B
// with one.
const threeRuns = `{"benchmarks": [
	{"name":"A/1","family_index":0,"per_family_instance_index":0,"iterations":1,"real_time":1.0,"cpu_time":1.0,"time_unit":"ns"},
	{"name":"A/2","family_index":0,"per_family_instance_index":1,"iterations":1,"real_time":2.0,"cpu_time":2.0,"time_unit":"ns"},
	{"name":"B/1","family_index":1,"per_family_instance_index":0,"iterations":1,"real_time":5.0,"cpu_time":5.0,"time_unit":"ns"}
]}`

func TestShortName(t *testing.T) {
	for name, want := range map[string]string{
		"BM_Foo/256/iterations:1": "BM_Foo",
		"BM_Foo":                  "BM_Foo",
		"BM_Foo/":                 "BM_Foo",
		"/x":                      "",
		"":                        "",
	} {
		if got := ShortName(name); got != want {
			t.Errorf("ShortName(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestProject(t *testing.T) {
	doc := mustRead(t, threeRuns)
	recs, err := Project(doc.Benchmarks)
	if err != nil {
		t.Fatal(err)
	}
	want := []Record{
		{"A", 0, 0, 1, 1, 1, "ns"},
		{"A", 0, 1, 1, 2, 2, "ns"},
		{"B", 1, 0, 1, 5, 5, "ns"},
	}
	if diff := cmp.Diff(want, recs); diff != "" {
		t.Errorf("Project mismatch (-want +got):\n%s", diff)
	}
}

func TestProjectKeepsOrderAndLength(t *testing.T) {
	doc, err := gbench.Load("../gbench/testdata/avltree.json")
	if err != nil {
		t.Fatal(err)
	}
	recs, err := Project(doc.Benchmarks)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != len(doc.Benchmarks) {
		t.Fatalf("got %d records from %d entries", len(recs), len(doc.Benchmarks))
	}
	for i, e := range doc.Benchmarks {
		idx, _ := e.Int("per_family_instance_index")
		if recs[i].Name != ShortName(e.Name()) || recs[i].Index != idx {
			t.Errorf("record %d = %+v does not match entry %q", i, recs[i], e.Name())
		}
	}
	if recs[0].Iterations != 497787934 {
		t.Errorf("record 0 iterations = %d, want 497787934", recs[0].Iterations)
	}
}

func TestProjectDoesNotAlias(t *testing.T) {
	doc := mustRead(t, threeRuns)
	if _, err := Project(doc.Benchmarks); err != nil {
		t.Fatal(err)
	}
	// The entries themselves are left untouched.
	e := doc.Benchmarks[0]
	if e.Name() != "A/1" {
		t.Errorf("entry name changed to %q", e.Name())
	}
	if _, ok := e.Get("per_family_instance_index"); !ok {
		t.Errorf("entry lost per_family_instance_index")
	}
	if _, ok := e.Get("index"); ok {
		t.Errorf("entry gained index")
	}
}

func TestRecordMap(t *testing.T) {
	m := Record{"A", 0, 3, 10, 1.5, 1.25, "us"}.Map()
	if _, ok := m["per_family_instance_index"]; ok {
		t.Errorf("Map contains per_family_instance_index")
	}
	if m["index"] != 3 {
		t.Errorf("Map index = %v, want 3", m["index"])
	}
	if len(m) != len(Fields) {
		t.Errorf("Map has %d keys, want %d", len(m), len(Fields))
	}
}

func TestProjectMissingField(t *testing.T) {
	doc := mustRead(t, `{"benchmarks": [
		{"name":"A/1","family_index":0,"per_family_instance_index":0,"iterations":1,"real_time":1.0,"cpu_time":1.0,"time_unit":"ns"},
		{"name":"A/2","family_index":0,"per_family_instance_index":1,"iterations":1,"real_time":2.0,"time_unit":"ns"}
	]}`)
	recs, err := Project(doc.Benchmarks)
	if err == nil {
		t.Fatalf("got %d records, want error", len(recs))
	}
	var ee *EntryError
	if !errors.As(err, &ee) {
		t.Fatalf("got %T, want *EntryError", err)
	}
	if ee.Entry != 1 || ee.Name != "A/2" {
		t.Errorf("got entry %d (%s), want 1 (A/2)", ee.Entry, ee.Name)
	}
	var fe *gbench.FieldError
	if !errors.As(err, &fe) || fe.Key != "cpu_time" {
		t.Errorf("got %v, want missing cpu_time", err)
	}
	if !errors.Is(err, gbench.ErrMissing) {
		t.Errorf("error %v does not wrap gbench.ErrMissing", err)
	}
	want := `benchmark 1 (A/2): field "cpu_time": missing`
	if err.Error() != want {
		t.Errorf("got %q, want %q", err, want)
	}
}

func TestProjectEveryField(t *testing.T) {
	full := gbench.Entry{}
	for k, v := range mustRead(t, threeRuns).Benchmarks[0] {
		full[k] = v
	}
	for _, key := range Fields {
		e := gbench.Entry{}
		for k, v := range full {
			if k != key {
				e[k] = v
			}
		}
		_, err := Project([]gbench.Entry{e})
		var fe *gbench.FieldError
		if !errors.As(err, &fe) || fe.Key != key {
			t.Errorf("without %s: got %v, want missing %s", key, err, key)
		}
	}
}

func TestProjectWrongType(t *testing.T) {
	doc := mustRead(t, `{"benchmarks": [
		{"name":"A/1","family_index":"zero","per_family_instance_index":0,"iterations":1,"real_time":1.0,"cpu_time":1.0,"time_unit":"ns"}
	]}`)
	_, err := Project(doc.Benchmarks)
	if err == nil || errors.Is(err, gbench.ErrMissing) {
		t.Fatalf("got %v, want type error", err)
	}
	if !strings.Contains(err.Error(), `"family_index": is string, want integer`) {
		t.Errorf("got %q", err)
	}
}
