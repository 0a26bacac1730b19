// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchproc

import (
	"fmt"
	"io"

	"github.com/aclements/go-gg/table"
)

// Column names of a group table, in column order.
const (
	ColName        = "name"
	ColFamilyIndex = "family_index"
	ColIndex       = "index"
	ColIterations  = "iterations"
	ColRealTime    = "real_time"
	ColCPUTime     = "cpu_time"
	ColTimeUnit    = "time_unit"
)

// An Order says how Group treats records of one family that are not
// adjacent in the input.
type Order int

const (
	// CheckOrder rejects input in which a family reappears after
	// another family has started.
	CheckOrder Order = iota

	// SortFamilies stably sorts records by family index before
	// grouping, so every family forms exactly one group.
	SortFamilies

	// Contiguous groups each maximal run of adjacent records with
	// the same family index. A family that is split in the input
	// produces several groups.
	Contiguous
)

var orderNames = []string{"check", "sort", "contiguous"}

func (o Order) String() string {
	if 0 <= o && int(o) < len(orderNames) {
		return orderNames[o]
	}
	return fmt.Sprintf("Order(%d)", int(o))
}

// ParseOrder returns the Order named s, as printed by Order.String.
func ParseOrder(s string) (Order, error) {
	for i, name := range orderNames {
		if s == name {
			return Order(i), nil
		}
	}
	return 0, fmt.Errorf("unknown order %q, want one of %v", s, orderNames)
}

// An OrderError reports a family whose records are not adjacent.
type OrderError struct {
	Family int
	First  int // index of the family's first record
	Again  int // index of the record that restarts the family
}

func (e *OrderError) Error() string {
	return fmt.Sprintf("benchmark family %d restarts at record %d after other families (first seen at record %d); input is not grouped by family", e.Family, e.Again, e.First)
}

// Group partitions recs into groups of records sharing a family
// index, preserving input order within and across groups. Each group
// is a table with the columns ColName through ColTimeUnit, identified
// by a child of table.RootGroupID labeled with the family index.
//
// How non-adjacent records of a family are treated depends on order.
// If recs is empty, Group returns a Grouping with no tables.
func Group(recs []Record, order Order) (table.Grouping, error) {
	switch order {
	case CheckOrder:
		if err := checkOrder(recs); err != nil {
			return nil, err
		}
	case SortFamilies:
		recs = sortFamilies(recs)
	case Contiguous:
	default:
		return nil, fmt.Errorf("unknown order %v", order)
	}

	var gb table.GroupingBuilder
	for start := 0; start < len(recs); {
		end := start + 1
		for end < len(recs) && recs[end].FamilyIndex == recs[start].FamilyIndex {
			end++
		}
		// Extend makes a distinct GroupID even if a family
		// appears twice.
		gid := table.RootGroupID.Extend(recs[start].FamilyIndex)
		gb.Add(gid, NewTable(recs[start:end]))
		start = end
	}
	return gb.Done(), nil
}

func checkOrder(recs []Record) error {
	first := make(map[int]int)
	for i, rec := range recs {
		if i > 0 && recs[i-1].FamilyIndex == rec.FamilyIndex {
			continue
		}
		if j, ok := first[rec.FamilyIndex]; ok {
			return &OrderError{rec.FamilyIndex, j, i}
		}
		first[rec.FamilyIndex] = i
	}
	return nil
}

func sortFamilies(recs []Record) []Record {
	if len(recs) == 0 {
		return recs
	}
	// table.SortBy is a stable sort, so records keep their input
	// order within a family.
	t := table.SortBy(NewTable(recs), ColFamilyIndex)
	return Records(t.Table(table.RootGroupID))
}

// NewTable returns a table with one row per record.
func NewTable(recs []Record) *table.Table {
	var (
		names    = make([]string, len(recs))
		families = make([]int, len(recs))
		indexes  = make([]int, len(recs))
		iters    = make([]int64, len(recs))
		realTime = make([]float64, len(recs))
		cpuTime  = make([]float64, len(recs))
		units    = make([]string, len(recs))
	)
	for i, r := range recs {
		names[i] = r.Name
		families[i] = r.FamilyIndex
		indexes[i] = r.Index
		iters[i] = r.Iterations
		realTime[i] = r.RealTime
		cpuTime[i] = r.CPUTime
		units[i] = r.TimeUnit
	}
	return new(table.Builder).
		Add(ColName, names).
		Add(ColFamilyIndex, families).
		Add(ColIndex, indexes).
		Add(ColIterations, iters).
		Add(ColRealTime, realTime).
		Add(ColCPUTime, cpuTime).
		Add(ColTimeUnit, units).
		Done()
}

// Records returns the rows of a table made by NewTable or Group.
func Records(t *table.Table) []Record {
	var (
		names    = t.MustColumn(ColName).([]string)
		families = t.MustColumn(ColFamilyIndex).([]int)
		indexes  = t.MustColumn(ColIndex).([]int)
		iters    = t.MustColumn(ColIterations).([]int64)
		realTime = t.MustColumn(ColRealTime).([]float64)
		cpuTime  = t.MustColumn(ColCPUTime).([]float64)
		units    = t.MustColumn(ColTimeUnit).([]string)
	)
	recs := make([]Record, t.Len())
	for i := range recs {
		recs[i] = Record{names[i], families[i], indexes[i], iters[i], realTime[i], cpuTime[i], units[i]}
	}
	return recs
}

// A GroupInfo summarizes one group.
type GroupInfo struct {
	ID       table.GroupID
	Name     string // name of the first record
	Family   int
	Len      int
	TimeUnit string // time unit of the first record
}

// Summary returns a GroupInfo for each table of g, in order.
func Summary(g table.Grouping) []GroupInfo {
	var infos []GroupInfo
	for _, gid := range g.Tables() {
		t := g.Table(gid)
		info := GroupInfo{ID: gid, Len: t.Len()}
		if t.Len() > 0 {
			info.Name = t.MustColumn(ColName).([]string)[0]
			info.Family = t.MustColumn(ColFamilyIndex).([]int)[0]
			info.TimeUnit = t.MustColumn(ColTimeUnit).([]string)[0]
		}
		infos = append(infos, info)
	}
	return infos
}

// Fprint writes the rows of g to w as a text table, with a header
// line before each group.
func Fprint(w io.Writer, g table.Grouping) error {
	if len(g.Tables()) == 0 {
		_, err := fmt.Fprintln(w, "no benchmarks")
		return err
	}
	return table.Fprint(w, g)
}
