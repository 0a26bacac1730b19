// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchplot draws line charts of grouped Google Benchmark
// records, with one line per benchmark family.
package benchplot

import (
	"errors"
	"fmt"
	"image/color"
	"strings"

	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-moremath/stats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"golang.org/x/benchplot/benchproc"
	"golang.org/x/benchplot/benchunit"
)

// ErrNoGroups is returned by New for a Grouping with no tables.
var ErrNoGroups = errors.New("no benchmark groups to plot")

// A Scale selects the y axis scale.
type Scale int

const (
	Linear Scale = iota
	Log
	// Auto uses a log scale when the plotted values are all
	// positive and span more than autoLogRatio.
	Auto
)

const autoLogRatio = 1e3

var scaleNames = []string{"linear", "log", "auto"}

func (s Scale) String() string {
	if 0 <= s && int(s) < len(scaleNames) {
		return scaleNames[s]
	}
	return fmt.Sprintf("Scale(%d)", int(s))
}

// ParseScale returns the Scale named s, as printed by Scale.String.
func ParseScale(s string) (Scale, error) {
	for i, name := range scaleNames {
		if s == name {
			return Scale(i), nil
		}
	}
	return 0, fmt.Errorf("unknown scale %q, want one of %v", s, scaleNames)
}

// YFields lists the columns that can be plotted on the y axis.
var YFields = []string{benchproc.ColRealTime, benchproc.ColCPUTime, benchproc.ColIterations}

// Options configures a chart.
type Options struct {
	Title  string
	XLabel string

	// YField is the group column plotted on the y axis. It must be
	// one of YFields.
	YField string

	// YLabel is the y axis label. If empty, it is YField with
	// underscores replaced by spaces.
	YLabel string

	Scale Scale

	// Width and Height give the size of rendered charts.
	// Zero means the default.
	Width, Height vg.Length
}

// DefaultOptions returns the options for the standard chart: real
// time against per-family index on a linear scale, titled
// "Benchmark".
func DefaultOptions() Options {
	return Options{
		Title:  "Benchmark",
		XLabel: "index",
		YField: benchproc.ColRealTime,
		Scale:  Linear,
	}
}

func (o Options) yLabel() string {
	if o.YLabel != "" {
		return o.YLabel
	}
	return strings.ReplaceAll(o.YField, "_", " ")
}

func (o Options) size() (w, h vg.Length) {
	w, h = o.Width, o.Height
	if w == 0 {
		w = 8 * vg.Inch
	}
	if h == 0 {
		h = 5 * vg.Inch
	}
	return
}

func isTimeField(f string) bool {
	return f == benchproc.ColRealTime || f == benchproc.ColCPUTime
}

// A Series is the data for one line of a chart.
type Series struct {
	ID     table.GroupID
	Label  string // name of the group's first record
	Family int

	// Unit is the time unit of the Y values, or "" if the y field
	// is not a time.
	Unit string

	XYs plotter.XYs
}

// Lines extracts one Series per table of g, in order. X is the
// "index" column and Y is the yField column. Time values are
// converted to the time unit of the first record of the first group,
// so that all series share a y axis.
func Lines(g table.Grouping, yField string) ([]Series, error) {
	if !validYField(yField) {
		return nil, fmt.Errorf("cannot plot %q, want one of %v", yField, YFields)
	}
	var out []Series
	unit := ""
	for _, gid := range g.Tables() {
		t := g.Table(gid)
		if t.Len() == 0 {
			return nil, fmt.Errorf("group %v is empty", gid)
		}
		names, ok := t.Column(benchproc.ColName).([]string)
		if !ok {
			return nil, missingColumn(gid, benchproc.ColName)
		}
		families, ok := t.Column(benchproc.ColFamilyIndex).([]int)
		if !ok {
			return nil, missingColumn(gid, benchproc.ColFamilyIndex)
		}
		xs, ok := t.Column(benchproc.ColIndex).([]int)
		if !ok {
			return nil, missingColumn(gid, benchproc.ColIndex)
		}
		ys, err := floats(t.Column(yField))
		if err != nil {
			return nil, fmt.Errorf("group %v: column %q: %w", gid, yField, err)
		}

		s := Series{ID: gid, Label: names[0], Family: families[0], XYs: make(plotter.XYs, t.Len())}
		for i := range xs {
			s.XYs[i].X = float64(xs[i])
			s.XYs[i].Y = ys[i]
		}

		if isTimeField(yField) {
			units, ok := t.Column(benchproc.ColTimeUnit).([]string)
			if !ok {
				return nil, missingColumn(gid, benchproc.ColTimeUnit)
			}
			if unit == "" {
				if !benchunit.Known(units[0]) {
					return nil, fmt.Errorf("group %v: unknown time unit %q", gid, units[0])
				}
				unit = units[0]
			}
			for i := range s.XYs {
				y, err := benchunit.Convert(s.XYs[i].Y, units[i], unit)
				if err != nil {
					return nil, fmt.Errorf("group %v: %w", gid, err)
				}
				s.XYs[i].Y = y
			}
			s.Unit = unit
		}
		out = append(out, s)
	}
	return out, nil
}

func validYField(f string) bool {
	for _, y := range YFields {
		if f == y {
			return true
		}
	}
	return false
}

func missingColumn(gid table.GroupID, col string) error {
	return fmt.Errorf("group %v has no %q column", gid, col)
}

func floats(col table.Slice) ([]float64, error) {
	switch col := col.(type) {
	case []float64:
		return col, nil
	case []int64:
		out := make([]float64, len(col))
		for i, v := range col {
			out[i] = float64(v)
		}
		return out, nil
	case nil:
		return nil, errors.New("missing")
	}
	return nil, fmt.Errorf("has type %T, want numbers", col)
}

// New returns a chart with one line per table of g, labeled in the
// legend by the group's benchmark name.
func New(g table.Grouping, opts Options) (*plot.Plot, error) {
	if len(g.Tables()) == 0 {
		return nil, ErrNoGroups
	}
	series, err := Lines(g, opts.YField)
	if err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = opts.XLabel
	p.Y.Label.Text = opts.yLabel()
	p.Legend.Top = true
	p.Legend.Left = true

	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	p.Add(grid)

	colors := lineColors(len(series))
	for i, s := range series {
		line, points, err := plotter.NewLinePoints(s.XYs)
		if err != nil {
			return nil, fmt.Errorf("group %v (%s): %w", s.ID, s.Label, err)
		}
		line.LineStyle.Color = colors[i]
		line.LineStyle.Width = vg.Points(1.5)
		points.GlyphStyle.Color = colors[i]
		points.GlyphStyle.Shape = draw.CircleGlyph{}
		points.GlyphStyle.Radius = vg.Points(2)
		p.Add(line, points)
		p.Legend.Add(s.Label, line, points)
	}

	logScale, err := useLog(opts.Scale, series)
	if err != nil {
		return nil, err
	}
	switch {
	case logScale:
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = plot.LogTicks{}
		if p.Y.Min == p.Y.Max {
			// A flat range would otherwise be widened by one
			// unit on each side, which may go below zero.
			p.Y.Min, p.Y.Max = p.Y.Min/10, p.Y.Max*10
		}
	case series[0].Unit != "":
		p.Y.Tick.Marker = timeTicks{series[0].Unit}
	}
	return p, nil
}

func useLog(scale Scale, series []Series) (bool, error) {
	var ys []float64
	for _, s := range series {
		for _, xy := range s.XYs {
			ys = append(ys, xy.Y)
		}
	}
	lo, hi := stats.Bounds(ys)
	switch scale {
	case Linear:
		return false, nil
	case Log:
		if !(lo > 0) {
			return false, fmt.Errorf("log scale needs positive values, have minimum %v", lo)
		}
		return true, nil
	case Auto:
		return lo > 0 && hi/lo > autoLogRatio, nil
	}
	return false, fmt.Errorf("unknown scale %v", scale)
}

// lineColors returns n colors from a qualitative palette, repeating
// if there are more lines than colors.
func lineColors(n int) []color.Color {
	pal, err := brewer.GetPalette(brewer.TypeQualitative, "Set1", 9)
	if err != nil {
		// Set1 is a fixed palette with 9 colors.
		panic(err)
	}
	all := pal.Colors()
	out := make([]color.Color, n)
	for i := range out {
		out[i] = all[i%len(all)]
	}
	return out
}

// timeTicks labels the default ticks with a common time unit.
type timeTicks struct {
	unit string
}

func (tt timeTicks) Ticks(min, max float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(min, max)
	var vals []float64
	for _, t := range ticks {
		if t.Label != "" {
			vals = append(vals, t.Value)
		}
	}
	s, err := benchunit.CommonScale(vals, tt.unit)
	if err != nil {
		return ticks
	}
	for i := range ticks {
		if ticks[i].Label != "" {
			ticks[i].Label = s.Format(ticks[i].Value)
		}
	}
	return ticks
}
