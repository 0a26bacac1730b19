// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Benchplot draws a line chart of Google Benchmark results.
//
// Usage:
//
//	benchplot [flags] [input.json]
//
// The input is the JSON written by a Google Benchmark binary run with
// --benchmark_format=json or --benchmark_out=file. It may be a local
// file or a gs://bucket/object path. The default input is
// 1536a-benchmark.json.
//
// Runs are grouped by benchmark family and each family is drawn as one
// line, with the run's index within its family on the x axis and its
// real time (or -y field) on the y axis.
//
// With -o, benchplot writes the chart to a file whose format is given
// by its extension (png, svg, pdf, jpg, tiff, eps). Otherwise it serves
// the chart over HTTP at the -http address until interrupted.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"os/signal"

	"google.golang.org/api/option"

	"golang.org/x/benchplot/benchplot"
	"golang.org/x/benchplot/benchproc"
	"golang.org/x/benchplot/gbench"
)

const defaultPath = "1536a-benchmark.json"

// Config is the configuration of one benchplot run.
type Config struct {
	Path   string // input file or gs:// path
	YField string // column on the y axis
	Title  string
	Output string // if non-empty, write the chart here instead of serving it
	HTTP   string // viewer listen address

	Order benchproc.Order
	Scale benchplot.Scale

	Filter    string // "all", "iterations" or "ok"
	Aggregate string // if non-empty, plot only these aggregate entries

	Anonymous bool // read gs:// paths without credentials
	Table     bool // print the groups to stdout
	Verbose   bool
}

var filterNames = []string{"all", "iterations", "ok"}

func usage(fs *flag.FlagSet) func() {
	return func() {
		fmt.Fprintf(fs.Output(), `Usage: benchplot [flags] [input.json]

benchplot reads Google Benchmark JSON results, groups runs by benchmark
family and draws one line per family. The default input is %s.

`, defaultPath)
		fs.PrintDefaults()
	}
}

// A flagError is a flag parsing error. The FlagSet has already
// reported it, along with the usage message.
type flagError struct {
	err error
}

func (e *flagError) Error() string { return e.err.Error() }
func (e *flagError) Unwrap() error { return e.err }

// parseArgs parses command line arguments into a Config. Usage and
// flag errors are written to w.
func parseArgs(args []string, w io.Writer) (Config, error) {
	fs := flag.NewFlagSet("benchplot", flag.ContinueOnError)
	fs.SetOutput(w)
	fs.Usage = usage(fs)

	var cfg Config
	def := benchplot.DefaultOptions()
	fs.StringVar(&cfg.YField, "y", def.YField, "plot `field` on the y axis: real_time, cpu_time or iterations")
	fs.StringVar(&cfg.Title, "title", def.Title, "chart `title`")
	fs.StringVar(&cfg.Output, "o", "", "write the chart to `file` instead of serving it")
	fs.StringVar(&cfg.HTTP, "http", "localhost:8080", "serve the chart on `addr`")
	order := fs.String("order", benchproc.CheckOrder.String(), "handling of families split in the input: check, sort or contiguous")
	scale := fs.String("scale", benchplot.Linear.String(), "y axis `scale`: linear, log or auto")
	fs.StringVar(&cfg.Filter, "filter", "all", "runs to plot: all, iterations (no aggregates) or ok (iterations without errors)")
	fs.StringVar(&cfg.Aggregate, "aggregate", "", "plot only aggregate entries called `name`, such as mean or median")
	fs.BoolVar(&cfg.Anonymous, "anonymous", false, "read gs:// inputs without credentials")
	fs.BoolVar(&cfg.Table, "table", false, "print the benchmark groups as a table")
	fs.BoolVar(&cfg.Verbose, "v", false, "print verbose log messages")
	if err := fs.Parse(args); err != nil {
		return Config{}, &flagError{err}
	}

	switch fs.NArg() {
	case 0:
		cfg.Path = defaultPath
	case 1:
		cfg.Path = fs.Arg(0)
	default:
		fs.Usage()
		return Config{}, fmt.Errorf("expected at most one input, got %d", fs.NArg())
	}

	var err error
	if cfg.Order, err = benchproc.ParseOrder(*order); err != nil {
		return Config{}, err
	}
	if cfg.Scale, err = benchplot.ParseScale(*scale); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (cfg Config) filters() ([]gbench.Filter, error) {
	if cfg.Aggregate != "" {
		if cfg.Filter != "all" {
			return nil, fmt.Errorf("-aggregate cannot be combined with -filter %s", cfg.Filter)
		}
		return []gbench.Filter{gbench.Aggregate(cfg.Aggregate)}, nil
	}
	switch cfg.Filter {
	case "all":
		return nil, nil
	case "iterations":
		return []gbench.Filter{gbench.Iterations}, nil
	case "ok":
		return []gbench.Filter{gbench.Iterations, gbench.NoErrors}, nil
	}
	return nil, fmt.Errorf("unknown filter %q, want one of %v", cfg.Filter, filterNames)
}

func (cfg Config) plotOptions() benchplot.Options {
	opts := benchplot.DefaultOptions()
	opts.Title = cfg.Title
	opts.YField = cfg.YField
	opts.Scale = cfg.Scale
	return opts
}

// run loads, projects, groups and plots cfg.Path. If cfg.Output is
// empty, it serves the chart until ctx is done.
func run(ctx context.Context, stdout io.Writer, cfg Config) error {
	filters, err := cfg.filters()
	if err != nil {
		return err
	}

	var clientOpts []option.ClientOption
	if cfg.Anonymous {
		clientOpts = append(clientOpts, option.WithoutAuthentication())
	}
	doc, err := gbench.LoadContext(ctx, cfg.Path, clientOpts...)
	if err != nil {
		return err
	}
	if cfg.Verbose {
		log.Printf("%s: %v", cfg.Path, doc)
	}

	recs, err := benchproc.Project(doc.Select(filters...))
	if err != nil {
		return fmt.Errorf("%s: %w", cfg.Path, err)
	}
	g, err := benchproc.Group(recs, cfg.Order)
	if err != nil {
		return fmt.Errorf("%s: %w", cfg.Path, err)
	}
	if cfg.Verbose {
		log.Printf("%d records in %d groups", len(recs), len(g.Tables()))
	}
	if cfg.Table {
		if err := benchproc.Fprint(stdout, g); err != nil {
			return err
		}
	}

	opts := cfg.plotOptions()
	p, err := benchplot.New(g, opts)
	if err != nil {
		return fmt.Errorf("%s: %w", cfg.Path, err)
	}
	if cfg.Output != "" {
		return benchplot.Save(p, cfg.Output, opts)
	}

	v, err := benchplot.NewViewer(p, opts, fmt.Sprintf("%s: %v", cfg.Path, doc), benchproc.Summary(g))
	if err != nil {
		return err
	}
	l, err := net.Listen("tcp", cfg.HTTP)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "serving chart at http://%s/\n", l.Addr())
	return v.Serve(ctx, l)
}

func main() {
	log.SetPrefix("benchplot: ")
	log.SetFlags(0)

	cfg, err := parseArgs(os.Args[1:], os.Stderr)
	var fe *flagError
	switch {
	case errors.Is(err, flag.ErrHelp):
		os.Exit(0)
	case errors.As(err, &fe):
		os.Exit(2)
	case err != nil:
		log.Print(err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, os.Stdout, cfg); err != nil {
		log.Fatal(err)
	}
}
