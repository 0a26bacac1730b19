// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchplot

import (
	"bytes"
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/google/safehtml/template"
	"golang.org/x/net/netutil"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/plot"

	"golang.org/x/benchplot/benchproc"
)

// maxConns limits concurrent viewer connections.
const maxConns = 16

const pageHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<h1>{{.Title}}</h1>
{{with .Source}}<p>{{.}}</p>{{end}}
<img src="/chart.svg" alt="{{.Title}}">
<table border="1">
<tr><th>group</th><th>benchmark</th><th>family</th><th>runs</th><th>unit</th></tr>
{{range .Groups}}<tr><td>{{.ID}}</td><td>{{.Name}}</td><td>{{.Family}}</td><td>{{.Len}}</td><td>{{.TimeUnit}}</td></tr>
{{end}}</table>
</body>
</html>
`

var pageTemplate = template.Must(template.New("page").Parse(pageHTML))

// A Viewer serves a rendered chart over HTTP, along with a table of
// the groups it plots.
type Viewer struct {
	Title  string
	Source string // description of the input, such as its file name
	Groups []benchproc.GroupInfo

	svg []byte
}

// NewViewer renders p as SVG and returns a Viewer for it.
func NewViewer(p *plot.Plot, opts Options, source string, groups []benchproc.GroupInfo) (*Viewer, error) {
	svg, err := Render(p, "svg", opts)
	if err != nil {
		return nil, err
	}
	return &Viewer{Title: opts.Title, Source: source, Groups: groups, svg: svg}, nil
}

func (v *Viewer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/":
		var buf bytes.Buffer
		if err := pageTemplate.Execute(&buf, v); err != nil {
			log.Printf("rendering page: %v", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(buf.Bytes())
	case "/chart.svg":
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Write(v.svg)
	default:
		http.NotFound(w, r)
	}
}

// Serve serves v on l until ctx is done, then shuts the server down
// and returns nil.
func (v *Viewer) Serve(ctx context.Context, l net.Listener) error {
	srv := &http.Server{
		Handler:           v,
		ReadHeaderTimeout: 10 * time.Second,
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := srv.Serve(netutil.LimitListener(l, maxConns))
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}
