// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchplot

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
)

// Formats lists the file extensions Save understands.
var Formats = []string{"eps", "jpg", "jpeg", "pdf", "png", "svg", "tif", "tiff"}

// Save renders p to path at the size given by opts. The image format
// is chosen from the file extension.
func Save(p *plot.Plot, path string, opts Options) error {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if !knownFormat(ext) {
		return fmt.Errorf("%s: unsupported image format %q, want one of %v", path, ext, Formats)
	}
	w, h := opts.size()
	if err := p.Save(w, h, path); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Render returns p encoded in the given format.
func Render(p *plot.Plot, format string, opts Options) ([]byte, error) {
	if !knownFormat(format) {
		return nil, fmt.Errorf("unsupported image format %q, want one of %v", format, Formats)
	}
	w, h := opts.size()
	wt, err := p.WriterTo(w, h, format)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func knownFormat(ext string) bool {
	for _, f := range Formats {
		if ext == f {
			return true
		}
	}
	return false
}
