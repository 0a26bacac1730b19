// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gbench

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
)

const gcsScheme = "gs://"

// SplitGCSPath splits a path of the form gs://bucket/object. It
// reports false if path is not a GCS path or lacks a bucket or object.
func SplitGCSPath(path string) (bucket, object string, ok bool) {
	rest, found := cutPrefix(path, gcsScheme)
	if !found {
		return "", "", false
	}
	i := strings.IndexByte(rest, '/')
	if i <= 0 || i == len(rest)-1 {
		return "", "", false
	}
	return rest[:i], rest[i+1:], true
}

func cutPrefix(s, prefix string) (string, bool) {
	if !strings.HasPrefix(s, prefix) {
		return s, false
	}
	return s[len(prefix):], true
}

// Open opens path for reading. A path of the form gs://bucket/object
// is read from Google Cloud Storage; anything else is a local file.
//
// The GCS client is constructed with opts. If opts is empty, it uses
// the application default credentials restricted to read-only
// access. Pass option.WithoutAuthentication() for public buckets.
func Open(ctx context.Context, path string, opts ...option.ClientOption) (io.ReadCloser, error) {
	if !strings.HasPrefix(path, gcsScheme) {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		return f, nil
	}
	bucket, object, ok := SplitGCSPath(path)
	if !ok {
		return nil, fmt.Errorf("malformed GCS path %q, want gs://bucket/object", path)
	}
	if len(opts) == 0 {
		ts, err := google.DefaultTokenSource(ctx, storage.ScopeReadOnly)
		if err != nil {
			return nil, fmt.Errorf("finding GCS credentials: %w", err)
		}
		opts = []option.ClientOption{option.WithTokenSource(ts)}
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	r, err := client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return &gcsReader{r, client}, nil
}

// gcsReader closes the client along with the object reader.
type gcsReader struct {
	*storage.Reader
	client *storage.Client
}

func (r *gcsReader) Close() error {
	err := r.Reader.Close()
	if cerr := r.client.Close(); err == nil {
		err = cerr
	}
	return err
}

// LoadContext is like Load, but path may also name a GCS object.
// See Open.
func LoadContext(ctx context.Context, path string, opts ...option.ClientOption) (*Document, error) {
	rc, err := Open(ctx, path, opts...)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return Read(rc, path)
}
