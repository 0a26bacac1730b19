// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchproc projects Google Benchmark entries into typed
// records and groups them by benchmark family.
//
// The typical steps for processing a document are:
//
// 1. Read a gbench.Document and optionally select a subset of its
// entries with gbench filters.
//
// 2. Project the entries with Project. Each gbench.Entry becomes a
// Record holding only the fields in Fields, with the name shortened
// to its base name and "per_family_instance_index" renamed to "index".
//
// 3. Group the records with Group. Each group is a table of the
// records of one benchmark family, in input order. The Order policy
// says what to do with input where a family's records are not
// adjacent.
package benchproc
