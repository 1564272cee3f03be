/*
Copyright 2024 The Kubernetes Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package path parses the dotted-path notation used throughout the
// operator tree and formats RFC 6901 JSON Pointers from it.
package path

import (
	"fmt"
	"strconv"
	"strings"
)

// Segment is one element of a Path. Most segments are ordinary map keys
// or, when they parse as an integer, list indices.
type Segment string

// Special segment values. Absolute and Relative are only legal as the
// first segment of a Path; Append is only legal as the last segment of
// a patch path; Wildcard is only legal inside an expression-string
// reference.
const (
	Absolute Segment = "$"
	Relative Segment = ""
	Append   Segment = "-"
	Wildcard Segment = "*"
)

// Path is a non-empty ordered sequence of segments.
type Path []Segment

// IsAbsolute reports whether p is rooted at the outermost context
// (first segment "$").
func (p Path) IsAbsolute() bool {
	return len(p) > 0 && p[0] == Absolute
}

// IsRelative reports whether p is rooted at the current context
// (first segment "").
func (p Path) IsRelative() bool {
	return len(p) > 0 && p[0] == Relative
}

// Parse splits a dotted path such as ".spec.containers.0" or
// "$.metadata.name" into its segments. An unescaped "." separates
// segments; "\." is de-escaped to a literal ".". A leading "." produces
// a leading empty (relative-root) segment; a leading "$" produces a
// leading "$" (absolute-root) segment. Any other character in the first
// position is illegal.
func Parse(s string) (Path, error) {
	if s == "" {
		return nil, fmt.Errorf("path: empty path")
	}
	if s[0] != '.' && s[0] != '$' {
		return nil, fmt.Errorf("path: %q must start with '.' or '$'", s)
	}

	var segments []Segment
	var cur strings.Builder
	escaped := false
	flush := func() {
		segments = append(segments, Segment(cur.String()))
		cur.Reset()
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			cur.WriteByte(c)
			escaped = false
		case c == '\\':
			escaped = true
		case c == '.':
			flush()
		default:
			cur.WriteByte(c)
		}
	}
	if escaped {
		return nil, fmt.Errorf("path: %q ends with a dangling escape", s)
	}
	flush()

	if s[0] == '$' {
		if segments[0] != "$" {
			return nil, fmt.Errorf("path: %q: '$' must appear alone as the first segment", s)
		}
	}
	return segments, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// compile-time constants, never for parsing user-supplied manifests.
func MustParse(s string) Path {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

// Root returns the segments of p after the leading root marker, i.e.
// the part of the path that actually addresses into the document.
func (p Path) Root() []Segment {
	if len(p) == 0 {
		return nil
	}
	return p[1:]
}

// AsIndex attempts to interpret seg as a list index. Returns ok=false
// if seg is not a base-10 non-negative integer.
func (s Segment) AsIndex() (int, bool) {
	n, err := strconv.Atoi(string(s))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// Format renders p as an absolute JSON Pointer: a "/"
// followed by the path's segments (minus the root marker) joined by
// "/", with prefix prepended unless p is absolute (starts with "$"), in
// which case prefix is dropped.
func Format(p Path, prefix Path) string {
	var segs []Segment
	if !p.IsAbsolute() {
		segs = append(segs, prefix...)
	}
	segs = append(segs, p.Root()...)

	var b strings.Builder
	for _, s := range segs {
		b.WriteByte('/')
		b.WriteString(escapePointerToken(string(s)))
	}
	if b.Len() == 0 {
		return "/"
	}
	return b.String()
}

// escapePointerToken applies the RFC 6901 escaping rules ("~" -> "~0",
// "/" -> "~1") to a single pointer token.
func escapePointerToken(tok string) string {
	if !strings.ContainsAny(tok, "~/") {
		return tok
	}
	tok = strings.ReplaceAll(tok, "~", "~0")
	tok = strings.ReplaceAll(tok, "/", "~1")
	return tok
}

// String renders p back to dotted-path notation, escaping literal dots.
func (p Path) String() string {
	var b strings.Builder
	for i, s := range p {
		if i == 0 && (s == Absolute || s == Relative) {
			b.WriteString(string(s))
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(strings.ReplaceAll(string(s), ".", `\.`))
	}
	return b.String()
}
