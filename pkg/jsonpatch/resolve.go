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

package jsonpatch

import (
	"github.com/admission-rules/generic-k8s-webhook/pkg/operator"
	"github.com/admission-rules/generic-k8s-webhook/pkg/path"
)

// documentFor resolves the context frame a patch path addresses into:
// an absolute path ("$...") addresses contexts[0], a relative path
// ("....") addresses the innermost frame, matching GetValue's
// contextId convention.
func documentFor(p path.Path, ctx *operator.Contexts) (any, error) {
	if p.IsAbsolute() {
		return ctx.At(0)
	}
	return ctx.At(-1)
}

// firstMissing walks doc along segments and returns the deepest
// existing value together with how many leading segments were
// resolved. If every segment resolves, consumed == len(segments).
func firstMissing(doc any, segments []path.Segment) (existing any, consumed int) {
	cur := doc
	for i, seg := range segments {
		switch m := cur.(type) {
		case map[string]any:
			v, ok := m[string(seg)]
			if !ok {
				return cur, i
			}
			cur = v
		case []any:
			if seg == path.Append {
				return cur, i
			}
			idx, ok := seg.AsIndex()
			if !ok || idx < 0 || idx >= len(m) {
				return cur, i
			}
			cur = m[idx]
		default:
			return cur, i
		}
	}
	return cur, len(segments)
}

// wrapRemaining builds the nested structure Add uses to fill in a
// path's missing tail: a map for an ordinary key segment, a
// single-element list for "-" or a numeric index segment.
func wrapRemaining(remaining []path.Segment, value any) any {
	if len(remaining) == 0 {
		return value
	}
	seg := remaining[0]
	child := wrapRemaining(remaining[1:], value)
	if _, isIndex := seg.AsIndex(); seg == path.Append || isIndex {
		return []any{child}
	}
	return map[string]any{string(seg): child}
}

// subPath builds a Path with the same root marker as p but whose Root()
// is segs -- used to re-assemble the path of the first missing key
// that Add's special logic computes.
func subPath(p path.Path, segs []path.Segment) path.Path {
	out := make(path.Path, 0, len(segs)+1)
	out = append(out, p[0])
	out = append(out, segs...)
	return out
}
