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

package exprlang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/admission-rules/generic-k8s-webhook/pkg/operator"
)

func eval(t *testing.T, expr string, root any) any {
	t.Helper()
	op, err := Parse(expr)
	require.NoError(t, err)
	v, err := op.Eval(operator.NewContexts(root))
	require.NoError(t, err)
	return v
}

func TestParseArithmeticPrecedence(t *testing.T) {
	assert.Equal(t, true, eval(t, "2+3*4 == 14", nil))
	assert.Equal(t, true, eval(t, "(2+3)*4 == 20", nil))
	assert.Equal(t, true, eval(t, "10/2-3 == 2", nil))
}

func TestParseSignedNumberVsBinaryMinus(t *testing.T) {
	assert.Equal(t, true, eval(t, "-5 == -5", nil))
	assert.Equal(t, true, eval(t, "5-3 == 2", nil))
	assert.Equal(t, true, eval(t, "3--1 == 4", nil))
}

func TestParseBooleanOperators(t *testing.T) {
	assert.Equal(t, true, eval(t, "true && true", nil))
	assert.Equal(t, false, eval(t, "true && false", nil))
	assert.Equal(t, true, eval(t, "false || true", nil))
	assert.Equal(t, true, eval(t, "1 == 1 || 1 == 2", nil))
}

func TestParseStringConcat(t *testing.T) {
	assert.Equal(t, "ab", eval(t, `"a"++"b"`, nil))
}

func TestParseRelativeRefAddressesInnermostContext(t *testing.T) {
	root := map[string]any{"kind": "Pod"}
	assert.Equal(t, true, eval(t, `.kind == "Pod"`, root))
}

func TestParseAbsoluteRefAddressesOutermostContext(t *testing.T) {
	root := map[string]any{"kind": "Pod"}
	assert.Equal(t, true, eval(t, `$.kind == "Pod"`, root))
}

func TestParseFilterPipeline(t *testing.T) {
	root := map[string]any{
		"items": []any{
			map[string]any{"n": 1.0},
			map[string]any{"n": 2.0},
			map[string]any{"n": 3.0},
		},
	}
	op, err := Parse(`.items | .n >= 2`)
	require.NoError(t, err)
	v, err := op.Eval(operator.NewContexts(root))
	require.NoError(t, err)
	kept, ok := v.([]any)
	require.True(t, ok)
	assert.Len(t, kept, 2)
}

func TestParseMapPipeline(t *testing.T) {
	root := map[string]any{
		"items": []any{
			map[string]any{"n": 1.0},
			map[string]any{"n": 2.0},
		},
	}
	op, err := Parse(`.items -> .n`)
	require.NoError(t, err)
	v, err := op.Eval(operator.NewContexts(root))
	require.NoError(t, err)
	mapped, ok := v.([]any)
	require.True(t, ok)
	require.Len(t, mapped, 2)
	assert.Equal(t, 1.0, mapped[0])
	assert.Equal(t, 2.0, mapped[1])
}

func TestParseRejectsUnterminatedString(t *testing.T) {
	_, err := Parse(`"abc == 1`)
	require.Error(t, err)
}

func TestParseRejectsTrailingInput(t *testing.T) {
	_, err := Parse(`1 == 1 2`)
	require.Error(t, err)
}

func TestParseRejectsUnrecognizedBareword(t *testing.T) {
	_, err := Parse(`nil == 1`)
	require.Error(t, err)
}
