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

package operator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/admission-rules/generic-k8s-webhook/pkg/operator"
	"github.com/admission-rules/generic-k8s-webhook/pkg/path"
)

func mustEval(t *testing.T, op operator.Operator, root any) any {
	t.Helper()
	v, err := op.Eval(operator.NewContexts(root))
	require.NoError(t, err)
	return v
}

func TestAndOrBoundaries(t *testing.T) {
	and, err := operator.NewAnd(operator.NewList(nil))
	require.NoError(t, err)
	assert.Equal(t, true, mustEval(t, and, nil))

	or, err := operator.NewOr(operator.NewList(nil))
	require.NoError(t, err)
	assert.Equal(t, false, mustEval(t, or, nil), "Or([]) must be false: the algebraic identity of OR")
}

func TestSumEmpty(t *testing.T) {
	sum, err := operator.NewSum(operator.NewList(nil))
	require.NoError(t, err)
	assert.Equal(t, float64(0), mustEval(t, sum, nil))
}

func TestEqualBoundaries(t *testing.T) {
	x := operator.NewConst(float64(1))

	one, err := operator.NewEqual(operator.NewList([]operator.Operator{x}))
	require.NoError(t, err)
	assert.Equal(t, true, mustEval(t, one, nil), "Equal([x]) must be true")

	two, err := operator.NewEqual(operator.NewList([]operator.Operator{x, x}))
	require.NoError(t, err)
	assert.Equal(t, true, mustEval(t, two, nil), "Equal([x,x]) must be true")

	three, err := operator.NewEqual(operator.NewList([]operator.Operator{
		operator.NewConst(float64(1)), operator.NewConst(float64(2)), operator.NewConst(float64(3)),
	}))
	require.NoError(t, err)
	_, err = three.Eval(operator.NewContexts(nil))
	assert.Error(t, err, "Equal with three operands must error under the Comp-binary-only rule")
}

func TestGetValueMissingKeyIsNull(t *testing.T) {
	gv, err := operator.NewGetValue(path.MustParse(".spec.missing"), 0)
	require.NoError(t, err)
	v := mustEval(t, gv, map[string]any{"spec": map[string]any{}})
	assert.Nil(t, v)
}

func TestForEachOverNullIsEmpty(t *testing.T) {
	gv, err := operator.NewGetValue(path.MustParse(".missing"), 0)
	require.NoError(t, err)
	fe := operator.NewForEach(gv, operator.NewConst(true))
	v := mustEval(t, fe, map[string]any{})
	assert.Equal(t, []any{}, v)
}

func TestFilterCountsTruthyEvaluations(t *testing.T) {
	elements := operator.NewConst([]any{float64(1), float64(2), float64(3), float64(4)})
	gv, err := operator.NewGetValue(path.MustParse("."), -1)
	require.NoError(t, err)
	gt, err := operator.NewGt(operator.NewList([]operator.Operator{gv, operator.NewConst(float64(2))}))
	require.NoError(t, err)
	filter, err := operator.NewFilter(elements, gt)
	require.NoError(t, err)
	v := mustEval(t, filter, nil)
	list, ok := v.([]any)
	require.True(t, ok)
	assert.Len(t, list, 2)
}

func TestContain(t *testing.T) {
	elements := operator.NewConst([]any{"a", "b", "c"})
	contain := operator.NewContain(elements, operator.NewConst("b"))
	assert.Equal(t, true, mustEval(t, contain, nil))

	contain2 := operator.NewContain(elements, operator.NewConst("z"))
	assert.Equal(t, false, mustEval(t, contain2, nil))
}

func TestDeepEqualNumericCrossType(t *testing.T) {
	assert.True(t, operator.DeepEqual(float64(5), int(5)))
	assert.False(t, operator.DeepEqual(float64(5), "5"))
}

func TestListTypeCollapsesToDynamicOnMismatch(t *testing.T) {
	l := operator.NewList([]operator.Operator{operator.NewConst(float64(1)), operator.NewConst("x")})
	rt := l.ReturnType()
	assert.Equal(t, operator.KindList, rt.Kind)
	assert.Equal(t, operator.KindDynamic, rt.Elem.Kind)
}
