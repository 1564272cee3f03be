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

package config

import (
	"fmt"

	"github.com/admission-rules/generic-k8s-webhook/pkg/exprlang"
	"github.com/admission-rules/generic-k8s-webhook/pkg/operator"
	"github.com/admission-rules/generic-k8s-webhook/pkg/path"
)

// operatorParserFunc parses the sub-value of a single named operator
// key (e.g. the list under "sum" in `{sum: [...]}`) into an Operator.
type operatorParserFunc func(d *dialect, raw any, loc string) (operator.Operator, error)

// dialect bundles the operator-name -> parser table and JSON-Patch
// op-name -> parser table selected by a manifest's apiVersion, plus
// whether the expression-string surface syntax is enabled.
type dialect struct {
	operators   map[string]operatorParserFunc
	patchOps    map[string]patchParserFunc
	exprEnabled bool
}

// parseOperator implements the recursive dispatch: a dict with
// exactly one key names the operator; a string is routed to the
// expression-string parser; a list is routed to the implicit "list"
// operator.
func (d *dialect) parseOperator(raw any, loc string) (operator.Operator, error) {
	switch v := raw.(type) {
	case map[string]any:
		return d.parseOperatorDict(v, loc)
	case string:
		return d.parseOperatorString(v, loc)
	case []any:
		return d.parseOperatorListLiteral(v, loc)
	default:
		return nil, fmt.Errorf("config: %s: cannot parse operator from %T", loc, raw)
	}
}

func (d *dialect) parseOperatorDict(raw map[string]any, loc string) (operator.Operator, error) {
	if len(raw) != 1 {
		return nil, fmt.Errorf("config: %s: expected exactly one key, got %d", loc, len(raw))
	}
	var name string
	var val any
	for k, v := range raw {
		name, val = k, v
	}
	fn, ok := d.operators[name]
	if !ok {
		return nil, fmt.Errorf("config: %s: unknown operator %q", loc, name)
	}
	return fn(d, val, fmt.Sprintf("%s.%s", loc, name))
}

func (d *dialect) parseOperatorString(s string, loc string) (operator.Operator, error) {
	if !d.exprEnabled {
		return nil, fmt.Errorf("config: %s: expression strings are not supported by this apiVersion", loc)
	}
	op, err := exprlang.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", loc, err)
	}
	return op, nil
}

// parseOperatorListLiteral parses a bare YAML list of operator specs
// into a List operator, used both for the implicit top-level list form
// and for n-ary operators whose operand is given as a list rather than
// a single list-returning sub-expression.
func (d *dialect) parseOperatorListLiteral(raw []any, loc string) (operator.Operator, error) {
	children := make([]operator.Operator, 0, len(raw))
	for i, elem := range raw {
		op, err := d.parseOperator(elem, fmt.Sprintf("%s.%d", loc, i))
		if err != nil {
			return nil, err
		}
		children = append(children, op)
	}
	return operator.NewList(children), nil
}

// naryOperator builds an operatorParserFunc for an n-ary operator whose
// constructor takes a single list-returning Operator (And, Or, Sum,
// Sub, Mul, Div, Equal, NotEqual, Lt, Le, Gt, Ge, StrConcat): the
// operand may be given as a YAML list (each element parsed and wrapped
// in a List) or as any single operator/expression that itself returns a
// list (mirroring the original source's BinaryOpParser).
func naryOperator(ctor func(operator.Operator) (operator.Operator, error)) operatorParserFunc {
	return func(d *dialect, raw any, loc string) (operator.Operator, error) {
		var elements operator.Operator
		var err error
		if list, ok := raw.([]any); ok {
			elements, err = d.parseOperatorListLiteral(list, loc)
		} else {
			elements, err = d.parseOperator(raw, loc)
		}
		if err != nil {
			return nil, err
		}
		return ctor(elements)
	}
}

// unaryOperator builds an operatorParserFunc for Not: a single
// sub-operator, not a list.
func unaryOperator(ctor func(operator.Operator) (operator.Operator, error)) operatorParserFunc {
	return func(d *dialect, raw any, loc string) (operator.Operator, error) {
		arg, err := d.parseOperator(raw, loc)
		if err != nil {
			return nil, err
		}
		return ctor(arg)
	}
}

func parseListOperator(d *dialect, raw any, loc string) (operator.Operator, error) {
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("config: %s: \"list\" expects a YAML list, got %T", loc, raw)
	}
	return d.parseOperatorListLiteral(list, loc)
}

func parseConstOperator(_ *dialect, raw any, _ string) (operator.Operator, error) {
	return operator.NewConst(raw), nil
}

// parseGetValueOperator parses a bare dotted-path string, inferring
// the context id from whether it is rooted at "$"
// (context 0, outermost) or "." (context -1, innermost) -- the same
// convention exprlang.parseRef uses for the string-form surface syntax.
func parseGetValueOperator(_ *dialect, raw any, loc string) (operator.Operator, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("config: %s: \"getValue\" expects a dotted-path string, got %T", loc, raw)
	}
	p, err := path.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", loc, err)
	}
	return operator.NewGetValue(p, contextIDForPath(p))
}

// parseForEachOperator and parseFilterOperator share the same
// "elements"+"op" sub-key shape.
func parseForEachOperator(d *dialect, raw any, loc string) (operator.Operator, error) {
	m, err := asDict(raw, loc)
	if err != nil {
		return nil, err
	}
	m = cloneDict(m)
	rawElements, err := mustPop(m, "elements", loc)
	if err != nil {
		return nil, err
	}
	elements, err := d.parseOperator(rawElements, loc+".elements")
	if err != nil {
		return nil, err
	}
	rawOp, err := mustPop(m, "op", loc)
	if err != nil {
		return nil, err
	}
	op, err := d.parseOperator(rawOp, loc+".op")
	if err != nil {
		return nil, err
	}
	if err := requireEmpty(m, loc); err != nil {
		return nil, err
	}
	return operator.NewForEach(elements, op), nil
}

func parseFilterOperator(d *dialect, raw any, loc string) (operator.Operator, error) {
	m, err := asDict(raw, loc)
	if err != nil {
		return nil, err
	}
	m = cloneDict(m)
	rawElements, err := mustPop(m, "elements", loc)
	if err != nil {
		return nil, err
	}
	elements, err := d.parseOperator(rawElements, loc+".elements")
	if err != nil {
		return nil, err
	}
	rawOp, err := mustPop(m, "op", loc)
	if err != nil {
		return nil, err
	}
	op, err := d.parseOperator(rawOp, loc+".op")
	if err != nil {
		return nil, err
	}
	if err := requireEmpty(m, loc); err != nil {
		return nil, err
	}
	return operator.NewFilter(elements, op)
}

func parseContainOperator(d *dialect, raw any, loc string) (operator.Operator, error) {
	m, err := asDict(raw, loc)
	if err != nil {
		return nil, err
	}
	m = cloneDict(m)
	rawElements, err := mustPop(m, "elements", loc)
	if err != nil {
		return nil, err
	}
	elements, err := d.parseOperator(rawElements, loc+".elements")
	if err != nil {
		return nil, err
	}
	rawValue, err := mustPop(m, "value", loc)
	if err != nil {
		return nil, err
	}
	value, err := d.parseOperator(rawValue, loc+".value")
	if err != nil {
		return nil, err
	}
	if err := requireEmpty(m, loc); err != nil {
		return nil, err
	}
	return operator.NewContain(elements, value), nil
}

// v1alpha1Operators is the operator set defined for apiVersion
// generic-webhook/v1alpha1.
func v1alpha1Operators() map[string]operatorParserFunc {
	return map[string]operatorParserFunc{
		"and": naryOperator(func(e operator.Operator) (operator.Operator, error) { return operator.NewAnd(e) }),
		"or":  naryOperator(func(e operator.Operator) (operator.Operator, error) { return operator.NewOr(e) }),
		"equal": naryOperator(func(e operator.Operator) (operator.Operator, error) {
			return operator.NewEqual(e)
		}),
		"sum": naryOperator(func(e operator.Operator) (operator.Operator, error) { return operator.NewSum(e) }),
		"not": unaryOperator(func(e operator.Operator) (operator.Operator, error) { return operator.NewNot(e) }),
		"list":     parseListOperator,
		"forEach":  parseForEachOperator,
		"contain":  parseContainOperator,
		"const":    parseConstOperator,
		"getValue": parseGetValueOperator,
	}
}

// v1beta1Operators is v1alpha1Operators() plus the aliases and
// additional operators added for apiVersion generic-webhook/v1beta1.
func v1beta1Operators() map[string]operatorParserFunc {
	ops := v1alpha1Operators()
	ops["all"] = ops["and"]
	ops["any"] = ops["or"]
	ops["map"] = parseForEachOperator
	ops["filter"] = parseFilterOperator
	ops["strconcat"] = naryOperator(func(e operator.Operator) (operator.Operator, error) {
		return operator.NewStrConcat(e)
	})
	ops["not-equal"] = naryOperator(func(e operator.Operator) (operator.Operator, error) {
		return operator.NewNotEqual(e)
	})
	ops["lt"] = naryOperator(func(e operator.Operator) (operator.Operator, error) { return operator.NewLt(e) })
	ops["le"] = naryOperator(func(e operator.Operator) (operator.Operator, error) { return operator.NewLe(e) })
	ops["gt"] = naryOperator(func(e operator.Operator) (operator.Operator, error) { return operator.NewGt(e) })
	ops["ge"] = naryOperator(func(e operator.Operator) (operator.Operator, error) { return operator.NewGe(e) })
	ops["sub"] = naryOperator(func(e operator.Operator) (operator.Operator, error) { return operator.NewSub(e) })
	ops["mul"] = naryOperator(func(e operator.Operator) (operator.Operator, error) { return operator.NewMul(e) })
	ops["div"] = naryOperator(func(e operator.Operator) (operator.Operator, error) { return operator.NewDiv(e) })
	return ops
}
