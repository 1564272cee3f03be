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
	"fmt"
	"strconv"

	"github.com/admission-rules/generic-k8s-webhook/pkg/operator"
	"github.com/admission-rules/generic-k8s-webhook/pkg/path"
)

// Parse lowers an infix expression string into the operator tree. It
// is the v1beta1-only surface syntax; the config compiler is
// responsible for rejecting string-form expressions outright under
// v1alpha1 rather than ever calling this function.
func Parse(s string) (operator.Operator, error) {
	toks, err := lex(s)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	op, err := p.parseStart()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.toks) {
		return nil, fmt.Errorf("exprlang: unexpected trailing input at token %d in %q", p.pos, s)
	}
	return op, nil
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() kind {
	if p.pos >= len(p.toks) {
		return kindEOF
	}
	return p.toks[p.pos].kind
}

func (p *parser) next() token {
	t := p.toks[p.pos]
	p.pos++
	return t
}

func (p *parser) expect(k kind, what string) (token, error) {
	if p.peek() != k {
		return token{}, fmt.Errorf("exprlang: expected %s at token %d", what, p.pos)
	}
	return p.next(), nil
}

// parseStart implements `start ::= expr | listpipe`. A listpipe always
// begins with a REF, so parsing a bare expr first and then checking
// for a trailing "|" or "->" lets both alternatives share the prefix
// without backtracking.
func (p *parser) parseStart() (operator.Operator, error) {
	first, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.peek() != kindPipe && p.peek() != kindArrow {
		return first, nil
	}
	elements := first
	for p.peek() == kindPipe || p.peek() == kindArrow {
		isFilter := p.peek() == kindPipe
		p.next()
		body, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if isFilter {
			elements, err = operator.NewFilter(elements, body)
			if err != nil {
				return nil, err
			}
		} else {
			elements = operator.NewForEach(elements, body)
		}
	}
	return elements, nil
}

func (p *parser) parseOr() (operator.Operator, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek() == kindOr {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left, err = operator.NewOr(operator.NewList([]operator.Operator{left, right}))
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

func (p *parser) parseAnd() (operator.Operator, error) {
	left, err := p.parseComp()
	if err != nil {
		return nil, err
	}
	for p.peek() == kindAnd {
		p.next()
		right, err := p.parseComp()
		if err != nil {
			return nil, err
		}
		left, err = operator.NewAnd(operator.NewList([]operator.Operator{left, right}))
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

// parseComp implements `comp ::= sum (cmpOp sum)?`: at most one
// comparison, never chained.
func (p *parser) parseComp() (operator.Operator, error) {
	left, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	var build func(operator.Operator) (operator.Operator, error)
	switch p.peek() {
	case kindEq:
		build = func(elems operator.Operator) (operator.Operator, error) { return operator.NewEqual(elems) }
	case kindNe:
		build = func(elems operator.Operator) (operator.Operator, error) { return operator.NewNotEqual(elems) }
	case kindLe:
		build = func(elems operator.Operator) (operator.Operator, error) { return operator.NewLe(elems) }
	case kindGe:
		build = func(elems operator.Operator) (operator.Operator, error) { return operator.NewGe(elems) }
	case kindLt:
		build = func(elems operator.Operator) (operator.Operator, error) { return operator.NewLt(elems) }
	case kindGt:
		build = func(elems operator.Operator) (operator.Operator, error) { return operator.NewGt(elems) }
	default:
		return left, nil
	}
	p.next()
	right, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	return build(operator.NewList([]operator.Operator{left, right}))
}

func (p *parser) parseSum() (operator.Operator, error) {
	left, err := p.parseProduct()
	if err != nil {
		return nil, err
	}
	for {
		var build func(operator.Operator) (operator.Operator, error)
		switch p.peek() {
		case kindPlus:
			build = func(elems operator.Operator) (operator.Operator, error) { return operator.NewSum(elems) }
		case kindMinus:
			build = func(elems operator.Operator) (operator.Operator, error) { return operator.NewSub(elems) }
		case kindPlusPlus:
			build = func(elems operator.Operator) (operator.Operator, error) { return operator.NewStrConcat(elems) }
		default:
			return left, nil
		}
		p.next()
		right, err := p.parseProduct()
		if err != nil {
			return nil, err
		}
		left, err = build(operator.NewList([]operator.Operator{left, right}))
		if err != nil {
			return nil, err
		}
	}
}

func (p *parser) parseProduct() (operator.Operator, error) {
	left, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for {
		var build func(operator.Operator) (operator.Operator, error)
		switch p.peek() {
		case kindStar:
			build = func(elems operator.Operator) (operator.Operator, error) { return operator.NewMul(elems) }
		case kindSlash:
			build = func(elems operator.Operator) (operator.Operator, error) { return operator.NewDiv(elems) }
		default:
			return left, nil
		}
		p.next()
		right, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		left, err = build(operator.NewList([]operator.Operator{left, right}))
		if err != nil {
			return nil, err
		}
	}
}

func (p *parser) parseAtom() (operator.Operator, error) {
	switch p.peek() {
	case kindNumber:
		t := p.next()
		f, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return nil, fmt.Errorf("exprlang: invalid number %q: %w", t.text, err)
		}
		return operator.NewConst(f), nil
	case kindString:
		t := p.next()
		return operator.NewConst(t.text), nil
	case kindBool:
		t := p.next()
		return operator.NewConst(t.text == "true"), nil
	case kindRef:
		t := p.next()
		return parseRef(t.text)
	case kindLParen:
		p.next()
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(kindRParen, `")"`); err != nil {
			return nil, err
		}
		return inner, nil
	default:
		return nil, fmt.Errorf("exprlang: expected an atom at token %d", p.pos)
	}
}

// parseRef lowers a REF token into a GetValue, matching
// original_source's parse_ref: a leading "$" addresses context 0 (the
// outermost document), a leading "." addresses context -1 (the
// innermost).
func parseRef(ref string) (*operator.GetValue, error) {
	p, err := path.Parse(ref)
	if err != nil {
		return nil, err
	}
	contextId := -1
	if p.IsAbsolute() {
		contextId = 0
	}
	return operator.NewGetValue(p, contextId)
}
