// Copyright 2025 Supabase, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package translate

import (
	"strings"

	"github.com/sqlgremlin/sqlgremlin/go/gremlin"
	"github.com/sqlgremlin/sqlgremlin/go/sqlast"
)

// operator is one operator application. Implementations compute their
// entire contribution before touching the traversal, so a failing
// operator never leaves partial steps behind.
type operator interface {
	// arity is the raw operand count, checked before any translation.
	arity() int
	// appendTraversal emits the operator's steps onto t.
	appendTraversal(t *gremlin.Traversal) *Error
}

// wrapOperator classifies a call into its operator node. Construction is
// total: unclassified kinds and casts become sentinels whose translation
// always fails, so the failure surfaces where the operator is applied,
// after the uniform operand-count check.
func (c *compiler) wrapOperator(call *sqlast.Call) operator {
	kind := call.Op.Kind
	switch {
	case kind.IsComparison():
		return &comparisonOperator{c: c, call: call}
	case kind.IsBoolean():
		return &booleanOperator{c: c, call: call}
	case kind.IsArithmetic():
		return &arithmeticOperator{c: c, call: call}
	case kind.IsAggregate():
		return &aggregateOperator{c: c, call: call}
	case kind == sqlast.OpCast:
		return &castOperator{call: call}
	default:
		return &unsupportedOperator{name: call.Op.String(), call: call}
	}
}

// appendOperatorTraversal applies an operator to the traversal. The
// operand count is validated for every operator alike before the
// operator runs, so malformed calls fail without mutating t.
func appendOperatorTraversal(op operator, t *gremlin.Traversal) *Error {
	switch n := op.arity(); {
	case n == 0:
		return newError(OperandsEmpty)
	case n > 2:
		return newError(OperandsMoreThanTwo)
	}
	return op.appendTraversal(t)
}

// comparisonOperator translates the six binary comparisons. The step
// shape depends on what sits on each side: a filter on one column's
// value, a column-to-column where with by modulators, a constant check,
// or a computed sub-traversal against a constant.
type comparisonOperator struct {
	c    *compiler
	call *sqlast.Call
}

func (o *comparisonOperator) arity() int { return len(o.call.Operands) }

func (o *comparisonOperator) appendTraversal(t *gremlin.Traversal) *Error {
	c := o.c
	if len(o.call.Operands) != 2 {
		return newError(UnsupportedOperandType)
	}
	left, err := c.wrapOperand(o.call.Operands[0])
	if err != nil {
		return err
	}
	right, err := c.wrapOperand(o.call.Operands[1])
	if err != nil {
		return err
	}
	kind := o.call.Op.Kind

	switch l := left.(type) {
	case *identifierOperand:
		switch r := right.(type) {
		case *literalOperand:
			lt, err := c.identifierTraversal(l)
			if err != nil {
				return err
			}
			v, err := r.value()
			if err != nil {
				return err
			}
			t.Where(lt.Is(predicateFor(kind, v)))
			return nil
		case *identifierOperand:
			if c.md.grouping {
				return newError(UnsupportedOperandType)
			}
			la, lp, err := l.resolve(c)
			if err != nil {
				return err
			}
			ra, rp, err := r.resolve(c)
			if err != nil {
				return err
			}
			t.Where(la, predicateFor(kind, ra))
			t.By(lp)
			t.By(rp)
			return nil
		case *callOperand:
			// The call compiles first so its own failure, such as an
			// unknown operator, wins over the shape rejection.
			if err := appendOperatorTraversal(r.op, gremlin.Anonymous()); err != nil {
				return err
			}
			return newError(UnsupportedOperandType)
		}
	case *literalOperand:
		v, err := l.value()
		if err != nil {
			return err
		}
		switch r := right.(type) {
		case *identifierOperand:
			rt, err := c.identifierTraversal(r)
			if err != nil {
				return err
			}
			t.Where(rt.Is(predicateFor(reverseComparison(kind), v)))
			return nil
		case *literalOperand:
			rv, err := r.value()
			if err != nil {
				return err
			}
			t.Where(gremlin.Anonymous().Constant(v).Is(predicateFor(kind, rv)))
			return nil
		case *callOperand:
			sub := gremlin.Anonymous()
			if err := appendOperatorTraversal(r.op, sub); err != nil {
				return err
			}
			t.Where(sub.Is(predicateFor(reverseComparison(kind), v)))
			return nil
		}
	case *callOperand:
		sub := gremlin.Anonymous()
		if err := appendOperatorTraversal(l.op, sub); err != nil {
			return err
		}
		switch r := right.(type) {
		case *literalOperand:
			v, err := r.value()
			if err != nil {
				return err
			}
			t.Where(sub.Is(predicateFor(kind, v)))
			return nil
		case *callOperand:
			if err := appendOperatorTraversal(r.op, gremlin.Anonymous()); err != nil {
				return err
			}
		}
	}
	return newError(UnsupportedOperandType)
}

// booleanOperator translates AND, OR and NOT into the matching filter
// combinators over anonymous condition traversals.
type booleanOperator struct {
	c    *compiler
	call *sqlast.Call
}

func (o *booleanOperator) arity() int { return len(o.call.Operands) }

func (o *booleanOperator) appendTraversal(t *gremlin.Traversal) *Error {
	c := o.c
	kind := o.call.Op.Kind
	if kind == sqlast.OpNot {
		if len(o.call.Operands) != 1 {
			return newError(UnsupportedOperandType)
		}
		sub, err := c.conditionTraversal(o.call.Operands[0])
		if err != nil {
			return err
		}
		t.Not(sub)
		return nil
	}
	if len(o.call.Operands) != 2 {
		return newError(UnsupportedOperandType)
	}
	lt, err := c.conditionTraversal(o.call.Operands[0])
	if err != nil {
		return err
	}
	rt, err := c.conditionTraversal(o.call.Operands[1])
	if err != nil {
		return err
	}
	if kind == sqlast.OpAnd {
		t.And(lt, rt)
	} else {
		t.Or(lt, rt)
	}
	return nil
}

// conditionTraversal compiles a boolean-valued expression into an
// anonymous filter traversal. A bare boolean column filters on true.
func (c *compiler) conditionTraversal(expr sqlast.Expr) (*gremlin.Traversal, *Error) {
	op, err := c.wrapOperand(expr)
	if err != nil {
		return nil, err
	}
	switch o := op.(type) {
	case *callOperand:
		sub := gremlin.Anonymous()
		if err := appendOperatorTraversal(o.op, sub); err != nil {
			return nil, err
		}
		return sub, nil
	case *identifierOperand:
		it, err := c.identifierTraversal(o)
		if err != nil {
			return nil, err
		}
		return it.Is(gremlin.Eq(true)), nil
	case *literalOperand:
		v, err := o.value()
		if err != nil {
			return nil, err
		}
		if b, ok := v.(bool); ok {
			return gremlin.Anonymous().Constant(b).Is(gremlin.Eq(true)), nil
		}
		return nil, newError(UnsupportedOperandType)
	default:
		return nil, newError(UnsupportedOperandType)
	}
}

// arithmeticOperator translates +, -, *, / and % into a single math step
// whose formula spans the whole arithmetic subtree. Column variables are
// bound with by modulators in order of first appearance; constants are
// inlined into the formula.
type arithmeticOperator struct {
	c    *compiler
	call *sqlast.Call
}

func (o *arithmeticOperator) arity() int { return len(o.call.Operands) }

func (o *arithmeticOperator) appendTraversal(t *gremlin.Traversal) *Error {
	kind := o.call.Op.Kind
	if kind == sqlast.OpNegate {
		if len(o.call.Operands) != 1 {
			return newError(UnsupportedOperandType)
		}
	} else if len(o.call.Operands) != 2 {
		return newError(UnsupportedOperandType)
	}
	var formula strings.Builder
	seen := make(map[string]string)
	var mods []*gremlin.Traversal
	if err := o.c.flattenMath(o.call, &formula, seen, &mods); err != nil {
		return err
	}
	t.Math(formula.String())
	for _, m := range mods {
		t.By(m)
	}
	return nil
}

// flattenMath writes the formula for an arithmetic subtree and collects
// one modulator per distinct column variable. Two different columns
// sharing a display name cannot both be formula variables, so that
// collision is rejected.
func (c *compiler) flattenMath(expr sqlast.Expr, formula *strings.Builder, seen map[string]string, mods *[]*gremlin.Traversal) *Error {
	switch e := expr.(type) {
	case *sqlast.ColumnRef:
		id := &identifierOperand{qualifier: e.Table, column: e.Name}
		alias, property, err := id.resolve(c)
		if err != nil {
			return err
		}
		resolved := groupKeyID(alias, property)
		if prev, ok := seen[e.Name]; ok {
			if prev != resolved {
				return newError(UnsupportedOperandType)
			}
		} else {
			seen[e.Name] = resolved
			it, err := c.identifierTraversal(id)
			if err != nil {
				return err
			}
			*mods = append(*mods, it)
		}
		formula.WriteString(e.Name)
		return nil
	case *sqlast.Literal:
		lo := &literalOperand{lit: e}
		v, err := lo.value()
		if err != nil {
			return err
		}
		switch v.(type) {
		case int64, float64:
			formula.WriteString(e.Text)
			return nil
		default:
			return newError(UnsupportedOperandType)
		}
	case *sqlast.Call:
		kind := e.Op.Kind
		switch {
		case kind == sqlast.OpNegate && len(e.Operands) == 1:
			formula.WriteString("-")
			return c.flattenMathSide(e.Operands[0], formula, seen, mods)
		case kind.IsArithmetic() && len(e.Operands) == 2:
			if err := c.flattenMathSide(e.Operands[0], formula, seen, mods); err != nil {
				return err
			}
			formula.WriteString(" ")
			formula.WriteString(e.Op.String())
			formula.WriteString(" ")
			return c.flattenMathSide(e.Operands[1], formula, seen, mods)
		default:
			return newError(UnsupportedOperandType)
		}
	default:
		return newError(UnsupportedOperandType)
	}
}

// flattenMathSide parenthesizes nested operations so the formula keeps
// the tree's evaluation order.
func (c *compiler) flattenMathSide(expr sqlast.Expr, formula *strings.Builder, seen map[string]string, mods *[]*gremlin.Traversal) *Error {
	if _, ok := expr.(*sqlast.Call); ok {
		formula.WriteString("(")
		if err := c.flattenMath(expr, formula, seen, mods); err != nil {
			return err
		}
		formula.WriteString(")")
		return nil
	}
	return c.flattenMath(expr, formula, seen, mods)
}

// aggregateOperator translates COUNT, SUM, AVG, MIN and MAX into a
// reduction over the grouped or folded elements. Star and constant
// arguments count elements; a column argument reduces over its values.
type aggregateOperator struct {
	c    *compiler
	call *sqlast.Call
}

func (o *aggregateOperator) arity() int { return len(o.call.Operands) }

func (o *aggregateOperator) appendTraversal(t *gremlin.Traversal) *Error {
	c := o.c
	if len(o.call.Operands) != 1 {
		return newError(UnsupportedOperandType)
	}
	if !c.md.groupByApplied && !c.md.folded {
		// The clause compiles before any grouped shape exists, as in a
		// WHERE filter, so there is nothing to reduce over.
		return newError(UnsupportedOperandType)
	}
	arg, err := c.wrapOperand(o.call.Operands[0])
	if err != nil {
		return err
	}
	kind := o.call.Op.Kind

	var property string
	switch a := arg.(type) {
	case *identifierOperand:
		if a.star {
			if kind != sqlast.OpCount {
				return newError(UnsupportedOperandType)
			}
		} else {
			_, prop, err := a.resolve(c)
			if err != nil {
				return err
			}
			property = prop
		}
	case *literalOperand:
		if kind != sqlast.OpCount {
			return newError(UnsupportedOperandType)
		}
	default:
		return newError(UnsupportedOperandType)
	}

	c.md.setGrouping()
	if c.md.groupByApplied {
		t.Select(gremlin.ColumnValues)
	}
	t.Unfold()
	if property != "" {
		t.Values(property)
	}
	if o.call.Distinct {
		t.Dedup()
	}
	switch kind {
	case sqlast.OpCount:
		t.Count()
	case sqlast.OpSum:
		t.Sum()
	case sqlast.OpAvg:
		t.Mean()
	case sqlast.OpMin:
		t.Min()
	case sqlast.OpMax:
		t.Max()
	}
	return nil
}

// castOperator rejects every CAST that survives to operator level.
// Constant casts fold into typed literals before translation; anything
// still shaped like a call has no traversal form.
type castOperator struct {
	call *sqlast.Call
}

func (o *castOperator) arity() int { return len(o.call.Operands) }

func (o *castOperator) appendTraversal(*gremlin.Traversal) *Error {
	return errUnknownOperator("CAST")
}

// unsupportedOperator is the sentinel for operators with no translation.
// It fails by name when applied, after the operand-count check, so a
// malformed unknown call still reports its count first.
type unsupportedOperator struct {
	name string
	call *sqlast.Call
}

func (o *unsupportedOperator) arity() int { return len(o.call.Operands) }

func (o *unsupportedOperator) appendTraversal(*gremlin.Traversal) *Error {
	return errUnknownOperator(o.name)
}

var (
	_ operator = (*comparisonOperator)(nil)
	_ operator = (*booleanOperator)(nil)
	_ operator = (*arithmeticOperator)(nil)
	_ operator = (*aggregateOperator)(nil)
	_ operator = (*castOperator)(nil)
	_ operator = (*unsupportedOperator)(nil)
)

func predicateFor(kind sqlast.OperatorKind, v any) gremlin.P {
	switch kind {
	case sqlast.OpEquals:
		return gremlin.Eq(v)
	case sqlast.OpNotEquals:
		return gremlin.Neq(v)
	case sqlast.OpLess:
		return gremlin.Lt(v)
	case sqlast.OpLessOrEqual:
		return gremlin.Lte(v)
	case sqlast.OpGreater:
		return gremlin.Gt(v)
	default:
		return gremlin.Gte(v)
	}
}

// reverseComparison flips a comparison across its operands, so a
// constant on the left becomes a predicate on the right.
func reverseComparison(kind sqlast.OperatorKind) sqlast.OperatorKind {
	switch kind {
	case sqlast.OpLess:
		return sqlast.OpGreater
	case sqlast.OpLessOrEqual:
		return sqlast.OpGreaterOrEqual
	case sqlast.OpGreater:
		return sqlast.OpLess
	case sqlast.OpGreaterOrEqual:
		return sqlast.OpLessOrEqual
	default:
		return kind
	}
}
