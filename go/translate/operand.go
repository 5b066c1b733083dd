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
	"strconv"
	"strings"

	"github.com/sqlgremlin/sqlgremlin/go/gremlin"
	"github.com/sqlgremlin/sqlgremlin/go/sqlast"
)

// operand is one argument position of an operator: a column reference, a
// constant, or a nested call. The set is sealed; anything else in an
// operand position is rejected when it is wrapped.
type operand interface {
	operandNode()
}

// identifierOperand is a column reference, or a star placeholder when
// counting rows.
type identifierOperand struct {
	// qualifier is the alias or table name prefix, empty when the query
	// leaves the column unqualified.
	qualifier string
	column    string
	star      bool
}

// literalOperand is a constant carried through from the statement.
type literalOperand struct {
	lit *sqlast.Literal
}

// callOperand is a nested operator application together with the output
// name it renders under.
type callOperand struct {
	call   *sqlast.Call
	op     operator
	rename string
}

func (*identifierOperand) operandNode() {}
func (*literalOperand) operandNode()    {}
func (*callOperand) operandNode()       {}

var (
	_ operand = (*identifierOperand)(nil)
	_ operand = (*literalOperand)(nil)
	_ operand = (*callOperand)(nil)
)

// wrapOperand lifts an expression into an operand. Sub-queries and any
// future expression kinds land in the default arm and are rejected.
func (c *compiler) wrapOperand(expr sqlast.Expr) (operand, *Error) {
	switch e := expr.(type) {
	case *sqlast.ColumnRef:
		return &identifierOperand{qualifier: e.Table, column: e.Name}, nil
	case *sqlast.Star:
		return &identifierOperand{qualifier: e.Table, star: true}, nil
	case *sqlast.Literal:
		return &literalOperand{lit: e}, nil
	case *sqlast.Call:
		return &callOperand{call: e, op: c.wrapOperator(e), rename: exprName(e)}, nil
	default:
		return nil, newError(UnsupportedOperandType)
	}
}

// getOperandName names an operand for output columns and math formulas:
// the star placeholder, the bare column, the literal's text, or a call's
// rename. This is the exhaustiveness boundary for the operand sum; an
// unhandled kind fails rather than producing an unnamed column.
func getOperandName(op operand) (string, *Error) {
	switch o := op.(type) {
	case *identifierOperand:
		if o.star {
			return "*", nil
		}
		return o.column, nil
	case *literalOperand:
		if o.lit.Null {
			return "NULL", nil
		}
		return o.lit.Text, nil
	case *callOperand:
		return o.rename, nil
	default:
		return "", newError(UnsupportedOperandType)
	}
}

// exprName derives the display name of an expression the way the
// statement wrote it, before any AS alias applies.
func exprName(expr sqlast.Expr) string {
	switch e := expr.(type) {
	case *sqlast.ColumnRef:
		return e.Name
	case *sqlast.Star:
		return "*"
	case *sqlast.Literal:
		if e.Null {
			return "NULL"
		}
		return e.Text
	case *sqlast.Call:
		return callName(e)
	default:
		return "?"
	}
}

func callName(call *sqlast.Call) string {
	kind := call.Op.Kind
	switch {
	case kind.IsAggregate():
		var b strings.Builder
		b.WriteString(call.Op.String())
		b.WriteString("(")
		if call.Distinct {
			b.WriteString("DISTINCT ")
		}
		for i, arg := range call.Operands {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(exprName(arg))
		}
		b.WriteString(")")
		return b.String()
	case kind == sqlast.OpNegate && len(call.Operands) == 1:
		return "-" + exprName(call.Operands[0])
	case (kind.IsArithmetic() || kind.IsComparison() || kind.IsBoolean()) && len(call.Operands) == 2:
		return exprName(call.Operands[0]) + " " + call.Op.String() + " " + exprName(call.Operands[1])
	default:
		var b strings.Builder
		b.WriteString(call.Op.String())
		b.WriteString("(")
		for i, arg := range call.Operands {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(exprName(arg))
		}
		b.WriteString(")")
		return b.String()
	}
}

// resolve maps the identifier to its alias binding and vertex property.
// Unqualified names resolve only when exactly one bound table carries the
// column.
func (o *identifierOperand) resolve(c *compiler) (alias, property string, err *Error) {
	if o.star {
		return "", "", errUnknownIdentifier("*")
	}
	if o.qualifier != "" {
		b, ok := c.md.binding(o.qualifier)
		if !ok {
			return "", "", errUnknownIdentifier(o.qualifier + "." + o.column)
		}
		prop, perr := c.catalog.ResolveColumnProperty(b.table, o.column)
		if perr != nil {
			return "", "", errUnknownIdentifier(o.qualifier + "." + o.column)
		}
		return b.alias, prop, nil
	}
	var found bool
	for _, b := range c.md.bindings() {
		prop, perr := c.catalog.ResolveColumnProperty(b.table, o.column)
		if perr != nil {
			continue
		}
		if found {
			// Ambiguous across two bound tables.
			return "", "", errUnknownIdentifier(o.column)
		}
		alias, property, found = b.alias, prop, true
	}
	if !found {
		return "", "", errUnknownIdentifier(o.column)
	}
	return alias, property, nil
}

// columnType reports the catalog type of the referenced column.
func (o *identifierOperand) columnType(c *compiler) (sqlast.Type, *Error) {
	alias, _, err := o.resolve(c)
	if err != nil {
		return sqlast.TypeUnknown, err
	}
	b, _ := c.md.binding(alias)
	tbl, ok := c.catalog.Table(b.table)
	if !ok {
		return sqlast.TypeUnknown, errUnknownTable(b.table)
	}
	col, ok := tbl.Column(o.column)
	if !ok {
		return sqlast.TypeUnknown, errUnknownIdentifier(o.column)
	}
	return col.Type, nil
}

// value decodes the literal into the Go value embedded in the traversal.
// The declared type must stay within the natural type's category; a cast
// that crosses categories has no constant here to decode.
func (o *literalOperand) value() (any, *Error) {
	lit := o.lit
	if lit.Null {
		return nil, nil
	}
	declared := lit.Declared
	if declared == sqlast.TypeUnknown {
		declared = lit.Type
	}
	if declared.Category() != lit.Type.Category() {
		return nil, newError(UnsupportedLiteralExpression)
	}
	switch declared.Category() {
	case sqlast.CategoryCharacter:
		return lit.Text, nil
	case sqlast.CategoryNumeric:
		if declared == sqlast.TypeBigint {
			n, err := strconv.ParseInt(lit.Text, 10, 64)
			if err != nil {
				return nil, newError(UnsupportedLiteralExpression)
			}
			return n, nil
		}
		f, err := strconv.ParseFloat(lit.Text, 64)
		if err != nil {
			return nil, newError(UnsupportedLiteralExpression)
		}
		return f, nil
	case sqlast.CategoryBoolean:
		v, err := strconv.ParseBool(lit.Text)
		if err != nil {
			return nil, newError(UnsupportedLiteralExpression)
		}
		return v, nil
	case sqlast.CategoryNull:
		return nil, nil
	default:
		// Temporal and other categories have no literal representation.
		return nil, newError(UnsupportedLiteralExpression)
	}
}

// identifierTraversal builds the anonymous traversal that reads the
// identifier's value from the current traverser. Under grouping only key
// columns remain addressable, through the group map's keys.
func (c *compiler) identifierTraversal(o *identifierOperand) (*gremlin.Traversal, *Error) {
	alias, property, err := o.resolve(c)
	if err != nil {
		return nil, err
	}
	if c.md.grouping {
		if !c.md.groupByApplied {
			return nil, errColumnNotGrouped(o.column)
		}
		name, ok := c.md.groupKey(alias, property)
		if !ok {
			return nil, errColumnNotGrouped(o.column)
		}
		t := gremlin.Anonymous().Select(gremlin.ColumnKeys)
		if c.md.multiKey() {
			t.Select(name)
		}
		return t, nil
	}
	return gremlin.Anonymous().Select(alias).Values(property), nil
}
