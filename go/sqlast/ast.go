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

// Package sqlast defines the validated relational query tree consumed by
// the translator. The tree mirrors the shape a SQL parser/validator
// produces: a SELECT statement whose expressions are column references,
// typed literals, and operator calls. The node set is sealed; the
// translator relies on exhaustive type switches over it.
package sqlast

// Expr is implemented by every expression node.
type Expr interface {
	exprNode()
}

// ColumnRef is a column reference, optionally qualified by a table name
// or alias.
type ColumnRef struct {
	Table string
	Name  string
}

// Star is the wildcard `*`, optionally qualified as `t.*`.
type Star struct {
	Table string
}

// Literal is a typed constant. Text holds the lexical form, Type the type
// of that lexical form, and Declared the SQL-declared type. The two types
// agree unless the front end folded a constant cast, in which case
// Declared carries the cast target.
type Literal struct {
	Text     string
	Type     Type
	Declared Type
	Null     bool
}

// NewLiteral builds a literal whose declared type matches its lexical
// type.
func NewLiteral(text string, typ Type) *Literal {
	return &Literal{Text: text, Type: typ, Declared: typ}
}

// NewNullLiteral builds the NULL constant.
func NewNullLiteral() *Literal {
	return &Literal{Text: "NULL", Type: TypeNull, Declared: TypeNull, Null: true}
}

// Call is a function or operator invocation. Target is set only for
// CAST calls, Distinct only for aggregate calls.
type Call struct {
	Op       Operator
	Operands []Expr
	Target   Type
	Distinct bool
}

// NewCall builds a Call for a classified operator kind.
func NewCall(kind OperatorKind, operands ...Expr) *Call {
	return &Call{Op: Op(kind), Operands: operands}
}

// Subquery is a nested SELECT appearing inside an expression. The
// translator never descends into it; it exists so scalar sub-queries can
// be represented and rejected by name.
type Subquery struct {
	Select *SelectStatement
}

func (*ColumnRef) exprNode() {}
func (*Star) exprNode()      {}
func (*Literal) exprNode()   {}
func (*Call) exprNode()      {}
func (*Subquery) exprNode()  {}

// TableExpr is implemented by every FROM-clause node.
type TableExpr interface {
	tableExprNode()
}

// TableName is a plain table reference with an optional alias.
type TableName struct {
	Name  string
	Alias string
}

// Join is an inner join between two FROM-clause nodes with an ON
// condition.
type Join struct {
	Left  TableExpr
	Right TableExpr
	Cond  Expr
}

func (*TableName) tableExprNode() {}
func (*Join) tableExprNode()      {}

// SelectItem is one projected expression with its optional AS alias.
type SelectItem struct {
	Expr  Expr
	Alias string
}

// OrderItem is one ORDER BY expression with its direction.
type OrderItem struct {
	Expr Expr
	Desc bool
}

// SelectStatement is the validated shape of a SELECT query.
type SelectStatement struct {
	Distinct bool
	Items    []SelectItem
	From     []TableExpr
	Where    Expr
	GroupBy  []Expr
	Having   Expr
	OrderBy  []OrderItem
	Limit    *int64
	Offset   *int64
}
