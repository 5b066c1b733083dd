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

package parser

import (
	"fmt"
	"strconv"
	"strings"

	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/sqlgremlin/sqlgremlin/go/sqlast"
)

func convertExpr(node *pg_query.Node) (sqlast.Expr, error) {
	if node == nil {
		return nil, unsupported("empty expression")
	}
	if cr := node.GetColumnRef(); cr != nil {
		return convertColumnRef(cr)
	}
	if ac := node.GetAConst(); ac != nil {
		return convertConst(ac)
	}
	if tc := node.GetTypeCast(); tc != nil {
		return convertCast(tc)
	}
	if ae := node.GetAExpr(); ae != nil {
		return convertAExpr(ae)
	}
	if be := node.GetBoolExpr(); be != nil {
		return convertBoolExpr(be)
	}
	if fc := node.GetFuncCall(); fc != nil {
		return convertFuncCall(fc)
	}
	if sl := node.GetSubLink(); sl != nil {
		return convertSubLink(sl)
	}
	if nt := node.GetNullTest(); nt != nil {
		return convertNullTest(nt)
	}
	return nil, unsupportedf("expression %s", nodeName(node))
}

func convertColumnRef(cr *pg_query.ColumnRef) (sqlast.Expr, error) {
	var names []string
	star := false
	for _, f := range cr.Fields {
		if s := f.GetString_(); s != nil {
			names = append(names, s.Sval)
			continue
		}
		if f.GetAStar() != nil {
			star = true
			continue
		}
		return nil, unsupported("column subscript")
	}
	switch {
	case star && len(names) == 0:
		return &sqlast.Star{}, nil
	case star && len(names) == 1:
		return &sqlast.Star{Table: names[0]}, nil
	case star:
		return nil, unsupported("schema-qualified star")
	case len(names) == 1:
		return &sqlast.ColumnRef{Name: names[0]}, nil
	case len(names) == 2:
		return &sqlast.ColumnRef{Table: names[0], Name: names[1]}, nil
	case len(names) == 0:
		return nil, unsupported("empty column reference")
	default:
		return nil, unsupported("schema-qualified column")
	}
}

// convertConst maps the grammar's constant kinds onto typed literals:
// integers to bigint, decimals to double, strings to varchar. The
// grammar folds a leading sign into numeric constants before they reach
// this point.
func convertConst(ac *pg_query.A_Const) (*sqlast.Literal, error) {
	if ac.Isnull {
		return sqlast.NewNullLiteral(), nil
	}
	if iv := ac.GetIval(); iv != nil {
		return sqlast.NewLiteral(strconv.FormatInt(int64(iv.Ival), 10), sqlast.TypeBigint), nil
	}
	if fv := ac.GetFval(); fv != nil {
		// Integers beyond int32 range arrive as float nodes; keep them
		// exact.
		if !strings.ContainsAny(fv.Fval, ".eE") {
			return sqlast.NewLiteral(fv.Fval, sqlast.TypeBigint), nil
		}
		return sqlast.NewLiteral(fv.Fval, sqlast.TypeDouble), nil
	}
	if bv := ac.GetBoolval(); bv != nil {
		return sqlast.NewLiteral(strconv.FormatBool(bv.Boolval), sqlast.TypeBoolean), nil
	}
	if sv := ac.GetSval(); sv != nil {
		return sqlast.NewLiteral(sv.Sval, sqlast.TypeVarchar), nil
	}
	return nil, unsupported("bit-string constant")
}

// convertCast folds a constant cast into a literal carrying the declared
// type, which is where cross-category casts are later caught. Casts of
// anything else stay calls and fail at operator level.
func convertCast(tc *pg_query.TypeCast) (sqlast.Expr, error) {
	if tc.Arg == nil {
		return nil, unsupported("cast without operand")
	}
	target, known := castTarget(tc.TypeName)
	if ac := tc.Arg.GetAConst(); ac != nil && known {
		lit, err := convertConst(ac)
		if err != nil {
			return nil, err
		}
		lit.Declared = target
		return lit, nil
	}
	arg, err := convertExpr(tc.Arg)
	if err != nil {
		return nil, err
	}
	call := &sqlast.Call{Op: sqlast.Op(sqlast.OpCast), Operands: []sqlast.Expr{arg}}
	if known {
		call.Target = target
	}
	return call, nil
}

// castTarget resolves the cast's type name, skipping the pg_catalog
// qualifier the grammar inserts for built-in types.
func castTarget(tn *pg_query.TypeName) (sqlast.Type, bool) {
	if tn == nil {
		return sqlast.TypeUnknown, false
	}
	var name string
	for _, n := range tn.Names {
		if s := n.GetString_(); s != nil {
			name = s.Sval
		}
	}
	if name == "" || name == "pg_catalog" {
		return sqlast.TypeUnknown, false
	}
	return sqlast.ParseType(name)
}

var binaryOperators = map[string]sqlast.OperatorKind{
	"=":  sqlast.OpEquals,
	"<>": sqlast.OpNotEquals,
	"!=": sqlast.OpNotEquals,
	"<":  sqlast.OpLess,
	"<=": sqlast.OpLessOrEqual,
	">":  sqlast.OpGreater,
	">=": sqlast.OpGreaterOrEqual,
	"+":  sqlast.OpPlus,
	"-":  sqlast.OpMinus,
	"*":  sqlast.OpTimes,
	"/":  sqlast.OpDivide,
	"%":  sqlast.OpModulo,
}

func convertAExpr(ae *pg_query.A_Expr) (sqlast.Expr, error) {
	name := aexprName(ae)
	if ae.Lexpr == nil {
		operand, err := convertExpr(ae.Rexpr)
		if err != nil {
			return nil, err
		}
		switch name {
		case "-":
			return sqlast.NewCall(sqlast.OpNegate, operand), nil
		case "+":
			// Unary plus is a no-op.
			return operand, nil
		default:
			return &sqlast.Call{Op: sqlast.OtherOp(name), Operands: []sqlast.Expr{operand}}, nil
		}
	}
	left, err := convertExpr(ae.Lexpr)
	if err != nil {
		return nil, err
	}
	if ae.Kind != pg_query.A_Expr_Kind_AEXPR_OP {
		// IN, BETWEEN, LIKE and friends. The left operand is carried so
		// the operator fails by name rather than on operand count.
		return &sqlast.Call{Op: sqlast.OtherOp(name), Operands: []sqlast.Expr{left}}, nil
	}
	right, err := convertExpr(ae.Rexpr)
	if err != nil {
		return nil, err
	}
	if kind, ok := binaryOperators[name]; ok {
		return sqlast.NewCall(kind, left, right), nil
	}
	return &sqlast.Call{Op: sqlast.OtherOp(name), Operands: []sqlast.Expr{left, right}}, nil
}

// aexprName names the operator for error reporting. Sugared comparison
// kinds get their SQL spelling; a plain operator keeps the name the
// grammar recorded.
func aexprName(ae *pg_query.A_Expr) string {
	var raw string
	for _, n := range ae.Name {
		if s := n.GetString_(); s != nil {
			raw = s.Sval
		}
	}
	negated := strings.HasPrefix(raw, "!")
	switch ae.Kind {
	case pg_query.A_Expr_Kind_AEXPR_LIKE:
		if negated {
			return "NOT LIKE"
		}
		return "LIKE"
	case pg_query.A_Expr_Kind_AEXPR_ILIKE:
		if negated {
			return "NOT ILIKE"
		}
		return "ILIKE"
	case pg_query.A_Expr_Kind_AEXPR_SIMILAR:
		if negated {
			return "NOT SIMILAR TO"
		}
		return "SIMILAR TO"
	case pg_query.A_Expr_Kind_AEXPR_IN:
		if raw == "<>" {
			return "NOT IN"
		}
		return "IN"
	case pg_query.A_Expr_Kind_AEXPR_BETWEEN, pg_query.A_Expr_Kind_AEXPR_BETWEEN_SYM:
		return "BETWEEN"
	case pg_query.A_Expr_Kind_AEXPR_NOT_BETWEEN, pg_query.A_Expr_Kind_AEXPR_NOT_BETWEEN_SYM:
		return "NOT BETWEEN"
	case pg_query.A_Expr_Kind_AEXPR_DISTINCT:
		return "IS DISTINCT FROM"
	case pg_query.A_Expr_Kind_AEXPR_NOT_DISTINCT:
		return "IS NOT DISTINCT FROM"
	case pg_query.A_Expr_Kind_AEXPR_NULLIF:
		return "NULLIF"
	case pg_query.A_Expr_Kind_AEXPR_OP_ANY:
		return "ANY"
	case pg_query.A_Expr_Kind_AEXPR_OP_ALL:
		return "ALL"
	}
	if raw != "" {
		return raw
	}
	return "OPERATOR"
}

// convertBoolExpr rebuilds the grammar's flattened combinator chains as
// left-deep binary calls.
func convertBoolExpr(be *pg_query.BoolExpr) (sqlast.Expr, error) {
	if be.Boolop == pg_query.BoolExprType_NOT_EXPR {
		if len(be.Args) != 1 {
			return nil, unsupported("malformed NOT")
		}
		operand, err := convertExpr(be.Args[0])
		if err != nil {
			return nil, err
		}
		return sqlast.NewCall(sqlast.OpNot, operand), nil
	}
	kind := sqlast.OpAnd
	if be.Boolop == pg_query.BoolExprType_OR_EXPR {
		kind = sqlast.OpOr
	}
	if len(be.Args) < 2 {
		return nil, unsupported("malformed boolean expression")
	}
	acc, err := convertExpr(be.Args[0])
	if err != nil {
		return nil, err
	}
	for _, arg := range be.Args[1:] {
		next, err := convertExpr(arg)
		if err != nil {
			return nil, err
		}
		acc = sqlast.NewCall(kind, acc, next)
	}
	return acc, nil
}

var aggregates = map[string]sqlast.OperatorKind{
	"count": sqlast.OpCount,
	"sum":   sqlast.OpSum,
	"avg":   sqlast.OpAvg,
	"min":   sqlast.OpMin,
	"max":   sqlast.OpMax,
}

func convertFuncCall(fc *pg_query.FuncCall) (sqlast.Expr, error) {
	if fc.AggFilter != nil || len(fc.AggOrder) > 0 || fc.AggWithinGroup {
		return nil, unsupported("aggregate qualifier")
	}
	if fc.Over != nil {
		return nil, unsupported("window function")
	}
	var name string
	for _, n := range fc.Funcname {
		if s := n.GetString_(); s != nil {
			name = s.Sval
		}
	}
	if name == "" {
		return nil, unsupported("function name")
	}
	var operands []sqlast.Expr
	if fc.AggStar {
		operands = append(operands, &sqlast.Star{})
	}
	for _, arg := range fc.Args {
		expr, err := convertExpr(arg)
		if err != nil {
			return nil, err
		}
		operands = append(operands, expr)
	}
	if kind, ok := aggregates[strings.ToLower(name)]; ok {
		call := sqlast.NewCall(kind, operands...)
		call.Distinct = fc.AggDistinct
		return call, nil
	}
	return &sqlast.Call{Op: sqlast.OtherOp(strings.ToUpper(name)), Operands: operands}, nil
}

// convertSubLink keeps the nested SELECT so the translator can reject
// the sub-query by operator name.
func convertSubLink(sl *pg_query.SubLink) (sqlast.Expr, error) {
	sub := sl.Subselect.GetSelectStmt()
	if sub == nil {
		return nil, unsupported("sub-link")
	}
	inner, err := convertSelect(sub)
	if err != nil {
		return nil, err
	}
	name := "SCALAR_QUERY"
	switch sl.SubLinkType {
	case pg_query.SubLinkType_EXISTS_SUBLINK:
		name = "EXISTS"
	case pg_query.SubLinkType_ANY_SUBLINK:
		name = "IN"
	case pg_query.SubLinkType_ALL_SUBLINK:
		name = "ALL"
	}
	return &sqlast.Call{
		Op:       sqlast.OtherOp(name),
		Operands: []sqlast.Expr{&sqlast.Subquery{Select: inner}},
	}, nil
}

func convertNullTest(nt *pg_query.NullTest) (sqlast.Expr, error) {
	arg, err := convertExpr(nt.Arg)
	if err != nil {
		return nil, err
	}
	name := "IS NULL"
	if nt.Nulltesttype == pg_query.NullTestType_IS_NOT_NULL {
		name = "IS NOT NULL"
	}
	return &sqlast.Call{Op: sqlast.OtherOp(name), Operands: []sqlast.Expr{arg}}, nil
}

func nodeName(node *pg_query.Node) string {
	if node == nil || node.Node == nil {
		return "empty node"
	}
	return strings.TrimPrefix(fmt.Sprintf("%T", node.Node), "*pg_query.Node_")
}
