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

// Package parser turns SQL text into the validated statement tree the
// translator consumes. Parsing is delegated to the PostgreSQL grammar
// through pg_query; this package shapes the raw parse tree into sqlast
// nodes and rejects what that tree cannot carry. Catalog checks are the
// translator's job, not this package's.
package parser

import (
	"fmt"

	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/sqlgremlin/sqlgremlin/go/sqlast"
)

// Parse parses one SELECT statement.
func Parse(sql string) (*sqlast.SelectStatement, error) {
	result, err := pg_query.Parse(sql)
	if err != nil {
		return nil, fmt.Errorf("parse failed: %w", err)
	}
	if len(result.Stmts) == 0 {
		return nil, unsupported("empty statement")
	}
	if len(result.Stmts) > 1 {
		return nil, unsupported("multiple statements")
	}
	sel := result.Stmts[0].Stmt.GetSelectStmt()
	if sel == nil {
		return nil, unsupported("non-SELECT statement")
	}
	return convertSelect(sel)
}

func convertSelect(sel *pg_query.SelectStmt) (*sqlast.SelectStatement, error) {
	switch {
	case sel.Op != pg_query.SetOperation_SETOP_NONE:
		return nil, unsupported("set operation")
	case len(sel.ValuesLists) > 0:
		return nil, unsupported("VALUES list")
	case sel.WithClause != nil:
		return nil, unsupported("WITH clause")
	case sel.IntoClause != nil:
		return nil, unsupported("SELECT INTO")
	case len(sel.WindowClause) > 0:
		return nil, unsupported("window clause")
	case len(sel.LockingClause) > 0:
		return nil, unsupported("locking clause")
	case sel.GroupDistinct:
		return nil, unsupported("GROUP BY DISTINCT")
	case sel.LimitOption == pg_query.LimitOption_LIMIT_OPTION_WITH_TIES:
		return nil, unsupported("LIMIT WITH TIES")
	}

	stmt := &sqlast.SelectStatement{}

	distinct, err := convertDistinct(sel.DistinctClause)
	if err != nil {
		return nil, err
	}
	stmt.Distinct = distinct

	for _, target := range sel.TargetList {
		rt := target.GetResTarget()
		if rt == nil || rt.Val == nil {
			return nil, unsupported("select target")
		}
		expr, err := convertExpr(rt.Val)
		if err != nil {
			return nil, err
		}
		stmt.Items = append(stmt.Items, sqlast.SelectItem{Expr: expr, Alias: rt.Name})
	}

	for _, from := range sel.FromClause {
		te, err := convertTableExpr(from)
		if err != nil {
			return nil, err
		}
		stmt.From = append(stmt.From, te)
	}

	if sel.WhereClause != nil {
		where, err := convertExpr(sel.WhereClause)
		if err != nil {
			return nil, err
		}
		stmt.Where = where
	}

	for _, group := range sel.GroupClause {
		// Grouping sets land in the expression default arm and fail there.
		expr, err := convertExpr(group)
		if err != nil {
			return nil, err
		}
		stmt.GroupBy = append(stmt.GroupBy, expr)
	}

	if sel.HavingClause != nil {
		having, err := convertExpr(sel.HavingClause)
		if err != nil {
			return nil, err
		}
		stmt.Having = having
	}

	for _, sort := range sel.SortClause {
		item, err := convertSortBy(sort)
		if err != nil {
			return nil, err
		}
		stmt.OrderBy = append(stmt.OrderBy, item)
	}

	limit, err := convertLimit(sel.LimitCount)
	if err != nil {
		return nil, err
	}
	stmt.Limit = limit

	offset, err := convertLimit(sel.LimitOffset)
	if err != nil {
		return nil, err
	}
	stmt.Offset = offset

	return stmt, nil
}

// convertDistinct reports a plain DISTINCT, which the grammar encodes as
// a single empty clause entry. DISTINCT ON carries expressions the
// statement shape has no slot for.
func convertDistinct(clause []*pg_query.Node) (bool, error) {
	if len(clause) == 0 {
		return false, nil
	}
	for _, n := range clause {
		if n != nil && n.Node != nil {
			return false, unsupported("DISTINCT ON")
		}
	}
	return true, nil
}

func convertTableExpr(node *pg_query.Node) (sqlast.TableExpr, error) {
	if rv := node.GetRangeVar(); rv != nil {
		if rv.Schemaname != "" || rv.Catalogname != "" {
			return nil, unsupported("schema-qualified table")
		}
		var alias string
		if rv.Alias != nil {
			if len(rv.Alias.Colnames) > 0 {
				return nil, unsupported("column alias list")
			}
			alias = rv.Alias.Aliasname
		}
		return &sqlast.TableName{Name: rv.Relname, Alias: alias}, nil
	}
	if je := node.GetJoinExpr(); je != nil {
		return convertJoin(je)
	}
	if node.GetRangeSubselect() != nil {
		return nil, unsupported("derived table")
	}
	return nil, unsupportedf("table expression %s", nodeName(node))
}

// convertJoin keeps only plain inner joins. A CROSS JOIN arrives as an
// inner join without quals; the shape passes through and the translator
// rejects the missing condition.
func convertJoin(je *pg_query.JoinExpr) (sqlast.TableExpr, error) {
	if je.Jointype != pg_query.JoinType_JOIN_INNER {
		return nil, unsupported("outer join")
	}
	if je.IsNatural {
		return nil, unsupported("natural join")
	}
	if len(je.UsingClause) > 0 {
		return nil, unsupported("JOIN USING")
	}
	if je.Alias != nil {
		return nil, unsupported("join alias")
	}
	left, err := convertTableExpr(je.Larg)
	if err != nil {
		return nil, err
	}
	right, err := convertTableExpr(je.Rarg)
	if err != nil {
		return nil, err
	}
	join := &sqlast.Join{Left: left, Right: right}
	if je.Quals != nil {
		cond, err := convertExpr(je.Quals)
		if err != nil {
			return nil, err
		}
		join.Cond = cond
	}
	return join, nil
}

func convertSortBy(node *pg_query.Node) (sqlast.OrderItem, error) {
	sb := node.GetSortBy()
	if sb == nil {
		return sqlast.OrderItem{}, unsupported("sort clause")
	}
	if sb.SortbyDir == pg_query.SortByDir_SORTBY_USING {
		return sqlast.OrderItem{}, unsupported("ORDER BY USING")
	}
	expr, err := convertExpr(sb.Node)
	if err != nil {
		return sqlast.OrderItem{}, err
	}
	return sqlast.OrderItem{
		Expr: expr,
		Desc: sb.SortbyDir == pg_query.SortByDir_SORTBY_DESC,
	}, nil
}

// convertLimit accepts only integer constants. LIMIT ALL arrives as a
// null constant and means no limit.
func convertLimit(node *pg_query.Node) (*int64, error) {
	if node == nil {
		return nil, nil
	}
	ac := node.GetAConst()
	if ac == nil {
		return nil, unsupported("non-constant LIMIT or OFFSET")
	}
	if ac.Isnull {
		return nil, nil
	}
	iv := ac.GetIval()
	if iv == nil {
		return nil, unsupported("non-integer LIMIT or OFFSET")
	}
	n := int64(iv.Ival)
	return &n, nil
}
