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
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlgremlin/sqlgremlin/go/gremlin"
	"github.com/sqlgremlin/sqlgremlin/go/schema"
	"github.com/sqlgremlin/sqlgremlin/go/sqlast"
)

func slogDiscard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testCatalog(t *testing.T) *schema.Catalog {
	t.Helper()
	catalog, err := schema.NewCatalog(
		[]schema.Table{
			{Name: "person", Columns: []schema.Column{
				{Name: "name", Type: sqlast.TypeVarchar},
				{Name: "age", Type: sqlast.TypeBigint},
				{Name: "salary", Type: sqlast.TypeDouble},
				{Name: "active", Type: sqlast.TypeBoolean},
				{Name: "company_id", Type: sqlast.TypeBigint},
			}},
			{Name: "company", Label: "organization", Columns: []schema.Column{
				{Name: "id", Type: sqlast.TypeBigint},
				{Name: "name", Type: sqlast.TypeVarchar},
			}},
			{Name: "city", Columns: []schema.Column{
				{Name: "name", Type: sqlast.TypeVarchar},
			}},
		},
		[]schema.JoinEdge{
			{Label: "worksFor", OutTable: "person", InTable: "company"},
		},
	)
	require.NoError(t, err)
	return catalog
}

func col(table, name string) *sqlast.ColumnRef {
	return &sqlast.ColumnRef{Table: table, Name: name}
}

func intLit(text string) *sqlast.Literal {
	return sqlast.NewLiteral(text, sqlast.TypeBigint)
}

func strLit(text string) *sqlast.Literal {
	return sqlast.NewLiteral(text, sqlast.TypeVarchar)
}

func from(tables ...sqlast.TableExpr) []sqlast.TableExpr {
	return tables
}

func items(exprs ...sqlast.Expr) []sqlast.SelectItem {
	out := make([]sqlast.SelectItem, len(exprs))
	for i, e := range exprs {
		out[i] = sqlast.SelectItem{Expr: e}
	}
	return out
}

func TestTranslateSingleTable(t *testing.T) {
	tr := New(testCatalog(t))

	res, err := tr.Translate(&sqlast.SelectStatement{
		Items: items(col("", "name")),
		From:  from(&sqlast.TableName{Name: "person"}),
		Where: sqlast.NewCall(sqlast.OpGreater, col("", "age"), intLit("30")),
	})
	require.NoError(t, err)

	assert.Equal(t,
		"g.V().hasLabel('person').as('person')"+
			".where(__.select('person').values('age').is(gt(30)))"+
			".project('name').by(__.select('person').values('name'))",
		res.Traversal.String())
	assert.Equal(t, []OutputColumn{{Name: "name", Type: sqlast.TypeVarchar}}, res.Columns)
}

func TestTranslateStarExpansion(t *testing.T) {
	tr := New(testCatalog(t))

	res, err := tr.Translate(&sqlast.SelectStatement{
		Items: items(&sqlast.Star{}),
		From:  from(&sqlast.TableName{Name: "person"}),
	})
	require.NoError(t, err)

	assert.Equal(t, []OutputColumn{
		{Name: "name", Type: sqlast.TypeVarchar},
		{Name: "age", Type: sqlast.TypeBigint},
		{Name: "salary", Type: sqlast.TypeDouble},
		{Name: "active", Type: sqlast.TypeBoolean},
		{Name: "company_id", Type: sqlast.TypeBigint},
	}, res.Columns)
	assert.Equal(t,
		"g.V().hasLabel('person').as('person')"+
			".project('name', 'age', 'salary', 'active', 'company_id')"+
			".by(__.select('person').values('name'))"+
			".by(__.select('person').values('age'))"+
			".by(__.select('person').values('salary'))"+
			".by(__.select('person').values('active'))"+
			".by(__.select('person').values('company_id'))",
		res.Traversal.String())
}

func TestTranslateJoin(t *testing.T) {
	tr := New(testCatalog(t))

	stmt := &sqlast.SelectStatement{
		Items: items(col("p", "name"), col("c", "name")),
		From: from(&sqlast.Join{
			Left:  &sqlast.TableName{Name: "person", Alias: "p"},
			Right: &sqlast.TableName{Name: "company", Alias: "c"},
			Cond:  sqlast.NewCall(sqlast.OpEquals, col("p", "company_id"), col("c", "id")),
		}),
	}
	res, err := tr.Translate(stmt)
	require.NoError(t, err)

	assert.Equal(t,
		"g.V().hasLabel('person').as('p')"+
			".out('worksFor').hasLabel('organization').as('c')"+
			".project('name', 'name_1')"+
			".by(__.select('p').values('name'))"+
			".by(__.select('c').values('name'))",
		res.Traversal.String())
	assert.Equal(t, []OutputColumn{
		{Name: "name", Type: sqlast.TypeVarchar},
		{Name: "name_1", Type: sqlast.TypeVarchar},
	}, res.Columns)
}

func TestTranslateJoinConditionReversed(t *testing.T) {
	tr := New(testCatalog(t))

	// ON c.id = p.company_id walks the same edge as the mirrored form.
	res, err := tr.Translate(&sqlast.SelectStatement{
		Items: items(col("p", "name")),
		From: from(&sqlast.Join{
			Left:  &sqlast.TableName{Name: "person", Alias: "p"},
			Right: &sqlast.TableName{Name: "company", Alias: "c"},
			Cond:  sqlast.NewCall(sqlast.OpEquals, col("c", "id"), col("p", "company_id")),
		}),
	})
	require.NoError(t, err)
	assert.Contains(t, res.Traversal.String(), ".out('worksFor').hasLabel('organization').as('c')")
}

func TestTranslateColumnToColumnComparison(t *testing.T) {
	tr := New(testCatalog(t))

	res, err := tr.Translate(&sqlast.SelectStatement{
		Items: items(col("", "age")),
		From:  from(&sqlast.TableName{Name: "person"}),
		Where: sqlast.NewCall(sqlast.OpLess, col("", "age"), col("", "company_id")),
	})
	require.NoError(t, err)
	assert.Contains(t, res.Traversal.String(),
		".where('person', lt('person')).by('age').by('company_id')")
}

func TestTranslateReversedLiteralComparison(t *testing.T) {
	tr := New(testCatalog(t))

	// 30 < age flips into age > 30.
	res, err := tr.Translate(&sqlast.SelectStatement{
		Items: items(col("", "name")),
		From:  from(&sqlast.TableName{Name: "person"}),
		Where: sqlast.NewCall(sqlast.OpLess, intLit("30"), col("", "age")),
	})
	require.NoError(t, err)
	assert.Contains(t, res.Traversal.String(),
		".where(__.select('person').values('age').is(gt(30)))")
}

func TestTranslateBooleanCombinators(t *testing.T) {
	tr := New(testCatalog(t))

	res, err := tr.Translate(&sqlast.SelectStatement{
		Items: items(col("", "name")),
		From:  from(&sqlast.TableName{Name: "person"}),
		Where: sqlast.NewCall(sqlast.OpAnd,
			sqlast.NewCall(sqlast.OpGreater, col("", "age"), intLit("30")),
			sqlast.NewCall(sqlast.OpNot,
				sqlast.NewCall(sqlast.OpEquals, col("", "name"), strLit("Tom")),
			),
		),
	})
	require.NoError(t, err)

	assert.Contains(t, res.Traversal.String(),
		".and("+
			"__.where(__.select('person').values('age').is(gt(30))), "+
			"__.not(__.where(__.select('person').values('name').is(eq('Tom')))))")
}

func TestTranslateBareBooleanColumn(t *testing.T) {
	tr := New(testCatalog(t))

	res, err := tr.Translate(&sqlast.SelectStatement{
		Items: items(col("", "name")),
		From:  from(&sqlast.TableName{Name: "person"}),
		Where: col("", "active"),
	})
	require.NoError(t, err)
	assert.Contains(t, res.Traversal.String(),
		".where(__.select('person').values('active').is(eq(true)))")
}

func TestTranslateGlobalAggregate(t *testing.T) {
	tr := New(testCatalog(t))

	res, err := tr.Translate(&sqlast.SelectStatement{
		Items: items(sqlast.NewCall(sqlast.OpCount, &sqlast.Star{})),
		From:  from(&sqlast.TableName{Name: "person"}),
	})
	require.NoError(t, err)

	assert.Equal(t,
		"g.V().hasLabel('person').as('person').fold()"+
			".project('COUNT(*)').by(__.unfold().count())",
		res.Traversal.String())
	assert.Equal(t, []OutputColumn{{Name: "COUNT(*)", Type: sqlast.TypeBigint}}, res.Columns)
}

func TestTranslateGlobalAggregateTypes(t *testing.T) {
	tr := New(testCatalog(t))

	res, err := tr.Translate(&sqlast.SelectStatement{
		Items: items(
			sqlast.NewCall(sqlast.OpSum, col("", "age")),
			sqlast.NewCall(sqlast.OpAvg, col("", "salary")),
			sqlast.NewCall(sqlast.OpMax, col("", "name")),
		),
		From: from(&sqlast.TableName{Name: "person"}),
	})
	require.NoError(t, err)

	assert.Equal(t, []OutputColumn{
		{Name: "SUM(age)", Type: sqlast.TypeBigint},
		{Name: "AVG(salary)", Type: sqlast.TypeDouble},
		{Name: "MAX(name)", Type: sqlast.TypeVarchar},
	}, res.Columns)
	assert.Contains(t, res.Traversal.String(), ".by(__.unfold().values('age').sum())")
	assert.Contains(t, res.Traversal.String(), ".by(__.unfold().values('salary').mean())")
	assert.Contains(t, res.Traversal.String(), ".by(__.unfold().values('name').max())")
}

func TestTranslateGroupBy(t *testing.T) {
	tr := New(testCatalog(t))

	res, err := tr.Translate(&sqlast.SelectStatement{
		Items: items(
			col("", "age"),
			sqlast.NewCall(sqlast.OpCount, &sqlast.Star{}),
		),
		From:    from(&sqlast.TableName{Name: "person"}),
		GroupBy: []sqlast.Expr{col("", "age")},
	})
	require.NoError(t, err)

	assert.Equal(t,
		"g.V().hasLabel('person').as('person')"+
			".group().by(__.select('person').values('age')).unfold()"+
			".project('age', 'COUNT(*)')"+
			".by(__.select(keys))"+
			".by(__.select(values).unfold().count())",
		res.Traversal.String())
	assert.Equal(t, []OutputColumn{
		{Name: "age", Type: sqlast.TypeBigint},
		{Name: "COUNT(*)", Type: sqlast.TypeBigint},
	}, res.Columns)
}

func TestTranslateGroupByCompositeKey(t *testing.T) {
	tr := New(testCatalog(t))

	res, err := tr.Translate(&sqlast.SelectStatement{
		Items: items(
			col("", "age"),
			col("", "name"),
			sqlast.NewCall(sqlast.OpSum, col("", "salary")),
		),
		From:    from(&sqlast.TableName{Name: "person"}),
		GroupBy: []sqlast.Expr{col("", "age"), col("", "name")},
	})
	require.NoError(t, err)

	assert.Equal(t,
		"g.V().hasLabel('person').as('person')"+
			".group().by(__.project('age', 'name')"+
			".by(__.select('person').values('age'))"+
			".by(__.select('person').values('name'))).unfold()"+
			".project('age', 'name', 'SUM(salary)')"+
			".by(__.select(keys).select('age'))"+
			".by(__.select(keys).select('name'))"+
			".by(__.select(values).unfold().values('salary').sum())",
		res.Traversal.String())
	assert.Equal(t, []OutputColumn{
		{Name: "age", Type: sqlast.TypeBigint},
		{Name: "name", Type: sqlast.TypeVarchar},
		{Name: "SUM(salary)", Type: sqlast.TypeDouble},
	}, res.Columns)
}

func TestTranslateHaving(t *testing.T) {
	tr := New(testCatalog(t))

	res, err := tr.Translate(&sqlast.SelectStatement{
		Items:   items(col("", "age")),
		From:    from(&sqlast.TableName{Name: "person"}),
		GroupBy: []sqlast.Expr{col("", "age")},
		Having: sqlast.NewCall(sqlast.OpGreater,
			sqlast.NewCall(sqlast.OpCount, &sqlast.Star{}),
			intLit("1"),
		),
	})
	require.NoError(t, err)

	assert.Equal(t,
		"g.V().hasLabel('person').as('person')"+
			".group().by(__.select('person').values('age')).unfold()"+
			".where(__.select(values).unfold().count().is(gt(1)))"+
			".project('age').by(__.select(keys))",
		res.Traversal.String())
}

func TestTranslateDistinctAggregate(t *testing.T) {
	tr := New(testCatalog(t))

	call := sqlast.NewCall(sqlast.OpCount, col("", "age"))
	call.Distinct = true
	res, err := tr.Translate(&sqlast.SelectStatement{
		Items: []sqlast.SelectItem{{Expr: call}},
		From:  from(&sqlast.TableName{Name: "person"}),
	})
	require.NoError(t, err)

	assert.Contains(t, res.Traversal.String(),
		".by(__.unfold().values('age').dedup().count())")
	assert.Equal(t, "COUNT(DISTINCT age)", res.Columns[0].Name)
}

func TestTranslateDistinct(t *testing.T) {
	tr := New(testCatalog(t))

	res, err := tr.Translate(&sqlast.SelectStatement{
		Distinct: true,
		Items:    items(col("", "name")),
		From:     from(&sqlast.TableName{Name: "person"}),
	})
	require.NoError(t, err)
	assert.Equal(t,
		"g.V().hasLabel('person').as('person')"+
			".project('name').by(__.select('person').values('name')).dedup()",
		res.Traversal.String())
}

func TestTranslateOrderByAndLimit(t *testing.T) {
	tr := New(testCatalog(t))
	limit := int64(10)

	res, err := tr.Translate(&sqlast.SelectStatement{
		Items: items(col("", "name")),
		From:  from(&sqlast.TableName{Name: "person"}),
		OrderBy: []sqlast.OrderItem{
			{Expr: col("", "name")},
			{Expr: col("", "age"), Desc: true},
		},
		Limit: &limit,
	})
	require.NoError(t, err)

	assert.Equal(t,
		"g.V().hasLabel('person').as('person')"+
			".project('name').by(__.select('person').values('name'))"+
			".order()"+
			".by(__.select('name'), asc)"+
			".by(__.select('person').values('age'), desc)"+
			".limit(10)",
		res.Traversal.String())
}

func TestTranslateOrderByOrdinal(t *testing.T) {
	tr := New(testCatalog(t))

	res, err := tr.Translate(&sqlast.SelectStatement{
		Items:   items(col("", "name"), col("", "age")),
		From:    from(&sqlast.TableName{Name: "person"}),
		OrderBy: []sqlast.OrderItem{{Expr: intLit("2"), Desc: true}},
	})
	require.NoError(t, err)
	assert.Contains(t, res.Traversal.String(), ".order().by(__.select('age'), desc)")
}

func TestTranslateConstantOnly(t *testing.T) {
	tr := New(testCatalog(t))

	res, err := tr.Translate(&sqlast.SelectStatement{
		Items: items(intLit("1"), strLit("ok")),
	})
	require.NoError(t, err)

	assert.Equal(t,
		"g.inject(0).project('1', 'ok').by(__.constant(1)).by(__.constant('ok'))",
		res.Traversal.String())
	assert.Equal(t, []OutputColumn{
		{Name: "1", Type: sqlast.TypeBigint},
		{Name: "ok", Type: sqlast.TypeVarchar},
	}, res.Columns)
}

func TestTranslateFoldedConstantCast(t *testing.T) {
	tr := New(testCatalog(t))

	// CAST('17' AS CHAR) keeps the character category and decodes.
	res, err := tr.Translate(&sqlast.SelectStatement{
		Items: []sqlast.SelectItem{{Expr: &sqlast.Literal{
			Text: "17", Type: sqlast.TypeVarchar, Declared: sqlast.TypeChar,
		}}},
	})
	require.NoError(t, err)
	assert.Equal(t, []OutputColumn{{Name: "17", Type: sqlast.TypeChar}}, res.Columns)
	assert.Contains(t, res.Traversal.String(), ".by(__.constant('17'))")
}

func TestTranslateArithmetic(t *testing.T) {
	tr := New(testCatalog(t))

	res, err := tr.Translate(&sqlast.SelectStatement{
		Items: items(
			sqlast.NewCall(sqlast.OpPlus, col("", "age"), intLit("5")),
		),
		From: from(&sqlast.TableName{Name: "person"}),
	})
	require.NoError(t, err)

	assert.Equal(t,
		"g.V().hasLabel('person').as('person')"+
			".project('age + 5')"+
			".by(__.math('age + 5').by(__.select('person').values('age')))",
		res.Traversal.String())
	assert.Equal(t, []OutputColumn{{Name: "age + 5", Type: sqlast.TypeDouble}}, res.Columns)
}

func TestTranslateNestedArithmetic(t *testing.T) {
	tr := New(testCatalog(t))

	res, err := tr.Translate(&sqlast.SelectStatement{
		Items: []sqlast.SelectItem{{
			Expr: sqlast.NewCall(sqlast.OpTimes,
				col("", "age"),
				sqlast.NewCall(sqlast.OpMinus, col("", "salary"), intLit("3")),
			),
			Alias: "score",
		}},
		From: from(&sqlast.TableName{Name: "person"}),
	})
	require.NoError(t, err)

	assert.Contains(t, res.Traversal.String(),
		".project('score')"+
			".by(__.math('age * (salary - 3)')"+
			".by(__.select('person').values('age'))"+
			".by(__.select('person').values('salary')))")
}

func TestTranslateSelectAlias(t *testing.T) {
	tr := New(testCatalog(t))

	res, err := tr.Translate(&sqlast.SelectStatement{
		Items: []sqlast.SelectItem{{Expr: col("", "name"), Alias: "who"}},
		From:  from(&sqlast.TableName{Name: "person"}),
	})
	require.NoError(t, err)
	assert.Equal(t, []OutputColumn{{Name: "who", Type: sqlast.TypeVarchar}}, res.Columns)
	assert.Contains(t, res.Traversal.String(), ".project('who')")
}

func TestTranslateDeterministic(t *testing.T) {
	tr := New(testCatalog(t))

	stmt := &sqlast.SelectStatement{
		Items: items(col("p", "name"), col("c", "name"),
			sqlast.NewCall(sqlast.OpPlus, col("p", "age"), intLit("1"))),
		From: from(&sqlast.Join{
			Left:  &sqlast.TableName{Name: "person", Alias: "p"},
			Right: &sqlast.TableName{Name: "company", Alias: "c"},
			Cond:  sqlast.NewCall(sqlast.OpEquals, col("p", "company_id"), col("c", "id")),
		}),
		Where: sqlast.NewCall(sqlast.OpGreater, col("p", "age"), intLit("30")),
	}

	first, err := tr.Translate(stmt)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		next, err := tr.Translate(stmt)
		require.NoError(t, err)
		assert.Equal(t, first.Traversal.String(), next.Traversal.String())
		assert.Equal(t, first.Columns, next.Columns)
	}
}

func TestTranslateErrors(t *testing.T) {
	limit := int64(5)
	offset := int64(1)

	tests := []struct {
		name     string
		stmt     *sqlast.SelectStatement
		wantKind ErrorKind
		wantName string
	}{
		{
			name: "offset",
			stmt: &sqlast.SelectStatement{
				Items:  items(col("", "name")),
				From:   from(&sqlast.TableName{Name: "person"}),
				Limit:  &limit,
				Offset: &offset,
			},
			wantKind: OffsetNotSupported,
		},
		{
			name: "unknown table",
			stmt: &sqlast.SelectStatement{
				Items: items(col("", "name")),
				From:  from(&sqlast.TableName{Name: "planet"}),
			},
			wantKind: UnknownTable,
			wantName: "planet",
		},
		{
			name: "unknown column",
			stmt: &sqlast.SelectStatement{
				Items: items(col("", "shoe_size")),
				From:  from(&sqlast.TableName{Name: "person"}),
			},
			wantKind: UnknownIdentifier,
			wantName: "shoe_size",
		},
		{
			name: "ambiguous column across join",
			stmt: &sqlast.SelectStatement{
				Items: items(col("", "name")),
				From: from(&sqlast.Join{
					Left:  &sqlast.TableName{Name: "person", Alias: "p"},
					Right: &sqlast.TableName{Name: "company", Alias: "c"},
					Cond:  sqlast.NewCall(sqlast.OpEquals, col("p", "company_id"), col("c", "id")),
				}),
			},
			wantKind: UnknownIdentifier,
		},
		{
			name: "cross join",
			stmt: &sqlast.SelectStatement{
				Items: items(col("p", "name")),
				From: from(
					&sqlast.TableName{Name: "person", Alias: "p"},
					&sqlast.TableName{Name: "company", Alias: "c"},
				),
			},
			wantKind: JoinNotSupported,
		},
		{
			name: "join without relationship",
			stmt: &sqlast.SelectStatement{
				Items: items(col("p", "name")),
				From: from(&sqlast.Join{
					Left:  &sqlast.TableName{Name: "person", Alias: "p"},
					Right: &sqlast.TableName{Name: "city", Alias: "t"},
					Cond:  sqlast.NewCall(sqlast.OpEquals, col("p", "name"), col("t", "name")),
				}),
			},
			wantKind: JoinNotSupported,
		},
		{
			name: "ungrouped column beside aggregate",
			stmt: &sqlast.SelectStatement{
				Items: items(col("", "name"), sqlast.NewCall(sqlast.OpCount, &sqlast.Star{})),
				From:  from(&sqlast.TableName{Name: "person"}),
			},
			wantKind: ColumnNotGrouped,
			wantName: "name",
		},
		{
			name: "projected column outside group keys",
			stmt: &sqlast.SelectStatement{
				Items:   items(col("", "name")),
				From:    from(&sqlast.TableName{Name: "person"}),
				GroupBy: []sqlast.Expr{col("", "age")},
			},
			wantKind: ColumnNotGrouped,
			wantName: "name",
		},
		{
			name: "cast of a column",
			stmt: &sqlast.SelectStatement{
				Items: items(&sqlast.Call{
					Op:       sqlast.Op(sqlast.OpCast),
					Operands: []sqlast.Expr{col("", "age")},
					Target:   sqlast.TypeChar,
				}),
				From: from(&sqlast.TableName{Name: "person"}),
			},
			wantKind: UnknownOperator,
			wantName: "CAST",
		},
		{
			name: "constant cast across categories",
			stmt: &sqlast.SelectStatement{
				Items: []sqlast.SelectItem{{Expr: &sqlast.Literal{
					Text: "17", Type: sqlast.TypeBigint, Declared: sqlast.TypeVarchar,
				}}},
			},
			wantKind: UnsupportedLiteralExpression,
		},
		{
			name: "scalar subquery",
			stmt: &sqlast.SelectStatement{
				Items: items(col("", "name")),
				From:  from(&sqlast.TableName{Name: "person"}),
				Where: sqlast.NewCall(sqlast.OpEquals,
					col("", "age"),
					&sqlast.Call{
						Op: sqlast.OtherOp("SCALAR_QUERY"),
						Operands: []sqlast.Expr{&sqlast.Subquery{
							Select: &sqlast.SelectStatement{Items: items(intLit("1"))},
						}},
					},
				),
			},
			wantKind: UnknownOperator,
			wantName: "SCALAR_QUERY",
		},
		{
			name: "subquery operand",
			stmt: &sqlast.SelectStatement{
				Items: items(col("", "name")),
				From:  from(&sqlast.TableName{Name: "person"}),
				Where: sqlast.NewCall(sqlast.OpEquals,
					col("", "age"),
					&sqlast.Subquery{Select: &sqlast.SelectStatement{Items: items(intLit("1"))}},
				),
			},
			wantKind: UnsupportedOperandType,
		},
		{
			name: "aggregate in WHERE",
			stmt: &sqlast.SelectStatement{
				Items: items(col("", "name")),
				From:  from(&sqlast.TableName{Name: "person"}),
				Where: sqlast.NewCall(sqlast.OpGreater,
					sqlast.NewCall(sqlast.OpCount, &sqlast.Star{}),
					intLit("1"),
				),
			},
			wantKind: UnsupportedOperandType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := New(testCatalog(t))
			res, err := tr.Translate(tt.stmt)
			require.Error(t, err)
			require.Nil(t, res)

			kind, ok := KindOf(err)
			require.True(t, ok, "error %v carries no translation kind", err)
			assert.Equal(t, tt.wantKind, kind)
			if tt.wantName != "" {
				var terr *Error
				require.ErrorAs(t, err, &terr)
				assert.Equal(t, tt.wantName, terr.Name)
			}
		})
	}
}

func TestAppendOperatorOperandCount(t *testing.T) {
	catalog := testCatalog(t)

	tests := []struct {
		name     string
		call     *sqlast.Call
		wantKind ErrorKind
	}{
		{
			name:     "no operands",
			call:     sqlast.NewCall(sqlast.OpEquals),
			wantKind: OperandsEmpty,
		},
		{
			name:     "unknown operator with no operands",
			call:     &sqlast.Call{Op: sqlast.OtherOp("BETWEEN")},
			wantKind: OperandsEmpty,
		},
		{
			name: "three operands",
			call: sqlast.NewCall(sqlast.OpEquals,
				col("", "age"), intLit("1"), intLit("2")),
			wantKind: OperandsMoreThanTwo,
		},
		{
			name: "three operands on unknown operator",
			call: &sqlast.Call{
				Op:       sqlast.OtherOp("BETWEEN"),
				Operands: []sqlast.Expr{col("", "age"), intLit("1"), intLit("2")},
			},
			wantKind: OperandsMoreThanTwo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &compiler{catalog: catalog, md: newMetadataState(), logger: slogDiscard()}
			require.Nil(t, c.md.bind("person", "person"))

			trav := gremlin.Anonymous()
			err := appendOperatorTraversal(c.wrapOperator(tt.call), trav)
			require.NotNil(t, err)
			assert.Equal(t, tt.wantKind, err.Kind)
			assert.Zero(t, trav.Len(), "failed operator must not mutate the traversal")
		})
	}
}

func TestGetOperandName(t *testing.T) {
	catalog := testCatalog(t)
	c := &compiler{catalog: catalog, md: newMetadataState(), logger: slogDiscard()}

	star, err := c.wrapOperand(&sqlast.Star{})
	require.Nil(t, err)
	name, nerr := getOperandName(star)
	require.Nil(t, nerr)
	assert.Equal(t, "*", name)

	ident, err := c.wrapOperand(col("p", "age"))
	require.Nil(t, err)
	name, nerr = getOperandName(ident)
	require.Nil(t, nerr)
	assert.Equal(t, "age", name)

	lit, err := c.wrapOperand(strLit("Tom"))
	require.Nil(t, err)
	name, nerr = getOperandName(lit)
	require.Nil(t, nerr)
	assert.Equal(t, "Tom", name)

	agg, err := c.wrapOperand(sqlast.NewCall(sqlast.OpCount, &sqlast.Star{}))
	require.Nil(t, err)
	name, nerr = getOperandName(agg)
	require.Nil(t, nerr)
	assert.Equal(t, "COUNT(*)", name)
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err  *Error
		want string
	}{
		{newError(OperandsEmpty), "operator has no operands"},
		{newError(OperandsMoreThanTwo), "operator has more than two operands"},
		{newError(UnsupportedOperandType), "operand type is not supported"},
		{newError(UnsupportedLiteralExpression), "literal expression is not supported"},
		{errUnknownOperator("SCALAR_QUERY"), "unknown operator: SCALAR_QUERY"},
		{newError(OffsetNotSupported), "OFFSET is not supported"},
		{errColumnNotGrouped("name"), `column "name" does not appear in GROUP BY`},
		{errJoinNotSupported("cross join"), "join is not supported: cross join"},
		{errUnknownIdentifier("shoe_size"), "unknown identifier: shoe_size"},
		{errUnknownTable("planet"), "unknown table: planet"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.Error())
		assert.ErrorIs(t, tt.err, &Error{Kind: tt.err.Kind})
	}
}
