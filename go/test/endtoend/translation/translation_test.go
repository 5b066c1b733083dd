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

// Package translation runs SQL text through the whole pipeline: parse,
// load a catalog from YAML, translate, render. The expectations here pin
// the exact traversal text a query produces.
package translation

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlgremlin/sqlgremlin/go/parser"
	"github.com/sqlgremlin/sqlgremlin/go/schema"
	"github.com/sqlgremlin/sqlgremlin/go/sqlast"
	"github.com/sqlgremlin/sqlgremlin/go/translate"
)

const catalogYAML = `
tables:
  - name: person
    columns:
      - name: name
        type: varchar
      - name: age
        type: bigint
      - name: salary
        type: double
      - name: active
        type: boolean
      - name: company_id
        type: bigint
  - name: company
    label: organization
    columns:
      - name: id
        type: bigint
      - name: name
        type: varchar
  - name: city
    columns:
      - name: id
        type: bigint
      - name: name
        type: varchar
relationships:
  - out: person
    in: company
    label: worksFor
`

func loadTestCatalog(t *testing.T) *schema.Catalog {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "catalog.yaml", []byte(catalogYAML), 0o644))
	catalog, err := schema.LoadCatalog(fs, "catalog.yaml")
	require.NoError(t, err)
	return catalog
}

func TestTranslateQueries(t *testing.T) {
	tr := translate.New(loadTestCatalog(t))

	tests := []struct {
		name string
		sql  string
		want string
	}{
		{
			name: "filtered single table",
			sql:  "SELECT name FROM person WHERE age > 30",
			want: "g.V().hasLabel('person').as('person')" +
				".where(__.select('person').values('age').is(gt(30)))" +
				".project('name').by(__.select('person').values('name'))",
		},
		{
			name: "string filter quotes the decoded value",
			sql:  "SELECT age FROM person WHERE name = 'Tom'",
			want: "g.V().hasLabel('person').as('person')" +
				".where(__.select('person').values('name').is(eq('Tom')))" +
				".project('age').by(__.select('person').values('age'))",
		},
		{
			name: "constant on the left reverses the predicate",
			sql:  "SELECT name FROM person WHERE 30 < age",
			want: "g.V().hasLabel('person').as('person')" +
				".where(__.select('person').values('age').is(gt(30)))" +
				".project('name').by(__.select('person').values('name'))",
		},
		{
			name: "boolean combinators",
			sql:  "SELECT name FROM person WHERE age > 30 AND active",
			want: "g.V().hasLabel('person').as('person')" +
				".and(__.where(__.select('person').values('age').is(gt(30))), __.select('person').values('active').is(eq(true)))" +
				".project('name').by(__.select('person').values('name'))",
		},
		{
			name: "join walks the catalog edge",
			sql:  "SELECT p.name, c.name FROM person p JOIN company c ON p.company_id = c.id",
			want: "g.V().hasLabel('person').as('p')" +
				".out('worksFor').hasLabel('organization').as('c')" +
				".project('name', 'name_1')" +
				".by(__.select('p').values('name'))" +
				".by(__.select('c').values('name'))",
		},
		{
			name: "reversed join condition walks the same edge",
			sql:  "SELECT p.name FROM person p JOIN company c ON c.id = p.company_id",
			want: "g.V().hasLabel('person').as('p')" +
				".out('worksFor').hasLabel('organization').as('c')" +
				".project('name').by(__.select('p').values('name'))",
		},
		{
			name: "global aggregation folds",
			sql:  "SELECT COUNT(*) FROM person",
			want: "g.V().hasLabel('person').as('person').fold()" +
				".project('COUNT(*)').by(__.unfold().count())",
		},
		{
			name: "aggregate over a column",
			sql:  "SELECT AVG(salary) FROM person",
			want: "g.V().hasLabel('person').as('person').fold()" +
				".project('AVG(salary)').by(__.unfold().values('salary').mean())",
		},
		{
			name: "count distinct dedups before counting",
			sql:  "SELECT COUNT(DISTINCT age) FROM person",
			want: "g.V().hasLabel('person').as('person').fold()" +
				".project('COUNT(DISTINCT age)').by(__.unfold().values('age').dedup().count())",
		},
		{
			name: "group by single key",
			sql:  "SELECT age, COUNT(*) FROM person GROUP BY age",
			want: "g.V().hasLabel('person').as('person')" +
				".group().by(__.select('person').values('age')).unfold()" +
				".project('age', 'COUNT(*)')" +
				".by(__.select(keys))" +
				".by(__.select(values).unfold().count())",
		},
		{
			name: "having filters between unfold and projection",
			sql:  "SELECT age FROM person GROUP BY age HAVING COUNT(*) > 1",
			want: "g.V().hasLabel('person').as('person')" +
				".group().by(__.select('person').values('age')).unfold()" +
				".where(__.select(values).unfold().count().is(gt(1)))" +
				".project('age').by(__.select(keys))",
		},
		{
			name: "projected column orders by its output name",
			sql:  "SELECT name, age FROM person ORDER BY age DESC LIMIT 10",
			want: "g.V().hasLabel('person').as('person')" +
				".project('name', 'age')" +
				".by(__.select('person').values('name'))" +
				".by(__.select('person').values('age'))" +
				".order().by(__.select('age'), desc).limit(10)",
		},
		{
			name: "order by alias and ordinal",
			sql:  "SELECT name AS who, age FROM person ORDER BY who, 2 DESC",
			want: "g.V().hasLabel('person').as('person')" +
				".project('who', 'age')" +
				".by(__.select('person').values('name'))" +
				".by(__.select('person').values('age'))" +
				".order().by(__.select('who'), asc).by(__.select('age'), desc)",
		},
		{
			name: "order by an unprojected column compiles independently",
			sql:  "SELECT name FROM person ORDER BY age",
			want: "g.V().hasLabel('person').as('person')" +
				".project('name').by(__.select('person').values('name'))" +
				".order().by(__.select('person').values('age'), asc)",
		},
		{
			name: "distinct dedups after projection",
			sql:  "SELECT DISTINCT name FROM person",
			want: "g.V().hasLabel('person').as('person')" +
				".project('name').by(__.select('person').values('name')).dedup()",
		},
		{
			name: "arithmetic in a math step",
			sql:  "SELECT age + 5 AS boosted FROM person",
			want: "g.V().hasLabel('person').as('person')" +
				".project('boosted')" +
				".by(__.math('age + 5').by(__.select('person').values('age')))",
		},
		{
			name: "nested arithmetic keeps evaluation order",
			sql:  "SELECT age * (salary - 3) AS score FROM person",
			want: "g.V().hasLabel('person').as('person')" +
				".project('score')" +
				".by(__.math('age * (salary - 3)')" +
				".by(__.select('person').values('age'))" +
				".by(__.select('person').values('salary')))",
		},
		{
			name: "constant-only select injects a row",
			sql:  "SELECT 1, 'ok'",
			want: "g.inject(0).project('1', 'ok').by(__.constant(1)).by(__.constant('ok'))",
		},
		{
			name: "star expands in catalog column order",
			sql:  "SELECT * FROM company",
			want: "g.V().hasLabel('organization').as('company')" +
				".project('id', 'name')" +
				".by(__.select('company').values('id'))" +
				".by(__.select('company').values('name'))",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := parser.Parse(tt.sql)
			require.NoError(t, err)
			result, err := tr.Translate(stmt)
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Traversal.String())
		})
	}
}

func TestTranslateQueryErrors(t *testing.T) {
	tr := translate.New(loadTestCatalog(t))

	tests := []struct {
		name string
		sql  string
		kind translate.ErrorKind
	}{
		{
			name: "offset",
			sql:  "SELECT name FROM person OFFSET 1",
			kind: translate.OffsetNotSupported,
		},
		{
			name: "unknown table",
			sql:  "SELECT name FROM planet",
			kind: translate.UnknownTable,
		},
		{
			name: "unknown column",
			sql:  "SELECT shoe_size FROM person",
			kind: translate.UnknownIdentifier,
		},
		{
			name: "constant cast across categories",
			sql:  "SELECT CAST(17 AS varchar)",
			kind: translate.UnsupportedLiteralExpression,
		},
		{
			name: "column cast",
			sql:  "SELECT CAST(age AS char) FROM person",
			kind: translate.UnknownOperator,
		},
		{
			name: "scalar sub-query",
			sql:  "SELECT name FROM person WHERE age = (SELECT age FROM person WHERE name = 'Tom')",
			kind: translate.UnknownOperator,
		},
		{
			name: "like",
			sql:  "SELECT name FROM person WHERE name LIKE 'T%'",
			kind: translate.UnknownOperator,
		},
		{
			name: "unmapped function",
			sql:  "SELECT upper(name) FROM person",
			kind: translate.UnknownOperator,
		},
		{
			name: "aggregate without grouping the other column",
			sql:  "SELECT name, COUNT(*) FROM person",
			kind: translate.ColumnNotGrouped,
		},
		{
			name: "projected column outside the group keys",
			sql:  "SELECT salary FROM person GROUP BY age",
			kind: translate.ColumnNotGrouped,
		},
		{
			name: "aggregate in WHERE",
			sql:  "SELECT name FROM person WHERE COUNT(*) > 1",
			kind: translate.UnsupportedOperandType,
		},
		{
			name: "comma-separated tables",
			sql:  "SELECT name FROM person, company",
			kind: translate.JoinNotSupported,
		},
		{
			name: "cross join",
			sql:  "SELECT name FROM person CROSS JOIN company",
			kind: translate.JoinNotSupported,
		},
		{
			name: "join without a catalog relationship",
			sql:  "SELECT p.name FROM person p JOIN city c ON p.company_id = c.id",
			kind: translate.JoinNotSupported,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := parser.Parse(tt.sql)
			require.NoError(t, err)
			_, err = tr.Translate(stmt)
			require.Error(t, err)
			kind, ok := translate.KindOf(err)
			require.True(t, ok, "no translation kind in %v", err)
			assert.Equal(t, tt.kind, kind)
		})
	}
}

func TestColumnContract(t *testing.T) {
	tr := translate.New(loadTestCatalog(t))

	stmt, err := parser.Parse("SELECT age, COUNT(*), AVG(salary), SUM(age), age + 1 FROM person GROUP BY age")
	require.NoError(t, err)
	result, err := tr.Translate(stmt)
	require.NoError(t, err)

	assert.Equal(t, []translate.OutputColumn{
		{Name: "age", Type: sqlast.TypeBigint},
		{Name: "COUNT(*)", Type: sqlast.TypeBigint},
		{Name: "AVG(salary)", Type: sqlast.TypeDouble},
		{Name: "SUM(age)", Type: sqlast.TypeBigint},
		{Name: "age + 1", Type: sqlast.TypeDouble},
	}, result.Columns)
}

func TestTranslationIsDeterministic(t *testing.T) {
	catalog := loadTestCatalog(t)
	stmt, err := parser.Parse("SELECT p.name, c.name FROM person p JOIN company c ON p.company_id = c.id WHERE p.age > 30 ORDER BY 1 LIMIT 5")
	require.NoError(t, err)

	first, err := translate.New(catalog).Translate(stmt)
	require.NoError(t, err)
	second, err := translate.New(catalog).Translate(stmt)
	require.NoError(t, err)

	assert.Equal(t, first.Traversal.String(), second.Traversal.String())
	assert.Equal(t, first.Columns, second.Columns)
}
