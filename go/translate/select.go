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

// Package translate compiles validated SELECT statements into property
// graph traversals. One Translator serves one catalog snapshot and is
// safe for concurrent use; every Translate call builds its own state, so
// the same statement always yields the same traversal and columns.
package translate

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/sqlgremlin/sqlgremlin/go/gremlin"
	"github.com/sqlgremlin/sqlgremlin/go/schema"
	"github.com/sqlgremlin/sqlgremlin/go/sqlast"
)

// OutputColumn is one column of the result contract: the display name
// the traversal projects under and the SQL type the value decodes to.
type OutputColumn struct {
	Name string
	Type sqlast.Type
}

// Result pairs the compiled traversal with the ordered output columns.
type Result struct {
	Traversal *gremlin.Traversal
	Columns   []OutputColumn
}

// Translator compiles statements against one immutable catalog snapshot.
type Translator struct {
	catalog *schema.Catalog
	logger  *slog.Logger
}

// Option configures a Translator.
type Option func(*Translator)

// WithLogger sets the logger translation progress is reported on.
func WithLogger(logger *slog.Logger) Option {
	return func(tr *Translator) {
		tr.logger = logger
	}
}

// New builds a Translator over the given catalog snapshot.
func New(catalog *schema.Catalog, opts ...Option) *Translator {
	tr := &Translator{
		catalog: catalog,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(tr)
	}
	return tr
}

// compiler carries the shared pieces of one translation: the catalog
// snapshot, the mutable per-call state, and the logger. Operator and
// operand nodes hold it rather than owning state of their own.
type compiler struct {
	catalog *schema.Catalog
	md      *metadataState
	logger  *slog.Logger
}

// Translate compiles one SELECT statement. On failure the returned
// error wraps exactly one translation Error and no Result is produced;
// there is no partially translated output.
func (tr *Translator) Translate(stmt *sqlast.SelectStatement) (*Result, error) {
	if stmt == nil {
		return nil, fmt.Errorf("no statement to translate")
	}
	if len(stmt.Items) == 0 {
		return nil, fmt.Errorf("statement projects no columns")
	}
	c := &compiler{catalog: tr.catalog, md: newMetadataState(), logger: tr.logger}
	t := gremlin.NewTraversal()

	if err := c.compileFrom(stmt.From, t); err != nil {
		return nil, err
	}
	items, err := c.expandStars(stmt.Items)
	if err != nil {
		return nil, err
	}

	if stmt.Where != nil {
		if err := c.compileCondition(t, stmt.Where); err != nil {
			return nil, fmt.Errorf("in WHERE: %w", err)
		}
	}

	grouped := len(stmt.GroupBy) > 0
	switch {
	case grouped:
		if err := c.compileGroupBy(t, stmt.GroupBy); err != nil {
			return nil, fmt.Errorf("in GROUP BY: %w", err)
		}
	case statementAggregates(stmt):
		t.Fold()
		c.md.folded = true
		c.md.setGrouping()
	}

	if stmt.Having != nil {
		if err := c.compileCondition(t, stmt.Having); err != nil {
			return nil, fmt.Errorf("in HAVING: %w", err)
		}
	}

	if err := c.compileProjection(t, items); err != nil {
		return nil, err
	}
	if stmt.Distinct {
		t.Dedup()
	}

	if len(stmt.OrderBy) > 0 {
		if err := c.compileOrderBy(t, stmt.OrderBy); err != nil {
			return nil, fmt.Errorf("in ORDER BY: %w", err)
		}
	}

	if stmt.Offset != nil {
		return nil, newError(OffsetNotSupported)
	}
	if stmt.Limit != nil {
		t.Limit(*stmt.Limit)
	}

	res := &Result{Traversal: t, Columns: c.md.outputColumns()}
	tr.logger.Debug("translated statement",
		"traversal", res.Traversal.String(),
		"columns", len(res.Columns),
	)
	return res, nil
}

// compileFrom seeds the traversal from the FROM clause. With no tables
// the statement is constant-only and a single injected token carries the
// projection. Comma-separated tables would be a cross join, which no
// edge walk can express.
func (c *compiler) compileFrom(from []sqlast.TableExpr, t *gremlin.Traversal) *Error {
	if len(from) == 0 {
		t.Inject(0)
		return nil
	}
	if len(from) > 1 {
		return errJoinNotSupported("comma-separated tables form a cross join")
	}
	return c.compileTableExpr(from[0], t)
}

func (c *compiler) compileTableExpr(te sqlast.TableExpr, t *gremlin.Traversal) *Error {
	switch e := te.(type) {
	case *sqlast.TableName:
		label, err := c.catalog.ResolveTableLabel(e.Name)
		if err != nil {
			return errUnknownTable(e.Name)
		}
		alias := e.Alias
		if alias == "" {
			alias = e.Name
		}
		if berr := c.md.bind(alias, e.Name); berr != nil {
			return berr
		}
		t.V().HasLabel(label).As(alias)
		return nil
	case *sqlast.Join:
		if err := c.compileTableExpr(e.Left, t); err != nil {
			return err
		}
		right, ok := e.Right.(*sqlast.TableName)
		if !ok {
			return errJoinNotSupported("right side of a join must be a table")
		}
		return c.compileJoin(t, right, e.Cond)
	default:
		return errJoinNotSupported("unrecognized table expression")
	}
}

// compileJoin walks the catalog edge between an already bound table and
// the joined one. The condition must be a single equality between one
// column of each side; the edge direction decides out versus in.
func (c *compiler) compileJoin(t *gremlin.Traversal, right *sqlast.TableName, cond sqlast.Expr) *Error {
	rightLabel, err := c.catalog.ResolveTableLabel(right.Name)
	if err != nil {
		return errUnknownTable(right.Name)
	}
	rightAlias := right.Alias
	if rightAlias == "" {
		rightAlias = right.Name
	}

	call, ok := cond.(*sqlast.Call)
	if !ok || call.Op.Kind != sqlast.OpEquals || len(call.Operands) != 2 {
		return errJoinNotSupported("join condition must be a single equality")
	}
	first, ok := call.Operands[0].(*sqlast.ColumnRef)
	if !ok {
		return errJoinNotSupported("join condition must compare two columns")
	}
	second, ok := call.Operands[1].(*sqlast.ColumnRef)
	if !ok {
		return errJoinNotSupported("join condition must compare two columns")
	}
	if first.Table == "" || second.Table == "" {
		return errJoinNotSupported("join condition columns must be qualified")
	}

	var leftRef, rightRef *sqlast.ColumnRef
	switch rightAlias {
	case second.Table:
		leftRef, rightRef = first, second
	case first.Table:
		leftRef, rightRef = second, first
	default:
		return errJoinNotSupported(fmt.Sprintf("join condition does not reference %q", rightAlias))
	}

	leftBinding, ok := c.md.binding(leftRef.Table)
	if !ok {
		return errUnknownIdentifier(leftRef.Table + "." + leftRef.Name)
	}
	if _, err := c.catalog.ResolveColumnProperty(leftBinding.table, leftRef.Name); err != nil {
		return errUnknownIdentifier(leftRef.Table + "." + leftRef.Name)
	}
	if _, err := c.catalog.ResolveColumnProperty(right.Name, rightRef.Name); err != nil {
		return errUnknownIdentifier(rightRef.Table + "." + rightRef.Name)
	}

	edge, err := c.catalog.ResolveJoinEdge(leftBinding.table, right.Name)
	if err != nil {
		return errJoinNotSupported(fmt.Sprintf("no relationship between %s and %s", leftBinding.table, right.Name))
	}
	c.logger.Debug("resolved join edge",
		"left", leftBinding.table,
		"right", right.Name,
		"edge", edge.Label,
	)

	// A chained join may continue from a table the traversal has since
	// moved past; step back to it first.
	if c.md.position() != leftBinding.alias {
		t.Select(leftBinding.alias)
	}
	if berr := c.md.bind(rightAlias, right.Name); berr != nil {
		return berr
	}
	if strings.EqualFold(edge.OutTable, leftBinding.table) {
		t.Out(edge.Label)
	} else {
		t.In(edge.Label)
	}
	t.HasLabel(rightLabel).As(rightAlias)
	return nil
}

// expandStars rewrites star items into explicit column references, in
// binding order and then catalog column order.
func (c *compiler) expandStars(items []sqlast.SelectItem) ([]sqlast.SelectItem, *Error) {
	expanded := make([]sqlast.SelectItem, 0, len(items))
	for _, item := range items {
		star, ok := item.Expr.(*sqlast.Star)
		if !ok {
			expanded = append(expanded, item)
			continue
		}
		if len(c.md.bindings()) == 0 {
			return nil, errUnknownIdentifier("*")
		}
		if star.Table != "" {
			b, ok := c.md.binding(star.Table)
			if !ok {
				return nil, errUnknownIdentifier(star.Table + ".*")
			}
			cols, err := c.bindingColumns(b)
			if err != nil {
				return nil, err
			}
			expanded = append(expanded, cols...)
			continue
		}
		for _, b := range c.md.bindings() {
			cols, err := c.bindingColumns(b)
			if err != nil {
				return nil, err
			}
			expanded = append(expanded, cols...)
		}
	}
	return expanded, nil
}

func (c *compiler) bindingColumns(b aliasBinding) ([]sqlast.SelectItem, *Error) {
	tbl, ok := c.catalog.Table(b.table)
	if !ok {
		return nil, errUnknownTable(b.table)
	}
	items := make([]sqlast.SelectItem, 0, len(tbl.Columns))
	for _, col := range tbl.Columns {
		items = append(items, sqlast.SelectItem{
			Expr: &sqlast.ColumnRef{Table: b.alias, Name: col.Name},
		})
	}
	return items, nil
}

// compileCondition compiles a WHERE or HAVING expression onto the
// traversal. Operator calls append their own filter step; a bare column
// or constant becomes a wrapped condition traversal.
func (c *compiler) compileCondition(t *gremlin.Traversal, expr sqlast.Expr) *Error {
	if call, ok := expr.(*sqlast.Call); ok {
		return appendOperatorTraversal(c.wrapOperator(call), t)
	}
	sub, err := c.conditionTraversal(expr)
	if err != nil {
		return err
	}
	t.Where(sub)
	return nil
}

// compileGroupBy emits the group step and registers the grouping keys.
// A single key groups by its raw value; composite keys group by a named
// map so each key stays addressable afterwards.
func (c *compiler) compileGroupBy(t *gremlin.Traversal, keys []sqlast.Expr) *Error {
	type groupKey struct {
		alias    string
		property string
		name     string
	}
	resolved := make([]groupKey, 0, len(keys))
	names := make(map[string]int, len(keys))
	for _, key := range keys {
		ref, ok := key.(*sqlast.ColumnRef)
		if !ok {
			return newError(UnsupportedOperandType)
		}
		id := &identifierOperand{qualifier: ref.Table, column: ref.Name}
		alias, property, err := id.resolve(c)
		if err != nil {
			return err
		}
		name := ref.Name
		if n := names[name]; n > 0 {
			name = fmt.Sprintf("%s_%d", name, n)
		}
		names[ref.Name]++
		resolved = append(resolved, groupKey{alias: alias, property: property, name: name})
	}

	if len(resolved) == 1 {
		k := resolved[0]
		t.Group().By(gremlin.Anonymous().Select(k.alias).Values(k.property))
	} else {
		keyNames := make([]string, len(resolved))
		for i, k := range resolved {
			keyNames[i] = k.name
		}
		sub := gremlin.Anonymous().Project(keyNames...)
		for _, k := range resolved {
			sub.By(gremlin.Anonymous().Select(k.alias).Values(k.property))
		}
		t.Group().By(sub)
	}
	t.Unfold()

	for _, k := range resolved {
		c.md.addGroupKey(k.alias, k.property, k.name)
	}
	c.md.groupByApplied = true
	c.md.setGrouping()
	return nil
}

// compileProjection names every output column, compiles each item's
// value traversal, and records the column contract.
func (c *compiler) compileProjection(t *gremlin.Traversal, items []sqlast.SelectItem) error {
	names := make([]string, len(items))
	for i, item := range items {
		name := item.Alias
		if name == "" {
			name = exprName(item.Expr)
		}
		names[i] = c.md.uniqueName(name)
	}

	subs := make([]*gremlin.Traversal, len(items))
	types := make([]sqlast.Type, len(items))
	for i, item := range items {
		sub, typ, err := c.projectionTraversal(item.Expr)
		if err != nil {
			return fmt.Errorf("column %q: %w", names[i], err)
		}
		subs[i] = sub
		types[i] = typ
	}

	t.Project(names...)
	for i, sub := range subs {
		t.By(sub)
		c.md.addColumn(OutputColumn{Name: names[i], Type: types[i]})
	}
	return nil
}

// projectionTraversal compiles one projected expression into the
// anonymous traversal producing its value, together with the SQL type
// the value decodes to.
func (c *compiler) projectionTraversal(expr sqlast.Expr) (*gremlin.Traversal, sqlast.Type, *Error) {
	op, err := c.wrapOperand(expr)
	if err != nil {
		return nil, sqlast.TypeUnknown, err
	}
	switch o := op.(type) {
	case *identifierOperand:
		if o.star {
			return nil, sqlast.TypeUnknown, errUnknownIdentifier("*")
		}
		it, err := c.identifierTraversal(o)
		if err != nil {
			return nil, sqlast.TypeUnknown, err
		}
		typ, err := o.columnType(c)
		if err != nil {
			return nil, sqlast.TypeUnknown, err
		}
		return it, typ, nil
	case *literalOperand:
		v, err := o.value()
		if err != nil {
			return nil, sqlast.TypeUnknown, err
		}
		typ := o.lit.Declared
		if typ == sqlast.TypeUnknown {
			typ = o.lit.Type
		}
		return gremlin.Anonymous().Constant(v), typ, nil
	case *callOperand:
		sub := gremlin.Anonymous()
		if err := appendOperatorTraversal(o.op, sub); err != nil {
			return nil, sqlast.TypeUnknown, err
		}
		typ, err := c.callType(o.call)
		if err != nil {
			return nil, sqlast.TypeUnknown, err
		}
		return sub, typ, nil
	default:
		return nil, sqlast.TypeUnknown, newError(UnsupportedOperandType)
	}
}

// callType derives the output type of a call: counts are bigint,
// averages and arithmetic are double, and the order statistics carry
// their column's type through.
func (c *compiler) callType(call *sqlast.Call) (sqlast.Type, *Error) {
	kind := call.Op.Kind
	switch {
	case kind == sqlast.OpCount:
		return sqlast.TypeBigint, nil
	case kind == sqlast.OpAvg:
		return sqlast.TypeDouble, nil
	case kind.IsAggregate():
		if len(call.Operands) == 1 {
			if ref, ok := call.Operands[0].(*sqlast.ColumnRef); ok {
				id := &identifierOperand{qualifier: ref.Table, column: ref.Name}
				return id.columnType(c)
			}
		}
		return sqlast.TypeUnknown, nil
	case kind.IsArithmetic():
		return sqlast.TypeDouble, nil
	case kind.IsComparison() || kind.IsBoolean():
		return sqlast.TypeBoolean, nil
	default:
		return sqlast.TypeUnknown, nil
	}
}

// compileOrderBy sorts by projected columns where the sort expression
// matches one, by position for ordinal constants, and by an
// independently compiled traversal otherwise.
func (c *compiler) compileOrderBy(t *gremlin.Traversal, items []sqlast.OrderItem) *Error {
	t.Order()
	for _, item := range items {
		dir := gremlin.Asc
		if item.Desc {
			dir = gremlin.Desc
		}
		sub, err := c.orderTraversal(item.Expr)
		if err != nil {
			return err
		}
		t.By(sub, dir)
	}
	return nil
}

func (c *compiler) orderTraversal(expr sqlast.Expr) (*gremlin.Traversal, *Error) {
	cols := c.md.outputColumns()

	if lit, ok := expr.(*sqlast.Literal); ok {
		if lit.Type != sqlast.TypeBigint {
			return nil, newError(UnsupportedOperandType)
		}
		pos, err := strconv.ParseInt(lit.Text, 10, 64)
		if err != nil || pos < 1 || pos > int64(len(cols)) {
			return nil, errUnknownIdentifier(lit.Text)
		}
		return gremlin.Anonymous().Select(cols[pos-1].Name), nil
	}

	name := exprName(expr)
	for _, col := range cols {
		if col.Name == name {
			return gremlin.Anonymous().Select(col.Name), nil
		}
	}

	op, err := c.wrapOperand(expr)
	if err != nil {
		return nil, err
	}
	switch o := op.(type) {
	case *identifierOperand:
		return c.identifierTraversal(o)
	case *callOperand:
		sub := gremlin.Anonymous()
		if err := appendOperatorTraversal(o.op, sub); err != nil {
			return nil, err
		}
		return sub, nil
	default:
		return nil, newError(UnsupportedOperandType)
	}
}

// statementAggregates reports whether any projected, filtered or sorted
// expression aggregates, which decides whether a statement without
// GROUP BY still folds into a single row.
func statementAggregates(stmt *sqlast.SelectStatement) bool {
	for _, item := range stmt.Items {
		if exprAggregates(item.Expr) {
			return true
		}
	}
	if stmt.Having != nil && exprAggregates(stmt.Having) {
		return true
	}
	for _, item := range stmt.OrderBy {
		if exprAggregates(item.Expr) {
			return true
		}
	}
	return false
}

func exprAggregates(expr sqlast.Expr) bool {
	call, ok := expr.(*sqlast.Call)
	if !ok {
		return false
	}
	if call.Op.Kind.IsAggregate() {
		return true
	}
	for _, operand := range call.Operands {
		if exprAggregates(operand) {
			return true
		}
	}
	return false
}
