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

// Package schema holds the catalog mapping relational tables onto the
// property graph: table names to vertex labels, columns to properties,
// and the edges that realize joins between two tables. A Catalog is
// immutable once built; reloading produces a new Catalog, never mutates
// an existing one, so a compilation can hold a snapshot without locking.
package schema

import (
	"fmt"
	"strings"

	"github.com/sqlgremlin/sqlgremlin/go/sqlast"
)

// Column maps one relational column onto a vertex property.
type Column struct {
	Name     string
	Property string
	Type     sqlast.Type
}

// Table maps one relational table onto a vertex label.
type Table struct {
	Name    string
	Label   string
	Columns []Column

	columns map[string]int
}

// Column looks up a column by name, case-insensitively.
func (t *Table) Column(name string) (Column, bool) {
	i, ok := t.columns[strings.ToLower(name)]
	if !ok {
		return Column{}, false
	}
	return t.Columns[i], true
}

// JoinEdge is the graph edge connecting two tables, directed from
// OutTable to InTable.
type JoinEdge struct {
	Label    string
	OutTable string
	InTable  string
}

// Catalog is the immutable schema mapping shared by all compilations.
// Table lookups fold case, following SQL identifier rules.
type Catalog struct {
	tables map[string]*Table
	order  []string
	edges  []JoinEdge
}

// NewCatalog builds and validates a catalog from table and edge
// definitions. Labels and properties default to their table and column
// names when unset.
func NewCatalog(tables []Table, edges []JoinEdge) (*Catalog, error) {
	c := &Catalog{tables: make(map[string]*Table, len(tables))}
	for _, t := range tables {
		if t.Name == "" {
			return nil, fmt.Errorf("catalog table with empty name")
		}
		key := strings.ToLower(t.Name)
		if _, ok := c.tables[key]; ok {
			return nil, fmt.Errorf("duplicate catalog table %q", t.Name)
		}
		if t.Label == "" {
			t.Label = t.Name
		}
		t.columns = make(map[string]int, len(t.Columns))
		for i := range t.Columns {
			col := &t.Columns[i]
			if col.Name == "" {
				return nil, fmt.Errorf("table %q has a column with empty name", t.Name)
			}
			if col.Type == sqlast.TypeUnknown {
				return nil, fmt.Errorf("column %q of table %q has no type", col.Name, t.Name)
			}
			if col.Property == "" {
				col.Property = col.Name
			}
			colKey := strings.ToLower(col.Name)
			if _, ok := t.columns[colKey]; ok {
				return nil, fmt.Errorf("duplicate column %q in table %q", col.Name, t.Name)
			}
			t.columns[colKey] = i
		}
		table := t
		c.tables[key] = &table
		c.order = append(c.order, key)
	}
	for _, e := range edges {
		if e.Label == "" {
			return nil, fmt.Errorf("catalog relationship with empty edge label")
		}
		if _, ok := c.tables[strings.ToLower(e.OutTable)]; !ok {
			return nil, fmt.Errorf("relationship %q references undeclared table %q", e.Label, e.OutTable)
		}
		if _, ok := c.tables[strings.ToLower(e.InTable)]; !ok {
			return nil, fmt.Errorf("relationship %q references undeclared table %q", e.Label, e.InTable)
		}
		c.edges = append(c.edges, e)
	}
	return c, nil
}

// Table looks up a table by name, case-insensitively.
func (c *Catalog) Table(name string) (*Table, bool) {
	t, ok := c.tables[strings.ToLower(name)]
	return t, ok
}

// Tables returns the tables in declaration order.
func (c *Catalog) Tables() []*Table {
	out := make([]*Table, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, c.tables[key])
	}
	return out
}

// Relationships returns the declared join edges.
func (c *Catalog) Relationships() []JoinEdge {
	return c.edges
}

// ResolveTableLabel maps a table name to its vertex label.
func (c *Catalog) ResolveTableLabel(name string) (string, error) {
	t, ok := c.Table(name)
	if !ok {
		return "", fmt.Errorf("no catalog entry for table %q", name)
	}
	return t.Label, nil
}

// ResolveColumnProperty maps a table column to its vertex property.
func (c *Catalog) ResolveColumnProperty(table, column string) (string, error) {
	t, ok := c.Table(table)
	if !ok {
		return "", fmt.Errorf("no catalog entry for table %q", table)
	}
	col, ok := t.Column(column)
	if !ok {
		return "", fmt.Errorf("no catalog entry for column %q of table %q", column, table)
	}
	return col.Property, nil
}

// ResolveJoinEdge finds the edge connecting two tables, in either
// orientation. The returned edge keeps its declared direction.
func (c *Catalog) ResolveJoinEdge(tableA, tableB string) (JoinEdge, error) {
	a, b := strings.ToLower(tableA), strings.ToLower(tableB)
	for _, e := range c.edges {
		out, in := strings.ToLower(e.OutTable), strings.ToLower(e.InTable)
		if (out == a && in == b) || (out == b && in == a) {
			return e, nil
		}
	}
	return JoinEdge{}, fmt.Errorf("no relationship between tables %q and %q", tableA, tableB)
}
