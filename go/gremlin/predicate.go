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

package gremlin

import "fmt"

// P is a traversal predicate, rendered as `name(value)`.
type P struct {
	Name  string
	Value any
}

func Eq(v any) P  { return P{Name: "eq", Value: v} }
func Neq(v any) P { return P{Name: "neq", Value: v} }
func Lt(v any) P  { return P{Name: "lt", Value: v} }
func Lte(v any) P { return P{Name: "lte", Value: v} }
func Gt(v any) P  { return P{Name: "gt", Value: v} }
func Gte(v any) P { return P{Name: "gte", Value: v} }

// Order is the ordering token passed to by() modulators.
type Order int

const (
	Asc Order = iota
	Desc
)

// String returns the Gremlin spelling of the token.
func (o Order) String() string {
	if o == Desc {
		return "desc"
	}
	return "asc"
}

// Column selects the key or value side of a group entry.
type Column int

const (
	ColumnKeys Column = iota
	ColumnValues
)

// String returns the Gremlin spelling of the token.
func (c Column) String() string {
	if c == ColumnValues {
		return "values"
	}
	return "keys"
}

var _ fmt.Stringer = Order(0)
var _ fmt.Stringer = Column(0)
