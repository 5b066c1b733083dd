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

// Package gremlin models a Gremlin traversal as an ordered step sequence.
// The traversal is a plain value: steps are appended through the fluent
// builder and rendered as deterministic Gremlin-Groovy text. Nothing in
// this package executes anything; execution belongs to an external graph
// engine.
package gremlin

import "slices"

// Step is one traversal step: its name and its arguments. Arguments may
// be Go scalars, P predicates, Order or Column tokens, or nested
// anonymous *Traversal values.
type Step struct {
	Name string
	Args []any
}

// Traversal is a step sequence under construction. The zero value is not
// usable; build with NewTraversal or Anonymous.
type Traversal struct {
	anonymous bool
	steps     []Step
}

// NewTraversal returns an empty top-level traversal, rendered with the
// `g` source prefix.
func NewTraversal() *Traversal {
	return &Traversal{}
}

// Anonymous returns an empty anonymous traversal, rendered with the `__`
// prefix. Anonymous traversals appear only as step arguments.
func Anonymous() *Traversal {
	return &Traversal{anonymous: true}
}

// Add appends a step and returns the traversal for chaining. Every named
// builder method funnels through Add.
func (t *Traversal) Add(name string, args ...any) *Traversal {
	t.steps = append(t.steps, Step{Name: name, Args: args})
	return t
}

// Len returns the number of steps appended so far, counting only this
// traversal's own steps, not those of nested anonymous traversals.
func (t *Traversal) Len() int {
	return len(t.steps)
}

// Steps returns a copy of the step sequence.
func (t *Traversal) Steps() []Step {
	return slices.Clone(t.steps)
}

func (t *Traversal) V() *Traversal                      { return t.Add("V") }
func (t *Traversal) Inject(v any) *Traversal            { return t.Add("inject", v) }
func (t *Traversal) HasLabel(label string) *Traversal   { return t.Add("hasLabel", label) }
func (t *Traversal) As(label string) *Traversal         { return t.Add("as", label) }
func (t *Traversal) Out(edge string) *Traversal         { return t.Add("out", edge) }
func (t *Traversal) In(edge string) *Traversal          { return t.Add("in", edge) }
func (t *Traversal) Where(args ...any) *Traversal       { return t.Add("where", args...) }
func (t *Traversal) And(args ...any) *Traversal         { return t.Add("and", args...) }
func (t *Traversal) Or(args ...any) *Traversal          { return t.Add("or", args...) }
func (t *Traversal) Not(sub *Traversal) *Traversal      { return t.Add("not", sub) }
func (t *Traversal) Has(args ...any) *Traversal         { return t.Add("has", args...) }
func (t *Traversal) Values(keys ...string) *Traversal   { return t.Add("values", strArgs(keys)...) }
func (t *Traversal) Is(p P) *Traversal                  { return t.Add("is", p) }
func (t *Traversal) Constant(v any) *Traversal          { return t.Add("constant", v) }
func (t *Traversal) Select(args ...any) *Traversal      { return t.Add("select", args...) }
func (t *Traversal) Project(names ...string) *Traversal { return t.Add("project", strArgs(names)...) }
func (t *Traversal) By(args ...any) *Traversal          { return t.Add("by", args...) }
func (t *Traversal) Group() *Traversal                  { return t.Add("group") }
func (t *Traversal) Fold() *Traversal                   { return t.Add("fold") }
func (t *Traversal) Unfold() *Traversal                 { return t.Add("unfold") }
func (t *Traversal) Order() *Traversal                  { return t.Add("order") }
func (t *Traversal) Dedup() *Traversal                  { return t.Add("dedup") }
func (t *Traversal) Limit(n int64) *Traversal           { return t.Add("limit", n) }
func (t *Traversal) Count() *Traversal                  { return t.Add("count") }
func (t *Traversal) Sum() *Traversal                    { return t.Add("sum") }
func (t *Traversal) Mean() *Traversal                   { return t.Add("mean") }
func (t *Traversal) Min() *Traversal                    { return t.Add("min") }
func (t *Traversal) Max() *Traversal                    { return t.Add("max") }
func (t *Traversal) Math(expr string) *Traversal        { return t.Add("math", expr) }

func strArgs(ss []string) []any {
	args := make([]any, len(ss))
	for i, s := range ss {
		args[i] = s
	}
	return args
}
