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
	"fmt"
	"strings"
)

// aliasBinding ties a query alias to its catalog table. The alias doubles
// as the traversal step label the table's vertex is tagged with.
type aliasBinding struct {
	// Alias as written in the query, or the table name when the query
	// declares none. Lookups are case sensitive.
	alias string
	// Catalog table name the alias resolves to.
	table string
}

// metadataState is the mutable bookkeeping one translation accumulates:
// alias bindings in declaration order, joined tables, grouping state, and
// the output columns produced so far. A fresh state is built per call;
// nothing here is shared or locked.
type metadataState struct {
	aliases  []aliasBinding
	aliasIdx map[string]int
	joined   map[string]bool

	// grouping is set once the traversal has entered a grouped or folded
	// shape. From then on plain column references must be grouping keys.
	grouping bool
	// groupByApplied distinguishes an explicit GROUP BY from the implicit
	// fold a global aggregation performs.
	groupByApplied bool
	// folded is set when the whole result has been folded for a global
	// aggregation. An aggregate reached before either flag is set sits in
	// a clause that cannot aggregate.
	folded    bool
	groupKeys map[string]string
	keyNames  []string

	columns   []OutputColumn
	nameCount map[string]int
}

func newMetadataState() *metadataState {
	return &metadataState{
		aliasIdx:  make(map[string]int),
		joined:    make(map[string]bool),
		groupKeys: make(map[string]string),
		nameCount: make(map[string]int),
	}
}

// bind registers an alias for a catalog table. Every bound alias must be
// unique within the query.
func (md *metadataState) bind(alias, table string) *Error {
	if _, ok := md.aliasIdx[alias]; ok {
		return errJoinNotSupported(fmt.Sprintf("alias %q is bound more than once", alias))
	}
	md.aliasIdx[alias] = len(md.aliases)
	md.aliases = append(md.aliases, aliasBinding{alias: alias, table: table})
	md.joined[strings.ToLower(table)] = true
	return nil
}

func (md *metadataState) binding(alias string) (aliasBinding, bool) {
	i, ok := md.aliasIdx[alias]
	if !ok {
		return aliasBinding{}, false
	}
	return md.aliases[i], true
}

// bindings returns every binding in declaration order.
func (md *metadataState) bindings() []aliasBinding {
	return md.aliases
}

// position returns the alias the traversal currently sits on, which is
// always the most recently bound table.
func (md *metadataState) position() string {
	if len(md.aliases) == 0 {
		return ""
	}
	return md.aliases[len(md.aliases)-1].alias
}

func (md *metadataState) setGrouping() {
	md.grouping = true
}

func groupKeyID(alias, property string) string {
	return alias + "\x00" + property
}

// addGroupKey records one GROUP BY key by its resolved alias and
// property, under the display name it projects as.
func (md *metadataState) addGroupKey(alias, property, name string) {
	md.groupKeys[groupKeyID(alias, property)] = name
	md.keyNames = append(md.keyNames, name)
}

// groupKey reports whether the resolved column is a grouping key and
// returns its display name.
func (md *metadataState) groupKey(alias, property string) (string, bool) {
	name, ok := md.groupKeys[groupKeyID(alias, property)]
	return name, ok
}

// multiKey reports whether grouping uses a composite key. Composite keys
// are emitted as named maps so each key remains addressable.
func (md *metadataState) multiKey() bool {
	return len(md.keyNames) > 1
}

func (md *metadataState) addColumn(col OutputColumn) {
	md.columns = append(md.columns, col)
}

func (md *metadataState) outputColumns() []OutputColumn {
	return md.columns
}

// uniqueName claims an output column name, suffixing repeats with _1,
// _2, and so on in encounter order.
func (md *metadataState) uniqueName(name string) string {
	n := md.nameCount[name]
	md.nameCount[name] = n + 1
	if n == 0 {
		return name
	}
	return fmt.Sprintf("%s_%d", name, n)
}
