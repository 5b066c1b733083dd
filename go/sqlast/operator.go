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

package sqlast

// OperatorKind identifies the operator of a Call. OpOther is the zero
// value so that every operator the front end cannot classify arrives as
// an unknown operator carrying only its source name.
type OperatorKind int

const (
	OpOther OperatorKind = iota

	// Comparison
	OpEquals
	OpNotEquals
	OpLess
	OpLessOrEqual
	OpGreater
	OpGreaterOrEqual

	// Boolean
	OpAnd
	OpOr
	OpNot

	// Arithmetic
	OpPlus
	OpMinus
	OpTimes
	OpDivide
	OpModulo
	OpNegate

	// Type conversion
	OpCast

	// Aggregate
	OpCount
	OpSum
	OpAvg
	OpMin
	OpMax
)

// kindNames holds the canonical spelling of each classified kind.
var kindNames = map[OperatorKind]string{
	OpEquals:         "=",
	OpNotEquals:      "<>",
	OpLess:           "<",
	OpLessOrEqual:    "<=",
	OpGreater:        ">",
	OpGreaterOrEqual: ">=",
	OpAnd:            "AND",
	OpOr:             "OR",
	OpNot:            "NOT",
	OpPlus:           "+",
	OpMinus:          "-",
	OpTimes:          "*",
	OpDivide:         "/",
	OpModulo:         "%",
	OpNegate:         "-",
	OpCast:           "CAST",
	OpCount:          "COUNT",
	OpSum:            "SUM",
	OpAvg:            "AVG",
	OpMin:            "MIN",
	OpMax:            "MAX",
}

// IsComparison reports whether the kind is a binary comparison.
func (k OperatorKind) IsComparison() bool {
	return k >= OpEquals && k <= OpGreaterOrEqual
}

// IsBoolean reports whether the kind is a boolean combinator.
func (k OperatorKind) IsBoolean() bool {
	return k == OpAnd || k == OpOr || k == OpNot
}

// IsArithmetic reports whether the kind is an arithmetic operator.
func (k OperatorKind) IsArithmetic() bool {
	return k >= OpPlus && k <= OpNegate
}

// IsAggregate reports whether the kind is an aggregate function.
func (k OperatorKind) IsAggregate() bool {
	return k >= OpCount && k <= OpMax
}

// Operator is the operator slot of a Call: a classified kind plus the
// operator's source spelling. Name is what error messages show, so the
// front end preserves it even for kinds it cannot classify.
type Operator struct {
	Kind OperatorKind
	Name string
}

// Op builds an Operator with the canonical name of the kind.
func Op(kind OperatorKind) Operator {
	return Operator{Kind: kind, Name: kindNames[kind]}
}

// OtherOp builds an unclassified Operator carrying its source name.
func OtherOp(name string) Operator {
	return Operator{Kind: OpOther, Name: name}
}

// String returns the operator's source spelling, falling back to the
// canonical spelling of its kind.
func (o Operator) String() string {
	if o.Name != "" {
		return o.Name
	}
	return kindNames[o.Kind]
}
