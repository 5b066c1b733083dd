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
	"errors"
	"fmt"
)

// ErrorKind enumerates every way a translation can fail. The set is
// closed: a query either compiles fully or fails with exactly one of
// these kinds, never with a partially built traversal.
type ErrorKind int

const (
	// OperandsEmpty reports an operator invoked with no operands.
	OperandsEmpty ErrorKind = iota
	// OperandsMoreThanTwo reports an operator invoked with more than two
	// operands. Every operator here is unary or binary.
	OperandsMoreThanTwo
	// UnsupportedOperandType reports an operand kind, or a combination of
	// operand kinds, the enclosing operator has no translation for.
	UnsupportedOperandType
	// UnsupportedLiteralExpression reports a constant whose declared type
	// disagrees with its lexical form, or whose type has no decodable
	// representation.
	UnsupportedLiteralExpression
	// UnknownOperator reports an operator with no translation, by name.
	// Scalar sub-queries surface here as SCALAR_QUERY, casts as CAST.
	UnknownOperator
	// OffsetNotSupported reports an OFFSET clause.
	OffsetNotSupported
	// ColumnNotGrouped reports a projected or filtered column that is
	// neither aggregated nor a grouping key while grouping is active.
	ColumnNotGrouped
	// JoinNotSupported reports a join the catalog has no edge for, or a
	// join shape outside the single-equality inner-join form.
	JoinNotSupported
	// UnknownIdentifier reports a column reference that resolves to no
	// alias binding or catalog column.
	UnknownIdentifier
	// UnknownTable reports a table reference absent from the catalog.
	UnknownTable
)

// String returns the kind's name for logs and test output.
func (k ErrorKind) String() string {
	switch k {
	case OperandsEmpty:
		return "OperandsEmpty"
	case OperandsMoreThanTwo:
		return "OperandsMoreThanTwo"
	case UnsupportedOperandType:
		return "UnsupportedOperandType"
	case UnsupportedLiteralExpression:
		return "UnsupportedLiteralExpression"
	case UnknownOperator:
		return "UnknownOperator"
	case OffsetNotSupported:
		return "OffsetNotSupported"
	case ColumnNotGrouped:
		return "ColumnNotGrouped"
	case JoinNotSupported:
		return "JoinNotSupported"
	case UnknownIdentifier:
		return "UnknownIdentifier"
	case UnknownTable:
		return "UnknownTable"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error is a translation failure. Name carries the offending operator,
// identifier, or table where the kind calls for one; Detail carries the
// specifics of an unsupported join.
type Error struct {
	Kind   ErrorKind
	Name   string
	Detail string
}

// Error returns the kind's fixed message. Messages are built only here;
// nothing else in the package constructs failure text.
func (e *Error) Error() string {
	switch e.Kind {
	case OperandsEmpty:
		return "operator has no operands"
	case OperandsMoreThanTwo:
		return "operator has more than two operands"
	case UnsupportedOperandType:
		return "operand type is not supported"
	case UnsupportedLiteralExpression:
		return "literal expression is not supported"
	case UnknownOperator:
		return fmt.Sprintf("unknown operator: %s", e.Name)
	case OffsetNotSupported:
		return "OFFSET is not supported"
	case ColumnNotGrouped:
		return fmt.Sprintf("column %q does not appear in GROUP BY", e.Name)
	case JoinNotSupported:
		return fmt.Sprintf("join is not supported: %s", e.Detail)
	case UnknownIdentifier:
		return fmt.Sprintf("unknown identifier: %s", e.Name)
	case UnknownTable:
		return fmt.Sprintf("unknown table: %s", e.Name)
	default:
		return fmt.Sprintf("translation error %d", int(e.Kind))
	}
}

// Is matches any *Error of the same kind, so errors.Is can compare
// against a bare kind error.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return e.Kind == other.Kind
}

// KindOf extracts the translation error kind from an error chain.
func KindOf(err error) (ErrorKind, bool) {
	var terr *Error
	if errors.As(err, &terr) {
		return terr.Kind, true
	}
	return 0, false
}

func newError(kind ErrorKind) *Error {
	return &Error{Kind: kind}
}

func errUnknownOperator(name string) *Error {
	return &Error{Kind: UnknownOperator, Name: name}
}

func errUnknownIdentifier(name string) *Error {
	return &Error{Kind: UnknownIdentifier, Name: name}
}

func errUnknownTable(name string) *Error {
	return &Error{Kind: UnknownTable, Name: name}
}

func errColumnNotGrouped(column string) *Error {
	return &Error{Kind: ColumnNotGrouped, Name: column}
}

func errJoinNotSupported(detail string) *Error {
	return &Error{Kind: JoinNotSupported, Detail: detail}
}
