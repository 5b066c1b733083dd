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

import (
	"fmt"
	"strings"
)

// Type identifies the SQL type attached to a node. Literals carry the type
// of their lexical form plus the type they were declared as; identifiers
// pick their type up from the schema catalog during translation.
type Type int

const (
	TypeUnknown Type = iota
	TypeBigint
	TypeDouble
	TypeVarchar
	TypeChar
	TypeBoolean
	TypeDate
	TypeTimestamp
	TypeNull
)

// String returns the SQL spelling of the type.
func (t Type) String() string {
	switch t {
	case TypeBigint:
		return "BIGINT"
	case TypeDouble:
		return "DOUBLE"
	case TypeVarchar:
		return "VARCHAR"
	case TypeChar:
		return "CHAR"
	case TypeBoolean:
		return "BOOLEAN"
	case TypeDate:
		return "DATE"
	case TypeTimestamp:
		return "TIMESTAMP"
	case TypeNull:
		return "NULL"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// TypeCategory groups types by how their constant values decode.
type TypeCategory int

const (
	CategoryOther TypeCategory = iota
	CategoryNumeric
	CategoryCharacter
	CategoryBoolean
	CategoryTemporal
	CategoryNull
)

// Category returns the decoding category of the type.
func (t Type) Category() TypeCategory {
	switch t {
	case TypeBigint, TypeDouble:
		return CategoryNumeric
	case TypeVarchar, TypeChar:
		return CategoryCharacter
	case TypeBoolean:
		return CategoryBoolean
	case TypeDate, TypeTimestamp:
		return CategoryTemporal
	case TypeNull:
		return CategoryNull
	default:
		return CategoryOther
	}
}

// typeNames maps SQL type spellings, including the common Postgres
// aliases, to their Type. Lookup is case-insensitive.
var typeNames = map[string]Type{
	"bigint":    TypeBigint,
	"int8":      TypeBigint,
	"int":       TypeBigint,
	"int2":      TypeBigint,
	"int4":      TypeBigint,
	"integer":   TypeBigint,
	"smallint":  TypeBigint,
	"double":    TypeDouble,
	"float4":    TypeDouble,
	"float8":    TypeDouble,
	"real":      TypeDouble,
	"numeric":   TypeDouble,
	"decimal":   TypeDouble,
	"varchar":   TypeVarchar,
	"text":      TypeVarchar,
	"string":    TypeVarchar,
	"char":      TypeChar,
	"character": TypeChar,
	"bpchar":    TypeChar,
	"boolean":   TypeBoolean,
	"bool":      TypeBoolean,
	"date":      TypeDate,
	"timestamp": TypeTimestamp,
}

// ParseType resolves a SQL type name to a Type. The second return value
// reports whether the name was recognized.
func ParseType(name string) (Type, bool) {
	t, ok := typeNames[strings.ToLower(strings.TrimSpace(name))]
	return t, ok
}
