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

import (
	"fmt"
	"strconv"
	"strings"
)

// String renders the traversal as Gremlin-Groovy text. The rendering is
// deterministic: the same step sequence always produces the same string,
// which is what the translation tests compare against.
func (t *Traversal) String() string {
	var sb strings.Builder
	if t.anonymous {
		sb.WriteString("__")
	} else {
		sb.WriteString("g")
	}
	for _, s := range t.steps {
		sb.WriteByte('.')
		sb.WriteString(s.Name)
		sb.WriteByte('(')
		for i, arg := range s.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeArg(&sb, arg)
		}
		sb.WriteByte(')')
	}
	return sb.String()
}

func writeArg(sb *strings.Builder, arg any) {
	switch v := arg.(type) {
	case nil:
		sb.WriteString("null")
	case string:
		writeQuoted(sb, v)
	case bool:
		sb.WriteString(strconv.FormatBool(v))
	case int:
		sb.WriteString(strconv.FormatInt(int64(v), 10))
	case int32:
		sb.WriteString(strconv.FormatInt(int64(v), 10))
	case int64:
		sb.WriteString(strconv.FormatInt(v, 10))
	case float64:
		sb.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	case P:
		sb.WriteString(v.Name)
		sb.WriteByte('(')
		writeArg(sb, v.Value)
		sb.WriteByte(')')
	case Order:
		sb.WriteString(v.String())
	case Column:
		sb.WriteString(v.String())
	case *Traversal:
		sb.WriteString(v.String())
	default:
		fmt.Fprintf(sb, "%v", v)
	}
}

// writeQuoted writes a single-quoted Groovy string literal, escaping
// backslashes and embedded quotes.
func writeQuoted(sb *strings.Builder, s string) {
	sb.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '\'':
			sb.WriteString(`\'`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('\'')
}
