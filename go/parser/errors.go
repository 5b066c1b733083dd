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

package parser

import "fmt"

// SyntaxError reports SQL that parses under the PostgreSQL grammar but
// uses a construct the statement tree has no slot for. Construct names
// what was found.
type SyntaxError struct {
	Construct string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("unsupported SQL construct: %s", e.Construct)
}

func unsupported(construct string) *SyntaxError {
	return &SyntaxError{Construct: construct}
}

func unsupportedf(format string, args ...any) *SyntaxError {
	return &SyntaxError{Construct: fmt.Sprintf(format, args...)}
}
