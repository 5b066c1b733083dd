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

package command

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const testCatalogYAML = `tables:
  - name: person
    columns:
      - name: name
        type: varchar
      - name: age
        type: bigint
  - name: company
    label: organization
    columns:
      - name: name
        type: varchar
relationships:
  - out: person
    in: company
    label: worksFor
`

// writeCatalogFile writes the shared test catalog into a temp directory
// and returns its path.
func writeCatalogFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "graph.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testCatalogYAML), 0o644))
	return path
}

// executeCommand runs a fresh root command with the given args and
// returns its combined output.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root, _ := GetRootCommand()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}
