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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sqlgremlin/sqlgremlin/go/parser"
	"github.com/sqlgremlin/sqlgremlin/go/translate"
)

// TranslateCmd holds the translate command configuration
type TranslateCmd struct {
	sqlGremlinCmd *SqlGremlinCommand
}

// AddTranslateCommand adds the translate subcommand to the root command
func AddTranslateCommand(root *cobra.Command, sc *SqlGremlinCommand) {
	tc := &TranslateCmd{
		sqlGremlinCmd: sc,
	}
	root.AddCommand(tc.createCommand())
}

func (tc *TranslateCmd) createCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "translate <sql>",
		Short: "Translate a SQL SELECT statement into a Gremlin traversal",
		Long: `Translate parses one SQL SELECT statement, compiles it against the
configured catalog, and prints the Gremlin traversal followed by the
ordered output columns, one name and type per line.

Examples:
  # Translate a filtered projection
  sqlgremlin --catalog graph.yaml translate "SELECT name FROM person WHERE age > 30"

  # Aggregate over the whole table
  sqlgremlin --catalog graph.yaml translate "SELECT COUNT(*) FROM person"

  # Read the catalog from a config file section
  sqlgremlin --config-file sqlgremlin.yaml translate "SELECT name FROM person"`,
		Args: cobra.ExactArgs(1),
		RunE: tc.runTranslate,
	}
}

func (tc *TranslateCmd) runTranslate(cmd *cobra.Command, args []string) error {
	catalog, err := tc.sqlGremlinCmd.LoadCatalog()
	if err != nil {
		return err
	}

	stmt, err := parser.Parse(args[0])
	if err != nil {
		return err
	}

	tr := translate.New(catalog, translate.WithLogger(tc.sqlGremlinCmd.GetLogger()))
	result, err := tr.Translate(stmt)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, result.Traversal.String())
	for _, col := range result.Columns {
		fmt.Fprintf(out, "%s\t%s\n", col.Name, col.Type)
	}
	return nil
}
