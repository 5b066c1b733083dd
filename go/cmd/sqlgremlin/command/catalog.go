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

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/sqlgremlin/sqlgremlin/go/schema"
)

// CatalogCmd holds the catalog command configuration
type CatalogCmd struct {
	sqlGremlinCmd *SqlGremlinCommand
}

// AddCatalogCommand adds the catalog subcommand tree to the root command
func AddCatalogCommand(root *cobra.Command, sc *SqlGremlinCommand) {
	cc := &CatalogCmd{
		sqlGremlinCmd: sc,
	}
	root.AddCommand(cc.createCommand())
}

func (cc *CatalogCmd) createCommand() *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect catalog files",
		Args:  cobra.NoArgs,
	}
	catalogCmd.AddCommand(cc.createCheckCommand())
	return catalogCmd
}

func (cc *CatalogCmd) createCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>",
		Short: "Load and validate a catalog file",
		Long: `Check loads a catalog file, validates its table, column and
relationship definitions, and prints a summary of the graph mapping.

Examples:
  sqlgremlin catalog check graph.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: cc.runCheck,
	}
}

func (cc *CatalogCmd) runCheck(cmd *cobra.Command, args []string) error {
	catalog, err := schema.LoadCatalog(afero.NewOsFs(), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	tables := catalog.Tables()
	fmt.Fprintf(out, "%s: %d tables, %d relationships\n", args[0], len(tables), len(catalog.Relationships()))
	for _, table := range tables {
		fmt.Fprintf(out, "  %s -> label %q, %d columns\n", table.Name, table.Label, len(table.Columns))
	}
	return nil
}
