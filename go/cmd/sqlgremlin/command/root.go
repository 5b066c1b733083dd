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
	"errors"
	"log/slog"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/sqlgremlin/sqlgremlin/go/schema"
	"github.com/sqlgremlin/sqlgremlin/go/tools/logutil"
	"github.com/sqlgremlin/sqlgremlin/go/viperutil"
)

// SqlGremlinCommand holds the configuration for sqlgremlin commands
type SqlGremlinCommand struct {
	reg         *viperutil.Registry
	configFile  viperutil.Value[string]
	catalogFile viperutil.Value[string]
	lg          *logutil.Logger
}

// GetRootCommand creates and returns the root command for sqlgremlin with all subcommands
func GetRootCommand() (*cobra.Command, *SqlGremlinCommand) {
	reg := viperutil.NewRegistry()
	sc := &SqlGremlinCommand{
		reg: reg,
		configFile: viperutil.Configure(reg, "config-file", viperutil.Options[string]{
			Default:  "",
			FlagName: "config-file",
			EnvVars:  []string{"SQLGREMLIN_CONFIG_FILE"},
		}),
		catalogFile: viperutil.Configure(reg, "catalog-file", viperutil.Options[string]{
			Default:  "",
			FlagName: "catalog",
			EnvVars:  []string{"SQLGREMLIN_CATALOG"},
		}),
		lg: logutil.NewLogger(reg),
	}

	root := &cobra.Command{
		Use:   "sqlgremlin",
		Short: "Translate SQL SELECT statements into Gremlin traversals",
		Long: `sqlgremlin compiles SQL SELECT statements into Gremlin traversal text
against a property graph described by a catalog file.

The catalog maps tables onto vertex labels, columns onto vertex
properties, and relationships onto edges. Pass it with --catalog, the
SQLGREMLIN_CATALOG environment variable, or a 'catalog' section of a
config file.

Get started with:
  sqlgremlin catalog check graph.yaml
  sqlgremlin --catalog graph.yaml translate "SELECT name FROM person"`,
		Args: cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Silence usage for application errors, but allow it for flag errors
			// This gets called after flag parsing, so flag errors will still show usage
			cmd.SilenceUsage = true

			// Load config before logging so log flags set in the file apply
			if err := sc.reg.LoadConfigFile(sc.configFile.Get()); err != nil {
				return err
			}
			sc.lg.SetupLogging()
			return nil
		},
	}

	root.PersistentFlags().String("config-file", sc.configFile.Default(), "Path to an optional YAML config file")
	root.PersistentFlags().StringP("catalog", "c", sc.catalogFile.Default(), "Path to the catalog file mapping tables onto the graph")
	sc.lg.RegisterFlags(root.PersistentFlags())

	viperutil.BindFlags(root.PersistentFlags(),
		sc.configFile,
		sc.catalogFile,
	)

	// Add all subcommands
	AddTranslateCommand(root, sc)
	AddCatalogCommand(root, sc)

	return root, sc
}

// LoadCatalog loads the catalog from the configured source: the --catalog
// path when one is set, otherwise a 'catalog' section of the config file.
func (sc *SqlGremlinCommand) LoadCatalog() (*schema.Catalog, error) {
	if path := sc.catalogFile.Get(); path != "" {
		return schema.LoadCatalog(afero.NewOsFs(), path)
	}
	if m := sc.reg.Viper().GetStringMap("catalog"); len(m) > 0 {
		return schema.DecodeCatalogMap(m)
	}
	return nil, errors.New("no catalog configured: pass --catalog or a config file with a catalog section")
}

// GetLogger returns the configured logger instance
func (sc *SqlGremlinCommand) GetLogger() *slog.Logger {
	return sc.lg.GetLogger()
}
