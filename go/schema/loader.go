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

package schema

import (
	"bytes"
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/sqlgremlin/sqlgremlin/go/sqlast"
)

// FileConfig mirrors the YAML catalog document.
type FileConfig struct {
	Tables        []TableConfig        `yaml:"tables" mapstructure:"tables"`
	Relationships []RelationshipConfig `yaml:"relationships" mapstructure:"relationships"`
}

// TableConfig is one table entry of the catalog document.
type TableConfig struct {
	Name    string         `yaml:"name" mapstructure:"name"`
	Label   string         `yaml:"label,omitempty" mapstructure:"label"`
	Columns []ColumnConfig `yaml:"columns" mapstructure:"columns"`
}

// ColumnConfig is one column entry of a table.
type ColumnConfig struct {
	Name     string `yaml:"name" mapstructure:"name"`
	Type     string `yaml:"type" mapstructure:"type"`
	Property string `yaml:"property,omitempty" mapstructure:"property"`
}

// RelationshipConfig is one join-edge entry, directed out -> in.
type RelationshipConfig struct {
	Out   string `yaml:"out" mapstructure:"out"`
	In    string `yaml:"in" mapstructure:"in"`
	Label string `yaml:"label" mapstructure:"label"`
}

// Build validates the document and assembles the immutable catalog.
func (cfg FileConfig) Build() (*Catalog, error) {
	if len(cfg.Tables) == 0 {
		return nil, fmt.Errorf("catalog declares no tables")
	}
	tables := make([]Table, 0, len(cfg.Tables))
	for _, tc := range cfg.Tables {
		t := Table{Name: tc.Name, Label: tc.Label}
		for _, cc := range tc.Columns {
			typ, ok := sqlast.ParseType(cc.Type)
			if !ok {
				return nil, fmt.Errorf("column %q of table %q has unrecognized type %q", cc.Name, tc.Name, cc.Type)
			}
			t.Columns = append(t.Columns, Column{Name: cc.Name, Property: cc.Property, Type: typ})
		}
		tables = append(tables, t)
	}
	edges := make([]JoinEdge, 0, len(cfg.Relationships))
	for _, rc := range cfg.Relationships {
		edges = append(edges, JoinEdge{Label: rc.Label, OutTable: rc.Out, InTable: rc.In})
	}
	return NewCatalog(tables, edges)
}

// LoadCatalog reads and validates a YAML catalog file. Unknown document
// fields are rejected so a misspelled key fails loudly instead of
// silently dropping part of the schema.
func LoadCatalog(fs afero.Fs, path string) (*Catalog, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}
	var cfg FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file %s: %w", path, err)
	}
	catalog, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("invalid catalog file %s: %w", path, err)
	}
	return catalog, nil
}

// DecodeCatalogMap builds a catalog from an untyped configuration map,
// as produced by viper when the catalog is embedded in a larger config
// file.
func DecodeCatalogMap(m map[string]any) (*Catalog, error) {
	var cfg FileConfig
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &cfg,
		ErrorUnused: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(m); err != nil {
		return nil, fmt.Errorf("failed to decode catalog config: %w", err)
	}
	return cfg.Build()
}
