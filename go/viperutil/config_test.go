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

package viperutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureDefaults(t *testing.T) {
	reg := NewRegistry()
	val := Configure(reg, "greeting", Options[string]{Default: "hello"})

	assert.Equal(t, "greeting", val.Key())
	assert.Equal(t, "hello", val.Default())
	assert.Equal(t, "hello", val.Get())
}

func TestSetOverrides(t *testing.T) {
	reg := NewRegistry()
	val := Configure(reg, "greeting", Options[string]{Default: "hello"})

	val.Set("goodbye")
	assert.Equal(t, "goodbye", val.Get())
}

func TestFlagBinding(t *testing.T) {
	reg := NewRegistry()
	val := Configure(reg, "catalog-file", Options[string]{FlagName: "catalog"})

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("catalog", val.Default(), "catalog path")
	BindFlags(fs, val)

	require.NoError(t, fs.Parse([]string{"--catalog", "graph.yaml"}))
	assert.Equal(t, "graph.yaml", val.Get())
}

func TestUnchangedFlagKeepsDefault(t *testing.T) {
	reg := NewRegistry()
	val := Configure(reg, "log-level", Options[string]{Default: "info", FlagName: "log-level"})

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("log-level", val.Default(), "log level")
	BindFlags(fs, val)

	require.NoError(t, fs.Parse(nil))
	assert.Equal(t, "info", val.Get())
}

func TestEnvBinding(t *testing.T) {
	t.Setenv("SQLGREMLIN_GREETING", "from-env")

	reg := NewRegistry()
	val := Configure(reg, "greeting", Options[string]{
		Default: "hello",
		EnvVars: []string{"SQLGREMLIN_GREETING"},
	})

	assert.Equal(t, "from-env", val.Get())
}

func TestEnvDecodesTypedValues(t *testing.T) {
	t.Setenv("SQLGREMLIN_WORKERS", "5")

	reg := NewRegistry()
	val := Configure(reg, "workers", Options[int]{
		Default: 1,
		EnvVars: []string{"SQLGREMLIN_WORKERS"},
	})

	assert.Equal(t, 5, val.Get())
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("greeting: from-file\n"), 0o644))

	reg := NewRegistry()
	val := Configure(reg, "greeting", Options[string]{Default: "hello"})

	require.NoError(t, reg.LoadConfigFile(path))
	assert.Equal(t, "from-file", val.Get())

	// An explicit Set still wins over the loaded file.
	val.Set("overridden")
	assert.Equal(t, "overridden", val.Get())
}

func TestLoadConfigFileMissing(t *testing.T) {
	reg := NewRegistry()
	err := reg.LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config")
}

func TestLoadConfigFileEmptyPathIsNoop(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.LoadConfigFile(""))
}
