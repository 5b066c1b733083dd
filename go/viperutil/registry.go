// Copyright 2025 Supabase, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package viperutil layers typed, flag-bound configuration values over an
// isolated viper instance. Each command builds its own registry, so tests
// and nested commands never share flag or config state.
package viperutil

import (
	"fmt"

	"github.com/spf13/viper"
)

// Registry holds the viper instance backing one command's configuration.
// Values are static: once the config file is loaded and flags are parsed
// they keep their values for the lifetime of the process.
type Registry struct {
	v *viper.Viper
}

// NewRegistry creates an isolated configuration registry.
//
// Example usage:
//
//	reg := viperutil.NewRegistry()
//	catalogFile := viperutil.Configure(reg, "catalog-file", viperutil.Options[string]{
//	    FlagName: "catalog",
//	})
func NewRegistry() *Registry {
	return &Registry{v: viper.New()}
}

// Viper exposes the backing instance for raw access, such as decoding a
// structured section of the config file.
func (reg *Registry) Viper() *viper.Viper {
	return reg.v
}

// LoadConfigFile reads the given file into the registry. An empty path is
// a no-op, so commands can treat the config file as optional.
func (reg *Registry) LoadConfigFile(path string) error {
	if path == "" {
		return nil
	}
	reg.v.SetConfigFile(path)
	if err := reg.v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return nil
}
