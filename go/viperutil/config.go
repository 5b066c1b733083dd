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
	"github.com/spf13/pflag"
)

// Value is one typed configuration key, resolved through its registry in
// viper's precedence order: explicit Set, changed flag, environment,
// config file, default.
type Value[T any] interface {
	Bindable

	// Get returns the current value, falling back to the default when the
	// key is unset or its source cannot decode into T.
	Get() T

	// Default returns the configured default.
	Default() T

	// Set overrides the value, taking precedence over every other source.
	Set(v T)
}

// Bindable is the type-erased surface BindFlags works across.
type Bindable interface {
	// Key returns the registry key.
	Key() string

	bind(fs *pflag.FlagSet)
}

// Options configures one key.
type Options[T any] struct {
	// Default is returned while no other source provides the key.
	Default T

	// FlagName is the pflag to bind via BindFlags; empty leaves the key
	// without a flag.
	FlagName string

	// EnvVars are environment variables bound to the key. The first one
	// set wins.
	EnvVars []string
}

type value[T any] struct {
	reg  *Registry
	key  string
	opts Options[T]
}

// Configure registers one key on the registry and returns its handle.
// Flag binding happens separately through BindFlags, after the flag has
// been declared on a flag set.
func Configure[T any](reg *Registry, key string, opts Options[T]) Value[T] {
	reg.v.SetDefault(key, opts.Default)
	if len(opts.EnvVars) > 0 {
		_ = reg.v.BindEnv(append([]string{key}, opts.EnvVars...)...)
	}
	return &value[T]{reg: reg, key: key, opts: opts}
}

// BindFlags binds each value to its declared flag on fs. The flags must
// already exist; values without a flag name are skipped.
func BindFlags(fs *pflag.FlagSet, values ...Bindable) {
	for _, val := range values {
		val.bind(fs)
	}
}

func (val *value[T]) Key() string { return val.key }

func (val *value[T]) Default() T { return val.opts.Default }

func (val *value[T]) Set(v T) { val.reg.v.Set(val.key, v) }

func (val *value[T]) Get() T {
	raw := val.reg.v.Get(val.key)
	if raw == nil {
		return val.opts.Default
	}
	if typed, ok := raw.(T); ok {
		return typed
	}
	// Sources such as environment variables deliver strings; let viper's
	// weakly typed decoding convert them.
	var decoded T
	if err := val.reg.v.UnmarshalKey(val.key, &decoded); err != nil {
		return val.opts.Default
	}
	return decoded
}

func (val *value[T]) bind(fs *pflag.FlagSet) {
	if val.opts.FlagName == "" {
		return
	}
	if f := fs.Lookup(val.opts.FlagName); f != nil {
		_ = val.reg.v.BindPFlag(val.key, f)
	}
}
