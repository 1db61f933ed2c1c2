// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"os"
	"slices"
	"time"

	"github.com/consensys/go-semgus/pkg/ir/horn"
	"github.com/consensys/go-semgus/pkg/semgus/event"
	"github.com/consensys/go-semgus/pkg/semgus/problem"
	"github.com/consensys/go-semgus/pkg/solver"
	"github.com/goccy/go-yaml"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// Config holds the settings shared by all commands.  Settings are read from an
// (optional) YAML file, and then overridden by any flags explicitly given.
type Config struct {
	// Solver executable
	Solver string `yaml:"solver"`
	// Arguments for the solver executable
	SolverArgs []string `yaml:"solver-args"`
	// Logic set at the start of every script
	Logic string `yaml:"logic"`
	// Time limit for the solver (e.g. "30s"), or empty for none.
	Timeout string `yaml:"timeout"`
	// Permit functions and datatypes to be redefined.
	AllowRedefinition bool `yaml:"allow-redefinition"`
	// Ignore unknown fields in events.
	Lenient bool `yaml:"lenient"`
	// Print generated assertions before checking.
	Print bool `yaml:"print"`
	// Line width for generated scripts.
	Width uint `yaml:"width"`
	// Enable debug logging.
	Verbose bool `yaml:"verbose"`
}

// DefaultConfig returns the settings used when neither a configuration file
// nor flags specify otherwise.
func DefaultConfig() Config {
	return Config{
		Solver:     solver.DEFAULT_BINARY,
		SolverArgs: slices.Clone(solver.DEFAULT_ARGS),
		Logic:      solver.DEFAULT_LOGIC,
		Width:      horn.DEFAULT_WIDTH,
	}
}

// LoadConfig reads a configuration file.  Settings missing from the file take
// their default values, whilst unknown settings are an error.
func LoadConfig(filename string) (Config, error) {
	cfg := DefaultConfig()
	bytes, err := os.ReadFile(filename)
	//
	if err != nil {
		return cfg, errors.Wrapf(err, "reading configuration")
	} else if err := yaml.UnmarshalWithOptions(bytes, &cfg, yaml.DisallowUnknownField()); err != nil {
		return cfg, errors.Wrapf(err, "parsing configuration %s", filename)
	}
	//
	return cfg, nil
}

// Override settings with those flags of a command which were explicitly set.
func (p *Config) Override(cmd *cobra.Command) error {
	var (
		flags = cmd.Flags()
		err   error
	)
	//
	changed := func(name string) bool {
		return err == nil && flags.Lookup(name) != nil && flags.Changed(name)
	}
	//
	if changed("solver") {
		p.Solver, err = flags.GetString("solver")
	}
	//
	if changed("solver-arg") {
		p.SolverArgs, err = flags.GetStringArray("solver-arg")
	}
	//
	if changed("logic") {
		p.Logic, err = flags.GetString("logic")
	}
	//
	if changed("timeout") {
		var timeout time.Duration
		//
		timeout, err = flags.GetDuration("timeout")
		p.Timeout = timeout.String()
	}
	//
	if changed("allow-redefinition") {
		p.AllowRedefinition, err = flags.GetBool("allow-redefinition")
	}
	//
	if changed("lenient") {
		p.Lenient, err = flags.GetBool("lenient")
	}
	//
	if changed("print") {
		p.Print, err = flags.GetBool("print")
	}
	//
	if changed("width") {
		p.Width, err = flags.GetUint("width")
	}
	//
	if changed("verbose") {
		p.Verbose, err = flags.GetBool("verbose")
	}
	//
	return err
}

// Engine constructs the solver engine described by this configuration.
func (p *Config) Engine() (*solver.Process, error) {
	var timeout time.Duration
	//
	if p.Timeout != "" {
		var err error
		//
		if timeout, err = time.ParseDuration(p.Timeout); err != nil {
			return nil, errors.Wrapf(err, "invalid timeout")
		} else if timeout < 0 {
			return nil, errors.Errorf("negative timeout %s", p.Timeout)
		}
	}
	//
	return &solver.Process{
		Binary:  p.Solver,
		Args:    slices.Clone(p.SolverArgs),
		Logic:   p.Logic,
		Timeout: timeout,
		Width:   p.Width,
	}, nil
}

// EventOptions returns the options for parsing events.
func (p *Config) EventOptions() event.Options {
	return event.Options{AllowUnknownFields: p.Lenient}
}

// ProblemOptions returns the options for building problems.
func (p *Config) ProblemOptions() problem.Options {
	return problem.Options{AllowRedefinition: p.AllowRedefinition}
}
