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
package solver

import (
	"bytes"
	"context"
	"os/exec"
	"slices"
	"strings"
	"time"

	"github.com/consensys/go-semgus/pkg/ir/horn"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// DEFAULT_BINARY is the solver executable used unless otherwise specified.
const DEFAULT_BINARY = "z3"

// DEFAULT_LOGIC is the logic set at the start of every script, unless
// otherwise specified.
const DEFAULT_LOGIC = "HORN"

// DEFAULT_ARGS are the arguments passed to the default binary, which instruct
// it to read an SMT-LIB2 script from stdin.
var DEFAULT_ARGS = []string{"-in", "-smt2"}

// Engine determines the satisfiability of a set of Horn clauses.
type Engine interface {
	// Check a set of formulas, all of which must have been constructed within
	// the given context.
	Check(ctx context.Context, hctx *horn.Context, formulas ...horn.Term) (Verdict, error)
}

// Process is an engine which runs an external solver for each check.  The
// query is written as an SMT-LIB2 script to the solver's stdin, and its
// verdict read from stdout.
type Process struct {
	// Executable to run
	Binary string
	// Arguments passed to the executable
	Args []string
	// Logic to set, or empty for none.
	Logic string
	// Maximum time allowed for each check, or zero for no limit.
	Timeout time.Duration
	// Line width of generated scripts.
	Width uint
}

// NOTE: This is used for compile time type checking if the given type
// satisfies the given interface.
var _ Engine = (*Process)(nil)

// NewProcess constructs an engine running the default solver.
func NewProcess() *Process {
	return &Process{DEFAULT_BINARY, slices.Clone(DEFAULT_ARGS), DEFAULT_LOGIC, 0, horn.DEFAULT_WIDTH}
}

// Script constructs the script which would be submitted for a given set of
// formulas.
func (p *Process) Script(hctx *horn.Context, formulas ...horn.Term) (*horn.Script, error) {
	if hctx.Closed() {
		return nil, errors.New("horn context is closed")
	}
	//
	for i, f := range formulas {
		if !horn.Owns(hctx, f) {
			return nil, errors.Errorf("formula %d belongs to another context", i)
		}
	}
	//
	script := horn.NewScript(p.Logic, hctx, formulas...)
	//
	if p.Width != 0 {
		script.Width = p.Width
	}
	//
	return script, nil
}

// Check runs the solver on a given set of formulas.
func (p *Process) Check(ctx context.Context, hctx *horn.Context, formulas ...horn.Term) (Verdict, error) {
	script, err := p.Script(hctx, formulas...)
	//
	if err != nil {
		return Unknown, err
	}
	//
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		//
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}
	//
	var (
		stdout bytes.Buffer
		stderr bytes.Buffer
		cmd    = exec.CommandContext(ctx, p.Binary, p.Args...)
	)
	//
	cmd.Stdin = strings.NewReader(script.String())
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// Children of the solver may outlive it, holding its output open.
	cmd.WaitDelay = time.Second
	//
	log.Debugf("running %s on %d formula(s) over %d declaration(s)", cmd.String(), len(formulas), len(script.Decls))
	//
	start := time.Now()
	runErr := cmd.Run()
	//
	log.Debugf("solver finished in %s", time.Since(start))
	//
	if ctx.Err() != nil {
		return Unknown, errors.Wrapf(ctx.Err(), "running %s", p.Binary)
	}
	// Solvers report errors on stdout, often with a failing exit code.
	verdict, err := ParseResponse("<"+p.Binary+">", stdout.Bytes())
	//
	if _, ok := err.(*ResponseError); ok {
		return Unknown, err
	} else if runErr != nil {
		return Unknown, errors.Wrapf(runErr, "running %s (%s)", p.Binary, strings.TrimSpace(stderr.String()))
	} else if err != nil {
		return Unknown, err
	}
	//
	log.Debugf("solver responded %s", verdict.String())
	//
	return verdict, nil
}
