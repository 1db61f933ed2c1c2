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
	"fmt"
	"io"
	"os"

	"github.com/consensys/go-semgus/pkg/encode"
	"github.com/consensys/go-semgus/pkg/ir/horn"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var encodeCmd = &cobra.Command{
	Use:   "encode [flags] problem_file",
	Short: "Encode a SemGuS problem as an SMT-LIB2 script.",
	Long: `Encode a SemGuS problem against the examples given by its constraints, and
	write the resulting SMT-LIB2 script (as it would be given to a solver).`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		var (
			cfg    = getConfig(cmd)
			output = GetString(cmd, "output")
			err    error
		)
		//
		if output == "" {
			err = runEncode(args[0], cfg, os.Stdout)
		} else {
			err = encodeToFile(args[0], cfg, output)
		}
		//
		if err != nil {
			reportError(err)
			os.Exit(2)
		}
	},
}

func encodeToFile(filename string, cfg Config, output string) error {
	file, err := os.Create(output)
	//
	if err != nil {
		return errors.Wrapf(err, "creating output")
	}
	//
	if err = runEncode(filename, cfg, file); err != nil {
		file.Close()
		return err
	}
	//
	return errors.Wrapf(file.Close(), "writing %s", output)
}

// Encode a problem against its examples, writing the script to out.
func runEncode(filename string, cfg Config, out io.Writer) error {
	p, err := readProblem(filename, cfg)
	//
	if err != nil {
		return err
	}
	//
	engine, err := cfg.Engine()
	//
	if err != nil {
		return err
	}
	//
	hctx := horn.NewContext()
	defer hctx.Close()
	//
	encoding, err := encode.NewEncoder(hctx, p).Encode(p.Constraints())
	//
	if err != nil {
		return err
	}
	//
	script, err := engine.Script(hctx, encoding.Formulas...)
	//
	if err != nil {
		return err
	}
	//
	_, err = script.WriteTo(out)
	//
	return errors.Wrapf(err, "writing script")
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(encodeCmd)
	addScriptFlags(encodeCmd)
	addProblemFlags(encodeCmd)
	encodeCmd.Flags().StringP("output", "o", "", "write the script to a file (rather than stdout)")
}
