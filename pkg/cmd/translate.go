// Copyright The Transpyl Authors
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
	"os"
	"strings"

	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/transpyl/transpyl/pkg/ast"
	"github.com/transpyl/transpyl/pkg/translate"
)

var translateCmd = &cobra.Command{
	Use:   "translate [flags] ast-file",
	Short: "translate a JSON-encoded AST into target-language source.",
	Long: `Translate reads one JSON-encoded translation unit (the output of the
external parser collaborator, spec §6) and writes its Zig-like rendition.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		configureLogging(cmd)

		cfg, err := loadConfig(GetString(cmd, "config"))
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		cfg.Debug = GetFlag(cmd, "debug")
		if GetFlag(cmd, "bump-allocator") {
			cfg.Allocator = translate.BumpAllocator
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		mod, err := ast.DecodeModule(data)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		result := translate.Translate(mod, cfg)

		output := GetString(cmd, "output")
		if output == "" || output == "-" {
			os.Stdout.Write(result.Output)
		} else if err := os.WriteFile(output, result.Output, 0644); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		printSummary(result)

		if hasFatal(result) {
			os.Exit(1)
		}
	},
}

// printSummary prints the human-facing one-line run summary in color,
// keeping logrus's plain-text/JSON formatter untouched for structured log
// lines (SPEC_FULL.md §B fatih/color entry).
func printSummary(result translate.Result) {
	width := progressWidth()
	line := fmt.Sprintf("%d bytes emitted, %d diagnostic(s)", len(result.Output), len(result.Diagnostics))
	if len(line) > width && width > 0 {
		line = line[:width]
	}

	if hasFatal(result) {
		color.New(color.FgRed, color.Bold).Println(line)
	} else if len(result.Diagnostics) > 0 {
		color.New(color.FgYellow).Println(line)
	} else {
		color.New(color.FgGreen).Println(line)
	}
}

func progressWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return 0
	}
	return w
}

func hasFatal(result translate.Result) bool {
	for _, d := range result.Diagnostics {
		if strings.Contains(d.Kind.String(), "internal-inconsistency") {
			return true
		}
	}
	return false
}

func init() {
	rootCmd.AddCommand(translateCmd)
	translateCmd.Flags().StringP("output", "o", "-", "output file, or \"-\" for stdout")
	translateCmd.Flags().String("config", "", "YAML file overriding runtime/inline module names and reserved keywords")
	translateCmd.Flags().Bool("debug", false, "emit extra trace comments for fallback paths")
	translateCmd.Flags().Bool("bump-allocator", false, "use the bump-allocator emission strategy instead of the general-purpose one")
}
