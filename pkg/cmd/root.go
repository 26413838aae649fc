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

// Package cmd is the CLI driver wiring pkg/translate to a filesystem (spec §1
// names the CLI driver itself an out-of-scope external collaborator; this
// package is exactly that collaborator). Grounded on the teacher's
// pkg/cmd/root.go: a bare cobra root command carrying persistent flags, one
// child command per top-level operation, Version filled in by `make`.
package cmd

import (
	"fmt"
	"os"
	"runtime/debug"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Version is filled when building via `make`, left empty for `go install`.
var Version string

var rootCmd = &cobra.Command{
	Use:   "transpyl",
	Short: "An ahead-of-time source-to-source translator.",
	Long:  "Translates a statically-typable Python-like subset into Zig-like systems-language source.",
	Run: func(cmd *cobra.Command, args []string) {
		if GetFlag(cmd, "version") {
			fmt.Print("transpyl ")
			if Version != "" {
				fmt.Print(Version)
			} else if info, ok := debug.ReadBuildInfo(); ok {
				fmt.Print(info.Main.Version)
			} else {
				fmt.Print("(unknown version)")
			}
			fmt.Println()
		}
	},
}

// Execute adds all child commands to the root command and runs it. Called
// once by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func configureLogging(cmd *cobra.Command) {
	switch {
	case GetFlag(cmd, "quiet"):
		log.SetLevel(log.ErrorLevel)
	case GetFlag(cmd, "verbose"):
		log.SetLevel(log.DebugLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}

	if GetString(cmd, "log-format") == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{})
	}
}

func init() {
	rootCmd.Flags().Bool("version", false, "report the version of this executable")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "increase logging verbosity")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress all but error-level logging")
	rootCmd.PersistentFlags().String("log-format", "text", "log formatter: \"text\" or \"json\"")
}
