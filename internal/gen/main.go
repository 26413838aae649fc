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

// Command transpyl-gen regenerates pkg/builtins/table_generated.go from the
// declarative specs below, the same way the teacher's
// pkg/util/field/internal/generator regenerates field-element code: a
// small Go literal describing the payload, rendered through
// github.com/consensys/bavard into checked-in, license-headered Go source.
//
//go:generate go run main.go
package main

import (
	"fmt"
	"os"

	"github.com/consensys/bavard"
)

const copyrightHolder = "The Transpyl Authors"

// freeFunctionSpec describes one spec §4.7 free-function dispatch entry.
type freeFunctionSpec struct {
	Name      string
	Kind      string // "Inline" or "RuntimeCall"
	Generator string
	ReturnTag string // empty means "inferred from args at call time"
}

// moduleFunctionSpec describes one spec §4.7 module-member dispatch entry.
type moduleFunctionSpec struct {
	Module    string
	Member    string
	Kind      string
	Generator string
	ReturnTag string
	Comment   string
}

type tableSpecs struct {
	FreeFunctions []freeFunctionSpec
	Modules       []moduleFunctionSpec
}

func specs() tableSpecs {
	return tableSpecs{
		FreeFunctions: []freeFunctionSpec{
			{Name: "len", Kind: "Inline", Generator: "genLen"},
			{Name: "str", Kind: "RuntimeCall", Generator: "genStr", ReturnTag: "types.String"},
			{Name: "int", Kind: "RuntimeCall", Generator: "genInt", ReturnTag: "types.Int"},
			{Name: "float", Kind: "RuntimeCall", Generator: "genFloat", ReturnTag: "types.Float"},
			{Name: "bool", Kind: "RuntimeCall", Generator: "genBool", ReturnTag: "types.Bool"},
			{Name: "abs", Kind: "RuntimeCall", Generator: "genAbs"},
			{Name: "min", Kind: "RuntimeCall", Generator: "genMin"},
			{Name: "max", Kind: "RuntimeCall", Generator: "genMax"},
			{Name: "sum", Kind: "RuntimeCall", Generator: "genSum"},
			{Name: "sorted", Kind: "RuntimeCall", Generator: "genSorted"},
			{Name: "reversed", Kind: "RuntimeCall", Generator: "genReversed"},
			{Name: "print", Kind: "RuntimeCall", Generator: "genPrint", ReturnTag: "types.None"},
			{Name: "isinstance", Kind: "RuntimeCall", Generator: "genIsInstance", ReturnTag: "types.Bool"},
		},
		Modules: []moduleFunctionSpec{
			{Module: "math", Member: "sqrt", Kind: "RuntimeCall", Generator: `genRuntimeCall1("rt_math_sqrt")`, ReturnTag: "types.Float"},
			{Module: "math", Member: "floor", Kind: "RuntimeCall", Generator: `genRuntimeCall1("rt_math_floor")`, ReturnTag: "types.Int"},
			{Module: "math", Member: "ceil", Kind: "RuntimeCall", Generator: `genRuntimeCall1("rt_math_ceil")`, ReturnTag: "types.Int"},
			{Module: "os", Member: "getcwd", Kind: "Inline", Generator: `genConstString(".")`, ReturnTag: "types.String",
				Comment: "`os.getcwd()` has no target-side filesystem counterpart in scope; emit a stub expression consistent with its declared type so downstream code still type-checks (spec §4.7 example)."},
		},
	}
}

func main() {
	bgen := bavard.NewBatchGenerator(copyrightHolder, 2026, "transpyl")

	assertNoError(bgen.Generate(specs(), "builtins", "templates",
		bavard.Entry{
			File:      "../../pkg/builtins/table_generated.go",
			Templates: []string{"table.go.tmpl"},
			BuildTag:  "",
		},
	), "generating builtin dispatch table")
}

func assertNoError(err error, context string) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", context, err)
		os.Exit(1)
	}
}
