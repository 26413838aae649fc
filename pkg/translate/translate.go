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

// Package translate wires C1-C9 into the single entry point the CLI (and any
// other embedder) calls to turn one parsed translation unit into target-code
// bytes. Grounded on the teacher's pkg/corset.CompileSourceFiles /
// Compiler.Compile: one configuration struct in, "(payload, diagnostics)"
// out, with a top-level recover turning an internal panic into a single
// fatal diagnostic instead of crashing the caller (SPEC_FULL.md §A.2).
package translate

import (
	"fmt"

	"github.com/transpyl/transpyl/pkg/ast"
	"github.com/transpyl/transpyl/pkg/builtins"
	"github.com/transpyl/transpyl/pkg/diag"
	"github.com/transpyl/transpyl/pkg/emitter"
	log "github.com/sirupsen/logrus"
)

// AllocatorStrategy selects which allocator backs the emitted module-scope
// `alloc` binding, mirroring the teacher's legacy/improved register-allocator
// toggle (SPEC_FULL.md §A.3).
type AllocatorStrategy int

const (
	// GeneralPurposeAllocator backs `alloc` with a general-purpose
	// allocator; the default (the zero value).
	GeneralPurposeAllocator AllocatorStrategy = iota
	// BumpAllocator backs `alloc` with an arena allocator. Per-binding
	// release calls are emitted exactly as under GeneralPurposeAllocator;
	// no per-scope arena reset is emitted.
	BumpAllocator
)

func (a AllocatorStrategy) String() string {
	if a == BumpAllocator {
		return "bump"
	}
	return "general-purpose"
}

// Config bundles every input the translator's components need, mirroring
// the teacher's corset.CompilationConfig (SPEC_FULL.md §A.3).
type Config struct {
	// TargetLanguage names the output language for diagnostic/log messages
	// only; the emitter's shape is fixed to the one target described in
	// spec.md §1 ("Zig-like").
	TargetLanguage string
	// RuntimeModuleNames maps a source import path to the target module
	// path emitted in its `@import` (spec §6 "runtime_module_names"),
	// consulted by C9.
	RuntimeModuleNames map[string]string
	// InlineModuleNames names source modules whose members are rewritten
	// inline rather than through a runtime-prefixed call (spec §6
	// "inline_module_names").
	InlineModuleNames map[string]bool
	// BuiltinTable overrides the default builtin/module dispatch table
	// (C8); nil selects builtins.NewDefaultTable().
	BuiltinTable *builtins.Table
	// ReservedKeywords is the target language's reserved-word set, used by
	// C5 to decide when an identifier needs `@"..."` escaping (spec §6).
	ReservedKeywords map[string]bool
	// Debug emits extra trace comments ahead of statements that took a
	// fallback path (unsupported construct, skipped module, Unknown-type
	// fallthrough), mirroring the teacher's `--debug` debugging-constraint
	// flag.
	Debug bool
	// Allocator selects the allocator that backs the emitted `alloc`
	// binding (SPEC_FULL.md §A.3).
	Allocator AllocatorStrategy
}

// Result is what one translation unit produces: the emitted bytes (possibly
// partial, when only recoverable diagnostics were raised) plus every
// diagnostic accumulated along the way.
type Result struct {
	Output      []byte
	Diagnostics []*diag.Error
}

// Translate runs the full C1-C9 pipeline over mod and returns the emitted
// target-code bytes plus any diagnostics, recovering an internal panic into
// a single fatal diag.Error the way the teacher's Compiler.Compile recovers
// at its own top-level boundary (SPEC_FULL.md §A.2).
func Translate(mod *ast.Module, cfg Config) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			log.WithFields(log.Fields{"pass": "translate"}).Errorf("internal inconsistency: %v", r)
			res = Result{
				Diagnostics: []*diag.Error{
					diag.New(diag.InternalInconsistency, "translate.Translate", fmt.Sprintf("recovered panic: %v", r)),
				},
			}
		}
	}()

	table := cfg.BuiltinTable
	if table == nil {
		table = builtins.NewDefaultTable()
	}

	e := emitter.New(cfg.ReservedKeywords, cfg.RuntimeModuleNames, cfg.InlineModuleNames)
	e.Builtins = table
	e.Debug = cfg.Debug
	e.BumpAllocator = cfg.Allocator == BumpAllocator

	log.WithFields(log.Fields{
		"pass":      "translate",
		"target":    cfg.TargetLanguage,
		"allocator": cfg.Allocator,
	}).Debug("starting translation unit")

	out, diags := e.Translate(mod)

	for _, d := range diags {
		fields := log.Fields{"pass": d.Where, "kind": d.Kind.String()}
		if d.Node != "" {
			fields["node"] = d.Node
		}
		log.WithFields(fields).Warn(d.Msg)
	}

	return Result{Output: out, Diagnostics: diags}
}
