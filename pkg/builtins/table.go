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

// Package builtins implements the builtin & module dispatch table (C8,
// spec §4.7): a fixed table keyed by source name that selects an inline
// expansion, a runtime-library call, or a typed discard for calls the
// translator cannot otherwise resolve.
//
// Grounded on the teacher's pkg/corset/compiler/natives.go and
// pkg/corset/compiler/intrinsics.go, each of which is a small fixed table
// mapping a source-level name (native function / intrinsic operator) to a
// generator that produces the lowered form; this package plays the same
// "name -> generator" role for source built-ins and module functions.
package builtins

import "github.com/transpyl/transpyl/pkg/types"

// Kind distinguishes the three dispatch outcomes of spec §4.7.
type Kind int

const (
	// Inline emits an inline expansion into target code, e.g. `len(x)`
	// becomes `.len()` or `.items.len` depending on the receiver's type.
	Inline Kind = iota
	// RuntimeCall emits a call into the runtime library.
	RuntimeCall
	// DiscardUnknown marks the expression as returning Unknown, wrapped
	// in a discard if unused.
	DiscardUnknown
)

// Arg is one already-emitted call argument, paired with its inferred type
// so a Generator can pick a representation without re-inferring it.
type Arg struct {
	Code string
	Type types.Type
}

// CallCtx is what a Generator needs to produce its expansion: the receiver
// (nil for a free function call) and the positional arguments. Whether the
// call's value is used is not part of it; the statement emitter decides on
// a discard at the call site.
type CallCtx struct {
	Receiver *Arg
	Args     []Arg
}

// Generator produces the emitted code for one builtin/module-function call,
// plus the call's result type.
type Generator func(ctx CallCtx) (code string, ret types.Type)

// Entry is one row of the fixed builtin table.
type Entry struct {
	Kind      Kind
	Generate  Generator
	ReturnTag types.Type // used directly when Kind == DiscardUnknown
}

// Table is C8.
type Table struct {
	// functions holds free-function built-ins (`len`, `range`, `print`, ...).
	functions map[string]Entry
	// methods holds method-style built-ins dispatched via attribute call
	// (`x.append(...)`, `s.strip()`, ...).
	methods map[string]Entry
	// modules holds `module.function` dispatch entries keyed by
	// "module.function" (spec §4.5 Call resolution step 2).
	modules map[string]Entry
}

// NewTable constructs an empty Table; callers typically use
// NewDefaultTable (table_generated.go) instead.
func NewTable() *Table {
	return &Table{
		functions: make(map[string]Entry),
		methods:   make(map[string]Entry),
		modules:   make(map[string]Entry),
	}
}

// RegisterFunction installs a free-function entry.
func (t *Table) RegisterFunction(name string, e Entry) { t.functions[name] = e }

// RegisterMethod installs a method-style entry.
func (t *Table) RegisterMethod(name string, e Entry) { t.methods[name] = e }

// RegisterModule installs a `module.function` dispatch entry.
func (t *Table) RegisterModule(module, function string, e Entry) {
	t.modules[module+"."+function] = e
}

// ResolveFunction looks up a free-function built-in by name.
func (t *Table) ResolveFunction(name string) (Entry, bool) {
	e, ok := t.functions[name]
	return e, ok
}

// ResolveMethod looks up a method-style built-in by attribute name.
func (t *Table) ResolveMethod(name string) (Entry, bool) {
	e, ok := t.methods[name]
	return e, ok
}

// ResolveModule looks up a `module.function` dispatch entry.
func (t *Table) ResolveModule(module, function string) (Entry, bool) {
	e, ok := t.modules[module+"."+function]
	return e, ok
}
