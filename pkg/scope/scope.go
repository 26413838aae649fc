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

// Package scope implements the variable tracker (C4, spec §4 "Variable
// tracker"): a per-scope set of declared/hoisted/global/renamed names,
// answering isDeclared, isGlobalVar and var_renames.
//
// Grounded on the teacher's pkg/corset/compiler/scope.go ModuleScope, which
// maintains a tree of nested scopes each owning its own binding map plus a
// link to its parent for fall-through lookup; this Tracker keeps the same
// "child links to parent, Bind installs locally, lookup walks up" shape but
// tracks plain declared/hoisted/global name sets rather than column
// bindings.
package scope

// kind distinguishes why a scope was pushed, mirroring the loop/function/
// comprehension scope-opening sites named across spec §4.6.
type kind int

const (
	kindModule kind = iota
	kindFunction
	kindBlock
)

// frame is one lexical scope level.
type frame struct {
	kind     kind
	declared map[string]bool
	hoisted  map[string]bool
	parent   *frame
}

func newFrame(k kind, parent *frame) *frame {
	return &frame{kind: k, declared: make(map[string]bool), hoisted: make(map[string]bool), parent: parent}
}

// Tracker is C4: the scope stack plus the global-name set and the rename
// map used by the try/except helper-function lowering (spec §4.6.5).
type Tracker struct {
	globals []string
	global  map[string]bool
	top     *frame
	// renames maps a source identifier to its emitted substitute (spec
	// §3 "Rename map"), active only while inside a try-helper scope.
	renames map[string]string
}

// New constructs a Tracker with the module scope pushed.
func New() *Tracker {
	return &Tracker{
		global:  make(map[string]bool),
		top:     newFrame(kindModule, nil),
		renames: make(map[string]string),
	}
}

// PushFunctionScope opens a new function-body scope.
func (t *Tracker) PushFunctionScope() { t.top = newFrame(kindFunction, t.top) }

// PushBlockScope opens a new nested block scope (loop body, comprehension,
// try-helper body) that shares its enclosing function's declared set for
// isDeclared purposes but tracks its own hoisted set.
func (t *Tracker) PushBlockScope() { t.top = newFrame(kindBlock, t.top) }

// PopScope closes the innermost scope (spec §4.4 "pop_scope").
func (t *Tracker) PopScope() {
	if t.top.parent == nil {
		panic("scope: cannot pop the module scope")
	}
	t.top = t.top.parent
}

// Declare records that name is now declared in the innermost scope. Per
// spec §3's invariant, a name declared in one scope is never redeclared
// within that same scope; callers are expected to have already checked
// IsDeclaredLocally before calling Declare for the first time.
func (t *Tracker) Declare(name string) {
	t.top.declared[name] = true
}

// Hoist records name as hoisted (declared ahead of its first visible
// assignment, spec §3 "Hoisted variable" / §4.6.5 step 1) in the innermost
// scope, and also declares it there.
func (t *Tracker) Hoist(name string) {
	t.top.hoisted[name] = true
	t.top.declared[name] = true
}

// IsDeclaredLocally reports whether name was declared directly in the
// innermost scope (not an enclosing one).
func (t *Tracker) IsDeclaredLocally(name string) bool {
	return t.top.declared[name]
}

// IsDeclared reports whether name is visible from the current scope,
// walking up through enclosing scopes (spec §4 "isDeclared").
func (t *Tracker) IsDeclared(name string) bool {
	for f := t.top; f != nil; f = f.parent {
		if f.declared[name] {
			return true
		}
	}
	return false
}

// IsHoisted reports whether name was hoisted in the innermost scope that
// declares it.
func (t *Tracker) IsHoisted(name string) bool {
	for f := t.top; f != nil; f = f.parent {
		if f.declared[name] {
			return f.hoisted[name]
		}
	}
	return false
}

// MarkGlobal transfers name to the module-level global set, as happens when
// a `global x` statement is processed (spec §3: "transferred to outer scope
// only when marked is_global").
func (t *Tracker) MarkGlobal(name string) {
	t.global[name] = true
	t.globals = append(t.globals, name)
}

// IsGlobalVar reports whether name has been marked global (spec §4
// "isGlobalVar").
func (t *Tracker) IsGlobalVar(name string) bool {
	return t.global[name]
}

// Rename installs a substitution for name, active until RemoveRename is
// called (spec §5 "Strings inserted into the rename map are copied; their
// lifetime ends when the map entry is removed"). It panics on a double
// insertion for the same name, matching the InternalInconsistency case spec
// §4.4/§7 names explicitly ("rename-map double-insertion").
func (t *Tracker) Rename(name, renamed string) {
	if _, exists := t.renames[name]; exists {
		panic("scope: rename-map double-insertion for " + name)
	}
	t.renames[name] = renamed
}

// RemoveRename deletes a previously installed substitution.
func (t *Tracker) RemoveRename(name string) {
	delete(t.renames, name)
}

// Renamed returns the substitute for name and whether one is active (spec §4
// "var_renames").
func (t *Tracker) Renamed(name string) (string, bool) {
	r, ok := t.renames[name]
	return r, ok
}

// Globals returns the globally-marked names in the order they were marked,
// for deterministic emission (spec §5 "no map iteration order leaks into
// the output").
func (t *Tracker) Globals() []string {
	out := make([]string, len(t.globals))
	copy(out, t.globals)
	return out
}
