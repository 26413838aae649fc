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

// Package imports implements the import registry (C9, spec §4.8): resolving
// source module imports to target modules or inline-codegen dispatches, and
// marking modules absent from the registry as "skipped" so references to
// them can be dropped rather than failing the whole translation.
//
// Grounded on the teacher's pkg/corset/compiler/externs.go, which resolves
// `extern` column declarations against a caller-supplied table and treats
// anything outside that table as absent rather than an error; here the same
// "absent means silently skip, not reject" policy governs source-module
// imports instead of extern columns.
package imports

// ImportInfo carries the resolution for one registered module (spec §6
// "ImportInfo carries either (1) a target module path ... or (2) a None
// target path to signal inline-codegen").
type ImportInfo struct {
	// TargetModule is the target-language module path to import, set
	// when this source module has a runtime counterpart.
	TargetModule string
	// Inline is true when the module has no runtime counterpart and
	// must instead be lowered by C8's inline code generators.
	Inline bool
}

// Registry is C9.
type Registry struct {
	runtime map[string]string
	inline  map[string]bool
	// localFromImports records names imported (via `from module import
	// name`) from a module with no target-side runtime module, so C8 can
	// resolve bare references to them correctly (spec §4.6.9).
	localFromImports map[string]string // imported name -> owning module
	// skipped accumulates the set of modules this registry has reported
	// as absent, for diagnostics (spec §4.9 "warns and continues").
	skipped map[string]bool
}

// New constructs a Registry. runtimeModules maps a source module name to
// its target module path (spec §6 "runtime_module_names"); inlineModules is
// the set of module names mapped to inline codegen (spec §6
// "inline_module_names").
func New(runtimeModules map[string]string, inlineModules map[string]bool) *Registry {
	return &Registry{
		runtime:          runtimeModules,
		inline:           inlineModules,
		localFromImports: make(map[string]string),
		skipped:          make(map[string]bool),
	}
}

// Lookup resolves a module name (spec §4.8 "lookup(name) -> Option<ImportInfo>").
func (r *Registry) Lookup(name string) (ImportInfo, bool) {
	if target, ok := r.runtime[name]; ok {
		return ImportInfo{TargetModule: target}, true
	}
	if r.inline[name] {
		return ImportInfo{Inline: true}, true
	}
	return ImportInfo{}, false
}

// IsSkipped reports whether name is absent from this registry, i.e. a
// "skipped module" (spec §4.9, glossary "Skipped module").
func (r *Registry) IsSkipped(name string) bool {
	_, ok := r.Lookup(name)
	return !ok
}

// RecordSkipped remembers that module was referenced and found absent, for
// later diagnostic reporting.
func (r *Registry) RecordSkipped(module string) {
	r.skipped[module] = true
}

// SkippedModules returns every module name recorded as skipped so far, in
// the order first recorded is not guaranteed (callers needing determinism
// should sort).
func (r *Registry) SkippedModules() []string {
	out := make([]string, 0, len(r.skipped))
	for m := range r.skipped {
		out = append(out, m)
	}
	return out
}

// BindLocalImport records that `name` was imported via `from module import
// name` where module is absent from the registry, so later references to
// the bare name can still be attributed to their owning (skipped) module
// (spec §4.6.9 "local-from-imports map").
func (r *Registry) BindLocalImport(name, module string) {
	r.localFromImports[name] = module
}

// OwningSkippedModule returns the module a bare name was imported from, if
// that module is a skipped one.
func (r *Registry) OwningSkippedModule(name string) (string, bool) {
	module, ok := r.localFromImports[name]
	return module, ok
}
