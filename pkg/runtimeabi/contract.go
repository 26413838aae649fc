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

// Package runtimeabi describes the external runtime-support library's
// promised symbols (spec §6 Collaborator contracts: "Runtime library"). The
// runtime library itself — container types, reference counting primitives,
// formatters — is out of scope (spec §1); this package only records the
// surface this translator's emitter is allowed to assume exists, so the
// emitter and its tests have one place to check a symbol name against
// instead of hard-coding string literals throughout.
package runtimeabi

// SequenceMethods names the dynamic-sequence ("arraylist") methods the
// runtime contract promises (spec §6: "sequence type with append, items,
// deinit, len, sort").
var SequenceMethods = []string{"append", "items", "deinit", "len", "sort"}

// DictMethods names the dictionary methods the runtime contract promises
// (spec §6: "dictionary type with get, put, deinit, iterator").
var DictMethods = []string{"get", "put", "deinit", "iterator"}

// ValueMethods names the reference-counted generic Value methods the
// runtime contract promises (spec §6: "incref, decref, len, hash, format").
var ValueMethods = []string{"incref", "decref", "len", "hash", "format"}

// StringMethodInfo records whether a given source string method allocates a
// newly-owned buffer in the modelled runtime contract, resolving spec §9
// Open Question (b) per SPEC_FULL.md §C.2: "if a method returns a
// newly-owned buffer, the emitter must release it."
type StringMethodInfo struct {
	// RuntimeSymbol is the call emitted into the runtime library.
	RuntimeSymbol string
	// AllocatesNewBuffer is true when the method returns ownership of a
	// freshly allocated buffer that the emitter must release at scope
	// exit (spec §4.6.1 step 9).
	AllocatesNewBuffer bool
}

// StringMethods is the fixed table consulted by the emitter for the
// allocating-string-method open question (spec §9 Open Question b). `strip`
// and its siblings are modelled as allocating, settling the open ambiguity
// in favor of "release by default, never leak" (SPEC_FULL.md §C.2).
var StringMethods = map[string]StringMethodInfo{
	"strip":      {RuntimeSymbol: "rt_str_strip", AllocatesNewBuffer: true},
	"lstrip":     {RuntimeSymbol: "rt_str_lstrip", AllocatesNewBuffer: true},
	"rstrip":     {RuntimeSymbol: "rt_str_rstrip", AllocatesNewBuffer: true},
	"upper":      {RuntimeSymbol: "rt_str_upper", AllocatesNewBuffer: true},
	"lower":      {RuntimeSymbol: "rt_str_lower", AllocatesNewBuffer: true},
	"replace":    {RuntimeSymbol: "rt_str_replace", AllocatesNewBuffer: true},
	"join":       {RuntimeSymbol: "rt_str_join", AllocatesNewBuffer: true},
	"split":      {RuntimeSymbol: "rt_str_split", AllocatesNewBuffer: true},
	"format":     {RuntimeSymbol: "rt_str_format", AllocatesNewBuffer: true},
	"startswith": {RuntimeSymbol: "rt_str_startswith", AllocatesNewBuffer: false},
	"endswith":   {RuntimeSymbol: "rt_str_endswith", AllocatesNewBuffer: false},
	"find":       {RuntimeSymbol: "rt_str_find", AllocatesNewBuffer: false},
	"count":      {RuntimeSymbol: "rt_str_count", AllocatesNewBuffer: false},
}

// DictValueNeedsRelease resolves spec §9 Open Question (c): per-value
// release is emitted for a Dict only when the value type is one the runtime
// contract widens to a heap-owned value (a plain string or an `Unknown`
// tagged value); numeric and boolean values are stored inline and need no
// per-value release.
func DictValueNeedsRelease(valueIsStringLike bool) bool {
	return valueIsStringLike
}

// AsyncScheduler names the worker-pool scheduler symbol the runtime
// contract provides for async/await lowering (spec §9 "Coroutines/async",
// SPEC_FULL.md §C.4).
const AsyncScheduler = "rt_scheduler"
