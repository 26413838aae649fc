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
package translate

// DefaultReservedKeywords is the target language's reserved-word set (spec
// §6 "reserved_keywords"). Any source identifier colliding with one of
// these is escaped by C5 as `@"..."`.
func DefaultReservedKeywords() map[string]bool {
	words := []string{
		"const", "var", "fn", "pub", "return", "if", "else", "while", "for",
		"switch", "struct", "enum", "union", "error", "try", "catch",
		"defer", "errdefer", "break", "continue", "null", "undefined",
		"true", "false", "comptime", "inline", "export", "extern",
		"packed", "align", "allowzero", "volatile", "linksection",
		"threadlocal", "anytype", "anyframe", "async", "await", "suspend",
		"resume", "nosuspend", "test", "usingnamespace", "orelse", "and",
		"or", "unreachable", "type", "void", "noreturn", "bool", "i64",
		"u64", "f64", "usize", "isize",
	}
	out := make(map[string]bool, len(words))
	for _, w := range words {
		out[w] = true
	}
	return out
}

// DefaultRuntimeModuleNames maps the handful of source standard-library
// modules spec §4.7 names to a runtime-module counterpart (spec §6
// "runtime_module_names").
func DefaultRuntimeModuleNames() map[string]string {
	return map[string]string{
		"math": "rt_math",
	}
}

// DefaultInlineModuleNames names source modules lowered entirely by C8's
// inline code generators rather than through a runtime-module import (spec
// §6 "inline_module_names").
func DefaultInlineModuleNames() map[string]bool {
	return map[string]bool{
		"os": true,
	}
}
