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
package imports

import "testing"

func TestLookupRuntimeModule(t *testing.T) {
	r := New(map[string]string{"math": "std.math"}, nil)
	info, ok := r.Lookup("math")
	if !ok || info.TargetModule != "std.math" {
		t.Fatalf("got (%v, %v)", info, ok)
	}
}

func TestLookupInlineModule(t *testing.T) {
	r := New(nil, map[string]bool{"os": true})
	info, ok := r.Lookup("os")
	if !ok || !info.Inline {
		t.Fatalf("got (%v, %v)", info, ok)
	}
}

func TestUnregisteredModuleIsSkipped(t *testing.T) {
	r := New(map[string]string{"math": "std.math"}, nil)
	if !r.IsSkipped("numpy") {
		t.Fatalf("numpy should be skipped")
	}
	if r.IsSkipped("math") {
		t.Fatalf("math should not be skipped")
	}
}

func TestLocalFromImports(t *testing.T) {
	r := New(nil, nil)
	r.RecordSkipped("numpy")
	r.BindLocalImport("array", "numpy")
	module, ok := r.OwningSkippedModule("array")
	if !ok || module != "numpy" {
		t.Fatalf("got (%q, %v), want (numpy, true)", module, ok)
	}
}
