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
package builtins

import (
	"testing"

	"github.com/transpyl/transpyl/pkg/types"
)

func TestLenDispatchesOnReceiverType(t *testing.T) {
	table := NewDefaultTable()
	entry, ok := table.ResolveFunction("len")
	if !ok {
		t.Fatalf("len not registered")
	}
	code, ret := entry.Generate(CallCtx{Receiver: &Arg{Code: "xs", Type: types.Array(types.Int, 4)}})
	if code != "xs.len" || !ret.Equal(types.Int) {
		t.Fatalf("got (%q, %v)", code, ret)
	}

	code, _ = entry.Generate(CallCtx{Receiver: &Arg{Code: "xs", Type: types.List(types.Int)}})
	if code != "xs.items.len" {
		t.Fatalf("got %q, want xs.items.len", code)
	}

	code, _ = entry.Generate(CallCtx{Receiver: &Arg{Code: "d", Type: types.Dict(types.String, types.Int)}})
	if code != "d.len()" {
		t.Fatalf("got %q, want d.len()", code)
	}
}

func TestAppendIsInlineSequenceMutator(t *testing.T) {
	table := NewDefaultTable()
	entry, ok := table.ResolveMethod("append")
	if !ok || entry.Kind != Inline {
		t.Fatalf("append should be a registered inline entry")
	}
	code, ret := entry.Generate(CallCtx{
		Receiver: &Arg{Code: "xs", Type: types.List(types.Int)},
		Args:     []Arg{{Code: "3", Type: types.Int}},
	})
	if code != "xs.append(3)" || !ret.Equal(types.None) {
		t.Fatalf("got (%q, %v)", code, ret)
	}
}

func TestStripAllocatesViaRuntimeCall(t *testing.T) {
	table := NewDefaultTable()
	entry, ok := table.ResolveMethod("strip")
	if !ok || entry.Kind != RuntimeCall {
		t.Fatalf("strip should be a registered runtime-call entry")
	}
	code, ret := entry.Generate(CallCtx{Receiver: &Arg{Code: "s", Type: types.String}})
	if code != "rt_str_strip(s)" || !ret.Equal(types.String) {
		t.Fatalf("got (%q, %v)", code, ret)
	}
}

func TestStartswithDoesNotAllocate(t *testing.T) {
	table := NewDefaultTable()
	entry, _ := table.ResolveMethod("startswith")
	code, _ := entry.Generate(CallCtx{
		Receiver: &Arg{Code: "s", Type: types.String},
		Args:     []Arg{{Code: `"x"`, Type: types.String}},
	})
	if code != `rt_str_startswith(s, "x")` {
		t.Fatalf("got %q", code)
	}
}

func TestModuleDispatchMathSqrt(t *testing.T) {
	table := NewDefaultTable()
	entry, ok := table.ResolveModule("math", "sqrt")
	if !ok {
		t.Fatalf("math.sqrt not registered")
	}
	code, ret := entry.Generate(CallCtx{Args: []Arg{{Code: "x", Type: types.Float}}})
	if code != "rt_math_sqrt(x)" || !ret.Equal(types.Float) {
		t.Fatalf("got (%q, %v)", code, ret)
	}
}

func TestModuleDispatchUnregisteredIsAbsent(t *testing.T) {
	table := NewDefaultTable()
	if _, ok := table.ResolveModule("random", "randint"); ok {
		t.Fatalf("random.randint should not be registered")
	}
}

func TestOsGetcwdStub(t *testing.T) {
	table := NewDefaultTable()
	entry, ok := table.ResolveModule("os", "getcwd")
	if !ok {
		t.Fatalf("os.getcwd not registered")
	}
	code, ret := entry.Generate(CallCtx{})
	if code != `"."` || !ret.Equal(types.String) {
		t.Fatalf("got (%q, %v)", code, ret)
	}
}
