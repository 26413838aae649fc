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
package scope

import "testing"

func TestDeclareAndLookup(t *testing.T) {
	s := New()
	s.Declare("x")
	if !s.IsDeclared("x") {
		t.Fatalf("x should be declared")
	}
	if s.IsDeclared("y") {
		t.Fatalf("y should not be declared")
	}
}

func TestNestedScopeFallsThrough(t *testing.T) {
	s := New()
	s.Declare("outer")
	s.PushFunctionScope()
	if !s.IsDeclared("outer") {
		t.Fatalf("outer should be visible from the nested scope")
	}
	if s.IsDeclaredLocally("outer") {
		t.Fatalf("outer should not be local to the nested scope")
	}
	s.Declare("inner")
	s.PopScope()
	if s.IsDeclared("inner") {
		t.Fatalf("inner should not leak into the outer scope")
	}
}

func TestHoisting(t *testing.T) {
	s := New()
	s.Hoist("y")
	if !s.IsDeclared("y") || !s.IsHoisted("y") {
		t.Fatalf("y should be declared and hoisted")
	}
}

func TestGlobalMarking(t *testing.T) {
	s := New()
	s.MarkGlobal("counter")
	if !s.IsGlobalVar("counter") {
		t.Fatalf("counter should be marked global")
	}
	if got := s.Globals(); len(got) != 1 || got[0] != "counter" {
		t.Fatalf("got %v, want [counter]", got)
	}
}

func TestRenameMapLifecycle(t *testing.T) {
	s := New()
	s.Rename("x", "(*x)")
	got, ok := s.Renamed("x")
	if !ok || got != "(*x)" {
		t.Fatalf("got (%q, %v), want ((*x), true)", got, ok)
	}
	s.RemoveRename("x")
	if _, ok := s.Renamed("x"); ok {
		t.Fatalf("rename should have been removed")
	}
}

func TestRenameDoubleInsertPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic on double rename insertion")
		}
	}()
	s := New()
	s.Rename("x", "a")
	s.Rename("x", "b")
}
