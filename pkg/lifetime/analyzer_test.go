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
package lifetime

import (
	"testing"

	"github.com/transpyl/transpyl/pkg/ast"
)

func TestSimpleAssignNotMutated(t *testing.T) {
	mod := &ast.Module{Body: []ast.Stmt{
		&ast.Assign{Targets: []ast.Expr{&ast.Name{Id: "x"}}, Value: &ast.Constant{ConstKind: ast.ConstInt, Int: 1}},
	}}
	a := New()
	a.AnalyzeModule(mod)
	if a.Info("x").IsMutated() {
		t.Fatalf("x should not be mutated")
	}
}

func TestReassignmentIsMutated(t *testing.T) {
	mod := &ast.Module{Body: []ast.Stmt{
		&ast.Assign{Targets: []ast.Expr{&ast.Name{Id: "x"}}, Value: &ast.Constant{ConstKind: ast.ConstInt, Int: 1}},
		&ast.Assign{Targets: []ast.Expr{&ast.Name{Id: "x"}}, Value: &ast.Constant{ConstKind: ast.ConstInt, Int: 2}},
	}}
	a := New()
	a.AnalyzeModule(mod)
	if !a.Info("x").IsMutated() {
		t.Fatalf("x should be mutated after reassignment")
	}
}

func TestAppendMutatesBinding(t *testing.T) {
	mod := &ast.Module{Body: []ast.Stmt{
		&ast.Assign{Targets: []ast.Expr{&ast.Name{Id: "xs"}}, Value: &ast.ListExpr{}},
		&ast.ExprStmt{Value: &ast.Call{
			Func: &ast.Attribute{Value: &ast.Name{Id: "xs"}, Attr: "append"},
			Args: []ast.Expr{&ast.Constant{ConstKind: ast.ConstInt, Int: 1}},
		}},
	}}
	a := New()
	a.AnalyzeModule(mod)
	if !a.Info("xs").IsMutated() {
		t.Fatalf("xs should be mutated via append")
	}
}

func TestSubscriptStoreMutates(t *testing.T) {
	mod := &ast.Module{Body: []ast.Stmt{
		&ast.Assign{Targets: []ast.Expr{&ast.Name{Id: "d"}}, Value: &ast.DictExpr{}},
		&ast.Assign{
			Targets: []ast.Expr{&ast.Subscript{Value: &ast.Name{Id: "d"}, Index: &ast.Constant{ConstKind: ast.ConstString, Str: "a"}}},
			Value:   &ast.Constant{ConstKind: ast.ConstInt, Int: 1},
		},
	}}
	a := New()
	a.AnalyzeModule(mod)
	if !a.Info("d").IsMutated() {
		t.Fatalf("d should be mutated via subscript store")
	}
}

func TestClosureCapture(t *testing.T) {
	// def f(): x = 1; def g(): return x+1; return g
	inner := &ast.FunctionDef{
		Name: "g",
		Body: []ast.Stmt{&ast.Return{Value: &ast.BinOp{
			Op: ast.OpAdd, Left: &ast.Name{Id: "x"}, Right: &ast.Constant{ConstKind: ast.ConstInt, Int: 1},
		}}},
	}
	outer := &ast.FunctionDef{
		Name: "f",
		Body: []ast.Stmt{
			&ast.Assign{Targets: []ast.Expr{&ast.Name{Id: "x"}}, Value: &ast.Constant{ConstKind: ast.ConstInt, Int: 1}},
			inner,
			&ast.Return{Value: &ast.Name{Id: "g"}},
		},
	}
	mod := &ast.Module{Body: []ast.Stmt{outer}}
	a := New()
	a.AnalyzeModule(mod)
	if !a.Info("x").CapturedByClosure {
		t.Fatalf("x should be captured by the nested function g")
	}
}

func TestMutableClassDetection(t *testing.T) {
	cls := &ast.ClassDef{
		Name: "Counter",
		Body: []ast.Stmt{
			&ast.FunctionDef{Name: "__init__", Params: []ast.Param{{Name: "self"}}, Body: []ast.Stmt{
				&ast.Assign{Targets: []ast.Expr{&ast.Attribute{Value: &ast.Name{Id: "self"}, Attr: "n"}}, Value: &ast.Constant{ConstKind: ast.ConstInt, Int: 0}},
			}},
			&ast.FunctionDef{Name: "bump", Params: []ast.Param{{Name: "self"}}, Body: []ast.Stmt{
				&ast.Assign{Targets: []ast.Expr{&ast.Attribute{Value: &ast.Name{Id: "self"}, Attr: "n"}}, Value: &ast.Constant{ConstKind: ast.ConstInt, Int: 1}},
			}},
		},
	}
	mod := &ast.Module{Body: []ast.Stmt{cls}}
	a := New()
	a.AnalyzeModule(mod)
	if !a.IsMutableClass("Counter") {
		t.Fatalf("Counter should be detected as a mutable class")
	}
}
