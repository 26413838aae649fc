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
package emitter

import (
	"strings"
	"testing"

	"github.com/transpyl/transpyl/pkg/ast"
)

func newTestEmitter() *Emitter {
	return New(nil, nil, nil)
}

func mustContain(t *testing.T, out []byte, substr string) {
	t.Helper()
	if !strings.Contains(string(out), substr) {
		t.Fatalf("expected output to contain %q, got:\n%s", substr, out)
	}
}

// S1: a constant-folded binary expression binds to a typed constant.
func TestSeedConstantFolding(t *testing.T) {
	mod := &ast.Module{Body: []ast.Stmt{
		&ast.Assign{
			Targets: []ast.Expr{&ast.Name{Id: "x"}},
			Value: &ast.BinOp{
				Op:    ast.OpAdd,
				Left:  &ast.Constant{ConstKind: ast.ConstInt, Int: 1},
				Right: &ast.Constant{ConstKind: ast.ConstInt, Int: 2},
			},
		},
		&ast.ExprStmt{Value: &ast.Call{
			Func: &ast.Name{Id: "print"},
			Args: []ast.Expr{&ast.Name{Id: "x"}},
		}},
	}}
	e := newTestEmitter()
	out, diags := e.Translate(mod)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	mustContain(t, out, "const x: i64 = 3;")
}

// S2: a pure function is declared and then called.
func TestSeedPureFunctionAndCall(t *testing.T) {
	add := &ast.FunctionDef{
		Name: "add",
		Params: []ast.Param{
			{Name: "a", Ann: &ast.TypeExpr{Name: "int"}},
			{Name: "b", Ann: &ast.TypeExpr{Name: "int"}},
		},
		Returns: &ast.TypeExpr{Name: "int"},
		Body: []ast.Stmt{
			&ast.Return{Value: &ast.BinOp{Op: ast.OpAdd, Left: &ast.Name{Id: "a"}, Right: &ast.Name{Id: "b"}}},
		},
	}
	mod := &ast.Module{Body: []ast.Stmt{
		add,
		&ast.Assign{
			Targets: []ast.Expr{&ast.Name{Id: "total"}},
			Value: &ast.Call{
				Func: &ast.Name{Id: "add"},
				Args: []ast.Expr{&ast.Constant{ConstKind: ast.ConstInt, Int: 1}, &ast.Constant{ConstKind: ast.ConstInt, Int: 2}},
			},
		},
	}}
	e := newTestEmitter()
	out, _ := e.Translate(mod)
	mustContain(t, out, "fn add(a: i64, b: i64) i64 {")
	mustContain(t, out, "return (a + b);")
	mustContain(t, out, "add(1, 2)")
}

// S3: an arraylist literal is built (empty-constructor + per-element
// append), printed, and released at scope exit.
func TestSeedArraylistAppendPrintRelease(t *testing.T) {
	mod := &ast.Module{Body: []ast.Stmt{
		&ast.Assign{
			Targets: []ast.Expr{&ast.Name{Id: "xs"}},
			Value:   &ast.ListExpr{Elts: []ast.Expr{&ast.Constant{ConstKind: ast.ConstInt, Int: 1}}},
		},
		&ast.ExprStmt{Value: &ast.Call{
			Func: &ast.Name{Id: "print"},
			Args: []ast.Expr{&ast.Name{Id: "xs"}},
		}},
	}}
	e := newTestEmitter()
	out, _ := e.Translate(mod)
	mustContain(t, out, "rt_list(i64).init(alloc)")
	mustContain(t, out, "xs.append(1) catch unreachable;")
	mustContain(t, out, "xs.deinit();")
}

// S4: a dict subscript-store dispatches to .put.
func TestSeedDictSubscriptStore(t *testing.T) {
	mod := &ast.Module{Body: []ast.Stmt{
		&ast.Assign{Targets: []ast.Expr{&ast.Name{Id: "d"}}, Value: &ast.DictExpr{}},
		&ast.Assign{
			Targets: []ast.Expr{&ast.Subscript{Value: &ast.Name{Id: "d"}, Index: &ast.Constant{ConstKind: ast.ConstString, Str: "a"}}},
			Value:   &ast.Constant{ConstKind: ast.ConstInt, Int: 1},
		},
	}}
	e := newTestEmitter()
	out, _ := e.Translate(mod)
	mustContain(t, out, `d.put("a", 1) catch unreachable;`)
	mustContain(t, out, "d.deinit();")
}

// S5: try/except hoists the first-assigned try-body name, threads it by
// pointer into the helper, and maps ZeroDivisionError to DivByZero.
func TestSeedTryExceptHoistingAndExceptionMapping(t *testing.T) {
	zde := "ZeroDivisionError"
	tryStmt := &ast.Try{
		Body: []ast.Stmt{
			&ast.Assign{
				Targets: []ast.Expr{&ast.Name{Id: "result"}},
				Value:   &ast.BinOp{Op: ast.OpDiv, Left: &ast.Constant{ConstKind: ast.ConstInt, Int: 1}, Right: &ast.Name{Id: "n"}},
			},
		},
		Handlers: []ast.ExceptHandler{
			{Type: &zde, Body: []ast.Stmt{
				&ast.Assign{Targets: []ast.Expr{&ast.Name{Id: "result"}}, Value: &ast.Constant{ConstKind: ast.ConstInt, Int: 0}},
			}},
		},
	}
	mod := &ast.Module{Body: []ast.Stmt{
		&ast.Assign{Targets: []ast.Expr{&ast.Name{Id: "n"}}, Value: &ast.Constant{ConstKind: ast.ConstInt, Int: 2}},
		tryStmt,
	}}
	e := newTestEmitter()
	out, _ := e.Translate(mod)
	mustContain(t, out, "var result")
	mustContain(t, out, "error.DivByZero")
	mustContain(t, out, "fn invoke(")
}

// S6: a lambda capturing an outer name is lowered to a closure struct that
// round-trips the capture through a field.
func TestSeedClosureCaptureRoundTrip(t *testing.T) {
	outerFn := &ast.FunctionDef{
		Name: "make_adder",
		Params: []ast.Param{
			{Name: "n", Ann: &ast.TypeExpr{Name: "int"}},
		},
		Body: []ast.Stmt{
			&ast.Return{Value: &ast.LambdaExpr{
				Params: []ast.Param{{Name: "x"}},
				Body:   &ast.BinOp{Op: ast.OpAdd, Left: &ast.Name{Id: "x"}, Right: &ast.Name{Id: "n"}},
			}},
		},
	}
	mod := &ast.Module{Body: []ast.Stmt{outerFn}}
	e := newTestEmitter()
	out, _ := e.Translate(mod)
	mustContain(t, out, "const __closure_0 = struct {")
	mustContain(t, out, "n: @TypeOf(n),")
	mustContain(t, out, "pub fn invoke(self: @This()")
}
