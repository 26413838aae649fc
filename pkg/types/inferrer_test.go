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
package types

import (
	"testing"

	"github.com/transpyl/transpyl/pkg/ast"
)

func TestInferConstant(t *testing.T) {
	inf := New()
	i := &ast.Constant{ConstKind: ast.ConstInt, Int: 3}
	if got := inf.InferExpr(i); got.Tag != TInt {
		t.Fatalf("got %s, want Int", got)
	}
	s := &ast.Constant{ConstKind: ast.ConstString, Str: "x"}
	if got := inf.InferExpr(s); got.Tag != TString {
		t.Fatalf("got %s, want String", got)
	}
}

func TestInferBinOpStringConcat(t *testing.T) {
	inf := New()
	expr := &ast.BinOp{
		Op:    ast.OpAdd,
		Left:  &ast.Constant{ConstKind: ast.ConstString, Str: "a"},
		Right: &ast.Constant{ConstKind: ast.ConstInt, Int: 1},
	}
	if got := inf.InferExpr(expr); got.Tag != TString {
		t.Fatalf("got %s, want String (either-operand rule)", got)
	}
}

func TestInferBinOpIntDivIsFloat(t *testing.T) {
	inf := New()
	expr := &ast.BinOp{
		Op:    ast.OpDiv,
		Left:  &ast.Constant{ConstKind: ast.ConstInt, Int: 7},
		Right: &ast.Constant{ConstKind: ast.ConstInt, Int: 2},
	}
	if got := inf.InferExpr(expr); got.Tag != TFloat {
		t.Fatalf("got %s, want Float (plain `/` between ints)", got)
	}
}

func TestInferIsIdempotent(t *testing.T) {
	inf := New()
	expr := &ast.BinOp{
		Op:    ast.OpAdd,
		Left:  &ast.Constant{ConstKind: ast.ConstInt, Int: 2},
		Right: &ast.Constant{ConstKind: ast.ConstInt, Int: 3},
	}
	first := inf.InferExpr(expr)
	second := inf.InferExpr(expr)
	if !first.Equal(second) {
		t.Fatalf("inference not idempotent: %s != %s", first, second)
	}
}

func TestInferEmptyListDefaultsToIntList(t *testing.T) {
	inf := New()
	got := inf.InferExpr(&ast.ListExpr{})
	want := List(Int)
	if !got.Equal(want) {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestInferSubscriptAndSlice(t *testing.T) {
	inf := New()
	inf.RecordVarType("xs", List(Int))
	name := &ast.Name{Id: "xs"}
	idx := &ast.Subscript{Value: name, Index: &ast.Constant{ConstKind: ast.ConstInt, Int: 0}}
	if got := inf.InferExpr(idx); got.Tag != TInt {
		t.Fatalf("index got %s, want Int", got)
	}
	sl := &ast.Subscript{Value: name, Slice: &ast.SliceExpr{}}
	if got := inf.InferExpr(sl); !got.Equal(List(Int)) {
		t.Fatalf("slice got %s, want List(Int)", got)
	}
}

func TestInferDictSubscript(t *testing.T) {
	inf := New()
	inf.RecordVarType("d", Dict(String, Int))
	sub := &ast.Subscript{Value: &ast.Name{Id: "d"}, Index: &ast.Constant{ConstKind: ast.ConstString, Str: "a"}}
	if got := inf.InferExpr(sub); got.Tag != TInt {
		t.Fatalf("got %s, want Int", got)
	}
}

func TestInferCallUserFunction(t *testing.T) {
	inf := New()
	inf.RecordFunction("add", []Type{Int, Int}, Int)
	call := &ast.Call{Func: &ast.Name{Id: "add"}, Args: []ast.Expr{
		&ast.Constant{ConstKind: ast.ConstInt, Int: 2},
		&ast.Constant{ConstKind: ast.ConstInt, Int: 3},
	}}
	if got := inf.InferExpr(call); got.Tag != TInt {
		t.Fatalf("got %s, want Int", got)
	}
}

func TestInferClassAttribute(t *testing.T) {
	inf := New()
	inf.RecordClassFields("Point", []string{"x", "y"}, map[string]Type{"x": Int, "y": Int})
	inf.RecordVarType("p", ClassInstance("Point"))
	attr := &ast.Attribute{Value: &ast.Name{Id: "p"}, Attr: "x"}
	if got := inf.InferExpr(attr); got.Tag != TInt {
		t.Fatalf("got %s, want Int", got)
	}
}

func TestAllConstantPrimitive(t *testing.T) {
	elts := []ast.Expr{
		&ast.Constant{ConstKind: ast.ConstInt, Int: 1},
		&ast.Constant{ConstKind: ast.ConstInt, Int: 2},
	}
	ty, ok := AllConstantPrimitive(elts)
	if !ok || ty.Tag != TInt {
		t.Fatalf("expected (Int, true), got (%v, %v)", ty, ok)
	}
	mixed := []ast.Expr{
		&ast.Constant{ConstKind: ast.ConstInt, Int: 1},
		&ast.Constant{ConstKind: ast.ConstString, Str: "x"},
	}
	if _, ok := AllConstantPrimitive(mixed); ok {
		t.Fatalf("expected false for mixed-tag literal")
	}
}
