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
package comptime

import (
	"testing"

	"github.com/transpyl/transpyl/pkg/ast"
)

func constInt(v int64) *ast.Constant { return &ast.Constant{ConstKind: ast.ConstInt, Int: v} }

func TestEvalSeedS1(t *testing.T) {
	// x = 2 + 3 * 4  =>  14
	expr := &ast.BinOp{
		Op:   ast.OpAdd,
		Left: constInt(2),
		Right: &ast.BinOp{
			Op: ast.OpMul, Left: constInt(3), Right: constInt(4),
		},
	}
	v, ok := Eval(expr)
	if !ok || v.Tag != VInt || v.Int != 14 {
		t.Fatalf("got (%v, %v), want (14, true)", v, ok)
	}
	if !v.IsEmittable() {
		t.Fatalf("int constant should be emittable")
	}
}

func TestEvalDivisionByZeroYieldsNone(t *testing.T) {
	expr := &ast.BinOp{Op: ast.OpFloorDiv, Left: constInt(10), Right: constInt(0)}
	_, ok := Eval(expr)
	if ok {
		t.Fatalf("division by zero should not fold")
	}
}

func TestEvalFloorDivNegative(t *testing.T) {
	expr := &ast.BinOp{Op: ast.OpFloorDiv, Left: constInt(-7), Right: constInt(2)}
	v, ok := Eval(expr)
	if !ok || v.Int != -4 {
		t.Fatalf("got (%v, %v), want (-4, true)", v, ok)
	}
}

func TestEvalChainedComparison(t *testing.T) {
	// 1 < 2 < 3 => true
	expr := &ast.Compare{
		Left:        constInt(1),
		Ops:         []ast.CmpOp{ast.CmpLt, ast.CmpLt},
		Comparators: []ast.Expr{constInt(2), constInt(3)},
	}
	v, ok := Eval(expr)
	if !ok || v.Tag != VBool || !v.Bool {
		t.Fatalf("got (%v, %v), want (true, true)", v, ok)
	}
}

func TestEvalStringConcatNotEmittable(t *testing.T) {
	expr := &ast.BinOp{
		Op:    ast.OpAdd,
		Left:  &ast.Constant{ConstKind: ast.ConstString, Str: "a"},
		Right: &ast.Constant{ConstKind: ast.ConstString, Str: "b"},
	}
	v, ok := Eval(expr)
	if !ok || v.Str != "ab" {
		t.Fatalf("got (%v, %v), want (ab, true)", v, ok)
	}
	if v.IsEmittable() {
		t.Fatalf("string result must never be treated as an emittable constant")
	}
}

func TestEvalBoolOpShortCircuit(t *testing.T) {
	expr := &ast.BoolOpExpr{Op: ast.BoolOr, Values: []ast.Expr{
		&ast.Constant{ConstKind: ast.ConstBool, Bool: true},
		constInt(1), // folded too, but does not change the result of `or`
	}}
	v, ok := Eval(expr)
	if !ok || v.Tag != VBool || !v.Bool {
		t.Fatalf("got (%v, %v), want (true, true)", v, ok)
	}
}
