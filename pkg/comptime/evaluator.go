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

import "github.com/transpyl/transpyl/pkg/ast"

// Eval attempts to fold expr into a Value, returning ok=false whenever expr
// is not a closed form over literal constants and pure arithmetic /
// comparison / boolean / unary operators (spec §4.3).
func Eval(expr ast.Expr) (Value, bool) {
	switch e := expr.(type) {
	case *ast.Constant:
		return evalConstant(e)
	case *ast.UnaryOp:
		return evalUnary(e)
	case *ast.BinOp:
		return evalBinOp(e)
	case *ast.Compare:
		return evalCompare(e)
	case *ast.BoolOpExpr:
		return evalBoolOp(e)
	case *ast.IfExprExpr:
		cond, ok := Eval(e.Test)
		if !ok {
			return Value{}, false
		}
		if cond.Truthy() {
			return Eval(e.Body)
		}
		return Eval(e.OrElse)
	default:
		return Value{}, false
	}
}

func evalConstant(c *ast.Constant) (Value, bool) {
	switch c.ConstKind {
	case ast.ConstInt:
		return IntVal(c.Int), true
	case ast.ConstFloat:
		return FloatVal(c.Float), true
	case ast.ConstBool:
		return BoolVal(c.Bool), true
	case ast.ConstString:
		// Strings fold at the evaluator level (spec §4.3) but are not
		// emitted as constants (spec §3); callers check IsEmittable.
		return StringVal(c.Str), true
	default:
		return Value{}, false
	}
}

func evalUnary(u *ast.UnaryOp) (Value, bool) {
	v, ok := Eval(u.Operand)
	if !ok {
		return Value{}, false
	}
	switch u.Op {
	case ast.OpUSub:
		switch v.Tag {
		case VInt:
			return IntVal(-v.Int), true
		case VFloat:
			return FloatVal(-v.Float), true
		}
	case ast.OpUAdd:
		if v.Tag == VInt || v.Tag == VFloat {
			return v, true
		}
	case ast.OpNot:
		return BoolVal(!v.Truthy()), true
	case ast.OpInvert:
		if v.Tag == VInt {
			return IntVal(^v.Int), true
		}
	}
	return Value{}, false
}

func evalBinOp(b *ast.BinOp) (Value, bool) {
	l, ok := Eval(b.Left)
	if !ok {
		return Value{}, false
	}
	r, ok := Eval(b.Right)
	if !ok {
		return Value{}, false
	}
	if b.Op == ast.OpAdd && l.Tag == VString && r.Tag == VString {
		// Supported at the evaluator level, never emitted as a
		// constant (spec §4.3): the caller must fall through to the
		// runtime concat path regardless of this returning ok=true.
		return StringVal(l.Str + r.Str), true
	}
	if l.Tag == VList || r.Tag == VList {
		return Value{}, false
	}
	if l.Tag == VInt && r.Tag == VInt {
		return evalIntBinOp(b.Op, l.Int, r.Int)
	}
	lf, lok := asFloat(l)
	rf, rok := asFloat(r)
	if !lok || !rok {
		return Value{}, false
	}
	return evalFloatBinOp(b.Op, lf, rf)
}

func asFloat(v Value) (float64, bool) {
	switch v.Tag {
	case VInt:
		return float64(v.Int), true
	case VFloat:
		return v.Float, true
	default:
		return 0, false
	}
}

func evalIntBinOp(op ast.Operator, l, r int64) (Value, bool) {
	switch op {
	case ast.OpAdd:
		return IntVal(l + r), true
	case ast.OpSub:
		return IntVal(l - r), true
	case ast.OpMul:
		return IntVal(l * r), true
	case ast.OpFloorDiv:
		if r == 0 {
			return Value{}, false // division by zero yields None (spec §4.3)
		}
		return IntVal(floorDivInt(l, r)), true
	case ast.OpDiv:
		if r == 0 {
			return Value{}, false
		}
		// plain `/` between ints produces a float (source semantics).
		return FloatVal(float64(l) / float64(r)), true
	case ast.OpMod:
		if r == 0 {
			return Value{}, false
		}
		return IntVal(floorModInt(l, r)), true
	case ast.OpPow:
		return IntVal(intPow(l, r)), true
	case ast.OpBitAnd:
		return IntVal(l & r), true
	case ast.OpBitOr:
		return IntVal(l | r), true
	case ast.OpBitXor:
		return IntVal(l ^ r), true
	case ast.OpLShift:
		return IntVal(l << uint(r)), true
	case ast.OpRShift:
		return IntVal(l >> uint(r)), true
	default:
		return Value{}, false
	}
}

func evalFloatBinOp(op ast.Operator, l, r float64) (Value, bool) {
	switch op {
	case ast.OpAdd:
		return FloatVal(l + r), true
	case ast.OpSub:
		return FloatVal(l - r), true
	case ast.OpMul:
		return FloatVal(l * r), true
	case ast.OpDiv:
		if r == 0 {
			return Value{}, false
		}
		return FloatVal(l / r), true
	case ast.OpFloorDiv:
		if r == 0 {
			return Value{}, false
		}
		return FloatVal(floorDivFloat(l, r)), true
	default:
		return Value{}, false
	}
}

func floorDivInt(l, r int64) int64 {
	q := l / r
	if (l%r != 0) && ((l < 0) != (r < 0)) {
		q--
	}
	return q
}

func floorModInt(l, r int64) int64 {
	m := l % r
	if m != 0 && ((l < 0) != (r < 0)) {
		m += r
	}
	return m
}

func floorDivFloat(l, r float64) float64 {
	q := l / r
	return floorFloat(q)
}

func floorFloat(f float64) float64 {
	i := int64(f)
	if f < 0 && float64(i) != f {
		i--
	}
	return float64(i)
}

func intPow(base, exp int64) int64 {
	if exp < 0 {
		return 0
	}
	result := int64(1)
	for i := int64(0); i < exp; i++ {
		result *= base
	}
	return result
}

func evalCompare(c *ast.Compare) (Value, bool) {
	left, ok := Eval(c.Left)
	if !ok {
		return Value{}, false
	}
	prev := left
	for i, op := range c.Ops {
		right, ok := Eval(c.Comparators[i])
		if !ok {
			return Value{}, false
		}
		res, ok := compareOne(op, prev, right)
		if !ok {
			return Value{}, false
		}
		if !res {
			return BoolVal(false), true
		}
		prev = right
	}
	return BoolVal(true), true
}

func compareOne(op ast.CmpOp, l, r Value) (bool, bool) {
	switch op {
	case ast.CmpEq:
		return valuesEqual(l, r), true
	case ast.CmpNotEq:
		return !valuesEqual(l, r), true
	}
	lf, lok := asFloat(l)
	rf, rok := asFloat(r)
	if !lok || !rok {
		if l.Tag == VString && r.Tag == VString {
			switch op {
			case ast.CmpLt:
				return l.Str < r.Str, true
			case ast.CmpLtE:
				return l.Str <= r.Str, true
			case ast.CmpGt:
				return l.Str > r.Str, true
			case ast.CmpGtE:
				return l.Str >= r.Str, true
			}
		}
		return false, false
	}
	switch op {
	case ast.CmpLt:
		return lf < rf, true
	case ast.CmpLtE:
		return lf <= rf, true
	case ast.CmpGt:
		return lf > rf, true
	case ast.CmpGtE:
		return lf >= rf, true
	default:
		return false, false
	}
}

func valuesEqual(l, r Value) bool {
	if l.Tag != r.Tag {
		lf, lok := asFloat(l)
		rf, rok := asFloat(r)
		return lok && rok && lf == rf
	}
	switch l.Tag {
	case VInt:
		return l.Int == r.Int
	case VFloat:
		return l.Float == r.Float
	case VBool:
		return l.Bool == r.Bool
	case VString:
		return l.Str == r.Str
	default:
		return false
	}
}

func evalBoolOp(b *ast.BoolOpExpr) (Value, bool) {
	if len(b.Values) == 0 {
		return Value{}, false
	}
	result, ok := Eval(b.Values[0])
	if !ok {
		return Value{}, false
	}
	for _, v := range b.Values[1:] {
		next, ok := Eval(v)
		if !ok {
			return Value{}, false
		}
		switch b.Op {
		case ast.BoolAnd:
			if !result.Truthy() {
				return result, true
			}
			result = next
		case ast.BoolOr:
			if result.Truthy() {
				return result, true
			}
			result = next
		}
	}
	return result, true
}
