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
	"github.com/transpyl/transpyl/pkg/ast"
)

// FuncSig records a function's parameter types and return type, as recorded
// by RecordFunction before the statement walk visits its callers (spec
// §4.1 "record_function").
type FuncSig struct {
	Params []Type
	Return Type
}

// ClassInfo records a class's field layout, in declaration order (spec §3
// "Class layout").
type ClassInfo struct {
	FieldOrder []string
	Fields     map[string]Type
}

// builtinSig is a fixed-table entry consulted for calls to known built-ins
// (spec §4.1 "call of a known builtin consults a fixed table"). The table
// itself is owned by pkg/builtins (C8); this is the minimal return-type
// projection C1 needs and is filled in by Inferrer.SetBuiltinReturnType so
// pkg/types has no import-time dependency on pkg/builtins.
type builtinSig struct {
	Return Type
}

// Inferrer implements C1: it assigns a Type to every expression node,
// memoizing per node so repeated inference is idempotent (spec invariant:
// "the inferrer is idempotent on a fixed AST").
type Inferrer struct {
	memo      map[ast.Expr]Type
	functions map[string]FuncSig
	classes   map[string]ClassInfo
	builtins  map[string]builtinSig
	// scopes is a stack of var-type environments; the innermost (last)
	// entry is consulted first on a Name lookup, falling through to
	// enclosing scopes, matching the source language's lexical scoping.
	scopes []map[string]Type
}

// New constructs an Inferrer with a single (module-level) scope pushed.
func New() *Inferrer {
	return &Inferrer{
		memo:      make(map[ast.Expr]Type),
		functions: make(map[string]FuncSig),
		classes:   make(map[string]ClassInfo),
		builtins:  make(map[string]builtinSig),
		scopes:    []map[string]Type{make(map[string]Type)},
	}
}

// PushScope opens a new nested lexical scope (function body, comprehension).
func (inf *Inferrer) PushScope() {
	inf.scopes = append(inf.scopes, make(map[string]Type))
}

// PopScope closes the innermost scope.
func (inf *Inferrer) PopScope() {
	if len(inf.scopes) == 1 {
		panic("types: cannot pop the module scope")
	}
	inf.scopes = inf.scopes[:len(inf.scopes)-1]
}

// RecordFunction updates the function signature table (spec §4.1).
func (inf *Inferrer) RecordFunction(name string, params []Type, ret Type) {
	inf.functions[name] = FuncSig{Params: params, Return: ret}
}

// FunctionSig looks up a previously recorded function signature.
func (inf *Inferrer) FunctionSig(name string) (FuncSig, bool) {
	sig, ok := inf.functions[name]
	return sig, ok
}

// RecordClassFields updates the class field-layout table (spec §4.1),
// preserving the field order supplied (which must already be constructor
// statement order per spec §3's class-layout invariant).
func (inf *Inferrer) RecordClassFields(name string, order []string, fields map[string]Type) {
	inf.classes[name] = ClassInfo{FieldOrder: order, Fields: fields}
}

// ClassFields looks up a previously recorded class layout.
func (inf *Inferrer) ClassFields(name string) (ClassInfo, bool) {
	info, ok := inf.classes[name]
	return info, ok
}

// SetBuiltinReturnType registers the return type a given built-in call
// yields, consulted by infer_expr on Call per spec §4.1.
func (inf *Inferrer) SetBuiltinReturnType(name string, ret Type) {
	inf.builtins[name] = builtinSig{Return: ret}
}

// RecordVarType records the inferred type of a name in the innermost scope,
// called by the statement emitter on every first assignment (spec §4.1
// "record_var_type").
func (inf *Inferrer) RecordVarType(name string, t Type) {
	inf.scopes[len(inf.scopes)-1][name] = t
}

// VarType looks up the nearest enclosing declared type for a name, falling
// back to Unknown if never recorded.
func (inf *Inferrer) VarType(name string) Type {
	for i := len(inf.scopes) - 1; i >= 0; i-- {
		if t, ok := inf.scopes[i][name]; ok {
			return t
		}
	}
	return Unknown
}

// InferExpr assigns exactly one Type to node, memoizing the result (spec
// §3 invariant: "every expression node yields exactly one Type").
func (inf *Inferrer) InferExpr(node ast.Expr) Type {
	if t, ok := inf.memo[node]; ok {
		return t
	}
	t := inf.infer(node)
	inf.memo[node] = t
	return t
}

func (inf *Inferrer) infer(node ast.Expr) Type {
	switch n := node.(type) {
	case *ast.Constant:
		return inf.inferConstant(n)
	case *ast.Name:
		return inf.VarType(n.Id)
	case *ast.BinOp:
		return inf.inferBinOp(n)
	case *ast.UnaryOp:
		if n.Op == ast.OpNot {
			return Bool
		}
		return inf.InferExpr(n.Operand)
	case *ast.Compare:
		return Bool
	case *ast.BoolOpExpr:
		return Bool
	case *ast.IfExprExpr:
		return Join(inf.InferExpr(n.Body), inf.InferExpr(n.OrElse))
	case *ast.Subscript:
		return inf.inferSubscript(n)
	case *ast.Attribute:
		return inf.inferAttribute(n)
	case *ast.Call:
		return inf.inferCall(n)
	case *ast.ListExpr:
		return inf.inferListLiteral(n)
	case *ast.TupleExpr:
		fields := make([]Type, len(n.Elts))
		for i, e := range n.Elts {
			fields[i] = inf.InferExpr(e)
		}
		return Tuple(fields...)
	case *ast.SetExpr:
		elem := inf.joinAll(n.Elts)
		return List(elem)
	case *ast.DictExpr:
		return inf.inferDictLiteral(n)
	case *ast.ListCompExpr:
		return List(inf.InferExpr(n.Elt))
	case *ast.SetCompExpr:
		return List(inf.InferExpr(n.Elt))
	case *ast.DictCompExpr:
		return Dict(inf.InferExpr(n.Key), inf.InferExpr(n.Value))
	case *ast.GeneratorExpExpr:
		return List(inf.InferExpr(n.Elt))
	case *ast.LambdaExpr:
		return Unknown // ClosureId assigned later by the emitter (§4.5)
	case *ast.NamedExprExpr:
		t := inf.InferExpr(n.Value)
		inf.RecordVarType(n.Target.Id, t)
		return t
	case *ast.EllipsisExpr:
		return None
	case *ast.AwaitExpr:
		return inf.InferExpr(n.Value)
	default:
		return Unknown
	}
}

func (inf *Inferrer) inferConstant(c *ast.Constant) Type {
	switch c.ConstKind {
	case ast.ConstInt:
		return Int
	case ast.ConstFloat:
		return Float
	case ast.ConstBool:
		return Bool
	case ast.ConstString:
		return String
	default:
		return None
	}
}

// inferBinOp implements spec §4.1's `binop(+)` rule plus the numeric-widening
// fallback for the other arithmetic operators.
func (inf *Inferrer) inferBinOp(n *ast.BinOp) Type {
	lt, rt := inf.InferExpr(n.Left), inf.InferExpr(n.Right)
	if n.Op == ast.OpAdd {
		if lt.Tag == TString || rt.Tag == TString {
			return String
		}
		if lt.Tag == TList || rt.Tag == TList {
			return lt
		}
	}
	if n.Op == ast.OpMul && (lt.Tag == TList || rt.Tag == TList) {
		if lt.Tag == TList {
			return lt
		}
		return rt
	}
	switch {
	case lt.Tag == TInt && rt.Tag == TInt:
		if n.Op == ast.OpDiv {
			// plain `/` between ints produces a float per source
			// semantics (§4.5 "Binary operators").
			return Float
		}
		return Int
	case lt.IsNumeric() && rt.IsNumeric():
		return Float
	default:
		return Unknown
	}
}

func (inf *Inferrer) inferSubscript(n *ast.Subscript) Type {
	vt := inf.InferExpr(n.Value)
	if n.Slice != nil {
		if vt.Tag == TList || vt.Tag == TArray {
			return List(*vt.Elem)
		}
		return Unknown
	}
	switch vt.Tag {
	case TList, TArray:
		return *vt.Elem
	case TDict:
		return *vt.Value
	case TTuple:
		return Unknown // static index resolution is left to the emitter
	default:
		return Unknown
	}
}

func (inf *Inferrer) inferAttribute(n *ast.Attribute) Type {
	vt := inf.InferExpr(n.Value)
	if vt.Tag != TClassInstance {
		return Unknown
	}
	info, ok := inf.classes[vt.ClassName]
	if !ok {
		return Unknown
	}
	if ft, ok := info.Fields[n.Attr]; ok {
		return ft
	}
	return Unknown
}

func (inf *Inferrer) inferCall(n *ast.Call) Type {
	switch f := n.Func.(type) {
	case *ast.Name:
		if sig, ok := inf.functions[f.Id]; ok {
			return sig.Return
		}
		if sig, ok := inf.builtins[f.Id]; ok {
			return sig.Return
		}
		return Unknown
	case *ast.Attribute:
		if sig, ok := inf.builtins[f.Attr]; ok {
			return sig.Return
		}
		return Unknown
	default:
		return Unknown
	}
}

// inferListLiteral types a list literal as List of its elements' joined
// type (List(Int) when empty). No list literal is typed Array(T,N), here or
// in the emitter, even when it is all-constant and never mutated.
func (inf *Inferrer) inferListLiteral(n *ast.ListExpr) Type {
	if len(n.Elts) == 0 {
		return List(Int) // default per spec §4.1, overridable on first append
	}
	return List(inf.joinAll(n.Elts))
}

func (inf *Inferrer) joinAll(elts []ast.Expr) Type {
	t := inf.InferExpr(elts[0])
	for _, e := range elts[1:] {
		t = Join(t, inf.InferExpr(e))
	}
	return t
}

func (inf *Inferrer) inferDictLiteral(n *ast.DictExpr) Type {
	if len(n.Entries) == 0 {
		return Dict(Unknown, Unknown)
	}
	kt := inf.InferExpr(n.Entries[0].Key)
	vt := inf.InferExpr(n.Entries[0].Value)
	for _, e := range n.Entries[1:] {
		kt = Join(kt, inf.InferExpr(e.Key))
		vt = Join(vt, inf.InferExpr(e.Value))
	}
	return Dict(kt, vt)
}

// AllConstantPrimitive reports whether every element of elts is a Constant
// node of the same primitive ConstKind, the constant-and-same-tag half of the
// Array(T,N) rule in SPEC_FULL.md §C.1. The emitter does not call it; list
// literals are always typed List(T) (see inferListLiteral).
func AllConstantPrimitive(elts []ast.Expr) (Type, bool) {
	if len(elts) == 0 {
		return Type{}, false
	}
	first, ok := elts[0].(*ast.Constant)
	if !ok {
		return Type{}, false
	}
	for _, e := range elts[1:] {
		c, ok := e.(*ast.Constant)
		if !ok || c.ConstKind != first.ConstKind {
			return Type{}, false
		}
	}
	switch first.ConstKind {
	case ast.ConstInt:
		return Int, true
	case ast.ConstFloat:
		return Float, true
	case ast.ConstBool:
		return Bool, true
	case ast.ConstString:
		return String, true
	default:
		return Type{}, false
	}
}
