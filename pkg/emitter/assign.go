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
	"fmt"

	"github.com/transpyl/transpyl/pkg/ast"
	"github.com/transpyl/transpyl/pkg/comptime"
	"github.com/transpyl/transpyl/pkg/diag"
	"github.com/transpyl/transpyl/pkg/types"
)

// emitAssign implements the nine-step assignment decision procedure of spec
// §4.6.1. Chained assignment (`a = b = value`) and tuple-unpacking targets
// are handled by delegating each target to emitAssignTarget once the
// right-hand side has been decided.
func (e *Emitter) emitAssign(s *ast.Assign) {
	if e.referencesSkippedModule(s.Value) {
		e.fail(diag.SkippedModuleReference, "emitter.assign", s.Kind(), "statement dropped: references a skipped module")
		if e.Debug {
			e.Ctx.Writef("// debug: emitter.assign dropped a statement referencing a skipped module")
		}
		return
	}

	if len(s.Targets) == 1 {
		switch target := s.Targets[0].(type) {
		case *ast.TupleExpr:
			e.emitTupleUnpack(target.Elts, s.Value)
			return
		case *ast.ListExpr:
			e.emitTupleUnpack(target.Elts, s.Value)
			return
		case *ast.Name:
			e.emitSimpleAssign(target.Id, s.Value)
			return
		case *ast.Subscript:
			e.emitSubscriptStore(target, s.Value)
			return
		case *ast.Attribute:
			e.emitAttributeStore(target, s.Value)
			return
		}
	}

	for _, tgt := range s.Targets {
		switch target := tgt.(type) {
		case *ast.Name:
			e.emitSimpleAssign(target.Id, s.Value)
		case *ast.Subscript:
			e.emitSubscriptStore(target, s.Value)
		case *ast.Attribute:
			e.emitAttributeStore(target, s.Value)
		default:
			e.unsupported("emitter.assign.target", tgt)
		}
	}
}

// referencesSkippedModule reports whether expr transitively names a module
// the import registry could not resolve (spec §4.6.1 step 1).
func (e *Emitter) referencesSkippedModule(expr ast.Expr) bool {
	switch n := expr.(type) {
	case *ast.Attribute:
		if base, ok := n.Value.(*ast.Name); ok {
			if _, skipped := e.Imports.OwningSkippedModule(base.Id); skipped {
				return true
			}
		}
		return e.referencesSkippedModule(n.Value)
	case *ast.Name:
		_, skipped := e.Imports.OwningSkippedModule(n.Id)
		return skipped
	case *ast.Call:
		return e.referencesSkippedModule(n.Func)
	case *ast.BinOp:
		return e.referencesSkippedModule(n.Left) || e.referencesSkippedModule(n.Right)
	default:
		return false
	}
}

// emitSimpleAssign implements steps 2-9 of spec §4.6.1 for `x = e`. A name
// with an active rename-map substitution (spec §4.6.5's try-helper pointer
// captures) is never a first assignment: it already exists in an enclosing
// scope under a different spelling, so the value is written straight to the
// substituted form instead of going through const/var declaration.
func (e *Emitter) emitSimpleAssign(name string, value ast.Expr) {
	if renamed, ok := e.Ctx.Scope.Renamed(name); ok {
		e.Ctx.Writef("%s = %s;", renamed, e.EmitExpr(value))
		return
	}

	t := e.Types.InferExpr(value)
	isFirst := !e.Ctx.Scope.IsDeclaredLocally(name)

	// Step 3 (spec §4.6.1): a first assignment nothing downstream reads
	// degenerates to evaluating the right-hand side for its side effects
	// only - the target language rejects an unused local binding. A
	// concretely-typed list/dict/string still declares normally: its own
	// scope-exit release call reads it, so it is never actually unused in
	// the emitted output.
	if isFirst && !e.Life.Info(name).IsUsed() && !isHeapOwning(t) {
		e.emitUnusedFirstAssign(value, t)
		return
	}

	if v, ok := comptime.Eval(value); ok && v.IsEmittable() {
		e.emitConstBinding(name, value, v, isFirst)
		return
	}

	if concatParts, ok := flattenStringConcat(value); ok && len(concatParts) > 1 && t.Tag == types.TString {
		e.emitStringConcatBinding(name, concatParts, isFirst)
		return
	}

	isArraylist := t.Tag == types.TList
	isDict := t.Tag == types.TDict
	isListComp := isListCompLike(value)
	mutated := e.Life.Info(name).IsMutated()
	isMutableClass := t.Tag == types.TClassInstance && e.Life.IsMutableClass(t.ClassName)

	keyword := "const"
	if isArraylist || isDict || isMutableClass || mutated || isListComp {
		keyword = "var"
	}

	if isArraylist {
		if lit, ok := value.(*ast.ListExpr); ok {
			e.declareEmptyArraylist(name, t, isFirst, keyword)
			for _, el := range lit.Elts {
				e.Ctx.Writef("%s.append(%s) catch unreachable;", e.Ctx.Escape(name), e.EmitExpr(el))
			}
			e.recordBindingAfterDecl(name, t, isFirst)
			return
		}
	}

	code := e.EmitExpr(value)
	annotation := ""
	if !t.IsCollection() && t.Tag != types.TClosure && t.Tag != types.TUnknown {
		annotation = ": " + targetTypeName(t)
	}
	if isFirst {
		e.Ctx.Writef("%s %s%s = %s;", keyword, e.Ctx.Escape(name), annotation, code)
	} else {
		e.Ctx.Writef("%s = %s;", e.Ctx.Escape(name), code)
	}
	e.recordBindingAfterDecl(name, t, isFirst)
}

// emitUnusedFirstAssign implements step 3 of spec §4.6.1 for a first
// assignment this function already knows is not heap-owning by a known
// collection type: a plain value is discarded outright, while a
// still-boxed `Unknown` result - the one case isHeapOwning can't see, since
// it may or may not own heap memory at runtime - is bound to a throwaway
// name just long enough to release it.
func (e *Emitter) emitUnusedFirstAssign(value ast.Expr, t types.Type) {
	code := e.EmitExpr(value)
	if t.Tag != types.TUnknown {
		e.Ctx.Writef("_ = %s;", code)
		return
	}
	tmp := e.Ctx.Gensym("__discard_")
	e.Ctx.Writef("{")
	e.Ctx.Indent()
	e.Ctx.Writef("const %s = %s;", tmp, code)
	e.Ctx.Writef("rt_release(%s);", tmp)
	e.Ctx.Dedent()
	e.Ctx.Writef("}")
}

func (e *Emitter) declareEmptyArraylist(name string, t types.Type, isFirst bool, keyword string) {
	elem := types.Unknown
	if t.Elem != nil {
		elem = *t.Elem
	}
	if isFirst {
		e.Ctx.Writef("%s %s = rt_list(%s).init(alloc);", keyword, e.Ctx.Escape(name), targetTypeName(elem))
	} else {
		e.Ctx.Writef("%s = rt_list(%s).init(alloc);", e.Ctx.Escape(name), targetTypeName(elem))
	}
}

func (e *Emitter) recordBindingAfterDecl(name string, t types.Type, isFirst bool) {
	if isFirst {
		e.Ctx.Scope.Declare(name)
		e.Types.RecordVarType(name, t)
		if isHeapOwning(t) {
			switch t.Tag {
			case types.TList:
				e.queueRelease(releaseList, e.Ctx.Escape(name))
			case types.TDict:
				if valueIsStringLike(t) {
					e.queueRelease(releaseDictValues, e.Ctx.Escape(name))
				} else {
					e.queueRelease(releaseDict, e.Ctx.Escape(name))
				}
			case types.TString:
				e.queueRelease(releaseString, e.Ctx.Escape(name))
			}
		}
	}
}

func valueIsStringLike(t types.Type) bool {
	if t.Value == nil {
		return false
	}
	return t.Value.Tag == types.TString || t.Value.Tag == types.TUnknown
}

func isListCompLike(e ast.Expr) bool {
	switch e.(type) {
	case *ast.ListCompExpr, *ast.SetCompExpr, *ast.DictCompExpr, *ast.GeneratorExpExpr:
		return true
	default:
		return false
	}
}

func (e *Emitter) emitConstBinding(name string, value ast.Expr, v comptime.Value, isFirst bool) {
	mutated := e.Life.Info(name).IsMutated()
	keyword := "const"
	if mutated {
		keyword = "var"
	}
	literal := comptimeLiteral(v)
	t := e.Types.InferExpr(value)
	if isFirst {
		e.Ctx.Writef("%s %s: %s = %s;", keyword, e.Ctx.Escape(name), targetTypeName(t), literal)
		e.recordBindingAfterDecl(name, t, true)
	} else {
		e.Ctx.Writef("%s = %s;", e.Ctx.Escape(name), literal)
	}
}

// flattenStringConcat flattens a left-associative chain of `+` operands
// (spec §4.6.1 step 7). It does not look at operand types; emitSimpleAssign
// checks that the chain is string-typed before using it.
func flattenStringConcat(expr ast.Expr) ([]ast.Expr, bool) {
	bin, ok := expr.(*ast.BinOp)
	if !ok || bin.Op != ast.OpAdd {
		return nil, false
	}
	var parts []ast.Expr
	var walk func(e ast.Expr) bool
	walk = func(e ast.Expr) bool {
		if b, ok := e.(*ast.BinOp); ok && b.Op == ast.OpAdd {
			if !walk(b.Left) {
				return false
			}
			return walk(b.Right)
		}
		parts = append(parts, e)
		return true
	}
	if !walk(expr) {
		return nil, false
	}
	return parts, true
}

func (e *Emitter) emitStringConcatBinding(name string, parts []ast.Expr, isFirst bool) {
	args := make([]string, len(parts))
	for i, p := range parts {
		args[i] = e.EmitExpr(p)
	}
	keyword := "const"
	if e.Life.Info(name).IsMutated() {
		keyword = "var"
	}
	call := fmt.Sprintf("rt_str_concat_all(alloc, .{ %s })", joinStrings(args))
	if isFirst {
		e.Ctx.Writef("%s %s = %s;", keyword, e.Ctx.Escape(name), call)
		e.recordBindingAfterDecl(name, types.String, true)
	} else {
		e.Ctx.Writef("%s = %s;", e.Ctx.Escape(name), call)
	}
}

func joinStrings(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out
}

// emitTupleUnpack implements `a, b, ... = e` (spec §4.6.1: "emits `const tmp
// = e;` then one binding per position").
func (e *Emitter) emitTupleUnpack(targets []ast.Expr, value ast.Expr) {
	tmp := e.Ctx.Gensym("__unpack_tmp_")
	e.Ctx.Writef("const %s = %s;", tmp, e.EmitExpr(value))
	valType := e.Types.InferExpr(value)
	for i, tgt := range targets {
		elemCode := fmt.Sprintf("%s.@\"%d\"", tmp, i)
		elemType := types.Unknown
		if valType.Tag == types.TTuple && i < len(valType.Fields) {
			elemType = valType.Fields[i]
		}
		if n, ok := tgt.(*ast.Name); ok {
			if renamed, ok := e.Ctx.Scope.Renamed(n.Id); ok {
				e.Ctx.Writef("%s = %s;", renamed, elemCode)
				continue
			}
			isFirst := !e.Ctx.Scope.IsDeclaredLocally(n.Id)
			keyword := "const"
			if e.Life.Info(n.Id).IsMutated() {
				keyword = "var"
			}
			if isFirst {
				e.Ctx.Writef("%s %s = %s;", keyword, e.Ctx.Escape(n.Id), elemCode)
				e.recordBindingAfterDecl(n.Id, elemType, true)
			} else {
				e.Ctx.Writef("%s = %s;", e.Ctx.Escape(n.Id), elemCode)
			}
		}
	}
}

// emitSubscriptStore implements spec §4.6.1's subscript target dispatch.
func (e *Emitter) emitSubscriptStore(target *ast.Subscript, value ast.Expr) {
	baseCode := e.EmitExpr(target.Value)
	baseType := e.Types.InferExpr(target.Value)
	valCode := e.EmitExpr(value)
	idx := e.EmitExpr(target.Index)
	switch baseType.Tag {
	case types.TDict:
		e.Ctx.Writef("%s.put(%s, %s) catch unreachable;", baseCode, idx, valCode)
	case types.TList:
		e.Ctx.Writef("%s.items[rt_norm_index(%s, %s.items.len)] = %s;", baseCode, idx, baseCode, valCode)
	default:
		e.Ctx.Writef("%s[rt_norm_index(%s, %s.len)] = %s;", baseCode, idx, baseCode, valCode)
	}
}

// emitAttributeStore implements spec §4.6.1's attribute target dispatch:
// a direct field store for known fields, or a dynamic dict put otherwise.
func (e *Emitter) emitAttributeStore(target *ast.Attribute, value ast.Expr) {
	baseType := e.Types.InferExpr(target.Value)
	baseCode := e.EmitExpr(target.Value)
	valCode := e.EmitExpr(value)
	if baseType.Tag == types.TClassInstance {
		if info, known := e.Types.ClassFields(baseType.ClassName); known {
			if _, hasField := info.Fields[target.Attr]; hasField {
				e.Ctx.Writef("%s.%s = %s;", baseCode, e.Ctx.Escape(target.Attr), valCode)
				return
			}
		}
	}
	e.Ctx.Writef("%s.__dict__.put(%q, rt_tag(%s)) catch unreachable;", baseCode, target.Attr, valCode)
}

// emitAugAssign implements spec §4.6.2.
func (e *Emitter) emitAugAssign(s *ast.AugAssign) {
	name, isName := s.Target.(*ast.Name)
	targetType := e.Types.InferExpr(s.Target)

	if sub, ok := s.Target.(*ast.Subscript); ok {
		baseType := e.Types.InferExpr(sub.Value)
		if baseType.Tag == types.TDict {
			base := e.EmitExpr(sub.Value)
			key := e.EmitExpr(sub.Index)
			val := e.EmitExpr(s.Value)
			e.Ctx.Writef("%s.put(%s, rt_apply_op(%q, %s.get(%s).?, %s)) catch unreachable;", base, key, opSymbol(s.Op), base, key, val)
			return
		}
	}

	if isName && targetType.Tag == types.TList {
		switch s.Op {
		case ast.OpAdd:
			e.Ctx.Writef("%s.append_all(%s) catch unreachable;", e.Ctx.Escape(name.Id), e.EmitExpr(s.Value))
			return
		case ast.OpMul:
			e.Ctx.Writef("%s = rt_list_repeat(%s, %s);", e.Ctx.Escape(name.Id), e.Ctx.Escape(name.Id), e.EmitExpr(s.Value))
			return
		}
	}

	targetCode := e.EmitExpr(s.Target)
	valCode := e.EmitExpr(s.Value)
	switch s.Op {
	case ast.OpFloorDiv:
		e.Ctx.Writef("%s = rt_floordiv(%s, %s);", targetCode, targetCode, valCode)
	case ast.OpPow:
		e.Ctx.Writef("%s = rt_pow(%s, %s);", targetCode, targetCode, valCode)
	case ast.OpMod:
		e.Ctx.Writef("%s = rt_floormod(%s, %s);", targetCode, targetCode, valCode)
	case ast.OpDiv:
		if targetType.Tag == types.TInt {
			e.Ctx.Writef("%s = @divTrunc(%s, %s);", targetCode, targetCode, valCode)
		} else {
			e.Ctx.Writef("%s = (%s / %s);", targetCode, targetCode, valCode)
		}
	case ast.OpLShift:
		e.Ctx.Writef("%s = (%s << @as(u6, @intCast(%s)));", targetCode, targetCode, valCode)
	case ast.OpRShift:
		e.Ctx.Writef("%s = (%s >> @as(u6, @intCast(%s)));", targetCode, targetCode, valCode)
	case ast.OpMatMul:
		e.Ctx.Writef("%s = rt_matmul(%s, %s);", targetCode, targetCode, valCode)
	default:
		e.Ctx.Writef("%s = (%s %s %s);", targetCode, targetCode, opSymbol(s.Op), valCode)
	}
}

func opSymbol(op ast.Operator) string {
	switch op {
	case ast.OpAdd:
		return "+"
	case ast.OpSub:
		return "-"
	case ast.OpMul:
		return "*"
	case ast.OpBitAnd:
		return "&"
	case ast.OpBitOr:
		return "|"
	case ast.OpBitXor:
		return "^"
	default:
		return "+"
	}
}
