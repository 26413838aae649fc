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
	"strings"

	"github.com/transpyl/transpyl/pkg/ast"
	"github.com/transpyl/transpyl/pkg/diag"
	"github.com/transpyl/transpyl/pkg/emitctx"
	"github.com/transpyl/transpyl/pkg/types"
)

// EmitStmt is C7's single entry point for one statement.
func (e *Emitter) EmitStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.Assign:
		e.emitAssign(s)
	case *ast.AugAssign:
		e.emitAugAssign(s)
	case *ast.If:
		e.emitIf(s)
	case *ast.While:
		e.emitWhile(s)
	case *ast.For:
		e.emitFor(s)
	case *ast.FunctionDef:
		e.emitFunctionDef(s)
	case *ast.ClassDef:
		e.emitClassDef(s)
	case *ast.Try:
		e.emitTry(s)
	case *ast.With:
		e.emitWith(s)
	case *ast.Raise:
		e.emitRaise(s)
	case *ast.Return:
		e.emitReturn(s)
	case *ast.Import:
		e.emitImport(s)
	case *ast.ImportFrom:
		e.emitImportFrom(s)
	case *ast.Global:
		for _, name := range s.Names {
			e.Ctx.Scope.MarkGlobal(name)
		}
	case *ast.Del:
		e.emitDel(s)
	case *ast.Assert:
		e.emitAssert(s)
	case *ast.ExprStmt:
		e.emitExprStmt(s)
	case *ast.Break:
		e.Ctx.Writef("break;")
	case *ast.Continue:
		e.Ctx.Writef("continue;")
	case *ast.Pass:
		e.Ctx.Writef("// pass")
	default:
		e.unsupported("emitter.stmt", stmt)
	}
}

func (e *Emitter) emitIf(s *ast.If) {
	e.Ctx.Writef("if (%s) {", e.truthy(s.Test))
	e.Ctx.Indent()
	e.EmitStmts(s.Body)
	e.Ctx.Dedent()
	if len(s.OrElse) == 0 {
		e.Ctx.Writef("}")
		return
	}
	e.Ctx.Writef("} else {")
	e.Ctx.Indent()
	e.EmitStmts(s.OrElse)
	e.Ctx.Dedent()
	e.Ctx.Writef("}")
}

// emitWhile lowers the source `else` clause (runs on normal, non-break
// exit) to a flag-guarded block, per spec §4.6.3.
func (e *Emitter) emitWhile(s *ast.While) {
	hasElse := len(s.OrElse) > 0
	var flag string
	if hasElse {
		flag = e.Ctx.Gensym("__while_broke_")
		e.Ctx.Writef("var %s = false;", flag)
	}
	e.Ctx.Writef("while (%s) {", e.truthy(s.Test))
	e.Ctx.Indent()
	if hasElse {
		e.rewriteBreaksWithFlag(s.Body, flag)
	} else {
		e.EmitStmts(s.Body)
	}
	e.Ctx.Dedent()
	e.Ctx.Writef("}")
	if hasElse {
		e.Ctx.Writef("if (!%s) {", flag)
		e.Ctx.Indent()
		e.EmitStmts(s.OrElse)
		e.Ctx.Dedent()
		e.Ctx.Writef("}")
	}
}

// rewriteBreaksWithFlag emits body, setting flag immediately before any
// top-level break so emitWhile's guard can detect an early exit. Nested
// loops own their own break targets and are left untouched.
func (e *Emitter) rewriteBreaksWithFlag(body []ast.Stmt, flag string) {
	e.Ctx.Scope.PushBlockScope()
	e.pushReleaseFrame()
	for _, s := range body {
		if _, ok := s.(*ast.Break); ok {
			e.Ctx.Writef("%s = true;", flag)
		}
		e.EmitStmt(s)
	}
	e.flushReleaseFrame()
	e.Ctx.Scope.PopScope()
}

// emitFor specializes range/enumerate/zip per spec §4.6.3.
func (e *Emitter) emitFor(s *ast.For) {
	if call, ok := s.Iter.(*ast.Call); ok {
		if name, ok := call.Func.(*ast.Name); ok {
			switch name.Id {
			case "range":
				e.emitForRange(s, call)
				return
			case "enumerate":
				e.emitForEnumerate(s, call)
				return
			case "zip":
				e.emitForZip(s, call)
				return
			}
		}
	}
	iterCode := e.EmitExpr(s.Iter)
	iterType := e.Types.InferExpr(s.Iter)
	accessor := iterCode
	if iterType.Tag == types.TList {
		accessor = iterCode + ".items"
	}
	target := "__it_"
	if n, ok := s.Target.(*ast.Name); ok {
		target = e.Ctx.Escape(n.Id)
	}
	e.Ctx.Writef("for (%s) |%s| {", accessor, target)
	e.Ctx.Indent()
	e.EmitStmts(s.Body)
	e.Ctx.Dedent()
	e.Ctx.Writef("}")
	if len(s.OrElse) > 0 {
		e.EmitStmts(s.OrElse)
	}
}

func (e *Emitter) emitForRange(s *ast.For, call *ast.Call) {
	var start, stop, step string
	switch len(call.Args) {
	case 1:
		start, stop, step = "0", e.EmitExpr(call.Args[0]), "1"
	case 2:
		start, stop, step = e.EmitExpr(call.Args[0]), e.EmitExpr(call.Args[1]), "1"
	default:
		start, stop, step = e.EmitExpr(call.Args[0]), e.EmitExpr(call.Args[1]), e.EmitExpr(call.Args[2])
	}
	target := "__i_"
	if n, ok := s.Target.(*ast.Name); ok {
		target = e.Ctx.Escape(n.Id)
	}
	counter := e.Ctx.Gensym("__range_idx_")
	e.Ctx.Writef("var %s: i64 = %s;", counter, start)
	e.Ctx.Writef("while (%s < %s) : (%s += %s) {", counter, stop, counter, step)
	e.Ctx.Indent()
	e.Ctx.Writef("const %s = %s;", target, counter)
	e.EmitStmts(s.Body)
	e.Ctx.Dedent()
	e.Ctx.Writef("}")
}

func (e *Emitter) emitForEnumerate(s *ast.For, call *ast.Call) {
	if len(call.Args) == 0 {
		e.unsupported("emitter.stmt.enumerate", s)
		return
	}
	iterCode := e.EmitExpr(call.Args[0])
	iterType := e.Types.InferExpr(call.Args[0])
	accessor := iterCode
	if iterType.Tag == types.TList {
		accessor = iterCode + ".items"
	}
	idxName := e.Ctx.Gensym(emitctx.GenEnumIdx)
	itemName := "__enum_item_"
	idxTarget, itemTarget := idxName, itemName
	if tup, ok := s.Target.(*ast.TupleExpr); ok && len(tup.Elts) == 2 {
		if n, ok := tup.Elts[0].(*ast.Name); ok {
			idxTarget = e.Ctx.Escape(n.Id)
		}
		if n, ok := tup.Elts[1].(*ast.Name); ok {
			itemTarget = e.Ctx.Escape(n.Id)
		}
	}
	e.Ctx.Writef("for (%s, 0..) |%s, %s| {", accessor, itemTarget, idxTarget)
	e.Ctx.Indent()
	e.EmitStmts(s.Body)
	e.Ctx.Dedent()
	e.Ctx.Writef("}")
}

// emitForZip stores each operand in a labeled temporary, computes the
// minimum length, and iterates an index up to it, per spec §4.6.3.
func (e *Emitter) emitForZip(s *ast.For, call *ast.Call) {
	temps := make([]string, len(call.Args))
	for i, arg := range call.Args {
		code := e.EmitExpr(arg)
		argType := e.Types.InferExpr(arg)
		accessor := code
		if argType.Tag == types.TList {
			accessor = code + ".items"
		}
		tmp := e.Ctx.Gensym("__zip_iter_")
		e.Ctx.Writef("const %s = %s;", tmp, accessor)
		temps[i] = tmp
	}
	minExpr := temps[0] + ".len"
	for _, t := range temps[1:] {
		minExpr = fmt.Sprintf("@min(%s, %s.len)", minExpr, t)
	}
	idx := e.Ctx.Gensym("__zip_idx_")
	e.Ctx.Writef("var %s: usize = 0;", idx)
	e.Ctx.Writef("while (%s < %s) : (%s += 1) {", idx, minExpr, idx)
	e.Ctx.Indent()
	if tup, ok := s.Target.(*ast.TupleExpr); ok {
		for i, el := range tup.Elts {
			if n, ok := el.(*ast.Name); ok && i < len(temps) {
				e.Ctx.Writef("const %s = %s[%s];", e.Ctx.Escape(n.Id), temps[i], idx)
			}
		}
	}
	e.EmitStmts(s.Body)
	e.Ctx.Dedent()
	e.Ctx.Writef("}")
}

// emitFunctionDef implements spec §4.6.4's function case, including the
// tail-call hint for a self-recursive tail call.
func (e *Emitter) emitFunctionDef(f *ast.FunctionDef) {
	prevFn := e.Ctx.CurrentFunction
	e.Ctx.CurrentFunction = f.Name
	retType := e.inferReturnType(f)
	paramTypes := make([]types.Type, len(f.Params))
	needsAlloc := e.AllocFns[f.Name]
	params := make([]string, 0, len(f.Params)+1)
	for i, p := range f.Params {
		pt := typeFromAnnotation(p.Ann)
		paramTypes[i] = pt
		params = append(params, fmt.Sprintf("%s: %s", e.Ctx.Escape(p.Name), targetTypeName(pt)))
	}
	if needsAlloc {
		params = append(params, "alloc: std.mem.Allocator")
	}
	e.Types.RecordFunction(f.Name, paramTypes, retType)

	retDecl := targetTypeName(retType)
	if f.IsAsync {
		e.Ctx.Writef("fn %s(%s) !rt_task(%s) {", e.Ctx.Escape(f.Name), strings.Join(params, ", "), retDecl)
	} else {
		e.Ctx.Writef("fn %s(%s) %s {", e.Ctx.Escape(f.Name), strings.Join(params, ", "), retDecl)
	}
	e.Ctx.Indent()
	e.Ctx.Scope.PushFunctionScope()
	for _, p := range f.Params {
		e.Ctx.Scope.Declare(p.Name)
		e.Types.RecordVarType(p.Name, typeFromAnnotation(p.Ann))
	}
	e.pushReleaseFrame()
	e.EmitStmts(f.Body)
	e.flushReleaseFrame()
	e.Ctx.Scope.PopScope()
	e.Ctx.Dedent()
	e.Ctx.Writef("}")
	e.Ctx.CurrentFunction = prevFn
}

func (e *Emitter) inferReturnType(f *ast.FunctionDef) types.Type {
	if f.Returns != nil {
		return typeFromAnnotation(f.Returns)
	}
	for _, s := range f.Body {
		if r, ok := s.(*ast.Return); ok && r.Value != nil {
			return e.Types.InferExpr(r.Value)
		}
	}
	return types.None
}

func typeFromAnnotation(t *ast.TypeExpr) types.Type {
	if t == nil {
		return types.Unknown
	}
	switch t.Name {
	case "int":
		return types.Int
	case "float":
		return types.Float
	case "bool":
		return types.Bool
	case "str":
		return types.String
	case "list":
		if t.Elem != nil {
			return types.List(typeFromAnnotation(t.Elem))
		}
		return types.List(types.Unknown)
	default:
		return types.Unknown
	}
}

func targetTypeName(t types.Type) string {
	switch t.Tag {
	case types.TInt:
		return "i64"
	case types.TFloat:
		return "f64"
	case types.TBool:
		return "bool"
	case types.TString:
		return "rt_string"
	case types.TNone:
		return "void"
	case types.TList:
		return fmt.Sprintf("rt_list(%s)", targetTypeName(*t.Elem))
	case types.TArray:
		return fmt.Sprintf("[%d]%s", t.Len, targetTypeName(*t.Elem))
	case types.TDict:
		return fmt.Sprintf("rt_dict(%s, %s)", targetTypeName(*t.Key), targetTypeName(*t.Value))
	case types.TClassInstance:
		return t.ClassName
	default:
		return "rt_value"
	}
}

// emitClassDef implements spec §4.6.4's class case: fields extracted from
// `__init__`, a static `init` constructor, other methods as pointer-receiver
// associated functions.
func (e *Emitter) emitClassDef(c *ast.ClassDef) {
	order, fields := e.extractFields(c)
	e.Types.RecordClassFields(c.Name, order, fields)

	e.Ctx.Writef("const %s = struct {", e.Ctx.Escape(c.Name))
	e.Ctx.Indent()
	for _, name := range order {
		e.Ctx.Writef("%s: %s,", e.Ctx.Escape(name), targetTypeName(fields[name]))
	}
	e.Ctx.Writef("")

	var initFn *ast.FunctionDef
	var others []*ast.FunctionDef
	for _, member := range c.Body {
		if fn, ok := member.(*ast.FunctionDef); ok {
			if fn.Name == "__init__" {
				initFn = fn
			} else {
				others = append(others, fn)
			}
		}
	}
	if initFn != nil {
		e.emitClassInit(c.Name, initFn, order, fields)
	}
	for _, fn := range others {
		e.emitMethod(c.Name, fn)
	}
	e.Ctx.Dedent()
	e.Ctx.Writef("};")
}

// extractFields scans __init__ for `self.x = y` per spec §4.6.4, returning
// fields in the order their assignment first appears so the emitted struct's
// field order matches the constructor's.
func (e *Emitter) extractFields(c *ast.ClassDef) ([]string, map[string]types.Type) {
	fields := make(map[string]types.Type)
	var order []string
	for _, member := range c.Body {
		fn, ok := member.(*ast.FunctionDef)
		if !ok || fn.Name != "__init__" {
			continue
		}
		paramTypes := map[string]types.Type{}
		for _, p := range fn.Params {
			paramTypes[p.Name] = typeFromAnnotation(p.Ann)
		}
		for _, s := range fn.Body {
			assign, ok := s.(*ast.Assign)
			if !ok {
				continue
			}
			for _, tgt := range assign.Targets {
				attr, ok := tgt.(*ast.Attribute)
				if !ok {
					continue
				}
				recv, ok := attr.Value.(*ast.Name)
				if !ok || recv.Id != "self" {
					continue
				}
				if _, seen := fields[attr.Attr]; !seen {
					order = append(order, attr.Attr)
				}
				if name, ok := assign.Value.(*ast.Name); ok {
					if pt, known := paramTypes[name.Id]; known {
						fields[attr.Attr] = pt
						continue
					}
				}
				fields[attr.Attr] = e.Types.InferExpr(assign.Value)
			}
		}
	}
	return order, fields
}

func (e *Emitter) emitClassInit(className string, fn *ast.FunctionDef, order []string, fields map[string]types.Type) {
	params := make([]string, 0, len(fn.Params))
	for _, p := range fn.Params {
		if p.Name == "self" {
			continue
		}
		params = append(params, fmt.Sprintf("%s: %s", e.Ctx.Escape(p.Name), targetTypeName(typeFromAnnotation(p.Ann))))
	}
	e.Ctx.Writef("pub fn init(%s) %s {", strings.Join(params, ", "), className)
	e.Ctx.Indent()
	e.Ctx.Scope.PushFunctionScope()
	for _, p := range fn.Params {
		e.Ctx.Scope.Declare(p.Name)
	}
	initList := make([]string, 0, len(fields))
	for _, name := range order {
		initList = append(initList, fmt.Sprintf(".%s = %s", e.Ctx.Escape(name), fieldInitExpr(fn, name)))
	}
	e.Ctx.Writef("return %s{ %s };", className, strings.Join(initList, ", "))
	e.Ctx.Scope.PopScope()
	e.Ctx.Dedent()
	e.Ctx.Writef("}")
}

// fieldInitExpr looks for the `self.field = <expr>` statement in the
// constructor body and renders its right-hand side as the field's initial
// value; falls back to the field name itself when the assignment shape is
// more complex than a direct parameter echo.
func fieldInitExpr(fn *ast.FunctionDef, field string) string {
	for _, s := range fn.Body {
		assign, ok := s.(*ast.Assign)
		if !ok {
			continue
		}
		for _, tgt := range assign.Targets {
			attr, ok := tgt.(*ast.Attribute)
			if !ok {
				continue
			}
			if recv, ok := attr.Value.(*ast.Name); ok && recv.Id == "self" && attr.Attr == field {
				if name, ok := assign.Value.(*ast.Name); ok {
					return name.Id
				}
			}
		}
	}
	return field
}

func (e *Emitter) emitMethod(className string, fn *ast.FunctionDef) {
	params := []string{fmt.Sprintf("self: *%s", className)}
	for _, p := range fn.Params {
		if p.Name == "self" {
			continue
		}
		params = append(params, fmt.Sprintf("%s: %s", e.Ctx.Escape(p.Name), targetTypeName(typeFromAnnotation(p.Ann))))
	}
	// A method's allocator need is decided from its own body only: call
	// sites for methods dispatch through emitAttribute/emitCall's
	// receiver-method path, which never threads an `alloc` argument across
	// method calls, so cross-method propagation would produce a parameter
	// no caller could satisfy.
	if directFunctionNeedsAllocator(fn) {
		params = append(params, "alloc: std.mem.Allocator")
	}
	retType := e.inferReturnType(fn)
	e.Ctx.Writef("pub fn %s(%s) %s {", e.Ctx.Escape(fn.Name), strings.Join(params, ", "), targetTypeName(retType))
	e.Ctx.Indent()
	e.Ctx.Scope.PushFunctionScope()
	e.Ctx.Scope.Declare("self")
	for _, p := range fn.Params {
		e.Ctx.Scope.Declare(p.Name)
	}
	e.pushReleaseFrame()
	e.EmitStmts(fn.Body)
	e.flushReleaseFrame()
	e.Ctx.Scope.PopScope()
	e.Ctx.Dedent()
	e.Ctx.Writef("}")
}

func (e *Emitter) emitRaise(r *ast.Raise) {
	if r.Exc == nil {
		e.Ctx.Writef("return error.GenericException;")
		return
	}
	if call, ok := r.Exc.(*ast.Call); ok {
		if name, ok := call.Func.(*ast.Name); ok {
			if tag, known := exceptionTag(name.Id); known {
				msg := "\"\""
				if len(call.Args) > 0 {
					msg = e.EmitExpr(call.Args[0])
				}
				e.Ctx.Writef("rt_fail(%s, %s);", tag, msg)
				e.Ctx.Writef("return error.%s;", tag)
				return
			}
		}
	}
	e.Ctx.Writef("return error.GenericException;")
}

func (e *Emitter) emitReturn(r *ast.Return) {
	if r.Value == nil {
		e.Ctx.Writef("return;")
		return
	}
	if call, ok := r.Value.(*ast.Call); ok {
		if fn, ok := call.Func.(*ast.Name); ok && fn.Id == e.Ctx.CurrentFunction {
			args := make([]string, 0, len(call.Args)+1)
			for _, a := range call.Args {
				args = append(args, e.EmitExpr(a))
			}
			if e.AllocFns[fn.Id] {
				args = append(args, "alloc")
			}
			e.Ctx.Writef("return @call(.always_tail, %s, .{ %s });", e.Ctx.Escape(fn.Id), strings.Join(args, ", "))
			return
		}
	}
	e.Ctx.Writef("return %s;", e.EmitExpr(r.Value))
}

func (e *Emitter) emitImport(s *ast.Import) {
	alias := s.Alias
	if alias == "" {
		alias = s.Module
	}
	if _, ok := e.Imports.Lookup(s.Module); !ok {
		e.Imports.RecordSkipped(s.Module)
		e.fail(diag.SkippedModuleReference, "emitter.import", s.Kind(), "module "+s.Module+" has no target counterpart")
		return
	}
	info, _ := e.Imports.Lookup(s.Module)
	if info.Inline {
		return
	}
	e.Ctx.Writef("const %s = @import(%q);", e.Ctx.Escape(alias), info.TargetModule)
}

func (e *Emitter) emitImportFrom(s *ast.ImportFrom) {
	if _, ok := e.Imports.Lookup(s.Module); !ok {
		e.Imports.RecordSkipped(s.Module)
		for _, n := range s.Names {
			e.Imports.BindLocalImport(n.Name, s.Module)
		}
		e.fail(diag.SkippedModuleReference, "emitter.import", s.Kind(), "module "+s.Module+" has no target counterpart")
		return
	}
	info, _ := e.Imports.Lookup(s.Module)
	for _, n := range s.Names {
		alias := n.Alias
		if alias == "" {
			alias = n.Name
		}
		e.Ctx.Writef("const %s = @import(%q).%s;", e.Ctx.Escape(alias), info.TargetModule, n.Name)
	}
}

func (e *Emitter) emitDel(d *ast.Del) {
	for _, t := range d.Targets {
		if n, ok := t.(*ast.Name); ok {
			e.Ctx.Writef("// del %s", n.Id)
		}
	}
}

// emitAssert implements spec §4.6.8.
func (e *Emitter) emitAssert(a *ast.Assert) {
	msg := `"AssertionError"`
	if a.Msg != nil {
		msg = e.EmitExpr(a.Msg)
	}
	e.Ctx.Writef("if (!(%s)) {", e.truthy(a.Test))
	e.Ctx.Indent()
	e.Ctx.Writef("rt_fail(AssertionFailed, %s);", msg)
	e.Ctx.Writef("return error.AssertionFailed;")
	e.Ctx.Dedent()
	e.Ctx.Writef("}")
}

func (e *Emitter) emitExprStmt(s *ast.ExprStmt) {
	if _, ok := s.Value.(*ast.EllipsisExpr); ok {
		e.Ctx.Writef("_ = {};")
		return
	}
	code := e.EmitExpr(s.Value)
	t := e.Types.InferExpr(s.Value)
	if t.Tag == types.TNone {
		e.Ctx.Writef("%s;", code)
		return
	}
	e.Ctx.Writef("_ = %s;", code)
}
