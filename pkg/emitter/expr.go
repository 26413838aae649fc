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
	"github.com/transpyl/transpyl/pkg/builtins"
	"github.com/transpyl/transpyl/pkg/comptime"
	"github.com/transpyl/transpyl/pkg/diag"
	"github.com/transpyl/transpyl/pkg/runtimeabi"
	"github.com/transpyl/transpyl/pkg/types"
)

// EmitExpr is C6's single entry point: it returns the emitted target-code
// fragment for node. Some forms (comprehensions, chained comparisons, zip)
// need intermediate statements; those are written directly to e.Ctx ahead of
// the returned fragment, following the same "emit side effects, return a
// handle" shape the teacher's translator uses for its own temporaries.
func (e *Emitter) EmitExpr(node ast.Expr) string {
	switch n := node.(type) {
	case *ast.Constant:
		return e.emitConstant(n)
	case *ast.Name:
		return e.emitName(n)
	case *ast.BinOp:
		return e.emitBinOp(n)
	case *ast.UnaryOp:
		return e.emitUnaryOp(n)
	case *ast.Compare:
		return e.emitCompare(n)
	case *ast.BoolOpExpr:
		return e.emitBoolOp(n)
	case *ast.IfExprExpr:
		return fmt.Sprintf("if (%s) %s else %s", e.truthy(n.Test), e.EmitExpr(n.Body), e.EmitExpr(n.OrElse))
	case *ast.Call:
		return e.emitCall(n)
	case *ast.Attribute:
		return e.emitAttribute(n)
	case *ast.Subscript:
		return e.emitSubscript(n)
	case *ast.ListExpr:
		return e.emitListLiteral(n)
	case *ast.TupleExpr:
		return e.emitTupleLiteral(n)
	case *ast.SetExpr:
		return e.emitSetLiteral(n)
	case *ast.DictExpr:
		return e.emitDictLiteral(n)
	case *ast.ListCompExpr:
		return e.emitListComp(n)
	case *ast.SetCompExpr:
		return e.emitSetComp(n)
	case *ast.DictCompExpr:
		return e.emitDictComp(n)
	case *ast.GeneratorExpExpr:
		return e.emitListComp(&ast.ListCompExpr{Elt: n.Elt, Generators: n.Generators})
	case *ast.LambdaExpr:
		return e.emitLambda(n)
	case *ast.NamedExprExpr:
		return e.emitNamedExpr(n)
	case *ast.EllipsisExpr:
		return e.emitEllipsis()
	case *ast.AwaitExpr:
		return e.emitAwait(n)
	default:
		e.unsupported("emitter.expr", node)
		return "undefined"
	}
}

func (e *Emitter) emitConstant(c *ast.Constant) string {
	switch c.ConstKind {
	case ast.ConstInt:
		return fmt.Sprintf("%d", c.Int)
	case ast.ConstFloat:
		return fmt.Sprintf("%g", c.Float)
	case ast.ConstBool:
		if c.Bool {
			return "true"
		}
		return "false"
	case ast.ConstString:
		return quoteString(c.Str)
	case ast.ConstNone:
		return "null"
	case ast.ConstEllipsis:
		return e.emitEllipsis()
	default:
		return "null"
	}
}

// quoteString applies the JSON-like escaping spec §4.5 "Literal" names.
func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&b, `\u%04x`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}

// emitName substitutes the rename map before falling back to escaping, as
// required inside try-helper bodies (spec §4.5 "Name").
func (e *Emitter) emitName(n *ast.Name) string {
	if renamed, ok := e.Ctx.Scope.Renamed(n.Id); ok {
		return renamed
	}
	return e.Ctx.Escape(n.Id)
}

func (e *Emitter) emitUnaryOp(u *ast.UnaryOp) string {
	operand := e.EmitExpr(u.Operand)
	switch u.Op {
	case ast.OpUSub:
		return fmt.Sprintf("(-%s)", operand)
	case ast.OpUAdd:
		return operand
	case ast.OpNot:
		return fmt.Sprintf("(!%s)", e.truthy(u.Operand))
	case ast.OpInvert:
		return fmt.Sprintf("(~%s)", operand)
	default:
		e.unsupported("emitter.expr.unary", u)
		return operand
	}
}

func (e *Emitter) emitBinOp(b *ast.BinOp) string {
	if v, ok := comptime.Eval(b); ok && v.IsEmittable() {
		return comptimeLiteral(v)
	}
	left := e.EmitExpr(b.Left)
	right := e.EmitExpr(b.Right)
	lt := e.Types.InferExpr(b.Left)
	rt := e.Types.InferExpr(b.Right)

	switch b.Op {
	case ast.OpAdd:
		if lt.Tag == types.TString && rt.Tag == types.TString {
			return fmt.Sprintf("rt_str_concat(%s, %s)", left, right)
		}
		if (lt.Tag == types.TList || lt.Tag == types.TArray) && (rt.Tag == types.TList || rt.Tag == types.TArray) {
			return fmt.Sprintf("rt_list_concat(%s, %s)", left, right)
		}
		return fmt.Sprintf("(%s + %s)", left, right)
	case ast.OpMul:
		if (lt.Tag == types.TList || lt.Tag == types.TArray) && rt.Tag == types.TInt {
			return fmt.Sprintf("rt_list_repeat(%s, %s)", left, right)
		}
		return fmt.Sprintf("(%s * %s)", left, right)
	case ast.OpSub:
		return fmt.Sprintf("(%s - %s)", left, right)
	case ast.OpFloorDiv:
		return fmt.Sprintf("rt_floordiv(%s, %s)", left, right)
	case ast.OpDiv:
		if lt.Tag == types.TInt && rt.Tag == types.TInt {
			return fmt.Sprintf("(@as(f64, @floatFromInt(%s)) / @as(f64, @floatFromInt(%s)))", left, right)
		}
		return fmt.Sprintf("(%s / %s)", left, right)
	case ast.OpMod:
		return fmt.Sprintf("rt_floormod(%s, %s)", left, right)
	case ast.OpPow:
		return fmt.Sprintf("rt_pow(%s, %s)", left, right)
	case ast.OpMatMul:
		return fmt.Sprintf("rt_matmul(%s, %s)", left, right)
	case ast.OpBitAnd:
		return fmt.Sprintf("(%s & %s)", left, right)
	case ast.OpBitOr:
		return fmt.Sprintf("(%s | %s)", left, right)
	case ast.OpBitXor:
		return fmt.Sprintf("(%s ^ %s)", left, right)
	case ast.OpLShift:
		return fmt.Sprintf("(%s << @as(u6, @intCast(%s)))", left, right)
	case ast.OpRShift:
		return fmt.Sprintf("(%s >> @as(u6, @intCast(%s)))", left, right)
	default:
		e.unsupported("emitter.expr.binop", b)
		return left
	}
}

func comptimeLiteral(v comptime.Value) string {
	switch v.Tag {
	case comptime.VInt:
		return fmt.Sprintf("%d", v.Int)
	case comptime.VFloat:
		return fmt.Sprintf("%g", v.Float)
	case comptime.VBool:
		if v.Bool {
			return "true"
		}
		return "false"
	default:
		return v.String()
	}
}

var cmpOperators = map[ast.CmpOp]string{
	ast.CmpEq: "==", ast.CmpNotEq: "!=", ast.CmpLt: "<", ast.CmpLtE: "<=",
	ast.CmpGt: ">", ast.CmpGtE: ">=",
}

// emitCompare folds chained comparisons into an `and` chain, evaluating
// each shared operand once via a temp binding (spec §4.5 "Comparison").
func (e *Emitter) emitCompare(c *ast.Compare) string {
	if len(c.Ops) == 1 {
		return e.emitSimpleCompare(c.Left, c.Ops[0], c.Comparators[0])
	}
	operands := make([]string, 0, len(c.Comparators)+1)
	operands = append(operands, e.EmitExpr(c.Left))
	for i, comp := range c.Comparators {
		tmp := e.Ctx.Gensym("__cmp_tmp_")
		e.Ctx.Writef("const %s = %s;", tmp, e.EmitExpr(comp))
		operands = append(operands, tmp)
		_ = i
	}
	parts := make([]string, len(c.Ops))
	for i, op := range c.Ops {
		parts[i] = fmt.Sprintf("(%s %s %s)", operands[i], e.cmpOp(op, c), operands[i+1])
	}
	return "(" + strings.Join(parts, " and ") + ")"
}

func (e *Emitter) cmpOp(op ast.CmpOp, node ast.Node) string {
	switch op {
	case ast.CmpIn:
		return "__in__"
	case ast.CmpNotIn:
		return "__not_in__"
	case ast.CmpIs:
		return "=="
	case ast.CmpIsNot:
		return "!="
	default:
		if sym, ok := cmpOperators[op]; ok {
			return sym
		}
		e.unsupported("emitter.expr.compare", node)
		return "=="
	}
}

func (e *Emitter) emitSimpleCompare(left ast.Expr, op ast.CmpOp, right ast.Expr) string {
	l := e.EmitExpr(left)
	r := e.EmitExpr(right)
	switch op {
	case ast.CmpIn:
		return fmt.Sprintf("rt_contains(%s, %s)", r, l)
	case ast.CmpNotIn:
		return fmt.Sprintf("(!rt_contains(%s, %s))", r, l)
	default:
		return fmt.Sprintf("(%s %s %s)", l, e.cmpOp(op, &ast.Compare{}), r)
	}
}

func (e *Emitter) emitBoolOp(b *ast.BoolOpExpr) string {
	sep := " and "
	if b.Op == ast.BoolOr {
		sep = " or "
	}
	parts := make([]string, len(b.Values))
	for i, v := range b.Values {
		parts[i] = e.truthy(v)
	}
	return "(" + strings.Join(parts, sep) + ")"
}

// truthy renders expr's truthiness-checked form (spec §4.5 "Truthiness").
func (e *Emitter) truthy(expr ast.Expr) string {
	code := e.EmitExpr(expr)
	t := e.Types.InferExpr(expr)
	switch t.Tag {
	case types.TBool:
		return code
	case types.TInt, types.TFloat:
		return fmt.Sprintf("(%s != 0)", code)
	case types.TString:
		return fmt.Sprintf("(%s.len != 0)", code)
	case types.TList, types.TArray, types.TDict, types.TTuple:
		return fmt.Sprintf("(rt_len(%s) != 0)", code)
	default:
		return fmt.Sprintf("rt_truthy(%s)", code)
	}
}

// emitAwait lowers `await <call>` to a submit-then-block on the modelled
// runtime scheduler (spec.md §9 "Coroutines/async", SPEC_FULL.md §C.4): the
// inner call already returns `!rt_task(T)` (emitFunctionDef's IsAsync case),
// so awaiting it blocks the calling task until the submitted one resolves.
func (e *Emitter) emitAwait(a *ast.AwaitExpr) string {
	inner := e.EmitExpr(a.Value)
	return fmt.Sprintf("(try %s.block_on(%s))", runtimeabi.AsyncScheduler, inner)
}

// emitCall resolves a call per spec §4.5's four-step order.
func (e *Emitter) emitCall(c *ast.Call) string {
	args := make([]string, len(c.Args))
	argTypes := make([]types.Type, len(c.Args))
	for i, a := range c.Args {
		args[i] = e.EmitExpr(a)
		argTypes[i] = e.Types.InferExpr(a)
	}
	callArgs := make([]builtins.Arg, len(args))
	for i := range args {
		callArgs[i] = builtins.Arg{Code: args[i], Type: argTypes[i]}
	}

	switch fn := c.Func.(type) {
	case *ast.Name:
		if entry, ok := e.Builtins.ResolveFunction(fn.Id); ok {
			code, _ := entry.Generate(builtins.CallCtx{Args: callArgs})
			return code
		}
		if e.AllocFns[fn.Id] {
			args = append(args, "alloc")
		}
		return fmt.Sprintf("%s(%s)", e.Ctx.Escape(fn.Id), strings.Join(args, ", "))
	case *ast.Attribute:
		if base, ok := fn.Value.(*ast.Name); ok {
			if _, isImport := e.Imports.Lookup(base.Id); isImport {
				if entry, ok := e.Builtins.ResolveModule(base.Id, fn.Attr); ok {
					code, _ := entry.Generate(builtins.CallCtx{Args: callArgs})
					return code
				}
				return fmt.Sprintf("%q", ".")
			}
			if module, skipped := e.Imports.OwningSkippedModule(base.Id); skipped {
				e.fail(diag.SkippedModuleReference, "emitter.call", c.Kind(), "reference to skipped module "+module)
				return "undefined"
			}
		}
		recvCode := e.EmitExpr(fn.Value)
		recvType := e.Types.InferExpr(fn.Value)
		recvArg := builtins.Arg{Code: recvCode, Type: recvType}
		if entry, ok := e.Builtins.ResolveMethod(fn.Attr); ok {
			code, _ := entry.Generate(builtins.CallCtx{Receiver: &recvArg, Args: callArgs})
			return code
		}
		allArgs := append([]string{}, args...)
		return fmt.Sprintf("%s.%s(%s)", recvCode, e.Ctx.Escape(fn.Attr), strings.Join(allArgs, ", "))
	default:
		return fmt.Sprintf("%s(%s)", e.EmitExpr(c.Func), strings.Join(args, ", "))
	}
}

// emitAttribute implements spec §4.5 "Attribute": field access, module
// dispatch, or dynamic dict fallback on Unknown.
func (e *Emitter) emitAttribute(a *ast.Attribute) string {
	if base, ok := a.Value.(*ast.Name); ok {
		if _, isImport := e.Imports.Lookup(base.Id); isImport {
			return fmt.Sprintf("%s_%s", base.Id, a.Attr)
		}
	}
	baseCode := e.EmitExpr(a.Value)
	baseType := e.Types.InferExpr(a.Value)
	if baseType.Tag == types.TUnknown {
		return fmt.Sprintf("rt_dynamic_get(%s, %q)", baseCode, a.Attr)
	}
	return fmt.Sprintf("%s.%s", baseCode, e.Ctx.Escape(a.Attr))
}

// emitSubscript implements spec §4.5 "Subscript".
func (e *Emitter) emitSubscript(s *ast.Subscript) string {
	base := e.EmitExpr(s.Value)
	baseType := e.Types.InferExpr(s.Value)

	if s.Slice != nil {
		return e.emitSlice(base, baseType, s.Slice)
	}
	idx := e.EmitExpr(s.Index)
	switch baseType.Tag {
	case types.TDict:
		return fmt.Sprintf("%s.get(%s).?", base, idx)
	case types.TArray, types.TList:
		accessor := base
		if baseType.Tag == types.TList {
			accessor = base + ".items"
		}
		return fmt.Sprintf("%s[rt_norm_index(%s, %s.len)]", accessor, idx, accessor)
	case types.TTuple:
		return fmt.Sprintf("%s.@\"%s\"", base, idx)
	default:
		return fmt.Sprintf("rt_subscript(%s, %s)", base, idx)
	}
}

// emitSlice computes Python-style clamped bounds into a labeled block
// returning a new sub-sequence (spec §4.5 "slice emits a labeled block").
func (e *Emitter) emitSlice(base string, baseType types.Type, slice *ast.SliceExpr) string {
	lower := "0"
	if slice.Lower != nil {
		lower = e.EmitExpr(slice.Lower)
	}
	upper := fmt.Sprintf("%s.len", base)
	if slice.Upper != nil {
		upper = e.EmitExpr(slice.Upper)
	}
	step := "1"
	if slice.Step != nil {
		step = e.EmitExpr(slice.Step)
	}
	accessor := base
	if baseType.Tag == types.TList {
		accessor = base + ".items"
	}
	tmp := e.Ctx.Gensym("__slice_tmp_")
	e.Ctx.Writef("const %s = rt_slice(%s, %s, %s, %s);", tmp, accessor, lower, upper, step)
	return tmp
}

func (e *Emitter) emitListLiteral(l *ast.ListExpr) string {
	t := e.Types.InferExpr(l)
	elems := make([]string, len(l.Elts))
	for i, el := range l.Elts {
		elems[i] = e.EmitExpr(el)
	}
	if t.Tag == types.TArray {
		return fmt.Sprintf("[_]%s{ %s }", t.Elem.String(), strings.Join(elems, ", "))
	}
	tmp := e.Ctx.Gensym("__list_lit_")
	e.Ctx.Writef("var %s = rt_list_init(alloc);", tmp)
	for _, el := range elems {
		e.Ctx.Writef("%s.append(%s) catch unreachable;", tmp, el)
	}
	return tmp
}

func (e *Emitter) emitTupleLiteral(tup *ast.TupleExpr) string {
	elems := make([]string, len(tup.Elts))
	for i, el := range tup.Elts {
		elems[i] = e.EmitExpr(el)
	}
	return fmt.Sprintf(".{ %s }", strings.Join(elems, ", "))
}

func (e *Emitter) emitSetLiteral(s *ast.SetExpr) string {
	tmp := e.Ctx.Gensym("__set_lit_")
	e.Ctx.Writef("var %s = rt_set_init(alloc);", tmp)
	for _, el := range s.Elts {
		e.Ctx.Writef("%s.add(%s) catch unreachable;", tmp, e.EmitExpr(el))
	}
	return tmp
}

func (e *Emitter) emitDictLiteral(d *ast.DictExpr) string {
	allConst := true
	for _, entry := range d.Entries {
		if _, ok := comptime.Eval(entry.Key); !ok {
			allConst = false
			break
		}
		if _, ok := comptime.Eval(entry.Value); !ok {
			allConst = false
			break
		}
	}
	if allConst && len(d.Entries) > 0 {
		pairs := make([]string, len(d.Entries))
		for i, entry := range d.Entries {
			pairs[i] = fmt.Sprintf(".{ %s, %s }", e.EmitExpr(entry.Key), e.EmitExpr(entry.Value))
		}
		return fmt.Sprintf("comptime rt_dict_const(.{ %s })", strings.Join(pairs, ", "))
	}
	tmp := e.Ctx.Gensym("__dict_lit_")
	e.Ctx.Writef("var %s = rt_dict_init(alloc);", tmp)
	for _, entry := range d.Entries {
		e.Ctx.Writef("%s.put(%s, %s) catch unreachable;", tmp, e.EmitExpr(entry.Key), e.EmitExpr(entry.Value))
	}
	return tmp
}

func (e *Emitter) emitComprehensionBody(containerInit, appendFmt string, elt ast.Expr, gens []ast.Comprehension, extraElt ast.Expr) string {
	tmp := e.Ctx.Gensym("__comp_tmp_")
	e.Ctx.Writef("%s", fmt.Sprintf(containerInit, tmp))
	e.emitComprehensionLoop(gens, 0, func() {
		if extraElt != nil {
			e.Ctx.Writef(appendFmt, tmp, e.EmitExpr(elt), e.EmitExpr(extraElt))
		} else {
			e.Ctx.Writef(appendFmt, tmp, e.EmitExpr(elt))
		}
	})
	return tmp
}

// emitComprehensionLoop recursively emits the nested for/if clauses a
// comprehension's generators describe, invoking body at the innermost level.
func (e *Emitter) emitComprehensionLoop(gens []ast.Comprehension, depth int, body func()) {
	if depth == len(gens) {
		body()
		return
	}
	gen := gens[depth]
	iterCode := e.EmitExpr(gen.Iter)
	iterType := e.Types.InferExpr(gen.Iter)
	accessor := iterCode
	if iterType.Tag == types.TList {
		accessor = iterCode + ".items"
	}
	targetName := "__comp_it_"
	if name, ok := gen.Target.(*ast.Name); ok {
		targetName = e.Ctx.Escape(name.Id)
	}
	e.Ctx.Writef("for (%s) |%s| {", accessor, targetName)
	e.Ctx.Indent()
	for _, ifc := range gen.Ifs {
		e.Ctx.Writef("if (!(%s)) continue;", e.truthy(ifc))
	}
	e.emitComprehensionLoop(gens, depth+1, body)
	e.Ctx.Dedent()
	e.Ctx.Writef("}")
}

func (e *Emitter) emitListComp(l *ast.ListCompExpr) string {
	return e.emitComprehensionBody("var %s = rt_list_init(alloc);", "%s.append(%s) catch unreachable;", l.Elt, l.Generators, nil)
}

func (e *Emitter) emitSetComp(s *ast.SetCompExpr) string {
	return e.emitComprehensionBody("var %s = rt_set_init(alloc);", "%s.add(%s) catch unreachable;", s.Elt, s.Generators, nil)
}

func (e *Emitter) emitDictComp(d *ast.DictCompExpr) string {
	return e.emitComprehensionBody("var %s = rt_dict_init(alloc);", "%s.put(%s, %s) catch unreachable;", d.Key, d.Generators, d.Value)
}

// emitLambda implements spec §4.5 "Lambda": captureless lambdas become free
// functions; capturing ones become a closure struct with an invoke method.
func (e *Emitter) emitLambda(l *ast.LambdaExpr) string {
	captured := e.freeNames(l.Body, l.Params)
	if len(captured) == 0 {
		name := e.Ctx.Gensym("__lambda_fn_")
		e.emitFreeFunctionBody(name, l.Params, l.Body)
		return name
	}
	structName := e.Ctx.Gensym("__closure_")
	e.Ctx.Writef("const %s = struct {", structName)
	e.Ctx.Indent()
	for _, name := range captured {
		e.Ctx.Writef("%s: @TypeOf(%s),", e.Ctx.Escape(name), e.Ctx.Escape(name))
	}
	e.Ctx.Writef("pub fn invoke(self: @This(), %s) @TypeOf(%s) {", paramList(e, l.Params), "null")
	e.Ctx.Indent()
	e.Ctx.Writef("return %s;", e.EmitExpr(l.Body))
	e.Ctx.Dedent()
	e.Ctx.Writef("}")
	e.Ctx.Dedent()
	e.Ctx.Writef("}{ %s };", capturedInit(captured, e))
	return structName
}

func capturedInit(names []string, e *Emitter) string {
	parts := make([]string, len(names))
	for i, n := range names {
		esc := e.Ctx.Escape(n)
		parts[i] = fmt.Sprintf(".%s = %s", esc, esc)
	}
	return strings.Join(parts, ", ")
}

func paramList(e *Emitter, params []ast.Param) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = e.Ctx.Escape(p.Name)
	}
	return strings.Join(parts, ", ")
}

func (e *Emitter) emitFreeFunctionBody(name string, params []ast.Param, body ast.Expr) {
	e.Ctx.Writef("fn %s(%s) @TypeOf(null) {", name, paramList(e, params))
	e.Ctx.Indent()
	e.Ctx.Writef("return %s;", e.EmitExpr(body))
	e.Ctx.Dedent()
	e.Ctx.Writef("}")
}

// freeNames returns the names lambda body references that are not among its
// own parameters, approximating the closure-capture set C2 already computed
// for declared functions (spec §4.2); lambdas are resolved locally since
// they have no stable binding name to key the analyzer's table by.
func (e *Emitter) freeNames(body ast.Expr, params []ast.Param) []string {
	local := map[string]bool{}
	for _, p := range params {
		local[p.Name] = true
	}
	seen := map[string]bool{}
	var free []string
	var walk func(expr ast.Expr)
	walk = func(expr ast.Expr) {
		switch n := expr.(type) {
		case *ast.Name:
			if !local[n.Id] && !seen[n.Id] {
				seen[n.Id] = true
				free = append(free, n.Id)
			}
		case *ast.BinOp:
			walk(n.Left)
			walk(n.Right)
		case *ast.UnaryOp:
			walk(n.Operand)
		case *ast.Call:
			walk(n.Func)
			for _, a := range n.Args {
				walk(a)
			}
		case *ast.Attribute:
			walk(n.Value)
		case *ast.IfExprExpr:
			walk(n.Test)
			walk(n.Body)
			walk(n.OrElse)
		}
	}
	walk(body)
	return free
}

func (e *Emitter) emitNamedExpr(n *ast.NamedExprExpr) string {
	value := e.EmitExpr(n.Value)
	name := e.Ctx.Escape(n.Target.Id)
	if !e.Ctx.Scope.IsDeclaredLocally(n.Target.Id) {
		e.Ctx.Scope.Declare(n.Target.Id)
		e.Types.RecordVarType(n.Target.Id, e.Types.InferExpr(n.Value))
		e.Ctx.Writef("var %s = %s;", name, value)
		return name
	}
	e.Ctx.Writef("%s = %s;", name, value)
	return name
}

// emitEllipsis implements spec §4.5 "Ellipsis": a discard so an unused
// expression statement doesn't become a rejected bare expression.
func (e *Emitter) emitEllipsis() string {
	return "{}"
}
