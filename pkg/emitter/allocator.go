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

import "github.com/transpyl/transpyl/pkg/ast"

// allocatorNeeds is the result of computeAllocatorNeeds: which top-level
// functions need an `alloc` parameter, and whether the module's own
// top-level code needs an `alloc` binding in scope.
type allocatorNeeds struct {
	functions map[string]bool
	module    bool
}

// computeAllocatorNeeds decides need_allocator (spec §4.6.4: "true if the
// body transitively allocates heap memory") for every top-level function and
// for the translation unit's module-level code, ahead of the statement walk
// so a function's own `needsAlloc` declaration and every one of its call
// sites agree. A function needs an allocator if its declared signature is
// heap-owning (the prior, signature-only rule), if its body directly builds
// a heap-allocated value, or if it calls another top-level function that
// does - propagated to a fixed point over the call graph.
func computeAllocatorNeeds(mod *ast.Module) allocatorNeeds {
	fns := map[string]*ast.FunctionDef{}
	var moduleBody []ast.Stmt
	for _, s := range mod.Body {
		if fn, ok := s.(*ast.FunctionDef); ok {
			fns[fn.Name] = fn
			continue
		}
		moduleBody = append(moduleBody, s)
	}

	needs := make(map[string]bool, len(fns))
	calls := make(map[string][]string, len(fns))
	for name, fn := range fns {
		needs[name] = directFunctionNeedsAllocator(fn)
		calls[name] = calledFunctionNames(fn.Body)
	}

	for changed := true; changed; {
		changed = false
		for name, callees := range calls {
			if needs[name] {
				continue
			}
			for _, callee := range callees {
				if needs[callee] {
					needs[name] = true
					changed = true
					break
				}
			}
		}
	}

	moduleNeeds := bodyAllocatesDirectly(moduleBody)
	if !moduleNeeds {
		for _, callee := range calledFunctionNames(moduleBody) {
			if needs[callee] {
				moduleNeeds = true
				break
			}
		}
	}

	return allocatorNeeds{functions: needs, module: moduleNeeds}
}

// directFunctionNeedsAllocator is true when f's own signature is heap-owning
// or its body directly builds a heap-allocated value, independent of
// anything it calls.
func directFunctionNeedsAllocator(f *ast.FunctionDef) bool {
	if f.Returns != nil && bindingNeedsAllocator(typeFromAnnotation(f.Returns)) {
		return true
	}
	for _, p := range f.Params {
		if bindingNeedsAllocator(typeFromAnnotation(p.Ann)) {
			return true
		}
	}
	return bodyAllocatesDirectly(f.Body)
}

// calledFunctionNames collects every bare `name(...)` call target appearing
// anywhere in stmts, the call-graph edges computeAllocatorNeeds propagates
// allocator need across.
func calledFunctionNames(stmts []ast.Stmt) []string {
	var names []string
	walkExprsInStmts(stmts, func(e ast.Expr) {
		if call, ok := e.(*ast.Call); ok {
			if n, ok := call.Func.(*ast.Name); ok {
				names = append(names, n.Id)
			}
		}
	})
	return names
}

// bodyAllocatesDirectly walks stmts - not descending into nested function or
// class definitions, which make their own allocator decision - looking for a
// construct C6 always lowers to an `alloc`-consuming call: a list/set/dict
// literal, a comprehension, or an assignment whose value is a multi-operand
// `+` chain (spec §4.6.1 step 7). This pass runs without types, so a numeric
// `+` chain counts too, although the statement emitter routes only
// string-typed chains through its string-concatenation helper.
func bodyAllocatesDirectly(stmts []ast.Stmt) bool {
	for _, s := range stmts {
		if stmtAllocatesDirectly(s) {
			return true
		}
	}
	return false
}

func stmtAllocatesDirectly(s ast.Stmt) bool {
	switch n := s.(type) {
	case *ast.Assign:
		if concatParts, ok := flattenStringConcat(n.Value); ok && len(concatParts) > 1 {
			return true
		}
		return exprAllocates(n.Value)
	case *ast.AugAssign:
		return exprAllocates(n.Value)
	case *ast.If:
		return bodyAllocatesDirectly(n.Body) || bodyAllocatesDirectly(n.OrElse) || exprAllocates(n.Test)
	case *ast.While:
		return bodyAllocatesDirectly(n.Body) || bodyAllocatesDirectly(n.OrElse) || exprAllocates(n.Test)
	case *ast.For:
		return bodyAllocatesDirectly(n.Body) || bodyAllocatesDirectly(n.OrElse) || exprAllocates(n.Iter)
	case *ast.Try:
		if bodyAllocatesDirectly(n.Body) || bodyAllocatesDirectly(n.OrElse) || bodyAllocatesDirectly(n.Finally) {
			return true
		}
		for _, h := range n.Handlers {
			if bodyAllocatesDirectly(h.Body) {
				return true
			}
		}
		return false
	case *ast.With:
		for _, item := range n.Items {
			if exprAllocates(item.ContextExpr) {
				return true
			}
		}
		return bodyAllocatesDirectly(n.Body)
	case *ast.Return:
		return n.Value != nil && exprAllocates(n.Value)
	case *ast.ExprStmt:
		return exprAllocates(n.Value)
	case *ast.Assert:
		return exprAllocates(n.Test) || (n.Msg != nil && exprAllocates(n.Msg))
	case *ast.Raise:
		return n.Exc != nil && exprAllocates(n.Exc)
	default:
		return false
	}
}

// exprAllocates reports whether expr, or anything nested in it (other than a
// lambda body, which never receives an allocator - spec.md §C.4's async
// lowering and the signature-only allocator rule both leave lambdas out),
// contains a construct that always lowers to an alloc-consuming call.
func exprAllocates(expr ast.Expr) bool {
	found := false
	walkExpr(expr, func(e ast.Expr) {
		switch e.(type) {
		case *ast.ListExpr, *ast.SetExpr, *ast.DictExpr,
			*ast.ListCompExpr, *ast.SetCompExpr, *ast.DictCompExpr, *ast.GeneratorExpExpr:
			found = true
		}
	})
	return found
}

// walkExprsInStmts visits every expression reachable from stmts (not
// descending into nested function/class bodies) with visit.
func walkExprsInStmts(stmts []ast.Stmt, visit func(ast.Expr)) {
	for _, s := range stmts {
		switch n := s.(type) {
		case *ast.Assign:
			walkExpr(n.Value, visit)
		case *ast.AugAssign:
			walkExpr(n.Value, visit)
		case *ast.If:
			walkExpr(n.Test, visit)
			walkExprsInStmts(n.Body, visit)
			walkExprsInStmts(n.OrElse, visit)
		case *ast.While:
			walkExpr(n.Test, visit)
			walkExprsInStmts(n.Body, visit)
			walkExprsInStmts(n.OrElse, visit)
		case *ast.For:
			walkExpr(n.Iter, visit)
			walkExprsInStmts(n.Body, visit)
			walkExprsInStmts(n.OrElse, visit)
		case *ast.Try:
			walkExprsInStmts(n.Body, visit)
			walkExprsInStmts(n.OrElse, visit)
			walkExprsInStmts(n.Finally, visit)
			for _, h := range n.Handlers {
				walkExprsInStmts(h.Body, visit)
			}
		case *ast.With:
			for _, item := range n.Items {
				walkExpr(item.ContextExpr, visit)
			}
			walkExprsInStmts(n.Body, visit)
		case *ast.Return:
			if n.Value != nil {
				walkExpr(n.Value, visit)
			}
		case *ast.ExprStmt:
			walkExpr(n.Value, visit)
		case *ast.Assert:
			walkExpr(n.Test, visit)
			if n.Msg != nil {
				walkExpr(n.Msg, visit)
			}
		case *ast.Raise:
			if n.Exc != nil {
				walkExpr(n.Exc, visit)
			}
		}
	}
}

// walkExpr visits expr and every subexpression reachable from it (excluding
// a lambda's body) with visit.
func walkExpr(expr ast.Expr, visit func(ast.Expr)) {
	if expr == nil {
		return
	}
	visit(expr)
	switch n := expr.(type) {
	case *ast.BinOp:
		walkExpr(n.Left, visit)
		walkExpr(n.Right, visit)
	case *ast.UnaryOp:
		walkExpr(n.Operand, visit)
	case *ast.Compare:
		walkExpr(n.Left, visit)
		for _, c := range n.Comparators {
			walkExpr(c, visit)
		}
	case *ast.BoolOpExpr:
		for _, v := range n.Values {
			walkExpr(v, visit)
		}
	case *ast.IfExprExpr:
		walkExpr(n.Test, visit)
		walkExpr(n.Body, visit)
		walkExpr(n.OrElse, visit)
	case *ast.Call:
		walkExpr(n.Func, visit)
		for _, a := range n.Args {
			walkExpr(a, visit)
		}
		for _, kw := range n.Keywords {
			walkExpr(kw.Value, visit)
		}
	case *ast.Attribute:
		walkExpr(n.Value, visit)
	case *ast.Subscript:
		walkExpr(n.Value, visit)
		if n.Slice != nil {
			walkExpr(n.Slice.Lower, visit)
			walkExpr(n.Slice.Upper, visit)
			walkExpr(n.Slice.Step, visit)
		} else {
			walkExpr(n.Index, visit)
		}
	case *ast.ListExpr:
		for _, el := range n.Elts {
			walkExpr(el, visit)
		}
	case *ast.TupleExpr:
		for _, el := range n.Elts {
			walkExpr(el, visit)
		}
	case *ast.SetExpr:
		for _, el := range n.Elts {
			walkExpr(el, visit)
		}
	case *ast.DictExpr:
		for _, entry := range n.Entries {
			walkExpr(entry.Key, visit)
			walkExpr(entry.Value, visit)
		}
	case *ast.ListCompExpr:
		walkComprehensions(n.Generators, visit)
		walkExpr(n.Elt, visit)
	case *ast.SetCompExpr:
		walkComprehensions(n.Generators, visit)
		walkExpr(n.Elt, visit)
	case *ast.DictCompExpr:
		walkComprehensions(n.Generators, visit)
		walkExpr(n.Key, visit)
		walkExpr(n.Value, visit)
	case *ast.GeneratorExpExpr:
		walkComprehensions(n.Generators, visit)
		walkExpr(n.Elt, visit)
	case *ast.NamedExprExpr:
		walkExpr(n.Value, visit)
	case *ast.AwaitExpr:
		walkExpr(n.Value, visit)
	}
}

func walkComprehensions(gens []ast.Comprehension, visit func(ast.Expr)) {
	for _, g := range gens {
		walkExpr(g.Iter, visit)
		for _, ifc := range g.Ifs {
			walkExpr(ifc, visit)
		}
	}
}
