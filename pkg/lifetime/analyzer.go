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

// Package lifetime implements the mutation/lifetime analyzer (C2, spec
// §4.2): a preliminary pass over the AST that decides, per binding, whether
// it is ever reassigned or mutated, and whether it is captured by a nested
// closure.
//
// Grounded on the teacher's pkg/corset/compiler/allocation.go Register
// bookkeeping, which accumulates per-column attributes (sources, visibility)
// across a pre-pass before the schema is finally built; here the same
// accumulate-then-query shape tracks per-name mutation attributes instead of
// per-column provenance.
package lifetime

import "github.com/transpyl/transpyl/pkg/ast"

// Info accumulates the counts spec §4.2 defines for one binding.
type Info struct {
	AssignCount          int
	AugAssignCount       int
	SubscriptStoreCount  int
	AttrStoreCount       int
	MutatingArgPassCount int
	CapturedByClosure    bool
	// UseCount counts every read reference to the name: a bare `Name` node
	// appearing anywhere other than as an assignment target (spec §3's
	// Binding.is_used).
	UseCount int
}

// IsUsed implements "is_used" (spec §3): whether the binding is ever read.
// Whole-body counting rather than a flow-sensitive "after this point" check,
// consistent with IsMutated's own whole-body approximation.
func (i Info) IsUsed() bool {
	return i.UseCount > 0
}

// IsMutated implements "is_mutated is true iff any of these is >= 1 beyond
// the initial declaration" (spec §4.2). The initial declaration is the first
// Assign; so IsMutated is true when there is more than one assignment, or
// any aug-assign / subscript-store / attribute-store / mutating-arg-pass.
func (i Info) IsMutated() bool {
	return i.AssignCount > 1 ||
		i.AugAssignCount > 0 ||
		i.SubscriptStoreCount > 0 ||
		i.AttrStoreCount > 0 ||
		i.MutatingArgPassCount > 0
}

// mutatingMethods is the fixed set of built-in method names whose receiver
// is mutated by a call (spec §4.2: "passage as argument to a function
// declared to mutate its parameter (e.g. list.append)"). Kept here rather
// than in pkg/builtins because C2 must run as a pre-pass before C8's full
// dispatch table is consulted by the emitter (SPEC_FULL.md §C.1).
var mutatingMethods = map[string]bool{
	"append": true, "extend": true, "insert": true, "remove": true,
	"pop": true, "sort": true, "reverse": true, "clear": true,
	"update": true, "setdefault": true, "add": true, "discard": true,
}

// Analyzer runs the pre-pass and answers per-name queries afterward.
type Analyzer struct {
	bindings     map[string]*Info
	mutableClass map[string]bool
	closureStack []map[string]bool // names declared in each enclosing function, innermost last
	// currentClassMutated is set while walking a method body when that
	// method mutates `self` via a known-mutating method call (e.g.
	// `self.items.append(x)`); consulted by walkClassDef to mark the
	// enclosing class as mutable.
	currentClassMutated bool
}

// New constructs an empty Analyzer.
func New() *Analyzer {
	return &Analyzer{
		bindings:     make(map[string]*Info),
		mutableClass: make(map[string]bool),
	}
}

func (a *Analyzer) info(name string) *Info {
	i, ok := a.bindings[name]
	if !ok {
		i = &Info{}
		a.bindings[name] = i
	}
	return i
}

// Info returns the accumulated Info for name (zero value if never seen).
func (a *Analyzer) Info(name string) Info {
	if i, ok := a.bindings[name]; ok {
		return *i
	}
	return Info{}
}

// IsMutableClass reports whether class name was observed to mutate `self`
// fields from a method other than `__init__` (spec §4.2).
func (a *Analyzer) IsMutableClass(name string) bool {
	return a.mutableClass[name]
}

// AnalyzeModule runs the full pre-pass over a translation unit.
func (a *Analyzer) AnalyzeModule(mod *ast.Module) {
	a.walkStmts(mod.Body)
}

func (a *Analyzer) walkStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		a.walkStmt(s)
	}
}

func (a *Analyzer) walkStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.Assign:
		a.walkExpr(s.Value)
		for _, tgt := range s.Targets {
			a.walkAssignTarget(tgt)
		}
	case *ast.AugAssign:
		a.walkExpr(s.Value)
		switch t := s.Target.(type) {
		case *ast.Name:
			a.info(t.Id).AugAssignCount++
		case *ast.Subscript:
			a.walkExpr(t.Value)
			a.markSubscriptStore(t)
		case *ast.Attribute:
			a.walkExpr(t.Value)
			a.markAttrStore(t)
		}
	case *ast.If:
		a.walkExpr(s.Test)
		a.walkStmts(s.Body)
		a.walkStmts(s.OrElse)
	case *ast.While:
		a.walkExpr(s.Test)
		a.walkStmts(s.Body)
		a.walkStmts(s.OrElse)
	case *ast.For:
		a.walkExpr(s.Iter)
		a.walkAssignTarget(s.Target)
		a.walkStmts(s.Body)
		a.walkStmts(s.OrElse)
	case *ast.FunctionDef:
		a.pushClosureFrame()
		for _, p := range s.Params {
			a.markLocal(p.Name)
		}
		a.walkStmts(s.Body)
		a.popClosureFrame()
	case *ast.ClassDef:
		a.walkClassDef(s)
	case *ast.Try:
		a.walkStmts(s.Body)
		for _, h := range s.Handlers {
			if h.Name != "" {
				a.markLocal(h.Name)
			}
			a.walkStmts(h.Body)
		}
		a.walkStmts(s.OrElse)
		a.walkStmts(s.Finally)
	case *ast.With:
		for _, item := range s.Items {
			a.walkExpr(item.ContextExpr)
			if item.OptionalVar != nil {
				a.walkAssignTarget(item.OptionalVar)
			}
		}
		a.walkStmts(s.Body)
	case *ast.Raise:
		if s.Exc != nil {
			a.walkExpr(s.Exc)
		}
	case *ast.Return:
		if s.Value != nil {
			a.walkExpr(s.Value)
		}
	case *ast.Assert:
		a.walkExpr(s.Test)
		if s.Msg != nil {
			a.walkExpr(s.Msg)
		}
	case *ast.ExprStmt:
		a.walkExpr(s.Value)
	case *ast.Del:
		for _, t := range s.Targets {
			a.walkExpr(t)
		}
	}
}

func (a *Analyzer) walkAssignTarget(target ast.Expr) {
	switch t := target.(type) {
	case *ast.Name:
		a.info(t.Id).AssignCount++
		a.markLocal(t.Id)
	case *ast.TupleExpr:
		for _, e := range t.Elts {
			a.walkAssignTarget(e)
		}
	case *ast.ListExpr:
		for _, e := range t.Elts {
			a.walkAssignTarget(e)
		}
	case *ast.Subscript:
		a.walkExpr(t.Value)
		a.markSubscriptStore(t)
	case *ast.Attribute:
		a.walkExpr(t.Value)
		a.markAttrStore(t)
	}
}

func (a *Analyzer) markSubscriptStore(t *ast.Subscript) {
	if name, ok := t.Value.(*ast.Name); ok {
		a.info(name.Id).SubscriptStoreCount++
	}
}

func (a *Analyzer) markAttrStore(t *ast.Attribute) {
	if name, ok := t.Value.(*ast.Name); ok {
		a.info(name.Id).AttrStoreCount++
	}
	if recv, ok := t.Value.(*ast.Name); ok && recv.Id == "self" {
		// recorded separately per-class by walkClassDef
		_ = recv
	}
}

func (a *Analyzer) walkExpr(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.BinOp:
		a.walkExpr(e.Left)
		a.walkExpr(e.Right)
	case *ast.UnaryOp:
		a.walkExpr(e.Operand)
	case *ast.Compare:
		a.walkExpr(e.Left)
		for _, c := range e.Comparators {
			a.walkExpr(c)
		}
	case *ast.BoolOpExpr:
		for _, v := range e.Values {
			a.walkExpr(v)
		}
	case *ast.IfExprExpr:
		a.walkExpr(e.Test)
		a.walkExpr(e.Body)
		a.walkExpr(e.OrElse)
	case *ast.Call:
		a.walkCall(e)
	case *ast.Attribute:
		a.walkExpr(e.Value)
	case *ast.Subscript:
		a.walkExpr(e.Value)
		if e.Index != nil {
			a.walkExpr(e.Index)
		}
		if e.Slice != nil {
			if e.Slice.Lower != nil {
				a.walkExpr(e.Slice.Lower)
			}
			if e.Slice.Upper != nil {
				a.walkExpr(e.Slice.Upper)
			}
			if e.Slice.Step != nil {
				a.walkExpr(e.Slice.Step)
			}
		}
	case *ast.ListExpr:
		for _, el := range e.Elts {
			a.walkExpr(el)
		}
	case *ast.TupleExpr:
		for _, el := range e.Elts {
			a.walkExpr(el)
		}
	case *ast.SetExpr:
		for _, el := range e.Elts {
			a.walkExpr(el)
		}
	case *ast.DictExpr:
		for _, en := range e.Entries {
			a.walkExpr(en.Key)
			a.walkExpr(en.Value)
		}
	case *ast.ListCompExpr:
		a.walkComprehensions(e.Generators)
		a.walkExpr(e.Elt)
	case *ast.SetCompExpr:
		a.walkComprehensions(e.Generators)
		a.walkExpr(e.Elt)
	case *ast.DictCompExpr:
		a.walkComprehensions(e.Generators)
		a.walkExpr(e.Key)
		a.walkExpr(e.Value)
	case *ast.GeneratorExpExpr:
		a.walkComprehensions(e.Generators)
		a.walkExpr(e.Elt)
	case *ast.LambdaExpr:
		a.pushClosureFrame()
		for _, p := range e.Params {
			a.markLocal(p.Name)
		}
		a.walkExpr(e.Body)
		a.popClosureFrame()
	case *ast.NamedExprExpr:
		a.walkExpr(e.Value)
		a.info(e.Target.Id).AssignCount++
		a.markLocal(e.Target.Id)
	case *ast.Name:
		a.info(e.Id).UseCount++
		a.maybeMarkCapture(e.Id)
	}
}

func (a *Analyzer) walkComprehensions(gens []ast.Comprehension) {
	for _, g := range gens {
		a.walkExpr(g.Iter)
		a.walkAssignTarget(g.Target)
		for _, ifc := range g.Ifs {
			a.walkExpr(ifc)
		}
	}
}

// walkCall detects mutating method calls (spec §4.2) in addition to the
// generic sub-expression walk.
func (a *Analyzer) walkCall(c *ast.Call) {
	if attr, ok := c.Func.(*ast.Attribute); ok {
		a.walkExpr(attr.Value)
		if mutatingMethods[attr.Attr] {
			if recv, ok := attr.Value.(*ast.Name); ok {
				a.info(recv.Id).MutatingArgPassCount++
			}
			if recv, ok := attr.Value.(*ast.Name); ok && recv.Id == "self" {
				a.currentClassMutated = true
			}
		}
	} else {
		a.walkExpr(c.Func)
	}
	for _, arg := range c.Args {
		a.walkExpr(arg)
	}
	for _, kw := range c.Keywords {
		a.walkExpr(kw.Value)
	}
}

// pushClosureFrame / popClosureFrame / markLocal / maybeMarkCapture
// implement the is_captured_by_closure scan (spec §4.2): "scanning lambda
// and nested-function bodies for name references to outer scope."
func (a *Analyzer) pushClosureFrame() {
	a.closureStack = append(a.closureStack, make(map[string]bool))
}

func (a *Analyzer) popClosureFrame() {
	a.closureStack = a.closureStack[:len(a.closureStack)-1]
}

func (a *Analyzer) markLocal(name string) {
	if len(a.closureStack) > 0 {
		a.closureStack[len(a.closureStack)-1][name] = true
	}
}

func (a *Analyzer) maybeMarkCapture(name string) {
	if len(a.closureStack) == 0 {
		return
	}
	// If name is local to the innermost frame, it's not a capture.
	if a.closureStack[len(a.closureStack)-1][name] {
		return
	}
	// Otherwise it references an outer scope: mark the binding captured.
	a.info(name).CapturedByClosure = true
}

func (a *Analyzer) walkClassDef(c *ast.ClassDef) {
	for _, member := range c.Body {
		fn, ok := member.(*ast.FunctionDef)
		if !ok {
			continue
		}
		prev := a.currentClassMutated
		a.currentClassMutated = false
		a.pushClosureFrame()
		for _, p := range fn.Params {
			a.markLocal(p.Name)
		}
		a.walkStmts(fn.Body)
		a.popClosureFrame()
		if fn.Name != "__init__" && a.selfFieldAssigned(fn.Body) {
			a.mutableClass[c.Name] = true
		}
		if fn.Name != "__init__" && a.currentClassMutated {
			a.mutableClass[c.Name] = true
		}
		a.currentClassMutated = prev
	}
}

// selfFieldAssigned reports whether body contains `self.field = ...`,
// the signal spec §4.2 uses to mark a class mutable ("Class methods whose
// body contains self.field = ... mark the class as a mutable class").
func (a *Analyzer) selfFieldAssigned(body []ast.Stmt) bool {
	found := false
	var walk func(stmts []ast.Stmt)
	walk = func(stmts []ast.Stmt) {
		for _, s := range stmts {
			switch st := s.(type) {
			case *ast.Assign:
				for _, tgt := range st.Targets {
					if attr, ok := tgt.(*ast.Attribute); ok {
						if recv, ok := attr.Value.(*ast.Name); ok && recv.Id == "self" {
							found = true
						}
					}
				}
			case *ast.If:
				walk(st.Body)
				walk(st.OrElse)
			case *ast.While:
				walk(st.Body)
			case *ast.For:
				walk(st.Body)
			case *ast.Try:
				walk(st.Body)
				for _, h := range st.Handlers {
					walk(h.Body)
				}
			}
		}
	}
	walk(body)
	return found
}
