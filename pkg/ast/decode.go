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
package ast

import (
	"encoding/json"
	"fmt"
)

// DecodeModule decodes the JSON rendition of a translation unit the parser
// collaborator produces (spec §6: "parser exposes parse(source_bytes) ->
// AST"). The parser itself is out of scope (spec.md §1); this is the one
// concrete wire format this repo's CLI reads, tagging every node with a
// "kind" field matching that node's Kind() string so the decoder can
// dispatch without a schema file.
func DecodeModule(data []byte) (*Module, error) {
	var envelope struct {
		Body []json.RawMessage
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("ast: decoding module: %w", err)
	}
	body, err := decodeStmts(envelope.Body)
	if err != nil {
		return nil, err
	}
	return &Module{Body: body}, nil
}

type kindEnvelope struct {
	Kind string `json:"kind"`
}

func decodeStmts(raws []json.RawMessage) ([]Stmt, error) {
	out := make([]Stmt, len(raws))
	for i, r := range raws {
		s, err := DecodeStmt(r)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

func decodeExprs(raws []json.RawMessage) ([]Expr, error) {
	out := make([]Expr, len(raws))
	for i, r := range raws {
		e, err := DecodeExpr(r)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

// decodeOptExpr decodes a possibly-absent (`null` or omitted) expression
// field into a nil Expr rather than an error, matching the many "nil means
// absent" fields the AST package documents (Return.Value, Raise.Exc, ...).
func decodeOptExpr(raw json.RawMessage) (Expr, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	return DecodeExpr(raw)
}

// DecodeStmt decodes one statement-kind JSON object.
func DecodeStmt(raw json.RawMessage) (Stmt, error) {
	var env kindEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("ast: decoding statement: %w", err)
	}
	switch env.Kind {
	case "Assign":
		var body struct {
			Targets []json.RawMessage
			Value   json.RawMessage
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, err
		}
		targets, err := decodeExprs(body.Targets)
		if err != nil {
			return nil, err
		}
		value, err := DecodeExpr(body.Value)
		if err != nil {
			return nil, err
		}
		return &Assign{Targets: targets, Value: value}, nil
	case "AugAssign":
		var body struct {
			Target json.RawMessage
			Op     Operator
			Value  json.RawMessage
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, err
		}
		target, err := DecodeExpr(body.Target)
		if err != nil {
			return nil, err
		}
		value, err := DecodeExpr(body.Value)
		if err != nil {
			return nil, err
		}
		return &AugAssign{Target: target, Op: body.Op, Value: value}, nil
	case "If":
		var body struct {
			Test   json.RawMessage
			Body   []json.RawMessage
			OrElse []json.RawMessage
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, err
		}
		test, err := DecodeExpr(body.Test)
		if err != nil {
			return nil, err
		}
		thenBody, err := decodeStmts(body.Body)
		if err != nil {
			return nil, err
		}
		orElse, err := decodeStmts(body.OrElse)
		if err != nil {
			return nil, err
		}
		return &If{Test: test, Body: thenBody, OrElse: orElse}, nil
	case "While":
		var body struct {
			Test   json.RawMessage
			Body   []json.RawMessage
			OrElse []json.RawMessage
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, err
		}
		test, err := DecodeExpr(body.Test)
		if err != nil {
			return nil, err
		}
		loopBody, err := decodeStmts(body.Body)
		if err != nil {
			return nil, err
		}
		orElse, err := decodeStmts(body.OrElse)
		if err != nil {
			return nil, err
		}
		return &While{Test: test, Body: loopBody, OrElse: orElse}, nil
	case "For":
		var body struct {
			Target json.RawMessage
			Iter   json.RawMessage
			Body   []json.RawMessage
			OrElse []json.RawMessage
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, err
		}
		target, err := DecodeExpr(body.Target)
		if err != nil {
			return nil, err
		}
		iter, err := DecodeExpr(body.Iter)
		if err != nil {
			return nil, err
		}
		loopBody, err := decodeStmts(body.Body)
		if err != nil {
			return nil, err
		}
		orElse, err := decodeStmts(body.OrElse)
		if err != nil {
			return nil, err
		}
		return &For{Target: target, Iter: iter, Body: loopBody, OrElse: orElse}, nil
	case "FunctionDef":
		var body struct {
			Name    string
			Params  []jsonParam
			Returns *TypeExpr
			Body    []json.RawMessage
			IsAsync bool
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, err
		}
		params, err := decodeParams(body.Params)
		if err != nil {
			return nil, err
		}
		fnBody, err := decodeStmts(body.Body)
		if err != nil {
			return nil, err
		}
		return &FunctionDef{Name: body.Name, Params: params, Returns: body.Returns, Body: fnBody, IsAsync: body.IsAsync}, nil
	case "ClassDef":
		var body struct {
			Name  string
			Bases []string
			Body  []json.RawMessage
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, err
		}
		classBody, err := decodeStmts(body.Body)
		if err != nil {
			return nil, err
		}
		return &ClassDef{Name: body.Name, Bases: body.Bases, Body: classBody}, nil
	case "Try":
		var body struct {
			Body     []json.RawMessage
			Handlers []jsonExceptHandler
			OrElse   []json.RawMessage
			Finally  []json.RawMessage
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, err
		}
		tryBody, err := decodeStmts(body.Body)
		if err != nil {
			return nil, err
		}
		handlers, err := decodeExceptHandlers(body.Handlers)
		if err != nil {
			return nil, err
		}
		orElse, err := decodeStmts(body.OrElse)
		if err != nil {
			return nil, err
		}
		finally, err := decodeStmts(body.Finally)
		if err != nil {
			return nil, err
		}
		return &Try{Body: tryBody, Handlers: handlers, OrElse: orElse, Finally: finally}, nil
	case "With":
		var body struct {
			Items []jsonWithItem
			Body  []json.RawMessage
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, err
		}
		items, err := decodeWithItems(body.Items)
		if err != nil {
			return nil, err
		}
		withBody, err := decodeStmts(body.Body)
		if err != nil {
			return nil, err
		}
		return &With{Items: items, Body: withBody}, nil
	case "Raise":
		var body struct {
			Exc   json.RawMessage
			Cause json.RawMessage
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, err
		}
		exc, err := decodeOptExpr(body.Exc)
		if err != nil {
			return nil, err
		}
		cause, err := decodeOptExpr(body.Cause)
		if err != nil {
			return nil, err
		}
		return &Raise{Exc: exc, Cause: cause}, nil
	case "Return":
		var body struct{ Value json.RawMessage }
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, err
		}
		value, err := decodeOptExpr(body.Value)
		if err != nil {
			return nil, err
		}
		return &Return{Value: value}, nil
	case "Import":
		var body struct{ Module, Alias string }
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, err
		}
		return &Import{Module: body.Module, Alias: body.Alias}, nil
	case "ImportFrom":
		var body struct {
			Module string
			Names  []ImportFromName
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, err
		}
		return &ImportFrom{Module: body.Module, Names: body.Names}, nil
	case "Global":
		var body struct{ Names []string }
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, err
		}
		return &Global{Names: body.Names}, nil
	case "Del":
		var body struct{ Targets []json.RawMessage }
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, err
		}
		targets, err := decodeExprs(body.Targets)
		if err != nil {
			return nil, err
		}
		return &Del{Targets: targets}, nil
	case "Assert":
		var body struct {
			Test json.RawMessage
			Msg  json.RawMessage
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, err
		}
		test, err := DecodeExpr(body.Test)
		if err != nil {
			return nil, err
		}
		msg, err := decodeOptExpr(body.Msg)
		if err != nil {
			return nil, err
		}
		return &Assert{Test: test, Msg: msg}, nil
	case "ExprStmt":
		var body struct{ Value json.RawMessage }
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, err
		}
		value, err := DecodeExpr(body.Value)
		if err != nil {
			return nil, err
		}
		return &ExprStmt{Value: value}, nil
	case "Break":
		return &Break{}, nil
	case "Continue":
		return &Continue{}, nil
	case "Pass":
		return &Pass{}, nil
	default:
		return nil, fmt.Errorf("ast: unknown statement kind %q", env.Kind)
	}
}

// DecodeExpr decodes one expression-kind JSON object.
func DecodeExpr(raw json.RawMessage) (Expr, error) {
	var env kindEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("ast: decoding expression: %w", err)
	}
	switch env.Kind {
	case "Name":
		var body struct{ Id string }
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, err
		}
		return &Name{Id: body.Id}, nil
	case "Constant":
		var body struct {
			ConstKind ConstKind
			Int       int64
			Float     float64
			Bool      bool
			Str       string
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, err
		}
		return &Constant{ConstKind: body.ConstKind, Int: body.Int, Float: body.Float, Bool: body.Bool, Str: body.Str}, nil
	case "BinOp":
		var body struct {
			Op          Operator
			Left, Right json.RawMessage
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, err
		}
		left, err := DecodeExpr(body.Left)
		if err != nil {
			return nil, err
		}
		right, err := DecodeExpr(body.Right)
		if err != nil {
			return nil, err
		}
		return &BinOp{Op: body.Op, Left: left, Right: right}, nil
	case "UnaryOp":
		var body struct {
			Op      Operator
			Operand json.RawMessage
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, err
		}
		operand, err := DecodeExpr(body.Operand)
		if err != nil {
			return nil, err
		}
		return &UnaryOp{Op: body.Op, Operand: operand}, nil
	case "Compare":
		var body struct {
			Left        json.RawMessage
			Ops         []CmpOp
			Comparators []json.RawMessage
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, err
		}
		left, err := DecodeExpr(body.Left)
		if err != nil {
			return nil, err
		}
		comparators, err := decodeExprs(body.Comparators)
		if err != nil {
			return nil, err
		}
		return &Compare{Left: left, Ops: body.Ops, Comparators: comparators}, nil
	case "BoolOp":
		var body struct {
			Op     BoolOp
			Values []json.RawMessage
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, err
		}
		values, err := decodeExprs(body.Values)
		if err != nil {
			return nil, err
		}
		return &BoolOpExpr{Op: body.Op, Values: values}, nil
	case "Call":
		var body struct {
			Func     json.RawMessage
			Args     []json.RawMessage
			Keywords []jsonKeyword
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, err
		}
		fn, err := DecodeExpr(body.Func)
		if err != nil {
			return nil, err
		}
		args, err := decodeExprs(body.Args)
		if err != nil {
			return nil, err
		}
		keywords := make([]Keyword, len(body.Keywords))
		for i, k := range body.Keywords {
			v, err := DecodeExpr(k.Value)
			if err != nil {
				return nil, err
			}
			keywords[i] = Keyword{Name: k.Name, Value: v}
		}
		return &Call{Func: fn, Args: args, Keywords: keywords}, nil
	case "Attribute":
		var body struct {
			Value json.RawMessage
			Attr  string
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, err
		}
		value, err := DecodeExpr(body.Value)
		if err != nil {
			return nil, err
		}
		return &Attribute{Value: value, Attr: body.Attr}, nil
	case "Subscript":
		var body struct {
			Value json.RawMessage
			Index json.RawMessage
			Slice *jsonSlice
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, err
		}
		value, err := DecodeExpr(body.Value)
		if err != nil {
			return nil, err
		}
		index, err := decodeOptExpr(body.Index)
		if err != nil {
			return nil, err
		}
		slice, err := decodeSlice(body.Slice)
		if err != nil {
			return nil, err
		}
		return &Subscript{Value: value, Index: index, Slice: slice}, nil
	case "List":
		elts, err := decodeEltsEnvelope(raw)
		if err != nil {
			return nil, err
		}
		return &ListExpr{Elts: elts}, nil
	case "Tuple":
		elts, err := decodeEltsEnvelope(raw)
		if err != nil {
			return nil, err
		}
		return &TupleExpr{Elts: elts}, nil
	case "Set":
		elts, err := decodeEltsEnvelope(raw)
		if err != nil {
			return nil, err
		}
		return &SetExpr{Elts: elts}, nil
	case "Dict":
		var body struct {
			Entries []jsonDictEntry
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, err
		}
		entries := make([]DictEntry, len(body.Entries))
		for i, e := range body.Entries {
			k, err := DecodeExpr(e.Key)
			if err != nil {
				return nil, err
			}
			v, err := DecodeExpr(e.Value)
			if err != nil {
				return nil, err
			}
			entries[i] = DictEntry{Key: k, Value: v}
		}
		return &DictExpr{Entries: entries}, nil
	case "ListComp":
		var body struct {
			Elt        json.RawMessage
			Generators []jsonComprehension
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, err
		}
		elt, err := DecodeExpr(body.Elt)
		if err != nil {
			return nil, err
		}
		gens, err := decodeComprehensions(body.Generators)
		if err != nil {
			return nil, err
		}
		return &ListCompExpr{Elt: elt, Generators: gens}, nil
	case "SetComp":
		var body struct {
			Elt        json.RawMessage
			Generators []jsonComprehension
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, err
		}
		elt, err := DecodeExpr(body.Elt)
		if err != nil {
			return nil, err
		}
		gens, err := decodeComprehensions(body.Generators)
		if err != nil {
			return nil, err
		}
		return &SetCompExpr{Elt: elt, Generators: gens}, nil
	case "DictComp":
		var body struct {
			Key, Value json.RawMessage
			Generators []jsonComprehension
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, err
		}
		key, err := DecodeExpr(body.Key)
		if err != nil {
			return nil, err
		}
		value, err := DecodeExpr(body.Value)
		if err != nil {
			return nil, err
		}
		gens, err := decodeComprehensions(body.Generators)
		if err != nil {
			return nil, err
		}
		return &DictCompExpr{Key: key, Value: value, Generators: gens}, nil
	case "GeneratorExp":
		var body struct {
			Elt        json.RawMessage
			Generators []jsonComprehension
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, err
		}
		elt, err := DecodeExpr(body.Elt)
		if err != nil {
			return nil, err
		}
		gens, err := decodeComprehensions(body.Generators)
		if err != nil {
			return nil, err
		}
		return &GeneratorExpExpr{Elt: elt, Generators: gens}, nil
	case "IfExpr":
		var body struct {
			Test, Body, OrElse json.RawMessage
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, err
		}
		test, err := DecodeExpr(body.Test)
		if err != nil {
			return nil, err
		}
		thenVal, err := DecodeExpr(body.Body)
		if err != nil {
			return nil, err
		}
		elseVal, err := DecodeExpr(body.OrElse)
		if err != nil {
			return nil, err
		}
		return &IfExprExpr{Test: test, Body: thenVal, OrElse: elseVal}, nil
	case "Lambda":
		var body struct {
			Params []jsonParam
			Body   json.RawMessage
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, err
		}
		params, err := decodeParams(body.Params)
		if err != nil {
			return nil, err
		}
		lambdaBody, err := DecodeExpr(body.Body)
		if err != nil {
			return nil, err
		}
		return &LambdaExpr{Params: params, Body: lambdaBody}, nil
	case "NamedExpr":
		var body struct {
			Target Name
			Value  json.RawMessage
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, err
		}
		value, err := DecodeExpr(body.Value)
		if err != nil {
			return nil, err
		}
		target := body.Target
		return &NamedExprExpr{Target: &target, Value: value}, nil
	case "Ellipsis":
		return &EllipsisExpr{}, nil
	case "Await":
		var body struct{ Value json.RawMessage }
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, err
		}
		value, err := DecodeExpr(body.Value)
		if err != nil {
			return nil, err
		}
		return &AwaitExpr{Value: value}, nil
	default:
		return nil, fmt.Errorf("ast: unknown expression kind %q", env.Kind)
	}
}

func decodeEltsEnvelope(raw json.RawMessage) ([]Expr, error) {
	var body struct{ Elts []json.RawMessage }
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, err
	}
	return decodeExprs(body.Elts)
}

type jsonParam struct {
	Name    string
	Ann     *TypeExpr
	Default json.RawMessage
}

func decodeParams(raws []jsonParam) ([]Param, error) {
	out := make([]Param, len(raws))
	for i, p := range raws {
		def, err := decodeOptExpr(p.Default)
		if err != nil {
			return nil, err
		}
		out[i] = Param{Name: p.Name, Ann: p.Ann, Default: def}
	}
	return out, nil
}

type jsonKeyword struct {
	Name  string
	Value json.RawMessage
}

type jsonSlice struct {
	Lower, Upper, Step json.RawMessage
}

func decodeSlice(s *jsonSlice) (*SliceExpr, error) {
	if s == nil {
		return nil, nil
	}
	lower, err := decodeOptExpr(s.Lower)
	if err != nil {
		return nil, err
	}
	upper, err := decodeOptExpr(s.Upper)
	if err != nil {
		return nil, err
	}
	step, err := decodeOptExpr(s.Step)
	if err != nil {
		return nil, err
	}
	return &SliceExpr{Lower: lower, Upper: upper, Step: step}, nil
}

type jsonDictEntry struct {
	Key, Value json.RawMessage
}

type jsonComprehension struct {
	Target json.RawMessage
	Iter   json.RawMessage
	Ifs    []json.RawMessage
}

func decodeComprehensions(raws []jsonComprehension) ([]Comprehension, error) {
	out := make([]Comprehension, len(raws))
	for i, c := range raws {
		target, err := DecodeExpr(c.Target)
		if err != nil {
			return nil, err
		}
		iter, err := DecodeExpr(c.Iter)
		if err != nil {
			return nil, err
		}
		ifs, err := decodeExprs(c.Ifs)
		if err != nil {
			return nil, err
		}
		out[i] = Comprehension{Target: target, Iter: iter, Ifs: ifs}
	}
	return out, nil
}

type jsonExceptHandler struct {
	Type *string
	Name string
	Body []json.RawMessage
}

func decodeExceptHandlers(raws []jsonExceptHandler) ([]ExceptHandler, error) {
	out := make([]ExceptHandler, len(raws))
	for i, h := range raws {
		body, err := decodeStmts(h.Body)
		if err != nil {
			return nil, err
		}
		out[i] = ExceptHandler{Type: h.Type, Name: h.Name, Body: body}
	}
	return out, nil
}

type jsonWithItem struct {
	ContextExpr json.RawMessage
	OptionalVar json.RawMessage
}

func decodeWithItems(raws []jsonWithItem) ([]WithItem, error) {
	out := make([]WithItem, len(raws))
	for i, w := range raws {
		ctxExpr, err := DecodeExpr(w.ContextExpr)
		if err != nil {
			return nil, err
		}
		optVar, err := decodeOptExpr(w.OptionalVar)
		if err != nil {
			return nil, err
		}
		out[i] = WithItem{ContextExpr: ctxExpr, OptionalVar: optVar}
	}
	return out, nil
}
