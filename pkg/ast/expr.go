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

// ConstKind tags the primitive literal forms a Constant expression can hold.
type ConstKind int

const (
	ConstInt ConstKind = iota
	ConstFloat
	ConstBool
	ConstString
	ConstNone
	ConstEllipsis
)

// Name references a bound identifier.
type Name struct {
	Id string
}

func (*Name) Kind() string { return "Name" }
func (*Name) exprNode()    {}

// Constant is a literal value of one of the ConstKind forms.
type Constant struct {
	ConstKind ConstKind
	Int       int64
	Float     float64
	Bool      bool
	Str       string
}

func (*Constant) Kind() string { return "Constant" }
func (*Constant) exprNode()    {}

// Operator enumerates the binary/augmented-assignment/unary operator tokens
// the core recognizes.
type Operator int

const (
	OpAdd Operator = iota
	OpSub
	OpMul
	OpDiv
	OpFloorDiv
	OpMod
	OpPow
	OpMatMul
	OpLShift
	OpRShift
	OpBitAnd
	OpBitOr
	OpBitXor
	OpUSub
	OpUAdd
	OpNot
	OpInvert
)

// CmpOp enumerates comparison operators, kept distinct from Operator because
// chained comparisons (4.5 "Comparison") fold specially.
type CmpOp int

const (
	CmpEq CmpOp = iota
	CmpNotEq
	CmpLt
	CmpLtE
	CmpGt
	CmpGtE
	CmpIn
	CmpNotIn
	CmpIs
	CmpIsNot
)

// BoolOp enumerates `and`/`or`.
type BoolOp int

const (
	BoolAnd BoolOp = iota
	BoolOr
)

// BinOp is a binary operator expression.
type BinOp struct {
	Op          Operator
	Left, Right Expr
}

func (*BinOp) Kind() string { return "BinOp" }
func (*BinOp) exprNode()    {}

// UnaryOp is a unary operator expression.
type UnaryOp struct {
	Op      Operator
	Operand Expr
}

func (*UnaryOp) Kind() string { return "UnaryOp" }
func (*UnaryOp) exprNode()    {}

// Compare is a (possibly chained) comparison: `a < b < c` carries
// Left=a, Ops=[Lt,Lt], Comparators=[b,c].
type Compare struct {
	Left        Expr
	Ops         []CmpOp
	Comparators []Expr
}

func (*Compare) Kind() string { return "Compare" }
func (*Compare) exprNode()    {}

// BoolOpExpr is a boolean `and`/`or` chain over two or more values.
type BoolOpExpr struct {
	Op     BoolOp
	Values []Expr
}

func (*BoolOpExpr) Kind() string { return "BoolOp" }
func (*BoolOpExpr) exprNode()    {}

// Keyword is a `name=value` call argument.
type Keyword struct {
	Name  string
	Value Expr
}

// Call is a function/method invocation.
type Call struct {
	Func     Expr
	Args     []Expr
	Keywords []Keyword
}

func (*Call) Kind() string { return "Call" }
func (*Call) exprNode()    {}

// Attribute is bare field/attribute access `value.attr`.
type Attribute struct {
	Value Expr
	Attr  string
}

func (*Attribute) Kind() string { return "Attribute" }
func (*Attribute) exprNode()    {}

// SliceExpr describes `a:b:c` inside a Subscript.
type SliceExpr struct {
	Lower, Upper, Step Expr // any may be nil
}

// Subscript is `value[index]` or `value[slice]`.
type Subscript struct {
	Value Expr
	Index Expr       // set when not a slice
	Slice *SliceExpr // set when a slice
}

func (*Subscript) Kind() string { return "Subscript" }
func (*Subscript) exprNode()    {}

// ListExpr is a list literal.
type ListExpr struct{ Elts []Expr }

func (*ListExpr) Kind() string { return "List" }
func (*ListExpr) exprNode()    {}

// TupleExpr is a tuple literal.
type TupleExpr struct{ Elts []Expr }

func (*TupleExpr) Kind() string { return "Tuple" }
func (*TupleExpr) exprNode()    {}

// SetExpr is a set literal.
type SetExpr struct{ Elts []Expr }

func (*SetExpr) Kind() string { return "Set" }
func (*SetExpr) exprNode()    {}

// DictEntry is one `key: value` pair of a dict literal.
type DictEntry struct{ Key, Value Expr }

// DictExpr is a dict literal.
type DictExpr struct{ Entries []DictEntry }

func (*DictExpr) Kind() string { return "Dict" }
func (*DictExpr) exprNode()    {}

// Comprehension is one `for target in iter [if cond]*` clause of a
// comprehension expression.
type Comprehension struct {
	Target Expr
	Iter   Expr
	Ifs    []Expr
}

// ListCompExpr is a list comprehension.
type ListCompExpr struct {
	Elt        Expr
	Generators []Comprehension
}

func (*ListCompExpr) Kind() string { return "ListComp" }
func (*ListCompExpr) exprNode()    {}

// SetCompExpr is a set comprehension.
type SetCompExpr struct {
	Elt        Expr
	Generators []Comprehension
}

func (*SetCompExpr) Kind() string { return "SetComp" }
func (*SetCompExpr) exprNode()    {}

// DictCompExpr is a dict comprehension.
type DictCompExpr struct {
	Key, Value Expr
	Generators []Comprehension
}

func (*DictCompExpr) Kind() string { return "DictComp" }
func (*DictCompExpr) exprNode()    {}

// GeneratorExpExpr is a generator expression `(x for x in xs)`.
type GeneratorExpExpr struct {
	Elt        Expr
	Generators []Comprehension
}

func (*GeneratorExpExpr) Kind() string { return "GeneratorExp" }
func (*GeneratorExpExpr) exprNode()    {}

// IfExprExpr is the ternary conditional expression `a if cond else b`.
type IfExprExpr struct {
	Test, Body, OrElse Expr
}

func (*IfExprExpr) Kind() string { return "IfExpr" }
func (*IfExprExpr) exprNode()    {}

// LambdaExpr is an anonymous function expression.
type LambdaExpr struct {
	Params []Param
	Body   Expr
}

func (*LambdaExpr) Kind() string { return "Lambda" }
func (*LambdaExpr) exprNode()    {}

// NamedExprExpr is the walrus assignment expression `x := e`.
type NamedExprExpr struct {
	Target *Name
	Value  Expr
}

func (*NamedExprExpr) Kind() string { return "NamedExpr" }
func (*NamedExprExpr) exprNode()    {}

// EllipsisExpr is the literal `...`.
type EllipsisExpr struct{}

func (*EllipsisExpr) Kind() string { return "Ellipsis" }
func (*EllipsisExpr) exprNode()    {}

// AwaitExpr is `await <Value>`, valid only inside an async function body
// (spec.md §9 "Coroutines/async", SPEC_FULL.md §C.4).
type AwaitExpr struct {
	Value Expr
}

func (*AwaitExpr) Kind() string { return "Await" }
func (*AwaitExpr) exprNode()    {}
