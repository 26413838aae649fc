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

// Package ast declares the Go representation of the input AST that the
// translator core consumes (spec §6). The parser that produces this AST is
// an external collaborator and out of scope; this package only fixes the
// shape the core recurses over.
package ast

// Node is the common marker implemented by every statement and expression
// form. Kind returns a stable name used in diagnostics (diag.Error.Node) and
// in comment placeholders emitted for unsupported constructs.
type Node interface {
	Kind() string
}

// Stmt is implemented by every statement-level AST node.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is implemented by every expression-level AST node.
type Expr interface {
	Node
	exprNode()
}

// Module is a single translation unit: an ordered sequence of top-level
// statements, mirroring a source file's body.
type Module struct {
	Body []Stmt
}

func (*Module) Kind() string { return "Module" }
