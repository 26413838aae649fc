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

// Package diag defines the error kinds the translator core distinguishes, and
// the single Error type used to report them back up the pipeline.
package diag

import "fmt"

// Kind enumerates the error kinds distinguished by the core (spec §7).
type Kind int

const (
	// InternalInconsistency is a translator bug: e.g. a rename-map double
	// insertion, or an attempt to pop an empty scope. Fatal: no partial
	// output is returned for the enclosing translation unit.
	InternalInconsistency Kind = iota
	// UnsupportedConstruct is a recognized AST form the core cannot yet
	// emit. Recovered locally: a comment placeholder is emitted and
	// translation continues.
	UnsupportedConstruct
	// SkippedModuleReference means the enclosing statement referenced a
	// module absent from the import registry; the statement is dropped
	// silently (no emitted output), but the miss is still recorded here
	// so the caller can inspect it.
	SkippedModuleReference
	// ParseFailure is propagated unchanged from the parser collaborator.
	ParseFailure
	// OutOfMemory is propagated unchanged from the runtime environment.
	OutOfMemory
)

func (k Kind) String() string {
	switch k {
	case InternalInconsistency:
		return "internal-inconsistency"
	case UnsupportedConstruct:
		return "unsupported-construct"
	case SkippedModuleReference:
		return "skipped-module-reference"
	case ParseFailure:
		return "parse-failure"
	case OutOfMemory:
		return "out-of-memory"
	default:
		return "unknown"
	}
}

// Error is a structured diagnostic raised by any component of the core. It
// carries enough context to let the CLI print a useful message without every
// component having to format its own string.
type Error struct {
	Kind Kind
	// Where names the component that raised the error, e.g. "emitter.stmt".
	Where string
	// Msg is the human-readable message.
	Msg string
	// Node, when non-empty, names the AST node kind involved (e.g. "Try",
	// "ListComp"). The AST itself is opaque to this package (§6): we only
	// ever carry its kind name, never a reference to the node.
	Node string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Node != "" {
		return fmt.Sprintf("%s: %s (%s): %s", e.Kind, e.Where, e.Node, e.Msg)
	}
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Where, e.Msg)
}

// Fatal reports whether errors of this kind should abort the current
// translation unit rather than allow recovery.
func (k Kind) Fatal() bool {
	switch k {
	case InternalInconsistency, ParseFailure, OutOfMemory:
		return true
	default:
		return false
	}
}

// New constructs a diagnostic error.
func New(kind Kind, where, msg string) *Error {
	return &Error{Kind: kind, Where: where, Msg: msg}
}

// NewNode constructs a diagnostic error tagged with the AST node kind that
// triggered it.
func NewNode(kind Kind, where, node, msg string) *Error {
	return &Error{Kind: kind, Where: where, Msg: msg, Node: node}
}
