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

// Package types implements the inferred-type lattice (spec §3 "Inferred
// type") and the expression/statement type inferrer (C1, spec §4.1).
//
// Grounded on the teacher's pkg/corset/compiler/typing.go typeChecker, which
// walks a declaration tree assigning a schema.Type to every expression and
// caching per-symbol bindings; this package plays the same role but targets
// the richer, dynamically-sourced lattice spec.md §3 describes rather than
// the teacher's fixed-width field-element types.
package types

import "fmt"

// Tag distinguishes the cases of the Type lattice.
type Tag int

const (
	TInt Tag = iota
	TFloat
	TBool
	TString
	TNone
	TList
	TArray
	TTuple
	TDict
	TClassInstance
	TClosure
	TUnknown
)

// Type is a tagged variant over the lattice described in spec §3. It is a
// plain value (not an interface) so it can be copied freely between the
// inferrer's memo table and variable bindings. Its Fields slice makes it
// non-comparable with `==`; use Equal.
type Type struct {
	Tag Tag
	// Elem is the element type for List/Array, the value type is held
	// separately for Dict (see Key/Value below).
	Elem *Type
	// Len is the fixed length of an Array.
	Len int
	// Fields holds the member types of a Tuple, in order.
	Fields []Type
	// Key/Value hold the key/value types of a Dict.
	Key, Value *Type
	// ClassName names the class of a ClassInstance.
	ClassName string
	// ClosureId identifies a Closure's synthesized struct, assigned by
	// the emitter the first time a given lambda/nested-function needs
	// one (spec §4.5 "Lambda").
	ClosureId int
}

// Unknown is the escape-hatch type for values whose static type cannot be
// determined (spec §3).
var Unknown = Type{Tag: TUnknown}

// Int, Float, Bool, String and None are the scalar primitive types.
var (
	Int    = Type{Tag: TInt}
	Float  = Type{Tag: TFloat}
	Bool   = Type{Tag: TBool}
	String = Type{Tag: TString}
	None   = Type{Tag: TNone}
)

// List constructs List(elem).
func List(elem Type) Type { return Type{Tag: TList, Elem: &elem} }

// Array constructs Array(elem, n).
func Array(elem Type, n int) Type { return Type{Tag: TArray, Elem: &elem, Len: n} }

// Tuple constructs Tuple(fields...).
func Tuple(fields ...Type) Type { return Type{Tag: TTuple, Fields: fields} }

// Dict constructs Dict(key, value).
func Dict(key, value Type) Type { return Type{Tag: TDict, Key: &key, Value: &value} }

// ClassInstance constructs ClassInstance(name).
func ClassInstance(name string) Type { return Type{Tag: TClassInstance, ClassName: name} }

// Closure constructs Closure(id).
func Closure(id int) Type { return Type{Tag: TClosure, ClosureId: id} }

// IsPrimitive reports whether t is one of Int/Float/Bool/String/None — the
// cases that can be a compile-time constant's static type.
func (t Type) IsPrimitive() bool {
	switch t.Tag {
	case TInt, TFloat, TBool, TString, TNone:
		return true
	default:
		return false
	}
}

// IsNumeric reports whether t is Int or Float.
func (t Type) IsNumeric() bool {
	return t.Tag == TInt || t.Tag == TFloat
}

// IsCollection reports whether t is a List, Array, Tuple or Dict — the cases
// whose emitted binding never carries a type annotation (spec §4.6.1 step 5:
// "Type annotation is omitted for collection and closure types").
func (t Type) IsCollection() bool {
	switch t.Tag {
	case TList, TArray, TTuple, TDict:
		return true
	default:
		return false
	}
}

// Equal performs a structural comparison, since Type embeds pointers and
// slices and so is not comparable with plain `==` in the general case.
func (t Type) Equal(o Type) bool {
	if t.Tag != o.Tag {
		return false
	}
	switch t.Tag {
	case TList, TArray:
		if t.Tag == TArray && t.Len != o.Len {
			return false
		}
		return elemEqual(t.Elem, o.Elem)
	case TTuple:
		if len(t.Fields) != len(o.Fields) {
			return false
		}
		for i := range t.Fields {
			if !t.Fields[i].Equal(o.Fields[i]) {
				return false
			}
		}
		return true
	case TDict:
		return elemEqual(t.Key, o.Key) && elemEqual(t.Value, o.Value)
	case TClassInstance:
		return t.ClassName == o.ClassName
	case TClosure:
		return t.ClosureId == o.ClosureId
	default:
		return true
	}
}

func elemEqual(a, b *Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// String renders a debug/comment-friendly rendition of the type, used in
// UnsupportedConstruct placeholder comments and test failure messages.
func (t Type) String() string {
	switch t.Tag {
	case TInt:
		return "Int"
	case TFloat:
		return "Float"
	case TBool:
		return "Bool"
	case TString:
		return "String"
	case TNone:
		return "None"
	case TList:
		return fmt.Sprintf("List(%s)", t.Elem.String())
	case TArray:
		return fmt.Sprintf("Array(%s, %d)", t.Elem.String(), t.Len)
	case TTuple:
		return fmt.Sprintf("Tuple(%v)", t.Fields)
	case TDict:
		return fmt.Sprintf("Dict(%s, %s)", t.Key.String(), t.Value.String())
	case TClassInstance:
		return fmt.Sprintf("ClassInstance(%s)", t.ClassName)
	case TClosure:
		return fmt.Sprintf("Closure(%d)", t.ClosureId)
	default:
		return "Unknown"
	}
}

// Join widens two types to their least upper bound per spec §3: numeric
// widening (int/float) is permitted; anything else mismatched falls back to
// Unknown. Used when inferring a homogeneous-vs-mixed list/dict literal.
func Join(a, b Type) Type {
	if a.Equal(b) {
		return a
	}
	if a.IsNumeric() && b.IsNumeric() {
		return Float
	}
	return Unknown
}
