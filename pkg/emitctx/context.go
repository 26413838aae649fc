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

// Package emitctx implements the emitter context (C5, spec §4.4): the
// output buffer, indent level and helper state (gensym counters, scope
// stack, identifier escaping) threaded through every emission call.
//
// Grounded on the teacher's translator struct in
// pkg/corset/compiler/translator.go, which bundles the environment, source
// map and schema builder into one value threaded through every
// Translate* method; Context plays the analogous role for this emitter,
// bundling the output buffer, scope tracker and gensym state instead.
package emitctx

import (
	"fmt"
	"strings"

	"github.com/transpyl/transpyl/pkg/scope"
)

// Context is C5. A zero Context is not usable; construct with New.
type Context struct {
	buf    strings.Builder
	indent int

	reserved map[string]bool

	// Scope is the C4 variable tracker, threaded alongside the output
	// buffer since every emission call needs both (spec §3's Emitter
	// context attributes explicitly list "scope stack" among C5's
	// state).
	Scope *scope.Tracker

	// CurrentFunction names the function currently being emitted, used
	// by the tail-call detector (spec §3 "current function name (for
	// tail-call detection)").
	CurrentFunction string

	// InAssertRaisesContext is set while lowering a unit-test
	// `assertRaises` context manager body (spec §4.6.6).
	InAssertRaisesContext bool

	gensymCounters map[string]int
}

// New constructs a Context over the given reserved-keyword set (spec §6
// "reserved_keywords").
func New(reserved map[string]bool) *Context {
	return &Context{
		reserved:       reserved,
		Scope:          scope.New(),
		gensymCounters: make(map[string]int),
	}
}

// Bytes returns the accumulated output buffer.
func (c *Context) Bytes() []byte {
	return []byte(c.buf.String())
}

// Indent increases the indent depth by one level.
func (c *Context) Indent() { c.indent++ }

// Dedent decreases the indent depth by one level. Panics if already at zero,
// surfacing an InternalInconsistency (spec §8 "the indent depth returns to
// zero at end-of-output").
func (c *Context) Dedent() {
	if c.indent == 0 {
		panic("emitctx: dedent below zero")
	}
	c.indent--
}

// Depth reports the current indent depth, consulted by callers that need to
// assert balance at end-of-output (spec §8 property 2).
func (c *Context) Depth() int { return c.indent }

// Writef writes indented, printf-formatted output followed by a newline.
// Every statement-level emission call goes through this so indentation is
// never hand-managed at call sites.
func (c *Context) Writef(format string, args ...any) {
	c.buf.WriteString(strings.Repeat("    ", c.indent))
	fmt.Fprintf(&c.buf, format, args...)
	c.buf.WriteByte('\n')
}

// Write emits raw bytes with no indentation or trailing newline, used by the
// expression emitter to build up a single line incrementally.
func (c *Context) Write(s string) {
	c.buf.WriteString(s)
}

// WriteIndent emits the current indentation prefix with no trailing
// content, for callers assembling a statement across multiple Write calls.
func (c *Context) WriteIndent() {
	c.buf.WriteString(strings.Repeat("    ", c.indent))
}

// Newline terminates the current line.
func (c *Context) Newline() { c.buf.WriteByte('\n') }

// Escape returns name verbatim unless it collides with a target reserved
// word, in which case it returns the target's escaped form (spec §4.4:
// "the escape is a syntactic wrapper specific to the target"). This
// translator's target is a Zig-like systems language, whose escape syntax
// is `@"name"`.
func (c *Context) Escape(name string) string {
	if c.reserved[name] {
		return fmt.Sprintf("@%q", name)
	}
	return name
}

// gensym kinds named in spec §4.4.
const (
	GenTryHelper  = "__try_helper_"
	GenUnpackTmp  = "__unpack_tmp_"
	GenZipIter    = "__zip_iter_"
	GenEnumIdx    = "__enum_idx_"
	GenAttrTmp    = "__attr_tmp_"
	GenCompTmp    = "__comp_tmp_"
	GenCompareTmp = "__cmp_tmp_"
)

// Gensym returns a fresh, translation-unit-unique identifier with the given
// prefix (one of the Gen* constants, or a caller-supplied one), e.g.
// "__try_helper_0", "__try_helper_1", ... (spec §4.4).
func (c *Context) Gensym(prefix string) string {
	n := c.gensymCounters[prefix]
	c.gensymCounters[prefix] = n + 1
	return fmt.Sprintf("%s%d", prefix, n)
}
