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

// exceptionTags is the closed mapping from source exception names to target
// error-set tags named in spec §4.6.5 ("a fixed mapping from source
// exception names to target error tags (e.g. ZeroDivisionError -> DivByZero)").
var exceptionTags = map[string]string{
	"ValueError":         "ValueError",
	"TypeError":          "TypeError",
	"RuntimeError":        "RuntimeError",
	"KeyError":            "KeyNotFound",
	"IndexError":          "IndexOutOfBounds",
	"ZeroDivisionError":   "DivByZero",
	"AttributeError":      "AttributeMissing",
	"NameError":           "NameUndefined",
	"FileNotFoundError":   "FileNotFound",
	"IOError":             "IoError",
	"Exception":           "GenericException",
	"StopIteration":       "StopIteration",
	"NotImplementedError": "NotImplemented",
	"AssertionError":      "AssertionFailed",
	"OverflowError":       "Overflow",
	"ImportError":         "ImportFailed",
	"OSError":             "OsError",
	"PermissionError":     "PermissionDenied",
	"TimeoutError":        "Timeout",
	"ConnectionError":     "ConnectionFailed",
	"RecursionError":      "RecursionLimit",
	"MemoryError":         "OutOfMemory",
	"LookupError":         "LookupFailed",
	"ArithmeticError":     "ArithmeticFailed",
	"BufferError":         "BufferFailed",
	"EOFError":            "EndOfFile",
	"GeneratorExit":       "GeneratorExit",
	"SystemExit":          "SystemExit",
	"KeyboardInterrupt":   "Interrupted",
}

// exceptionTag resolves name to its target error tag, reporting ok=false
// (and an empty tag) when it falls outside the closed set (spec §4.6.5); each
// caller picks its own fallback rather than aborting the translation unit.
func exceptionTag(name string) (string, bool) {
	tag, ok := exceptionTags[name]
	return tag, ok
}
