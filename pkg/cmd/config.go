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
package cmd

import (
	"os"

	"github.com/transpyl/transpyl/pkg/translate"
	"gopkg.in/yaml.v3"
)

// fileConfig is the `--config` YAML document shape: the translator's §6
// input bundle (runtime/inline module names, extra reserved keywords) is
// small enough to hand-edit, following SPEC_FULL.md §B's rationale for
// wiring yaml.v3 here.
type fileConfig struct {
	RuntimeModuleNames  map[string]string `yaml:"runtime_module_names"`
	InlineModuleNames   []string          `yaml:"inline_module_names"`
	ReservedKeywordsAdd []string          `yaml:"reserved_keywords_add"`
}

// loadConfig reads path (if non-empty) and overlays it onto the default
// translate.Config, returning the default unchanged when path is empty.
func loadConfig(path string) (translate.Config, error) {
	cfg := translate.Config{
		TargetLanguage:     "zig",
		RuntimeModuleNames: translate.DefaultRuntimeModuleNames(),
		InlineModuleNames:  translate.DefaultInlineModuleNames(),
		ReservedKeywords:   translate.DefaultReservedKeywords(),
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return cfg, err
	}

	for k, v := range fc.RuntimeModuleNames {
		cfg.RuntimeModuleNames[k] = v
	}
	for _, m := range fc.InlineModuleNames {
		cfg.InlineModuleNames[m] = true
	}
	for _, kw := range fc.ReservedKeywordsAdd {
		cfg.ReservedKeywords[kw] = true
	}

	return cfg, nil
}
