// Copyright 2026 Arclens
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package config loads the per-project settings file written at the root of
// an analyzed repository, ".ckb/project.yaml".
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProjectFile is the schema of .ckb/project.yaml.
type ProjectFile struct {
	ProjectID string   `yaml:"project_id"`
	Exclude   []string `yaml:"exclude,omitempty"`
	Include   []string `yaml:"include,omitempty"`
	Embedding struct {
		Provider string `yaml:"provider,omitempty"`
		Model    string `yaml:"model,omitempty"`
	} `yaml:"embedding,omitempty"`
	LLM struct {
		Provider string `yaml:"provider,omitempty"`
		Model    string `yaml:"model,omitempty"`
	} `yaml:"llm,omitempty"`
}

// RelPath is where Load/Save expect the file relative to a project root.
const RelPath = ".ckb/project.yaml"

// Load reads .ckb/project.yaml under root. Returns (nil, nil) if the file
// doesn't exist yet — callers treat an unconfigured project as using
// defaults, not as an error.
func Load(root string) (*ProjectFile, error) {
	path := filepath.Join(root, RelPath)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var pf ProjectFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &pf, nil
}

// Save writes pf to .ckb/project.yaml under root, creating the .ckb
// directory if needed.
func Save(root string, pf *ProjectFile) error {
	dir := filepath.Join(root, ".ckb")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	data, err := yaml.Marshal(pf)
	if err != nil {
		return fmt.Errorf("marshal project config: %w", err)
	}

	path := filepath.Join(root, RelPath)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
