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

package orchestrator

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Checkpoint records, per file, enough state to detect whether a
// re-analysis run can skip re-parsing it.
type Checkpoint struct {
	ProjectID string               `json:"project_id"`
	Files     map[string]FileState `json:"files"`
}

// FileState is the last-seen size and modification time of one file.
type FileState struct {
	Size         int64 `json:"size"`
	LastModified int64 `json:"last_modified"`
}

// LoadCheckpoint reads a checkpoint from path, returning an empty
// Checkpoint (not an error) if the file doesn't exist yet.
func LoadCheckpoint(path string) (*Checkpoint, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Checkpoint{Files: make(map[string]FileState)}, nil
	}
	if err != nil {
		return nil, err
	}
	var cp Checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		return nil, err
	}
	if cp.Files == nil {
		cp.Files = make(map[string]FileState)
	}
	return &cp, nil
}

// Save writes the checkpoint to path atomically via a temp-file rename.
func (c *Checkpoint) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Unchanged reports whether path's recorded state matches size/modTime,
// meaning it can be skipped on an incremental run.
func (c *Checkpoint) Unchanged(path string, size, modTime int64) bool {
	state, ok := c.Files[path]
	return ok && state.Size == size && state.LastModified == modTime
}

// Record updates the checkpoint's state for path.
func (c *Checkpoint) Record(path string, size, modTime int64) {
	c.Files[path] = FileState{Size: size, LastModified: modTime}
}
