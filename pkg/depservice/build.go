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

package depservice

import (
	"context"

	"github.com/arclens/ckb/pkg/storage"
)

// DepProvider is the slice of storage.EmbeddedBackend that Build needs.
type DepProvider interface {
	FileDeps(ctx context.Context, projectID string) ([]storage.FileDepRow, error)
	ModuleDeps(ctx context.Context, projectID string) ([]storage.ModuleDepRow, error)
}

// Build loads the dependency graph at the given scope, narrowing to edges
// touching focus when focus is non-empty.
func Build(ctx context.Context, backend DepProvider, projectID string, scope Scope, focus string) (*Graph, error) {
	g := &Graph{Scope: scope, Focus: focus}

	switch scope {
	case ScopeModule:
		rows, err := backend.ModuleDeps(ctx, projectID)
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			if focus != "" && r.SourceModule != focus && r.TargetModule != focus {
				continue
			}
			g.Edges = append(g.Edges, Edge{
				Source:     r.SourceModule,
				Target:     r.TargetModule,
				IsCircular: r.IsCircular,
				Strength:   r.Strength,
			})
		}
	default:
		rows, err := backend.FileDeps(ctx, projectID)
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			if focus != "" && r.SourcePath != focus && r.TargetPath != focus {
				continue
			}
			g.Edges = append(g.Edges, Edge{
				Source:   r.SourcePath,
				Target:   r.TargetPath,
				IsSystem: r.IsSystem,
			})
		}
	}

	return g, nil
}
