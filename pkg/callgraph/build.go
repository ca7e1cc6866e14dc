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

package callgraph

import (
	"context"

	"github.com/arclens/ckb/pkg/storage"
)

// maxNodesExplored bounds the BFS so a densely connected codebase can't turn
// a bounded-depth request into an unbounded one.
const maxNodesExplored = 5000

// EdgeProvider is the slice of storage.EmbeddedBackend that Build needs,
// narrowed so traversal logic can be tested without a live CozoDB instance.
type EdgeProvider interface {
	Callees(ctx context.Context, projectID, funcName string) ([]storage.CallEdge, error)
	Callers(ctx context.Context, projectID, funcName string) ([]storage.CallEdge, error)
	FunctionExists(ctx context.Context, projectID, funcName string) (bool, error)
}

// edgeSource abstracts the one query direction Build needs, so it can walk
// either callees or callers with the same traversal code.
type edgeSource func(ctx context.Context, projectID, name string) ([]storage.CallEdge, error)

// Build runs a breadth-first traversal from root up to maxDepth hops,
// following callee edges (or caller edges, if dir is Callers).
func Build(ctx context.Context, backend EdgeProvider, projectID, root string, dir Direction, maxDepth int) (*Graph, error) {
	var next edgeSource = backend.Callees
	if dir == Callers {
		next = backend.Callers
	}

	g := &Graph{Root: root, MaxDepth: maxDepth, Direction: dir, Nodes: []Node{}, Edges: []Edge{}}

	exists, err := backend.FunctionExists(ctx, projectID, root)
	if err != nil {
		return nil, err
	}
	if !exists {
		return g, nil
	}

	visited := map[string]bool{root: true}
	nodeFiles := map[string]string{}
	seenEdges := map[string]bool{}

	type frontierItem struct {
		name  string
		depth int
	}
	queue := []frontierItem{{name: root, depth: 0}}

	for len(queue) > 0 {
		if g.NodesExplored >= maxNodesExplored {
			g.LimitReached = true
			break
		}
		if ctx.Err() != nil {
			return g, ctx.Err()
		}

		cur := queue[0]
		queue = queue[1:]
		g.NodesExplored++

		if cur.depth >= maxDepth {
			continue
		}

		edges, err := next(ctx, projectID, cur.name)
		if err != nil {
			return nil, err
		}

		for _, e := range edges {
			// CallEdge.CallerName/CalleeName already read caller->callee
			// regardless of which direction we queried; Callers queries just
			// filter by callee_name instead of caller_name.
			caller, callee := e.CallerName, e.CalleeName

			edgeKey := caller + "->" + callee + "|" + e.CallType
			if !seenEdges[edgeKey] {
				seenEdges[edgeKey] = true
				g.Edges = append(g.Edges, Edge{Caller: caller, Callee: callee, CallType: e.CallType})
			}
			if caller != "" {
				nodeFiles[caller] = e.CallerFile
			}

			neighbor := callee
			if dir == Callers {
				neighbor = caller
			}
			if neighbor == "" || visited[neighbor] {
				continue
			}
			visited[neighbor] = true
			queue = append(queue, frontierItem{name: neighbor, depth: cur.depth + 1})
		}
	}

	for name := range visited {
		g.Nodes = append(g.Nodes, Node{Name: name, FilePath: nodeFiles[name]})
	}
	return g, nil
}
