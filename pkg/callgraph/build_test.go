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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arclens/ckb/pkg/storage"
)

// fakeEdges is a fixed caller->callee table used to drive Build without a
// real backend. main -> handle -> process -> save, with process -> handle
// forming a cycle.
type fakeEdges struct {
	byCaller map[string][]storage.CallEdge
	byCallee map[string][]storage.CallEdge
}

func newFakeEdges() *fakeEdges {
	edges := []storage.CallEdge{
		{CallerName: "main", CallerFile: "main.c", CalleeName: "handle", CallType: "direct"},
		{CallerName: "handle", CallerFile: "h.c", CalleeName: "process", CallType: "direct"},
		{CallerName: "process", CallerFile: "p.c", CalleeName: "save", CallType: "pointer"},
		{CallerName: "process", CallerFile: "p.c", CalleeName: "handle", CallType: "recursive"},
	}
	f := &fakeEdges{byCaller: map[string][]storage.CallEdge{}, byCallee: map[string][]storage.CallEdge{}}
	for _, e := range edges {
		f.byCaller[e.CallerName] = append(f.byCaller[e.CallerName], e)
		f.byCallee[e.CalleeName] = append(f.byCallee[e.CalleeName], e)
	}
	return f
}

func (f *fakeEdges) Callees(_ context.Context, _, funcName string) ([]storage.CallEdge, error) {
	return f.byCaller[funcName], nil
}

func (f *fakeEdges) Callers(_ context.Context, _, funcName string) ([]storage.CallEdge, error) {
	return f.byCallee[funcName], nil
}

func (f *fakeEdges) FunctionExists(_ context.Context, _, funcName string) (bool, error) {
	_, isCaller := f.byCaller[funcName]
	_, isCallee := f.byCallee[funcName]
	return isCaller || isCallee, nil
}

func TestBuild_CalleesFollowsForwardEdges(t *testing.T) {
	g, err := Build(context.Background(), newFakeEdges(), "demo", "main", Callees, 3)
	require.NoError(t, err)

	var names []string
	for _, n := range g.Nodes {
		names = append(names, n.Name)
	}
	assert.ElementsMatch(t, []string{"main", "handle", "process", "save"}, names)
}

func TestBuild_RespectsMaxDepth(t *testing.T) {
	g, err := Build(context.Background(), newFakeEdges(), "demo", "main", Callees, 1)
	require.NoError(t, err)

	var names []string
	for _, n := range g.Nodes {
		names = append(names, n.Name)
	}
	assert.ElementsMatch(t, []string{"main", "handle"}, names)
}

func TestBuild_CallersFollowsBackwardEdges(t *testing.T) {
	g, err := Build(context.Background(), newFakeEdges(), "demo", "save", Callers, 3)
	require.NoError(t, err)

	var names []string
	for _, n := range g.Nodes {
		names = append(names, n.Name)
	}
	assert.ElementsMatch(t, []string{"save", "process", "handle", "main"}, names)
}

func TestBuild_RootAbsentReturnsEmptyGraph(t *testing.T) {
	g, err := Build(context.Background(), newFakeEdges(), "demo", "no_such_function", Callees, 3)
	require.NoError(t, err)
	assert.Empty(t, g.Nodes)
	assert.Empty(t, g.Edges)
}

func TestMermaid_RendersNodesAndEdges(t *testing.T) {
	g, err := Build(context.Background(), newFakeEdges(), "demo", "main", Callees, 3)
	require.NoError(t, err)

	out := Mermaid(g)
	assert.Contains(t, out, "graph TD")
	assert.Contains(t, out, "classDef rootNode")
	assert.Contains(t, out, "==>|pointer|")
	assert.Contains(t, out, "-.->|recursive|")
}

func TestASCII_MarksRecursiveWithoutReExpanding(t *testing.T) {
	g, err := Build(context.Background(), newFakeEdges(), "demo", "main", Callees, 5)
	require.NoError(t, err)

	out := ASCII(g)
	assert.Contains(t, out, "handle (recursive)")
}

func TestDot_RendersRecursiveAndPointerEdges(t *testing.T) {
	g, err := Build(context.Background(), newFakeEdges(), "demo", "main", Callees, 3)
	require.NoError(t, err)

	out := Dot(g)
	assert.Contains(t, out, "digraph callgraph")
	assert.Contains(t, out, `label="recursive"`)
	assert.Contains(t, out, `label="pointer"`)
}

func TestJSON_IncludesMetadata(t *testing.T) {
	g, err := Build(context.Background(), newFakeEdges(), "demo", "main", Callees, 3)
	require.NoError(t, err)

	out, err := JSON(g)
	require.NoError(t, err)
	assert.Contains(t, out, `"format": "call_graph_json"`)
	assert.Contains(t, out, `"version": "1.0"`)
}
