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

package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// VectorRecord is one chunk ready for the vector store: an embedding plus
// the text and metadata needed to present it as a retrieval result.
type VectorRecord struct {
	ID        string
	Embedding []float32
	Text      string
	Metadata  map[string]any
}

// UpsertChunks writes a batch of chunk embeddings into the per-project
// collection "<project_id>_<base>", creating the collection and its HNSW
// index on first use.
func (b *EmbeddedBackend) UpsertChunks(ctx context.Context, projectID, base string, dim int, records []VectorRecord) error {
	if len(records) == 0 {
		return nil
	}
	collection, err := b.EnsureChunkCollection(projectID, base, dim)
	if err != nil {
		return err
	}

	var rows []string
	for _, r := range records {
		metaJSON, err := json.Marshal(r.Metadata)
		if err != nil {
			return fmt.Errorf("marshal metadata: %w", err)
		}
		rows = append(rows, fmt.Sprintf("[%s, %s, %s, %s]", q(r.ID), vecLiteral(r.Embedding), q(r.Text), q(string(metaJSON))))
	}

	script := fmt.Sprintf(
		`?[id, embedding, text, metadata] <- [%s] :put %s { id => embedding, text, metadata }`,
		strings.Join(rows, ", "), collection,
	)
	return b.Execute(ctx, script)
}

// SimilarChunk is one nearest-neighbor search result.
type SimilarChunk struct {
	ID       string
	Text     string
	Metadata map[string]any
	Distance float64
}

// SearchSimilar performs a k-nearest-neighbor search over the per-project
// chunk collection using its HNSW index.
func (b *EmbeddedBackend) SearchSimilar(ctx context.Context, projectID, base string, query []float32, k int) ([]SimilarChunk, error) {
	collection := ChunkCollectionName(projectID, base)
	script := fmt.Sprintf(
		`?[id, text, metadata, dist] := ~%s:hnsw_idx{ id, text, metadata | query: %s, k: %d, bind_distance: dist }`,
		collection, vecLiteral(query), k,
	)
	result, err := b.Query(ctx, script)
	if err != nil {
		return nil, err
	}

	var out []SimilarChunk
	for _, row := range result.Rows {
		if len(row) != 4 {
			continue
		}
		id, _ := row[0].(string)
		text, _ := row[1].(string)
		metaStr, _ := row[2].(string)
		dist, _ := row[3].(float64)

		var metadata map[string]any
		_ = json.Unmarshal([]byte(metaStr), &metadata)

		out = append(out, SimilarChunk{ID: id, Text: text, Metadata: metadata, Distance: dist})
	}
	return out, nil
}

func vecLiteral(v []float32) string {
	parts := make([]string, len(v))
	for i, f := range v {
		parts[i] = strconv.FormatFloat(float64(f), 'g', -1, 32)
	}
	return "[" + strings.Join(parts, ",") + "]"
}
