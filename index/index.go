// Copyright 2025 Poiesic Systems
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


package index

import (
	"log/slog"
	"math"
	"slices"
	"sync"

	"github.com/poiesic/healthmate/core"
)

// Index is a flat, exact nearest-neighbor index over knowledge documents.
//
// Every search scans all stored vectors, which is exact and predictable at
// corpus scale (thousands of documents). In cosine mode vectors are
// L2-normalized on insertion and similarity is the inner product, clamped to
// [-1, 1]; higher is better. In L2 mode the score is the squared Euclidean
// distance; lower is better.
type Index struct {
	mu        sync.RWMutex
	dimension int
	useCosine bool
	vectors   [][]float32
	docs      []core.KnowledgeDocument
	logger    *slog.Logger
}

// Option configures an Index.
type Option func(*Index)

// WithL2Distance switches scoring from cosine similarity to squared
// Euclidean distance. Results then sort ascending.
func WithL2Distance() Option {
	return func(ix *Index) { ix.useCosine = false }
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(ix *Index) {
		if logger != nil {
			ix.logger = logger
		}
	}
}

// New creates an empty index for vectors of the given dimension.
// Cosine similarity is the default metric.
func New(dimension int, opts ...Option) (*Index, error) {
	if dimension <= 0 {
		return nil, ErrInvalidDimension
	}
	ix := &Index{
		dimension: dimension,
		useCosine: true,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(ix)
	}
	return ix, nil
}

// Len returns the number of indexed documents.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.docs)
}

// Dimension returns the embedding dimension the index was created with.
func (ix *Index) Dimension() int {
	return ix.dimension
}

// Add appends documents with their embedding vectors. The two slices must
// have equal length and every vector must match the index dimension; on any
// mismatch nothing is added. Input vectors are never mutated.
func (ix *Index) Add(docs []core.KnowledgeDocument, vectors [][]float32) error {
	if len(docs) != len(vectors) {
		return ErrCountMismatch
	}
	for _, vec := range vectors {
		if len(vec) != ix.dimension {
			return ErrDimensionMismatch
		}
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	for i, vec := range vectors {
		stored := slices.Clone(vec)
		if ix.useCosine {
			normalize(stored)
		}
		ix.vectors = append(ix.vectors, stored)
		ix.docs = append(ix.docs, docs[i])
	}
	ix.logger.Debug("documents indexed", "added", len(docs), "total", len(ix.docs))
	return nil
}

// Search returns the k documents nearest to the query vector, best first.
// An empty index or k <= 0 yields an empty, non-nil slice.
func (ix *Index) Search(query []float32, k int) ([]core.RetrievalResult, error) {
	if len(query) != ix.dimension {
		return nil, ErrDimensionMismatch
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	results := []core.RetrievalResult{}
	if k <= 0 || len(ix.docs) == 0 {
		return results, nil
	}

	q := slices.Clone(query)
	if ix.useCosine {
		normalize(q)
	}

	for i, vec := range ix.vectors {
		results = append(results, core.RetrievalResult{
			Document: ix.docs[i],
			Score:    ix.score(q, vec),
		})
	}
	slices.SortStableFunc(results, func(a, b core.RetrievalResult) int {
		if ix.useCosine {
			return compareFloat(b.Score, a.Score)
		}
		return compareFloat(a.Score, b.Score)
	})
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// SearchWithThreshold returns the documents among the k nearest whose score
// passes the relevance threshold. When none pass, the plain top-k results are
// returned instead and the second return value is false, so callers can
// disclose that nothing strictly relevant was found rather than answer from
// silence.
//
// In cosine mode passing means score >= threshold; in L2 mode score <= threshold.
func (ix *Index) SearchWithThreshold(query []float32, k int, threshold float32) ([]core.RetrievalResult, bool, error) {
	results, err := ix.Search(query, k)
	if err != nil {
		return nil, false, err
	}

	passing := []core.RetrievalResult{}
	for _, r := range results {
		if ix.useCosine && r.Score >= threshold {
			passing = append(passing, r)
		} else if !ix.useCosine && r.Score <= threshold {
			passing = append(passing, r)
		}
	}
	if len(passing) == 0 {
		return results, false, nil
	}
	return passing, true, nil
}

// score computes the similarity or distance between a prepared query and a
// stored vector.
func (ix *Index) score(q, vec []float32) float32 {
	if ix.useCosine {
		var dot float32
		for i := range q {
			dot += q[i] * vec[i]
		}
		// Float drift can push a normalized dot product past the bounds.
		return min(max(dot, -1), 1)
	}
	var dist float32
	for i := range q {
		d := q[i] - vec[i]
		dist += d * d
	}
	return dist
}

// normalize scales a vector to unit length in place. Zero vectors are left
// untouched.
func normalize(vec []float32) {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return
	}
	norm := float32(math.Sqrt(sum))
	for i := range vec {
		vec[i] /= norm
	}
}

func compareFloat(a, b float32) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
