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
	"encoding/json"
	"fmt"
	"os"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"

	"github.com/poiesic/healthmate/core"
)

// The persisted index is two files: a MUS-encoded vector artifact at the
// given path and a JSON document sidecar at path + ".json". The sidecar is
// JSON so the corpus stays inspectable with standard tools.

type documentJSON struct {
	ID        uint64 `json:"id,omitempty"`
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	Source    string `json:"source,omitempty"`
	FocusArea string `json:"focus_area,omitempty"`
}

type metadataJSON struct {
	UseCosine bool `json:"use_cosine"`
	Dimension int  `json:"dimension"`
}

type sidecarJSON struct {
	Documents []documentJSON `json:"documents"`
	Metadata  metadataJSON   `json:"metadata"`
}

// SidecarPath returns the document sidecar path for a vector artifact path.
func SidecarPath(path string) string {
	return path + ".json"
}

// Save writes the index to disk: the vector artifact at path and the
// document sidecar at path + ".json".
func (ix *Index) Save(path string) error {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	size := ord.Bool.Size(ix.useCosine) +
		varint.Int.Size(ix.dimension) +
		varint.Int.Size(len(ix.vectors))
	if len(ix.vectors) > 0 {
		size += len(ix.vectors) * ix.dimension * raw.Float32.Size(0)
	}

	bs := make([]byte, size)
	n := ord.Bool.Marshal(ix.useCosine, bs)
	n += varint.Int.Marshal(ix.dimension, bs[n:])
	n += varint.Int.Marshal(len(ix.vectors), bs[n:])
	for _, vec := range ix.vectors {
		for _, v := range vec {
			n += raw.Float32.Marshal(v, bs[n:])
		}
	}
	if err := os.WriteFile(path, bs[:n], 0o644); err != nil {
		return fmt.Errorf("write vector artifact: %w", err)
	}

	sidecar := sidecarJSON{
		Documents: make([]documentJSON, 0, len(ix.docs)),
		Metadata:  metadataJSON{UseCosine: ix.useCosine, Dimension: ix.dimension},
	}
	for _, doc := range ix.docs {
		sidecar.Documents = append(sidecar.Documents, documentJSON{
			ID:        uint64(doc.ID),
			Question:  doc.Question,
			Answer:    doc.Answer,
			Source:    doc.Source,
			FocusArea: doc.FocusArea,
		})
	}
	data, err := json.Marshal(sidecar)
	if err != nil {
		return fmt.Errorf("encode sidecar: %w", err)
	}
	if err := os.WriteFile(SidecarPath(path), data, 0o644); err != nil {
		return fmt.Errorf("write sidecar: %w", err)
	}

	ix.logger.Info("index saved", "path", path, "documents", len(ix.docs))
	return nil
}

// Load replaces the index contents with a previously saved artifact.
// Loading the same artifact twice is idempotent.
//
// The sidecar may also be a legacy bare document array without metadata; the
// metadata then comes from the vector artifact alone. A stored dimension that
// differs from the index's returns ErrDimensionMismatch; a document count
// that differs from the vector count returns ErrCorruptIndex.
func (ix *Index) Load(path string) error {
	bs, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read vector artifact: %w", err)
	}

	useCosine, n, err := ord.Bool.Unmarshal(bs)
	if err != nil {
		return fmt.Errorf("decode vector artifact: %w", err)
	}
	dim, n1, err := varint.Int.Unmarshal(bs[n:])
	if err != nil {
		return fmt.Errorf("decode vector artifact: %w", err)
	}
	n += n1
	count, n1, err := varint.Int.Unmarshal(bs[n:])
	if err != nil {
		return fmt.Errorf("decode vector artifact: %w", err)
	}
	n += n1

	if dim != ix.dimension {
		return fmt.Errorf("%w: index is %d, artifact is %d", ErrDimensionMismatch, ix.dimension, dim)
	}
	if count < 0 {
		return fmt.Errorf("%w: negative vector count", ErrCorruptIndex)
	}

	vectors := make([][]float32, 0, count)
	for range count {
		vec := make([]float32, dim)
		for i := range vec {
			v, n1, err := raw.Float32.Unmarshal(bs[n:])
			if err != nil {
				return fmt.Errorf("decode vector artifact: %w", err)
			}
			vec[i] = v
			n += n1
		}
		vectors = append(vectors, vec)
	}

	sidecarData, err := os.ReadFile(SidecarPath(path))
	if err != nil {
		return fmt.Errorf("read sidecar: %w", err)
	}
	jsonDocs, sidecarMeta, err := decodeSidecar(sidecarData)
	if err != nil {
		return err
	}
	if sidecarMeta != nil && sidecarMeta.Dimension != 0 && sidecarMeta.Dimension != dim {
		return fmt.Errorf("%w: sidecar says %d, artifact says %d", ErrDimensionMismatch, sidecarMeta.Dimension, dim)
	}
	if len(jsonDocs) != count {
		return fmt.Errorf("%w: %d documents for %d vectors", ErrCorruptIndex, len(jsonDocs), count)
	}

	docs := make([]core.KnowledgeDocument, 0, count)
	for _, jd := range jsonDocs {
		doc := core.NewKnowledgeDocument(jd.Question, jd.Answer, jd.Source, jd.FocusArea)
		if jd.ID != 0 {
			doc.ID = core.ID(jd.ID)
		}
		docs = append(docs, doc)
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.useCosine = useCosine
	ix.vectors = vectors
	ix.docs = docs
	ix.logger.Info("index loaded", "path", path, "documents", count)
	return nil
}

// decodeSidecar accepts both sidecar shapes: the current object with metadata
// and the legacy bare document array.
func decodeSidecar(data []byte) ([]documentJSON, *metadataJSON, error) {
	var sidecar sidecarJSON
	if err := json.Unmarshal(data, &sidecar); err == nil {
		return sidecar.Documents, &sidecar.Metadata, nil
	}
	var legacy []documentJSON
	if err := json.Unmarshal(data, &legacy); err != nil {
		return nil, nil, fmt.Errorf("decode sidecar: %w", err)
	}
	return legacy, nil, nil
}
