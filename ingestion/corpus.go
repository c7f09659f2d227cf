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


package ingestion

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/poiesic/healthmate/core"
)

// ReadCorpus parses a medical Q&A corpus in CSV form. The header must name
// question and answer columns; source and focus_area columns are optional.
// Rows with an empty question or answer are skipped, and duplicate Q&A pairs
// are dropped by content id, so re-reading an overlapping corpus never
// yields the same document twice.
func ReadCorpus(r io.Reader) ([]core.KnowledgeDocument, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read corpus header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	qCol, qOK := cols["question"]
	aCol, aOK := cols["answer"]
	if !qOK || !aOK {
		return nil, ErrMissingColumns
	}
	sourceCol, sourceOK := cols["source"]
	focusCol, focusOK := cols["focus_area"]

	field := func(row []string, idx int, ok bool) string {
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var docs []core.KnowledgeDocument
	seen := make(map[core.ID]bool)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read corpus row: %w", err)
		}

		question := field(row, qCol, true)
		answer := field(row, aCol, true)
		if question == "" || answer == "" {
			continue
		}

		doc := core.NewKnowledgeDocument(question, answer,
			field(row, sourceCol, sourceOK),
			field(row, focusCol, focusOK))
		if seen[doc.ID] {
			continue
		}
		seen[doc.ID] = true
		docs = append(docs, doc)
	}
	return docs, nil
}

// LoadCorpus reads a corpus CSV file from disk.
func LoadCorpus(path string) ([]core.KnowledgeDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus: %w", err)
	}
	defer f.Close()
	return ReadCorpus(f)
}
