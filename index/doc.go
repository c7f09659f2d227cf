// Package index provides the document vector index over the medical
// knowledge corpus.
//
// The index is flat and exact: searches scan every stored vector. At the
// corpus scale this system targets, exactness beats approximate structures
// and keeps retrieval fully deterministic. Cosine similarity over normalized
// vectors is the default; squared L2 distance is available as an option.
//
// An index round-trips through Save and Load as a MUS-encoded vector
// artifact plus a human-readable JSON document sidecar.
package index
