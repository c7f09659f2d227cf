// Package ingestion builds the knowledge index from a medical Q&A corpus.
//
// A corpus arrives as a CSV of question/answer pairs (plus optional source
// and focus area). Documents are deduplicated by content id, embedded in
// batches on a worker pool, and added to the index. The resulting index is
// typically saved to disk once and loaded read-only at query time.
package ingestion
