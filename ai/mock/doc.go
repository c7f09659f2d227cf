// Package mock provides deterministic test doubles for the ai service
// interfaces. Embeddings are derived from text hashes, classification
// delegates to the keyword fallback, and generation returns canned answers;
// all behaviors can be overridden per test via function fields.
package mock
