// Package openai implements the ai service interfaces against
// OpenAI-compatible APIs (OpenAI, Ollama, LocalAI, vLLM).
//
// The classifier runs at temperature 0 in JSON mode and degrades to the
// deterministic keyword fallback on any model or parse failure. The
// generator absorbs failures into degraded answers instead of errors, so
// the question pipeline never fails hard at the synthesis boundary.
package openai
