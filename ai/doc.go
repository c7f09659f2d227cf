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

// Package ai defines the AI service abstractions for healthmate: text
// embedding, question intent classification, and answer synthesis.
//
// The interfaces in this package decouple the retrieval pipeline from any
// particular AI backend. Package ai/openai implements them against
// OpenAI-compatible APIs; package ai/mock provides deterministic test
// doubles. FallbackClassify is the shared keyword classifier every
// LLM-backed classifier degrades to, so classification never becomes a hard
// failure.
package ai
