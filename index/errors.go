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

import "errors"

var (
	// ErrInvalidDimension indicates a non-positive embedding dimension.
	ErrInvalidDimension = errors.New("embedding dimension must be positive")

	// ErrDimensionMismatch indicates a vector whose dimension does not match
	// the index, or a persisted artifact whose metadata disagrees with its data.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrCountMismatch indicates Add was called with differing document and
	// vector counts.
	ErrCountMismatch = errors.New("document and vector counts differ")

	// ErrCorruptIndex indicates a persisted index whose parts disagree,
	// e.g. sidecar document count differing from stored vector count.
	ErrCorruptIndex = errors.New("corrupt index artifact")
)
