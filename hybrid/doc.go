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

// Package hybrid assembles per-question retrieval contexts by combining the
// personal health record store with the medical knowledge index.
//
// A question is first classified as PERSONAL, GENERIC, or HYBRID. PERSONAL
// questions pull only the record categories the classification flagged;
// GENERIC questions search only the knowledge index; HYBRID questions do
// both, and enrich the search query with the user's medications, conditions,
// and abnormal test results before searching so retrieval reflects the
// user's actual situation.
//
// Retrieval failures degrade instead of aborting: each record category and
// the knowledge search fail independently, and the context carries whatever
// was successfully fetched. FormatContext renders the result as the prompt
// block handed to the response generator.
package hybrid
