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


package ai

import (
	"strings"

	"github.com/poiesic/healthmate/core"
)

// Keyword tables for the deterministic fallback classifier. Matching is
// plain lowercase substring containment.
var (
	// hybridKeywords signal the question relates personal data to general
	// knowledge. Hybrid requires a personal keyword to also match.
	hybridKeywords = []string{
		"given my", "with my", "for my", "considering my",
		"should i", "is it safe for me", "can i",
	}

	// personalKeywords signal the question is about the user's own records.
	// "my " keeps its trailing space so it does not match inside other words.
	personalKeywords = []string{"my ", "i have", "do i", "am i"}

	appointmentKeywords = []string{"appointment", "doctor", "visit"}
	medicationKeywords  = []string{"medication", "medicine", "drug", "pill"}
	conditionKeywords   = []string{"condition", "disease", "diagnosis", "diabetes"}
	testResultKeywords  = []string{"test", "result", "lab", "blood pressure reading"}
)

// FallbackClassify classifies a question by keyword matching alone. It is
// fully deterministic and never fails, which makes it the degradation path
// for LLM-backed classifiers and a usable offline classifier on its own.
//
// A question is HYBRID when it matches both a hybrid and a personal keyword,
// PERSONAL when it matches only a personal keyword, and GENERIC otherwise.
// Data categories are flagged by their own keyword lists; a PERSONAL or
// HYBRID question that flags no category gets every category, since fetching
// everything beats answering from nothing.
func FallbackClassify(question string) core.Classification {
	q := strings.ToLower(question)

	hasPersonal := containsAny(q, personalKeywords)
	hasHybrid := containsAny(q, hybridKeywords)

	var intent core.Intent
	switch {
	case hasHybrid && hasPersonal:
		intent = core.IntentHybrid
	case hasPersonal:
		intent = core.IntentPersonal
	default:
		intent = core.IntentGeneric
	}

	required := core.RequiredData{
		Appointments: containsAny(q, appointmentKeywords),
		Medications:  containsAny(q, medicationKeywords),
		Conditions:   containsAny(q, conditionKeywords),
		TestResults:  containsAny(q, testResultKeywords),
	}
	if intent != core.IntentGeneric && !required.Any() {
		required = core.AllRequiredData()
	}

	return core.Classification{Intent: intent, Required: required}
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
