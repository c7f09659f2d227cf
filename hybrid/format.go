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


package hybrid

import (
	"fmt"
	"strings"
	"time"

	"github.com/poiesic/healthmate/dates"
)

// FormatContext renders an assembled context as the plain-text block the
// response generator is prompted with. Section order is fixed: timestamps,
// user, appointments, medications, conditions, test results, knowledge
// documents. Sections without data are omitted entirely.
func FormatContext(c *Context) string {
	today, err := dates.Parse(c.CurrentDate)
	if err != nil {
		today = dates.Today()
	}

	var parts []string
	parts = append(parts,
		"Current Date: "+c.CurrentDate,
		"Current Time: "+c.CurrentTime,
		"")

	if user := c.Personal.User; user != nil {
		parts = append(parts, "=== USER INFORMATION ===", "Name: "+user.Name)
		if user.Age > 0 {
			parts = append(parts, fmt.Sprintf("Age: %d", user.Age))
		}
		parts = append(parts, "")
	}

	if len(c.Personal.Appointments) > 0 {
		parts = append(parts, "=== USER APPOINTMENTS ===")
		for _, apt := range c.Personal.Appointments {
			when := dates.FormatFriendly(apt.Date, today)
			at := apt.Time
			if at == "" {
				at = "N/A"
			}
			parts = append(parts, "- "+when+" at "+at)
			doctor := apt.DoctorName
			if doctor == "" {
				doctor = "N/A"
			}
			parts = append(parts, "  Doctor: "+doctor)
			if apt.DoctorSpecialty != "" {
				parts = append(parts, "  Specialty: "+apt.DoctorSpecialty)
			}
			if apt.Location != "" {
				parts = append(parts, "  Location: "+apt.Location)
			}
		}
		parts = append(parts, "")
	}

	if len(c.Personal.Medications) > 0 {
		parts = append(parts, "=== USER MEDICATIONS ===")
		for _, med := range c.Personal.Medications {
			parts = append(parts, "- "+med.Name)
			if med.Dosage != "" {
				parts = append(parts, "  Dosage: "+med.Dosage)
			}
			if med.Frequency != "" {
				parts = append(parts, "  Frequency: "+med.Frequency)
			}
		}
		parts = append(parts, "")
	}

	if len(c.Personal.Conditions) > 0 {
		parts = append(parts, "=== USER HEALTH CONDITIONS ===")
		for _, cond := range c.Personal.Conditions {
			parts = append(parts, "- "+cond.Name)
			if !cond.DiagnosedDate.IsZero() {
				parts = append(parts, "  Diagnosed: "+cond.DiagnosedDate.Format(time.DateOnly))
			}
			if cond.Severity != "" {
				parts = append(parts, "  Severity: "+cond.Severity)
			}
		}
		parts = append(parts, "")
	}

	if len(c.Personal.TestResults) > 0 {
		parts = append(parts, "=== USER TEST RESULTS ===")
		for _, tr := range c.Personal.TestResults {
			parts = append(parts, "- "+tr.TestName)
			parts = append(parts, "  Date: "+tr.TestDate.Format(time.DateOnly))
			result := strings.TrimSpace(tr.Result + " " + tr.Unit)
			parts = append(parts, "  Result: "+result)
			if tr.NormalRange != "" {
				parts = append(parts, "  Normal Range: "+tr.NormalRange)
			}
			if tr.Status != "" {
				parts = append(parts, "  Status: "+strings.ToUpper(string(tr.Status)))
			}
		}
		parts = append(parts, "")
	}

	if len(c.Knowledge) > 0 {
		parts = append(parts, "=== MEDICAL KNOWLEDGE BASE ===")
		if !c.ThresholdMet {
			parts = append(parts, "Note: no documents met the relevance threshold; the nearest matches are shown instead.")
		}
		for i, result := range c.Knowledge {
			doc := result.Document
			parts = append(parts, fmt.Sprintf("\nDocument %d:", i+1))
			source := doc.Source
			if source == "" {
				source = "N/A"
			}
			topic := doc.FocusArea
			if topic == "" {
				topic = "N/A"
			}
			parts = append(parts,
				"Source: "+source,
				"Topic: "+topic,
				"Q: "+doc.Question,
				"A: "+doc.Answer,
				fmt.Sprintf("Relevance: %.3f", result.Score),
				"---")
		}
	}

	return strings.Join(parts, "\n")
}
