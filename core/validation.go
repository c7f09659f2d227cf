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


package core

import "fmt"

// ValidateUser validates a User according to domain rules.
//
// Validation rules:
//   - ID must not be empty
//   - Name must not be empty
func ValidateUser(user *User) error {
	if user == nil {
		return fmt.Errorf("%w: user is nil", ErrInvalidUser)
	}
	if user.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidUser, ErrEmptyUserID)
	}
	if user.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidUser, ErrEmptyName)
	}
	return nil
}

// ValidateDoctor validates a Doctor according to domain rules.
//
// Validation rules:
//   - Name must not be empty (it is the natural lookup key)
//
// NOT validated:
//   - ID (assigned by the store on create)
//   - Specialty, Hospital, Phone (optional)
func ValidateDoctor(doctor *Doctor) error {
	if doctor == nil {
		return fmt.Errorf("%w: doctor is nil", ErrInvalidDoctor)
	}
	if doctor.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDoctor, ErrEmptyName)
	}
	return nil
}

// ValidateAppointment validates an Appointment according to domain rules.
//
// Validation rules:
//   - UserID must not be empty (an appointment belongs to exactly one user)
//   - Date must not be zero
//
// NOT validated:
//   - Time (presence only per contract; any non-empty string is accepted,
//     and emptiness is tolerated for legacy records)
//   - DoctorID (optional relation)
func ValidateAppointment(apt *Appointment) error {
	if apt == nil {
		return fmt.Errorf("%w: appointment is nil", ErrInvalidAppointment)
	}
	if apt.UserID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidAppointment, ErrEmptyUserID)
	}
	if apt.Date.IsZero() {
		return fmt.Errorf("%w: %w", ErrInvalidAppointment, ErrZeroDate)
	}
	return nil
}

// ValidateMedication validates a Medication according to domain rules.
func ValidateMedication(med *Medication) error {
	if med == nil {
		return fmt.Errorf("%w: medication is nil", ErrInvalidMedication)
	}
	if med.UserID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidMedication, ErrEmptyUserID)
	}
	if med.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidMedication, ErrEmptyName)
	}
	return nil
}

// ValidateCondition validates a Condition according to domain rules.
func ValidateCondition(cond *Condition) error {
	if cond == nil {
		return fmt.Errorf("%w: condition is nil", ErrInvalidCondition)
	}
	if cond.UserID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidCondition, ErrEmptyUserID)
	}
	if cond.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidCondition, ErrEmptyName)
	}
	return nil
}

// ValidateTestResult validates a TestResult according to domain rules.
//
// The Status field is an open enum: it is normalized, not rejected, so that
// tags beyond normal/borderline/high coming from upstream data survive intact.
func ValidateTestResult(tr *TestResult) error {
	if tr == nil {
		return fmt.Errorf("%w: test result is nil", ErrInvalidTestResult)
	}
	if tr.UserID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidTestResult, ErrEmptyUserID)
	}
	if tr.TestName == "" {
		return fmt.Errorf("%w: %w", ErrInvalidTestResult, ErrEmptyName)
	}
	return nil
}

// ValidateKnowledgeDocument validates a KnowledgeDocument before indexing.
func ValidateKnowledgeDocument(doc *KnowledgeDocument) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}
	if doc.Question == "" && doc.Answer == "" {
		return fmt.Errorf("%w: question and answer both empty", ErrInvalidDocument)
	}
	return nil
}
