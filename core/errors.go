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

import "errors"

// Domain validation errors
var (
	// ErrInvalidIntent indicates an intent tag outside the closed PERSONAL/GENERIC/HYBRID set.
	ErrInvalidIntent = errors.New("invalid intent")

	// ErrInvalidUser indicates a User failed validation.
	ErrInvalidUser = errors.New("invalid user")

	// ErrInvalidDoctor indicates a Doctor failed validation.
	ErrInvalidDoctor = errors.New("invalid doctor")

	// ErrInvalidAppointment indicates an Appointment failed validation.
	ErrInvalidAppointment = errors.New("invalid appointment")

	// ErrInvalidMedication indicates a Medication failed validation.
	ErrInvalidMedication = errors.New("invalid medication")

	// ErrInvalidCondition indicates a Condition failed validation.
	ErrInvalidCondition = errors.New("invalid condition")

	// ErrInvalidTestResult indicates a TestResult failed validation.
	ErrInvalidTestResult = errors.New("invalid test result")

	// ErrInvalidDocument indicates a KnowledgeDocument failed validation.
	ErrInvalidDocument = errors.New("invalid knowledge document")

	// ErrEmptyName indicates a required name field is empty.
	ErrEmptyName = errors.New("name cannot be empty")

	// ErrEmptyUserID indicates a user-owned record is missing its owner.
	ErrEmptyUserID = errors.New("user id cannot be empty")

	// ErrZeroDate indicates a required calendar date is unset.
	ErrZeroDate = errors.New("date cannot be zero")
)
