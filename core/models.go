package core

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for knowledge documents.
// It is generated using content-based hashing so that re-ingesting the same
// corpus produces the same IDs.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Intent is the classifier's decision about which data sources a question needs.
type Intent string

const (
	// IntentPersonal means the question is answerable from the user's own records alone.
	IntentPersonal Intent = "PERSONAL"
	// IntentGeneric means the question needs only general medical knowledge.
	IntentGeneric Intent = "GENERIC"
	// IntentHybrid means the question needs both personal records and general knowledge.
	IntentHybrid Intent = "HYBRID"
)

// ParseIntent validates a free-text intent tag against the closed set.
// Tags are matched case-insensitively; an unknown tag returns ErrInvalidIntent.
func ParseIntent(s string) (Intent, error) {
	switch Intent(strings.ToUpper(strings.TrimSpace(s))) {
	case IntentPersonal:
		return IntentPersonal, nil
	case IntentGeneric:
		return IntentGeneric, nil
	case IntentHybrid:
		return IntentHybrid, nil
	}
	return "", ErrInvalidIntent
}

// RequiredData flags which personal-record categories a question needs.
type RequiredData struct {
	Appointments bool
	Medications  bool
	Conditions   bool
	TestResults  bool
}

// Any reports whether at least one category is flagged.
func (r RequiredData) Any() bool {
	return r.Appointments || r.Medications || r.Conditions || r.TestResults
}

// AllRequiredData returns a RequiredData with every category flagged.
// Used by the fetch-everything fallback when a classification is under-specified.
func AllRequiredData() RequiredData {
	return RequiredData{Appointments: true, Medications: true, Conditions: true, TestResults: true}
}

// Classification is the result of classifying a question: the intent plus
// the personal-record categories the answer needs.
type Classification struct {
	Intent   Intent
	Required RequiredData
}

// TestStatus tags a test result relative to its normal range.
// It is an open enum: unknown tags are normalized to lowercase but preserved.
type TestStatus string

const (
	TestStatusNormal     TestStatus = "normal"
	TestStatusBorderline TestStatus = "borderline"
	TestStatusHigh       TestStatus = "high"
)

// NormalizeTestStatus canonicalizes a free-text status tag.
func NormalizeTestStatus(s string) TestStatus {
	return TestStatus(strings.ToLower(strings.TrimSpace(s)))
}

// IsAbnormal reports whether the status indicates a result outside the normal range.
// An empty status is treated as normal.
func (s TestStatus) IsAbnormal() bool {
	return s != "" && s != TestStatusNormal
}

// User is the single demo identity all personal records belong to.
// Created once if absent, never mutated thereafter.
type User struct {
	ID        string
	Name      string
	Age       int
	CreatedAt time.Time
}

// Doctor is an independent entity referenced, not owned, by appointments.
// The name is a natural lookup key and must be unique within the store.
type Doctor struct {
	ID        string
	Name      string
	Specialty string
	Hospital  string
	Phone     string
	CreatedAt time.Time
}

// Appointment is a calendar entry belonging to exactly one user,
// optionally linked to one doctor.
type Appointment struct {
	ID        string
	UserID    string
	Date      time.Time // calendar day; time-of-day is kept separately as a string
	Time      string    // e.g. "14:30"; presence only, not validated further
	Status    string    // e.g. "scheduled", "completed"
	Location  string
	Notes     string
	DoctorID  string // empty when no doctor is linked
	CreatedAt time.Time
}

// AppointmentDetail is an appointment denormalized with the linked doctor's
// name and specialty. A missing doctor leaves both fields empty.
type AppointmentDetail struct {
	Appointment
	DoctorName      string
	DoctorSpecialty string
}

// Medication belongs to exactly one user and may treat zero or more conditions.
type Medication struct {
	ID        string
	UserID    string
	Name      string
	Dosage    string
	Frequency string
	StartDate time.Time
	Notes     string
	CreatedAt time.Time
}

// Condition is a diagnosed health condition belonging to one user.
type Condition struct {
	ID            string
	UserID        string
	Name          string
	DiagnosedDate time.Time
	Severity      string
	Notes         string
	CreatedAt     time.Time
}

// TestResult belongs to one user and is optionally produced by one appointment.
type TestResult struct {
	ID            string
	UserID        string
	AppointmentID string // empty when not ordered by an appointment
	TestName      string
	TestDate      time.Time
	Result        string
	Unit          string
	NormalRange   string
	Status        TestStatus
	CreatedAt     time.Time
}

// AppointmentNote is the outcome record of a visit, 1:1 optional per appointment.
type AppointmentNote struct {
	ID              string
	AppointmentID   string
	Summary         string
	Diagnosis       string
	Recommendations string
	FollowUp        string
	CreatedAt       time.Time
}

// KnowledgeDocument is one Q&A pair from the medical corpus.
// Immutable after ingestion; the corpus is read-only at query time.
type KnowledgeDocument struct {
	ID        ID
	Question  string
	Answer    string
	Source    string
	FocusArea string
	Text      string // composite question+answer text the embedding is computed from
}

// NewKnowledgeDocument builds a document with its composite text and content-based ID.
func NewKnowledgeDocument(question, answer, source, focusArea string) KnowledgeDocument {
	text := "Question: " + question + "\nAnswer: " + answer
	return KnowledgeDocument{
		ID:        IDFromContent(text),
		Question:  question,
		Answer:    answer,
		Source:    source,
		FocusArea: focusArea,
		Text:      text,
	}
}

// RetrievalResult is a knowledge document annotated with a similarity score
// for one query. Ephemeral, never persisted.
type RetrievalResult struct {
	Document KnowledgeDocument
	Score    float32
}

// PersonalData aggregates the per-category record fetches for one question.
// Slices are nil for categories that were not requested and empty for
// requested categories with no records.
type PersonalData struct {
	User         *User
	Appointments []AppointmentDetail
	Medications  []Medication
	Conditions   []Condition
	TestResults  []TestResult
}

// Empty reports whether no personal data of any category was retrieved.
func (p *PersonalData) Empty() bool {
	return p.User == nil && len(p.Appointments) == 0 && len(p.Medications) == 0 &&
		len(p.Conditions) == 0 && len(p.TestResults) == 0
}

// Answer is the response synthesizer's result. On boundary failure Success is
// false and Text carries a user-visible explanation; the call never fails hard.
type Answer struct {
	Text    string
	Success bool
}
