package storage

import (
	"context"
	"time"

	"github.com/poiesic/healthmate/core"
)

// HealthRecordRepository is the personal record store: a graph-shaped set of
// per-entity accessors scoped to a user id. Implementations must be
// thread-safe and support concurrent access.
//
// Read contracts:
//   - List accessors return an empty slice (never nil) when the user has no
//     such records; only GetUser distinguishes a missing user (ErrNotFound).
//   - GetAppointments without a date filter returns only appointments on or
//     after the current day, ordered by (date, time) ascending, capped at 10.
//     With a filter it returns exact-date matches, past or future, uncapped.
//   - Appointments are denormalized with the linked doctor's name and
//     specialty; a missing doctor leaves the fields empty, it is not an error.
type HealthRecordRepository interface {
	// GetUser retrieves the user record.
	// Returns ErrNotFound if the user does not exist.
	GetUser(ctx context.Context, userID string) (*core.User, error)

	// GetAppointments retrieves the user's appointments.
	// dateFilter nil: upcoming appointments only (date >= today, today
	// inclusive), ordered by (date, time) ascending, capped at 10.
	// dateFilter set: appointments on exactly that calendar day, uncapped.
	GetAppointments(ctx context.Context, userID string, dateFilter *time.Time) ([]core.AppointmentDetail, error)

	// GetMedications retrieves the user's medications ordered by name.
	GetMedications(ctx context.Context, userID string) ([]core.Medication, error)

	// GetConditions retrieves the user's conditions ordered by name.
	GetConditions(ctx context.Context, userID string) ([]core.Condition, error)

	// GetTestResults retrieves the user's test results ordered by test date descending.
	GetTestResults(ctx context.Context, userID string) ([]core.TestResult, error)

	// GetDoctorByName finds a doctor by its unique name.
	// Returns ErrNotFound if no doctor has that name.
	GetDoctorByName(ctx context.Context, name string) (*core.Doctor, error)

	// GetAppointmentNote retrieves the note attached to an appointment.
	// Returns ErrNotFound if the appointment has no note.
	GetAppointmentNote(ctx context.Context, appointmentID string) (*core.AppointmentNote, error)

	// GetMedicationsTreating returns the user's medications linked to the
	// named condition via the treats relation.
	GetMedicationsTreating(ctx context.Context, userID, conditionName string) ([]core.Medication, error)

	// GetConditionsTreatedBy returns the user's conditions linked to the
	// named medication via the treats relation.
	GetConditionsTreatedBy(ctx context.Context, userID, medicationName string) ([]core.Condition, error)

	// CountUpcomingAppointments counts the user's appointments on or after
	// the current day. Same-day appointments count as upcoming.
	CountUpcomingAppointments(ctx context.Context, userID string) (int, error)

	// CreateUser stores the user if absent. Creating an existing user is a
	// no-op; the stored record is never mutated.
	CreateUser(ctx context.Context, user *core.User) error

	// CreateDoctor stores a doctor. The name is a natural key; a duplicate
	// name returns ErrDuplicateKey.
	CreateDoctor(ctx context.Context, doctor *core.Doctor) (*core.Doctor, error)

	// CreateAppointment stores an appointment for its user, optionally linked
	// to a doctor by name. An empty doctorName creates an unlinked
	// appointment; an unknown name returns ErrNotFound.
	CreateAppointment(ctx context.Context, apt *core.Appointment, doctorName string) (*core.Appointment, error)

	// CreateMedication stores a medication for its user.
	CreateMedication(ctx context.Context, med *core.Medication) (*core.Medication, error)

	// CreateCondition stores a condition for its user.
	CreateCondition(ctx context.Context, cond *core.Condition) (*core.Condition, error)

	// CreateTestResult stores a test result for its user, optionally produced
	// by the appointment identified by tr.AppointmentID.
	CreateTestResult(ctx context.Context, tr *core.TestResult) (*core.TestResult, error)

	// LinkMedicationToCondition creates a treats relation between every
	// medication and condition of the user whose names match. Names are not
	// unique, so multiple pairs may be linked; the number of pairs is
	// returned. Zero matches is not an error.
	LinkMedicationToCondition(ctx context.Context, userID, medicationName, conditionName string) (int, error)

	// AddAppointmentNote attaches a note to an appointment (1:1; a second
	// note for the same appointment returns ErrDuplicateKey).
	AddAppointmentNote(ctx context.Context, note *core.AppointmentNote) (*core.AppointmentNote, error)

	// Close closes the storage backend and releases resources.
	Close() error
}
