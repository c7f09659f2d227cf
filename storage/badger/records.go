package badger

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/poiesic/healthmate/core"
	"github.com/poiesic/healthmate/dates"
	"github.com/poiesic/healthmate/storage"
)

// upcomingAppointmentCap bounds the unfiltered appointment listing.
const upcomingAppointmentCap = 10

// Repository implements storage.HealthRecordRepository for BadgerDB.
type Repository struct {
	backend *Backend
	logger  *slog.Logger
	now     func() time.Time
}

var _ storage.HealthRecordRepository = (*Repository)(nil)

// Option configures a Repository.
type Option func(*Repository)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Repository) {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
	}
}

// WithClock sets the time source used for the upcoming-appointment boundary.
// Default is time.Now. Tests use this to pin "today".
func WithClock(now func() time.Time) Option {
	return func(r *Repository) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRepository creates a new health record repository on the given backend.
func NewRepository(backend *Backend, opts ...Option) (*Repository, error) {
	if backend == nil {
		return nil, errors.New("backend required")
	}

	r := &Repository{
		backend: backend,
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Close closes the underlying backend.
func (r *Repository) Close() error {
	return r.backend.Close()
}

// getValue reads a key within a transaction.
// Returns (nil, nil) when the key does not exist.
func getValue(tx *badger.Txn, key []byte) ([]byte, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return item.ValueCopy(nil)
}

// scanPrefix visits every value under a key prefix.
func scanPrefix(tx *badger.Txn, prefix []byte, visit func(val []byte) error) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	it := tx.NewIterator(opts)
	defer it.Close()

	for it.Rewind(); it.Valid(); it.Next() {
		if err := it.Item().Value(visit); err != nil {
			return err
		}
	}
	return nil
}

// userExists reports whether a user record is present.
func userExists(tx *badger.Txn, userID string) (bool, error) {
	val, err := getValue(tx, makeUserKey(userID))
	if err != nil {
		return false, err
	}
	return val != nil, nil
}

// GetUser retrieves the user record.
func (r *Repository) GetUser(ctx context.Context, userID string) (*core.User, error) {
	var user *core.User
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		val, err := getValue(tx, makeUserKey(userID))
		if err != nil {
			return err
		}
		if val == nil {
			return storage.ErrNotFound
		}
		user, err = storage.UnmarshalUser(val)
		return err
	}, false)
	return user, err
}

// GetAppointments retrieves the user's appointments, denormalized with the
// linked doctor's name and specialty.
//
// Without a date filter only appointments on or after the current day are
// returned, ordered by (date, time) ascending and capped at 10. Same-day
// appointments count as upcoming. With a filter, exactly the appointments on
// that calendar day are returned, past ones included, uncapped.
func (r *Repository) GetAppointments(ctx context.Context, userID string, dateFilter *time.Time) ([]core.AppointmentDetail, error) {
	today := dates.Day(r.now())

	var details []core.AppointmentDetail
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		exists, err := userExists(tx, userID)
		if err != nil {
			return err
		}
		if !exists {
			return storage.ErrNotFound
		}

		var appointments []core.Appointment
		err = scanPrefix(tx, makeOwnedPrefix(appointmentPrefix, userID), func(val []byte) error {
			apt, err := storage.UnmarshalAppointment(val)
			if err != nil {
				return err
			}

			day := dates.Day(apt.Date)
			if dateFilter != nil {
				if !day.Equal(dates.Day(*dateFilter)) {
					return nil
				}
			} else if day.Before(today) {
				return nil
			}

			appointments = append(appointments, *apt)
			return nil
		})
		if err != nil {
			return err
		}

		slices.SortFunc(appointments, func(a, b core.Appointment) int {
			if c := a.Date.Compare(b.Date); c != 0 {
				return c
			}
			return strings.Compare(a.Time, b.Time)
		})
		if dateFilter == nil && len(appointments) > upcomingAppointmentCap {
			appointments = appointments[:upcomingAppointmentCap]
		}

		details = make([]core.AppointmentDetail, 0, len(appointments))
		doctors := make(map[string]*core.Doctor)
		for _, apt := range appointments {
			detail := core.AppointmentDetail{Appointment: apt}
			if apt.DoctorID != "" {
				doctor, ok := doctors[apt.DoctorID]
				if !ok {
					val, err := getValue(tx, makeDoctorKey(apt.DoctorID))
					if err != nil {
						return err
					}
					if val != nil {
						if doctor, err = storage.UnmarshalDoctor(val); err != nil {
							return err
						}
					}
					doctors[apt.DoctorID] = doctor
				}
				// A dangling doctor reference leaves the fields empty.
				if doctor != nil {
					detail.DoctorName = doctor.Name
					detail.DoctorSpecialty = doctor.Specialty
				}
			}
			details = append(details, detail)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return details, nil
}

// GetMedications retrieves the user's medications ordered by name.
func (r *Repository) GetMedications(ctx context.Context, userID string) ([]core.Medication, error) {
	meds := []core.Medication{}
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		exists, err := userExists(tx, userID)
		if err != nil {
			return err
		}
		if !exists {
			return storage.ErrNotFound
		}
		return scanPrefix(tx, makeOwnedPrefix(medicationPrefix, userID), func(val []byte) error {
			med, err := storage.UnmarshalMedication(val)
			if err != nil {
				return err
			}
			meds = append(meds, *med)
			return nil
		})
	}, false)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(meds, func(a, b core.Medication) int { return strings.Compare(a.Name, b.Name) })
	return meds, nil
}

// GetConditions retrieves the user's conditions ordered by name.
func (r *Repository) GetConditions(ctx context.Context, userID string) ([]core.Condition, error) {
	conds := []core.Condition{}
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		exists, err := userExists(tx, userID)
		if err != nil {
			return err
		}
		if !exists {
			return storage.ErrNotFound
		}
		return scanPrefix(tx, makeOwnedPrefix(conditionPrefix, userID), func(val []byte) error {
			cond, err := storage.UnmarshalCondition(val)
			if err != nil {
				return err
			}
			conds = append(conds, *cond)
			return nil
		})
	}, false)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(conds, func(a, b core.Condition) int { return strings.Compare(a.Name, b.Name) })
	return conds, nil
}

// GetTestResults retrieves the user's test results ordered by test date descending.
func (r *Repository) GetTestResults(ctx context.Context, userID string) ([]core.TestResult, error) {
	results := []core.TestResult{}
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		exists, err := userExists(tx, userID)
		if err != nil {
			return err
		}
		if !exists {
			return storage.ErrNotFound
		}
		return scanPrefix(tx, makeOwnedPrefix(testResultPrefix, userID), func(val []byte) error {
			tr, err := storage.UnmarshalTestResult(val)
			if err != nil {
				return err
			}
			results = append(results, *tr)
			return nil
		})
	}, false)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(results, func(a, b core.TestResult) int { return b.TestDate.Compare(a.TestDate) })
	return results, nil
}

// GetDoctorByName finds a doctor by its unique name.
func (r *Repository) GetDoctorByName(ctx context.Context, name string) (*core.Doctor, error) {
	var doctor *core.Doctor
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		doctor, err = doctorByName(tx, name)
		return err
	}, false)
	return doctor, err
}

func doctorByName(tx *badger.Txn, name string) (*core.Doctor, error) {
	idVal, err := getValue(tx, makeDoctorNameKey(name))
	if err != nil {
		return nil, err
	}
	if idVal == nil {
		return nil, storage.ErrNotFound
	}
	val, err := getValue(tx, makeDoctorKey(string(idVal)))
	if err != nil {
		return nil, err
	}
	if val == nil {
		return nil, storage.ErrNotFound
	}
	return storage.UnmarshalDoctor(val)
}

// GetAppointmentNote retrieves the note attached to an appointment.
func (r *Repository) GetAppointmentNote(ctx context.Context, appointmentID string) (*core.AppointmentNote, error) {
	var note *core.AppointmentNote
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		val, err := getValue(tx, makeNoteKey(appointmentID))
		if err != nil {
			return err
		}
		if val == nil {
			return storage.ErrNotFound
		}
		note, err = storage.UnmarshalAppointmentNote(val)
		return err
	}, false)
	return note, err
}

// GetMedicationsTreating returns the user's medications linked to the named
// condition via the treats relation.
func (r *Repository) GetMedicationsTreating(ctx context.Context, userID, conditionName string) ([]core.Medication, error) {
	meds := []core.Medication{}
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		condIDs, err := ownedIDsByName(tx, conditionPrefix, userID, conditionName)
		if err != nil {
			return err
		}

		seen := make(map[string]bool)
		for _, condID := range condIDs {
			err := scanPrefix(tx, makeLinkPrefix(treatsPrefix, userID, condID), func(val []byte) error {
				medID := string(val)
				if seen[medID] {
					return nil
				}
				seen[medID] = true
				medVal, err := getValue(tx, makeOwnedKey(medicationPrefix, userID, medID))
				if err != nil || medVal == nil {
					return err
				}
				med, err := storage.UnmarshalMedication(medVal)
				if err != nil {
					return err
				}
				meds = append(meds, *med)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(meds, func(a, b core.Medication) int { return strings.Compare(a.Name, b.Name) })
	return meds, nil
}

// GetConditionsTreatedBy returns the user's conditions linked to the named
// medication via the treats relation.
func (r *Repository) GetConditionsTreatedBy(ctx context.Context, userID, medicationName string) ([]core.Condition, error) {
	conds := []core.Condition{}
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		medIDs, err := ownedIDsByName(tx, medicationPrefix, userID, medicationName)
		if err != nil {
			return err
		}

		seen := make(map[string]bool)
		for _, medID := range medIDs {
			err := scanPrefix(tx, makeLinkPrefix(treatedByPrefix, userID, medID), func(val []byte) error {
				condID := string(val)
				if seen[condID] {
					return nil
				}
				seen[condID] = true
				condVal, err := getValue(tx, makeOwnedKey(conditionPrefix, userID, condID))
				if err != nil || condVal == nil {
					return err
				}
				cond, err := storage.UnmarshalCondition(condVal)
				if err != nil {
					return err
				}
				conds = append(conds, *cond)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(conds, func(a, b core.Condition) int { return strings.Compare(a.Name, b.Name) })
	return conds, nil
}

// ownedIDsByName collects the IDs of a user's medications or conditions whose
// name matches exactly. Names are not unique, so several IDs may match.
func ownedIDsByName(tx *badger.Txn, prefix, userID, name string) ([]string, error) {
	var ids []string
	err := scanPrefix(tx, makeOwnedPrefix(prefix, userID), func(val []byte) error {
		switch prefix {
		case medicationPrefix:
			med, err := storage.UnmarshalMedication(val)
			if err != nil {
				return err
			}
			if med.Name == name {
				ids = append(ids, med.ID)
			}
		case conditionPrefix:
			cond, err := storage.UnmarshalCondition(val)
			if err != nil {
				return err
			}
			if cond.Name == name {
				ids = append(ids, cond.ID)
			}
		}
		return nil
	})
	return ids, err
}

// CountUpcomingAppointments counts appointments on or after the current day.
// Same-day appointments count as upcoming.
func (r *Repository) CountUpcomingAppointments(ctx context.Context, userID string) (int, error) {
	today := dates.Day(r.now())
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		return scanPrefix(tx, makeOwnedPrefix(appointmentPrefix, userID), func(val []byte) error {
			apt, err := storage.UnmarshalAppointment(val)
			if err != nil {
				return err
			}
			if !dates.Day(apt.Date).Before(today) {
				count++
			}
			return nil
		})
	}, false)
	return count, err
}

// CreateUser stores the user if absent. Creating an existing user is a no-op.
func (r *Repository) CreateUser(ctx context.Context, user *core.User) error {
	if err := core.ValidateUser(user); err != nil {
		return err
	}
	return r.backend.WithTx(func(tx *badger.Txn) error {
		exists, err := userExists(tx, user.ID)
		if err != nil {
			return err
		}
		if exists {
			r.logger.Debug("user already exists, create is a no-op", "userID", user.ID)
			return nil
		}
		if user.CreatedAt.IsZero() {
			user.CreatedAt = r.now().UTC()
		}
		if err := tx.Set(makeUserKey(user.ID), storage.MarshalUser(user)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// CreateDoctor stores a doctor. The name is a natural key; duplicates are rejected.
func (r *Repository) CreateDoctor(ctx context.Context, doctor *core.Doctor) (*core.Doctor, error) {
	if err := core.ValidateDoctor(doctor); err != nil {
		return nil, err
	}
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		existing, err := getValue(tx, makeDoctorNameKey(doctor.Name))
		if err != nil {
			return err
		}
		if existing != nil {
			return storage.ErrDuplicateKey
		}

		doctor.ID = uuid.NewString()
		doctor.CreatedAt = r.now().UTC()

		if err := tx.Set(makeDoctorKey(doctor.ID), storage.MarshalDoctor(doctor)); err != nil {
			return err
		}
		if err := tx.Set(makeDoctorNameKey(doctor.Name), []byte(doctor.ID)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}
	return doctor, nil
}

// CreateAppointment stores an appointment for its user, optionally linked to
// a doctor by name.
func (r *Repository) CreateAppointment(ctx context.Context, apt *core.Appointment, doctorName string) (*core.Appointment, error) {
	if err := core.ValidateAppointment(apt); err != nil {
		return nil, err
	}
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		exists, err := userExists(tx, apt.UserID)
		if err != nil {
			return err
		}
		if !exists {
			return storage.ErrNotFound
		}

		if doctorName != "" {
			doctor, err := doctorByName(tx, doctorName)
			if err != nil {
				return err
			}
			apt.DoctorID = doctor.ID
		}

		apt.ID = uuid.NewString()
		apt.CreatedAt = r.now().UTC()
		// Calendar days are stored at UTC midnight so they survive the
		// serialization round trip in any timezone.
		apt.Date = dates.Day(apt.Date)
		if apt.Status == "" {
			apt.Status = "scheduled"
		}

		if err := tx.Set(makeOwnedKey(appointmentPrefix, apt.UserID, apt.ID), storage.MarshalAppointment(apt)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}
	return apt, nil
}

// CreateMedication stores a medication for its user.
func (r *Repository) CreateMedication(ctx context.Context, med *core.Medication) (*core.Medication, error) {
	if err := core.ValidateMedication(med); err != nil {
		return nil, err
	}
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		exists, err := userExists(tx, med.UserID)
		if err != nil {
			return err
		}
		if !exists {
			return storage.ErrNotFound
		}

		med.ID = uuid.NewString()
		med.CreatedAt = r.now().UTC()
		if med.Frequency == "" {
			med.Frequency = "daily"
		}
		if med.StartDate.IsZero() {
			med.StartDate = r.now()
		}
		med.StartDate = dates.Day(med.StartDate)

		if err := tx.Set(makeOwnedKey(medicationPrefix, med.UserID, med.ID), storage.MarshalMedication(med)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}
	return med, nil
}

// CreateCondition stores a condition for its user.
func (r *Repository) CreateCondition(ctx context.Context, cond *core.Condition) (*core.Condition, error) {
	if err := core.ValidateCondition(cond); err != nil {
		return nil, err
	}
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		exists, err := userExists(tx, cond.UserID)
		if err != nil {
			return err
		}
		if !exists {
			return storage.ErrNotFound
		}

		cond.ID = uuid.NewString()
		cond.CreatedAt = r.now().UTC()
		if cond.Severity == "" {
			cond.Severity = "moderate"
		}
		if cond.DiagnosedDate.IsZero() {
			cond.DiagnosedDate = r.now()
		}
		cond.DiagnosedDate = dates.Day(cond.DiagnosedDate)

		if err := tx.Set(makeOwnedKey(conditionPrefix, cond.UserID, cond.ID), storage.MarshalCondition(cond)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}
	return cond, nil
}

// CreateTestResult stores a test result for its user, optionally produced by
// an appointment.
func (r *Repository) CreateTestResult(ctx context.Context, tr *core.TestResult) (*core.TestResult, error) {
	if err := core.ValidateTestResult(tr); err != nil {
		return nil, err
	}
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		exists, err := userExists(tx, tr.UserID)
		if err != nil {
			return err
		}
		if !exists {
			return storage.ErrNotFound
		}

		if tr.AppointmentID != "" {
			aptVal, err := getValue(tx, makeOwnedKey(appointmentPrefix, tr.UserID, tr.AppointmentID))
			if err != nil {
				return err
			}
			if aptVal == nil {
				return storage.ErrNotFound
			}
		}

		tr.ID = uuid.NewString()
		tr.CreatedAt = r.now().UTC()
		if tr.TestDate.IsZero() {
			tr.TestDate = r.now()
		}
		tr.TestDate = dates.Day(tr.TestDate)
		tr.Status = core.NormalizeTestStatus(string(tr.Status))
		if tr.Status == "" {
			tr.Status = core.TestStatusNormal
		}

		if err := tx.Set(makeOwnedKey(testResultPrefix, tr.UserID, tr.ID), storage.MarshalTestResult(tr)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}
	return tr, nil
}

// LinkMedicationToCondition creates a treats relation between every
// medication and condition of the user whose names match. Names are not
// unique, so this may link multiple pairs; the pair count is returned.
func (r *Repository) LinkMedicationToCondition(ctx context.Context, userID, medicationName, conditionName string) (int, error) {
	linked := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		medIDs, err := ownedIDsByName(tx, medicationPrefix, userID, medicationName)
		if err != nil {
			return err
		}
		condIDs, err := ownedIDsByName(tx, conditionPrefix, userID, conditionName)
		if err != nil {
			return err
		}

		for _, condID := range condIDs {
			for _, medID := range medIDs {
				if err := tx.Set(makeLinkKey(treatsPrefix, userID, condID, medID), []byte(medID)); err != nil {
					return err
				}
				if err := tx.Set(makeLinkKey(treatedByPrefix, userID, medID, condID), []byte(condID)); err != nil {
					return err
				}
				linked++
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return 0, err
	}
	return linked, nil
}

// AddAppointmentNote attaches a note to an appointment.
// An appointment can hold at most one note.
func (r *Repository) AddAppointmentNote(ctx context.Context, note *core.AppointmentNote) (*core.AppointmentNote, error) {
	if note == nil || note.AppointmentID == "" {
		return nil, storage.ErrInvalidQuery
	}
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		existing, err := getValue(tx, makeNoteKey(note.AppointmentID))
		if err != nil {
			return err
		}
		if existing != nil {
			return storage.ErrDuplicateKey
		}

		note.ID = uuid.NewString()
		note.CreatedAt = r.now().UTC()

		if err := tx.Set(makeNoteKey(note.AppointmentID), storage.MarshalAppointmentNote(note)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}
	return note, nil
}
