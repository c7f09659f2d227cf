package badger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/healthmate/core"
	"github.com/poiesic/healthmate/storage"
)

// fixedNow pins "today" for the upcoming-appointment boundary.
var fixedNow = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewMemoryRepository(WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func seedUser(t *testing.T, repo *Repository, id string) {
	t.Helper()
	require.NoError(t, repo.CreateUser(context.Background(), &core.User{ID: id, Name: "Demo User", Age: 35}))
}

func TestCreateAndGetUser(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	seedUser(t, repo, "demo_user")

	user, err := repo.GetUser(ctx, "demo_user")
	require.NoError(t, err)
	assert.Equal(t, "Demo User", user.Name)
	assert.Equal(t, 35, user.Age)
	assert.False(t, user.CreatedAt.IsZero())
}

func TestGetUser_NotFound(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.GetUser(context.Background(), "ghost")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCreateUser_ExistingIsNoOp(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	seedUser(t, repo, "demo_user")
	require.NoError(t, repo.CreateUser(ctx, &core.User{ID: "demo_user", Name: "Someone Else", Age: 99}))

	user, err := repo.GetUser(ctx, "demo_user")
	require.NoError(t, err)
	assert.Equal(t, "Demo User", user.Name)
}

func TestListAccessors_UnknownUser(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	_, err := repo.GetAppointments(ctx, "ghost", nil)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = repo.GetMedications(ctx, "ghost")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = repo.GetConditions(ctx, "ghost")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = repo.GetTestResults(ctx, "ghost")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestListAccessors_EmptyNotNil(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	seedUser(t, repo, "demo_user")

	apts, err := repo.GetAppointments(ctx, "demo_user", nil)
	require.NoError(t, err)
	assert.NotNil(t, apts)
	assert.Empty(t, apts)

	meds, err := repo.GetMedications(ctx, "demo_user")
	require.NoError(t, err)
	assert.NotNil(t, meds)
	assert.Empty(t, meds)
}

func TestGetAppointments_UpcomingBoundary(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	seedUser(t, repo, "demo_user")

	mustCreateAppointment := func(date time.Time, at string) {
		_, err := repo.CreateAppointment(ctx, &core.Appointment{
			UserID: "demo_user", Date: date, Time: at,
		}, "")
		require.NoError(t, err)
	}

	yesterday := fixedNow.AddDate(0, 0, -1)
	nextWeek := fixedNow.AddDate(0, 0, 7)
	mustCreateAppointment(yesterday, "10:00")
	mustCreateAppointment(fixedNow, "15:00") // same day, later
	mustCreateAppointment(nextWeek, "09:00")

	// Same-day appointments count as upcoming; past ones never surface
	// without an explicit date filter.
	apts, err := repo.GetAppointments(ctx, "demo_user", nil)
	require.NoError(t, err)
	require.Len(t, apts, 2)
	assert.True(t, apts[0].Date.Equal(fixedNow))
	assert.True(t, apts[1].Date.Equal(nextWeek))

	// An explicit filter reaches past appointments.
	past, err := repo.GetAppointments(ctx, "demo_user", &yesterday)
	require.NoError(t, err)
	require.Len(t, past, 1)
	assert.Equal(t, "10:00", past[0].Time)

	today := fixedNow
	onToday, err := repo.GetAppointments(ctx, "demo_user", &today)
	require.NoError(t, err)
	require.Len(t, onToday, 1)
	assert.Equal(t, "15:00", onToday[0].Time)
}

func TestGetAppointments_OrderAndCap(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	seedUser(t, repo, "demo_user")

	sameDay := fixedNow.AddDate(0, 0, 3)
	for _, at := range []string{"16:00", "08:30", "11:15"} {
		_, err := repo.CreateAppointment(ctx, &core.Appointment{UserID: "demo_user", Date: sameDay, Time: at}, "")
		require.NoError(t, err)
	}
	for i := 1; i <= 10; i++ {
		_, err := repo.CreateAppointment(ctx, &core.Appointment{
			UserID: "demo_user", Date: fixedNow.AddDate(0, 0, 4+i), Time: "09:00",
		}, "")
		require.NoError(t, err)
	}

	apts, err := repo.GetAppointments(ctx, "demo_user", nil)
	require.NoError(t, err)
	require.Len(t, apts, 10)
	assert.Equal(t, "08:30", apts[0].Time)
	assert.Equal(t, "11:15", apts[1].Time)
	assert.Equal(t, "16:00", apts[2].Time)

	// The exact-day filter is uncapped and unaffected by the other records.
	onDay, err := repo.GetAppointments(ctx, "demo_user", &sameDay)
	require.NoError(t, err)
	assert.Len(t, onDay, 3)
}

func TestGetAppointments_NonUTCClock(t *testing.T) {
	east := time.FixedZone("UTC+3", 3*60*60)
	localNow := time.Date(2025, 3, 10, 9, 30, 0, 0, east)
	repo, err := NewMemoryRepository(WithClock(func() time.Time { return localNow }))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	ctx := context.Background()
	seedUser(t, repo, "demo_user")

	// Local midnight is the previous evening as a UTC instant, but the same
	// day on the calendar. Storage must compare calendar days, not instants.
	localMidnight := time.Date(2025, 3, 10, 0, 0, 0, 0, east)
	_, err = repo.CreateAppointment(ctx, &core.Appointment{
		UserID: "demo_user", Date: localMidnight, Time: "08:00",
	}, "")
	require.NoError(t, err)

	apts, err := repo.GetAppointments(ctx, "demo_user", nil)
	require.NoError(t, err)
	require.Len(t, apts, 1, "same-day appointment must be upcoming (today inclusive)")

	// The exact-day filter matches whether the filter value carries the
	// local zone or UTC.
	onDay, err := repo.GetAppointments(ctx, "demo_user", &localMidnight)
	require.NoError(t, err)
	assert.Len(t, onDay, 1)

	utcFilter := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	onDayUTC, err := repo.GetAppointments(ctx, "demo_user", &utcFilter)
	require.NoError(t, err)
	assert.Len(t, onDayUTC, 1)

	count, err := repo.CountUpcomingAppointments(ctx, "demo_user")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestGetAppointments_DoctorDenormalization(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	seedUser(t, repo, "demo_user")

	_, err := repo.CreateDoctor(ctx, &core.Doctor{
		Name: "Dr. Sarah Johnson", Specialty: "Cardiology", Hospital: "City Medical Center",
	})
	require.NoError(t, err)

	_, err = repo.CreateAppointment(ctx, &core.Appointment{
		UserID: "demo_user", Date: fixedNow.AddDate(0, 0, 2), Time: "14:00",
	}, "Dr. Sarah Johnson")
	require.NoError(t, err)
	_, err = repo.CreateAppointment(ctx, &core.Appointment{
		UserID: "demo_user", Date: fixedNow.AddDate(0, 0, 5), Time: "10:00",
	}, "")
	require.NoError(t, err)

	apts, err := repo.GetAppointments(ctx, "demo_user", nil)
	require.NoError(t, err)
	require.Len(t, apts, 2)
	assert.Equal(t, "Dr. Sarah Johnson", apts[0].DoctorName)
	assert.Equal(t, "Cardiology", apts[0].DoctorSpecialty)
	assert.Empty(t, apts[1].DoctorName)
}

func TestCreateDoctor_DuplicateName(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	_, err := repo.CreateDoctor(ctx, &core.Doctor{Name: "Dr. Chen", Specialty: "Endocrinology"})
	require.NoError(t, err)

	_, err = repo.CreateDoctor(ctx, &core.Doctor{Name: "Dr. Chen", Specialty: "Cardiology"})
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestCreateAppointment_UnknownDoctor(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	seedUser(t, repo, "demo_user")

	_, err := repo.CreateAppointment(ctx, &core.Appointment{
		UserID: "demo_user", Date: fixedNow.AddDate(0, 0, 1),
	}, "Dr. Nobody")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCreateAppointment_Defaults(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	seedUser(t, repo, "demo_user")

	apt, err := repo.CreateAppointment(ctx, &core.Appointment{
		UserID: "demo_user", Date: fixedNow.AddDate(0, 0, 1),
	}, "")
	require.NoError(t, err)
	assert.NotEmpty(t, apt.ID)
	assert.Equal(t, "scheduled", apt.Status)
}

func TestGetTestResults_OrderAndStatusDefault(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	seedUser(t, repo, "demo_user")

	older, err := repo.CreateTestResult(ctx, &core.TestResult{
		UserID: "demo_user", TestName: "HbA1c", TestDate: fixedNow.AddDate(0, 0, -30),
		Result: "6.8", Unit: "%", Status: "HIGH",
	})
	require.NoError(t, err)
	assert.Equal(t, core.TestStatusHigh, older.Status)

	newer, err := repo.CreateTestResult(ctx, &core.TestResult{
		UserID: "demo_user", TestName: "Blood Pressure", TestDate: fixedNow.AddDate(0, 0, -3),
		Result: "118/78", Unit: "mmHg",
	})
	require.NoError(t, err)
	assert.Equal(t, core.TestStatusNormal, newer.Status)

	results, err := repo.GetTestResults(ctx, "demo_user")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Blood Pressure", results[0].TestName)
	assert.Equal(t, "HbA1c", results[1].TestName)
}

func TestCreateTestResult_UnknownAppointment(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	seedUser(t, repo, "demo_user")

	_, err := repo.CreateTestResult(ctx, &core.TestResult{
		UserID: "demo_user", TestName: "HbA1c", TestDate: fixedNow,
		Result: "6.8", AppointmentID: "nope",
	})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestLinkMedicationToCondition(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	seedUser(t, repo, "demo_user")

	_, err := repo.CreateMedication(ctx, &core.Medication{UserID: "demo_user", Name: "Metformin", Dosage: "500mg"})
	require.NoError(t, err)
	_, err = repo.CreateMedication(ctx, &core.Medication{UserID: "demo_user", Name: "Lisinopril", Dosage: "10mg"})
	require.NoError(t, err)
	_, err = repo.CreateCondition(ctx, &core.Condition{UserID: "demo_user", Name: "Type 2 Diabetes"})
	require.NoError(t, err)
	_, err = repo.CreateCondition(ctx, &core.Condition{UserID: "demo_user", Name: "Hypertension"})
	require.NoError(t, err)

	n, err := repo.LinkMedicationToCondition(ctx, "demo_user", "Metformin", "Type 2 Diabetes")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = repo.LinkMedicationToCondition(ctx, "demo_user", "Lisinopril", "Hypertension")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	meds, err := repo.GetMedicationsTreating(ctx, "demo_user", "Type 2 Diabetes")
	require.NoError(t, err)
	require.Len(t, meds, 1)
	assert.Equal(t, "Metformin", meds[0].Name)

	conds, err := repo.GetConditionsTreatedBy(ctx, "demo_user", "Lisinopril")
	require.NoError(t, err)
	require.Len(t, conds, 1)
	assert.Equal(t, "Hypertension", conds[0].Name)

	// No matching names links nothing.
	n, err = repo.LinkMedicationToCondition(ctx, "demo_user", "Aspirin", "Hypertension")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestLinkMedicationToCondition_MatchesAllPairs(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	seedUser(t, repo, "demo_user")

	// Duplicate medication names are allowed; linking connects every pair.
	for _, dosage := range []string{"500mg", "1000mg"} {
		_, err := repo.CreateMedication(ctx, &core.Medication{UserID: "demo_user", Name: "Metformin", Dosage: dosage})
		require.NoError(t, err)
	}
	_, err := repo.CreateCondition(ctx, &core.Condition{UserID: "demo_user", Name: "Type 2 Diabetes"})
	require.NoError(t, err)

	n, err := repo.LinkMedicationToCondition(ctx, "demo_user", "Metformin", "Type 2 Diabetes")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	meds, err := repo.GetMedicationsTreating(ctx, "demo_user", "Type 2 Diabetes")
	require.NoError(t, err)
	assert.Len(t, meds, 2)
}

func TestAppointmentNote(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	seedUser(t, repo, "demo_user")

	apt, err := repo.CreateAppointment(ctx, &core.Appointment{
		UserID: "demo_user", Date: fixedNow.AddDate(0, 0, -10),
	}, "")
	require.NoError(t, err)

	note, err := repo.AddAppointmentNote(ctx, &core.AppointmentNote{
		AppointmentID: apt.ID,
		Summary:       "Routine follow-up",
		Diagnosis:     "Stable",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, note.ID)

	got, err := repo.GetAppointmentNote(ctx, apt.ID)
	require.NoError(t, err)
	assert.Equal(t, "Routine follow-up", got.Summary)

	_, err = repo.AddAppointmentNote(ctx, &core.AppointmentNote{AppointmentID: apt.ID, Summary: "second"})
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	_, err = repo.GetAppointmentNote(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCountUpcomingAppointments_IncludesToday(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	seedUser(t, repo, "demo_user")

	for _, offset := range []int{-5, 0, 3} {
		_, err := repo.CreateAppointment(ctx, &core.Appointment{
			UserID: "demo_user", Date: fixedNow.AddDate(0, 0, offset), Time: "09:00",
		}, "")
		require.NoError(t, err)
	}

	count, err := repo.CountUpcomingAppointments(ctx, "demo_user")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestMedicationsSortedByName(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	seedUser(t, repo, "demo_user")

	for _, name := range []string{"Metformin", "Aspirin", "Lisinopril"} {
		_, err := repo.CreateMedication(ctx, &core.Medication{UserID: "demo_user", Name: name, Dosage: "1"})
		require.NoError(t, err)
	}

	meds, err := repo.GetMedications(ctx, "demo_user")
	require.NoError(t, err)
	require.Len(t, meds, 3)
	assert.Equal(t, "Aspirin", meds[0].Name)
	assert.Equal(t, "Lisinopril", meds[1].Name)
	assert.Equal(t, "Metformin", meds[2].Name)
}

func TestUserIsolation(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	seedUser(t, repo, "user_a")
	seedUser(t, repo, "user_b")

	_, err := repo.CreateMedication(ctx, &core.Medication{UserID: "user_a", Name: "Metformin", Dosage: "500mg"})
	require.NoError(t, err)

	meds, err := repo.GetMedications(ctx, "user_b")
	require.NoError(t, err)
	assert.Empty(t, meds)
}
