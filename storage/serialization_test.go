package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/healthmate/core"
)

func TestMarshalUnmarshalUser(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	tests := []struct {
		name string
		user *core.User
	}{
		{"full user", &core.User{ID: "demo_user", Name: "Demo User", Age: 35, CreatedAt: now}},
		{"no age", &core.User{ID: "u2", Name: "Nameless Age", CreatedAt: now}},
		{"zero created at", &core.User{ID: "u3", Name: "Fresh"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalUser(tt.user)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalUser(data)
			require.NoError(t, err)
			assert.Equal(t, tt.user.ID, decoded.ID)
			assert.Equal(t, tt.user.Name, decoded.Name)
			assert.Equal(t, tt.user.Age, decoded.Age)
			assert.True(t, tt.user.CreatedAt.Equal(decoded.CreatedAt))
		})
	}
}

func TestMarshalUnmarshalAppointment(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	apt := &core.Appointment{
		ID:        "a1",
		UserID:    "demo_user",
		Date:      now.AddDate(0, 0, 7),
		Time:      "14:30",
		Status:    "scheduled",
		Location:  "City Medical Center",
		Notes:     "bring previous results",
		DoctorID:  "d1",
		CreatedAt: now,
	}

	decoded, err := UnmarshalAppointment(MarshalAppointment(apt))
	require.NoError(t, err)
	assert.Equal(t, apt.ID, decoded.ID)
	assert.Equal(t, apt.UserID, decoded.UserID)
	assert.True(t, apt.Date.Equal(decoded.Date))
	assert.Equal(t, apt.Time, decoded.Time)
	assert.Equal(t, apt.Status, decoded.Status)
	assert.Equal(t, apt.DoctorID, decoded.DoctorID)
}

func TestMarshalUnmarshalAppointment_NoDoctor(t *testing.T) {
	apt := &core.Appointment{ID: "a2", UserID: "demo_user", Date: time.Now().UTC().Truncate(time.Microsecond)}

	decoded, err := UnmarshalAppointment(MarshalAppointment(apt))
	require.NoError(t, err)
	assert.Empty(t, decoded.DoctorID)
}

func TestMarshalUnmarshalTestResult(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	tr := &core.TestResult{
		ID:          "t1",
		UserID:      "demo_user",
		TestName:    "Blood Pressure",
		TestDate:    now.AddDate(0, 0, -3),
		Result:      "142/90",
		Unit:        "mmHg",
		NormalRange: "<120/80",
		Status:      core.TestStatusHigh,
		CreatedAt:   now,
	}

	decoded, err := UnmarshalTestResult(MarshalTestResult(tr))
	require.NoError(t, err)
	assert.Equal(t, tr.TestName, decoded.TestName)
	assert.Equal(t, tr.Result, decoded.Result)
	assert.Equal(t, core.TestStatusHigh, decoded.Status)
	assert.True(t, tr.TestDate.Equal(decoded.TestDate))
	assert.Empty(t, decoded.AppointmentID)
}

func TestMarshalUnmarshalDoctor(t *testing.T) {
	d := &core.Doctor{
		ID:        "d1",
		Name:      "Dr. Sarah Johnson",
		Specialty: "Cardiology",
		Hospital:  "City Medical Center",
		Phone:     "555-0101",
	}

	decoded, err := UnmarshalDoctor(MarshalDoctor(d))
	require.NoError(t, err)
	assert.Equal(t, d, decoded)
}

func TestMarshalUnmarshalMedicationAndCondition(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	med := &core.Medication{
		ID: "m1", UserID: "demo_user", Name: "Metformin",
		Dosage: "500mg", Frequency: "twice daily", StartDate: now.AddDate(0, -6, 0),
	}
	decodedMed, err := UnmarshalMedication(MarshalMedication(med))
	require.NoError(t, err)
	assert.Equal(t, med.Name, decodedMed.Name)
	assert.True(t, med.StartDate.Equal(decodedMed.StartDate))

	cond := &core.Condition{
		ID: "c1", UserID: "demo_user", Name: "Type 2 Diabetes",
		DiagnosedDate: now.AddDate(-1, 0, 0), Severity: "moderate",
	}
	decodedCond, err := UnmarshalCondition(MarshalCondition(cond))
	require.NoError(t, err)
	assert.Equal(t, cond.Name, decodedCond.Name)
	assert.Equal(t, cond.Severity, decodedCond.Severity)
}

func TestMarshalUnmarshalAppointmentNote(t *testing.T) {
	note := &core.AppointmentNote{
		ID:              "n1",
		AppointmentID:   "a1",
		Summary:         "Routine cardiology follow-up",
		Diagnosis:       "Stable hypertension",
		Recommendations: "Continue current medication",
		FollowUp:        "3 months",
	}

	decoded, err := UnmarshalAppointmentNote(MarshalAppointmentNote(note))
	require.NoError(t, err)
	assert.Equal(t, note, decoded)
}

func TestUnmarshal_Truncated(t *testing.T) {
	data := MarshalUser(&core.User{ID: "demo_user", Name: "Demo User", Age: 35})
	_, err := UnmarshalUser(data[:2])
	assert.Error(t, err)
}
