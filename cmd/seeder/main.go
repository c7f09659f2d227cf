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


// Seeder populates a record store with a demo user and a realistic set of
// doctors, appointments, medications, conditions, and test results, so the
// assistant can be exercised without real health data.
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/poiesic/healthmate/core"
	"github.com/poiesic/healthmate/dates"
	"github.com/poiesic/healthmate/storage"
	"github.com/poiesic/healthmate/storage/badger"
)

var (
	dbPath = flag.String("db", "data", "Path to the record store directory")
	userID = flag.String("user", "demo_user", "User id to seed records for")
)

// daysFromNow returns today's date shifted by the given number of days.
func daysFromNow(days int) time.Time {
	return dates.Today().AddDate(0, 0, days)
}

func seedDoctors(ctx context.Context, repo storage.HealthRecordRepository) error {
	doctors := []core.Doctor{
		{Name: "Dr. Sarah Johnson", Specialty: "Cardiology", Hospital: "City Heart Center", Phone: "555-0101"},
		{Name: "Dr. Michael Lee", Specialty: "Endocrinology", Hospital: "Downtown Medical Plaza", Phone: "555-0102"},
		{Name: "Dr. Emily Carter", Specialty: "General Practice", Hospital: "Riverside Family Clinic", Phone: "555-0103"},
	}
	for _, d := range doctors {
		if _, err := repo.CreateDoctor(ctx, &d); err != nil {
			return fmt.Errorf("doctor %s: %w", d.Name, err)
		}
	}
	return nil
}

func seedAppointments(ctx context.Context, repo storage.HealthRecordRepository) (past *core.Appointment, err error) {
	upcoming := []struct {
		days     int
		time     string
		doctor   string
		location string
		notes    string
	}{
		{7, "10:00", "Dr. Sarah Johnson", "City Heart Center", "Follow-up blood pressure check"},
		{14, "14:30", "Dr. Michael Lee", "Downtown Medical Plaza", "Quarterly diabetes review"},
	}
	for _, a := range upcoming {
		_, err := repo.CreateAppointment(ctx, &core.Appointment{
			UserID:   *userID,
			Date:     daysFromNow(a.days),
			Time:     a.time,
			Location: a.location,
			Notes:    a.notes,
		}, a.doctor)
		if err != nil {
			return nil, fmt.Errorf("appointment with %s: %w", a.doctor, err)
		}
	}

	// A completed visit in the past, so the note and test results have an
	// appointment to hang off.
	past, err = repo.CreateAppointment(ctx, &core.Appointment{
		UserID:   *userID,
		Date:     daysFromNow(-30),
		Time:     "09:15",
		Status:   "completed",
		Location: "Riverside Family Clinic",
		Notes:    "Annual physical",
	}, "Dr. Emily Carter")
	if err != nil {
		return nil, fmt.Errorf("past appointment: %w", err)
	}
	return past, nil
}

func seedMedicationsAndConditions(ctx context.Context, repo storage.HealthRecordRepository) error {
	medications := []core.Medication{
		{UserID: *userID, Name: "Lisinopril", Dosage: "10mg", Frequency: "daily", StartDate: daysFromNow(-180)},
		{UserID: *userID, Name: "Metformin", Dosage: "500mg", Frequency: "twice daily", StartDate: daysFromNow(-365)},
	}
	for _, m := range medications {
		if _, err := repo.CreateMedication(ctx, &m); err != nil {
			return fmt.Errorf("medication %s: %w", m.Name, err)
		}
	}

	conditions := []core.Condition{
		{UserID: *userID, Name: "Hypertension", DiagnosedDate: daysFromNow(-200), Severity: "moderate"},
		{UserID: *userID, Name: "Type 2 Diabetes", DiagnosedDate: daysFromNow(-400), Severity: "moderate"},
	}
	for _, c := range conditions {
		if _, err := repo.CreateCondition(ctx, &c); err != nil {
			return fmt.Errorf("condition %s: %w", c.Name, err)
		}
	}

	links := [][2]string{
		{"Lisinopril", "Hypertension"},
		{"Metformin", "Type 2 Diabetes"},
	}
	for _, l := range links {
		if _, err := repo.LinkMedicationToCondition(ctx, *userID, l[0], l[1]); err != nil {
			return fmt.Errorf("link %s -> %s: %w", l[0], l[1], err)
		}
	}
	return nil
}

func seedTestResults(ctx context.Context, repo storage.HealthRecordRepository, appointmentID string) error {
	results := []core.TestResult{
		{
			UserID: *userID, AppointmentID: appointmentID,
			TestName: "Blood Pressure", TestDate: daysFromNow(-30),
			Result: "142/90", Unit: "mmHg", NormalRange: "90/60 - 120/80", Status: core.TestStatusHigh,
		},
		{
			UserID: *userID, AppointmentID: appointmentID,
			TestName: "HbA1c", TestDate: daysFromNow(-30),
			Result: "6.8", Unit: "%", NormalRange: "4.0 - 5.6", Status: core.TestStatusHigh,
		},
		{
			UserID: *userID,
			TestName: "Total Cholesterol", TestDate: daysFromNow(-90),
			Result: "180", Unit: "mg/dL", NormalRange: "125 - 200", Status: core.TestStatusNormal,
		},
	}
	for _, tr := range results {
		if _, err := repo.CreateTestResult(ctx, &tr); err != nil {
			return fmt.Errorf("test result %s: %w", tr.TestName, err)
		}
	}
	return nil
}

func seed(ctx context.Context, repo storage.HealthRecordRepository) error {
	if err := repo.CreateUser(ctx, &core.User{ID: *userID, Name: "Demo User", Age: 35}); err != nil {
		return fmt.Errorf("user: %w", err)
	}
	if err := seedDoctors(ctx, repo); err != nil {
		return err
	}
	past, err := seedAppointments(ctx, repo)
	if err != nil {
		return err
	}
	if err := seedMedicationsAndConditions(ctx, repo); err != nil {
		return err
	}
	if err := seedTestResults(ctx, repo, past.ID); err != nil {
		return err
	}

	_, err = repo.AddAppointmentNote(ctx, &core.AppointmentNote{
		AppointmentID:   past.ID,
		Summary:         "Annual physical with elevated blood pressure and HbA1c.",
		Diagnosis:       "Hypertension and Type 2 Diabetes, both under treatment.",
		Recommendations: "Continue current medications; reduce sodium intake.",
		FollowUp:        "Cardiology follow-up booked for next week.",
	})
	if err != nil {
		return fmt.Errorf("appointment note: %w", err)
	}
	return nil
}

func main() {
	flag.Parse()

	backend, err := badger.OpenBackend(*dbPath, false)
	if err != nil {
		panic(err)
	}

	repo, err := badger.NewRepository(backend)
	if err != nil {
		backend.Close()
		panic(err)
	}
	defer repo.Close()

	if err := seed(context.Background(), repo); err != nil {
		panic(err)
	}

	count, err := repo.CountUpcomingAppointments(context.Background(), *userID)
	if err != nil {
		panic(err)
	}
	fmt.Printf("Seeded records for %s (%d upcoming appointments)\n", *userID, count)
}
