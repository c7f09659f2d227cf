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


package storage

import (
	"time"

	"github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"

	"github.com/poiesic/healthmate/core"
)

// Serializers are written by hand against the MUS format primitives. The
// record types are flat (strings, ints, timestamps), so the per-field
// spelling stays readable and there is no generated code to regenerate.

// timeSer encodes a time.Time as a presence flag plus Unix microseconds.
// The flag lets zero times survive the round trip exactly.
type timeSer struct{}

var timeMUS = timeSer{}

var _ mus.Serializer[time.Time] = timeSer{}

func (timeSer) Marshal(t time.Time, bs []byte) (n int) {
	present := !t.IsZero()
	n = ord.Bool.Marshal(present, bs)
	if present {
		n += varint.Int64.Marshal(t.UnixMicro(), bs[n:])
	}
	return
}

func (timeSer) Unmarshal(bs []byte) (t time.Time, n int, err error) {
	present, n, err := ord.Bool.Unmarshal(bs)
	if err != nil || !present {
		return
	}
	us, n1, err := varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	t = time.UnixMicro(us).UTC()
	return
}

func (timeSer) Size(t time.Time) (size int) {
	size = ord.Bool.Size(!t.IsZero())
	if !t.IsZero() {
		size += varint.Int64.Size(t.UnixMicro())
	}
	return
}

func (s timeSer) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}

// UserMUS serializes core.User.
var UserMUS = userSer{}

type userSer struct{}

var _ mus.Serializer[core.User] = userSer{}

func (userSer) Marshal(u core.User, bs []byte) (n int) {
	n = ord.String.Marshal(u.ID, bs)
	n += ord.String.Marshal(u.Name, bs[n:])
	n += varint.Int.Marshal(u.Age, bs[n:])
	n += timeMUS.Marshal(u.CreatedAt, bs[n:])
	return
}

func (userSer) Unmarshal(bs []byte) (u core.User, n int, err error) {
	var n1 int
	if u.ID, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if u.Name, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return u, n + n1, err
	}
	n += n1
	if u.Age, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return u, n + n1, err
	}
	n += n1
	u.CreatedAt, n1, err = timeMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (userSer) Size(u core.User) int {
	return ord.String.Size(u.ID) + ord.String.Size(u.Name) +
		varint.Int.Size(u.Age) + timeMUS.Size(u.CreatedAt)
}

func (s userSer) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}

// DoctorMUS serializes core.Doctor.
var DoctorMUS = doctorSer{}

type doctorSer struct{}

var _ mus.Serializer[core.Doctor] = doctorSer{}

func (doctorSer) Marshal(d core.Doctor, bs []byte) (n int) {
	n = ord.String.Marshal(d.ID, bs)
	n += ord.String.Marshal(d.Name, bs[n:])
	n += ord.String.Marshal(d.Specialty, bs[n:])
	n += ord.String.Marshal(d.Hospital, bs[n:])
	n += ord.String.Marshal(d.Phone, bs[n:])
	n += timeMUS.Marshal(d.CreatedAt, bs[n:])
	return
}

func (doctorSer) Unmarshal(bs []byte) (d core.Doctor, n int, err error) {
	var n1 int
	fields := []*string{&d.ID, &d.Name, &d.Specialty, &d.Hospital, &d.Phone}
	for _, f := range fields {
		if *f, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
			return d, n + n1, err
		}
		n += n1
	}
	d.CreatedAt, n1, err = timeMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (doctorSer) Size(d core.Doctor) int {
	return ord.String.Size(d.ID) + ord.String.Size(d.Name) +
		ord.String.Size(d.Specialty) + ord.String.Size(d.Hospital) +
		ord.String.Size(d.Phone) + timeMUS.Size(d.CreatedAt)
}

func (s doctorSer) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}

// AppointmentMUS serializes core.Appointment.
var AppointmentMUS = appointmentSer{}

type appointmentSer struct{}

var _ mus.Serializer[core.Appointment] = appointmentSer{}

func (appointmentSer) Marshal(a core.Appointment, bs []byte) (n int) {
	n = ord.String.Marshal(a.ID, bs)
	n += ord.String.Marshal(a.UserID, bs[n:])
	n += timeMUS.Marshal(a.Date, bs[n:])
	n += ord.String.Marshal(a.Time, bs[n:])
	n += ord.String.Marshal(a.Status, bs[n:])
	n += ord.String.Marshal(a.Location, bs[n:])
	n += ord.String.Marshal(a.Notes, bs[n:])
	n += ord.String.Marshal(a.DoctorID, bs[n:])
	n += timeMUS.Marshal(a.CreatedAt, bs[n:])
	return
}

func (appointmentSer) Unmarshal(bs []byte) (a core.Appointment, n int, err error) {
	var n1 int
	if a.ID, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if a.UserID, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return a, n + n1, err
	}
	n += n1
	if a.Date, n1, err = timeMUS.Unmarshal(bs[n:]); err != nil {
		return a, n + n1, err
	}
	n += n1
	fields := []*string{&a.Time, &a.Status, &a.Location, &a.Notes, &a.DoctorID}
	for _, f := range fields {
		if *f, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
			return a, n + n1, err
		}
		n += n1
	}
	a.CreatedAt, n1, err = timeMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (appointmentSer) Size(a core.Appointment) int {
	return ord.String.Size(a.ID) + ord.String.Size(a.UserID) +
		timeMUS.Size(a.Date) + ord.String.Size(a.Time) +
		ord.String.Size(a.Status) + ord.String.Size(a.Location) +
		ord.String.Size(a.Notes) + ord.String.Size(a.DoctorID) +
		timeMUS.Size(a.CreatedAt)
}

func (s appointmentSer) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}

// MedicationMUS serializes core.Medication.
var MedicationMUS = medicationSer{}

type medicationSer struct{}

var _ mus.Serializer[core.Medication] = medicationSer{}

func (medicationSer) Marshal(m core.Medication, bs []byte) (n int) {
	n = ord.String.Marshal(m.ID, bs)
	n += ord.String.Marshal(m.UserID, bs[n:])
	n += ord.String.Marshal(m.Name, bs[n:])
	n += ord.String.Marshal(m.Dosage, bs[n:])
	n += ord.String.Marshal(m.Frequency, bs[n:])
	n += timeMUS.Marshal(m.StartDate, bs[n:])
	n += ord.String.Marshal(m.Notes, bs[n:])
	n += timeMUS.Marshal(m.CreatedAt, bs[n:])
	return
}

func (medicationSer) Unmarshal(bs []byte) (m core.Medication, n int, err error) {
	var n1 int
	if m.ID, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	fields := []*string{&m.UserID, &m.Name, &m.Dosage, &m.Frequency}
	for _, f := range fields {
		if *f, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
			return m, n + n1, err
		}
		n += n1
	}
	if m.StartDate, n1, err = timeMUS.Unmarshal(bs[n:]); err != nil {
		return m, n + n1, err
	}
	n += n1
	if m.Notes, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return m, n + n1, err
	}
	n += n1
	m.CreatedAt, n1, err = timeMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (medicationSer) Size(m core.Medication) int {
	return ord.String.Size(m.ID) + ord.String.Size(m.UserID) +
		ord.String.Size(m.Name) + ord.String.Size(m.Dosage) +
		ord.String.Size(m.Frequency) + timeMUS.Size(m.StartDate) +
		ord.String.Size(m.Notes) + timeMUS.Size(m.CreatedAt)
}

func (s medicationSer) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}

// ConditionMUS serializes core.Condition.
var ConditionMUS = conditionSer{}

type conditionSer struct{}

var _ mus.Serializer[core.Condition] = conditionSer{}

func (conditionSer) Marshal(c core.Condition, bs []byte) (n int) {
	n = ord.String.Marshal(c.ID, bs)
	n += ord.String.Marshal(c.UserID, bs[n:])
	n += ord.String.Marshal(c.Name, bs[n:])
	n += timeMUS.Marshal(c.DiagnosedDate, bs[n:])
	n += ord.String.Marshal(c.Severity, bs[n:])
	n += ord.String.Marshal(c.Notes, bs[n:])
	n += timeMUS.Marshal(c.CreatedAt, bs[n:])
	return
}

func (conditionSer) Unmarshal(bs []byte) (c core.Condition, n int, err error) {
	var n1 int
	fields := []*string{&c.ID, &c.UserID, &c.Name}
	for _, f := range fields {
		if *f, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
			return c, n + n1, err
		}
		n += n1
	}
	if c.DiagnosedDate, n1, err = timeMUS.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	if c.Severity, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	if c.Notes, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	c.CreatedAt, n1, err = timeMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (conditionSer) Size(c core.Condition) int {
	return ord.String.Size(c.ID) + ord.String.Size(c.UserID) +
		ord.String.Size(c.Name) + timeMUS.Size(c.DiagnosedDate) +
		ord.String.Size(c.Severity) + ord.String.Size(c.Notes) +
		timeMUS.Size(c.CreatedAt)
}

func (s conditionSer) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}

// TestResultMUS serializes core.TestResult.
var TestResultMUS = testResultSer{}

type testResultSer struct{}

var _ mus.Serializer[core.TestResult] = testResultSer{}

func (testResultSer) Marshal(t core.TestResult, bs []byte) (n int) {
	n = ord.String.Marshal(t.ID, bs)
	n += ord.String.Marshal(t.UserID, bs[n:])
	n += ord.String.Marshal(t.AppointmentID, bs[n:])
	n += ord.String.Marshal(t.TestName, bs[n:])
	n += timeMUS.Marshal(t.TestDate, bs[n:])
	n += ord.String.Marshal(t.Result, bs[n:])
	n += ord.String.Marshal(t.Unit, bs[n:])
	n += ord.String.Marshal(t.NormalRange, bs[n:])
	n += ord.String.Marshal(string(t.Status), bs[n:])
	n += timeMUS.Marshal(t.CreatedAt, bs[n:])
	return
}

func (testResultSer) Unmarshal(bs []byte) (t core.TestResult, n int, err error) {
	var n1 int
	head := []*string{&t.ID, &t.UserID, &t.AppointmentID, &t.TestName}
	for _, f := range head {
		if *f, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
			return t, n + n1, err
		}
		n += n1
	}
	if t.TestDate, n1, err = timeMUS.Unmarshal(bs[n:]); err != nil {
		return t, n + n1, err
	}
	n += n1
	tail := []*string{&t.Result, &t.Unit, &t.NormalRange}
	for _, f := range tail {
		if *f, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
			return t, n + n1, err
		}
		n += n1
	}
	var status string
	if status, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return t, n + n1, err
	}
	n += n1
	t.Status = core.TestStatus(status)
	t.CreatedAt, n1, err = timeMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (testResultSer) Size(t core.TestResult) int {
	return ord.String.Size(t.ID) + ord.String.Size(t.UserID) +
		ord.String.Size(t.AppointmentID) + ord.String.Size(t.TestName) +
		timeMUS.Size(t.TestDate) + ord.String.Size(t.Result) +
		ord.String.Size(t.Unit) + ord.String.Size(t.NormalRange) +
		ord.String.Size(string(t.Status)) + timeMUS.Size(t.CreatedAt)
}

func (s testResultSer) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}

// AppointmentNoteMUS serializes core.AppointmentNote.
var AppointmentNoteMUS = noteSer{}

type noteSer struct{}

var _ mus.Serializer[core.AppointmentNote] = noteSer{}

func (noteSer) Marshal(n0 core.AppointmentNote, bs []byte) (n int) {
	n = ord.String.Marshal(n0.ID, bs)
	n += ord.String.Marshal(n0.AppointmentID, bs[n:])
	n += ord.String.Marshal(n0.Summary, bs[n:])
	n += ord.String.Marshal(n0.Diagnosis, bs[n:])
	n += ord.String.Marshal(n0.Recommendations, bs[n:])
	n += ord.String.Marshal(n0.FollowUp, bs[n:])
	n += timeMUS.Marshal(n0.CreatedAt, bs[n:])
	return
}

func (noteSer) Unmarshal(bs []byte) (note core.AppointmentNote, n int, err error) {
	var n1 int
	fields := []*string{
		&note.ID, &note.AppointmentID, &note.Summary,
		&note.Diagnosis, &note.Recommendations, &note.FollowUp,
	}
	for _, f := range fields {
		if *f, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
			return note, n + n1, err
		}
		n += n1
	}
	note.CreatedAt, n1, err = timeMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (noteSer) Size(note core.AppointmentNote) int {
	return ord.String.Size(note.ID) + ord.String.Size(note.AppointmentID) +
		ord.String.Size(note.Summary) + ord.String.Size(note.Diagnosis) +
		ord.String.Size(note.Recommendations) + ord.String.Size(note.FollowUp) +
		timeMUS.Size(note.CreatedAt)
}

func (s noteSer) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}

func marshal[T any](ser mus.Serializer[T], v T) []byte {
	bs := make([]byte, ser.Size(v))
	ser.Marshal(v, bs)
	return bs
}

// MarshalUser serializes a User to bytes.
func MarshalUser(u *core.User) []byte { return marshal(UserMUS, *u) }

// UnmarshalUser deserializes a User from bytes.
func UnmarshalUser(data []byte) (*core.User, error) {
	u, _, err := UserMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// MarshalDoctor serializes a Doctor to bytes.
func MarshalDoctor(d *core.Doctor) []byte { return marshal(DoctorMUS, *d) }

// UnmarshalDoctor deserializes a Doctor from bytes.
func UnmarshalDoctor(data []byte) (*core.Doctor, error) {
	d, _, err := DoctorMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// MarshalAppointment serializes an Appointment to bytes.
func MarshalAppointment(a *core.Appointment) []byte { return marshal(AppointmentMUS, *a) }

// UnmarshalAppointment deserializes an Appointment from bytes.
func UnmarshalAppointment(data []byte) (*core.Appointment, error) {
	a, _, err := AppointmentMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// MarshalMedication serializes a Medication to bytes.
func MarshalMedication(m *core.Medication) []byte { return marshal(MedicationMUS, *m) }

// UnmarshalMedication deserializes a Medication from bytes.
func UnmarshalMedication(data []byte) (*core.Medication, error) {
	m, _, err := MedicationMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// MarshalCondition serializes a Condition to bytes.
func MarshalCondition(c *core.Condition) []byte { return marshal(ConditionMUS, *c) }

// UnmarshalCondition deserializes a Condition from bytes.
func UnmarshalCondition(data []byte) (*core.Condition, error) {
	c, _, err := ConditionMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// MarshalTestResult serializes a TestResult to bytes.
func MarshalTestResult(t *core.TestResult) []byte { return marshal(TestResultMUS, *t) }

// UnmarshalTestResult deserializes a TestResult from bytes.
func UnmarshalTestResult(data []byte) (*core.TestResult, error) {
	t, _, err := TestResultMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// MarshalAppointmentNote serializes an AppointmentNote to bytes.
func MarshalAppointmentNote(n *core.AppointmentNote) []byte { return marshal(AppointmentNoteMUS, *n) }

// UnmarshalAppointmentNote deserializes an AppointmentNote from bytes.
func UnmarshalAppointmentNote(data []byte) (*core.AppointmentNote, error) {
	n, _, err := AppointmentNoteMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
