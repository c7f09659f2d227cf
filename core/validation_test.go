package core

import (
	"errors"
	"testing"
	"time"
)

func TestValidateUser(t *testing.T) {
	valid := &User{ID: "demo_user", Name: "Demo User", Age: 35}
	if err := ValidateUser(valid); err != nil {
		t.Errorf("valid user rejected: %v", err)
	}

	if err := ValidateUser(nil); !errors.Is(err, ErrInvalidUser) {
		t.Errorf("nil user: got %v, want ErrInvalidUser", err)
	}
	if err := ValidateUser(&User{Name: "No ID"}); !errors.Is(err, ErrEmptyUserID) {
		t.Errorf("missing ID: got %v, want ErrEmptyUserID", err)
	}
	if err := ValidateUser(&User{ID: "u1"}); !errors.Is(err, ErrEmptyName) {
		t.Errorf("missing name: got %v, want ErrEmptyName", err)
	}
}

func TestValidateAppointment(t *testing.T) {
	valid := &Appointment{UserID: "demo_user", Date: time.Now(), Time: "14:30"}
	if err := ValidateAppointment(valid); err != nil {
		t.Errorf("valid appointment rejected: %v", err)
	}

	if err := ValidateAppointment(&Appointment{Date: time.Now()}); !errors.Is(err, ErrEmptyUserID) {
		t.Errorf("missing user: got %v, want ErrEmptyUserID", err)
	}
	if err := ValidateAppointment(&Appointment{UserID: "u1"}); !errors.Is(err, ErrZeroDate) {
		t.Errorf("zero date: got %v, want ErrZeroDate", err)
	}
}

func TestValidateMedication(t *testing.T) {
	if err := ValidateMedication(&Medication{UserID: "u1", Name: "Metformin"}); err != nil {
		t.Errorf("valid medication rejected: %v", err)
	}
	if err := ValidateMedication(&Medication{UserID: "u1"}); !errors.Is(err, ErrInvalidMedication) {
		t.Errorf("missing name: got %v, want ErrInvalidMedication", err)
	}
}

func TestValidateCondition(t *testing.T) {
	if err := ValidateCondition(&Condition{UserID: "u1", Name: "Hypertension"}); err != nil {
		t.Errorf("valid condition rejected: %v", err)
	}
	if err := ValidateCondition(&Condition{Name: "Hypertension"}); !errors.Is(err, ErrEmptyUserID) {
		t.Errorf("missing user: got %v, want ErrEmptyUserID", err)
	}
}

func TestValidateTestResult(t *testing.T) {
	valid := &TestResult{UserID: "u1", TestName: "Blood Pressure", Status: TestStatus("unusual")}
	if err := ValidateTestResult(valid); err != nil {
		t.Errorf("open-enum status should not be rejected: %v", err)
	}
	if err := ValidateTestResult(&TestResult{UserID: "u1"}); !errors.Is(err, ErrInvalidTestResult) {
		t.Errorf("missing test name: got %v, want ErrInvalidTestResult", err)
	}
}

func TestValidateDoctor(t *testing.T) {
	if err := ValidateDoctor(&Doctor{Name: "Dr. Sarah Johnson"}); err != nil {
		t.Errorf("valid doctor rejected: %v", err)
	}
	if err := ValidateDoctor(&Doctor{Specialty: "Cardiology"}); !errors.Is(err, ErrEmptyName) {
		t.Errorf("missing name: got %v, want ErrEmptyName", err)
	}
}
