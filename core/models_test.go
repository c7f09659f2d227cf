package core

import (
	"testing"
)

func TestIDFromContent(t *testing.T) {
	id1 := IDFromContent("Question: What is hypertension?\nAnswer: High blood pressure.")
	id2 := IDFromContent("Question: What is hypertension?\nAnswer: High blood pressure.")
	if id1 != id2 {
		t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
	}

	id3 := IDFromContent("different content")
	if id1 == id3 {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestParseIntent(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Intent
		wantErr bool
	}{
		{name: "personal", input: "PERSONAL", want: IntentPersonal},
		{name: "generic lowercase", input: "generic", want: IntentGeneric},
		{name: "hybrid with whitespace", input: "  HYBRID  ", want: IntentHybrid},
		{name: "mixed case", input: "Hybrid", want: IntentHybrid},
		{name: "invalid tag", input: "BOTH", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseIntent(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseIntent(%q) expected error, got %q", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseIntent(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseIntent(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRequiredData_Any(t *testing.T) {
	if (RequiredData{}).Any() {
		t.Error("empty RequiredData should report Any() = false")
	}
	if !(RequiredData{Conditions: true}).Any() {
		t.Error("RequiredData with one flag should report Any() = true")
	}
	all := AllRequiredData()
	if !all.Appointments || !all.Medications || !all.Conditions || !all.TestResults {
		t.Errorf("AllRequiredData() left a category unset: %+v", all)
	}
}

func TestTestStatus_IsAbnormal(t *testing.T) {
	tests := []struct {
		status TestStatus
		want   bool
	}{
		{TestStatusNormal, false},
		{TestStatusBorderline, true},
		{TestStatusHigh, true},
		{TestStatus(""), false},
		{TestStatus("critical"), true}, // open enum: unknown tags count as abnormal
	}

	for _, tt := range tests {
		if got := tt.status.IsAbnormal(); got != tt.want {
			t.Errorf("TestStatus(%q).IsAbnormal() = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestNormalizeTestStatus(t *testing.T) {
	if got := NormalizeTestStatus(" Normal "); got != TestStatusNormal {
		t.Errorf("NormalizeTestStatus = %q, want %q", got, TestStatusNormal)
	}
	if got := NormalizeTestStatus("HIGH"); got != TestStatusHigh {
		t.Errorf("NormalizeTestStatus = %q, want %q", got, TestStatusHigh)
	}
}

func TestNewKnowledgeDocument(t *testing.T) {
	doc := NewKnowledgeDocument("What is glaucoma?", "An eye disease.", "NIH", "Glaucoma")

	if doc.Text != "Question: What is glaucoma?\nAnswer: An eye disease." {
		t.Errorf("unexpected composite text: %q", doc.Text)
	}
	if doc.ID == 0 {
		t.Error("expected non-zero content-based ID")
	}

	same := NewKnowledgeDocument("What is glaucoma?", "An eye disease.", "Mayo", "Other")
	if same.ID != doc.ID {
		t.Error("ID should depend only on the composite text")
	}
}
