package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/poiesic/healthmate/core"
)

func TestFallbackClassify(t *testing.T) {
	tests := []struct {
		name     string
		question string
		intent   core.Intent
		required core.RequiredData
	}{
		{
			name:     "personal with medications and condition",
			question: "What medications am I taking for diabetes?",
			intent:   core.IntentPersonal,
			required: core.RequiredData{Medications: true, Conditions: true},
		},
		{
			name:     "generic definition question",
			question: "What is high blood pressure?",
			intent:   core.IntentGeneric,
			required: core.RequiredData{},
		},
		{
			name:     "hybrid needs both hybrid and personal keyword",
			question: "Should I be worried about my blood pressure reading given my condition?",
			intent:   core.IntentHybrid,
			required: core.RequiredData{Conditions: true, TestResults: true},
		},
		{
			name:     "personal appointment question",
			question: "When is my next appointment?",
			intent:   core.IntentPersonal,
			required: core.RequiredData{Appointments: true},
		},
		{
			name:     "personal with no category keywords fetches everything",
			question: "Am I healthy?",
			intent:   core.IntentPersonal,
			required: core.AllRequiredData(),
		},
		{
			name:     "hybrid with no category keywords fetches everything",
			question: "Can I eat grapefruit with my current prescriptions?",
			intent:   core.IntentHybrid,
			required: core.AllRequiredData(),
		},
		{
			name:     "hybrid keyword without personal keyword stays generic",
			question: "Can someone exercise after surgery?",
			intent:   core.IntentGeneric,
			required: core.RequiredData{},
		},
		{
			name:     "case insensitive matching",
			question: "WHAT MEDICATIONS AM I TAKING?",
			intent:   core.IntentPersonal,
			required: core.RequiredData{Medications: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FallbackClassify(tt.question)
			assert.Equal(t, tt.intent, got.Intent)
			assert.Equal(t, tt.required, got.Required)
		})
	}
}

func TestFallbackClassify_Deterministic(t *testing.T) {
	question := "Should I be concerned about my test results?"
	first := FallbackClassify(question)
	for range 10 {
		assert.Equal(t, first, FallbackClassify(question))
	}
}
