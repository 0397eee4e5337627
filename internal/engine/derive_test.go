package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStageIndicatorsTotal(t *testing.T) {
	tests := []struct {
		stage     Stage
		magnitude int
		pulse     bool
		sound     bool
	}{
		{StageEmergency, 100, true, true},
		{StageCritical, 85, true, false},
		{StageUrgent, 65, false, false},
		{StageAttention, 40, false, false},
		{StageNormal, 20, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.stage), func(t *testing.T) {
			ind := StageIndicators(tt.stage)
			assert.Equal(t, tt.magnitude, ind.Magnitude)
			assert.Equal(t, tt.pulse, ind.Pulse)
			assert.Equal(t, tt.sound, ind.Sound)
			assert.NotEmpty(t, ind.Icon)
			assert.NotEmpty(t, ind.Color)
		})
	}
}

func TestStageIndicatorsUnknownStage(t *testing.T) {
	assert.Equal(t, StageIndicators(StageNormal), StageIndicators("bogus"))
}

func TestDerive(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	deadline := now.Add(-100 * time.Hour)
	task := &CriticalTask{
		Title:      "file taxes",
		Importance: ImportanceCritical,
		Deadline:   &deadline,
		CreatedAt:  now.Add(-200 * time.Hour),
	}

	d := Derive(task, now)
	assert.InDelta(t, 1300, d.PriorityScore, 0.001)
	assert.Equal(t, StageEmergency, d.EscalationStage)
	assert.Equal(t, StageIndicators(StageEmergency), d.Indicators)
}

func TestDefaultMicroSteps(t *testing.T) {
	steps := DefaultMicroSteps()
	require.Len(t, steps, 3)

	seen := make(map[string]bool)
	for _, s := range steps {
		assert.NotEmpty(t, s.ID)
		assert.NotEmpty(t, s.Description)
		assert.NotEmpty(t, s.Estimate)
		assert.False(t, s.Completed)
		assert.False(t, seen[s.ID], "step IDs must be unique")
		seen[s.ID] = true
	}

	// IDs are minted fresh per call
	again := DefaultMicroSteps()
	assert.NotEqual(t, steps[0].ID, again[0].ID)
}
