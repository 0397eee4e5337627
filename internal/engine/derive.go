package engine

import (
	"time"

	"github.com/google/uuid"
)

// Indicators is the display-intent bundle for an escalation stage. The
// tokens are symbolic; rendering them (emoji, ANSI colors) is a caller
// concern.
type Indicators struct {
	Icon      string `json:"icon"`
	Color     string `json:"color"`
	Magnitude int    `json:"magnitude"`
	Pulse     bool   `json:"pulse"`
	Sound     bool   `json:"sound"`
}

var stageIndicators = map[Stage]Indicators{
	StageEmergency: {Icon: "alert", Color: "red", Magnitude: 100, Pulse: true, Sound: true},
	StageCritical:  {Icon: "flame", Color: "orange", Magnitude: 85, Pulse: true},
	StageUrgent:    {Icon: "warning", Color: "yellow", Magnitude: 65},
	StageAttention: {Icon: "bell", Color: "blue", Magnitude: 40},
	StageNormal:    {Icon: "dot", Color: "gray", Magnitude: 20},
}

// StageIndicators returns the fixed indicator bundle for a stage. Unknown
// stages get the normal bundle.
func StageIndicators(s Stage) Indicators {
	if ind, ok := stageIndicators[s]; ok {
		return ind
	}
	return stageIndicators[StageNormal]
}

// Derived bundles the read-time projection of a task's urgency.
type Derived struct {
	PriorityScore   float64    `json:"priority_score"`
	EscalationStage Stage      `json:"escalation_stage"`
	Indicators      Indicators `json:"visual_indicators"`
}

// Derive computes the full derived view of a task at the given instant.
func Derive(t *CriticalTask, now time.Time) Derived {
	stage := EscalationStage(t, now)
	return Derived{
		PriorityScore:   PriorityScore(t, now),
		EscalationStage: stage,
		Indicators:      StageIndicators(stage),
	}
}

// DefaultMicroSteps returns the fixed starter checklist attached to a task
// created without caller-supplied steps. Each call mints fresh step IDs.
func DefaultMicroSteps() []MicroStep {
	return []MicroStep{
		{ID: uuid.NewString(), Description: "Review the task and clarify the outcome", Estimate: "5m"},
		{ID: uuid.NewString(), Description: "Break the work into concrete pieces", Estimate: "10m"},
		{ID: uuid.NewString(), Description: "Start with the easiest piece", Estimate: "15m"},
	}
}
