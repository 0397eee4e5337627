package engine

// Priority scoring and escalation stages.
//
// Score model:
//   - Base: importance weight (critical=100, high=50, medium=25, low=10)
//   - Deadline pressure: overdue grows without bound (200 + 10/hour),
//     otherwise a step function of remaining time
//   - Recency boost: fresh tasks get temporary visibility so they aren't
//     buried under older high-score items
//   - Active snooze subtracts 100 from the accumulated total, floored at 0.
//     The subtraction applies to the total, not the base: a heavily overdue
//     snoozed task resurfaces once the overdue term dominates.
//   - Every recorded snooze adds a permanent +20: repeated avoidance raises
//     baseline urgency regardless of whether a snooze is currently active.
//
// Both functions are pure; callers pass the observation instant explicitly.

import (
	"math"
	"time"
)

// Stage is the discrete escalation classification of a task.
type Stage string

const (
	StageNormal    Stage = "normal"
	StageAttention Stage = "attention"
	StageUrgent    Stage = "urgent"
	StageCritical  Stage = "critical"
	StageEmergency Stage = "emergency"
)

// Valid reports whether s is one of the five known stages.
func (s Stage) Valid() bool {
	switch s {
	case StageNormal, StageAttention, StageUrgent, StageCritical, StageEmergency:
		return true
	}
	return false
}

// PriorityScore computes the numeric urgency of a task at the given instant.
// The score is used for ordering only; it is always non-negative.
func PriorityScore(t *CriticalTask, now time.Time) float64 {
	score := t.Importance.Weight()

	if t.Deadline != nil {
		hoursLeft := t.Deadline.Sub(now).Hours()
		switch {
		case hoursLeft < 0:
			score += 200 + 10*-hoursLeft
		case hoursLeft < 24:
			score += 150
		case hoursLeft < 72:
			score += 100
		case hoursLeft < 168:
			score += 50
		}
	}

	age := now.Sub(t.CreatedAt)
	switch {
	case age < time.Hour:
		score += 30
	case age < 24*time.Hour:
		score += 10
	}

	if t.Snoozed(now) {
		score -= 100
		if score < 0 {
			score = 0
		}
	}

	score += 20 * float64(t.SnoozeCount)

	return math.Max(0, score)
}

// EscalationStage classifies a task at the given instant. Overdue branches
// win over remaining-time branches, which win over the snooze-count
// fallback. Thresholds are half-open on the lower bound: exactly 0h
// remaining is "< 6h", exactly 6h remaining is "< 24h".
func EscalationStage(t *CriticalTask, now time.Time) Stage {
	if t.Deadline == nil {
		if t.SnoozeCount >= 5 {
			return StageUrgent
		}
		return StageNormal
	}

	hoursLeft := t.Deadline.Sub(now).Hours()
	if hoursLeft < 0 {
		overdue := -hoursLeft
		switch {
		case overdue > 72:
			return StageEmergency
		case overdue > 24:
			return StageCritical
		default:
			return StageUrgent
		}
	}

	switch {
	case hoursLeft < 6:
		return StageCritical
	case hoursLeft < 24:
		return StageUrgent
	case hoursLeft < 72:
		return StageAttention
	}

	switch {
	case t.SnoozeCount >= 5:
		return StageUrgent
	case t.SnoozeCount >= 3:
		return StageAttention
	}
	return StageNormal
}
