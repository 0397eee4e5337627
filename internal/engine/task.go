package engine

import "time"

// Importance is the caller-assigned weight class of a task.
type Importance string

const (
	ImportanceCritical Importance = "critical"
	ImportanceHigh     Importance = "high"
	ImportanceMedium   Importance = "medium"
	ImportanceLow      Importance = "low"
)

// Valid reports whether i is one of the four known importance levels.
func (i Importance) Valid() bool {
	switch i {
	case ImportanceCritical, ImportanceHigh, ImportanceMedium, ImportanceLow:
		return true
	}
	return false
}

// Weight returns the base priority contribution for the importance level.
// Unknown values fall back to the medium weight.
func (i Importance) Weight() float64 {
	switch i {
	case ImportanceCritical:
		return 100
	case ImportanceHigh:
		return 50
	case ImportanceMedium:
		return 25
	case ImportanceLow:
		return 10
	default:
		return 25
	}
}

// MicroStep is a small sub-task attached to a critical task. The step list
// is fixed at creation; only the Completed flag mutates afterward.
type MicroStep struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	Estimate    string `json:"estimated_duration,omitempty"`
}

// Note is an append-only annotation on a task.
type Note struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// SnoozeEntry records a single deferral in a task's snooze history.
type SnoozeEntry struct {
	SnoozedAt    time.Time `json:"snoozed_at"`
	SnoozedUntil time.Time `json:"snoozed_until"`
	Reason       string    `json:"reason,omitempty"`
}

// CriticalTask holds the authoritative fields of a tracked task. Derived
// urgency values (score, stage, indicators) are never stored here; they are
// computed per observation via Derive.
type CriticalTask struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	Description   string        `json:"description,omitempty"`
	Importance    Importance    `json:"importance"`
	Deadline      *time.Time    `json:"deadline,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
	Completed     bool          `json:"completed"`
	CompletedAt   *time.Time    `json:"completed_at,omitempty"`
	SnoozedUntil  *time.Time    `json:"snoozed_until,omitempty"`
	SnoozeCount   int           `json:"snooze_count"`
	SnoozeHistory []SnoozeEntry `json:"snooze_history,omitempty"`
	MicroSteps    []MicroStep   `json:"micro_steps"`
	Notes         []Note        `json:"notes,omitempty"`
	Tags          []string      `json:"tags,omitempty"`
}

// Snoozed reports whether the task has an active snooze at the given instant.
func (t *CriticalTask) Snoozed(now time.Time) bool {
	return t.SnoozedUntil != nil && t.SnoozedUntil.After(now)
}

// Overdue reports whether the task has a deadline in the past at the given
// instant. Completed tasks are never considered overdue.
func (t *CriticalTask) Overdue(now time.Time) bool {
	return !t.Completed && t.Deadline != nil && t.Deadline.Before(now)
}
