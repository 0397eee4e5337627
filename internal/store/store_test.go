package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lazypower/neverforget/internal/engine"
)

var frozen = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func testStore(t *testing.T) *Store {
	t.Helper()
	s := New(nil)
	s.SetClock(func() time.Time { return frozen })
	return s
}

func mustAdd(t *testing.T, s *Store, in AddInput) TaskView {
	t.Helper()
	v, err := s.Add(in)
	require.NoError(t, err)
	return v
}

func rfc(ts time.Time) string { return ts.Format(time.RFC3339) }

func TestAdd(t *testing.T) {
	s := testStore(t)

	v := mustAdd(t, s, AddInput{
		Title:    "  renew passport  ",
		Deadline: rfc(frozen.Add(48 * time.Hour)),
		Tags:     []string{"travel"},
	})

	assert.NotEmpty(t, v.ID)
	assert.Equal(t, "renew passport", v.Title)
	assert.Equal(t, engine.ImportanceHigh, v.Importance, "importance defaults to high")
	assert.False(t, v.Completed)
	assert.Len(t, v.MicroSteps, 3, "default micro-step template")
	assert.Equal(t, []string{"travel"}, v.Tags)

	// 50 base + 100 deadline<72h + 30 recency
	assert.InDelta(t, 180, v.PriorityScore, 0.001)
	assert.Equal(t, engine.StageAttention, v.EscalationStage)
}

func TestAddValidation(t *testing.T) {
	s := testStore(t)

	tests := []struct {
		name string
		in   AddInput
	}{
		{"empty title", AddInput{Title: ""}},
		{"whitespace title", AddInput{Title: "   "}},
		{"unknown importance", AddInput{Title: "x", Importance: "mega"}},
		{"bad deadline", AddInput{Title: "x", Deadline: "next tuesday"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Add(tt.in)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
		})
	}
	assert.Empty(t, s.List(ListOptions{IncludeCompleted: true}), "rejected adds must not insert")
}

func TestAddCustomSteps(t *testing.T) {
	s := testStore(t)

	v := mustAdd(t, s, AddInput{Title: "move house", Steps: []string{"book movers", "pack boxes"}})
	require.Len(t, v.MicroSteps, 2)
	assert.Equal(t, "book movers", v.MicroSteps[0].Description)
	assert.NotEmpty(t, v.MicroSteps[0].ID)
}

func TestComplete(t *testing.T) {
	s := testStore(t)
	v := mustAdd(t, s, AddInput{Title: "pay rent"})

	done, err := s.Complete(v.ID)
	require.NoError(t, err)
	assert.True(t, done.Completed)
	require.NotNil(t, done.CompletedAt)
	assert.Equal(t, frozen, *done.CompletedAt)

	// Re-completing is an error, not a no-op, and leaves fields unchanged.
	_, err = s.Complete(v.ID)
	require.ErrorIs(t, err, ErrAlreadyCompleted)
	after, err := s.Get(v.ID)
	require.NoError(t, err)
	assert.Equal(t, done.CompletedAt, after.CompletedAt)
	assert.Equal(t, done.UpdatedAt, after.UpdatedAt)
}

func TestCompleteNotFound(t *testing.T) {
	s := testStore(t)
	_, err := s.Complete("nope")
	require.ErrorIs(t, err, ErrTaskNotFound)
}

func TestSnooze(t *testing.T) {
	s := testStore(t)
	v := mustAdd(t, s, AddInput{Title: "call dentist"})

	until := frozen.Add(2 * time.Hour)
	snoozed, err := s.Snooze(v.ID, rfc(until), "waiting on schedule")
	require.NoError(t, err)

	assert.Equal(t, 1, snoozed.SnoozeCount)
	require.NotNil(t, snoozed.SnoozedUntil)
	assert.True(t, snoozed.SnoozedUntil.Equal(until))
	require.Len(t, snoozed.SnoozeHistory, 1)
	assert.Equal(t, frozen, snoozed.SnoozeHistory[0].SnoozedAt)
	assert.Equal(t, "waiting on schedule", snoozed.SnoozeHistory[0].Reason)

	// Active snooze suppresses the score, but the +20 penalty survives.
	// 50 base + 30 recency - 100 floored to 0, + 20 penalty.
	assert.InDelta(t, 20, snoozed.PriorityScore, 0.001)
}

func TestSnoozeRejections(t *testing.T) {
	s := testStore(t)
	v := mustAdd(t, s, AddInput{Title: "call dentist"})

	tests := []struct {
		name  string
		until string
	}{
		{"unparseable", "tomorrow-ish"},
		{"past", rfc(frozen.Add(-time.Hour))},
		{"exactly now", rfc(frozen)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Snooze(v.ID, tt.until, "")
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
		})
	}

	after, err := s.Get(v.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, after.SnoozeCount, "rejected snoozes must not mutate")
	assert.Nil(t, after.SnoozedUntil)
	assert.Empty(t, after.SnoozeHistory)
}

func TestSnoozeCompletedTask(t *testing.T) {
	s := testStore(t)
	v := mustAdd(t, s, AddInput{Title: "done already"})
	_, err := s.Complete(v.ID)
	require.NoError(t, err)

	_, err = s.Snooze(v.ID, rfc(frozen.Add(time.Hour)), "")
	require.ErrorIs(t, err, ErrAlreadyCompleted)
}

func TestSnoozeNotFound(t *testing.T) {
	s := testStore(t)
	_, err := s.Snooze("nope", rfc(frozen.Add(time.Hour)), "")
	require.ErrorIs(t, err, ErrTaskNotFound)
}

func TestAddNote(t *testing.T) {
	s := testStore(t)
	v := mustAdd(t, s, AddInput{Title: "write report"})

	noted, err := s.AddNote(v.ID, "  blocked on Q3 numbers  ")
	require.NoError(t, err)
	require.Len(t, noted.Notes, 1)
	assert.Equal(t, "blocked on Q3 numbers", noted.Notes[0].Text)
	assert.NotEmpty(t, noted.Notes[0].ID)

	_, err = s.AddNote("nope", "x")
	require.ErrorIs(t, err, ErrTaskNotFound)
}

func TestSetStepDone(t *testing.T) {
	s := testStore(t)
	v := mustAdd(t, s, AddInput{Title: "plan trip"})
	step := v.MicroSteps[0]

	updated, err := s.SetStepDone(v.ID, step.ID, true)
	require.NoError(t, err)
	assert.True(t, updated.MicroSteps[0].Completed)

	_, err = s.SetStepDone(v.ID, "missing-step", true)
	require.ErrorIs(t, err, ErrStepNotFound)

	_, err = s.SetStepDone("nope", step.ID, true)
	require.ErrorIs(t, err, ErrTaskNotFound)
}

func TestDelete(t *testing.T) {
	s := testStore(t)
	v := mustAdd(t, s, AddInput{Title: "temp"})

	require.NoError(t, s.Delete(v.ID))
	_, err := s.Get(v.ID)
	require.ErrorIs(t, err, ErrTaskNotFound)
	require.ErrorIs(t, s.Delete(v.ID), ErrTaskNotFound)
}

func TestClearCompleted(t *testing.T) {
	s := testStore(t)
	a := mustAdd(t, s, AddInput{Title: "a"})
	mustAdd(t, s, AddInput{Title: "b"})
	c := mustAdd(t, s, AddInput{Title: "c"})
	_, err := s.Complete(a.ID)
	require.NoError(t, err)
	_, err = s.Complete(c.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, s.ClearCompleted())
	assert.Equal(t, 0, s.ClearCompleted(), "second clear removes nothing")

	remaining := s.List(ListOptions{IncludeCompleted: true})
	require.Len(t, remaining, 1)
	assert.Equal(t, "b", remaining[0].Title)
}

func TestViewsAreSnapshots(t *testing.T) {
	s := testStore(t)
	v := mustAdd(t, s, AddInput{Title: "immutable", Tags: []string{"one"}})

	v.Tags[0] = "mutated"
	v.MicroSteps[0].Completed = true

	fresh, err := s.Get(v.ID)
	require.NoError(t, err)
	assert.Equal(t, "one", fresh.Tags[0])
	assert.False(t, fresh.MicroSteps[0].Completed)
}
