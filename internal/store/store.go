package store

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lazypower/neverforget/internal/engine"
)

// Store owns the authoritative critical-task collection. All state is
// in-process and lives for the process lifetime only. A single coarse
// mutex guards every operation: commands read-then-write authoritative
// fields non-atomically, so there is no per-field locking.
//
// Derived urgency values are never stored. Queries recompute them through
// engine.Derive at observation time, so a score or stage is always fresh
// relative to the call, never stale from insertion time.
type Store struct {
	mu     sync.Mutex
	tasks  map[string]*engine.CriticalTask
	order  []string // insertion order, for stable iteration
	logger *zap.Logger
	now    func() time.Time
}

// New creates an empty Store. A nil logger disables logging.
func New(logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		tasks:  make(map[string]*engine.CriticalTask),
		logger: logger,
		now:    time.Now,
	}
}

// SetClock overrides the store's time source. Test use only.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

// TaskView is a task snapshot bundled with its derived urgency values as
// of one observation instant.
type TaskView struct {
	engine.CriticalTask
	engine.Derived
}

// view deep-copies the task so callers cannot mutate authoritative state,
// and attaches the derived projection for the given instant.
func view(t *engine.CriticalTask, now time.Time) TaskView {
	cp := *t
	cp.SnoozeHistory = append([]engine.SnoozeEntry(nil), t.SnoozeHistory...)
	cp.MicroSteps = append([]engine.MicroStep(nil), t.MicroSteps...)
	cp.Notes = append([]engine.Note(nil), t.Notes...)
	cp.Tags = append([]string(nil), t.Tags...)
	return TaskView{CriticalTask: cp, Derived: engine.Derive(t, now)}
}

// AddInput is the create command payload.
type AddInput struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Importance  engine.Importance `json:"importance"`
	Deadline    string            `json:"deadline"` // RFC 3339, optional
	Tags        []string          `json:"tags"`
	Steps       []string          `json:"steps"` // custom micro-step descriptions, optional
}

// Add validates the input, builds a new task with defaults, and inserts
// it. The returned view carries derived fields as of insertion time.
func (s *Store) Add(in AddInput) (TaskView, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return TaskView{}, validationErr("title", "must not be empty")
	}

	importance := in.Importance
	if importance == "" {
		importance = engine.ImportanceHigh
	} else if !importance.Valid() {
		return TaskView{}, validationErr("importance", fmt.Sprintf("unknown level %q", in.Importance))
	}

	var deadline *time.Time
	if in.Deadline != "" {
		d, err := time.Parse(time.RFC3339, in.Deadline)
		if err != nil {
			return TaskView{}, validationErr("deadline", "must be an RFC 3339 timestamp")
		}
		deadline = &d
	}

	steps := engine.DefaultMicroSteps()
	if len(in.Steps) > 0 {
		steps = make([]engine.MicroStep, 0, len(in.Steps))
		for _, desc := range in.Steps {
			steps = append(steps, engine.MicroStep{ID: uuid.NewString(), Description: desc})
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	task := &engine.CriticalTask{
		ID:          uuid.NewString(),
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Importance:  importance,
		Deadline:    deadline,
		CreatedAt:   now,
		UpdatedAt:   now,
		MicroSteps:  steps,
		Tags:        append([]string(nil), in.Tags...),
	}
	s.tasks[task.ID] = task
	s.order = append(s.order, task.ID)

	s.logger.Info("task added",
		zap.String("task_id", task.ID),
		zap.String("importance", string(task.Importance)),
		zap.Bool("has_deadline", task.Deadline != nil),
	)
	return view(task, now), nil
}

// Get returns a single task with fresh derived fields.
func (s *Store) Get(id string) (TaskView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return TaskView{}, fmt.Errorf("get %s: %w", id, ErrTaskNotFound)
	}
	return view(task, s.now()), nil
}

// Complete marks a task done. Completion is not idempotent: re-completing
// an already-completed task is an error and leaves the task unchanged.
func (s *Store) Complete(id string) (TaskView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return TaskView{}, fmt.Errorf("complete %s: %w", id, ErrTaskNotFound)
	}
	if task.Completed {
		return TaskView{}, fmt.Errorf("complete %s: %w", id, ErrAlreadyCompleted)
	}

	now := s.now()
	task.Completed = true
	task.CompletedAt = &now
	task.UpdatedAt = now

	s.logger.Info("task completed", zap.String("task_id", id))
	return view(task, now), nil
}

// Snooze defers a task until a future instant and records the deferral in
// the task's history. All checks run before any field is written.
func (s *Store) Snooze(id, until, reason string) (TaskView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return TaskView{}, fmt.Errorf("snooze %s: %w", id, ErrTaskNotFound)
	}
	if task.Completed {
		return TaskView{}, fmt.Errorf("snooze %s: %w", id, ErrAlreadyCompleted)
	}

	u, err := time.Parse(time.RFC3339, until)
	if err != nil {
		return TaskView{}, validationErr("until", "must be an RFC 3339 timestamp")
	}
	now := s.now()
	if !u.After(now) {
		return TaskView{}, validationErr("until", "must be in the future")
	}

	task.SnoozedUntil = &u
	task.SnoozeCount++
	task.SnoozeHistory = append(task.SnoozeHistory, engine.SnoozeEntry{
		SnoozedAt:    now,
		SnoozedUntil: u,
		Reason:       reason,
	})
	task.UpdatedAt = now

	s.logger.Info("task snoozed",
		zap.String("task_id", id),
		zap.Time("until", u),
		zap.Int("snooze_count", task.SnoozeCount),
	)
	return view(task, now), nil
}

// AddNote appends an annotation to a task. Notes are append-only and
// never evicted.
func (s *Store) AddNote(id, text string) (TaskView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return TaskView{}, fmt.Errorf("add note %s: %w", id, ErrTaskNotFound)
	}

	now := s.now()
	task.Notes = append(task.Notes, engine.Note{
		ID:        uuid.NewString(),
		Text:      strings.TrimSpace(text),
		CreatedAt: now,
	})
	task.UpdatedAt = now

	s.logger.Info("note added", zap.String("task_id", id), zap.Int("note_count", len(task.Notes)))
	return view(task, now), nil
}

// SetStepDone sets the completed flag of a single micro-step.
func (s *Store) SetStepDone(id, stepID string, done bool) (TaskView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return TaskView{}, fmt.Errorf("update step %s: %w", id, ErrTaskNotFound)
	}

	for i := range task.MicroSteps {
		if task.MicroSteps[i].ID != stepID {
			continue
		}
		now := s.now()
		task.MicroSteps[i].Completed = done
		task.UpdatedAt = now
		s.logger.Info("micro-step updated",
			zap.String("task_id", id),
			zap.String("step_id", stepID),
			zap.Bool("done", done),
		)
		return view(task, now), nil
	}
	return TaskView{}, fmt.Errorf("update step %s/%s: %w", id, stepID, ErrStepNotFound)
}

// Delete removes a single task from the collection.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return fmt.Errorf("delete %s: %w", id, ErrTaskNotFound)
	}
	delete(s.tasks, id)
	s.removeFromOrder(id)

	s.logger.Info("task deleted", zap.String("task_id", id))
	return nil
}

// ClearCompleted removes every completed task and returns the count removed.
func (s *Store) ClearCompleted() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	kept := s.order[:0]
	for _, id := range s.order {
		if t := s.tasks[id]; t != nil && t.Completed {
			delete(s.tasks, id)
			removed++
			continue
		}
		kept = append(kept, id)
	}
	s.order = kept

	if removed > 0 {
		s.logger.Info("completed tasks cleared", zap.Int("removed", removed))
	}
	return removed
}

func (s *Store) removeFromOrder(id string) {
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}
