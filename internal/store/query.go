package store

import (
	"sort"

	"github.com/lazypower/neverforget/internal/engine"
)

// ListOptions controls the read pipeline: completed-filter, stage-filter,
// then sort by descending score, then truncate.
type ListOptions struct {
	IncludeCompleted bool
	Stage            engine.Stage // filter to one stage when non-empty
	Limit            int          // 0 means no limit
}

// List returns the live collection with derived fields recomputed as of
// call time. The result is sorted by priority score descending; ties keep
// insertion order. Authoritative fields are never mutated by a read.
func (s *Store) List(opts ListOptions) []TaskView {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	views := make([]TaskView, 0, len(s.order))
	for _, id := range s.order {
		task := s.tasks[id]
		if task.Completed && !opts.IncludeCompleted {
			continue
		}
		v := view(task, now)
		if opts.Stage != "" && v.EscalationStage != opts.Stage {
			continue
		}
		views = append(views, v)
	}

	sort.SliceStable(views, func(i, j int) bool {
		return views[i].PriorityScore > views[j].PriorityScore
	})

	if opts.Limit > 0 && len(views) > opts.Limit {
		views = views[:opts.Limit]
	}
	return views
}

// TopPriority returns the n highest-scoring active tasks. Non-positive n
// falls back to 3.
func (s *Store) TopPriority(n int) []TaskView {
	if n <= 0 {
		n = 3
	}
	return s.List(ListOptions{Limit: n})
}

// UrgentAlerts returns the active tasks whose recomputed stage is critical
// or emergency, sorted by score descending.
func (s *Store) UrgentAlerts() []TaskView {
	all := s.List(ListOptions{})
	alerts := make([]TaskView, 0, len(all))
	for _, v := range all {
		if v.EscalationStage == engine.StageCritical || v.EscalationStage == engine.StageEmergency {
			alerts = append(alerts, v)
		}
	}
	return alerts
}
