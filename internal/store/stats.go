package store

import "github.com/lazypower/neverforget/internal/engine"

// Stats is a single-pass summary of the collection. Stage counts cover
// active tasks only and are recomputed as part of the pass.
type Stats struct {
	Total     int                  `json:"total"`
	Active    int                  `json:"active"`
	Completed int                  `json:"completed"`
	Overdue   int                  `json:"overdue"`
	Snoozed   int                  `json:"snoozed"`
	ByStage   map[engine.Stage]int `json:"by_stage"`
}

// Stats summarizes the collection as of call time.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	st := Stats{
		ByStage: map[engine.Stage]int{
			engine.StageNormal:    0,
			engine.StageAttention: 0,
			engine.StageUrgent:    0,
			engine.StageCritical:  0,
			engine.StageEmergency: 0,
		},
	}

	for _, task := range s.tasks {
		st.Total++
		if task.Completed {
			st.Completed++
			continue
		}
		st.Active++
		if task.Overdue(now) {
			st.Overdue++
		}
		if task.Snoozed(now) {
			st.Snoozed++
		}
		st.ByStage[engine.EscalationStage(task, now)]++
	}
	return st
}
