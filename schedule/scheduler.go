package schedule

// Scheduler owns a set of tasks and advances them once per frame.
type Scheduler struct {
	tasks []*Task
}

// Start adds t to the scheduler. It is first stepped on the next Advance.
func (s *Scheduler) Start(t *Task) *Task {
	if s == nil || t == nil || t.state != taskRunning {
		return t
	}
	s.tasks = append(s.tasks, t)
	return t
}

// Advance steps every running task once. Tasks started during Advance wait
// for the next frame; finished and cancelled tasks are dropped.
func (s *Scheduler) Advance(dt float64) {
	if s == nil || len(s.tasks) == 0 {
		return
	}
	current := s.tasks
	s.tasks = nil
	kept := current[:0]
	for _, t := range current {
		if t.advance(dt) {
			kept = append(kept, t)
		}
	}
	s.tasks = append(kept, s.tasks...)
}

// CancelAll cancels and drops every task.
func (s *Scheduler) CancelAll() {
	if s == nil {
		return
	}
	for _, t := range s.tasks {
		t.Cancel()
	}
	s.tasks = nil
}

// Len returns the number of tasks still scheduled.
func (s *Scheduler) Len() int {
	if s == nil {
		return 0
	}
	return len(s.tasks)
}
