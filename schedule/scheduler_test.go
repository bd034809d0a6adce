package schedule

import (
	"math"
	"testing"
)

const frame = 0.25

func TestTaskRunsUntilDuration(t *testing.T) {
	var s Scheduler
	steps := 0
	completed := false
	task := s.Start(NewTask(1, func(dt, elapsed float64) { steps++ }).OnComplete(func() { completed = true }))

	for i := 0; i < 10; i++ {
		s.Advance(frame)
	}

	if steps != 4 {
		t.Fatalf("expected 4 steps for 1s at %.2fs frames, got %d", frame, steps)
	}
	if !task.Completed() || !completed {
		t.Fatalf("expected task completed with callback")
	}
	if s.Len() != 0 {
		t.Fatalf("completed task should be dropped, %d left", s.Len())
	}
}

func TestTaskStartedIsNotSteppedUntilAdvance(t *testing.T) {
	var s Scheduler
	steps := 0
	s.Start(NewLoop(func(float64) bool { steps++; return true }))
	if steps != 0 {
		t.Fatalf("Start must not step the task")
	}
	s.Advance(frame)
	if steps != 1 {
		t.Fatalf("expected one step, got %d", steps)
	}
}

func TestCancelledTaskNeverSteps(t *testing.T) {
	var s Scheduler
	steps := 0
	completed := false
	task := s.Start(NewLoop(func(float64) bool { steps++; return true }).OnComplete(func() { completed = true }))

	s.Advance(frame)
	task.Cancel()
	s.Advance(frame)
	s.Advance(frame)

	if steps != 1 {
		t.Fatalf("expected no steps after cancel, got %d", steps)
	}
	if completed {
		t.Fatalf("cancel must not run completion")
	}
	if !task.Cancelled() || task.Running() {
		t.Fatalf("expected cancelled state")
	}
	if s.Len() != 0 {
		t.Fatalf("cancelled task should be dropped")
	}
}

func TestTaskStartedDuringAdvanceWaitsForNextFrame(t *testing.T) {
	var s Scheduler
	innerSteps := 0
	s.Start(NewLoop(func(float64) bool {
		s.Start(NewLoop(func(float64) bool { innerSteps++; return false }))
		return false
	}))

	s.Advance(frame)
	if innerSteps != 0 {
		t.Fatalf("inner task ran in the frame it was started")
	}
	s.Advance(frame)
	if innerSteps != 1 {
		t.Fatalf("expected inner task to run once, got %d", innerSteps)
	}
}

func TestCancelAll(t *testing.T) {
	var s Scheduler
	a := s.Start(NewLoop(func(float64) bool { return true }))
	b := s.Start(NewTask(5, nil))
	s.CancelAll()
	if !a.Cancelled() || !b.Cancelled() || s.Len() != 0 {
		t.Fatalf("expected every task cancelled")
	}
}

func TestLerp(t *testing.T) {
	var s Scheduler
	var values []float64
	s.Start(Lerp(0, 10, 1, func(v float64) { values = append(values, v) }))
	for i := 0; i < 6; i++ {
		s.Advance(frame)
	}

	want := []float64{2.5, 5, 7.5, 10}
	if len(values) != len(want) {
		t.Fatalf("expected %v, got %v", want, values)
	}
	for i := range want {
		if math.Abs(values[i]-want[i]) > 1e-9 {
			t.Fatalf("value %d: expected %v, got %v", i, want[i], values[i])
		}
	}
}
