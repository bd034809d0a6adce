// Package schedule provides cooperative multi-frame tasks. A task is advanced
// once per frame by its owning Scheduler until it completes or is cancelled.
package schedule

type taskState uint8

const (
	taskRunning taskState = iota
	taskCompleted
	taskCancelled
)

// Task is a resumable unit of work. The step callback reports whether the
// task wants to run again on the next frame.
type Task struct {
	step       func(dt float64) bool
	onComplete func()
	elapsed    float64
	duration   float64
	state      taskState
}

// NewLoop creates a task that runs fn every frame until fn returns false.
func NewLoop(fn func(dt float64) bool) *Task {
	return &Task{step: fn, duration: -1}
}

// NewTask creates a task that calls fn once per frame while its elapsed time
// is below duration. The completion check happens before each step, so a task
// with duration 0 completes on its first advance without calling fn.
func NewTask(duration float64, fn func(dt, elapsed float64)) *Task {
	t := &Task{duration: duration}
	t.step = func(dt float64) bool {
		if t.elapsed >= t.duration {
			return false
		}
		if fn != nil {
			fn(dt, t.elapsed)
		}
		return true
	}
	return t
}

// Lerp creates a task that interpolates from a to b over duration seconds,
// calling apply with each intermediate value and b on completion.
func Lerp(a, b, duration float64, apply func(v float64)) *Task {
	t := NewTask(duration, nil)
	t.step = func(dt float64) bool {
		if duration <= 0 || t.elapsed+dt >= duration {
			apply(b)
			t.elapsed = duration
			return false
		}
		apply(a + (b-a)*((t.elapsed+dt)/duration))
		return true
	}
	return t
}

// OnComplete registers fn to run when the task finishes on its own. It does
// not run when the task is cancelled.
func (t *Task) OnComplete(fn func()) *Task {
	t.onComplete = fn
	return t
}

// Cancel stops the task. A cancelled task is never stepped again.
func (t *Task) Cancel() {
	if t == nil || t.state != taskRunning {
		return
	}
	t.state = taskCancelled
}

func (t *Task) Running() bool   { return t != nil && t.state == taskRunning }
func (t *Task) Completed() bool { return t != nil && t.state == taskCompleted }
func (t *Task) Cancelled() bool { return t != nil && t.state == taskCancelled }

// Elapsed returns the accumulated frame time.
func (t *Task) Elapsed() float64 {
	if t == nil {
		return 0
	}
	return t.elapsed
}

func (t *Task) advance(dt float64) bool {
	if t.state != taskRunning {
		return false
	}
	if !t.step(dt) {
		t.state = taskCompleted
		if t.onComplete != nil {
			t.onComplete()
		}
		return false
	}
	t.elapsed += dt
	return true
}
