package effects

import "github.com/milk9111/mandible/schedule"

// Lifecycle is the phase of a tracked effect.
type Lifecycle int

const (
	Pending Lifecycle = iota
	Active
	Expired
)

func (l Lifecycle) String() string {
	switch l {
	case Pending:
		return "pending"
	case Active:
		return "active"
	case Expired:
		return "expired"
	default:
		return "unknown"
	}
}

// Info is the timing record of one tracked effect.
type Info struct {
	Duration float64
	Elapsed  float64
	State    Lifecycle

	task *schedule.Task
}

// Remaining is the time left before expiry.
func (i Info) Remaining() float64 {
	if r := i.Duration - i.Elapsed; r > 0 {
		return r
	}
	return 0
}
