package loop

import "fmt"

// State is the lifecycle phase of an EventLoop.
type State int32

const (
	Uninitialized State = iota
	Activated
	Running
	Exiting
	Terminated
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Activated:
		return "activated"
	case Running:
		return "running"
	case Exiting:
		return "exiting"
	case Terminated:
		return "terminated"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}
